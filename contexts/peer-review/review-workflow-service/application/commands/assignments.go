package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "confman/contexts/peer-review/review-workflow-service/application"
	"confman/contexts/peer-review/review-workflow-service/application/queries"
	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"
	"confman/contexts/peer-review/review-workflow-service/ports"
)

type SelfAssignCommand struct {
	ReviewerID   string
	SubmissionID string
	ConferenceID string
}

// AssignReviewerCommand is a chair assigning a reviewer; the reviewer still
// has to accept it.
type AssignReviewerCommand struct {
	ChairID      string
	ReviewerID   string
	SubmissionID string
	ConferenceID string
	DueDate      *time.Time
}

type UpdateAssignmentStatusCommand struct {
	AssignmentID string
	ReviewerID   string
	Status       entities.AssignmentStatus
}

type AssignmentUseCase struct {
	Preferences ports.PreferenceRepository
	Assignments ports.AssignmentRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Metrics     ports.Metrics
	Logger      *slog.Logger
}

// SelfAssign lets a reviewer claim a submission in a track they already
// accepted, so the assignment starts out ACCEPTED.
func (uc AssignmentUseCase) SelfAssign(ctx context.Context, cmd SelfAssignCommand) (_ entities.Assignment, err error) {
	defer application.Observe(uc.Metrics, "self_assign", time.Now(), &err)
	logger := application.ResolveLogger(uc.Logger)

	reviewerID := strings.TrimSpace(cmd.ReviewerID)
	submissionID := strings.TrimSpace(cmd.SubmissionID)
	conferenceID := optionalString(cmd.ConferenceID)
	if reviewerID == "" || submissionID == "" {
		return entities.Assignment{}, domainerrors.ErrInvalidInput
	}

	if err := uc.ensureNoConflict(ctx, reviewerID, submissionID); err != nil {
		logger.Warn("self-assignment blocked by conflict of interest",
			"event", "review_workflow_self_assign_blocked",
			"module", application.ModuleName(),
			"layer", "application",
			"reviewer_id", reviewerID,
			"submission_id", submissionID,
		)
		return entities.Assignment{}, err
	}

	now := uc.Clock.Now().UTC()
	existing, found, err := uc.Assignments.FindAssignment(ctx, reviewerID, submissionID, conferenceID)
	if err != nil {
		return entities.Assignment{}, err
	}
	if found {
		// COMPLETED is terminal; its review stays editable through SubmitReview.
		if existing.Status == entities.AssignmentStatusAccepted || existing.Status == entities.AssignmentStatusCompleted {
			return existing, nil
		}
		previous := existing.Status
		existing.Status = entities.AssignmentStatusAccepted
		existing.UpdatedAt = now
		if err := uc.Assignments.UpdateAssignment(ctx, existing); err != nil {
			return entities.Assignment{}, err
		}
		uc.emit(ctx, "assignment.self_assigned", existing, now, string(previous))
		logger.Info("existing assignment forced to accepted",
			"event", "review_workflow_self_assign_reactivated",
			"module", application.ModuleName(),
			"layer", "application",
			"assignment_id", existing.AssignmentID,
			"previous_status", string(previous),
		)
		return existing, nil
	}

	assignmentID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Assignment{}, err
	}
	assignment := entities.Assignment{
		AssignmentID: assignmentID,
		ReviewerID:   reviewerID,
		SubmissionID: submissionID,
		ConferenceID: conferenceID,
		Status:       entities.AssignmentStatusAccepted,
		AssignedBy:   reviewerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.Assignments.CreateAssignment(ctx, assignment); err != nil {
		return entities.Assignment{}, err
	}
	uc.emit(ctx, "assignment.self_assigned", assignment, now, "")

	logger.Info("reviewer self-assigned",
		"event", "review_workflow_self_assigned",
		"module", application.ModuleName(),
		"layer", "application",
		"assignment_id", assignment.AssignmentID,
		"reviewer_id", reviewerID,
		"submission_id", submissionID,
	)
	return assignment, nil
}

// AssignReviewer creates a PENDING assignment on behalf of a chair.
func (uc AssignmentUseCase) AssignReviewer(ctx context.Context, cmd AssignReviewerCommand) (_ entities.Assignment, err error) {
	defer application.Observe(uc.Metrics, "assign_reviewer", time.Now(), &err)
	logger := application.ResolveLogger(uc.Logger)

	chairID := strings.TrimSpace(cmd.ChairID)
	reviewerID := strings.TrimSpace(cmd.ReviewerID)
	submissionID := strings.TrimSpace(cmd.SubmissionID)
	conferenceID := optionalString(cmd.ConferenceID)
	if chairID == "" || reviewerID == "" || submissionID == "" {
		return entities.Assignment{}, domainerrors.ErrInvalidInput
	}
	if err := uc.ensureNoConflict(ctx, reviewerID, submissionID); err != nil {
		return entities.Assignment{}, err
	}

	if existing, found, err := uc.Assignments.FindAssignment(ctx, reviewerID, submissionID, conferenceID); err != nil {
		return entities.Assignment{}, err
	} else if found {
		return entities.Assignment{}, domainerrors.New(
			domainerrors.ErrAssignmentExists,
			existing.AssignmentID,
			chairID,
			string(existing.Status),
			"",
		)
	}

	assignmentID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Assignment{}, err
	}
	now := uc.Clock.Now().UTC()
	assignment := entities.Assignment{
		AssignmentID: assignmentID,
		ReviewerID:   reviewerID,
		SubmissionID: submissionID,
		ConferenceID: conferenceID,
		Status:       entities.AssignmentStatusPending,
		AssignedBy:   chairID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if cmd.DueDate != nil {
		due := cmd.DueDate.UTC()
		assignment.DueDate = &due
	}
	if err := uc.Assignments.CreateAssignment(ctx, assignment); err != nil {
		return entities.Assignment{}, err
	}
	uc.emit(ctx, "assignment.created", assignment, now, "")

	logger.Info("reviewer assigned",
		"event", "review_workflow_reviewer_assigned",
		"module", application.ModuleName(),
		"layer", "application",
		"assignment_id", assignment.AssignmentID,
		"reviewer_id", reviewerID,
		"submission_id", submissionID,
		"assigned_by", chairID,
	)
	return assignment, nil
}

// UpdateStatus is the reviewer answering a PENDING assignment.
func (uc AssignmentUseCase) UpdateStatus(ctx context.Context, cmd UpdateAssignmentStatusCommand) (_ entities.Assignment, err error) {
	defer application.Observe(uc.Metrics, "update_assignment_status", time.Now(), &err)
	logger := application.ResolveLogger(uc.Logger)

	assignmentID := strings.TrimSpace(cmd.AssignmentID)
	reviewerID := strings.TrimSpace(cmd.ReviewerID)
	if cmd.Status != entities.AssignmentStatusAccepted && cmd.Status != entities.AssignmentStatusRejected {
		return entities.Assignment{}, domainerrors.ErrInvalidInput
	}

	assignment, err := uc.Assignments.GetAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return entities.Assignment{}, domainerrors.New(domainerrors.ErrAssignmentNotFound, assignmentID, reviewerID, "", "")
		}
		return entities.Assignment{}, err
	}
	if assignment.ReviewerID != reviewerID {
		return entities.Assignment{}, domainerrors.New(domainerrors.ErrForbidden, assignmentID, reviewerID, "", "assignment belongs to another reviewer")
	}
	if !assignment.CanRespond() {
		return entities.Assignment{}, domainerrors.New(
			domainerrors.ErrInvalidState,
			assignmentID,
			reviewerID,
			string(assignment.Status),
			"only pending assignments can be accepted or rejected",
		)
	}
	if cmd.Status == entities.AssignmentStatusAccepted {
		if err := uc.ensureNoConflict(ctx, reviewerID, assignment.SubmissionID); err != nil {
			return entities.Assignment{}, err
		}
	}

	now := uc.Clock.Now().UTC()
	assignment.Status = cmd.Status
	assignment.UpdatedAt = now
	if err := uc.Assignments.UpdateAssignment(ctx, assignment); err != nil {
		return entities.Assignment{}, err
	}
	uc.emit(ctx, "assignment.status_changed", assignment, now, string(entities.AssignmentStatusPending))

	logger.Info("assignment status updated",
		"event", "review_workflow_assignment_status_updated",
		"module", application.ModuleName(),
		"layer", "application",
		"assignment_id", assignment.AssignmentID,
		"reviewer_id", reviewerID,
		"status", string(assignment.Status),
	)
	return assignment, nil
}

func (uc AssignmentUseCase) ensureNoConflict(ctx context.Context, reviewerID string, submissionID string) error {
	conflict, err := queries.ConflictChecker{Preferences: uc.Preferences}.HasConflict(ctx, reviewerID, submissionID, nil)
	if err != nil {
		return err
	}
	if conflict {
		return domainerrors.New(domainerrors.ErrConflictOfInterest, submissionID, reviewerID, "", "")
	}
	return nil
}

func (uc AssignmentUseCase) emit(
	ctx context.Context,
	eventType string,
	assignment entities.Assignment,
	now time.Time,
	previousStatus string,
) {
	data := map[string]any{
		"assignment_id": assignment.AssignmentID,
		"reviewer_id":   assignment.ReviewerID,
		"submission_id": assignment.SubmissionID,
		"conference_id": derefString(assignment.ConferenceID),
		"status":        string(assignment.Status),
		"assigned_by":   assignment.AssignedBy,
	}
	if previousStatus != "" {
		data["previous_status"] = previousStatus
	}
	emitEvent(ctx, uc.Outbox, uc.IDGen, application.BestEffort{Logger: uc.Logger, Metrics: uc.Metrics},
		eventType, assignment.SubmissionID, now, data)
}
