package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "confman/contexts/peer-review/review-workflow-service/application"
	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"
	"confman/contexts/peer-review/review-workflow-service/ports"
)

type SubmitReviewCommand struct {
	ReviewerID   string
	AssignmentID string
	Content      entities.ReviewContent
	// AuthToken enables the submission status push when set.
	AuthToken string
}

type ReviewUseCase struct {
	Assignments ports.AssignmentRepository
	Reviews     ports.ReviewRepository
	Submissions ports.SubmissionClient
	Outbox      ports.OutboxWriter
	Incidents   ports.IncidentReporter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Metrics     ports.Metrics
	Logger      *slog.Logger
}

// SubmitReview creates the review for an ACCEPTED assignment and completes it,
// or edits the existing review of a COMPLETED assignment until its due date.
func (uc ReviewUseCase) SubmitReview(ctx context.Context, cmd SubmitReviewCommand) (_ entities.Review, err error) {
	defer application.Observe(uc.Metrics, "submit_review", time.Now(), &err)
	logger := application.ResolveLogger(uc.Logger)

	reviewerID := strings.TrimSpace(cmd.ReviewerID)
	assignmentID := strings.TrimSpace(cmd.AssignmentID)
	if assignmentID == "" || !cmd.Content.Valid() {
		return entities.Review{}, domainerrors.ErrInvalidInput
	}

	assignment, err := uc.Assignments.GetAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return entities.Review{}, domainerrors.New(domainerrors.ErrAssignmentNotFound, assignmentID, reviewerID, "", "")
		}
		return entities.Review{}, err
	}
	if assignment.ReviewerID != reviewerID {
		return entities.Review{}, domainerrors.New(domainerrors.ErrForbidden, assignmentID, reviewerID, "", "assignment belongs to another reviewer")
	}

	existing, found, err := uc.Reviews.GetReviewByAssignment(ctx, assignmentID)
	if err != nil {
		return entities.Review{}, err
	}

	now := uc.Clock.Now().UTC()
	var saved entities.Review
	switch assignment.Status {
	case entities.AssignmentStatusCompleted:
		if !found {
			integrityErr := domainerrors.New(
				domainerrors.ErrInconsistent,
				assignmentID,
				reviewerID,
				string(assignment.Status),
				"completed assignment has no review",
			)
			uc.reportIncident(ctx, integrityErr, assignment)
			logger.Error("completed assignment without review",
				"event", "review_workflow_integrity_violation",
				"module", application.ModuleName(),
				"layer", "application",
				"assignment_id", assignmentID,
			)
			return entities.Review{}, integrityErr
		}
		if assignment.DeadlinePassed(now) {
			return entities.Review{}, domainerrors.New(
				domainerrors.ErrDeadlineExceeded,
				assignmentID,
				reviewerID,
				string(assignment.Status),
				"due "+assignment.DueDate.UTC().Format(time.RFC3339),
			)
		}
		existing.Apply(cmd.Content, now)
		if err := uc.Reviews.UpdateReview(ctx, existing); err != nil {
			return entities.Review{}, err
		}
		saved = existing
		uc.emit(ctx, "review.updated", saved, assignment, now)
		logger.Info("review updated",
			"event", "review_workflow_review_updated",
			"module", application.ModuleName(),
			"layer", "application",
			"review_id", saved.ReviewID,
			"assignment_id", assignmentID,
		)

	case entities.AssignmentStatusAccepted:
		if found {
			return entities.Review{}, domainerrors.New(domainerrors.ErrDuplicateReview, assignmentID, reviewerID, string(assignment.Status), "")
		}
		reviewID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Review{}, err
		}
		review := entities.Review{
			ReviewID:     reviewID,
			AssignmentID: assignmentID,
			ConferenceID: assignment.ConferenceID,
			CreatedAt:    now,
		}
		review.Apply(cmd.Content, now)
		assignment.Status = entities.AssignmentStatusCompleted
		assignment.UpdatedAt = now
		if err := uc.Reviews.CompleteAssignment(ctx, review, assignment); err != nil {
			return entities.Review{}, err
		}
		saved = review
		uc.emit(ctx, "review.submitted", saved, assignment, now)
		logger.Info("review submitted",
			"event", "review_workflow_review_submitted",
			"module", application.ModuleName(),
			"layer", "application",
			"review_id", saved.ReviewID,
			"assignment_id", assignmentID,
			"submission_id", assignment.SubmissionID,
			"score", saved.Score,
		)

	case entities.AssignmentStatusPending, entities.AssignmentStatusRejected:
		return entities.Review{}, domainerrors.New(
			domainerrors.ErrInvalidState,
			assignmentID,
			reviewerID,
			string(assignment.Status),
			"only accepted assignments can be reviewed",
		)

	default:
		return entities.Review{}, domainerrors.New(domainerrors.ErrInvalidState, assignmentID, reviewerID, string(assignment.Status), "unknown assignment status")
	}

	if strings.TrimSpace(cmd.AuthToken) != "" && uc.Submissions != nil {
		uc.markSubmissionReviewing(ctx, strings.TrimSpace(cmd.AuthToken), assignment.SubmissionID)
	}
	return saved, nil
}

// markSubmissionReviewing moves a SUBMITTED submission to REVIEWING.
func (uc ReviewUseCase) markSubmissionReviewing(ctx context.Context, authToken string, submissionID string) {
	policy := application.BestEffort{Logger: uc.Logger, Metrics: uc.Metrics}
	policy.Run(ctx, "submission_status_push", func(ctx context.Context) error {
		submission, found, err := uc.Submissions.GetSubmission(ctx, authToken, submissionID)
		if err != nil || !found {
			return err
		}
		if submission.Status != entities.SubmissionStatusSubmitted {
			return nil
		}
		_, err = uc.Submissions.UpdateSubmissionStatus(ctx, authToken, submissionID, entities.SubmissionStatusReviewing)
		return err
	})
}

func (uc ReviewUseCase) reportIncident(ctx context.Context, err error, assignment entities.Assignment) {
	if uc.Incidents == nil {
		return
	}
	uc.Incidents.ReportIncident(ctx, err, map[string]string{
		"module":        application.ModuleName(),
		"assignment_id": assignment.AssignmentID,
		"submission_id": assignment.SubmissionID,
	})
}

func (uc ReviewUseCase) emit(
	ctx context.Context,
	eventType string,
	review entities.Review,
	assignment entities.Assignment,
	now time.Time,
) {
	emitEvent(ctx, uc.Outbox, uc.IDGen, application.BestEffort{Logger: uc.Logger, Metrics: uc.Metrics},
		eventType, assignment.SubmissionID, now, map[string]any{
			"review_id":      review.ReviewID,
			"assignment_id":  assignment.AssignmentID,
			"reviewer_id":    assignment.ReviewerID,
			"submission_id":  assignment.SubmissionID,
			"conference_id":  derefString(review.ConferenceID),
			"score":          review.Score,
			"recommendation": string(review.Recommendation),
		})
}
