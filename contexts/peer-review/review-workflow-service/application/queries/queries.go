package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "confman/contexts/peer-review/review-workflow-service/application"
	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"
	"confman/contexts/peer-review/review-workflow-service/ports"
)

type QueryUseCase struct {
	Preferences ports.PreferenceRepository
	Assignments ports.AssignmentRepository
	Reviews     ports.ReviewRepository
	Decisions   ports.DecisionRepository
	Tracks      ports.ConferenceTrackClient
	Submissions ports.SubmissionClient
	Identity    ports.IdentityClient
	Metrics     ports.Metrics
	Logger      *slog.Logger
}

type AssignmentPage struct {
	Items []entities.Assignment
	Total int64
	Page  int
	Limit int
}

func (uc QueryUseCase) HasConflict(ctx context.Context, reviewerID string, submissionID string, conferenceID *string) (bool, error) {
	return ConflictChecker{Preferences: uc.Preferences}.HasConflict(ctx, reviewerID, submissionID, conferenceID)
}

// HasAssignment reports whether the reviewer holds any assignment for the
// submission, whatever its status.
func (uc QueryUseCase) HasAssignment(ctx context.Context, reviewerID string, submissionID string) (bool, error) {
	count, err := uc.Assignments.CountAssignments(ctx, ports.AssignmentFilter{
		ReviewerID:   strings.TrimSpace(reviewerID),
		SubmissionID: strings.TrimSpace(submissionID),
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (uc QueryUseCase) ListMyAssignments(ctx context.Context, reviewerID string, page int, limit int) (AssignmentPage, error) {
	offset, size := application.Page(page, limit)
	filter := ports.AssignmentFilter{ReviewerID: strings.TrimSpace(reviewerID)}
	total, err := uc.Assignments.CountAssignments(ctx, filter)
	if err != nil {
		return AssignmentPage{}, err
	}
	items, err := uc.Assignments.ListAssignments(ctx, filter, offset, size)
	if err != nil {
		return AssignmentPage{}, err
	}
	return AssignmentPage{
		Items: items,
		Total: total,
		Page:  offset/size + 1,
		Limit: size,
	}, nil
}

func (uc QueryUseCase) ListMyBids(ctx context.Context, reviewerID string) ([]entities.Preference, error) {
	return uc.Preferences.ListPreferencesByReviewer(ctx, strings.TrimSpace(reviewerID))
}

// GetReviewForAssignment returns the caller's own review.
func (uc QueryUseCase) GetReviewForAssignment(ctx context.Context, reviewerID string, assignmentID string) (entities.Review, error) {
	reviewerID = strings.TrimSpace(reviewerID)
	assignmentID = strings.TrimSpace(assignmentID)
	assignment, err := uc.Assignments.GetAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return entities.Review{}, domainerrors.New(domainerrors.ErrAssignmentNotFound, assignmentID, reviewerID, "", "")
		}
		return entities.Review{}, err
	}
	if assignment.ReviewerID != reviewerID {
		return entities.Review{}, domainerrors.New(domainerrors.ErrForbidden, assignmentID, reviewerID, "", "")
	}
	review, found, err := uc.Reviews.GetReviewByAssignment(ctx, assignmentID)
	if err != nil {
		return entities.Review{}, err
	}
	if !found {
		return entities.Review{}, domainerrors.New(domainerrors.ErrReviewNotFound, assignmentID, reviewerID, string(assignment.Status), "")
	}
	return review, nil
}
