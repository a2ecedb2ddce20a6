package queries

import (
	"context"
	"sort"
	"strings"
	"time"

	application "confman/contexts/peer-review/review-workflow-service/application"
	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	"confman/contexts/peer-review/review-workflow-service/ports"
)

type ListReviewsQuery struct {
	SubmissionID string
	Page         int
	Limit        int
	AuthToken    string
}

// ReviewView is the program-committee view of a review.
type ReviewView struct {
	Review       entities.Review
	ReviewerID   string
	ReviewerName string
}

// AnonymizedReview is the single-blind author view: no reviewer identity and
// no comment for the PC.
type AnonymizedReview struct {
	Score            int
	CommentForAuthor *string
	Recommendation   entities.Recommendation
	CreatedAt        time.Time
}

func (uc QueryUseCase) ListReviews(ctx context.Context, query ListReviewsQuery) ([]ReviewView, error) {
	offset, size := application.Page(query.Page, query.Limit)
	rows, err := uc.Reviews.ListReviewsBySubmission(ctx, strings.TrimSpace(query.SubmissionID), offset, size)
	if err != nil {
		return nil, err
	}

	names := uc.resolveReviewerNames(ctx, strings.TrimSpace(query.AuthToken), rows)
	items := make([]ReviewView, 0, len(rows))
	for _, row := range rows {
		name, ok := names[row.ReviewerID]
		if !ok || strings.TrimSpace(name) == "" {
			name = FallbackReviewerName(row.ReviewerID)
		}
		items = append(items, ReviewView{
			Review:       row.Review,
			ReviewerID:   row.ReviewerID,
			ReviewerName: name,
		})
	}
	return items, nil
}

func (uc QueryUseCase) ListAnonymizedReviews(ctx context.Context, submissionID string) ([]AnonymizedReview, error) {
	rows, err := uc.Reviews.ListReviewsBySubmission(ctx, strings.TrimSpace(submissionID), 0, 0)
	if err != nil {
		return nil, err
	}
	items := make([]AnonymizedReview, 0, len(rows))
	for _, row := range rows {
		items = append(items, AnonymizedReview{
			Score:            row.Review.Score,
			CommentForAuthor: row.Review.CommentForAuthor,
			Recommendation:   row.Review.Recommendation,
			CreatedAt:        row.Review.CreatedAt,
		})
	}
	return items, nil
}

func FallbackReviewerName(reviewerID string) string {
	return "Reviewer #" + reviewerID
}

func (uc QueryUseCase) resolveReviewerNames(ctx context.Context, authToken string, rows []ports.ReviewWithReviewer) map[string]string {
	if authToken == "" || uc.Identity == nil || len(rows) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ReviewerID]; ok {
			continue
		}
		seen[row.ReviewerID] = struct{}{}
		ids = append(ids, row.ReviewerID)
	}
	sort.Strings(ids)

	policy := application.BestEffort{Logger: uc.Logger, Metrics: uc.Metrics}
	profiles := application.Attempt(ctx, policy, "reviewer_name_resolution", map[string]entities.UserProfile(nil),
		func(ctx context.Context) (map[string]entities.UserProfile, error) {
			return uc.Identity.ResolveUsers(ctx, authToken, ids)
		})

	names := make(map[string]string, len(profiles))
	for id, profile := range profiles {
		names[id] = profile.DisplayName()
	}
	return names
}
