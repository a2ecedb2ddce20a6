package queries

import (
	"context"
	"strings"

	application "confman/contexts/peer-review/review-workflow-service/application"
	"confman/contexts/peer-review/review-workflow-service/domain/entities"
)

type SubmissionsForReviewerQuery struct {
	ReviewerID   string
	AuthToken    string
	StatusFilter entities.SubmissionStatus
}

// SubmissionsForReviewer lists submissions across the reviewer's accepted
// tracks. Upstream failures degrade to fewer or no results.
func (uc QueryUseCase) SubmissionsForReviewer(ctx context.Context, query SubmissionsForReviewerQuery) ([]entities.Submission, error) {
	if uc.Tracks == nil || uc.Submissions == nil {
		return []entities.Submission{}, nil
	}
	authToken := strings.TrimSpace(query.AuthToken)
	policy := application.BestEffort{Logger: uc.Logger, Metrics: uc.Metrics}

	members := application.Attempt(ctx, policy, "track_membership_lookup", []entities.TrackMember(nil),
		func(ctx context.Context) ([]entities.TrackMember, error) {
			return uc.Tracks.MyTrackAssignments(ctx, authToken)
		})

	order := make([]string, 0)
	byID := make(map[string]entities.Submission)
	for _, member := range members {
		if member.Status != entities.TrackMemberAccepted {
			continue
		}
		items := application.Attempt(ctx, policy, "track_submissions_lookup", []entities.Submission(nil),
			func(ctx context.Context) ([]entities.Submission, error) {
				return uc.Submissions.ListSubmissions(ctx, authToken, member.TrackID, query.StatusFilter)
			})
		for _, item := range items {
			if !matchesStatus(item.Status, query.StatusFilter) {
				continue
			}
			if _, seen := byID[item.SubmissionID]; !seen {
				order = append(order, item.SubmissionID)
			}
			byID[item.SubmissionID] = item
		}
	}

	result := make([]entities.Submission, 0, len(order))
	for _, id := range order {
		result = append(result, byID[id])
	}

	application.ResolveLogger(uc.Logger).Debug("reviewer submissions listed",
		"event", "review_workflow_reviewer_submissions_listed",
		"module", application.ModuleName(),
		"layer", "application",
		"reviewer_id", strings.TrimSpace(query.ReviewerID),
		"tracks", len(members),
		"submissions", len(result),
	)
	return result, nil
}

func matchesStatus(status entities.SubmissionStatus, filter entities.SubmissionStatus) bool {
	if filter != "" {
		return status == filter
	}
	return status.VisibleToReviewers()
}
