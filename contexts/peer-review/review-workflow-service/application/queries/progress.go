package queries

import (
	"context"
	"strings"
	"time"

	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	"confman/contexts/peer-review/review-workflow-service/ports"
)

type Progress struct {
	TotalAssignments     int
	CompletedAssignments int
	// PendingAssignments counts outstanding work: PENDING and ACCEPTED.
	PendingAssignments int
	ReviewsSubmitted   int
	LastReviewAt       *time.Time
}

func (uc QueryUseCase) SubmissionProgress(ctx context.Context, submissionID string) (Progress, error) {
	submissionID = strings.TrimSpace(submissionID)
	assignments, err := uc.Assignments.ListAssignments(ctx, ports.AssignmentFilter{SubmissionID: submissionID}, 0, 0)
	if err != nil {
		return Progress{}, err
	}
	rows, err := uc.Reviews.ListReviewsBySubmission(ctx, submissionID, 0, 0)
	if err != nil {
		return Progress{}, err
	}
	reviews := make([]entities.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.Review)
	}
	return summarizeProgress(assignments, reviews), nil
}

func (uc QueryUseCase) ConferenceProgress(ctx context.Context, conferenceID string) (Progress, error) {
	conferenceID = strings.TrimSpace(conferenceID)
	assignments, err := uc.Assignments.ListAssignments(ctx, ports.AssignmentFilter{ConferenceID: conferenceID}, 0, 0)
	if err != nil {
		return Progress{}, err
	}
	reviews, err := uc.Reviews.ListReviewsByConference(ctx, conferenceID)
	if err != nil {
		return Progress{}, err
	}
	return summarizeProgress(assignments, reviews), nil
}

func summarizeProgress(assignments []entities.Assignment, reviews []entities.Review) Progress {
	progress := Progress{
		TotalAssignments: len(assignments),
		ReviewsSubmitted: len(reviews),
	}
	for _, assignment := range assignments {
		switch {
		case assignment.Status == entities.AssignmentStatusCompleted:
			progress.CompletedAssignments++
		case assignment.IsOutstanding():
			progress.PendingAssignments++
		}
	}
	for _, review := range reviews {
		if progress.LastReviewAt == nil || review.CreatedAt.After(*progress.LastReviewAt) {
			createdAt := review.CreatedAt
			progress.LastReviewAt = &createdAt
		}
	}
	return progress
}
