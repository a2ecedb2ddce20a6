package queries

import (
	"context"
	"strings"

	"confman/contexts/peer-review/review-workflow-service/domain/entities"
)

type DecisionSummary struct {
	ReviewCount int
	// AverageScore, MinScore and MaxScore are nil when ReviewCount is zero.
	AverageScore         *float64
	MinScore             *int
	MaxScore             *int
	RecommendationCounts map[entities.Recommendation]int
	Decision             *entities.Decision
}

func (uc QueryUseCase) DecisionSummary(ctx context.Context, submissionID string) (DecisionSummary, error) {
	submissionID = strings.TrimSpace(submissionID)
	rows, err := uc.Reviews.ListReviewsBySubmission(ctx, submissionID, 0, 0)
	if err != nil {
		return DecisionSummary{}, err
	}
	reviews := make([]entities.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.Review)
	}
	summary := summarizeScores(reviews)

	decision, found, err := uc.Decisions.GetDecision(ctx, submissionID)
	if err != nil {
		return DecisionSummary{}, err
	}
	if found {
		summary.Decision = &decision
	}
	return summary, nil
}

func summarizeScores(reviews []entities.Review) DecisionSummary {
	summary := DecisionSummary{
		ReviewCount:          len(reviews),
		RecommendationCounts: map[entities.Recommendation]int{},
	}
	if len(reviews) == 0 {
		return summary
	}

	total := 0
	minScore, maxScore := reviews[0].Score, reviews[0].Score
	for _, review := range reviews {
		total += review.Score
		minScore = min(minScore, review.Score)
		maxScore = max(maxScore, review.Score)
		summary.RecommendationCounts[review.Recommendation]++
	}
	average := float64(total) / float64(len(reviews))
	summary.AverageScore = &average
	summary.MinScore = &minScore
	summary.MaxScore = &maxScore
	return summary
}
