package entities

import (
	"strings"
	"time"
)

const (
	MinReviewScore = 1
	MaxReviewScore = 10
)

type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	default:
		return false
	}
}

type Recommendation string

const (
	RecommendationAccept     Recommendation = "ACCEPT"
	RecommendationWeakAccept Recommendation = "WEAK_ACCEPT"
	RecommendationReject     Recommendation = "REJECT"
	RecommendationWeakReject Recommendation = "WEAK_REJECT"
)

func (r Recommendation) Valid() bool {
	switch r {
	case RecommendationAccept, RecommendationWeakAccept, RecommendationReject, RecommendationWeakReject:
		return true
	default:
		return false
	}
}

// Review is the single evaluation attached to an assignment.
type Review struct {
	ReviewID         string
	AssignmentID     string
	ConferenceID     *string
	Score            int
	Confidence       Confidence
	CommentForAuthor *string
	CommentForPC     *string
	Recommendation   Recommendation
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReviewContent holds the fields a reviewer may set and later edit.
type ReviewContent struct {
	Score            int
	Confidence       Confidence
	CommentForAuthor *string
	CommentForPC     *string
	Recommendation   Recommendation
}

func (c ReviewContent) Valid() bool {
	return c.Score >= MinReviewScore &&
		c.Score <= MaxReviewScore &&
		c.Confidence.Valid() &&
		c.Recommendation.Valid()
}

// Apply overwrites the mutable fields of the review. Blank comments are
// stored as nil.
func (r *Review) Apply(content ReviewContent, now time.Time) {
	r.Score = content.Score
	r.Confidence = content.Confidence
	r.CommentForAuthor = trimOptional(content.CommentForAuthor)
	r.CommentForPC = trimOptional(content.CommentForPC)
	r.Recommendation = content.Recommendation
	r.UpdatedAt = now
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
