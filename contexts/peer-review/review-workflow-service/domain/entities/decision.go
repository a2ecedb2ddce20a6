package entities

import "time"

type DecisionKind string

const (
	DecisionAccept     DecisionKind = "ACCEPT"
	DecisionReject     DecisionKind = "REJECT"
	DecisionBorderline DecisionKind = "BORDERLINE"
)

func (k DecisionKind) Valid() bool {
	switch k {
	case DecisionAccept, DecisionReject, DecisionBorderline:
		return true
	default:
		return false
	}
}

// Decision is the chair verdict for a submission; one per submission.
type Decision struct {
	DecisionID   string
	SubmissionID string
	ConferenceID *string
	DecisionKind DecisionKind
	DecidedBy    string
	Note         *string
	DecidedAt    time.Time
}
