package entities

import "time"

type PreferenceKind string

const (
	PreferenceInterested    PreferenceKind = "INTERESTED"
	PreferenceMaybe         PreferenceKind = "MAYBE"
	PreferenceConflict      PreferenceKind = "CONFLICT"
	PreferenceNotInterested PreferenceKind = "NOT_INTERESTED"
)

func (k PreferenceKind) Valid() bool {
	switch k {
	case PreferenceInterested, PreferenceMaybe, PreferenceConflict, PreferenceNotInterested:
		return true
	default:
		return false
	}
}

// Preference is a reviewer bid on a submission. There is at most one per
// (ReviewerID, SubmissionID).
type Preference struct {
	PreferenceID   string
	ReviewerID     string
	SubmissionID   string
	ConferenceID   *string
	PreferenceKind PreferenceKind
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p Preference) IsConflict() bool {
	return p.PreferenceKind == PreferenceConflict
}
