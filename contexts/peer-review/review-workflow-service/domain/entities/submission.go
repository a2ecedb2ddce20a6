package entities

import "time"

// Submission and TrackMember are read models owned by external services.

type SubmissionStatus string

const (
	SubmissionStatusDraft       SubmissionStatus = "DRAFT"
	SubmissionStatusSubmitted   SubmissionStatus = "SUBMITTED"
	SubmissionStatusReviewing   SubmissionStatus = "REVIEWING"
	SubmissionStatusAccepted    SubmissionStatus = "ACCEPTED"
	SubmissionStatusRejected    SubmissionStatus = "REJECTED"
	SubmissionStatusWithdrawn   SubmissionStatus = "WITHDRAWN"
	SubmissionStatusCameraReady SubmissionStatus = "CAMERA_READY"
)

// VisibleToReviewers is the default listing filter when the caller gives none.
func (s SubmissionStatus) VisibleToReviewers() bool {
	return s != SubmissionStatusDraft && s != SubmissionStatusWithdrawn
}

type Submission struct {
	SubmissionID string
	TrackID      string
	ConferenceID string
	Title        string
	Abstract     string
	Status       SubmissionStatus
	AuthorID     string
	CreatedAt    time.Time
}

type TrackMemberStatus string

const (
	TrackMemberPending  TrackMemberStatus = "PENDING"
	TrackMemberAccepted TrackMemberStatus = "ACCEPTED"
	TrackMemberRejected TrackMemberStatus = "REJECTED"
)

type TrackMember struct {
	TrackID string
	Status  TrackMemberStatus
}

// UserProfile is what the identity service knows about a user.
type UserProfile struct {
	UserID   string
	FullName string
	Email    string
}

func (p UserProfile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}
