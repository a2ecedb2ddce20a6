package entities

import "time"

type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "PENDING"
	AssignmentStatusAccepted  AssignmentStatus = "ACCEPTED"
	AssignmentStatusRejected  AssignmentStatus = "REJECTED"
	AssignmentStatusCompleted AssignmentStatus = "COMPLETED"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentStatusPending,
		AssignmentStatusAccepted,
		AssignmentStatusRejected,
		AssignmentStatusCompleted:
		return true
	default:
		return false
	}
}

// Assignment says reviewer ReviewerID is responsible for SubmissionID.
type Assignment struct {
	AssignmentID string
	ReviewerID   string
	SubmissionID string
	ConferenceID *string
	Status       AssignmentStatus
	AssignedBy   string
	DueDate      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanRespond reports whether the reviewer may still accept or reject.
// Only PENDING assignments can be answered, and only once.
func (a Assignment) CanRespond() bool {
	switch a.Status {
	case AssignmentStatusPending:
		return true
	case AssignmentStatusAccepted, AssignmentStatusRejected, AssignmentStatusCompleted:
		return false
	default:
		return false
	}
}

// IsOutstanding is true while review work is still expected.
func (a Assignment) IsOutstanding() bool {
	switch a.Status {
	case AssignmentStatusPending, AssignmentStatusAccepted:
		return true
	case AssignmentStatusRejected, AssignmentStatusCompleted:
		return false
	default:
		return false
	}
}

// DeadlinePassed is false when no due date is set.
func (a Assignment) DeadlinePassed(now time.Time) bool {
	if a.DueDate == nil {
		return false
	}
	return now.After(*a.DueDate)
}

func (a Assignment) SameConference(conferenceID *string) bool {
	if a.ConferenceID == nil || conferenceID == nil {
		return a.ConferenceID == nil && conferenceID == nil
	}
	return *a.ConferenceID == *conferenceID
}
