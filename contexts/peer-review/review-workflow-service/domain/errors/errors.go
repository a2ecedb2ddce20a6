package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrAssignmentNotFound  = fmt.Errorf("assignment %w", ErrNotFound)
	ErrReviewNotFound      = fmt.Errorf("review %w", ErrNotFound)
	ErrForbidden           = errors.New("actor does not own the resource")
	ErrInvalidState        = errors.New("operation not allowed in current state")
	ErrConflictOfInterest  = errors.New("reviewer declared a conflict of interest")
	ErrDeadlineExceeded    = errors.New("review deadline has passed")
	ErrInconsistent        = errors.New("data integrity violation")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrDuplicateReview     = errors.New("review already exists for assignment")
	ErrAssignmentExists    = errors.New("reviewer is already assigned to submission")
	ErrInvalidInput        = errors.New("invalid input")
)

// WorkflowError carries the context needed to render a user-facing message.
// It unwraps to one of the sentinels above.
type WorkflowError struct {
	Kind     error
	EntityID string
	ActorID  string
	State    string
	Message  string
}

func (e *WorkflowError) Error() string {
	parts := []string{e.Kind.Error()}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	var attrs []string
	if e.EntityID != "" {
		attrs = append(attrs, "entity="+e.EntityID)
	}
	if e.ActorID != "" {
		attrs = append(attrs, "actor="+e.ActorID)
	}
	if e.State != "" {
		attrs = append(attrs, "state="+e.State)
	}
	if len(attrs) > 0 {
		parts = append(parts, "("+strings.Join(attrs, " ")+")")
	}
	return strings.Join(parts, ": ")
}

func (e *WorkflowError) Unwrap() error {
	return e.Kind
}

func New(kind error, entityID string, actorID string, state string, message string) *WorkflowError {
	return &WorkflowError{
		Kind:     kind,
		EntityID: entityID,
		ActorID:  actorID,
		State:    state,
		Message:  message,
	}
}

// Upstream wraps a collaborator failure so callers can match ErrUpstreamUnavailable.
func Upstream(service string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, service, err)
}
