package application

import (
	"errors"
	"time"

	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"
	"confman/contexts/peer-review/review-workflow-service/ports"
)

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(string, string, time.Duration) {}
func (noopMetrics) RecordBestEffortFailure(string)                 {}

func ResolveMetrics(metrics ports.Metrics) ports.Metrics {
	if metrics == nil {
		return noopMetrics{}
	}
	return metrics
}

// Observe records the outcome of a use case call. Use with defer:
//
//	defer application.Observe(uc.Metrics, "submit_review", time.Now(), &err)
func Observe(metrics ports.Metrics, operation string, started time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	ResolveMetrics(metrics).ObserveOperation(operation, Outcome(err), time.Since(started))
}

// Outcome maps an error onto a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domainerrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, domainerrors.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domainerrors.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domainerrors.ErrConflictOfInterest):
		return "conflict_of_interest"
	case errors.Is(err, domainerrors.ErrDeadlineExceeded):
		return "deadline_exceeded"
	case errors.Is(err, domainerrors.ErrInconsistent):
		return "inconsistent"
	case errors.Is(err, domainerrors.ErrDuplicateReview), errors.Is(err, domainerrors.ErrAssignmentExists):
		return "duplicate"
	case errors.Is(err, domainerrors.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domainerrors.ErrUpstreamUnavailable):
		return "upstream_unavailable"
	default:
		return "error"
	}
}
