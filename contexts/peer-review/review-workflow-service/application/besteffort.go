package application

import (
	"context"
	"log/slog"

	"confman/contexts/peer-review/review-workflow-service/ports"
)

// BestEffort runs side effects that must never fail the primary operation.
// Failures are logged and counted, then dropped.
type BestEffort struct {
	Logger  *slog.Logger
	Metrics ports.Metrics
}

func (p BestEffort) Run(ctx context.Context, operation string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		p.report(operation, err)
	}
}

// Attempt returns fallback when fn fails.
func Attempt[T any](
	ctx context.Context,
	policy BestEffort,
	operation string,
	fallback T,
	fn func(context.Context) (T, error),
) T {
	value, err := fn(ctx)
	if err != nil {
		policy.report(operation, err)
		return fallback
	}
	return value
}

func (p BestEffort) report(operation string, err error) {
	ResolveLogger(p.Logger).Warn("best-effort operation failed",
		"event", "review_workflow_best_effort_failed",
		"module", moduleName,
		"layer", "application",
		"operation", operation,
		"error", err.Error(),
	)
	ResolveMetrics(p.Metrics).RecordBestEffortFailure(operation)
}
