package application

import "log/slog"

const moduleName = "peer-review/review-workflow-service"

// ResolveLogger guarantees a non-nil logger for application/worker code paths.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// ModuleName is the value of the "module" log key for this service.
func ModuleName() string {
	return moduleName
}
