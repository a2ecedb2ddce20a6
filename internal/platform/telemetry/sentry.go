// Package telemetry forwards integrity incidents to Sentry.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/getsentry/sentry-go"
)

type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
	// Transport overrides the HTTP transport; used by tests.
	Transport sentry.Transport
}

// IncidentReporter captures integrity violations on its own hub so it never
// depends on process-global Sentry state.
type IncidentReporter struct {
	hub    *sentry.Hub
	logger *slog.Logger
}

func NewIncidentReporter(cfg SentryConfig, logger *slog.Logger) (*IncidentReporter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		Transport:        cfg.Transport,
		SampleRate:       1.0,
		AttachStacktrace: true,
		ServerName:       "",
	})
	if err != nil {
		return nil, fmt.Errorf("sentry initialization failed: %w", err)
	}
	return &IncidentReporter{
		hub:    sentry.NewHub(client, sentry.NewScope()),
		logger: logger,
	}, nil
}

func (r *IncidentReporter) ReportIncident(_ context.Context, err error, tags map[string]string) {
	if r == nil || err == nil {
		return
	}
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var eventID *sentry.EventID
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		scope.SetTag("category", "integrity")
		for _, key := range keys {
			scope.SetTag(key, tags[key])
		}
		eventID = r.hub.CaptureException(err)
	})

	attrs := []any{
		"event", "telemetry_incident_reported",
		"module", "internal/platform/telemetry",
		"layer", "platform",
		"error", err.Error(),
	}
	if eventID != nil {
		attrs = append(attrs, "sentry_event_id", string(*eventID))
	}
	r.logger.Info("integrity incident reported", attrs...)
}

// Flush waits for queued events to be delivered.
func (r *IncidentReporter) Flush(timeout time.Duration) bool {
	if r == nil {
		return true
	}
	return r.hub.Flush(timeout)
}
