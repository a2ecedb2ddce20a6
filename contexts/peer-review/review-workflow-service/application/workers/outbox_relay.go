package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	application "confman/contexts/peer-review/review-workflow-service/application"
	"confman/contexts/peer-review/review-workflow-service/ports"
)

// OutboxRelay publishes pending review workflow events to the event bus.
type OutboxRelay struct {
	Outbox      ports.OutboxRepository
	Publisher   ports.EventPublisher
	Clock       ports.Clock
	BatchSize   int
	TopicPrefix string
	Metrics     ports.Metrics
	Logger      *slog.Logger
}

// RunOnce drains one batch. Rows stay pending when publishing fails, so the
// next cycle retries them in creation order.
func (r OutboxRelay) RunOnce(ctx context.Context) (err error) {
	defer application.Observe(r.Metrics, "outbox_relay", time.Now(), &err)
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("review outbox list failed",
			"event", "review_workflow_outbox_list_failed",
			"module", application.ModuleName(),
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	published := make(map[string]int)
	for i, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("review outbox decode failed",
				"event", "review_workflow_outbox_decode_failed",
				"module", application.ModuleName(),
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}

		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		topic = r.TopicPrefix + topic
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			application.ResolveMetrics(r.Metrics).RecordBestEffortFailure("outbox_publish")
			logger.Error("review outbox publish failed",
				"event", "review_workflow_outbox_publish_failed",
				"module", application.ModuleName(),
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_id", event.EventID,
				"topic", topic,
				"remaining_count", len(pending)-i,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("review outbox mark published failed",
				"event", "review_workflow_outbox_mark_failed",
				"module", application.ModuleName(),
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		published[row.EventType]++
	}

	if len(pending) > 0 {
		logger.Info("review outbox relay cycle completed",
			"event", "review_workflow_outbox_relay_completed",
			"module", application.ModuleName(),
			"layer", "worker",
			"published_count", len(pending),
			"published_by_type", formatCounts(published),
		)
	}
	return nil
}

// formatCounts renders per event type counts as "review.submitted=2 ..." in
// event type order.
func formatCounts(counts map[string]int) string {
	types := make([]string, 0, len(counts))
	for eventType := range counts {
		types = append(types, eventType)
	}
	sort.Strings(types)
	parts := make([]string, 0, len(types))
	for _, eventType := range types {
		parts = append(parts, eventType+"="+strconv.Itoa(counts[eventType]))
	}
	return strings.Join(parts, " ")
}
