package commands

import (
	"context"
	"encoding/json"
	"time"

	application "confman/contexts/peer-review/review-workflow-service/application"
	"confman/contexts/peer-review/review-workflow-service/ports"
)

const sourceService = "review-workflow-service"

// emitEvent appends a domain event to the outbox. The state change it
// describes is already persisted, so a failed append is only logged.
func emitEvent(
	ctx context.Context,
	outbox ports.OutboxWriter,
	idGen ports.IDGenerator,
	policy application.BestEffort,
	eventType string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) {
	if outbox == nil {
		return
	}
	policy.Run(ctx, "outbox_append:"+eventType, func(ctx context.Context) error {
		eventID, err := idGen.NewID(ctx)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(data)
		if err != nil {
			return err
		}
		return outbox.AppendOutbox(ctx, ports.EventEnvelope{
			EventID:       eventID,
			EventType:     eventType,
			OccurredAt:    occurredAt.UTC(),
			SourceService: sourceService,
			PartitionKey:  partitionKey,
			SchemaVersion: 1,
			Data:          payload,
		})
	})
}
