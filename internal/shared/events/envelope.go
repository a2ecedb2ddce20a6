package events

import (
	"encoding/json"
	"time"
)

// Envelope is the wire shape of every event leaving the service.
// Payload carries the event data verbatim.
type Envelope struct {
	EventID        string          `json:"event_id"`
	EventType      string          `json:"event_type"`
	SourceService  string          `json:"source_service"`
	OccurredAtUTC  time.Time       `json:"occurred_at_utc"`
	PartitionKey   string          `json:"partition_key"`
	PayloadVersion int             `json:"payload_version"`
	Payload        json.RawMessage `json:"payload"`
}

// Encode marshals the envelope. An empty payload is sent as JSON null.
func (e Envelope) Encode() ([]byte, error) {
	if len(e.Payload) == 0 {
		e.Payload = json.RawMessage("null")
	}
	e.OccurredAtUTC = e.OccurredAtUTC.UTC()
	return json.Marshal(e)
}
