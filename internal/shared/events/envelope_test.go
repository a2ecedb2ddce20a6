package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeEncodeKeepsPayloadVerbatim(t *testing.T) {
	occurred := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	raw, err := Envelope{
		EventID:        "evt-1",
		EventType:      "review.submitted",
		SourceService:  "review-workflow-service",
		OccurredAtUTC:  occurred,
		PartitionKey:   "sub-1",
		PayloadVersion: 1,
		Payload:        json.RawMessage(`{"score":4}`),
	}.Encode()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "review.submitted", decoded["event_type"])
	assert.Equal(t, "2026-03-01T11:00:00Z", decoded["occurred_at_utc"])
	assert.Equal(t, map[string]any{"score": float64(4)}, decoded["payload"])
}

func TestEnvelopeEncodeEmptyPayload(t *testing.T) {
	raw, err := Envelope{EventID: "evt-2"}.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"payload":null`)
}
