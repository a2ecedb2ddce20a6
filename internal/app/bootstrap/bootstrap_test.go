package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	reviewworkflow "confman/contexts/peer-review/review-workflow-service"
	"confman/contexts/peer-review/review-workflow-service/adapters/memory"
	workerapp "confman/contexts/peer-review/review-workflow-service/application/workers"
	"confman/contexts/peer-review/review-workflow-service/ports"
	"confman/internal/platform/config"
	"confman/internal/platform/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddr(t *testing.T) {
	assert.Equal(t, ":8080", normalizeAddr(""))
	assert.Equal(t, ":9090", normalizeAddr("9090"))
	assert.Equal(t, ":9090", normalizeAddr(" :9090 "))
}

func TestWireUpstreamsLeavesUnconfiguredServicesNil(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := reviewworkflow.Dependencies{}
	wireUpstreams(&deps, config.Config{SubmissionServiceURL: "http://submissions.local"}, logger)

	assert.Nil(t, deps.Tracks)
	assert.Nil(t, deps.Identity)
	assert.NotNil(t, deps.Submissions)
}

func TestConnectRequiresDSN(t *testing.T) {
	_, err := connect(config.Config{DBDriver: "postgres"})
	assert.EqualError(t, err, "DB_DSN is required")
}

func TestWorkerWithoutBrokerKeepsOutboxPending(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher, mqttPublisher, err := newWorkerPublisher(config.Config{}, logger)
	require.NoError(t, err)
	assert.Nil(t, mqttPublisher)

	store := memory.NewStore(memory.Seed{})
	require.NoError(t, store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:       "evt-1",
		EventType:     "review.submitted",
		OccurredAt:    time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC),
		SourceService: "review-workflow-service",
		SchemaVersion: 1,
		Data:          []byte(`{"score":7}`),
	}))

	relay := workerapp.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, Logger: logger}
	assert.ErrorIs(t, relay.RunOnce(context.Background()), messaging.ErrNoSubscribers)

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "evt-1", pending[0].OutboxID)
}

func TestWorkerPublisherUsesConfiguredBroker(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher, mqttPublisher, err := newWorkerPublisher(config.Config{MQTTBroker: "tcp://localhost:1883"}, logger)
	require.NoError(t, err)
	require.NotNil(t, mqttPublisher)
	assert.Same(t, mqttPublisher, publisher)
}
