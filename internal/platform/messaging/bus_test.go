package messaging

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"confman/contexts/peer-review/review-workflow-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBusDeliversToSubscriber(t *testing.T) {
	bus := NewBus(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())

	received := make(chan ports.EventEnvelope, 1)
	done := bus.Subscribe(ctx, "review.submitted", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), "review.submitted", ports.EventEnvelope{
		EventID:   "evt-1",
		EventType: "review.submitted",
	}))

	select {
	case event := <-received:
		assert.Equal(t, "evt-1", event.EventID)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}

	cancel()
	<-done
}

func TestBusIgnoresOtherTopics(t *testing.T) {
	bus := NewBus(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())

	received := make(chan ports.EventEnvelope, 1)
	done := bus.Subscribe(ctx, "decision.recorded", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	})

	err := bus.Publish(context.Background(), "review.updated", ports.EventEnvelope{EventID: "evt-2"})
	require.ErrorIs(t, err, ErrNoSubscribers)

	select {
	case <-received:
		t.Fatal("unexpected delivery")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	<-done
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(nil)
	err := bus.Publish(context.Background(), "assignment.created", ports.EventEnvelope{EventID: "evt-3"})
	assert.ErrorIs(t, err, ErrNoSubscribers)
}
