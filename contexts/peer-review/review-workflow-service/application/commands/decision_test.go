package commands_test

import (
	"context"
	"testing"
	"time"

	"confman/contexts/peer-review/review-workflow-service/adapters/memory"
	"confman/contexts/peer-review/review-workflow-service/application/commands"
	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertDecisionRevisesInPlace(t *testing.T) {
	f := newFixture(memory.Seed{})
	ctx := context.Background()

	first, err := f.decisions().UpsertDecision(ctx, commands.UpsertDecisionCommand{
		SubmissionID: "s-1",
		ConferenceID: ptr("conf-1"),
		DecidedBy:    "chair-1",
		Kind:         entities.DecisionBorderline,
	})
	require.NoError(t, err)

	f.now = baseTime.Add(time.Hour)
	second, err := f.decisions().UpsertDecision(ctx, commands.UpsertDecisionCommand{
		SubmissionID: "s-1",
		DecidedBy:    "chair-2",
		Kind:         entities.DecisionAccept,
		Note:         ptr("strong consensus"),
	})
	require.NoError(t, err)

	assert.Equal(t, first.DecisionID, second.DecisionID)
	assert.Equal(t, entities.DecisionAccept, second.DecisionKind)
	assert.Equal(t, "chair-2", second.DecidedBy)
	assert.Equal(t, baseTime.Add(time.Hour), second.DecidedAt)
	require.NotNil(t, second.ConferenceID)
	assert.Equal(t, "conf-1", *second.ConferenceID)

	stored, found, err := f.store.GetDecision(ctx, "s-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second, stored)
	assert.Equal(t, []string{"decision.recorded", "decision.recorded"}, f.store.OutboxEventTypes())
}

func TestUpsertDecisionValidatesInput(t *testing.T) {
	f := newFixture(memory.Seed{})

	_, err := f.decisions().UpsertDecision(context.Background(), commands.UpsertDecisionCommand{
		SubmissionID: "s-1",
		DecidedBy:    "chair-1",
		Kind:         entities.DecisionKind("MAYBE"),
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = f.decisions().UpsertDecision(context.Background(), commands.UpsertDecisionCommand{
		SubmissionID: " ",
		DecidedBy:    "chair-1",
		Kind:         entities.DecisionReject,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}
