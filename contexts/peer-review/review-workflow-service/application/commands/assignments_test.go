package commands_test

import (
	"context"
	"testing"
	"time"

	"confman/contexts/peer-review/review-workflow-service/adapters/memory"
	"confman/contexts/peer-review/review-workflow-service/application/commands"
	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"
	"confman/contexts/peer-review/review-workflow-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededAssignment(id string, status entities.AssignmentStatus) entities.Assignment {
	return entities.Assignment{
		AssignmentID: id,
		ReviewerID:   "r-1",
		SubmissionID: "s-" + id,
		Status:       status,
		AssignedBy:   "chair-1",
		CreatedAt:    baseTime.Add(-time.Hour),
		UpdatedAt:    baseTime.Add(-time.Hour),
	}
}

func TestSelfAssignCreatesAcceptedAssignment(t *testing.T) {
	f := newFixture(memory.Seed{})

	assignment, err := f.assignments().SelfAssign(context.Background(), commands.SelfAssignCommand{
		ReviewerID:   "r-1",
		SubmissionID: "s-1",
		ConferenceID: "conf-1",
	})
	require.NoError(t, err)

	assert.Equal(t, entities.AssignmentStatusAccepted, assignment.Status)
	assert.Equal(t, "r-1", assignment.AssignedBy)
	assert.Nil(t, assignment.DueDate)
	require.NotNil(t, assignment.ConferenceID)
	assert.Equal(t, "conf-1", *assignment.ConferenceID)
	assert.Equal(t, []string{"assignment.self_assigned"}, f.store.OutboxEventTypes())
}

func TestSelfAssignIsIdempotent(t *testing.T) {
	f := newFixture(memory.Seed{})
	ctx := context.Background()
	cmd := commands.SelfAssignCommand{ReviewerID: "r-1", SubmissionID: "s-1", ConferenceID: "conf-1"}

	first, err := f.assignments().SelfAssign(ctx, cmd)
	require.NoError(t, err)

	f.now = baseTime.Add(time.Hour)
	second, err := f.assignments().SelfAssign(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	total, err := f.store.CountAssignments(ctx, ports.AssignmentFilter{ReviewerID: "r-1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, f.store.OutboxEventTypes(), 1)
}

func TestSelfAssignForcesExistingAssignmentToAccepted(t *testing.T) {
	for _, status := range []entities.AssignmentStatus{entities.AssignmentStatusPending, entities.AssignmentStatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			existing := seededAssignment("a-1", status)
			f := newFixture(memory.Seed{Assignments: []entities.Assignment{existing}})

			assignment, err := f.assignments().SelfAssign(context.Background(), commands.SelfAssignCommand{
				ReviewerID:   existing.ReviewerID,
				SubmissionID: existing.SubmissionID,
			})
			require.NoError(t, err)

			assert.Equal(t, existing.AssignmentID, assignment.AssignmentID)
			assert.Equal(t, entities.AssignmentStatusAccepted, assignment.Status)
			assert.Equal(t, "chair-1", assignment.AssignedBy)
			assert.Equal(t, baseTime, assignment.UpdatedAt)
		})
	}
}

func TestSelfAssignLeavesCompletedAssignmentEditable(t *testing.T) {
	f := newFixture(memory.Seed{})
	ctx := context.Background()
	cmd := commands.SelfAssignCommand{ReviewerID: "r-1", SubmissionID: "s-1", ConferenceID: "c-1"}

	assignment, err := f.assignments().SelfAssign(ctx, cmd)
	require.NoError(t, err)
	_, err = f.reviews().SubmitReview(ctx, commands.SubmitReviewCommand{
		ReviewerID:   "r-1",
		AssignmentID: assignment.AssignmentID,
		Content:      content(8, entities.RecommendationAccept),
	})
	require.NoError(t, err)

	again, err := f.assignments().SelfAssign(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, assignment.AssignmentID, again.AssignmentID)
	assert.Equal(t, entities.AssignmentStatusCompleted, again.Status)

	f.now = baseTime.Add(time.Hour)
	edited, err := f.reviews().SubmitReview(ctx, commands.SubmitReviewCommand{
		ReviewerID:   "r-1",
		AssignmentID: assignment.AssignmentID,
		Content:      content(5, entities.RecommendationWeakReject),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, edited.Score)

	stored, err := f.store.GetAssignment(ctx, assignment.AssignmentID)
	require.NoError(t, err)
	assert.Equal(t, entities.AssignmentStatusCompleted, stored.Status)
	assert.Equal(t, []string{"assignment.self_assigned", "review.submitted", "review.updated"}, f.store.OutboxEventTypes())
}

func TestSelfAssignBlockedByConflictCreatesNothing(t *testing.T) {
	f := newFixture(memory.Seed{})
	ctx := context.Background()

	_, err := f.bids().SubmitBid(ctx, commands.SubmitBidCommand{ReviewerID: "r-1", SubmissionID: "s-1", Kind: entities.PreferenceConflict})
	require.NoError(t, err)

	_, err = f.assignments().SelfAssign(ctx, commands.SelfAssignCommand{ReviewerID: "r-1", SubmissionID: "s-1"})
	require.ErrorIs(t, err, domainerrors.ErrConflictOfInterest)

	total, err := f.store.CountAssignments(ctx, ports.AssignmentFilter{ReviewerID: "r-1", SubmissionID: "s-1"})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAssignReviewerCreatesPendingAssignment(t *testing.T) {
	f := newFixture(memory.Seed{})
	due := baseTime.Add(14 * 24 * time.Hour)

	assignment, err := f.assignments().AssignReviewer(context.Background(), commands.AssignReviewerCommand{
		ChairID:      "chair-1",
		ReviewerID:   "r-1",
		SubmissionID: "s-1",
		DueDate:      &due,
	})
	require.NoError(t, err)

	assert.Equal(t, entities.AssignmentStatusPending, assignment.Status)
	assert.Equal(t, "chair-1", assignment.AssignedBy)
	require.NotNil(t, assignment.DueDate)
	assert.True(t, due.Equal(*assignment.DueDate))
}

func TestAssignReviewerRejectsDuplicateAndConflict(t *testing.T) {
	f := newFixture(memory.Seed{})
	ctx := context.Background()
	cmd := commands.AssignReviewerCommand{ChairID: "chair-1", ReviewerID: "r-1", SubmissionID: "s-1"}

	_, err := f.assignments().AssignReviewer(ctx, cmd)
	require.NoError(t, err)
	_, err = f.assignments().AssignReviewer(ctx, cmd)
	assert.ErrorIs(t, err, domainerrors.ErrAssignmentExists)

	_, err = f.bids().SubmitBid(ctx, commands.SubmitBidCommand{ReviewerID: "r-2", SubmissionID: "s-1", Kind: entities.PreferenceConflict})
	require.NoError(t, err)
	_, err = f.assignments().AssignReviewer(ctx, commands.AssignReviewerCommand{ChairID: "chair-1", ReviewerID: "r-2", SubmissionID: "s-1"})
	assert.ErrorIs(t, err, domainerrors.ErrConflictOfInterest)
}

func TestUpdateStatusFromPending(t *testing.T) {
	for _, target := range []entities.AssignmentStatus{entities.AssignmentStatusAccepted, entities.AssignmentStatusRejected} {
		t.Run(string(target), func(t *testing.T) {
			f := newFixture(memory.Seed{Assignments: []entities.Assignment{seededAssignment("a-1", entities.AssignmentStatusPending)}})

			updated, err := f.assignments().UpdateStatus(context.Background(), commands.UpdateAssignmentStatusCommand{
				AssignmentID: "a-1",
				ReviewerID:   "r-1",
				Status:       target,
			})
			require.NoError(t, err)
			assert.Equal(t, target, updated.Status)

			stored, err := f.store.GetAssignment(context.Background(), "a-1")
			require.NoError(t, err)
			assert.Equal(t, target, stored.Status)
		})
	}
}

func TestUpdateStatusOnlyFromPending(t *testing.T) {
	cases := []struct {
		from   entities.AssignmentStatus
		target entities.AssignmentStatus
	}{
		{entities.AssignmentStatusAccepted, entities.AssignmentStatusRejected},
		{entities.AssignmentStatusRejected, entities.AssignmentStatusAccepted},
		{entities.AssignmentStatusCompleted, entities.AssignmentStatusAccepted},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.target), func(t *testing.T) {
			f := newFixture(memory.Seed{Assignments: []entities.Assignment{seededAssignment("a-1", tc.from)}})

			_, err := f.assignments().UpdateStatus(context.Background(), commands.UpdateAssignmentStatusCommand{
				AssignmentID: "a-1",
				ReviewerID:   "r-1",
				Status:       tc.target,
			})
			require.ErrorIs(t, err, domainerrors.ErrInvalidState)

			var workflowErr *domainerrors.WorkflowError
			require.ErrorAs(t, err, &workflowErr)
			assert.Equal(t, "a-1", workflowErr.EntityID)
			assert.Equal(t, "r-1", workflowErr.ActorID)
			assert.Equal(t, string(tc.from), workflowErr.State)

			stored, err := f.store.GetAssignment(context.Background(), "a-1")
			require.NoError(t, err)
			assert.Equal(t, tc.from, stored.Status)
		})
	}
}

func TestUpdateStatusOwnershipAndExistence(t *testing.T) {
	f := newFixture(memory.Seed{Assignments: []entities.Assignment{seededAssignment("a-1", entities.AssignmentStatusPending)}})
	ctx := context.Background()

	_, err := f.assignments().UpdateStatus(ctx, commands.UpdateAssignmentStatusCommand{
		AssignmentID: "missing",
		ReviewerID:   "r-1",
		Status:       entities.AssignmentStatusAccepted,
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = f.assignments().UpdateStatus(ctx, commands.UpdateAssignmentStatusCommand{
		AssignmentID: "a-1",
		ReviewerID:   "r-2",
		Status:       entities.AssignmentStatusAccepted,
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = f.assignments().UpdateStatus(ctx, commands.UpdateAssignmentStatusCommand{
		AssignmentID: "a-1",
		ReviewerID:   "r-1",
		Status:       entities.AssignmentStatusCompleted,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}
