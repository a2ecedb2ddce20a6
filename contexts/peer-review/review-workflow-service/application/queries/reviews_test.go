package queries_test

import (
	"context"
	"testing"
	"time"

	"confman/contexts/peer-review/review-workflow-service/adapters/memory"
	"confman/contexts/peer-review/review-workflow-service/application/queries"
	"confman/contexts/peer-review/review-workflow-service/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewedStore() *memory.Store {
	return memory.NewStore(memory.Seed{
		Assignments: []entities.Assignment{
			assignment("a-1", "r-2", "s-1", entities.AssignmentStatusCompleted, 0),
			assignment("a-2", "r-1", "s-1", entities.AssignmentStatusCompleted, 0),
			assignment("a-3", "r-3", "s-1", entities.AssignmentStatusCompleted, 0),
		},
		Reviews: []entities.Review{
			review("a-1", 4, entities.RecommendationReject, 0),
			review("a-2", 7, entities.RecommendationWeakAccept, time.Hour),
			review("a-3", 9, entities.RecommendationAccept, 2*time.Hour),
		},
	})
}

func TestListReviewsResolvesNamesInOneBatch(t *testing.T) {
	identity := &fakeIdentity{profiles: map[string]entities.UserProfile{
		"r-1": {FullName: "Ada Lovelace"},
		"r-2": {Email: "r2@example.org"},
	}}
	uc := newQueries(reviewedStore())
	uc.Identity = identity

	items, err := uc.ListReviews(context.Background(), queries.ListReviewsQuery{SubmissionID: "s-1", AuthToken: "token"})
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "r-3", items[0].ReviewerID)
	assert.Equal(t, "Reviewer #r-3", items[0].ReviewerName)
	assert.Equal(t, "Ada Lovelace", items[1].ReviewerName)
	assert.Equal(t, "r2@example.org", items[2].ReviewerName)
	assert.Equal(t, [][]string{{"r-1", "r-2", "r-3"}}, identity.calls)
}

func TestListReviewsFallsBackWithoutTokenOrOnFailure(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		identity := &fakeIdentity{profiles: map[string]entities.UserProfile{"r-1": {FullName: "Ada"}}}
		uc := newQueries(reviewedStore())
		uc.Identity = identity

		items, err := uc.ListReviews(context.Background(), queries.ListReviewsQuery{SubmissionID: "s-1"})
		require.NoError(t, err)
		for _, item := range items {
			assert.Equal(t, queries.FallbackReviewerName(item.ReviewerID), item.ReviewerName)
		}
		assert.Empty(t, identity.calls)
	})

	t.Run("identity failure", func(t *testing.T) {
		uc := newQueries(reviewedStore())
		uc.Identity = &fakeIdentity{err: errUpstream}

		items, err := uc.ListReviews(context.Background(), queries.ListReviewsQuery{SubmissionID: "s-1", AuthToken: "token"})
		require.NoError(t, err)
		require.Len(t, items, 3)
		for _, item := range items {
			assert.Equal(t, "Reviewer #"+item.ReviewerID, item.ReviewerName)
		}
	})
}

func TestListReviewsPaginatesNewestFirst(t *testing.T) {
	uc := newQueries(reviewedStore())

	items, err := uc.ListReviews(context.Background(), queries.ListReviewsQuery{SubmissionID: "s-1", Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "rev-a-1", items[0].Review.ReviewID)
}

func TestListAnonymizedReviewsStripsIdentity(t *testing.T) {
	uc := newQueries(reviewedStore())

	items, err := uc.ListAnonymizedReviews(context.Background(), "s-1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, queries.AnonymizedReview{
		Score:            9,
		CommentForAuthor: ptr("comment from a-3"),
		Recommendation:   entities.RecommendationAccept,
		CreatedAt:        baseTime.Add(2 * time.Hour),
	}, items[0])
}
