package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockConfig(baseURL string) (Config, *httpmock.MockTransport) {
	transport := httpmock.NewMockTransport()
	return Config{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Transport: transport},
	}, transport
}

func TestMyTrackAssignmentsDecodesAndForwardsToken(t *testing.T) {
	cfg, transport := mockConfig("https://conference.test/")
	transport.RegisterResponder(http.MethodGet, "https://conference.test/my-track-assignments",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer token-1", req.Header.Get("Authorization"))
			return httpmock.NewJsonResponse(http.StatusOK, []map[string]string{
				{"trackId": "t-1", "status": "accepted"},
				{"trackId": " t-2 ", "status": "PENDING"},
			})
		})

	items, err := NewConferenceTrackClient(cfg).MyTrackAssignments(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, []entities.TrackMember{
		{TrackID: "t-1", Status: entities.TrackMemberAccepted},
		{TrackID: "t-2", Status: entities.TrackMemberPending},
	}, items)
}

func TestListSubmissionsSendsTrackAndStatus(t *testing.T) {
	cfg, transport := mockConfig("https://submission.test")
	transport.RegisterResponderWithQuery(http.MethodGet, "https://submission.test/submissions",
		map[string]string{"trackId": "t-1", "status": "SUBMITTED"},
		httpmock.NewJsonResponderOrPanic(http.StatusOK, []map[string]any{
			{"id": "s-1", "trackId": "t-1", "title": "Paper", "status": "submitted", "createdAt": "2026-05-01T10:00:00Z"},
		}))

	items, err := NewSubmissionClient(cfg).ListSubmissions(context.Background(), "token", "t-1", entities.SubmissionStatusSubmitted)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "s-1", items[0].SubmissionID)
	assert.Equal(t, entities.SubmissionStatusSubmitted, items[0].Status)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestGetSubmissionMapsNotFoundToAbsent(t *testing.T) {
	cfg, transport := mockConfig("https://submission.test")
	transport.RegisterResponder(http.MethodGet, "https://submission.test/submissions/s-404",
		httpmock.NewStringResponder(http.StatusNotFound, `{"error":"not found"}`))
	transport.RegisterResponder(http.MethodGet, "https://submission.test/submissions/s-1",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"id": "s-1", "status": "REVIEWING"}))

	client := NewSubmissionClient(cfg)
	_, found, err := client.GetSubmission(context.Background(), "token", "s-404")
	require.NoError(t, err)
	assert.False(t, found)

	submission, found, err := client.GetSubmission(context.Background(), "token", "s-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entities.SubmissionStatusReviewing, submission.Status)
}

func TestUpdateSubmissionStatusPatchesBody(t *testing.T) {
	cfg, transport := mockConfig("https://submission.test")
	transport.RegisterResponder(http.MethodPatch, "https://submission.test/submissions/s-1/status",
		func(req *http.Request) (*http.Response, error) {
			var body map[string]string
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return nil, err
			}
			assert.Equal(t, "REVIEWING", body["status"])
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"id": "s-1", "status": body["status"]})
		})

	submission, err := NewSubmissionClient(cfg).UpdateSubmissionStatus(context.Background(), "token", "s-1", entities.SubmissionStatusReviewing)
	require.NoError(t, err)
	assert.Equal(t, entities.SubmissionStatusReviewing, submission.Status)
}

func TestNonSuccessStatusIsUpstreamUnavailable(t *testing.T) {
	cfg, transport := mockConfig("https://submission.test")
	transport.RegisterResponder(http.MethodGet, "https://submission.test/submissions",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "maintenance"))

	_, err := NewSubmissionClient(cfg).ListSubmissions(context.Background(), "token", "t-1", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUpstreamUnavailable))
	assert.Contains(t, err.Error(), "maintenance")
}

func TestMissingBaseURLIsUpstreamUnavailable(t *testing.T) {
	_, err := NewConferenceTrackClient(Config{}).MyTrackAssignments(context.Background(), "token")
	assert.True(t, errors.Is(err, domainerrors.ErrUpstreamUnavailable))
}

func TestResolveUsersBatchesAndCaches(t *testing.T) {
	cfg, transport := mockConfig("https://identity.test")
	transport.RegisterResponderWithQuery(http.MethodGet, "https://identity.test/users",
		map[string]string{"ids": "r-1,r-2"},
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
			"r-1": map[string]string{"fullName": "Ada Lovelace", "email": "ada@example.org"},
			"r-2": map[string]string{"email": "grace@example.org"},
		}))

	client := NewIdentityClient(cfg, 0)
	profiles, err := client.ResolveUsers(context.Background(), "token", []string{"r-2", "r-1", " "})
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Ada Lovelace", profiles["r-1"].DisplayName())
	assert.Equal(t, "grace@example.org", profiles["r-2"].DisplayName())

	again, err := client.ResolveUsers(context.Background(), "token", []string{"r-1"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", again["r-1"].FullName)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestResolveUsersCachesPerCaller(t *testing.T) {
	cfg, transport := mockConfig("https://identity.test")
	transport.RegisterResponderWithQuery(http.MethodGet, "https://identity.test/users",
		map[string]string{"ids": "r-1"},
		func(req *http.Request) (*http.Response, error) {
			name := "Reviewer One"
			if req.Header.Get("Authorization") == "Bearer chair-token" {
				name = "Ada Lovelace"
			}
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"r-1": map[string]string{"fullName": name},
			})
		})

	client := NewIdentityClient(cfg, 0)
	asAuthor, err := client.ResolveUsers(context.Background(), "author-token", []string{"r-1"})
	require.NoError(t, err)
	assert.Equal(t, "Reviewer One", asAuthor["r-1"].FullName)

	asChair, err := client.ResolveUsers(context.Background(), "chair-token", []string{"r-1"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", asChair["r-1"].FullName)
	assert.Equal(t, 2, transport.GetTotalCallCount())

	_, err = client.ResolveUsers(context.Background(), "author-token", []string{"r-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, transport.GetTotalCallCount())
	assert.NotEqual(t, cacheKey("author-token", "r-1"), cacheKey("chair-token", "r-1"))
}
