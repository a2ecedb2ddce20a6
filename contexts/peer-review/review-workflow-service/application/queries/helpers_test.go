package queries_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"confman/contexts/peer-review/review-workflow-service/adapters/memory"
	"confman/contexts/peer-review/review-workflow-service/application/queries"
	"confman/contexts/peer-review/review-workflow-service/domain/entities"
)

var baseTime = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

var errUpstream = errors.New("upstream down")

func ptr[T any](value T) *T {
	return &value
}

func newQueries(store *memory.Store) queries.QueryUseCase {
	return queries.QueryUseCase{
		Preferences: store,
		Assignments: store,
		Reviews:     store,
		Decisions:   store,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func assignment(id string, reviewerID string, submissionID string, status entities.AssignmentStatus, offset time.Duration) entities.Assignment {
	return entities.Assignment{
		AssignmentID: id,
		ReviewerID:   reviewerID,
		SubmissionID: submissionID,
		ConferenceID: ptr("conf-1"),
		Status:       status,
		AssignedBy:   "chair-1",
		CreatedAt:    baseTime.Add(offset),
		UpdatedAt:    baseTime.Add(offset),
	}
}

func review(assignmentID string, score int, recommendation entities.Recommendation, offset time.Duration) entities.Review {
	return entities.Review{
		ReviewID:         "rev-" + assignmentID,
		AssignmentID:     assignmentID,
		ConferenceID:     ptr("conf-1"),
		Score:            score,
		Confidence:       entities.ConfidenceMedium,
		CommentForAuthor: ptr("comment from " + assignmentID),
		CommentForPC:     ptr("private note"),
		Recommendation:   recommendation,
		CreatedAt:        baseTime.Add(offset),
		UpdatedAt:        baseTime.Add(offset),
	}
}

type fakeIdentity struct {
	mu       sync.Mutex
	profiles map[string]entities.UserProfile
	err      error
	calls    [][]string
}

func (f *fakeIdentity) ResolveUsers(_ context.Context, _ string, userIDs []string) (map[string]entities.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), userIDs...))
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[string]entities.UserProfile)
	for _, id := range userIDs {
		if profile, ok := f.profiles[id]; ok {
			result[id] = profile
		}
	}
	return result, nil
}

type fakeTracks struct {
	members []entities.TrackMember
	err     error
}

func (f fakeTracks) MyTrackAssignments(context.Context, string) ([]entities.TrackMember, error) {
	return f.members, f.err
}

type fakeSubmissions struct {
	mu       sync.Mutex
	byTrack  map[string][]entities.Submission
	failing  map[string]bool
	requests []string
}

func (f *fakeSubmissions) ListSubmissions(
	_ context.Context,
	_ string,
	trackID string,
	status entities.SubmissionStatus,
) ([]entities.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, trackID+"?"+string(status))
	if f.failing[trackID] {
		return nil, errUpstream
	}
	return f.byTrack[trackID], nil
}

func (f *fakeSubmissions) GetSubmission(context.Context, string, string) (entities.Submission, bool, error) {
	return entities.Submission{}, false, nil
}

func (f *fakeSubmissions) UpdateSubmissionStatus(context.Context, string, string, entities.SubmissionStatus) (entities.Submission, error) {
	return entities.Submission{}, errors.New("not used")
}
