package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"confman/contexts/peer-review/review-workflow-service/adapters/memory"
	"confman/contexts/peer-review/review-workflow-service/application/commands"
	"confman/contexts/peer-review/review-workflow-service/domain/entities"
)

var baseTime = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store       *memory.Store
	now         time.Time
	submissions *fakeSubmissions
	incidents   *recordingIncidents
	metrics     *recordingMetrics
	logger      *slog.Logger
}

func newFixture(seed memory.Seed) *fixture {
	f := &fixture{
		store:       memory.NewStore(seed),
		now:         baseTime,
		submissions: &fakeSubmissions{statuses: map[string]entities.SubmissionStatus{}},
		incidents:   &recordingIncidents{},
		metrics:     &recordingMetrics{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	f.store.SetClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) bids() commands.BidUseCase {
	return commands.BidUseCase{
		Preferences: f.store,
		Outbox:      f.store,
		Clock:       f.store,
		IDGen:       f.store,
		Metrics:     f.metrics,
		Logger:      f.logger,
	}
}

func (f *fixture) assignments() commands.AssignmentUseCase {
	return commands.AssignmentUseCase{
		Preferences: f.store,
		Assignments: f.store,
		Outbox:      f.store,
		Clock:       f.store,
		IDGen:       f.store,
		Metrics:     f.metrics,
		Logger:      f.logger,
	}
}

func (f *fixture) reviews() commands.ReviewUseCase {
	return commands.ReviewUseCase{
		Assignments: f.store,
		Reviews:     f.store,
		Submissions: f.submissions,
		Outbox:      f.store,
		Incidents:   f.incidents,
		Clock:       f.store,
		IDGen:       f.store,
		Metrics:     f.metrics,
		Logger:      f.logger,
	}
}

func (f *fixture) decisions() commands.DecisionUseCase {
	return commands.DecisionUseCase{
		Decisions: f.store,
		Outbox:    f.store,
		Clock:     f.store,
		IDGen:     f.store,
		Metrics:   f.metrics,
		Logger:    f.logger,
	}
}

func ptr[T any](value T) *T {
	return &value
}

func content(score int, recommendation entities.Recommendation) entities.ReviewContent {
	return entities.ReviewContent{
		Score:          score,
		Confidence:     entities.ConfidenceHigh,
		Recommendation: recommendation,
	}
}

type fakeSubmissions struct {
	mu       sync.Mutex
	statuses map[string]entities.SubmissionStatus
	getErr   error
	updates  []string
}

func (f *fakeSubmissions) ListSubmissions(context.Context, string, string, entities.SubmissionStatus) ([]entities.Submission, error) {
	return nil, errors.New("not used")
}

func (f *fakeSubmissions) GetSubmission(_ context.Context, _ string, submissionID string) (entities.Submission, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return entities.Submission{}, false, f.getErr
	}
	status, ok := f.statuses[submissionID]
	if !ok {
		return entities.Submission{}, false, nil
	}
	return entities.Submission{SubmissionID: submissionID, Status: status}, true, nil
}

func (f *fakeSubmissions) UpdateSubmissionStatus(
	_ context.Context,
	_ string,
	submissionID string,
	status entities.SubmissionStatus,
) (entities.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[submissionID] = status
	f.updates = append(f.updates, submissionID+"="+string(status))
	return entities.Submission{SubmissionID: submissionID, Status: status}, nil
}

type recordingIncidents struct {
	mu   sync.Mutex
	errs []error
}

func (r *recordingIncidents) ReportIncident(_ context.Context, err error, _ map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

type recordingMetrics struct {
	mu         sync.Mutex
	outcomes   map[string][]string
	bestEffort []string
}

func (m *recordingMetrics) ObserveOperation(operation string, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = map[string][]string{}
	}
	m.outcomes[operation] = append(m.outcomes[operation], outcome)
}

func (m *recordingMetrics) RecordBestEffortFailure(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bestEffort = append(m.bestEffort, operation)
}
