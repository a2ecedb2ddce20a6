package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"
	"confman/contexts/peer-review/review-workflow-service/ports"

	"github.com/google/uuid"
)

// Seed preloads a Store. Conflicting rows in a seed overwrite each other.
type Seed struct {
	Preferences []entities.Preference
	Assignments []entities.Assignment
	Reviews     []entities.Review
	Decisions   []entities.Decision
}

type outboxRow struct {
	message     ports.OutboxMessage
	publishedAt *time.Time
}

type Store struct {
	mu sync.RWMutex

	preferences map[string]entities.Preference
	assignments map[string]entities.Assignment
	reviews     map[string]entities.Review
	decisions   map[string]entities.Decision
	outbox      []outboxRow

	now func() time.Time
}

func NewStore(seed Seed) *Store {
	store := &Store{
		preferences: make(map[string]entities.Preference, len(seed.Preferences)),
		assignments: make(map[string]entities.Assignment, len(seed.Assignments)),
		reviews:     make(map[string]entities.Review, len(seed.Reviews)),
		decisions:   make(map[string]entities.Decision, len(seed.Decisions)),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, item := range seed.Preferences {
		store.preferences[preferenceKey(item.ReviewerID, item.SubmissionID)] = item
	}
	for _, item := range seed.Assignments {
		store.assignments[item.AssignmentID] = item
	}
	for _, item := range seed.Reviews {
		store.reviews[item.AssignmentID] = item
	}
	for _, item := range seed.Decisions {
		store.decisions[item.SubmissionID] = item
	}
	return store
}

// SetClock replaces the store's time source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func preferenceKey(reviewerID string, submissionID string) string {
	return strings.TrimSpace(reviewerID) + "\x00" + strings.TrimSpace(submissionID)
}

func (s *Store) UpsertPreference(_ context.Context, preference entities.Preference) (entities.Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := preferenceKey(preference.ReviewerID, preference.SubmissionID)
	if existing, ok := s.preferences[key]; ok {
		existing.PreferenceKind = preference.PreferenceKind
		existing.UpdatedAt = preference.UpdatedAt
		s.preferences[key] = existing
		return existing, nil
	}
	s.preferences[key] = preference
	return preference, nil
}

func (s *Store) GetPreference(
	_ context.Context,
	reviewerID string,
	submissionID string,
	conferenceID *string,
) (entities.Preference, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.preferences[preferenceKey(reviewerID, submissionID)]
	if !ok {
		return entities.Preference{}, false, nil
	}
	if conferenceID != nil && (item.ConferenceID == nil || *item.ConferenceID != *conferenceID) {
		return entities.Preference{}, false, nil
	}
	return item, true, nil
}

func (s *Store) ListPreferencesByReviewer(_ context.Context, reviewerID string) ([]entities.Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviewerID = strings.TrimSpace(reviewerID)
	items := make([]entities.Preference, 0)
	for _, item := range s.preferences {
		if item.ReviewerID == reviewerID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
	return items, nil
}

func (s *Store) CreateAssignment(_ context.Context, assignment entities.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assignments {
		if existing.ReviewerID == assignment.ReviewerID &&
			existing.SubmissionID == assignment.SubmissionID &&
			existing.SameConference(assignment.ConferenceID) {
			return domainerrors.ErrAssignmentExists
		}
	}
	s.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (s *Store) UpdateAssignment(_ context.Context, assignment entities.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assignments[assignment.AssignmentID]; !ok {
		return domainerrors.ErrAssignmentNotFound
	}
	s.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (s *Store) GetAssignment(_ context.Context, assignmentID string) (entities.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.assignments[strings.TrimSpace(assignmentID)]
	if !ok {
		return entities.Assignment{}, domainerrors.ErrAssignmentNotFound
	}
	return item, nil
}

func (s *Store) FindAssignment(
	_ context.Context,
	reviewerID string,
	submissionID string,
	conferenceID *string,
) (entities.Assignment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.assignments {
		if item.ReviewerID == reviewerID && item.SubmissionID == submissionID && item.SameConference(conferenceID) {
			return item, true, nil
		}
	}
	return entities.Assignment{}, false, nil
}

func (s *Store) CountAssignments(ctx context.Context, filter ports.AssignmentFilter) (int64, error) {
	items, err := s.ListAssignments(ctx, filter, 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func (s *Store) ListAssignments(
	_ context.Context,
	filter ports.AssignmentFilter,
	offset int,
	limit int,
) ([]entities.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Assignment, 0)
	for _, item := range s.assignments {
		if !matchesAssignment(item, filter) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].AssignmentID < items[j].AssignmentID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return window(items, offset, limit), nil
}

func matchesAssignment(item entities.Assignment, filter ports.AssignmentFilter) bool {
	if value := strings.TrimSpace(filter.ReviewerID); value != "" && item.ReviewerID != value {
		return false
	}
	if value := strings.TrimSpace(filter.SubmissionID); value != "" && item.SubmissionID != value {
		return false
	}
	if value := strings.TrimSpace(filter.ConferenceID); value != "" &&
		(item.ConferenceID == nil || *item.ConferenceID != value) {
		return false
	}
	if filter.Status != "" && item.Status != filter.Status {
		return false
	}
	return true
}

func (s *Store) CreateReview(_ context.Context, review entities.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reviews[review.AssignmentID]; exists {
		return domainerrors.ErrDuplicateReview
	}
	s.reviews[review.AssignmentID] = review
	return nil
}

func (s *Store) CompleteAssignment(_ context.Context, review entities.Review, assignment entities.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.assignments[assignment.AssignmentID]
	if !ok {
		return domainerrors.ErrAssignmentNotFound
	}
	if _, exists := s.reviews[review.AssignmentID]; exists {
		return domainerrors.ErrDuplicateReview
	}
	if stored.Status != entities.AssignmentStatusAccepted {
		return domainerrors.ErrInvalidState
	}
	stored.Status = entities.AssignmentStatusCompleted
	stored.UpdatedAt = assignment.UpdatedAt
	s.reviews[review.AssignmentID] = review
	s.assignments[assignment.AssignmentID] = stored
	return nil
}

func (s *Store) UpdateReview(_ context.Context, review entities.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.reviews[review.AssignmentID]
	if !ok || existing.ReviewID != review.ReviewID {
		return domainerrors.ErrReviewNotFound
	}
	s.reviews[review.AssignmentID] = review
	return nil
}

func (s *Store) GetReviewByAssignment(_ context.Context, assignmentID string) (entities.Review, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.reviews[strings.TrimSpace(assignmentID)]
	return item, ok, nil
}

func (s *Store) ListReviewsBySubmission(
	_ context.Context,
	submissionID string,
	offset int,
	limit int,
) ([]ports.ReviewWithReviewer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	submissionID = strings.TrimSpace(submissionID)
	items := make([]ports.ReviewWithReviewer, 0)
	for assignmentID, review := range s.reviews {
		assignment, ok := s.assignments[assignmentID]
		if !ok || assignment.SubmissionID != submissionID {
			continue
		}
		items = append(items, ports.ReviewWithReviewer{Review: review, ReviewerID: assignment.ReviewerID})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Review.CreatedAt.Equal(items[j].Review.CreatedAt) {
			return items[i].Review.ReviewID < items[j].Review.ReviewID
		}
		return items[i].Review.CreatedAt.After(items[j].Review.CreatedAt)
	})
	return window(items, offset, limit), nil
}

func (s *Store) ListReviewsByConference(_ context.Context, conferenceID string) ([]entities.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conferenceID = strings.TrimSpace(conferenceID)
	items := make([]entities.Review, 0)
	for _, review := range s.reviews {
		if review.ConferenceID != nil && *review.ConferenceID == conferenceID {
			items = append(items, review)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpsertDecision(_ context.Context, decision entities.Decision) (entities.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.decisions[decision.SubmissionID]; ok {
		existing.DecisionKind = decision.DecisionKind
		existing.DecidedBy = decision.DecidedBy
		existing.Note = decision.Note
		existing.DecidedAt = decision.DecidedAt
		s.decisions[decision.SubmissionID] = existing
		return existing, nil
	}
	s.decisions[decision.SubmissionID] = decision
	return decision, nil
}

func (s *Store) GetDecision(_ context.Context, submissionID string) (entities.Decision, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.decisions[strings.TrimSpace(submissionID)]
	return item, ok, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.outbox {
		if row.message.OutboxID == envelope.EventID {
			return nil
		}
	}
	s.outbox = append(s.outbox, outboxRow{message: ports.OutboxMessage{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.outbox {
		if row.publishedAt != nil {
			continue
		}
		items = append(items, row.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			at := publishedAt.UTC()
			s.outbox[i].publishedAt = &at
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

// OutboxEventTypes lists every appended event type in append order.
func (s *Store) OutboxEventTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.outbox))
	for _, row := range s.outbox {
		types = append(types, row.message.EventType)
	}
	return types
}

func window[T any](items []T, offset int, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
