package ports

import (
	"context"
	"time"

	"confman/contexts/peer-review/review-workflow-service/domain/entities"
)

type PreferenceRepository interface {
	// UpsertPreference is a single atomic write keyed by (reviewer, submission).
	// An existing row keeps its id, created_at and conference_id.
	UpsertPreference(ctx context.Context, preference entities.Preference) (entities.Preference, error)
	GetPreference(ctx context.Context, reviewerID string, submissionID string, conferenceID *string) (entities.Preference, bool, error)
	ListPreferencesByReviewer(ctx context.Context, reviewerID string) ([]entities.Preference, error)
}

type AssignmentFilter struct {
	ReviewerID   string
	SubmissionID string
	ConferenceID string
	Status       entities.AssignmentStatus
}

type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, assignment entities.Assignment) error
	UpdateAssignment(ctx context.Context, assignment entities.Assignment) error
	GetAssignment(ctx context.Context, assignmentID string) (entities.Assignment, error)
	FindAssignment(ctx context.Context, reviewerID string, submissionID string, conferenceID *string) (entities.Assignment, bool, error)
	CountAssignments(ctx context.Context, filter AssignmentFilter) (int64, error)
	// ListAssignments orders by created_at descending. A zero limit means no limit.
	ListAssignments(ctx context.Context, filter AssignmentFilter, offset int, limit int) ([]entities.Assignment, error)
}

// ReviewWithReviewer is a review joined with its assignment's reviewer.
type ReviewWithReviewer struct {
	Review     entities.Review
	ReviewerID string
}

type ReviewRepository interface {
	// CreateReview fails with ErrDuplicateReview when the assignment already has one.
	CreateReview(ctx context.Context, review entities.Review) error
	// CompleteAssignment creates the first review of an ACCEPTED assignment and
	// stores the assignment as COMPLETED in one atomic write. Nothing is kept
	// when either half fails.
	CompleteAssignment(ctx context.Context, review entities.Review, assignment entities.Assignment) error
	UpdateReview(ctx context.Context, review entities.Review) error
	GetReviewByAssignment(ctx context.Context, assignmentID string) (entities.Review, bool, error)
	// ListReviewsBySubmission orders by created_at descending. A zero limit means no limit.
	ListReviewsBySubmission(ctx context.Context, submissionID string, offset int, limit int) ([]ReviewWithReviewer, error)
	ListReviewsByConference(ctx context.Context, conferenceID string) ([]entities.Review, error)
}

type DecisionRepository interface {
	// UpsertDecision is a single atomic write keyed by submission.
	UpsertDecision(ctx context.Context, decision entities.Decision) (entities.Decision, error)
	GetDecision(ctx context.Context, submissionID string) (entities.Decision, bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// ConferenceTrackClient talks to the conference service.
type ConferenceTrackClient interface {
	MyTrackAssignments(ctx context.Context, authToken string) ([]entities.TrackMember, error)
}

// SubmissionClient talks to the submission service.
type SubmissionClient interface {
	ListSubmissions(ctx context.Context, authToken string, trackID string, status entities.SubmissionStatus) ([]entities.Submission, error)
	// GetSubmission returns found=false when the service answers 404.
	GetSubmission(ctx context.Context, authToken string, submissionID string) (entities.Submission, bool, error)
	UpdateSubmissionStatus(ctx context.Context, authToken string, submissionID string, status entities.SubmissionStatus) (entities.Submission, error)
}

// IdentityClient resolves user profiles in one batch call.
type IdentityClient interface {
	ResolveUsers(ctx context.Context, authToken string, userIDs []string) (map[string]entities.UserProfile, error)
}

type EventEnvelope struct {
	EventID       string
	EventType     string
	OccurredAt    time.Time
	SourceService string
	PartitionKey  string
	SchemaVersion int
	Data          []byte
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	OutboxWriter
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// Metrics records workflow outcomes. Implementations must be safe for
// concurrent use.
type Metrics interface {
	ObserveOperation(operation string, outcome string, duration time.Duration)
	RecordBestEffortFailure(operation string)
}

// IncidentReporter receives integrity violations that should page someone.
type IncidentReporter interface {
	ReportIncident(ctx context.Context, err error, tags map[string]string)
}
