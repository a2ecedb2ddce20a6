package postgresadapter

import (
	"time"

	"confman/contexts/peer-review/review-workflow-service/domain/entities"
)

type preferenceModel struct {
	PreferenceID   string    `gorm:"column:preference_id;primaryKey;size:64"`
	ReviewerID     string    `gorm:"column:reviewer_id;size:64;uniqueIndex:ux_review_preferences_reviewer_submission"`
	SubmissionID   string    `gorm:"column:submission_id;size:64;uniqueIndex:ux_review_preferences_reviewer_submission"`
	ConferenceID   *string   `gorm:"column:conference_id;size:64"`
	PreferenceKind string    `gorm:"column:preference_kind;size:32"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (preferenceModel) TableName() string {
	return "review_preferences"
}

func (m preferenceModel) toEntity() entities.Preference {
	return entities.Preference{
		PreferenceID:   m.PreferenceID,
		ReviewerID:     m.ReviewerID,
		SubmissionID:   m.SubmissionID,
		ConferenceID:   m.ConferenceID,
		PreferenceKind: entities.PreferenceKind(m.PreferenceKind),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

func preferenceModelFromEntity(p entities.Preference) preferenceModel {
	return preferenceModel{
		PreferenceID:   p.PreferenceID,
		ReviewerID:     p.ReviewerID,
		SubmissionID:   p.SubmissionID,
		ConferenceID:   p.ConferenceID,
		PreferenceKind: string(p.PreferenceKind),
		CreatedAt:      p.CreatedAt.UTC(),
		UpdatedAt:      p.UpdatedAt.UTC(),
	}
}

// noConference stands in for an absent conference id in the assignment
// triple index: NULLs never collide in a unique index, '' does.
const noConference = ""

type assignmentModel struct {
	AssignmentID string     `gorm:"column:assignment_id;primaryKey;size:64"`
	ReviewerID   string     `gorm:"column:reviewer_id;size:64;uniqueIndex:ux_review_assignments_triple"`
	SubmissionID string     `gorm:"column:submission_id;size:64;uniqueIndex:ux_review_assignments_triple;index"`
	ConferenceID string     `gorm:"column:conference_id;size:64;not null;default:'';uniqueIndex:ux_review_assignments_triple;index"`
	Status       string     `gorm:"column:status;size:32"`
	AssignedBy   string     `gorm:"column:assigned_by;size:64"`
	DueDate      *time.Time `gorm:"column:due_date"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (assignmentModel) TableName() string {
	return "review_assignments"
}

func (m assignmentModel) toEntity() entities.Assignment {
	return entities.Assignment{
		AssignmentID: m.AssignmentID,
		ReviewerID:   m.ReviewerID,
		SubmissionID: m.SubmissionID,
		ConferenceID: conferenceFromColumn(m.ConferenceID),
		Status:       entities.AssignmentStatus(m.Status),
		AssignedBy:   m.AssignedBy,
		DueDate:      normalizeOptionalTime(m.DueDate),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func assignmentModelFromEntity(a entities.Assignment) assignmentModel {
	return assignmentModel{
		AssignmentID: a.AssignmentID,
		ReviewerID:   a.ReviewerID,
		SubmissionID: a.SubmissionID,
		ConferenceID: conferenceColumn(a.ConferenceID),
		Status:       string(a.Status),
		AssignedBy:   a.AssignedBy,
		DueDate:      normalizeOptionalTime(a.DueDate),
		CreatedAt:    a.CreatedAt.UTC(),
		UpdatedAt:    a.UpdatedAt.UTC(),
	}
}

func conferenceColumn(conferenceID *string) string {
	if conferenceID == nil {
		return noConference
	}
	return *conferenceID
}

func conferenceFromColumn(value string) *string {
	if value == noConference {
		return nil
	}
	return &value
}

type reviewModel struct {
	ReviewID         string    `gorm:"column:review_id;primaryKey;size:64"`
	AssignmentID     string    `gorm:"column:assignment_id;size:64;uniqueIndex:ux_reviews_assignment"`
	ConferenceID     *string   `gorm:"column:conference_id;size:64;index"`
	Score            int       `gorm:"column:score"`
	Confidence       string    `gorm:"column:confidence;size:16"`
	CommentForAuthor *string   `gorm:"column:comment_for_author;type:text"`
	CommentForPC     *string   `gorm:"column:comment_for_pc;type:text"`
	Recommendation   string    `gorm:"column:recommendation;size:16"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string {
	return "reviews"
}

func (m reviewModel) toEntity() entities.Review {
	return entities.Review{
		ReviewID:         m.ReviewID,
		AssignmentID:     m.AssignmentID,
		ConferenceID:     m.ConferenceID,
		Score:            m.Score,
		Confidence:       entities.Confidence(m.Confidence),
		CommentForAuthor: m.CommentForAuthor,
		CommentForPC:     m.CommentForPC,
		Recommendation:   entities.Recommendation(m.Recommendation),
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

func reviewModelFromEntity(r entities.Review) reviewModel {
	return reviewModel{
		ReviewID:         r.ReviewID,
		AssignmentID:     r.AssignmentID,
		ConferenceID:     r.ConferenceID,
		Score:            r.Score,
		Confidence:       string(r.Confidence),
		CommentForAuthor: r.CommentForAuthor,
		CommentForPC:     r.CommentForPC,
		Recommendation:   string(r.Recommendation),
		CreatedAt:        r.CreatedAt.UTC(),
		UpdatedAt:        r.UpdatedAt.UTC(),
	}
}

// reviewerReviewRow is a review joined with its assignment's reviewer.
type reviewerReviewRow struct {
	Review     reviewModel `gorm:"embedded"`
	ReviewerID string      `gorm:"column:reviewer_id"`
}

type decisionModel struct {
	DecisionID   string    `gorm:"column:decision_id;primaryKey;size:64"`
	SubmissionID string    `gorm:"column:submission_id;size:64;uniqueIndex:ux_review_decisions_submission"`
	ConferenceID *string   `gorm:"column:conference_id;size:64"`
	DecisionKind string    `gorm:"column:decision_kind;size:16"`
	DecidedBy    string    `gorm:"column:decided_by;size:64"`
	Note         *string   `gorm:"column:note;type:text"`
	DecidedAt    time.Time `gorm:"column:decided_at"`
}

func (decisionModel) TableName() string {
	return "review_decisions"
}

func (m decisionModel) toEntity() entities.Decision {
	return entities.Decision{
		DecisionID:   m.DecisionID,
		SubmissionID: m.SubmissionID,
		ConferenceID: m.ConferenceID,
		DecisionKind: entities.DecisionKind(m.DecisionKind),
		DecidedBy:    m.DecidedBy,
		Note:         m.Note,
		DecidedAt:    m.DecidedAt.UTC(),
	}
}

func decisionModelFromEntity(d entities.Decision) decisionModel {
	return decisionModel{
		DecisionID:   d.DecisionID,
		SubmissionID: d.SubmissionID,
		ConferenceID: d.ConferenceID,
		DecisionKind: string(d.DecisionKind),
		DecidedBy:    d.DecidedBy,
		Note:         d.Note,
		DecidedAt:    d.DecidedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey;size:64"`
	EventType    string     `gorm:"column:event_type;size:64"`
	PartitionKey string     `gorm:"column:partition_key;size:64"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;size:16;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "review_outbox"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}
