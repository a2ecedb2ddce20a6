package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"
	"confman/contexts/peer-review/review-workflow-service/ports"
	"confman/internal/shared/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates or updates the review workflow tables and their
// uniqueness constraints.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&preferenceModel{},
		&assignmentModel{},
		&reviewModel{},
		&decisionModel{},
		&outboxModel{},
	)
}

func (r *Repository) UpsertPreference(ctx context.Context, preference entities.Preference) (entities.Preference, error) {
	row := preferenceModelFromEntity(preference)
	var stored preferenceModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reviewer_id"}, {Name: "submission_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"preference_kind", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.
			Where("reviewer_id = ?", row.ReviewerID).
			Where("submission_id = ?", row.SubmissionID).
			First(&stored).
			Error
	})
	if err != nil {
		return entities.Preference{}, err
	}
	return stored.toEntity(), nil
}

func (r *Repository) GetPreference(
	ctx context.Context,
	reviewerID string,
	submissionID string,
	conferenceID *string,
) (entities.Preference, bool, error) {
	tx := r.db.WithContext(ctx).
		Where("reviewer_id = ?", strings.TrimSpace(reviewerID)).
		Where("submission_id = ?", strings.TrimSpace(submissionID))
	if conferenceID != nil {
		tx = tx.Where("conference_id = ?", *conferenceID)
	}

	var row preferenceModel
	if err := tx.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Preference{}, false, nil
		}
		return entities.Preference{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListPreferencesByReviewer(ctx context.Context, reviewerID string) ([]entities.Preference, error) {
	var rows []preferenceModel
	if err := r.db.WithContext(ctx).
		Where("reviewer_id = ?", strings.TrimSpace(reviewerID)).
		Order("updated_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Preference, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateAssignment(ctx context.Context, assignment entities.Assignment) error {
	row := assignmentModelFromEntity(assignment)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAssignmentExists
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateAssignment(ctx context.Context, assignment entities.Assignment) error {
	result := r.db.WithContext(ctx).
		Model(&assignmentModel{}).
		Where("assignment_id = ?", strings.TrimSpace(assignment.AssignmentID)).
		Updates(map[string]any{
			"status":     string(assignment.Status),
			"due_date":   normalizeOptionalTime(assignment.DueDate),
			"updated_at": assignment.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.requireAssignment(ctx, assignment.AssignmentID)
	}
	return nil
}

// requireAssignment disambiguates a zero-row update: MySQL reports unchanged
// rows as unaffected.
func (r *Repository) requireAssignment(ctx context.Context, assignmentID string) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&assignmentModel{}).
		Where("assignment_id = ?", strings.TrimSpace(assignmentID)).
		Count(&count).
		Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrAssignmentNotFound
	}
	return nil
}

func (r *Repository) GetAssignment(ctx context.Context, assignmentID string) (entities.Assignment, error) {
	var row assignmentModel
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", strings.TrimSpace(assignmentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Assignment{}, domainerrors.ErrAssignmentNotFound
		}
		return entities.Assignment{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindAssignment(
	ctx context.Context,
	reviewerID string,
	submissionID string,
	conferenceID *string,
) (entities.Assignment, bool, error) {
	tx := r.db.WithContext(ctx).
		Where("reviewer_id = ?", strings.TrimSpace(reviewerID)).
		Where("submission_id = ?", strings.TrimSpace(submissionID)).
		Where("conference_id = ?", conferenceColumn(conferenceID))

	var row assignmentModel
	if err := tx.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Assignment{}, false, nil
		}
		return entities.Assignment{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) assignmentQuery(ctx context.Context, filter ports.AssignmentFilter) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&assignmentModel{})
	if value := strings.TrimSpace(filter.ReviewerID); value != "" {
		tx = tx.Where("reviewer_id = ?", value)
	}
	if value := strings.TrimSpace(filter.SubmissionID); value != "" {
		tx = tx.Where("submission_id = ?", value)
	}
	if value := strings.TrimSpace(filter.ConferenceID); value != "" {
		tx = tx.Where("conference_id = ?", value)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	return tx
}

func (r *Repository) CountAssignments(ctx context.Context, filter ports.AssignmentFilter) (int64, error) {
	var count int64
	if err := r.assignmentQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) ListAssignments(
	ctx context.Context,
	filter ports.AssignmentFilter,
	offset int,
	limit int,
) ([]entities.Assignment, error) {
	tx := r.assignmentQuery(ctx, filter).Order("created_at DESC").Order("assignment_id ASC")
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []assignmentModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Assignment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateReview(ctx context.Context, review entities.Review) error {
	row := reviewModelFromEntity(review)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateReview
		}
		return err
	}
	return nil
}

func (r *Repository) CompleteAssignment(ctx context.Context, review entities.Review, assignment entities.Assignment) error {
	row := reviewModelFromEntity(review)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrDuplicateReview
			}
			return err
		}
		result := tx.
			Model(&assignmentModel{}).
			Where("assignment_id = ?", strings.TrimSpace(assignment.AssignmentID)).
			Where("status = ?", string(entities.AssignmentStatusAccepted)).
			Updates(map[string]any{
				"status":     string(entities.AssignmentStatusCompleted),
				"updated_at": assignment.UpdatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		var count int64
		if err := tx.Model(&assignmentModel{}).
			Where("assignment_id = ?", strings.TrimSpace(assignment.AssignmentID)).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrAssignmentNotFound
		}
		return domainerrors.ErrInvalidState
	})
}

func (r *Repository) UpdateReview(ctx context.Context, review entities.Review) error {
	result := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("review_id = ?", strings.TrimSpace(review.ReviewID)).
		Updates(map[string]any{
			"score":              review.Score,
			"confidence":         string(review.Confidence),
			"comment_for_author": review.CommentForAuthor,
			"comment_for_pc":     review.CommentForPC,
			"recommendation":     string(review.Recommendation),
			"updated_at":         review.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&reviewModel{}).
			Where("review_id = ?", strings.TrimSpace(review.ReviewID)).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrReviewNotFound
		}
	}
	return nil
}

func (r *Repository) GetReviewByAssignment(ctx context.Context, assignmentID string) (entities.Review, bool, error) {
	var row reviewModel
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", strings.TrimSpace(assignmentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Review{}, false, nil
		}
		return entities.Review{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListReviewsBySubmission(
	ctx context.Context,
	submissionID string,
	offset int,
	limit int,
) ([]ports.ReviewWithReviewer, error) {
	tx := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.*, review_assignments.reviewer_id").
		Joins("JOIN review_assignments ON review_assignments.assignment_id = reviews.assignment_id").
		Where("review_assignments.submission_id = ?", strings.TrimSpace(submissionID)).
		Order("reviews.created_at DESC").
		Order("reviews.review_id ASC")
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []reviewerReviewRow
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ports.ReviewWithReviewer, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.ReviewWithReviewer{
			Review:     row.Review.toEntity(),
			ReviewerID: row.ReviewerID,
		})
	}
	return items, nil
}

func (r *Repository) ListReviewsByConference(ctx context.Context, conferenceID string) ([]entities.Review, error) {
	var rows []reviewModel
	if err := r.db.WithContext(ctx).
		Where("conference_id = ?", strings.TrimSpace(conferenceID)).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Review, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpsertDecision(ctx context.Context, decision entities.Decision) (entities.Decision, error) {
	row := decisionModelFromEntity(decision)
	var stored decisionModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"decision_kind", "decided_by", "note", "decided_at"}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("submission_id = ?", row.SubmissionID).First(&stored).Error
	})
	if err != nil {
		return entities.Decision{}, err
	}
	return stored.toEntity(), nil
}

func (r *Repository) GetDecision(ctx context.Context, submissionID string) (entities.Decision, bool, error) {
	var row decisionModel
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", strings.TrimSpace(submissionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Decision{}, false, nil
		}
		return entities.Decision{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// isUniqueViolation covers raw pgx errors and dialect errors translated by
// gorm when TranslateError is enabled.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
