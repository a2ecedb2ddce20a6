package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "confman/contexts/peer-review/review-workflow-service/application"
	"confman/contexts/peer-review/review-workflow-service/domain/entities"
	domainerrors "confman/contexts/peer-review/review-workflow-service/domain/errors"
	"confman/contexts/peer-review/review-workflow-service/ports"
)

type SubmitBidCommand struct {
	ReviewerID   string
	SubmissionID string
	ConferenceID *string
	Kind         entities.PreferenceKind
}

type BidUseCase struct {
	Preferences ports.PreferenceRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Metrics     ports.Metrics
	Logger      *slog.Logger
}

// SubmitBid records or overwrites the reviewer's preference for a submission.
// Overwrites keep the conference recorded on the first bid.
func (uc BidUseCase) SubmitBid(ctx context.Context, cmd SubmitBidCommand) (_ entities.Preference, err error) {
	defer application.Observe(uc.Metrics, "submit_bid", time.Now(), &err)
	logger := application.ResolveLogger(uc.Logger)

	reviewerID := strings.TrimSpace(cmd.ReviewerID)
	submissionID := strings.TrimSpace(cmd.SubmissionID)
	if reviewerID == "" || submissionID == "" || !cmd.Kind.Valid() {
		return entities.Preference{}, domainerrors.ErrInvalidInput
	}

	preferenceID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Preference{}, err
	}
	now := uc.Clock.Now().UTC()
	stored, err := uc.Preferences.UpsertPreference(ctx, entities.Preference{
		PreferenceID:   preferenceID,
		ReviewerID:     reviewerID,
		SubmissionID:   submissionID,
		ConferenceID:   trimOptional(cmd.ConferenceID),
		PreferenceKind: cmd.Kind,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return entities.Preference{}, err
	}

	emitEvent(ctx, uc.Outbox, uc.IDGen, application.BestEffort{Logger: uc.Logger, Metrics: uc.Metrics},
		"preference.recorded", stored.SubmissionID, now, map[string]any{
			"preference_id":   stored.PreferenceID,
			"reviewer_id":     stored.ReviewerID,
			"submission_id":   stored.SubmissionID,
			"preference_kind": string(stored.PreferenceKind),
		})

	logger.Info("bid recorded",
		"event", "review_workflow_bid_recorded",
		"module", application.ModuleName(),
		"layer", "application",
		"reviewer_id", stored.ReviewerID,
		"submission_id", stored.SubmissionID,
		"preference_kind", string(stored.PreferenceKind),
	)
	return stored, nil
}
