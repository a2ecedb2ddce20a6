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

type UpsertDecisionCommand struct {
	SubmissionID string
	ConferenceID *string
	DecidedBy    string
	Kind         entities.DecisionKind
	Note         *string
}

type DecisionUseCase struct {
	Decisions ports.DecisionRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Metrics   ports.Metrics
	Logger    *slog.Logger
}

// UpsertDecision records the chair verdict, replacing any earlier one.
func (uc DecisionUseCase) UpsertDecision(ctx context.Context, cmd UpsertDecisionCommand) (_ entities.Decision, err error) {
	defer application.Observe(uc.Metrics, "upsert_decision", time.Now(), &err)

	submissionID := strings.TrimSpace(cmd.SubmissionID)
	decidedBy := strings.TrimSpace(cmd.DecidedBy)
	if submissionID == "" || decidedBy == "" || !cmd.Kind.Valid() {
		return entities.Decision{}, domainerrors.ErrInvalidInput
	}

	decisionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Decision{}, err
	}
	now := uc.Clock.Now().UTC()
	stored, err := uc.Decisions.UpsertDecision(ctx, entities.Decision{
		DecisionID:   decisionID,
		SubmissionID: submissionID,
		ConferenceID: trimOptional(cmd.ConferenceID),
		DecisionKind: cmd.Kind,
		DecidedBy:    decidedBy,
		Note:         trimOptional(cmd.Note),
		DecidedAt:    now,
	})
	if err != nil {
		return entities.Decision{}, err
	}

	emitEvent(ctx, uc.Outbox, uc.IDGen, application.BestEffort{Logger: uc.Logger, Metrics: uc.Metrics},
		"decision.recorded", submissionID, now, map[string]any{
			"decision_id":   stored.DecisionID,
			"submission_id": stored.SubmissionID,
			"decision_kind": string(stored.DecisionKind),
			"decided_by":    stored.DecidedBy,
		})

	application.ResolveLogger(uc.Logger).Info("decision recorded",
		"event", "review_workflow_decision_recorded",
		"module", application.ModuleName(),
		"layer", "application",
		"submission_id", submissionID,
		"decision_kind", string(stored.DecisionKind),
		"decided_by", decidedBy,
	)
	return stored, nil
}
