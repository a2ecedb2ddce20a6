package reviewworkflowservice

import (
	"log/slog"

	httpadapter "confman/contexts/peer-review/review-workflow-service/adapters/http"
	"confman/contexts/peer-review/review-workflow-service/adapters/memory"
	"confman/contexts/peer-review/review-workflow-service/application/commands"
	"confman/contexts/peer-review/review-workflow-service/application/queries"
	"confman/contexts/peer-review/review-workflow-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Preferences ports.PreferenceRepository
	Assignments ports.AssignmentRepository
	Reviews     ports.ReviewRepository
	Decisions   ports.DecisionRepository
	Outbox      ports.OutboxWriter
	Tracks      ports.ConferenceTrackClient
	Submissions ports.SubmissionClient
	Identity    ports.IdentityClient
	Incidents   ports.IncidentReporter
	Metrics     ports.Metrics
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Bids: commands.BidUseCase{
				Preferences: deps.Preferences,
				Outbox:      deps.Outbox,
				Clock:       deps.Clock,
				IDGen:       deps.IDGen,
				Metrics:     deps.Metrics,
				Logger:      deps.Logger,
			},
			Assignments: commands.AssignmentUseCase{
				Preferences: deps.Preferences,
				Assignments: deps.Assignments,
				Outbox:      deps.Outbox,
				Clock:       deps.Clock,
				IDGen:       deps.IDGen,
				Metrics:     deps.Metrics,
				Logger:      deps.Logger,
			},
			Reviews: commands.ReviewUseCase{
				Assignments: deps.Assignments,
				Reviews:     deps.Reviews,
				Submissions: deps.Submissions,
				Outbox:      deps.Outbox,
				Incidents:   deps.Incidents,
				Clock:       deps.Clock,
				IDGen:       deps.IDGen,
				Metrics:     deps.Metrics,
				Logger:      deps.Logger,
			},
			Decisions: commands.DecisionUseCase{
				Decisions: deps.Decisions,
				Outbox:    deps.Outbox,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Metrics:   deps.Metrics,
				Logger:    deps.Logger,
			},
			Queries: queries.QueryUseCase{
				Preferences: deps.Preferences,
				Assignments: deps.Assignments,
				Reviews:     deps.Reviews,
				Decisions:   deps.Decisions,
				Tracks:      deps.Tracks,
				Submissions: deps.Submissions,
				Identity:    deps.Identity,
				Metrics:     deps.Metrics,
				Logger:      deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule wires every repository to one memory store. Upstream
// clients are left unset, so enrichment and reviewer submission listing
// degrade to their fallbacks.
func NewInMemoryModule(seed memory.Seed, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Preferences: store,
		Assignments: store,
		Reviews:     store,
		Decisions:   store,
		Outbox:      store,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
