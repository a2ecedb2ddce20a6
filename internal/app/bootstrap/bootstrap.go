package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	reviewworkflow "confman/contexts/peer-review/review-workflow-service"
	postgresadapter "confman/contexts/peer-review/review-workflow-service/adapters/postgres"
	"confman/contexts/peer-review/review-workflow-service/adapters/upstream"
	workerapp "confman/contexts/peer-review/review-workflow-service/application/workers"
	"confman/contexts/peer-review/review-workflow-service/ports"
	"confman/internal/platform/config"
	"confman/internal/platform/db"
	"confman/internal/platform/httpserver"
	"confman/internal/platform/messaging"
	"confman/internal/platform/metrics"
	"confman/internal/platform/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server    *httpserver.Server
	database  *db.Database
	incidents *telemetry.IncidentReporter
	logger    *slog.Logger
}

type WorkerApp struct {
	database      *db.Database
	outboxRelay   workerapp.OutboxRelay
	mqtt          *messaging.MQTTPublisher
	metricsServer *http.Server
	pollInterval  time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	database, err := connect(cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	workflowMetrics, err := metrics.NewWorkflowMetrics(registry)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	deps := reviewworkflow.Dependencies{
		Metrics: workflowMetrics,
		Clock:   postgresadapter.SystemClock{},
		IDGen:   postgresadapter.UUIDGenerator{},
		Logger:  logger,
	}
	repo := postgresadapter.NewRepository(database.DB, logger)
	deps.Preferences = repo
	deps.Assignments = repo
	deps.Reviews = repo
	deps.Decisions = repo
	deps.Outbox = repo
	wireUpstreams(&deps, cfg, logger)

	var incidents *telemetry.IncidentReporter
	if cfg.SentryDSN != "" {
		incidents, err = telemetry.NewIncidentReporter(telemetry.SentryConfig{
			DSN:         cfg.SentryDSN,
			Environment: cfg.ServiceName,
		}, logger)
		if err != nil {
			_ = database.Close()
			return nil, err
		}
		deps.Incidents = incidents
	}

	module := reviewworkflow.NewModule(deps)
	server := httpserver.New(module, httpserver.Options{
		JWTSecret:      cfg.JWTSecret,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	}, logger, normalizeAddr(cfg.HTTPPort))

	return &APIApp{
		server:    server,
		database:  database,
		incidents: incidents,
		logger:    logger,
	}, nil
}

// wireUpstreams only sets collaborators whose base URL is configured, so an
// unset service leaves a nil interface and the module falls back.
func wireUpstreams(deps *reviewworkflow.Dependencies, cfg config.Config, logger *slog.Logger) {
	upstreamConfig := func(baseURL string) upstream.Config {
		return upstream.Config{BaseURL: baseURL, Timeout: cfg.UpstreamTimeout, Logger: logger}
	}
	if cfg.ConferenceServiceURL != "" {
		deps.Tracks = upstream.NewConferenceTrackClient(upstreamConfig(cfg.ConferenceServiceURL))
	}
	if cfg.SubmissionServiceURL != "" {
		deps.Submissions = upstream.NewSubmissionClient(upstreamConfig(cfg.SubmissionServiceURL))
	}
	if cfg.IdentityServiceURL != "" {
		deps.Identity = upstream.NewIdentityClient(upstreamConfig(cfg.IdentityServiceURL), cfg.IdentityCacheTTL)
	}
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	database, err := connect(cfg)
	if err != nil {
		return nil, err
	}

	app := &WorkerApp{
		database:     database,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}

	publisher, mqttPublisher, err := newWorkerPublisher(cfg, logger)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	app.mqtt = mqttPublisher

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	workflowMetrics, err := metrics.NewWorkflowMetrics(registry)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	if cfg.WorkerMetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
		app.metricsServer = &http.Server{
			Addr:              cfg.WorkerMetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	app.outboxRelay = workerapp.OutboxRelay{
		Outbox:      postgresadapter.NewRepository(database.DB, logger),
		Publisher:   publisher,
		Clock:       postgresadapter.SystemClock{},
		BatchSize:   cfg.OutboxBatchSize,
		TopicPrefix: cfg.MQTTTopicPrefix,
		Metrics:     workflowMetrics,
		Logger:      logger,
	}
	return app, nil
}

// newWorkerPublisher picks the MQTT broker when configured. Without one the
// in-process bus rejects events nobody subscribed to, so outbox rows stay
// pending until a broker is configured.
func newWorkerPublisher(cfg config.Config, logger *slog.Logger) (ports.EventPublisher, *messaging.MQTTPublisher, error) {
	if cfg.MQTTBroker != "" {
		mqttPublisher, err := messaging.NewMQTTPublisher(messaging.MQTTConfig{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientID,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return mqttPublisher, mqttPublisher, nil
	}
	logger.Warn("no mqtt broker configured, outbox events stay pending",
		"event", "bootstrap_worker_in_process_bus",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return messaging.NewBus(logger), nil, nil
}

// Migrate creates or updates the review workflow tables.
func Migrate() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	database, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer database.Close()
	return postgresadapter.AutoMigrate(database.DB)
}

func connect(cfg config.Config) (*db.Database, error) {
	if strings.TrimSpace(cfg.DBDSN) == "" {
		return nil, errors.New("DB_DSN is required")
	}
	database, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if cfg.DBAutoMigrate {
		if err := postgresadapter.AutoMigrate(database.DB); err != nil {
			_ = database.Close()
			return nil, err
		}
	}
	return database, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}

func (a *APIApp) Close() error {
	if a.incidents != nil {
		a.incidents.Flush(2 * time.Second)
	}
	if a.database != nil {
		return a.database.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.mqtt != nil {
		if err := w.mqtt.Connect(ctx); err != nil {
			return err
		}
	}

	if w.metricsServer != nil {
		go func() {
			if err := w.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				w.logger.Error("worker metrics server failed",
					"event", "bootstrap_worker_metrics_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", err.Error(),
				)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = w.metricsServer.Shutdown(shutdownCtx)
		}()
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// Failed rows stay pending; the next tick retries them.
			w.logger.Warn("outbox relay cycle failed",
				"event", "bootstrap_worker_cycle_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.mqtt != nil {
		w.mqtt.Disconnect()
	}
	if w.database != nil {
		return w.database.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
