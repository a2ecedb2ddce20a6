package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName   string
	HTTPPort      string
	DBDriver      string
	DBDSN         string
	DBAutoMigrate bool

	ConferenceServiceURL string
	SubmissionServiceURL string
	IdentityServiceURL   string
	UpstreamTimeout      time.Duration
	IdentityCacheTTL     time.Duration

	JWTSecret string

	MQTTBroker      string
	MQTTClientID    string
	MQTTTopicPrefix string

	SentryDSN string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	WorkerMetricsAddr  string
}

var supportedDrivers = map[string]struct{}{
	"postgres": {},
	"mysql":    {},
	"sqlite":   {},
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVICE_NAME", "confman-review-workflow")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("UPSTREAM_TIMEOUT", 10*time.Second)
	v.SetDefault("IDENTITY_CACHE_TTL", 5*time.Minute)
	v.SetDefault("MQTT_CLIENT_ID", "confman-review-workflow")
	v.SetDefault("MQTT_TOPIC_PREFIX", "confman/")
	v.SetDefault("OUTBOX_POLL_INTERVAL", 2*time.Second)
	v.SetDefault("OUTBOX_BATCH_SIZE", 100)
	v.SetDefault("WORKER_METRICS_ADDR", ":9091")
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	driver := strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER")))
	if _, ok := supportedDrivers[driver]; !ok {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	dsn := strings.TrimSpace(v.GetString("DB_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(v.GetString("POSTGRES_DSN"))
	}

	cfg := Config{
		ServiceName:   strings.TrimSpace(v.GetString("SERVICE_NAME")),
		HTTPPort:      strings.TrimSpace(v.GetString("HTTP_PORT")),
		DBDriver:      driver,
		DBDSN:         dsn,
		DBAutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),

		ConferenceServiceURL: strings.TrimSpace(v.GetString("CONFERENCE_SERVICE_URL")),
		SubmissionServiceURL: strings.TrimSpace(v.GetString("SUBMISSION_SERVICE_URL")),
		IdentityServiceURL:   strings.TrimSpace(v.GetString("IDENTITY_SERVICE_URL")),
		UpstreamTimeout:      v.GetDuration("UPSTREAM_TIMEOUT"),
		IdentityCacheTTL:     v.GetDuration("IDENTITY_CACHE_TTL"),

		JWTSecret: v.GetString("JWT_SECRET"),

		MQTTBroker:      strings.TrimSpace(v.GetString("MQTT_BROKER")),
		MQTTClientID:    strings.TrimSpace(v.GetString("MQTT_CLIENT_ID")),
		MQTTTopicPrefix: v.GetString("MQTT_TOPIC_PREFIX"),

		SentryDSN: strings.TrimSpace(v.GetString("SENTRY_DSN")),

		OutboxPollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
		OutboxBatchSize:    v.GetInt("OUTBOX_BATCH_SIZE"),
		WorkerMetricsAddr:  strings.TrimSpace(v.GetString("WORKER_METRICS_ADDR")),
	}
	if cfg.UpstreamTimeout <= 0 {
		return Config{}, fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", cfg.UpstreamTimeout)
	}
	if cfg.OutboxPollInterval <= 0 {
		return Config{}, fmt.Errorf("OUTBOX_POLL_INTERVAL must be positive, got %s", cfg.OutboxPollInterval)
	}
	if cfg.OutboxBatchSize <= 0 {
		cfg.OutboxBatchSize = 100
	}
	return cfg, nil
}
