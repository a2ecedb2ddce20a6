package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("POSTGRES_DSN", "")

	v := newViper()
	v.Set("DB_DRIVER", "postgres")
	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 5*time.Minute, cfg.IdentityCacheTTL)
	assert.Equal(t, 2*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, ":9091", cfg.WorkerMetricsAddr)
	assert.False(t, cfg.DBAutoMigrate)
}

func TestFromViperReadsEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("SUBMISSION_SERVICE_URL", " http://submissions.local ")
	t.Setenv("OUTBOX_BATCH_SIZE", "25")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file::memory:", cfg.DBDSN)
	assert.True(t, cfg.DBAutoMigrate)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "http://submissions.local", cfg.SubmissionServiceURL)
	assert.Equal(t, 25, cfg.OutboxBatchSize)
}

func TestFromViperFallsBackToPostgresDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/confman")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/confman", cfg.DBDSN)
}

func TestFromViperRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := FromViper(newViper())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestFromViperRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("UPSTREAM_TIMEOUT", "0s")

	_, err := FromViper(newViper())
	require.Error(t, err)
}
