package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "./data", cfg.Paths.DataFolder)
	assert.Equal(t, "./backups", cfg.Paths.BackupFolder)
	assert.Equal(t, DriverFile, cfg.Persistence.Driver)
	assert.Equal(t, 10*time.Second, cfg.Persistence.Timeout)
	assert.False(t, cfg.StartedAt.IsZero())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BACKUP_FOLDER", "/tmp/ccrm-backups")
	t.Setenv("PERSISTENCE_DRIVER", "Redis")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("JOBS_RETRY_DELAY", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ccrm-backups", cfg.Paths.BackupFolder)
	assert.Equal(t, DriverRedis, cfg.Persistence.Driver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Second, cfg.Jobs.RetryDelay)
}

func TestUnknownDriverFallsBackToFile(t *testing.T) {
	t.Setenv("PERSISTENCE_DRIVER", "mongo")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverFile, cfg.Persistence.Driver)
}
