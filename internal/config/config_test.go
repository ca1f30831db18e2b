package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/gymdesk/internal/models"
)

var configKeys = []string{
	"STORAGE_DRIVER", "DB_PATH", "DATABASE_URL", "S3_BUCKET", "S3_REGION", "S3_ENDPOINT",
	"S3_PATH_STYLE", "S3_PREFIX", "STORAGE_NAMESPACE", "BACKUP_KEY", "SYNC_BASE_URL", "SYNC_TOKEN",
	"SYNC_INTERVAL", "SYNC_TIMEOUT", "SYNC_MIN_INTERVAL", "METRICS_ADDR", "LOG_LEVEL",
	"JWT_SECRET", "GYMDESK_CONFIG",
}

// clearEnv blanks every key so the developer's shell does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "./data/gymdesk.db", cfg.DBPath)
	assert.Equal(t, "gym-management-storage", cfg.Namespace)
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.Equal(t, 5*time.Second, cfg.SyncTimeout)
	assert.Equal(t, 10*time.Second, cfg.SyncMinInterval)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, models.DefaultPricing(), cfg.Pricing)
	assert.Equal(t, models.DefaultTerms, cfg.Terms)
	assert.False(t, cfg.S3.PathStyle)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "gym")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("S3_PATH_STYLE", "true")
	t.Setenv("SYNC_BASE_URL", "https://api.gym.test")
	t.Setenv("SYNC_INTERVAL", "90s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverS3, cfg.StorageDriver)
	assert.Equal(t, S3{Bucket: "gym", Region: "us-east-1", Endpoint: "http://minio:9000", PathStyle: true}, cfg.S3)
	assert.Equal(t, "https://api.gym.test", cfg.SyncBaseURL)
	assert.Equal(t, 90*time.Second, cfg.SyncInterval)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "redis"}},
		{name: "postgres without dsn", env: map[string]string{"STORAGE_DRIVER": "postgres"}},
		{name: "s3 without bucket", env: map[string]string{"STORAGE_DRIVER": "s3"}},
		{name: "bad duration", env: map[string]string{"SYNC_TIMEOUT": "soon"}},
		{name: "bad bool", env: map[string]string{"S3_PATH_STYLE": "maybe"}},
		{name: "negative interval", env: map[string]string{"SYNC_INTERVAL": "-1m"}},
		{name: "missing gym file", env: map[string]string{"GYMDESK_CONFIG": "/does/not/exist.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestGymFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gym.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pricing:\n  monthly: 1800\n  personal_training: 3500\nterms: Shoes required.\n"), 0o644))
	t.Setenv("GYMDESK_CONFIG", path)

	cfg, err := FromEnv()
	require.NoError(t, err)

	want := models.DefaultPricing()
	want.Monthly = 1800
	want.PersonalTraining = 3500
	assert.Equal(t, want, cfg.Pricing)
	assert.Equal(t, "Shoes required.", cfg.Terms)
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORAGE_DRIVER=memory\nMETRICS_ADDR=:7000\n"), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	// godotenv does not override variables that are set, even to "".
	require.NoError(t, os.Unsetenv("STORAGE_DRIVER"))
	require.NoError(t, os.Unsetenv("METRICS_ADDR"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, ":7000", cfg.MetricsAddr)
}
