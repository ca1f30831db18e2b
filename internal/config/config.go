// Package config reads process configuration from the environment, an
// optional .env file and an optional YAML file with gym defaults.
//
// Environment variables:
//
//	STORAGE_DRIVER     sqlite (default), postgres, s3 or memory
//	DB_PATH            SQLite file (default ./data/gymdesk.db)
//	DATABASE_URL       postgres DSN
//	S3_BUCKET, S3_REGION, S3_ENDPOINT, S3_PATH_STYLE, S3_PREFIX
//	STORAGE_NAMESPACE  key of the persisted state (default gym-management-storage)
//	BACKUP_KEY         namespace used for off-device backups (default gym-backup)
//	SYNC_BASE_URL      backend to pull snapshots from; empty disables sync
//	SYNC_TOKEN         bearer token for the backend
//	SYNC_INTERVAL      refresh period (default 5m)
//	SYNC_TIMEOUT       per-type fetch timeout (default 5s)
//	SYNC_MIN_INTERVAL  refreshes closer than this are coalesced (default 10s)
//	METRICS_ADDR       ops listener (default :9090)
//	LOG_LEVEL          debug, info, warn, error
//	JWT_SECRET         secret for staff tokens
//	GYMDESK_CONFIG     path to a YAML file with pricing and terms
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/gymdesk/internal/models"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
	DriverMemory   = "memory"
)

// S3 holds the bucket settings for the s3 driver and backups.
type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
	Prefix    string
}

// Config is the resolved process configuration.
type Config struct {
	StorageDriver string
	DBPath        string
	DatabaseURL   string
	S3            S3
	Namespace     string
	BackupKey     string

	SyncBaseURL     string
	SyncToken       string
	SyncInterval    time.Duration
	SyncTimeout     time.Duration
	SyncMinInterval time.Duration

	MetricsAddr string
	LogLevel    string
	JWTSecret   string

	// Pricing and Terms seed a fresh or cleared store.
	Pricing models.PricingSettings
	Terms   string
}

// gymFile is the YAML document named by GYMDESK_CONFIG.
type gymFile struct {
	Pricing models.PricingSettings `yaml:"pricing"`
	Terms   string                 `yaml:"terms"`
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// Load reads .env (if present) into the environment without overriding
// variables that are already set, then builds the Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the Config from the current environment.
func FromEnv() (*Config, error) {
	cfg := &Config{
		StorageDriver: getEnv("STORAGE_DRIVER", DriverSQLite),
		DBPath:        getEnv("DB_PATH", "./data/gymdesk.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		S3: S3{
			Bucket:   os.Getenv("S3_BUCKET"),
			Region:   getEnv("S3_REGION", "us-east-1"),
			Endpoint: os.Getenv("S3_ENDPOINT"),
			Prefix:   os.Getenv("S3_PREFIX"),
		},
		Namespace:   getEnv("STORAGE_NAMESPACE", "gym-management-storage"),
		BackupKey:   getEnv("BACKUP_KEY", "gym-backup"),
		SyncBaseURL: os.Getenv("SYNC_BASE_URL"),
		SyncToken:   os.Getenv("SYNC_TOKEN"),
		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Pricing:     models.DefaultPricing(),
		Terms:       models.DefaultTerms,
	}

	if raw := os.Getenv("S3_PATH_STYLE"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid S3_PATH_STYLE: %w", err)
		}
		cfg.S3.PathStyle = v
	}

	var err error
	if cfg.SyncInterval, err = getDuration("SYNC_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SyncTimeout, err = getDuration("SYNC_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.SyncMinInterval, err = getDuration("SYNC_MIN_INTERVAL", 10*time.Second); err != nil {
		return nil, err
	}

	if path := os.Getenv("GYMDESK_CONFIG"); path != "" {
		if err := cfg.loadGymFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadGymFile overlays pricing and terms from a YAML file. Prices left out
// of the file keep their defaults.
func (c *Config) loadGymFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	f := gymFile{Pricing: c.Pricing, Terms: c.Terms}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	c.Pricing = f.Pricing
	c.Terms = f.Terms
	return nil
}

// Validate checks that the selected driver has what it needs.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH required for sqlite storage")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL required for postgres storage")
		}
	case DriverS3:
		if c.S3.Bucket == "" {
			return errors.New("S3_BUCKET required for s3 storage")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.SyncInterval <= 0 {
		return errors.New("SYNC_INTERVAL must be positive")
	}
	return nil
}
