package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mmynk/gymdesk/internal/auth"
	"github.com/mmynk/gymdesk/internal/config"
	"github.com/mmynk/gymdesk/internal/metrics"
	"github.com/mmynk/gymdesk/internal/ops"
	"github.com/mmynk/gymdesk/internal/persistence"
	"github.com/mmynk/gymdesk/internal/reconcile"
	"github.com/mmynk/gymdesk/internal/remote"
	"github.com/mmynk/gymdesk/internal/storage"
	"github.com/mmynk/gymdesk/internal/storage/memory"
	"github.com/mmynk/gymdesk/internal/storage/postgres"
	s3store "github.com/mmynk/gymdesk/internal/storage/s3"
	"github.com/mmynk/gymdesk/internal/storage/sqlite"
	"github.com/mmynk/gymdesk/internal/store"
	"github.com/mmynk/gymdesk/pkg/logging"
)

const tokenDuration = 12 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet; fall back to the default handler.
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := slog.Default()
	collector := metrics.New()

	kv, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer kv.Close()
	logger.Info("Storage initialized", "driver", cfg.StorageDriver, "namespace", cfg.Namespace)

	var jwtManager *auth.JWTManager
	session := auth.NewSession(nil)
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, tokenDuration)
		session = auth.NewSession(jwtManager)
		if cfg.SyncToken != "" {
			if err := session.SignIn(cfg.SyncToken); err != nil {
				logger.Warn("Sync token is not a staff session, follow-ups will be unassigned", "error", err)
			} else {
				logger.Info("Signed in", "user_id", session.UserID(), "email", session.Email())
			}
		}
	}

	st := store.New(
		store.WithLogger(logger),
		store.WithMetrics(collector),
		store.WithUser(session),
		store.WithDefaults(cfg.Pricing, cfg.Terms),
	)

	persister := persistence.New(kv,
		persistence.WithNamespace(cfg.Namespace),
		persistence.WithLogger(logger),
		persistence.WithMetrics(collector),
	)
	persister.Hydrate(ctx, st)
	persister.Attach(st)

	backupKV, closeBackup, err := openBackupStorage(ctx, cfg, kv)
	if err != nil {
		return fmt.Errorf("failed to initialize backup storage: %w", err)
	}
	defer closeBackup()
	backup := func(ctx context.Context) error {
		return persistence.Backup(ctx, st, backupKV, cfg.BackupKey)
	}
	restore := func(ctx context.Context) error {
		return persistence.Restore(ctx, st, backupKV, cfg.BackupKey)
	}

	var engine *reconcile.Engine
	if cfg.SyncBaseURL != "" {
		client := remote.NewClient(cfg.SyncBaseURL,
			remote.WithToken(cfg.SyncToken),
			remote.WithLogger(logger),
		)
		engine = reconcile.New(st, client,
			reconcile.WithFetchTimeout(cfg.SyncTimeout),
			reconcile.WithMinInterval(cfg.SyncMinInterval),
			reconcile.WithLogger(logger),
			reconcile.WithMetrics(collector),
		)
		go func() {
			if err := engine.Run(ctx, cfg.SyncInterval); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Sync loop stopped", "error", err)
			}
		}()
		logger.Info("Sync enabled", "base_url", cfg.SyncBaseURL, "interval", cfg.SyncInterval)
	} else {
		go expireLoop(ctx, st, cfg.SyncInterval)
		logger.Info("Sync disabled, running offline")
	}

	deps := ops.Deps{
		Store:   st,
		Backup:  backup,
		Restore: restore,
		Metrics: collector,
		JWT:     jwtManager,
		Logger:  logger,
	}
	if engine != nil {
		deps.Refresher = engine
	}

	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           ops.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Ops server starting", "address", cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ops server: %w", err)
		}
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// expireLoop keeps membership statuses current when no sync loop does it.
func expireLoop(ctx context.Context, s *store.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		s.AutoExpireMembers()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		return sqlite.New(cfg.DBPath)
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	case config.DriverS3:
		return s3store.New(ctx, s3Config(cfg))
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// openBackupStorage returns where backups go: a bucket when one is configured
// and the primary store is not already S3, otherwise the primary store.
func openBackupStorage(ctx context.Context, cfg *config.Config, primary storage.KV) (storage.KV, func(), error) {
	if cfg.S3.Bucket == "" || cfg.StorageDriver == config.DriverS3 {
		return primary, func() {}, nil
	}
	kv, err := s3store.New(ctx, s3Config(cfg))
	if err != nil {
		return nil, nil, err
	}
	return kv, func() { kv.Close() }, nil
}

func s3Config(cfg *config.Config) s3store.Config {
	return s3store.Config{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		PathStyle: cfg.S3.PathStyle,
		Prefix:    cfg.S3.Prefix,
	}
}
