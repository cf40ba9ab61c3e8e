package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/stash/internal/backup"
	"github.com/MrSnakeDoc/stash/internal/cloudsync"
	"github.com/MrSnakeDoc/stash/internal/config"
	"github.com/MrSnakeDoc/stash/internal/folders"
	"github.com/MrSnakeDoc/stash/internal/httpserver"
	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/redis"
	"github.com/MrSnakeDoc/stash/internal/remote"
	"github.com/MrSnakeDoc/stash/internal/repository"
	"github.com/MrSnakeDoc/stash/internal/scheduler"
	"github.com/MrSnakeDoc/stash/internal/sources/seed"
	"github.com/MrSnakeDoc/stash/internal/store"
	"github.com/MrSnakeDoc/stash/internal/syncguard"
	"github.com/MrSnakeDoc/stash/internal/utils"
	"github.com/MrSnakeDoc/stash/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	remoteStore remote.Store
	collector   *scheduler.TrashCollector
	autoSyncer  *scheduler.AutoSyncer
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Local state first - nothing works without the data directory.
	repo, err := repository.NewFileRepository(cfg.DataDir, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open data dir: %v", err)
		os.Exit(1)
	}

	// Config is the source of truth for retention; reconcile at boot so a
	// changed env var takes effect on restart.
	settings := repo.LoadSettings()
	if settings.RetentionDays != cfg.RetentionDays {
		settings.RetentionDays = cfg.RetentionDays
		if err := repo.SaveSettings(settings); err != nil {
			loggerClient.Warnf("failed to persist settings: %v", err)
		}
	}

	records := store.NewRecordStore(repo, repo, loggerClient)
	registry := folders.NewRegistry(repo, records, loggerClient)
	codec := backup.NewCodec(records, registry, repo, loggerClient)

	remoteStore := buildRemoteStore(cfg, loggerClient)

	engine := cloudsync.NewEngine(records, remoteStore, cfg.UserID, loggerClient)
	guard := syncguard.NewGuard(repo, cfg.AutoSyncInterval, loggerClient)

	collector := scheduler.NewTrashCollector(records, loggerClient, cfg.SweepInterval)
	autoSyncer := scheduler.NewAutoSyncer(
		guard,
		engine,
		loggerClient,
		cfg.SyncCheckInterval,
		cfg.SyncTimeout,
		settings.SyncOnLaunch,
	)

	// Optional first-run provisioning; duplicates are skipped, so running
	// against an already-populated store is harmless.
	if cfg.SeedFile != "" {
		importer := seed.NewImporter(cfg.SeedFile, records, registry, loggerClient)
		added, err := importer.Run()
		if err != nil {
			loggerClient.Warnf("seed import failed: %v", err)
		} else if added > 0 {
			loggerClient.Info("seed import done", logger.Int("added", added))
		}
	}

	// Dependencies passed to routes.
	d := deps.Deps{
		Logger:    loggerClient,
		StartTime: time.Now(),
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: version.GoVersion,
		Records:   records,
		Folders:   registry,
		Backup:    codec,
		Guard:     guard,
		Engine:    engine,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		remoteStore: remoteStore,
		collector:   collector,
		autoSyncer:  autoSyncer,
	}
}

// buildRemoteStore connects the configured backend, connecting Redis with
// retries when selected. Exits the process on failure; a half-configured
// sync target is worse than a crash at boot.
func buildRemoteStore(cfg *config.Config, loggerClient logger.Logger) remote.Store {
	opts := remote.Options{
		Backend:    cfg.RemoteBackend,
		SQLitePath: cfg.SQLitePath,
	}

	if cfg.RemoteBackend == remote.BackendRedis {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")
		opts.RedisClient = client
	}

	rs, err := remote.New(opts, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to build remote store: %v", err)
		os.Exit(1)
	}
	return rs
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Stash v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Stash %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start trash collector
	if err := a.collector.Start(ctx); err != nil {
		return fmt.Errorf("failed to start trash collector: %w", err)
	}
	a.logger.Info("trash collector started",
		logger.Duration("interval", a.cfg.SweepInterval))

	// Start auto syncer
	if err := a.autoSyncer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start auto syncer: %w", err)
	}
	a.logger.Info("auto syncer started",
		logger.Duration("check_interval", a.cfg.SyncCheckInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.collector.Stop()
	a.autoSyncer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	utils.MustClose(a.remoteStore)

	a.logger.Info("✅ Stash stopped cleanly")
	return nil
}
