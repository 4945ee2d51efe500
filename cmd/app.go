package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/nulzo/llm-translate/internal/cli"
	"github.com/nulzo/llm-translate/internal/config"
	"github.com/nulzo/llm-translate/internal/gateway"
	"github.com/nulzo/llm-translate/internal/platform/logger"
	"github.com/nulzo/llm-translate/internal/platform/otel"
	"github.com/nulzo/llm-translate/internal/provider"
	"github.com/nulzo/llm-translate/internal/store"
	"github.com/nulzo/llm-translate/internal/store/memory"
	"github.com/nulzo/llm-translate/internal/store/redis"
	"github.com/nulzo/llm-translate/internal/store/sqlite"
	"go.uber.org/zap"
)

// App holds everything a command needs once configuration is loaded.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Settings store.SettingsRepository
	Service  gateway.Service

	shutdown otel.ShutdownFunc
}

type appOptions struct {
	ConfigPath string
	LogLevel   string
	NoColor    bool
	Version    string
}

func newApp(ctx context.Context, opts appOptions) (*App, error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.NoColor {
		cli.SetEnabled(false)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Color && cli.Enabled(),
		File:        cfg.Log.File,
	})
	logger.SetLevel(cfg.Log.Level)
	log := logger.Get()

	shutdown, err := otel.InitTracer(otel.Options{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     opts.Version,
		SampleRatio: cfg.Telemetry.SampleRatio,
		Writer:      os.Stderr,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	repo, err := openSettings(ctx, cfg, log)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	defaults := &store.Settings{
		TargetLanguage: cfg.Defaults.TargetLanguage,
		AutoTranslate:  cfg.Defaults.AutoTranslate,
		Provider:       provider.ID(cfg.Defaults.Provider),
		Credentials:    cfg.Credentials(),
	}
	current, created, err := store.Seed(ctx, repo, defaults)
	if err != nil {
		_ = repo.Close()
		_ = shutdown(ctx)
		return nil, fmt.Errorf("seed settings: %w", err)
	}
	if created {
		log.Info("settings seeded from configuration",
			zap.String("provider", string(current.Provider)),
			zap.String("target_language", current.TargetLanguage),
		)
	}

	registry := gateway.BootstrapProviders(cfg, current.Credentials, log)

	return &App{
		Config:   cfg,
		Logger:   log,
		Settings: repo,
		Service:  gateway.NewService(log, registry),
		shutdown: shutdown,
	}, nil
}

func (a *App) Close(ctx context.Context) {
	if err := a.Settings.Close(); err != nil {
		a.Logger.Warn("closing settings store", zap.Error(err))
	}
	if err := a.shutdown(ctx); err != nil {
		a.Logger.Warn("flushing traces", zap.Error(err))
	}
	logger.Sync()
}

func openSettings(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.SettingsRepository, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return sqlite.Open(cfg.Store.DSN, log)
	case "redis":
		return redis.New(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.Key,
		})
	default:
		return memory.New(), nil
	}
}
