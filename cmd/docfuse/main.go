// Command docfuse compares, merges and curates document extraction results.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/docfuse/internal/adapters/driven/ai"
	"github.com/custodia-labs/docfuse/internal/adapters/driven/config/env"
	"github.com/custodia-labs/docfuse/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docfuse/internal/adapters/driven/engine"
	filestore "github.com/custodia-labs/docfuse/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/docfuse/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docfuse/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/docfuse/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docfuse/internal/adapters/driving/cli"
	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
	"github.com/custodia-labs/docfuse/internal/core/services"
	"github.com/custodia-labs/docfuse/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, bootstrap, version)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the adapters and services for one command run.
func bootstrap(ctx context.Context, configDir string) (*cli.Services, func(), error) {
	configDir, err := resolveConfigDir(configDir)
	if err != nil {
		return nil, nil, err
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := env.LoadDotEnv(filepath.Join(configDir, ".env")); err != nil {
		logger.Warn("ignoring %s: %v", filepath.Join(configDir, ".env"), err)
	}
	settingsService := services.NewSettingsService(env.NewStore(configStore, env.DefaultPrefix), ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("read settings: %w", err)
	}

	reportStore, closeStore, err := openReportStore(ctx, configDir, settings.Storage)
	if err != nil {
		return nil, nil, err
	}

	engines, err := engine.FromSettings(settings.Engines)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("configure engines: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("prompt store: %w", err)
	}

	capabilities := ai.Initialise(ctx, settings, prompts)
	for _, w := range capabilities.Warnings {
		logger.Warn("%s", w)
	}

	opts := []services.FusionOption{
		services.WithEngines(engines...),
		services.WithReportStore(reportStore),
		services.WithPromptStore(capabilities.PromptStore),
	}
	if capabilities.LanguageDetector != nil {
		opts = append(opts, services.WithLanguageDetector(capabilities.LanguageDetector))
	}
	if capabilities.EmbeddingService != nil {
		opts = append(opts, services.WithEmbeddingService(capabilities.EmbeddingService))
	}
	if capabilities.LLMService != nil {
		opts = append(opts, services.WithLLMService(capabilities.LLMService))
	}

	fusionService, err := services.NewFusionService(*settings, opts...)
	if err != nil {
		capabilities.Close()
		closeStore()
		return nil, nil, fmt.Errorf("create fusion service: %w", err)
	}

	cleanup := func() {
		capabilities.Close()
		closeStore()
	}

	return &cli.Services{
		Fusion:   fusionService,
		Reports:  services.NewReportService(reportStore),
		Settings: settingsService,
	}, cleanup, nil
}

func resolveConfigDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, file.DefaultDirName), nil
}

// openReportStore opens the configured backend. Relative and empty paths
// resolve under the config directory.
func openReportStore(ctx context.Context, configDir string, cfg domain.StorageSettings) (driven.ReportStore, func(), error) {
	path := func(def string) string {
		switch {
		case cfg.Path == "":
			return filepath.Join(configDir, def)
		case filepath.IsAbs(cfg.Path):
			return cfg.Path
		default:
			return filepath.Join(configDir, cfg.Path)
		}
	}

	switch cfg.Backend {
	case domain.StorageMemory:
		return memory.NewReportStore(), func() {}, nil

	case domain.StorageFile:
		store, err := filestore.NewReportStore(path("reports"), filestore.WithMarkdown())
		if err != nil {
			return nil, nil, fmt.Errorf("open report directory: %w", err)
		}
		return store, func() {}, nil

	case domain.StorageSQLite, "":
		store, err := sqlite.NewStore(path("data"))
		if err != nil {
			return nil, nil, fmt.Errorf("open report database: %w", err)
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("close report database: %v", err)
			}
		}, nil

	case domain.StoragePostgres:
		store, err := postgres.NewStore(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open report database: %w", err)
		}
		return store, func() { _ = store.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}
