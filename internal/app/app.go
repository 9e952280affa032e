package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/common"
	"github.com/ternarybob/doceo/internal/handlers"
	"github.com/ternarybob/doceo/internal/interfaces"
	"github.com/ternarybob/doceo/internal/services/generation"
	"github.com/ternarybob/doceo/internal/services/jobs"
	"github.com/ternarybob/doceo/internal/services/llm"
	"github.com/ternarybob/doceo/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// LLMService is nil when no provider credential is configured; the
	// worker then takes the mock-content path.
	LLMService interfaces.LLMService

	Worker    *generation.Worker
	Processor *jobs.Processor
	Gateway   *jobs.Gateway

	// HTTP handlers
	APIHandler        *handlers.APIHandler
	GenerationHandler *handlers.GenerationHandler
	EnrollmentHandler *handlers.EnrollmentHandler
	CatalogHandler    *handlers.CatalogHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("provider", app.providerName()).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	storageManager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

func (a *App) initServices() error {
	llmService, err := llm.NewLLMService(a.Config, a.Logger)
	if err != nil {
		if !errors.Is(err, llm.ErrMissingCredential) {
			return fmt.Errorf("failed to create LLM service: %w", err)
		}
		a.Logger.Warn().
			Err(err).
			Msg("No LLM credential configured, generation will use mock content")
		llmService = nil
	}
	a.LLMService = llmService

	a.Worker = generation.NewWorker(
		a.StorageManager.JobStorage(),
		a.StorageManager.ContentStorage(),
		a.StorageManager.EnrollmentStorage(),
		a.LLMService,
		&a.Config.Generation,
		a.Logger,
	)

	a.Processor = jobs.NewProcessor(
		a.StorageManager.JobStorage(),
		a.StorageManager.CatalogStorage(),
		a.Worker,
		a.Logger,
	)

	a.Gateway = jobs.NewGateway(
		a.StorageManager.JobStorage(),
		a.StorageManager.EnrollmentStorage(),
		a.Processor,
		a.Logger,
	)

	return nil
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler()
	a.GenerationHandler = handlers.NewGenerationHandler(
		a.Gateway,
		a.Processor,
		a.StorageManager.ContentStorage(),
		a.StorageManager.JobStorage(),
		a.Logger,
	)
	a.EnrollmentHandler = handlers.NewEnrollmentHandler(
		a.StorageManager.EnrollmentStorage(),
		a.StorageManager.ContentStorage(),
		a.Logger,
	)
	a.CatalogHandler = handlers.NewCatalogHandler(
		a.StorageManager.CatalogStorage(),
		a.Logger,
	)
}

func (a *App) providerName() string {
	if a.LLMService == nil {
		return "mock"
	}
	return a.LLMService.Provider()
}

// Close releases application resources
func (a *App) Close(ctx context.Context) error {
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	return nil
}
