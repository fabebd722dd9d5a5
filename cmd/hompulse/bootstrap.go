package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"hompulse/console/internal/adapter"
	"hompulse/console/internal/api"
	"hompulse/console/internal/auth"
	"hompulse/console/internal/cli"
	"hompulse/console/internal/config"
	"hompulse/console/internal/data"
	"hompulse/console/internal/event"
	"hompulse/console/internal/log"
	"hompulse/console/internal/navigator"
	"hompulse/console/internal/session"
	"hompulse/console/internal/storage"
	"hompulse/console/internal/ui"
)

// app holds the wired console components
type app struct {
	logger         *log.Logger
	store          *storage.Storage
	auth           *auth.State
	sessionManager *session.SessionManager
	adapter        *adapter.CLIAdapter
	ui             *ui.UI
	historyFile    string
}

// bootstrap loads the configuration and wires logger, storage, API client,
// auth state, data managers and the session manager.
// The returned app must be closed by the caller.
func bootstrap(ctx context.Context) (*app, error) {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}

	// Initialize logger
	var logger *log.Logger
	if logStderr {
		logger = log.NewWriterLogger(os.Stderr, log.ParseLevel(cfg.LogLevel))
	} else {
		logger, err = log.NewLogger(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}
	a := &app{logger: logger, historyFile: cfg.HistoryFile}
	logger.Info(ctx, "Application started", log.Fields{"api": cfg.APIBaseURL})

	// Initialize storage
	a.store, err = storage.NewStorage(cfg, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	client, err := api.New(api.Config{
		BaseURL:           cfg.APIBaseURL,
		Timeout:           config.Duration(cfg.RequestTimeout, 30*time.Second),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.RequestBurst,
	}, a.store.Tokens, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize api client: %w", err)
	}

	events := event.NewEventManager(logger)

	// Restore the stored login, if any
	a.auth = auth.NewState(a.store.Tokens, client, int64(cfg.AdminRoleID), events, logger)
	if err := a.auth.Initialize(ctx); err != nil {
		logger.Warn(ctx, "Could not validate stored login", log.Fields{"error": err})
	}

	dataManager := data.NewDataManager(client, data.Options{
		PartnerPathPrefix: cfg.PartnerPathPrefix,
		DirectoryTTL:      config.Duration(cfg.MasterCacheTTL, 5*time.Minute),
	}, events, logger)

	levels := navigator.GeographyLevels()
	if cfg.HierarchyFile != "" {
		levels, err = config.LoadHierarchy(cfg.HierarchyFile)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to load hierarchy: %w", err)
		}
	}

	a.sessionManager = session.NewSessionManager(session.Services{
		Auth:    a.auth,
		Data:    dataManager,
		Levels:  levels,
		Backend: navigator.NewAPIBackend(client),
		BaseURL: client.BaseURL(),
	}, config.Duration(cfg.SessionTimeout, 30*time.Minute), logger)

	a.adapter = adapter.NewCLIAdapter(a.sessionManager, logger)
	a.ui = ui.NewUI(os.Stdout, cfg.UseColor)
	logger.Info(ctx, "Console initialized", nil)
	return a, nil
}

// newCLI opens a console session on the app
func (a *app) newCLI() (*cli.CLI, error) {
	return cli.NewCLI(a.adapter, a.ui, a.historyFile, a.logger)
}

// Close stops the components in reverse start order
func (a *app) Close() {
	ctx := context.Background()
	if a.adapter != nil {
		if err := a.adapter.AdapterStop(); err != nil {
			a.logger.Error(ctx, "Failed to stop CLI adapter", log.Fields{"error": err})
		}
	}
	if a.sessionManager != nil {
		a.sessionManager.Stop()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error(ctx, "Failed to close storage", log.Fields{"error": err})
		}
	}
	a.logger.Info(ctx, "Application shutting down", nil)
	if err := a.logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close logger: %v\n", err)
	}
}
