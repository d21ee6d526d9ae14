package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/glowadvisor/backend/config"
	httpDelivery "github.com/glowadvisor/backend/internal/delivery/http"
	"github.com/glowadvisor/backend/internal/domain"
	"github.com/glowadvisor/backend/internal/infrastructure/catalog"
	"github.com/glowadvisor/backend/internal/infrastructure/logging"
	"github.com/glowadvisor/backend/internal/infrastructure/metrics"
	"github.com/glowadvisor/backend/internal/infrastructure/openai"
	"github.com/glowadvisor/backend/internal/infrastructure/storage"
	"github.com/glowadvisor/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("starting GlowAdvisor backend",
		"version", version,
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Type,
		"catalog", cfg.Catalog.Source)

	recorder := metrics.NewRecorder()

	// Initialize infrastructure dependencies
	store := openStorage(ctx, cfg, logger)
	defer store.close()

	loader := catalog.NewLoader(cfg.Catalog.Source, cfg.Catalog.Timeout, logger)

	// Initialize usecase layer
	selection := usecase.NewSelectionStore(store.LocalStorage, usecase.SelectionStoreConfig{
		StorageKey:     cfg.Storage.Key,
		PersistTimeout: cfg.Storage.Timeout,
		Logger:         logger,
	})
	selection.OnChange(func(items []domain.Product) {
		recorder.SetSelectionSize(len(items))
	})
	selection.Restore(ctx)

	catalogService := usecase.NewCatalogService(loader, selection)
	chatService := newChatService(cfg, selection, recorder, logger)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalogService, selection, chatService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, recorder, logger)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	// Flush the selection once more so a backend that recovered mid-run holds the latest state
	if err := selection.Persist(shutdownCtx); err != nil {
		logger.Warn("final selection persist failed", "error", err)
	}
	return nil
}

type openedStorage struct {
	domain.LocalStorage
	close func() error
}

// openStorage opens the configured backend. When it cannot be opened the
// selection keeps working in memory for this run only.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) openedStorage {
	backend, closeFn, err := storage.Open(ctx, storage.Options{
		Type:     cfg.Storage.Type,
		Path:     cfg.Storage.Path,
		RedisURL: cfg.Storage.RedisURL,
		Prefix:   cfg.Storage.Prefix,
		Timeout:  cfg.Storage.Timeout,
	})
	if err != nil {
		logger.Warn("storage unavailable, selection will not persist", "type", cfg.Storage.Type, "error", err)
		return openedStorage{LocalStorage: storage.Unavailable{Reason: err}, close: closeFn}
	}
	return openedStorage{LocalStorage: backend, close: closeFn}
}

// newChatService returns nil when no API key is configured; the handlers then
// answer chat requests with 501 and the page disables its chat controls.
func newChatService(cfg *config.Config, selection *usecase.SelectionStore, recorder *metrics.Recorder, logger *slog.Logger) *usecase.ChatService {
	if !cfg.Chat.Enabled() {
		logger.Warn("no chat API key configured, chat and routine generation are disabled " +
			"(set GLOWADVISOR_CHAT_API_KEY or OPENAI_API_KEY)")
		return nil
	}

	chatClient := openai.NewClient(cfg.Chat.APIKey, cfg.Chat.BaseURL, openai.Options{
		Timeout:        cfg.Chat.Timeout,
		RequestsPerMin: cfg.RateLimit.Chat,
		Logger:         logger,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		chatClient.SetDebug(true)
		logger.Info("chat client debug mode enabled")
	}
	logger.Info("chat endpoint configured", "base_url", cfg.Chat.BaseURL, "model", cfg.Chat.Model)

	return usecase.NewChatService(chatClient, selection, usecase.NewTranscript(), usecase.ChatServiceConfig{
		Model:            cfg.Chat.Model,
		MaxTokens:        cfg.Chat.MaxTokens,
		RoutineMaxTokens: cfg.Chat.RoutineMaxTokens,
		Logger:           logger,
		Metrics:          recorder,
	})
}
