// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"flashcard_study/internal/config"
	"flashcard_study/internal/deck"
	"flashcard_study/internal/handlers"
	"flashcard_study/internal/repository"
	"flashcard_study/internal/service"
)

func main() {
	// Temporary logger until the configured one exists.
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	configDir := os.Getenv("APP_CONFIG_DIR")
	if configDir == "" {
		configDir = "configs"
	}
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logLevel := new(slog.LevelVar)
	level, known := cfg.Log.SlogLevel()
	logLevel.Set(level)
	if !known {
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler).With("app", config.AppName, "version", config.AppVersion)
	slog.SetDefault(logger)

	slog.Info("Application starting...")

	// 1. Storage
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStart()

	kv, closeStore, err := repository.OpenStore(startCtx, repository.StoreOptions{
		Driver:      cfg.Storage.Driver,
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
	}, logger)
	if err != nil {
		slog.Error("Error initializing storage", slog.String("driver", cfg.Storage.Driver), slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Error("Error closing storage", slog.Any("error", err))
		} else {
			slog.Info("Storage closed.")
		}
	}()

	// 2. Deck
	cards, err := deck.LoadFile(cfg.App.DeckPath, time.Now())
	if err != nil {
		slog.Error("Error loading deck", slog.String("path", cfg.App.DeckPath), slog.Any("error", err))
		os.Exit(1)
	}
	cardStore := repository.NewCardStore(cards)
	slog.Info("Deck loaded", slog.Int("cards", len(cards)), slog.Int("categories", len(cardStore.Categories())))

	// 3. Dependency Injection
	userRepo := repository.NewUserRepository(kv)
	feedbackRepo := repository.NewFeedbackRepository(kv)
	settingsRepo := repository.NewSettingsRepository(kv)

	settingsService := service.NewSettingsService(settingsRepo)
	if _, err := settingsService.Load(startCtx); err != nil {
		slog.Error("Error loading settings", slog.Any("error", err))
		os.Exit(1)
	}
	authService := service.NewAuthService(userRepo, cfg.App.SimulatedLatency, time.Now)
	if err := authService.EnsureDemoUsers(startCtx); err != nil {
		slog.Error("Error seeding demo users", slog.Any("error", err))
		os.Exit(1)
	}

	router := handlers.NewRouter(cfg, logger, handlers.Dependencies{
		KV:       kv,
		Cards:    cardStore,
		Study:    service.NewStudyService(cardStore, settingsService, time.Now),
		Settings: settingsService,
		Backup:   service.NewBackupService(cardStore, userRepo, feedbackRepo, settingsService, time.Now),
		Auth:     authService,
		Feedback: service.NewFeedbackService(feedbackRepo, cfg.App.SimulatedLatency, time.Now),
	})

	// 4. Start Server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
