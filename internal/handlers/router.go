package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"flashcard_study/internal/config"
	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"
	"flashcard_study/internal/repository"
	"flashcard_study/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Dependencies are the services and stores the HTTP surface is built on.
type Dependencies struct {
	KV       repository.KVStore
	Cards    repository.CardStore
	Study    service.StudyService
	Settings service.SettingsService
	Backup   service.BackupService
	Auth     service.AuthService
	Feedback service.FeedbackService
}

// NewRouter wires every route under /api/v1 plus /health.
func NewRouter(cfg *config.Config, logger *slog.Logger, deps Dependencies) *chi.Mux {
	flashcardHandler := NewFlashcardHandler(deps.Cards)
	sessionHandler := NewSessionHandler(deps.Study)
	settingsHandler := NewSettingsHandler(deps.Settings)
	backupHandler := NewBackupHandler(deps.Backup)
	authHandler := NewAuthHandler(deps.Auth)
	feedbackHandler := NewFeedbackHandler(deps.Feedback)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CurrentUserMiddleware(deps.Auth))

		r.Route("/flashcards", func(r chi.Router) {
			r.Get("/", flashcardHandler.GetFlashcards)
			r.Get("/categories", flashcardHandler.GetCategories)
			r.Get("/{card_id}", flashcardHandler.GetFlashcard)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.PostSession)
			r.Route("/{session_id}", func(r chi.Router) {
				r.Get("/", sessionHandler.GetSession)
				r.Delete("/", sessionHandler.DeleteSession)
				r.Post("/rate", sessionHandler.PostRate)
				r.Post("/next", sessionHandler.PostNext)
				r.Post("/previous", sessionHandler.PostPrevious)
				r.Post("/reset", sessionHandler.PostReset)
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settingsHandler.GetSettings)
			r.Post("/reset", settingsHandler.PostReset)
			r.Patch("/{section}/{key}", settingsHandler.PatchSetting)
		})

		r.Get("/backup", backupHandler.GetBackup)
		r.Post("/backup", backupHandler.PostBackup)
		r.Delete("/data", backupHandler.DeleteData)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.GetMe)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Post("/", feedbackHandler.PostFeedback)
			r.Get("/", feedbackHandler.GetFeedback)
		})
	})

	r.Get("/health", healthCheck(deps.KV))

	return r
}

// healthCheck reads one key to prove the store answers.
func healthCheck(kv repository.KVStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, err := kv.Get(ctx, repository.KeySettings); err != nil && !errors.Is(err, model.ErrNotFound) {
			middleware.GetLogger(ctx).Error("Health check failed: store unavailable", "error", err)
			http.Error(w, "Health check failed", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
