package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Airlectric/Speech-To-Text-Ai/internal/api/handlers"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/api/middleware"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/asr"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/auth"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/config"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/job"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/store"
	"github.com/Airlectric/Speech-To-Text-Ai/internal/web"
)

// maxJSONBody caps request bodies on JSON routes. The upload route sets
// its own larger limit from config.
const maxJSONBody = 1 << 20

func NewRouter(cfg *config.Config, st *store.Store, jwtService *auth.JWTService, engines *asr.Registry, jobQueue *job.JobQueue, log *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	authHandler := handlers.NewAuthHandler(st, jwtService)
	transcribeHandler := handlers.NewTranscribeHandler(cfg, st, engines, jobQueue)
	jobHandler := handlers.NewJobHandler(jobQueue)
	transcriptionsHandler := handlers.NewTranscriptionsHandler(st)
	enginesHandler := handlers.NewEnginesHandler(engines)
	settingsHandler := handlers.NewSettingsHandler(st, engines)

	// Brute-force and submission-flood protection
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	transcribeLimiter := middleware.NewRateLimiter(30, time.Minute)

	jsonBody := middleware.MaxBodySize(maxJSONBody)

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Get("/health", handlers.Health)
		r.With(loginLimiter.Handler, jsonBody).Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))

			r.Get("/auth/me", authHandler.Me)

			r.With(transcribeLimiter.Handler).Post("/transcribe", transcribeHandler.Submit)

			r.Get("/jobs", jobHandler.ListJobs)
			r.Get("/jobs/{id}", jobHandler.GetJob)
			r.Delete("/jobs/{id}", jobHandler.DeleteJob)
			r.Post("/jobs/{id}/retry", jobHandler.RetryJob)

			r.Get("/transcriptions", transcriptionsHandler.List)
			r.Get("/transcriptions/{id}", transcriptionsHandler.Get)
			r.Delete("/transcriptions/{id}", transcriptionsHandler.Delete)

			r.Get("/engines", enginesHandler.ListAvailable)

			r.Get("/settings", settingsHandler.GetSettings)
			r.With(middleware.RequireRole("admin"), jsonBody).Put("/settings", settingsHandler.UpdateSettings)
		})
	})

	// Embedded web UI
	r.Handle("/*", web.Handler())

	return r
}
