package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/upb/drivel-server/app"
	"github.com/upb/drivel-server/handlers"
	"github.com/upb/drivel-server/middleware"
	"github.com/upb/drivel-server/utils"
)

// Version is reported by the status endpoint
var Version = "dev"

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.StripSlashes)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(chimw.Recoverer)
	if cfg.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	health := handlers.NewHealthHandler(deps.ProviderRegistry, Version, cfg.Environment, deps.Logger)
	speech := handlers.NewSpeechHandler(deps.Speech, cfg.Models, cfg.Server.MaxUploadBytes, deps.Logger)

	r.Get("/", handlers.HandleRoot)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route(cfg.APIPrefix, func(r chi.Router) {
		r.Get("/", handlers.HandleRoot)
		r.Get("/status", health.HandleStatus)

		// Provider endpoints (bearer token when AUTH_JWT_SECRET is set)
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Post("/chat-responses", speech.HandleChat)
			r.Post("/generate-response", speech.HandleChat)
			r.Post("/speech-to-text", speech.HandleSpeechToText)
			r.Post("/text-to-speech", speech.HandleTextToSpeech)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteMethodNotAllowed(w)
	})

	return r
}
