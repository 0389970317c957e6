// Package router sets up all HTTP routes and middleware chains for the
// sitesmith server.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"sitesmith/internal/handlers"
	"sitesmith/internal/middleware"
)

// Deps carries the wired handlers and middleware the router mounts.
type Deps struct {
	Generator *handlers.Generator
	Uploader  *handlers.Uploader
	Images    *handlers.Images

	// RateLimiter guards the generation and image endpoints. Optional.
	RateLimiter *middleware.RateLimiter

	// AllowedOrigins configures CORS for browser clients.
	AllowedOrigins []string

	// UploadDir is served statically under /uploads/.
	UploadDir string
}

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(deps Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check — never rate limited.
	r.Get("/health", healthHandler)

	// Static serving of the local uploads area.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	// API routes — rate limited when a limiter is configured.
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware)
		}

		r.Post("/generate", deps.Generator.Generate)
		r.Post("/upload", deps.Uploader.Upload)

		r.Route("/api/images", func(r chi.Router) {
			r.Post("/upload", deps.Images.Upload)
			r.Post("/generate-image", deps.Images.GenerateImage)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
