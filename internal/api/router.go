package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter builds and returns the Chi router with all routes configured.
// The health and media endpoints are unauthenticated; the remaining /api/v1
// routes require bearer auth when token is non-empty.
// Rate limiting is applied globally: 600 requests per minute per IP.
func NewRouter(handlers *Handlers, token string, store, objects Pinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httprate.LimitByIP(600, time.Minute))

	r.Get("/api/v1/health", HealthHandlerFunc(store, objects, log))
	r.Get("/media/*", handlers.ServeMedia)

	r.Group(func(r chi.Router) {
		if token != "" {
			r.Use(BearerAuth(token))
		}
		r.Post("/api/v1/media/upload/single", handlers.UploadSingle)
		r.Post("/api/v1/destinations", handlers.CreateDestination)
		r.Get("/api/v1/destinations", handlers.ListDestinations)
		r.Get("/api/v1/destinations/{id}", handlers.GetDestination)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
