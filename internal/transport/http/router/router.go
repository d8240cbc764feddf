package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sortir/internal/transport/http/handlers"
	"sortir/internal/transport/http/middleware"
	"sortir/internal/transport/http/response"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Preferences *handlers.PreferencesHandler
	Favorites   *handlers.FavoritesHandler
	Events      *handlers.EventsHandler
	Scheduler   *handlers.SchedulerHandler
	Feed        *handlers.FeedHandler
	Health      *handlers.HealthHandler
}

type Options struct {
	// RateLimit is requests per minute per client IP; zero disables it.
	RateLimit int
}

func New(h Handlers, auth *middleware.Auth, opts Options, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	r.Get("/health", h.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
		}

		r.Get("/classifications", handlers.Classifications)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth.Require)
				r.Post("/logout", h.Auth.Logout)
				r.Get("/profile", h.Auth.Profile)
			})
		})

		r.Route("/feed", func(r chi.Router) {
			r.Get("/all", h.Feed.All)
			r.Get("/public", h.Feed.Public)

			r.Group(func(r chi.Router) {
				r.Use(auth.Require)
				r.Get("/", h.Feed.Personalized)
				r.Get("/discovery", h.Feed.Discovery)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)

			r.Get("/preferences", h.Preferences.List)
			r.Post("/preferences", h.Preferences.Replace)

			r.Get("/favorites", h.Favorites.List)
			r.Post("/favorites/{externalId}", h.Favorites.Add)
			r.Delete("/favorites/{externalId}", h.Favorites.Remove)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Post("/events/sync", h.Events.Sync)
				r.Get("/events/stats", h.Events.Stats)

				r.Post("/scheduler/manual-schedule", h.Scheduler.TriggerManual)
				r.Get("/scheduler/logs", h.Scheduler.Logs)
				r.Get("/scheduler/runs", h.Scheduler.Runs)
			})
		})
	})

	return r
}
