package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vaughan-dsouza/usermgmt/internal/handlers"
	"github.com/vaughan-dsouza/usermgmt/internal/middleware"
)

// New builds the service's route table. It is called once at startup and the
// result handed to the http.Server.
func New(h *handlers.Handler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)

	r.Get("/", h.Home.Index)
	r.Get("/health", h.Health.Check)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/users", h.Users.List)
	r.Post("/users", h.Users.Create)

	r.Get("/user/{id:[0-9]+}", h.Users.Get)
	r.Put("/user/{id:[0-9]+}", h.Users.Update)
	r.Delete("/user/{id:[0-9]+}", h.Users.Delete)

	r.Get("/search", h.Users.Search)
	r.Post("/login", h.Users.Login)

	return r
}
