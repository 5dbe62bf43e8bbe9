package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter builds the HTTP router with the base middleware chain, the
// metrics endpoint and the handler's routes.
func NewRouter(h *HTTPHandler, logger zerolog.Logger, requestTimeout time.Duration) *chi.Mux {
	router := chi.NewRouter()
	router.Use(RequestID)
	router.Use(middleware.RealIP)
	router.Use(RequestLogger(logger))
	router.Use(Metrics)
	router.Use(Recoverer)
	router.Use(middleware.Timeout(requestTimeout))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	router.Handle("/metrics", promhttp.Handler())
	h.RegisterRoutes(router)
	return router
}
