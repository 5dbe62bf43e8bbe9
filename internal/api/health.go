package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const healthCheckTimeout = 2 * time.Second

// Health handles GET <base>/health by issuing a round-trip query.
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)
	if err := h.pinger.Ping(ctx); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("health check database ping failed")
		respondWithJSON(w, r, http.StatusServiceUnavailable, Envelope{
			OK:      false,
			Message: "database unreachable",
			Data:    map[string]string{"database": "down", "timestamp": now},
		})
		return
	}
	respondWithData(w, r, http.StatusOK, "service healthy", map[string]string{
		"database":  "up",
		"timestamp": now,
	})
}
