package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const healthPingTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	pinger Pinger
}

// NewHealthHandler accepts a nil pinger for stores with nothing to check.
func NewHealthHandler(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

func (h *HealthHandler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.handleHealth)
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Health check failed")
			respondWithError(w, http.StatusServiceUnavailable, "Database unavailable", err.Error())
			return
		}
	}

	respondWithSuccess(w, http.StatusOK, "OK", "ok")
}
