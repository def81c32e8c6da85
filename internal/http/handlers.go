package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"nihonneta/internal/services/neta"
)

// GuideService produces conversation guides for a category selector.
type GuideService interface {
	Guide(ctx context.Context, category string) ([]neta.Neta, neta.Debug)
}

// NetaHandler handles conversation guide HTTP requests
type NetaHandler struct {
	service GuideService
}

// NewNetaHandler creates a new NetaHandler
func NewNetaHandler(service GuideService) *NetaHandler {
	return &NetaHandler{service: service}
}

// RegisterRoutes registers all guide routes
func (h *NetaHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/neta", func(r chi.Router) {
		r.Get("/", h.Guides)
	})
}

// guidesResponse is the boundary shape: the records plus a diagnostic
// object that explains any shortfall.
type guidesResponse struct {
	Netas []neta.Neta `json:"netas"`
	Debug neta.Debug  `json:"debug"`
}

// Guides handles GET /api/neta. The category query parameter selects among
// the known feeds; unknown values fall back to the default feed.
func (h *NetaHandler) Guides(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	netas, debug := h.service.Guide(r.Context(), category)
	if netas == nil {
		netas = []neta.Neta{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(guidesResponse{Netas: netas, Debug: debug}); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
