package server

import (
	"net/http"
	"time"

	"github.com/hansonchs/portfolio-tracker/internal/common"
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

// --- Settings handlers ---

// handleSettings handles GET and POST /api/settings.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleSettingsGet(w, r)
	case http.MethodPost:
		s.handleSettingsUpdate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := common.ResolveUserID(ctx)

	settings, err := s.app.Storage.PortfolioStore().GetOrCreateSettings(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load settings")
		WriteError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   settings,
	})
}

// handleSettingsUpdate merges the provided fields into the stored settings.
// Omitted fields keep their current values.
func (s *Server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AlertThreshold *float64                  `json:"alert_threshold"`
		Targets        *models.TargetAllocations `json:"target_allocations"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.AlertThreshold != nil && (*req.AlertThreshold < 5 || *req.AlertThreshold > 50) {
		WriteError(w, http.StatusBadRequest, "alert_threshold must be between 5 and 50")
		return
	}
	if req.Targets != nil {
		for _, t := range *req.Targets {
			if t.Percent < 0 || t.Percent > 100 {
				WriteError(w, http.StatusBadRequest, "target percentages must be between 0 and 100")
				return
			}
		}
	}

	ctx := r.Context()
	userID := common.ResolveUserID(ctx)
	store := s.app.Storage.PortfolioStore()

	settings, err := store.GetOrCreateSettings(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load settings")
		WriteError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}

	if req.AlertThreshold != nil {
		settings.AlertThreshold = *req.AlertThreshold
	}
	if req.Targets != nil {
		settings.Targets = *req.Targets
	}
	settings.UpdatedAt = time.Now().UTC()

	if err := store.SaveSettings(ctx, settings); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save settings")
		WriteError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   settings,
	})
}
