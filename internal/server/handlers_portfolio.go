package server

import (
	"net/http"

	"github.com/hansonchs/portfolio-tracker/internal/models"
	"github.com/hansonchs/portfolio-tracker/internal/services/portfolio"
)

// --- Portfolio handlers ---

// handlePortfolioSummary handles GET /api/portfolio/summary.
func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.PortfolioService.BuildSummary(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build portfolio summary")
		WriteError(w, http.StatusInternalServerError, "failed to build portfolio summary")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   summary,
	})
}

// handlePortfolioChart handles GET /api/portfolio/charts/{kind} and writes a
// PNG image.
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request, kind string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.PortfolioService.BuildSummary(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build portfolio summary for chart")
		WriteError(w, http.StatusInternalServerError, "failed to build chart")
		return
	}

	var png []byte
	switch kind {
	case "allocation":
		png, err = portfolio.RenderAllocationChart(summary)
	case "markets":
		png, err = portfolio.RenderMarketChart(summary)
	}
	if err != nil {
		WriteError(w, http.StatusNotFound, "no data to chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handlePrices handles POST /api/prices with a batch of tickers.
// Unresolvable tickers are omitted from the response map.
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Tickers []string `json:"tickers"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Tickers) == 0 {
		WriteError(w, http.StatusBadRequest, "tickers is required")
		return
	}

	quotes := s.app.QuoteService.GetQuotes(r.Context(), req.Tickers)
	if quotes == nil {
		quotes = map[string]*models.PriceQuote{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   quotes,
	})
}
