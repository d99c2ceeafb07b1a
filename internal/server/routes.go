package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/hansonchs/portfolio-tracker/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Users
	mux.HandleFunc("/api/users", s.handleUserCreate)

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)

	// Positions
	mux.HandleFunc("/api/positions/", s.routePositions)
	mux.HandleFunc("/api/positions", s.handlePositions)

	// Accounts
	mux.HandleFunc("/api/accounts/", s.routeAccounts)
	mux.HandleFunc("/api/accounts", s.handleAccounts)

	// Settings
	mux.HandleFunc("/api/settings", s.handleSettings)

	// Prices
	mux.HandleFunc("/api/prices", s.handlePrices)

	// Portfolio
	mux.HandleFunc("/api/portfolio/summary", s.handlePortfolioSummary)
	mux.HandleFunc("/api/portfolio/charts/", s.routePortfolioCharts)

	// Extraction
	mux.HandleFunc("/api/extract", s.handleExtract)
}

// routePositions dispatches /api/positions/{id} by method.
func (s *Server) routePositions(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/positions/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "position id is required in path")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handlePositionUpdate(w, r, id)
	case http.MethodDelete:
		s.handlePositionDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// routeAccounts dispatches /api/accounts/{id} by method.
func (s *Server) routeAccounts(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/accounts/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "account id is required in path")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handleAccountUpdate(w, r, id)
	default:
		RequireMethod(w, r, http.MethodPut)
	}
}

// routePortfolioCharts dispatches /api/portfolio/charts/{kind}.
func (s *Server) routePortfolioCharts(w http.ResponseWriter, r *http.Request) {
	kind := strings.TrimPrefix(r.URL.Path, "/api/portfolio/charts/")
	switch kind {
	case "allocation", "markets":
		s.handlePortfolioChart(w, r, kind)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uptime := time.Since(s.app.StartupTime).Round(time.Second)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       s.app.Config.Environment,
		"uptime":            uptime.String(),
		"started_at":        s.app.StartupTime,
		"logging_level":     s.app.Config.Logging.Level,
		"yahoo_base_url":    s.app.Config.Clients.Yahoo.BaseURL,
		"gemini_configured": s.app.GeminiClient != nil,
		"gemini_api_key":    maskSecret(s.app.Config.Clients.Gemini.APIKey),
	})
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
