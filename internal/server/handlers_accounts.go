package server

import (
	"net/http"
	"strings"

	"github.com/hansonchs/portfolio-tracker/internal/common"
	"github.com/hansonchs/portfolio-tracker/internal/fx"
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

// --- Account handlers ---

// handleAccounts handles GET and POST /api/accounts.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleAccountList(w, r)
	case http.MethodPost:
		s.handleAccountCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleAccountList returns all accounts with their position counts.
func (s *Server) handleAccountList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := common.ResolveUserID(ctx)
	store := s.app.Storage.PortfolioStore()

	accounts, err := store.ListAccounts(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list accounts")
		WriteError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}

	positions, err := store.ListPositions(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to count positions")
		WriteError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}

	counts := make(map[string]int, len(accounts))
	for _, p := range positions {
		counts[p.AccountID]++
	}

	result := make([]*models.AccountWithCount, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, &models.AccountWithCount{
			Account:       *a,
			PositionCount: counts[a.ID],
		})
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   result,
	})
}

func (s *Server) handleAccountCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Currency    string  `json:"currency"`
		CashBalance float64 `json:"cash_balance"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if !fx.Supported(req.Currency) {
		WriteError(w, http.StatusBadRequest, "currency must be HKD or USD")
		return
	}
	if req.CashBalance < 0 {
		WriteError(w, http.StatusBadRequest, "cash_balance must be non-negative")
		return
	}

	ctx := r.Context()
	account := &models.Account{
		UserID:      common.ResolveUserID(ctx),
		Name:        req.Name,
		Currency:    req.Currency,
		CashBalance: req.CashBalance,
	}
	if err := s.app.Storage.PortfolioStore().SaveAccount(ctx, account); err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("Failed to save account")
		WriteError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "ok",
		"data":   account,
	})
}

// handleAccountUpdate handles PUT /api/accounts/{id}.
// Only the cash balance is updatable.
func (s *Server) handleAccountUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		CashBalance *float64 `json:"cash_balance"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.CashBalance == nil {
		WriteError(w, http.StatusBadRequest, "cash_balance is required")
		return
	}
	if *req.CashBalance < 0 {
		WriteError(w, http.StatusBadRequest, "cash_balance must be non-negative")
		return
	}

	ctx := r.Context()
	userID := common.ResolveUserID(ctx)
	store := s.app.Storage.PortfolioStore()

	account, err := store.GetAccount(ctx, userID, id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "account not found")
		return
	}

	account.CashBalance = *req.CashBalance
	if err := store.SaveAccount(ctx, account); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("Failed to update account")
		WriteError(w, http.StatusInternalServerError, "failed to update account")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   account,
	})
}
