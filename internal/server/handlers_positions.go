package server

import (
	"net/http"
	"strings"

	"github.com/hansonchs/portfolio-tracker/internal/common"
	"github.com/hansonchs/portfolio-tracker/internal/fx"
	"github.com/hansonchs/portfolio-tracker/internal/interfaces"
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

// --- Position handlers ---

// positionRequest is the create payload for /api/positions.
type positionRequest struct {
	Ticker    string  `json:"ticker"`
	Market    string  `json:"market"`
	Kind      string  `json:"kind"`
	Quantity  float64 `json:"quantity"`
	AvgCost   float64 `json:"avg_cost"`
	AccountID string  `json:"account_id"`
	Currency  string  `json:"currency"` // cash entries only

	OptionType string  `json:"option_type"`
	Strike     float64 `json:"strike"`
	Expiry     string  `json:"expiry"`
}

// validatePositionRequest normalizes the payload in place and returns an
// error message, or "" when valid.
func validatePositionRequest(req *positionRequest) string {
	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	if req.Ticker == "" {
		return "ticker is required"
	}

	req.Kind = strings.ToLower(strings.TrimSpace(req.Kind))
	switch req.Kind {
	case models.KindStock, models.KindOption, models.KindCash:
	case "":
		return "kind is required"
	default:
		return "kind must be stock, option or cash"
	}

	if req.Kind == models.KindCash {
		req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
		if req.Currency == "" {
			req.Currency = "HKD"
		}
		if !fx.Supported(req.Currency) {
			return "currency must be HKD or USD"
		}
		return ""
	}

	req.Market = strings.ToUpper(strings.TrimSpace(req.Market))
	if req.Market != models.MarketHK && req.Market != models.MarketUS {
		return "market must be HK or US"
	}
	if req.Quantity < 0 {
		return "quantity must be non-negative"
	}
	if req.AvgCost < 0 {
		return "avg_cost must be non-negative"
	}

	req.OptionType = strings.ToLower(strings.TrimSpace(req.OptionType))
	if req.Kind == models.KindOption {
		if req.OptionType != "call" && req.OptionType != "put" {
			return "option_type must be call or put"
		}
		if req.Strike <= 0 {
			return "strike must be positive"
		}
		if req.Expiry == "" {
			return "expiry is required for options"
		}
	} else if req.OptionType != "" || req.Strike != 0 || req.Expiry != "" {
		return "option fields are only valid when kind is option"
	}

	return ""
}

// handlePositions handles GET and POST /api/positions.
func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handlePositionList(w, r)
	case http.MethodPost:
		s.handlePositionCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handlePositionList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := common.ResolveUserID(ctx)

	positions, err := s.app.Storage.PortfolioStore().ListPositions(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list positions")
		WriteError(w, http.StatusInternalServerError, "failed to list positions")
		return
	}
	if positions == nil {
		positions = []*models.Position{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   positions,
	})
}

func (s *Server) handlePositionCreate(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if errMsg := validatePositionRequest(&req); errMsg != "" {
		WriteError(w, http.StatusBadRequest, errMsg)
		return
	}

	ctx := r.Context()
	userID := common.ResolveUserID(ctx)
	store := s.app.Storage.PortfolioStore()

	// Cash entries fold into an account balance instead of becoming a
	// position row. The account is matched by currency.
	if req.Kind == models.KindCash {
		account, err := store.EnsureAccount(ctx, userID, interfaces.AccountCriteria{Currency: req.Currency})
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to resolve cash account")
			WriteError(w, http.StatusInternalServerError, "failed to record cash entry")
			return
		}
		account.CashBalance += req.Quantity
		if err := store.SaveAccount(ctx, account); err != nil {
			s.logger.Error().Err(err).Msg("Failed to update cash balance")
			WriteError(w, http.StatusInternalServerError, "failed to record cash entry")
			return
		}
		WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"status": "ok",
			"data":   account,
		})
		return
	}

	accountID := req.AccountID
	if accountID == "" {
		account, err := store.EnsureAccount(ctx, userID, interfaces.AccountCriteria{Name: "Portfolio", Currency: "HKD"})
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to resolve default account")
			WriteError(w, http.StatusInternalServerError, "failed to create position")
			return
		}
		accountID = account.ID
	} else {
		if _, err := store.GetAccount(ctx, userID, accountID); err != nil {
			WriteError(w, http.StatusBadRequest, "account not found")
			return
		}
	}

	position := &models.Position{
		UserID:     userID,
		AccountID:  accountID,
		Ticker:     req.Ticker,
		Market:     req.Market,
		Kind:       req.Kind,
		Quantity:   req.Quantity,
		AvgCost:    req.AvgCost,
		OptionType: req.OptionType,
		Strike:     req.Strike,
		Expiry:     req.Expiry,
	}
	if err := store.SavePosition(ctx, position); err != nil {
		s.logger.Error().Err(err).Str("ticker", req.Ticker).Msg("Failed to save position")
		WriteError(w, http.StatusInternalServerError, "failed to create position")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "ok",
		"data":   position,
	})
}

// handlePositionUpdate handles PUT /api/positions/{id}.
// Only ticker, quantity and avg_cost are updatable.
func (s *Server) handlePositionUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Ticker   *string  `json:"ticker"`
		Quantity *float64 `json:"quantity"`
		AvgCost  *float64 `json:"avg_cost"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	userID := common.ResolveUserID(ctx)
	store := s.app.Storage.PortfolioStore()

	position, err := store.GetPosition(ctx, userID, id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "position not found")
		return
	}

	if req.Ticker != nil {
		ticker := strings.ToUpper(strings.TrimSpace(*req.Ticker))
		if ticker == "" {
			WriteError(w, http.StatusBadRequest, "ticker is required")
			return
		}
		position.Ticker = ticker
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			WriteError(w, http.StatusBadRequest, "quantity must be non-negative")
			return
		}
		position.Quantity = *req.Quantity
	}
	if req.AvgCost != nil {
		if *req.AvgCost < 0 {
			WriteError(w, http.StatusBadRequest, "avg_cost must be non-negative")
			return
		}
		position.AvgCost = *req.AvgCost
	}

	if err := store.SavePosition(ctx, position); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("Failed to update position")
		WriteError(w, http.StatusInternalServerError, "failed to update position")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   position,
	})
}

// handlePositionDelete handles DELETE /api/positions/{id}.
func (s *Server) handlePositionDelete(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	userID := common.ResolveUserID(ctx)

	if err := s.app.Storage.PortfolioStore().DeletePosition(ctx, userID, id); err != nil {
		WriteError(w, http.StatusNotFound, "position not found")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}
