// Package models defines the domain types for the portfolio tracker.
package models

import "time"

// Position kinds.
const (
	KindStock  = "stock"
	KindOption = "option"
	KindCash   = "cash"
)

// Markets.
const (
	MarketHK = "HK"
	MarketUS = "US"
)

// Position is a single holding row as entered by the user (or extracted
// from a broker screenshot). Cash entries never become Position rows; they
// are folded into the owning account's balance at write time.
type Position struct {
	ID        string  `json:"id" badgerhold:"key"`
	UserID    string  `json:"user_id"`
	AccountID string  `json:"account_id"`
	Ticker    string  `json:"ticker"`
	Market    string  `json:"market"` // "HK" or "US"
	Kind      string  `json:"kind"`   // "stock" or "option"
	Quantity  float64 `json:"quantity"`
	AvgCost   float64 `json:"avg_cost"`

	// Option contract fields, set only when Kind == "option".
	OptionType string  `json:"option_type,omitempty"` // "call" or "put"
	Strike     float64 `json:"strike,omitempty"`
	Expiry     string  `json:"expiry,omitempty"` // YYYY-MM-DD

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Account is a brokerage account holding positions and a cash balance in
// its own currency.
type Account struct {
	ID          string    `json:"id" badgerhold:"key"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Currency    string    `json:"currency"` // "HKD" or "USD"
	CashBalance float64   `json:"cash_balance"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AccountWithCount is the account list view including its position count.
type AccountWithCount struct {
	Account
	PositionCount int `json:"position_count"`
}

// Settings holds per-user dashboard preferences.
type Settings struct {
	UserID         string            `json:"user_id" badgerhold:"key"`
	AlertThreshold float64           `json:"alert_threshold"` // percent of net worth, [5,50]
	Targets        TargetAllocations `json:"target_allocations"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// DefaultAlertThreshold is the threshold applied when settings are first created.
const DefaultAlertThreshold = 20

// NewDefaultSettings returns the lazily-created settings row for a user.
func NewDefaultSettings(userID string) *Settings {
	return &Settings{
		UserID:         userID,
		AlertThreshold: DefaultAlertThreshold,
		Targets:        TargetAllocations{},
		UpdatedAt:      time.Now(),
	}
}

// PriceQuote is a resolved live price for one ticker.
type PriceQuote struct {
	Ticker   string  `json:"ticker"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"` // "HKD" or "USD"
}

// TickerGroup aggregates every position sharing a ticker (stocks and
// options merged). Monetary fields are in HKD.
type TickerGroup struct {
	Ticker        string      `json:"ticker"`
	Quantity      float64     `json:"quantity"`
	MarketValue   float64     `json:"market_value"`
	CostBasis     float64     `json:"cost_basis"`
	ProfitLoss    float64     `json:"profit_loss"`
	ProfitLossPct float64     `json:"profit_loss_pct"`
	PriceStale    bool        `json:"price_stale"` // no live quote; avg cost used
	Positions     []*Position `json:"positions"`

	// Dashboard decoration, populated on the summary view.
	PercentOfNetWorth float64  `json:"percent_of_net_worth"`
	OverThreshold     bool     `json:"over_threshold"`
	NearThreshold     bool     `json:"near_threshold"`
	TargetPercent     *float64 `json:"target_percent,omitempty"`
}

// BreakdownSlice is one named slice of a breakdown (markets, asset types,
// accounts, top holdings). Value in HKD; Percent of the breakdown's base.
type BreakdownSlice struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// Rebalance actions.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// CashTarget is the sentinel ticker that targets the cash balance in a
// rebalance plan.
const CashTarget = "CASH"

// RebalanceAction is a single suggested trade. Amounts are in HKD.
type RebalanceAction struct {
	Ticker         string  `json:"ticker"`
	Action         string  `json:"action"` // "BUY" or "SELL"
	Amount         float64 `json:"amount"`
	CurrentValue   float64 `json:"current_value"`
	TargetValue    float64 `json:"target_value"`
	CurrentPercent float64 `json:"current_percent"`
	TargetPercent  float64 `json:"target_percent"`
}

// RebalancePlan is the full set of suggested trades for the configured
// target allocations.
type RebalancePlan struct {
	Actions          []RebalanceAction `json:"actions"`
	TotalToRebalance float64           `json:"total_to_rebalance"`
}

// PortfolioSummary is the complete dashboard payload. All monetary values
// are in HKD, the reporting currency.
type PortfolioSummary struct {
	NetWorth    float64          `json:"net_worth"`
	TotalValue  float64          `json:"total_value"`
	TotalCash   float64          `json:"total_cash"`
	TotalCost   float64          `json:"total_cost"`
	TotalPL     float64          `json:"total_pl"`
	TotalPLPct  float64          `json:"total_pl_pct"`
	Groups      []*TickerGroup   `json:"groups"`
	Markets     []BreakdownSlice `json:"markets"`
	AssetTypes  []BreakdownSlice `json:"asset_types"`
	Accounts    []BreakdownSlice `json:"accounts"`
	TopHoldings []BreakdownSlice `json:"top_holdings"`
	Rebalance   *RebalancePlan   `json:"rebalance,omitempty"`
	AsOf        time.Time        `json:"as_of"`
}
