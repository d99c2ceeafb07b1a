// Package portfolio computes the dashboard summary: grouping, aggregation,
// threshold flags, rebalance suggestions and chart rendering.
package portfolio

import (
	"context"
	"fmt"

	"github.com/hansonchs/portfolio-tracker/internal/common"
	"github.com/hansonchs/portfolio-tracker/internal/interfaces"
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

// Service implements interfaces.PortfolioService.
type Service struct {
	storage interfaces.StorageManager
	quotes  interfaces.QuoteService
	logger  *common.Logger
}

// NewService creates a new portfolio service.
func NewService(storage interfaces.StorageManager, quotes interfaces.QuoteService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		quotes:  quotes,
		logger:  logger,
	}
}

// BuildSummary loads the user's positions, accounts and settings, resolves
// live quotes and computes the full dashboard summary. Quote failures
// degrade to avg-cost valuation rather than failing the summary.
func (s *Service) BuildSummary(ctx context.Context) (*models.PortfolioSummary, error) {
	userID := common.ResolveUserID(ctx)
	store := s.storage.PortfolioStore()

	positions, err := store.ListPositions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}

	accounts, err := store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	settings, err := store.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	tickers := make([]string, 0, len(positions))
	for _, p := range positions {
		tickers = append(tickers, p.Ticker)
	}
	quotes := s.quotes.GetQuotes(ctx, tickers)

	summary := BuildSummary(positions, accounts, quotes, settings)

	s.logger.Debug().
		Str("user_id", userID).
		Int("positions", len(positions)).
		Int("groups", len(summary.Groups)).
		Float64("net_worth", summary.NetWorth).
		Msg("Summary built")

	return summary, nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
