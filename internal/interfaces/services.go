package interfaces

import (
	"context"

	"github.com/hansonchs/portfolio-tracker/internal/models"
)

// QuoteService resolves quotes for a batch of tickers. Unresolvable tickers
// are omitted from the result; the batch itself never fails.
type QuoteService interface {
	GetQuotes(ctx context.Context, tickers []string) map[string]*models.PriceQuote
}

// PortfolioService computes the dashboard summary for the user in context.
type PortfolioService interface {
	BuildSummary(ctx context.Context) (*models.PortfolioSummary, error)
}

// ExtractionService runs screenshot extraction and normalizes the result
// to the same shape as manual position entry.
type ExtractionService interface {
	Extract(ctx context.Context, imageData []byte, mimeType string) (*models.ExtractionResult, error)
}
