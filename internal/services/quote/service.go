// Package quote resolves live prices for batches of tickers.
package quote

import (
	"context"
	"sync"
	"time"

	"github.com/hansonchs/portfolio-tracker/internal/common"
	"github.com/hansonchs/portfolio-tracker/internal/interfaces"
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

// dispatchStagger is the delay between successive lookups in a batch, a
// mitigation against upstream rate limiting.
const dispatchStagger = 100 * time.Millisecond

// Service implements interfaces.QuoteService.
type Service struct {
	client interfaces.PriceClient
	logger *common.Logger
}

// NewService creates a new quote service.
func NewService(client interfaces.PriceClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// GetQuotes resolves quotes for the given tickers concurrently. Tickers are
// de-duplicated first; lookups are staggered by 100ms each. A failed lookup
// drops that ticker from the result and never fails the batch.
func (s *Service) GetQuotes(ctx context.Context, tickers []string) map[string]*models.PriceQuote {
	quotes := make(map[string]*models.PriceQuote)
	if s.client == nil || len(tickers) == 0 {
		return quotes
	}

	unique := dedupe(tickers)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i, ticker := range unique {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()

			if i > 0 {
				select {
				case <-time.After(time.Duration(i) * dispatchStagger):
				case <-ctx.Done():
					return
				}
			}

			q, err := s.client.GetQuote(ctx, ticker)
			if err != nil {
				s.logger.Debug().Err(err).Str("ticker", ticker).Msg("Quote lookup failed")
				return
			}

			mu.Lock()
			quotes[ticker] = q
			mu.Unlock()
		}(i, ticker)
	}
	wg.Wait()

	s.logger.Debug().
		Int("requested", len(unique)).
		Int("resolved", len(quotes)).
		Msg("Quote batch resolved")

	return quotes
}

// dedupe removes duplicate tickers preserving first-seen order.
func dedupe(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	var unique []string
	for _, t := range tickers {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		unique = append(unique, t)
	}
	return unique
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)
