// Package extract turns broker screenshots into position entries via the
// vision model, normalized to the same shape as manual entry.
package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hansonchs/portfolio-tracker/internal/common"
	"github.com/hansonchs/portfolio-tracker/internal/fx"
	"github.com/hansonchs/portfolio-tracker/internal/interfaces"
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

var hkCodePattern = regexp.MustCompile(`^\d{4,5}$`)

// Service implements interfaces.ExtractionService.
type Service struct {
	client interfaces.ExtractionClient
	logger *common.Logger
}

// NewService creates a new extraction service.
func NewService(client interfaces.ExtractionClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// Extract runs the vision model over a screenshot and normalizes the
// result. Rows the model misread badly enough to be unusable are dropped
// rather than failing the whole extraction.
func (s *Service) Extract(ctx context.Context, imageData []byte, mimeType string) (*models.ExtractionResult, error) {
	if s.client == nil {
		return nil, fmt.Errorf("extraction is not configured")
	}

	result, err := s.client.ExtractPositions(ctx, imageData, mimeType)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	normalized := Normalize(result)

	s.logger.Info().
		Str("platform", normalized.Platform).
		Int("extracted", len(result.Positions)).
		Int("kept", len(normalized.Positions)).
		Msg("Screenshot extraction completed")

	return normalized, nil
}

// Normalize cleans an extraction result into the shape manual entry
// produces: tickers uppercased, kinds and markets canonical, option fields
// only on options, unusable rows dropped.
func Normalize(result *models.ExtractionResult) *models.ExtractionResult {
	out := &models.ExtractionResult{
		Platform:  strings.TrimSpace(result.Platform),
		Currency:  normalizeCurrency(result.Currency),
		Positions: []models.ExtractedPosition{},
	}

	for _, p := range result.Positions {
		ticker := strings.ToUpper(strings.TrimSpace(p.Ticker))
		if ticker == "" {
			continue
		}
		if p.Quantity < 0 || p.AvgCost < 0 {
			continue
		}

		kind := strings.ToLower(strings.TrimSpace(p.Kind))
		switch kind {
		case models.KindStock, models.KindOption, models.KindCash:
		default:
			kind = models.KindStock
		}

		norm := models.ExtractedPosition{
			Ticker:   ticker,
			Kind:     kind,
			Market:   normalizeMarket(p.Market, ticker),
			Quantity: p.Quantity,
			AvgCost:  p.AvgCost,
		}

		if kind == models.KindOption {
			optType := strings.ToLower(strings.TrimSpace(p.OptionType))
			if optType != "call" && optType != "put" {
				continue
			}
			norm.OptionType = optType
			norm.Strike = p.Strike
			norm.Expiry = p.Expiry
		}

		out.Positions = append(out.Positions, norm)
	}

	return out
}

// normalizeMarket canonicalizes the market tag, inferring it from the
// ticker shape when the model omitted it.
func normalizeMarket(market, ticker string) string {
	switch strings.ToUpper(strings.TrimSpace(market)) {
	case models.MarketHK:
		return models.MarketHK
	case models.MarketUS:
		return models.MarketUS
	}
	if hkCodePattern.MatchString(ticker) {
		return models.MarketHK
	}
	return models.MarketUS
}

func normalizeCurrency(currency string) string {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if fx.Supported(c) {
		return c
	}
	return "USD"
}

// Ensure Service implements ExtractionService
var _ interfaces.ExtractionService = (*Service)(nil)
