package extract

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hansonchs/portfolio-tracker/internal/common"
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

type stubExtractionClient struct {
	result *models.ExtractionResult
	err    error
}

func (s *stubExtractionClient) ExtractPositions(_ context.Context, _ []byte, _ string) (*models.ExtractionResult, error) {
	return s.result, s.err
}

func TestNormalize(t *testing.T) {
	result := Normalize(&models.ExtractionResult{
		Platform: "  Futu ",
		Currency: "hkd",
		Positions: []models.ExtractedPosition{
			{Ticker: " aapl ", Kind: "Stock", Quantity: 10, AvgCost: 100},
			{Ticker: "0700", Quantity: 100, AvgCost: 320},                        // kind omitted, HK market inferred
			{Ticker: "", Quantity: 5, AvgCost: 1},                                // dropped: no ticker
			{Ticker: "TSLA", Kind: "stock", Quantity: -3, AvgCost: 200},          // dropped: negative quantity
			{Ticker: "SPY", Kind: "option", Quantity: 1, AvgCost: 4, OptionType: "CALL", Strike: 550, Expiry: "2026-03-20"},
			{Ticker: "MSFT", Kind: "option", Quantity: 1, AvgCost: 4},            // dropped: option without type
		},
	})

	assert.Equal(t, "Futu", result.Platform)
	assert.Equal(t, "HKD", result.Currency)
	require.Len(t, result.Positions, 3)

	assert.Equal(t, "AAPL", result.Positions[0].Ticker)
	assert.Equal(t, models.KindStock, result.Positions[0].Kind)
	assert.Equal(t, models.MarketUS, result.Positions[0].Market)

	assert.Equal(t, "0700", result.Positions[1].Ticker)
	assert.Equal(t, models.MarketHK, result.Positions[1].Market)
	assert.Equal(t, models.KindStock, result.Positions[1].Kind)

	assert.Equal(t, "call", result.Positions[2].OptionType)
	assert.Equal(t, 550.0, result.Positions[2].Strike)
}

func TestNormalize_UnknownCurrencyDefaultsToUSD(t *testing.T) {
	result := Normalize(&models.ExtractionResult{Currency: "JPY"})
	assert.Equal(t, "USD", result.Currency)
}

func TestExtract_NotConfigured(t *testing.T) {
	svc := NewService(nil, common.NewSilentLogger())
	_, err := svc.Extract(context.Background(), []byte("img"), "image/png")
	assert.Error(t, err)
}

func TestExtract_ClientError(t *testing.T) {
	svc := NewService(&stubExtractionClient{err: fmt.Errorf("model unavailable")}, common.NewSilentLogger())
	_, err := svc.Extract(context.Background(), []byte("img"), "image/png")
	assert.Error(t, err)
}

func TestExtract_NormalizesClientResult(t *testing.T) {
	svc := NewService(&stubExtractionClient{result: &models.ExtractionResult{
		Platform: "WeBull",
		Currency: "usd",
		Positions: []models.ExtractedPosition{
			{Ticker: "nvda", Kind: "stock", Quantity: 5, AvgCost: 120},
		},
	}}, common.NewSilentLogger())

	result, err := svc.Extract(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "USD", result.Currency)
	require.Len(t, result.Positions, 1)
	assert.Equal(t, "NVDA", result.Positions[0].Ticker)
}
