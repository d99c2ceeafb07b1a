package portfolio

import (
	"bytes"
	"testing"

	"github.com/hansonchs/portfolio-tracker/internal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderAllocationChart(t *testing.T) {
	summary := &models.PortfolioSummary{
		TopHoldings: []models.BreakdownSlice{
			{Name: "AAPL", Value: 7800, Percent: 50},
			{Name: "0700", Value: 3900, Percent: 25},
			{Name: "Others", Value: 3900, Percent: 25},
		},
	}

	png, err := RenderAllocationChart(summary)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestRenderMarketChart_SkipsZeroSlices(t *testing.T) {
	summary := &models.PortfolioSummary{
		Markets: []models.BreakdownSlice{
			{Name: "HK", Value: 0, Percent: 0},
			{Name: "US", Value: 7800, Percent: 100},
		},
	}

	png, err := RenderMarketChart(summary)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestRenderChart_EmptyData(t *testing.T) {
	if _, err := RenderAllocationChart(&models.PortfolioSummary{}); err == nil {
		t.Error("expected error for empty chart data")
	}
}
