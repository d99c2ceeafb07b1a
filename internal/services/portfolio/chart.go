package portfolio

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/hansonchs/portfolio-tracker/internal/models"
)

// RenderAllocationChart renders a PNG donut of the top holdings (including
// the "Others" slice). Returns raw PNG bytes.
func RenderAllocationChart(summary *models.PortfolioSummary) ([]byte, error) {
	return renderDonut("Allocation", summary.TopHoldings)
}

// RenderMarketChart renders a PNG donut of the HK/US market split.
func RenderMarketChart(summary *models.PortfolioSummary) ([]byte, error) {
	return renderDonut("Markets", summary.Markets)
}

func renderDonut(title string, slices []models.BreakdownSlice) ([]byte, error) {
	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: s.Value,
			Label: fmt.Sprintf("%s %.1f%%", s.Name, s.Percent),
		})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no data to chart")
	}

	graph := chart.DonutChart{
		Title:  title,
		Width:  500,
		Height: 500,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
