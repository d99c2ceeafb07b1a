package portfolio

import (
	"sort"
	"time"

	"github.com/hansonchs/portfolio-tracker/internal/fx"
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

// Asset type names.
const (
	AssetStock  = "Stock"
	AssetOption = "Option"
	AssetETF    = "ETF"
	AssetCash   = "Cash"
)

// topHoldingsLimit is the number of individual holdings shown before the
// remainder collapses into "Others".
const topHoldingsLimit = 8

// etfSymbols is the fixed set of tickers classified as ETFs.
var etfSymbols = map[string]bool{
	"QQQ": true, "VOO": true, "VTI": true, "SPY": true, "IWM": true,
	"IWV": true, "ARKK": true, "ARKG": true, "XLE": true, "XLF": true,
	"XLK": true, "XLU": true, "XLV": true, "XLY": true, "XLP": true,
	"XLB": true, "XLI": true, "XLRE": true, "GLD": true, "SLV": true,
	"TLT": true, "QQQM": true, "SPYM": true, "VWO": true, "VGK": true,
	"VPL": true, "VNQ": true,
}

// assetType classifies a position. Option kind wins over an ETF ticker
// match: a QQQ call is an Option, not an ETF.
func assetType(p *models.Position) string {
	if p.Kind == models.KindOption {
		return AssetOption
	}
	if etfSymbols[p.Ticker] {
		return AssetETF
	}
	return AssetStock
}

// Classify evaluates a holding's percent of net worth against the alert
// threshold. Over wins; near is the [0.8×threshold, threshold) band.
func Classify(pct, threshold float64) (over, near bool) {
	if pct >= threshold {
		return true, false
	}
	if pct >= 0.8*threshold {
		return false, true
	}
	return false, false
}

// pctOf returns part/whole as a percentage, 0 when whole is 0.
func pctOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// BuildSummary computes the full dashboard summary from raw positions,
// accounts, resolved quotes and settings. Pure: it performs no I/O and
// raises no errors. All breakdowns come out of a single pass over the
// positions so chart data and legends can never drift apart.
func BuildSummary(positions []*models.Position, accounts []*models.Account, quotes map[string]*models.PriceQuote, settings *models.Settings) *models.PortfolioSummary {
	accountsByID := make(map[string]*models.Account, len(accounts))
	for _, a := range accounts {
		accountsByID[a.ID] = a
	}

	groupsByTicker := make(map[string]*models.TickerGroup)
	var groups []*models.TickerGroup

	marketTotals := map[string]float64{models.MarketHK: 0, models.MarketUS: 0}
	assetTotals := map[string]float64{AssetStock: 0, AssetOption: 0, AssetETF: 0, AssetCash: 0}
	accountValues := make(map[string]float64)

	for _, p := range positions {
		quote := quotes[p.Ticker]

		// Effective price: live quote, else avg cost (which pins P/L to 0).
		price := p.AvgCost
		stale := true
		if quote != nil {
			price = quote.Price
			stale = false
		}

		// Effective currency: quote currency, else the owning account's,
		// else USD.
		currency := "USD"
		if quote != nil {
			currency = quote.Currency
		} else if acct := accountsByID[p.AccountID]; acct != nil {
			currency = acct.Currency
		}

		value := fx.ToHKDOrSame(p.Quantity*price, currency)
		cost := fx.ToHKDOrSame(p.Quantity*p.AvgCost, currency)

		g := groupsByTicker[p.Ticker]
		if g == nil {
			g = &models.TickerGroup{Ticker: p.Ticker}
			groupsByTicker[p.Ticker] = g
			groups = append(groups, g)
		}
		g.Quantity += p.Quantity
		g.MarketValue += value
		g.CostBasis += cost
		g.PriceStale = g.PriceStale || stale
		g.Positions = append(g.Positions, p)

		// Per-position market attribution: members of one group may carry
		// different market tags.
		marketTotals[p.Market] += value
		assetTotals[assetType(p)] += value
		accountValues[p.AccountID] += value
	}

	totalValue := 0.0
	totalCost := 0.0
	for _, g := range groups {
		g.ProfitLoss = g.MarketValue - g.CostBasis
		g.ProfitLossPct = pctOf(g.ProfitLoss, g.CostBasis)
		totalValue += g.MarketValue
		totalCost += g.CostBasis
	}

	totalCash := 0.0
	for _, a := range accounts {
		cash := fx.ToHKDOrSame(a.CashBalance, a.Currency)
		totalCash += cash
		accountValues[a.ID] += cash
	}
	assetTotals[AssetCash] = totalCash

	netWorth := totalValue + totalCash
	totalPL := totalValue - totalCost

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].MarketValue > groups[j].MarketValue
	})

	threshold := float64(models.DefaultAlertThreshold)
	var targets models.TargetAllocations
	if settings != nil {
		threshold = settings.AlertThreshold
		targets = settings.Targets
	}

	for _, g := range groups {
		g.PercentOfNetWorth = pctOf(g.MarketValue, netWorth)
		g.OverThreshold, g.NearThreshold = Classify(g.PercentOfNetWorth, threshold)
		if pct, ok := targets.Get(g.Ticker); ok {
			target := pct
			g.TargetPercent = &target
		}
	}

	summary := &models.PortfolioSummary{
		NetWorth:   netWorth,
		TotalValue: totalValue,
		TotalCash:  totalCash,
		TotalCost:  totalCost,
		TotalPL:    totalPL,
		TotalPLPct: pctOf(totalPL, totalCost),
		Groups:     groups,
		AsOf:       time.Now(),
	}

	summary.Markets = []models.BreakdownSlice{
		{Name: models.MarketHK, Value: marketTotals[models.MarketHK], Percent: pctOf(marketTotals[models.MarketHK], totalValue)},
		{Name: models.MarketUS, Value: marketTotals[models.MarketUS], Percent: pctOf(marketTotals[models.MarketUS], totalValue)},
	}

	summary.AssetTypes = []models.BreakdownSlice{
		{Name: AssetStock, Value: assetTotals[AssetStock], Percent: pctOf(assetTotals[AssetStock], netWorth)},
		{Name: AssetOption, Value: assetTotals[AssetOption], Percent: pctOf(assetTotals[AssetOption], netWorth)},
		{Name: AssetETF, Value: assetTotals[AssetETF], Percent: pctOf(assetTotals[AssetETF], netWorth)},
		{Name: AssetCash, Value: assetTotals[AssetCash], Percent: pctOf(assetTotals[AssetCash], netWorth)},
	}

	for _, a := range accounts {
		summary.Accounts = append(summary.Accounts, models.BreakdownSlice{
			Name:    a.Name,
			Value:   accountValues[a.ID],
			Percent: pctOf(accountValues[a.ID], netWorth),
		})
	}
	sort.SliceStable(summary.Accounts, func(i, j int) bool {
		return summary.Accounts[i].Value > summary.Accounts[j].Value
	})

	summary.TopHoldings = topHoldings(groups, netWorth)

	summary.Rebalance = BuildRebalancePlan(targets, groups, totalCash, netWorth)

	return summary
}

// topHoldings returns the largest holdings individually with the remainder
// collapsed into an "Others" slice. Groups must already be sorted
// descending by value.
func topHoldings(groups []*models.TickerGroup, netWorth float64) []models.BreakdownSlice {
	var slices []models.BreakdownSlice
	others := 0.0
	for i, g := range groups {
		if i < topHoldingsLimit {
			slices = append(slices, models.BreakdownSlice{
				Name:    g.Ticker,
				Value:   g.MarketValue,
				Percent: pctOf(g.MarketValue, netWorth),
			})
			continue
		}
		others += g.MarketValue
	}
	if len(groups) > topHoldingsLimit {
		slices = append(slices, models.BreakdownSlice{
			Name:    "Others",
			Value:   others,
			Percent: pctOf(others, netWorth),
		})
	}
	return slices
}
