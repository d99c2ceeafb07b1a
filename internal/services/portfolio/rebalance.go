package portfolio

import (
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

// rebalanceDeadband is the fixed suppression band in HKD. Differences of
// 100 HKD or less in either direction produce no action.
const rebalanceDeadband = 100.0

// BuildRebalancePlan computes suggested trades for the configured targets.
// Targets are evaluated in insertion order; the "CASH" sentinel targets the
// cash balance. Pure: no error conditions.
func BuildRebalancePlan(targets models.TargetAllocations, groups []*models.TickerGroup, totalCash, netWorth float64) *models.RebalancePlan {
	plan := &models.RebalancePlan{Actions: []models.RebalanceAction{}}
	if len(targets) == 0 {
		return plan
	}

	valueByTicker := make(map[string]float64, len(groups))
	for _, g := range groups {
		valueByTicker[g.Ticker] = g.MarketValue
	}

	for _, target := range targets {
		current := 0.0
		if target.Ticker == models.CashTarget {
			current = totalCash
		} else if v, ok := valueByTicker[target.Ticker]; ok {
			current = v
		}

		targetValue := target.Percent / 100 * netWorth
		diff := targetValue - current

		action := models.RebalanceAction{
			Ticker:         target.Ticker,
			CurrentValue:   current,
			TargetValue:    targetValue,
			CurrentPercent: pctOf(current, netWorth),
			TargetPercent:  target.Percent,
		}

		switch {
		case diff > rebalanceDeadband:
			action.Action = models.ActionBuy
			action.Amount = diff
		case diff < -rebalanceDeadband:
			action.Action = models.ActionSell
			action.Amount = -diff
		default:
			continue
		}

		plan.Actions = append(plan.Actions, action)
		plan.TotalToRebalance += action.Amount
	}

	return plan
}
