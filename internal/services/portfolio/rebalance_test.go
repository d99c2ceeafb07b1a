package portfolio

import (
	"testing"

	"github.com/hansonchs/portfolio-tracker/internal/models"
)

func targets(pairs ...interface{}) models.TargetAllocations {
	var t models.TargetAllocations
	for i := 0; i < len(pairs); i += 2 {
		t.Set(pairs[i].(string), pairs[i+1].(float64))
	}
	return t
}

func group(ticker string, value float64) *models.TickerGroup {
	return &models.TickerGroup{Ticker: ticker, MarketValue: value}
}

func TestBuildRebalancePlan_Deadband(t *testing.T) {
	// Net worth 10000; current AAPL 1000.
	groups := []*models.TickerGroup{group("AAPL", 1000)}

	tests := []struct {
		name       string
		targetPct  float64
		wantAction string // "" means suppressed
		wantAmount float64
	}{
		{"diff +99 suppressed", 10.99, "", 0},
		{"diff +101 buys", 11.01, models.ActionBuy, 101},
		{"diff -101 sells", 8.99, models.ActionSell, 101},
		{"diff exactly +100 suppressed", 11, "", 0},
		{"diff exactly -100 suppressed", 9, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := BuildRebalancePlan(targets("AAPL", tt.targetPct), groups, 0, 10000)
			if tt.wantAction == "" {
				if len(plan.Actions) != 0 {
					t.Fatalf("expected no actions, got %+v", plan.Actions)
				}
				return
			}
			if len(plan.Actions) != 1 {
				t.Fatalf("expected 1 action, got %d", len(plan.Actions))
			}
			a := plan.Actions[0]
			if a.Action != tt.wantAction || !approxEqual(a.Amount, tt.wantAmount) {
				t.Errorf("action = %s %v, want %s %v", a.Action, a.Amount, tt.wantAction, tt.wantAmount)
			}
		})
	}
}

func TestBuildRebalancePlan_CashSentinel(t *testing.T) {
	groups := []*models.TickerGroup{group("AAPL", 6000)}

	// "CASH" targets the cash balance, not a ticker.
	plan := BuildRebalancePlan(targets("CASH", 50.0), groups, 4000, 10000)

	if len(plan.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(plan.Actions))
	}
	a := plan.Actions[0]
	if a.Ticker != "CASH" || a.Action != models.ActionBuy || !approxEqual(a.Amount, 1000) {
		t.Errorf("action = %+v, want CASH BUY 1000", a)
	}

	// The sentinel is an exact match: a lowercase "cash" ticker group does
	// not satisfy it.
	plan = BuildRebalancePlan(targets("cash", 50.0), []*models.TickerGroup{group("cash", 9999)}, 4000, 10000)
	if len(plan.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(plan.Actions))
	}
	if !approxEqual(plan.Actions[0].CurrentValue, 9999) {
		t.Errorf("lowercase cash must resolve as a ticker group, got current %v", plan.Actions[0].CurrentValue)
	}
}

func TestBuildRebalancePlan_InsertionOrderAndTotal(t *testing.T) {
	groups := []*models.TickerGroup{group("AAPL", 8000), group("MSFT", 1000)}

	plan := BuildRebalancePlan(targets("MSFT", 30.0, "AAPL", 50.0), groups, 1000, 10000)

	if len(plan.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(plan.Actions))
	}
	// Actions come out in target insertion order, not by size.
	if plan.Actions[0].Ticker != "MSFT" || plan.Actions[1].Ticker != "AAPL" {
		t.Errorf("order = %s, %s; want MSFT, AAPL", plan.Actions[0].Ticker, plan.Actions[1].Ticker)
	}
	// MSFT: 3000-1000 = BUY 2000. AAPL: 5000-8000 = SELL 3000.
	if !approxEqual(plan.TotalToRebalance, 5000) {
		t.Errorf("TotalToRebalance = %v, want 5000 (buys plus sells)", plan.TotalToRebalance)
	}
}

func TestBuildRebalancePlan_UnheldTickerBuysFromZero(t *testing.T) {
	plan := BuildRebalancePlan(targets("VOO", 10.0), nil, 0, 10000)

	if len(plan.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(plan.Actions))
	}
	a := plan.Actions[0]
	if a.Action != models.ActionBuy || !approxEqual(a.Amount, 1000) || !approxEqual(a.CurrentValue, 0) {
		t.Errorf("action = %+v, want BUY 1000 from 0", a)
	}
}

func TestBuildRebalancePlan_NoTargets(t *testing.T) {
	plan := BuildRebalancePlan(nil, []*models.TickerGroup{group("AAPL", 5000)}, 0, 5000)
	if len(plan.Actions) != 0 || plan.TotalToRebalance != 0 {
		t.Errorf("expected empty plan, got %+v", plan)
	}
}

func TestBuildRebalancePlan_TargetsNeedNotSumTo100(t *testing.T) {
	// 80 + 80 targets are accepted; the plan just reflects both.
	plan := BuildRebalancePlan(targets("AAPL", 80.0, "MSFT", 80.0), nil, 0, 10000)
	if len(plan.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(plan.Actions))
	}
	if !approxEqual(plan.TotalToRebalance, 16000) {
		t.Errorf("TotalToRebalance = %v, want 16000", plan.TotalToRebalance)
	}
}
