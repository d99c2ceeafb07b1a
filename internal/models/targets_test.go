package models

import (
	"encoding/json"
	"testing"
)

func TestTargetAllocationsPreserveOrder(t *testing.T) {
	var targets TargetAllocations
	if err := json.Unmarshal([]byte(`{"AAPL": 40, "0700": 30, "CASH": 30}`), &targets); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	want := []string{"AAPL", "0700", "CASH"}
	if len(targets) != len(want) {
		t.Fatalf("expected %d targets, got %d", len(want), len(targets))
	}
	for i, ticker := range want {
		if targets[i].Ticker != ticker {
			t.Errorf("position %d: expected %s, got %s", i, ticker, targets[i].Ticker)
		}
	}
}

func TestTargetAllocationsRoundTrip(t *testing.T) {
	targets := TargetAllocations{
		{Ticker: "MSFT", Percent: 50},
		{Ticker: "AAPL", Percent: 25.5},
	}

	data, err := json.Marshal(targets)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"MSFT":50,"AAPL":25.5}` {
		t.Errorf("unexpected wire format: %s", data)
	}

	var back TargetAllocations
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if pct, ok := back.Get("AAPL"); !ok || pct != 25.5 {
		t.Errorf("expected AAPL 25.5, got %v (present=%v)", pct, ok)
	}
}

func TestTargetAllocationsDuplicateKeysKeepFirstSlot(t *testing.T) {
	var targets TargetAllocations
	if err := json.Unmarshal([]byte(`{"AAPL": 10, "MSFT": 20, "AAPL": 30}`), &targets); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
	if targets[0].Ticker != "AAPL" || targets[0].Percent != 30 {
		t.Errorf("expected AAPL first with last value 30, got %+v", targets[0])
	}
}

func TestTargetAllocationsRejectInvalidJSON(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"array", `["AAPL"]`},
		{"string", `"AAPL"`},
		{"number value as string", `{"AAPL": "forty"}`},
		{"nested object", `{"AAPL": {"pct": 40}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var targets TargetAllocations
			if err := json.Unmarshal([]byte(tc.data), &targets); err == nil {
				t.Errorf("expected error for %s", tc.data)
			}
		})
	}
}

func TestTargetAllocationsSetAndDelete(t *testing.T) {
	var targets TargetAllocations
	targets.Set("AAPL", 40)
	targets.Set("MSFT", 30)
	targets.Set("AAPL", 50) // update in place

	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
	if targets[0].Ticker != "AAPL" || targets[0].Percent != 50 {
		t.Errorf("expected AAPL 50 in first slot, got %+v", targets[0])
	}

	targets.Delete("AAPL")
	if _, ok := targets.Get("AAPL"); ok {
		t.Error("AAPL should be deleted")
	}
	if len(targets) != 1 || targets[0].Ticker != "MSFT" {
		t.Errorf("expected only MSFT to remain, got %+v", targets)
	}
}
