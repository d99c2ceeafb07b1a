package quote

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/hansonchs/portfolio-tracker/internal/common"
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

// stubPriceClient returns canned quotes and records the tickers it was asked for.
type stubPriceClient struct {
	mu     sync.Mutex
	quotes map[string]*models.PriceQuote
	calls  []string
}

func (s *stubPriceClient) GetQuote(_ context.Context, ticker string) (*models.PriceQuote, error) {
	s.mu.Lock()
	s.calls = append(s.calls, ticker)
	s.mu.Unlock()
	if q, ok := s.quotes[ticker]; ok {
		return q, nil
	}
	return nil, fmt.Errorf("no quote for %s", ticker)
}

func TestGetQuotes_DedupesAndResolves(t *testing.T) {
	client := &stubPriceClient{quotes: map[string]*models.PriceQuote{
		"AAPL": {Ticker: "AAPL", Price: 190, Currency: "USD"},
		"0700": {Ticker: "0700", Price: 320, Currency: "HKD"},
	}}
	svc := NewService(client, common.NewSilentLogger())

	got := svc.GetQuotes(context.Background(), []string{"AAPL", "0700", "AAPL", "", "0700"})

	if len(got) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(got))
	}
	if got["AAPL"].Price != 190 || got["0700"].Price != 320 {
		t.Errorf("unexpected quotes: %+v", got)
	}

	client.mu.Lock()
	calls := len(client.calls)
	client.mu.Unlock()
	if calls != 2 {
		t.Errorf("expected 2 lookups after dedupe, got %d", calls)
	}
}

func TestGetQuotes_PartialFailureTolerated(t *testing.T) {
	client := &stubPriceClient{quotes: map[string]*models.PriceQuote{
		"AAPL": {Ticker: "AAPL", Price: 190, Currency: "USD"},
	}}
	svc := NewService(client, common.NewSilentLogger())

	got := svc.GetQuotes(context.Background(), []string{"AAPL", "BOGUS"})

	want := map[string]*models.PriceQuote{
		"AAPL": {Ticker: "AAPL", Price: 190, Currency: "USD"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetQuotes = %+v, want %+v", got, want)
	}
}

func TestGetQuotes_EmptyInput(t *testing.T) {
	svc := NewService(&stubPriceClient{}, common.NewSilentLogger())
	if got := svc.GetQuotes(context.Background(), nil); len(got) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}

func TestGetQuotes_NilClient(t *testing.T) {
	svc := NewService(nil, common.NewSilentLogger())
	if got := svc.GetQuotes(context.Background(), []string{"AAPL"}); len(got) != 0 {
		t.Errorf("expected empty result with nil client, got %+v", got)
	}
}
