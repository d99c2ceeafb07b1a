package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSymbol(t *testing.T) {
	tests := []struct {
		ticker string
		want   string
	}{
		{"0700", "0700.HK"},
		{"9988", "9988.HK"},
		{"00700", "0700.HK"}, // leading zero trimmed from 5-digit codes
		{"09988", "9988.HK"},
		{"12345", "12345.HK"}, // 5 digits without leading zero kept as-is
		{"AAPL", "aapl"},
		{"BRK.B", "brk.b"},
		{"123", "123"},     // too short to be an HK code
		{"123456", "123456"}, // too long
	}

	for _, tt := range tests {
		if got := MapSymbol(tt.ticker); got != tt.want {
			t.Errorf("MapSymbol(%q) = %q, want %q", tt.ticker, got, tt.want)
		}
	}
}

func chartJSON(meta string, closes string) string {
	return fmt.Sprintf(`{"chart":{"result":[{"meta":%s,"indicators":{"quote":[{"close":%s}]}}],"error":null}}`, meta, closes)
}

func TestGetQuote_RegularMarketPricePreferred(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/aapl", r.URL.Path)
		fmt.Fprint(w, chartJSON(`{"currency":"USD","regularMarketPrice":190.123456,"previousClose":188.0}`, `[185.0,186.0]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	q, err := c.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Ticker)
	assert.Equal(t, 190.1235, q.Price) // rounded to 4dp
	assert.Equal(t, "USD", q.Currency)
}

func TestGetQuote_FallsBackThroughCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON(`{"currency":"hkd"}`, `[310.0,null,312.5,null]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	q, err := c.GetQuote(context.Background(), "0700")
	require.NoError(t, err)
	// Last non-null historical close wins when no meta price exists.
	assert.Equal(t, 312.5, q.Price)
	assert.Equal(t, "HKD", q.Currency)
}

func TestGetQuote_PreviousCloseBeforeHistorical(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON(`{"currency":"USD","previousClose":55.5,"chartPreviousClose":54.0}`, `[50.0]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	q, err := c.GetQuote(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, 55.5, q.Price)
}

func TestGetQuote_ZeroMetaPriceFallsThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON(`{"currency":"USD","regularMarketPrice":0,"previousClose":42.0}`, `[40.0]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	q, err := c.GetQuote(context.Background(), "AMD")
	require.NoError(t, err)
	// A zero meta price is "no price", not a real quote.
	assert.Equal(t, 42.0, q.Price)
}

func TestGetQuote_NoPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON(`{"currency":"USD"}`, `[null,null]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetQuote(context.Background(), "ZZZZZZ")
	assert.Error(t, err)
}

func TestGetQuote_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetQuote(context.Background(), "NOPE")
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "HKD", normalizeCurrency("hkd"))
	assert.Equal(t, "HKD", normalizeCurrency("HKD"))
	assert.Equal(t, "USD", normalizeCurrency("USD"))
	// Non-HKD quote currencies are treated as USD.
	assert.Equal(t, "USD", normalizeCurrency("JPY"))
	assert.Equal(t, "USD", normalizeCurrency(""))
}
