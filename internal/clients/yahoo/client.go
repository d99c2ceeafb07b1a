// Package yahoo provides a client for the Yahoo Finance chart API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hansonchs/portfolio-tracker/internal/common"
	"github.com/hansonchs/portfolio-tracker/internal/interfaces"
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// hkTickerPattern matches Hong Kong listings entered as 4 or 5 digit codes.
var hkTickerPattern = regexp.MustCompile(`^\d{4,5}$`)

// Client implements the PriceClient interface against the Yahoo chart API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// MapSymbol converts a user-entered ticker into a Yahoo chart symbol.
// 4-5 digit numeric tickers are Hong Kong listings: a 5-digit code with a
// leading zero is trimmed to 4 digits, then the ".HK" suffix is appended.
// Everything else passes through lowercased.
func MapSymbol(ticker string) string {
	if hkTickerPattern.MatchString(ticker) {
		code := ticker
		if len(code) == 5 && code[0] == '0' {
			code = code[1:]
		}
		return code + ".HK"
	}
	return strings.ToLower(ticker)
}

// chartResponse is the subset of the Yahoo chart payload the tracker uses.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string   `json:"currency"`
				RegularPrice       *float64 `json:"regularPrice"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				PreviousClose      *float64 `json:"previousClose"`
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetQuote resolves the current price for a single ticker.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*models.PriceQuote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	symbol := MapSymbol(ticker)
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", "1d")

	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; portfolio-tracker)")

	c.logger.Debug().Str("ticker", ticker).Str("symbol", symbol).Msg("Yahoo chart request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if chart.Chart.Error != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    chart.Chart.Error.Description,
			Endpoint:   path,
		}
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart result for %s", ticker)
	}

	result := chart.Chart.Result[0]
	price, ok := preferredPrice(result.Meta.RegularPrice, result.Meta.RegularMarketPrice,
		result.Meta.PreviousClose, result.Meta.ChartPreviousClose)
	if !ok {
		// Fall back to the most recent non-null historical close.
		for _, q := range result.Indicators.Quote {
			for i := len(q.Close) - 1; i >= 0; i-- {
				if q.Close[i] != nil {
					price, ok = *q.Close[i], true
					break
				}
			}
			if ok {
				break
			}
		}
	}
	if !ok {
		return nil, fmt.Errorf("no price available for %s", ticker)
	}

	return &models.PriceQuote{
		Ticker:   ticker,
		Price:    roundPrice(price),
		Currency: normalizeCurrency(result.Meta.Currency),
	}, nil
}

// preferredPrice walks the meta price fields in preference order. A zero
// value means the API had no price for that field, so it falls through to
// the next candidate like an absent one.
func preferredPrice(candidates ...*float64) (float64, bool) {
	for _, p := range candidates {
		if p != nil && *p != 0 {
			return *p, true
		}
	}
	return 0, false
}

// roundPrice rounds to 4 decimal places.
func roundPrice(p float64) float64 {
	return math.Round(p*10000) / 10000
}

// normalizeCurrency maps quote metadata currency to "HKD" or "USD".
// Anything that isn't HKD is treated as USD.
func normalizeCurrency(currency string) string {
	if strings.EqualFold(currency, "HKD") {
		return "HKD"
	}
	return "USD"
}

// Ensure Client implements PriceClient
var _ interfaces.PriceClient = (*Client)(nil)
