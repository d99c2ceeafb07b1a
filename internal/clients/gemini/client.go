// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"google.golang.org/genai"

	"github.com/hansonchs/portfolio-tracker/internal/common"
	"github.com/hansonchs/portfolio-tracker/internal/interfaces"
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

const DefaultModel = "gemini-2.0-flash"

// extractionPrompt instructs the model to read holdings off a brokerage
// screenshot and answer with a single JSON object.
const extractionPrompt = `You are reading a screenshot of a brokerage account.
Identify the platform, the account currency, and every visible holding.

Respond with a single JSON object and nothing else:
{
  "platform": "broker name, e.g. Futu, WeBull, Tiger",
  "currency": "HKD or USD",
  "positions": [
    {
      "ticker": "symbol as shown, HK stocks as 4-5 digit codes",
      "kind": "stock, option or cash",
      "market": "HK or US",
      "quantity": 0,
      "avg_cost": 0,
      "option_type": "call or put (options only)",
      "strike": 0,
      "expiry": "YYYY-MM-DD (options only)"
    }
  ]
}

For cash rows, put the balance in quantity and omit avg_cost.`

// jsonObjectPattern pulls the first JSON object out of a model response that
// may be wrapped in prose or a code fence.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Client implements the ExtractionClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ExtractPositions sends a screenshot to the model and parses the holdings
// it reports.
func (c *Client) ExtractPositions(ctx context.Context, imageData []byte, mimeType string) (*models.ExtractionResult, error) {
	c.logger.Debug().
		Str("model", c.model).
		Int("image_bytes", len(imageData)).
		Str("mime_type", mimeType).
		Msg("Extracting positions from screenshot")

	parts := []*genai.Part{
		genai.NewPartFromBytes(imageData, mimeType),
		genai.NewPartFromText(extractionPrompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(result)
	if err != nil {
		return nil, err
	}

	return ParseExtractionResponse(text)
}

// ParseExtractionResponse pulls the JSON object out of the model's text
// response and decodes it.
func ParseExtractionResponse(text string) (*models.ExtractionResult, error) {
	raw := jsonObjectPattern.FindString(text)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in extraction response")
	}

	var extraction models.ExtractionResult
	if err := json.Unmarshal([]byte(raw), &extraction); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	return &extraction, nil
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// Ensure Client implements ExtractionClient
var _ interfaces.ExtractionClient = (*Client)(nil)
