// Package interfaces defines the contracts between clients, services and
// storage so each can be stubbed independently in tests.
package interfaces

import (
	"context"

	"github.com/hansonchs/portfolio-tracker/internal/models"
)

// PriceClient resolves a live quote for a single ticker.
type PriceClient interface {
	GetQuote(ctx context.Context, ticker string) (*models.PriceQuote, error)
}

// ExtractionClient reads holdings off a broker screenshot.
type ExtractionClient interface {
	ExtractPositions(ctx context.Context, imageData []byte, mimeType string) (*models.ExtractionResult, error)
}
