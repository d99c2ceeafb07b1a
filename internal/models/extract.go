package models

// ExtractedPosition is one holding read off a broker screenshot before
// validation. Fields mirror the manual-entry form.
type ExtractedPosition struct {
	Ticker   string  `json:"ticker"`
	Kind     string  `json:"kind"` // "stock", "option" or "cash"
	Market   string  `json:"market,omitempty"`
	Quantity float64 `json:"quantity"`
	AvgCost  float64 `json:"avg_cost"`

	OptionType string  `json:"option_type,omitempty"`
	Strike     float64 `json:"strike,omitempty"`
	Expiry     string  `json:"expiry,omitempty"`
}

// ExtractionResult is the structured output of a screenshot extraction.
type ExtractionResult struct {
	Platform  string              `json:"platform"`
	Currency  string              `json:"currency"`
	Positions []ExtractedPosition `json:"positions"`
}
