package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TargetAllocation is one ticker → percent target. The ticker "CASH" targets
// the cash balance.
type TargetAllocation struct {
	Ticker  string
	Percent float64
}

// TargetAllocations is an ordered ticker → percent map. JSON wire format is
// a plain object; insertion order is preserved so rebalance output is
// deterministic and matches the order the user entered targets in.
type TargetAllocations []TargetAllocation

// Get returns the percent for a ticker and whether it is present.
func (t TargetAllocations) Get(ticker string) (float64, bool) {
	for _, a := range t {
		if a.Ticker == ticker {
			return a.Percent, true
		}
	}
	return 0, false
}

// Set updates an existing ticker in place or appends a new one.
func (t *TargetAllocations) Set(ticker string, percent float64) {
	for i := range *t {
		if (*t)[i].Ticker == ticker {
			(*t)[i].Percent = percent
			return
		}
	}
	*t = append(*t, TargetAllocation{Ticker: ticker, Percent: percent})
}

// Delete removes a ticker, preserving the order of the rest.
func (t *TargetAllocations) Delete(ticker string) {
	for i := range *t {
		if (*t)[i].Ticker == ticker {
			*t = append((*t)[:i], (*t)[i+1:]...)
			return
		}
	}
}

// MarshalJSON encodes the allocations as a JSON object in insertion order.
func (t TargetAllocations) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Ticker)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(a.Percent)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order via the token
// stream. Duplicate keys keep their first slot and take the last value.
func (t *TargetAllocations) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("target allocations must be a JSON object")
	}

	result := TargetAllocations{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("invalid target allocation key")
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return fmt.Errorf("target allocation for %q must be a number", key)
		}
		pct, err := num.Float64()
		if err != nil {
			return fmt.Errorf("target allocation for %q must be a number: %w", key, err)
		}

		result.Set(key, pct)
	}

	if _, err := dec.Token(); err != nil { // closing '}'
		return err
	}

	*t = result
	return nil
}
