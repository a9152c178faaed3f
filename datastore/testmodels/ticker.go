// Package testmodels holds a small record type and its row codec for tests
// of the list engines.
package testmodels

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/shopspring/decimal"

	"github.com/suparena/csvstore/errors"
)

type Ticker struct {

	// Unique symbol of the ticker.
	// Required: true
	Symbol string

	// Free text, may contain the row delimiter.
	Description string

	// Last price, absent when never traded.
	Price decimal.NullDecimal

	// Timestamp of the last change.
	// Format: yyyyMMddHHmmss
	UpdatedAt *strfmt.DateTime
}

const tickerLayout = "20060102150405"

// TickerCodec stores a Ticker as symbol;description;price;updated.
type TickerCodec struct{}

func (TickerCodec) Key(t *Ticker) string {
	return t.Symbol
}

func (TickerCodec) Validate(t *Ticker) error {
	if t == nil || t.Symbol == "" {
		return errors.NewValidationError("Symbol", "symbol is required")
	}
	return nil
}

func (TickerCodec) Decode(fields []string) (*Ticker, error) {
	if len(fields) != 4 {
		return nil, errors.NewValidationError("", fmt.Sprintf("ticker row: expected 4 fields, got %d", len(fields)))
	}
	t := &Ticker{Symbol: fields[0], Description: fields[1]}
	if t.Symbol == "" {
		return nil, errors.NewValidationError("Symbol", "symbol is required")
	}
	if fields[2] != "" {
		d, err := decimal.NewFromString(fields[2])
		if err != nil {
			return nil, fmt.Errorf("invalid price %q", fields[2])
		}
		t.Price = decimal.NewNullDecimal(d)
	}
	if fields[3] != "" {
		ts, err := time.ParseInLocation(tickerLayout, fields[3], time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q", fields[3])
		}
		dt := strfmt.DateTime(ts)
		t.UpdatedAt = &dt
	}
	return t, nil
}

func (TickerCodec) Encode(t *Ticker) ([]string, error) {
	price, updated := "", ""
	if t.Price.Valid {
		price = t.Price.Decimal.String()
	}
	if t.UpdatedAt != nil {
		updated = time.Time(*t.UpdatedAt).UTC().Format(tickerLayout)
	}
	return []string{t.Symbol, t.Description, price, updated}, nil
}

// NewTicker is a shorthand for tests.
func NewTicker(symbol, price string) *Ticker {
	t := &Ticker{Symbol: symbol}
	if price != "" {
		t.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	return t
}
