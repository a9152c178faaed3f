/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/shopspring/decimal"
)

// Exchange is a trading venue operator. Keyed by Name.
type Exchange struct {
	Name        string
	CountryCode *CountryCode
	EngName     string
	RusName     string
}

// Board is a trading board of an exchange. Keyed by Code.
type Board struct {
	Code     string
	Exchange *Exchange
	// ExpiryTime is the time of day at which derivatives of the board expire.
	ExpiryTime time.Duration
	// TimeZone is an IANA zone id, e.g. "Europe/Moscow".
	TimeZone    string
	WorkingTime WorkingTime
}

// Location resolves the board time zone. An empty zone is UTC.
func (b *Board) Location() (*time.Location, error) {
	if b.TimeZone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(b.TimeZone)
}

// WorkingTime is the trading schedule of a board.
type WorkingTime struct {
	Periods            []WorkingTimePeriod
	SpecialWorkingDays []time.Time
	SpecialHolidays    []time.Time
}

// WorkingTimePeriod holds the intraday sessions valid until Till.
type WorkingTimePeriod struct {
	Till  time.Time
	Times []TimeRange
}

// TimeRange is an intraday session, both ends as offsets from midnight.
type TimeRange struct {
	Min time.Duration
	Max time.Duration
}

// ExternalID carries the instrument identifiers of third-party systems.
type ExternalID struct {
	Sedol              string
	Cusip              string
	Isin               string
	Ric                string
	Bloomberg          string
	IQFeed             string
	InteractiveBrokers *int
	Plaza              string
}

// Instrument is a tradeable security. Keyed by ID.
type Instrument struct {
	ID        string
	Name      string
	Code      string
	Class     string
	ShortName string
	Board     *Board

	// UnderlyingID references another instrument by id. It is not resolved on load.
	UnderlyingID string

	PriceStep  decimal.NullDecimal
	VolumeStep decimal.NullDecimal
	Multiplier decimal.NullDecimal
	Decimals   *int
	Type       *InstrumentType

	ExpiryDate     *strfmt.DateTime
	SettlementDate *strfmt.DateTime

	Strike     decimal.NullDecimal
	OptionType *OptionType
	Currency   *CurrencyType
	ExternalID ExternalID
}

// Portfolio is a trading account. Keyed by Name.
type Portfolio struct {
	Name string
	// Board is optional.
	Board *Board

	Leverage        decimal.NullDecimal
	BeginValue      decimal.NullDecimal
	CurrentValue    decimal.NullDecimal
	BlockedValue    decimal.NullDecimal
	VariationMargin decimal.NullDecimal
	Commission      decimal.NullDecimal

	Currency    *CurrencyType
	State       *PortfolioState
	Description string

	LastChangeTime strfmt.DateTime
	LocalTime      strfmt.DateTime
}

// Position is the holding of an instrument in a portfolio.
// Keyed by the (portfolio name, instrument id) pair.
type Position struct {
	Portfolio  *Portfolio
	Instrument *Instrument

	DepoName  string
	LimitType *LimitType

	BeginValue      decimal.NullDecimal
	CurrentValue    decimal.NullDecimal
	BlockedValue    decimal.NullDecimal
	VariationMargin decimal.NullDecimal
	Commission      decimal.NullDecimal

	Currency    *CurrencyType
	Description string

	LastChangeTime strfmt.DateTime
	LocalTime      strfmt.DateTime
}

// PositionKey is the composite key of a Position.
type PositionKey struct {
	Portfolio  string
	Instrument string
}

func (k PositionKey) String() string {
	return fmt.Sprintf("%s/%s", k.Portfolio, k.Instrument)
}

// Key returns the composite key of the position. Missing references yield empty parts.
func (p *Position) Key() PositionKey {
	var k PositionKey
	if p.Portfolio != nil {
		k.Portfolio = p.Portfolio.Name
	}
	if p.Instrument != nil {
		k.Instrument = p.Instrument.ID
	}
	return k
}
