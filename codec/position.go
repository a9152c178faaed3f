/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"github.com/suparena/csvstore/datastore"
	"github.com/suparena/csvstore/errors"
	"github.com/suparena/csvstore/storagemodels"
)

const positionFields = 13

// PositionCodec maps positions to rows of
// Portfolio;Instrument;DepoName;LimitType;BeginValue;CurrentValue;
// BlockedValue;VariationMargin;Commission;Currency;Description;
// LastChangeTime;LocalTime.
// Both references must resolve for the row to load.
type PositionCodec struct {
	portfolios  datastore.Resolver[string, *storagemodels.Portfolio]
	instruments datastore.Resolver[string, *storagemodels.Instrument]
}

// NewPositionCodec creates a PositionCodec.
func NewPositionCodec(portfolios datastore.Resolver[string, *storagemodels.Portfolio], instruments datastore.Resolver[string, *storagemodels.Instrument]) *PositionCodec {
	return &PositionCodec{portfolios: portfolios, instruments: instruments}
}

func (c *PositionCodec) Key(p *storagemodels.Position) storagemodels.PositionKey {
	return p.Key()
}

func (c *PositionCodec) Validate(p *storagemodels.Position) error {
	if p == nil || p.Portfolio == nil {
		return errors.NewValidationError("Portfolio", "position has no portfolio")
	}
	if p.Instrument == nil {
		return errors.NewValidationError("Instrument", "position has no instrument")
	}
	return nil
}

func (c *PositionCodec) Decode(fields []string) (*storagemodels.Position, error) {
	r, err := newFieldReader("position", fields, positionFields)
	if err != nil {
		return nil, err
	}

	pfName, instID := r.str(), r.str()

	portfolio, ok := c.portfolios.ReadByID(pfName)
	if !ok {
		return nil, errors.NewNotFoundError("Portfolio", pfName)
	}
	instrument, ok := c.instruments.ReadByID(instID)
	if !ok {
		return nil, errors.NewNotFoundError("Instrument", instID)
	}

	p := &storagemodels.Position{
		Portfolio:  portfolio,
		Instrument: instrument,
		DepoName:   r.str(),
		LimitType:  readEnum(r, storagemodels.ParseLimitType),
	}
	p.BeginValue = r.decimal()
	p.CurrentValue = r.decimal()
	p.BlockedValue = r.decimal()
	p.VariationMargin = r.decimal()
	p.Commission = r.decimal()
	p.Currency = readEnum(r, storagemodels.ParseCurrencyType)
	p.Description = r.str()
	p.LastChangeTime = r.dateTime()
	p.LocalTime = r.dateTime()
	if r.err != nil {
		return nil, r.err
	}
	if err := c.Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *PositionCodec) Encode(p *storagemodels.Position) ([]string, error) {
	return []string{
		p.Portfolio.Name,
		p.Instrument.ID,
		p.DepoName,
		formatEnum(p.LimitType),
		formatDecimal(p.BeginValue),
		formatDecimal(p.CurrentValue),
		formatDecimal(p.BlockedValue),
		formatDecimal(p.VariationMargin),
		formatDecimal(p.Commission),
		formatEnum(p.Currency),
		p.Description,
		formatStrfmt(p.LastChangeTime),
		formatStrfmt(p.LocalTime),
	}, nil
}
