/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"github.com/suparena/csvstore/datastore"
	"github.com/suparena/csvstore/errors"
	"github.com/suparena/csvstore/storagemodels"
)

const portfolioFields = 13

// PortfolioCodec maps portfolios to rows of
// Name;Board;Leverage;BeginValue;CurrentValue;BlockedValue;VariationMargin;
// Commission;Currency;State;Description;LastChangeTime;LocalTime.
// An empty board field means the portfolio is not bound to a board.
type PortfolioCodec struct {
	boards datastore.Resolver[string, *storagemodels.Board]
}

// NewPortfolioCodec creates a PortfolioCodec resolving boards against boards.
func NewPortfolioCodec(boards datastore.Resolver[string, *storagemodels.Board]) *PortfolioCodec {
	return &PortfolioCodec{boards: boards}
}

func (c *PortfolioCodec) Key(p *storagemodels.Portfolio) string {
	return p.Name
}

func (c *PortfolioCodec) Validate(p *storagemodels.Portfolio) error {
	if p == nil || p.Name == "" {
		return errors.NewValidationError("Name", "portfolio name is required")
	}
	return nil
}

func (c *PortfolioCodec) board(code string) (*storagemodels.Board, error) {
	if code == "" {
		return nil, nil
	}
	b, ok := c.boards.ReadByID(code)
	if !ok {
		return nil, errors.NewNotFoundError("Board", code)
	}
	return b, nil
}

func (c *PortfolioCodec) Decode(fields []string) (*storagemodels.Portfolio, error) {
	r, err := newFieldReader("portfolio", fields, portfolioFields)
	if err != nil {
		return nil, err
	}

	p := &storagemodels.Portfolio{Name: r.str()}
	if p.Board, err = c.board(r.str()); err != nil {
		return nil, err
	}
	p.Leverage = r.decimal()
	p.BeginValue = r.decimal()
	p.CurrentValue = r.decimal()
	p.BlockedValue = r.decimal()
	p.VariationMargin = r.decimal()
	p.Commission = r.decimal()
	p.Currency = readEnum(r, storagemodels.ParseCurrencyType)
	p.State = readEnum(r, storagemodels.ParsePortfolioState)
	p.Description = r.str()
	p.LastChangeTime = r.dateTime()
	p.LocalTime = r.dateTime()
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

func (c *PortfolioCodec) Encode(p *storagemodels.Portfolio) ([]string, error) {
	var board string
	if p.Board != nil {
		board = p.Board.Code
	}
	return []string{
		p.Name,
		board,
		formatDecimal(p.Leverage),
		formatDecimal(p.BeginValue),
		formatDecimal(p.CurrentValue),
		formatDecimal(p.BlockedValue),
		formatDecimal(p.VariationMargin),
		formatDecimal(p.Commission),
		formatEnum(p.Currency),
		formatEnum(p.State),
		p.Description,
		formatStrfmt(p.LastChangeTime),
		formatStrfmt(p.LocalTime),
	}, nil
}
