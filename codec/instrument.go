/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"fmt"

	"github.com/suparena/csvstore/datastore"
	"github.com/suparena/csvstore/errors"
	"github.com/suparena/csvstore/storagemodels"
)

const instrumentFields = 25

// InstrumentCodec maps instruments to rows of
// Id;Name;Code;Class;ShortName;Board;UnderlyingId;PriceStep;VolumeStep;
// Multiplier;Decimals;Type;ExpiryDate;SettlementDate;Strike;OptionType;
// Currency;Sedol;Cusip;Isin;Ric;Bloomberg;IQFeed;InteractiveBrokers;Plaza.
type InstrumentCodec struct {
	boards datastore.Resolver[string, *storagemodels.Board]
}

// NewInstrumentCodec creates an InstrumentCodec resolving boards against boards.
func NewInstrumentCodec(boards datastore.Resolver[string, *storagemodels.Board]) *InstrumentCodec {
	return &InstrumentCodec{boards: boards}
}

func (c *InstrumentCodec) Key(i *storagemodels.Instrument) string {
	return i.ID
}

func (c *InstrumentCodec) Validate(i *storagemodels.Instrument) error {
	if i == nil || i.ID == "" {
		return errors.NewValidationError("ID", "instrument id is required")
	}
	if i.Board == nil {
		return errors.NewValidationError("Board", fmt.Sprintf("instrument %q has no board", i.ID))
	}
	return nil
}

func (c *InstrumentCodec) board(code string) (*storagemodels.Board, error) {
	if code == "" {
		return nil, errors.NewValidationError("Board", "board code is empty")
	}
	b, ok := c.boards.ReadByID(code)
	if !ok {
		return nil, errors.NewNotFoundError("Board", code)
	}
	return b, nil
}

func (c *InstrumentCodec) Decode(fields []string) (*storagemodels.Instrument, error) {
	r, err := newFieldReader("instrument", fields, instrumentFields)
	if err != nil {
		return nil, err
	}

	i := &storagemodels.Instrument{
		ID:        r.str(),
		Name:      r.str(),
		Code:      r.str(),
		Class:     r.str(),
		ShortName: r.str(),
	}
	if i.Board, err = c.board(r.str()); err != nil {
		return nil, err
	}
	i.UnderlyingID = r.str()
	i.PriceStep = r.decimal()
	i.VolumeStep = r.decimal()
	i.Multiplier = r.decimal()
	i.Decimals = r.integer()
	i.Type = readEnum(r, storagemodels.ParseInstrumentType)
	i.ExpiryDate = r.nullDateTime()
	i.SettlementDate = r.nullDateTime()
	i.Strike = r.decimal()
	i.OptionType = readEnum(r, storagemodels.ParseOptionType)
	i.Currency = readEnum(r, storagemodels.ParseCurrencyType)
	i.ExternalID = storagemodels.ExternalID{
		Sedol:              r.str(),
		Cusip:              r.str(),
		Isin:               r.str(),
		Ric:                r.str(),
		Bloomberg:          r.str(),
		IQFeed:             r.str(),
		InteractiveBrokers: r.integer(),
		Plaza:              r.str(),
	}
	if r.err != nil {
		return nil, r.err
	}
	return i, nil
}

func (c *InstrumentCodec) Encode(i *storagemodels.Instrument) ([]string, error) {
	return []string{
		i.ID,
		i.Name,
		i.Code,
		i.Class,
		i.ShortName,
		i.Board.Code,
		i.UnderlyingID,
		formatDecimal(i.PriceStep),
		formatDecimal(i.VolumeStep),
		formatDecimal(i.Multiplier),
		formatInt(i.Decimals),
		formatEnum(i.Type),
		formatNullStrfmt(i.ExpiryDate),
		formatNullStrfmt(i.SettlementDate),
		formatDecimal(i.Strike),
		formatEnum(i.OptionType),
		formatEnum(i.Currency),
		i.ExternalID.Sedol,
		i.ExternalID.Cusip,
		i.ExternalID.Isin,
		i.ExternalID.Ric,
		i.ExternalID.Bloomberg,
		i.ExternalID.IQFeed,
		formatInt(i.ExternalID.InteractiveBrokers),
		i.ExternalID.Plaza,
	}, nil
}
