/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"fmt"
	"time"
	// zone ids must resolve on hosts without a zoneinfo database
	_ "time/tzdata"

	"github.com/suparena/csvstore/datastore"
	"github.com/suparena/csvstore/errors"
	"github.com/suparena/csvstore/registry"
	"github.com/suparena/csvstore/storagemodels"
)

const boardFields = 7

// BoardCodec maps boards to rows of
// Code;Exchange;ExpiryTime;TimeZone;Periods;SpecialWorkingDays;SpecialHolidays.
// The exchange is resolved by name against an already loaded exchange list.
type BoardCodec struct {
	exchanges datastore.Resolver[string, *storagemodels.Exchange]
	nested    nestedCodecs
}

// NewBoardCodec creates a BoardCodec taking its nested value codecs from nested.
func NewBoardCodec(exchanges datastore.Resolver[string, *storagemodels.Exchange], nested *registry.Registry) (*BoardCodec, error) {
	n, err := lookupNested(nested)
	if err != nil {
		return nil, err
	}
	return &BoardCodec{exchanges: exchanges, nested: n}, nil
}

func (c *BoardCodec) Key(b *storagemodels.Board) string {
	return b.Code
}

func (c *BoardCodec) Validate(b *storagemodels.Board) error {
	if b == nil || b.Code == "" {
		return errors.NewValidationError("Code", "board code is required")
	}
	if b.Exchange == nil {
		return errors.NewValidationError("Exchange", fmt.Sprintf("board %q has no exchange", b.Code))
	}
	if b.ExpiryTime < 0 || b.ExpiryTime >= 24*time.Hour {
		return errors.NewValidationError("ExpiryTime", fmt.Sprintf("board %q expiry time %v is outside 00:00:00-23:59:59", b.Code, b.ExpiryTime))
	}
	if _, err := b.Location(); err != nil {
		return errors.NewValidationError("TimeZone", err.Error())
	}
	return nil
}

func (c *BoardCodec) exchange(name string) (*storagemodels.Exchange, error) {
	if name == "" {
		return nil, errors.NewValidationError("Exchange", "exchange name is empty")
	}
	e, ok := c.exchanges.ReadByID(name)
	if !ok {
		return nil, errors.NewNotFoundError("Exchange", name)
	}
	return e, nil
}

func (c *BoardCodec) Decode(fields []string) (*storagemodels.Board, error) {
	r, err := newFieldReader("board", fields, boardFields)
	if err != nil {
		return nil, err
	}

	b := &storagemodels.Board{Code: r.str()}
	if b.Exchange, err = c.exchange(r.str()); err != nil {
		return nil, err
	}
	b.ExpiryTime = r.timeOfDay()
	b.TimeZone = r.str()
	if r.err != nil {
		return nil, r.err
	}
	if _, err := time.LoadLocation(b.TimeZone); err != nil {
		return nil, fmt.Errorf("board %q: %w", b.Code, err)
	}

	if b.WorkingTime.Periods, err = decodeNested(c.nested.periods, r.str()); err != nil {
		return nil, err
	}
	if b.WorkingTime.SpecialWorkingDays, err = decodeNested(c.nested.dates, r.str()); err != nil {
		return nil, err
	}
	if b.WorkingTime.SpecialHolidays, err = decodeNested(c.nested.dates, r.str()); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *BoardCodec) Encode(b *storagemodels.Board) ([]string, error) {
	periods, err := encodeNested(c.nested.periods, b.WorkingTime.Periods)
	if err != nil {
		return nil, err
	}
	workingDays, err := encodeNested(c.nested.dates, b.WorkingTime.SpecialWorkingDays)
	if err != nil {
		return nil, err
	}
	holidays, err := encodeNested(c.nested.dates, b.WorkingTime.SpecialHolidays)
	if err != nil {
		return nil, err
	}

	return []string{
		b.Code,
		b.Exchange.Name,
		FormatTimeOfDay(b.ExpiryTime),
		b.TimeZone,
		periods,
		workingDays,
		holidays,
	}, nil
}
