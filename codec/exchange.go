/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"github.com/suparena/csvstore/errors"
	"github.com/suparena/csvstore/storagemodels"
)

const exchangeFields = 4

// ExchangeCodec maps exchanges to rows of
// Name;CountryCode;EngName;RusName.
type ExchangeCodec struct{}

// NewExchangeCodec creates an ExchangeCodec.
func NewExchangeCodec() *ExchangeCodec {
	return &ExchangeCodec{}
}

func (c *ExchangeCodec) Key(e *storagemodels.Exchange) string {
	return e.Name
}

func (c *ExchangeCodec) Validate(e *storagemodels.Exchange) error {
	if e == nil || e.Name == "" {
		return errors.NewValidationError("Name", "exchange name is required")
	}
	return nil
}

func (c *ExchangeCodec) Decode(fields []string) (*storagemodels.Exchange, error) {
	r, err := newFieldReader("exchange", fields, exchangeFields)
	if err != nil {
		return nil, err
	}
	e := &storagemodels.Exchange{
		Name:        r.str(),
		CountryCode: readEnum(r, storagemodels.ParseCountryCode),
		EngName:     r.str(),
		RusName:     r.str(),
	}
	if r.err != nil {
		return nil, r.err
	}
	return e, nil
}

func (c *ExchangeCodec) Encode(e *storagemodels.Exchange) ([]string, error) {
	return []string{
		e.Name,
		formatEnum(e.CountryCode),
		e.EngName,
		e.RusName,
	}, nil
}
