/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package csvstore

import (
	"go.uber.org/multierr"

	"github.com/suparena/csvstore/datastore/csvfile"
	"github.com/suparena/csvstore/storagemodels"
)

// InstrumentCriteria selects instruments. Empty fields match anything; an
// empty criteria matches every instrument.
type InstrumentCriteria struct {
	ID        string
	Code      string
	BoardCode string
	Type      *storagemodels.InstrumentType
	Currency  *storagemodels.CurrencyType
}

// IsEmpty reports whether c matches every instrument.
func (c InstrumentCriteria) IsEmpty() bool {
	return c.ID == "" && c.Code == "" && c.BoardCode == "" && c.Type == nil && c.Currency == nil
}

// Match reports whether i satisfies every set field of c.
func (c InstrumentCriteria) Match(i *storagemodels.Instrument) bool {
	if c.ID != "" && i.ID != c.ID {
		return false
	}
	if c.Code != "" && i.Code != c.Code {
		return false
	}
	if c.BoardCode != "" && (i.Board == nil || i.Board.Code != c.BoardCode) {
		return false
	}
	if c.Type != nil && (i.Type == nil || *i.Type != *c.Type) {
		return false
	}
	if c.Currency != nil && (i.Currency == nil || *i.Currency != *c.Currency) {
		return false
	}
	return true
}

// InstrumentList is the instrument list with lookup helpers.
type InstrumentList struct {
	*csvfile.List[string, *storagemodels.Instrument]
}

// Lookup returns the instruments matching c. A criteria with an ID is an index lookup.
func (l *InstrumentList) Lookup(c InstrumentCriteria) []*storagemodels.Instrument {
	if c.IsEmpty() {
		return l.Items()
	}
	if c.ID != "" {
		i, ok := l.ReadByID(c.ID)
		if !ok || !c.Match(i) {
			return nil
		}
		return []*storagemodels.Instrument{i}
	}

	var out []*storagemodels.Instrument
	for _, i := range l.Items() {
		if c.Match(i) {
			out = append(out, i)
		}
	}
	return out
}

// DeleteBy removes every instrument matching c and returns how many were removed.
func (l *InstrumentList) DeleteBy(c InstrumentCriteria) (int, error) {
	var errs error
	removed := 0
	for _, i := range l.Lookup(c) {
		if err := l.Remove(i); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		removed++
	}
	return removed, errs
}

// IDs returns the ids of every instrument in insertion order.
func (l *InstrumentList) IDs() []string {
	items := l.Items()
	ids := make([]string, len(items))
	for n, i := range items {
		ids[n] = i.ID
	}
	return ids
}

// Underlying resolves the underlying instrument of i.
func (l *InstrumentList) Underlying(i *storagemodels.Instrument) (*storagemodels.Instrument, bool) {
	if i == nil || i.UnderlyingID == "" {
		return nil, false
	}
	return l.ReadByID(i.UnderlyingID)
}

// PositionList is the position list keyed by portfolio and instrument.
type PositionList struct {
	*csvfile.List[storagemodels.PositionKey, *storagemodels.Position]
}

// ReadByInstrumentAndPortfolio returns the position of instrument in portfolio.
func (l *PositionList) ReadByInstrumentAndPortfolio(instrument *storagemodels.Instrument, portfolio *storagemodels.Portfolio) (*storagemodels.Position, bool) {
	if instrument == nil || portfolio == nil {
		return nil, false
	}
	return l.ReadByID(storagemodels.PositionKey{Portfolio: portfolio.Name, Instrument: instrument.ID})
}

// ByPortfolio returns the positions held in the named portfolio.
func (l *PositionList) ByPortfolio(name string) []*storagemodels.Position {
	var out []*storagemodels.Position
	for _, p := range l.Items() {
		if p.Portfolio != nil && p.Portfolio.Name == name {
			out = append(out, p)
		}
	}
	return out
}
