/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/suparena/csvstore/registry"
	"github.com/suparena/csvstore/storagemodels"
)

// Tags of the nested values stored in rows.
const (
	TagWorkingTimePeriods registry.Tag = "working-time-periods"
	TagDates              registry.Tag = "dates"
)

type periodsDoc struct {
	XMLName xml.Name    `xml:"periods"`
	Periods []periodDoc `xml:"period"`
}

type periodDoc struct {
	Till   string     `xml:"till,attr"`
	Ranges []rangeDoc `xml:"range"`
}

type rangeDoc struct {
	Min string `xml:"min,attr"`
	Max string `xml:"max,attr"`
}

type datesDoc struct {
	XMLName xml.Name `xml:"dates"`
	Dates   []string `xml:"date"`
}

func periodsToDoc(periods []storagemodels.WorkingTimePeriod) (periodsDoc, error) {
	doc := periodsDoc{Periods: make([]periodDoc, 0, len(periods))}
	for _, p := range periods {
		pd := periodDoc{Till: FormatDateTime(p.Till)}
		for _, r := range p.Times {
			pd.Ranges = append(pd.Ranges, rangeDoc{Min: FormatTimeOfDay(r.Min), Max: FormatTimeOfDay(r.Max)})
		}
		doc.Periods = append(doc.Periods, pd)
	}
	return doc, nil
}

func periodsFromDoc(doc periodsDoc) ([]storagemodels.WorkingTimePeriod, error) {
	var periods []storagemodels.WorkingTimePeriod
	for i, pd := range doc.Periods {
		till, err := ParseDateTime(pd.Till)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", i, err)
		}
		p := storagemodels.WorkingTimePeriod{Till: till}
		for _, rd := range pd.Ranges {
			lo, err := ParseTimeOfDay(rd.Min)
			if err != nil {
				return nil, fmt.Errorf("period %d: %w", i, err)
			}
			hi, err := ParseTimeOfDay(rd.Max)
			if err != nil {
				return nil, fmt.Errorf("period %d: %w", i, err)
			}
			p.Times = append(p.Times, storagemodels.TimeRange{Min: lo, Max: hi})
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func datesToDoc(dates []time.Time) (datesDoc, error) {
	doc := datesDoc{Dates: make([]string, 0, len(dates))}
	for _, d := range dates {
		doc.Dates = append(doc.Dates, FormatDateTime(d))
	}
	return doc, nil
}

func datesFromDoc(doc datesDoc) ([]time.Time, error) {
	var dates []time.Time
	for _, s := range doc.Dates {
		d, err := ParseDateTime(s)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// NewNestedRegistry registers the codecs of every nested value stored in rows.
func NewNestedRegistry() *registry.Registry {
	r := registry.New()
	// tags are distinct constants, registration cannot collide
	_ = registry.Register(r, registry.NewValueCodec(TagWorkingTimePeriods, periodsToDoc, periodsFromDoc))
	_ = registry.Register(r, registry.NewValueCodec(TagDates, datesToDoc, datesFromDoc))
	return r
}

// nestedCodecs are the typed codecs resolved once from a registry.
type nestedCodecs struct {
	periods *registry.ValueCodec[[]storagemodels.WorkingTimePeriod]
	dates   *registry.ValueCodec[[]time.Time]
}

func lookupNested(r *registry.Registry) (nestedCodecs, error) {
	periods, err := registry.Lookup[[]storagemodels.WorkingTimePeriod](r, TagWorkingTimePeriods)
	if err != nil {
		return nestedCodecs{}, err
	}
	dates, err := registry.Lookup[[]time.Time](r, TagDates)
	if err != nil {
		return nestedCodecs{}, err
	}
	return nestedCodecs{periods: periods, dates: dates}, nil
}

// encodeNested embeds a collection as a single field. Empty collections are an empty field.
func encodeNested[T any](c *registry.ValueCodec[[]T], items []T) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	return c.Encode(items)
}

func decodeNested[T any](c *registry.ValueCodec[[]T], field string) ([]T, error) {
	if field == "" {
		return nil, nil
	}
	return c.Decode(field)
}
