/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/shopspring/decimal"

	"github.com/suparena/csvstore/errors"
)

// DateTimeLayout is the fourteen digit yyyyMMddHHmmss timestamp format. Values are UTC.
const DateTimeLayout = "20060102150405"

// FormatDateTime renders t in UTC. The zero time renders as an empty field.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateTimeLayout)
}

// ParseDateTime parses a UTC timestamp. An empty field is the zero time.
func ParseDateTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t, nil
}

// FormatTimeOfDay renders an offset from midnight as HH:mm:ss.
func FormatTimeOfDay(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// ParseTimeOfDay parses HH:mm:ss within one day. An empty field is midnight.
func ParseTimeOfDay(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	var hms [3]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 || (i == 0 && n > 23) || (i > 0 && n > 59) {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		hms[i] = n
	}
	return time.Duration(hms[0])*time.Hour + time.Duration(hms[1])*time.Minute + time.Duration(hms[2])*time.Second, nil
}

func formatStrfmt(t strfmt.DateTime) string {
	return FormatDateTime(time.Time(t))
}

func formatNullStrfmt(t *strfmt.DateTime) string {
	if t == nil {
		return ""
	}
	return FormatDateTime(time.Time(*t))
}

func formatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatEnum[E ~string](e *E) string {
	if e == nil {
		return ""
	}
	return string(*e)
}

// fieldReader consumes a row left to right. The first failure sticks and
// later reads return zero values.
type fieldReader struct {
	fields []string
	pos    int
	err    error
}

func newFieldReader(entity string, fields []string, want int) (*fieldReader, error) {
	if len(fields) != want {
		return nil, errors.NewValidationError("", fmt.Sprintf("%s row: expected %d fields, got %d", entity, want, len(fields)))
	}
	return &fieldReader{fields: fields}, nil
}

func (r *fieldReader) next() string {
	s := r.fields[r.pos]
	r.pos++
	return s
}

func (r *fieldReader) fail(err error) {
	if r.err == nil {
		r.err = fmt.Errorf("field %d: %w", r.pos, err)
	}
}

func (r *fieldReader) str() string {
	return r.next()
}

func (r *fieldReader) decimal() decimal.NullDecimal {
	s := r.next()
	if s == "" || r.err != nil {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		r.fail(fmt.Errorf("invalid decimal %q", s))
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func (r *fieldReader) integer() *int {
	s := r.next()
	if s == "" || r.err != nil {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.fail(fmt.Errorf("invalid integer %q", s))
		return nil
	}
	return &n
}

func (r *fieldReader) dateTime() strfmt.DateTime {
	s := r.next()
	if r.err != nil {
		return strfmt.DateTime{}
	}
	t, err := ParseDateTime(s)
	if err != nil {
		r.fail(err)
		return strfmt.DateTime{}
	}
	return strfmt.DateTime(t)
}

func (r *fieldReader) nullDateTime() *strfmt.DateTime {
	s := r.next()
	if s == "" || r.err != nil {
		return nil
	}
	t, err := ParseDateTime(s)
	if err != nil {
		r.fail(err)
		return nil
	}
	dt := strfmt.DateTime(t)
	return &dt
}

func (r *fieldReader) timeOfDay() time.Duration {
	s := r.next()
	if r.err != nil {
		return 0
	}
	d, err := ParseTimeOfDay(s)
	if err != nil {
		r.fail(err)
	}
	return d
}

// readEnum reads a nullable enumeration field with parse.
func readEnum[E ~string](r *fieldReader, parse func(string) (E, error)) *E {
	s := r.next()
	if s == "" || r.err != nil {
		return nil
	}
	e, err := parse(s)
	if err != nil {
		r.fail(err)
		return nil
	}
	return &e
}
