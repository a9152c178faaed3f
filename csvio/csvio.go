/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package csvio reads and writes delimited rows in a configurable text encoding.
package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultDelimiter separates fields when a Format leaves Delimiter unset.
const DefaultDelimiter = ';'

// MaxLineSize bounds a single physical line.
const MaxLineSize = 16 << 20

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Format describes the physical layout of a file.
type Format struct {
	Delimiter rune
	Encoding  encoding.Encoding
}

// DefaultFormat is semicolon separated UTF-8.
func DefaultFormat() Format {
	return Format{Delimiter: DefaultDelimiter, Encoding: unicode.UTF8}
}

func (f Format) normalized() Format {
	if f.Delimiter == 0 {
		f.Delimiter = DefaultDelimiter
	}
	if f.Encoding == nil {
		f.Encoding = unicode.UTF8
	}
	return f
}

// LookupEncoding resolves an IANA or WHATWG encoding name such as "utf-8" or "windows-1251".
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Reader yields the rows of a delimited file. Every physical line is one
// row; a quoted field never continues onto the next line.
type Reader struct {
	lines *bufio.Scanner
	comma rune
	line  int
}

// NewReader decodes r with the format encoding.
func NewReader(r io.Reader, f Format) *Reader {
	f = f.normalized()
	sc := bufio.NewScanner(transform.NewReader(r, f.Encoding.NewDecoder()))
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineSize)
	return &Reader{lines: sc, comma: f.Delimiter}
}

// Read returns the next row and its 1-based line number. Empty lines are
// skipped. It returns io.EOF after the last row. A malformed row yields a
// *ParseError and the following call continues with the next line.
func (r *Reader) Read() ([]string, int, error) {
	for r.lines.Scan() {
		r.line++
		text := strings.TrimSuffix(r.lines.Text(), "\r")
		if text == "" {
			continue
		}

		cr := csv.NewReader(strings.NewReader(text))
		cr.Comma = r.comma
		cr.FieldsPerRecord = -1
		fields, err := cr.Read()
		if err == io.EOF {
			continue
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, r.line, &ParseError{Line: r.line, Err: pe.Err}
			}
			return nil, r.line, err
		}
		return fields, r.line, nil
	}
	if err := r.lines.Err(); err != nil {
		return nil, r.line, fmt.Errorf("line %d: %w", r.line+1, err)
	}
	return nil, r.line, io.EOF
}

// ParseError reports a row that is not valid delimited text.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed row: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is a recoverable row error.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Writer appends rows to a delimited file.
type Writer struct {
	tw *transform.Writer
	w  *csv.Writer
}

// NewWriter encodes rows to w with the format encoding. Call Close to flush.
func NewWriter(w io.Writer, f Format) *Writer {
	f = f.normalized()
	tw := transform.NewWriter(w, f.Encoding.NewEncoder())
	cw := csv.NewWriter(tw)
	cw.Comma = f.Delimiter
	return &Writer{tw: tw, w: cw}
}

// WriteRow writes one row on a single line. Line breaks inside a field are
// replaced by a space.
func (w *Writer) WriteRow(fields []string) error {
	var out []string
	for i, field := range fields {
		if !strings.ContainsAny(field, "\r\n") {
			continue
		}
		if out == nil {
			out = slices.Clone(fields)
		}
		out[i] = lineBreaks.Replace(field)
	}
	if out == nil {
		out = fields
	}
	return w.w.Write(out)
}

// Close flushes buffered rows and the encoder. It does not close the underlying writer.
func (w *Writer) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return err
	}
	return w.tw.Close()
}
