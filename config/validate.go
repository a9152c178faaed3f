/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/suparena/csvstore/csvio"
	"github.com/suparena/csvstore/logging"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Path == "" {
		return errors.New("path is required")
	}

	if _, err := csvio.LookupEncoding(c.Encoding); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	switch d, _ := utf8.DecodeRuneInString(c.Delimiter); d {
	case '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("delimiter %q is not allowed", c.Delimiter)
	}

	if c.Flush.Interval < 0 {
		return fmt.Errorf("flush.interval must be >= 0, got %s", c.Flush.Interval)
	}
	if c.Flush.MinAge < 0 {
		return fmt.Errorf("flush.min_age must be >= 0, got %s", c.Flush.MinAge)
	}

	if _, err := logging.ParseVerbosity(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
