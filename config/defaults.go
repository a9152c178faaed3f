/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultEncoding      = "utf-8"
	DefaultDelimiter     = ';'
	DefaultFlushInterval = 1 * time.Second
	DefaultLogLevel      = "info"
)

func (c *Config) applyDefaults() {
	if c.Encoding == "" {
		c.Encoding = DefaultEncoding
	}
	if c.Delimiter == "" {
		c.Delimiter = string(DefaultDelimiter)
	}
	if c.Flush.Interval == 0 {
		c.Flush.Interval = DefaultFlushInterval
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
