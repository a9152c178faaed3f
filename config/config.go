/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads the csvstore settings from YAML with environment
// variable expansion.
package config

import "time"

// Config is the top-level configuration.
type Config struct {
	// Path is the registry directory.
	Path      string      `yaml:"path"`
	Encoding  string      `yaml:"encoding"`
	Delimiter string      `yaml:"delimiter"`
	Flush     FlushConfig `yaml:"flush"`
	Log       LogConfig   `yaml:"log"`
}

// FlushConfig holds write-back settings.
type FlushConfig struct {
	Interval time.Duration `yaml:"interval"`
	MinAge   time.Duration `yaml:"min_age"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DelimiterRune returns the configured delimiter. Call after Validate.
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return DefaultDelimiter
}
