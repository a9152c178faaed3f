/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package logging builds the logr loggers used across csvstore.
package logging

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	uberzap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logger.V.
const (
	DEFAULT = 2
	VERBOSE = 3
	DEBUG   = 4
	TRACE   = 5
)

// Options configures NewLogger.
type Options struct {
	// Development selects the human readable console encoder.
	Development bool
	// Verbosity enables V(n) logs up to n. Zero keeps DEFAULT.
	Verbosity int
}

// NewLogger creates a zap backed logr.Logger.
func NewLogger(opts Options) (logr.Logger, error) {
	verbosity := opts.Verbosity
	if verbosity == 0 {
		verbosity = DEFAULT
	}

	var cfg uberzap.Config
	if opts.Development {
		cfg = uberzap.NewDevelopmentConfig()
	} else {
		cfg = uberzap.NewProductionConfig()
	}
	// logr V(n) maps to zap level -n
	cfg.Level = uberzap.NewAtomicLevelAt(zapcore.Level(-1 * verbosity))

	z, err := cfg.Build(uberzap.AddCaller())
	if err != nil {
		return logr.Discard(), fmt.Errorf("build zap logger: %w", err)
	}
	return zapr.NewLogger(z), nil
}

// ParseVerbosity maps a level name to a verbosity.
func ParseVerbosity(level string) (int, error) {
	switch level {
	case "", "info", "default":
		return DEFAULT, nil
	case "verbose":
		return VERBOSE, nil
	case "debug":
		return DEBUG, nil
	case "trace":
		return TRACE, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

// NewTestLogger creates a development logger that logs everything.
func NewTestLogger() logr.Logger {
	logger, err := NewLogger(Options{Development: true, Verbosity: TRACE})
	if err != nil {
		return logr.Discard()
	}
	return logger
}
