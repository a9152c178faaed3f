/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package csvstore

import (
	"github.com/go-logr/logr"

	"github.com/suparena/csvstore/datastore"
	"github.com/suparena/csvstore/scheduler"
)

// Options configures a Registry
type Options struct {
	encoding      string
	delimiter     rune
	logger        logr.Logger
	policy        datastore.FlushPolicy
	tickerFactory scheduler.TickerFactory
}

// Option is a functional option for configuring a Registry
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		encoding:  "utf-8",
		delimiter: ';',
		logger:    logr.Discard(),
		policy:    datastore.DefaultFlushPolicy(),
	}
}

// WithEncoding sets the text encoding of every file by its IANA or WHATWG name
func WithEncoding(name string) Option {
	return func(opts *Options) {
		opts.encoding = name
	}
}

// WithDelimiter sets the field delimiter
func WithDelimiter(d rune) Option {
	return func(opts *Options) {
		opts.delimiter = d
	}
}

// WithLogger sets the logger
func WithLogger(logger logr.Logger) Option {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// WithFlushPolicy sets the initial flush interval and delay
func WithFlushPolicy(p datastore.FlushPolicy) Option {
	return func(opts *Options) {
		opts.policy = p
	}
}

// WithTickerFactory replaces the scheduler time source, for tests
func WithTickerFactory(f scheduler.TickerFactory) Option {
	return func(opts *Options) {
		opts.tickerFactory = f
	}
}
