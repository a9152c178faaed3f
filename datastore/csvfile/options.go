/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package csvfile

import (
	"time"

	"github.com/go-logr/logr"

	"github.com/suparena/csvstore/csvio"
	"github.com/suparena/csvstore/datastore"
)

// Options configures a List
type Options struct {
	format  csvio.Format
	logger  logr.Logger
	policy  datastore.FlushPolicy
	trigger datastore.Trigger
	now     func() time.Time
}

// Option is a functional option for configuring a List
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		format: csvio.DefaultFormat(),
		logger: logr.Discard(),
		policy: datastore.DefaultFlushPolicy(),
		now:    time.Now,
	}
}

// WithFormat sets the delimiter and text encoding of the backing file
func WithFormat(f csvio.Format) Option {
	return func(opts *Options) {
		opts.format = f
	}
}

// WithLogger sets the logger
func WithLogger(logger logr.Logger) Option {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// WithFlushPolicy sets the initial flush policy
func WithFlushPolicy(p datastore.FlushPolicy) Option {
	return func(opts *Options) {
		opts.policy = p
	}
}

// WithTrigger sets the trigger notified after every mutation
func WithTrigger(t datastore.Trigger) Option {
	return func(opts *Options) {
		opts.trigger = t
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(opts *Options) {
		opts.now = now
	}
}
