/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"sync"
	"time"

	"github.com/suparena/csvstore/storagemodels"
)

// EntityList is an in-memory, key-indexed collection of V backed by durable storage.
type EntityList[K comparable, V any] interface {
	Add(v V) (V, error)

	Update(v V) (V, error)

	Remove(v V) error

	ReadByID(key K) (V, bool)

	Items() []V

	Count() int

	Watch(fn func(storagemodels.Change[V])) (cancel func())
}

// Codec maps a record to an ordered row of text fields and back.
type Codec[K comparable, V any] interface {
	// Key derives the unique identifier of v.
	Key(v V) K
	// Decode builds a record from a row, resolving references against sibling lists.
	Decode(fields []string) (V, error)
	// Encode is the inverse of Decode.
	Encode(v V) ([]string, error)
}

// Validator is implemented by codecs that reject records before they are indexed.
type Validator[V any] interface {
	Validate(v V) error
}

// Resolver looks up a record of a sibling list by key.
type Resolver[K comparable, V any] interface {
	ReadByID(key K) (V, bool)
}

// ErrorSink receives the row failures of a bulk load.
type ErrorSink interface {
	Add(err error)
}

// Loadable is a list that can be bulk-loaded from its backing store.
type Loadable interface {
	Name() string
	// ReadItems loads every row, sending per-row failures to sink. The
	// returned error means the store itself could not be read.
	ReadItems(sink ErrorSink) error
}

// Flushable is a list that buffers writes.
type Flushable interface {
	Name() string
	// Flush persists pending mutations and reports whether none remain.
	Flush() (idle bool, err error)
	// FlushNow persists pending mutations regardless of the flush policy.
	FlushNow() error
}

// Trigger is notified after every accepted mutation.
type Trigger interface {
	Request()
}

// TriggerFunc is a function adapter for Trigger.
type TriggerFunc func()

func (f TriggerFunc) Request() {
	f()
}

// DefaultFlushInterval is the scheduler period when none is configured.
const DefaultFlushInterval = time.Second

// FlushPolicy controls when buffered mutations are written.
type FlushPolicy struct {
	// Interval is the period of the flush scheduler.
	Interval time.Duration
	// MinAge holds a list's writes until its oldest pending mutation is at least this old.
	MinAge time.Duration
}

// DefaultFlushPolicy flushes every second without holding writes back.
func DefaultFlushPolicy() FlushPolicy {
	return FlushPolicy{Interval: DefaultFlushInterval}
}

// Collector is a thread-safe ErrorSink that keeps errors in arrival order.
type Collector struct {
	mu   sync.Mutex
	errs []error
}

// Add records err. Nil errors are ignored.
func (c *Collector) Add(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

// Errors returns a copy of the collected errors.
func (c *Collector) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]error, len(c.errs))
	copy(out, c.errs)
	return out
}

// Len returns the number of collected errors.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errs)
}
