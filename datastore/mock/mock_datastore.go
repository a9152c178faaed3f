/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of the list interfaces for testing
package mock

import (
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/csvstore/datastore"
	"github.com/suparena/csvstore/errors"
	"github.com/suparena/csvstore/storagemodels"
)

// List is a mock implementation of datastore.EntityList[K, V] that also
// satisfies datastore.Loadable and datastore.Flushable. Nothing is persisted.
type List[K comparable, V any] struct {
	mu         sync.RWMutex
	name       string
	data       map[K]V
	order      map[K]int
	seq        int
	pending    int
	watchers   map[int]func(storagemodels.Change[V])
	watchSeq   int
	keyFunc    func(V) K
	seed       []V
	loadErrors []error
	loadError  error
	flushError error
	flushes    int
}

// New creates a new mock List keyed by keyFunc
func New[K comparable, V any](name string, keyFunc func(V) K) *List[K, V] {
	return &List[K, V]{
		name:     name,
		data:     make(map[K]V),
		order:    make(map[K]int),
		watchers: make(map[int]func(storagemodels.Change[V])),
		keyFunc:  keyFunc,
	}
}

// WithSeed sets the records returned by ReadItems
func (m *List[K, V]) WithSeed(items ...V) *List[K, V] {
	m.seed = items
	return m
}

// WithRowErrors makes ReadItems report errs to the sink
func (m *List[K, V]) WithRowErrors(errs ...error) *List[K, V] {
	m.loadErrors = errs
	return m
}

// WithLoadError makes ReadItems fail
func (m *List[K, V]) WithLoadError(err error) *List[K, V] {
	m.loadError = err
	return m
}

// WithFlushError makes Flush and FlushNow fail while pending operations remain
func (m *List[K, V]) WithFlushError(err error) *List[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushError = err
	return m
}

// Name returns the list name
func (m *List[K, V]) Name() string {
	return m.name
}

// Add stores an entity
func (m *List[K, V]) Add(v V) (V, error) {
	m.mu.Lock()
	key := m.keyFunc(v)
	if _, exists := m.data[key]; exists {
		m.mu.Unlock()
		var zero V
		return zero, errors.NewDuplicateKeyError(m.name, fmt.Sprint(key))
	}
	m.putLocked(key, v)
	m.pending++
	m.mu.Unlock()

	m.notify(storagemodels.ChangeAdded, v)
	return v, nil
}

// Update replaces an entity
func (m *List[K, V]) Update(v V) (V, error) {
	m.mu.Lock()
	key := m.keyFunc(v)
	if _, exists := m.data[key]; !exists {
		m.mu.Unlock()
		var zero V
		return zero, errors.NewNotFoundError(m.name, fmt.Sprint(key))
	}
	m.data[key] = v
	m.pending++
	m.mu.Unlock()

	m.notify(storagemodels.ChangeUpdated, v)
	return v, nil
}

// Remove deletes an entity
func (m *List[K, V]) Remove(v V) error {
	m.mu.Lock()
	key := m.keyFunc(v)
	stored, exists := m.data[key]
	if !exists {
		m.mu.Unlock()
		return errors.NewNotFoundError(m.name, fmt.Sprint(key))
	}
	delete(m.data, key)
	delete(m.order, key)
	m.pending++
	m.mu.Unlock()

	m.notify(storagemodels.ChangeRemoved, stored)
	return nil
}

// ReadByID retrieves an entity by key
func (m *List[K, V]) ReadByID(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// Items returns the entities in insertion order
func (m *List[K, V]) Items() []V {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]K, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return m.order[keys[i]] < m.order[keys[j]] })

	out := make([]V, len(keys))
	for i, k := range keys {
		out[i] = m.data[k]
	}
	return out
}

// Count returns the number of stored entities
func (m *List[K, V]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Watch registers a change observer
func (m *List[K, V]) Watch(fn func(storagemodels.Change[V])) func() {
	m.mu.Lock()
	m.watchSeq++
	id := m.watchSeq
	m.watchers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
	}
}

// ReadItems loads the seed records and reports the configured row errors
func (m *List[K, V]) ReadItems(sink datastore.ErrorSink) error {
	if m.loadError != nil {
		return m.loadError
	}
	for _, err := range m.loadErrors {
		sink.Add(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.seed {
		key := m.keyFunc(v)
		if _, exists := m.data[key]; exists {
			sink.Add(errors.NewDuplicateKeyError(m.name, fmt.Sprint(key)))
			continue
		}
		m.putLocked(key, v)
	}
	return nil
}

// Flush drops pending operations unless a flush error is configured
func (m *List[K, V]) Flush() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.flushes++
	if m.pending == 0 {
		return true, nil
	}
	if m.flushError != nil {
		return false, m.flushError
	}
	m.pending = 0
	return true, nil
}

// FlushNow behaves like Flush
func (m *List[K, V]) FlushNow() error {
	_, err := m.Flush()
	return err
}

// Helper methods for testing

// Pending returns the number of operations not yet flushed
func (m *List[K, V]) Pending() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pending
}

// Flushes returns how many times Flush or FlushNow ran
func (m *List[K, V]) Flushes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flushes
}

// Clear removes all data and pending operations
func (m *List[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[K]V)
	m.order = make(map[K]int)
	m.pending = 0
}

func (m *List[K, V]) putLocked(key K, v V) {
	m.seq++
	m.data[key] = v
	m.order[key] = m.seq
}

func (m *List[K, V]) notify(kind storagemodels.ChangeKind, v V) {
	m.mu.RLock()
	fns := make([]func(storagemodels.Change[V]), 0, len(m.watchers))
	for _, fn := range m.watchers {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	change := storagemodels.Change[V]{Kind: kind, Item: v, List: m.name}
	for _, fn := range fns {
		fn(change)
	}
}
