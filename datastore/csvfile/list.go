/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package csvfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/suparena/csvstore/csvio"
	"github.com/suparena/csvstore/datastore"
	"github.com/suparena/csvstore/errors"
	"github.com/suparena/csvstore/logging"
	"github.com/suparena/csvstore/metrics"
	"github.com/suparena/csvstore/storagemodels"
)

type entry[V any] struct {
	value V
	seq   uint64
}

type pendingOp[K comparable] struct {
	kind storagemodels.ChangeKind
	key  K
	at   time.Time
}

// List implements datastore.EntityList[K, V] on top of a single delimited
// text file. Mutations update the index immediately and are written to the
// file by Flush, which rewrites the whole file from the index.
type List[K comparable, V any] struct {
	entity string
	path   string
	format csvio.Format
	codec  datastore.Codec[K, V]
	logger logr.Logger
	now    func() time.Time

	mu       sync.RWMutex
	items    map[K]entry[V]
	seq      uint64
	pending  []pendingOp[K]
	policy   datastore.FlushPolicy
	trigger  datastore.Trigger
	watchers map[int]func(storagemodels.Change[V])
	watchSeq int
	closed   bool

	// serializes file writes between the scheduler and explicit flushes
	flushMu sync.Mutex
}

// New creates a list for records of the named entity type stored at path.
func New[K comparable, V any](entity, path string, codec datastore.Codec[K, V], opts ...Option) *List[K, V] {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &List[K, V]{
		entity:   entity,
		path:     path,
		format:   options.format,
		codec:    codec,
		logger:   options.logger.WithValues("list", filepath.Base(path)),
		now:      options.now,
		items:    make(map[K]entry[V]),
		policy:   options.policy,
		trigger:  options.trigger,
		watchers: make(map[int]func(storagemodels.Change[V])),
	}
}

// Name returns the file name of the list.
func (l *List[K, V]) Name() string {
	return filepath.Base(l.path)
}

// Path returns the backing file path.
func (l *List[K, V]) Path() string {
	return l.path
}

// SetPolicy replaces the flush policy.
func (l *List[K, V]) SetPolicy(p datastore.FlushPolicy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policy = p
}

// SetTrigger replaces the mutation trigger.
func (l *List[K, V]) SetTrigger(t datastore.Trigger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trigger = t
}

// Close rejects later mutations with errors.ErrClosed. Mutations already
// queued can still be flushed.
func (l *List[K, V]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

// Add indexes v under its key and queues it for writing.
func (l *List[K, V]) Add(v V) (V, error) {
	if err := l.validate(v); err != nil {
		var zero V
		return zero, err
	}
	key := l.codec.Key(v)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		var zero V
		return zero, l.closedError("add", key)
	}
	if _, exists := l.items[key]; exists {
		l.mu.Unlock()
		var zero V
		return zero, errors.NewDuplicateKeyError(l.entity, fmt.Sprint(key))
	}
	l.seq++
	l.items[key] = entry[V]{value: v, seq: l.seq}
	trigger := l.enqueueLocked(storagemodels.ChangeAdded, key)
	l.mu.Unlock()

	l.changed(trigger, storagemodels.ChangeAdded, v)
	return v, nil
}

// Update replaces the record indexed under the key of v.
func (l *List[K, V]) Update(v V) (V, error) {
	if err := l.validate(v); err != nil {
		var zero V
		return zero, err
	}
	key := l.codec.Key(v)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		var zero V
		return zero, l.closedError("update", key)
	}
	e, exists := l.items[key]
	if !exists {
		l.mu.Unlock()
		var zero V
		return zero, errors.NewNotFoundError(l.entity, fmt.Sprint(key))
	}
	e.value = v
	l.items[key] = e
	trigger := l.enqueueLocked(storagemodels.ChangeUpdated, key)
	l.mu.Unlock()

	l.changed(trigger, storagemodels.ChangeUpdated, v)
	return v, nil
}

// Remove drops the record indexed under the key of v.
func (l *List[K, V]) Remove(v V) error {
	key := l.codec.Key(v)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return l.closedError("remove", key)
	}
	e, exists := l.items[key]
	if !exists {
		l.mu.Unlock()
		return errors.NewNotFoundError(l.entity, fmt.Sprint(key))
	}
	delete(l.items, key)
	trigger := l.enqueueLocked(storagemodels.ChangeRemoved, key)
	l.mu.Unlock()

	l.changed(trigger, storagemodels.ChangeRemoved, e.value)
	return nil
}

// ReadByID returns the record indexed under key.
func (l *List[K, V]) ReadByID(key K) (V, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.items[key]
	return e.value, ok
}

// Items returns the records in insertion order.
func (l *List[K, V]) Items() []V {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.sortedLocked()
	out := make([]V, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out
}

// Count returns the number of indexed records.
func (l *List[K, V]) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Pending returns the number of mutations not yet written.
func (l *List[K, V]) Pending() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.pending)
}

// Watch registers fn for change notifications. Calling cancel unregisters it.
func (l *List[K, V]) Watch(fn func(storagemodels.Change[V])) (cancel func()) {
	l.mu.Lock()
	l.watchSeq++
	id := l.watchSeq
	l.watchers[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.watchers, id)
		l.mu.Unlock()
	}
}

// ReadItems loads every row of the backing file into the index. Rows that
// fail to decode, or repeat a key, are sent to sink as DecodeRowErrors and
// skipped. A missing file is an empty list.
func (l *List[K, V]) ReadItems(sink datastore.ErrorSink) error {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.V(logging.VERBOSE).Info("No backing file, starting empty")
			return nil
		}
		return fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()

	r := csvio.NewReader(f, l.format)
	name := l.Name()
	loaded, rejected := 0, 0

	for {
		fields, line, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !csvio.IsParseError(err) {
				return fmt.Errorf("read %s: %w", l.path, err)
			}
			rejected++
			sink.Add(errors.NewDecodeRowError(name, line, err))
			continue
		}

		v, err := l.codec.Decode(fields)
		if err != nil {
			rejected++
			sink.Add(errors.NewDecodeRowError(name, line, err))
			continue
		}

		key := l.codec.Key(v)
		l.mu.Lock()
		if _, exists := l.items[key]; exists {
			l.mu.Unlock()
			rejected++
			sink.Add(errors.NewDecodeRowError(name, line, errors.NewDuplicateKeyError(l.entity, fmt.Sprint(key))))
			continue
		}
		l.seq++
		l.items[key] = entry[V]{value: v, seq: l.seq}
		l.mu.Unlock()
		loaded++
	}

	if rejected > 0 {
		metrics.RecordLoadErrors(name, rejected)
	}
	l.logger.V(logging.DEFAULT).Info("Loaded list", "loaded", loaded, "rejected", rejected)
	return nil
}

// Flush rewrites the backing file when mutations are pending and the flush
// policy allows it. It reports whether the list is idle afterwards. On error
// the pending mutations are kept for the next attempt.
func (l *List[K, V]) Flush() (bool, error) {
	return l.flush(false)
}

// FlushNow writes pending mutations ignoring the flush policy.
func (l *List[K, V]) FlushNow() error {
	_, err := l.flush(true)
	return err
}

func (l *List[K, V]) flush(force bool) (bool, error) {
	l.flushMu.Lock()
	defer l.flushMu.Unlock()

	l.mu.RLock()
	captured := len(l.pending)
	if captured == 0 {
		l.mu.RUnlock()
		return true, nil
	}
	if !force && l.policy.MinAge > 0 && l.now().Sub(l.pending[0].at) < l.policy.MinAge {
		l.mu.RUnlock()
		return false, nil
	}
	rows, err := l.encodeLocked()
	l.mu.RUnlock()
	if err != nil {
		return false, err
	}

	if err := l.writeFile(rows); err != nil {
		return false, err
	}

	l.mu.Lock()
	remaining := len(l.pending) - captured
	rest := make([]pendingOp[K], remaining)
	copy(rest, l.pending[captured:])
	l.pending = rest
	l.mu.Unlock()

	name := l.Name()
	metrics.RecordFlushedRows(name, len(rows))
	metrics.SetPendingOperations(name, remaining)
	l.logger.V(logging.DEBUG).Info("Flushed list", "operations", captured, "rows", len(rows), "remaining", remaining)
	return remaining == 0, nil
}

func (l *List[K, V]) encodeLocked() ([][]string, error) {
	entries := l.sortedLocked()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		fields, err := l.codec.Encode(e.value)
		if err != nil {
			return nil, fmt.Errorf("encode %s %v: %w", l.entity, l.codec.Key(e.value), err)
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

// writeFile replaces the backing file through a temporary sibling so a
// failed write never truncates the previous content.
func (l *List[K, V]) writeFile(rows [][]string) error {
	dir := filepath.Dir(l.path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(l.path), uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	w := csvio.NewWriter(f, l.format)
	for _, row := range rows {
		if err = w.WriteRow(row); err != nil {
			break
		}
	}
	if err == nil {
		err = w.Close()
	}
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", l.path, err)
	}

	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", l.path, err)
	}
	return nil
}

func (l *List[K, V]) sortedLocked() []entry[V] {
	entries := make([]entry[V], 0, len(l.items))
	for _, e := range l.items {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})
	return entries
}

func (l *List[K, V]) enqueueLocked(kind storagemodels.ChangeKind, key K) datastore.Trigger {
	l.pending = append(l.pending, pendingOp[K]{kind: kind, key: key, at: l.now()})
	metrics.SetPendingOperations(l.Name(), len(l.pending))
	return l.trigger
}

func (l *List[K, V]) changed(trigger datastore.Trigger, kind storagemodels.ChangeKind, v V) {
	if trigger != nil {
		trigger.Request()
	}

	l.mu.RLock()
	watchers := make([]func(storagemodels.Change[V]), 0, len(l.watchers))
	for _, fn := range l.watchers {
		watchers = append(watchers, fn)
	}
	l.mu.RUnlock()

	change := storagemodels.Change[V]{Kind: kind, Item: v, List: l.Name(), Time: l.now()}
	for _, fn := range watchers {
		fn(change)
	}
}

func (l *List[K, V]) closedError(op string, key K) error {
	return fmt.Errorf("%s %s %v: %w", op, l.entity, key, errors.ErrClosed)
}

func (l *List[K, V]) validate(v V) error {
	if validator, ok := l.codec.(datastore.Validator[V]); ok {
		return validator.Validate(v)
	}
	return nil
}
