/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package csvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"go.uber.org/multierr"

	"github.com/suparena/csvstore/codec"
	"github.com/suparena/csvstore/csvio"
	"github.com/suparena/csvstore/datastore"
	"github.com/suparena/csvstore/datastore/csvfile"
	"github.com/suparena/csvstore/errors"
	"github.com/suparena/csvstore/logging"
	"github.com/suparena/csvstore/scheduler"
	"github.com/suparena/csvstore/storagemodels"
)

// File names of the lists inside the registry directory.
const (
	ExchangeFile   = "exchange.csv"
	BoardFile      = "exchangeboard.csv"
	InstrumentFile = "security.csv"
	PortfolioFile  = "portfolio.csv"
	PositionFile   = "position.csv"
)

// closeRetryInterval is the pause between drain attempts in Close.
const closeRetryInterval = 100 * time.Millisecond

// list is the capability set the registry needs from each of its lists.
type list interface {
	datastore.Loadable
	datastore.Flushable
	SetPolicy(p datastore.FlushPolicy)
	SetTrigger(t datastore.Trigger)
	Close()
}

// Registry owns the file-backed lists of one directory. Lists are loaded and
// flushed in reference order: exchanges, boards, instruments, portfolios,
// positions.
type Registry struct {
	path   string
	format csvio.Format
	logger logr.Logger

	exchanges   *csvfile.List[string, *storagemodels.Exchange]
	boards      *csvfile.List[string, *storagemodels.Board]
	instruments *InstrumentList
	portfolios  *csvfile.List[string, *storagemodels.Portfolio]
	positions   *PositionList

	lists     []list
	scheduler *scheduler.Scheduler

	mu     sync.Mutex
	policy datastore.FlushPolicy
}

// New wires the lists of the registry rooted at path. Nothing is read
// until Init.
func New(path string, opts ...Option) (*Registry, error) {
	if path == "" {
		return nil, errors.NewValidationError("path", "is required")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	enc, err := csvio.LookupEncoding(options.encoding)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		path:   path,
		format: csvio.Format{Delimiter: options.delimiter, Encoding: enc},
		logger: options.logger.WithName("csvstore"),
		policy: options.policy,
	}

	listOpts := func() []csvfile.Option {
		return []csvfile.Option{
			csvfile.WithFormat(r.format),
			csvfile.WithLogger(r.logger),
			csvfile.WithFlushPolicy(options.policy),
		}
	}

	r.exchanges = csvfile.New[string, *storagemodels.Exchange](
		"Exchange", r.file(ExchangeFile), codec.NewExchangeCodec(), listOpts()...)

	boardCodec, err := codec.NewBoardCodec(r.exchanges, codec.NewNestedRegistry())
	if err != nil {
		return nil, fmt.Errorf("board codec: %w", err)
	}
	r.boards = csvfile.New[string, *storagemodels.Board](
		"Board", r.file(BoardFile), boardCodec, listOpts()...)

	r.instruments = &InstrumentList{List: csvfile.New[string, *storagemodels.Instrument](
		"Instrument", r.file(InstrumentFile), codec.NewInstrumentCodec(r.boards), listOpts()...)}

	r.portfolios = csvfile.New[string, *storagemodels.Portfolio](
		"Portfolio", r.file(PortfolioFile), codec.NewPortfolioCodec(r.boards), listOpts()...)

	r.positions = &PositionList{List: csvfile.New[storagemodels.PositionKey, *storagemodels.Position](
		"Position", r.file(PositionFile), codec.NewPositionCodec(r.portfolios, r.instruments), listOpts()...)}

	r.lists = []list{r.exchanges, r.boards, r.instruments, r.portfolios, r.positions}

	targets := make([]datastore.Flushable, len(r.lists))
	for i, l := range r.lists {
		targets[i] = l
	}
	schedOpts := []scheduler.Option{
		scheduler.WithLogger(r.logger),
		scheduler.WithInterval(options.policy.Interval),
	}
	if options.tickerFactory != nil {
		schedOpts = append(schedOpts, scheduler.WithTickerFactory(options.tickerFactory))
	}
	r.scheduler = scheduler.New(targets, schedOpts...)

	for _, l := range r.lists {
		l.SetTrigger(r.scheduler)
	}
	return r, nil
}

func (r *Registry) file(name string) string {
	return filepath.Join(r.path, name)
}

// Path returns the registry directory.
func (r *Registry) Path() string {
	return r.path
}

// Init creates the directory if needed and loads every list in reference
// order. Rows that fail are skipped and reported together in an
// *errors.AggregateInitError once every list has been read.
func (r *Registry) Init(ctx context.Context) error {
	if err := os.MkdirAll(r.path, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", r.path, err)
	}

	var sink datastore.Collector
	for _, l := range r.lists {
		if err := ctx.Err(); err != nil {
			sink.Add(err)
			break
		}
		if err := l.ReadItems(&sink); err != nil {
			sink.Add(fmt.Errorf("load %s: %w", l.Name(), err))
		}
	}

	errs := sink.Errors()
	r.logger.V(logging.DEFAULT).Info("Registry initialized", "path", r.path,
		"exchanges", r.exchanges.Count(),
		"boards", r.boards.Count(),
		"instruments", r.instruments.Count(),
		"portfolios", r.portfolios.Count(),
		"positions", r.positions.Count(),
		"errors", len(errs))
	return errors.NewAggregateInitError(errs...)
}

// Exchanges returns the exchange list.
func (r *Registry) Exchanges() *csvfile.List[string, *storagemodels.Exchange] {
	return r.exchanges
}

// Boards returns the board list.
func (r *Registry) Boards() *csvfile.List[string, *storagemodels.Board] {
	return r.boards
}

// Instruments returns the instrument list.
func (r *Registry) Instruments() *InstrumentList {
	return r.instruments
}

// Portfolios returns the portfolio list.
func (r *Registry) Portfolios() *csvfile.List[string, *storagemodels.Portfolio] {
	return r.portfolios
}

// Positions returns the position list.
func (r *Registry) Positions() *PositionList {
	return r.positions
}

// FlushPolicy returns the shared flush policy.
func (r *Registry) FlushPolicy() datastore.FlushPolicy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.policy
}

// SetFlushPolicy applies p to every list and to the scheduler.
func (r *Registry) SetFlushPolicy(p datastore.FlushPolicy) {
	r.mu.Lock()
	r.policy = p
	r.mu.Unlock()

	for _, l := range r.lists {
		l.SetPolicy(p)
	}
	r.scheduler.SetInterval(p.Interval)
}

// Flush runs one flush cycle of every list, as a scheduler tick would.
func (r *Registry) Flush() {
	r.scheduler.Tick()
}

// Close stops the scheduler and writes every pending mutation, ignoring the
// flush delay. Failed lists are retried until they succeed or ctx is done.
// Mutations after Close fail with errors.ErrClosed.
func (r *Registry) Close(ctx context.Context) error {
	r.scheduler.Stop()
	for _, l := range r.lists {
		l.Close()
	}

	for {
		var failed []error
		for _, l := range r.lists {
			if err := l.FlushNow(); err != nil {
				failed = append(failed, fmt.Errorf("flush %s: %w", l.Name(), err))
			}
		}
		if len(failed) == 0 {
			r.logger.V(logging.VERBOSE).Info("Registry closed", "path", r.path)
			return nil
		}

		r.logger.Error(failed[0], "Drain incomplete, retrying", "failed", len(failed))
		select {
		case <-ctx.Done():
			return fmt.Errorf("close %s: %w", r.path, multierr.Combine(append([]error{ctx.Err()}, failed...)...))
		case <-time.After(closeRetryInterval):
		}
	}
}
