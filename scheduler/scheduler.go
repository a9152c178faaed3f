/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package scheduler drives the periodic flush of buffered lists. It is idle
// until a mutation requests it, then ticks until every list reports idle.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/suparena/csvstore/datastore"
	"github.com/suparena/csvstore/logging"
	"github.com/suparena/csvstore/metrics"
)

// Scheduler flushes its targets in order on every tick while active.
type Scheduler struct {
	logger    logr.Logger
	targets   []datastore.Flushable
	newTicker TickerFactory

	mu       sync.Mutex
	interval time.Duration
	active   bool
	flushing bool
	// set by Request, cleared when a cycle starts; a request that lands
	// during a cycle keeps the scheduler active
	dirty   bool
	stopped bool
	stop    chan struct{}
	done    chan struct{}
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithLogger sets the logger
func WithLogger(logger logr.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithInterval sets the tick period
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		s.interval = d
	}
}

// WithTickerFactory replaces the time source
func WithTickerFactory(f TickerFactory) Option {
	return func(s *Scheduler) {
		s.newTicker = f
	}
}

// New creates an idle scheduler over targets. Targets are flushed in the given order.
func New(targets []datastore.Flushable, opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:    logr.Discard(),
		targets:   targets,
		newTicker: NewTimeTicker,
		interval:  datastore.DefaultFlushInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interval <= 0 {
		s.interval = datastore.DefaultFlushInterval
	}
	s.logger = s.logger.WithName("scheduler")
	return s
}

// Request activates the scheduler if it is idle. It never blocks on I/O.
func (s *Scheduler) Request() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = true
	if s.active || s.stopped {
		return
	}
	s.activateLocked()
}

// Active reports whether the ticker is running.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the tick period. A running ticker is restarted.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		d = datastore.DefaultFlushInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if d == s.interval {
		return
	}
	s.interval = d
	if s.active {
		s.deactivateLocked()
		s.activateLocked()
	}
}

// Tick runs one flush cycle unless one is already in progress, and stops the
// ticker when every target reported idle and nothing was requested meanwhile.
// It returns false when the tick was skipped.
func (s *Scheduler) Tick() bool {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		s.logger.V(logging.TRACE).Info("Flush cycle in progress, skipping tick")
		return false
	}
	s.flushing = true
	s.dirty = false
	s.mu.Unlock()

	idle := s.cycle()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushing = false
	if idle && !s.dirty && s.active {
		s.deactivateLocked()
		s.logger.V(logging.DEBUG).Info("All lists idle, scheduler stopped")
	}
	return true
}

// Stop halts the ticker and ignores further requests. Pending writes are
// left to the caller, see FlushNow on the targets.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	done := s.done
	if s.active {
		s.deactivateLocked()
	}
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (s *Scheduler) cycle() bool {
	metrics.RecordFlushCycle()

	idle := true
	for _, target := range s.targets {
		targetIdle, err := s.flushTarget(target)
		if err != nil {
			s.logger.Error(err, "Flush failed, will retry", "list", target.Name())
			metrics.RecordFlushError(target.Name())
			targetIdle = false
		}
		idle = idle && targetIdle
	}

	s.logger.V(logging.DEBUG).Info("Flush cycle finished", "idle", idle)
	return idle
}

func (s *Scheduler) flushTarget(target datastore.Flushable) (idle bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			idle, err = false, fmt.Errorf("flush %s panicked: %v", target.Name(), r)
		}
	}()
	return target.Flush()
}

func (s *Scheduler) activateLocked() {
	stop := make(chan struct{})
	done := make(chan struct{})
	ticker := s.newTicker(s.interval)

	s.active = true
	s.stop = stop
	s.done = done
	metrics.SetSchedulerActive(true)
	s.logger.V(logging.DEBUG).Info("Scheduler started", "interval", s.interval)

	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.Channel():
				select {
				case <-stop:
					return
				default:
				}
				s.Tick()
			}
		}
	}()
}

// deactivateLocked signals the ticker goroutine to exit. It does not wait,
// the goroutine may be the caller.
func (s *Scheduler) deactivateLocked() {
	close(s.stop)
	s.active = false
	metrics.SetSchedulerActive(false)
}
