/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package scheduler

import (
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/csvstore/datastore"
	"github.com/suparena/csvstore/datastore/mock"
	"github.com/suparena/csvstore/datastore/testmodels"
	"github.com/suparena/csvstore/logging"
)

type manualTicker struct {
	c chan time.Time
}

func (t *manualTicker) Channel() <-chan time.Time { return t.c }
func (t *manualTicker) Stop()                     {}

type tickerRecorder struct {
	mu        sync.Mutex
	intervals []time.Duration
}

func (r *tickerRecorder) factory(d time.Duration) Ticker {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intervals = append(r.intervals, d)
	// never fires, tests drive Tick directly
	return &manualTicker{c: make(chan time.Time)}
}

func (r *tickerRecorder) started() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.intervals...)
}

// funcTarget is a Flushable built from a function
type funcTarget struct {
	name  string
	flush func() (bool, error)
}

func (f *funcTarget) Name() string         { return f.name }
func (f *funcTarget) Flush() (bool, error) { return f.flush() }
func (f *funcTarget) FlushNow() error      { _, err := f.flush(); return err }

func tickers(name string) *mock.List[string, *testmodels.Ticker] {
	return mock.New(name, func(t *testmodels.Ticker) string { return t.Symbol })
}

func newManual(targets ...datastore.Flushable) (*Scheduler, *tickerRecorder) {
	rec := &tickerRecorder{}
	return New(targets, WithTickerFactory(rec.factory), WithLogger(logging.NewTestLogger())), rec
}

func TestRequestActivatesOnce(t *testing.T) {
	s, rec := newManual(tickers("a.csv"))
	defer s.Stop()

	assert.False(t, s.Active())
	s.Request()
	s.Request()
	assert.True(t, s.Active())
	assert.Equal(t, []time.Duration{time.Second}, rec.started())
}

func TestTickStopsWhenAllIdle(t *testing.T) {
	a, b := tickers("a.csv"), tickers("b.csv")
	s, _ := newManual(a, b)
	defer s.Stop()

	a.Add(testmodels.NewTicker("SBER", "1"))
	s.Request()

	require.True(t, s.Tick())
	assert.False(t, s.Active())
	assert.Zero(t, a.Pending())
	assert.Equal(t, 1, b.Flushes(), "every target is flushed in a cycle")
}

func TestFailingTargetKeepsSchedulerActive(t *testing.T) {
	failing := tickers("a.csv").WithFlushError(stderrors.New("disk full"))
	healthy := tickers("b.csv")
	s, _ := newManual(failing, healthy)
	defer s.Stop()

	failing.Add(testmodels.NewTicker("SBER", "1"))
	healthy.Add(testmodels.NewTicker("GAZP", "1"))
	s.Request()

	require.True(t, s.Tick())
	assert.True(t, s.Active())
	assert.Equal(t, 1, failing.Pending(), "queue kept for retry")
	assert.Zero(t, healthy.Pending(), "later targets still flushed")

	failing.WithFlushError(nil)
	require.True(t, s.Tick())
	assert.False(t, s.Active())
	assert.Zero(t, failing.Pending())
}

func TestPanickingTargetIsAnError(t *testing.T) {
	after := tickers("b.csv")
	s, _ := newManual(&funcTarget{name: "a.csv", flush: func() (bool, error) { panic("boom") }}, after)
	defer s.Stop()

	s.Request()
	require.True(t, s.Tick())
	assert.True(t, s.Active())
	assert.Equal(t, 1, after.Flushes())
}

func TestTickIsNotReentrant(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	blocking := &funcTarget{name: "a.csv", flush: func() (bool, error) {
		once.Do(func() { close(entered) })
		<-release
		return true, nil
	}}
	s, _ := newManual(blocking)
	defer s.Stop()
	s.Request()

	done := make(chan bool)
	go func() { done <- s.Tick() }()
	<-entered

	assert.False(t, s.Tick(), "tick during a cycle is skipped")
	close(release)
	assert.True(t, <-done)
}

func TestRequestDuringCycleKeepsActive(t *testing.T) {
	var s *Scheduler
	calls := 0
	target := &funcTarget{name: "a.csv", flush: func() (bool, error) {
		calls++
		if calls == 1 {
			// a mutation lands after this list was written
			s.Request()
		}
		return true, nil
	}}
	s, _ = newManual(target)
	defer s.Stop()
	s.Request()

	require.True(t, s.Tick())
	assert.True(t, s.Active(), "late request must get its own cycle")

	require.True(t, s.Tick())
	assert.False(t, s.Active())
}

func TestStopIgnoresFurtherRequests(t *testing.T) {
	s, rec := newManual(tickers("a.csv"))
	s.Request()
	s.Stop()
	assert.False(t, s.Active())

	s.Request()
	assert.False(t, s.Active())
	assert.Len(t, rec.started(), 1)
}

func TestSetIntervalRestartsRunningTicker(t *testing.T) {
	s, rec := newManual(tickers("a.csv"))
	defer s.Stop()

	s.SetInterval(50 * time.Millisecond)
	assert.Empty(t, rec.started(), "idle scheduler starts nothing")

	s.Request()
	s.SetInterval(200 * time.Millisecond)
	assert.True(t, s.Active())
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 200 * time.Millisecond}, rec.started())
	assert.Equal(t, 200*time.Millisecond, s.Interval())

	s.SetInterval(0)
	assert.Equal(t, datastore.DefaultFlushInterval, s.Interval())
}

func TestIdleConvergence(t *testing.T) {
	lists := []*mock.List[string, *testmodels.Ticker]{tickers("a.csv"), tickers("b.csv"), tickers("c.csv")}
	targets := make([]datastore.Flushable, len(lists))
	for i, l := range lists {
		targets[i] = l
	}
	s := New(targets, WithInterval(5*time.Millisecond))
	defer s.Stop()

	for i := 0; i < 30; i++ {
		l := lists[i%len(lists)]
		l.Add(testmodels.NewTicker(fmt.Sprintf("T%d", i), "1"))
		s.Request()
	}

	require.Eventually(t, func() bool { return !s.Active() }, 2*time.Second, 5*time.Millisecond)
	for _, l := range lists {
		assert.Zero(t, l.Pending())
	}

	// No ticks once idle
	flushes := lists[0].Flushes()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, flushes, lists[0].Flushes())

	// A new mutation wakes it again
	lists[1].Add(testmodels.NewTicker("NEW", "1"))
	s.Request()
	require.Eventually(t, func() bool { return lists[1].Pending() == 0 && !s.Active() }, 2*time.Second, 5*time.Millisecond)
}
