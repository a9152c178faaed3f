/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package scheduler

import "time"

// Ticker is the time source of the scheduler. Tests substitute a manual one.
type Ticker interface {
	Channel() <-chan time.Time
	Stop()
}

// TickerFactory starts a Ticker with period d.
type TickerFactory func(d time.Duration) Ticker

// TimeTicker implements a Ticker based on time.Ticker.
type TimeTicker struct {
	*time.Ticker
}

// NewTimeTicker returns a new time.Ticker with the configured duration.
func NewTimeTicker(d time.Duration) Ticker {
	return &TimeTicker{Ticker: time.NewTicker(d)}
}

// Channel exposes the ticker's channel.
func (t *TimeTicker) Channel() <-chan time.Time {
	return t.C
}
