/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package metrics exposes prometheus collectors for list persistence.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "csvstore"

var (
	flushCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flush_cycles_total",
			Help:      "Count of flush cycles run by the scheduler.",
		},
	)
	flushErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flush_errors_total",
			Help:      "Count of failed list flushes.",
		},
		[]string{"list"},
	)
	flushedRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flushed_rows_total",
			Help:      "Count of rows written by list flushes.",
		},
		[]string{"list"},
	)
	pendingOperations = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_operations",
			Help:      "Mutations accepted by a list and not yet written.",
		},
		[]string{"list"},
	)
	loadErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_errors_total",
			Help:      "Count of rows rejected while loading a list.",
		},
		[]string{"list"},
	)
	schedulerActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheduler_active",
			Help:      "1 while the flush scheduler timer is running.",
		},
	)
)

var registerMetrics sync.Once

// Register all metrics on reg. Only the first call has an effect.
func Register(reg prometheus.Registerer) {
	registerMetrics.Do(func() {
		reg.MustRegister(flushCycles)
		reg.MustRegister(flushErrors)
		reg.MustRegister(flushedRows)
		reg.MustRegister(pendingOperations)
		reg.MustRegister(loadErrors)
		reg.MustRegister(schedulerActive)
	})
}

// RecordFlushCycle counts one scheduler cycle.
func RecordFlushCycle() {
	flushCycles.Inc()
}

// RecordFlushError counts a failed flush of list.
func RecordFlushError(list string) {
	flushErrors.WithLabelValues(list).Inc()
}

// RecordFlushedRows counts rows written for list.
func RecordFlushedRows(list string, rows int) {
	flushedRows.WithLabelValues(list).Add(float64(rows))
}

// SetPendingOperations reports the queue length of list.
func SetPendingOperations(list string, n int) {
	pendingOperations.WithLabelValues(list).Set(float64(n))
}

// RecordLoadErrors counts rejected rows of list.
func RecordLoadErrors(list string, n int) {
	loadErrors.WithLabelValues(list).Add(float64(n))
}

// SetSchedulerActive reports the scheduler state.
func SetSchedulerActive(active bool) {
	if active {
		schedulerActive.Set(1)
		return
	}
	schedulerActive.Set(0)
}
