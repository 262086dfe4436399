// Package metrics exposes the booking core's prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Bookings created, labeled by ingestion channel.",
	}, []string{"channel"})

	SlotConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_slot_conflicts_total",
		Help: "Creation attempts rejected because the slot was already taken.",
	})

	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_import_rows_total",
		Help: "Legacy import rows, labeled by outcome.",
	}, []string{"outcome"})

	SweepsRun = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_sweeps_total",
		Help: "Lifecycle sweep cycles executed.",
	})

	SweptCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_sweep_completed_total",
		Help: "Bookings advanced to completed by the lifecycle sweeper.",
	})
)
