// Package worker hosts the background loops of the booking core.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"questbook/internal/domain/slot"
	"questbook/internal/infra/metrics"
	"questbook/internal/infra/repository"
	"questbook/internal/pkg/clock"
	"questbook/internal/pkg/errs"
)

type SweepStore interface {
	ListOpen(ctx context.Context) ([]repository.DueBooking, error)
	MarkCompleted(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// Sweeper closes out bookings whose game has started. It runs once at startup
// and then on a fixed interval; a failed cycle is logged and retried on the
// next tick, never fatal.
type Sweeper struct {
	store    SweepStore
	loc      *time.Location
	interval time.Duration
	clock    clock.Clock
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(store SweepStore, timezone string, interval time.Duration, clk clock.Clock) (*Sweeper, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, errs.Wrap(err, "invalid sweeper timezone")
	}
	return &Sweeper{
		store:    store,
		loc:      loc,
		interval: interval,
		clock:    clk,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

func (s *Sweeper) Start() {
	go s.run()
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) run() {
	defer close(s.done)

	s.sweepOnce()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *Sweeper) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.Sweep(ctx)
	if err != nil {
		slog.Error("booking sweep failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("swept started bookings", "completed", n)
	}
}

// Sweep completes every open booking whose local start time has passed.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	metrics.SweepsRun.Inc()

	open, err := s.store.ListOpen(ctx)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	var due []uuid.UUID
	for _, b := range open {
		start, err := slot.LocalStart(b.Date, b.TimeOfDay, s.loc)
		if err != nil {
			slog.Warn("skipping booking with malformed slot time", "booking_id", b.ID, "time", b.TimeOfDay)
			continue
		}
		if !start.After(now) {
			due = append(due, b.ID)
		}
	}
	if len(due) == 0 {
		return 0, nil
	}

	n, err := s.store.MarkCompleted(ctx, due)
	if err != nil {
		return 0, err
	}
	metrics.SweptCompleted.Add(float64(n))
	return n, nil
}
