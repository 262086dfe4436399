//go:build unit

package worker_test

import (
	"context"
	"testing"
	"time"

	"questbook/internal/infra/repository"
	"questbook/internal/pkg/clock"
	"questbook/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweepStore struct {
	open      []repository.DueBooking
	completed []uuid.UUID
}

func (f *fakeSweepStore) ListOpen(_ context.Context) ([]repository.DueBooking, error) {
	return f.open, nil
}

func (f *fakeSweepStore) MarkCompleted(_ context.Context, ids []uuid.UUID) (int64, error) {
	f.completed = append(f.completed, ids...)
	return int64(len(ids)), nil
}

func TestSweep(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	// Local noon on June 1st.
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)
	clk := clock.NewMockClock(now)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	started := repository.DueBooking{ID: uuid.New(), Date: day, TimeOfDay: "11:00"}
	startingNow := repository.DueBooking{ID: uuid.New(), Date: day, TimeOfDay: "12:00"}
	upcoming := repository.DueBooking{ID: uuid.New(), Date: day, TimeOfDay: "13:00"}
	malformed := repository.DueBooking{ID: uuid.New(), Date: day, TimeOfDay: "later"}

	store := &fakeSweepStore{open: []repository.DueBooking{started, startingNow, upcoming, malformed}}

	s, err := worker.NewSweeper(store, "Europe/Moscow", 30*time.Minute, clk)
	require.NoError(t, err)

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), n)
	assert.Equal(t, []uuid.UUID{started.ID, startingNow.ID}, store.completed)
}

func TestSweepNothingDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeSweepStore{open: []repository.DueBooking{
		{ID: uuid.New(), Date: day, TimeOfDay: "20:00"},
	}}

	s, err := worker.NewSweeper(store, "Europe/Moscow", 30*time.Minute, clk)
	require.NoError(t, err)

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)

	assert.Zero(t, n)
	assert.Empty(t, store.completed)
}

func TestSweeperRejectsBadTimezone(t *testing.T) {
	_, err := worker.NewSweeper(&fakeSweepStore{}, "Mars/Olympus", time.Minute, clock.NewMockClock(time.Now()))
	assert.Error(t, err)
}
