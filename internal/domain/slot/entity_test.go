//go:build unit

package slot_test

import (
	"testing"
	"time"

	"questbook/internal/domain/slot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
		bad  bool
	}{
		{in: "09:05", want: "09:05"},
		{in: "9:05", want: "09:05"},
		{in: "09:05:00", want: "09:05"},
		{in: "14.30", want: "14:30"},
		{in: "25:00", bad: true},
		{in: "noonish", bad: true},
		{in: "", bad: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := slot.NormalizeTimeOfDay(tt.in)
			if tt.bad {
				assert.ErrorIs(t, err, slot.ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStartsAt(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	s := &slot.Slot{
		Date:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		TimeOfDay: "14:30",
	}

	start, err := s.StartsAt(loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 14, 30, 0, 0, loc), start)

	s.TimeOfDay = "bad"
	_, err = s.StartsAt(loc)
	assert.ErrorIs(t, err, slot.ErrInvalidTimeOfDay)
}
