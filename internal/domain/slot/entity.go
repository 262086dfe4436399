// Package slot models the bookable (quest, date, time) unit. A slot is claimed
// by at most one non-cancelled booking; the occupied flag mirrors that binding
// and is mutated only inside booking transactions.
package slot

import (
	"time"

	"github.com/google/uuid"

	"questbook/internal/pkg/errs"
)

var ErrInvalidTimeOfDay = errs.New("invalid time of day")

type Slot struct {
	ID        uuid.UUID
	QuestID   uuid.UUID
	Date      time.Time // midnight, location-less
	TimeOfDay string    // "15:04"
	Price     int64
	Occupied  bool
}

// NormalizeTimeOfDay canonicalizes "9:05", "09:05" and "09:05:00" to "09:05".
func NormalizeTimeOfDay(s string) (string, error) {
	for _, layout := range []string{"15:04", "15:04:05", "15.04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", ErrInvalidTimeOfDay
}

// StartsAt combines the slot's date and time of day in the given location.
func (s *Slot) StartsAt(loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", s.TimeOfDay)
	if err != nil {
		return time.Time{}, ErrInvalidTimeOfDay
	}
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// LocalStart is StartsAt for callers that already resolved date+time pairs
// outside a slot value.
func LocalStart(date time.Time, timeOfDay string, loc *time.Location) (time.Time, error) {
	s := Slot{Date: date, TimeOfDay: timeOfDay}
	return s.StartsAt(loc)
}
