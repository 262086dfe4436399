// Package slotid encodes and decodes the externally visible slot identifiers
// exchanged with the reservation aggregator. Two formats exist: the slot's raw
// UUID, and a numeric yyyyMMddHHmm string carrying the slot's local start.
// Decoding returns a tagged value so callers branch on which case matched
// instead of coercing.
package slotid

import (
	"time"

	"github.com/google/uuid"

	"questbook/internal/pkg/errs"
)

const (
	FormatRaw      = "raw"
	FormatDateTime = "datetime"

	numericLayout = "200601021504"
)

var ErrUnknownFormat = errs.New("unknown slot id format")

type Kind int

const (
	KindNone Kind = iota
	KindRaw
	KindDateTime
)

// Decoded is the tagged result of Decode: exactly one of ID or Date/TimeOfDay
// is meaningful, selected by Kind.
type Decoded struct {
	Kind      Kind
	ID        uuid.UUID
	Date      time.Time // midnight, location-less
	TimeOfDay string    // "15:04"
}

// Decode classifies an external slot id. An unparseable id yields KindNone,
// which callers treat as "fall back to explicit date/time fields", not as an
// error.
func Decode(s string) Decoded {
	if s == "" {
		return Decoded{Kind: KindNone}
	}
	if id, err := uuid.Parse(s); err == nil {
		return Decoded{Kind: KindRaw, ID: id}
	}
	if t, err := time.Parse(numericLayout, s); err == nil {
		return Decoded{
			Kind:      KindDateTime,
			Date:      time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			TimeOfDay: t.Format("15:04"),
		}
	}
	return Decoded{Kind: KindNone}
}

// Encode renders a slot id in the configured wire format.
func Encode(format string, id uuid.UUID, date time.Time, timeOfDay string) (string, error) {
	switch format {
	case FormatRaw, "":
		return id.String(), nil
	case FormatDateTime:
		t, err := time.Parse("15:04", timeOfDay)
		if err != nil {
			return "", errs.Wrap(err, "invalid time of day")
		}
		at := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
		return at.Format(numericLayout), nil
	default:
		return "", ErrUnknownFormat
	}
}
