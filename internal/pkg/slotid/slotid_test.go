//go:build unit

package slotid_test

import (
	"testing"
	"time"

	"questbook/internal/pkg/slotid"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("raw uuid", func(t *testing.T) {
		id := uuid.New()
		dec := slotid.Decode(id.String())

		assert.Equal(t, slotid.KindRaw, dec.Kind)
		assert.Equal(t, id, dec.ID)
	})

	t.Run("numeric date time", func(t *testing.T) {
		dec := slotid.Decode("202501151400")

		assert.Equal(t, slotid.KindDateTime, dec.Kind)
		assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), dec.Date)
		assert.Equal(t, "14:00", dec.TimeOfDay)
	})

	t.Run("unparseable", func(t *testing.T) {
		for _, in := range []string{"", "not-an-id", "2025-01-15"} {
			assert.Equal(t, slotid.KindNone, slotid.Decode(in).Kind)
		}
	})
}

func TestEncode(t *testing.T) {
	id := uuid.New()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("raw format", func(t *testing.T) {
		got, err := slotid.Encode(slotid.FormatRaw, id, date, "14:00")
		require.NoError(t, err)
		assert.Equal(t, id.String(), got)
	})

	t.Run("empty format defaults to raw", func(t *testing.T) {
		got, err := slotid.Encode("", id, date, "14:00")
		require.NoError(t, err)
		assert.Equal(t, id.String(), got)
	})

	t.Run("datetime format", func(t *testing.T) {
		got, err := slotid.Encode(slotid.FormatDateTime, id, date, "14:00")
		require.NoError(t, err)
		assert.Equal(t, "202501151400", got)
	})

	t.Run("datetime round trips through decode", func(t *testing.T) {
		got, err := slotid.Encode(slotid.FormatDateTime, id, date, "09:30")
		require.NoError(t, err)

		dec := slotid.Decode(got)
		assert.Equal(t, slotid.KindDateTime, dec.Kind)
		assert.Equal(t, date, dec.Date)
		assert.Equal(t, "09:30", dec.TimeOfDay)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := slotid.Encode("xml", id, date, "14:00")
		assert.ErrorIs(t, err, slotid.ErrUnknownFormat)
	})
}
