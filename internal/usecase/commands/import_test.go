//go:build unit

package commands

import (
	"testing"
	"time"

	"questbook/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapLegacyStatus(t *testing.T) {
	tests := []struct {
		in   string
		want booking.Status
	}{
		{in: "Отменено", want: booking.StatusCancelled},
		{in: "отмена клиентом", want: booking.StatusCancelled},
		{in: "Завершено", want: booking.StatusCompleted},
		{in: "выполнено", want: booking.StatusCompleted},
		{in: "оплачено", want: booking.StatusConfirmed},
		{in: "", want: booking.StatusConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, mapLegacyStatus(tt.in))
		})
	}
}

func TestParseAnyCreatedAt(t *testing.T) {
	got, ok := parseAny("15.01.2025 14:30:00", createdAtLayouts)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC), got)

	got, ok = parseAny("15.01.2025", createdAtLayouts)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), got)

	_, ok = parseAny("2025/15/01", createdAtLayouts)
	assert.False(t, ok)

	_, ok = parseAny("", createdAtLayouts)
	assert.False(t, ok)
}

func TestParseAnyBookingDate(t *testing.T) {
	for _, in := range []string{"2025-01-15", "2025.01.15", "15.01.2025"} {
		got, ok := parseAny(in, bookingDateLayouts)
		require.True(t, ok, in)
		assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), got)
	}
}

func TestMapPayment(t *testing.T) {
	u := &importCommandsImpl{aggregatorTag: "questcatalog"}

	pt, tag := u.mapPayment(1)
	assert.Equal(t, booking.PaymentCash, pt)
	assert.Nil(t, tag)

	pt, tag = u.mapPayment(2)
	assert.Equal(t, booking.PaymentCertificate, pt)
	assert.Nil(t, tag)

	pt, tag = u.mapPayment(3)
	assert.Equal(t, booking.PaymentAggregator, pt)
	require.NotNil(t, tag)
	assert.Equal(t, "questcatalog", *tag)

	pt, tag = u.mapPayment(0)
	assert.Equal(t, booking.PaymentCash, pt)
	assert.Nil(t, tag)
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, int64(2500), parsePrice(" 2500 "))
	assert.Equal(t, int64(0), parsePrice("free"))
	assert.Equal(t, int64(0), parsePrice(""))
}
