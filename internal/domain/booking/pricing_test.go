//go:build unit

package booking_test

import (
	"testing"
	"time"

	"questbook/internal/domain/booking"
	"questbook/internal/domain/promo"
	"questbook/internal/domain/quest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuest() *quest.Quest {
	return &quest.Quest{
		BasePrice:             2000,
		ParticipantsMin:       2,
		ParticipantsMax:       4,
		ExtraParticipantsMax:  2,
		ExtraParticipantPrice: 300,
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestValidateParticipants(t *testing.T) {
	q := testQuest()

	tests := []struct {
		name  string
		count int
		errIs error
	}{
		{name: "below minimum", count: 1, errIs: booking.ErrParticipantsOutOfRange},
		{name: "minimum", count: 2},
		{name: "declared maximum", count: 4},
		{name: "within extra capacity", count: 6},
		{name: "above extra capacity", count: 7, errIs: booking.ErrParticipantsOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := booking.ValidateParticipants(q, tt.count)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExtraParticipants(t *testing.T) {
	q := testQuest()

	assert.Equal(t, 0, booking.ExtraParticipants(q, 2))
	assert.Equal(t, 0, booking.ExtraParticipants(q, 4))
	assert.Equal(t, 2, booking.ExtraParticipants(q, 6))

	smaller := 3
	q.StandardPriceParticipantsMax = &smaller
	assert.Equal(t, 1, booking.ExtraParticipants(q, 4))
}

func TestComputeQuote(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	extras := []booking.ExtraService{
		{Title: "photo report", Price: 500},
	}

	t.Run("base plus extra participants plus services", func(t *testing.T) {
		q := booking.ComputeQuote(testQuest(), nil, 6, extras, booking.PaymentCash, nil, now)

		assert.Equal(t, int64(2000), q.BasePrice)
		assert.Equal(t, 2, q.ExtraCount)
		assert.Equal(t, int64(600), q.ExtraTotal)
		assert.Equal(t, int64(500), q.ExtrasTotal)
		assert.Equal(t, int64(3100), q.Total)
	})

	t.Run("slot price overrides base", func(t *testing.T) {
		q := booking.ComputeQuote(testQuest(), int64Ptr(2500), 4, nil, booking.PaymentCash, nil, now)

		assert.Equal(t, int64(2500), q.BasePrice)
		assert.Equal(t, int64(2500), q.Total)
	})

	t.Run("certificate zeroes the activity but keeps extras", func(t *testing.T) {
		q := booking.ComputeQuote(testQuest(), nil, 6, extras, booking.PaymentCertificate, nil, now)

		assert.Equal(t, int64(500), q.Total)
	})

	t.Run("percent promo rounds half away from zero", func(t *testing.T) {
		code := &promo.Code{
			Code:         "spring10",
			DiscountType: promo.DiscountPercent,
			Value:        10,
			Active:       true,
		}
		q := booking.ComputeQuote(testQuest(), nil, 6, extras, booking.PaymentCash, code, now)

		assert.Equal(t, int64(310), q.DiscountAmount)
		assert.Equal(t, int64(2790), q.Total)
		require.NotNil(t, q.Promo)
		assert.Equal(t, "spring10", q.Promo.Code)
		assert.Equal(t, int64(310), q.Promo.DiscountAmount)
	})

	t.Run("amount promo is capped at the total", func(t *testing.T) {
		code := &promo.Code{
			Code:         "gift500",
			DiscountType: promo.DiscountAmount,
			Value:        500,
			Active:       true,
		}
		q := booking.ComputeQuote(testQuest(), int64Ptr(400), 4, nil, booking.PaymentCash, code, now)

		assert.Equal(t, int64(400), q.DiscountAmount)
		assert.Equal(t, int64(0), q.Total)
	})

	t.Run("unusable promo is ignored", func(t *testing.T) {
		expired := now.Add(-time.Hour)
		code := &promo.Code{
			Code:         "old",
			DiscountType: promo.DiscountPercent,
			Value:        50,
			ValidTo:      &expired,
			Active:       true,
		}
		q := booking.ComputeQuote(testQuest(), nil, 4, nil, booking.PaymentCash, code, now)

		assert.Nil(t, q.Promo)
		assert.Equal(t, int64(2000), q.Total)
	})
}

func TestBookingCancel(t *testing.T) {
	b := &booking.Booking{Status: booking.StatusConfirmed}
	require.NoError(t, b.Cancel())
	assert.Equal(t, booking.StatusCancelled, b.Status)

	assert.ErrorIs(t, b.Cancel(), booking.ErrAlreadyCancelled)
}
