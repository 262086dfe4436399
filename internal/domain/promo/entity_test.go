//go:build unit

package promo_test

import (
	"testing"
	"time"

	"questbook/internal/domain/promo"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "spring10", promo.NormalizeCode("  SPRING10 "))
}

func TestIsUsable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name string
		code promo.Code
		want bool
	}{
		{name: "active without window", code: promo.Code{Active: true}, want: true},
		{name: "inactive", code: promo.Code{Active: false}, want: false},
		{name: "inside window", code: promo.Code{Active: true, ValidFrom: &before, ValidTo: &after}, want: true},
		{name: "not yet valid", code: promo.Code{Active: true, ValidFrom: &after}, want: false},
		{name: "expired", code: promo.Code{Active: true, ValidTo: &before}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.IsUsable(now))
		})
	}
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name  string
		code  promo.Code
		total int64
		want  int64
	}{
		{name: "ten percent", code: promo.Code{DiscountType: promo.DiscountPercent, Value: 10}, total: 3100, want: 310},
		{name: "percent rounds half away", code: promo.Code{DiscountType: promo.DiscountPercent, Value: 15}, total: 990, want: 149},
		{name: "fixed amount", code: promo.Code{DiscountType: promo.DiscountAmount, Value: 500}, total: 2000, want: 500},
		{name: "amount capped at total", code: promo.Code{DiscountType: promo.DiscountAmount, Value: 500}, total: 400, want: 400},
		{name: "negative value clamps to zero", code: promo.Code{DiscountType: promo.DiscountAmount, Value: -100}, total: 400, want: 0},
		{name: "zero total", code: promo.Code{DiscountType: promo.DiscountPercent, Value: 50}, total: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.Discount(tt.total))
		})
	}
}
