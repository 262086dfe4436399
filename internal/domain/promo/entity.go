// Package promo models promotional codes. Discount terms are snapshotted onto
// bookings at creation time, so editing a code never rewrites history.
package promo

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"questbook/internal/pkg/errs"
)

var (
	ErrInvalidDiscountType = errs.New("invalid discount type")
	ErrCodeExpired         = errs.New("promo code is not active")
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountPercent || t == DiscountAmount
}

type Code struct {
	ID           uuid.UUID
	Code         string
	DiscountType DiscountType
	Value        int64
	ValidFrom    *time.Time
	ValidTo      *time.Time
	Active       bool
}

// NormalizeCode is the case-insensitive lookup key.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// IsUsable reports whether the code is active and inside its validity window.
func (c *Code) IsUsable(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidTo != nil && now.After(*c.ValidTo) {
		return false
	}
	return true
}

// Discount computes the amount taken off a total: percent values round
// half-away-from-zero, fixed amounts are capped at the total. The result never
// exceeds total and never goes negative.
func (c *Code) Discount(total int64) int64 {
	if total <= 0 {
		return 0
	}
	var d int64
	switch c.DiscountType {
	case DiscountPercent:
		d = int64(math.Round(float64(total) * float64(c.Value) / 100.0))
	case DiscountAmount:
		d = c.Value
	}
	if d < 0 {
		d = 0
	}
	if d > total {
		d = total
	}
	return d
}
