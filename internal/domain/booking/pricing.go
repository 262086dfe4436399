package booking

import (
	"time"

	"questbook/internal/domain/promo"
	"questbook/internal/domain/quest"
	"questbook/internal/pkg/errs"
)

var ErrParticipantsOutOfRange = errs.New("participants count out of range")

// Quote is the deterministic price breakdown every channel converges on.
type Quote struct {
	BasePrice      int64
	ExtraCount     int
	ExtraTotal     int64
	ExtrasTotal    int64
	DiscountAmount int64
	Total          int64
	Promo          *PromoSnapshot
}

// ValidateParticipants checks count against the pricing quest's resolved
// range: participantsMin <= count <= max(participantsMax, standard+extra).
func ValidateParticipants(q *quest.Quest, count int) error {
	if count < q.ParticipantsMin || count > q.ResolvedParticipantsMax() {
		return ErrParticipantsOutOfRange
	}
	return nil
}

// ExtraParticipants is the head-count above what the base price covers.
func ExtraParticipants(q *quest.Quest, count int) int {
	extra := count - q.StandardParticipants()
	if extra < 0 {
		return 0
	}
	return extra
}

// ComputeQuote runs the pricing algorithm. slotPrice overrides the quest base
// price when the booking is bound to a slot (holiday pricing lives on slots).
// Certificate payment zeroes the activity itself, extras stay billable. The
// promo code, when usable at now, is applied last and snapshotted.
func ComputeQuote(
	pricingQuest *quest.Quest,
	slotPrice *int64,
	count int,
	extras []ExtraService,
	payment PaymentType,
	code *promo.Code,
	now time.Time,
) Quote {
	q := Quote{ExtraCount: ExtraParticipants(pricingQuest, count)}

	perExtra := pricingQuest.ExtraParticipantPrice
	if perExtra < 0 {
		perExtra = 0
	}
	q.ExtraTotal = int64(q.ExtraCount) * perExtra

	for _, s := range extras {
		q.ExtrasTotal += s.Price
	}

	q.BasePrice = pricingQuest.BasePrice
	if slotPrice != nil {
		q.BasePrice = *slotPrice
	}

	if payment == PaymentCertificate {
		q.Total = q.ExtrasTotal
	} else {
		q.Total = q.BasePrice + q.ExtraTotal + q.ExtrasTotal
	}

	if code != nil && code.IsUsable(now) {
		q.DiscountAmount = code.Discount(q.Total)
		q.Total -= q.DiscountAmount
		if q.Total < 0 {
			q.Total = 0
		}
		q.Promo = &PromoSnapshot{
			Code:           code.Code,
			DiscountType:   code.DiscountType,
			DiscountValue:  code.Value,
			DiscountAmount: q.DiscountAmount,
		}
	}
	return q
}
