// Package booking is the transactional heart of the scheduling core: the
// booking entity, its status machine and the pricing engine.
package booking

import (
	"time"

	"github.com/google/uuid"

	"questbook/internal/domain/promo"
	"questbook/internal/pkg/errs"
)

var ErrAlreadyCancelled = errs.New("booking is already cancelled")

// ExtraService is a priced line item frozen onto the booking. It is
// independent of the catalog so historical rows survive catalog edits.
type ExtraService struct {
	ID    uuid.UUID
	Title string
	Price int64
}

// PromoSnapshot freezes the discount terms applied at booking time.
type PromoSnapshot struct {
	Code           string
	DiscountType   promo.DiscountType
	DiscountValue  int64
	DiscountAmount int64
}

type Booking struct {
	ID             uuid.UUID
	SequenceNumber int64
	QuestID        *uuid.UUID
	SlotID         *uuid.UUID
	Name           string
	Phone          string
	Email          *string
	Date           *time.Time // midnight, location-less; time comes from the slot
	Participants   int
	ExtraCount     int
	TotalPrice     int64
	PaymentType    PaymentType
	Promo          *PromoSnapshot
	Status         Status
	Notes          string
	Aggregator     *string
	ExternalID     *string
	ExtraServices  []ExtraService
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FromAggregator reports whether the booking arrived via the reservation
// partner rather than the site or the admin console.
func (b *Booking) FromAggregator() bool {
	return (b.Aggregator != nil && *b.Aggregator != "") || (b.ExternalID != nil && *b.ExternalID != "")
}

// Cancel transitions into the terminal cancelled state. The caller releases
// the bound slot in the same transaction.
func (b *Booking) Cancel() error {
	if b.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	b.Status = StatusCancelled
	return nil
}
