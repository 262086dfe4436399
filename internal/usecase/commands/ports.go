package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"questbook/internal/domain/booking"
	"questbook/internal/domain/promo"
	"questbook/internal/domain/quest"
	"questbook/internal/domain/slot"
	"questbook/internal/infra/db"
)

// DB is the transaction entry point, satisfied by *pgxpool.Pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type BookingRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (err error)
	Update(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error
	Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
	FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	ExistsBySequence(ctx context.Context, dbtx db.DBTX, seq int64) (bool, error)
	SlotTaken(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) (bool, error)
}

type SlotRepository interface {
	FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*slot.Slot, error)
	FindByQuestDateTime(ctx context.Context, dbtx db.DBTX, questID uuid.UUID, date time.Time, timeOfDay string) (*slot.Slot, error)
	Create(ctx context.Context, dbtx db.DBTX, s *slot.Slot) error
	SetOccupied(ctx context.Context, dbtx db.DBTX, id uuid.UUID, occupied bool) error
}

type QuestRepository interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*quest.Quest, error)
	FindBySlug(ctx context.Context, dbtx db.DBTX, slug string) (*quest.Quest, error)
	ResolvePricing(ctx context.Context, dbtx db.DBTX, q *quest.Quest) (*quest.Quest, error)
}

type PromoRepository interface {
	FindByCode(ctx context.Context, dbtx db.DBTX, code string) (*promo.Code, error)
}

type ExtraServiceRepository interface {
	FindByIDs(ctx context.Context, dbtx db.DBTX, ids []uuid.UUID) ([]booking.ExtraService, error)
}

type SequenceRepository interface {
	Next(ctx context.Context, dbtx db.DBTX) (int64, error)
	Advance(ctx context.Context, dbtx db.DBTX, floor int64) error
}

// Notifier hands a created booking to the delivery collaborator. Calls are
// fire-and-forget: the implementation owns its own context and never reports
// back into the request path.
type Notifier interface {
	BookingCreated(bookingID uuid.UUID, sequenceNumber int64)
}
