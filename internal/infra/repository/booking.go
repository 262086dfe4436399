package repository

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"questbook/internal/domain/booking"
	"questbook/internal/domain/promo"
	"questbook/internal/infra"
	"questbook/internal/infra/db"
)

var bookingColumns = []string{
	"id", "sequence_number", "quest_id", "slot_id",
	"name", "phone", "email", "date",
	"participants", "extra_participants", "total_price", "payment_type",
	"promo_code", "promo_discount_type", "promo_discount_value", "promo_discount_amount",
	"status", "notes", "aggregator", "external_id",
	"created_at", "updated_at",
}

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(pool db.DBTX) *BookingRepository {
	return &BookingRepository{db: pool}
}

func (r *BookingRepository) Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error {
	if dbtx == nil {
		dbtx = r.db
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	var promoCode, promoType *string
	var promoValue, promoAmount *int64
	if b.Promo != nil {
		promoCode = &b.Promo.Code
		t := string(b.Promo.DiscountType)
		promoType = &t
		promoValue = &b.Promo.DiscountValue
		promoAmount = &b.Promo.DiscountAmount
	}

	sql, args, err := qb.Insert("bookings").
		Columns(bookingColumns...).
		Values(
			b.ID, b.SequenceNumber, b.QuestID, b.SlotID,
			b.Name, b.Phone, b.Email, b.Date,
			b.Participants, b.ExtraCount, b.TotalPrice, string(b.PaymentType),
			promoCode, promoType, promoValue, promoAmount,
			string(b.Status), b.Notes, b.Aggregator, b.ExternalID,
			b.CreatedAt, b.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build booking insert", err)
	}
	if _, err := dbtx.Exec(ctx, sql, args...); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}

	return r.replaceExtraServices(ctx, dbtx, b.ID, b.ExtraServices)
}

func (r *BookingRepository) Update(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error {
	if dbtx == nil {
		dbtx = r.db
	}

	var promoCode, promoType *string
	var promoValue, promoAmount *int64
	if b.Promo != nil {
		promoCode = &b.Promo.Code
		t := string(b.Promo.DiscountType)
		promoType = &t
		promoValue = &b.Promo.DiscountValue
		promoAmount = &b.Promo.DiscountAmount
	}

	sql, args, err := qb.Update("bookings").
		Set("quest_id", b.QuestID).
		Set("slot_id", b.SlotID).
		Set("name", b.Name).
		Set("phone", b.Phone).
		Set("email", b.Email).
		Set("date", b.Date).
		Set("participants", b.Participants).
		Set("extra_participants", b.ExtraCount).
		Set("total_price", b.TotalPrice).
		Set("payment_type", string(b.PaymentType)).
		Set("promo_code", promoCode).
		Set("promo_discount_type", promoType).
		Set("promo_discount_value", promoValue).
		Set("promo_discount_amount", promoAmount).
		Set("status", string(b.Status)).
		Set("notes", b.Notes).
		Set("aggregator", b.Aggregator).
		Set("external_id", b.ExternalID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build booking update", err)
	}
	tag, err := dbtx.Exec(ctx, sql, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}

	return r.replaceExtraServices(ctx, dbtx, b.ID, b.ExtraServices)
}

func (r *BookingRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	if dbtx == nil {
		dbtx = r.db
	}
	sql, args, err := qb.Delete("bookings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build booking delete", err)
	}
	tag, err := dbtx.Exec(ctx, sql, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, dbtx, squirrel.Eq{"id": id}, false)
}

// FindByIDForUpdate locks the booking row for the span of an update or delete
// transaction.
func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, dbtx, squirrel.Eq{"id": id}, true)
}

func (r *BookingRepository) findOne(ctx context.Context, dbtx db.DBTX, where squirrel.Eq, forUpdate bool) (*booking.Booking, error) {
	if dbtx == nil {
		dbtx = r.db
	}
	builder := qb.Select(bookingColumns...).From("bookings").Where(where)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking query", err)
	}

	b, err := scanBooking(dbtx.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	b.ExtraServices, err = r.loadExtraServices(ctx, dbtx, b.ID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ExistsBySequence answers the importer's duplicate check.
func (r *BookingRepository) ExistsBySequence(ctx context.Context, dbtx db.DBTX, seq int64) (bool, error) {
	if dbtx == nil {
		dbtx = r.db
	}
	var exists bool
	err := dbtx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM bookings WHERE sequence_number = $1)", seq).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check sequence number", err)
	}
	return exists, nil
}

// SlotTaken reports whether a non-cancelled booking references the slot.
func (r *BookingRepository) SlotTaken(ctx context.Context, dbtx db.DBTX, slotID uuid.UUID) (bool, error) {
	if dbtx == nil {
		dbtx = r.db
	}
	var taken bool
	err := dbtx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM bookings WHERE slot_id = $1 AND status <> 'cancelled')", slotID,
	).Scan(&taken)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check slot binding", err)
	}
	return taken, nil
}

// DueBooking is the sweeper's projection: an open booking with its slot time.
type DueBooking struct {
	ID        uuid.UUID
	Date      time.Time
	TimeOfDay string
}

// ListOpen returns slot-bound bookings that are neither completed nor
// cancelled, joined with their slot time of day.
func (r *BookingRepository) ListOpen(ctx context.Context) ([]DueBooking, error) {
	sql, args, err := qb.Select("b.id", "COALESCE(b.date, s.date)", "s.time_of_day").
		From("bookings b").
		Join("slots s ON s.id = b.slot_id").
		Where(squirrel.NotEq{"b.status": []string{
			string(booking.StatusCompleted), string(booking.StatusCancelled),
		}}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build open bookings query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list open bookings", err)
	}
	defer rows.Close()

	var out []DueBooking
	for rows.Next() {
		var d DueBooking
		if err := rows.Scan(&d.ID, &d.Date, &d.TimeOfDay); err != nil {
			return nil, infra.WrapRepoErr("failed to scan open booking", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// MarkCompleted advances the given bookings to the terminal completed state.
// Slot occupancy is deliberately untouched.
func (r *BookingRepository) MarkCompleted(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	sql, args, err := qb.Update("bookings").
		Set("status", string(booking.StatusCompleted)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build completion update", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark bookings completed", err)
	}
	return tag.RowsAffected(), nil
}

func (r *BookingRepository) loadExtraServices(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) ([]booking.ExtraService, error) {
	sql, args, err := qb.Select("id", "title", "price").
		From("booking_extra_services").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("title").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build extra services query", err)
	}
	rows, err := dbtx.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load extra services", err)
	}
	defer rows.Close()

	var out []booking.ExtraService
	for rows.Next() {
		var s booking.ExtraService
		if err := rows.Scan(&s.ID, &s.Title, &s.Price); err != nil {
			return nil, infra.WrapRepoErr("failed to scan extra service", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *BookingRepository) replaceExtraServices(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID, items []booking.ExtraService) error {
	delSQL, delArgs, err := qb.Delete("booking_extra_services").Where(squirrel.Eq{"booking_id": bookingID}).ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build extra services delete", err)
	}
	if _, err := dbtx.Exec(ctx, delSQL, delArgs...); err != nil {
		return infra.WrapRepoErr("failed to clear extra services", err)
	}
	if len(items) == 0 {
		return nil
	}

	ins := qb.Insert("booking_extra_services").Columns("id", "booking_id", "title", "price")
	for _, item := range items {
		id := item.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		ins = ins.Values(id, bookingID, item.Title, item.Price)
	}
	sql, args, err := ins.ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build extra services insert", err)
	}
	if _, err := dbtx.Exec(ctx, sql, args...); err != nil {
		return infra.WrapRepoErr("failed to insert extra services", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var b booking.Booking
	var paymentType, status string
	var promoCode, promoType *string
	var promoValue, promoAmount *int64

	err := row.Scan(
		&b.ID, &b.SequenceNumber, &b.QuestID, &b.SlotID,
		&b.Name, &b.Phone, &b.Email, &b.Date,
		&b.Participants, &b.ExtraCount, &b.TotalPrice, &paymentType,
		&promoCode, &promoType, &promoValue, &promoAmount,
		&status, &b.Notes, &b.Aggregator, &b.ExternalID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.PaymentType = booking.PaymentType(paymentType)
	b.Status = booking.Status(status)
	if promoCode != nil {
		b.Promo = &booking.PromoSnapshot{Code: *promoCode}
		if promoType != nil {
			b.Promo.DiscountType = promo.DiscountType(*promoType)
		}
		if promoValue != nil {
			b.Promo.DiscountValue = *promoValue
		}
		if promoAmount != nil {
			b.Promo.DiscountAmount = *promoAmount
		}
	}
	return &b, nil
}
