package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"questbook/internal/domain/booking"
	"questbook/internal/domain/promo"
	"questbook/internal/infra"
	"questbook/internal/infra/db"
	"questbook/internal/infra/metrics"
	"questbook/internal/pkg/clock"
	"questbook/internal/pkg/contact"
	"questbook/internal/pkg/errs"
	"questbook/internal/pkg/patch"
	"questbook/internal/usecase/queries"
)

var (
	ErrQuestNotFound          = errs.New("quest not found")
	ErrSlotNotFound           = errs.New("slot not found")
	ErrSlotAlreadyBooked      = errs.New("slot already booked")
	ErrBookingNotFound        = errs.New("booking not found")
	ErrBookingBlocked         = errs.New("booking rejected")
	ErrParticipantsOutOfRange = errs.New("participants count out of range")
	ErrInvalidPayment         = errs.New("invalid payment type")
	ErrInvalidStatus          = errs.New("invalid booking status")
	ErrDatabaseFailed         = errs.New("database operation failed")
)

type ExtraItem struct {
	Title string
	Price int64
}

type CreateBookingInput struct {
	QuestID         *uuid.UUID
	SlotID          *uuid.UUID
	Name            string
	Phone           string
	Email           *string
	Date            *time.Time
	Participants    int
	ExtraServiceIDs []uuid.UUID
	ExtraItems      []ExtraItem
	PaymentType     *string
	PromoCode       *string
	AggregatorTag   *string
	ExternalID      *string
	Notes           string
	AdminOrigin     bool
}

type UpdateBookingInput struct {
	Name            *string
	Phone           *string
	Email           *string // explicit empty clears
	Date            *time.Time
	Participants    *int
	ExtraServiceIDs *[]uuid.UUID
	ExtraItems      *[]ExtraItem
	PaymentType     *string
	PromoCode       *string // explicit empty clears
	Status          *string
	Notes           *string
	TotalOverride   *int64 // applied after recompute, takes precedence
}

type BookingCommands interface {
	Create(ctx context.Context, in CreateBookingInput) (*queries.BookingView, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateBookingInput) (*queries.BookingView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookingCommandsImpl struct {
	db           DB
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	questRepo    QuestRepository
	promoRepo    PromoRepository
	extraRepo    ExtraServiceRepository
	sequenceRepo SequenceRepository
	gate         queries.BlacklistGate
	bookingViews queries.BookingQueries
	notifier     Notifier
	clock        clock.Clock
}

func NewBookingCommands(
	pool DB,
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	questRepo QuestRepository,
	promoRepo PromoRepository,
	extraRepo ExtraServiceRepository,
	sequenceRepo SequenceRepository,
	gate queries.BlacklistGate,
	bookingViews queries.BookingQueries,
	notifier Notifier,
	clk clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		db:           pool,
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		questRepo:    questRepo,
		promoRepo:    promoRepo,
		extraRepo:    extraRepo,
		sequenceRepo: sequenceRepo,
		gate:         gate,
		bookingViews: bookingViews,
		notifier:     notifier,
		clock:        clk,
	}
}

// Create runs the whole creation algorithm inside one transaction: slot lock
// and occupancy check, quest resolution, blacklist gate, participant range,
// pricing, promo, sequence number, persist, flip the slot. The partial unique
// index on bookings(slot_id) catches whatever the row lock misses.
func (u *bookingCommandsImpl) Create(ctx context.Context, in CreateBookingInput) (*queries.BookingView, error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	b, err := u.buildBooking(ctx, tx, in)
	if err != nil {
		return nil, err
	}

	seq, err := u.sequenceRepo.Next(ctx, tx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}
	b.SequenceNumber = seq

	if err := u.bookingRepo.Create(ctx, tx, b); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			metrics.SlotConflicts.Inc()
			return nil, ErrSlotAlreadyBooked
		}
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}
	if b.SlotID != nil {
		if err := u.slotRepo.SetOccupied(ctx, tx, *b.SlotID, true); err != nil {
			return nil, errs.Mark(err, ErrDatabaseFailed)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}

	metrics.BookingsCreated.WithLabelValues(channelOf(in)).Inc()
	u.notifier.BookingCreated(b.ID, b.SequenceNumber)

	return u.bookingViews.GetByID(ctx, b.ID)
}

func channelOf(in CreateBookingInput) string {
	switch {
	case in.AggregatorTag != nil && *in.AggregatorTag != "":
		return "aggregator"
	case in.AdminOrigin:
		return "admin"
	default:
		return "site"
	}
}

func (u *bookingCommandsImpl) buildBooking(ctx context.Context, tx db.DBTX, in CreateBookingInput) (*booking.Booking, error) {
	now := u.clock.Now()

	b := &booking.Booking{
		Aggregator: emptyToNil(in.AggregatorTag),
		ExternalID: emptyToNil(in.ExternalID),
	}

	var slotPrice *int64
	var slotQuestID *uuid.UUID
	var bookingDate *time.Time

	if in.SlotID != nil {
		s, err := u.slotRepo.FindByIDForUpdate(ctx, tx, *in.SlotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrSlotNotFound
			}
			return nil, errs.Mark(err, ErrDatabaseFailed)
		}
		if s.Occupied {
			metrics.SlotConflicts.Inc()
			return nil, ErrSlotAlreadyBooked
		}
		slotPrice = &s.Price
		slotQuestID = &s.QuestID
		d := s.Date
		bookingDate = &d
	}
	if in.Date != nil {
		bookingDate = in.Date
	}

	questID := in.QuestID
	if questID == nil {
		questID = slotQuestID
	}
	if questID == nil {
		return nil, ErrQuestNotFound
	}
	q, err := u.questRepo.FindByID(ctx, tx, *questID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrQuestNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}

	fromAggregator := b.FromAggregator()
	if !in.AdminOrigin {
		email := ""
		if in.Email != nil {
			email = *in.Email
		}
		blocked, err := u.gate.IsBookingBlocked(ctx, in.Phone, email, fromAggregator)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseFailed)
		}
		if blocked {
			return nil, ErrBookingBlocked
		}
	}

	pricingQuest, err := u.questRepo.ResolvePricing(ctx, tx, q)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}

	if err := booking.ValidateParticipants(pricingQuest, in.Participants); err != nil {
		return nil, errs.Mark(err, ErrParticipantsOutOfRange)
	}

	paymentType := booking.PaymentCash
	if in.PaymentType != nil && *in.PaymentType != "" {
		paymentType = booking.PaymentType(*in.PaymentType)
		if !paymentType.IsValid() {
			return nil, ErrInvalidPayment
		}
	}
	if fromAggregator && in.PaymentType == nil {
		paymentType = booking.PaymentAggregator
	}

	extras, err := u.resolveExtras(ctx, tx, in.ExtraServiceIDs, in.ExtraItems)
	if err != nil {
		return nil, err
	}

	code, err := u.lookupPromo(ctx, tx, in.PromoCode, now)
	if err != nil {
		return nil, err
	}

	quote := booking.ComputeQuote(pricingQuest, slotPrice, in.Participants, extras, paymentType, code, now)

	b.QuestID = &q.ID
	b.SlotID = in.SlotID
	b.Name = strings.TrimSpace(in.Name)
	b.Phone = normalizePhoneOrRaw(in.Phone)
	b.Email = normalizeEmailPtr(in.Email)
	b.Date = bookingDate
	b.Participants = in.Participants
	b.ExtraCount = quote.ExtraCount
	b.TotalPrice = quote.Total
	b.PaymentType = paymentType
	b.Promo = quote.Promo
	b.Status = booking.StatusPending
	b.Notes = strings.TrimSpace(in.Notes)
	b.ExtraServices = extras
	b.CreatedAt = now
	b.UpdatedAt = now
	return b, nil
}

// Update applies only present fields. Changes to participants, payment type,
// promo or extra services re-run the pricing steps against the current
// quest/slot; an explicit total override wins over the recompute. Moving into
// cancelled releases the bound slot.
func (u *bookingCommandsImpl) Update(ctx context.Context, id uuid.UUID, in UpdateBookingInput) (*queries.BookingView, error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	b, err := u.bookingRepo.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}

	wasCancelled := b.Status == booking.StatusCancelled
	needsRecompute := false

	b.Name = strings.TrimSpace(patch.Coalesce(in.Name, b.Name))
	b.Notes = strings.TrimSpace(patch.Coalesce(in.Notes, b.Notes))
	if in.Phone != nil {
		b.Phone = normalizePhoneOrRaw(*in.Phone)
	}
	if in.Email != nil {
		b.Email = normalizeEmailPtr(in.Email)
	}
	if in.Date != nil {
		b.Date = in.Date
	}
	if patch.Set(&b.Participants, in.Participants) {
		needsRecompute = true
	}
	if in.PaymentType != nil {
		pt := booking.PaymentType(*in.PaymentType)
		if !pt.IsValid() {
			return nil, ErrInvalidPayment
		}
		b.PaymentType = pt
		needsRecompute = true
	}
	if in.PromoCode != nil {
		needsRecompute = true
	}
	if in.ExtraServiceIDs != nil || in.ExtraItems != nil {
		var ids []uuid.UUID
		if in.ExtraServiceIDs != nil {
			ids = *in.ExtraServiceIDs
		}
		var items []ExtraItem
		if in.ExtraItems != nil {
			items = *in.ExtraItems
		}
		extras, err := u.resolveExtras(ctx, tx, ids, items)
		if err != nil {
			return nil, err
		}
		b.ExtraServices = extras
		needsRecompute = true
	}

	if in.Status != nil {
		st := booking.Status(*in.Status)
		if !st.IsValid() {
			return nil, ErrInvalidStatus
		}
		if st != b.Status {
			// Completed and cancelled are final: a booking never leaves
			// them, so occupancy release stays one-way.
			if b.Status.IsTerminal() {
				return nil, ErrInvalidStatus
			}
			if st == booking.StatusCancelled {
				if err := b.Cancel(); err != nil {
					return nil, errs.Mark(err, ErrInvalidStatus)
				}
			} else {
				b.Status = st
			}
		}
	}

	if needsRecompute {
		if err := u.recompute(ctx, tx, b, in.PromoCode); err != nil {
			return nil, err
		}
	}
	if in.TotalOverride != nil {
		b.TotalPrice = *in.TotalOverride
	}

	if b.Status == booking.StatusCancelled && !wasCancelled && b.SlotID != nil {
		if err := u.slotRepo.SetOccupied(ctx, tx, *b.SlotID, false); err != nil {
			return nil, errs.Mark(err, ErrDatabaseFailed)
		}
	}

	if err := u.bookingRepo.Update(ctx, tx, b); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			metrics.SlotConflicts.Inc()
			return nil, ErrSlotAlreadyBooked
		}
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}

	return u.bookingViews.GetByID(ctx, id)
}

// Delete removes the booking and releases its slot in one transaction.
func (u *bookingCommandsImpl) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return errs.Mark(err, ErrDatabaseFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	b, err := u.bookingRepo.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBookingNotFound
		}
		return errs.Mark(err, ErrDatabaseFailed)
	}

	if b.SlotID != nil && b.Status != booking.StatusCancelled {
		if err := u.slotRepo.SetOccupied(ctx, tx, *b.SlotID, false); err != nil {
			return errs.Mark(err, ErrDatabaseFailed)
		}
	}
	if err := u.bookingRepo.Delete(ctx, tx, id); err != nil {
		return errs.Mark(err, ErrDatabaseFailed)
	}
	return errs.Mark(tx.Commit(ctx), ErrDatabaseFailed)
}

// recompute re-runs the pricing and promo steps of creation using the
// booking's current quest and slot.
func (u *bookingCommandsImpl) recompute(ctx context.Context, tx db.DBTX, b *booking.Booking, promoCode *string) error {
	if b.QuestID == nil {
		return nil
	}
	q, err := u.questRepo.FindByID(ctx, tx, *b.QuestID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrQuestNotFound
		}
		return errs.Mark(err, ErrDatabaseFailed)
	}
	pricingQuest, err := u.questRepo.ResolvePricing(ctx, tx, q)
	if err != nil {
		return errs.Mark(err, ErrDatabaseFailed)
	}
	if err := booking.ValidateParticipants(pricingQuest, b.Participants); err != nil {
		return errs.Mark(err, ErrParticipantsOutOfRange)
	}

	var slotPrice *int64
	if b.SlotID != nil {
		s, err := u.slotRepo.FindByIDForUpdate(ctx, tx, *b.SlotID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseFailed)
		}
		slotPrice = &s.Price
	}

	now := u.clock.Now()
	codeStr := promoCode
	if codeStr == nil && b.Promo != nil {
		codeStr = &b.Promo.Code
	}
	code, err := u.lookupPromo(ctx, tx, codeStr, now)
	if err != nil {
		return err
	}

	quote := booking.ComputeQuote(pricingQuest, slotPrice, b.Participants, b.ExtraServices, b.PaymentType, code, now)
	b.ExtraCount = quote.ExtraCount
	b.TotalPrice = quote.Total
	b.Promo = quote.Promo
	return nil
}

// lookupPromo resolves a code string to a usable promo. Unknown or unusable
// codes are not errors, they simply apply no discount.
func (u *bookingCommandsImpl) lookupPromo(ctx context.Context, tx db.DBTX, codeStr *string, now time.Time) (*promo.Code, error) {
	if codeStr == nil || strings.TrimSpace(*codeStr) == "" {
		return nil, nil
	}
	code, err := u.promoRepo.FindByCode(ctx, tx, *codeStr)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}
	if !code.IsUsable(now) {
		return nil, nil
	}
	return code, nil
}

func (u *bookingCommandsImpl) resolveExtras(ctx context.Context, tx db.DBTX, ids []uuid.UUID, items []ExtraItem) ([]booking.ExtraService, error) {
	extras, err := u.extraRepo.FindByIDs(ctx, tx, ids)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		extras = append(extras, booking.ExtraService{Title: title, Price: item.Price})
	}
	return extras, nil
}

func normalizePhoneOrRaw(raw string) string {
	if p := contact.NormalizePhone(raw); p != "" {
		return p
	}
	return strings.TrimSpace(raw)
}

func normalizeEmailPtr(email *string) *string {
	if email == nil {
		return nil
	}
	e := contact.NormalizeEmail(*email)
	if e == "" {
		trimmed := strings.TrimSpace(*email)
		if trimmed == "" {
			return nil
		}
		return &trimmed
	}
	return &e
}
