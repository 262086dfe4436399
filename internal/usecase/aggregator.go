package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"questbook/internal/domain/booking"
	"questbook/internal/domain/quest"
	"questbook/internal/domain/slot"
	"questbook/internal/infra"
	"questbook/internal/infra/db"
	"questbook/internal/pkg/clock"
	"questbook/internal/pkg/config"
	"questbook/internal/pkg/errs"
	"questbook/internal/pkg/slotid"
	"questbook/internal/usecase/commands"
)

var (
	ErrQuestNotFound    = errs.New("quest not found")
	ErrSlotUnresolvable = errs.New("slot could not be resolved")
	ErrBadSignature     = errs.New("order signature mismatch")
)

// PartnerQuestRepo and PartnerSlotRepo are the read/write surface the partner
// facade needs; satisfied by the pgx repositories with the pool as executor.
type PartnerQuestRepo interface {
	FindBySlug(ctx context.Context, dbtx db.DBTX, slug string) (*quest.Quest, error)
	ResolvePricing(ctx context.Context, dbtx db.DBTX, q *quest.Quest) (*quest.Quest, error)
}

type PartnerSlotRepo interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*slot.Slot, error)
	FindByQuestDateTime(ctx context.Context, dbtx db.DBTX, questID uuid.UUID, date time.Time, timeOfDay string) (*slot.Slot, error)
	ListForRange(ctx context.Context, questID uuid.UUID, from, to time.Time) ([]*slot.Slot, error)
	Create(ctx context.Context, dbtx db.DBTX, s *slot.Slot) error
}

type ScheduleItem struct {
	SlotID    string `json:"slot_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Price     int64  `json:"price"`
	Available bool   `json:"available"`
}

type PartnerOrderInput struct {
	SlotID       string
	Date         *time.Time
	TimeOfDay    string
	Name         string
	Phone        string
	Email        string
	Participants int
	Comment      string
	ExternalID   string
	Signature    string
}

// PartnerOrderResult reports order acceptance in the partner's convention: a
// declined order is a normal response with a human-readable message, not a
// transport error.
type PartnerOrderResult struct {
	OK        bool       `json:"success"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	Message   string     `json:"message,omitempty"`
}

type PartnerService interface {
	Schedule(ctx context.Context, slug string, days int) ([]ScheduleItem, error)
	SubmitOrder(ctx context.Context, slug string, in PartnerOrderInput) (*PartnerOrderResult, error)
	Tariff(ctx context.Context, slug, externalSlotID string) (map[string]int64, error)
	VerifyPrepay(orderID, amount, signature string) bool
}

type partnerServiceImpl struct {
	pool     db.DBTX
	quests   PartnerQuestRepo
	slots    PartnerSlotRepo
	bookings commands.BookingCommands
	cfg      config.PartnerConfig
	clock    clock.Clock
}

func NewPartnerService(pool db.DBTX, quests PartnerQuestRepo, slots PartnerSlotRepo, bookings commands.BookingCommands, cfg config.PartnerConfig, clk clock.Clock) PartnerService {
	return &partnerServiceImpl{
		pool:     pool,
		quests:   quests,
		slots:    slots,
		bookings: bookings,
		cfg:      cfg,
		clock:    clk,
	}
}

// Schedule lists sellable slots for a quest. Slots starting inside the cutoff
// window are omitted entirely so the partner cannot sell a game nobody can
// reach in time.
func (s *partnerServiceImpl) Schedule(ctx context.Context, slug string, days int) ([]ScheduleItem, error) {
	q, err := s.findQuest(ctx, slug)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 14
	}

	now := s.clock.Now()
	from := now.Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, days)
	slots, err := s.slots.ListForRange(ctx, q.ID, from, to)
	if err != nil {
		return nil, err
	}

	cutoff := now.Add(time.Duration(s.cfg.CutoffMinutes) * time.Minute)
	items := make([]ScheduleItem, 0, len(slots))
	for _, sl := range slots {
		start, err := sl.StartsAt(time.UTC)
		if err != nil {
			continue
		}
		if !start.After(cutoff) {
			continue
		}
		id, err := slotid.Encode(s.cfg.SlotIDFormat, sl.ID, sl.Date, sl.TimeOfDay)
		if err != nil {
			return nil, err
		}
		items = append(items, ScheduleItem{
			SlotID:    id,
			Date:      sl.Date.Format("2006-01-02"),
			Time:      sl.TimeOfDay,
			Price:     sl.Price,
			Available: !sl.Occupied,
		})
	}
	return items, nil
}

// SubmitOrder accepts a partner reservation. Slot resolution tries the
// external id first (raw uuid, then the numeric date-time form), falling back
// to explicit date and time fields; a date-time reference to a slot the grid
// has not materialized yet creates it at the quest's base price.
func (s *partnerServiceImpl) SubmitOrder(ctx context.Context, slug string, in PartnerOrderInput) (*PartnerOrderResult, error) {
	if !s.verifyOrderSignature(in) {
		return nil, ErrBadSignature
	}
	q, err := s.findQuest(ctx, slug)
	if err != nil {
		return nil, err
	}

	sl, err := s.resolveSlot(ctx, q, in)
	if err != nil {
		if errors.Is(err, ErrSlotUnresolvable) {
			return &PartnerOrderResult{OK: false, Message: "slot not found"}, nil
		}
		return nil, err
	}

	// Orders obey the same cutoff as the schedule feed: a slot starting
	// inside the window is no longer sellable.
	cutoff := s.clock.Now().Add(time.Duration(s.cfg.CutoffMinutes) * time.Minute)
	start, err := sl.StartsAt(time.UTC)
	if err != nil || !start.After(cutoff) {
		return &PartnerOrderResult{OK: false, Message: "slot time has passed"}, nil
	}

	// The partner may omit the player count; charge the smallest group.
	participants := in.Participants
	if participants <= 0 {
		pricing, err := s.quests.ResolvePricing(ctx, s.pool, q)
		if err != nil {
			return nil, err
		}
		participants = pricing.ParticipantsMin
	}

	tag := s.cfg.Tag
	email := emptyTrimmedToNil(in.Email)
	external := emptyTrimmedToNil(in.ExternalID)
	payment := string(booking.PaymentAggregator)

	view, err := s.bookings.Create(ctx, commands.CreateBookingInput{
		QuestID:       &q.ID,
		SlotID:        &sl.ID,
		Name:          in.Name,
		Phone:         in.Phone,
		Email:         email,
		Participants:  participants,
		PaymentType:   &payment,
		AggregatorTag: &tag,
		ExternalID:    external,
		Notes:         in.Comment,
	})
	if err != nil {
		if msg, declined := declineMessage(err); declined {
			return &PartnerOrderResult{OK: false, Message: msg}, nil
		}
		return nil, err
	}
	return &PartnerOrderResult{OK: true, BookingID: &view.ID}, nil
}

// Tariff exposes the price ladder for one quest, optionally resolved down to
// a concrete slot.
func (s *partnerServiceImpl) Tariff(ctx context.Context, slug, externalSlotID string) (map[string]int64, error) {
	q, err := s.findQuest(ctx, slug)
	if err != nil {
		return nil, err
	}
	pricing, err := s.quests.ResolvePricing(ctx, s.pool, q)
	if err != nil {
		return nil, err
	}

	out := map[string]int64{
		"base":              pricing.BasePrice,
		"extra_participant": pricing.ExtraParticipantPrice,
	}
	if externalSlotID != "" {
		if sl, err := s.lookupSlot(ctx, pricing, externalSlotID); err == nil {
			out["slot"] = sl.Price
		}
	}
	return out, nil
}

// VerifyPrepay checks the partner's prepayment callback signature:
// md5(secret + orderID + amount). An unset secret rejects everything.
func (s *partnerServiceImpl) VerifyPrepay(orderID, amount, signature string) bool {
	if s.cfg.PrepaySecret == "" {
		return false
	}
	expect := md5Hex(s.cfg.PrepaySecret + orderID + amount)
	return strings.EqualFold(signature, expect)
}

func (s *partnerServiceImpl) findQuest(ctx context.Context, slug string) (*quest.Quest, error) {
	q, err := s.quests.FindBySlug(ctx, s.pool, slug)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrQuestNotFound)
		}
		return nil, err
	}
	return q, nil
}

func (s *partnerServiceImpl) resolveSlot(ctx context.Context, q *quest.Quest, in PartnerOrderInput) (*slot.Slot, error) {
	if sl, err := s.lookupSlot(ctx, q, in.SlotID); err == nil {
		return sl, nil
	} else if !errors.Is(err, ErrSlotUnresolvable) {
		return nil, err
	}

	// Fall back to explicit fields, materializing the slot when the partner
	// references a grid cell that does not exist yet.
	if in.Date == nil || in.TimeOfDay == "" {
		return nil, ErrSlotUnresolvable
	}
	timeOfDay, err := slot.NormalizeTimeOfDay(in.TimeOfDay)
	if err != nil {
		return nil, ErrSlotUnresolvable
	}
	return s.materialize(ctx, q, *in.Date, timeOfDay)
}

// lookupSlot resolves an external slot id against existing slots only.
func (s *partnerServiceImpl) lookupSlot(ctx context.Context, q *quest.Quest, externalID string) (*slot.Slot, error) {
	dec := slotid.Decode(externalID)
	switch dec.Kind {
	case slotid.KindRaw:
		sl, err := s.slots.FindByID(ctx, s.pool, dec.ID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrSlotUnresolvable
			}
			return nil, err
		}
		// A raw id counts only when the slot belongs to the addressed
		// quest; otherwise fall through to the explicit fields.
		if sl.QuestID != q.ID {
			return nil, ErrSlotUnresolvable
		}
		return sl, nil
	case slotid.KindDateTime:
		return s.materialize(ctx, q, dec.Date, dec.TimeOfDay)
	default:
		return nil, ErrSlotUnresolvable
	}
}

func (s *partnerServiceImpl) materialize(ctx context.Context, q *quest.Quest, date time.Time, timeOfDay string) (*slot.Slot, error) {
	sl, err := s.slots.FindByQuestDateTime(ctx, s.pool, q.ID, date, timeOfDay)
	if err == nil {
		return sl, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, err
	}

	pricing, err := s.quests.ResolvePricing(ctx, s.pool, q)
	if err != nil {
		return nil, err
	}
	sl = &slot.Slot{
		QuestID:   q.ID,
		Date:      date,
		TimeOfDay: timeOfDay,
		Price:     pricing.BasePrice,
	}
	if err := s.slots.Create(ctx, s.pool, sl); err != nil {
		// A concurrent order may have created the same cell.
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return s.slots.FindByQuestDateTime(ctx, s.pool, q.ID, date, timeOfDay)
		}
		return nil, err
	}
	return sl, nil
}

// verifyOrderSignature checks md5(name + phone + email + secret). An empty
// configured secret disables verification for partners that do not sign.
func (s *partnerServiceImpl) verifyOrderSignature(in PartnerOrderInput) bool {
	if s.cfg.OrderSecret == "" {
		return true
	}
	expect := md5Hex(in.Name + in.Phone + in.Email + s.cfg.OrderSecret)
	return strings.EqualFold(in.Signature, expect)
}

// declineMessage maps business rejections onto the partner's free-text error
// channel. Anything else stays an internal error.
func declineMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, commands.ErrSlotAlreadyBooked):
		return "slot is already booked", true
	case errors.Is(err, commands.ErrBookingBlocked):
		return "booking rejected", true
	case errors.Is(err, commands.ErrParticipantsOutOfRange):
		return "participant count is out of range", true
	case errors.Is(err, commands.ErrSlotNotFound):
		return "slot not found", true
	default:
		return "", false
	}
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func emptyTrimmedToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
