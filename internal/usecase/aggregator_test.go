//go:build unit

package usecase_test

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"testing"
	"time"

	"questbook/internal/domain/quest"
	"questbook/internal/domain/slot"
	"questbook/internal/infra"
	"questbook/internal/infra/db"
	"questbook/internal/pkg/clock"
	"questbook/internal/pkg/config"
	"questbook/internal/pkg/slotid"
	"questbook/internal/usecase"
	"questbook/internal/usecase/commands"
	"questbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuestRepo struct {
	quest *quest.Quest
}

func (f *fakeQuestRepo) FindBySlug(_ context.Context, _ db.DBTX, slug string) (*quest.Quest, error) {
	if f.quest == nil || f.quest.Slug != slug {
		return nil, infra.WrapRepoErr("quest not found", assert.AnError, infra.KindNotFound)
	}
	return f.quest, nil
}

func (f *fakeQuestRepo) ResolvePricing(_ context.Context, _ db.DBTX, q *quest.Quest) (*quest.Quest, error) {
	return q, nil
}

type fakeSlotRepo struct {
	slots []*slot.Slot
}

func (f *fakeSlotRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*slot.Slot, error) {
	for _, s := range f.slots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, infra.WrapRepoErr("slot not found", assert.AnError, infra.KindNotFound)
}

func (f *fakeSlotRepo) FindByQuestDateTime(_ context.Context, _ db.DBTX, questID uuid.UUID, date time.Time, timeOfDay string) (*slot.Slot, error) {
	for _, s := range f.slots {
		if s.QuestID == questID && s.Date.Equal(date) && s.TimeOfDay == timeOfDay {
			return s, nil
		}
	}
	return nil, infra.WrapRepoErr("slot not found", assert.AnError, infra.KindNotFound)
}

func (f *fakeSlotRepo) ListForRange(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*slot.Slot, error) {
	return f.slots, nil
}

func (f *fakeSlotRepo) Create(_ context.Context, _ db.DBTX, s *slot.Slot) error {
	s.ID = uuid.New()
	f.slots = append(f.slots, s)
	return nil
}

type fakeBookingCommands struct {
	created []commands.CreateBookingInput
	err     error
}

func (f *fakeBookingCommands) Create(_ context.Context, in commands.CreateBookingInput) (*queries.BookingView, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	return &queries.BookingView{ID: uuid.New()}, nil
}

func (f *fakeBookingCommands) Update(context.Context, uuid.UUID, commands.UpdateBookingInput) (*queries.BookingView, error) {
	return nil, nil
}

func (f *fakeBookingCommands) Delete(context.Context, uuid.UUID) error {
	return nil
}

func md5Of(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func newPartner(t *testing.T, cfg config.PartnerConfig, now time.Time, slots []*slot.Slot) (usecase.PartnerService, *fakeSlotRepo, *fakeBookingCommands) {
	t.Helper()

	q := &quest.Quest{ID: uuid.New(), Slug: "bunker", BasePrice: 3000, ParticipantsMin: 2}
	for _, s := range slots {
		s.QuestID = q.ID
	}
	slotRepo := &fakeSlotRepo{slots: slots}
	bookings := &fakeBookingCommands{}
	svc := usecase.NewPartnerService(nil, &fakeQuestRepo{quest: q}, slotRepo, bookings, cfg, clock.NewMockClock(now))
	return svc, slotRepo, bookings
}

func TestSchedule(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	inside := &slot.Slot{ID: uuid.New(), Date: day, TimeOfDay: "12:30", Price: 3000}
	sellable := &slot.Slot{ID: uuid.New(), Date: day, TimeOfDay: "18:00", Price: 3500, Occupied: true}

	svc, _, _ := newPartner(t, config.PartnerConfig{CutoffMinutes: 60, SlotIDFormat: slotid.FormatRaw}, now,
		[]*slot.Slot{inside, sellable})

	items, err := svc.Schedule(context.Background(), "bunker", 7)
	require.NoError(t, err)

	// The 12:30 slot starts inside the 60 minute cutoff and is dropped.
	require.Len(t, items, 1)
	assert.Equal(t, sellable.ID.String(), items[0].SlotID)
	assert.Equal(t, "18:00", items[0].Time)
	assert.Equal(t, int64(3500), items[0].Price)
	assert.False(t, items[0].Available)
}

func TestScheduleDateTimeFormat(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	s := &slot.Slot{ID: uuid.New(), Date: day, TimeOfDay: "14:00", Price: 3000}

	svc, _, _ := newPartner(t, config.PartnerConfig{CutoffMinutes: 60, SlotIDFormat: slotid.FormatDateTime}, now,
		[]*slot.Slot{s})

	items, err := svc.Schedule(context.Background(), "bunker", 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "202506021400", items[0].SlotID)
}

func TestScheduleUnknownQuest(t *testing.T) {
	svc, _, _ := newPartner(t, config.PartnerConfig{}, time.Now(), nil)

	_, err := svc.Schedule(context.Background(), "nope", 7)
	assert.ErrorIs(t, err, usecase.ErrQuestNotFound)
}

func TestTariff(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	s := &slot.Slot{ID: uuid.New(), Date: day, TimeOfDay: "14:00", Price: 4200}

	svc, _, _ := newPartner(t, config.PartnerConfig{SlotIDFormat: slotid.FormatRaw}, now, []*slot.Slot{s})

	tariffs, err := svc.Tariff(context.Background(), "bunker", s.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(3000), tariffs["base"])
	assert.Equal(t, int64(4200), tariffs["slot"])

	tariffs, err = svc.Tariff(context.Background(), "bunker", "")
	require.NoError(t, err)
	_, hasSlot := tariffs["slot"]
	assert.False(t, hasSlot)
}

func TestVerifyPrepay(t *testing.T) {
	svc, _, _ := newPartner(t, config.PartnerConfig{PrepaySecret: "s3cret"}, time.Now(), nil)

	good := md5Of("s3cret" + "ord-1" + "2500")
	assert.True(t, svc.VerifyPrepay("ord-1", "2500", good))
	assert.False(t, svc.VerifyPrepay("ord-1", "9999", good))
	assert.False(t, svc.VerifyPrepay("ord-1", "2500", "deadbeef"))
}

func TestVerifyPrepayWithoutSecret(t *testing.T) {
	svc, _, _ := newPartner(t, config.PartnerConfig{}, time.Now(), nil)
	assert.False(t, svc.VerifyPrepay("ord-1", "2500", md5Of("ord-12500")))
}

func TestSubmitOrderMaterializesDateTimeSlot(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	svc, slotRepo, bookings := newPartner(t,
		config.PartnerConfig{Tag: "questcatalog", CutoffMinutes: 60, SlotIDFormat: slotid.FormatDateTime}, now, nil)

	res, err := svc.SubmitOrder(context.Background(), "bunker", usecase.PartnerOrderInput{
		SlotID:       "202506021400",
		Name:         "Мария",
		Phone:        "79135550102",
		Participants: 3,
		ExternalID:   "ord-7",
	})
	require.NoError(t, err)
	require.True(t, res.OK)
	require.NotNil(t, res.BookingID)

	// The referenced grid cell did not exist and was created at base price.
	require.Len(t, slotRepo.slots, 1)
	assert.Equal(t, "14:00", slotRepo.slots[0].TimeOfDay)
	assert.Equal(t, int64(3000), slotRepo.slots[0].Price)

	require.Len(t, bookings.created, 1)
	in := bookings.created[0]
	assert.Equal(t, 3, in.Participants)
	require.NotNil(t, in.PaymentType)
	assert.Equal(t, "aggregator", *in.PaymentType)
	require.NotNil(t, in.AggregatorTag)
	assert.Equal(t, "questcatalog", *in.AggregatorTag)
	require.NotNil(t, in.ExternalID)
	assert.Equal(t, "ord-7", *in.ExternalID)
}

func TestSubmitOrderRejectsSlotInsideCutoff(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	past := &slot.Slot{ID: uuid.New(), Date: day, TimeOfDay: "10:00", Price: 3000}

	svc, _, bookings := newPartner(t,
		config.PartnerConfig{CutoffMinutes: 60, SlotIDFormat: slotid.FormatRaw}, now, []*slot.Slot{past})

	res, err := svc.SubmitOrder(context.Background(), "bunker", usecase.PartnerOrderInput{
		SlotID:       past.ID.String(),
		Name:         "Мария",
		Phone:        "79135550102",
		Participants: 2,
	})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "slot time has passed", res.Message)
	assert.Empty(t, bookings.created)
}

func TestSubmitOrderIgnoresForeignQuestSlotID(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	foreign := &slot.Slot{ID: uuid.New(), Date: day, TimeOfDay: "14:00", Price: 3000}

	svc, _, bookings := newPartner(t,
		config.PartnerConfig{CutoffMinutes: 60, SlotIDFormat: slotid.FormatRaw}, now, []*slot.Slot{foreign})
	foreign.QuestID = uuid.New() // belongs to another quest

	res, err := svc.SubmitOrder(context.Background(), "bunker", usecase.PartnerOrderInput{
		SlotID:       foreign.ID.String(),
		Name:         "Мария",
		Phone:        "79135550102",
		Participants: 2,
	})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "slot not found", res.Message)
	assert.Empty(t, bookings.created)
}

func TestSubmitOrderDefaultsParticipants(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	s := &slot.Slot{ID: uuid.New(), Date: day, TimeOfDay: "14:00", Price: 3000}

	svc, _, bookings := newPartner(t,
		config.PartnerConfig{CutoffMinutes: 60, SlotIDFormat: slotid.FormatRaw}, now, []*slot.Slot{s})

	res, err := svc.SubmitOrder(context.Background(), "bunker", usecase.PartnerOrderInput{
		SlotID: s.ID.String(),
		Name:   "Мария",
		Phone:  "79135550102",
	})
	require.NoError(t, err)
	require.True(t, res.OK)

	// An omitted player count books the smallest allowed group.
	require.Len(t, bookings.created, 1)
	assert.Equal(t, 2, bookings.created[0].Participants)
}

func TestSubmitOrderSignature(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	s := &slot.Slot{ID: uuid.New(), Date: day, TimeOfDay: "14:00", Price: 3000}

	svc, _, _ := newPartner(t,
		config.PartnerConfig{CutoffMinutes: 60, SlotIDFormat: slotid.FormatRaw, OrderSecret: "s3cret"}, now, []*slot.Slot{s})

	in := usecase.PartnerOrderInput{
		SlotID:       s.ID.String(),
		Name:         "Мария",
		Phone:        "79135550102",
		Email:        "m@mail.ru",
		Participants: 2,
	}

	in.Signature = "deadbeef"
	_, err := svc.SubmitOrder(context.Background(), "bunker", in)
	assert.ErrorIs(t, err, usecase.ErrBadSignature)

	in.Signature = md5Of("Мария" + "79135550102" + "m@mail.ru" + "s3cret")
	res, err := svc.SubmitOrder(context.Background(), "bunker", in)
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestSubmitOrderDeclinesTakenSlot(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	s := &slot.Slot{ID: uuid.New(), Date: day, TimeOfDay: "14:00", Price: 3000}

	svc, _, bookings := newPartner(t,
		config.PartnerConfig{CutoffMinutes: 60, SlotIDFormat: slotid.FormatRaw}, now, []*slot.Slot{s})
	bookings.err = commands.ErrSlotAlreadyBooked

	res, err := svc.SubmitOrder(context.Background(), "bunker", usecase.PartnerOrderInput{
		SlotID:       s.ID.String(),
		Name:         "Мария",
		Phone:        "79135550102",
		Participants: 2,
	})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "slot is already booked", res.Message)
}
