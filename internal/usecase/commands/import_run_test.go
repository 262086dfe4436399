//go:build unit

package commands

import (
	"context"
	"strings"
	"testing"
	"time"

	"questbook/internal/domain/booking"
	"questbook/internal/domain/quest"
	"questbook/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importHeader = "id;created;quest;name;phone;email;date;time;price;participants;payment;status;comment"

func importExport(rows ...string) string {
	return importHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

type importFixture struct {
	bookings *fakeBookingStore
	slots    *fakeSlotStore
	quests   *fakeQuestStore
	sequence *fakeSequence
	svc      ImportCommands
}

func newImportFixture(now time.Time) *importFixture {
	q := &quest.Quest{ID: uuid.New(), Slug: "bunker", BasePrice: 2000}
	f := &importFixture{
		bookings: newFakeBookingStore(),
		slots:    newFakeSlotStore(),
		quests:   newFakeQuestStore(q),
		sequence: &fakeSequence{},
	}
	f.svc = NewImportCommands(&fakeDB{}, f.bookings, f.slots, f.quests, f.sequence, "questcatalog", clock.NewMockClock(now))
	return f
}

func (f *importFixture) bySequence(t *testing.T, seq int64) *booking.Booking {
	t.Helper()
	for _, b := range f.bookings.bookings {
		if b.SequenceNumber == seq {
			return b
		}
	}
	t.Fatalf("no booking with sequence %d", seq)
	return nil
}

func TestImportRun(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newImportFixture(now)

	// A legacy booking with sequence 50 already migrated earlier.
	require.NoError(t, f.bookings.Create(context.Background(), nil, &booking.Booking{SequenceNumber: 50}))

	raw := importExport(
		"101;05.03.2024 18:30;bunker;Иван Петров;8 (913) 555-01-02;;2024-03-10;18:00;3000;2;1;;",
		"101;05.03.2024 18:30;bunker;Иван Петров;8 (913) 555-01-02;;2024-03-10;18:00;3000;2;1;;",
		"50;05.03.2024 10:00;bunker;Старая запись;79000000000;;2024-03-11;12:00;;2;1;;",
		";;;;;;;;;;;;",
		"103;05.03.2024 10:00;bunker;Без контактов;;;2024-03-11;12:00;;2;1;;",
		"102;01.02.2024 09:15;bunker;Мария;;maria(at)mail(dot)ru;2024-03-12;20:00;;3;3;Отменён;перенос даты",
	)

	res, err := f.svc.Run(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 6, res.Processed)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Duplicates)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, res.Processed, res.Imported+res.Skipped+res.Duplicates)
	assert.Len(t, res.Issues, 4)

	// The sequence counter never falls behind the highest imported id.
	assert.Equal(t, int64(102), f.sequence.advanced)

	imported := f.bySequence(t, 101)
	assert.Equal(t, "79135550102", imported.Phone)
	assert.Equal(t, booking.StatusConfirmed, imported.Status)
	assert.Equal(t, booking.PaymentCash, imported.PaymentType)
	assert.Equal(t, int64(3000), imported.TotalPrice)
	assert.Equal(t, time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC), imported.CreatedAt)
	require.NotNil(t, imported.SlotID)
	assert.True(t, f.slots.slots[*imported.SlotID].Occupied)

	cancelled := f.bySequence(t, 102)
	assert.Equal(t, booking.StatusCancelled, cancelled.Status)
	assert.Equal(t, booking.PaymentAggregator, cancelled.PaymentType)
	require.NotNil(t, cancelled.Aggregator)
	assert.Equal(t, "questcatalog", *cancelled.Aggregator)
	// Cancelled history never occupies its slot; the lazily created slot
	// carries the quest base price.
	require.NotNil(t, cancelled.SlotID)
	assert.False(t, f.slots.slots[*cancelled.SlotID].Occupied)
	assert.Equal(t, int64(2000), cancelled.TotalPrice)
}

func TestImportRunIsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newImportFixture(now)

	raw := importExport(
		"101;05.03.2024 18:30;bunker;Иван Петров;8 (913) 555-01-02;;2024-03-10;18:00;3000;2;1;;",
		"102;01.02.2024 09:15;bunker;Мария;;maria@mail.ru;2024-03-12;20:00;;3;1;;",
	)

	first, err := f.svc.Run(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, 2, first.Imported)

	second, err := f.svc.Run(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Processed)
	assert.Zero(t, second.Imported)
	assert.Equal(t, 2, second.Duplicates)
	assert.Equal(t, second.Processed, second.Imported+second.Skipped+second.Duplicates)
	assert.Len(t, f.bookings.bookings, 2)
}
