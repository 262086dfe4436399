package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"questbook/internal/domain/booking"
	"questbook/internal/domain/quest"
	"questbook/internal/domain/slot"
	"questbook/internal/infra"
	"questbook/internal/infra/db"
	"questbook/internal/infra/metrics"
	"questbook/internal/pkg/clock"
	"questbook/internal/pkg/errs"
	"questbook/internal/pkg/legacy"
)

// Column names of the legacy export. The reader lower-cases headers.
const (
	colID           = "id"
	colCreated      = "created"
	colQuest        = "quest"
	colName         = "name"
	colPhone        = "phone"
	colEmail        = "email"
	colDate         = "date"
	colTime         = "time"
	colPrice        = "price"
	colParticipants = "participants"
	colPayment      = "payment"
	colStatus       = "status"
	colComment      = "comment"
)

// Day-first layouts for the legacy created-at column.
var createdAtLayouts = []string{
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ISO-like layouts for the booking date column.
var bookingDateLayouts = []string{
	"2006-01-02",
	"2006.01.02",
	"02.01.2006",
}

// Legacy numeric payment codes. Code 3 marks rows that originally arrived
// through the reservation partner.
const aggregatorPaymentCode = 3

type ImportIssue struct {
	Row      int    `json:"row"`
	LegacyID *int64 `json:"legacy_id,omitempty"`
	Reason   string `json:"reason"`
}

type ImportResult struct {
	Processed  int           `json:"processed"`
	Imported   int           `json:"imported"`
	Skipped    int           `json:"skipped"`
	Duplicates int           `json:"duplicates"`
	Issues     []ImportIssue `json:"issues,omitempty"`
}

type ImportCommands interface {
	Run(ctx context.Context, raw string) (*ImportResult, error)
}

type importCommandsImpl struct {
	db            DB
	bookingRepo   BookingRepository
	slotRepo      SlotRepository
	questRepo     QuestRepository
	sequenceRepo  SequenceRepository
	aggregatorTag string
	clock         clock.Clock
}

func NewImportCommands(pool DB, bookingRepo BookingRepository, slotRepo SlotRepository, questRepo QuestRepository, sequenceRepo SequenceRepository, aggregatorTag string, clk clock.Clock) ImportCommands {
	return &importCommandsImpl{
		db:            pool,
		bookingRepo:   bookingRepo,
		slotRepo:      slotRepo,
		questRepo:     questRepo,
		sequenceRepo:  sequenceRepo,
		aggregatorTag: aggregatorTag,
		clock:         clk,
	}
}

// Run reconciles a legacy export. Rows are classified independently: one bad
// row never aborts the batch, and the whole import commits once at the end.
func (u *importCommandsImpl) Run(ctx context.Context, raw string) (*ImportResult, error) {
	rows, err := legacy.Parse(raw)
	if err != nil {
		return nil, errs.Wrap(err, "unreadable import file")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback import transaction", "error", rollbackErr)
		}
	}()

	res := &ImportResult{}
	seenIDs := map[int64]struct{}{}
	var maxID int64

	for _, row := range rows {
		res.Processed++
		outcome := u.importRow(ctx, tx, row, seenIDs, res)
		switch outcome {
		case "imported":
			res.Imported++
		case "duplicate":
			res.Duplicates++
		default:
			res.Skipped++
		}
		metrics.ImportRows.WithLabelValues(outcome).Inc()
	}
	for id := range seenIDs {
		if id > maxID {
			maxID = id
		}
	}

	if maxID > 0 {
		if err := u.sequenceRepo.Advance(ctx, tx, maxID); err != nil {
			return nil, errs.Mark(err, ErrDatabaseFailed)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, ErrDatabaseFailed)
	}
	return res, nil
}

// importRow classifies and, when valid, persists one row. Returns the outcome
// label and appends an issue for anything that is not imported.
func (u *importCommandsImpl) importRow(ctx context.Context, tx db.DBTX, row legacy.Row, seenIDs map[int64]struct{}, res *ImportResult) string {
	skip := func(legacyID *int64, reason string) string {
		res.Issues = append(res.Issues, ImportIssue{Row: row.Number, LegacyID: legacyID, Reason: reason})
		return "skipped"
	}

	if row.IsBlank() {
		return skip(nil, "empty row")
	}
	if row.Get(colPhone) == "" && row.Get(colEmail) == "" {
		return skip(nil, "neither phone nor email present")
	}

	legacyID, err := strconv.ParseInt(row.Get(colID), 10, 64)
	if err != nil {
		return skip(nil, "legacy id is not a valid integer")
	}

	if _, seen := seenIDs[legacyID]; seen {
		res.Issues = append(res.Issues, ImportIssue{Row: row.Number, LegacyID: &legacyID, Reason: "duplicate legacy id in file"})
		return "duplicate"
	}
	exists, err := u.bookingRepo.ExistsBySequence(ctx, tx, legacyID)
	if err != nil {
		return skip(&legacyID, "storage lookup failed")
	}
	if exists {
		res.Issues = append(res.Issues, ImportIssue{Row: row.Number, LegacyID: &legacyID, Reason: "duplicate"})
		return "duplicate"
	}

	q, err := u.questRepo.FindBySlug(ctx, tx, row.Get(colQuest))
	if err != nil {
		return skip(&legacyID, "unknown quest slug")
	}
	pricingQuest, err := u.questRepo.ResolvePricing(ctx, tx, q)
	if err != nil {
		return skip(&legacyID, "storage lookup failed")
	}

	createdAt, ok := parseAny(row.Get(colCreated), createdAtLayouts)
	if !ok {
		return skip(&legacyID, "unparseable creation timestamp")
	}
	date, ok := parseAny(row.Get(colDate), bookingDateLayouts)
	if !ok {
		return skip(&legacyID, "unparseable booking date")
	}
	timeOfDay, err := slot.NormalizeTimeOfDay(row.Get(colTime))
	if err != nil {
		return skip(&legacyID, "unparseable booking time")
	}

	rowPrice := parsePrice(row.Get(colPrice))
	s, err := u.resolveSlot(ctx, tx, pricingQuest, date, timeOfDay, rowPrice)
	if err != nil {
		return skip(&legacyID, "storage lookup failed")
	}
	taken, err := u.bookingRepo.SlotTaken(ctx, tx, s.ID)
	if err != nil {
		return skip(&legacyID, "storage lookup failed")
	}
	if taken {
		return skip(&legacyID, "slot already booked")
	}

	paymentCode, _ := strconv.Atoi(row.Get(colPayment))
	paymentType, aggregatorTag := u.mapPayment(paymentCode)

	participants, _ := strconv.Atoi(row.Get(colParticipants))
	email := emptyToNil(ptrOf(row.Get(colEmail)))
	total := rowPrice
	if total <= 0 {
		total = s.Price
	}

	b := &booking.Booking{
		SequenceNumber: legacyID,
		QuestID:        &q.ID,
		SlotID:         &s.ID,
		Name:           row.Get(colName),
		Phone:          normalizePhoneOrRaw(row.Get(colPhone)),
		Email:          email,
		Date:           &date,
		Participants:   participants,
		ExtraCount:     booking.ExtraParticipants(pricingQuest, participants),
		TotalPrice:     total,
		PaymentType:    paymentType,
		Status:         mapLegacyStatus(row.Get(colStatus)),
		Notes:          row.Get(colComment),
		Aggregator:     aggregatorTag,
		CreatedAt:      createdAt,
		UpdatedAt:      u.clock.Now(),
	}

	if err := u.bookingRepo.Create(ctx, tx, b); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			res.Issues = append(res.Issues, ImportIssue{Row: row.Number, LegacyID: &legacyID, Reason: "duplicate"})
			return "duplicate"
		}
		return skip(&legacyID, "storage write failed")
	}
	if b.Status != booking.StatusCancelled {
		if err := u.slotRepo.SetOccupied(ctx, tx, s.ID, true); err != nil {
			return skip(&legacyID, "storage write failed")
		}
	}

	seenIDs[legacyID] = struct{}{}
	return "imported"
}

// resolveSlot finds the slot at (pricing quest, date, time) or lazily creates
// one priced from the row when positive, from the pricing quest otherwise.
func (u *importCommandsImpl) resolveSlot(ctx context.Context, tx db.DBTX, pricingQuest *quest.Quest, date time.Time, timeOfDay string, rowPrice int64) (*slot.Slot, error) {
	s, err := u.slotRepo.FindByQuestDateTime(ctx, tx, pricingQuest.ID, date, timeOfDay)
	if err == nil {
		return s, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, err
	}

	price := rowPrice
	if price <= 0 {
		price = pricingQuest.BasePrice
	}
	s = &slot.Slot{
		QuestID:   pricingQuest.ID,
		Date:      date,
		TimeOfDay: timeOfDay,
		Price:     price,
	}
	if err := u.slotRepo.Create(ctx, tx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (u *importCommandsImpl) mapPayment(code int) (booking.PaymentType, *string) {
	switch code {
	case 2:
		return booking.PaymentCertificate, nil
	case aggregatorPaymentCode:
		tag := u.aggregatorTag
		return booking.PaymentAggregator, &tag
	default:
		return booking.PaymentCash, nil
	}
}

// mapLegacyStatus translates the old system's Russian status words. Anything
// unrecognized is a live historical booking, hence confirmed.
func mapLegacyStatus(s string) booking.Status {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(s, "отмен"):
		return booking.StatusCancelled
	case strings.Contains(s, "заверш"), strings.Contains(s, "выполн"):
		return booking.StatusCompleted
	default:
		return booking.StatusConfirmed
	}
}

func parseAny(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parsePrice(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func ptrOf(s string) *string {
	return &s
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
