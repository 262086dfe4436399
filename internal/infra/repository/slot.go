package repository

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"questbook/internal/domain/slot"
	"questbook/internal/infra"
	"questbook/internal/infra/db"
)

var slotColumns = []string{"id", "quest_id", "date", "time_of_day", "price", "occupied"}

type SlotRepository struct {
	db db.DBTX
}

func NewSlotRepository(pool db.DBTX) *SlotRepository {
	return &SlotRepository{db: pool}
}

func (r *SlotRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*slot.Slot, error) {
	return r.findOne(ctx, dbtx, squirrel.Eq{"id": id}, false)
}

// FindByIDForUpdate takes a row lock so the occupied check and the later flip
// are not split by a concurrent writer. Must run inside a transaction.
func (r *SlotRepository) FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*slot.Slot, error) {
	return r.findOne(ctx, dbtx, squirrel.Eq{"id": id}, true)
}

func (r *SlotRepository) FindByQuestDateTime(ctx context.Context, dbtx db.DBTX, questID uuid.UUID, date time.Time, timeOfDay string) (*slot.Slot, error) {
	return r.findOne(ctx, dbtx, squirrel.Eq{
		"quest_id":    questID,
		"date":        date,
		"time_of_day": timeOfDay,
	}, false)
}

func (r *SlotRepository) findOne(ctx context.Context, dbtx db.DBTX, where squirrel.Eq, forUpdate bool) (*slot.Slot, error) {
	if dbtx == nil {
		dbtx = r.db
	}
	b := qb.Select(slotColumns...).From("slots").Where(where)
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build slot query", err)
	}

	var s slot.Slot
	err = dbtx.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.QuestID, &s.Date, &s.TimeOfDay, &s.Price, &s.Occupied)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot", err)
	}
	return &s, nil
}

// ListForRange returns a quest's slots between two dates inclusive, ordered by
// date and time, for the partner schedule feed.
func (r *SlotRepository) ListForRange(ctx context.Context, questID uuid.UUID, from, to time.Time) ([]*slot.Slot, error) {
	sql, args, err := qb.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"quest_id": questID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date", "time_of_day").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build slot range query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slots", err)
	}
	defer rows.Close()

	var out []*slot.Slot
	for rows.Next() {
		var s slot.Slot
		if err := rows.Scan(&s.ID, &s.QuestID, &s.Date, &s.TimeOfDay, &s.Price, &s.Occupied); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *SlotRepository) Create(ctx context.Context, dbtx db.DBTX, s *slot.Slot) error {
	if dbtx == nil {
		dbtx = r.db
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	sql, args, err := qb.Insert("slots").
		Columns(slotColumns...).
		Values(s.ID, s.QuestID, s.Date, s.TimeOfDay, s.Price, s.Occupied).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build slot insert", err)
	}
	if _, err := dbtx.Exec(ctx, sql, args...); err != nil {
		return infra.WrapRepoErr("failed to create slot", err)
	}
	return nil
}

// SetOccupied flips the exclusivity flag. The partial unique index on
// bookings(slot_id) remains the hard guarantee; this flag is the fast path.
func (r *SlotRepository) SetOccupied(ctx context.Context, dbtx db.DBTX, id uuid.UUID, occupied bool) error {
	if dbtx == nil {
		dbtx = r.db
	}
	sql, args, err := qb.Update("slots").
		Set("occupied", occupied).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build slot update", err)
	}
	tag, err := dbtx.Exec(ctx, sql, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update slot occupancy", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	return nil
}
