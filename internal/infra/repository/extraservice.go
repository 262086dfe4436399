package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"questbook/internal/domain/booking"
	"questbook/internal/infra"
	"questbook/internal/infra/db"
)

// ExtraServiceRepository reads the extra-service catalog. Selected items are
// copied onto bookings as line items, so this stays read-only for the core.
type ExtraServiceRepository struct {
	db db.DBTX
}

func NewExtraServiceRepository(pool db.DBTX) *ExtraServiceRepository {
	return &ExtraServiceRepository{db: pool}
}

func (r *ExtraServiceRepository) ListActive(ctx context.Context) ([]booking.ExtraService, error) {
	sql, args, err := qb.Select("id", "title", "price").
		From("extra_services").
		Where(squirrel.Eq{"active": true}).
		OrderBy("title").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build catalog query", err)
	}
	return r.query(ctx, r.db, sql, args)
}

// FindByIDs resolves selected catalog items; unknown ids are silently absent
// from the result, the caller decides whether that matters.
func (r *ExtraServiceRepository) FindByIDs(ctx context.Context, dbtx db.DBTX, ids []uuid.UUID) ([]booking.ExtraService, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if dbtx == nil {
		dbtx = r.db
	}
	sql, args, err := qb.Select("id", "title", "price").
		From("extra_services").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build catalog lookup", err)
	}
	return r.query(ctx, dbtx, sql, args)
}

func (r *ExtraServiceRepository) query(ctx context.Context, dbtx db.DBTX, sql string, args []any) ([]booking.ExtraService, error) {
	rows, err := dbtx.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query extra services", err)
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
