package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"questbook/internal/domain/blacklist"
	"questbook/internal/infra"
	"questbook/internal/infra/db"
)

var blacklistColumns = []string{"id", "name", "phones", "emails", "comment"}

type BlacklistRepository struct {
	db db.DBTX
}

func NewBlacklistRepository(pool db.DBTX) *BlacklistRepository {
	return &BlacklistRepository{db: pool}
}

// ListAll loads every entry; the set is small and matching happens in memory.
func (r *BlacklistRepository) ListAll(ctx context.Context) ([]*blacklist.Entry, error) {
	sql, args, err := qb.Select(blacklistColumns...).From("blacklist_entries").OrderBy("name").ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build blacklist query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list blacklist entries", err)
	}
	defer rows.Close()

	var out []*blacklist.Entry
	for rows.Next() {
		var e blacklist.Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Phones, &e.Emails, &e.Comment); err != nil {
			return nil, infra.WrapRepoErr("failed to scan blacklist entry", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *BlacklistRepository) FindByID(ctx context.Context, id uuid.UUID) (*blacklist.Entry, error) {
	sql, args, err := qb.Select(blacklistColumns...).From("blacklist_entries").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build blacklist query", err)
	}
	var e blacklist.Entry
	err = r.db.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.Name, &e.Phones, &e.Emails, &e.Comment)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("blacklist entry not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find blacklist entry", err)
	}
	return &e, nil
}

func (r *BlacklistRepository) Create(ctx context.Context, e *blacklist.Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	sql, args, err := qb.Insert("blacklist_entries").
		Columns(blacklistColumns...).
		Values(e.ID, e.Name, e.Phones, e.Emails, e.Comment).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build blacklist insert", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return infra.WrapRepoErr("failed to create blacklist entry", err)
	}
	return nil
}

func (r *BlacklistRepository) Update(ctx context.Context, e *blacklist.Entry) error {
	sql, args, err := qb.Update("blacklist_entries").
		Set("name", e.Name).
		Set("phones", e.Phones).
		Set("emails", e.Emails).
		Set("comment", e.Comment).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build blacklist update", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update blacklist entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("blacklist entry not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BlacklistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := qb.Delete("blacklist_entries").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build blacklist delete", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to delete blacklist entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("blacklist entry not found", nil, infra.KindNotFound)
	}
	return nil
}
