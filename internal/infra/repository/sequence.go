package repository

import (
	"context"

	"questbook/internal/infra"
	"questbook/internal/infra/db"
)

// SequenceRepository hands out the legacy-compatible booking numbers from a
// single-row counter. The atomic UPDATE avoids the scan-and-increment race;
// the UNIQUE constraint on bookings.sequence_number is the backstop.
type SequenceRepository struct {
	db db.DBTX
}

func NewSequenceRepository(pool db.DBTX) *SequenceRepository {
	return &SequenceRepository{db: pool}
}

func (r *SequenceRepository) Next(ctx context.Context, dbtx db.DBTX) (int64, error) {
	if dbtx == nil {
		dbtx = r.db
	}
	var v int64
	err := dbtx.QueryRow(ctx, "UPDATE legacy_sequence SET value = value + 1 WHERE id = 1 RETURNING value").Scan(&v)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to advance legacy sequence", err)
	}
	return v, nil
}

// Advance moves the counter forward so future numbers stay above everything
// an import just brought in. Never moves backwards.
func (r *SequenceRepository) Advance(ctx context.Context, dbtx db.DBTX, floor int64) error {
	if dbtx == nil {
		dbtx = r.db
	}
	_, err := dbtx.Exec(ctx, "UPDATE legacy_sequence SET value = GREATEST(value, $1) WHERE id = 1", floor)
	if err != nil {
		return infra.WrapRepoErr("failed to raise legacy sequence floor", err)
	}
	return nil
}
