package repository

import (
	"context"

	"github.com/Masterminds/squirrel"

	"questbook/internal/domain/promo"
	"questbook/internal/infra"
	"questbook/internal/infra/db"
)

type PromoRepository struct {
	db db.DBTX
}

func NewPromoRepository(pool db.DBTX) *PromoRepository {
	return &PromoRepository{db: pool}
}

// FindByCode looks a code up case-insensitively. Usability (active flag,
// validity window) is the domain's call, not the query's.
func (r *PromoRepository) FindByCode(ctx context.Context, dbtx db.DBTX, code string) (*promo.Code, error) {
	if dbtx == nil {
		dbtx = r.db
	}
	sql, args, err := qb.Select("id", "code", "discount_type", "value", "valid_from", "valid_to", "active").
		From("promo_codes").
		Where(squirrel.Expr("lower(code) = ?", promo.NormalizeCode(code))).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build promo query", err)
	}

	var c promo.Code
	var discountType string
	err = dbtx.QueryRow(ctx, sql, args...).Scan(
		&c.ID, &c.Code, &discountType, &c.Value, &c.ValidFrom, &c.ValidTo, &c.Active,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("promo code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find promo code", err)
	}
	c.DiscountType = promo.DiscountType(discountType)
	return &c, nil
}
