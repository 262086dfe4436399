package usecase

import (
	"context"

	"questbook/internal/domain/booking"
	"questbook/internal/domain/promo"
	"questbook/internal/infra"
	"questbook/internal/infra/db"
	"questbook/internal/pkg/errs"
)

var ErrPromoNotFound = errs.New("promo code not found")

type ExtraServiceCatalog interface {
	ListActive(ctx context.Context) ([]booking.ExtraService, error)
}

type PromoLookup interface {
	FindByCode(ctx context.Context, dbtx db.DBTX, code string) (*promo.Code, error)
}

type CatalogService interface {
	ExtraServices(ctx context.Context) ([]booking.ExtraService, error)
	Promo(ctx context.Context, code string) (*promo.Code, error)
}

type catalogServiceImpl struct {
	pool   db.DBTX
	extras ExtraServiceCatalog
	promos PromoLookup
}

func NewCatalogService(pool db.DBTX, extras ExtraServiceCatalog, promos PromoLookup) CatalogService {
	return &catalogServiceImpl{pool: pool, extras: extras, promos: promos}
}

func (s *catalogServiceImpl) ExtraServices(ctx context.Context) ([]booking.ExtraService, error) {
	return s.extras.ListActive(ctx)
}

func (s *catalogServiceImpl) Promo(ctx context.Context, code string) (*promo.Code, error) {
	p, err := s.promos.FindByCode(ctx, s.pool, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrPromoNotFound)
		}
		return nil, err
	}
	return p, nil
}
