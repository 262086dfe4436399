package response

import (
	"time"

	"github.com/google/uuid"

	"questbook/internal/domain/booking"
	"questbook/internal/domain/promo"
)

type ExtraServiceCatalogResponse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Price int64     `json:"price"`
}

func FromExtraServices(items []booking.ExtraService) []ExtraServiceCatalogResponse {
	out := make([]ExtraServiceCatalogResponse, len(items))
	for i, e := range items {
		out[i] = ExtraServiceCatalogResponse{ID: e.ID, Title: e.Title, Price: e.Price}
	}
	return out
}

type PromoResponse struct {
	Code         string     `json:"code"`
	DiscountType string     `json:"discount_type"`
	Value        int64      `json:"value"`
	ValidFrom    *time.Time `json:"valid_from,omitempty"`
	ValidTo      *time.Time `json:"valid_to,omitempty"`
	Usable       bool       `json:"usable"`
}

func FromPromo(p *promo.Code, now time.Time) *PromoResponse {
	return &PromoResponse{
		Code:         p.Code,
		DiscountType: string(p.DiscountType),
		Value:        p.Value,
		ValidFrom:    p.ValidFrom,
		ValidTo:      p.ValidTo,
		Usable:       p.IsUsable(now),
	}
}
