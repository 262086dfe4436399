package request

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"questbook/internal/usecase/commands"
)

type ExtraItemRequest struct {
	Title string `json:"title" binding:"required"`
	Price int64  `json:"price"`
}

type CreateBookingRequest struct {
	QuestID         *uuid.UUID         `json:"quest_id,omitempty"`
	SlotID          *uuid.UUID         `json:"slot_id,omitempty"`
	Name            string             `json:"name" binding:"required"`
	Phone           string             `json:"phone" binding:"required"`
	Email           *string            `json:"email,omitempty"`
	Date            *time.Time         `json:"date,omitempty"`
	Participants    int                `json:"participants" binding:"required,min=1"`
	ExtraServiceIDs []uuid.UUID        `json:"extra_service_ids,omitempty"`
	ExtraItems      []ExtraItemRequest `json:"extra_items,omitempty"`
	PaymentType     *string            `json:"payment_type,omitempty"`
	PromoCode       *string            `json:"promo_code,omitempty"`
	Notes           string             `json:"notes,omitempty"`
}

func (r CreateBookingRequest) ToInput(adminOrigin bool) commands.CreateBookingInput {
	return commands.CreateBookingInput{
		QuestID:         r.QuestID,
		SlotID:          r.SlotID,
		Name:            strings.TrimSpace(r.Name),
		Phone:           r.Phone,
		Email:           r.Email,
		Date:            r.Date,
		Participants:    r.Participants,
		ExtraServiceIDs: r.ExtraServiceIDs,
		ExtraItems:      toExtraItems(r.ExtraItems),
		PaymentType:     r.PaymentType,
		PromoCode:       trimmedOrNil(r.PromoCode),
		Notes:           r.Notes,
		AdminOrigin:     adminOrigin,
	}
}

type UpdateBookingRequest struct {
	Name            *string             `json:"name,omitempty"`
	Phone           *string             `json:"phone,omitempty"`
	Email           *string             `json:"email,omitempty"`
	Date            *time.Time          `json:"date,omitempty"`
	Participants    *int                `json:"participants,omitempty"`
	ExtraServiceIDs *[]uuid.UUID        `json:"extra_service_ids,omitempty"`
	ExtraItems      *[]ExtraItemRequest `json:"extra_items,omitempty"`
	PaymentType     *string             `json:"payment_type,omitempty"`
	PromoCode       *string             `json:"promo_code,omitempty"`
	Status          *string             `json:"status,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	TotalOverride   *int64              `json:"total_price,omitempty"`
}

func (r UpdateBookingRequest) ToInput() commands.UpdateBookingInput {
	in := commands.UpdateBookingInput{
		Name:            r.Name,
		Phone:           r.Phone,
		Email:           r.Email,
		Date:            r.Date,
		Participants:    r.Participants,
		ExtraServiceIDs: r.ExtraServiceIDs,
		PaymentType:     r.PaymentType,
		PromoCode:       r.PromoCode,
		Status:          r.Status,
		Notes:           r.Notes,
		TotalOverride:   r.TotalOverride,
	}
	if r.ExtraItems != nil {
		items := toExtraItems(*r.ExtraItems)
		in.ExtraItems = &items
	}
	return in
}

func toExtraItems(reqs []ExtraItemRequest) []commands.ExtraItem {
	if len(reqs) == 0 {
		return nil
	}
	items := make([]commands.ExtraItem, len(reqs))
	for i, e := range reqs {
		items[i] = commands.ExtraItem{Title: strings.TrimSpace(e.Title), Price: e.Price}
	}
	return items
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
