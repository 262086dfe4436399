package request

import (
	"time"

	"questbook/internal/usecase"
)

// PartnerOrderRequest is the aggregator's order payload. The partner either
// sends a slot id (raw or numeric date-time form) or explicit date and time.
type PartnerOrderRequest struct {
	SlotID       string  `json:"slot_id,omitempty" form:"slot_id"`
	Date         *string `json:"date,omitempty" form:"date"`
	Time         string  `json:"time,omitempty" form:"time"`
	Name         string  `json:"name" form:"name" binding:"required"`
	Phone        string  `json:"phone" form:"phone" binding:"required"`
	Email        string  `json:"email,omitempty" form:"email"`
	Participants int     `json:"participants,omitempty" form:"participants"`
	Comment      string  `json:"comment,omitempty" form:"comment"`
	OrderID      string  `json:"order_id,omitempty" form:"order_id"`
	Signature    string  `json:"signature,omitempty" form:"signature"`
}

func (r PartnerOrderRequest) ToInput() (usecase.PartnerOrderInput, error) {
	in := usecase.PartnerOrderInput{
		SlotID:       r.SlotID,
		TimeOfDay:    r.Time,
		Name:         r.Name,
		Phone:        r.Phone,
		Email:        r.Email,
		Participants: r.Participants,
		Comment:      r.Comment,
		ExternalID:   r.OrderID,
		Signature:    r.Signature,
	}
	if r.Date != nil && *r.Date != "" {
		d, err := time.Parse("2006-01-02", *r.Date)
		if err != nil {
			return usecase.PartnerOrderInput{}, err
		}
		in.Date = &d
	}
	return in, nil
}
