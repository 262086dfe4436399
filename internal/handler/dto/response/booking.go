package response

import (
	"time"

	"github.com/google/uuid"

	"questbook/internal/usecase/commands"
	"questbook/internal/usecase/queries"
)

type BookingResponse struct {
	ID             uuid.UUID                `json:"id"`
	SequenceNumber int64                    `json:"sequence_number"`
	QuestID        *uuid.UUID               `json:"quest_id,omitempty"`
	QuestTitle     *string                  `json:"quest_title,omitempty"`
	SlotID         *uuid.UUID               `json:"slot_id,omitempty"`
	Name           string                   `json:"name"`
	Phone          string                   `json:"phone"`
	Email          *string                  `json:"email,omitempty"`
	Date           *time.Time               `json:"date,omitempty"`
	TimeOfDay      *string                  `json:"time_of_day,omitempty"`
	Participants   int                      `json:"participants"`
	ExtraCount     int                      `json:"extra_participants"`
	TotalPrice     int64                    `json:"total_price"`
	PaymentType    string                   `json:"payment_type"`
	PromoCode      *string                  `json:"promo_code,omitempty"`
	PromoType      *string                  `json:"promo_discount_type,omitempty"`
	PromoValue     *int64                   `json:"promo_discount_value,omitempty"`
	PromoAmount    *int64                   `json:"promo_discount_amount,omitempty"`
	Status         string                   `json:"status"`
	Notes          string                   `json:"notes"`
	Aggregator     *string                  `json:"aggregator,omitempty"`
	ExternalID     *string                  `json:"external_id,omitempty"`
	ExtrasTotal    int64                    `json:"extra_services_total"`
	ExtraServices  []ExtraServiceResponse   `json:"extra_services,omitempty"`
	Matches        []BlacklistMatchResponse `json:"blacklist_matches,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

type ExtraServiceResponse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Price int64     `json:"price"`
}

type BlacklistMatchResponse struct {
	EntryID       uuid.UUID `json:"entry_id"`
	Name          string    `json:"name"`
	Comment       string    `json:"comment,omitempty"`
	MatchedPhones []string  `json:"matched_phones,omitempty"`
	MatchedEmails []string  `json:"matched_emails,omitempty"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	resp := &BookingResponse{
		ID:             v.ID,
		SequenceNumber: v.SequenceNumber,
		QuestID:        v.QuestID,
		QuestTitle:     v.QuestTitle,
		SlotID:         v.SlotID,
		Name:           v.Name,
		Phone:          v.Phone,
		Email:          v.Email,
		Date:           v.Date,
		TimeOfDay:      v.TimeOfDay,
		Participants:   v.Participants,
		ExtraCount:     v.ExtraCount,
		TotalPrice:     v.TotalPrice,
		PaymentType:    v.PaymentType,
		PromoCode:      v.PromoCode,
		PromoType:      v.PromoType,
		PromoValue:     v.PromoValue,
		PromoAmount:    v.PromoAmount,
		Status:         v.Status,
		Notes:          v.Notes,
		Aggregator:     v.Aggregator,
		ExternalID:     v.ExternalID,
		ExtrasTotal:    v.ExtrasTotal,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
	for _, e := range v.ExtraServices {
		resp.ExtraServices = append(resp.ExtraServices, ExtraServiceResponse(e))
	}
	for _, m := range v.Matches {
		resp.Matches = append(resp.Matches, BlacklistMatchResponse(m))
	}
	return resp
}

func FromBookingViews(views []*queries.BookingView) []*BookingResponse {
	out := make([]*BookingResponse, len(views))
	for i, v := range views {
		out[i] = FromBookingView(v)
	}
	return out
}

type ImportIssueResponse struct {
	Row      int    `json:"row"`
	LegacyID *int64 `json:"legacy_id,omitempty"`
	Reason   string `json:"reason"`
}

type ImportResponse struct {
	Processed  int                   `json:"processed"`
	Imported   int                   `json:"imported"`
	Skipped    int                   `json:"skipped"`
	Duplicates int                   `json:"duplicates"`
	Issues     []ImportIssueResponse `json:"issues,omitempty"`
}

func FromImportResult(r *commands.ImportResult) *ImportResponse {
	resp := &ImportResponse{
		Processed:  r.Processed,
		Imported:   r.Imported,
		Skipped:    r.Skipped,
		Duplicates: r.Duplicates,
	}
	for _, issue := range r.Issues {
		resp.Issues = append(resp.Issues, ImportIssueResponse(issue))
	}
	return resp
}
