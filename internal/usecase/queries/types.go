package queries

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"questbook/internal/pkg/errs"
)

// Read models (DTO for read side)
type BookingView struct {
	ID             uuid.UUID            `json:"id"`
	SequenceNumber int64                `json:"sequence_number"`
	QuestID        *uuid.UUID           `json:"quest_id,omitempty"`
	QuestTitle     *string              `json:"quest_title,omitempty"`
	SlotID         *uuid.UUID           `json:"slot_id,omitempty"`
	Name           string               `json:"name"`
	Phone          string               `json:"phone"`
	Email          *string              `json:"email,omitempty"`
	Date           *time.Time           `json:"date,omitempty"`
	TimeOfDay      *string              `json:"time_of_day,omitempty"`
	Participants   int                  `json:"participants"`
	ExtraCount     int                  `json:"extra_participants"`
	TotalPrice     int64                `json:"total_price"`
	PaymentType    string               `json:"payment_type"`
	PromoCode      *string              `json:"promo_code,omitempty"`
	PromoType      *string              `json:"promo_discount_type,omitempty"`
	PromoValue     *int64               `json:"promo_discount_value,omitempty"`
	PromoAmount    *int64               `json:"promo_discount_amount,omitempty"`
	Status         string               `json:"status"`
	Notes          string               `json:"notes"`
	Aggregator     *string              `json:"aggregator,omitempty"`
	ExternalID     *string              `json:"external_id,omitempty"`
	ExtrasTotal    int64                `json:"extra_services_total"`
	ExtraServices  []ExtraServiceView   `json:"extra_services,omitempty"`
	Matches        []BlacklistMatchView `json:"blacklist_matches,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

type ExtraServiceView struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Price int64     `json:"price"`
}

type BlacklistMatchView struct {
	EntryID       uuid.UUID `json:"entry_id"`
	Name          string    `json:"name"`
	Comment       string    `json:"comment,omitempty"`
	MatchedPhones []string  `json:"matched_phones,omitempty"`
	MatchedEmails []string  `json:"matched_emails,omitempty"`
}

// FilterNone is the sentinel meaning "field is absent": direct site bookings
// for the aggregator filter, no code for the promo filter.
const FilterNone = "none"

type ListFilter struct {
	Status     *string
	QuestID    *uuid.UUID
	Aggregator *string
	PromoCode  *string
	DateFrom   *time.Time
	DateTo     *time.Time
}

type SortKey struct {
	Field string
	Desc  bool
}

var ErrBadSort = errs.New("unknown sort field")

var sortFields = map[string]struct{}{
	"status": {}, "date": {}, "createdat": {},
	"questtitle": {}, "questprice": {}, "participants": {},
	"extraparticipantprice": {}, "extraservicestotal": {},
	"aggregator": {}, "promocode": {}, "totalprice": {},
	"name": {}, "notes": {},
}

// ParseSort parses a comma-separated list of field[:asc|desc] pairs. An empty
// string yields the default ordering (createdAt desc, date asc, time asc),
// which the store applies when no keys are returned.
func ParseSort(s string) ([]SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var keys []SortKey
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, dir, _ := strings.Cut(part, ":")
		field = strings.ToLower(strings.TrimSpace(field))
		if _, ok := sortFields[field]; !ok {
			return nil, errs.Mark(errs.Newf("unknown sort field %q", field), ErrBadSort)
		}
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
			keys = append(keys, SortKey{Field: field})
		case "desc":
			keys = append(keys, SortKey{Field: field, Desc: true})
		default:
			return nil, errs.Mark(errs.Newf("bad sort direction %q", dir), ErrBadSort)
		}
	}
	return keys, nil
}
