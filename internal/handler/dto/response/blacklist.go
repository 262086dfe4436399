package response

import (
	"github.com/google/uuid"

	"questbook/internal/domain/blacklist"
)

type BlacklistEntryResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Phones  []string  `json:"phones,omitempty"`
	Emails  []string  `json:"emails,omitempty"`
	Comment string    `json:"comment,omitempty"`
}

func FromBlacklistEntry(e *blacklist.Entry) *BlacklistEntryResponse {
	return &BlacklistEntryResponse{
		ID:      e.ID,
		Name:    e.Name,
		Phones:  e.Phones,
		Emails:  e.Emails,
		Comment: e.Comment,
	}
}

func FromBlacklistEntries(entries []*blacklist.Entry) []*BlacklistEntryResponse {
	out := make([]*BlacklistEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = FromBlacklistEntry(e)
	}
	return out
}
