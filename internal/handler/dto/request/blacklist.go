package request

import (
	"questbook/internal/usecase"
)

type BlacklistEntryRequest struct {
	Name    string   `json:"name" binding:"required"`
	Phones  []string `json:"phones,omitempty"`
	Emails  []string `json:"emails,omitempty"`
	Comment string   `json:"comment,omitempty"`
}

func (r BlacklistEntryRequest) ToInput() usecase.BlacklistEntryInput {
	return usecase.BlacklistEntryInput{
		Name:    r.Name,
		Phones:  r.Phones,
		Emails:  r.Emails,
		Comment: r.Comment,
	}
}
