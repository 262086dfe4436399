// Package quest holds the pricing-relevant projection of a quest room. Quests
// are owned by the content-management side; the booking core reads them only.
package quest

import (
	"github.com/google/uuid"
)

// DefaultStandardParticipants is the head-count covered by the base price when
// a quest does not set its own value.
const DefaultStandardParticipants = 4

type Quest struct {
	ID                           uuid.UUID
	Slug                         string
	Title                        string
	BasePrice                    int64
	ParticipantsMin              int
	ParticipantsMax              int
	StandardPriceParticipantsMax *int
	ExtraParticipantsMax         int
	ExtraParticipantPrice        int64
	ParentID                     *uuid.UUID
}

// StandardParticipants resolves the head-count included in the base price.
func (q *Quest) StandardParticipants() int {
	if q.StandardPriceParticipantsMax != nil && *q.StandardPriceParticipantsMax > 0 {
		return *q.StandardPriceParticipantsMax
	}
	return DefaultStandardParticipants
}

// ResolvedParticipantsMax is the effective upper bound: the larger of the
// declared maximum and standard + extra capacity.
func (q *Quest) ResolvedParticipantsMax() int {
	withExtras := q.StandardParticipants() + q.ExtraParticipantsMax
	if q.ParticipantsMax > withExtras {
		return q.ParticipantsMax
	}
	return withExtras
}

// IsChild reports whether pricing is inherited from a parent quest.
func (q *Quest) IsChild() bool {
	return q.ParentID != nil
}
