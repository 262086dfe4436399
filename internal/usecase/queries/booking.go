package queries

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"questbook/internal/infra"
	"questbook/internal/pkg/errs"
)

var ErrBookingNotFound = errs.New("booking not found")

// BlacklistGate is consulted both before booking creation (write side) and to
// enrich every booking returned to a caller (read side, informational only).
type BlacklistGate interface {
	FindMatches(ctx context.Context, phone, email string) ([]BlacklistMatchView, error)
	IsBookingBlocked(ctx context.Context, phone, email string, fromAggregator bool) (bool, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, filter ListFilter, sort []SortKey) ([]*BookingView, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, filter ListFilter, sort []SortKey) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
	gate BlacklistGate
}

func NewBookingQueries(repo BookingViewRepo, gate BlacklistGate) BookingQueries {
	return &bookingQueriesImpl{repo: repo, gate: gate}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	v, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, err
	}
	q.enrich(ctx, v)
	return v, nil
}

func (q *bookingQueriesImpl) List(ctx context.Context, filter ListFilter, sort []SortKey) ([]*BookingView, error) {
	views, err := q.repo.List(ctx, filter, sort)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		q.enrich(ctx, v)
	}
	return views, nil
}

// enrich attaches current blacklist matches to a view. Informational only, so
// a gate failure degrades to an unenriched view rather than failing the read.
func (q *bookingQueriesImpl) enrich(ctx context.Context, v *BookingView) {
	email := ""
	if v.Email != nil {
		email = *v.Email
	}
	matches, err := q.gate.FindMatches(ctx, v.Phone, email)
	if err != nil {
		slog.Warn("blacklist enrichment failed", "booking_id", v.ID, "error", err)
		return
	}
	v.Matches = matches
}
