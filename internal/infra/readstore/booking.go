// Package readstore serves the query side: denormalized booking views joined
// with quest, slot and extra-service data, filtered and sorted dynamically.
package readstore

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"questbook/internal/infra"
	"questbook/internal/infra/db"
	"questbook/internal/usecase/queries"
)

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingViewColumns = []string{
	"b.id", "b.sequence_number", "b.quest_id", "q.title", "b.slot_id",
	"b.name", "b.phone", "b.email", "b.date", "s.time_of_day",
	"b.participants", "b.extra_participants", "b.total_price", "b.payment_type",
	"b.promo_code", "b.promo_discount_type", "b.promo_discount_value", "b.promo_discount_amount",
	"b.status", "b.notes", "b.aggregator", "b.external_id",
	"COALESCE(es.total, 0)", "b.created_at", "b.updated_at",
}

// Sort keys arrive validated by queries.ParseSort; this maps them onto the
// joined query's columns.
var sortColumns = map[string]string{
	"status":                "b.status",
	"date":                  "b.date",
	"createdat":             "b.created_at",
	"questtitle":            "q.title",
	"questprice":            "q.base_price",
	"participants":          "b.participants",
	"extraparticipantprice": "q.extra_participant_price",
	"extraservicestotal":    "COALESCE(es.total, 0)",
	"aggregator":            "b.aggregator",
	"promocode":             "b.promo_code",
	"totalprice":            "b.total_price",
	"name":                  "b.name",
	"notes":                 "b.notes",
}

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(pool db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: pool}
}

func (r *BookingReadStore) base() squirrel.SelectBuilder {
	return qb.Select(bookingViewColumns...).
		From("bookings b").
		LeftJoin("quests q ON q.id = b.quest_id").
		LeftJoin("slots s ON s.id = b.slot_id").
		JoinClause("LEFT JOIN LATERAL (SELECT COALESCE(SUM(price), 0) AS total FROM booking_extra_services WHERE booking_id = b.id) es ON true")
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	sql, args, err := r.base().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking view query", err)
	}

	v, err := scanView(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load booking view", err)
	}

	v.ExtraServices, err = r.loadExtraServices(ctx, id)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *BookingReadStore) List(ctx context.Context, filter queries.ListFilter, sort []queries.SortKey) ([]*queries.BookingView, error) {
	b := r.base()
	b = applyFilter(b, filter)
	b = applySort(b, sort)

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking list query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var out []*queries.BookingView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking view", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func applyFilter(b squirrel.SelectBuilder, f queries.ListFilter) squirrel.SelectBuilder {
	if f.Status != nil {
		b = b.Where(squirrel.Eq{"b.status": *f.Status})
	}
	if f.QuestID != nil {
		b = b.Where(squirrel.Eq{"b.quest_id": *f.QuestID})
	}
	if f.Aggregator != nil {
		if *f.Aggregator == queries.FilterNone {
			b = b.Where("b.aggregator IS NULL")
		} else {
			b = b.Where(squirrel.Eq{"b.aggregator": *f.Aggregator})
		}
	}
	if f.PromoCode != nil {
		if *f.PromoCode == queries.FilterNone {
			b = b.Where("b.promo_code IS NULL")
		} else {
			b = b.Where(squirrel.Expr("lower(b.promo_code) = lower(?)", *f.PromoCode))
		}
	}
	if f.DateFrom != nil {
		b = b.Where(squirrel.GtOrEq{"b.date": *f.DateFrom})
	}
	if f.DateTo != nil {
		b = b.Where(squirrel.LtOrEq{"b.date": *f.DateTo})
	}
	return b
}

func applySort(b squirrel.SelectBuilder, sort []queries.SortKey) squirrel.SelectBuilder {
	if len(sort) == 0 {
		return b.OrderBy("b.created_at DESC", "b.date ASC", "s.time_of_day ASC")
	}
	for _, key := range sort {
		col, ok := sortColumns[key.Field]
		if !ok {
			continue
		}
		if key.Desc {
			b = b.OrderBy(col + " DESC")
		} else {
			b = b.OrderBy(col + " ASC")
		}
	}
	return b
}

func (r *BookingReadStore) loadExtraServices(ctx context.Context, bookingID uuid.UUID) ([]queries.ExtraServiceView, error) {
	sql, args, err := qb.Select("id", "title", "price").
		From("booking_extra_services").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("title").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build extra services query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load extra services", err)
	}
	defer rows.Close()

	var out []queries.ExtraServiceView
	for rows.Next() {
		var v queries.ExtraServiceView
		if err := rows.Scan(&v.ID, &v.Title, &v.Price); err != nil {
			return nil, infra.WrapRepoErr("failed to scan extra service", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanView(row rowScanner) (*queries.BookingView, error) {
	var v queries.BookingView
	err := row.Scan(
		&v.ID, &v.SequenceNumber, &v.QuestID, &v.QuestTitle, &v.SlotID,
		&v.Name, &v.Phone, &v.Email, &v.Date, &v.TimeOfDay,
		&v.Participants, &v.ExtraCount, &v.TotalPrice, &v.PaymentType,
		&v.PromoCode, &v.PromoType, &v.PromoValue, &v.PromoAmount,
		&v.Status, &v.Notes, &v.Aggregator, &v.ExternalID,
		&v.ExtrasTotal, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
