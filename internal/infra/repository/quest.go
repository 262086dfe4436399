package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"questbook/internal/domain/quest"
	"questbook/internal/infra"
	"questbook/internal/infra/db"
)

var questColumns = []string{
	"id", "slug", "title", "base_price",
	"participants_min", "participants_max", "standard_price_participants_max",
	"extra_participants_max", "extra_participant_price", "parent_id",
}

type QuestRepository struct {
	db db.DBTX
}

func NewQuestRepository(pool db.DBTX) *QuestRepository {
	return &QuestRepository{db: pool}
}

func (r *QuestRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*quest.Quest, error) {
	return r.findOne(ctx, dbtx, squirrel.Eq{"id": id})
}

func (r *QuestRepository) FindBySlug(ctx context.Context, dbtx db.DBTX, slug string) (*quest.Quest, error) {
	return r.findOne(ctx, dbtx, squirrel.Eq{"slug": slug})
}

func (r *QuestRepository) findOne(ctx context.Context, dbtx db.DBTX, where squirrel.Eq) (*quest.Quest, error) {
	if dbtx == nil {
		dbtx = r.db
	}
	sql, args, err := qb.Select(questColumns...).From("quests").Where(where).ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build quest query", err)
	}

	var q quest.Quest
	err = dbtx.QueryRow(ctx, sql, args...).Scan(
		&q.ID, &q.Slug, &q.Title, &q.BasePrice,
		&q.ParticipantsMin, &q.ParticipantsMax, &q.StandardPriceParticipantsMax,
		&q.ExtraParticipantsMax, &q.ExtraParticipantPrice, &q.ParentID,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("quest not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find quest", err)
	}
	return &q, nil
}

// ResolvePricing walks to the parent quest when one is set. Pricing of a
// child variant always comes from its parent.
func (r *QuestRepository) ResolvePricing(ctx context.Context, dbtx db.DBTX, q *quest.Quest) (*quest.Quest, error) {
	if !q.IsChild() {
		return q, nil
	}
	return r.FindByID(ctx, dbtx, *q.ParentID)
}
