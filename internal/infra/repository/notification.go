package repository

import (
	"context"
	"time"

	"questbook/internal/infra"
	"questbook/internal/infra/db"
)

// NotificationRepository queues outbound notifications for the delivery
// collaborator. The booking core only ever enqueues.
type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(pool db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: pool}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	sql, args, err := qb.Insert("notification_jobs").
		Columns("kind", "topic", "payload", "run_at").
		Values(kind, topic, payload, runAt).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build notification insert", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return nil
}
