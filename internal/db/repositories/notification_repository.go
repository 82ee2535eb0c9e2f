package repositories

import (
	"application_review_system/internal/db/models"
	"context"
	"time"

	"github.com/go-pg/pg/v10"
)

type notificationRepository struct {
	repository
	pool *pg.DB
}

type NotificationRepository interface {
	Create(ctx context.Context, request *models.Notification) (*models.Notification, error)
	GetOne(ctx context.Context, notificationID int64) (*models.Notification, error)
	GetManyByRecipient(ctx context.Context, recipientID int64, unreadOnly bool) ([]*models.Notification, error)
	GetManyUndelivered(ctx context.Context, limit, maxAttempts int, now time.Time) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID int64) (int, error)
	MarkRead(ctx context.Context, notificationID, recipientID int64, readAt time.Time) error
	MarkAllRead(ctx context.Context, recipientID int64, readAt time.Time) (int, error)
	MarkDelivered(ctx context.Context, notificationID int64, emailSent bool, sentAt time.Time) error
	RecordDeliveryFailure(ctx context.Context, notificationID int64, lastError string) error
	Purge(ctx context.Context, now time.Time) (expired int, deleted int, err error)
}

func NewNotificationRepository(db *pg.DB) NotificationRepository {
	return &notificationRepository{
		repository: repository{
			db: db,
		},
		pool: db,
	}
}

func (r *notificationRepository) Create(ctx context.Context, request *models.Notification) (*models.Notification, error) {
	_, err := r.db.ModelContext(ctx, request).Returning("*").Insert()
	if err != nil {
		return nil, err
	}

	return request, nil
}

func (r *notificationRepository) GetOne(ctx context.Context, notificationID int64) (*models.Notification, error) {
	notification := &models.Notification{}

	err := r.db.ModelContext(ctx, notification).
		Where("id = ?", notificationID).
		Select()

	return notification, notFound(err)
}

func (r *notificationRepository) GetManyByRecipient(ctx context.Context, recipientID int64, unreadOnly bool) ([]*models.Notification, error) {
	notifications := make([]*models.Notification, 0)

	query := r.db.ModelContext(ctx, &notifications).
		Where("recipient_id = ?", recipientID).
		Where("is_expired = FALSE")
	if unreadOnly {
		query = query.Where("is_read = FALSE")
	}

	err := query.OrderExpr("created_at DESC, id DESC").Select()

	return notifications, err
}

func (r *notificationRepository) GetManyUndelivered(ctx context.Context, limit, maxAttempts int, now time.Time) ([]*models.Notification, error) {
	notifications := make([]*models.Notification, 0)

	err := r.db.ModelContext(ctx, &notifications).
		Where("is_sent = FALSE").
		Where("is_expired = FALSE").
		Where("delivery_attempts < ?", maxAttempts).
		WhereGroup(func(q *pg.Query) (*pg.Query, error) {
			return q.Where("expires_at IS NULL").WhereOr("expires_at > ?", now), nil
		}).
		OrderExpr("created_at ASC, id ASC").
		Limit(limit).
		Select()

	return notifications, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	return r.db.ModelContext(ctx, (*models.Notification)(nil)).
		Where("recipient_id = ?", recipientID).
		Where("is_read = FALSE").
		Where("is_expired = FALSE").
		Count()
}

func (r *notificationRepository) MarkRead(ctx context.Context, notificationID, recipientID int64, readAt time.Time) error {
	result, err := r.db.ModelContext(ctx, (*models.Notification)(nil)).
		Set("is_read = TRUE").
		Set("read_at = COALESCE(read_at, ?)", readAt).
		Where("id = ?", notificationID).
		Where("recipient_id = ?", recipientID).
		Update()
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID int64, readAt time.Time) (int, error) {
	result, err := r.db.ModelContext(ctx, (*models.Notification)(nil)).
		Set("is_read = TRUE").
		Set("read_at = ?", readAt).
		Where("recipient_id = ?", recipientID).
		Where("is_read = FALSE").
		Update()
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}

func (r *notificationRepository) MarkDelivered(ctx context.Context, notificationID int64, emailSent bool, sentAt time.Time) error {
	_, err := r.db.ModelContext(ctx, (*models.Notification)(nil)).
		Set("is_sent = TRUE").
		Set("email_sent = ?", emailSent).
		Set("sent_at = ?", sentAt).
		Set("delivery_attempts = delivery_attempts + 1").
		Set("last_error = NULL").
		Where("id = ?", notificationID).
		Update()

	return err
}

func (r *notificationRepository) RecordDeliveryFailure(ctx context.Context, notificationID int64, lastError string) error {
	_, err := r.db.ModelContext(ctx, (*models.Notification)(nil)).
		Set("delivery_attempts = delivery_attempts + 1").
		Set("last_error = ?", lastError).
		Where("id = ?", notificationID).
		Update()

	return err
}

func (r *notificationRepository) Purge(ctx context.Context, now time.Time) (int, int, error) {
	var expired, deleted int

	err := r.pool.RunInTransaction(ctx, func(tx *pg.Tx) error {
		result, err := tx.ModelContext(ctx, (*models.Notification)(nil)).
			Set("is_expired = TRUE").
			Where("is_expired = FALSE").
			Where("expires_at <= ?", now).
			Update()
		if err != nil {
			return err
		}
		expired = result.RowsAffected()

		result, err = tx.ModelContext(ctx, (*models.Notification)(nil)).
			Where("is_expired = TRUE").
			Where("is_read = TRUE OR is_sent = TRUE").
			Delete()
		if err != nil {
			return err
		}
		deleted = result.RowsAffected()

		return nil
	})

	return expired, deleted, err
}
