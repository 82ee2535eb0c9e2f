package services

import (
	"application_review_system/configs"
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Notice is the content of a notification before it is addressed to a
// recipient.
type Notice struct {
	Type          models.NotificationType
	ApplicationID *int64
	Title         string
	Message       string
	ActionPath    string
}

type NotificationService interface {
	// Notify stores the notification for later delivery.
	Notify(ctx context.Context, recipientID int64, notice Notice) (*models.Notification, error)
	// NotifyMany attempts every recipient and returns the combined failures.
	NotifyMany(ctx context.Context, recipientIDs []int64, notice Notice) error
	GetNotifications(ctx context.Context, recipientID int64, unreadOnly bool) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID int64) (int, error)
	MarkRead(ctx context.Context, notificationID, recipientID int64) error
	MarkAllRead(ctx context.Context, recipientID int64) (int, error)
}

type notificationService struct {
	notificationRepository repositories.NotificationRepository
	appConfig              configs.App
	reviewConfig           configs.Review
	logger                 *zap.SugaredLogger
	now                    func() time.Time
}

func NewNotificationService(
	notificationRepository repositories.NotificationRepository,
	appConfig configs.App,
	reviewConfig configs.Review,
	logger *zap.SugaredLogger,
) NotificationService {
	return &notificationService{
		notificationRepository: notificationRepository,
		appConfig:              appConfig,
		reviewConfig:           reviewConfig,
		logger:                 logger,
		now:                    time.Now,
	}
}

func (s *notificationService) Notify(ctx context.Context, recipientID int64, notice Notice) (*models.Notification, error) {
	notification := &models.Notification{
		RecipientID:   recipientID,
		ApplicationID: notice.ApplicationID,
		Type:          notice.Type,
		Title:         notice.Title,
		Message:       notice.Message,
		ActionURL:     s.actionURL(notice.ActionPath),
	}
	if s.reviewConfig.NotificationTTL > 0 {
		expiresAt := s.now().Add(s.reviewConfig.NotificationTTL)
		notification.ExpiresAt = &expiresAt
	}

	notification, err := s.notificationRepository.Create(ctx, notification)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification for recipient %d: %w", recipientID, err)
	}

	s.logger.Infow("notification queued",
		"notification_id", notification.ID,
		"recipient_id", recipientID,
		"type", notice.Type,
	)
	return notification, nil
}

func (s *notificationService) NotifyMany(ctx context.Context, recipientIDs []int64, notice Notice) error {
	var err error
	for _, recipientID := range recipientIDs {
		if _, notifyErr := s.Notify(ctx, recipientID, notice); notifyErr != nil {
			s.logger.Warnw("failed to notify recipient", "recipient_id", recipientID, "type", notice.Type, "error", notifyErr)
			err = multierr.Append(err, notifyErr)
		}
	}
	return err
}

func (s *notificationService) GetNotifications(ctx context.Context, recipientID int64, unreadOnly bool) ([]*models.Notification, error) {
	notifications, err := s.notificationRepository.GetManyByRecipient(ctx, recipientID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	count, err := s.notificationRepository.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, recipientID int64) error {
	err := s.notificationRepository.MarkRead(ctx, notificationID, recipientID, s.now())
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound("notification", notificationID)
	}
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID int64) (int, error) {
	marked, err := s.notificationRepository.MarkAllRead(ctx, recipientID, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return marked, nil
}

func (s *notificationService) actionURL(path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimSuffix(s.appConfig.BaseURL, "/") + path
}
