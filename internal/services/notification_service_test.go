package services

import (
	"application_review_system/configs"
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	mock_repositories "application_review_system/internal/db/repositories/mocks"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newTestNotificationService(repository repositories.NotificationRepository) *notificationService {
	service := NewNotificationService(
		repository,
		configs.App{BaseURL: "https://review.example.org/"},
		configs.Review{NotificationTTL: time.Hour},
		zap.NewNop().Sugar(),
	).(*notificationService)
	service.now = func() time.Time {
		return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	}
	return service
}

func TestNotify_StoresRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repository := mock_repositories.NewMockNotificationRepository(ctrl)
	service := newTestNotificationService(repository)
	applicationID := int64(5)

	repository.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, notification *models.Notification) (*models.Notification, error) {
			notification.ID = 1
			return notification, nil
		})

	notification, err := service.Notify(context.Background(), 9, Notice{
		Type:          models.NotificationTypeReviewRequested,
		ApplicationID: &applicationID,
		Title:         "Review requested",
		Message:       "Please vote",
		ActionPath:    "/applications/5",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(9), notification.RecipientID)
	assert.Equal(t, "https://review.example.org/applications/5", notification.ActionURL)
	assert.False(t, notification.IsSent)
	require.NotNil(t, notification.ExpiresAt)
	assert.Equal(t, time.Date(2026, time.March, 1, 13, 0, 0, 0, time.UTC), *notification.ExpiresAt)
}

func TestNotifyMany_ContinuesPastFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repository := mock_repositories.NewMockNotificationRepository(ctrl)
	service := newTestNotificationService(repository)

	var recipients []int64
	repository.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, notification *models.Notification) (*models.Notification, error) {
			recipients = append(recipients, notification.RecipientID)
			if notification.RecipientID == 2 {
				return nil, errors.New("insert failed")
			}
			return notification, nil
		}).
		Times(3)

	err := service.NotifyMany(context.Background(), []int64{1, 2, 3}, Notice{Type: models.NotificationTypeQuorumReached, Title: "Quorum"})

	assert.ErrorContains(t, err, "insert failed")
	assert.Equal(t, []int64{1, 2, 3}, recipients)
}

func TestMarkRead_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repository := mock_repositories.NewMockNotificationRepository(ctrl)
	service := newTestNotificationService(repository)

	repository.EXPECT().MarkRead(gomock.Any(), int64(3), int64(9), gomock.Any()).Return(repositories.ErrNotFound)

	err := service.MarkRead(context.Background(), 3, 9)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repository := mock_repositories.NewMockNotificationRepository(ctrl)
	service := newTestNotificationService(repository)

	repository.EXPECT().MarkAllRead(gomock.Any(), int64(9), gomock.Any()).Return(4, nil)
	repository.EXPECT().CountUnread(gomock.Any(), int64(9)).Return(0, nil)

	marked, err := service.MarkAllRead(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 4, marked)

	unread, err := service.CountUnread(context.Background(), 9)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
