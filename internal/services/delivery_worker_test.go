package services

import (
	"application_review_system/configs"
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	mock_repositories "application_review_system/internal/db/repositories/mocks"
	"application_review_system/internal/notifier"
	mock_notifier "application_review_system/internal/notifier/mocks"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var workerConfig = configs.Worker{
	BatchSize:   10,
	MaxAttempts: 5,
	LeaseTTL:    time.Minute,
}

type workerMocks struct {
	notifications *mock_repositories.MockNotificationRepository
	users         *mock_repositories.MockUserRepository
	email         *mock_notifier.MockSender
	telegram      *mock_notifier.MockSender
}

func newTestDeliveryWorker(t *testing.T, lease Lease) (*DeliveryWorker, workerMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mocks := workerMocks{
		notifications: mock_repositories.NewMockNotificationRepository(ctrl),
		users:         mock_repositories.NewMockUserRepository(ctrl),
		email:         mock_notifier.NewMockSender(ctrl),
		telegram:      mock_notifier.NewMockSender(ctrl),
	}
	mocks.email.EXPECT().Channel().Return(notifier.ChannelEmail).AnyTimes()
	mocks.telegram.EXPECT().Channel().Return(notifier.ChannelTelegram).AnyTimes()

	worker := NewDeliveryWorker(
		mocks.notifications,
		mocks.users,
		[]notifier.Sender{mocks.email, mocks.telegram},
		lease,
		workerConfig,
		zap.NewNop().Sugar(),
	)
	return worker, mocks
}

type fakeLease struct {
	acquired bool
	released bool
}

func (l *fakeLease) Acquire(context.Context, string, time.Duration) (func(context.Context) error, bool, error) {
	if !l.acquired {
		return nil, false, nil
	}
	return func(context.Context) error {
		l.released = true
		return nil
	}, true, nil
}

func TestDeliveryWorker_RunOnceDelivers(t *testing.T) {
	lease := &fakeLease{acquired: true}
	worker, mocks := newTestDeliveryWorker(t, lease)
	recipient := &models.User{ID: 3, Email: "jane@example.org", TelegramID: 33}
	notification := &models.Notification{ID: 1, RecipientID: 3, Title: "Approved"}

	mocks.notifications.EXPECT().GetManyUndelivered(gomock.Any(), 10, 5, gomock.Any()).Return([]*models.Notification{notification}, nil)
	mocks.users.EXPECT().GetOneByID(gomock.Any(), int64(3)).Return(recipient, nil)
	mocks.email.EXPECT().Send(gomock.Any(), recipient, notification).Return(nil)
	mocks.telegram.EXPECT().Send(gomock.Any(), recipient, notification).Return(errors.New("bot blocked"))
	mocks.notifications.EXPECT().MarkDelivered(gomock.Any(), int64(1), true, gomock.Any()).Return(nil)

	report, err := worker.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DeliveryReport{Delivered: 1}, report)
	assert.True(t, lease.released)
}

func TestDeliveryWorker_RunOnceRecordsFailure(t *testing.T) {
	worker, mocks := newTestDeliveryWorker(t, nil)
	recipient := &models.User{ID: 3, Email: "jane@example.org"}
	notification := &models.Notification{ID: 1, RecipientID: 3, DeliveryAttempts: 2}

	mocks.notifications.EXPECT().GetManyUndelivered(gomock.Any(), 10, 5, gomock.Any()).Return([]*models.Notification{notification}, nil)
	mocks.users.EXPECT().GetOneByID(gomock.Any(), int64(3)).Return(recipient, nil)
	mocks.email.EXPECT().Send(gomock.Any(), recipient, notification).Return(errors.New("smtp timeout"))
	mocks.telegram.EXPECT().Send(gomock.Any(), recipient, notification).Return(notifier.ErrNoAddress)
	mocks.notifications.EXPECT().RecordDeliveryFailure(gomock.Any(), int64(1), "smtp timeout").Return(nil)

	report, err := worker.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DeliveryReport{Failed: 1}, report)
}

func TestDeliveryWorker_RunOnceSkipsUnreachableRecipient(t *testing.T) {
	worker, mocks := newTestDeliveryWorker(t, nil)
	recipient := &models.User{ID: 3}
	notification := &models.Notification{ID: 1, RecipientID: 3}

	mocks.notifications.EXPECT().GetManyUndelivered(gomock.Any(), 10, 5, gomock.Any()).Return([]*models.Notification{notification}, nil)
	mocks.users.EXPECT().GetOneByID(gomock.Any(), int64(3)).Return(recipient, nil)
	mocks.email.EXPECT().Send(gomock.Any(), recipient, notification).Return(notifier.ErrNoAddress)
	mocks.telegram.EXPECT().Send(gomock.Any(), recipient, notification).Return(notifier.ErrNoAddress)
	mocks.notifications.EXPECT().MarkDelivered(gomock.Any(), int64(1), false, gomock.Any()).Return(nil)

	report, err := worker.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DeliveryReport{Skipped: 1}, report)
}

func TestDeliveryWorker_RunOnceMissingRecipient(t *testing.T) {
	worker, mocks := newTestDeliveryWorker(t, nil)
	notification := &models.Notification{ID: 1, RecipientID: 3}

	mocks.notifications.EXPECT().GetManyUndelivered(gomock.Any(), 10, 5, gomock.Any()).Return([]*models.Notification{notification}, nil)
	mocks.users.EXPECT().GetOneByID(gomock.Any(), int64(3)).Return(nil, repositories.ErrNotFound)
	mocks.notifications.EXPECT().RecordDeliveryFailure(gomock.Any(), int64(1), "recipient 3 not found").Return(nil)

	report, err := worker.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DeliveryReport{Failed: 1}, report)
}

func TestDeliveryWorker_RunOnceContinuesAfterRepositoryError(t *testing.T) {
	worker, mocks := newTestDeliveryWorker(t, nil)
	first := &models.Notification{ID: 1, RecipientID: 3}
	second := &models.Notification{ID: 2, RecipientID: 4}
	recipient := &models.User{ID: 4, TelegramID: 44}

	mocks.notifications.EXPECT().GetManyUndelivered(gomock.Any(), 10, 5, gomock.Any()).Return([]*models.Notification{first, second}, nil)
	mocks.users.EXPECT().GetOneByID(gomock.Any(), int64(3)).Return(nil, errors.New("connection reset"))
	mocks.users.EXPECT().GetOneByID(gomock.Any(), int64(4)).Return(recipient, nil)
	mocks.email.EXPECT().Send(gomock.Any(), recipient, second).Return(notifier.ErrNoAddress)
	mocks.telegram.EXPECT().Send(gomock.Any(), recipient, second).Return(nil)
	mocks.notifications.EXPECT().MarkDelivered(gomock.Any(), int64(2), false, gomock.Any()).Return(nil)

	report, err := worker.RunOnce(context.Background())

	assert.ErrorContains(t, err, "connection reset")
	assert.Equal(t, DeliveryReport{Delivered: 1}, report)
}

func TestDeliveryWorker_RunOnceLeaseHeldElsewhere(t *testing.T) {
	worker, _ := newTestDeliveryWorker(t, &fakeLease{acquired: false})

	report, err := worker.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, DeliveryReport{}, report)
}

func TestDeliveryWorker_Purge(t *testing.T) {
	worker, mocks := newTestDeliveryWorker(t, nil)

	mocks.notifications.EXPECT().Purge(gomock.Any(), gomock.Any()).Return(4, 2, nil)

	expired, deleted, err := worker.Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, expired)
	assert.Equal(t, 2, deleted)
}
