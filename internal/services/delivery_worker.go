package services

import (
	"application_review_system/configs"
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	"application_review_system/internal/notifier"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const deliveryLeaseName = "notification-delivery"

// Lease keeps a single worker replica delivering at a time.
type Lease interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(ctx context.Context) error, acquired bool, err error)
}

type DeliveryReport struct {
	Delivered int
	Failed    int
	Skipped   int
}

// DeliveryWorker drains undelivered notifications to the configured senders.
// Records are only ever marked, never rolled back, so a failed delivery is
// retried on a later cycle until the attempt budget runs out.
type DeliveryWorker struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
	senders                []notifier.Sender
	lease                  Lease
	config                 configs.Worker
	logger                 *zap.SugaredLogger
	now                    func() time.Time
}

func NewDeliveryWorker(
	notificationRepository repositories.NotificationRepository,
	userRepository repositories.UserRepository,
	senders []notifier.Sender,
	lease Lease,
	config configs.Worker,
	logger *zap.SugaredLogger,
) *DeliveryWorker {
	return &DeliveryWorker{
		notificationRepository: notificationRepository,
		userRepository:         userRepository,
		senders:                senders,
		lease:                  lease,
		config:                 config,
		logger:                 logger,
		now:                    time.Now,
	}
}

func (w *DeliveryWorker) RunOnce(ctx context.Context) (DeliveryReport, error) {
	var report DeliveryReport

	if w.lease != nil {
		release, acquired, err := w.lease.Acquire(ctx, deliveryLeaseName, w.config.LeaseTTL)
		if err != nil {
			return report, fmt.Errorf("failed to acquire delivery lease: %w", err)
		}
		if !acquired {
			w.logger.Debugw("delivery lease held elsewhere", "event", "notification_delivery_skipped")
			return report, nil
		}
		defer func() {
			if err := release(ctx); err != nil {
				w.logger.Warnw("failed to release delivery lease", "error", err)
			}
		}()
	}

	limit := w.config.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := w.notificationRepository.GetManyUndelivered(ctx, limit, w.config.MaxAttempts, w.now())
	if err != nil {
		w.logger.Errorw("failed to list undelivered notifications", "event", "notification_delivery_list_failed", "error", err)
		return report, err
	}
	if len(pending) == 0 {
		return report, nil
	}

	w.logger.Infow("notification delivery started", "event", "notification_delivery_started", "batch_size", len(pending))

	var errs error
	for _, notification := range pending {
		outcome, err := w.deliver(ctx, notification)
		errs = multierr.Append(errs, err)

		switch outcome {
		case deliveryDelivered:
			report.Delivered++
		case deliverySkipped:
			report.Skipped++
		case deliveryFailed:
			report.Failed++
		}
	}

	w.logger.Infow("notification delivery completed",
		"event", "notification_delivery_completed",
		"delivered", report.Delivered,
		"failed", report.Failed,
		"skipped", report.Skipped,
	)
	return report, errs
}

func (w *DeliveryWorker) Purge(ctx context.Context) (int, int, error) {
	expired, deleted, err := w.notificationRepository.Purge(ctx, w.now())
	if err != nil {
		w.logger.Errorw("failed to purge notifications", "event", "notification_purge_failed", "error", err)
		return 0, 0, err
	}

	w.logger.Infow("notifications purged", "event", "notification_purge_completed", "expired", expired, "deleted", deleted)
	return expired, deleted, nil
}

type deliveryOutcome int

const (
	deliveryNone deliveryOutcome = iota
	deliveryDelivered
	deliverySkipped
	deliveryFailed
)

// deliver returns an error only when the outcome could not be recorded.
func (w *DeliveryWorker) deliver(ctx context.Context, notification *models.Notification) (deliveryOutcome, error) {
	recipient, err := w.userRepository.GetOneByID(ctx, notification.RecipientID)
	if errors.Is(err, repositories.ErrNotFound) {
		return w.recordFailure(ctx, notification, fmt.Errorf("recipient %d not found", notification.RecipientID))
	}
	if err != nil {
		return deliveryNone, fmt.Errorf("failed to get recipient %d: %w", notification.RecipientID, err)
	}

	var (
		attempted int
		succeeded int
		emailSent bool
		sendErr   error
	)
	for _, sender := range w.senders {
		err := sender.Send(ctx, recipient, notification)
		if errors.Is(err, notifier.ErrNoAddress) {
			continue
		}

		attempted++
		if err != nil {
			sendErr = multierr.Append(sendErr, err)
			continue
		}

		succeeded++
		if sender.Channel() == notifier.ChannelEmail {
			emailSent = true
		}
	}

	if attempted > 0 && succeeded == 0 {
		return w.recordFailure(ctx, notification, sendErr)
	}

	if err := w.notificationRepository.MarkDelivered(ctx, notification.ID, emailSent, w.now()); err != nil {
		return deliveryNone, fmt.Errorf("failed to mark notification %d delivered: %w", notification.ID, err)
	}

	if attempted == 0 {
		return deliverySkipped, nil
	}
	return deliveryDelivered, nil
}

func (w *DeliveryWorker) recordFailure(ctx context.Context, notification *models.Notification, cause error) (deliveryOutcome, error) {
	w.logger.Warnw("notification delivery failed",
		"event", "notification_delivery_failed",
		"notification_id", notification.ID,
		"recipient_id", notification.RecipientID,
		"attempt", notification.DeliveryAttempts+1,
		"error", cause,
	)

	if err := w.notificationRepository.RecordDeliveryFailure(ctx, notification.ID, cause.Error()); err != nil {
		return deliveryNone, fmt.Errorf("failed to record delivery failure of notification %d: %w", notification.ID, err)
	}
	return deliveryFailed, nil
}
