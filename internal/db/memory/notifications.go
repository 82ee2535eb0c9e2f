package memory

import (
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	"context"
	"sort"
	"time"
)

type notificationRepository struct {
	store *Store
}

func (r *notificationRepository) Create(_ context.Context, request *models.Notification) (*models.Notification, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextNotificationID++
	request.ID = s.nextNotificationID
	request.CreatedAt = time.Now()
	s.notifications[request.ID] = *request

	notification := *request
	return &notification, nil
}

func (r *notificationRepository) GetOne(_ context.Context, notificationID int64) (*models.Notification, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	notification, ok := s.notifications[notificationID]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	return &notification, nil
}

func (r *notificationRepository) GetManyByRecipient(_ context.Context, recipientID int64, unreadOnly bool) ([]*models.Notification, error) {
	notifications := r.store.filterNotifications(func(notification models.Notification) bool {
		if notification.RecipientID != recipientID || notification.IsExpired {
			return false
		}
		return !unreadOnly || !notification.IsRead
	})

	// newest first
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].ID > notifications[j].ID
	})
	return notifications, nil
}

func (r *notificationRepository) GetManyUndelivered(_ context.Context, limit, maxAttempts int, now time.Time) ([]*models.Notification, error) {
	notifications := r.store.filterNotifications(func(notification models.Notification) bool {
		if notification.IsSent || notification.IsExpired || notification.DeliveryAttempts >= maxAttempts {
			return false
		}
		return notification.ExpiresAt == nil || notification.ExpiresAt.After(now)
	})

	if limit > 0 && len(notifications) > limit {
		notifications = notifications[:limit]
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(_ context.Context, recipientID int64) (int, error) {
	notifications := r.store.filterNotifications(func(notification models.Notification) bool {
		return notification.RecipientID == recipientID && !notification.IsRead && !notification.IsExpired
	})

	return len(notifications), nil
}

func (r *notificationRepository) MarkRead(_ context.Context, notificationID, recipientID int64, readAt time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	notification, ok := s.notifications[notificationID]
	if !ok || notification.RecipientID != recipientID {
		return repositories.ErrNotFound
	}

	notification.IsRead = true
	if notification.ReadAt == nil {
		notification.ReadAt = &readAt
	}
	s.notifications[notificationID] = notification

	return nil
}

func (r *notificationRepository) MarkAllRead(_ context.Context, recipientID int64, readAt time.Time) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	marked := 0
	for id, notification := range s.notifications {
		if notification.RecipientID != recipientID || notification.IsRead {
			continue
		}
		notification.IsRead = true
		notification.ReadAt = &readAt
		s.notifications[id] = notification
		marked++
	}

	return marked, nil
}

func (r *notificationRepository) MarkDelivered(_ context.Context, notificationID int64, emailSent bool, sentAt time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	notification, ok := s.notifications[notificationID]
	if !ok {
		return nil
	}

	notification.IsSent = true
	notification.EmailSent = emailSent
	notification.SentAt = &sentAt
	notification.DeliveryAttempts++
	notification.LastError = ""
	s.notifications[notificationID] = notification

	return nil
}

func (r *notificationRepository) RecordDeliveryFailure(_ context.Context, notificationID int64, lastError string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	notification, ok := s.notifications[notificationID]
	if !ok {
		return nil
	}

	notification.DeliveryAttempts++
	notification.LastError = lastError
	s.notifications[notificationID] = notification

	return nil
}

func (r *notificationRepository) Purge(_ context.Context, now time.Time) (int, int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired, deleted int
	for id, notification := range s.notifications {
		if notification.IsExpired || notification.ExpiresAt == nil || notification.ExpiresAt.After(now) {
			continue
		}
		notification.IsExpired = true
		s.notifications[id] = notification
		expired++
	}

	for id, notification := range s.notifications {
		if notification.IsExpired && (notification.IsRead || notification.IsSent) {
			delete(s.notifications, id)
			deleted++
		}
	}

	return expired, deleted, nil
}

func (s *Store) filterNotifications(match func(notification models.Notification) bool) []*models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notifications := make([]*models.Notification, 0)
	for _, notification := range s.notifications {
		if !match(notification) {
			continue
		}
		notification := notification
		notifications = append(notifications, &notification)
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].ID < notifications[j].ID
	})
	return notifications
}
