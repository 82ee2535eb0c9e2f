// Package notifier delivers stored notifications over external channels.
package notifier

import (
	"application_review_system/internal/db/models"
	"context"
	"errors"
	"strings"
)

// ErrNoAddress means the recipient cannot be reached on the channel. The
// delivery worker skips the channel instead of counting a failure.
var ErrNoAddress = errors.New("recipient has no address for this channel")

type Sender interface {
	Channel() string
	Send(ctx context.Context, recipient *models.User, notification *models.Notification) error
}

type noopSender struct {
	channel string
}

func (s noopSender) Channel() string {
	return s.channel
}

func (s noopSender) Send(context.Context, *models.User, *models.Notification) error {
	return ErrNoAddress
}

func plainText(notification *models.Notification) string {
	var builder strings.Builder
	builder.WriteString(notification.Message)
	if notification.ActionURL != "" {
		builder.WriteString("\n\n")
		builder.WriteString(notification.ActionURL)
	}
	return builder.String()
}
