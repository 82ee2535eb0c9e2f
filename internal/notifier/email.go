package notifier

import (
	"application_review_system/configs"
	"application_review_system/internal/db/models"
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

const ChannelEmail = "email"

type dialer interface {
	DialAndSend(messages ...*gomail.Message) error
}

type emailSender struct {
	from   string
	dialer dialer
}

// NewEmailSender returns a sender that never delivers when SMTP is not
// configured.
func NewEmailSender(config configs.SMTP) Sender {
	if !config.IsEnabled() {
		return noopSender{channel: ChannelEmail}
	}

	return &emailSender{
		from:   config.From,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (s *emailSender) Channel() string {
	return ChannelEmail
}

func (s *emailSender) Send(ctx context.Context, recipient *models.User, notification *models.Notification) error {
	if recipient.Email == "" {
		return ErrNoAddress
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", s.from)
	message.SetAddressHeader("To", recipient.Email, recipient.Name)
	message.SetHeader("Subject", notification.Title)
	message.SetBody("text/plain", plainText(notification))

	if err := s.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", recipient.Email, err)
	}
	return nil
}
