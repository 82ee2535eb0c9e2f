package notifier

import (
	"application_review_system/configs"
	"application_review_system/internal/db/models"
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const ChannelTelegram = "telegram"

type messageSender interface {
	Send(chattable tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramSender struct {
	bot messageSender
}

func NewTelegramSender(config configs.Bot) (Sender, error) {
	if !config.IsEnabled() {
		return noopSender{channel: ChannelTelegram}, nil
	}

	bot, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &telegramSender{bot: bot}, nil
}

func (s *telegramSender) Channel() string {
	return ChannelTelegram
}

func (s *telegramSender) Send(ctx context.Context, recipient *models.User, notification *models.Notification) error {
	if recipient.TelegramID == 0 {
		return ErrNoAddress
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	message := tgbotapi.NewMessage(recipient.TelegramID, notification.Title+"\n\n"+plainText(notification))
	message.DisableWebPagePreview = true

	if _, err := s.bot.Send(message); err != nil {
		return fmt.Errorf("failed to send telegram message to %d: %w", recipient.TelegramID, err)
	}
	return nil
}
