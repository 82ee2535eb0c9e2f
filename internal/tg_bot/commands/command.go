package commands

import (
	"application_review_system/internal/db/models"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Command interface {
	CanHandle(command string) bool
	Handle(ctx context.Context, arguments string, user *models.User, chatID int64) []tgbotapi.Chattable
}
