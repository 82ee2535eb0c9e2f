package commands

import (
	"application_review_system/internal/db/models"
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const startCommandName = "start"

type startCommand struct{}

func NewStartCommand() Command {
	return &startCommand{}
}

func (c *startCommand) CanHandle(command string) bool {
	return command == startCommandName
}

func (c *startCommand) Handle(ctx context.Context, arguments string, user *models.User, chatID int64) []tgbotapi.Chattable {
	text := fmt.Sprintf(`Hi %s! Here is what I can do:

/%s - applications waiting for your vote
/%s <application id> - current voting summary
/%s <application id> <approve|reject|needs_more_info|abstain> <confidence 1-5> <reasoning> - cast or change your vote`,
		user.DisplayName(),
		pendingApplicationsCommandName,
		summaryCommandName,
		voteCommandName,
	)

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, text)}
}
