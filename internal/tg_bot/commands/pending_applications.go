package commands

import (
	"application_review_system/internal"
	"application_review_system/internal/db/models"
	"application_review_system/internal/services"
	tgbot "application_review_system/internal/tg_bot/extension"
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const pendingApplicationsCommandName = "pending_applications"

type pendingApplicationsCommand struct {
	applicationService services.ApplicationService
	logger             *zap.SugaredLogger
}

func NewPendingApplicationsCommand(applicationService services.ApplicationService, logger *zap.SugaredLogger) Command {
	return &pendingApplicationsCommand{
		applicationService: applicationService,
		logger:             logger,
	}
}

func (c *pendingApplicationsCommand) CanHandle(command string) bool {
	return command == pendingApplicationsCommandName
}

func (c *pendingApplicationsCommand) Handle(ctx context.Context, arguments string, user *models.User, chatID int64) []tgbotapi.Chattable {
	applications, err := c.applicationService.GetPendingApplicationsForReviewer(ctx, user.ID)
	if err != nil {
		c.logger.Errorw("failed to get pending applications", "reviewer_id", user.ID, "error", err)
		return []tgbotapi.Chattable{tgbot.WorkflowErrorMessage(chatID, err)}
	}

	if len(applications) == 0 {
		return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, "No applications are waiting for your vote")}
	}

	var text strings.Builder
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(applications))

	for _, application := range applications {
		text.WriteString(fmt.Sprintf("#%d %s\n", application.ID, application.Profile.FullName))
		text.WriteString(fmt.Sprintf("Status: %s\n", application.Status.DisplayName()))
		text.WriteString(fmt.Sprintf("Requested: %s per month\n", internal.FormatAmount(application.Profile.RequestedMonthlyAmount)))
		text.WriteString(fmt.Sprintf("Submitted: %s\n\n", internal.FormatOptional(application.SubmittedDate)))

		id := strconv.FormatInt(application.ID, 10)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Summary #"+id, summaryCommandName+":"+id),
		))
	}

	message := tgbotapi.NewMessage(chatID, strings.TrimSpace(text.String()))
	message.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	return []tgbotapi.Chattable{message}
}
