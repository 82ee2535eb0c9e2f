package commands

import (
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

const summaryCommandName = "summary"

type summaryCommand struct {
	applicationService services.ApplicationService
	logger             *zap.SugaredLogger
}

func NewSummaryCommand(applicationService services.ApplicationService, logger *zap.SugaredLogger) Command {
	return &summaryCommand{
		applicationService: applicationService,
		logger:             logger,
	}
}

func (c *summaryCommand) CanHandle(command string) bool {
	return command == summaryCommandName
}

func (c *summaryCommand) Handle(ctx context.Context, arguments string, user *models.User, chatID int64) []tgbotapi.Chattable {
	applicationID, err := strconv.ParseInt(strings.TrimSpace(arguments), 10, 64)
	if err != nil {
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "Usage: /summary <application id>")}
	}

	summary, err := c.applicationService.GetVotingSummary(ctx, applicationID)
	if err != nil {
		c.logger.Warnw("failed to get voting summary", "application_id", applicationID, "error", err)
		return []tgbotapi.Chattable{tgbot.WorkflowErrorMessage(chatID, err)}
	}

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, formatSummary(summary))}
}

func formatSummary(summary services.VotingSummary) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("Application #%d\n", summary.ApplicationID))
	text.WriteString(fmt.Sprintf("Votes: %d of %d required\n", summary.TotalVotesCast+summary.AbstainCount, summary.VotesRequired))
	text.WriteString(fmt.Sprintf("Approve: %d\nReject: %d\nNeeds more info: %d\nAbstain: %d\n",
		summary.ApproveCount, summary.RejectCount, summary.NeedsInfoCount, summary.AbstainCount))

	switch {
	case summary.IsApproved:
		text.WriteString("Approval threshold reached\n")
	case summary.HasSufficientVotes:
		text.WriteString("Quorum reached\n")
	}
	if summary.HasAnyRejection {
		text.WriteString("At least one reviewer rejected\n")
	}

	if len(summary.PendingVoters) > 0 {
		text.WriteString("Waiting for: " + strings.Join(summary.PendingVoters, ", "))
	}

	return strings.TrimSpace(text.String())
}
