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

const (
	voteCommandName = "vote"
	voteUsage       = "Usage: /vote <application id> <approve|reject|needs_more_info|abstain> <confidence 1-5> <reasoning>"
)

type voteCommand struct {
	applicationService services.ApplicationService
	logger             *zap.SugaredLogger
}

func NewVoteCommand(applicationService services.ApplicationService, logger *zap.SugaredLogger) Command {
	return &voteCommand{
		applicationService: applicationService,
		logger:             logger,
	}
}

func (c *voteCommand) CanHandle(command string) bool {
	return command == voteCommandName
}

func (c *voteCommand) Handle(ctx context.Context, arguments string, user *models.User, chatID int64) []tgbotapi.Chattable {
	request, ok := parseVote(arguments)
	if !ok {
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, voteUsage)}
	}
	request.VoterID = user.ID

	vote, err := c.applicationService.CastVote(ctx, request)
	if err != nil {
		c.logger.Warnw("failed to cast vote", "application_id", request.ApplicationID, "voter_id", user.ID, "error", err)
		return []tgbotapi.Chattable{tgbot.WorkflowErrorMessage(chatID, err)}
	}

	text := fmt.Sprintf("Your vote on application #%d is recorded: %s (confidence %d)",
		vote.ApplicationID, vote.Decision.DisplayName(), vote.ConfidenceLevel)
	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, text)}
}

func parseVote(arguments string) (services.CastVoteRequest, bool) {
	fields := strings.Fields(arguments)
	if len(fields) < 4 {
		return services.CastVoteRequest{}, false
	}

	applicationID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return services.CastVoteRequest{}, false
	}
	confidence, err := strconv.Atoi(fields[2])
	if err != nil {
		return services.CastVoteRequest{}, false
	}

	return services.CastVoteRequest{
		ApplicationID:   applicationID,
		Decision:        models.VoteDecision(strings.ToLower(fields[1])),
		ConfidenceLevel: confidence,
		Reasoning:       strings.Join(fields[3:], " "),
	}, true
}
