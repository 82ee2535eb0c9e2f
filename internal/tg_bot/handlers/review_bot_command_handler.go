package handlers

import (
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	"application_review_system/internal/tg_bot/commands"
	tgbot "application_review_system/internal/tg_bot/extension"
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type reviewBotCommandHandler struct {
	userRepository repositories.UserRepository
	logger         *zap.SugaredLogger

	commands []commands.Command
}

func NewReviewBotCommandHandler(
	userRepository repositories.UserRepository,
	logger *zap.SugaredLogger,
	commands []commands.Command,
) CommandHandler {
	return &reviewBotCommandHandler{
		userRepository: userRepository,
		logger:         logger,
		commands:       commands,
	}
}

func (h *reviewBotCommandHandler) Handle(ctx context.Context, update tgbotapi.Update) []tgbotapi.Chattable {
	message := update.Message
	callbackQuery := update.CallbackQuery

	if message == nil && (callbackQuery == nil || callbackQuery.Message == nil) {
		h.logger.Warn("received unknown update")
		return []tgbotapi.Chattable{}
	}

	var (
		chatID       int64
		telegramUser *tgbotapi.User
	)

	if message != nil {
		chatID = message.Chat.ID
		telegramUser = message.From
	} else {
		chatID = callbackQuery.Message.Chat.ID
		telegramUser = callbackQuery.From
	}

	if telegramUser == nil {
		return []tgbotapi.Chattable{}
	}

	user, errMessage := h.reviewer(ctx, telegramUser.ID, chatID)
	if errMessage != nil {
		return []tgbotapi.Chattable{errMessage}
	}

	if message != nil {
		if !message.IsCommand() {
			return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "Send /start to see the available commands.")}
		}
		return h.tryToHandleCommand(ctx, message.Command(), message.CommandArguments(), user, chatID)
	}

	return h.tryToHandleQueryCallback(ctx, callbackQuery.Data, user, chatID)
}

func (h *reviewBotCommandHandler) reviewer(ctx context.Context, telegramID, chatID int64) (*models.User, tgbotapi.Chattable) {
	user, err := h.userRepository.GetOneByTelegramID(ctx, telegramID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, tgbot.ErrorMessage(chatID, "Your Telegram account is not linked to a reviewer profile.")
	}
	if err != nil {
		h.logger.Errorw("failed to get user", "telegram_id", telegramID, "error", err)
		return nil, tgbot.DefaultErrorMessage(chatID)
	}

	if !user.IsActiveReviewer() {
		return nil, tgbot.ErrorMessage(chatID, "Only active reviewers can use this bot.")
	}

	return user, nil
}

func (h *reviewBotCommandHandler) tryToHandleCommand(ctx context.Context, command, arguments string, user *models.User, chatID int64) []tgbotapi.Chattable {
	for _, handler := range h.commands {
		if handler.CanHandle(command) {
			return handler.Handle(ctx, strings.TrimSpace(arguments), user, chatID)
		}
	}

	h.logger.Warnw("received unknown command", "command", command)
	return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "Unknown command. Send /start to see the available commands.")}
}

// Callback data has the form "<command>:<arguments>".
func (h *reviewBotCommandHandler) tryToHandleQueryCallback(ctx context.Context, query string, user *models.User, chatID int64) []tgbotapi.Chattable {
	command, arguments, _ := strings.Cut(query, ":")
	if command == "" {
		h.logger.Warn("received empty query callback")
		return []tgbotapi.Chattable{}
	}

	return h.tryToHandleCommand(ctx, command, arguments, user, chatID)
}
