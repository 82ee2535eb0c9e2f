package tgbot

import (
	"application_review_system/configs"
	"application_review_system/internal/tg_bot/handlers"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type bot struct {
	handler handlers.CommandHandler
}

type Bot interface {
	Start(ctx context.Context, config configs.Bot, logger *zap.SugaredLogger) error
}

func NewBot(handler handlers.CommandHandler) Bot {
	return &bot{handler: handler}
}

func (b *bot) Start(ctx context.Context, config configs.Bot, logger *zap.SugaredLogger) error {
	logger.Info("creating bot")
	api, updates, err := b.createBot(config)
	if err != nil {
		return err
	}
	logger.Infow("bot created", "username", api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			logger.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.CallbackQuery != nil {
				if _, err := api.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, "")); err != nil {
					logger.Warnw("failed to answer callback", "error", err)
				}
			}
			for _, message := range b.handler.Handle(ctx, update) {
				if _, err := api.Send(message); err != nil {
					logger.Errorw("failed to send message", "error", err)
				}
			}
		}
	}
}

func (b *bot) createBot(config configs.Bot) (*tgbotapi.BotAPI, tgbotapi.UpdatesChannel, error) {
	api, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, nil, err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = config.UpdateTimeout

	return api, api.GetUpdatesChan(u), nil
}
