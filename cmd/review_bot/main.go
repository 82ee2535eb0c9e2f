package main

import (
	"application_review_system/configs"
	"application_review_system/internal/di"
	tgbot "application_review_system/internal/tg_bot"
	"application_review_system/internal/tg_bot/commands"
	"application_review_system/internal/tg_bot/handlers"
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	config, err := configs.LoadReviewBotConfig()
	logger := di.NewLogger(config.Logger.AppName, config.App.Environment, config.Logger.URL)

	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}
	logger.Info("config loaded")

	logger.Info("starting db")
	repos, err := di.NewRepositories(config.App, config.DB, logger)
	if err != nil {
		logger.Fatalw("failed to start db", "error", err)
	}
	defer repos.Close()
	logger.Info("db started")

	svc := di.NewServices(repos, config.App, config.Review, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting bot")
	err = tgbot.NewBot(
		handlers.NewReviewBotCommandHandler(
			repos.Users,
			logger,
			[]commands.Command{
				commands.NewStartCommand(),
				commands.NewPendingApplicationsCommand(svc.Applications, logger),
				commands.NewSummaryCommand(svc.Applications, logger),
				commands.NewVoteCommand(svc.Applications, logger),
			},
		),
	).Start(ctx, config.Bot, logger)
	if err != nil {
		logger.Fatalw("failed to run bot", "error", err)
	}
}
