package main

import (
	"application_review_system/configs"
	"application_review_system/internal/cache"
	"application_review_system/internal/di"
	"application_review_system/internal/notifier"
	"application_review_system/internal/services"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadNotificationWorkerConfig()
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

	telegramSender, err := notifier.NewTelegramSender(config.Bot)
	if err != nil {
		logger.Fatalw("failed to create telegram sender", "error", err)
	}
	senders := []notifier.Sender{notifier.NewEmailSender(config.SMTP), telegramSender}

	var lease services.Lease
	if config.Redis.URL != "" {
		client, err := cache.NewRedisClient(config.Redis.URL)
		if err != nil {
			logger.Fatalw("failed to create redis client", "error", err)
		}
		defer client.Close()
		lease = cache.NewLease(client)
		logger.Info("delivery lease enabled")
	}

	worker := services.NewDeliveryWorker(repos.Notifications, repos.Users, senders, lease, config.Worker, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	if _, err := s.Every(config.Worker.DeliveryInterval).Do(deliver, ctx, worker, logger); err != nil {
		logger.Fatalw("failed to schedule delivery", "error", err)
	}
	if _, err := s.Cron(config.Worker.PurgeCron).Do(purge, ctx, worker, logger); err != nil {
		logger.Fatalw("failed to schedule purge", "error", err)
	}

	s.StartAsync()
	logger.Infow("notification worker started", "interval", config.Worker.DeliveryInterval, "purge_cron", config.Worker.PurgeCron)

	<-ctx.Done()
	s.Stop()
	logger.Info("notification worker stopped")
}

func deliver(ctx context.Context, worker *services.DeliveryWorker, logger *zap.SugaredLogger) {
	report, err := worker.RunOnce(ctx)
	if err != nil {
		logger.Errorw("delivery cycle failed", "error", err)
	}
	if report.Delivered+report.Failed+report.Skipped > 0 {
		logger.Infow("delivery cycle finished", "delivered", report.Delivered, "failed", report.Failed, "skipped", report.Skipped)
	}
}

func purge(ctx context.Context, worker *services.DeliveryWorker, logger *zap.SugaredLogger) {
	expired, deleted, err := worker.Purge(ctx)
	if err != nil {
		logger.Errorw("failed to purge notifications", "error", err)
		return
	}
	logger.Infow("notifications purged", "expired", expired, "deleted", deleted)
}
