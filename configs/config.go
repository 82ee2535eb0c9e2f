package configs

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type ReviewAPIConfig struct {
	App    App
	DB     DB
	Logger Logger
	HTTP   HTTP
	Review Review
}

type NotificationWorkerConfig struct {
	App    App
	DB     DB
	Logger Logger
	SMTP   SMTP
	Bot    Bot
	Redis  Redis
	Worker Worker
	Review Review
}

type ReviewBotConfig struct {
	App    App
	DB     DB
	Logger Logger
	Bot    Bot
	Review Review
}

type ReviewCtlConfig struct {
	App    App
	DB     DB
	Logger Logger
	SMTP   SMTP
	Bot    Bot
	Worker Worker
	Review Review
}

func LoadReviewAPIConfig() (ReviewAPIConfig, error) {
	var config ReviewAPIConfig
	if err := parse(&config); err != nil {
		return ReviewAPIConfig{}, err
	}

	return config, nil
}

func LoadNotificationWorkerConfig() (NotificationWorkerConfig, error) {
	var config NotificationWorkerConfig
	if err := parse(&config); err != nil {
		return NotificationWorkerConfig{}, err
	}

	return config, nil
}

func LoadReviewBotConfig() (ReviewBotConfig, error) {
	var config ReviewBotConfig
	if err := parse(&config); err != nil {
		return ReviewBotConfig{}, err
	}

	if !config.Bot.IsEnabled() {
		return ReviewBotConfig{}, fmt.Errorf("failed to parse config: TELEGRAM_REVIEW_BOT_TOKEN is required")
	}

	return config, nil
}

func LoadReviewCtlConfig() (ReviewCtlConfig, error) {
	var config ReviewCtlConfig
	if err := parse(&config); err != nil {
		return ReviewCtlConfig{}, err
	}

	return config, nil
}

func parse(config any) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}
