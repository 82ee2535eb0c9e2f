package main

import (
	"application_review_system/configs"
	"application_review_system/internal/di"
	"application_review_system/internal/notifier"
	"application_review_system/internal/services"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// commandContext is filled by the root pre-run so subcommands share one set
// of repositories.
type commandContext struct {
	config configs.ReviewCtlConfig
	logger *zap.SugaredLogger
	repos  di.Repositories
	svc    di.Services
}

func (c *commandContext) load() error {
	config, err := configs.LoadReviewCtlConfig()
	if err != nil {
		return err
	}

	c.config = config
	c.logger = di.NewLogger(config.Logger.AppName, config.App.Environment, config.Logger.URL)

	repos, err := di.NewRepositories(config.App, config.DB, c.logger)
	if err != nil {
		return fmt.Errorf("failed to start db: %w", err)
	}

	c.repos = repos
	c.svc = di.NewServices(repos, config.App, config.Review, c.logger)
	return nil
}

func (c *commandContext) deliveryWorker() (*services.DeliveryWorker, error) {
	telegramSender, err := notifier.NewTelegramSender(c.config.Bot)
	if err != nil {
		return nil, err
	}

	senders := []notifier.Sender{notifier.NewEmailSender(c.config.SMTP), telegramSender}
	return services.NewDeliveryWorker(c.repos.Notifications, c.repos.Users, senders, nil, c.config.Worker, c.logger), nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "reviewctl",
		Short:         "Administration CLI for the application review workflow",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if ctx.logger != nil {
				_ = ctx.logger.Sync()
			}
			return ctx.repos.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newSummaryCommand(ctx))
	rootCmd.AddCommand(newDeliverCommand(ctx))
	rootCmd.AddCommand(newPurgeCommand(ctx))

	return rootCmd
}
