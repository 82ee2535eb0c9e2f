package configs

type Bot struct {
	Token         string `env:"TELEGRAM_REVIEW_BOT_TOKEN"`
	UpdateTimeout int    `env:"TELEGRAM_BOT_UPDATE_TIMEOUT" envDefault:"60"`
}

func (c Bot) IsEnabled() bool {
	return c.Token != ""
}
