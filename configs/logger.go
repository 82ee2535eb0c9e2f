package configs

type Logger struct {
	AppName string `env:"LOGGER_APP_NAME" envDefault:"application-review"`
	URL     string `env:"LOKI_URL"`
}
