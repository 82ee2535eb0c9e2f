package configs

type Redis struct {
	URL string `env:"REDIS_URL"`
}
