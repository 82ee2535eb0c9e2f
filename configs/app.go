package configs

type App struct {
	Environment string `env:"ENVIRONMENT,notEmpty"`
	BaseURL     string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
}

func (c App) IsDevEnvironment() bool {
	return c.Environment == "dev"
}
