package configs

import "time"

type Worker struct {
	DeliveryInterval time.Duration `env:"WORKER_DELIVERY_INTERVAL" envDefault:"30s"`
	BatchSize        int           `env:"WORKER_BATCH_SIZE" envDefault:"100"`
	MaxAttempts      int           `env:"WORKER_MAX_ATTEMPTS" envDefault:"5"`
	PurgeCron        string        `env:"WORKER_PURGE_CRON" envDefault:"0 3 * * *"`
	LeaseTTL         time.Duration `env:"WORKER_LEASE_TTL" envDefault:"2m"`
}
