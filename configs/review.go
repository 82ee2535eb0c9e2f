package configs

import "time"

type Review struct {
	MinReasoningLength           int           `env:"REVIEW_MIN_REASONING_LENGTH" envDefault:"10"`
	DefaultProgramDurationMonths int           `env:"REVIEW_DEFAULT_PROGRAM_DURATION_MONTHS" envDefault:"12"`
	NotificationTTL              time.Duration `env:"REVIEW_NOTIFICATION_TTL" envDefault:"2160h"`
}
