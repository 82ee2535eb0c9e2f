package internal

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	formatDDMMYYYY = "02.01.2006"
)

func Format(date time.Time) string {
	return date.Format(formatDDMMYYYY)
}

func FormatOptional(date *time.Time) string {
	if date == nil {
		return "-"
	}
	return Format(*date)
}

func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
