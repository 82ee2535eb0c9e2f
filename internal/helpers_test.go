package internal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "05.03.2026", Format(time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)))
}

func TestFormatOptional_Nil(t *testing.T) {
	assert.Equal(t, "-", FormatOptional(nil))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1500.50", FormatAmount(decimal.RequireFromString("1500.5")))
}
