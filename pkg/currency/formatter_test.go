package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"250.00", "USD", "USD 250.00"},
		{"1250.5", "SGD", "SGD 1,250.50"},
		{"1234567.891", "EUR", "EUR 1,234,567.89"},
		{"-99.999", "USD", "-USD 100.00"},
		{"0", "", "0.00"},
		{"1500000", "idr", "IDR 1.500.000"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.amount), tt.code))
		})
	}
}

func TestFormatIDR(t *testing.T) {
	assert.Equal(t, "IDR 999", FormatIDR(decimal.NewFromInt(999)))
	assert.Equal(t, "IDR 1.000", FormatIDR(decimal.NewFromInt(1000)))
	assert.Equal(t, "-IDR 2.500", FormatIDR(decimal.RequireFromString("-2499.6")))
}
