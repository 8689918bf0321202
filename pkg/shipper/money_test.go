package shipper_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tournevent/dhlquote/pkg/shipper"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		fixed  bool
		want   string
	}{
		{"fixed two decimals", "980", true, "R$ 980,00"},
		{"fixed grouping", "1234.56", true, "R$ 1.234,56"},
		{"fixed rounds", "19.999", true, "R$ 20,00"},
		{"integer total", "60", false, "R$ 60"},
		{"fractional total", "70.5", false, "R$ 70,5"},
		{"grouped total", "1250.75", false, "R$ 1.250,75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shipper.FormatBRL(decimal.RequireFromString(tt.amount), tt.fixed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBRL(t *testing.T) {
	m := shipper.BRL(decimal.NewFromInt(10))
	assert.Equal(t, "BRL", m.Currency)
	assert.True(t, m.Amount.Equal(decimal.NewFromInt(10)))
}
