package dhl_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/dhlquote/pkg/shipper/dhl"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BRL1,000.00", "1000.00"},
		{"BRL54.90", "54.90"},
		{"BRL 12,345.67", "12345.67"},
		{"980.5", "980.50"},
	}

	for _, tt := range tests {
		got, err := dhl.ParsePrice(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.StringFixed(2), tt.in)
	}

	for _, bad := range []string{"", "BRL", "BRLabc", "N/A"} {
		_, err := dhl.ParsePrice(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseEstimatedDelivery(t *testing.T) {
	got, err := dhl.ParseEstimatedDelivery("Friday, 23 Oct 2026", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 23, 0, 0, 0, 0, time.UTC), got)

	got, err = dhl.ParseEstimatedDelivery("Monday, 2 Nov 2026", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.November, 2, 0, 0, 0, 0, time.UTC), got)

	_, err = dhl.ParseEstimatedDelivery("23 Oct 2026", time.UTC)
	assert.Error(t, err)

	_, err = dhl.ParseEstimatedDelivery("Friday, 2026-10-23", time.UTC)
	assert.Error(t, err)
}

func TestFormatEstimatedDelivery(t *testing.T) {
	d := time.Date(2026, time.November, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Monday, 02 Nov 2026", dhl.FormatEstimatedDelivery(d))

	back, err := dhl.ParseEstimatedDelivery(dhl.FormatEstimatedDelivery(d), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, d, back)
}

func TestSurcharge(t *testing.T) {
	assert.Equal(t, "20", dhl.Surcharge(1, false).String())
	assert.Equal(t, "10", dhl.Surcharge(2, false).String())
	assert.Equal(t, "10", dhl.Surcharge(5, false).String())
	assert.Equal(t, "0", dhl.Surcharge(1, true).String())
	assert.Equal(t, "0", dhl.Surcharge(3, true).String())
}
