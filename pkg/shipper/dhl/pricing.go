package dhl

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// EstimatedDeliveryLayout is the date part of Quotation.EstDeliv.
const EstimatedDeliveryLayout = "2 Jan 2006"

// Domestic handling surcharges, added unless the destination is a remote area.
var (
	SurchargeZoneOne   = decimal.NewFromInt(20)
	SurchargeOtherZone = decimal.NewFromInt(10)
)

// DefaultPriceFactor is applied to international carrier prices.
var DefaultPriceFactor = decimal.RequireFromString("0.98")

// ParsePrice parses a carrier price such as "BRL1,000.00".
func ParsePrice(s string) (decimal.Decimal, error) {
	amount := strings.TrimLeftFunc(strings.TrimSpace(s), unicode.IsLetter)
	amount = strings.ReplaceAll(strings.TrimSpace(amount), ",", "")
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return d, nil
}

// ParseEstimatedDelivery parses "Friday, 23 Oct 2026" as midnight in loc.
func ParseEstimatedDelivery(s string, loc *time.Location) (time.Time, error) {
	_, date, ok := strings.Cut(s, ",")
	if !ok {
		return time.Time{}, fmt.Errorf("invalid estimated delivery %q", s)
	}
	t, err := time.ParseInLocation(EstimatedDeliveryLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid estimated delivery %q: %w", s, err)
	}
	return t, nil
}

// FormatEstimatedDelivery renders t the way the carrier does.
func FormatEstimatedDelivery(t time.Time) string {
	return t.Format("Monday, 02 Jan 2006")
}

// Surcharge returns the domestic surcharge for a tariff zone.
func Surcharge(zone int, remote bool) decimal.Decimal {
	switch {
	case remote:
		return decimal.Zero
	case zone == 1:
		return SurchargeZoneOne
	default:
		return SurchargeOtherZone
	}
}
