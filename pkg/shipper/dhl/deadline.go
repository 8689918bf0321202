package dhl

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tournevent/dhlquote/pkg/shipper"
	"github.com/tournevent/dhlquote/pkg/shipper/calendar"
	"go.uber.org/zap"
)

// ErrDeadlineUnavailable is returned when the carrier gives no usable
// delivery estimate for a domestic route.
var ErrDeadlineUnavailable = errors.New("domestic deadline unavailable")

// Weight sent with deadline lookups, which only need the delivery date.
const deadlineWeight = 0.1

// EstimateDomesticDeadline returns the delivery estimate in days for req.
func (c *Client) EstimateDomesticDeadline(ctx context.Context, req *shipper.DomesticRequest) (int, error) {
	ctx, span := c.tracer.Start(ctx, "dhl.EstimateDomesticDeadline")
	defer span.End()

	shipDate, err := c.calendar.NextShippingDate(ctx, c.now())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDeadlineUnavailable, err)
	}
	shipDate = midnight(shipDate.In(c.config.Location))

	resp, err := c.apiClient.FetchQuotation(ctx, &QuotationParams{
		ShipDate:              calendar.FormatDate(shipDate),
		OriginCountry:         req.OriginCountry,
		OriginPostalCode:      req.OriginPostalCode,
		DestinationCountry:    req.DestinationCountry,
		DestinationPostalCode: req.DestinationPostalCode,
		Pieces:                1,
		Weight:                deadlineWeight,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDeadlineUnavailable, err)
	}
	if resp.Count != 1 || len(resp.QuotationList.Quotation) == 0 {
		c.logger.Ctx(ctx).Warn("DHL deadline lookup returned no single product",
			zap.Int("count", resp.Count),
			zap.String("error_message", resp.ErrorMessage),
		)
		return 0, fmt.Errorf("%w: quotation count %d", ErrDeadlineUnavailable, resp.Count)
	}

	delivery, err := ParseEstimatedDelivery(resp.QuotationList.Quotation[0].EstDeliv, c.config.Location)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDeadlineUnavailable, err)
	}

	days := int(math.Ceil(delivery.Sub(shipDate).Hours() / 24))
	adjusted := AdjustDeadline(days)

	c.logger.Ctx(ctx).Debug("DHL domestic deadline",
		zap.String("ship_date", calendar.FormatDate(shipDate)),
		zap.String("estimated_delivery", calendar.FormatDate(delivery)),
		zap.Int("raw_days", days),
		zap.Int("days", adjusted),
	)
	return adjusted, nil
}

// AdjustDeadline corrects the carrier's domestic overestimate.
func AdjustDeadline(days int) int {
	switch {
	case days > 4 && days < 10:
		days -= 2
	case days > 11 && days < 17:
		days -= 4
	case days > 18:
		days -= 6
	}
	if days == 0 {
		return 1
	}
	return days
}

// BusinessDaysBetween counts Monday to Friday days from `from` up to `to`
// by calendar date, ignoring holidays. It is negative when to is before from.
func BusinessDaysBetween(to, from time.Time) int {
	left := civilDate(to)
	right := civilDate(from)

	diff := int(left.Sub(right).Hours() / 24)
	sign := 1
	if diff < 0 {
		sign = -1
	}

	weeks := diff / 7
	result := weeks * 5
	right = right.AddDate(0, 0, weeks*7)

	for !right.Equal(left) {
		if wd := right.Weekday(); wd != time.Saturday && wd != time.Sunday {
			result += sign
		}
		right = right.AddDate(0, 0, sign)
	}
	return result
}

// civilDate drops the clock and zone, keeping the wall-clock date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
