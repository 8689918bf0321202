// Package calendar resolves the next date a shipment can be handed to the
// carrier: the designated pickup weekday, skipping holidays reported by the
// calendario.com.br API.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tournevent/dhlquote/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const serviceName = "calendario"

// DateLayout is the wire format of a ship date.
const DateLayout = "2006-01-02"

// maxHolidayHops bounds how many consecutive pickup days may be skipped.
const maxHolidayHops = 8

// Policy decides what happens when the holiday API cannot be reached.
type Policy int

const (
	// FailClosed reports the quote as unavailable.
	FailClosed Policy = iota
	// FallbackUnadjusted ships on the weekday-adjusted date without the holiday check.
	FallbackUnadjusted
)

// ParsePolicy parses "fail" or "ignore".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return FailClosed, nil
	case "ignore":
		return FallbackUnadjusted, nil
	}
	return FailClosed, fmt.Errorf("unknown holiday failure policy %q", s)
}

func (p Policy) String() string {
	if p == FallbackUnadjusted {
		return "ignore"
	}
	return "fail"
}

// ParseWeekday parses an English weekday name ("monday", "Tue").
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return time.Monday, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("unknown weekday %q", s)
}

// Config holds calendar configuration.
type Config struct {
	BaseURL string
	Token   string
	State   string
	City    string
	Timeout time.Duration
	UseMock bool // When true, uses mock API client

	Weekday  time.Weekday
	Location *time.Location // defaults to time.Local
	Policy   Policy
}

// Calendar resolves ship dates. It keeps no state between calls.
type Calendar struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Calendar.
// If cfg.UseMock is true, it uses a mock API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Calendar {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			Token:   cfg.Token,
			State:   cfg.State,
			City:    cfg.City,
			Timeout: cfg.Timeout,
		})
	}

	return NewWithAPIClient(cfg, apiClient, logger, tracer)
}

// NewWithAPIClient creates a new Calendar with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Calendar {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Calendar{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NextShippingDate returns local midnight of the first designated weekday on
// or after now that is not a holiday. A holiday moves the date to the
// following week's weekday, which is checked again.
func (c *Calendar) NextShippingDate(ctx context.Context, now time.Time) (time.Time, error) {
	ctx, span := c.tracer.Start(ctx, "calendar.NextShippingDate")
	defer span.End()

	day := NextWeekday(midnight(now.In(c.config.Location)), c.config.Weekday)

	var (
		holidays map[string]Holiday
		year     int
	)
	for hop := 0; hop < maxHolidayHops; hop++ {
		if day.Year() != year {
			list, err := c.apiClient.Holidays(ctx, day.Year())
			if err != nil {
				span.RecordError(err)
				if c.config.Policy == FallbackUnadjusted {
					c.logger.Ctx(ctx).Warn("Holiday calendar unavailable, shipping without holiday check",
						zap.Int("year", day.Year()),
						zap.String("ship_date", FormatDate(day)),
						zap.Error(err),
					)
					return day, nil
				}
				span.SetStatus(codes.Error, "holiday calendar unavailable")
				c.logger.Ctx(ctx).Error("Holiday calendar unavailable", zap.Int("year", day.Year()), zap.Error(err))
				qe := shipper.Unavailable(serviceName, "holiday calendar unavailable", err)
				var apiErr *APIError
				if errors.As(err, &apiErr) {
					qe.WithStatusCode(apiErr.StatusCode)
				}
				return time.Time{}, qe
			}
			var invalid []Holiday
			holidays, invalid = index(list, c.config.Location)
			for _, h := range invalid {
				c.logger.Ctx(ctx).Warn("Ignoring holiday with unreadable date",
					zap.String("date", h.Date),
					zap.String("holiday", h.Name),
				)
			}
			year = day.Year()
		}

		h, ok := holidays[FormatDate(day)]
		if !ok || !h.BlocksShipping() {
			span.SetAttributes(attribute.String("ship_date", FormatDate(day)), attribute.Int("holiday_hops", hop))
			return day, nil
		}

		c.logger.Ctx(ctx).Debug("Skipping holiday",
			zap.String("date", FormatDate(day)),
			zap.String("holiday", h.Name),
			zap.String("type", h.Type),
		)
		day = NextWeekday(day.AddDate(0, 0, 1), c.config.Weekday)
	}

	span.SetStatus(codes.Error, "no shipping date")
	return time.Time{}, shipper.NewQuoteError(serviceName, shipper.CodeCarrierUnavailable,
		fmt.Sprintf("no shipping date within %d weeks", maxHolidayHops))
}

// NextWeekday advances day to the next occurrence of target, staying put when
// day already falls on it.
func NextWeekday(day time.Time, target time.Weekday) time.Time {
	offset := (int(target) + 7 - int(day.Weekday())) % 7
	return day.AddDate(0, 0, offset)
}

// FormatDate renders a ship date for the carrier.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// index keys entries by ship date. Entries with an unreadable date are
// returned separately.
func index(list []Holiday, loc *time.Location) (map[string]Holiday, []Holiday) {
	out := make(map[string]Holiday, len(list))
	var invalid []Holiday
	for _, h := range list {
		day, err := h.Day(loc)
		if err != nil {
			invalid = append(invalid, h)
			continue
		}
		key := FormatDate(day)
		// A date may carry several entries; a blocking one wins.
		if prev, ok := out[key]; ok && prev.BlocksShipping() {
			continue
		}
		out[key] = h
	}
	return out, invalid
}
