// Package dhl provides DHL Express quotes: international offers straight
// from the public quotation endpoint, and domestic prices from the local
// zone tariff with the carrier's delivery estimate.
package dhl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tournevent/dhlquote/pkg/shipper"
	"github.com/tournevent/dhlquote/pkg/shipper/calendar"
	"github.com/tournevent/dhlquote/pkg/tariff"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const carrierName = "dhl"

// internationalProduct is the only product line offered abroad.
const internationalProduct = "express worldwide"

// Config holds DHL configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	UseMock bool // When true, uses mock API client

	OriginCountry    string // international origin, e.g. BR
	OriginCity       string // international origin city, e.g. COTIA
	DeclaredCurrency string // declared value currency, e.g. BRL
	PriceFactor      decimal.Decimal
	Location         *time.Location // defaults to time.Local
}

// ShipDateResolver resolves the date a shipment is handed over.
type ShipDateResolver interface {
	NextShippingDate(ctx context.Context, now time.Time) (time.Time, error)
}

// Deps are the collaborators of a Client.
type Deps struct {
	Calendar ShipDateResolver
	Cities   tariff.CityLookup
	Tariffs  tariff.Calculator
	Now      func() time.Time // defaults to time.Now
}

// Client is the DHL quoter.
// It implements shipper.Quoter and delegates carrier calls to the
// underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	calendar  ShipDateResolver
	cities    tariff.CityLookup
	tariffs   tariff.Calculator
	now       func() time.Time
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new DHL client.
// If cfg.UseMock is true, it uses a mock API client.
func New(cfg Config, deps Deps, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	}

	return NewWithAPIClient(cfg, apiClient, deps, logger, tracer)
}

// NewWithAPIClient creates a new DHL client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, deps Deps, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.PriceFactor.IsZero() {
		cfg.PriceFactor = DefaultPriceFactor
	}
	if cfg.DeclaredCurrency == "" {
		cfg.DeclaredCurrency = shipper.CurrencyBRL
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		calendar:  deps.Calendar,
		cities:    deps.Cities,
		tariffs:   deps.Tariffs,
		now:       deps.Now,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// QuoteInternational returns the Express Worldwide offers for req.
func (c *Client) QuoteInternational(ctx context.Context, req *shipper.InternationalRequest) (*shipper.InternationalQuote, error) {
	ctx, span := c.tracer.Start(ctx, "dhl.QuoteInternational", trace.WithAttributes(
		attribute.String("destination_country", req.DestinationCountry),
	))
	defer span.End()

	c.logger.Ctx(ctx).Info("Getting DHL international quote",
		zap.String("destination_country", req.DestinationCountry),
		zap.String("destination_city", req.DestinationCity),
		zap.Float64("weight", req.Weight),
	)

	now := c.now()
	shipDate, err := c.calendar.NextShippingDate(ctx, now)
	if err != nil {
		return nil, c.fail(ctx, span, unavailable("ship date unavailable", err))
	}

	origin, city := c.config.OriginCountry, c.config.OriginCity
	if req.OriginCountry != "" {
		origin = req.OriginCountry
	}
	if req.OriginCity != "" {
		city = req.OriginCity
	}

	resp, err := c.apiClient.FetchQuotation(ctx, &QuotationParams{
		ShipDate:              calendar.FormatDate(shipDate),
		OriginCountry:         origin,
		OriginCity:            city,
		DestinationCountry:    req.DestinationCountry,
		DestinationCity:       req.DestinationCity,
		DestinationPostalCode: req.DestinationPostalCode,
		Pieces:                1,
		Weight:                req.Weight,
		DeclaredCurrency:      c.config.DeclaredCurrency,
	})
	if err != nil {
		return nil, c.fail(ctx, span, unavailable("quotation service unavailable", err))
	}

	if resp.Count == 0 {
		return nil, c.fail(ctx, span, shipper.NewQuoteError(carrierName, shipper.CodeCarrierError, resp.ErrorMessage))
	}

	offers := make([]shipper.Offer, 0, len(resp.QuotationList.Quotation))
	for _, q := range resp.QuotationList.Quotation {
		if !strings.EqualFold(strings.TrimSpace(q.ProdNm), internationalProduct) {
			continue
		}

		delivery, err := ParseEstimatedDelivery(q.EstDeliv, c.config.Location)
		if err != nil {
			return nil, c.fail(ctx, span, unavailable("unreadable quotation", err))
		}
		price, err := ParsePrice(q.EstTotPrice)
		if err != nil {
			return nil, c.fail(ctx, span, unavailable("unreadable quotation", err))
		}

		lower := BusinessDaysBetween(delivery, now.In(c.config.Location))
		offers = append(offers, shipper.Offer{
			Product:       q.ProdNm,
			MinDays:       lower,
			MaxDays:       lower + 2,
			DeliveryRange: fmt.Sprintf("%d - %d", lower, lower+2),
			Price:         shipper.BRL(price.Mul(c.config.PriceFactor).Round(2)),
		})
	}

	c.logger.Ctx(ctx).Info("DHL international quote ready",
		zap.Int("carrier_count", resp.Count),
		zap.Int("offers", len(offers)),
	)

	return &shipper.InternationalQuote{
		Service: shipper.ServiceInternational,
		Offers:  offers,
	}, nil
}

// QuoteDomestic prices req from the zone tariff and attaches the carrier's
// delivery estimate.
func (c *Client) QuoteDomestic(ctx context.Context, req *shipper.DomesticRequest) (*shipper.DomesticQuote, error) {
	ctx, span := c.tracer.Start(ctx, "dhl.QuoteDomestic")
	defer span.End()

	originPrefix := tariff.Prefix(req.OriginPostalCode)
	destinationPrefix := tariff.Prefix(req.DestinationPostalCode)

	c.logger.Ctx(ctx).Info("Getting DHL domestic quote",
		zap.String("origin_prefix", originPrefix),
		zap.String("destination_prefix", destinationPrefix),
		zap.Int("package_count", len(req.Packages)),
	)

	if _, ok := c.cities.City(originPrefix); !ok {
		return nil, c.fail(ctx, span, shipper.NewQuoteError(carrierName, shipper.CodeOriginPostalInvalid, "origin postal code is invalid"))
	}
	if _, ok := c.cities.City(destinationPrefix); !ok {
		return nil, c.fail(ctx, span, shipper.NewQuoteError(carrierName, shipper.CodeDestinationPostalInvalid, "destination postal code is invalid"))
	}

	res, err := c.tariffs.Calc(tariff.Input{
		OriginPrefix:      originPrefix,
		DestinationPrefix: destinationPrefix,
		Packages:          packagesToTariff(req.Packages),
	})
	if err != nil {
		return nil, c.fail(ctx, span, unavailable("no tariff for the selected locality", err))
	}
	total := res.Total.Add(Surcharge(res.Zone, res.RemoteArea.Status))
	span.SetAttributes(attribute.Int("zone", res.Zone), attribute.Bool("remote_area", res.RemoteArea.Status))

	days, err := c.EstimateDomesticDeadline(ctx, req)
	if err != nil {
		return nil, c.fail(ctx, span, unavailable("DHL unavailable for the selected locality", err))
	}

	c.logger.Ctx(ctx).Info("DHL domestic quote ready",
		zap.Int("zone", res.Zone),
		zap.Bool("remote_area", res.RemoteArea.Status),
		zap.String("total", total.StringFixed(2)),
		zap.Int("days", days),
	)

	return &shipper.DomesticQuote{
		Service:      shipper.ServiceDomestic,
		Price:        shipper.BRL(total),
		DeliveryDays: days,
		Zone:         res.Zone,
		RemoteArea:   res.RemoteArea.Status,
	}, nil
}

// fail logs err and marks the span.
func (c *Client) fail(ctx context.Context, span trace.Span, err *shipper.QuoteError) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Code)

	if err.Code == shipper.CodeCarrierUnavailable {
		c.logger.Ctx(ctx).Error("DHL quote failed", zap.String("code", err.Code), zap.Error(err))
	} else {
		c.logger.Ctx(ctx).Warn("DHL quote rejected", zap.String("code", err.Code), zap.Error(err))
	}
	return err
}

// unavailable wraps err as CARRIER_UNAVAILABLE and keeps the HTTP status of
// the failed upstream call, if any.
func unavailable(message string, err error) *shipper.QuoteError {
	qe := shipper.Unavailable(carrierName, message, err)

	var apiErr *APIError
	var upstream *shipper.QuoteError
	switch {
	case errors.As(err, &apiErr):
		qe.WithStatusCode(apiErr.StatusCode)
	case errors.As(err, &upstream) && upstream.StatusCode != 0:
		qe.WithStatusCode(upstream.StatusCode)
	}
	return qe
}

func packagesToTariff(pkgs []shipper.Package) []tariff.Package {
	out := make([]tariff.Package, len(pkgs))
	for i, p := range pkgs {
		out[i] = tariff.Package{Length: p.Length, Width: p.Width, Height: p.Height, Weight: p.Weight}
	}
	return out
}

// Ensure Client implements shipper.Quoter
var _ shipper.Quoter = (*Client)(nil)
