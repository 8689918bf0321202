// Package mock provides a mock quoter implementation for testing.
package mock

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tournevent/dhlquote/pkg/shipper"
)

// Client is a mock quoter for testing.
type Client struct {
	name string

	OnQuoteInternational func(ctx context.Context, req *shipper.InternationalRequest) (*shipper.InternationalQuote, error)
	OnQuoteDomestic      func(ctx context.Context, req *shipper.DomesticRequest) (*shipper.DomesticQuote, error)
}

// New creates a new mock quoter.
func New(name string) *Client {
	return &Client{name: name}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return c.name
}

// QuoteInternational returns a single Express Worldwide offer.
func (c *Client) QuoteInternational(ctx context.Context, req *shipper.InternationalRequest) (*shipper.InternationalQuote, error) {
	if c.OnQuoteInternational != nil {
		return c.OnQuoteInternational(ctx, req)
	}

	return &shipper.InternationalQuote{
		Service: shipper.ServiceInternational,
		Offers: []shipper.Offer{
			{
				Product:       "EXPRESS WORLDWIDE",
				MinDays:       3,
				MaxDays:       5,
				DeliveryRange: "3 - 5",
				Price:         shipper.BRL(decimal.RequireFromString("980.00")),
			},
		},
	}, nil
}

// QuoteDomestic returns a fixed domestic quote.
func (c *Client) QuoteDomestic(ctx context.Context, req *shipper.DomesticRequest) (*shipper.DomesticQuote, error) {
	if c.OnQuoteDomestic != nil {
		return c.OnQuoteDomestic(ctx, req)
	}

	return &shipper.DomesticQuote{
		Service:      shipper.ServiceDomestic,
		Price:        shipper.BRL(decimal.NewFromInt(60)),
		DeliveryDays: 3,
		Zone:         2,
	}, nil
}
