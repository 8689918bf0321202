// Package shipper provides the quote model shared by the carrier integration,
// the dispatcher and the GraphQL surface.
package shipper

import (
	"context"
)

// Quoter defines the operations a carrier integration exposes for quoting.
type Quoter interface {
	// Name returns the carrier identifier (e.g., "dhl").
	Name() string

	// QuoteInternational returns the priced international offers for a shipment.
	QuoteInternational(ctx context.Context, req *InternationalRequest) (*InternationalQuote, error)

	// QuoteDomestic returns the priced domestic offer with its delivery estimate.
	QuoteDomestic(ctx context.Context, req *DomesticRequest) (*DomesticQuote, error)
}
