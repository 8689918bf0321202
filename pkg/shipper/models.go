package shipper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode discriminates between the two quoting paths.
type Mode string

const (
	ModeInternational Mode = "international"
	ModeDomestic      Mode = "domestic"
)

// Service tags returned with each quote.
const (
	ServiceInternational = "dhl"
	ServiceDomestic      = "dhl-nacional"
)

// Package represents a package to be shipped. Dimensions in cm, weight in kg.
type Package struct {
	Length float64
	Width  float64
	Height float64
	Weight float64
}

func (p Package) validate() error {
	if p.Weight <= 0 {
		return errors.New("weight must be positive")
	}
	if p.Length < 0 || p.Width < 0 || p.Height < 0 {
		return errors.New("dimensions must not be negative")
	}
	return nil
}

// Money represents a monetary amount.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// ShipmentRequest is the inbound shipment description shared by both modes.
// It is treated as immutable once built; Route copies what each mode needs.
type ShipmentRequest struct {
	Mode                  Mode // Empty = derived from the country codes
	OriginCity            string
	DestinationCity       string
	Weight                float64 // Consolidated weight, kg
	OriginPostalCode      string
	DestinationPostalCode string
	OriginCountry         string // ISO 3166-1 alpha-2
	DestinationCountry    string
	ExcessDimensions      bool
	ExcessWeight          bool
	Packages              []Package
}

// Request is implemented by *InternationalRequest and *DomesticRequest.
type Request interface {
	Mode() Mode
	isRequest()
}

// InternationalRequest carries what the international quotation needs.
type InternationalRequest struct {
	OriginCountry         string
	OriginCity            string
	DestinationCountry    string
	DestinationCity       string
	DestinationPostalCode string
	Weight                float64
}

// Mode implements Request.
func (*InternationalRequest) Mode() Mode { return ModeInternational }
func (*InternationalRequest) isRequest() {}

// DomesticRequest carries what the domestic tariff and deadline lookups need.
type DomesticRequest struct {
	OriginCountry         string
	OriginPostalCode      string
	DestinationCountry    string
	DestinationPostalCode string
	ExcessDimensions      bool
	ExcessWeight          bool
	Packages              []Package
}

// Mode implements Request.
func (*DomesticRequest) Mode() Mode { return ModeDomestic }
func (*DomesticRequest) isRequest() {}

// ResolveMode returns the explicit mode, or domestic when both countries match.
func (s ShipmentRequest) ResolveMode() Mode {
	if s.Mode != "" {
		return s.Mode
	}
	if s.DestinationCountry == "" || strings.EqualFold(s.OriginCountry, s.DestinationCountry) {
		return ModeDomestic
	}
	return ModeInternational
}

// Route builds the typed request for the shipment's mode.
func (s ShipmentRequest) Route() (Request, error) {
	switch s.ResolveMode() {
	case ModeInternational:
		if s.DestinationCountry == "" {
			return nil, NewQuoteError("", CodeInvalidRequest, "destination country is required")
		}
		if s.Weight <= 0 {
			return nil, NewQuoteError("", CodeInvalidRequest, "consolidated weight must be positive")
		}
		return &InternationalRequest{
			OriginCountry:         strings.ToUpper(s.OriginCountry),
			OriginCity:            s.OriginCity,
			DestinationCountry:    strings.ToUpper(s.DestinationCountry),
			DestinationCity:       s.DestinationCity,
			DestinationPostalCode: s.DestinationPostalCode,
			Weight:                s.Weight,
		}, nil
	case ModeDomestic:
		if s.OriginPostalCode == "" || s.DestinationPostalCode == "" {
			return nil, NewQuoteError("", CodeInvalidRequest, "origin and destination postal codes are required")
		}
		if len(s.Packages) == 0 {
			return nil, NewQuoteError("", CodeInvalidRequest, "at least one package is required")
		}
		for i, p := range s.Packages {
			if err := p.validate(); err != nil {
				return nil, NewQuoteError("", CodeInvalidRequest, fmt.Sprintf("package %d: %s", i+1, err))
			}
		}
		pkgs := make([]Package, len(s.Packages))
		copy(pkgs, s.Packages)
		return &DomesticRequest{
			OriginCountry:         strings.ToUpper(s.OriginCountry),
			OriginPostalCode:      s.OriginPostalCode,
			DestinationCountry:    strings.ToUpper(s.DestinationCountry),
			DestinationPostalCode: s.DestinationPostalCode,
			ExcessDimensions:      s.ExcessDimensions,
			ExcessWeight:          s.ExcessWeight,
			Packages:              pkgs,
		}, nil
	default:
		return nil, NewQuoteError("", CodeInvalidRequest, "unknown quote mode: "+string(s.Mode))
	}
}

// Offer is a single international product offer.
type Offer struct {
	Product       string
	MinDays       int
	MaxDays       int
	DeliveryRange string // "min - max"
	Price         Money
}

// InternationalQuote is the result of an international quotation.
type InternationalQuote struct {
	Service string
	Offers  []Offer
}

// DomesticQuote is the result of a domestic quotation.
type DomesticQuote struct {
	Service      string
	Price        Money
	DeliveryDays int
	Zone         int
	RemoteArea   bool
}
