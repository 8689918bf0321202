// Package tariff implements the domestic zone tariff tables: postal prefix to
// city resolution, region pair to zone mapping, per-zone weight bands and
// remote-area classification.
package tariff

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// PrefixLen is the number of postal code characters used for lookups.
const PrefixLen = 5

// VolumetricDivisor converts cm³ to billable kg.
const VolumetricDivisor = 5000

var (
	// ErrUnknownRoute indicates no zone is configured for a region pair.
	ErrUnknownRoute = errors.New("no tariff zone for route")

	// ErrUnknownZone indicates a route points at a zone without bands.
	ErrUnknownZone = errors.New("tariff zone has no price bands")

	// ErrUnknownCity indicates a postal prefix maps to no city.
	ErrUnknownCity = errors.New("unknown postal prefix")
)

// City is a known city resolved from a postal prefix.
type City struct {
	Name   string
	State  string
	Region string
}

// Package is the tariff view of a package. Dimensions in cm, weight in kg.
type Package struct {
	Length float64
	Width  float64
	Height float64
	Weight float64
}

// Input is a tariff calculation request.
type Input struct {
	OriginPrefix      string
	DestinationPrefix string
	Packages          []Package
}

// RemoteArea describes the remote-area classification of a destination.
type RemoteArea struct {
	Status      bool
	Description string
	Fee         decimal.Decimal
}

// Result is the outcome of a tariff calculation.
type Result struct {
	Total      decimal.Decimal
	Zone       int
	RemoteArea RemoteArea
}

// CityLookup resolves postal prefixes to cities.
type CityLookup interface {
	City(prefix string) (City, bool)
}

// Calculator computes the base tariff for a domestic route.
type Calculator interface {
	Calc(in Input) (Result, error)
}

// Prefix returns the first PrefixLen characters of a postal code, which must
// all be digits. Surrounding spaces are ignored. A malformed code yields "",
// which no table range contains; a short one is returned as is.
func Prefix(postalCode string) string {
	postalCode = strings.TrimSpace(postalCode)
	if len(postalCode) > PrefixLen {
		postalCode = postalCode[:PrefixLen]
	}
	for i := 0; i < len(postalCode); i++ {
		if c := postalCode[i]; c < '0' || c > '9' {
			return ""
		}
	}
	return postalCode
}

// BillableWeight is the greater of actual and volumetric weight.
func BillableWeight(p Package) decimal.Decimal {
	actual := decimal.NewFromFloat(p.Weight)
	volumetric := decimal.NewFromFloat(p.Length * p.Width * p.Height).Div(decimal.NewFromInt(VolumetricDivisor))
	return decimal.Max(actual, volumetric)
}
