package dhl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// APIClient defines the interface for the DHL quotation API.
// This allows swapping between the real HTTP client and a mock.
type APIClient interface {
	// FetchQuotation performs one quotation lookup. It never retries.
	FetchQuotation(ctx context.Context, params *QuotationParams) (*QuotationResponse, error)
}

// Units sent with every quotation.
const (
	WeightUnit    = "kg"
	DimensionUnit = "cm"
)

// QuotationParams are the query parameters of a quotation lookup.
type QuotationParams struct {
	ShipDate string // YYYY-MM-DD

	OriginCountry    string
	OriginCity       string
	OriginPostalCode string

	DestinationCountry    string
	DestinationCity       string
	DestinationPostalCode string

	Pieces int
	Weight float64
	Width  float64
	Length float64
	Height float64

	// DeclaredCurrency is set for dutiable (international) lookups and
	// adds the declared value fields.
	DeclaredCurrency string
}

// Values encodes the params the way the quotation endpoint expects them.
func (p *QuotationParams) Values() url.Values {
	pieces := p.Pieces
	if pieces == 0 {
		pieces = 1
	}

	v := url.Values{}
	if p.DeclaredCurrency != "" {
		v.Set("dtbl", "N")
		v.Set("declVal", "")
		v.Set("declValCur", p.DeclaredCurrency)
	}
	v.Set("wgtUom", WeightUnit)
	v.Set("dimUom", DimensionUnit)
	v.Set("noPce", strconv.Itoa(pieces))
	v.Set("wgt0", formatNumber(p.Weight))
	v.Set("w0", formatNumber(p.Width))
	v.Set("l0", formatNumber(p.Length))
	v.Set("h0", formatNumber(p.Height))
	v.Set("shpDate", p.ShipDate)
	v.Set("orgCtry", p.OriginCountry)
	setIf(v, "orgCity", p.OriginCity)
	setIf(v, "orgZip", p.OriginPostalCode)
	v.Set("dstCtry", p.DestinationCountry)
	setIf(v, "dstCity", p.DestinationCity)
	setIf(v, "dstZip", p.DestinationPostalCode)
	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// QuotationResponse is the quotation endpoint payload.
type QuotationResponse struct {
	Count         int           `json:"count"`
	ErrorMessage  string        `json:"errorMessage,omitempty"`
	QuotationList QuotationList `json:"quotationList"`
}

// QuotationList wraps the product entries.
type QuotationList struct {
	Quotation []Quotation `json:"quotation"`
}

// Quotation is one product offered for the lookup.
type Quotation struct {
	ProdCd      string `json:"prodCd,omitempty"`
	ProdNm      string `json:"prodNm"`
	EstDeliv    string `json:"estDeliv"`    // "Friday, 23 Oct 2026"
	EstTotPrice string `json:"estTotPrice"` // "BRL1,000.00"
}

// APIError represents an error response from the quotation API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP_%d: %s", e.StatusCode, e.Message)
}
