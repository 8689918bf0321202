package dhl

import (
	"context"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnFetchQuotation func(ctx context.Context, params *QuotationParams) (*QuotationResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// FetchQuotation returns a canned quotation relative to params.ShipDate.
// Dutiable lookups get two international products, others one domestic.
func (m *MockAPIClient) FetchQuotation(ctx context.Context, params *QuotationParams) (*QuotationResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{StatusCode: 503, Message: "Simulated API error"}
	}

	if m.OnFetchQuotation != nil {
		return m.OnFetchQuotation(ctx, params)
	}

	ship, err := time.Parse("2006-01-02", params.ShipDate)
	if err != nil {
		ship = time.Now()
	}

	if params.DeclaredCurrency == "" {
		return &QuotationResponse{
			Count: 1,
			QuotationList: QuotationList{Quotation: []Quotation{
				{ProdCd: "N", ProdNm: "DOMESTIC EXPRESS", EstDeliv: FormatEstimatedDelivery(ship.AddDate(0, 0, 4)), EstTotPrice: "BRL54.90"},
			}},
		}, nil
	}

	return &QuotationResponse{
		Count: 2,
		QuotationList: QuotationList{Quotation: []Quotation{
			{ProdCd: "P", ProdNm: "EXPRESS WORLDWIDE", EstDeliv: FormatEstimatedDelivery(ship.AddDate(0, 0, 4)), EstTotPrice: "BRL1,000.00"},
			{ProdCd: "T", ProdNm: "EXPRESS 12:00", EstDeliv: FormatEstimatedDelivery(ship.AddDate(0, 0, 4)), EstTotPrice: "BRL1,312.45"},
		}},
	}, nil
}

// Ensure MockAPIClient implements APIClient interface
var _ APIClient = (*MockAPIClient)(nil)
