package graphql

import (
	"strings"

	"github.com/tournevent/dhlquote/pkg/shipper"
)

func shipmentInputToModel(input ShipmentInput) shipper.ShipmentRequest {
	req := shipper.ShipmentRequest{
		OriginCity:            deref(input.OriginCity),
		DestinationCity:       deref(input.DestinationCity),
		Weight:                deref(input.Weight),
		OriginPostalCode:      deref(input.OriginPostalCode),
		DestinationPostalCode: deref(input.DestinationPostalCode),
		OriginCountry:         input.OriginCountry,
		DestinationCountry:    deref(input.DestinationCountry),
		ExcessDimensions:      deref(input.ExcessDimensions),
		ExcessWeight:          deref(input.ExcessWeight),
		Packages:              packagesInputToModel(input.Packages),
	}
	if input.Mode != nil {
		req.Mode = modeToModel(*input.Mode)
	}
	return req
}

func packagesInputToModel(inputs []*PackageInput) []shipper.Package {
	packages := make([]shipper.Package, 0, len(inputs))
	for _, input := range inputs {
		if input == nil {
			continue
		}
		packages = append(packages, shipper.Package{
			Length: input.Length,
			Width:  input.Width,
			Height: input.Height,
			Weight: input.Weight,
		})
	}
	return packages
}

func modeToModel(m Mode) shipper.Mode {
	switch Mode(strings.ToUpper(string(m))) {
	case ModeInternational:
		return shipper.ModeInternational
	case ModeDomestic:
		return shipper.ModeDomestic
	default:
		return shipper.Mode(strings.ToLower(string(m)))
	}
}

func modeToEnum(m shipper.Mode) Mode {
	if m == shipper.ModeInternational {
		return ModeInternational
	}
	return ModeDomestic
}

func resultToGraphQL(requestID string, res *shipper.Result) *QuoteResult {
	out := &QuoteResult{
		Success:   res.OK(),
		RequestID: requestID,
		Mode:      modeToEnum(res.Mode),
	}

	switch {
	case res.Err != nil:
		out.Error = &QuoteErrorPayload{
			Code:    shipper.CodeOf(res.Err),
			Message: shipper.MessageOf(res.Err),
		}
	case res.International != nil:
		out.Service = &res.International.Service
		out.Products = offersToGraphQL(res.International.Offers)
	case res.Domestic != nil:
		q := res.Domestic
		out.Service = &q.Service
		out.Price = ptr(shipper.FormatBRL(q.Price.Amount, false))
		out.DeliveryDays = ptr(q.DeliveryDays)
		out.Zone = ptr(q.Zone)
		out.RemoteArea = ptr(q.RemoteArea)
	}
	return out
}

func offersToGraphQL(offers []shipper.Offer) []*Product {
	products := make([]*Product, len(offers))
	for i, o := range offers {
		products[i] = &Product{
			Product:       o.Product,
			DeliveryRange: o.DeliveryRange,
			Price:         shipper.FormatBRL(o.Price.Amount, true),
		}
	}
	return products
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func ptr[T any](v T) *T {
	return &v
}
