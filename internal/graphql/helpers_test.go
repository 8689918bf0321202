package graphql

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/dhlquote/pkg/shipper"
)

func TestShipmentInputToModel(t *testing.T) {
	mode := Mode("domestic")
	input := ShipmentInput{
		Mode:                  &mode,
		OriginCity:            ptr("COTIA"),
		Weight:                ptr(2.5),
		OriginPostalCode:      ptr("06711-280"),
		DestinationPostalCode: ptr("20040-002"),
		OriginCountry:         "BR",
		DestinationCountry:    ptr("BR"),
		ExcessWeight:          ptr(true),
		Packages: []*PackageInput{
			{Length: 20, Width: 15, Height: 10, Weight: 1},
			nil,
		},
	}

	req := shipmentInputToModel(input)

	assert.Equal(t, shipper.ModeDomestic, req.Mode)
	assert.Equal(t, "COTIA", req.OriginCity)
	assert.Empty(t, req.DestinationCity)
	assert.Equal(t, 2.5, req.Weight)
	assert.Equal(t, "06711-280", req.OriginPostalCode)
	assert.Equal(t, "20040-002", req.DestinationPostalCode)
	assert.Equal(t, "BR", req.DestinationCountry)
	assert.False(t, req.ExcessDimensions)
	assert.True(t, req.ExcessWeight)
	require.Len(t, req.Packages, 1)
	assert.Equal(t, shipper.Package{Length: 20, Width: 15, Height: 10, Weight: 1}, req.Packages[0])
}

func TestShipmentInputToModel_NoMode(t *testing.T) {
	req := shipmentInputToModel(ShipmentInput{OriginCountry: "BR", DestinationCountry: ptr("US")})

	assert.Empty(t, req.Mode)
	assert.Equal(t, shipper.ModeInternational, req.ResolveMode())
	assert.Empty(t, req.Packages)
}

func TestModeConversions(t *testing.T) {
	assert.Equal(t, shipper.ModeInternational, modeToModel(ModeInternational))
	assert.Equal(t, shipper.ModeDomestic, modeToModel(ModeDomestic))
	assert.Equal(t, ModeInternational, modeToEnum(shipper.ModeInternational))
	assert.Equal(t, ModeDomestic, modeToEnum(shipper.ModeDomestic))

	m, err := ParseMode("international")
	require.NoError(t, err)
	assert.Equal(t, ModeInternational, m)

	_, err = ParseMode("pigeon")
	assert.Error(t, err)
}

func TestResultToGraphQL_International(t *testing.T) {
	res := &shipper.Result{
		Mode: shipper.ModeInternational,
		International: &shipper.InternationalQuote{
			Service: shipper.ServiceInternational,
			Offers: []shipper.Offer{
				{Product: "EXPRESS WORLDWIDE", DeliveryRange: "7 - 9", Price: shipper.BRL(decimal.RequireFromString("1209.88"))},
			},
		},
	}

	out := resultToGraphQL("req-1", res)

	assert.True(t, out.Success)
	assert.Equal(t, "req-1", out.RequestID)
	assert.Equal(t, ModeInternational, out.Mode)
	require.NotNil(t, out.Service)
	assert.Equal(t, "dhl", *out.Service)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "EXPRESS WORLDWIDE", out.Products[0].Product)
	assert.Equal(t, "7 - 9", out.Products[0].DeliveryRange)
	assert.Equal(t, "R$ 1.209,88", out.Products[0].Price)
	assert.Nil(t, out.Price)
	assert.Nil(t, out.Error)
}

func TestResultToGraphQL_InternationalNoOffers(t *testing.T) {
	res := &shipper.Result{
		Mode:          shipper.ModeInternational,
		International: &shipper.InternationalQuote{Service: shipper.ServiceInternational},
	}

	out := resultToGraphQL("req-2", res)

	assert.True(t, out.Success)
	assert.NotNil(t, out.Products)
	assert.Empty(t, out.Products)
}

func TestResultToGraphQL_Domestic(t *testing.T) {
	res := &shipper.Result{
		Mode: shipper.ModeDomestic,
		Domestic: &shipper.DomesticQuote{
			Service:      shipper.ServiceDomestic,
			Price:        shipper.BRL(decimal.NewFromInt(60)),
			DeliveryDays: 3,
			Zone:         2,
		},
	}

	out := resultToGraphQL("req-3", res)

	assert.True(t, out.Success)
	assert.Equal(t, ModeDomestic, out.Mode)
	assert.Equal(t, "dhl-nacional", *out.Service)
	assert.Equal(t, "R$ 60", *out.Price)
	assert.Equal(t, 3, *out.DeliveryDays)
	assert.Equal(t, 2, *out.Zone)
	assert.False(t, *out.RemoteArea)
	assert.Nil(t, out.Products)
}

func TestResultToGraphQL_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{
			name:    "quote error",
			err:     shipper.NewQuoteError("dhl", shipper.CodeOriginPostalInvalid, "origin postal code is invalid"),
			code:    "ORIGIN_POSTAL_INVALID",
			message: "origin postal code is invalid",
		},
		{
			name:    "carrier message",
			err:     shipper.NewQuoteError("dhl", shipper.CodeCarrierError, "Destination not served"),
			code:    "CARRIER_ERROR",
			message: "Destination not served",
		},
		{
			name:    "plain error",
			err:     errors.New("boom"),
			code:    "CARRIER_UNAVAILABLE",
			message: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := resultToGraphQL("req-4", &shipper.Result{Mode: shipper.ModeDomestic, Err: tt.err})

			assert.False(t, out.Success)
			require.NotNil(t, out.Error)
			assert.Equal(t, tt.code, out.Error.Code)
			assert.Equal(t, tt.message, out.Error.Message)
			assert.Nil(t, out.Price)
			assert.Nil(t, out.Service)
			assert.Nil(t, out.Products)
		})
	}
}
