package graphql

import (
	"fmt"
	"strings"
)

type Mode string

const (
	ModeInternational Mode = "INTERNATIONAL"
	ModeDomestic      Mode = "DOMESTIC"
)

func (e Mode) IsValid() bool {
	switch e {
	case ModeInternational, ModeDomestic:
		return true
	}
	return false
}

func (e Mode) String() string {
	return string(e)
}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToUpper(s))
	if !m.IsValid() {
		return "", fmt.Errorf("%s is not a valid Mode", s)
	}
	return m, nil
}

type PackageInput struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

type ShipmentInput struct {
	Mode                  *Mode           `json:"mode,omitempty"`
	OriginCity            *string         `json:"originCity,omitempty"`
	DestinationCity       *string         `json:"destinationCity,omitempty"`
	Weight                *float64        `json:"weight,omitempty"`
	OriginPostalCode      *string         `json:"originPostalCode,omitempty"`
	DestinationPostalCode *string         `json:"destinationPostalCode,omitempty"`
	OriginCountry         string          `json:"originCountry"`
	DestinationCountry    *string         `json:"destinationCountry,omitempty"`
	ExcessDimensions      *bool           `json:"excessDimensions,omitempty"`
	ExcessWeight          *bool           `json:"excessWeight,omitempty"`
	Packages              []*PackageInput `json:"packages,omitempty"`
}

type Product struct {
	Product       string `json:"product"`
	DeliveryRange string `json:"deliveryRange"`
	Price         string `json:"price"`
}

type QuoteErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type QuoteResult struct {
	Success      bool               `json:"success"`
	RequestID    string             `json:"requestId"`
	Mode         Mode               `json:"mode"`
	Service      *string            `json:"service"`
	Price        *string            `json:"price"`
	DeliveryDays *int               `json:"deliveryDays"`
	Zone         *int               `json:"zone"`
	RemoteArea   *bool              `json:"remoteArea"`
	Products     []*Product         `json:"products"`
	Error        *QuoteErrorPayload `json:"error"`
}
