package shipper_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/dhlquote/pkg/shipper"
)

func TestQuoteError_Error(t *testing.T) {
	err := shipper.NewQuoteError("dhl", shipper.CodeCarrierError, "Destination not served")
	assert.Equal(t, "dhl error (CARRIER_ERROR): Destination not served", err.Error())
}

func TestQuoteError_ErrorWithoutCarrier(t *testing.T) {
	err := shipper.NewQuoteError("", shipper.CodeInvalidRequest, "weight must be positive")
	assert.Equal(t, "INVALID_REQUEST: weight must be positive", err.Error())
}

func TestQuoteError_ErrorWithCause(t *testing.T) {
	cause := errors.New("network timeout")
	err := shipper.NewQuoteError("dhl", shipper.CodeCarrierUnavailable, "quotation failed").WithCause(cause)
	assert.Contains(t, err.Error(), "quotation failed")
	assert.Contains(t, err.Error(), "network timeout")
}

func TestQuoteError_Unwrap(t *testing.T) {
	cause := errors.New("network timeout")
	err := shipper.Unavailable("dhl", "quotation failed", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestQuoteError_IsMatchesCode(t *testing.T) {
	err := shipper.NewQuoteError("dhl", shipper.CodeOriginPostalInvalid, "unknown prefix 99999")
	assert.True(t, errors.Is(err, shipper.ErrOriginPostalInvalid))
	assert.False(t, errors.Is(err, shipper.ErrDestinationPostalInvalid))
}

func TestQuoteError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("quoting: %w", shipper.Unavailable("dhl", "down", nil))
	assert.True(t, errors.Is(err, shipper.ErrCarrierUnavailable))
}

func TestQuoteError_WithStatusCode(t *testing.T) {
	err := shipper.NewQuoteError("dhl", shipper.CodeCarrierUnavailable, "bad gateway").WithStatusCode(502)
	assert.Equal(t, 502, err.StatusCode)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, shipper.CodeCarrierError, shipper.CodeOf(shipper.NewQuoteError("dhl", shipper.CodeCarrierError, "x")))
	assert.Equal(t, shipper.CodeCarrierUnavailable, shipper.CodeOf(errors.New("boom")))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "Destination not served", shipper.MessageOf(shipper.NewQuoteError("dhl", shipper.CodeCarrierError, "Destination not served")))
	assert.Equal(t, "boom", shipper.MessageOf(errors.New("boom")))
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  *shipper.QuoteError
		code string
	}{
		{"ErrOriginPostalInvalid", shipper.ErrOriginPostalInvalid, shipper.CodeOriginPostalInvalid},
		{"ErrDestinationPostalInvalid", shipper.ErrDestinationPostalInvalid, shipper.CodeDestinationPostalInvalid},
		{"ErrCarrierUnavailable", shipper.ErrCarrierUnavailable, shipper.CodeCarrierUnavailable},
		{"ErrCarrierError", shipper.ErrCarrierError, shipper.CodeCarrierError},
		{"ErrInvalidRequest", shipper.ErrInvalidRequest, shipper.CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}
