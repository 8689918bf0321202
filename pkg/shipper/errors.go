package shipper

import (
	"errors"
	"fmt"
)

// Error codes for the quote error taxonomy.
const (
	CodeOriginPostalInvalid      = "ORIGIN_POSTAL_INVALID"
	CodeDestinationPostalInvalid = "DESTINATION_POSTAL_INVALID"
	CodeCarrierUnavailable       = "CARRIER_UNAVAILABLE"
	CodeCarrierError             = "CARRIER_ERROR"
	CodeInvalidRequest           = "INVALID_REQUEST"
)

// QuoteError represents a failed quote.
type QuoteError struct {
	Carrier    string
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *QuoteError) Error() string {
	prefix := e.Code
	if e.Carrier != "" {
		prefix = fmt.Sprintf("%s error (%s)", e.Carrier, e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause.
func (e *QuoteError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for QuoteError.
func (e *QuoteError) Is(target error) bool {
	t, ok := target.(*QuoteError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewQuoteError creates a new QuoteError.
func NewQuoteError(carrier, code, message string) *QuoteError {
	return &QuoteError{
		Carrier: carrier,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *QuoteError) WithCause(err error) *QuoteError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *QuoteError) WithStatusCode(code int) *QuoteError {
	e.StatusCode = code
	return e
}

// Sentinels matched by code through errors.Is.
var (
	// ErrOriginPostalInvalid indicates the origin postal code maps to no known city.
	ErrOriginPostalInvalid = &QuoteError{Code: CodeOriginPostalInvalid, Message: "origin postal code is invalid"}

	// ErrDestinationPostalInvalid indicates the destination postal code maps to no known city.
	ErrDestinationPostalInvalid = &QuoteError{Code: CodeDestinationPostalInvalid, Message: "destination postal code is invalid"}

	// ErrCarrierUnavailable indicates an outbound call failed or returned nothing usable.
	ErrCarrierUnavailable = &QuoteError{Code: CodeCarrierUnavailable, Message: "carrier unavailable"}

	// ErrCarrierError indicates the carrier answered with no matching product.
	ErrCarrierError = &QuoteError{Code: CodeCarrierError, Message: "carrier error"}

	// ErrInvalidRequest indicates the shipment input was rejected before quoting.
	ErrInvalidRequest = &QuoteError{Code: CodeInvalidRequest, Message: "invalid request"}
)

// Unavailable wraps cause as a CARRIER_UNAVAILABLE error for carrier.
func Unavailable(carrier, message string, cause error) *QuoteError {
	return NewQuoteError(carrier, CodeCarrierUnavailable, message).WithCause(cause)
}

// CodeOf returns the quote error code carried by err, or CARRIER_UNAVAILABLE
// for anything that is not a QuoteError.
func CodeOf(err error) string {
	var qe *QuoteError
	if errors.As(err, &qe) {
		return qe.Code
	}
	return CodeCarrierUnavailable
}

// MessageOf returns the caller-facing message of err.
func MessageOf(err error) string {
	var qe *QuoteError
	if errors.As(err, &qe) {
		return qe.Message
	}
	return err.Error()
}
