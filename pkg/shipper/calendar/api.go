package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// APIClient defines the interface for the holiday calendar API.
// This allows swapping between the real HTTP client and a mock.
type APIClient interface {
	// Holidays returns every calendar entry of year.
	Holidays(ctx context.Context, year int) ([]Holiday, error)
}

// HolidayDateLayout is the layout of Holiday.Date.
const HolidayDateLayout = "02/01/2006"

// Holiday is a calendar entry as returned by the API.
type Holiday struct {
	Date        string `json:"date"` // DD/MM/YYYY
	Name        string `json:"name"`
	Type        string `json:"type"` // e.g. "Feriado Nacional", "Facultativo"
	TypeCode    string `json:"type_code,omitempty"`
	Description string `json:"raw_description,omitempty"`
}

// Category returns the first word of the entry type.
func (h Holiday) Category() string {
	category, _, _ := strings.Cut(strings.TrimSpace(h.Type), " ")
	return category
}

// BlocksShipping reports whether no pickup happens on this day.
func (h Holiday) BlocksShipping() bool {
	switch h.Category() {
	case "Feriado", "Facultativo":
		return true
	}
	return false
}

// Day parses the entry date in loc.
func (h Holiday) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(HolidayDateLayout, h.Date, loc)
}

// APIError represents an error response from the holiday API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP_%d: %s", e.StatusCode, e.Message)
}
