package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnHolidays func(ctx context.Context, year int) ([]Holiday, error)

	mu    sync.Mutex
	years []int
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Holidays returns the fixed-date national holidays of year.
func (m *MockAPIClient) Holidays(ctx context.Context, year int) ([]Holiday, error) {
	m.mu.Lock()
	m.years = append(m.years, year)
	m.mu.Unlock()

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{StatusCode: 503, Message: "Simulated API error"}
	}

	if m.OnHolidays != nil {
		return m.OnHolidays(ctx, year)
	}

	fixed := []struct {
		day, month int
		name       string
	}{
		{1, 1, "Ano Novo"},
		{21, 4, "Tiradentes"},
		{1, 5, "Dia do Trabalho"},
		{7, 9, "Independência do Brasil"},
		{12, 10, "Nossa Senhora Aparecida"},
		{2, 11, "Dia de Finados"},
		{15, 11, "Proclamação da República"},
		{20, 11, "Dia Nacional de Zumbi e da Consciência Negra"},
		{25, 12, "Natal"},
	}

	holidays := make([]Holiday, 0, len(fixed))
	for _, f := range fixed {
		holidays = append(holidays, Holiday{
			Date:     fmt.Sprintf("%02d/%02d/%d", f.day, f.month, year),
			Name:     f.name,
			Type:     "Feriado Nacional",
			TypeCode: "1",
		})
	}
	return holidays, nil
}

// Years returns the years requested so far, in call order.
func (m *MockAPIClient) Years() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.years))
	copy(out, m.years)
	return out
}

// Ensure MockAPIClient implements APIClient interface
var _ APIClient = (*MockAPIClient)(nil)
