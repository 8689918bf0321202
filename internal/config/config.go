package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in minimal images

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"github.com/tournevent/dhlquote/pkg/shipper/calendar"
	"go.opentelemetry.io/otel/attribute"
)

// serverTimeoutMargin covers request decoding and response encoding on top
// of the upstream calls.
const serverTimeoutMargin = 5 * time.Second

// Tariff sources.
const (
	TariffSourceFile     = "file"
	TariffSourcePostgres = "postgres"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port             int    `envconfig:"PORT" default:"80"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	BatchConcurrency int    `envconfig:"BATCH_CONCURRENCY" default:"4"`

	// DHL quotation endpoint
	DHLBaseURL          string          `envconfig:"DHL_BASE_URL" default:"https://dct.dhl.com/data/quotation/"`
	DHLUseMock          bool            `envconfig:"DHL_USE_MOCK" default:"false"`
	DHLTimeout          time.Duration   `envconfig:"DHL_TIMEOUT" default:"30s"`
	DHLOriginCountry    string          `envconfig:"DHL_ORIGIN_COUNTRY" default:"BR"`
	DHLOriginCity       string          `envconfig:"DHL_ORIGIN_CITY" default:"COTIA"`
	DHLDeclaredCurrency string          `envconfig:"DHL_DECLARED_CURRENCY" default:"BRL"`
	DHLPriceFactor      decimal.Decimal `envconfig:"DHL_PRICE_FACTOR" default:"0.98"`

	// Holiday calendar
	HolidayBaseURL  string        `envconfig:"HOLIDAY_BASE_URL" default:"https://api.calendario.com.br/"`
	HolidayAPIToken string        `envconfig:"HOLIDAY_API_TOKEN"`
	HolidayState    string        `envconfig:"HOLIDAY_STATE"`
	HolidayCity     string        `envconfig:"HOLIDAY_CITY"`
	HolidayUseMock  bool          `envconfig:"HOLIDAY_USE_MOCK" default:"false"`
	HolidayTimeout  time.Duration `envconfig:"HOLIDAY_TIMEOUT" default:"10s"`
	HolidayOnError  string        `envconfig:"HOLIDAY_ON_ERROR" default:"fail"`
	ShippingWeekday string        `envconfig:"SHIPPING_WEEKDAY" default:"monday"`
	Timezone        string        `envconfig:"TIMEZONE" default:"America/Sao_Paulo"`

	// Tariff tables
	TariffSource    string `envconfig:"TARIFF_SOURCE" default:"file"`
	TariffTablePath string `envconfig:"TARIFF_TABLE_PATH"`
	DatabaseDSN     string `envconfig:"DATABASE_DSN"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"dhlquote"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables, after loading a
// .env file from the working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch c.TariffSource {
	case TariffSourceFile:
	case TariffSourcePostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required when TARIFF_SOURCE=%s", TariffSourcePostgres)
		}
	default:
		return fmt.Errorf("unknown TARIFF_SOURCE %q", c.TariffSource)
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("BATCH_CONCURRENCY must be positive, got %d", c.BatchConcurrency)
	}
	if c.DHLTimeout <= 0 {
		return fmt.Errorf("DHL_TIMEOUT must be positive, got %s", c.DHLTimeout)
	}
	if c.HolidayTimeout <= 0 {
		return fmt.Errorf("HOLIDAY_TIMEOUT must be positive, got %s", c.HolidayTimeout)
	}
	if !c.DHLPriceFactor.IsPositive() {
		return fmt.Errorf("DHL_PRICE_FACTOR must be positive, got %s", c.DHLPriceFactor)
	}
	if _, err := c.HolidayPolicy(); err != nil {
		return err
	}
	if _, err := c.Weekday(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// ServerTimeout bounds reads and writes of one HTTP exchange. A quote makes
// the holiday call and then the DHL call, so both budgets are summed.
func (c *Config) ServerTimeout() time.Duration {
	return c.HolidayTimeout + c.DHLTimeout + serverTimeoutMargin
}

// HolidayPolicy parses HOLIDAY_ON_ERROR.
func (c *Config) HolidayPolicy() (calendar.Policy, error) {
	return calendar.ParsePolicy(c.HolidayOnError)
}

// Weekday parses SHIPPING_WEEKDAY.
func (c *Config) Weekday() (time.Weekday, error) {
	return calendar.ParseWeekday(c.ShippingWeekday)
}

// Location loads TIMEZONE.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("dhl.mock", c.DHLUseMock),
		attribute.Bool("holiday.mock", c.HolidayUseMock),
		attribute.String("holiday.on_error", strings.ToLower(c.HolidayOnError)),
		attribute.String("tariff.source", c.TariffSource),
	}
}
