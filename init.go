package main

import (
	"context"
	"fmt"

	"github.com/tournevent/dhlquote/internal/config"
	"github.com/tournevent/dhlquote/internal/graphql"
	"github.com/tournevent/dhlquote/internal/telemetry"
	"github.com/tournevent/dhlquote/pkg/shipper"
	"github.com/tournevent/dhlquote/pkg/shipper/calendar"
	"github.com/tournevent/dhlquote/pkg/shipper/dhl"
	"github.com/tournevent/dhlquote/pkg/tariff"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(cfg *config.Config) (*otelzap.Logger, error) {
	return telemetry.NewLogger(cfg.LogLevel,
		zap.String("service", cfg.ServiceName),
		zap.String("version", cfg.Version),
	)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.Attributes()...)
}

func loadTariffTable(ctx context.Context, cfg *config.Config) (*tariff.Table, error) {
	switch cfg.TariffSource {
	case config.TariffSourcePostgres:
		db, err := tariff.OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		return tariff.NewStore(db).Load(ctx)
	default:
		if cfg.TariffTablePath != "" {
			return tariff.LoadFile(cfg.TariffTablePath)
		}
		return tariff.Default()
	}
}

func migrateTariffTables(ctx context.Context, cfg *config.Config) error {
	db, err := tariff.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return tariff.NewStore(db).Migrate(ctx)
}

func initDispatcher(ctx context.Context, cfg *config.Config, logger *otelzap.Logger) (*shipper.Dispatcher, error) {
	// Validated by config.Load
	policy, _ := cfg.HolidayPolicy()
	weekday, _ := cfg.Weekday()
	loc, _ := cfg.Location()

	table, err := loadTariffTable(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading tariff table: %w", err)
	}

	cal := calendar.New(calendar.Config{
		BaseURL:  cfg.HolidayBaseURL,
		Token:    cfg.HolidayAPIToken,
		State:    cfg.HolidayState,
		City:     cfg.HolidayCity,
		Timeout:  cfg.HolidayTimeout,
		UseMock:  cfg.HolidayUseMock,
		Weekday:  weekday,
		Location: loc,
		Policy:   policy,
	}, logger, otel.Tracer(cfg.ServiceName+"/calendar"))

	client := dhl.New(dhl.Config{
		BaseURL:          cfg.DHLBaseURL,
		Timeout:          cfg.DHLTimeout,
		UseMock:          cfg.DHLUseMock,
		OriginCountry:    cfg.DHLOriginCountry,
		OriginCity:       cfg.DHLOriginCity,
		DeclaredCurrency: cfg.DHLDeclaredCurrency,
		PriceFactor:      cfg.DHLPriceFactor,
		Location:         loc,
	}, dhl.Deps{
		Calendar: cal,
		Cities:   table,
		Tariffs:  table,
	}, logger, otel.Tracer(cfg.ServiceName+"/dhl"))

	return shipper.NewDispatcher(client, cfg.BatchConcurrency), nil
}

func initExecutor(dispatcher *shipper.Dispatcher, logger *otelzap.Logger, metrics *telemetry.Metrics) (*graphql.Executor, error) {
	return graphql.NewExecutor(graphql.NewResolver(dispatcher, logger, metrics))
}
