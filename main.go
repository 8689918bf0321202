package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tournevent/dhlquote/internal/config"
	"github.com/tournevent/dhlquote/internal/server"
	"github.com/tournevent/dhlquote/internal/telemetry"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "dhlquote",
	Short:   "DHL Express quote service - international and domestic quotes over GraphQL",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GraphQL server",
	RunE:  runServe,
}

var tariffCmd = &cobra.Command{
	Use:   "tariff",
	Short: "Inspect the domestic tariff tables",
}

var tariffCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the configured tariff source and print its size",
	RunE:  runTariffCheck,
}

var tariffMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the postgres tariff tables",
	RunE:  runTariffMigrate,
}

func init() {
	tariffCmd.AddCommand(tariffCheckCmd, tariffMigrateCmd)
	rootCmd.AddCommand(serveCmd, tariffCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(context.Background())
	}

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	// Wire the DHL quoter behind the dispatcher
	dispatcher, err := initDispatcher(ctx, cfg, logger)
	if err != nil {
		return err
	}

	executor, err := initExecutor(dispatcher, logger, metrics)
	if err != nil {
		return err
	}

	logger.Info("Starting DHL quote service",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.String("tariff_source", cfg.TariffSource),
		zap.Bool("dhl_mock", cfg.DHLUseMock),
		zap.Bool("holiday_mock", cfg.HolidayUseMock),
	)

	// Start HTTP server
	srv := server.New(server.Config{Port: cfg.Port, Timeout: cfg.ServerTimeout()}, executor, prometheus.DefaultGatherer, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runTariffCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	table, err := loadTariffTable(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	stats := table.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "tariff source %s: %d cities, %d routes, %d zones, %d remote areas\n",
		cfg.TariffSource, stats.Cities, stats.Routes, stats.Zones, stats.Remotes)
	return nil
}

func runTariffMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.TariffSource != config.TariffSourcePostgres {
		return fmt.Errorf("tariff migrate needs TARIFF_SOURCE=%s", config.TariffSourcePostgres)
	}

	if err := migrateTariffTables(cmd.Context(), cfg); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "tariff tables migrated")
	return nil
}
