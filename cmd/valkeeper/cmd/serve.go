package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/solatis/valkeeper/internal/core/api"
	"github.com/solatis/valkeeper/internal/core/db"
	"github.com/solatis/valkeeper/internal/core/server"
)

// Version is the release reported at startup.
const Version = "0.1.0"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gRPC validation service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "gRPC server host")
	serveCmd.Flags().Int("port", 50051, "gRPC server port")
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		cfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		cfg.Port = port
	}

	// Protobuf carries every number as a double
	if !cfg.LenientNumbers {
		log.Info("enabling lenient numbers for protobuf input")
		cfg.LenientNumbers = true
	}

	engine, err := cfg.BuildEngine()
	if err != nil {
		return err
	}
	if len(engine.Names()) == 0 {
		log.Warn("no schemas configured; every request will fail with NOT_FOUND")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Report persistence is optional
	var store api.ReportSaver
	if cfg.DBURL != "" {
		reportStore, err := db.OpenReportStore(ctx, cfg.DBURL)
		if err != nil {
			return fmt.Errorf("failed to open report store: %w", err)
		}
		defer reportStore.Close()
		store = reportStore
	}

	service, err := api.NewValidatorService(engine, store, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	grpcServer, err := server.NewGRPCServer(cfg, service, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("starting valkeeper",
		slog.String("version", Version),
		slog.String("addr", cfg.Address()),
		slog.Any("schemas", engine.Names()),
		slog.Bool("reports", store != nil),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- grpcServer.Start(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+5*time.Second)
		defer cancel()
		return grpcServer.Shutdown(shutdownCtx)
	}
}
