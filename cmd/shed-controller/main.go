package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/secure-shed/shedctl/internal/app"
	"github.com/secure-shed/shedctl/internal/config"
	"github.com/secure-shed/shedctl/internal/logstore"
	"github.com/secure-shed/shedctl/internal/telemetry"
)

func main() {
	tick := flag.Duration("tick", 0, "Worker tick interval (default 100ms)")
	flag.Parse()

	// Console log ring doubles as the retrieveConsoleLogs source, so every
	// slog line is also visible to the power console.
	ring := logstore.New(logstore.DefaultCapacity)
	logger := slog.New(logstore.NewHandler(
		slog.NewJSONHandler(os.Stdout, nil), ring))
	slog.SetDefault(logger)

	configPath, err := config.RequiredEnv(config.EnvCentralConfig)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
	dbPath, err := config.RequiredEnv(config.EnvCentralDB)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}

	cfg, err := config.LoadControllerConfig(configPath)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracer("shed-controller")
	if err != nil {
		slog.Error("failed to init tracer", "error", err)
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				slog.Error("failed to shutdown tracer", "error", err)
			}
		}()
	}

	application, err := app.New(cfg, dbPath, ring, logger)
	if err != nil {
		slog.Error("failed to initialise central controller", "error", err)
		os.Exit(1)
	}
	application.Worker.SetInterval(*tick)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("central controller starting")
	if err := application.Run(ctx); err != nil {
		slog.Error("central controller failed", "error", err)
		os.Exit(1)
	}
}
