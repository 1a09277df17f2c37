package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/secure-shed/shedctl/internal/adapters/apiclient"
	"github.com/secure-shed/shedctl/internal/adapters/web/handlers"
	webserver "github.com/secure-shed/shedctl/internal/adapters/web/server"
	"github.com/secure-shed/shedctl/internal/adapters/web/stream"
	"github.com/secure-shed/shedctl/internal/config"
	"github.com/secure-shed/shedctl/internal/keypad"
	"github.com/secure-shed/shedctl/internal/logstore"
	"github.com/secure-shed/shedctl/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "keypad.json", "Path to keypad configuration file")
	tick := flag.Duration("tick", 0, "Panel tick interval (default 10ms)")
	flag.Parse()

	ring := logstore.New(logstore.DefaultCapacity)
	logger := slog.New(logstore.NewHandler(
		slog.NewJSONHandler(os.Stdout, nil), ring))
	slog.SetDefault(logger)

	cfg, err := config.LoadKeypadConfig(*configPath)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}

	telemetry.InitMetrics()
	shutdownTracer, err := telemetry.InitTracer("shed-keypad")
	if err != nil {
		slog.Error("failed to init tracer", "error", err)
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				slog.Error("failed to shutdown tracer", "error", err)
			}
		}()
	}

	central := apiclient.New(cfg.CentralController.Endpoint,
		cfg.CentralController.AuthKey, 0)
	display := keypad.NewTextDisplay(os.Stdout)
	panel := keypad.NewPanelState(central, display, logger)

	streamMgr := stream.NewManager(ring, logger)
	router := webserver.KeypadRoutes(cfg.KeypadAPI.AuthKey,
		handlers.NewKeypadHandler(panel, logger),
		handlers.NewLogsHandler(ring), streamMgr)
	server := webserver.New(fmt.Sprintf(":%d", cfg.KeypadAPI.NetworkPort),
		"shed-keypad", router, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	streamMgr.Start(ctx)
	go keypad.RunPanelLoop(ctx, panel, *tick)

	entry := keypad.NewEntry(central, logger)
	go keypad.RunInputLoop(ctx, os.Stdin, entry, panel, logger)

	slog.Info("keypad controller starting")
	if err := server.Run(ctx); err != nil {
		slog.Error("keypad controller failed", "error", err)
		os.Exit(1)
	}
}
