package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/secure-shed/shedctl/internal/adapters/apiclient"
	"github.com/secure-shed/shedctl/internal/adapters/reporting"
	"github.com/secure-shed/shedctl/internal/config"
	"github.com/secure-shed/shedctl/internal/console"
)

func main() {
	reportPath := flag.String("report", "", "Write a PDF log report to this path on shutdown (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	configPath, err := config.RequiredEnv(config.EnvConsoleConfig)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConsoleConfig(configPath)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}

	sources := make([]*console.Source, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		sources = append(sources, &console.Source{
			Name:   src.Name,
			Client: apiclient.New(src.Endpoint, src.AuthKey, 0),
		})
	}

	c := console.New(sources, os.Stdout, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("power console starting", "sources", len(sources))
	c.Run(ctx)

	// On shutdown, optionally archive everything seen as a PDF report.
	reportFile := cfg.PDFReportFile
	if *reportPath != "" {
		reportFile = *reportPath
	}
	if reportFile != "" {
		data, err := reporting.NewPDFExporter().
			ExportLogReport("Secure Shed Console Logs", c.Archive())
		if err != nil {
			slog.Error("report generation failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(reportFile, data, 0o644); err != nil {
			slog.Error("report write failed", "error", err)
			os.Exit(1)
		}
		slog.Info("console log report written", "file", reportFile)
	}
}
