package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdrop/internal/app"
	"github.com/shrimpsizemoose/quizdrop/internal/export"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	var out = flag.String("out", "", "Workbook path, overrides export.path")
	var schedule = flag.String("schedule", "", "Cron spec to keep exporting, overrides export.schedule")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	if *out != "" {
		service.Config.Export.Path = *out
	}
	if *schedule != "" {
		service.Config.Export.Schedule = *schedule
	}

	exporter := export.NewXLSXExporter(service)

	if service.Config.Export.Schedule == "" {
		n, err := exporter.Export(context.Background())
		if err != nil {
			logger.Error.Fatalf("Export failed: %v", err)
		}
		logger.Info.Printf("Exported %d submissions to %s", n, service.Config.Export.Path)
		return
	}

	if err := exporter.Schedule(service.Config.Export.Schedule); err != nil {
		logger.Error.Fatalf("Failed to schedule export: %v", err)
	}
	defer exporter.Stop()

	logger.Info.Printf("Exporting on schedule %q", service.Config.Export.Schedule)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info.Println("Export scheduler stopped")
}
