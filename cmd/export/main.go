package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/findash/backend/internal/application/export"
	"github.com/findash/backend/internal/application/pipeline"
	"github.com/findash/backend/internal/domain/dataset"
	"github.com/findash/backend/internal/infrastructure/config"
	"github.com/findash/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Export starting",
		zap.String("data_dir", cfg.Data.Dir),
		zap.String("output", cfg.Export.OutputPath),
	)

	svc := pipeline.NewService(
		cfg.Data.Dir,
		pipeline.Window{Start: cfg.Analysis.WindowStart, End: cfg.Analysis.WindowEnd},
		cfg.Data.Source,
		log,
	)

	dashboard, err := svc.Run()
	if err != nil {
		var dsErr *dataset.DataSourceError
		if errors.As(err, &dsErr) {
			log.Error("Required input file missing or unreadable", zap.String("path", dsErr.Path), zap.Error(err))
		} else {
			log.Error("Pipeline failed", zap.Error(err))
		}
		os.Exit(1)
	}

	if err := export.NewExporter(log).Write(dashboard, cfg.Export.OutputPath); err != nil {
		log.Error("Export failed", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Export complete",
		zap.Float64("total_revenue", dashboard.KPIs.TotalRevenue),
		zap.Int("total_orders", dashboard.KPIs.TotalOrders),
		zap.String("date_range", dashboard.Metadata.DateRange),
	)
}
