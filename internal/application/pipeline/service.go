package pipeline

import (
	"fmt"
	"time"

	"github.com/findash/backend/internal/domain/analytics"
	"github.com/findash/backend/internal/domain/dataset"
	"go.uber.org/zap"
)

// Window is the inclusive analysis window, both ends "YYYY-MM"
type Window struct {
	Start string
	End   string
}

// Service runs the full transformation: load, clean, join, compute. Both
// the batch export and the HTTP surface consume it, so no business rule is
// derived twice.
type Service struct {
	loader *Loader
	dir    string
	window Window
	source string
	logger *zap.Logger
}

// NewService creates a pipeline service over the given data directory
func NewService(dir string, window Window, source string, logger *zap.Logger) *Service {
	return &Service{
		loader: NewLoader(dir, logger),
		dir:    dir,
		window: window,
		source: source,
		logger: logger,
	}
}

// InputFiles returns the paths of the eight extracts this service reads,
// for fingerprinting by the snapshot cache.
func (s *Service) InputFiles() []string {
	return SourceFiles(s.dir)
}

// Run executes one end-to-end pipeline pass and returns the dashboard
// document. It fails only on a DataSourceError; everything downstream of a
// successful load is a pure computation with defined empty-input defaults.
func (s *Service) Run() (*analytics.Dashboard, error) {
	started := time.Now()

	ds, err := s.loader.Load()
	if err != nil {
		return nil, err
	}

	cleaned := Clean(ds.Orders, s.logger)

	enriched := EnrichItems(ds.Items, ds.Products, ds.Translations)
	payments := AggregatePayments(ds.Payments)
	master := BuildMaster(cleaned.Delivered, enriched, payments, ds.Customers, ds.Sellers, s.window.Start, s.window.End)

	s.logger.Info("Master table built",
		zap.Int("rows", len(master)),
		zap.String("window_start", s.window.Start),
		zap.String("window_end", s.window.End),
	)

	dashboard := Compute(MetricsInput{
		Delivered: cleaned.Delivered,
		Payments:  ds.Payments,
		Reviews:   ds.Reviews,
		Master:    master,
	}, s.window.Start, s.window.End)

	dashboard.Metadata = analytics.Metadata{
		GeneratedAt: time.Now().UTC(),
		Source:      s.source,
		DateRange:   dateRange(master),
		TotalRows:   len(master),
	}

	s.logger.Info("Pipeline complete",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("master_rows", len(master)),
		zap.Float64("total_revenue", dashboard.KPIs.TotalRevenue),
		zap.Int("total_orders", dashboard.KPIs.TotalOrders),
	)

	return dashboard, nil
}

// dateRange formats the observed span of master-table months
func dateRange(master []dataset.MasterRow) string {
	if len(master) == 0 {
		return ""
	}
	min, max := master[0].YearMonth, master[0].YearMonth
	for _, m := range master[1:] {
		if m.YearMonth < min {
			min = m.YearMonth
		}
		if m.YearMonth > max {
			max = m.YearMonth
		}
	}
	return fmt.Sprintf("%s to %s", min, max)
}
