package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/findash/backend/internal/domain/analytics"
	"go.uber.org/zap"
)

// Exporter writes the dashboard document as a JSON snapshot. The write is
// all-or-nothing: the document goes to a temporary file first and is
// renamed into place, so a failed run never leaves a partial artifact.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new Exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// Write marshals the dashboard and writes it to path, creating parent
// directories as needed.
func (e *Exporter) Write(dashboard *analytics.Dashboard, path string) error {
	data, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dashboard: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".dashboard-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", path, err)
	}

	e.logger.Info("Dashboard exported",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
		zap.Int("master_rows", dashboard.Metadata.TotalRows),
	)

	return nil
}
