package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/findash/backend/internal/domain/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleDashboard() *analytics.Dashboard {
	return &analytics.Dashboard{
		KPIs: analytics.KPISet{
			TotalRevenue: 195.0,
			TotalOrders:  2,
		},
		MonthlyRevenue: []analytics.MonthlyRevenue{
			{YearMonth: "2017-03", Revenue: 80, Freight: 8, Orders: 1, Total: 88},
		},
		ReviewDistribution: map[string]int{"1": 0, "2": 0, "3": 1, "4": 0, "5": 1},
		Metadata: analytics.Metadata{
			GeneratedAt: time.Date(2018, 9, 1, 12, 0, 0, 0, time.UTC),
			Source:      "test fixture",
			DateRange:   "2017-03 to 2018-01",
			TotalRows:   3,
		},
	}
}

func TestExporterWrite(t *testing.T) {
	logger := zap.NewNop()

	t.Run("writes all top level sections", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dashboard_data.json")
		require.NoError(t, NewExporter(logger).Write(sampleDashboard(), path))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)

		var doc map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &doc))
		for _, key := range []string{
			"kpis", "monthly_revenue", "top_categories", "payment_types",
			"installments", "states", "quarterly", "review_distribution",
			"category_monthly", "delivery_monthly", "metadata",
		} {
			assert.Contains(t, doc, key)
		}
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "out", "dashboard_data.json")
		require.NoError(t, NewExporter(logger).Write(sampleDashboard(), path))

		_, err := os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("replaces an existing snapshot", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dashboard_data.json")
		require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

		require.NoError(t, NewExporter(logger).Write(sampleDashboard(), path))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, json.Valid(raw))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "dashboard_data.json")
		require.NoError(t, NewExporter(logger).Write(sampleDashboard(), path))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "dashboard_data.json", entries[0].Name())
	})

	t.Run("round trips the document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dashboard_data.json")
		want := sampleDashboard()
		require.NoError(t, NewExporter(logger).Write(want, path))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		var got analytics.Dashboard
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, want.KPIs, got.KPIs)
		assert.Equal(t, want.Metadata, got.Metadata)
		assert.Equal(t, want.ReviewDistribution, got.ReviewDistribution)
	})
}
