package pipeline

import (
	"testing"

	"github.com/findash/backend/internal/domain/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	windowStart = "2017-01"
	windowEnd   = "2018-08"
)

// computeFixture runs the whole pipeline over the shared fixture
func computeFixture(t *testing.T) *MetricsInput {
	t.Helper()
	ds := fixtureDataset()
	cleaned := Clean(ds.Orders, zap.NewNop())
	enriched := EnrichItems(ds.Items, ds.Products, ds.Translations)
	payments := AggregatePayments(ds.Payments)
	master := BuildMaster(cleaned.Delivered, enriched, payments, ds.Customers, ds.Sellers, windowStart, windowEnd)
	return &MetricsInput{
		Delivered: cleaned.Delivered,
		Payments:  ds.Payments,
		Reviews:   ds.Reviews,
		Master:    master,
	}
}

func TestComputeKPIs(t *testing.T) {
	in := computeFixture(t)
	doc := Compute(*in, windowStart, windowEnd)
	kpis := doc.KPIs

	t.Run("orders and revenue", func(t *testing.T) {
		assert.Equal(t, 2, kpis.TotalOrders)
		// payments of the two delivered orders: 60+20+5 + 110
		assert.Equal(t, 195.0, kpis.TotalRevenue)
		assert.Equal(t, 97.5, kpis.AvgOrderValue)
	})

	t.Run("cardinalities", func(t *testing.T) {
		assert.Equal(t, 2, kpis.TotalCustomers)
		assert.Equal(t, 2, kpis.TotalSellers)
	})

	t.Run("reviews restricted to delivered orders", func(t *testing.T) {
		// o3's review is excluded: (5+3)/2
		assert.Equal(t, 4.0, kpis.AvgReviewScore)
		assert.Equal(t, 50.0, kpis.FiveStarPct)
	})

	t.Run("delivery metrics", func(t *testing.T) {
		// o1 delivered 5 days after purchase, before the estimate;
		// o2 took 9 whole days and missed the estimate
		assert.Equal(t, 50.0, kpis.OnTimePct)
		assert.Equal(t, 7.0, kpis.AvgDeliveryDays)
	})

	t.Run("credit card share of value", func(t *testing.T) {
		// (60+110)/195 * 100 = 87.179...
		assert.Equal(t, 87.2, kpis.CreditCardShare)
	})
}

func TestComputeAggregates(t *testing.T) {
	in := computeFixture(t)
	doc := Compute(*in, windowStart, windowEnd)

	t.Run("monthly revenue ascending with freight and total", func(t *testing.T) {
		require.Len(t, doc.MonthlyRevenue, 2)
		m0 := doc.MonthlyRevenue[0]
		assert.Equal(t, "2017-03", m0.YearMonth)
		assert.Equal(t, 80.0, m0.Revenue)
		assert.Equal(t, 8.0, m0.Freight)
		assert.Equal(t, 1, m0.Orders)
		assert.Equal(t, 88.0, m0.Total)
		assert.Equal(t, "2018-01", doc.MonthlyRevenue[1].YearMonth)
	})

	t.Run("top categories by revenue descending", func(t *testing.T) {
		require.Len(t, doc.TopCategories, 2)
		assert.Equal(t, "electronics", doc.TopCategories[0].Category)
		assert.Equal(t, 150.0, doc.TopCategories[0].Revenue)
		assert.Equal(t, 2, doc.TopCategories[0].Orders)
		assert.Equal(t, 75.0, doc.TopCategories[0].AvgPrice)
		assert.Equal(t, dataset.CategoryOther, doc.TopCategories[1].Category)
	})

	t.Run("payment types exclude undelivered orders", func(t *testing.T) {
		require.Len(t, doc.PaymentTypes, 2)
		assert.Equal(t, "credit_card", doc.PaymentTypes[0].PaymentType)
		assert.Equal(t, 170.0, doc.PaymentTypes[0].TotalValue)
		assert.Equal(t, 2, doc.PaymentTypes[0].OrderCount)
		assert.Equal(t, "voucher", doc.PaymentTypes[1].PaymentType)
		assert.Equal(t, 25.0, doc.PaymentTypes[1].TotalValue)
	})

	t.Run("installment buckets ascending", func(t *testing.T) {
		require.Len(t, doc.Installments, 2)
		assert.Equal(t, 2, doc.Installments[0].Installments)
		assert.Equal(t, 60.0, doc.Installments[0].Total)
		assert.Equal(t, 3, doc.Installments[1].Installments)
		assert.Equal(t, 110.0, doc.Installments[1].Total)
	})

	t.Run("states by revenue descending", func(t *testing.T) {
		require.Len(t, doc.States, 2)
		assert.Equal(t, "RJ", doc.States[0].State)
		assert.Equal(t, 100.0, doc.States[0].Revenue)
		assert.Equal(t, "SP", doc.States[1].State)
		assert.Equal(t, 80.0, doc.States[1].Revenue)
		assert.Equal(t, 1, doc.States[1].Customers)
	})

	t.Run("quarterly growth is nil first then percent change", func(t *testing.T) {
		require.Len(t, doc.Quarterly, 2)
		q0, q1 := doc.Quarterly[0], doc.Quarterly[1]
		assert.Equal(t, "2017-Q1", q0.Quarter)
		assert.Nil(t, q0.GrowthPct)
		assert.Equal(t, "2018-Q1", q1.Quarter)
		require.NotNil(t, q1.GrowthPct)
		assert.Equal(t, 25.0, *q1.GrowthPct) // 80 -> 100
	})

	t.Run("review distribution covers scores 1-5", func(t *testing.T) {
		assert.Equal(t, map[string]int{
			"1": 0, "2": 0, "3": 1, "4": 0, "5": 1,
		}, doc.ReviewDistribution)
	})

	t.Run("category monthly sorted by month then category", func(t *testing.T) {
		require.Len(t, doc.CategoryMonthly, 3)
		assert.Equal(t, "2017-03", doc.CategoryMonthly[0].YearMonth)
		assert.Equal(t, "electronics", doc.CategoryMonthly[0].Category)
		assert.Equal(t, 50.0, doc.CategoryMonthly[0].Revenue)
		assert.Equal(t, dataset.CategoryOther, doc.CategoryMonthly[1].Category)
		assert.Equal(t, "2018-01", doc.CategoryMonthly[2].YearMonth)
	})

	t.Run("delivery monthly per purchase month", func(t *testing.T) {
		require.Len(t, doc.DeliveryMonthly, 2)
		d0 := doc.DeliveryMonthly[0]
		assert.Equal(t, "2017-03", d0.YearMonth)
		assert.Equal(t, 5.0, d0.AvgDays)
		assert.Equal(t, 100.0, d0.OnTimeRate)
		d1 := doc.DeliveryMonthly[1]
		assert.Equal(t, 9.0, d1.AvgDays)
		assert.Equal(t, 0.0, d1.OnTimeRate)
	})
}

func TestComputeEmptyInputs(t *testing.T) {
	doc := Compute(MetricsInput{}, windowStart, windowEnd)

	assert.Equal(t, 0, doc.KPIs.TotalOrders)
	assert.Equal(t, 0.0, doc.KPIs.TotalRevenue)
	assert.Equal(t, 0.0, doc.KPIs.AvgOrderValue)
	assert.Equal(t, 0.0, doc.KPIs.AvgReviewScore)
	assert.Equal(t, 0.0, doc.KPIs.CreditCardShare)

	assert.Empty(t, doc.MonthlyRevenue)
	assert.Empty(t, doc.TopCategories)
	assert.Empty(t, doc.Quarterly)
	assert.Equal(t, map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}, doc.ReviewDistribution)
}

func TestServiceRun(t *testing.T) {
	dir := t.TempDir()
	writeFixtureCSVs(t, dir)

	svc := NewService(dir, Window{Start: windowStart, End: windowEnd}, "test fixture", zap.NewNop())

	t.Run("end to end over the fixture", func(t *testing.T) {
		doc, err := svc.Run()
		require.NoError(t, err)

		assert.Equal(t, 2, doc.KPIs.TotalOrders)
		assert.Equal(t, 195.0, doc.KPIs.TotalRevenue)
		assert.Equal(t, 50.0, doc.KPIs.OnTimePct)
		assert.Equal(t, 3, doc.Metadata.TotalRows)
		assert.Equal(t, "test fixture", doc.Metadata.Source)
		assert.Equal(t, "2017-03 to 2018-01", doc.Metadata.DateRange)
	})

	t.Run("idempotent modulo generation timestamp", func(t *testing.T) {
		doc1, err := svc.Run()
		require.NoError(t, err)
		doc2, err := svc.Run()
		require.NoError(t, err)

		doc1.Metadata.GeneratedAt = doc2.Metadata.GeneratedAt
		assert.Equal(t, doc1, doc2)
	})

	t.Run("input files cover all eight extracts", func(t *testing.T) {
		assert.Len(t, svc.InputFiles(), 8)
	})
}
