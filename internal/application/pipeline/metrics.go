package pipeline

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/findash/backend/internal/domain/analytics"
	"github.com/findash/backend/internal/domain/dataset"
	"github.com/shopspring/decimal"
)

// topCategoryCount bounds the category ranking; trendCategoryCount bounds
// the per-category monthly trend; installmentBucketCount bounds the
// installment table.
const (
	topCategoryCount       = 15
	trendCategoryCount     = 5
	installmentBucketCount = 12
)

// MetricsInput bundles the tables the metric engine reads. Master is
// already window-filtered; Delivered, Payments, and Reviews are global so
// order counts and revenue cover every delivered order.
type MetricsInput struct {
	Delivered []dataset.DeliveredOrder
	Payments  []dataset.Payment
	Reviews   []dataset.Review
	Master    []dataset.MasterRow
}

// Compute derives the scalar KPIs and every grouped aggregate from one
// snapshot. All intermediate arithmetic runs at full precision; rounding to
// presentation precision (2 decimals for currency and averages, 1 for
// percentages and days) happens only here, at the boundary. Empty inputs
// yield zeros, empty tables, or nil growth, never a fault.
func Compute(in MetricsInput, windowStart, windowEnd string) *analytics.Dashboard {
	deliveredIDs := make(map[string]struct{}, len(in.Delivered))
	for _, d := range in.Delivered {
		deliveredIDs[d.OrderID] = struct{}{}
	}

	var deliveredPayments []dataset.Payment
	for _, p := range in.Payments {
		if _, ok := deliveredIDs[p.OrderID]; ok {
			deliveredPayments = append(deliveredPayments, p)
		}
	}

	var deliveredReviews []dataset.Review
	for _, r := range in.Reviews {
		if _, ok := deliveredIDs[r.OrderID]; ok {
			deliveredReviews = append(deliveredReviews, r)
		}
	}

	topCategories := computeTopCategories(in.Master)

	return &analytics.Dashboard{
		KPIs:               computeKPIs(in, deliveredPayments, deliveredReviews),
		MonthlyRevenue:     computeMonthlyRevenue(in.Master),
		TopCategories:      topCategories,
		PaymentTypes:       computePaymentTypes(deliveredPayments),
		Installments:       computeInstallments(deliveredPayments),
		States:             computeStates(in.Master),
		Quarterly:          computeQuarterly(in.Master),
		ReviewDistribution: computeReviewDistribution(deliveredReviews),
		CategoryMonthly:    computeCategoryMonthly(in.Master, topCategories),
		DeliveryMonthly:    computeDeliveryMonthly(in.Delivered, windowStart, windowEnd),
	}
}

// deliveryStat is one delivered order with both the actual and the
// estimated delivery date present.
type deliveryStat struct {
	yearMonth string
	days      int
	hasDays   bool
	onTime    bool
}

// deliveryStats collects the orders that qualify for delivery metrics.
// Days are whole days from purchase to customer delivery and require the
// purchase timestamp; the on-time flag needs only the two delivery dates.
func deliveryStats(delivered []dataset.DeliveredOrder) []deliveryStat {
	var stats []deliveryStat
	for _, d := range delivered {
		if d.CustomerDeliveredAt == nil || d.EstimatedDelivery == nil {
			continue
		}
		s := deliveryStat{
			yearMonth: d.YearMonth,
			onTime:    !d.CustomerDeliveredAt.After(*d.EstimatedDelivery),
		}
		if d.PurchasedAt != nil {
			s.days = int(d.CustomerDeliveredAt.Sub(*d.PurchasedAt) / (24 * time.Hour))
			s.hasDays = true
		}
		stats = append(stats, s)
	}
	return stats
}

func computeKPIs(in MetricsInput, deliveredPayments []dataset.Payment, deliveredReviews []dataset.Review) analytics.KPISet {
	var kpis analytics.KPISet

	totalRevenue := decimal.Zero
	ccRevenue := decimal.Zero
	for _, p := range deliveredPayments {
		totalRevenue = totalRevenue.Add(p.Value)
		if p.Type == "credit_card" {
			ccRevenue = ccRevenue.Add(p.Value)
		}
	}

	kpis.TotalRevenue = decTo2(totalRevenue)
	kpis.TotalOrders = len(in.Delivered)
	if kpis.TotalOrders > 0 {
		kpis.AvgOrderValue = decTo2(totalRevenue.Div(decimal.NewFromInt(int64(kpis.TotalOrders))))
	}

	customers := make(map[string]struct{})
	for _, d := range in.Delivered {
		customers[d.CustomerID] = struct{}{}
	}
	kpis.TotalCustomers = len(customers)

	sellers := make(map[string]struct{})
	for _, m := range in.Master {
		sellers[m.SellerID] = struct{}{}
	}
	kpis.TotalSellers = len(sellers)

	if n := len(deliveredReviews); n > 0 {
		var sum, fiveStars int
		for _, r := range deliveredReviews {
			sum += r.Score
			if r.Score == 5 {
				fiveStars++
			}
		}
		kpis.AvgReviewScore = round2(float64(sum) / float64(n))
		kpis.FiveStarPct = round1(float64(fiveStars) / float64(n) * 100)
	}

	stats := deliveryStats(in.Delivered)
	if len(stats) > 0 {
		var onTime, daysSum, daysN int
		for _, s := range stats {
			if s.onTime {
				onTime++
			}
			if s.hasDays {
				daysSum += s.days
				daysN++
			}
		}
		kpis.OnTimePct = round1(float64(onTime) / float64(len(stats)) * 100)
		if daysN > 0 {
			kpis.AvgDeliveryDays = round1(float64(daysSum) / float64(daysN))
		}
	}

	if totalRevenue.IsPositive() {
		share, _ := ccRevenue.Div(totalRevenue).Mul(decimal.NewFromInt(100)).Float64()
		kpis.CreditCardShare = round1(share)
	}

	return kpis
}

func computeMonthlyRevenue(master []dataset.MasterRow) []analytics.MonthlyRevenue {
	type agg struct {
		revenue decimal.Decimal
		freight decimal.Decimal
		orders  map[string]struct{}
	}
	months := make(map[string]*agg)
	for _, m := range master {
		a, ok := months[m.YearMonth]
		if !ok {
			a = &agg{revenue: decimal.Zero, freight: decimal.Zero, orders: make(map[string]struct{})}
			months[m.YearMonth] = a
		}
		a.revenue = a.revenue.Add(m.Price)
		a.freight = a.freight.Add(m.FreightValue)
		a.orders[m.OrderID] = struct{}{}
	}

	rows := make([]analytics.MonthlyRevenue, 0, len(months))
	for ym, a := range months {
		rows = append(rows, analytics.MonthlyRevenue{
			YearMonth: ym,
			Revenue:   decTo2(a.revenue),
			Freight:   decTo2(a.freight),
			Orders:    len(a.orders),
			Total:     decTo2(a.revenue.Add(a.freight)),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].YearMonth < rows[j].YearMonth })
	return rows
}

func computeTopCategories(master []dataset.MasterRow) []analytics.CategoryRevenue {
	type agg struct {
		revenue  decimal.Decimal
		orders   map[string]struct{}
		priceSum decimal.Decimal
		items    int
	}
	categories := make(map[string]*agg)
	for _, m := range master {
		a, ok := categories[m.Category]
		if !ok {
			a = &agg{revenue: decimal.Zero, priceSum: decimal.Zero, orders: make(map[string]struct{})}
			categories[m.Category] = a
		}
		a.revenue = a.revenue.Add(m.Price)
		a.priceSum = a.priceSum.Add(m.Price)
		a.orders[m.OrderID] = struct{}{}
		a.items++
	}

	type ranked struct {
		name    string
		revenue decimal.Decimal
		agg     *agg
	}
	all := make([]ranked, 0, len(categories))
	for name, a := range categories {
		all = append(all, ranked{name: name, revenue: a.revenue, agg: a})
	}
	sort.Slice(all, func(i, j int) bool {
		if cmp := all[i].revenue.Cmp(all[j].revenue); cmp != 0 {
			return cmp > 0
		}
		return all[i].name < all[j].name
	})
	if len(all) > topCategoryCount {
		all = all[:topCategoryCount]
	}

	rows := make([]analytics.CategoryRevenue, 0, len(all))
	for _, r := range all {
		rows = append(rows, analytics.CategoryRevenue{
			Category: r.name,
			Revenue:  decTo2(r.revenue),
			Orders:   len(r.agg.orders),
			AvgPrice: decTo2(r.agg.priceSum.Div(decimal.NewFromInt(int64(r.agg.items)))),
		})
	}
	return rows
}

func computePaymentTypes(deliveredPayments []dataset.Payment) []analytics.PaymentTypeTotal {
	type agg struct {
		value  decimal.Decimal
		orders map[string]struct{}
	}
	types := make(map[string]*agg)
	for _, p := range deliveredPayments {
		a, ok := types[p.Type]
		if !ok {
			a = &agg{value: decimal.Zero, orders: make(map[string]struct{})}
			types[p.Type] = a
		}
		a.value = a.value.Add(p.Value)
		a.orders[p.OrderID] = struct{}{}
	}

	rows := make([]analytics.PaymentTypeTotal, 0, len(types))
	for name, a := range types {
		rows = append(rows, analytics.PaymentTypeTotal{
			PaymentType: name,
			TotalValue:  decTo2(a.value),
			OrderCount:  len(a.orders),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalValue != rows[j].TotalValue {
			return rows[i].TotalValue > rows[j].TotalValue
		}
		return rows[i].PaymentType < rows[j].PaymentType
	})
	return rows
}

func computeInstallments(deliveredPayments []dataset.Payment) []analytics.InstallmentBucket {
	type agg struct {
		count int
		total decimal.Decimal
	}
	buckets := make(map[int]*agg)
	for _, p := range deliveredPayments {
		if p.Type != "credit_card" {
			continue
		}
		a, ok := buckets[p.Installments]
		if !ok {
			a = &agg{total: decimal.Zero}
			buckets[p.Installments] = a
		}
		a.count++
		a.total = a.total.Add(p.Value)
	}

	counts := make([]int, 0, len(buckets))
	for n := range buckets {
		counts = append(counts, n)
	}
	sort.Ints(counts)
	if len(counts) > installmentBucketCount {
		counts = counts[:installmentBucketCount]
	}

	rows := make([]analytics.InstallmentBucket, 0, len(counts))
	for _, n := range counts {
		rows = append(rows, analytics.InstallmentBucket{
			Installments: n,
			Count:        buckets[n].count,
			Total:        decTo2(buckets[n].total),
		})
	}
	return rows
}

func computeStates(master []dataset.MasterRow) []analytics.StateRevenue {
	type agg struct {
		revenue   decimal.Decimal
		orders    map[string]struct{}
		customers map[string]struct{}
	}
	states := make(map[string]*agg)
	for _, m := range master {
		// rows whose customer join found no match carry no state
		if m.CustomerState == "" {
			continue
		}
		a, ok := states[m.CustomerState]
		if !ok {
			a = &agg{revenue: decimal.Zero, orders: make(map[string]struct{}), customers: make(map[string]struct{})}
			states[m.CustomerState] = a
		}
		a.revenue = a.revenue.Add(m.Price)
		a.orders[m.OrderID] = struct{}{}
		a.customers[m.CustomerID] = struct{}{}
	}

	rows := make([]analytics.StateRevenue, 0, len(states))
	for name, a := range states {
		rows = append(rows, analytics.StateRevenue{
			State:     name,
			Revenue:   decTo2(a.revenue),
			Orders:    len(a.orders),
			Customers: len(a.customers),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].State < rows[j].State
	})
	return rows
}

func computeQuarterly(master []dataset.MasterRow) []analytics.QuarterlyRevenue {
	type agg struct {
		revenue decimal.Decimal
		orders  map[string]struct{}
	}
	quarters := make(map[string]*agg)
	for _, m := range master {
		a, ok := quarters[m.Quarter]
		if !ok {
			a = &agg{revenue: decimal.Zero, orders: make(map[string]struct{})}
			quarters[m.Quarter] = a
		}
		a.revenue = a.revenue.Add(m.Price)
		a.orders[m.OrderID] = struct{}{}
	}

	keys := make([]string, 0, len(quarters))
	for q := range quarters {
		keys = append(keys, q)
	}
	sort.Strings(keys)

	rows := make([]analytics.QuarterlyRevenue, 0, len(keys))
	prev := math.NaN()
	for _, q := range keys {
		a := quarters[q]
		// growth is derived from the unrounded revenue so presentation
		// rounding cannot compound into it
		exact, _ := a.revenue.Float64()
		row := analytics.QuarterlyRevenue{
			Quarter: q,
			Revenue: decTo2(a.revenue),
			Orders:  len(a.orders),
		}
		if !math.IsNaN(prev) && prev != 0 {
			growth := round1((exact - prev) / prev * 100)
			row.GrowthPct = &growth
		}
		prev = exact
		rows = append(rows, row)
	}
	return rows
}

func computeReviewDistribution(deliveredReviews []dataset.Review) map[string]int {
	dist := make(map[string]int, 5)
	for score := 1; score <= 5; score++ {
		dist[strconv.Itoa(score)] = 0
	}
	for _, r := range deliveredReviews {
		if r.Score >= 1 && r.Score <= 5 {
			dist[strconv.Itoa(r.Score)]++
		}
	}
	return dist
}

func computeCategoryMonthly(master []dataset.MasterRow, topCategories []analytics.CategoryRevenue) []analytics.CategoryMonthly {
	top := make(map[string]struct{}, trendCategoryCount)
	for i, c := range topCategories {
		if i == trendCategoryCount {
			break
		}
		top[c.Category] = struct{}{}
	}

	type key struct{ ym, category string }
	sums := make(map[key]decimal.Decimal)
	for _, m := range master {
		if _, ok := top[m.Category]; !ok {
			continue
		}
		k := key{ym: m.YearMonth, category: m.Category}
		sums[k] = sums[k].Add(m.Price)
	}

	rows := make([]analytics.CategoryMonthly, 0, len(sums))
	for k, revenue := range sums {
		rows = append(rows, analytics.CategoryMonthly{
			YearMonth: k.ym,
			Category:  k.category,
			Revenue:   decTo2(revenue),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].YearMonth != rows[j].YearMonth {
			return rows[i].YearMonth < rows[j].YearMonth
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

func computeDeliveryMonthly(delivered []dataset.DeliveredOrder, windowStart, windowEnd string) []analytics.DeliveryMonthly {
	type agg struct {
		daysSum int
		daysN   int
		onTime  int
		total   int
	}
	months := make(map[string]*agg)
	for _, s := range deliveryStats(delivered) {
		if s.yearMonth < windowStart || s.yearMonth > windowEnd {
			continue
		}
		a, ok := months[s.yearMonth]
		if !ok {
			a = &agg{}
			months[s.yearMonth] = a
		}
		a.total++
		if s.onTime {
			a.onTime++
		}
		if s.hasDays {
			a.daysSum += s.days
			a.daysN++
		}
	}

	rows := make([]analytics.DeliveryMonthly, 0, len(months))
	for ym, a := range months {
		row := analytics.DeliveryMonthly{
			YearMonth:  ym,
			OnTimeRate: round1(float64(a.onTime) / float64(a.total) * 100),
		}
		if a.daysN > 0 {
			row.AvgDays = round1(float64(a.daysSum) / float64(a.daysN))
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].YearMonth < rows[j].YearMonth })
	return rows
}

// decTo2 rounds a decimal to two places and converts it for presentation
func decTo2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
