package analytics

import "time"

// MonthlyRevenue is one row of the monthly revenue trend, keyed by
// "YYYY-MM" and sorted ascending. Revenue sums item prices, Total adds
// freight on top.
type MonthlyRevenue struct {
	YearMonth string  `json:"year_month"`
	Revenue   float64 `json:"revenue"`
	Freight   float64 `json:"freight"`
	Orders    int     `json:"orders"`
	Total     float64 `json:"total"`
}

// CategoryRevenue is one row of the category ranking, sorted by revenue
// descending.
type CategoryRevenue struct {
	Category string  `json:"product_category_name_english"`
	Revenue  float64 `json:"revenue"`
	Orders   int     `json:"orders"`
	AvgPrice float64 `json:"avg_price"`
}

// PaymentTypeTotal is one row of the payment type distribution, sorted by
// total value descending. OrderCount counts distinct orders.
type PaymentTypeTotal struct {
	PaymentType string  `json:"payment_type"`
	TotalValue  float64 `json:"total_value"`
	OrderCount  int     `json:"order_count"`
}

// InstallmentBucket summarises credit card payments for one installment
// count. Count is the number of payment rows, not distinct orders.
type InstallmentBucket struct {
	Installments int     `json:"payment_installments"`
	Count        int     `json:"count"`
	Total        float64 `json:"total"`
}

// StateRevenue is one row of the state-level breakdown, sorted by revenue
// descending.
type StateRevenue struct {
	State     string  `json:"customer_state"`
	Revenue   float64 `json:"revenue"`
	Orders    int     `json:"orders"`
	Customers int     `json:"customers"`
}

// QuarterlyRevenue is one row of the quarterly trend. GrowthPct is the
// quarter-over-quarter revenue change in percent; it is nil for the first
// quarter, where no previous value exists.
type QuarterlyRevenue struct {
	Quarter   string   `json:"quarter"`
	Revenue   float64  `json:"revenue"`
	Orders    int      `json:"orders"`
	GrowthPct *float64 `json:"growth_pct"`
}

// CategoryMonthly is one row of the monthly revenue trend restricted to the
// top categories, sorted by month then category.
type CategoryMonthly struct {
	YearMonth string  `json:"year_month"`
	Category  string  `json:"product_category_name_english"`
	Revenue   float64 `json:"revenue"`
}

// DeliveryMonthly is one row of the monthly delivery performance trend.
// OnTimeRate is a percentage.
type DeliveryMonthly struct {
	YearMonth  string  `json:"year_month"`
	AvgDays    float64 `json:"avg_days"`
	OnTimeRate float64 `json:"on_time_rate"`
}

// Metadata describes one generated dashboard document.
type Metadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Source      string    `json:"source"`
	DateRange   string    `json:"date_range"`
	TotalRows   int       `json:"total_records_analyzed"`
}

// Dashboard is the complete analysis document: the scalar KPIs plus every
// grouped aggregate, in the shape both the batch export and the HTTP
// surface serve.
type Dashboard struct {
	KPIs               KPISet              `json:"kpis"`
	MonthlyRevenue     []MonthlyRevenue    `json:"monthly_revenue"`
	TopCategories      []CategoryRevenue   `json:"top_categories"`
	PaymentTypes       []PaymentTypeTotal  `json:"payment_types"`
	Installments       []InstallmentBucket `json:"installments"`
	States             []StateRevenue      `json:"states"`
	Quarterly          []QuarterlyRevenue  `json:"quarterly"`
	ReviewDistribution map[string]int      `json:"review_distribution"`
	CategoryMonthly    []CategoryMonthly   `json:"category_monthly"`
	DeliveryMonthly    []DeliveryMonthly   `json:"delivery_monthly"`
	Metadata           Metadata            `json:"metadata"`
}
