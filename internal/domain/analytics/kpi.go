package analytics

// KPISet holds the ten scalar summary metrics of one pipeline run. Values
// are already rounded to presentation precision: two decimals for currency
// and averages, one decimal for percentages and days.
type KPISet struct {
	TotalRevenue    float64 `json:"total_revenue"`
	TotalOrders     int     `json:"total_orders"`
	AvgOrderValue   float64 `json:"avg_order_value"`
	TotalCustomers  int     `json:"total_customers"`
	TotalSellers    int     `json:"total_sellers"`
	AvgReviewScore  float64 `json:"avg_review_score"`
	FiveStarPct     float64 `json:"five_star_pct"`
	OnTimePct       float64 `json:"on_time_pct"`
	AvgDeliveryDays float64 `json:"avg_delivery_days"`
	CreditCardShare float64 `json:"credit_card_share"`
}
