package dataset

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryOther is the fallback English category for items whose product has
// no category or whose category has no translation. The replacement happens
// before any aggregation keys on category, so downstream consumers never see
// an empty category.
const CategoryOther = "other"

// DeliveredOrder is an order that passed the "delivered" status filter, with
// timestamps parsed and calendar buckets derived from the purchase time.
// A timestamp that failed to parse is nil; if the purchase timestamp itself
// is missing the bucket fields stay empty and the row falls out at the
// analysis-window filter.
type DeliveredOrder struct {
	OrderID             string
	CustomerID          string
	PurchasedAt         *time.Time
	ApprovedAt          *time.Time
	CarrierDeliveredAt  *time.Time
	CustomerDeliveredAt *time.Time
	EstimatedDelivery   *time.Time
	YearMonth           string // "YYYY-MM"
	Quarter             string // "YYYY-Q#"
	Year                int
}

// EnrichedItem is an order item joined with its product's English category.
type EnrichedItem struct {
	OrderID      string
	ItemSeq      int
	ProductID    string
	SellerID     string
	Price        decimal.Decimal
	FreightValue decimal.Decimal
	Category     string
}

// AggregatedPayment collapses the payment rows of one order: the value is
// the sum over all rows (never a single arbitrary row), the type comes from
// the row with the lowest payment sequence number, and Installments is the
// maximum seen for the order.
type AggregatedPayment struct {
	OrderID      string
	Value        decimal.Decimal
	Type         string
	Installments int
}

// MasterRow is one row of the master financial table: a delivered order
// joined with one of its items, the order's aggregated payment, and the
// customer and seller locations. Payment is nil and the location fields are
// empty when the corresponding left join found no match.
type MasterRow struct {
	OrderID             string
	CustomerID          string
	PurchasedAt         *time.Time
	CustomerDeliveredAt *time.Time
	EstimatedDelivery   *time.Time
	YearMonth           string
	Quarter             string
	Year                int
	ProductID           string
	SellerID            string
	Price               decimal.Decimal
	FreightValue        decimal.Decimal
	Category            string
	Payment             *AggregatedPayment
	CustomerState       string
	CustomerCity        string
	SellerState         string
	SellerCity          string
}
