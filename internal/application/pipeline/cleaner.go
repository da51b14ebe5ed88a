package pipeline

import (
	"fmt"
	"time"

	"github.com/findash/backend/internal/domain/dataset"
	"go.uber.org/zap"
)

// timestampLayout is the format of every timestamp column in the orders
// extract.
const timestampLayout = "2006-01-02 15:04:05"

// CleanResult holds the delivered orders with parsed timestamps and derived
// calendar buckets, plus counters for observability.
type CleanResult struct {
	Delivered   []dataset.DeliveredOrder
	TotalOrders int
	// Coercions counts non-empty timestamp values that failed to parse,
	// per column. The rows survive with a missing timestamp.
	Coercions map[string]int
}

// Clean filters the raw orders to status "delivered" and derives the
// year_month, quarter, and year buckets from the purchase timestamp.
// Unparsable timestamps become missing values; they are counted and logged
// but never fail the run. An order without a usable purchase timestamp
// keeps empty bucket strings and falls out later at the window filter.
func Clean(orders []dataset.Order, logger *zap.Logger) *CleanResult {
	res := &CleanResult{
		TotalOrders: len(orders),
		Coercions:   make(map[string]int),
	}

	for _, o := range orders {
		if o.Status != "delivered" {
			continue
		}

		d := dataset.DeliveredOrder{
			OrderID:             o.OrderID,
			CustomerID:          o.CustomerID,
			PurchasedAt:         res.parseTime(o.PurchaseTimestamp, "order_purchase_timestamp"),
			ApprovedAt:          res.parseTime(o.ApprovedAt, "order_approved_at"),
			CarrierDeliveredAt:  res.parseTime(o.DeliveredCarrierDate, "order_delivered_carrier_date"),
			CustomerDeliveredAt: res.parseTime(o.DeliveredCustomerDate, "order_delivered_customer_date"),
			EstimatedDelivery:   res.parseTime(o.EstimatedDeliveryDate, "order_estimated_delivery_date"),
		}

		if d.PurchasedAt != nil {
			t := *d.PurchasedAt
			d.YearMonth = t.Format("2006-01")
			d.Quarter = fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
			d.Year = t.Year()
		}

		res.Delivered = append(res.Delivered, d)
	}

	logger.Info("Filtered to delivered orders",
		zap.Int("delivered", len(res.Delivered)),
		zap.Int("total", res.TotalOrders),
	)
	for col, n := range res.Coercions {
		logger.Warn("Unparsable timestamps coerced to missing",
			zap.String("column", col),
			zap.Int("count", n),
		)
	}

	return res
}

// parseTime parses one timestamp value. Empty values are missing, not
// coercions; only non-empty values that fail to parse are counted.
func (r *CleanResult) parseTime(value, column string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(timestampLayout, value)
	if err != nil {
		r.Coercions[column]++
		return nil
	}
	return &t
}
