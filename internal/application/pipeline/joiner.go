package pipeline

import (
	"github.com/findash/backend/internal/domain/dataset"
)

// EnrichItems joins each order item with its product's English category.
// Both joins are left joins: an item whose product is unknown, whose
// product has no category, or whose category has no translation gets the
// literal "other". The replacement happens here, before anything groups on
// category.
func EnrichItems(items []dataset.OrderItem, products []dataset.Product, translations map[string]string) []dataset.EnrichedItem {
	categories := make(map[string]string, len(products))
	for _, p := range products {
		categories[p.ProductID] = p.CategoryName
	}

	enriched := make([]dataset.EnrichedItem, 0, len(items))
	for _, it := range items {
		category := dataset.CategoryOther
		if local := categories[it.ProductID]; local != "" {
			if english := translations[local]; english != "" {
				category = english
			}
		}
		enriched = append(enriched, dataset.EnrichedItem{
			OrderID:      it.OrderID,
			ItemSeq:      it.ItemSeq,
			ProductID:    it.ProductID,
			SellerID:     it.SellerID,
			Price:        it.Price,
			FreightValue: it.FreightValue,
			Category:     category,
		})
	}
	return enriched
}

// AggregatePayments collapses payment rows per order: the value is summed
// across all rows, the type is taken from the row with the lowest payment
// sequence number so multi-method orders resolve deterministically, and
// Installments keeps the maximum seen.
func AggregatePayments(payments []dataset.Payment) map[string]*dataset.AggregatedPayment {
	type state struct {
		agg    *dataset.AggregatedPayment
		minSeq int
	}
	byOrder := make(map[string]*state)

	for _, p := range payments {
		s, ok := byOrder[p.OrderID]
		if !ok {
			s = &state{
				agg: &dataset.AggregatedPayment{
					OrderID:      p.OrderID,
					Value:        p.Value,
					Type:         p.Type,
					Installments: p.Installments,
				},
				minSeq: p.Sequential,
			}
			byOrder[p.OrderID] = s
			continue
		}

		s.agg.Value = s.agg.Value.Add(p.Value)
		if p.Sequential < s.minSeq {
			s.minSeq = p.Sequential
			s.agg.Type = p.Type
		}
		if p.Installments > s.agg.Installments {
			s.agg.Installments = p.Installments
		}
	}

	result := make(map[string]*dataset.AggregatedPayment, len(byOrder))
	for id, s := range byOrder {
		result[id] = s.agg
	}
	return result
}

// BuildMaster assembles the master financial table: delivered orders inner
// joined with their enriched items, left joined with aggregated payments
// and customer/seller locations, restricted to purchase months within
// [windowStart, windowEnd]. Orders without items and rows outside the
// window are excluded, never zero-filled; missing payment or location data
// leaves the corresponding fields empty.
func BuildMaster(
	delivered []dataset.DeliveredOrder,
	items []dataset.EnrichedItem,
	payments map[string]*dataset.AggregatedPayment,
	customers []dataset.Customer,
	sellers []dataset.Seller,
	windowStart, windowEnd string,
) []dataset.MasterRow {
	itemsByOrder := make(map[string][]dataset.EnrichedItem)
	for _, it := range items {
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], it)
	}
	customersByID := make(map[string]dataset.Customer, len(customers))
	for _, c := range customers {
		customersByID[c.CustomerID] = c
	}
	sellersByID := make(map[string]dataset.Seller, len(sellers))
	for _, s := range sellers {
		sellersByID[s.SellerID] = s
	}

	var master []dataset.MasterRow
	for _, d := range delivered {
		// lexicographic comparison is valid for zero-padded "YYYY-MM";
		// an empty bucket (unparsable purchase timestamp) fails it
		if d.YearMonth < windowStart || d.YearMonth > windowEnd {
			continue
		}

		customer := customersByID[d.CustomerID]

		for _, it := range itemsByOrder[d.OrderID] {
			seller := sellersByID[it.SellerID]
			master = append(master, dataset.MasterRow{
				OrderID:             d.OrderID,
				CustomerID:          d.CustomerID,
				PurchasedAt:         d.PurchasedAt,
				CustomerDeliveredAt: d.CustomerDeliveredAt,
				EstimatedDelivery:   d.EstimatedDelivery,
				YearMonth:           d.YearMonth,
				Quarter:             d.Quarter,
				Year:                d.Year,
				ProductID:           it.ProductID,
				SellerID:            it.SellerID,
				Price:               it.Price,
				FreightValue:        it.FreightValue,
				Category:            it.Category,
				Payment:             payments[d.OrderID],
				CustomerState:       customer.State,
				CustomerCity:        customer.City,
				SellerState:         seller.State,
				SellerCity:          seller.City,
			})
		}
	}
	return master
}
