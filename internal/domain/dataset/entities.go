package dataset

import "github.com/shopspring/decimal"

// Order is a raw row from the orders extract. Timestamp columns are kept as
// the source strings; parsing happens in the cleaning stage so that a bad
// value can be coerced and counted instead of failing the load.
type Order struct {
	OrderID               string
	CustomerID            string
	Status                string
	PurchaseTimestamp     string
	ApprovedAt            string
	DeliveredCarrierDate  string
	DeliveredCustomerDate string
	EstimatedDeliveryDate string
}

// OrderItem is a raw row from the order items extract. One order may carry
// multiple items, keyed by (OrderID, ItemSeq).
type OrderItem struct {
	OrderID      string
	ItemSeq      int
	ProductID    string
	SellerID     string
	Price        decimal.Decimal
	FreightValue decimal.Decimal
}

// Payment is a raw row from the payments extract. Orders paid with multiple
// methods or installment plans have one row per (OrderID, Sequential).
type Payment struct {
	OrderID      string
	Sequential   int
	Type         string
	Installments int
	Value        decimal.Decimal
}

// Review is a raw row from the reviews extract.
type Review struct {
	ReviewID string
	OrderID  string
	Score    int
}

// Customer holds the location attributes for one customer.
type Customer struct {
	CustomerID string
	City       string
	State      string
}

// Product carries the local-language category name for one product.
type Product struct {
	ProductID    string
	CategoryName string
}

// Seller holds the location attributes for one seller.
type Seller struct {
	SellerID string
	City     string
	State    string
}

// Dataset bundles the eight source tables as loaded from disk.
// Translations maps a local category name to its English counterpart.
type Dataset struct {
	Orders       []Order
	Items        []OrderItem
	Payments     []Payment
	Reviews      []Review
	Customers    []Customer
	Products     []Product
	Sellers      []Seller
	Translations map[string]string
}
