package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/findash/backend/internal/domain/dataset"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// The synthetic scenario shared across tests: three orders (two delivered
// inside the analysis window, one pending), four items, five payment rows
// with one multi-payment order split across two types, three reviews.

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixtureOrders() []dataset.Order {
	return []dataset.Order{
		{
			OrderID:               "o1",
			CustomerID:            "c1",
			Status:                "delivered",
			PurchaseTimestamp:     "2017-03-15 10:00:00",
			ApprovedAt:            "2017-03-15 11:00:00",
			DeliveredCarrierDate:  "2017-03-17 08:00:00",
			DeliveredCustomerDate: "2017-03-20 12:00:00",
			EstimatedDeliveryDate: "2017-03-25 00:00:00",
		},
		{
			OrderID:               "o2",
			CustomerID:            "c2",
			Status:                "delivered",
			PurchaseTimestamp:     "2018-01-10 09:00:00",
			ApprovedAt:            "2018-01-10 10:00:00",
			DeliveredCarrierDate:  "2018-01-12 08:00:00",
			DeliveredCustomerDate: "2018-01-20 08:00:00",
			EstimatedDeliveryDate: "2018-01-15 00:00:00",
		},
		{
			OrderID:           "o3",
			CustomerID:        "c3",
			Status:            "pending",
			PurchaseTimestamp: "2018-02-01 12:00:00",
		},
	}
}

func fixtureDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Orders: fixtureOrders(),
		Items: []dataset.OrderItem{
			{OrderID: "o1", ItemSeq: 1, ProductID: "p1", SellerID: "s1", Price: dec("50.00"), FreightValue: dec("5.00")},
			{OrderID: "o1", ItemSeq: 2, ProductID: "p2", SellerID: "s2", Price: dec("30.00"), FreightValue: dec("3.00")},
			{OrderID: "o2", ItemSeq: 1, ProductID: "p1", SellerID: "s1", Price: dec("100.00"), FreightValue: dec("10.00")},
			{OrderID: "o3", ItemSeq: 1, ProductID: "p2", SellerID: "s2", Price: dec("20.00"), FreightValue: dec("2.00")},
		},
		Payments: []dataset.Payment{
			{OrderID: "o1", Sequential: 1, Type: "credit_card", Installments: 2, Value: dec("60.00")},
			{OrderID: "o1", Sequential: 2, Type: "voucher", Installments: 1, Value: dec("20.00")},
			{OrderID: "o1", Sequential: 3, Type: "voucher", Installments: 1, Value: dec("5.00")},
			{OrderID: "o2", Sequential: 1, Type: "credit_card", Installments: 3, Value: dec("110.00")},
			{OrderID: "o3", Sequential: 1, Type: "boleto", Installments: 1, Value: dec("40.00")},
		},
		Reviews: []dataset.Review{
			{ReviewID: "r1", OrderID: "o1", Score: 5},
			{ReviewID: "r2", OrderID: "o2", Score: 3},
			{ReviewID: "r3", OrderID: "o3", Score: 4},
		},
		Customers: []dataset.Customer{
			{CustomerID: "c1", City: "sao paulo", State: "SP"},
			{CustomerID: "c2", City: "rio de janeiro", State: "RJ"},
			{CustomerID: "c3", City: "curitiba", State: "PR"},
		},
		Products: []dataset.Product{
			{ProductID: "p1", CategoryName: "eletronicos"},
			{ProductID: "p2", CategoryName: ""},
		},
		Sellers: []dataset.Seller{
			{SellerID: "s1", City: "campinas", State: "SP"},
			{SellerID: "s2", City: "osasco", State: "SP"},
		},
		Translations: map[string]string{
			"eletronicos": "electronics",
		},
	}
}

// writeFixtureCSVs materializes the fixture as the eight CSV extracts
func writeFixtureCSVs(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		ordersFile: "order_id,customer_id,order_status,order_purchase_timestamp,order_approved_at,order_delivered_carrier_date,order_delivered_customer_date,order_estimated_delivery_date\n" +
			"o1,c1,delivered,2017-03-15 10:00:00,2017-03-15 11:00:00,2017-03-17 08:00:00,2017-03-20 12:00:00,2017-03-25 00:00:00\n" +
			"o2,c2,delivered,2018-01-10 09:00:00,2018-01-10 10:00:00,2018-01-12 08:00:00,2018-01-20 08:00:00,2018-01-15 00:00:00\n" +
			"o3,c3,pending,2018-02-01 12:00:00,,,,\n",
		itemsFile: "order_id,order_item_id,product_id,seller_id,shipping_limit_date,price,freight_value\n" +
			"o1,1,p1,s1,2017-03-18 00:00:00,50.00,5.00\n" +
			"o1,2,p2,s2,2017-03-18 00:00:00,30.00,3.00\n" +
			"o2,1,p1,s1,2018-01-12 00:00:00,100.00,10.00\n" +
			"o3,1,p2,s2,2018-02-03 00:00:00,20.00,2.00\n",
		paymentsFile: "order_id,payment_sequential,payment_type,payment_installments,payment_value\n" +
			"o1,1,credit_card,2,60.00\n" +
			"o1,2,voucher,1,20.00\n" +
			"o1,3,voucher,1,5.00\n" +
			"o2,1,credit_card,3,110.00\n" +
			"o3,1,boleto,1,40.00\n",
		reviewsFile: "review_id,order_id,review_score\n" +
			"r1,o1,5\n" +
			"r2,o2,3\n" +
			"r3,o3,4\n",
		customersFile: "customer_id,customer_unique_id,customer_zip_code_prefix,customer_city,customer_state\n" +
			"c1,u1,01000,sao paulo,SP\n" +
			"c2,u2,20000,rio de janeiro,RJ\n" +
			"c3,u3,80000,curitiba,PR\n",
		productsFile: "product_id,product_category_name\n" +
			"p1,eletronicos\n" +
			"p2,\n",
		sellersFile: "seller_id,seller_zip_code_prefix,seller_city,seller_state\n" +
			"s1,13000,campinas,SP\n" +
			"s2,06000,osasco,SP\n",
		translationsFile: "product_category_name,product_category_name_english\n" +
			"eletronicos,electronics\n",
	}

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}
