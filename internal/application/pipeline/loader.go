package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/findash/backend/internal/domain/dataset"
	csvimport "github.com/findash/backend/internal/infrastructure/import"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Source file names, as shipped in the Olist Kaggle extract.
const (
	ordersFile       = "olist_orders_dataset.csv"
	itemsFile        = "olist_order_items_dataset.csv"
	paymentsFile     = "olist_order_payments_dataset.csv"
	reviewsFile      = "olist_order_reviews_dataset.csv"
	customersFile    = "olist_customers_dataset.csv"
	productsFile     = "olist_products_dataset.csv"
	sellersFile      = "olist_sellers_dataset.csv"
	translationsFile = "product_category_name_translation.csv"
)

// SourceFiles returns the paths of the eight expected extracts under dir.
func SourceFiles(dir string) []string {
	names := []string{
		ordersFile, itemsFile, paymentsFile, reviewsFile,
		customersFile, productsFile, sellersFile, translationsFile,
	}
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths
}

// Loader reads the eight CSV extracts into an in-memory Dataset. A missing
// or unreadable file is fatal; malformed numeric fields are coerced to zero
// and counted, never raised.
type Loader struct {
	dir       string
	logger    *zap.Logger
	coercions int
}

// NewLoader creates a Loader for the given data directory
func NewLoader(dir string, logger *zap.Logger) *Loader {
	return &Loader{dir: dir, logger: logger}
}

// Load reads all eight tables. It returns a DataSourceError naming the
// offending file when any expected file is absent or unreadable.
func (l *Loader) Load() (*dataset.Dataset, error) {
	l.coercions = 0

	ds := &dataset.Dataset{Translations: make(map[string]string)}

	loaders := []struct {
		file     string
		required []string
		consume  func(*csvimport.Row)
	}{
		{
			file:     ordersFile,
			required: []string{"order_id", "customer_id", "order_status", "order_purchase_timestamp"},
			consume: func(row *csvimport.Row) {
				ds.Orders = append(ds.Orders, dataset.Order{
					OrderID:               row.Get("order_id"),
					CustomerID:            row.Get("customer_id"),
					Status:                row.Get("order_status"),
					PurchaseTimestamp:     row.Get("order_purchase_timestamp"),
					ApprovedAt:            row.Get("order_approved_at"),
					DeliveredCarrierDate:  row.Get("order_delivered_carrier_date"),
					DeliveredCustomerDate: row.Get("order_delivered_customer_date"),
					EstimatedDeliveryDate: row.Get("order_estimated_delivery_date"),
				})
			},
		},
		{
			file:     itemsFile,
			required: []string{"order_id", "order_item_id", "product_id", "seller_id", "price", "freight_value"},
			consume: func(row *csvimport.Row) {
				ds.Items = append(ds.Items, dataset.OrderItem{
					OrderID:      row.Get("order_id"),
					ItemSeq:      l.parseInt(row.Get("order_item_id")),
					ProductID:    row.Get("product_id"),
					SellerID:     row.Get("seller_id"),
					Price:        l.parseDecimal(row.Get("price")),
					FreightValue: l.parseDecimal(row.Get("freight_value")),
				})
			},
		},
		{
			file:     paymentsFile,
			required: []string{"order_id", "payment_sequential", "payment_type", "payment_installments", "payment_value"},
			consume: func(row *csvimport.Row) {
				ds.Payments = append(ds.Payments, dataset.Payment{
					OrderID:      row.Get("order_id"),
					Sequential:   l.parseInt(row.Get("payment_sequential")),
					Type:         row.Get("payment_type"),
					Installments: l.parseInt(row.Get("payment_installments")),
					Value:        l.parseDecimal(row.Get("payment_value")),
				})
			},
		},
		{
			file:     reviewsFile,
			required: []string{"order_id", "review_score"},
			consume: func(row *csvimport.Row) {
				ds.Reviews = append(ds.Reviews, dataset.Review{
					ReviewID: row.Get("review_id"),
					OrderID:  row.Get("order_id"),
					Score:    l.parseInt(row.Get("review_score")),
				})
			},
		},
		{
			file:     customersFile,
			required: []string{"customer_id", "customer_city", "customer_state"},
			consume: func(row *csvimport.Row) {
				ds.Customers = append(ds.Customers, dataset.Customer{
					CustomerID: row.Get("customer_id"),
					City:       row.Get("customer_city"),
					State:      row.Get("customer_state"),
				})
			},
		},
		{
			file:     productsFile,
			required: []string{"product_id"},
			consume: func(row *csvimport.Row) {
				ds.Products = append(ds.Products, dataset.Product{
					ProductID:    row.Get("product_id"),
					CategoryName: row.Get("product_category_name"),
				})
			},
		},
		{
			file:     sellersFile,
			required: []string{"seller_id", "seller_city", "seller_state"},
			consume: func(row *csvimport.Row) {
				ds.Sellers = append(ds.Sellers, dataset.Seller{
					SellerID: row.Get("seller_id"),
					City:     row.Get("seller_city"),
					State:    row.Get("seller_state"),
				})
			},
		},
		{
			file:     translationsFile,
			required: []string{"product_category_name", "product_category_name_english"},
			consume: func(row *csvimport.Row) {
				ds.Translations[row.Get("product_category_name")] = row.Get("product_category_name_english")
			},
		},
	}

	for _, ld := range loaders {
		rows, err := l.readTable(ld.file, ld.required)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			ld.consume(row)
		}
	}

	l.logger.Info("Datasets loaded",
		zap.Int("orders", len(ds.Orders)),
		zap.Int("items", len(ds.Items)),
		zap.Int("payments", len(ds.Payments)),
		zap.Int("reviews", len(ds.Reviews)),
		zap.Int("customers", len(ds.Customers)),
		zap.Int("products", len(ds.Products)),
		zap.Int("sellers", len(ds.Sellers)),
		zap.Int("translations", len(ds.Translations)),
	)
	if l.coercions > 0 {
		l.logger.Warn("Numeric fields coerced to zero during load", zap.Int("count", l.coercions))
	}

	return ds, nil
}

// readTable opens one extract and reads all of its rows
func (l *Loader) readTable(name string, required []string) ([]*csvimport.Row, error) {
	path := filepath.Join(l.dir, name)

	f, err := os.Open(path)
	if err != nil {
		return nil, dataset.NewDataSourceError(path, err)
	}
	defer f.Close()

	parser, err := csvimport.NewCSVParser(f)
	if err != nil {
		return nil, dataset.NewDataSourceError(path, err)
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, dataset.NewDataSourceError(path, err)
	}
	if missing := parser.MissingHeaders(required); len(missing) > 0 {
		return nil, dataset.NewDataSourceError(path, fmt.Errorf("missing columns %v", missing))
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, dataset.NewDataSourceError(path, err)
	}
	return rows, nil
}

// parseDecimal coerces a monetary field; empty or malformed values become
// zero and are counted rather than surfaced.
func (l *Loader) parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		l.coercions++
		return decimal.Zero
	}
	return d
}

// parseInt coerces an integer field the same way
func (l *Loader) parseInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		l.coercions++
		return 0
	}
	return n
}
