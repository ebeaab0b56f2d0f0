package ports

import "context"

// WooCategory is a product category reference in the WooCommerce API.
type WooCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// WooProduct is a product as returned by GET /wp-json/wc/v3/products.
// Variable products carry the ids of their variations, fetched
// separately.
type WooProduct struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Type          string        `json:"type"`
	SKU           string        `json:"sku"`
	Price         string        `json:"price"`
	StockQuantity *int          `json:"stock_quantity"`
	Categories    []WooCategory `json:"categories"`
	Variations    []int64       `json:"variations"`
}

// WooVariation is one variation of a variable product.
type WooVariation struct {
	ID            int64  `json:"id"`
	SKU           string `json:"sku"`
	Price         string `json:"price"`
	StockQuantity *int   `json:"stock_quantity"`
	Attributes    []struct {
		Name   string `json:"name"`
		Option string `json:"option"`
	} `json:"attributes"`
}

// WooBilling is the billing block of an order.
type WooBilling struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// WooLineItem is one order line.
type WooLineItem struct {
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	Total       string `json:"total"`
	VariationID int64  `json:"variation_id"`
	ProductID   int64  `json:"product_id"`
}

// WooOrder is an order as returned by GET /wp-json/wc/v3/orders.
type WooOrder struct {
	ID          int64         `json:"id"`
	Number      string        `json:"number"`
	Status      string        `json:"status"`
	Total       string        `json:"total"`
	Currency    string        `json:"currency"`
	DateCreated string        `json:"date_created"`
	Billing     WooBilling    `json:"billing"`
	LineItems   []WooLineItem `json:"line_items"`
}

// WooStore carries the per-call connection parameters. WooCommerce has
// no OAuth token; every request is basic-auth with the consumer key
// pair against the store's own host.
type WooStore struct {
	StoreURL       string
	ConsumerKey    string
	ConsumerSecret string
}

// WooCommerceClient defines the interface for the WooCommerce REST API
// operations the sync needs. Pagination is page-number based; hasMore
// is derived from the X-WP-TotalPages response header.
type WooCommerceClient interface {
	FetchProducts(ctx context.Context, store WooStore, page int) (products []WooProduct, hasMore bool, err error)
	FetchVariations(ctx context.Context, store WooStore, productID int64) ([]WooVariation, error)
	FetchOrders(ctx context.Context, store WooStore, page int) (orders []WooOrder, hasMore bool, err error)
}
