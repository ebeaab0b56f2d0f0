package ports

import "context"

// AmazonListing is one FBA listing as surfaced by the data source.
type AmazonListing struct {
	ASIN       string
	SellerSKU  string
	Title      string
	Quantity   int
	PriceCents int64
	Category   string
}

// AmazonOrderItem is one line of an FBA order.
type AmazonOrderItem struct {
	SellerSKU  string
	Title      string
	Quantity   int
	PriceCents int64
	ASIN       string
}

// AmazonOrder is one FBA order as surfaced by the data source.
type AmazonOrder struct {
	AmazonOrderID string
	BuyerName     string
	BuyerEmail    string
	TotalCents    int64
	Currency      string
	PurchaseDate  string
	Items         []AmazonOrderItem
}

// AmazonDataSource abstracts where FBA data comes from. The shipped
// implementation is a deterministic simulator; a real SP-API client can
// replace it without touching the adapter's upsert logic.
type AmazonDataSource interface {
	FetchListings(ctx context.Context, sellerID string, page int) (listings []AmazonListing, hasMore bool, err error)
	FetchOrders(ctx context.Context, sellerID string, page int) (orders []AmazonOrder, hasMore bool, err error)
}
