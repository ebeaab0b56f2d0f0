package ports

import (
	"context"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// ShopifyProductPage is one page of the product catalog plus the
// continuation cursor for the next page ("" when this is the last one).
type ShopifyProductPage struct {
	Products     []goshopify.Product
	NextPageInfo string
}

// ShopifyOrderPage is one page of orders plus the continuation cursor.
type ShopifyOrderPage struct {
	Orders       []goshopify.Order
	NextPageInfo string
}

// ShopifyClient defines the interface for the Shopify Admin API
// operations the sync needs. pageInfo is the cursor from the previous
// page's Link header; "" fetches the first page.
type ShopifyClient interface {
	FetchProducts(ctx context.Context, shopDomain, accessToken, pageInfo string) (*ShopifyProductPage, error)
	FetchOrders(ctx context.Context, shopDomain, accessToken, pageInfo string) (*ShopifyOrderPage, error)
}
