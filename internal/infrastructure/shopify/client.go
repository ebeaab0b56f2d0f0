package shopify

import (
	"context"
	"fmt"

	"stocksync-core-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

const pageSize = 50

type client struct {
	app    goshopify.App
	logger zerolog.Logger
}

// NewClient creates a Shopify Admin API client adapter. API key and
// secret are only needed for OAuth flows; product and order reads run
// on the per-shop access token supplied per call.
func NewClient(logger zerolog.Logger) ports.ShopifyClient {
	return &client{
		app:    goshopify.App{},
		logger: logger,
	}
}

// createClient is a helper to create a goshopify client for one shop
func (c *client) createClient(shopDomain string, accessToken string) (*goshopify.Client, error) {
	cl, err := goshopify.NewClient(c.app, shopDomain, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return cl, nil
}

// listOptions builds pagination options. When resuming on a page_info
// cursor Shopify rejects every other filter, so the cursor travels alone.
func listOptions(pageInfo string) goshopify.ListOptions {
	if pageInfo != "" {
		return goshopify.ListOptions{PageInfo: pageInfo, Limit: pageSize}
	}
	return goshopify.ListOptions{Limit: pageSize}
}

func nextPageInfo(pagination *goshopify.Pagination) string {
	if pagination == nil || pagination.NextPageOptions == nil {
		return ""
	}
	return pagination.NextPageOptions.PageInfo
}

// FetchProducts retrieves one page of the product catalog.
func (c *client) FetchProducts(ctx context.Context, shopDomain, accessToken, pageInfo string) (*ports.ShopifyProductPage, error) {
	cl, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}

	products, pagination, err := cl.Product.ListWithPagination(ctx, listOptions(pageInfo))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	c.logger.Debug().
		Str("shop", shopDomain).
		Int("count", len(products)).
		Msg("Fetched product page")

	return &ports.ShopifyProductPage{
		Products:     products,
		NextPageInfo: nextPageInfo(pagination),
	}, nil
}

// FetchOrders retrieves one page of orders, any status.
func (c *client) FetchOrders(ctx context.Context, shopDomain, accessToken, pageInfo string) (*ports.ShopifyOrderPage, error) {
	cl, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}

	var (
		orders     []goshopify.Order
		pagination *goshopify.Pagination
	)
	if pageInfo != "" {
		orders, pagination, err = cl.Order.ListWithPagination(ctx, listOptions(pageInfo))
	} else {
		orders, pagination, err = cl.Order.ListWithPagination(ctx, goshopify.OrderListOptions{
			ListOptions: listOptions(""),
			Status:      "any",
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	c.logger.Debug().
		Str("shop", shopDomain).
		Int("count", len(orders)).
		Msg("Fetched order page")

	return &ports.ShopifyOrderPage{
		Orders:       orders,
		NextPageInfo: nextPageInfo(pagination),
	}, nil
}
