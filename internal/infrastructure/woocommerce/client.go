package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stocksync-core-layer/internal/ports"

	"github.com/rs/zerolog"
)

const (
	apiVersion = "wc/v3"
	pageSize   = 50
)

type client struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a WooCommerce REST API client adapter. There is no
// maintained Go SDK for WooCommerce, so this talks to /wp-json/wc/v3
// directly with basic auth on the consumer key pair.
func NewClient(logger zerolog.Logger) ports.WooCommerceClient {
	return &client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func baseURL(store ports.WooStore) string {
	u := strings.TrimRight(store.StoreURL, "/")
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return fmt.Sprintf("%s/wp-json/%s", u, apiVersion)
}

// doGet performs one authenticated GET and decodes the JSON body into
// out. It returns the X-WP-TotalPages header value (0 when absent).
func (c *client) doGet(ctx context.Context, store ports.WooStore, path string, query url.Values, out interface{}) (int, error) {
	u := baseURL(store) + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(store.ConsumerKey, store.ConsumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("woocommerce request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, fmt.Errorf("woocommerce returned status %d for %s: %s", resp.StatusCode, path, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return 0, fmt.Errorf("failed to decode woocommerce response: %w", err)
	}

	totalPages, _ := strconv.Atoi(resp.Header.Get("X-WP-TotalPages"))
	return totalPages, nil
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(pageSize))
	return q
}

// FetchProducts retrieves one page of products.
func (c *client) FetchProducts(ctx context.Context, store ports.WooStore, page int) ([]ports.WooProduct, bool, error) {
	var products []ports.WooProduct
	totalPages, err := c.doGet(ctx, store, "/products", pageQuery(page), &products)
	if err != nil {
		return nil, false, err
	}

	c.logger.Debug().
		Str("store", store.StoreURL).
		Int("page", page).
		Int("count", len(products)).
		Msg("Fetched product page")

	return products, page < totalPages, nil
}

// FetchVariations retrieves all variations of a variable product. The
// variation count per product is small enough that one page suffices.
func (c *client) FetchVariations(ctx context.Context, store ports.WooStore, productID int64) ([]ports.WooVariation, error) {
	var variations []ports.WooVariation
	path := fmt.Sprintf("/products/%d/variations", productID)
	if _, err := c.doGet(ctx, store, path, pageQuery(1), &variations); err != nil {
		return nil, err
	}
	return variations, nil
}

// FetchOrders retrieves one page of orders.
func (c *client) FetchOrders(ctx context.Context, store ports.WooStore, page int) ([]ports.WooOrder, bool, error) {
	var orders []ports.WooOrder
	totalPages, err := c.doGet(ctx, store, "/orders", pageQuery(page), &orders)
	if err != nil {
		return nil, false, err
	}

	c.logger.Debug().
		Str("store", store.StoreURL).
		Int("page", page).
		Int("count", len(orders)).
		Msg("Fetched order page")

	return orders, page < totalPages, nil
}
