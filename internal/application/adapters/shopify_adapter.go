package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// shopifyDefaultVariantTitle is the title Shopify assigns to the
// implicit variant of a single-variant product; it never reaches the
// displayed item name.
const shopifyDefaultVariantTitle = "Default Title"

// ShopifyAdapter syncs a Shopify store into the internal schema.
// Pagination is cursor-based: the page_info continuation token from the
// Link header is the checkpoint cursor.
type ShopifyAdapter struct {
	client    ports.ShopifyClient
	deps      Deps
	pageDelay time.Duration
	maxPages  int
	sleep     sleepFunc
}

// NewShopifyAdapter creates the Shopify platform adapter.
func NewShopifyAdapter(client ports.ShopifyClient, deps Deps) *ShopifyAdapter {
	return NewShopifyAdapterWithOptions(client, deps, defaultPageDelay, defaultMaxPages)
}

// NewShopifyAdapterWithOptions creates the adapter with explicit paging
// parameters.
func NewShopifyAdapterWithOptions(client ports.ShopifyClient, deps Deps, pageDelay time.Duration, maxPages int) *ShopifyAdapter {
	return &ShopifyAdapter{
		client:    client,
		deps:      deps,
		pageDelay: pageDelay,
		maxPages:  maxPages,
		sleep:     sleepCtx,
	}
}

// Platform identifies this adapter in the dispatcher registry.
func (a *ShopifyAdapter) Platform() domain.Platform {
	return domain.PlatformShopify
}

// credentials fetches and parses the stored access token. Called at the
// start of every phase; the plaintext is never retained.
func (a *ShopifyAdapter) credentials(ctx context.Context, integration *domain.Integration) (*domain.ShopifyCredentials, error) {
	plaintext, err := a.deps.Secrets.GetSecret(ctx, integration.CompanyID, domain.PlatformShopify)
	if err != nil {
		return nil, err
	}
	if plaintext == "" {
		return nil, fmt.Errorf("%w for integration %s", domain.ErrNoCredentials, integration.ID)
	}

	var creds domain.ShopifyCredentials
	if err := json.Unmarshal([]byte(plaintext), &creds); err != nil {
		return nil, fmt.Errorf("%w: malformed credential blob: %v", domain.ErrNoCredentials, err)
	}
	if creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", domain.ErrNoCredentials)
	}
	return &creds, nil
}

// SyncProducts pages through the product catalog, upserting each page
// and checkpointing the continuation cursor. A failure leaves the
// checkpoint in place so the next attempt resumes, not restarts.
func (a *ShopifyAdapter) SyncProducts(ctx context.Context, integration *domain.Integration) (int, error) {
	creds, err := a.credentials(ctx, integration)
	if err != nil {
		return 0, err
	}

	cursor, err := loadCursor(ctx, a.deps.SyncState, integration.ID, domain.SyncTypeProducts)
	if err != nil {
		return 0, err
	}
	if cursor != "" {
		a.deps.Logger.Info().
			Str("integrationId", integration.ID).
			Msg("Resuming product sync from checkpoint")
	}

	total := 0
	for page := 0; ; page++ {
		if page >= a.maxPages {
			return total, fmt.Errorf("product sync exceeded %d pages, aborting", a.maxPages)
		}
		if page > 0 {
			if err := a.sleep(ctx, a.pageDelay); err != nil {
				return total, err
			}
		}

		resp, err := a.client.FetchProducts(ctx, integration.ShopDomain, creds.AccessToken, cursor)
		if err != nil {
			return total, fmt.Errorf("failed to fetch product page: %w", err)
		}

		items := a.transformProducts(integration.CompanyID, resp.Products)
		n, err := a.deps.Inventory.UpsertBatch(ctx, items)
		if err != nil {
			return total, fmt.Errorf("failed to upsert product page: %w", err)
		}
		total += n

		if resp.NextPageInfo == "" {
			break
		}
		cursor = resp.NextPageInfo
		if err := saveCursor(ctx, a.deps.SyncState, integration.ID, domain.SyncTypeProducts, cursor); err != nil {
			return total, err
		}
	}

	if err := a.deps.SyncState.Clear(ctx, integration.ID, domain.SyncTypeProducts); err != nil {
		return total, fmt.Errorf("failed to clear products checkpoint: %w", err)
	}
	return total, nil
}

// transformProducts flattens product x variant into inventory rows.
func (a *ShopifyAdapter) transformProducts(companyID string, products []goshopify.Product) []*domain.InventoryItem {
	var items []*domain.InventoryItem
	for _, p := range products {
		for _, v := range p.Variants {
			sku := v.Sku
			if sku == "" {
				sku = fmt.Sprintf("SHOPIFY-%d", v.Id)
			}
			name := p.Title
			if v.Title != "" && v.Title != shopifyDefaultVariantTitle {
				name = p.Title + " - " + v.Title
			}
			price := centsFromDecimal(v.Price)

			items = append(items, &domain.InventoryItem{
				CompanyID:         companyID,
				SourcePlatform:    domain.PlatformShopify,
				SKU:               sku,
				Name:              name,
				Quantity:          v.InventoryQuantity,
				CostCents:         price,
				PriceCents:        price,
				Category:          p.ProductType,
				ExternalProductID: strconv.FormatUint(p.Id, 10),
				ExternalVariantID: strconv.FormatUint(v.Id, 10),
			})
		}
	}
	return items
}

// SyncOrders pages through orders with the same delay and checkpoint
// discipline. Individual order failures are logged and skipped; if any
// order failed the phase is reported failed overall so the problem is
// visible without discarding the records that did land.
func (a *ShopifyAdapter) SyncOrders(ctx context.Context, integration *domain.Integration) (int, error) {
	creds, err := a.credentials(ctx, integration)
	if err != nil {
		return 0, err
	}

	cursor, err := loadCursor(ctx, a.deps.SyncState, integration.ID, domain.SyncTypeSales)
	if err != nil {
		return 0, err
	}

	synced, failed := 0, 0
	for page := 0; ; page++ {
		if page >= a.maxPages {
			return synced, fmt.Errorf("order sync exceeded %d pages, aborting", a.maxPages)
		}
		if page > 0 {
			if err := a.sleep(ctx, a.pageDelay); err != nil {
				return synced, err
			}
		}

		resp, err := a.client.FetchOrders(ctx, integration.ShopDomain, creds.AccessToken, cursor)
		if err != nil {
			return synced, fmt.Errorf("failed to fetch order page: %w", err)
		}

		for i := range resp.Orders {
			order := a.transformOrder(integration.CompanyID, &resp.Orders[i])
			if err := a.deps.Orders.RecordOrder(ctx, order); err != nil {
				failed++
				a.deps.Logger.Error().
					Err(err).
					Str("integrationId", integration.ID).
					Str("externalOrderId", order.ExternalOrderID).
					Msg("Failed to record order")
				continue
			}
			synced++
		}

		if resp.NextPageInfo == "" {
			break
		}
		cursor = resp.NextPageInfo
		if err := saveCursor(ctx, a.deps.SyncState, integration.ID, domain.SyncTypeSales, cursor); err != nil {
			return synced, err
		}
	}

	if failed > 0 {
		return synced, &domain.PartialSyncError{SyncType: domain.SyncTypeSales, Synced: synced, Failed: failed}
	}
	if err := a.deps.SyncState.Clear(ctx, integration.ID, domain.SyncTypeSales); err != nil {
		return synced, fmt.Errorf("failed to clear sales checkpoint: %w", err)
	}
	return synced, nil
}

func (a *ShopifyAdapter) transformOrder(companyID string, o *goshopify.Order) *domain.Order {
	lines := make([]domain.OrderLineItem, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		lines = append(lines, domain.OrderLineItem{
			SKU:               li.SKU,
			Name:              li.Title,
			Quantity:          li.Quantity,
			PriceCents:        centsFromDecimal(li.Price),
			ExternalVariantID: strconv.FormatUint(li.VariantId, 10),
		})
	}

	customerName := ""
	if o.Customer != nil {
		customerName = strings.TrimSpace(o.Customer.FirstName + " " + o.Customer.LastName)
	}

	placedAt := time.Time{}
	if o.CreatedAt != nil {
		placedAt = *o.CreatedAt
	}

	return &domain.Order{
		CompanyID:       companyID,
		SourcePlatform:  domain.PlatformShopify,
		ExternalOrderID: strconv.FormatUint(o.Id, 10),
		OrderNumber:     o.Name,
		CustomerName:    customerName,
		CustomerEmail:   o.Email,
		TotalCents:      centsFromDecimal(o.TotalPrice),
		Currency:        o.Currency,
		PlacedAt:        placedAt,
		LineItems:       lines,
	}
}
