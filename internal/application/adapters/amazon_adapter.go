package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/ports"
)

// AmazonAdapter syncs FBA data into the internal schema. The data
// source behind it is pluggable: today a deterministic simulator, later
// a real SP-API client, with the upsert and record-order paths shared
// either way. Pagination is page-number based like WooCommerce.
type AmazonAdapter struct {
	source    ports.AmazonDataSource
	deps      Deps
	pageDelay time.Duration
	maxPages  int
	sleep     sleepFunc
}

// NewAmazonAdapter creates the Amazon FBA platform adapter.
func NewAmazonAdapter(source ports.AmazonDataSource, deps Deps) *AmazonAdapter {
	return NewAmazonAdapterWithOptions(source, deps, defaultPageDelay, defaultMaxPages)
}

// NewAmazonAdapterWithOptions creates the adapter with explicit paging
// parameters.
func NewAmazonAdapterWithOptions(source ports.AmazonDataSource, deps Deps, pageDelay time.Duration, maxPages int) *AmazonAdapter {
	return &AmazonAdapter{
		source:    source,
		deps:      deps,
		pageDelay: pageDelay,
		maxPages:  maxPages,
		sleep:     sleepCtx,
	}
}

// Platform identifies this adapter in the dispatcher registry.
func (a *AmazonAdapter) Platform() domain.Platform {
	return domain.PlatformAmazonFBA
}

func (a *AmazonAdapter) credentials(ctx context.Context, integration *domain.Integration) (*domain.AmazonCredentials, error) {
	plaintext, err := a.deps.Secrets.GetSecret(ctx, integration.CompanyID, domain.PlatformAmazonFBA)
	if err != nil {
		return nil, err
	}
	if plaintext == "" {
		return nil, fmt.Errorf("%w for integration %s", domain.ErrNoCredentials, integration.ID)
	}

	var creds domain.AmazonCredentials
	if err := json.Unmarshal([]byte(plaintext), &creds); err != nil {
		return nil, fmt.Errorf("%w: malformed credential blob: %v", domain.ErrNoCredentials, err)
	}
	if creds.SellerID == "" || creds.AuthToken == "" {
		return nil, fmt.Errorf("%w: incomplete seller credentials", domain.ErrNoCredentials)
	}
	return &creds, nil
}

// SyncProducts pages through the seller's FBA listings.
func (a *AmazonAdapter) SyncProducts(ctx context.Context, integration *domain.Integration) (int, error) {
	creds, err := a.credentials(ctx, integration)
	if err != nil {
		return 0, err
	}

	cursor, err := loadCursor(ctx, a.deps.SyncState, integration.ID, domain.SyncTypeProducts)
	if err != nil {
		return 0, err
	}
	page := startPage(cursor)

	total := 0
	for fetched := 0; ; fetched++ {
		if fetched >= a.maxPages {
			return total, fmt.Errorf("product sync exceeded %d pages, aborting", a.maxPages)
		}
		if fetched > 0 {
			if err := a.sleep(ctx, a.pageDelay); err != nil {
				return total, err
			}
		}

		listings, hasMore, err := a.source.FetchListings(ctx, creds.SellerID, page)
		if err != nil {
			return total, fmt.Errorf("failed to fetch listings page %d: %w", page, err)
		}

		items := transformListings(integration.CompanyID, listings)
		n, err := a.deps.Inventory.UpsertBatch(ctx, items)
		if err != nil {
			return total, fmt.Errorf("failed to upsert listings page %d: %w", page, err)
		}
		total += n

		if !hasMore {
			break
		}
		page++
		if err := saveCursor(ctx, a.deps.SyncState, integration.ID, domain.SyncTypeProducts, strconv.Itoa(page)); err != nil {
			return total, err
		}
	}

	if err := a.deps.SyncState.Clear(ctx, integration.ID, domain.SyncTypeProducts); err != nil {
		return total, fmt.Errorf("failed to clear products checkpoint: %w", err)
	}
	return total, nil
}

func transformListings(companyID string, listings []ports.AmazonListing) []*domain.InventoryItem {
	items := make([]*domain.InventoryItem, 0, len(listings))
	for _, l := range listings {
		sku := l.SellerSKU
		if sku == "" {
			sku = "AMZN-" + l.ASIN
		}

		items = append(items, &domain.InventoryItem{
			CompanyID:         companyID,
			SourcePlatform:    domain.PlatformAmazonFBA,
			SKU:               sku,
			Name:              l.Title,
			Quantity:          l.Quantity,
			CostCents:         l.PriceCents,
			PriceCents:        l.PriceCents,
			Category:          l.Category,
			ExternalProductID: l.ASIN,
			ExternalVariantID: l.ASIN,
		})
	}
	return items
}

// SyncOrders pages through FBA orders with the shared per-order failure
// isolation policy.
func (a *AmazonAdapter) SyncOrders(ctx context.Context, integration *domain.Integration) (int, error) {
	creds, err := a.credentials(ctx, integration)
	if err != nil {
		return 0, err
	}

	cursor, err := loadCursor(ctx, a.deps.SyncState, integration.ID, domain.SyncTypeSales)
	if err != nil {
		return 0, err
	}
	page := startPage(cursor)

	synced, failed := 0, 0
	for fetched := 0; ; fetched++ {
		if fetched >= a.maxPages {
			return synced, fmt.Errorf("order sync exceeded %d pages, aborting", a.maxPages)
		}
		if fetched > 0 {
			if err := a.sleep(ctx, a.pageDelay); err != nil {
				return synced, err
			}
		}

		orders, hasMore, err := a.source.FetchOrders(ctx, creds.SellerID, page)
		if err != nil {
			return synced, fmt.Errorf("failed to fetch order page %d: %w", page, err)
		}

		for i := range orders {
			order := transformAmazonOrder(integration.CompanyID, &orders[i])
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

		if !hasMore {
			break
		}
		page++
		if err := saveCursor(ctx, a.deps.SyncState, integration.ID, domain.SyncTypeSales, strconv.Itoa(page)); err != nil {
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

func transformAmazonOrder(companyID string, o *ports.AmazonOrder) *domain.Order {
	lines := make([]domain.OrderLineItem, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, domain.OrderLineItem{
			SKU:               item.SellerSKU,
			Name:              item.Title,
			Quantity:          item.Quantity,
			PriceCents:        item.PriceCents,
			ExternalVariantID: item.ASIN,
		})
	}

	return &domain.Order{
		CompanyID:       companyID,
		SourcePlatform:  domain.PlatformAmazonFBA,
		ExternalOrderID: o.AmazonOrderID,
		OrderNumber:     o.AmazonOrderID,
		CustomerName:    o.BuyerName,
		CustomerEmail:   o.BuyerEmail,
		TotalCents:      o.TotalCents,
		Currency:        o.Currency,
		PlacedAt:        parseVendorTime(o.PurchaseDate),
		LineItems:       lines,
	}
}
