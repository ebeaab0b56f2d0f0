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
)

// WooCommerceAdapter syncs a WooCommerce store into the internal
// schema. The REST API paginates by page number, so the checkpoint
// cursor is the next page number in decimal.
type WooCommerceAdapter struct {
	client    ports.WooCommerceClient
	deps      Deps
	pageDelay time.Duration
	maxPages  int
	sleep     sleepFunc
}

// NewWooCommerceAdapter creates the WooCommerce platform adapter.
func NewWooCommerceAdapter(client ports.WooCommerceClient, deps Deps) *WooCommerceAdapter {
	return NewWooCommerceAdapterWithOptions(client, deps, defaultPageDelay, defaultMaxPages)
}

// NewWooCommerceAdapterWithOptions creates the adapter with explicit
// paging parameters.
func NewWooCommerceAdapterWithOptions(client ports.WooCommerceClient, deps Deps, pageDelay time.Duration, maxPages int) *WooCommerceAdapter {
	return &WooCommerceAdapter{
		client:    client,
		deps:      deps,
		pageDelay: pageDelay,
		maxPages:  maxPages,
		sleep:     sleepCtx,
	}
}

// Platform identifies this adapter in the dispatcher registry.
func (a *WooCommerceAdapter) Platform() domain.Platform {
	return domain.PlatformWooCommerce
}

func (a *WooCommerceAdapter) store(ctx context.Context, integration *domain.Integration) (ports.WooStore, error) {
	plaintext, err := a.deps.Secrets.GetSecret(ctx, integration.CompanyID, domain.PlatformWooCommerce)
	if err != nil {
		return ports.WooStore{}, err
	}
	if plaintext == "" {
		return ports.WooStore{}, fmt.Errorf("%w for integration %s", domain.ErrNoCredentials, integration.ID)
	}

	var creds domain.WooCommerceCredentials
	if err := json.Unmarshal([]byte(plaintext), &creds); err != nil {
		return ports.WooStore{}, fmt.Errorf("%w: malformed credential blob: %v", domain.ErrNoCredentials, err)
	}
	if creds.ConsumerKey == "" || creds.ConsumerSecret == "" {
		return ports.WooStore{}, fmt.Errorf("%w: incomplete consumer key pair", domain.ErrNoCredentials)
	}

	return ports.WooStore{
		StoreURL:       integration.ShopDomain,
		ConsumerKey:    creds.ConsumerKey,
		ConsumerSecret: creds.ConsumerSecret,
	}, nil
}

// startPage resolves the checkpoint cursor into a page number.
func startPage(cursor string) int {
	if cursor == "" {
		return 1
	}
	page, err := strconv.Atoi(cursor)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// SyncProducts pages through the catalog, expanding variable products
// into their variations, upserting each page and checkpointing the next
// page number.
func (a *WooCommerceAdapter) SyncProducts(ctx context.Context, integration *domain.Integration) (int, error) {
	store, err := a.store(ctx, integration)
	if err != nil {
		return 0, err
	}

	cursor, err := loadCursor(ctx, a.deps.SyncState, integration.ID, domain.SyncTypeProducts)
	if err != nil {
		return 0, err
	}
	page := startPage(cursor)
	if page > 1 {
		a.deps.Logger.Info().
			Str("integrationId", integration.ID).
			Int("page", page).
			Msg("Resuming product sync from checkpoint")
	}

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

		products, hasMore, err := a.client.FetchProducts(ctx, store, page)
		if err != nil {
			return total, fmt.Errorf("failed to fetch product page %d: %w", page, err)
		}

		items, err := a.transformProducts(ctx, store, integration.CompanyID, products)
		if err != nil {
			return total, err
		}
		n, err := a.deps.Inventory.UpsertBatch(ctx, items)
		if err != nil {
			return total, fmt.Errorf("failed to upsert product page %d: %w", page, err)
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

func (a *WooCommerceAdapter) transformProducts(ctx context.Context, store ports.WooStore, companyID string, products []ports.WooProduct) ([]*domain.InventoryItem, error) {
	var items []*domain.InventoryItem
	for i := range products {
		p := &products[i]
		category := ""
		if len(p.Categories) > 0 {
			category = p.Categories[0].Name
		}

		if p.Type == "variable" && len(p.Variations) > 0 {
			if err := a.sleep(ctx, a.pageDelay); err != nil {
				return nil, err
			}
			variations, err := a.client.FetchVariations(ctx, store, p.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch variations for product %d: %w", p.ID, err)
			}
			for _, v := range variations {
				items = append(items, transformVariation(companyID, p, &v, category))
			}
			continue
		}

		sku := p.SKU
		if sku == "" {
			sku = fmt.Sprintf("WC-%d", p.ID)
		}
		quantity := 0
		if p.StockQuantity != nil {
			quantity = *p.StockQuantity
		}
		price := centsFromString(p.Price)

		items = append(items, &domain.InventoryItem{
			CompanyID:         companyID,
			SourcePlatform:    domain.PlatformWooCommerce,
			SKU:               sku,
			Name:              p.Name,
			Quantity:          quantity,
			CostCents:         price,
			PriceCents:        price,
			Category:          category,
			ExternalProductID: strconv.FormatInt(p.ID, 10),
			ExternalVariantID: strconv.FormatInt(p.ID, 10),
		})
	}
	return items, nil
}

func transformVariation(companyID string, p *ports.WooProduct, v *ports.WooVariation, category string) *domain.InventoryItem {
	sku := v.SKU
	if sku == "" {
		sku = fmt.Sprintf("WC-%d", v.ID)
	}

	name := p.Name
	if len(v.Attributes) > 0 {
		options := make([]string, 0, len(v.Attributes))
		for _, attr := range v.Attributes {
			options = append(options, attr.Option)
		}
		name = p.Name + " - " + strings.Join(options, " / ")
	}

	quantity := 0
	if v.StockQuantity != nil {
		quantity = *v.StockQuantity
	}
	price := centsFromString(v.Price)

	return &domain.InventoryItem{
		CompanyID:         companyID,
		SourcePlatform:    domain.PlatformWooCommerce,
		SKU:               sku,
		Name:              name,
		Quantity:          quantity,
		CostCents:         price,
		PriceCents:        price,
		Category:          category,
		ExternalProductID: strconv.FormatInt(p.ID, 10),
		ExternalVariantID: strconv.FormatInt(v.ID, 10),
	}
}

// SyncOrders pages through orders with the same delay and checkpoint
// discipline as products. Per-order failures do not abort the page; a
// phase with any failed orders is reported failed overall.
func (a *WooCommerceAdapter) SyncOrders(ctx context.Context, integration *domain.Integration) (int, error) {
	store, err := a.store(ctx, integration)
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

		orders, hasMore, err := a.client.FetchOrders(ctx, store, page)
		if err != nil {
			return synced, fmt.Errorf("failed to fetch order page %d: %w", page, err)
		}

		for i := range orders {
			order := transformWooOrder(integration.CompanyID, &orders[i])
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

func transformWooOrder(companyID string, o *ports.WooOrder) *domain.Order {
	lines := make([]domain.OrderLineItem, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		externalVariantID := li.VariationID
		if externalVariantID == 0 {
			externalVariantID = li.ProductID
		}

		priceCents := int64(0)
		if li.Quantity > 0 {
			priceCents = centsFromString(li.Total) / int64(li.Quantity)
		}

		lines = append(lines, domain.OrderLineItem{
			SKU:               li.SKU,
			Name:              li.Name,
			Quantity:          li.Quantity,
			PriceCents:        priceCents,
			ExternalVariantID: strconv.FormatInt(externalVariantID, 10),
		})
	}

	return &domain.Order{
		CompanyID:       companyID,
		SourcePlatform:  domain.PlatformWooCommerce,
		ExternalOrderID: strconv.FormatInt(o.ID, 10),
		OrderNumber:     o.Number,
		CustomerName:    strings.TrimSpace(o.Billing.FirstName + " " + o.Billing.LastName),
		CustomerEmail:   o.Billing.Email,
		TotalCents:      centsFromString(o.Total),
		Currency:        o.Currency,
		PlacedAt:        parseVendorTime(o.DateCreated),
		LineItems:       lines,
	}
}
