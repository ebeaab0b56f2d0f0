package amazon

import (
	"context"
	"fmt"

	"stocksync-core-layer/internal/ports"
)

// Simulated catalog dimensions. Small enough for a demo sync, larger
// than one page so the paging and checkpoint paths are exercised.
const (
	defaultPageSize      = 10
	defaultTotalListings = 25
	defaultTotalOrders   = 15
)

var categories = []string{"Electronics", "Home & Kitchen", "Sports", "Beauty", "Toys"}

// SimulatedSource implements AmazonDataSource with deterministic,
// counter-seeded data. Two runs produce identical records so repeat
// syncs exercise the idempotent upsert path exactly like a real vendor
// returning an unchanged catalog. Replace with an SP-API client to go
// live; the adapter does not change.
type SimulatedSource struct {
	pageSize      int
	totalListings int
	totalOrders   int
}

// NewSimulatedSource creates the deterministic FBA data source.
func NewSimulatedSource() *SimulatedSource {
	return &SimulatedSource{
		pageSize:      defaultPageSize,
		totalListings: defaultTotalListings,
		totalOrders:   defaultTotalOrders,
	}
}

func pageBounds(page, pageSize, total int) (int, int, bool) {
	start := (page - 1) * pageSize
	if start >= total {
		return 0, 0, false
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end, end < total
}

// FetchListings generates one page of FBA listings.
func (s *SimulatedSource) FetchListings(ctx context.Context, sellerID string, page int) ([]ports.AmazonListing, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	start, end, hasMore := pageBounds(page, s.pageSize, s.totalListings)
	listings := make([]ports.AmazonListing, 0, end-start)
	for i := start; i < end; i++ {
		n := i + 1
		listings = append(listings, ports.AmazonListing{
			ASIN:       fmt.Sprintf("B0%08d", n),
			SellerSKU:  fmt.Sprintf("FBA-SKU-%03d", n),
			Title:      fmt.Sprintf("FBA Product %d", n),
			Quantity:   (n*7)%90 + 10,
			PriceCents: int64(n%40+5) * 100,
			Category:   categories[n%len(categories)],
		})
	}
	return listings, hasMore, nil
}

// FetchOrders generates one page of FBA orders, two items each.
func (s *SimulatedSource) FetchOrders(ctx context.Context, sellerID string, page int) ([]ports.AmazonOrder, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	start, end, hasMore := pageBounds(page, s.pageSize, s.totalOrders)
	orders := make([]ports.AmazonOrder, 0, end-start)
	for i := start; i < end; i++ {
		n := i + 1
		items := make([]ports.AmazonOrderItem, 0, 2)
		var total int64
		for j := 0; j < 2; j++ {
			ref := (n+j)%s.totalListings + 1
			price := int64(ref%40+5) * 100
			qty := j + 1
			items = append(items, ports.AmazonOrderItem{
				SellerSKU:  fmt.Sprintf("FBA-SKU-%03d", ref),
				Title:      fmt.Sprintf("FBA Product %d", ref),
				Quantity:   qty,
				PriceCents: price,
				ASIN:       fmt.Sprintf("B0%08d", ref),
			})
			total += price * int64(qty)
		}

		orders = append(orders, ports.AmazonOrder{
			AmazonOrderID: fmt.Sprintf("111-%07d-%07d", n, n*13),
			BuyerName:     fmt.Sprintf("FBA Buyer %d", n),
			BuyerEmail:    fmt.Sprintf("buyer%d@marketplace.amazon.example", n),
			TotalCents:    total,
			Currency:      "USD",
			PurchaseDate:  fmt.Sprintf("2025-08-%02dT10:00:00Z", n%28+1),
			Items:         items,
		})
	}
	return orders, hasMore, nil
}
