package domain

import "time"

// InventoryItem is one sellable variant in the destination inventory
// schema. Rows are keyed (company_id, source_platform,
// external_variant_id) so a repeat sync updates rather than duplicates.
type InventoryItem struct {
	ID                string    `json:"id"`
	CompanyID         string    `json:"company_id"`
	SourcePlatform    Platform  `json:"source_platform"`
	SKU               string    `json:"sku"`
	Name              string    `json:"name"`
	Quantity          int       `json:"quantity"`
	CostCents         int64     `json:"cost_cents"`
	PriceCents        int64     `json:"price_cents"`
	Category          string    `json:"category"`
	ExternalProductID string    `json:"external_product_id"`
	ExternalVariantID string    `json:"external_variant_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// OrderLineItem is a line of a recorded order.
type OrderLineItem struct {
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	Quantity          int    `json:"quantity"`
	PriceCents        int64  `json:"price_cents"`
	ExternalVariantID string `json:"external_variant_id,omitempty"`
}

// Order is a vendor order mapped into the internal sales schema. Line
// items and the customer snapshot are embedded so recording an order is
// a single atomic write keyed (company_id, external_order_id).
type Order struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	SourcePlatform  Platform        `json:"source_platform"`
	ExternalOrderID string          `json:"external_order_id"`
	OrderNumber     string          `json:"order_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	TotalCents      int64           `json:"total_cents"`
	Currency        string          `json:"currency"`
	PlacedAt        time.Time       `json:"placed_at"`
	LineItems       []OrderLineItem `json:"line_items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Customer is the company-scoped customer list entry maintained as a
// side effect of order recording, keyed (company_id, email).
type Customer struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	TotalOrders     int       `json:"total_orders"`
	TotalSpentCents int64     `json:"total_spent_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
