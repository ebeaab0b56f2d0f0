package domain

import (
	"strings"
	"time"
)

// Platform identifies a connected e-commerce platform.
type Platform string

const (
	PlatformShopify     Platform = "shopify"
	PlatformWooCommerce Platform = "woocommerce"
	PlatformAmazonFBA   Platform = "amazon_fba"
)

// KnownPlatform reports whether p is one of the supported platform values.
func KnownPlatform(p Platform) bool {
	switch p {
	case PlatformShopify, PlatformWooCommerce, PlatformAmazonFBA:
		return true
	}
	return false
}

// SyncStatus is the lifecycle status of an integration's sync.
type SyncStatus string

const (
	SyncStatusIdle            SyncStatus = "idle"
	SyncStatusSyncing         SyncStatus = "syncing"
	SyncStatusSyncingProducts SyncStatus = "syncing_products"
	SyncStatusSyncingSales    SyncStatus = "syncing_sales"
	SyncStatusSuccess         SyncStatus = "success"
	SyncStatusFailed          SyncStatus = "failed"
)

// Busy reports whether the status denotes an in-progress sync. The
// sub-states exist for UI feedback only; anything prefixed "syncing"
// counts as busy.
func (s SyncStatus) Busy() bool {
	return strings.HasPrefix(string(s), "syncing")
}

// Integration represents one (company, platform) store connection.
// At most one non-terminal sync may be in flight per integration; the
// transition into a syncing state is made with a conditional update at
// the repository so two concurrent triggers cannot both pass the guard.
type Integration struct {
	ID         string     `json:"id"`
	CompanyID  string     `json:"company_id"`
	Platform   Platform   `json:"platform"`
	ShopDomain string     `json:"shop_domain"`
	ShopName   string     `json:"shop_name"`
	IsActive   bool       `json:"is_active"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	SyncStatus SyncStatus `json:"sync_status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
