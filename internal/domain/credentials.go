package domain

import "fmt"

// ShopifyCredentials is the credential blob stored for a Shopify
// connection: a single admin API access token.
type ShopifyCredentials struct {
	AccessToken string `json:"access_token"`
}

// WooCommerceCredentials is the consumer key pair for the WooCommerce
// REST API.
type WooCommerceCredentials struct {
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
}

// AmazonCredentials identifies a seller account for the (simulated)
// Amazon FBA integration.
type AmazonCredentials struct {
	SellerID  string `json:"seller_id"`
	AuthToken string `json:"auth_token"`
}

// SecretName derives the deterministic vault name for a company's
// platform credentials. The name is the only lookup key; plaintext is
// never stored outside the vault.
func SecretName(companyID string, platform Platform) string {
	return fmt.Sprintf("%s_credentials_%s", platform, companyID)
}
