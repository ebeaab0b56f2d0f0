package application

import (
	"context"
	"testing"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/infrastructure/encryption"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConnectEnv() (*ConnectService, *fakeIntegrationRepo, *SecretService, *fakeVault) {
	repo := newFakeIntegrationRepo()
	vault := newFakeVault()
	enc, err := encryption.NewService(testHexKey)
	if err != nil {
		panic(err)
	}
	secrets := NewSecretService(vault, enc, zerolog.Nop())
	return NewConnectService(repo, secrets, zerolog.Nop()), repo, secrets, vault
}

func TestConnectService_Connect_Shopify(t *testing.T) {
	svc, repo, secrets, _ := newConnectEnv()
	ctx := context.Background()

	integration, err := svc.Connect(ctx, "co-1", domain.PlatformShopify, ConnectRequest{
		StoreURL:    "https://demo-store.myshopify.com/",
		ShopName:    "Demo Store",
		AccessToken: "shpat_abc123",
	})
	require.NoError(t, err)
	assert.Equal(t, "demo-store.myshopify.com", integration.ShopDomain)
	assert.Equal(t, domain.SyncStatusIdle, integration.SyncStatus)
	assert.True(t, integration.IsActive)

	stored, err := secrets.GetSecret(ctx, "co-1", domain.PlatformShopify)
	require.NoError(t, err)
	assert.Contains(t, stored, "shpat_abc123")

	got, err := repo.GetByCompanyAndPlatform(ctx, "co-1", domain.PlatformShopify)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, integration.ID, got.ID)
}

func TestConnectService_Connect_ValidatesPayload(t *testing.T) {
	svc, _, _, vault := newConnectEnv()
	ctx := context.Background()

	cases := []struct {
		name     string
		platform domain.Platform
		req      ConnectRequest
	}{
		{"shopify token without prefix", domain.PlatformShopify,
			ConnectRequest{StoreURL: "https://s.myshopify.com", AccessToken: "token"}},
		{"shopify missing store url", domain.PlatformShopify,
			ConnectRequest{AccessToken: "shpat_abc"}},
		{"woo bad consumer key", domain.PlatformWooCommerce,
			ConnectRequest{StoreURL: "https://shop.example.com", ConsumerKey: "key", ConsumerSecret: "cs_x"}},
		{"woo bad consumer secret", domain.PlatformWooCommerce,
			ConnectRequest{StoreURL: "https://shop.example.com", ConsumerKey: "ck_x", ConsumerSecret: "secret"}},
		{"amazon missing auth token", domain.PlatformAmazonFBA,
			ConnectRequest{SellerID: "A1SELLER"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Connect(ctx, "co-1", tc.platform, tc.req)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}

	_, err := svc.Connect(ctx, "co-1", domain.Platform("ebay"), ConnectRequest{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedPlatform)

	assert.Empty(t, vault.blobs, "nothing may be stored when validation fails")
}

func TestConnectService_Connect_ReconnectUpdatesInPlace(t *testing.T) {
	svc, repo, secrets, _ := newConnectEnv()
	ctx := context.Background()

	first, err := svc.Connect(ctx, "co-1", domain.PlatformWooCommerce, ConnectRequest{
		StoreURL:       "https://shop.example.com",
		ConsumerKey:    "ck_old",
		ConsumerSecret: "cs_old",
	})
	require.NoError(t, err)

	second, err := svc.Connect(ctx, "co-1", domain.PlatformWooCommerce, ConnectRequest{
		StoreURL:       "https://shop.example.com",
		ConsumerKey:    "ck_new",
		ConsumerSecret: "cs_new",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "reconnecting must reuse the existing integration")

	all, err := repo.ListByCompany(ctx, "co-1")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	stored, err := secrets.GetSecret(ctx, "co-1", domain.PlatformWooCommerce)
	require.NoError(t, err)
	assert.Contains(t, stored, "ck_new")
}

func TestConnectService_Disconnect(t *testing.T) {
	svc, repo, secrets, _ := newConnectEnv()
	ctx := context.Background()

	integration, err := svc.Connect(ctx, "co-1", domain.PlatformAmazonFBA, ConnectRequest{
		SellerID:  "A1SELLER",
		AuthToken: "amzn.mws.token",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Disconnect(ctx, "co-1", integration.ID))

	got, err := repo.GetByIDAndCompany(ctx, integration.ID, "co-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	stored, err := secrets.GetSecret(ctx, "co-1", domain.PlatformAmazonFBA)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestConnectService_Disconnect_WrongCompany(t *testing.T) {
	svc, _, _, _ := newConnectEnv()
	ctx := context.Background()

	integration, err := svc.Connect(ctx, "co-1", domain.PlatformShopify, ConnectRequest{
		StoreURL:    "https://demo-store.myshopify.com",
		AccessToken: "shpat_abc",
	})
	require.NoError(t, err)

	err = svc.Disconnect(ctx, "co-2", integration.ID)
	assert.ErrorIs(t, err, domain.ErrNotFoundOrForbidden)
}
