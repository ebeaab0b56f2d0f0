package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/ports"

	"github.com/rs/zerolog"
)

// ErrInvalidCredentials is returned when a connect payload fails
// platform-specific format validation before anything is stored.
var ErrInvalidCredentials = errors.New("invalid credentials payload")

// ConnectRequest carries the platform-specific fields of a connect
// call. Unused fields stay empty for the other platforms.
type ConnectRequest struct {
	StoreURL       string `json:"store_url"`
	ShopName       string `json:"shop_name"`
	AccessToken    string `json:"access_token"`
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	SellerID       string `json:"seller_id"`
	AuthToken      string `json:"auth_token"`
}

// ConnectService handles the store connection lifecycle: validating
// credential payloads, storing them encrypted, and maintaining the
// integration row. Credentials are written before the integration so a
// half-connected row never exists without its secret.
type ConnectService struct {
	integrations ports.IntegrationRepository
	secrets      ports.SecretStore
	logger       zerolog.Logger
}

func NewConnectService(integrations ports.IntegrationRepository, secrets ports.SecretStore, logger zerolog.Logger) *ConnectService {
	return &ConnectService{integrations: integrations, secrets: secrets, logger: logger}
}

// Connect validates the payload for the platform, stores the credential
// blob in the vault and creates (or reactivates) the integration row.
// A company holds at most one integration per platform; re-connecting
// overwrites the stored credentials.
func (s *ConnectService) Connect(ctx context.Context, companyID string, platform domain.Platform, req ConnectRequest) (*domain.Integration, error) {
	if !domain.KnownPlatform(platform) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedPlatform, platform)
	}

	payload, err := credentialPayload(platform, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.secrets.CreateOrUpdateSecret(ctx, companyID, platform, string(payload)); err != nil {
		return nil, fmt.Errorf("failed to store credentials: %w", err)
	}

	existing, err := s.integrations.GetByCompanyAndPlatform(ctx, companyID, platform)
	if err != nil {
		return nil, fmt.Errorf("failed to look up integration: %w", err)
	}

	now := time.Now().UTC()
	if existing != nil {
		existing.ShopDomain = normalizeShopDomain(req.StoreURL)
		existing.ShopName = shopName(req, existing.ShopDomain)
		existing.IsActive = true
		existing.UpdatedAt = now
		if err := s.integrations.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update integration: %w", err)
		}
		s.logger.Info().
			Str("companyId", companyID).
			Str("platform", string(platform)).
			Str("integrationId", existing.ID).
			Msg("Integration reconnected")
		return existing, nil
	}

	integration := &domain.Integration{
		CompanyID:  companyID,
		Platform:   platform,
		ShopDomain: normalizeShopDomain(req.StoreURL),
		ShopName:   shopName(req, normalizeShopDomain(req.StoreURL)),
		IsActive:   true,
		SyncStatus: domain.SyncStatusIdle,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.integrations.Create(ctx, integration); err != nil {
		return nil, fmt.Errorf("failed to create integration: %w", err)
	}

	s.logger.Info().
		Str("companyId", companyID).
		Str("platform", string(platform)).
		Str("integrationId", integration.ID).
		Msg("Integration connected")
	return integration, nil
}

// Disconnect removes the integration and its stored credentials. The
// secret delete is idempotent; a missing secret does not fail the
// disconnect.
func (s *ConnectService) Disconnect(ctx context.Context, companyID, integrationID string) error {
	integration, err := s.integrations.GetByIDAndCompany(ctx, integrationID, companyID)
	if err != nil {
		return fmt.Errorf("failed to load integration: %w", err)
	}
	if integration == nil {
		return domain.ErrNotFoundOrForbidden
	}

	if err := s.secrets.DeleteSecret(ctx, companyID, integration.Platform); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	if err := s.integrations.Delete(ctx, integrationID, companyID); err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}

	s.logger.Info().
		Str("companyId", companyID).
		Str("platform", string(integration.Platform)).
		Str("integrationId", integrationID).
		Msg("Integration disconnected")
	return nil
}

// List returns all integrations owned by the company.
func (s *ConnectService) List(ctx context.Context, companyID string) ([]*domain.Integration, error) {
	return s.integrations.ListByCompany(ctx, companyID)
}

// credentialPayload validates the platform-specific credential fields
// and marshals them into the stored blob.
func credentialPayload(platform domain.Platform, req ConnectRequest) ([]byte, error) {
	switch platform {
	case domain.PlatformShopify:
		if req.StoreURL == "" {
			return nil, fmt.Errorf("%w: store_url is required", ErrInvalidCredentials)
		}
		if !strings.HasPrefix(req.AccessToken, "shpat_") {
			return nil, fmt.Errorf("%w: access_token must start with shpat_", ErrInvalidCredentials)
		}
		return json.Marshal(domain.ShopifyCredentials{AccessToken: req.AccessToken})

	case domain.PlatformWooCommerce:
		if req.StoreURL == "" {
			return nil, fmt.Errorf("%w: store_url is required", ErrInvalidCredentials)
		}
		if !strings.HasPrefix(req.ConsumerKey, "ck_") {
			return nil, fmt.Errorf("%w: consumer_key must start with ck_", ErrInvalidCredentials)
		}
		if !strings.HasPrefix(req.ConsumerSecret, "cs_") {
			return nil, fmt.Errorf("%w: consumer_secret must start with cs_", ErrInvalidCredentials)
		}
		return json.Marshal(domain.WooCommerceCredentials{
			ConsumerKey:    req.ConsumerKey,
			ConsumerSecret: req.ConsumerSecret,
		})

	case domain.PlatformAmazonFBA:
		if req.SellerID == "" || req.AuthToken == "" {
			return nil, fmt.Errorf("%w: seller_id and auth_token are required", ErrInvalidCredentials)
		}
		return json.Marshal(domain.AmazonCredentials{
			SellerID:  req.SellerID,
			AuthToken: req.AuthToken,
		})
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedPlatform, platform)
}

// normalizeShopDomain strips scheme and trailing slashes so the stored
// domain is stable regardless of how the user typed the URL.
func normalizeShopDomain(storeURL string) string {
	d := strings.TrimSpace(storeURL)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	return strings.TrimRight(d, "/")
}

func shopName(req ConnectRequest, fallback string) string {
	if req.ShopName != "" {
		return req.ShopName
	}
	return fallback
}
