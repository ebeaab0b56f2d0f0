package application

import (
	"context"
	"fmt"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/ports"

	"github.com/rs/zerolog"
)

// SecretService implements the SecretStore on top of the encrypted
// vault. It holds no plaintext between calls; adapters fetch the
// credential anew at the start of every sync phase.
type SecretService struct {
	vault         ports.Vault
	encryptionSvc ports.EncryptionService
	logger        zerolog.Logger
}

// NewSecretService creates a new secret service
func NewSecretService(vault ports.Vault, encryptionSvc ports.EncryptionService, logger zerolog.Logger) *SecretService {
	return &SecretService{
		vault:         vault,
		encryptionSvc: encryptionSvc,
		logger:        logger,
	}
}

// CreateOrUpdateSecret encrypts and stores a credential blob, upserting
// when a secret for (company, platform) already exists.
func (s *SecretService) CreateOrUpdateSecret(ctx context.Context, companyID string, platform domain.Platform, plaintext string) (string, error) {
	ciphertext, err := s.encryptionSvc.Encrypt(plaintext)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	name := domain.SecretName(companyID, platform)
	id, err := s.vault.Put(ctx, name, ciphertext)
	if err != nil {
		return "", err
	}

	s.logger.Info().
		Str("companyId", companyID).
		Str("platform", string(platform)).
		Msg("Stored platform credentials")
	return id, nil
}

// GetSecret returns the decrypted credential blob, or ("", nil) when no
// secret exists so callers can distinguish "not configured" from a
// retrieval fault.
func (s *SecretService) GetSecret(ctx context.Context, companyID string, platform domain.Platform) (string, error) {
	name := domain.SecretName(companyID, platform)
	ciphertext, err := s.vault.Get(ctx, name)
	if err != nil {
		return "", err
	}
	if ciphertext == "" {
		return "", nil
	}

	plaintext, err := s.encryptionSvc.Decrypt(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrVaultRead, name, err)
	}
	return plaintext, nil
}

// DeleteSecret removes a credential. Idempotent; a missing secret is
// only logged.
func (s *SecretService) DeleteSecret(ctx context.Context, companyID string, platform domain.Platform) error {
	name := domain.SecretName(companyID, platform)

	existing, err := s.vault.Get(ctx, name)
	if err != nil {
		return err
	}
	if existing == "" {
		s.logger.Info().
			Str("companyId", companyID).
			Str("platform", string(platform)).
			Msg("No stored credentials to delete")
		return nil
	}

	if err := s.vault.Delete(ctx, name); err != nil {
		return err
	}

	s.logger.Info().
		Str("companyId", companyID).
		Str("platform", string(platform)).
		Msg("Deleted platform credentials")
	return nil
}

var _ ports.SecretStore = (*SecretService)(nil)
