package ports

import (
	"context"

	"stocksync-core-layer/internal/domain"
)

// SecretStore manages per-company, per-platform credential blobs.
// Plaintext is fetched anew at the start of each sync phase and is
// never cached across calls.
type SecretStore interface {
	// CreateOrUpdateSecret stores a credential, upserting when a secret
	// for (company, platform) already exists. Returns the secret id.
	CreateOrUpdateSecret(ctx context.Context, companyID string, platform domain.Platform, plaintext string) (string, error)

	// GetSecret returns the plaintext credential, or ("", nil) when no
	// secret exists — "not configured" is distinguishable from failure.
	GetSecret(ctx context.Context, companyID string, platform domain.Platform) (string, error)

	// DeleteSecret removes a credential. Absence is not an error.
	DeleteSecret(ctx context.Context, companyID string, platform domain.Platform) error
}

// Vault is the encrypted backing store behind the SecretStore.
type Vault interface {
	// Put upserts a ciphertext blob under a deterministic name and
	// returns the stored id.
	Put(ctx context.Context, name, ciphertext string) (string, error)

	// Get returns the ciphertext, or ("", nil) when the name is absent.
	Get(ctx context.Context, name string) (string, error)

	// Delete removes a blob; deleting an absent name is a no-op.
	Delete(ctx context.Context, name string) error
}

// EncryptionService defines the interface for credential encryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
