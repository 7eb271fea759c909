package connection

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CredentialRepository is the single authoritative read/write path for
// provider secrets. It never talks to the network.
type CredentialRepository interface {
	// FindBySellerAndKind returns the credential for the pair, or
	// shared.ErrNotFound
	FindBySellerAndKind(ctx context.Context, sellerID uuid.UUID, kind ProviderKind) (*ProviderCredential, error)

	// Save persists a credential, atomically replacing any existing row for
	// the same (seller, kind) pair. Last write wins.
	Save(ctx context.Context, cred *ProviderCredential) error

	// ClearBySellerAndKind removes the credential for the pair. Clearing an
	// empty slot is a no-op success.
	ClearBySellerAndKind(ctx context.Context, sellerID uuid.UUID, kind ProviderKind) error
}

// SyncGuard serializes reconciliation passes per (seller, provider kind).
// Different sellers and different kinds for the same seller are independent
// and may run concurrently.
type SyncGuard interface {
	// TryLock acquires the lock for the key if it is free. Returns false
	// without blocking when another pass holds it. The TTL bounds how long
	// a crashed holder can wedge the key.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Unlock releases the lock. Releasing a key that is not held is a no-op.
	Unlock(ctx context.Context, key string) error
}

// SyncGuardKey builds the lock key for a (seller, provider kind) pair
func SyncGuardKey(sellerID uuid.UUID, kind ProviderKind) string {
	return sellerID.String() + ":" + kind.String()
}
