package connection

import (
	"context"

	"github.com/shoplink/backend/internal/domain/catalog"
)

// ---------------------------------------------------------------------------
// Provider Ports
// ---------------------------------------------------------------------------
// These interfaces follow the Ports & Adapters pattern: they are defined in
// the domain layer and implemented by the HTTP adapters under
// infrastructure/provider.

// Provider is the behavior common to every provider adapter
type Provider interface {
	// Code returns the provider code this adapter handles
	Code() ProviderCode

	// Probe verifies that the credential can reach the provider. It is the
	// gate for every credential write: a credential that fails the probe is
	// never persisted. Implementations bound the call with the context.
	Probe(ctx context.Context, cred *ProviderCredential) error
}

// CatalogProvider is implemented by adapters for systems that own a
// product catalog
type CatalogProvider interface {
	Provider

	// FetchCatalog streams the full remote snapshot page by page in the
	// provider's order and returns the total number of items fetched. When
	// fetching fails after at least one page was delivered, the partial
	// count is returned alongside the error so the caller can report a
	// partial pass instead of discarding processed items.
	FetchCatalog(ctx context.Context, cred *ProviderCredential, fn func(page []catalog.RemoteItem) error) (int, error)
}

// MessagingProvider is implemented by adapters for chat channels
type MessagingProvider interface {
	Provider

	// RequiresActivation reports whether the provider needs an out-of-band
	// handshake before two-way messaging works
	RequiresActivation() bool

	// IssueActivationToken returns the opaque token the seller must relay
	// to the counterpart (e.g. a sandbox join keyword). Only called when
	// RequiresActivation is true.
	IssueActivationToken(ctx context.Context, cred *ProviderCredential) (string, error)
}

// Registry provides access to the configured provider adapters
type Registry interface {
	// Catalog returns the catalog adapter for the code, or
	// ErrProviderNotRegistered
	Catalog(code ProviderCode) (CatalogProvider, error)

	// Messaging returns the messaging adapter for the code, or
	// ErrProviderNotRegistered
	Messaging(code ProviderCode) (MessagingProvider, error)
}
