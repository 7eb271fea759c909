package connection

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shoplink/backend/internal/domain/catalog"
	"github.com/shoplink/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// ActivationState
// ---------------------------------------------------------------------------

// ActivationState tracks whether a messaging provider's out-of-band
// handshake has completed
type ActivationState string

const (
	// ActivationActive means the connection is fully usable
	ActivationActive ActivationState = "active"
	// ActivationPending means the seller must relay the activation token to
	// the counterpart before the channel works both ways
	ActivationPending ActivationState = "pending"
)

// ---------------------------------------------------------------------------
// CredentialInput
// ---------------------------------------------------------------------------

// CredentialInput is the secret bundle a seller submits to connect a
// provider. It is validated before any network probe runs.
type CredentialInput struct {
	// Code selects the concrete provider integration
	Code ProviderCode
	// AccountID is the provider-side account identifier (phone number ID,
	// sandbox number, Shopify store handle)
	AccountID string
	// AccessToken is the provider API secret
	AccessToken string
	// StoreDomain is the origin endpoint for catalog providers
	// (e.g. "my-shop.myshopify.com"); unused for messaging providers
	StoreDomain string
}

// Validate checks the input against the provider code's requirements
func (in *CredentialInput) Validate() error {
	if !in.Code.IsValid() {
		return ErrInvalidProviderCode
	}
	if strings.TrimSpace(in.AccountID) == "" {
		return ErrMissingAccountID
	}
	if strings.TrimSpace(in.AccessToken) == "" {
		return ErrMissingAccessToken
	}
	if in.Code.Kind() == ProviderKindCatalog && strings.TrimSpace(in.StoreDomain) == "" {
		return ErrMissingStoreDomain
	}
	return nil
}

// ---------------------------------------------------------------------------
// ProviderCredential Aggregate
// ---------------------------------------------------------------------------

// ProviderCredential is the stored secret bundle for one (seller, provider
// kind) pair. At most one row exists per pair; writing a new one fully
// replaces the old. The access token never leaves this aggregate except
// into the reachability probe.
type ProviderCredential struct {
	shared.SellerAggregateRoot
	Kind        ProviderKind    `gorm:"type:varchar(20);not null;uniqueIndex:idx_credentials_seller_kind,priority:2"`
	Code        ProviderCode    `gorm:"type:varchar(30);not null"`
	AccountID   string          `gorm:"type:varchar(200);not null"`
	AccessToken string          `gorm:"type:text;not null"`
	StoreDomain string          `gorm:"type:varchar(255)"`
	Activation  ActivationState `gorm:"type:varchar(20);not null;default:'active'"`
	// ActivationToken is the opaque join keyword for sandbox providers,
	// nil once activated or when no activation is needed
	ActivationToken *string    `gorm:"type:varchar(100)"`
	LastVerifiedAt  time.Time  `gorm:"not null"`
	LastSyncedAt    *time.Time `gorm:""`
	// Last sync counts, surfaced by GetState after every pass
	LastImported    int `gorm:"not null;default:0"`
	LastUpdated     int `gorm:"not null;default:0"`
	LastErrored     int `gorm:"not null;default:0"`
	LastTotalRemote int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProviderCredential) TableName() string {
	return "provider_credentials"
}

// NewProviderCredential creates a verified credential from validated input.
// Callers run the reachability probe first; a credential is only ever
// constructed after the provider confirmed the secret works.
func NewProviderCredential(sellerID uuid.UUID, input CredentialInput) (*ProviderCredential, error) {
	if sellerID == uuid.Nil {
		return nil, ErrInvalidSellerID
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	return &ProviderCredential{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		Kind:                input.Code.Kind(),
		Code:                input.Code,
		AccountID:           strings.TrimSpace(input.AccountID),
		AccessToken:         strings.TrimSpace(input.AccessToken),
		StoreDomain:         normalizeStoreDomain(input.StoreDomain),
		Activation:          ActivationActive,
		LastVerifiedAt:      time.Now(),
	}, nil
}

// RequireActivation parks the credential in the pending state and records
// the token the seller must relay out of band
func (c *ProviderCredential) RequireActivation(token string) {
	c.Activation = ActivationPending
	c.ActivationToken = &token
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// ConfirmActivation completes the out-of-band handshake. The engine does
// not observe the handshake itself; it trusts the caller's confirmation.
func (c *ProviderCredential) ConfirmActivation() error {
	if c.Activation != ActivationPending {
		return ErrNotPendingActivation
	}
	c.Activation = ActivationActive
	c.ActivationToken = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// RecordSync stores the most recent reconciliation counts and timestamp
func (c *ProviderCredential) RecordSync(summary catalog.SyncSummary) {
	syncedAt := summary.SyncedAt
	c.LastSyncedAt = &syncedAt
	c.LastImported = summary.Imported
	c.LastUpdated = summary.Updated
	c.LastErrored = summary.Errored
	c.LastTotalRemote = summary.TotalRemote
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// LastSummary reconstructs the most recent sync summary, or nil if the
// credential has never synced
func (c *ProviderCredential) LastSummary() *catalog.SyncSummary {
	if c.LastSyncedAt == nil {
		return nil
	}
	return &catalog.SyncSummary{
		Imported:    c.LastImported,
		Updated:     c.LastUpdated,
		Errored:     c.LastErrored,
		TotalRemote: c.LastTotalRemote,
		SyncedAt:    *c.LastSyncedAt,
	}
}

// State derives the at-rest connection state for this credential
func (c *ProviderCredential) State() ConnectionState {
	return StateOf(c)
}

// normalizeStoreDomain strips the scheme and trailing slash from a store
// domain so "https://my-shop.myshopify.com/" and "my-shop.myshopify.com"
// store identically
func normalizeStoreDomain(domain string) string {
	d := strings.TrimSpace(domain)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	return strings.TrimSuffix(d, "/")
}
