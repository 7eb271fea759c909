package connection

import (
	"github.com/google/uuid"

	"github.com/shoplink/backend/internal/domain/catalog"
	"github.com/shoplink/backend/internal/domain/shared"
)

const (
	// EventTypeProviderConnected is emitted after a credential is persisted
	// and the connection reached connected or pending_activation
	EventTypeProviderConnected = "connection.provider_connected"
	// EventTypeProviderDisconnected is emitted after a disconnect completes
	EventTypeProviderDisconnected = "connection.provider_disconnected"
	// EventTypeCatalogSynced is emitted after a reconciliation pass finishes
	EventTypeCatalogSynced = "connection.catalog_synced"
)

const aggregateTypeProviderCredential = "ProviderCredential"

// ProviderConnectedEvent signals that a seller connected a provider
type ProviderConnectedEvent struct {
	shared.BaseDomainEvent
	Kind     ProviderKind    `json:"kind"`
	Provider ProviderCode    `json:"provider"`
	State    ConnectionState `json:"state"`
}

// NewProviderConnectedEvent creates a ProviderConnectedEvent
func NewProviderConnectedEvent(cred *ProviderCredential, state ConnectionState) *ProviderConnectedEvent {
	return &ProviderConnectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeProviderConnected, aggregateTypeProviderCredential, cred.ID, cred.SellerID),
		Kind:     cred.Kind,
		Provider: cred.Code,
		State:    state,
	}
}

// ProviderDisconnectedEvent signals that a seller disconnected a provider
type ProviderDisconnectedEvent struct {
	shared.BaseDomainEvent
	Kind ProviderKind `json:"kind"`
	// DemotedItems is the number of imported items marked unavailable,
	// zero for messaging providers
	DemotedItems int64 `json:"demoted_items"`
}

// NewProviderDisconnectedEvent creates a ProviderDisconnectedEvent
func NewProviderDisconnectedEvent(sellerID uuid.UUID, kind ProviderKind, demoted int64) *ProviderDisconnectedEvent {
	return &ProviderDisconnectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeProviderDisconnected, aggregateTypeProviderCredential, sellerID, sellerID),
		Kind:         kind,
		DemotedItems: demoted,
	}
}

// CatalogSyncedEvent signals that a reconciliation pass completed
type CatalogSyncedEvent struct {
	shared.BaseDomainEvent
	Provider ProviderCode        `json:"provider"`
	Summary  catalog.SyncSummary `json:"summary"`
}

// NewCatalogSyncedEvent creates a CatalogSyncedEvent
func NewCatalogSyncedEvent(cred *ProviderCredential, summary catalog.SyncSummary) *CatalogSyncedEvent {
	return &CatalogSyncedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeCatalogSynced, aggregateTypeProviderCredential, cred.ID, cred.SellerID),
		Provider: cred.Code,
		Summary:  summary,
	}
}
