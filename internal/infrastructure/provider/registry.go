package provider

import (
	"github.com/shoplink/backend/internal/domain/connection"
)

// StaticRegistry is a fixed map of provider adapters, assembled once at
// startup
type StaticRegistry struct {
	catalog   map[connection.ProviderCode]connection.CatalogProvider
	messaging map[connection.ProviderCode]connection.MessagingProvider
}

// NewStaticRegistry creates an empty registry
func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{
		catalog:   make(map[connection.ProviderCode]connection.CatalogProvider),
		messaging: make(map[connection.ProviderCode]connection.MessagingProvider),
	}
}

// RegisterCatalog adds a catalog adapter to the registry
func (r *StaticRegistry) RegisterCatalog(adapter connection.CatalogProvider) {
	r.catalog[adapter.Code()] = adapter
}

// RegisterMessaging adds a messaging adapter to the registry
func (r *StaticRegistry) RegisterMessaging(adapter connection.MessagingProvider) {
	r.messaging[adapter.Code()] = adapter
}

// Catalog returns the catalog adapter for the code
func (r *StaticRegistry) Catalog(code connection.ProviderCode) (connection.CatalogProvider, error) {
	adapter, ok := r.catalog[code]
	if !ok {
		return nil, connection.ErrProviderNotRegistered
	}
	return adapter, nil
}

// Messaging returns the messaging adapter for the code
func (r *StaticRegistry) Messaging(code connection.ProviderCode) (connection.MessagingProvider, error) {
	adapter, ok := r.messaging[code]
	if !ok {
		return nil, connection.ErrProviderNotRegistered
	}
	return adapter, nil
}

// Ensure StaticRegistry implements Registry
var _ connection.Registry = (*StaticRegistry)(nil)
