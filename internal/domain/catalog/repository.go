package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shoplink/backend/internal/domain/shared"
)

// ItemRepository defines the persistence port for catalog items
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByIDForSeller finds an item by ID within a seller's catalog
	FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*Item, error)

	// FindAllForSeller lists a seller's items; filter.Search matches the name
	// by substring
	FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Item, error)

	// CountForSeller counts a seller's items matching the filter
	CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error)

	// FindExternalForSeller returns every provider-managed item for a seller
	FindExternalForSeller(ctx context.Context, sellerID uuid.UUID) ([]Item, error)

	// Save persists an item (insert or update)
	Save(ctx context.Context, item *Item) error

	// Delete removes an item. Only native items are ever deleted; external
	// items are demoted instead.
	Delete(ctx context.Context, id uuid.UUID) error

	// MarkExternalUnavailable flips every external item of a seller to
	// unavailable and returns the number of affected rows
	MarkExternalUnavailable(ctx context.Context, sellerID uuid.UUID) (int64, error)
}
