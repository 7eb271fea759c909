package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shoplink/backend/internal/domain/catalog"
	"github.com/shoplink/backend/internal/domain/shared"
)

// ItemService handles manual catalog management for sellers. It only ever
// touches native items: anything imported from a catalog provider is owned
// by the reconciler and rejects manual edits with ErrExternallyManaged.
type ItemService struct {
	items  catalog.ItemRepository
	logger *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(items catalog.ItemRepository, logger *zap.Logger) *ItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemService{items: items, logger: logger}
}

// CreateItemRequest carries the fields for a new native item
type CreateItemRequest struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Category    string
	ImageURLs   []string
}

// UpdateItemRequest carries the editable fields of a native item
type UpdateItemRequest struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Category    string
	ImageURLs   []string
}

// CreateItem creates a native item in the seller's catalog
func (s *ItemService) CreateItem(ctx context.Context, sellerID uuid.UUID, req CreateItemRequest) (*catalog.Item, error) {
	item, err := catalog.NewNativeItem(sellerID, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	item.Description = req.Description
	if req.Category != "" {
		item.Category = req.Category
	}
	item.ImageURLs = req.ImageURLs

	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("catalog item created",
		zap.String("seller_id", sellerID.String()),
		zap.String("item_id", item.ID.String()))

	return item, nil
}

// UpdateItem updates a native item; provider-managed items are rejected
func (s *ItemService) UpdateItem(ctx context.Context, sellerID, itemID uuid.UUID, req UpdateItemRequest) (*catalog.Item, error) {
	item, err := s.items.FindByIDForSeller(ctx, sellerID, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.UpdateManual(req.Name, req.Description, req.Price, req.Category, req.ImageURLs); err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// SetAvailability toggles a native item's availability
func (s *ItemService) SetAvailability(ctx context.Context, sellerID, itemID uuid.UUID, available bool) (*catalog.Item, error) {
	item, err := s.items.FindByIDForSeller(ctx, sellerID, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.SetAvailability(available); err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a native item. Provider-managed items are never
// deleted manually; they are demoted by disconnect instead.
func (s *ItemService) DeleteItem(ctx context.Context, sellerID, itemID uuid.UUID) error {
	item, err := s.items.FindByIDForSeller(ctx, sellerID, itemID)
	if err != nil {
		return err
	}
	if item.IsExternal() {
		return catalog.ErrExternallyManaged
	}
	return s.items.Delete(ctx, itemID)
}

// GetItem returns one item from the seller's catalog
func (s *ItemService) GetItem(ctx context.Context, sellerID, itemID uuid.UUID) (*catalog.Item, error) {
	return s.items.FindByIDForSeller(ctx, sellerID, itemID)
}

// ListItems lists the seller's catalog with pagination and optional
// substring search on the name
func (s *ItemService) ListItems(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]catalog.Item, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	items, err := s.items.FindAllForSeller(ctx, sellerID, filter)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.items.CountForSeller(ctx, sellerID, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}
