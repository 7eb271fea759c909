package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoplink/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Item Errors
// ---------------------------------------------------------------------------

var (
	ErrItemInvalidSellerID   = errors.New("catalog: invalid seller ID")
	ErrItemInvalidName       = errors.New("catalog: item name is required")
	ErrItemNameTooLong       = errors.New("catalog: item name exceeds 200 characters")
	ErrItemNegativePrice     = errors.New("catalog: item price cannot be negative")
	ErrItemMissingExternal   = errors.New("catalog: external reference is required for external items")
	ErrItemNotExternal       = errors.New("catalog: item is not provider-managed")
	ErrExternallyManaged     = errors.New("catalog: item is managed by a connected provider and cannot be edited manually")
	ErrItemInvalidExternalID = errors.New("catalog: invalid external reference")
)

// maxItemNameLength bounds the item name, matching the products table schema.
const maxItemNameLength = 200

// ---------------------------------------------------------------------------
// ItemSource
// ---------------------------------------------------------------------------

// ItemSource identifies who owns an item's data.
type ItemSource string

const (
	// ItemSourceNative marks items created and edited by the seller.
	ItemSourceNative ItemSource = "native"
	// ItemSourceExternal marks items imported from a catalog provider.
	ItemSourceExternal ItemSource = "external"
)

// IsValid returns true if the source is valid
func (s ItemSource) IsValid() bool {
	return s == ItemSourceNative || s == ItemSourceExternal
}

// String returns the string representation of ItemSource
func (s ItemSource) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Item Aggregate
// ---------------------------------------------------------------------------

// Item represents a product in a seller's local catalog.
// It is the aggregate root for catalog operations.
type Item struct {
	shared.SellerAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null"`
	Description *string         `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Category    string          `gorm:"type:varchar(100);not null;default:'general'"`
	ImageURLs   []string        `gorm:"type:text;serializer:json"`
	Available   bool            `gorm:"not null;default:true"`
	Source      ItemSource      `gorm:"type:varchar(20);not null;default:'native';index:idx_items_seller_source,priority:2"`
	ExternalRef *string         `gorm:"type:varchar(100);uniqueIndex:idx_items_seller_external,priority:2"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "catalog_items"
}

// NewNativeItem creates a seller-authored item.
func NewNativeItem(sellerID uuid.UUID, name string, price decimal.Decimal) (*Item, error) {
	if sellerID == uuid.Nil {
		return nil, ErrItemInvalidSellerID
	}
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, ErrItemNegativePrice
	}

	return &Item{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		Name:                name,
		Price:               price,
		Category:            "general",
		Available:           true,
		Source:              ItemSourceNative,
	}, nil
}

// NewExternalItem creates an item imported from a catalog provider.
// The remote item's fields are applied in the same pass.
func NewExternalItem(sellerID uuid.UUID, remote RemoteItem) (*Item, error) {
	if sellerID == uuid.Nil {
		return nil, ErrItemInvalidSellerID
	}
	if remote.ExternalRef == "" {
		return nil, ErrItemMissingExternal
	}

	ref := remote.ExternalRef
	item := &Item{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		Category:            "general",
		Source:              ItemSourceExternal,
		ExternalRef:         &ref,
	}
	if err := item.ApplyRemote(remote); err != nil {
		return nil, err
	}
	return item, nil
}

// IsExternal returns true if the item mirrors a provider-owned product
func (i *Item) IsExternal() bool {
	return i.Source == ItemSourceExternal
}

// ApplyRemote overwrites the item's mutable fields from a remote snapshot
// entry. Only valid on external items; the reconciler is the sole caller.
func (i *Item) ApplyRemote(remote RemoteItem) error {
	if !i.IsExternal() {
		return ErrItemNotExternal
	}
	if i.ExternalRef == nil || *i.ExternalRef != remote.ExternalRef {
		return ErrItemInvalidExternalID
	}
	if err := validateItemName(remote.Name); err != nil {
		return err
	}
	if remote.Price.IsNegative() {
		return ErrItemNegativePrice
	}

	i.Name = remote.Name
	i.Description = remote.Description
	i.Price = remote.Price
	if remote.Category != "" {
		i.Category = remote.Category
	}
	i.ImageURLs = remote.ImageURLs
	i.Available = remote.Available
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// UpdateManual updates the seller-editable fields of a native item.
// External items reject manual edits to keep the provider authoritative.
func (i *Item) UpdateManual(name string, description *string, price decimal.Decimal, category string, imageURLs []string) error {
	if i.IsExternal() {
		return ErrExternallyManaged
	}
	if err := validateItemName(name); err != nil {
		return err
	}
	if price.IsNegative() {
		return ErrItemNegativePrice
	}

	i.Name = name
	i.Description = description
	i.Price = price
	if category != "" {
		i.Category = category
	}
	i.ImageURLs = imageURLs
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetAvailability toggles whether the item is offered for sale.
// Only native items may be toggled manually.
func (i *Item) SetAvailability(available bool) error {
	if i.IsExternal() {
		return ErrExternallyManaged
	}
	i.Available = available
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Demote marks an external item unavailable during disconnect. The item is
// kept so order history that references it stays resolvable.
func (i *Item) Demote() error {
	if !i.IsExternal() {
		return ErrItemNotExternal
	}
	i.Available = false
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// validateItemName validates the item name
func validateItemName(name string) error {
	if name == "" {
		return ErrItemInvalidName
	}
	if len(name) > maxItemNameLength {
		return ErrItemNameTooLong
	}
	return nil
}
