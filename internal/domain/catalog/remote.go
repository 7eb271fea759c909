package catalog

import (
	"github.com/shopspring/decimal"
)

// RemoteItem is one entry of a remote catalog snapshot, normalized by a
// provider adapter. ExternalRef is the provider's stable identifier for the
// product and is the upsert key for reconciliation.
type RemoteItem struct {
	// ExternalRef is the provider-side product identifier
	ExternalRef string
	// Name is the product title
	Name string
	// Description is nil when the provider carries no description,
	// distinguishing "never set" from an explicitly empty one
	Description *string
	// Price is the selling price, non-negative
	Price decimal.Decimal
	// Category is the provider's product type, may be empty
	Category string
	// ImageURLs contains product image URLs in provider order
	ImageURLs []string
	// Available reports whether the provider lists the product for sale
	Available bool
}
