package provider

import "errors"

// ErrShopifyInvalidConfig indicates an invalid Shopify adapter configuration
var ErrShopifyInvalidConfig = errors.New("shopify: invalid adapter configuration")

// ShopifyConfig holds the static settings of the Shopify Admin API adapter.
// Per-seller settings (store domain, access token) live on the credential.
type ShopifyConfig struct {
	// APIVersion is the Admin API version segment, e.g. "2024-01"
	APIVersion string
	// PageSize is the number of products requested per page, max 250
	PageSize int
	// TimeoutSeconds bounds each HTTP call
	TimeoutSeconds int
	// BaseURL overrides the store-derived endpoint. Empty in production;
	// tests point it at a local server.
	BaseURL string
}

// Validate checks the configuration
func (c *ShopifyConfig) Validate() error {
	if c.APIVersion == "" {
		return ErrShopifyInvalidConfig
	}
	if c.PageSize <= 0 || c.PageSize > 250 {
		return ErrShopifyInvalidConfig
	}
	if c.TimeoutSeconds <= 0 {
		return ErrShopifyInvalidConfig
	}
	return nil
}

// DefaultShopifyConfig returns the default Shopify adapter configuration
func DefaultShopifyConfig() *ShopifyConfig {
	return &ShopifyConfig{
		APIVersion:     "2024-01",
		PageSize:       250,
		TimeoutSeconds: 30,
	}
}
