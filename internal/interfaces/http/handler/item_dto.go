package handler

import (
	"time"

	"github.com/shoplink/backend/internal/domain/catalog"
)

// ItemResponse represents a catalog item in API responses
// @Description Catalog item details returned by the API
type ItemResponse struct {
	ID          string   `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name        string   `json:"name" example:"Espresso Beans 1kg"`
	Description *string  `json:"description,omitempty" example:"Dark roast"`
	Price       float64  `json:"price" example:"18.50"`
	Category    string   `json:"category" example:"general"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	Available   bool     `json:"available" example:"true"`
	Source      string   `json:"source" example:"native" enums:"native,external"`
	ExternalRef *string  `json:"external_ref,omitempty" example:"shopify:1234567890"`
	CreatedAt   string   `json:"created_at" example:"2026-01-24T12:00:00Z"`
	UpdatedAt   string   `json:"updated_at" example:"2026-01-24T12:00:00Z"`
	Version     int      `json:"version" example:"1"`
}

// toItemResponse converts a domain item to its API representation
func toItemResponse(item *catalog.Item) ItemResponse {
	price, _ := item.Price.Float64()
	return ItemResponse{
		ID:          item.ID.String(),
		Name:        item.Name,
		Description: item.Description,
		Price:       price,
		Category:    item.Category,
		ImageURLs:   item.ImageURLs,
		Available:   item.Available,
		Source:      item.Source.String(),
		ExternalRef: item.ExternalRef,
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.UTC().Format(time.RFC3339),
		Version:     item.Version,
	}
}

// toItemResponses converts a slice of domain items
func toItemResponses(items []catalog.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toItemResponse(&items[i]))
	}
	return out
}
