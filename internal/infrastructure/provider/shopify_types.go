package provider

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shoplink/backend/internal/domain/catalog"
)

// shopifyShopResponse is the payload of GET /admin/api/{version}/shop.json
type shopifyShopResponse struct {
	Shop *shopifyShop `json:"shop"`
}

type shopifyShop struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// shopifyCountResponse is the payload of GET /admin/api/{version}/products/count.json
type shopifyCountResponse struct {
	Count int `json:"count"`
}

// shopifyProductsResponse is the payload of GET /admin/api/{version}/products.json
type shopifyProductsResponse struct {
	Products []shopifyProduct `json:"products"`
}

type shopifyProduct struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	BodyHTML    string           `json:"body_html"`
	ProductType string           `json:"product_type"`
	Status      string           `json:"status"`
	Variants    []shopifyVariant `json:"variants"`
	Images      []shopifyImage   `json:"images"`
}

type shopifyVariant struct {
	ID    int64  `json:"id"`
	Price string `json:"price"`
}

type shopifyImage struct {
	Src string `json:"src"`
}

// toRemoteItem normalizes a Shopify product to a catalog snapshot entry.
// The numeric product ID is the stable external reference; price comes from
// the first variant the way the storefront shows it.
func (p *shopifyProduct) toRemoteItem() catalog.RemoteItem {
	item := catalog.RemoteItem{
		ExternalRef: shopifyProductRef(p.ID),
		Name:        p.Title,
		Category:    p.ProductType,
		Available:   p.Status == "active",
	}

	if desc := stripHTML(p.BodyHTML); desc != "" {
		item.Description = &desc
	}

	if len(p.Variants) > 0 {
		price, err := decimal.NewFromString(p.Variants[0].Price)
		if err != nil {
			// An unparseable price must not import as zero. A negative price
			// fails the upsert, so the item lands in the errored count.
			price = decimal.NewFromInt(-1)
		}
		item.Price = price
	}

	for _, img := range p.Images {
		if img.Src != "" {
			item.ImageURLs = append(item.ImageURLs, img.Src)
		}
	}

	return item
}

// shopifyProductRef formats the external reference for a product ID
func shopifyProductRef(id int64) string {
	return "shopify:" + strconv.FormatInt(id, 10)
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML reduces a body_html description to plain text
func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}
