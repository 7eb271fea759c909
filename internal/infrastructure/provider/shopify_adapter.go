package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/shoplink/backend/internal/domain/catalog"
	"github.com/shoplink/backend/internal/domain/connection"
)

// maxResponseSize is the maximum allowed response size from the Shopify API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// ShopifyAdapter implements CatalogProvider for the Shopify Admin API
type ShopifyAdapter struct {
	config     *ShopifyConfig
	httpClient *http.Client
}

// NewShopifyAdapter creates a new Shopify adapter with the given configuration
func NewShopifyAdapter(config *ShopifyConfig) (*ShopifyAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &ShopifyAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Code returns the provider code this adapter handles
func (a *ShopifyAdapter) Code() connection.ProviderCode {
	return connection.ProviderCodeShopify
}

// Probe verifies the credential against the shop endpoint. A readable shop
// resource proves both reachability and token validity.
func (a *ShopifyAdapter) Probe(ctx context.Context, cred *connection.ProviderCredential) error {
	body, err := a.get(ctx, cred, "/shop.json")
	if err != nil {
		return err
	}

	var resp shopifyShopResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("%w: shopify returned an unreadable shop payload", connection.ErrProviderUnreachable)
	}
	if resp.Shop == nil {
		return fmt.Errorf("%w: shopify returned no shop resource", connection.ErrProviderUnreachable)
	}
	return nil
}

// FetchCatalog streams the store's products page by page through fn and
// returns the provider-reported product count. A failure mid-pagination
// returns the count of items already delivered alongside the error.
func (a *ShopifyAdapter) FetchCatalog(ctx context.Context, cred *connection.ProviderCredential, fn func(page []catalog.RemoteItem) error) (int, error) {
	total, err := a.fetchProductCount(ctx, cred)
	if err != nil {
		return 0, err
	}

	fetched := 0
	path := fmt.Sprintf("/products.json?limit=%d", a.config.PageSize)

	for path != "" {
		body, next, err := a.getPage(ctx, cred, path)
		if err != nil {
			return fetched, err
		}

		var resp shopifyProductsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return fetched, fmt.Errorf("%w: shopify returned an unreadable products payload", connection.ErrProviderUnreachable)
		}

		if len(resp.Products) == 0 {
			break
		}

		page := make([]catalog.RemoteItem, 0, len(resp.Products))
		for i := range resp.Products {
			page = append(page, resp.Products[i].toRemoteItem())
		}

		if err := fn(page); err != nil {
			return fetched, err
		}
		fetched += len(page)

		path = next
	}

	if fetched > total {
		// The count endpoint lags behind product writes; trust what we saw
		total = fetched
	}
	return total, nil
}

// fetchProductCount reads the authoritative product count for the store
func (a *ShopifyAdapter) fetchProductCount(ctx context.Context, cred *connection.ProviderCredential) (int, error) {
	body, err := a.get(ctx, cred, "/products/count.json")
	if err != nil {
		return 0, err
	}

	var resp shopifyCountResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%w: shopify returned an unreadable count payload", connection.ErrProviderUnreachable)
	}
	return resp.Count, nil
}

// get performs a single authenticated GET against the Admin API
func (a *ShopifyAdapter) get(ctx context.Context, cred *connection.ProviderCredential, path string) ([]byte, error) {
	body, _, err := a.getPage(ctx, cred, path)
	return body, err
}

// getPage performs an authenticated GET and extracts the next-page path
// from the Link header when present
func (a *ShopifyAdapter) getPage(ctx context.Context, cred *connection.ProviderCredential, path string) ([]byte, string, error) {
	url := a.baseURL(cred) + "/admin/api/" + a.config.APIVersion + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", cred.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", connection.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, "", fmt.Errorf("shopify: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, "", fmt.Errorf("%w: shopify rejected the access token (HTTP %d)", connection.ErrProviderAuthFailed, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, "", fmt.Errorf("%w: shopify returned HTTP %d", connection.ErrProviderUnreachable, resp.StatusCode)
	}

	return body, nextPagePath(resp.Header.Get("Link"), a.config.APIVersion), nil
}

// baseURL derives the API origin from the credential's store domain, or the
// configured override when set
func (a *ShopifyAdapter) baseURL(cred *connection.ProviderCredential) string {
	if a.config.BaseURL != "" {
		return a.config.BaseURL
	}
	return "https://" + cred.StoreDomain
}

// linkNextPattern matches the rel=next entry of a Shopify Link header
var linkNextPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// nextPagePath extracts the next-page path from a Link header, relative to
// the /admin/api/{version} prefix. Returns empty when there is no next page.
func nextPagePath(linkHeader, apiVersion string) string {
	match := linkNextPattern.FindStringSubmatch(linkHeader)
	if match == nil {
		return ""
	}
	url := match[1]
	marker := "/admin/api/" + apiVersion
	i := strings.Index(url, marker)
	if i < 0 {
		return ""
	}
	return url[i+len(marker):]
}

// Ensure ShopifyAdapter implements CatalogProvider
var _ connection.CatalogProvider = (*ShopifyAdapter)(nil)
