package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplink/backend/internal/domain/catalog"
	"github.com/shoplink/backend/internal/domain/connection"
)

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestShopifyConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *ShopifyConfig
		wantErr bool
	}{
		{name: "valid config", config: DefaultShopifyConfig(), wantErr: false},
		{name: "missing api version", config: &ShopifyConfig{PageSize: 250, TimeoutSeconds: 30}, wantErr: true},
		{name: "zero page size", config: &ShopifyConfig{APIVersion: "2024-01", TimeoutSeconds: 30}, wantErr: true},
		{name: "page size over shopify limit", config: &ShopifyConfig{APIVersion: "2024-01", PageSize: 500, TimeoutSeconds: 30}, wantErr: true},
		{name: "zero timeout", config: &ShopifyConfig{APIVersion: "2024-01", PageSize: 250}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrShopifyInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func shopifyCredential(t *testing.T) *connection.ProviderCredential {
	cred, err := connection.NewProviderCredential(uuid.New(), connection.CredentialInput{
		Code:        connection.ProviderCodeShopify,
		AccountID:   "demo-store",
		AccessToken: "shpat_test_token",
		StoreDomain: "demo-store.myshopify.com",
	})
	require.NoError(t, err)
	return cred
}

func newTestShopifyAdapter(t *testing.T, serverURL string, pageSize int) *ShopifyAdapter {
	config := DefaultShopifyConfig()
	config.BaseURL = serverURL
	config.PageSize = pageSize
	adapter, err := NewShopifyAdapter(config)
	require.NoError(t, err)
	return adapter
}

func shopifyTestProduct(id int64, title, price string) shopifyProduct {
	return shopifyProduct{
		ID:       id,
		Title:    title,
		BodyHTML: "<p>" + title + " description</p>",
		Status:   "active",
		Variants: []shopifyVariant{{ID: id * 10, Price: price}},
		Images:   []shopifyImage{{Src: fmt.Sprintf("https://cdn.example.com/%d.jpg", id)}},
	}
}

// ---------------------------------------------------------------------------
// Probe Tests
// ---------------------------------------------------------------------------

func TestShopifyAdapter_Probe(t *testing.T) {
	t.Run("accepts a valid credential", func(t *testing.T) {
		var gotToken string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/admin/api/2024-01/shop.json", r.URL.Path)
			gotToken = r.Header.Get("X-Shopify-Access-Token")
			json.NewEncoder(w).Encode(shopifyShopResponse{Shop: &shopifyShop{ID: 1, Name: "Demo"}})
		}))
		defer server.Close()

		adapter := newTestShopifyAdapter(t, server.URL, 250)
		err := adapter.Probe(context.Background(), shopifyCredential(t))

		assert.NoError(t, err)
		assert.Equal(t, "shpat_test_token", gotToken)
	})

	t.Run("maps 401 to auth failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		adapter := newTestShopifyAdapter(t, server.URL, 250)
		err := adapter.Probe(context.Background(), shopifyCredential(t))

		assert.ErrorIs(t, err, connection.ErrProviderAuthFailed)
	})

	t.Run("maps server errors to unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		adapter := newTestShopifyAdapter(t, server.URL, 250)
		err := adapter.Probe(context.Background(), shopifyCredential(t))

		assert.ErrorIs(t, err, connection.ErrProviderUnreachable)
	})

	t.Run("maps connection refused to unreachable", func(t *testing.T) {
		adapter := newTestShopifyAdapter(t, "http://127.0.0.1:1", 250)
		err := adapter.Probe(context.Background(), shopifyCredential(t))

		assert.ErrorIs(t, err, connection.ErrProviderUnreachable)
	})
}

// ---------------------------------------------------------------------------
// FetchCatalog Tests
// ---------------------------------------------------------------------------

func TestShopifyAdapter_FetchCatalog(t *testing.T) {
	t.Run("streams all pages in order", func(t *testing.T) {
		pages := [][]shopifyProduct{
			{shopifyTestProduct(1, "Mug", "12.50"), shopifyTestProduct(2, "Plate", "8.00")},
			{shopifyTestProduct(3, "Bowl", "6.25")},
		}

		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/admin/api/2024-01/products/count.json":
				json.NewEncoder(w).Encode(shopifyCountResponse{Count: 3})
			case r.URL.Path == "/admin/api/2024-01/products.json":
				pageInfo := r.URL.Query().Get("page_info")
				if pageInfo == "" {
					w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-01/products.json?page_info=cursor2&limit=2>; rel="next"`, server.URL))
					json.NewEncoder(w).Encode(shopifyProductsResponse{Products: pages[0]})
				} else {
					assert.Equal(t, "cursor2", pageInfo)
					json.NewEncoder(w).Encode(shopifyProductsResponse{Products: pages[1]})
				}
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		adapter := newTestShopifyAdapter(t, server.URL, 2)
		var got []catalog.RemoteItem
		total, err := adapter.FetchCatalog(context.Background(), shopifyCredential(t), func(page []catalog.RemoteItem) error {
			got = append(got, page...)
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, got, 3)
		assert.Equal(t, "shopify:1", got[0].ExternalRef)
		assert.Equal(t, "Mug", got[0].Name)
		require.NotNil(t, got[0].Description)
		assert.Equal(t, "Mug description", *got[0].Description)
		assert.True(t, got[0].Available)
		assert.Equal(t, "12.5", got[0].Price.String())
		assert.Equal(t, []string{"https://cdn.example.com/1.jpg"}, got[0].ImageURLs)
		assert.Equal(t, "shopify:3", got[2].ExternalRef)
	})

	t.Run("draft products map to unavailable", func(t *testing.T) {
		draft := shopifyTestProduct(9, "Hidden", "1.00")
		draft.Status = "draft"
		draft.BodyHTML = ""

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/admin/api/2024-01/products/count.json" {
				json.NewEncoder(w).Encode(shopifyCountResponse{Count: 1})
				return
			}
			json.NewEncoder(w).Encode(shopifyProductsResponse{Products: []shopifyProduct{draft}})
		}))
		defer server.Close()

		adapter := newTestShopifyAdapter(t, server.URL, 250)
		var got []catalog.RemoteItem
		_, err := adapter.FetchCatalog(context.Background(), shopifyCredential(t), func(page []catalog.RemoteItem) error {
			got = append(got, page...)
			return nil
		})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.False(t, got[0].Available)
		assert.Nil(t, got[0].Description)
	})

	t.Run("unparseable prices surface as negative, never zero", func(t *testing.T) {
		broken := shopifyTestProduct(7, "Mystery", "not-a-number")

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/admin/api/2024-01/products/count.json" {
				json.NewEncoder(w).Encode(shopifyCountResponse{Count: 1})
				return
			}
			json.NewEncoder(w).Encode(shopifyProductsResponse{Products: []shopifyProduct{broken}})
		}))
		defer server.Close()

		adapter := newTestShopifyAdapter(t, server.URL, 250)
		var got []catalog.RemoteItem
		_, err := adapter.FetchCatalog(context.Background(), shopifyCredential(t), func(page []catalog.RemoteItem) error {
			got = append(got, page...)
			return nil
		})

		require.NoError(t, err)
		require.Len(t, got, 1)
		// A negative price fails the upsert downstream, so the item counts
		// as errored instead of importing at a fabricated zero price.
		assert.True(t, got[0].Price.IsNegative())

		_, err = catalog.NewExternalItem(uuid.New(), got[0])
		assert.ErrorIs(t, err, catalog.ErrItemNegativePrice)
	})

	t.Run("returns partial count when pagination dies mid-pass", func(t *testing.T) {
		var server *httptest.Server
		requests := 0
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/admin/api/2024-01/products/count.json":
				json.NewEncoder(w).Encode(shopifyCountResponse{Count: 4})
			case r.URL.Query().Get("page_info") == "":
				requests++
				w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-01/products.json?page_info=cursor2&limit=2>; rel="next"`, server.URL))
				json.NewEncoder(w).Encode(shopifyProductsResponse{Products: []shopifyProduct{
					shopifyTestProduct(1, "One", "1.00"), shopifyTestProduct(2, "Two", "2.00"),
				}})
			default:
				w.WriteHeader(http.StatusInternalServerError)
			}
		}))
		defer server.Close()

		adapter := newTestShopifyAdapter(t, server.URL, 2)
		delivered := 0
		fetched, err := adapter.FetchCatalog(context.Background(), shopifyCredential(t), func(page []catalog.RemoteItem) error {
			delivered += len(page)
			return nil
		})

		assert.ErrorIs(t, err, connection.ErrProviderUnreachable)
		assert.Equal(t, 2, fetched)
		assert.Equal(t, 2, delivered)
	})

	t.Run("fails before any page when the count endpoint rejects", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		adapter := newTestShopifyAdapter(t, server.URL, 2)
		fetched, err := adapter.FetchCatalog(context.Background(), shopifyCredential(t), func(page []catalog.RemoteItem) error {
			t.Error("callback should not run")
			return nil
		})

		assert.ErrorIs(t, err, connection.ErrProviderAuthFailed)
		assert.Equal(t, 0, fetched)
	})

	t.Run("callback errors stop the fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/admin/api/2024-01/products/count.json" {
				json.NewEncoder(w).Encode(shopifyCountResponse{Count: 2})
				return
			}
			json.NewEncoder(w).Encode(shopifyProductsResponse{Products: []shopifyProduct{
				shopifyTestProduct(1, "One", "1.00"),
			}})
		}))
		defer server.Close()

		adapter := newTestShopifyAdapter(t, server.URL, 250)
		wantErr := context.Canceled
		_, err := adapter.FetchCatalog(context.Background(), shopifyCredential(t), func(page []catalog.RemoteItem) error {
			return wantErr
		})

		assert.ErrorIs(t, err, wantErr)
	})
}

// ---------------------------------------------------------------------------
// Link Header Tests
// ---------------------------------------------------------------------------

func TestNextPagePath(t *testing.T) {
	t.Run("extracts the next page", func(t *testing.T) {
		header := `<https://demo.myshopify.com/admin/api/2024-01/products.json?page_info=abc&limit=250>; rel="next"`
		assert.Equal(t, "/products.json?page_info=abc&limit=250", nextPagePath(header, "2024-01"))
	})

	t.Run("ignores previous-only headers", func(t *testing.T) {
		header := `<https://demo.myshopify.com/admin/api/2024-01/products.json?page_info=xyz>; rel="previous"`
		assert.Equal(t, "", nextPagePath(header, "2024-01"))
	})

	t.Run("empty header has no next page", func(t *testing.T) {
		assert.Equal(t, "", nextPagePath("", "2024-01"))
	})
}
