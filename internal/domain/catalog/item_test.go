package catalog

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNativeItem(t *testing.T) {
	sellerID := uuid.New()

	t.Run("creates item with valid inputs", func(t *testing.T) {
		item, err := NewNativeItem(sellerID, "Espresso Beans", decimal.NewFromFloat(18.5))
		require.NoError(t, err)
		require.NotNil(t, item)

		assert.Equal(t, sellerID, item.SellerID)
		assert.Equal(t, "Espresso Beans", item.Name)
		assert.Equal(t, ItemSourceNative, item.Source)
		assert.Equal(t, "general", item.Category)
		assert.True(t, item.Available)
		assert.Nil(t, item.ExternalRef)
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, 1, item.GetVersion())
	})

	t.Run("fails with nil seller", func(t *testing.T) {
		_, err := NewNativeItem(uuid.Nil, "Espresso Beans", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrItemInvalidSellerID)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewNativeItem(sellerID, "", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrItemInvalidName)
	})

	t.Run("fails with overlong name", func(t *testing.T) {
		_, err := NewNativeItem(sellerID, strings.Repeat("x", 201), decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrItemNameTooLong)
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewNativeItem(sellerID, "Beans", decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, ErrItemNegativePrice)
	})
}

func TestNewExternalItem(t *testing.T) {
	sellerID := uuid.New()

	t.Run("creates item from remote snapshot entry", func(t *testing.T) {
		desc := "Dark roast"
		item, err := NewExternalItem(sellerID, RemoteItem{
			ExternalRef: "shopify:1001",
			Name:        "Imported Beans",
			Description: &desc,
			Price:       decimal.NewFromInt(20),
			Category:    "coffee",
			ImageURLs:   []string{"https://cdn.example.com/a.jpg"},
			Available:   true,
		})
		require.NoError(t, err)

		assert.Equal(t, ItemSourceExternal, item.Source)
		require.NotNil(t, item.ExternalRef)
		assert.Equal(t, "shopify:1001", *item.ExternalRef)
		assert.Equal(t, "Imported Beans", item.Name)
		assert.Equal(t, "coffee", item.Category)
		require.NotNil(t, item.Description)
		assert.Equal(t, "Dark roast", *item.Description)
		assert.True(t, item.Available)
	})

	t.Run("defaults category when remote has none", func(t *testing.T) {
		item, err := NewExternalItem(sellerID, RemoteItem{
			ExternalRef: "shopify:1002",
			Name:        "Plain",
			Price:       decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		assert.Equal(t, "general", item.Category)
	})

	t.Run("fails without external reference", func(t *testing.T) {
		_, err := NewExternalItem(sellerID, RemoteItem{Name: "Orphan", Price: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrItemMissingExternal)
	})

	t.Run("fails with invalid remote name", func(t *testing.T) {
		_, err := NewExternalItem(sellerID, RemoteItem{ExternalRef: "shopify:1003", Price: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrItemInvalidName)
	})
}

func TestItem_ApplyRemote(t *testing.T) {
	sellerID := uuid.New()

	t.Run("overwrites mutable fields", func(t *testing.T) {
		item, err := NewExternalItem(sellerID, RemoteItem{
			ExternalRef: "shopify:1",
			Name:        "Old Name",
			Price:       decimal.NewFromInt(10),
			Available:   true,
		})
		require.NoError(t, err)
		version := item.GetVersion()

		err = item.ApplyRemote(RemoteItem{
			ExternalRef: "shopify:1",
			Name:        "New Name",
			Price:       decimal.NewFromInt(12),
			Category:    "drinks",
			Available:   false,
		})
		require.NoError(t, err)

		assert.Equal(t, "New Name", item.Name)
		assert.True(t, decimal.NewFromInt(12).Equal(item.Price))
		assert.Equal(t, "drinks", item.Category)
		assert.False(t, item.Available)
		assert.Equal(t, version+1, item.GetVersion())
	})

	t.Run("clears description when remote drops it", func(t *testing.T) {
		desc := "had one"
		item, err := NewExternalItem(sellerID, RemoteItem{
			ExternalRef: "shopify:2",
			Name:        "Thing",
			Description: &desc,
			Price:       decimal.NewFromInt(1),
		})
		require.NoError(t, err)

		err = item.ApplyRemote(RemoteItem{
			ExternalRef: "shopify:2",
			Name:        "Thing",
			Price:       decimal.NewFromInt(1),
		})
		require.NoError(t, err)
		assert.Nil(t, item.Description)
	})

	t.Run("rejects native items", func(t *testing.T) {
		item, err := NewNativeItem(sellerID, "Native", decimal.NewFromInt(1))
		require.NoError(t, err)

		err = item.ApplyRemote(RemoteItem{ExternalRef: "shopify:3", Name: "X", Price: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrItemNotExternal)
	})

	t.Run("rejects mismatched reference", func(t *testing.T) {
		item, err := NewExternalItem(sellerID, RemoteItem{
			ExternalRef: "shopify:4",
			Name:        "Thing",
			Price:       decimal.NewFromInt(1),
		})
		require.NoError(t, err)

		err = item.ApplyRemote(RemoteItem{ExternalRef: "shopify:5", Name: "Other", Price: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrItemInvalidExternalID)
	})
}

func TestItem_UpdateManual(t *testing.T) {
	sellerID := uuid.New()

	t.Run("updates native item", func(t *testing.T) {
		item, err := NewNativeItem(sellerID, "Old", decimal.NewFromInt(5))
		require.NoError(t, err)

		desc := "updated"
		err = item.UpdateManual("New", &desc, decimal.NewFromInt(7), "snacks", []string{"https://cdn.example.com/i.jpg"})
		require.NoError(t, err)

		assert.Equal(t, "New", item.Name)
		assert.Equal(t, "snacks", item.Category)
		require.NotNil(t, item.Description)
		assert.Equal(t, "updated", *item.Description)
	})

	t.Run("keeps category when empty", func(t *testing.T) {
		item, err := NewNativeItem(sellerID, "Thing", decimal.NewFromInt(5))
		require.NoError(t, err)
		item.Category = "drinks"

		err = item.UpdateManual("Thing", nil, decimal.NewFromInt(5), "", nil)
		require.NoError(t, err)
		assert.Equal(t, "drinks", item.Category)
	})

	t.Run("rejects external items", func(t *testing.T) {
		item, err := NewExternalItem(sellerID, RemoteItem{
			ExternalRef: "shopify:9",
			Name:        "Imported",
			Price:       decimal.NewFromInt(1),
		})
		require.NoError(t, err)

		err = item.UpdateManual("Hijacked", nil, decimal.NewFromInt(1), "", nil)
		assert.ErrorIs(t, err, ErrExternallyManaged)
	})
}

func TestItem_SetAvailability(t *testing.T) {
	sellerID := uuid.New()

	t.Run("toggles native item", func(t *testing.T) {
		item, err := NewNativeItem(sellerID, "Thing", decimal.NewFromInt(1))
		require.NoError(t, err)

		require.NoError(t, item.SetAvailability(false))
		assert.False(t, item.Available)
		require.NoError(t, item.SetAvailability(true))
		assert.True(t, item.Available)
	})

	t.Run("rejects external items", func(t *testing.T) {
		item, err := NewExternalItem(sellerID, RemoteItem{
			ExternalRef: "shopify:10",
			Name:        "Imported",
			Price:       decimal.NewFromInt(1),
			Available:   true,
		})
		require.NoError(t, err)

		err = item.SetAvailability(false)
		assert.ErrorIs(t, err, ErrExternallyManaged)
		assert.True(t, item.Available)
	})
}

func TestItem_Demote(t *testing.T) {
	sellerID := uuid.New()

	t.Run("marks external item unavailable", func(t *testing.T) {
		item, err := NewExternalItem(sellerID, RemoteItem{
			ExternalRef: "shopify:11",
			Name:        "Imported",
			Price:       decimal.NewFromInt(1),
			Available:   true,
		})
		require.NoError(t, err)

		require.NoError(t, item.Demote())
		assert.False(t, item.Available)
	})

	t.Run("rejects native items", func(t *testing.T) {
		item, err := NewNativeItem(sellerID, "Native", decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.ErrorIs(t, item.Demote(), ErrItemNotExternal)
	})
}

func TestSyncSummary(t *testing.T) {
	t.Run("processed sums the three counts", func(t *testing.T) {
		s := SyncSummary{Imported: 3, Updated: 2, Errored: 1}
		assert.Equal(t, 6, s.Processed())
	})

	t.Run("all failed only when every processed item errored", func(t *testing.T) {
		assert.True(t, SyncSummary{Errored: 4}.AllFailed())
		assert.False(t, SyncSummary{Imported: 1, Errored: 4}.AllFailed())
		assert.False(t, SyncSummary{}.AllFailed())
	})
}
