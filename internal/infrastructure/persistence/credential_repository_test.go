package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shoplink/backend/internal/domain/catalog"
	"github.com/shoplink/backend/internal/domain/connection"
	"github.com/shoplink/backend/internal/domain/shared"
)

func setupCredentialTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&connection.ProviderCredential{})
	require.NoError(t, err)

	return db
}

func newTestCredential(t *testing.T, sellerID uuid.UUID, code connection.ProviderCode) *connection.ProviderCredential {
	input := connection.CredentialInput{
		Code:        code,
		AccountID:   "account-123",
		AccessToken: "token-abc",
	}
	if code.Kind() == connection.ProviderKindCatalog {
		input.StoreDomain = "demo-store.myshopify.com"
	}
	cred, err := connection.NewProviderCredential(sellerID, input)
	require.NoError(t, err)
	return cred
}

func TestGormCredentialRepository_SaveAndFind(t *testing.T) {
	db := setupCredentialTestDB(t)
	repo := NewGormCredentialRepository(db)
	ctx := context.Background()
	sellerID := uuid.New()

	t.Run("saves and finds a credential by seller and kind", func(t *testing.T) {
		cred := newTestCredential(t, sellerID, connection.ProviderCodeShopify)
		require.NoError(t, repo.Save(ctx, cred))

		found, err := repo.FindBySellerAndKind(ctx, sellerID, connection.ProviderKindCatalog)
		require.NoError(t, err)
		assert.Equal(t, connection.ProviderCodeShopify, found.Code)
		assert.Equal(t, "demo-store.myshopify.com", found.StoreDomain)
		assert.Equal(t, "token-abc", found.AccessToken)
	})

	t.Run("returns ErrNotFound for an unconnected kind", func(t *testing.T) {
		_, err := repo.FindBySellerAndKind(ctx, sellerID, connection.ProviderKindMessaging)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("kinds are independent slots", func(t *testing.T) {
		cred := newTestCredential(t, sellerID, connection.ProviderCodeWhatsAppCloud)
		require.NoError(t, repo.Save(ctx, cred))

		messaging, err := repo.FindBySellerAndKind(ctx, sellerID, connection.ProviderKindMessaging)
		require.NoError(t, err)
		assert.Equal(t, connection.ProviderCodeWhatsAppCloud, messaging.Code)

		catalogCred, err := repo.FindBySellerAndKind(ctx, sellerID, connection.ProviderKindCatalog)
		require.NoError(t, err)
		assert.Equal(t, connection.ProviderCodeShopify, catalogCred.Code)
	})
}

func TestGormCredentialRepository_SaveReplaces(t *testing.T) {
	db := setupCredentialTestDB(t)
	repo := NewGormCredentialRepository(db)
	ctx := context.Background()
	sellerID := uuid.New()

	first := newTestCredential(t, sellerID, connection.ProviderCodeWhatsAppCloud)
	require.NoError(t, repo.Save(ctx, first))

	// Reconnecting with fresh input replaces the stored row
	second, err := connection.NewProviderCredential(sellerID, connection.CredentialInput{
		Code:        connection.ProviderCodeWhatsAppCloud,
		AccountID:   "account-456",
		AccessToken: "token-rotated",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	found, err := repo.FindBySellerAndKind(ctx, sellerID, connection.ProviderKindMessaging)
	require.NoError(t, err)
	assert.Equal(t, "account-456", found.AccountID)
	assert.Equal(t, "token-rotated", found.AccessToken)

	var count int64
	require.NoError(t, db.Model(&connection.ProviderCredential{}).
		Where("seller_id = ?", sellerID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormCredentialRepository_Clear(t *testing.T) {
	db := setupCredentialTestDB(t)
	repo := NewGormCredentialRepository(db)
	ctx := context.Background()
	sellerID := uuid.New()

	t.Run("removes the credential", func(t *testing.T) {
		cred := newTestCredential(t, sellerID, connection.ProviderCodeShopify)
		require.NoError(t, repo.Save(ctx, cred))

		err := repo.ClearBySellerAndKind(ctx, sellerID, connection.ProviderKindCatalog)
		require.NoError(t, err)

		_, err = repo.FindBySellerAndKind(ctx, sellerID, connection.ProviderKindCatalog)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("clearing an empty slot succeeds", func(t *testing.T) {
		err := repo.ClearBySellerAndKind(ctx, uuid.New(), connection.ProviderKindMessaging)
		assert.NoError(t, err)
	})
}

func TestGormCredentialRepository_SyncCounts(t *testing.T) {
	db := setupCredentialTestDB(t)
	repo := NewGormCredentialRepository(db)
	ctx := context.Background()
	sellerID := uuid.New()

	cred := newTestCredential(t, sellerID, connection.ProviderCodeShopify)
	cred.RecordSync(catalog.SyncSummary{
		Imported:    7,
		Updated:     3,
		Errored:     1,
		TotalRemote: 11,
		SyncedAt:    time.Now(),
	})
	require.NoError(t, repo.Save(ctx, cred))

	found, err := repo.FindBySellerAndKind(ctx, sellerID, connection.ProviderKindCatalog)
	require.NoError(t, err)

	summary := found.LastSummary()
	require.NotNil(t, summary)
	assert.Equal(t, 7, summary.Imported)
	assert.Equal(t, 3, summary.Updated)
	assert.Equal(t, 1, summary.Errored)
	assert.Equal(t, 11, summary.TotalRemote)
}
