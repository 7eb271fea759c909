package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shoplink/backend/internal/domain/connection"
	"github.com/shoplink/backend/internal/domain/shared"
)

// GormCredentialRepository implements CredentialRepository using GORM
type GormCredentialRepository struct {
	db *gorm.DB
}

// NewGormCredentialRepository creates a new GormCredentialRepository
func NewGormCredentialRepository(db *gorm.DB) *GormCredentialRepository {
	return &GormCredentialRepository{db: db}
}

// FindBySellerAndKind finds the credential for a (seller, kind) pair
func (r *GormCredentialRepository) FindBySellerAndKind(ctx context.Context, sellerID uuid.UUID, kind connection.ProviderKind) (*connection.ProviderCredential, error) {
	var cred connection.ProviderCredential
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND kind = ?", sellerID, kind).
		First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cred, nil
}

// Save persists a credential, replacing any existing row for the same
// (seller, kind) pair in a single statement
func (r *GormCredentialRepository) Save(ctx context.Context, cred *connection.ProviderCredential) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "seller_id"}, {Name: "kind"}},
			UpdateAll: true,
		}).
		Save(cred).Error
}

// ClearBySellerAndKind removes the credential for the pair. Clearing an
// empty slot succeeds.
func (r *GormCredentialRepository) ClearBySellerAndKind(ctx context.Context, sellerID uuid.UUID, kind connection.ProviderKind) error {
	return r.db.WithContext(ctx).
		Where("seller_id = ? AND kind = ?", sellerID, kind).
		Delete(&connection.ProviderCredential{}).Error
}

// Ensure GormCredentialRepository implements CredentialRepository
var _ connection.CredentialRepository = (*GormCredentialRepository)(nil)
