package repository

import (
	"context"
	"errors"

	"github.com/amirphl/Kusanagi/models"
	"gorm.io/gorm"
)

// PurchaseRepositoryImpl implements PurchaseRepository interface
type PurchaseRepositoryImpl struct {
	*BaseRepository[models.Purchase, models.PurchaseFilter]
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &PurchaseRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Purchase, models.PurchaseFilter](db),
	}
}

// ByPurchaseID finds a purchase by its public purchase ID
func (r *PurchaseRepositoryImpl) ByPurchaseID(ctx context.Context, purchaseID string) (*models.Purchase, error) {
	db := r.getDB(ctx)
	var purchase models.Purchase
	err := db.Where("purchase_id = ?", purchaseID).Last(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *PurchaseRepositoryImpl) applyFilter(query *gorm.DB, filter models.PurchaseFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.PurchaseID != nil {
		query = query.Where("purchase_id = ?", *filter.PurchaseID)
	}
	if filter.AssetID != nil {
		query = query.Where("asset_id = ?", *filter.AssetID)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.PurchasedAfter != nil {
		query = query.Where("purchased_at >= ?", *filter.PurchasedAfter)
	}
	if filter.PurchasedBefore != nil {
		query = query.Where("purchased_at <= ?", *filter.PurchasedBefore)
	}
	return query
}

// ByFilter retrieves purchases based on filter criteria
func (r *PurchaseRepositoryImpl) ByFilter(ctx context.Context, filter models.PurchaseFilter, orderBy string, limit, offset int) ([]*models.Purchase, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Purchase{}), filter)

	if orderBy == "" {
		orderBy = "purchased_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var purchases []*models.Purchase
	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// Count returns number of purchases matching filter
func (r *PurchaseRepositoryImpl) Count(ctx context.Context, filter models.PurchaseFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Purchase{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any purchase matches the filter
func (r *PurchaseRepositoryImpl) Exists(ctx context.Context, filter models.PurchaseFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
