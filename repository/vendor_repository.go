package repository

import (
	"context"
	"errors"

	"github.com/amirphl/Kusanagi/models"
	"gorm.io/gorm"
)

// VendorRepositoryImpl implements VendorRepository interface
type VendorRepositoryImpl struct {
	*BaseRepository[models.Vendor, models.VendorFilter]
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &VendorRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Vendor, models.VendorFilter](db),
	}
}

// ByName finds a vendor by its name
func (r *VendorRepositoryImpl) ByName(ctx context.Context, name string) (*models.Vendor, error) {
	db := r.getDB(ctx)
	var vendor models.Vendor
	err := db.Where("name = ?", name).Last(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *VendorRepositoryImpl) applyFilter(query *gorm.DB, filter models.VendorFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	return query
}

// ByFilter retrieves vendors based on filter criteria
func (r *VendorRepositoryImpl) ByFilter(ctx context.Context, filter models.VendorFilter, orderBy string, limit, offset int) ([]*models.Vendor, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Vendor{}), filter)

	if orderBy == "" {
		orderBy = "name ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var vendors []*models.Vendor
	if err := query.Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// Count returns number of vendors matching filter
func (r *VendorRepositoryImpl) Count(ctx context.Context, filter models.VendorFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Vendor{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any vendor matches the filter
func (r *VendorRepositoryImpl) Exists(ctx context.Context, filter models.VendorFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
