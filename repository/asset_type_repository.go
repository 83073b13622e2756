package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssetTypeRepositoryImpl implements AssetTypeRepository interface
type AssetTypeRepositoryImpl struct {
	*BaseRepository[models.AssetType, models.AssetTypeFilter]
}

// NewAssetTypeRepository creates a new asset type repository
func NewAssetTypeRepository(db *gorm.DB) AssetTypeRepository {
	return &AssetTypeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AssetType, models.AssetTypeFilter](db),
	}
}

// ByAssetID finds an asset type by its public asset ID
func (r *AssetTypeRepositoryImpl) ByAssetID(ctx context.Context, assetID string) (*models.AssetType, error) {
	db := r.getDB(ctx)
	var asset models.AssetType
	err := db.Where("asset_id = ?", assetID).Last(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

// ByName finds the most recent asset type carrying the given name
func (r *AssetTypeRepositoryImpl) ByName(ctx context.Context, name string) (*models.AssetType, error) {
	db := r.getDB(ctx)
	var asset models.AssetType
	err := db.Where("name = ?", name).Last(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

// UnitsByNameModel lists catalog rows sharing name and model ordered by
// asset_id ASC. A nil model matches rows whose model is NULL.
func (r *AssetTypeRepositoryImpl) UnitsByNameModel(ctx context.Context, name string, model *string) ([]*models.AssetType, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.AssetType{}).Where("name = ?", name)
	if model != nil {
		query = query.Where("model = ?", *model)
	} else {
		query = query.Where("model IS NULL")
	}

	var units []*models.AssetType
	if err := query.Order("asset_id ASC").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// UnitsByNameModelForUpdate locks the pool's rows in asset_id order. Two
// transactions scanning the same pool block each other here, so the free-unit
// decision downstream always sees committed allocations.
func (r *AssetTypeRepositoryImpl) UnitsByNameModelForUpdate(ctx context.Context, name string, model *string) ([]*models.AssetType, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.AssetType{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name)
	if model != nil {
		query = query.Where("model = ?", *model)
	} else {
		query = query.Where("model IS NULL")
	}

	var units []*models.AssetType
	if err := query.Order("asset_id ASC").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// DeductStock subtracts amount from the row's quantity when enough stock is
// on hand. The guard lives in the WHERE clause so concurrent deductions
// cannot drive the quantity below zero.
func (r *AssetTypeRepositoryImpl) DeductStock(ctx context.Context, assetID string, amount int64) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("deduct amount must be positive, got %d", amount)
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return false, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	now := utils.UTCNow()
	result := db.Exec(`
		UPDATE asset_types
		SET quantity_on_hand = quantity_on_hand - ?, updated_at = ?
		WHERE asset_id = ? AND quantity_on_hand >= ?`,
		amount, now, assetID, amount)
	if result.Error != nil {
		err = fmt.Errorf("failed to deduct stock for %s: %w", assetID, result.Error)
		return false, err
	}

	return result.RowsAffected > 0, nil
}

// Restock adds amount unconditionally and returns the new quantity
func (r *AssetTypeRepositoryImpl) Restock(ctx context.Context, assetID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("restock amount must be positive, got %d", amount)
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	now := utils.UTCNow()
	var quantity *int64
	err = db.Raw(`
		UPDATE asset_types
		SET quantity_on_hand = quantity_on_hand + ?, updated_at = ?
		WHERE asset_id = ?
		RETURNING quantity_on_hand`,
		amount, now, assetID).Scan(&quantity).Error
	if err != nil {
		err = fmt.Errorf("failed to restock %s: %w", assetID, err)
		return 0, err
	}
	if quantity == nil {
		err = fmt.Errorf("asset %s not found for restock", assetID)
		return 0, err
	}

	return *quantity, nil
}

// CurrentQuantity returns the on-hand quantity, or nil when the asset is unknown
func (r *AssetTypeRepositoryImpl) CurrentQuantity(ctx context.Context, assetID string) (*int64, error) {
	db := r.getDB(ctx)
	var asset models.AssetType
	err := db.Select("quantity_on_hand").Where("asset_id = ?", assetID).Last(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &asset.QuantityOnHand, nil
}

// TotalQuantityByName sums on-hand quantities across all rows with the name
func (r *AssetTypeRepositoryImpl) TotalQuantityByName(ctx context.Context, name string) (int64, error) {
	db := r.getDB(ctx)
	var total *int64
	err := db.Model(&models.AssetType{}).
		Select("SUM(quantity_on_hand)").
		Where("name = ?", name).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// DistinctNames lists all catalog names sorted alphabetically
func (r *AssetTypeRepositoryImpl) DistinctNames(ctx context.Context) ([]string, error) {
	db := r.getDB(ctx)
	var names []string
	err := db.Model(&models.AssetType{}).
		Distinct("name").
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// ModelsByName lists distinct non-null models recorded under the name
func (r *AssetTypeRepositoryImpl) ModelsByName(ctx context.Context, name string) ([]string, error) {
	db := r.getDB(ctx)
	var modelNames []string
	err := db.Model(&models.AssetType{}).
		Distinct("model").
		Where("name = ? AND model IS NOT NULL", name).
		Order("model ASC").
		Pluck("model", &modelNames).Error
	if err != nil {
		return nil, err
	}
	return modelNames, nil
}

// DistinctCategories lists distinct non-null categories in the catalog
func (r *AssetTypeRepositoryImpl) DistinctCategories(ctx context.Context) ([]string, error) {
	db := r.getDB(ctx)
	var categories []string
	err := db.Model(&models.AssetType{}).
		Distinct("category").
		Where("category IS NOT NULL").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *AssetTypeRepositoryImpl) applyFilter(query *gorm.DB, filter models.AssetTypeFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.AssetID != nil {
		query = query.Where("asset_id = ?", *filter.AssetID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.Model != nil {
		query = query.Where("model = ?", *filter.Model)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		query = query.Where("name ILIKE ? OR asset_id ILIKE ? OR model ILIKE ?", pattern, pattern, pattern)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves asset types based on filter criteria
func (r *AssetTypeRepositoryImpl) ByFilter(ctx context.Context, filter models.AssetTypeFilter, orderBy string, limit, offset int) ([]*models.AssetType, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.AssetType{}), filter)

	if orderBy == "" {
		orderBy = "asset_id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var assets []*models.AssetType
	if err := query.Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// Count returns number of asset types matching filter
func (r *AssetTypeRepositoryImpl) Count(ctx context.Context, filter models.AssetTypeFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.AssetType{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any asset type matches the filter
func (r *AssetTypeRepositoryImpl) Exists(ctx context.Context, filter models.AssetTypeFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
