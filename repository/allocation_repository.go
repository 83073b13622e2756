package repository

import (
	"context"
	"errors"

	"github.com/amirphl/Kusanagi/models"
	"gorm.io/gorm"
)

// AllocationRepositoryImpl implements AllocationRepository interface
type AllocationRepositoryImpl struct {
	*BaseRepository[models.Allocation, models.AllocationFilter]
}

// NewAllocationRepository creates a new allocation repository
func NewAllocationRepository(db *gorm.DB) AllocationRepository {
	return &AllocationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Allocation, models.AllocationFilter](db),
	}
}

// AssignedAssetIDs returns the subset of assetIDs currently holding an
// Assigned allocation
func (r *AllocationRepositoryImpl) AssignedAssetIDs(ctx context.Context, assetIDs []string) (map[string]struct{}, error) {
	taken := make(map[string]struct{})
	if len(assetIDs) == 0 {
		return taken, nil
	}

	db := r.getDB(ctx)
	var ids []string
	err := db.Model(&models.Allocation{}).
		Where("asset_id IN ? AND status = ?", assetIDs, models.AllocationStatusAssigned).
		Pluck("asset_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		taken[id] = struct{}{}
	}
	return taken, nil
}

// ListByEmp lists an employee's allocations, newest first
func (r *AllocationRepositoryImpl) ListByEmp(ctx context.Context, empID string) ([]*models.Allocation, error) {
	db := r.getDB(ctx)
	var allocations []*models.Allocation
	err := db.Where("emp_id = ?", empID).
		Order("allocated_at DESC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}
	return allocations, nil
}

// ByRequestID finds the allocation tied to a request, if any
func (r *AllocationRepositoryImpl) ByRequestID(ctx context.Context, requestID string) (*models.Allocation, error) {
	db := r.getDB(ctx)
	var allocation models.Allocation
	err := db.Where("request_id = ?", requestID).Last(&allocation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &allocation, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *AllocationRepositoryImpl) applyFilter(query *gorm.DB, filter models.AllocationFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.RequestID != nil {
		query = query.Where("request_id = ?", *filter.RequestID)
	}
	if filter.AssetID != nil {
		query = query.Where("asset_id = ?", *filter.AssetID)
	}
	if filter.EmpID != nil {
		query = query.Where("emp_id = ?", *filter.EmpID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// ByFilter retrieves allocations based on filter criteria
func (r *AllocationRepositoryImpl) ByFilter(ctx context.Context, filter models.AllocationFilter, orderBy string, limit, offset int) ([]*models.Allocation, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Allocation{}), filter)

	if orderBy == "" {
		orderBy = "allocated_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var allocations []*models.Allocation
	if err := query.Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// Count returns number of allocations matching filter
func (r *AllocationRepositoryImpl) Count(ctx context.Context, filter models.AllocationFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Allocation{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any allocation matches the filter
func (r *AllocationRepositoryImpl) Exists(ctx context.Context, filter models.AllocationFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
