package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/Kusanagi/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HardwareRequestRepositoryImpl implements HardwareRequestRepository interface
type HardwareRequestRepositoryImpl struct {
	*BaseRepository[models.HardwareRequest, models.HardwareRequestFilter]
}

// NewHardwareRequestRepository creates a new hardware request repository
func NewHardwareRequestRepository(db *gorm.DB) HardwareRequestRepository {
	return &HardwareRequestRepositoryImpl{
		BaseRepository: NewBaseRepository[models.HardwareRequest, models.HardwareRequestFilter](db),
	}
}

// ByRequestID finds a request by its public request ID
func (r *HardwareRequestRepositoryImpl) ByRequestID(ctx context.Context, requestID string) (*models.HardwareRequest, error) {
	db := r.getDB(ctx)
	var request models.HardwareRequest
	err := db.Where("request_id = ?", requestID).Last(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// ByRequestIDForUpdate locks the request row with SELECT ... FOR UPDATE.
// Callers must run inside WithTransaction or the lock is released immediately.
func (r *HardwareRequestRepositoryImpl) ByRequestIDForUpdate(ctx context.Context, requestID string) (*models.HardwareRequest, error) {
	db := r.getDB(ctx)
	var request models.HardwareRequest
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", requestID).
		Last(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// Update persists changes to an existing request
func (r *HardwareRequestRepositoryImpl) Update(ctx context.Context, request *models.HardwareRequest) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
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

	err = db.Save(request).Error
	if err != nil {
		return fmt.Errorf("failed to update request %s: %w", request.RequestID, err)
	}

	return nil
}

// DistinctDepartments lists departments that ever filed a request
func (r *HardwareRequestRepositoryImpl) DistinctDepartments(ctx context.Context) ([]string, error) {
	db := r.getDB(ctx)
	var departments []string
	err := db.Model(&models.HardwareRequest{}).
		Distinct("department").
		Order("department ASC").
		Pluck("department", &departments).Error
	if err != nil {
		return nil, err
	}
	return departments, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *HardwareRequestRepositoryImpl) applyFilter(query *gorm.DB, filter models.HardwareRequestFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.RequestID != nil {
		query = query.Where("request_id = ?", *filter.RequestID)
	}
	if filter.EmpID != nil {
		query = query.Where("emp_id = ?", *filter.EmpID)
	}
	if filter.AssetID != nil {
		query = query.Where("asset_id = ?", *filter.AssetID)
	}
	if filter.Department != nil {
		query = query.Where("department = ?", *filter.Department)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Assigned != nil {
		query = query.Where("assigned = ?", *filter.Assigned)
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		query = query.Where("request_id ILIKE ? OR emp_id ILIKE ? OR asset_name ILIKE ?", pattern, pattern, pattern)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves requests based on filter criteria
func (r *HardwareRequestRepositoryImpl) ByFilter(ctx context.Context, filter models.HardwareRequestFilter, orderBy string, limit, offset int) ([]*models.HardwareRequest, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.HardwareRequest{}), filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var requests []*models.HardwareRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Count returns number of requests matching filter
func (r *HardwareRequestRepositoryImpl) Count(ctx context.Context, filter models.HardwareRequestFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.HardwareRequest{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any request matches the filter
func (r *HardwareRequestRepositoryImpl) Exists(ctx context.Context, filter models.HardwareRequestFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
