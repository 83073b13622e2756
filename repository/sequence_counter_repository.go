package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
)

// SequenceCounterRepositoryImpl implements SequenceCounterRepository interface
type SequenceCounterRepositoryImpl struct {
	*BaseRepository[models.SequenceCounter, models.SequenceCounterFilter]
}

// NewSequenceCounterRepository creates a new sequence counter repository
func NewSequenceCounterRepository(db *gorm.DB) SequenceCounterRepository {
	return &SequenceCounterRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SequenceCounter, models.SequenceCounterFilter](db),
	}
}

// Next atomically increments the named counter and returns the new value.
// The whole increment is a single upsert statement, so concurrent callers
// serialize on the counter row and never observe the same value.
func (r *SequenceCounterRepositoryImpl) Next(ctx context.Context, name string) (int64, error) {
	db := r.getDB(ctx)

	now := utils.UTCNow()
	var value int64
	err := db.Raw(`
		INSERT INTO sequence_counters (name, sequence_value, created_at, updated_at)
		VALUES (?, 1, ?, ?)
		ON CONFLICT (name) DO UPDATE
		SET sequence_value = sequence_counters.sequence_value + 1,
		    updated_at = EXCLUDED.updated_at
		RETURNING sequence_value`,
		name, now, now).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter %s: %w", name, err)
	}

	return value, nil
}

// ByName finds a counter by name
func (r *SequenceCounterRepositoryImpl) ByName(ctx context.Context, name string) (*models.SequenceCounter, error) {
	db := r.getDB(ctx)
	var counter models.SequenceCounter
	err := db.Where("name = ?", name).Last(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &counter, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *SequenceCounterRepositoryImpl) applyFilter(query *gorm.DB, filter models.SequenceCounterFilter) *gorm.DB {
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	return query
}

// ByFilter retrieves counters based on filter criteria
func (r *SequenceCounterRepositoryImpl) ByFilter(ctx context.Context, filter models.SequenceCounterFilter, orderBy string, limit, offset int) ([]*models.SequenceCounter, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SequenceCounter{}), filter)

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

	var rows []*models.SequenceCounter
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of counters matching filter
func (r *SequenceCounterRepositoryImpl) Count(ctx context.Context, filter models.SequenceCounterFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SequenceCounter{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any counter matches the filter
func (r *SequenceCounterRepositoryImpl) Exists(ctx context.Context, filter models.SequenceCounterFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
