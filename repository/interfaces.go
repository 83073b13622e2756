// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Kusanagi/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// SequenceCounterRepository defines operations for named monotonic counters
type SequenceCounterRepository interface {
	Repository[models.SequenceCounter, models.SequenceCounterFilter]
	// Next atomically increments the named counter and returns the new value.
	// The first call for a name creates the counter and returns 1.
	Next(ctx context.Context, name string) (int64, error)
	ByName(ctx context.Context, name string) (*models.SequenceCounter, error)
}

// AssetTypeRepository defines operations for the hardware catalog and stock ledger
type AssetTypeRepository interface {
	Repository[models.AssetType, models.AssetTypeFilter]
	ByAssetID(ctx context.Context, assetID string) (*models.AssetType, error)
	ByName(ctx context.Context, name string) (*models.AssetType, error)
	// UnitsByNameModel lists catalog rows sharing name and model ordered by asset_id ASC
	UnitsByNameModel(ctx context.Context, name string, model *string) ([]*models.AssetType, error)
	// UnitsByNameModelForUpdate is UnitsByNameModel with the rows locked for
	// the current transaction, so concurrent allocators over the same pool
	// serialize. Callers must run inside WithTransaction.
	UnitsByNameModelForUpdate(ctx context.Context, name string, model *string) ([]*models.AssetType, error)
	// DeductStock subtracts amount when enough stock is on hand. Returns false
	// when the guard fails (missing row or insufficient quantity); the quantity
	// never goes negative.
	DeductStock(ctx context.Context, assetID string, amount int64) (bool, error)
	// Restock adds amount unconditionally and returns the new quantity
	Restock(ctx context.Context, assetID string, amount int64) (int64, error)
	CurrentQuantity(ctx context.Context, assetID string) (*int64, error)
	TotalQuantityByName(ctx context.Context, name string) (int64, error)
	DistinctNames(ctx context.Context) ([]string, error)
	ModelsByName(ctx context.Context, name string) ([]string, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}

// HardwareRequestRepository defines operations for hardware requests
type HardwareRequestRepository interface {
	Repository[models.HardwareRequest, models.HardwareRequestFilter]
	ByRequestID(ctx context.Context, requestID string) (*models.HardwareRequest, error)
	// ByRequestIDForUpdate locks the row for the current transaction. Callers
	// must run inside WithTransaction or the lock is released immediately.
	ByRequestIDForUpdate(ctx context.Context, requestID string) (*models.HardwareRequest, error)
	Update(ctx context.Context, request *models.HardwareRequest) error
	DistinctDepartments(ctx context.Context) ([]string, error)
}

// AllocationRepository defines operations for unit allocations
type AllocationRepository interface {
	Repository[models.Allocation, models.AllocationFilter]
	// AssignedAssetIDs returns the subset of assetIDs currently holding an
	// Assigned allocation
	AssignedAssetIDs(ctx context.Context, assetIDs []string) (map[string]struct{}, error)
	ListByEmp(ctx context.Context, empID string) ([]*models.Allocation, error)
	ByRequestID(ctx context.Context, requestID string) (*models.Allocation, error)
}

// PurchaseRepository defines operations for intake purchase records
type PurchaseRepository interface {
	Repository[models.Purchase, models.PurchaseFilter]
	ByPurchaseID(ctx context.Context, purchaseID string) (*models.Purchase, error)
}

// VendorRepository defines operations for vendors
type VendorRepository interface {
	Repository[models.Vendor, models.VendorFilter]
	ByName(ctx context.Context, name string) (*models.Vendor, error)
}
