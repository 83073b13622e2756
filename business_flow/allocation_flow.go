package businessflow

import (
	"context"
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
)

// AllocationFlow defines operations for assigning hardware units to requests
type AllocationFlow interface {
	Allocate(ctx context.Context, requestID string, metadata *ClientMetadata) (*dto.AllocateResponse, error)
	MyHardware(ctx context.Context, empID string, metadata *ClientMetadata) (*dto.MyHardwareResponse, error)
}

// AllocationFlowImpl implements AllocationFlow
type AllocationFlowImpl struct {
	requestRepo    repository.HardwareRequestRepository
	assetRepo      repository.AssetTypeRepository
	allocationRepo repository.AllocationRepository
	db             *gorm.DB
}

func NewAllocationFlow(
	requestRepo repository.HardwareRequestRepository,
	assetRepo repository.AssetTypeRepository,
	allocationRepo repository.AllocationRepository,
	db *gorm.DB,
) AllocationFlow {
	return &AllocationFlowImpl{
		requestRepo:    requestRepo,
		assetRepo:      assetRepo,
		allocationRepo: allocationRepo,
		db:             db,
	}
}

// Allocate picks the first free unit of the requested hardware, records the
// allocation, deducts stock, and moves the ticket to Approved, all in one
// transaction. When no unit is free or the stock runs short the ticket is
// recorded Rejected in its own small commit and the original failure is
// returned; nothing else sticks.
func (f *AllocationFlowImpl) Allocate(ctx context.Context, requestID string, metadata *ClientMetadata) (*dto.AllocateResponse, error) {
	var allocation *models.Allocation
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		request, err := f.requestRepo.ByRequestIDForUpdate(txCtx, requestID)
		if err != nil {
			return NewBusinessError("ALLOCATE_FAILED", "Failed to load request", err)
		}
		if request == nil {
			return ErrRequestNotFound
		}
		if request.Status != models.RequestStatusPending {
			return ErrRequestNotAllocatable
		}

		existing, err := f.allocationRepo.ByRequestID(txCtx, requestID)
		if err != nil {
			return NewBusinessError("ALLOCATE_FAILED", "Failed to check existing allocation", err)
		}
		if existing != nil && existing.Status == models.AllocationStatusAssigned {
			return ErrAlreadyAllocated
		}

		if request.AssetID == utils.ManualAssetID {
			return ErrAssetNotFound
		}
		asset, err := f.assetRepo.ByAssetID(txCtx, request.AssetID)
		if err != nil {
			return NewBusinessError("ALLOCATE_FAILED", "Failed to load asset", err)
		}
		if asset == nil {
			return ErrAssetNotFound
		}

		unit, err := f.firstFreeUnit(txCtx, asset.Name, asset.Model)
		if err != nil {
			return err
		}

		ok, err := f.assetRepo.DeductStock(txCtx, unit.AssetID, request.Quantity)
		if err != nil {
			return NewBusinessError("STOCK_DEDUCTION_FAILED", "Failed to deduct stock", err)
		}
		if !ok {
			return ErrInsufficientStock
		}

		allocation = &models.Allocation{
			RequestID: request.RequestID,
			AssetID:   unit.AssetID,
			EmpID:     request.EmpID,
			Status:    models.AllocationStatusAssigned,
		}
		if err := f.allocationRepo.Save(txCtx, allocation); err != nil {
			return NewBusinessError("ALLOCATE_FAILED", "Failed to record allocation", err)
		}

		request.Status = models.RequestStatusApproved
		request.Allocated = utils.ToPtr(true)
		if err := f.requestRepo.Update(txCtx, request); err != nil {
			return NewBusinessError("ALLOCATE_FAILED", "Failed to save request", err)
		}

		return nil
	})
	if err != nil {
		if IsNoFreeUnit(err) || IsInsufficientStock(err) {
			f.recordRejection(ctx, requestID)
		}
		return nil, err
	}

	return &dto.AllocateResponse{
		Message:     "Unit allocated successfully",
		RequestID:   allocation.RequestID,
		AssetID:     allocation.AssetID,
		EmpID:       allocation.EmpID,
		Status:      allocation.Status.String(),
		AllocatedAt: allocation.AllocatedAt.Format(time.RFC3339),
	}, nil
}

// firstFreeUnit scans the unit pool for the name+model in asset_id order and
// returns the lowest unit without an Assigned allocation. The pool rows are
// locked so concurrent allocators serialize here; the assigned-set read below
// always reflects committed allocations, and a unit never ends up with two
// Assigned rows.
func (f *AllocationFlowImpl) firstFreeUnit(ctx context.Context, name string, model *string) (*models.AssetType, error) {
	units, err := f.assetRepo.UnitsByNameModelForUpdate(ctx, name, model)
	if err != nil {
		return nil, NewBusinessError("ALLOCATE_FAILED", "Failed to list units", err)
	}
	if len(units) == 0 {
		return nil, ErrNoFreeUnit
	}

	ids := make([]string, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.AssetID)
	}
	taken, err := f.allocationRepo.AssignedAssetIDs(ctx, ids)
	if err != nil {
		return nil, NewBusinessError("ALLOCATE_FAILED", "Failed to list assigned units", err)
	}

	for _, u := range units {
		if _, held := taken[u.AssetID]; !held {
			return u, nil
		}
	}
	return nil, ErrNoFreeUnit
}

// recordRejection marks the ticket Rejected in its own transaction. Best
// effort; the allocation failure already rolled back.
func (f *AllocationFlowImpl) recordRejection(ctx context.Context, requestID string) {
	_ = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		request, err := f.requestRepo.ByRequestIDForUpdate(txCtx, requestID)
		if err != nil || request == nil {
			return err
		}
		if request.Status != models.RequestStatusPending {
			return nil
		}
		request.Status = models.RequestStatusRejected
		return f.requestRepo.Update(txCtx, request)
	})
}

// MyHardware lists the hardware currently assigned to an employee
func (f *AllocationFlowImpl) MyHardware(ctx context.Context, empID string, metadata *ClientMetadata) (*dto.MyHardwareResponse, error) {
	status := models.AllocationStatusAssigned
	rows, err := f.allocationRepo.ByFilter(ctx, models.AllocationFilter{
		EmpID:  &empID,
		Status: &status,
	}, "allocated_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("MY_HARDWARE_FAILED", "Failed to list allocations", err)
	}

	items := make([]dto.AllocationItem, 0, len(rows))
	for _, a := range rows {
		item := dto.AllocationItem{
			RequestID:   a.RequestID,
			AssetID:     a.AssetID,
			Status:      a.Status.String(),
			AllocatedAt: a.AllocatedAt.Format(time.RFC3339),
		}
		if asset, err := f.assetRepo.ByAssetID(ctx, a.AssetID); err == nil && asset != nil {
			item.AssetName = asset.Name
		}
		if a.ReturnedAt != nil {
			returned := a.ReturnedAt.Format(time.RFC3339)
			item.ReturnedAt = &returned
		}
		items = append(items, item)
	}

	return &dto.MyHardwareResponse{
		Message: "Allocations retrieved successfully",
		Items:   items,
	}, nil
}
