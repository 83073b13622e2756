package businessflow

import (
	"context"
	"strings"
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/app/services"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
)

// IntakeFlow defines operations for booking vendor deliveries into stock
type IntakeFlow interface {
	Intake(ctx context.Context, req *dto.IntakeRequest, metadata *ClientMetadata) (*dto.IntakeResponse, error)
	ListInventory(ctx context.Context, req *dto.ListInventoryRequest, metadata *ClientMetadata) (*dto.ListInventoryResponse, error)
	InventoryFilterOptions(ctx context.Context, metadata *ClientMetadata) (*dto.InventoryFilterOptionsResponse, error)
}

// IntakeFlowImpl implements IntakeFlow
type IntakeFlowImpl struct {
	assetRepo    repository.AssetTypeRepository
	vendorRepo   repository.VendorRepository
	purchaseRepo repository.PurchaseRepository
	allocator    services.SequenceAllocator
	db           *gorm.DB
}

func NewIntakeFlow(
	assetRepo repository.AssetTypeRepository,
	vendorRepo repository.VendorRepository,
	purchaseRepo repository.PurchaseRepository,
	allocator services.SequenceAllocator,
	db *gorm.DB,
) IntakeFlow {
	return &IntakeFlowImpl{
		assetRepo:    assetRepo,
		vendorRepo:   vendorRepo,
		purchaseRepo: purchaseRepo,
		allocator:    allocator,
		db:           db,
	}
}

// Intake books one vendor delivery: vendor and asset are found or created,
// an immutable purchase record is written, and the stock increment lands in
// the same transaction. Either everything commits or nothing does.
func (f *IntakeFlowImpl) Intake(ctx context.Context, req *dto.IntakeRequest, metadata *ClientMetadata) (*dto.IntakeResponse, error) {
	req.AssetName = strings.TrimSpace(req.AssetName)
	req.VendorName = strings.TrimSpace(req.VendorName)
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var (
		purchase *models.Purchase
		assetID  string
		vendorID string
		newQty   int64
	)
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		vendor, err := f.findOrCreateVendor(txCtx, req)
		if err != nil {
			return err
		}
		vendorID = vendor.VendorID

		asset, err := f.findOrCreateAsset(txCtx, req)
		if err != nil {
			return err
		}
		assetID = asset.AssetID

		purchaseID, err := f.allocator.NextValue(txCtx, utils.PurchaseCounterName, services.SequenceOptions{
			Prefix:   utils.PurchaseIDPrefix,
			PadWidth: utils.PurchaseIDPadWidth,
		})
		if err != nil {
			return NewBusinessError("PURCHASE_ID_UNAVAILABLE", "Failed to allocate purchase identifier", err)
		}

		purchase = &models.Purchase{
			PurchaseID: purchaseID,
			AssetID:    asset.AssetID,
			VendorID:   vendor.VendorID,
			AssetName:  asset.Name,
			Quantity:   req.Quantity,
			UnitCost:   req.UnitCost,
		}
		if err := f.purchaseRepo.Save(txCtx, purchase); err != nil {
			return NewBusinessError("INTAKE_FAILED", "Failed to record purchase", err)
		}

		newQty, err = f.assetRepo.Restock(txCtx, asset.AssetID, req.Quantity)
		if err != nil {
			return NewBusinessError("RESTOCK_FAILED", "Failed to restock asset", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.IntakeResponse{
		Message:     "Intake recorded successfully",
		PurchaseID:  purchase.PurchaseID,
		AssetID:     assetID,
		VendorID:    vendorID,
		AssetName:   purchase.AssetName,
		Quantity:    purchase.Quantity,
		NewQuantity: newQty,
		PurchasedAt: purchase.PurchasedAt.Format(time.RFC3339),
	}, nil
}

func (f *IntakeFlowImpl) findOrCreateVendor(ctx context.Context, req *dto.IntakeRequest) (*models.Vendor, error) {
	vendor, err := f.vendorRepo.ByName(ctx, req.VendorName)
	if err != nil {
		return nil, NewBusinessError("INTAKE_FAILED", "Failed to look up vendor", err)
	}
	if vendor != nil {
		return vendor, nil
	}

	vendorID, err := f.allocator.NextValue(ctx, utils.VendorCounterName, services.SequenceOptions{
		Prefix:   utils.VendorIDPrefix,
		PadWidth: utils.VendorIDPadWidth,
	})
	if err != nil {
		return nil, NewBusinessError("VENDOR_ID_UNAVAILABLE", "Failed to allocate vendor identifier", err)
	}

	vendor = &models.Vendor{
		VendorID:     vendorID,
		Name:         req.VendorName,
		ContactEmail: req.VendorEmail,
		Phone:        req.VendorPhone,
	}
	if err := f.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, NewBusinessError("INTAKE_FAILED", "Failed to create vendor", err)
	}
	return vendor, nil
}

// findOrCreateAsset matches on name+model so distinct models of the same
// hardware keep separate ledger rows
func (f *IntakeFlowImpl) findOrCreateAsset(ctx context.Context, req *dto.IntakeRequest) (*models.AssetType, error) {
	units, err := f.assetRepo.UnitsByNameModel(ctx, req.AssetName, req.Model)
	if err != nil {
		return nil, NewBusinessError("INTAKE_FAILED", "Failed to look up asset", err)
	}
	if len(units) > 0 {
		return units[0], nil
	}

	assetID, err := f.allocator.NextValue(ctx, utils.AssetCounterName, services.SequenceOptions{
		Prefix:      utils.AssetIDPrefix,
		PadWidth:    utils.AssetIDPadWidth,
		StartOffset: utils.AssetIDStartOffset,
	})
	if err != nil {
		return nil, NewBusinessError("ASSET_ID_UNAVAILABLE", "Failed to allocate asset identifier", err)
	}

	asset := &models.AssetType{
		AssetID:  assetID,
		Name:     req.AssetName,
		Brand:    req.Brand,
		Model:    req.Model,
		Category: req.Category,
	}
	if err := f.assetRepo.Save(ctx, asset); err != nil {
		return nil, NewBusinessError("INTAKE_FAILED", "Failed to create asset", err)
	}
	return asset, nil
}

func (f *IntakeFlowImpl) ListInventory(ctx context.Context, req *dto.ListInventoryRequest, metadata *ClientMetadata) (*dto.ListInventoryResponse, error) {
	filter := models.AssetTypeFilter{}
	if req.Search != nil {
		trim := strings.TrimSpace(*req.Search)
		if trim != "" {
			filter.Search = &trim
		}
	}
	if req.Category != nil && *req.Category != "" {
		filter.Category = req.Category
	}

	page, pageSize, offset := normalizePagination(req.Page, req.PageSize)

	// Stock status is derived, so status filtering happens after the page is
	// loaded; the page may come back short when a status filter is active
	rows, err := f.assetRepo.ByFilter(ctx, filter, "asset_id ASC", pageSize, offset)
	if err != nil {
		return nil, NewBusinessError("LIST_INVENTORY_FAILED", "Failed to list inventory", err)
	}
	total, err := f.assetRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_INVENTORY_FAILED", "Failed to count inventory", err)
	}

	items := make([]dto.InventoryItem, 0, len(rows))
	for _, a := range rows {
		status := a.StockStatus()
		if req.StockStatus != nil && *req.StockStatus != status {
			continue
		}
		items = append(items, dto.InventoryItem{
			AssetID:        a.AssetID,
			Name:           a.Name,
			Brand:          a.Brand,
			Model:          a.Model,
			Category:       a.Category,
			QuantityOnHand: a.QuantityOnHand,
			StockStatus:    status,
			CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.ListInventoryResponse{
		Message:  "Inventory retrieved successfully",
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (f *IntakeFlowImpl) InventoryFilterOptions(ctx context.Context, metadata *ClientMetadata) (*dto.InventoryFilterOptionsResponse, error) {
	categories, err := f.assetRepo.DistinctCategories(ctx)
	if err != nil {
		return nil, NewBusinessError("FILTER_OPTIONS_FAILED", "Failed to load filter options", err)
	}

	return &dto.InventoryFilterOptionsResponse{
		Message:    "Filter options retrieved successfully",
		Categories: categories,
		StockStatuses: []string{
			models.StockStatusIn,
			models.StockStatusLow,
			models.StockStatusOut,
		},
	}, nil
}
