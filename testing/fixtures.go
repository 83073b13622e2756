// Package testing provides test utilities and database setup for testing the hardware request system
package testing

import (
	"fmt"
	"math/rand"

	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestAssetType creates a catalog row with its own asset id and stock
func (tf *TestFixtures) CreateTestAssetType(name string, model *string, quantity int64) (*models.AssetType, error) {
	asset := &models.AssetType{
		AssetID:        fmt.Sprintf("AST-%05d", rand.Intn(90000)+10000),
		Name:           name,
		Model:          model,
		QuantityOnHand: quantity,
	}

	if err := tf.DB.DB.Create(asset).Error; err != nil {
		return nil, fmt.Errorf("failed to create test asset type: %w", err)
	}

	return asset, nil
}

// CreateTestAssetUnit creates a catalog row with an explicit asset id, useful
// when a test depends on the asset_id ordering of a unit pool
func (tf *TestFixtures) CreateTestAssetUnit(assetID, name string, model *string, quantity int64) (*models.AssetType, error) {
	asset := &models.AssetType{
		AssetID:        assetID,
		Name:           name,
		Model:          model,
		QuantityOnHand: quantity,
	}

	if err := tf.DB.DB.Create(asset).Error; err != nil {
		return nil, fmt.Errorf("failed to create test asset unit %s: %w", assetID, err)
	}

	return asset, nil
}

// CreateTestVendor creates a vendor row
func (tf *TestFixtures) CreateTestVendor(name string) (*models.Vendor, error) {
	vendor := &models.Vendor{
		VendorID: fmt.Sprintf("VEN-%04d", rand.Intn(9000)+1000),
		Name:     name,
	}

	if err := tf.DB.DB.Create(vendor).Error; err != nil {
		return nil, fmt.Errorf("failed to create test vendor: %w", err)
	}

	return vendor, nil
}

// CreateTestRequest creates a hardware request in the given status
func (tf *TestFixtures) CreateTestRequest(empID string, asset *models.AssetType, status models.RequestStatus) (*models.HardwareRequest, error) {
	request := &models.HardwareRequest{
		RequestID:  fmt.Sprintf("REQ-%06d", rand.Intn(900000)+100000),
		EmpID:      empID,
		AssetID:    asset.AssetID,
		AssetName:  asset.Name,
		Department: "Engineering",
		Quantity:   1,
		Status:     status,
		Priority:   models.RequestPriorityLow,
		Assigned:   utils.ToPtr(false),
		Allocated:  utils.ToPtr(false),
	}

	if err := tf.DB.DB.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create test request: %w", err)
	}

	return request, nil
}

// CreateTestManualRequest creates a request for hardware outside the catalog
func (tf *TestFixtures) CreateTestManualRequest(empID, assetName string, status models.RequestStatus) (*models.HardwareRequest, error) {
	request := &models.HardwareRequest{
		RequestID:  fmt.Sprintf("REQ-%06d", rand.Intn(900000)+100000),
		EmpID:      empID,
		AssetID:    utils.ManualAssetID,
		AssetName:  assetName,
		Department: "Engineering",
		Quantity:   1,
		Status:     status,
		Priority:   models.RequestPriorityLow,
		Assigned:   utils.ToPtr(false),
		Allocated:  utils.ToPtr(false),
	}

	if err := tf.DB.DB.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create test manual request: %w", err)
	}

	return request, nil
}

// CreateTestAllocation ties a unit to an employee
func (tf *TestFixtures) CreateTestAllocation(request *models.HardwareRequest, assetID string, status models.AllocationStatus) (*models.Allocation, error) {
	allocation := &models.Allocation{
		RequestID: request.RequestID,
		AssetID:   assetID,
		EmpID:     request.EmpID,
		Status:    status,
	}

	if err := tf.DB.DB.Create(allocation).Error; err != nil {
		return nil, fmt.Errorf("failed to create test allocation: %w", err)
	}

	return allocation, nil
}

// CreateUnitPool creates a pool of single-quantity unit rows sharing a name and model
func (tf *TestFixtures) CreateUnitPool(name string, model *string, assetIDs []string) ([]*models.AssetType, error) {
	var units []*models.AssetType
	for _, assetID := range assetIDs {
		unit, err := tf.CreateTestAssetUnit(assetID, name, model, 1)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}
