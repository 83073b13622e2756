// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/app/services"
	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/amirphl/Kusanagi/config"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	testingutil "github.com/amirphl/Kusanagi/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntakeFlow(testDB *testingutil.TestDB) businessflow.IntakeFlow {
	assetRepo := repository.NewAssetTypeRepository(testDB.DB)
	vendorRepo := repository.NewVendorRepository(testDB.DB)
	purchaseRepo := repository.NewPurchaseRepository(testDB.DB)
	counterRepo := repository.NewSequenceCounterRepository(testDB.DB)
	allocator := services.NewSequenceAllocator(counterRepo)
	return businessflow.NewIntakeFlow(assetRepo, vendorRepo, purchaseRepo, allocator, testDB.DB)
}

func TestIntake(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newIntakeFlow(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("FirstIntakeCreatesEverything", func(t *testing.T) {
			cost := 1299.00
			resp, err := flow.Intake(ctx, &dto.IntakeRequest{
				AssetName:  "Laptop",
				Quantity:   10,
				UnitCost:   &cost,
				VendorName: "Acme Supplies",
			}, testMetadata())
			require.NoError(t, err)

			assert.Equal(t, "PUR-000001", resp.PurchaseID)
			assert.Equal(t, "AST-10001", resp.AssetID)
			assert.Equal(t, "VEN-0001", resp.VendorID)
			assert.Equal(t, int64(10), resp.Quantity)
			assert.Equal(t, int64(10), resp.NewQuantity)
		})

		t.Run("RepeatDeliveryRestocksSameAsset", func(t *testing.T) {
			resp, err := flow.Intake(ctx, &dto.IntakeRequest{
				AssetName:  "Laptop",
				Quantity:   5,
				VendorName: "Acme Supplies",
			}, testMetadata())
			require.NoError(t, err)

			// Same asset and vendor, fresh purchase record
			assert.Equal(t, "AST-10001", resp.AssetID)
			assert.Equal(t, "VEN-0001", resp.VendorID)
			assert.Equal(t, "PUR-000002", resp.PurchaseID)
			assert.Equal(t, int64(15), resp.NewQuantity)
		})

		t.Run("DistinctModelsGetSeparateAssets", func(t *testing.T) {
			model := "UltraWide"
			resp, err := flow.Intake(ctx, &dto.IntakeRequest{
				AssetName:  "Laptop",
				Model:      &model,
				Quantity:   2,
				VendorName: "Acme Supplies",
			}, testMetadata())
			require.NoError(t, err)

			assert.Equal(t, "AST-10002", resp.AssetID)
			assert.Equal(t, int64(2), resp.NewQuantity)
		})

		t.Run("NewVendorGetsNextIdentifier", func(t *testing.T) {
			resp, err := flow.Intake(ctx, &dto.IntakeRequest{
				AssetName:  "Monitor",
				Quantity:   3,
				VendorName: "Print Partners",
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "VEN-0002", resp.VendorID)
		})

		t.Run("InvalidQuantity", func(t *testing.T) {
			_, err := flow.Intake(ctx, &dto.IntakeRequest{
				AssetName:  "Laptop",
				Quantity:   0,
				VendorName: "Acme Supplies",
			}, testMetadata())
			assert.True(t, businessflow.IsInvalidQuantity(err))
		})

		t.Run("PurchaseRecordPersisted", func(t *testing.T) {
			purchaseRepo := repository.NewPurchaseRepository(testDB.DB)
			purchase, err := purchaseRepo.ByPurchaseID(ctx, "PUR-000001")
			require.NoError(t, err)
			require.NotNil(t, purchase)
			assert.Equal(t, "AST-10001", purchase.AssetID)
			assert.Equal(t, "VEN-0001", purchase.VendorID)
			require.NotNil(t, purchase.UnitCost)
			assert.InDelta(t, 1299.00, *purchase.UnitCost, 0.001)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListInventory(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newIntakeFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		peripherals := "Peripherals"
		computing := "Computing"
		_, err := fixtures.CreateTestAssetUnit("AST-10001", "Laptop", nil, 10)
		require.NoError(t, err)
		require.NoError(t, testDB.DB.Model(&models.AssetType{}).
			Where("asset_id = ?", "AST-10001").Update("category", computing).Error)
		_, err = fixtures.CreateTestAssetUnit("AST-10002", "Keyboard", nil, 2)
		require.NoError(t, err)
		require.NoError(t, testDB.DB.Model(&models.AssetType{}).
			Where("asset_id = ?", "AST-10002").Update("category", peripherals).Error)
		_, err = fixtures.CreateTestAssetUnit("AST-10003", "Webcam", nil, 0)
		require.NoError(t, err)

		t.Run("ListsAllInAssetOrder", func(t *testing.T) {
			resp, err := flow.ListInventory(ctx, &dto.ListInventoryRequest{}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, int64(3), resp.Total)
			require.Len(t, resp.Items, 3)
			assert.Equal(t, "AST-10001", resp.Items[0].AssetID)
			assert.Equal(t, models.StockStatusIn, resp.Items[0].StockStatus)
			assert.Equal(t, models.StockStatusLow, resp.Items[1].StockStatus)
			assert.Equal(t, models.StockStatusOut, resp.Items[2].StockStatus)
		})

		t.Run("SearchFilter", func(t *testing.T) {
			search := "Lap"
			resp, err := flow.ListInventory(ctx, &dto.ListInventoryRequest{Search: &search}, testMetadata())
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "Laptop", resp.Items[0].Name)
		})

		t.Run("CategoryFilter", func(t *testing.T) {
			resp, err := flow.ListInventory(ctx, &dto.ListInventoryRequest{Category: &peripherals}, testMetadata())
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "Keyboard", resp.Items[0].Name)
		})

		t.Run("StockStatusFilter", func(t *testing.T) {
			status := models.StockStatusOut
			resp, err := flow.ListInventory(ctx, &dto.ListInventoryRequest{StockStatus: &status}, testMetadata())
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "Webcam", resp.Items[0].Name)
		})

		t.Run("FilterOptions", func(t *testing.T) {
			resp, err := flow.InventoryFilterOptions(ctx, testMetadata())
			require.NoError(t, err)
			assert.Contains(t, resp.Categories, "Computing")
			assert.Contains(t, resp.Categories, "Peripherals")
			assert.Len(t, resp.StockStatuses, 3)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCatalogFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		assetRepo := repository.NewAssetTypeRepository(testDB.DB)
		allocationRepo := repository.NewAllocationRepository(testDB.DB)
		flow := businessflow.NewCatalogFlow(assetRepo, allocationRepo, &config.CacheConfig{}, nil)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		model := "T14"
		units, err := fixtures.CreateUnitPool("ThinkPad", &model, []string{"AST-10001", "AST-10002"})
		require.NoError(t, err)
		_, err = fixtures.CreateTestAssetType("Mouse", nil, 7)
		require.NoError(t, err)

		heldReq, err := fixtures.CreateTestRequest("E-1001", units[0], models.RequestStatusApproved)
		require.NoError(t, err)
		_, err = fixtures.CreateTestAllocation(heldReq, "AST-10001", models.AllocationStatusAssigned)
		require.NoError(t, err)

		t.Run("Names", func(t *testing.T) {
			resp, err := flow.Names(ctx, testMetadata())
			require.NoError(t, err)
			assert.Contains(t, resp.Names, "ThinkPad")
			assert.Contains(t, resp.Names, "Mouse")
		})

		t.Run("Models", func(t *testing.T) {
			resp, err := flow.Models(ctx, "ThinkPad", testMetadata())
			require.NoError(t, err)
			assert.Equal(t, []string{"T14"}, resp.Models)
		})

		t.Run("ModelsNameRequired", func(t *testing.T) {
			_, err := flow.Models(ctx, "  ", testMetadata())
			assert.Error(t, err)
		})

		t.Run("Availability", func(t *testing.T) {
			resp, err := flow.Availability(ctx, "Mouse", 5, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, int64(7), resp.Available)
			assert.True(t, resp.Sufficient)

			resp, err = flow.Availability(ctx, "Mouse", 8, testMetadata())
			require.NoError(t, err)
			assert.False(t, resp.Sufficient)
		})

		t.Run("AvailabilityInvalidQuantity", func(t *testing.T) {
			_, err := flow.Availability(ctx, "Mouse", 0, testMetadata())
			assert.True(t, businessflow.IsInvalidQuantity(err))
		})

		t.Run("AvailabilityUnknownName", func(t *testing.T) {
			resp, err := flow.Availability(ctx, "Hoverboard", 1, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, int64(0), resp.Available)
			assert.False(t, resp.Sufficient)
		})

		t.Run("FreeUnitsExcludeAssigned", func(t *testing.T) {
			resp, err := flow.FreeUnits(ctx, "ThinkPad", &model, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, 1, resp.FreeCount)
			assert.Equal(t, []string{"AST-10002"}, resp.FreeUnits)
		})

		return nil
	})
	require.NoError(t, err)
}
