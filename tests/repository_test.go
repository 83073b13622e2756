// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"sync"
	"testing"

	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	testingutil "github.com/amirphl/Kusanagi/testing"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceCounterRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewSequenceCounterRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("NextStartsAtOne", func(t *testing.T) {
			value, err := repo.Next(ctx, "fresh_counter")
			require.NoError(t, err)
			assert.Equal(t, int64(1), value)
		})

		t.Run("NextIsMonotonic", func(t *testing.T) {
			first, err := repo.Next(ctx, "monotonic_counter")
			require.NoError(t, err)
			second, err := repo.Next(ctx, "monotonic_counter")
			require.NoError(t, err)
			third, err := repo.Next(ctx, "monotonic_counter")
			require.NoError(t, err)

			assert.Equal(t, first+1, second)
			assert.Equal(t, second+1, third)
		})

		t.Run("IndependentCounters", func(t *testing.T) {
			a, err := repo.Next(ctx, "counter_a")
			require.NoError(t, err)
			b, err := repo.Next(ctx, "counter_b")
			require.NoError(t, err)

			assert.Equal(t, int64(1), a)
			assert.Equal(t, int64(1), b)
		})

		t.Run("ConcurrentNextNoDuplicates", func(t *testing.T) {
			const workers = 20

			var mu sync.Mutex
			seen := make(map[int64]bool)

			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					value, err := repo.Next(ctx, "concurrent_counter")
					assert.NoError(t, err)

					mu.Lock()
					defer mu.Unlock()
					assert.False(t, seen[value], "counter value %d issued twice", value)
					seen[value] = true
				}()
			}
			wg.Wait()

			// Every value in 1..workers was issued exactly once
			assert.Len(t, seen, workers)
			for v := int64(1); v <= workers; v++ {
				assert.True(t, seen[v], "missing counter value %d", v)
			}
		})

		t.Run("ByName", func(t *testing.T) {
			_, err := repo.Next(ctx, "named_counter")
			require.NoError(t, err)

			counter, err := repo.ByName(ctx, "named_counter")
			require.NoError(t, err)
			require.NotNil(t, counter)
			assert.Equal(t, int64(1), counter.SequenceValue)
		})

		t.Run("ByNameNotFound", func(t *testing.T) {
			counter, err := repo.ByName(ctx, "never_touched")
			assert.NoError(t, err)
			assert.Nil(t, counter)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAssetTypeRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewAssetTypeRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("ByAssetID", func(t *testing.T) {
			asset, err := fixtures.CreateTestAssetType("Laptop", nil, 10)
			require.NoError(t, err)

			found, err := repo.ByAssetID(ctx, asset.AssetID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, asset.AssetID, found.AssetID)
			assert.Equal(t, int64(10), found.QuantityOnHand)
		})

		t.Run("ByAssetIDNotFound", func(t *testing.T) {
			found, err := repo.ByAssetID(ctx, "AST-99999")
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("DeductStock", func(t *testing.T) {
			asset, err := fixtures.CreateTestAssetType("Monitor", nil, 5)
			require.NoError(t, err)

			ok, err := repo.DeductStock(ctx, asset.AssetID, 3)
			require.NoError(t, err)
			assert.True(t, ok)

			quantity, err := repo.CurrentQuantity(ctx, asset.AssetID)
			require.NoError(t, err)
			require.NotNil(t, quantity)
			assert.Equal(t, int64(2), *quantity)
		})

		t.Run("DeductStockGuard", func(t *testing.T) {
			asset, err := fixtures.CreateTestAssetType("Webcam", nil, 2)
			require.NoError(t, err)

			// More than on hand: refused, quantity untouched
			ok, err := repo.DeductStock(ctx, asset.AssetID, 3)
			require.NoError(t, err)
			assert.False(t, ok)

			quantity, err := repo.CurrentQuantity(ctx, asset.AssetID)
			require.NoError(t, err)
			require.NotNil(t, quantity)
			assert.Equal(t, int64(2), *quantity)
		})

		t.Run("DeductStockNeverNegative", func(t *testing.T) {
			asset, err := fixtures.CreateTestAssetType("Dock", nil, 1)
			require.NoError(t, err)

			const workers = 10
			var mu sync.Mutex
			successes := 0

			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ok, err := repo.DeductStock(ctx, asset.AssetID, 1)
					assert.NoError(t, err)
					if ok {
						mu.Lock()
						successes++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, successes)

			quantity, err := repo.CurrentQuantity(ctx, asset.AssetID)
			require.NoError(t, err)
			require.NotNil(t, quantity)
			assert.Equal(t, int64(0), *quantity)
		})

		t.Run("DeductStockRejectsNonPositive", func(t *testing.T) {
			asset, err := fixtures.CreateTestAssetType("Cable", nil, 5)
			require.NoError(t, err)

			_, err = repo.DeductStock(ctx, asset.AssetID, 0)
			assert.Error(t, err)
			_, err = repo.DeductStock(ctx, asset.AssetID, -1)
			assert.Error(t, err)
		})

		t.Run("Restock", func(t *testing.T) {
			asset, err := fixtures.CreateTestAssetType("Keyboard", nil, 3)
			require.NoError(t, err)

			newQty, err := repo.Restock(ctx, asset.AssetID, 7)
			require.NoError(t, err)
			assert.Equal(t, int64(10), newQty)
		})

		t.Run("RestockUnknownAsset", func(t *testing.T) {
			_, err := repo.Restock(ctx, "AST-00000", 5)
			assert.Error(t, err)
		})

		t.Run("UnitsByNameModelOrdering", func(t *testing.T) {
			model := "T14"
			_, err := fixtures.CreateUnitPool("ThinkPad", &model, []string{"AST-20003", "AST-20001", "AST-20002"})
			require.NoError(t, err)

			units, err := repo.UnitsByNameModel(ctx, "ThinkPad", &model)
			require.NoError(t, err)
			require.Len(t, units, 3)
			assert.Equal(t, "AST-20001", units[0].AssetID)
			assert.Equal(t, "AST-20002", units[1].AssetID)
			assert.Equal(t, "AST-20003", units[2].AssetID)
		})

		t.Run("UnitsByNameModelNilModel", func(t *testing.T) {
			model := "M2"
			_, err := fixtures.CreateTestAssetUnit("AST-30001", "Mouse", nil, 1)
			require.NoError(t, err)
			_, err = fixtures.CreateTestAssetUnit("AST-30002", "Mouse", &model, 1)
			require.NoError(t, err)

			units, err := repo.UnitsByNameModel(ctx, "Mouse", nil)
			require.NoError(t, err)
			require.Len(t, units, 1)
			assert.Equal(t, "AST-30001", units[0].AssetID)
		})

		t.Run("TotalQuantityByName", func(t *testing.T) {
			_, err := fixtures.CreateTestAssetUnit("AST-40001", "Headset", nil, 4)
			require.NoError(t, err)
			modelPro := "Pro"
			_, err = fixtures.CreateTestAssetUnit("AST-40002", "Headset", &modelPro, 6)
			require.NoError(t, err)

			total, err := repo.TotalQuantityByName(ctx, "Headset")
			require.NoError(t, err)
			assert.Equal(t, int64(10), total)
		})

		t.Run("TotalQuantityByNameUnknown", func(t *testing.T) {
			total, err := repo.TotalQuantityByName(ctx, "Hoverboard")
			require.NoError(t, err)
			assert.Equal(t, int64(0), total)
		})

		t.Run("DistinctNames", func(t *testing.T) {
			names, err := repo.DistinctNames(ctx)
			require.NoError(t, err)
			assert.Contains(t, names, "Laptop")
			assert.Contains(t, names, "Headset")
		})

		t.Run("ModelsByName", func(t *testing.T) {
			modelNames, err := repo.ModelsByName(ctx, "ThinkPad")
			require.NoError(t, err)
			assert.Equal(t, []string{"T14"}, modelNames)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestHardwareRequestRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewHardwareRequestRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		asset, err := fixtures.CreateTestAssetType("Laptop", nil, 10)
		require.NoError(t, err)

		t.Run("ByRequestID", func(t *testing.T) {
			created, err := fixtures.CreateTestRequest("E-1001", asset, models.RequestStatusPending)
			require.NoError(t, err)

			request, err := repo.ByRequestID(ctx, created.RequestID)
			require.NoError(t, err)
			require.NotNil(t, request)
			assert.Equal(t, created.RequestID, request.RequestID)
			assert.Equal(t, models.RequestStatusPending, request.Status)
		})

		t.Run("ByRequestIDNotFound", func(t *testing.T) {
			request, err := repo.ByRequestID(ctx, "REQ-000000")
			assert.NoError(t, err)
			assert.Nil(t, request)
		})

		t.Run("Update", func(t *testing.T) {
			created, err := fixtures.CreateTestRequest("E-1002", asset, models.RequestStatusPending)
			require.NoError(t, err)

			created.Status = models.RequestStatusApproved
			require.NoError(t, repo.Update(ctx, created))

			request, err := repo.ByRequestID(ctx, created.RequestID)
			require.NoError(t, err)
			require.NotNil(t, request)
			assert.Equal(t, models.RequestStatusApproved, request.Status)
			assert.NotNil(t, request.UpdatedAt)
		})

		t.Run("ByFilterEmpAndStatus", func(t *testing.T) {
			_, err := fixtures.CreateTestRequest("E-2001", asset, models.RequestStatusPending)
			require.NoError(t, err)
			_, err = fixtures.CreateTestRequest("E-2001", asset, models.RequestStatusCompleted)
			require.NoError(t, err)

			empID := "E-2001"
			status := models.RequestStatusPending
			rows, err := repo.ByFilter(ctx, models.HardwareRequestFilter{
				EmpID:  &empID,
				Status: &status,
			}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, models.RequestStatusPending, rows[0].Status)
		})

		t.Run("DistinctDepartments", func(t *testing.T) {
			departments, err := repo.DistinctDepartments(ctx)
			require.NoError(t, err)
			assert.Contains(t, departments, "Engineering")
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAllocationRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewAllocationRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		asset, err := fixtures.CreateTestAssetType("Laptop", nil, 10)
		require.NoError(t, err)
		request, err := fixtures.CreateTestRequest("E-3001", asset, models.RequestStatusApproved)
		require.NoError(t, err)

		t.Run("AssignedAssetIDs", func(t *testing.T) {
			_, err := fixtures.CreateTestAllocation(request, asset.AssetID, models.AllocationStatusAssigned)
			require.NoError(t, err)

			taken, err := repo.AssignedAssetIDs(ctx, []string{asset.AssetID, "AST-88888"})
			require.NoError(t, err)
			_, held := taken[asset.AssetID]
			assert.True(t, held)
			_, held = taken["AST-88888"]
			assert.False(t, held)
		})

		t.Run("AssignedAssetIDsEmptyInput", func(t *testing.T) {
			taken, err := repo.AssignedAssetIDs(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, taken)
		})

		t.Run("ReturnedUnitsAreFree", func(t *testing.T) {
			returnedAsset, err := fixtures.CreateTestAssetType("Tablet", nil, 1)
			require.NoError(t, err)
			returnedReq, err := fixtures.CreateTestRequest("E-3002", returnedAsset, models.RequestStatusApproved)
			require.NoError(t, err)
			_, err = fixtures.CreateTestAllocation(returnedReq, returnedAsset.AssetID, models.AllocationStatusReturned)
			require.NoError(t, err)

			taken, err := repo.AssignedAssetIDs(ctx, []string{returnedAsset.AssetID})
			require.NoError(t, err)
			assert.Empty(t, taken)
		})

		t.Run("ListByEmp", func(t *testing.T) {
			rows, err := repo.ListByEmp(ctx, "E-3001")
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, asset.AssetID, rows[0].AssetID)
		})

		t.Run("ByRequestID", func(t *testing.T) {
			allocation, err := repo.ByRequestID(ctx, request.RequestID)
			require.NoError(t, err)
			require.NotNil(t, allocation)
			assert.Equal(t, models.AllocationStatusAssigned, allocation.Status)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestVendorAndPurchaseRepositories(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		vendorRepo := repository.NewVendorRepository(testDB.DB)
		purchaseRepo := repository.NewPurchaseRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("VendorByName", func(t *testing.T) {
			created, err := fixtures.CreateTestVendor("Acme Supplies")
			require.NoError(t, err)

			vendor, err := vendorRepo.ByName(ctx, "Acme Supplies")
			require.NoError(t, err)
			require.NotNil(t, vendor)
			assert.Equal(t, created.VendorID, vendor.VendorID)
		})

		t.Run("VendorByNameNotFound", func(t *testing.T) {
			vendor, err := vendorRepo.ByName(ctx, "Nobody Inc")
			assert.NoError(t, err)
			assert.Nil(t, vendor)
		})

		t.Run("PurchaseSaveAndLookup", func(t *testing.T) {
			asset, err := fixtures.CreateTestAssetType("Printer", nil, 0)
			require.NoError(t, err)
			vendor, err := fixtures.CreateTestVendor("Print Partners")
			require.NoError(t, err)

			purchase := &models.Purchase{
				PurchaseID: "PUR-000123",
				AssetID:    asset.AssetID,
				VendorID:   vendor.VendorID,
				AssetName:  asset.Name,
				Quantity:   4,
				UnitCost:   utils.ToPtr(199.99),
			}
			require.NoError(t, purchaseRepo.Save(ctx, purchase))

			found, err := purchaseRepo.ByPurchaseID(ctx, "PUR-000123")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, int64(4), found.Quantity)
			assert.False(t, found.PurchasedAt.IsZero())
		})

		return nil
	})
	require.NoError(t, err)
}
