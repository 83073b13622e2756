// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"sync"
	"testing"

	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	testingutil "github.com/amirphl/Kusanagi/testing"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAllocationFlow(testDB *testingutil.TestDB) businessflow.AllocationFlow {
	requestRepo := repository.NewHardwareRequestRepository(testDB.DB)
	assetRepo := repository.NewAssetTypeRepository(testDB.DB)
	allocationRepo := repository.NewAllocationRepository(testDB.DB)
	return businessflow.NewAllocationFlow(requestRepo, assetRepo, allocationRepo, testDB.DB)
}

func TestAllocate(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAllocationFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("AllocatesLowestFreeUnit", func(t *testing.T) {
			model := "T14"
			units, err := fixtures.CreateUnitPool("ThinkPad", &model, []string{"AST-10001", "AST-10002", "AST-10003"})
			require.NoError(t, err)

			// AST-10001 is already in someone's hands
			heldReq, err := fixtures.CreateTestRequest("E-1000", units[0], models.RequestStatusApproved)
			require.NoError(t, err)
			_, err = fixtures.CreateTestAllocation(heldReq, "AST-10001", models.AllocationStatusAssigned)
			require.NoError(t, err)

			request, err := fixtures.CreateTestRequest("E-1001", units[0], models.RequestStatusPending)
			require.NoError(t, err)

			resp, err := flow.Allocate(ctx, request.RequestID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "AST-10002", resp.AssetID)
			assert.Equal(t, "E-1001", resp.EmpID)
			assert.Equal(t, models.AllocationStatusAssigned.String(), resp.Status)

			// Ticket moved forward and the unit's stock came off
			assert.Equal(t, models.RequestStatusApproved, requestStatus(t, testDB, request.RequestID))
			assert.Equal(t, int64(0), currentQuantity(t, testDB, "AST-10002"))

			requestRepo := repository.NewHardwareRequestRepository(testDB.DB)
			updated, err := requestRepo.ByRequestID(ctx, request.RequestID)
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(updated.Allocated))
		})

		t.Run("ReturnedUnitIsFreeAgain", func(t *testing.T) {
			units, err := fixtures.CreateUnitPool("Phone", nil, []string{"AST-11001", "AST-11002"})
			require.NoError(t, err)

			returnedReq, err := fixtures.CreateTestRequest("E-1100", units[0], models.RequestStatusApproved)
			require.NoError(t, err)
			_, err = fixtures.CreateTestAllocation(returnedReq, "AST-11001", models.AllocationStatusReturned)
			require.NoError(t, err)

			request, err := fixtures.CreateTestRequest("E-1101", units[0], models.RequestStatusPending)
			require.NoError(t, err)

			resp, err := flow.Allocate(ctx, request.RequestID, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "AST-11001", resp.AssetID)
		})

		t.Run("NonPendingRequest", func(t *testing.T) {
			asset, err := fixtures.CreateTestAssetType("Laptop", nil, 5)
			require.NoError(t, err)
			request, err := fixtures.CreateTestRequest("E-1201", asset, models.RequestStatusApproved)
			require.NoError(t, err)

			_, err = flow.Allocate(ctx, request.RequestID, testMetadata())
			assert.True(t, businessflow.IsRequestNotAllocatable(err))
		})

		t.Run("AlreadyAllocated", func(t *testing.T) {
			asset, err := fixtures.CreateTestAssetType("Monitor", nil, 5)
			require.NoError(t, err)
			request, err := fixtures.CreateTestRequest("E-1301", asset, models.RequestStatusPending)
			require.NoError(t, err)
			_, err = fixtures.CreateTestAllocation(request, asset.AssetID, models.AllocationStatusAssigned)
			require.NoError(t, err)

			_, err = flow.Allocate(ctx, request.RequestID, testMetadata())
			assert.True(t, businessflow.IsAlreadyAllocated(err))
		})

		t.Run("ManualAsset", func(t *testing.T) {
			request, err := fixtures.CreateTestManualRequest("E-1401", "Bespoke Rig", models.RequestStatusPending)
			require.NoError(t, err)

			_, err = flow.Allocate(ctx, request.RequestID, testMetadata())
			assert.True(t, businessflow.IsAssetNotFound(err))
		})

		t.Run("NoFreeUnitRejectsTicket", func(t *testing.T) {
			units, err := fixtures.CreateUnitPool("Scanner", nil, []string{"AST-12001"})
			require.NoError(t, err)

			heldReq, err := fixtures.CreateTestRequest("E-1500", units[0], models.RequestStatusApproved)
			require.NoError(t, err)
			_, err = fixtures.CreateTestAllocation(heldReq, "AST-12001", models.AllocationStatusAssigned)
			require.NoError(t, err)

			request, err := fixtures.CreateTestRequest("E-1501", units[0], models.RequestStatusPending)
			require.NoError(t, err)

			_, err = flow.Allocate(ctx, request.RequestID, testMetadata())
			assert.True(t, businessflow.IsNoFreeUnit(err))

			// Failed allocation leaves a Rejected ticket behind
			assert.Equal(t, models.RequestStatusRejected, requestStatus(t, testDB, request.RequestID))
		})

		t.Run("RequestNotFound", func(t *testing.T) {
			_, err := flow.Allocate(ctx, "REQ-999999", testMetadata())
			assert.True(t, businessflow.IsRequestNotFound(err))
		})

		t.Run("ConcurrentAllocationsNeverShareAUnit", func(t *testing.T) {
			// Each unit carries spare stock, so the quantity guard alone would
			// let two allocators land on the same unit. The pool lock must
			// force them onto distinct units.
			model := "X1"
			_, err := fixtures.CreateTestAssetUnit("AST-14001", "Ultrabook", &model, 2)
			require.NoError(t, err)
			_, err = fixtures.CreateTestAssetUnit("AST-14002", "Ultrabook", &model, 2)
			require.NoError(t, err)

			unitRepo := repository.NewAssetTypeRepository(testDB.DB)
			unit, err := unitRepo.ByAssetID(ctx, "AST-14001")
			require.NoError(t, err)

			first, err := fixtures.CreateTestRequest("E-1601", unit, models.RequestStatusPending)
			require.NoError(t, err)
			second, err := fixtures.CreateTestRequest("E-1602", unit, models.RequestStatusPending)
			require.NoError(t, err)

			var wg sync.WaitGroup
			results := make(chan error, 2)
			for _, requestID := range []string{first.RequestID, second.RequestID} {
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					_, err := flow.Allocate(ctx, id, testMetadata())
					results <- err
				}(requestID)
			}
			wg.Wait()
			close(results)

			for err := range results {
				require.NoError(t, err)
			}

			allocationRepo := repository.NewAllocationRepository(testDB.DB)
			assigned := models.AllocationStatusAssigned
			for _, assetID := range []string{"AST-14001", "AST-14002"} {
				id := assetID
				count, err := allocationRepo.Count(ctx, models.AllocationFilter{
					AssetID: &id,
					Status:  &assigned,
				})
				require.NoError(t, err)
				assert.Equal(t, int64(1), count, "unit %s", assetID)
			}
		})

		return nil
	})
	require.NoError(t, err)
}

func TestMyHardware(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAllocationFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		asset, err := fixtures.CreateTestAssetUnit("AST-13001", "Laptop", nil, 1)
		require.NoError(t, err)
		request, err := fixtures.CreateTestRequest("E-2001", asset, models.RequestStatusApproved)
		require.NoError(t, err)
		_, err = fixtures.CreateTestAllocation(request, asset.AssetID, models.AllocationStatusAssigned)
		require.NoError(t, err)

		// A returned unit does not show up as current hardware
		returnedAsset, err := fixtures.CreateTestAssetUnit("AST-13002", "Phone", nil, 1)
		require.NoError(t, err)
		returnedReq, err := fixtures.CreateTestRequest("E-2001", returnedAsset, models.RequestStatusCompleted)
		require.NoError(t, err)
		_, err = fixtures.CreateTestAllocation(returnedReq, returnedAsset.AssetID, models.AllocationStatusReturned)
		require.NoError(t, err)

		t.Run("ListsAssignedWithAssetNames", func(t *testing.T) {
			resp, err := flow.MyHardware(ctx, "E-2001", testMetadata())
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "AST-13001", resp.Items[0].AssetID)
			assert.Equal(t, "Laptop", resp.Items[0].AssetName)
		})

		t.Run("EmptyForUnknownEmployee", func(t *testing.T) {
			resp, err := flow.MyHardware(ctx, "E-9999", testMetadata())
			require.NoError(t, err)
			assert.Empty(t, resp.Items)
		})

		return nil
	})
	require.NoError(t, err)
}
