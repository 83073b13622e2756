// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestStatus(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.True(t, models.RequestStatusPending.Valid())
		assert.True(t, models.RequestStatusApproved.Valid())
		assert.True(t, models.RequestStatusRejected.Valid())
		assert.True(t, models.RequestStatusCompleted.Valid())
		assert.False(t, models.RequestStatus("Cancelled").Valid())
		assert.False(t, models.RequestStatus("").Valid())
	})

	t.Run("IsTerminal", func(t *testing.T) {
		assert.False(t, models.RequestStatusPending.IsTerminal())
		assert.False(t, models.RequestStatusApproved.IsTerminal())
		assert.True(t, models.RequestStatusRejected.IsTerminal())
		assert.True(t, models.RequestStatusCompleted.IsTerminal())
	})

	t.Run("Scan", func(t *testing.T) {
		var status models.RequestStatus
		require.NoError(t, status.Scan("Approved"))
		assert.Equal(t, models.RequestStatusApproved, status)

		require.NoError(t, status.Scan([]byte("Rejected")))
		assert.Equal(t, models.RequestStatusRejected, status)

		require.NoError(t, status.Scan(nil))
		assert.Equal(t, models.RequestStatus(""), status)

		assert.Error(t, status.Scan(42))
	})

	t.Run("Value", func(t *testing.T) {
		value, err := models.RequestStatusPending.Value()
		require.NoError(t, err)
		assert.Equal(t, "Pending", value)

		_, err = models.RequestStatus("Bogus").Value()
		assert.Error(t, err)
	})
}

func TestRequestPriority(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.True(t, models.RequestPriorityLow.Valid())
		assert.True(t, models.RequestPriorityMedium.Valid())
		assert.True(t, models.RequestPriorityHigh.Valid())
		assert.False(t, models.RequestPriority("Urgent").Valid())
	})

	t.Run("Value", func(t *testing.T) {
		value, err := models.RequestPriorityHigh.Value()
		require.NoError(t, err)
		assert.Equal(t, "High", value)

		_, err = models.RequestPriority("").Value()
		assert.Error(t, err)
	})
}

func TestAllocationStatus(t *testing.T) {
	assert.True(t, models.AllocationStatusAssigned.Valid())
	assert.True(t, models.AllocationStatusReturned.Valid())
	assert.False(t, models.AllocationStatus("Lost").Valid())

	var status models.AllocationStatus
	require.NoError(t, status.Scan("Assigned"))
	assert.Equal(t, models.AllocationStatusAssigned, status)
}

func TestCanTransitionTo(t *testing.T) {
	t.Run("FromPending", func(t *testing.T) {
		request := &models.HardwareRequest{Status: models.RequestStatusPending}
		assert.True(t, request.CanTransitionTo(models.RequestStatusApproved))
		assert.True(t, request.CanTransitionTo(models.RequestStatusRejected))
		assert.True(t, request.CanTransitionTo(models.RequestStatusCompleted))
		assert.False(t, request.CanTransitionTo(models.RequestStatusPending))
	})

	t.Run("FromApproved", func(t *testing.T) {
		request := &models.HardwareRequest{Status: models.RequestStatusApproved}
		assert.True(t, request.CanTransitionTo(models.RequestStatusCompleted))
		assert.False(t, request.CanTransitionTo(models.RequestStatusPending))
		assert.False(t, request.CanTransitionTo(models.RequestStatusRejected))
	})

	t.Run("FromTerminal", func(t *testing.T) {
		rejected := &models.HardwareRequest{Status: models.RequestStatusRejected}
		completed := &models.HardwareRequest{Status: models.RequestStatusCompleted}
		for _, target := range []models.RequestStatus{
			models.RequestStatusPending,
			models.RequestStatusApproved,
			models.RequestStatusRejected,
			models.RequestStatusCompleted,
		} {
			assert.False(t, rejected.CanTransitionTo(target))
			assert.False(t, completed.CanTransitionTo(target))
		}
	})
}

func TestIsEditable(t *testing.T) {
	t.Run("PendingUnassigned", func(t *testing.T) {
		request := &models.HardwareRequest{Status: models.RequestStatusPending}
		assert.True(t, request.IsEditable())
	})

	t.Run("Completed", func(t *testing.T) {
		request := &models.HardwareRequest{Status: models.RequestStatusCompleted}
		assert.False(t, request.IsEditable())
	})

	t.Run("Assigned", func(t *testing.T) {
		request := &models.HardwareRequest{
			Status:   models.RequestStatusApproved,
			Assigned: utils.ToPtr(true),
		}
		assert.False(t, request.IsEditable())
	})
}

func TestStockStatus(t *testing.T) {
	out := &models.AssetType{QuantityOnHand: 0}
	assert.Equal(t, models.StockStatusOut, out.StockStatus())

	low := &models.AssetType{QuantityOnHand: utils.LowStockThreshold - 1}
	assert.Equal(t, models.StockStatusLow, low.StockStatus())

	in := &models.AssetType{QuantityOnHand: utils.LowStockThreshold}
	assert.Equal(t, models.StockStatusIn, in.StockStatus())
}
