package handlers

import (
	"context"
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/gofiber/fiber/v3"
)

// AllocationHandlerInterface defines the contract for allocation handlers
type AllocationHandlerInterface interface {
	Allocate(c fiber.Ctx) error
	MyHardware(c fiber.Ctx) error
}

// AllocationHandler handles unit allocation HTTP requests
type AllocationHandler struct {
	flow businessflow.AllocationFlow
}

func (h *AllocationHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AllocationHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewAllocationHandler creates a new allocation handler
func NewAllocationHandler(flow businessflow.AllocationFlow) *AllocationHandler {
	return &AllocationHandler{flow: flow}
}

// Allocate Unit
// @Description Allocate the first free unit of the requested hardware to a pending request. Failure to find a unit rejects the request.
// @Tags Allocations
// @Accept json
// @Produce json
// @Param request_id path string true "Request ID (REQ-xxxxxx)"
// @Success 201 {object} dto.APIResponse{data=dto.AllocateResponse} "Unit allocated successfully"
// @Failure 404 {object} dto.APIResponse "Request or asset not found"
// @Failure 409 {object} dto.APIResponse "Conflict - not pending, already allocated, no free unit, or insufficient stock"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/requests/{request_id}/allocate [post]
func (h *AllocationHandler) Allocate(c fiber.Ctx) error {
	requestID := c.Params("request_id")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Allocate(h.createRequestContext(c, "/api/v1/admin/requests/:request_id/allocate"), requestID, metadata)
	if err != nil {
		switch {
		case businessflow.IsRequestNotFound(err):
			return h.ErrorResponse(c, fiber.StatusNotFound, "Request not found", "REQUEST_NOT_FOUND", nil)
		case businessflow.IsAssetNotFound(err):
			return h.ErrorResponse(c, fiber.StatusNotFound, "Asset not found", "ASSET_NOT_FOUND", nil)
		case businessflow.IsRequestNotAllocatable(err):
			return h.ErrorResponse(c, fiber.StatusConflict, "Request is not pending allocation", "REQUEST_NOT_ALLOCATABLE", nil)
		case businessflow.IsAlreadyAllocated(err):
			return h.ErrorResponse(c, fiber.StatusConflict, "Request already holds an allocation", "ALREADY_ALLOCATED", nil)
		case businessflow.IsNoFreeUnit(err):
			return h.ErrorResponse(c, fiber.StatusConflict, "No free unit available, request rejected", "NO_FREE_UNIT", nil)
		case businessflow.IsInsufficientStock(err):
			return h.ErrorResponse(c, fiber.StatusConflict, "Insufficient stock, request rejected", "INSUFFICIENT_STOCK", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to allocate unit", "ALLOCATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Unit allocated successfully", result)
}

// MyHardware
// @Description List the hardware currently assigned to the authenticated employee
// @Tags Allocations
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.MyHardwareResponse} "Allocations retrieved successfully"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/allocations/mine [get]
func (h *AllocationHandler) MyHardware(c fiber.Ctx) error {
	empID, ok := c.Locals("emp_id").(string)
	if !ok || empID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Employee ID not found in context", "MISSING_EMP_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.MyHardware(h.createRequestContext(c, "/api/v1/allocations/mine"), empID, metadata)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list allocations", "MY_HARDWARE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Allocations retrieved successfully", result)
}

func (h *AllocationHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
