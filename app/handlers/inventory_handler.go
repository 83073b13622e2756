package handlers

import (
	"context"
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// InventoryHandlerInterface defines the contract for inventory handlers
type InventoryHandlerInterface interface {
	Intake(c fiber.Ctx) error
	List(c fiber.Ctx) error
	FilterOptions(c fiber.Ctx) error
}

// InventoryHandler handles inventory intake and listing HTTP requests
type InventoryHandler struct {
	flow      businessflow.IntakeFlow
	validator *validator.Validate
}

func (h *InventoryHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *InventoryHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(flow businessflow.IntakeFlow) *InventoryHandler {
	h := &InventoryHandler{
		flow:      flow,
		validator: validator.New(),
	}
	return h
}

// Intake Delivery
// @Description Book a vendor delivery into stock. Vendor and asset are found or created; the purchase record and stock increment commit together.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body dto.IntakeRequest true "Intake payload"
// @Success 201 {object} dto.APIResponse{data=dto.IntakeResponse} "Intake recorded successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 503 {object} dto.APIResponse "Identifier allocation unavailable"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/inventory/intake [post]
func (h *InventoryHandler) Intake(c fiber.Ctx) error {
	var req dto.IntakeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", formatValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Intake(h.createRequestContext(c, "/api/v1/admin/inventory/intake"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidQuantity(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Quantity must be at least 1", "INVALID_QUANTITY", nil)
		}
		if businessflow.IsSequenceUnavailable(err) {
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Identifier allocation unavailable", "SEQUENCE_UNAVAILABLE", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "VENDOR_ID_UNAVAILABLE", "ASSET_ID_UNAVAILABLE", "PURCHASE_ID_UNAVAILABLE":
				return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Identifier allocation unavailable", be.Code, nil)
			case "RESTOCK_FAILED":
				return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to restock asset", be.Code, nil)
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record intake", "INTAKE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Intake recorded successfully", result)
}

// List Inventory
// @Description List catalog rows with derived stock status and filters
// @Tags Inventory
// @Accept json
// @Produce json
// @Param search query string false "Free-text search over name, asset id, model"
// @Param category query string false "Category filter"
// @Param stock_status query string false "Stock status filter (In Stock/Low Stock/Out of Stock)"
// @Param page query integer false "Page number (default: 1)"
// @Param page_size query integer false "Items per page (default: 20, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListInventoryResponse} "Inventory retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/inventory [get]
func (h *InventoryHandler) List(c fiber.Ctx) error {
	req := &dto.ListInventoryRequest{}
	if v := c.Query("search"); v != "" {
		req.Search = &v
	}
	if v := c.Query("category"); v != "" {
		req.Category = &v
	}
	if v := c.Query("stock_status"); v != "" {
		req.StockStatus = &v
	}
	req.Page = queryInt(c, "page")
	req.PageSize = queryInt(c, "page_size")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.ListInventory(h.createRequestContext(c, "/api/v1/admin/inventory"), req, metadata)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list inventory", "LIST_INVENTORY_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Inventory retrieved successfully", result)
}

// FilterOptions
// @Description List the selectable inventory categories and stock statuses
// @Tags Inventory
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.InventoryFilterOptionsResponse} "Filter options retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/inventory/filter-options [get]
func (h *InventoryHandler) FilterOptions(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.InventoryFilterOptions(h.createRequestContext(c, "/api/v1/admin/inventory/filter-options"), metadata)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load filter options", "FILTER_OPTIONS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Filter options retrieved successfully", result)
}

func (h *InventoryHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
