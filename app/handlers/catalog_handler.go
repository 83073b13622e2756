package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/gofiber/fiber/v3"
)

// CatalogHandlerInterface defines the contract for catalog handlers
type CatalogHandlerInterface interface {
	Names(c fiber.Ctx) error
	Models(c fiber.Ctx) error
	Availability(c fiber.Ctx) error
	FreeUnits(c fiber.Ctx) error
}

// CatalogHandler handles catalog read HTTP requests
type CatalogHandler struct {
	flow businessflow.CatalogFlow
}

func (h *CatalogHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CatalogHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(flow businessflow.CatalogFlow) *CatalogHandler {
	return &CatalogHandler{flow: flow}
}

// Names
// @Description List the distinct hardware names in the catalog
// @Tags Catalog
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CatalogNamesResponse} "Catalog names retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/catalog/names [get]
func (h *CatalogHandler) Names(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Names(h.createRequestContext(c, "/api/v1/catalog/names"), metadata)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list catalog names", "CATALOG_NAMES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Catalog names retrieved successfully", result)
}

// Models
// @Description List the models recorded under one hardware name
// @Tags Catalog
// @Accept json
// @Produce json
// @Param name query string true "Hardware name"
// @Success 200 {object} dto.APIResponse{data=dto.CatalogModelsResponse} "Models retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Name missing"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/catalog/models [get]
func (h *CatalogHandler) Models(c fiber.Ctx) error {
	name := c.Query("name")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Models(h.createRequestContext(c, "/api/v1/catalog/models"), name, metadata)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "NAME_REQUIRED" {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Hardware name is required", be.Code, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list models", "CATALOG_MODELS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Models retrieved successfully", result)
}

// Availability
// @Description Report whether the requested quantity of a hardware name is on hand
// @Tags Catalog
// @Accept json
// @Produce json
// @Param name query string true "Hardware name"
// @Param quantity query integer false "Requested quantity (default: 1)"
// @Success 200 {object} dto.APIResponse{data=dto.AvailabilityResponse} "Availability retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Name missing or invalid quantity"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/catalog/availability [get]
func (h *CatalogHandler) Availability(c fiber.Ctx) error {
	name := c.Query("name")
	quantity := int64(1)
	if v := c.Query("quantity"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			quantity = n
		}
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Availability(h.createRequestContext(c, "/api/v1/catalog/availability"), name, quantity, metadata)
	if err != nil {
		if businessflow.IsInvalidQuantity(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Quantity must be at least 1", "INVALID_QUANTITY", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "NAME_REQUIRED" {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Hardware name is required", be.Code, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check availability", "AVAILABILITY_CHECK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Availability retrieved successfully", result)
}

// FreeUnits
// @Description List the free units of a name+model pool
// @Tags Catalog
// @Accept json
// @Produce json
// @Param name query string true "Hardware name"
// @Param model query string false "Model"
// @Success 200 {object} dto.APIResponse{data=dto.FreeUnitsResponse} "Free units retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Name missing"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/catalog/free-units [get]
func (h *CatalogHandler) FreeUnits(c fiber.Ctx) error {
	name := c.Query("name")
	var model *string
	if v := c.Query("model"); v != "" {
		model = &v
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.FreeUnits(h.createRequestContext(c, "/api/v1/catalog/free-units"), name, model, metadata)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "NAME_REQUIRED" {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Hardware name is required", be.Code, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list free units", "FREE_UNITS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Free units retrieved successfully", result)
}

func (h *CatalogHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
