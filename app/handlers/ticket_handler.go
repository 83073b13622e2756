// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// TicketHandlerInterface defines the contract for hardware request handlers
type TicketHandlerInterface interface {
	Create(c fiber.Ctx) error
	ListMine(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Cancel(c fiber.Ctx) error
	UpdateStatus(c fiber.Ctx) error
	AdminList(c fiber.Ctx) error
	AdminFilterOptions(c fiber.Ctx) error
	AdminUpdateStatus(c fiber.Ctx) error
	AdminUpdatePriority(c fiber.Ctx) error
	AdminUpdateAssignment(c fiber.Ctx) error
}

// TicketHandler handles hardware request HTTP requests
type TicketHandler struct {
	flow      businessflow.TicketFlow
	validator *validator.Validate
}

func (h *TicketHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *TicketHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewTicketHandler creates a new hardware request handler
func NewTicketHandler(flow businessflow.TicketFlow) *TicketHandler {
	h := &TicketHandler{
		flow:      flow,
		validator: validator.New(),
	}
	return h
}

// lifecycleError maps the shared lifecycle error taxonomy onto HTTP codes
func (h *TicketHandler) lifecycleError(c fiber.Ctx, err error) error {
	switch {
	case businessflow.IsRequestNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Request not found", "REQUEST_NOT_FOUND", nil)
	case businessflow.IsRequestCompleted(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Request is completed and cannot change", "REQUEST_COMPLETED", nil)
	case businessflow.IsRequestAlreadyProcessed(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Request already processed", "REQUEST_ALREADY_PROCESSED", nil)
	case businessflow.IsAssignedOnlyComplete(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Technician assigned, request can only be completed", "ASSIGNED_ONLY_COMPLETE", nil)
	case businessflow.IsInvalidTransition(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Status transition not allowed", "INVALID_TRANSITION", nil)
	case businessflow.IsNotRequestOwner(err):
		return h.ErrorResponse(c, fiber.StatusForbidden, "Request belongs to another employee", "NOT_REQUEST_OWNER", nil)
	case businessflow.IsEmployeeTransitionDenied(err):
		return h.ErrorResponse(c, fiber.StatusForbidden, "Employees may only complete their requests", "EMPLOYEE_TRANSITION_DENIED", nil)
	case businessflow.IsRequestNotEditable(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Request priority and assignment are locked", "REQUEST_NOT_EDITABLE", nil)
	case businessflow.IsRequestNotPending(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Request is no longer pending", "REQUEST_NOT_PENDING", nil)
	case businessflow.IsInsufficientStock(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Insufficient stock", "INSUFFICIENT_STOCK", err.Error())
	case businessflow.IsAssetNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Asset not found", "ASSET_NOT_FOUND", nil)
	case businessflow.IsInvalidStatus(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status", "INVALID_STATUS", nil)
	case businessflow.IsSequenceUnavailable(err):
		return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Identifier allocation unavailable", "SEQUENCE_UNAVAILABLE", nil)
	default:
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update request", "UPDATE_REQUEST_FAILED", nil)
	}
}

// Create Hardware Request
// @Description File a new hardware request for the authenticated employee
// @Tags Requests
// @Accept json
// @Produce json
// @Param request body dto.CreateRequestRequest true "Request payload"
// @Success 201 {object} dto.APIResponse{data=dto.CreateRequestResponse} "Request created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 503 {object} dto.APIResponse "Identifier allocation unavailable"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/requests [post]
func (h *TicketHandler) Create(c fiber.Ctx) error {
	var req dto.CreateRequestRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	empID, ok := c.Locals("emp_id").(string)
	if !ok || empID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Employee ID not found in context", "MISSING_EMP_ID", nil)
	}
	req.EmpID = empID
	req.Normalize()

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", formatValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CreateRequest(h.createRequestContext(c, "/api/v1/requests"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidQuantity(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Quantity must be at least 1", "INVALID_QUANTITY", nil)
		}
		if businessflow.IsInvalidPriority(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid priority", "INVALID_PRIORITY", nil)
		}
		if businessflow.IsSequenceUnavailable(err) {
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Identifier allocation unavailable", "SEQUENCE_UNAVAILABLE", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "EMP_ID_REQUIRED":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Employee id is required", be.Code, be.Error())
			case "REQUEST_ID_UNAVAILABLE":
				return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Identifier allocation unavailable", be.Code, nil)
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create request", "CREATE_REQUEST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Request created successfully", result)
}

// ListMine Requests
// @Description List the authenticated employee's hardware requests
// @Tags Requests
// @Accept json
// @Produce json
// @Param status query string false "Status filter (Pending/Approved/Rejected/Completed)"
// @Param page query integer false "Page number (default: 1)"
// @Param page_size query integer false "Items per page (default: 20, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListMyRequestsResponse} "Requests retrieved successfully"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/requests/mine [get]
func (h *TicketHandler) ListMine(c fiber.Ctx) error {
	empID, ok := c.Locals("emp_id").(string)
	if !ok || empID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Employee ID not found in context", "MISSING_EMP_ID", nil)
	}

	req := &dto.ListMyRequestsRequest{EmpID: empID}
	if v := c.Query("status"); v != "" {
		req.Status = &v
	}
	req.Page = queryInt(c, "page")
	req.PageSize = queryInt(c, "page_size")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.ListMyRequests(h.createRequestContext(c, "/api/v1/requests/mine"), req, metadata)
	if err != nil {
		if businessflow.IsInvalidStatus(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status", "INVALID_STATUS", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list requests", "LIST_REQUESTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Requests retrieved successfully", result)
}

// Get Request
// @Description Get a single hardware request. Employees only see their own.
// @Tags Requests
// @Accept json
// @Produce json
// @Param request_id path string true "Request ID (REQ-xxxxxx)"
// @Success 200 {object} dto.APIResponse{data=dto.GetRequestResponse} "Request retrieved successfully"
// @Failure 403 {object} dto.APIResponse "Forbidden - request belongs to another employee"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/requests/{request_id} [get]
func (h *TicketHandler) Get(c fiber.Ctx) error {
	empID, _ := c.Locals("emp_id").(string)
	role, _ := c.Locals("role").(string)
	requestID := c.Params("request_id")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.GetRequest(h.createRequestContext(c, "/api/v1/requests/:request_id"), requestID, empID, role, metadata)
	if err != nil {
		if businessflow.IsRequestNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Request not found", "REQUEST_NOT_FOUND", nil)
		}
		if businessflow.IsNotRequestOwner(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Request belongs to another employee", "NOT_REQUEST_OWNER", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load request", "GET_REQUEST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Request retrieved successfully", result)
}

// Update Request (employee)
// @Description Employee edits the quantity or description of their own pending request
// @Tags Requests
// @Accept json
// @Produce json
// @Param request_id path string true "Request ID (REQ-xxxxxx)"
// @Param request body dto.UpdateRequestRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateRequestResponse} "Request updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Forbidden - request belongs to another employee"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Failure 409 {object} dto.APIResponse "Conflict - request is no longer pending"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/requests/{request_id} [patch]
func (h *TicketHandler) Update(c fiber.Ctx) error {
	empID, ok := c.Locals("emp_id").(string)
	if !ok || empID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Employee ID not found in context", "MISSING_EMP_ID", nil)
	}

	var req dto.UpdateRequestRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", formatValidationErrors(err))
	}

	requestID := c.Params("request_id")
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UpdateRequest(
		h.createRequestContext(c, "/api/v1/requests/:request_id"),
		requestID, empID, &req, metadata)
	if err != nil {
		if businessflow.IsInvalidQuantity(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Quantity must be at least 1", "INVALID_QUANTITY", nil)
		}
		return h.lifecycleError(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Request updated successfully", result)
}

// Cancel Request (employee)
// @Description Employee withdraws their own pending request
// @Tags Requests
// @Accept json
// @Produce json
// @Param request_id path string true "Request ID (REQ-xxxxxx)"
// @Success 200 {object} dto.APIResponse{data=dto.CancelRequestResponse} "Request cancelled successfully"
// @Failure 403 {object} dto.APIResponse "Forbidden - request belongs to another employee"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Failure 409 {object} dto.APIResponse "Conflict - request is no longer pending"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/requests/{request_id}/cancel [post]
func (h *TicketHandler) Cancel(c fiber.Ctx) error {
	empID, ok := c.Locals("emp_id").(string)
	if !ok || empID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Employee ID not found in context", "MISSING_EMP_ID", nil)
	}

	requestID := c.Params("request_id")
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CancelRequest(
		h.createRequestContext(c, "/api/v1/requests/:request_id/cancel"),
		requestID, empID, metadata)
	if err != nil {
		return h.lifecycleError(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Request cancelled successfully", result)
}

// UpdateStatus Request (employee)
// @Description Employee drives their own request's lifecycle; only completion is allowed
// @Tags Requests
// @Accept json
// @Produce json
// @Param request_id path string true "Request ID (REQ-xxxxxx)"
// @Param request body dto.UpdateStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateStatusResponse} "Status updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Failure 409 {object} dto.APIResponse "Conflict - transition not allowed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/requests/{request_id}/status [patch]
func (h *TicketHandler) UpdateStatus(c fiber.Ctx) error {
	empID, ok := c.Locals("emp_id").(string)
	if !ok || empID == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Employee ID not found in context", "MISSING_EMP_ID", nil)
	}

	var req dto.UpdateStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", formatValidationErrors(err))
	}

	requestID := c.Params("request_id")
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UpdateStatus(
		h.createRequestContext(c, "/api/v1/requests/:request_id/status"),
		requestID, empID, utils.RoleEmployee, models.RequestStatus(req.Status), metadata)
	if err != nil {
		return h.lifecycleError(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Status updated successfully", result)
}

// AdminList Requests
// @Description Admin lists hardware requests with filters and pagination
// @Tags Requests
// @Accept json
// @Produce json
// @Param search query string false "Free-text search over request id, employee id, asset name"
// @Param department query string false "Department filter"
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param assigned query boolean false "Assignment filter"
// @Param start_date query string false "Start date (RFC3339)"
// @Param end_date query string false "End date (RFC3339)"
// @Param page query integer false "Page number (default: 1)"
// @Param page_size query integer false "Items per page (default: 20, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.AdminListRequestsResponse} "Requests retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/requests [get]
func (h *TicketHandler) AdminList(c fiber.Ctx) error {
	req := &dto.AdminListRequestsRequest{}
	if v := c.Query("search"); v != "" {
		req.Search = &v
	}
	if v := c.Query("department"); v != "" {
		req.Department = &v
	}
	if v := c.Query("status"); v != "" {
		req.Status = &v
	}
	if v := c.Query("priority"); v != "" {
		req.Priority = &v
	}
	if v := c.Query("assigned"); v != "" {
		lv := strings.ToLower(v)
		if lv == "true" || lv == "1" {
			req.Assigned = utils.ToPtr(true)
		} else if lv == "false" || lv == "0" {
			req.Assigned = utils.ToPtr(false)
		}
	}
	if v := c.Query("start_date"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			req.StartDate = &parsed
		}
	}
	if v := c.Query("end_date"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			req.EndDate = &parsed
		}
	}
	req.Page = queryInt(c, "page")
	req.PageSize = queryInt(c, "page_size")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.AdminListRequests(h.createRequestContext(c, "/api/v1/admin/requests"), req, metadata)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Start date must be before end date", "START_DATE_AFTER_END_DATE", nil)
		}
		if businessflow.IsInvalidStatus(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status", "INVALID_STATUS", nil)
		}
		if businessflow.IsInvalidPriority(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid priority", "INVALID_PRIORITY", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list requests", "ADMIN_LIST_REQUESTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Requests retrieved successfully", result)
}

// AdminFilterOptions
// @Description List the selectable departments, statuses, and priorities
// @Tags Requests
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RequestFilterOptionsResponse} "Filter options retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/requests/filter-options [get]
func (h *TicketHandler) AdminFilterOptions(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.FilterOptions(h.createRequestContext(c, "/api/v1/admin/requests/filter-options"), metadata)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load filter options", "FILTER_OPTIONS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Filter options retrieved successfully", result)
}

// AdminUpdateStatus Request
// @Description Admin drives a request's lifecycle; the first exit from Pending deducts stock
// @Tags Requests
// @Accept json
// @Produce json
// @Param request_id path string true "Request ID (REQ-xxxxxx)"
// @Param request body dto.UpdateStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateStatusResponse} "Status updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Failure 409 {object} dto.APIResponse "Conflict - transition not allowed or insufficient stock"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/requests/{request_id}/status [patch]
func (h *TicketHandler) AdminUpdateStatus(c fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", formatValidationErrors(err))
	}

	empID, _ := c.Locals("emp_id").(string)
	requestID := c.Params("request_id")
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UpdateStatus(
		h.createRequestContext(c, "/api/v1/admin/requests/:request_id/status"),
		requestID, empID, utils.RoleAdmin, models.RequestStatus(req.Status), metadata)
	if err != nil {
		return h.lifecycleError(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Status updated successfully", result)
}

// AdminUpdatePriority Request
// @Description Admin changes a request's priority; locked once completed or assigned
// @Tags Requests
// @Accept json
// @Produce json
// @Param request_id path string true "Request ID (REQ-xxxxxx)"
// @Param request body dto.UpdatePriorityRequest true "Target priority"
// @Success 200 {object} dto.APIResponse{data=dto.UpdatePriorityResponse} "Priority updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Failure 409 {object} dto.APIResponse "Conflict - request locked"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/requests/{request_id}/priority [patch]
func (h *TicketHandler) AdminUpdatePriority(c fiber.Ctx) error {
	var req dto.UpdatePriorityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", formatValidationErrors(err))
	}

	requestID := c.Params("request_id")
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UpdatePriority(
		h.createRequestContext(c, "/api/v1/admin/requests/:request_id/priority"),
		requestID, models.RequestPriority(req.Priority), metadata)
	if err != nil {
		if businessflow.IsInvalidPriority(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid priority", "INVALID_PRIORITY", nil)
		}
		return h.lifecycleError(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Priority updated successfully", result)
}

// AdminUpdateAssignment Request
// @Description Admin assigns a technician; assigning a pending request approves it and deducts stock
// @Tags Requests
// @Accept json
// @Produce json
// @Param request_id path string true "Request ID (REQ-xxxxxx)"
// @Param request body dto.UpdateAssignmentRequest true "Assignment payload"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateAssignmentResponse} "Assignment updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Request not found"
// @Failure 409 {object} dto.APIResponse "Conflict - request locked or insufficient stock"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/requests/{request_id}/assignment [patch]
func (h *TicketHandler) AdminUpdateAssignment(c fiber.Ctx) error {
	var req dto.UpdateAssignmentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", formatValidationErrors(err))
	}

	requestID := c.Params("request_id")
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UpdateAssignment(
		h.createRequestContext(c, "/api/v1/admin/requests/:request_id/assignment"),
		requestID, &req, metadata)
	if err != nil {
		return h.lifecycleError(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Assignment updated successfully", result)
}

func queryInt(c fiber.Ctx, key string) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return 0
}

func (h *TicketHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
