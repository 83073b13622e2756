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

// TicketFlow defines operations for filing and driving hardware requests
type TicketFlow interface {
	CreateRequest(ctx context.Context, req *dto.CreateRequestRequest, metadata *ClientMetadata) (*dto.CreateRequestResponse, error)
	ListMyRequests(ctx context.Context, req *dto.ListMyRequestsRequest, metadata *ClientMetadata) (*dto.ListMyRequestsResponse, error)
	GetRequest(ctx context.Context, requestID, actorEmpID, actorRole string, metadata *ClientMetadata) (*dto.GetRequestResponse, error)
	UpdateRequest(ctx context.Context, requestID, actorEmpID string, req *dto.UpdateRequestRequest, metadata *ClientMetadata) (*dto.UpdateRequestResponse, error)
	CancelRequest(ctx context.Context, requestID, actorEmpID string, metadata *ClientMetadata) (*dto.CancelRequestResponse, error)
	AdminListRequests(ctx context.Context, req *dto.AdminListRequestsRequest, metadata *ClientMetadata) (*dto.AdminListRequestsResponse, error)
	FilterOptions(ctx context.Context, metadata *ClientMetadata) (*dto.RequestFilterOptionsResponse, error)
	UpdateStatus(ctx context.Context, requestID, actorEmpID, actorRole string, target models.RequestStatus, metadata *ClientMetadata) (*dto.UpdateStatusResponse, error)
	UpdatePriority(ctx context.Context, requestID string, priority models.RequestPriority, metadata *ClientMetadata) (*dto.UpdatePriorityResponse, error)
	UpdateAssignment(ctx context.Context, requestID string, req *dto.UpdateAssignmentRequest, metadata *ClientMetadata) (*dto.UpdateAssignmentResponse, error)
}

// TicketFlowImpl implements TicketFlow
type TicketFlowImpl struct {
	requestRepo repository.HardwareRequestRepository
	assetRepo   repository.AssetTypeRepository
	allocator   services.SequenceAllocator
	db          *gorm.DB
}

func NewTicketFlow(
	requestRepo repository.HardwareRequestRepository,
	assetRepo repository.AssetTypeRepository,
	allocator services.SequenceAllocator,
	db *gorm.DB,
) TicketFlow {
	return &TicketFlowImpl{
		requestRepo: requestRepo,
		assetRepo:   assetRepo,
		allocator:   allocator,
		db:          db,
	}
}

// CreateRequest files a new hardware request. The asset is resolved from the
// catalog by name; requests for hardware with no catalog entry get the
// AST-MANUAL sentinel. Stock is checked up front but only reported; the
// deduction happens at approval.
func (f *TicketFlowImpl) CreateRequest(ctx context.Context, req *dto.CreateRequestRequest, metadata *ClientMetadata) (*dto.CreateRequestResponse, error) {
	req.Normalize()

	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if strings.TrimSpace(req.EmpID) == "" {
		return nil, NewBusinessError("EMP_ID_REQUIRED", "employee id is required", nil)
	}

	priority := models.RequestPriorityLow
	if req.Priority != nil {
		priority = models.RequestPriority(*req.Priority)
		if !priority.Valid() {
			return nil, ErrInvalidPriority
		}
	}

	asset, available, err := f.resolveAsset(ctx, req)
	if err != nil {
		return nil, err
	}

	assetID := utils.ManualAssetID
	var availability *dto.AvailabilityInfo
	if asset != nil {
		assetID = asset.AssetID
		availability = &dto.AvailabilityInfo{
			Requested:  req.Quantity,
			Available:  available,
			Sufficient: available >= req.Quantity,
		}
	}

	requestID, err := f.allocator.NextValue(ctx, utils.RequestCounterName, services.SequenceOptions{
		Prefix:   utils.RequestIDPrefix,
		PadWidth: utils.RequestIDPadWidth,
	})
	if err != nil {
		return nil, NewBusinessError("REQUEST_ID_UNAVAILABLE", "Failed to allocate request identifier", err)
	}

	request := models.HardwareRequest{
		RequestID:   requestID,
		EmpID:       req.EmpID,
		AssetID:     assetID,
		AssetName:   req.AssetName,
		Department:  req.Department,
		Quantity:    req.Quantity,
		Status:      models.RequestStatusPending,
		Priority:    priority,
		Description: req.Description,
	}

	if err := f.requestRepo.Save(ctx, &request); err != nil {
		return nil, NewBusinessError("CREATE_REQUEST_FAILED", "Failed to create request", err)
	}

	return &dto.CreateRequestResponse{
		Message:      "Request created successfully",
		RequestID:    request.RequestID,
		AssetID:      request.AssetID,
		Status:       request.Status.String(),
		Priority:     request.Priority.String(),
		Availability: availability,
		CreatedAt:    request.CreatedAt.Format(time.RFC3339),
	}, nil
}

// resolveAsset matches the request against the catalog. With a model the
// lookup narrows to that name+model pool; without one it falls back to the
// name alone. Returns a nil asset for hardware with no catalog entry.
func (f *TicketFlowImpl) resolveAsset(ctx context.Context, req *dto.CreateRequestRequest) (*models.AssetType, int64, error) {
	if req.Model != nil {
		units, err := f.assetRepo.UnitsByNameModel(ctx, req.AssetName, req.Model)
		if err != nil {
			return nil, 0, NewBusinessError("CATALOG_LOOKUP_FAILED", "Failed to resolve asset from catalog", err)
		}
		if len(units) == 0 {
			return nil, 0, nil
		}
		var total int64
		for _, u := range units {
			total += u.QuantityOnHand
		}
		return units[0], total, nil
	}

	asset, err := f.assetRepo.ByName(ctx, req.AssetName)
	if err != nil {
		return nil, 0, NewBusinessError("CATALOG_LOOKUP_FAILED", "Failed to resolve asset from catalog", err)
	}
	if asset == nil {
		return nil, 0, nil
	}
	total, err := f.assetRepo.TotalQuantityByName(ctx, req.AssetName)
	if err != nil {
		return nil, 0, NewBusinessError("AVAILABILITY_CHECK_FAILED", "Failed to check availability", err)
	}
	return asset, total, nil
}

func (f *TicketFlowImpl) ListMyRequests(ctx context.Context, req *dto.ListMyRequestsRequest, metadata *ClientMetadata) (*dto.ListMyRequestsResponse, error) {
	filter := models.HardwareRequestFilter{EmpID: &req.EmpID}
	if req.Status != nil {
		status := models.RequestStatus(*req.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}

	_, pageSize, offset := normalizePagination(req.Page, req.PageSize)

	rows, err := f.requestRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, offset)
	if err != nil {
		return nil, NewBusinessError("LIST_REQUESTS_FAILED", "Failed to list requests", err)
	}
	total, err := f.requestRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_REQUESTS_FAILED", "Failed to count requests", err)
	}

	items := make([]dto.RequestItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, ToRequestItem(r))
	}

	return &dto.ListMyRequestsResponse{
		Message: "Requests retrieved successfully",
		Items:   items,
		Total:   total,
	}, nil
}

// GetRequest returns a single request. Employees only see their own tickets.
func (f *TicketFlowImpl) GetRequest(ctx context.Context, requestID, actorEmpID, actorRole string, metadata *ClientMetadata) (*dto.GetRequestResponse, error) {
	request, err := f.requestRepo.ByRequestID(ctx, requestID)
	if err != nil {
		return nil, NewBusinessError("GET_REQUEST_FAILED", "Failed to load request", err)
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	if actorRole != utils.RoleAdmin && request.EmpID != actorEmpID {
		return nil, ErrNotRequestOwner
	}

	return &dto.GetRequestResponse{
		Message: "Request retrieved successfully",
		Item:    ToRequestItem(request),
	}, nil
}

// UpdateRequest lets the owner adjust quantity and description while the
// ticket is still Pending. Once it leaves Pending the contents are frozen;
// only the lifecycle operations apply.
func (f *TicketFlowImpl) UpdateRequest(ctx context.Context, requestID, actorEmpID string, req *dto.UpdateRequestRequest, metadata *ClientMetadata) (*dto.UpdateRequestResponse, error) {
	if req.Quantity != nil && *req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var updated *models.HardwareRequest
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		request, err := f.requestRepo.ByRequestIDForUpdate(txCtx, requestID)
		if err != nil {
			return NewBusinessError("UPDATE_REQUEST_FAILED", "Failed to load request", err)
		}
		if request == nil {
			return ErrRequestNotFound
		}
		if request.EmpID != actorEmpID {
			return ErrNotRequestOwner
		}
		if request.Status == models.RequestStatusCompleted {
			return ErrRequestCompleted
		}
		if request.Status != models.RequestStatusPending {
			return ErrRequestNotPending
		}

		if req.Quantity != nil {
			request.Quantity = *req.Quantity
		}
		if req.Description != nil {
			request.Description = req.Description
		}
		if err := f.requestRepo.Update(txCtx, request); err != nil {
			return NewBusinessError("UPDATE_REQUEST_FAILED", "Failed to save request", err)
		}

		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	updatedAt := updated.CreatedAt
	if updated.UpdatedAt != nil {
		updatedAt = *updated.UpdatedAt
	}

	return &dto.UpdateRequestResponse{
		Message:     "Request updated successfully",
		RequestID:   updated.RequestID,
		Quantity:    updated.Quantity,
		Description: updated.Description,
		UpdatedAt:   updatedAt.Format(time.RFC3339),
	}, nil
}

// CancelRequest withdraws the owner's Pending ticket. The ticket lands in
// Rejected, the terminal state for requests that never got hardware, so no
// stock moves.
func (f *TicketFlowImpl) CancelRequest(ctx context.Context, requestID, actorEmpID string, metadata *ClientMetadata) (*dto.CancelRequestResponse, error) {
	var updated *models.HardwareRequest
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		request, err := f.requestRepo.ByRequestIDForUpdate(txCtx, requestID)
		if err != nil {
			return NewBusinessError("CANCEL_REQUEST_FAILED", "Failed to load request", err)
		}
		if request == nil {
			return ErrRequestNotFound
		}
		if request.EmpID != actorEmpID {
			return ErrNotRequestOwner
		}
		if request.Status == models.RequestStatusCompleted {
			return ErrRequestCompleted
		}
		if request.Status != models.RequestStatusPending {
			return ErrRequestNotPending
		}

		request.Status = models.RequestStatusRejected
		if err := f.requestRepo.Update(txCtx, request); err != nil {
			return NewBusinessError("CANCEL_REQUEST_FAILED", "Failed to save request", err)
		}

		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.CancelRequestResponse{
		Message:   "Request cancelled successfully",
		RequestID: updated.RequestID,
		Status:    updated.Status.String(),
	}, nil
}

func (f *TicketFlowImpl) AdminListRequests(ctx context.Context, req *dto.AdminListRequestsRequest, metadata *ClientMetadata) (*dto.AdminListRequestsResponse, error) {
	filter := models.HardwareRequestFilter{}
	if req.Search != nil {
		trim := strings.TrimSpace(*req.Search)
		if trim != "" {
			filter.Search = &trim
		}
	}
	if req.Department != nil && *req.Department != "" {
		filter.Department = req.Department
	}
	if req.Status != nil {
		status := models.RequestStatus(*req.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}
	if req.Priority != nil {
		priority := models.RequestPriority(*req.Priority)
		if !priority.Valid() {
			return nil, ErrInvalidPriority
		}
		filter.Priority = &priority
	}
	if req.Assigned != nil {
		filter.Assigned = req.Assigned
	}
	if req.StartDate != nil {
		filter.CreatedAfter = req.StartDate
	}
	if req.EndDate != nil {
		filter.CreatedBefore = req.EndDate
	}
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, ErrStartDateAfterEndDate
	}

	page, pageSize, offset := normalizePagination(req.Page, req.PageSize)

	rows, err := f.requestRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, offset)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LIST_REQUESTS_FAILED", "Failed to list requests", err)
	}
	total, err := f.requestRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LIST_REQUESTS_FAILED", "Failed to count requests", err)
	}

	items := make([]dto.RequestItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, ToRequestItem(r))
	}

	return &dto.AdminListRequestsResponse{
		Message:  "Requests retrieved successfully",
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (f *TicketFlowImpl) FilterOptions(ctx context.Context, metadata *ClientMetadata) (*dto.RequestFilterOptionsResponse, error) {
	departments, err := f.requestRepo.DistinctDepartments(ctx)
	if err != nil {
		return nil, NewBusinessError("FILTER_OPTIONS_FAILED", "Failed to load filter options", err)
	}

	return &dto.RequestFilterOptionsResponse{
		Message:     "Filter options retrieved successfully",
		Departments: departments,
		Statuses: []string{
			models.RequestStatusPending.String(),
			models.RequestStatusApproved.String(),
			models.RequestStatusRejected.String(),
			models.RequestStatusCompleted.String(),
		},
		Priorities: []string{
			models.RequestPriorityLow.String(),
			models.RequestPriorityMedium.String(),
			models.RequestPriorityHigh.String(),
		},
	}, nil
}

// UpdateStatus drives the request lifecycle. The whole decision runs inside
// one transaction with the ticket row locked, so concurrent transitions
// serialize; the loser observes the post-transition state and gets a
// conflict, never a silent no-op. The first exit from Pending into Approved
// or Completed deducts stock exactly once, in the same transaction.
func (f *TicketFlowImpl) UpdateStatus(ctx context.Context, requestID, actorEmpID, actorRole string, target models.RequestStatus, metadata *ClientMetadata) (*dto.UpdateStatusResponse, error) {
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}

	var updated *models.HardwareRequest
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		request, err := f.requestRepo.ByRequestIDForUpdate(txCtx, requestID)
		if err != nil {
			return NewBusinessError("UPDATE_STATUS_FAILED", "Failed to load request", err)
		}
		if request == nil {
			return ErrRequestNotFound
		}

		if err := f.authorizeTransition(request, actorEmpID, actorRole, target); err != nil {
			return err
		}

		// Redundant Pending -> Pending is accepted as a no-op
		if request.Status == target {
			updated = request
			return nil
		}

		deduct := request.Status == models.RequestStatusPending &&
			(target == models.RequestStatusApproved || target == models.RequestStatusCompleted)
		if deduct && request.AssetID != utils.ManualAssetID {
			ok, err := f.assetRepo.DeductStock(txCtx, request.AssetID, request.Quantity)
			if err != nil {
				return NewBusinessError("STOCK_DEDUCTION_FAILED", "Failed to deduct stock", err)
			}
			if !ok {
				asset, err := f.assetRepo.ByAssetID(txCtx, request.AssetID)
				if err != nil {
					return NewBusinessError("STOCK_DEDUCTION_FAILED", "Failed to deduct stock", err)
				}
				if asset == nil {
					return ErrAssetNotFound
				}
				return NewBusinessErrorf("INSUFFICIENT_STOCK",
					"insufficient stock for %s: requested %d, available %d",
					ErrInsufficientStock, request.AssetID, request.Quantity, asset.QuantityOnHand)
			}
		}

		request.Status = target
		if err := f.requestRepo.Update(txCtx, request); err != nil {
			return NewBusinessError("UPDATE_STATUS_FAILED", "Failed to save request", err)
		}

		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	updatedAt := updated.CreatedAt
	if updated.UpdatedAt != nil {
		updatedAt = *updated.UpdatedAt
	}

	return &dto.UpdateStatusResponse{
		Message:   "Status updated successfully",
		RequestID: updated.RequestID,
		Status:    updated.Status.String(),
		UpdatedAt: updatedAt.Format(time.RFC3339),
	}, nil
}

// authorizeTransition applies the role rules on top of the raw state machine
func (f *TicketFlowImpl) authorizeTransition(request *models.HardwareRequest, actorEmpID, actorRole string, target models.RequestStatus) error {
	// Completed is a hard stop for everyone
	if request.Status == models.RequestStatusCompleted {
		return ErrRequestCompleted
	}

	switch actorRole {
	case utils.RoleAdmin:
		if request.Status == target {
			return ErrRequestAlreadyProcessed
		}
		if !request.CanTransitionTo(target) {
			return ErrInvalidTransition
		}
		return nil
	case utils.RoleEmployee:
		if request.EmpID != actorEmpID {
			return ErrNotRequestOwner
		}
		if request.IsAssigned() && target != models.RequestStatusCompleted {
			return ErrAssignedOnlyComplete
		}
		// Employees only close out their own tickets; a redundant Pending
		// submission passes through as a no-op
		if target == models.RequestStatusPending && request.Status == models.RequestStatusPending {
			return nil
		}
		if target != models.RequestStatusCompleted {
			return ErrEmployeeTransitionDenied
		}
		if !request.CanTransitionTo(target) {
			return ErrInvalidTransition
		}
		return nil
	default:
		return NewBusinessErrorf("UNKNOWN_ROLE", "unknown actor role %q", nil, actorRole)
	}
}

// UpdatePriority changes the urgency. Locked once the ticket is Completed or
// a technician has been assigned.
func (f *TicketFlowImpl) UpdatePriority(ctx context.Context, requestID string, priority models.RequestPriority, metadata *ClientMetadata) (*dto.UpdatePriorityResponse, error) {
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	var updated *models.HardwareRequest
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		request, err := f.requestRepo.ByRequestIDForUpdate(txCtx, requestID)
		if err != nil {
			return NewBusinessError("UPDATE_PRIORITY_FAILED", "Failed to load request", err)
		}
		if request == nil {
			return ErrRequestNotFound
		}
		if !request.IsEditable() {
			return ErrRequestNotEditable
		}

		request.Priority = priority
		if err := f.requestRepo.Update(txCtx, request); err != nil {
			return NewBusinessError("UPDATE_PRIORITY_FAILED", "Failed to save request", err)
		}

		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.UpdatePriorityResponse{
		Message:   "Priority updated successfully",
		RequestID: updated.RequestID,
		Priority:  updated.Priority.String(),
	}, nil
}

// UpdateAssignment records a technician on the ticket. Assigning walks the
// same Pending -> Approved transition as an approval, deduction included, so
// the stock comes off exactly once no matter which path runs first.
func (f *TicketFlowImpl) UpdateAssignment(ctx context.Context, requestID string, req *dto.UpdateAssignmentRequest, metadata *ClientMetadata) (*dto.UpdateAssignmentResponse, error) {
	var updated *models.HardwareRequest
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		request, err := f.requestRepo.ByRequestIDForUpdate(txCtx, requestID)
		if err != nil {
			return NewBusinessError("UPDATE_ASSIGNMENT_FAILED", "Failed to load request", err)
		}
		if request == nil {
			return ErrRequestNotFound
		}
		if !request.IsEditable() {
			return ErrRequestNotEditable
		}

		if req.Assigned && request.Status == models.RequestStatusPending {
			if request.AssetID != utils.ManualAssetID {
				ok, err := f.assetRepo.DeductStock(txCtx, request.AssetID, request.Quantity)
				if err != nil {
					return NewBusinessError("STOCK_DEDUCTION_FAILED", "Failed to deduct stock", err)
				}
				if !ok {
					asset, err := f.assetRepo.ByAssetID(txCtx, request.AssetID)
					if err != nil {
						return NewBusinessError("STOCK_DEDUCTION_FAILED", "Failed to deduct stock", err)
					}
					if asset == nil {
						return ErrAssetNotFound
					}
					return NewBusinessErrorf("INSUFFICIENT_STOCK",
						"insufficient stock for %s: requested %d, available %d",
						ErrInsufficientStock, request.AssetID, request.Quantity, asset.QuantityOnHand)
				}
			}
			request.Status = models.RequestStatusApproved
		}

		request.Assigned = utils.ToPtr(req.Assigned)
		if req.Assigned {
			request.TechnicianName = req.TechnicianName
		} else {
			request.TechnicianName = nil
		}

		if err := f.requestRepo.Update(txCtx, request); err != nil {
			return NewBusinessError("UPDATE_ASSIGNMENT_FAILED", "Failed to save request", err)
		}

		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.UpdateAssignmentResponse{
		Message:        "Assignment updated successfully",
		RequestID:      updated.RequestID,
		Status:         updated.Status.String(),
		Assigned:       updated.IsAssigned(),
		TechnicianName: updated.TechnicianName,
	}, nil
}
