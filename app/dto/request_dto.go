package dto

import (
	"strings"
	"time"
)

// CreateRequestRequest represents the payload for filing a hardware request.
// Department is canonical; the legacy "dept" key is still accepted and
// folded in by Normalize.
type CreateRequestRequest struct {
	EmpID       string  `json:"-"`
	AssetName   string  `json:"asset_name" validate:"required,min=2,max=255"`
	Model       *string `json:"model,omitempty" validate:"omitempty,max=255"`
	Department  string  `json:"department" validate:"omitempty,max=128"`
	Dept        *string `json:"dept,omitempty" validate:"omitempty,max=128"`
	Quantity    int64   `json:"quantity" validate:"omitempty,min=1,max=1000"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// Normalize folds the legacy dept alias into Department and trims fields
func (r *CreateRequestRequest) Normalize() {
	if r.Department == "" && r.Dept != nil {
		r.Department = *r.Dept
	}
	r.Department = strings.TrimSpace(r.Department)
	r.AssetName = strings.TrimSpace(r.AssetName)
	if r.Model != nil {
		trimmed := strings.TrimSpace(*r.Model)
		if trimmed == "" {
			r.Model = nil
		} else {
			r.Model = &trimmed
		}
	}
	if r.Quantity == 0 {
		r.Quantity = 1
	}
}

// AvailabilityInfo reports the stock position at creation time. Informational
// only; stock is deducted later, at approval.
type AvailabilityInfo struct {
	Requested  int64 `json:"requested"`
	Available  int64 `json:"available"`
	Sufficient bool  `json:"sufficient"`
}

// CreateRequestResponse represents the response after filing a request
type CreateRequestResponse struct {
	Message      string            `json:"message"`
	RequestID    string            `json:"request_id"`
	AssetID      string            `json:"asset_id"`
	Status       string            `json:"status"`
	Priority     string            `json:"priority"`
	Availability *AvailabilityInfo `json:"availability,omitempty"`
	CreatedAt    string            `json:"created_at"`
}

// RequestItem is a single hardware request in listing responses
type RequestItem struct {
	RequestID      string  `json:"request_id"`
	EmpID          string  `json:"emp_id"`
	AssetID        string  `json:"asset_id"`
	AssetName      string  `json:"asset_name"`
	Department     string  `json:"department"`
	Quantity       int64   `json:"quantity"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	Assigned       bool    `json:"assigned"`
	Allocated      bool    `json:"allocated"`
	TechnicianName *string `json:"technician_name,omitempty"`
	Description    *string `json:"description,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      *string `json:"updated_at,omitempty"`
}

// ListMyRequestsRequest represents the query for an employee's own requests
type ListMyRequestsRequest struct {
	EmpID    string  `json:"-"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=Pending Approved Rejected Completed"`
	Page     int     `json:"page" validate:"omitempty,min=1"`
	PageSize int     `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListMyRequestsResponse represents the employee's request listing
type ListMyRequestsResponse struct {
	Message string        `json:"message"`
	Items   []RequestItem `json:"items"`
	Total   int64         `json:"total"`
}

// AdminListRequestsRequest represents the admin listing query
type AdminListRequestsRequest struct {
	Search     *string    `json:"search,omitempty" validate:"omitempty,max=255"`
	Department *string    `json:"department,omitempty" validate:"omitempty,max=128"`
	Status     *string    `json:"status,omitempty" validate:"omitempty,oneof=Pending Approved Rejected Completed"`
	Priority   *string    `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	Assigned   *bool      `json:"assigned,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Page       int        `json:"page" validate:"omitempty,min=1"`
	PageSize   int        `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// AdminListRequestsResponse represents the admin request listing
type AdminListRequestsResponse struct {
	Message  string        `json:"message"`
	Items    []RequestItem `json:"items"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// RequestFilterOptionsResponse lists the selectable filter values
type RequestFilterOptionsResponse struct {
	Message     string   `json:"message"`
	Departments []string `json:"departments"`
	Statuses    []string `json:"statuses"`
	Priorities  []string `json:"priorities"`
}

// GetRequestResponse represents a single request detail
type GetRequestResponse struct {
	Message string      `json:"message"`
	Item    RequestItem `json:"item"`
}

// UpdateRequestRequest represents an employee's edit of their own pending
// request. Only quantity and description are editable; everything else is
// fixed at creation.
type UpdateRequestRequest struct {
	Quantity    *int64  `json:"quantity,omitempty" validate:"omitempty,min=1,max=1000"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UpdateRequestResponse represents the post-edit state
type UpdateRequestResponse struct {
	Message     string  `json:"message"`
	RequestID   string  `json:"request_id"`
	Quantity    int64   `json:"quantity"`
	Description *string `json:"description,omitempty"`
	UpdatedAt   string  `json:"updated_at"`
}

// CancelRequestResponse represents the state after an employee withdraws
// their pending request
type CancelRequestResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// UpdateStatusRequest represents a lifecycle transition payload
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Approved Rejected Completed"`
}

// UpdateStatusResponse represents the post-transition state
type UpdateStatusResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// UpdatePriorityRequest represents a priority change payload
type UpdatePriorityRequest struct {
	Priority string `json:"priority" validate:"required,oneof=Low Medium High"`
}

// UpdatePriorityResponse represents the post-change state
type UpdatePriorityResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Priority  string `json:"priority"`
}

// UpdateAssignmentRequest represents a technician assignment payload
type UpdateAssignmentRequest struct {
	Assigned       bool    `json:"assigned"`
	TechnicianName *string `json:"technician_name,omitempty" validate:"omitempty,min=2,max=255"`
}

// UpdateAssignmentResponse represents the post-assignment state
type UpdateAssignmentResponse struct {
	Message        string  `json:"message"`
	RequestID      string  `json:"request_id"`
	Status         string  `json:"status"`
	Assigned       bool    `json:"assigned"`
	TechnicianName *string `json:"technician_name,omitempty"`
}
