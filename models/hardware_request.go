package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/amirphl/Kusanagi/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus represents the lifecycle status of a hardware request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "Pending"
	RequestStatusApproved  RequestStatus = "Approved"
	RequestStatusRejected  RequestStatus = "Rejected"
	RequestStatusCompleted RequestStatus = "Completed"
)

// String returns the string representation of the status
func (s RequestStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved,
		RequestStatusRejected, RequestStatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusRejected || s == RequestStatusCompleted
}

// Scan implements the sql.Scanner interface for RequestStatus
func (s *RequestStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = RequestStatus(v)
	case []byte:
		*s = RequestStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into RequestStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for RequestStatus
func (s RequestStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid RequestStatus: %s", s)
	}
	return string(s), nil
}

// RequestPriority represents the urgency of a hardware request
type RequestPriority string

const (
	RequestPriorityLow    RequestPriority = "Low"
	RequestPriorityMedium RequestPriority = "Medium"
	RequestPriorityHigh   RequestPriority = "High"
)

// String returns the string representation of the priority
func (p RequestPriority) String() string {
	return string(p)
}

// Valid checks if the priority is valid
func (p RequestPriority) Valid() bool {
	switch p {
	case RequestPriorityLow, RequestPriorityMedium, RequestPriorityHigh:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for RequestPriority
func (p *RequestPriority) Scan(value any) error {
	if value == nil {
		*p = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*p = RequestPriority(v)
	case []byte:
		*p = RequestPriority(string(v))
	default:
		return fmt.Errorf("cannot scan %T into RequestPriority", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for RequestPriority
func (p RequestPriority) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid RequestPriority: %s", p)
	}
	return string(p), nil
}

// HardwareRequest represents an employee's request for a hardware item.
// RequestID (REQ-xxxxxx) is the public identifier minted by the sequence
// allocator; Department is the canonical spelling (legacy "dept" payloads
// are translated at the DTO boundary).
type HardwareRequest struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uk_hardware_requests_uuid" json:"uuid"`
	RequestID      string          `gorm:"size:32;not null;uniqueIndex:uk_hardware_requests_request_id" json:"request_id"`
	EmpID          string          `gorm:"size:64;not null;index:idx_hardware_requests_emp_id" json:"emp_id"`
	AssetID        string          `gorm:"size:32;not null;index:idx_hardware_requests_asset_id" json:"asset_id"`
	AssetName      string          `gorm:"size:255;not null" json:"asset_name"`
	Department     string          `gorm:"size:128;not null;index:idx_hardware_requests_department" json:"department"`
	Quantity       int64           `gorm:"not null;default:1" json:"quantity"`
	Status         RequestStatus   `gorm:"size:16;not null;default:'Pending';index:idx_hardware_requests_status" json:"status"`
	Priority       RequestPriority `gorm:"size:16;not null;default:'Low'" json:"priority"`
	Assigned       *bool           `gorm:"default:false" json:"assigned,omitempty"`
	Allocated      *bool           `gorm:"default:false" json:"allocated,omitempty"`
	TechnicianName *string         `gorm:"size:255" json:"technician_name,omitempty"`
	Description    *string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt      time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_hardware_requests_created_at" json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (HardwareRequest) TableName() string {
	return "hardware_requests"
}

// BeforeCreate is called before creating a new record
func (r *HardwareRequest) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RequestStatusPending
	}
	if r.Priority == "" {
		r.Priority = RequestPriorityLow
	}
	if r.Quantity == 0 {
		r.Quantity = 1
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (r *HardwareRequest) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	r.UpdatedAt = &now
	return nil
}

// CanTransitionTo checks if the request can transition to the given status
func (r *HardwareRequest) CanTransitionTo(newStatus RequestStatus) bool {
	switch r.Status {
	case RequestStatusPending:
		return newStatus == RequestStatusApproved ||
			newStatus == RequestStatusRejected ||
			newStatus == RequestStatusCompleted
	case RequestStatusApproved:
		return newStatus == RequestStatusCompleted
	default:
		return false
	}
}

// IsAssigned reports whether a technician has been assigned
func (r *HardwareRequest) IsAssigned() bool {
	return utils.IsTrue(r.Assigned)
}

// IsEditable checks if priority and assignment may still change
func (r *HardwareRequest) IsEditable() bool {
	return r.Status != RequestStatusCompleted && !r.IsAssigned()
}

// HardwareRequestFilter represents filter criteria for request queries
type HardwareRequestFilter struct {
	ID            *uint            `json:"id,omitempty"`
	UUID          *uuid.UUID       `json:"uuid,omitempty"`
	RequestID     *string          `json:"request_id,omitempty"`
	EmpID         *string          `json:"emp_id,omitempty"`
	AssetID       *string          `json:"asset_id,omitempty"`
	Department    *string          `json:"department,omitempty"`
	Status        *RequestStatus   `json:"status,omitempty"`
	Priority      *RequestPriority `json:"priority,omitempty"`
	Assigned      *bool            `json:"assigned,omitempty"`
	Search        *string          `json:"search,omitempty"`
	CreatedAfter  *time.Time       `json:"created_after,omitempty"`
	CreatedBefore *time.Time       `json:"created_before,omitempty"`
}
