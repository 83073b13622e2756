package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/amirphl/Kusanagi/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllocationStatus represents the status of a unit allocation
type AllocationStatus string

const (
	AllocationStatusAssigned AllocationStatus = "Assigned"
	AllocationStatusReturned AllocationStatus = "Returned"
)

// String returns the string representation of the status
func (s AllocationStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s AllocationStatus) Valid() bool {
	switch s {
	case AllocationStatusAssigned, AllocationStatusReturned:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for AllocationStatus
func (s *AllocationStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = AllocationStatus(v)
	case []byte:
		*s = AllocationStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into AllocationStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for AllocationStatus
func (s AllocationStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid AllocationStatus: %s", s)
	}
	return string(s), nil
}

// Allocation ties a hardware unit (AssetID) to an employee. A unit holds
// at most one Assigned allocation at a time; Returned rows are history.
type Allocation struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uk_allocations_uuid" json:"uuid"`
	RequestID   string           `gorm:"size:32;not null;index:idx_allocations_request_id" json:"request_id"`
	AssetID     string           `gorm:"size:32;not null;index:idx_allocations_asset_id" json:"asset_id"`
	EmpID       string           `gorm:"size:64;not null;index:idx_allocations_emp_id" json:"emp_id"`
	Status      AllocationStatus `gorm:"size:16;not null;default:'Assigned'" json:"status"`
	AllocatedAt time.Time        `gorm:"not null" json:"allocated_at"`
	ReturnedAt  *time.Time       `json:"returned_at,omitempty"`
	CreatedAt   time.Time        `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (Allocation) TableName() string { return "allocations" }

// BeforeCreate is called before creating a new record
func (a *Allocation) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AllocationStatusAssigned
	}
	if a.AllocatedAt.IsZero() {
		a.AllocatedAt = utils.UTCNow()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// AllocationFilter represents filter criteria for allocation queries
type AllocationFilter struct {
	ID        *uint             `json:"id,omitempty"`
	UUID      *uuid.UUID        `json:"uuid,omitempty"`
	RequestID *string           `json:"request_id,omitempty"`
	AssetID   *string           `json:"asset_id,omitempty"`
	EmpID     *string           `json:"emp_id,omitempty"`
	Status    *AllocationStatus `json:"status,omitempty"`
}
