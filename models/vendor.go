package models

import (
	"time"

	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
)

// Vendor represents a hardware supplier.
// Vendors are found-or-created during intake; Name is the natural key.
type Vendor struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	VendorID     string     `gorm:"size:32;not null;uniqueIndex:uk_vendors_vendor_id" json:"vendor_id"`
	Name         string     `gorm:"size:255;not null;uniqueIndex:uk_vendors_name" json:"name"`
	ContactEmail *string    `gorm:"size:255" json:"contact_email,omitempty"`
	Phone        *string    `gorm:"size:32" json:"phone,omitempty"`
	CreatedAt    time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (Vendor) TableName() string { return "vendors" }

// BeforeCreate is called before creating a new record
func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = utils.UTCNow()
	}
	return nil
}

// VendorFilter represents filter criteria for vendor queries
type VendorFilter struct {
	ID       *uint   `json:"id,omitempty"`
	VendorID *string `json:"vendor_id,omitempty"`
	Name     *string `json:"name,omitempty"`
}
