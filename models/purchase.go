package models

import (
	"time"

	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
)

// Purchase is an immutable intake record. One row per vendor delivery;
// the matching stock increment happens in the same transaction.
type Purchase struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PurchaseID  string    `gorm:"size:32;not null;uniqueIndex:uk_purchases_purchase_id" json:"purchase_id"`
	AssetID     string    `gorm:"size:32;not null;index:idx_purchases_asset_id" json:"asset_id"`
	VendorID    string    `gorm:"size:32;not null;index:idx_purchases_vendor_id" json:"vendor_id"`
	AssetName   string    `gorm:"size:255;not null" json:"asset_name"`
	Quantity    int64     `gorm:"not null" json:"quantity"`
	UnitCost    *float64  `gorm:"type:numeric(12,2)" json:"unit_cost,omitempty"`
	PurchasedAt time.Time `gorm:"not null;index:idx_purchases_purchased_at" json:"purchased_at"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (Purchase) TableName() string { return "purchases" }

// BeforeCreate is called before creating a new record
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.PurchasedAt.IsZero() {
		p.PurchasedAt = utils.UTCNow()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	return nil
}

// PurchaseFilter represents filter criteria for purchase queries
type PurchaseFilter struct {
	ID              *uint      `json:"id,omitempty"`
	PurchaseID      *string    `json:"purchase_id,omitempty"`
	AssetID         *string    `json:"asset_id,omitempty"`
	VendorID        *string    `json:"vendor_id,omitempty"`
	PurchasedAfter  *time.Time `json:"purchased_after,omitempty"`
	PurchasedBefore *time.Time `json:"purchased_before,omitempty"`
}
