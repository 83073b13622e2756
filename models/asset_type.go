package models

import (
	"time"

	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
)

// Stock status labels derived from on-hand quantity
const (
	StockStatusIn  = "In Stock"
	StockStatusLow = "Low Stock"
	StockStatusOut = "Out of Stock"
)

// AssetType represents a catalog entry in the database.
// Each row carries its own AssetID (AST-xxxxx) and an on-hand quantity;
// rows sharing Name and Model form the unit pool for allocations.
type AssetType struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	AssetID        string     `gorm:"size:32;not null;uniqueIndex:uk_asset_types_asset_id" json:"asset_id"`
	Name           string     `gorm:"size:255;not null;index:idx_asset_types_name" json:"name"`
	Brand          *string    `gorm:"size:255" json:"brand,omitempty"`
	Model          *string    `gorm:"size:255;index:idx_asset_types_model" json:"model,omitempty"`
	Category       *string    `gorm:"size:128;index:idx_asset_types_category" json:"category,omitempty"`
	QuantityOnHand int64      `gorm:"not null;default:0" json:"quantity_on_hand"`
	CreatedAt      time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_asset_types_created_at" json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (AssetType) TableName() string {
	return "asset_types"
}

// BeforeCreate is called before creating a new record
func (a *AssetType) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (a *AssetType) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	a.UpdatedAt = &now
	return nil
}

// StockStatus derives the display status from the on-hand quantity
func (a *AssetType) StockStatus() string {
	switch {
	case a.QuantityOnHand <= 0:
		return StockStatusOut
	case a.QuantityOnHand < utils.LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// AssetTypeFilter represents filter criteria for catalog queries
type AssetTypeFilter struct {
	ID            *uint      `json:"id,omitempty"`
	AssetID       *string    `json:"asset_id,omitempty"`
	Name          *string    `json:"name,omitempty"`
	Model         *string    `json:"model,omitempty"`
	Category      *string    `json:"category,omitempty"`
	Search        *string    `json:"search,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
