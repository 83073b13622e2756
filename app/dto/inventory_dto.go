package dto

// IntakeRequest represents a vendor delivery being booked into stock
type IntakeRequest struct {
	AssetName   string   `json:"asset_name" validate:"required,min=2,max=255"`
	Brand       *string  `json:"brand,omitempty" validate:"omitempty,max=255"`
	Model       *string  `json:"model,omitempty" validate:"omitempty,max=255"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=128"`
	Quantity    int64    `json:"quantity" validate:"required,min=1,max=100000"`
	UnitCost    *float64 `json:"unit_cost,omitempty" validate:"omitempty,min=0"`
	VendorName  string   `json:"vendor_name" validate:"required,min=2,max=255"`
	VendorEmail *string  `json:"vendor_email,omitempty" validate:"omitempty,email"`
	VendorPhone *string  `json:"vendor_phone,omitempty" validate:"omitempty,max=32"`
}

// IntakeResponse represents the recorded intake
type IntakeResponse struct {
	Message     string `json:"message"`
	PurchaseID  string `json:"purchase_id"`
	AssetID     string `json:"asset_id"`
	VendorID    string `json:"vendor_id"`
	AssetName   string `json:"asset_name"`
	Quantity    int64  `json:"quantity"`
	NewQuantity int64  `json:"new_quantity"`
	PurchasedAt string `json:"purchased_at"`
}

// InventoryItem is a single catalog row in inventory listings
type InventoryItem struct {
	AssetID        string  `json:"asset_id"`
	Name           string  `json:"name"`
	Brand          *string `json:"brand,omitempty"`
	Model          *string `json:"model,omitempty"`
	Category       *string `json:"category,omitempty"`
	QuantityOnHand int64   `json:"quantity_on_hand"`
	StockStatus    string  `json:"stock_status"`
	CreatedAt      string  `json:"created_at"`
}

// ListInventoryRequest represents the inventory listing query
type ListInventoryRequest struct {
	Search      *string `json:"search,omitempty" validate:"omitempty,max=255"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=128"`
	StockStatus *string `json:"stock_status,omitempty" validate:"omitempty,oneof='In Stock' 'Low Stock' 'Out of Stock'"`
	Page        int     `json:"page" validate:"omitempty,min=1"`
	PageSize    int     `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListInventoryResponse represents the inventory listing
type ListInventoryResponse struct {
	Message  string          `json:"message"`
	Items    []InventoryItem `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// InventoryFilterOptionsResponse lists the selectable inventory filter values
type InventoryFilterOptionsResponse struct {
	Message       string   `json:"message"`
	Categories    []string `json:"categories"`
	StockStatuses []string `json:"stock_statuses"`
}
