package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Sequence counter names and formats
const (
	// RequestCounterName is the counter backing request identifiers (REQ-000001, ...)
	RequestCounterName = "request_id"

	// AssetCounterName is the counter backing asset identifiers (AST-10001, ...)
	AssetCounterName = "asset_id"

	// PurchaseCounterName is the counter backing purchase identifiers (PUR-000001, ...)
	PurchaseCounterName = "purchase_id"

	// VendorCounterName is the counter backing vendor identifiers (VEN-0001, ...)
	VendorCounterName = "vendor_id"

	RequestIDPrefix  = "REQ-"
	AssetIDPrefix    = "AST-"
	PurchaseIDPrefix = "PUR-"
	VendorIDPrefix   = "VEN-"

	RequestIDPadWidth  = 6
	AssetIDPadWidth    = 5
	PurchaseIDPadWidth = 6
	VendorIDPadWidth   = 4

	// AssetIDStartOffset shifts asset numbering so the first asset gets AST-10001
	AssetIDStartOffset = 10001

	// ManualAssetID marks requests whose asset has no catalog entry yet
	ManualAssetID = "AST-MANUAL"
)

// Actor roles carried in JWT claims and passed to the flows
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Cache keys (joined with the configured redis prefix)
const (
	CatalogNamesCacheKey  = "catalog:names"
	CatalogModelsCacheKey = "catalog:models:"
	AvailabilityCacheKey  = "catalog:availability:"
)

// Inventory constants
const (
	// LowStockThreshold is the quantity below which an asset counts as low stock
	LowStockThreshold = 5
)
