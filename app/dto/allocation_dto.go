package dto

// AllocateResponse represents the outcome of allocating a unit to a request
type AllocateResponse struct {
	Message     string `json:"message"`
	RequestID   string `json:"request_id"`
	AssetID     string `json:"asset_id"`
	EmpID       string `json:"emp_id"`
	Status      string `json:"status"`
	AllocatedAt string `json:"allocated_at"`
}

// AllocationItem is a single allocation in listing responses
type AllocationItem struct {
	RequestID   string  `json:"request_id"`
	AssetID     string  `json:"asset_id"`
	AssetName   string  `json:"asset_name,omitempty"`
	Status      string  `json:"status"`
	AllocatedAt string  `json:"allocated_at"`
	ReturnedAt  *string `json:"returned_at,omitempty"`
}

// MyHardwareResponse lists hardware currently assigned to an employee
type MyHardwareResponse struct {
	Message string           `json:"message"`
	Items   []AllocationItem `json:"items"`
}
