// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and request tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// normalizePagination clamps page and pageSize to sane bounds and returns
// the resulting offset
func normalizePagination(page, pageSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return page, pageSize, offset
}

// ToRequestItem converts a hardware request model to its listing DTO
func ToRequestItem(r *models.HardwareRequest) dto.RequestItem {
	item := dto.RequestItem{
		RequestID:      r.RequestID,
		EmpID:          r.EmpID,
		AssetID:        r.AssetID,
		AssetName:      r.AssetName,
		Department:     r.Department,
		Quantity:       r.Quantity,
		Status:         r.Status.String(),
		Priority:       r.Priority.String(),
		Assigned:       utils.IsTrue(r.Assigned),
		Allocated:      utils.IsTrue(r.Allocated),
		TechnicianName: r.TechnicianName,
		Description:    r.Description,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	if r.UpdatedAt != nil {
		updated := r.UpdatedAt.Format(time.RFC3339)
		item.UpdatedAt = &updated
	}
	return item
}
