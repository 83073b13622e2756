// Package businessflow contains the core business logic for hardware
// requests, inventory, and allocations
package businessflow

import (
	"errors"
	"fmt"

	"github.com/amirphl/Kusanagi/app/services"
)

// Business flow error constants
var (
	// Request lifecycle errors
	ErrRequestNotFound          = errors.New("request not found")
	ErrRequestAlreadyProcessed  = errors.New("request already processed")
	ErrRequestCompleted         = errors.New("request is completed and cannot change")
	ErrInvalidTransition        = errors.New("status transition not allowed")
	ErrNotRequestOwner          = errors.New("request belongs to another employee")
	ErrEmployeeTransitionDenied = errors.New("employees may only complete their requests")
	ErrAssignedOnlyComplete     = errors.New("technician assigned, request can only be completed")
	ErrRequestNotEditable       = errors.New("request priority and assignment are locked")
	ErrRequestNotPending        = errors.New("request is no longer pending")
	ErrInvalidStatus            = errors.New("invalid status")
	ErrInvalidPriority          = errors.New("invalid priority")
	ErrInvalidQuantity          = errors.New("quantity must be at least 1")

	// Inventory errors
	ErrAssetNotFound     = errors.New("asset not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrVendorNotFound    = errors.New("vendor not found")

	// Allocation errors
	ErrNoFreeUnit            = errors.New("no free unit available")
	ErrRequestNotAllocatable = errors.New("request is not pending allocation")
	ErrAlreadyAllocated      = errors.New("request already holds an allocation")

	// Sequence allocator errors (re-exported so callers need one package)
	ErrSequenceUnavailable = services.ErrSequenceUnavailable

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")

	// Cache errors
	ErrCacheNotAvailable = errors.New("cache not available")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsRequestNotFound(err error) bool {
	return errors.Is(err, ErrRequestNotFound)
}

func IsRequestAlreadyProcessed(err error) bool {
	return errors.Is(err, ErrRequestAlreadyProcessed)
}

func IsRequestCompleted(err error) bool {
	return errors.Is(err, ErrRequestCompleted)
}

func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

func IsNotRequestOwner(err error) bool {
	return errors.Is(err, ErrNotRequestOwner)
}

func IsEmployeeTransitionDenied(err error) bool {
	return errors.Is(err, ErrEmployeeTransitionDenied)
}

func IsAssignedOnlyComplete(err error) bool {
	return errors.Is(err, ErrAssignedOnlyComplete)
}

func IsRequestNotEditable(err error) bool {
	return errors.Is(err, ErrRequestNotEditable)
}

func IsRequestNotPending(err error) bool {
	return errors.Is(err, ErrRequestNotPending)
}

func IsInvalidStatus(err error) bool {
	return errors.Is(err, ErrInvalidStatus)
}

func IsInvalidPriority(err error) bool {
	return errors.Is(err, ErrInvalidPriority)
}

func IsInvalidQuantity(err error) bool {
	return errors.Is(err, ErrInvalidQuantity)
}

func IsAssetNotFound(err error) bool {
	return errors.Is(err, ErrAssetNotFound)
}

func IsInsufficientStock(err error) bool {
	return errors.Is(err, ErrInsufficientStock)
}

func IsVendorNotFound(err error) bool {
	return errors.Is(err, ErrVendorNotFound)
}

func IsNoFreeUnit(err error) bool {
	return errors.Is(err, ErrNoFreeUnit)
}

func IsRequestNotAllocatable(err error) bool {
	return errors.Is(err, ErrRequestNotAllocatable)
}

func IsAlreadyAllocated(err error) bool {
	return errors.Is(err, ErrAlreadyAllocated)
}

func IsSequenceUnavailable(err error) bool {
	return errors.Is(err, ErrSequenceUnavailable)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}

func IsCacheNotAvailable(err error) bool {
	return errors.Is(err, ErrCacheNotAvailable)
}
