package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// AllocateRequest defines the payload for applying part of a payment to an
// invoice.
type AllocateRequest struct {
	PaymentID string          `json:"paymentID" binding:"required"`
	InvoiceID string          `json:"invoiceID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// UpdateAllocationRequest defines the payload for restating an allocation's
// amount.
type UpdateAllocationRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// AllocationResponse defines the data returned for an allocation.
type AllocationResponse struct {
	AllocationID string          `json:"allocationID"`
	PaymentID    string          `json:"paymentID"`
	InvoiceID    string          `json:"invoiceID"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ListAllocationsResponse wraps an allocation listing.
type ListAllocationsResponse struct {
	Allocations []AllocationResponse `json:"allocations"`
}

// ToAllocationResponse converts a domain.Allocation to AllocationResponse DTO.
func ToAllocationResponse(a *domain.Allocation) AllocationResponse {
	return AllocationResponse{
		AllocationID: a.AllocationID,
		PaymentID:    a.PaymentID,
		InvoiceID:    a.InvoiceID,
		Amount:       a.Amount,
		CreatedAt:    a.CreatedAt,
	}
}

// ToAllocationResponses converts a slice of domain.Allocation to []AllocationResponse.
func ToAllocationResponses(allocations []domain.Allocation) []AllocationResponse {
	responses := make([]AllocationResponse, len(allocations))
	for i, a := range allocations {
		responses[i] = ToAllocationResponse(&a)
	}
	return responses
}
