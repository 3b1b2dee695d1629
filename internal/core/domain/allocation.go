package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allocation applies part of a payment against an invoice. At most one row
// exists per (payment, invoice) pair; repeated allocations merge.
type Allocation struct {
	AllocationID string          `json:"allocationID"`
	PaymentID    string          `json:"paymentID"`
	InvoiceID    string          `json:"invoiceID"`
	Amount       decimal.Decimal `json:"amount"` // Always > 0
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// PaidThreshold is the tolerance under which an invoice's outstanding balance
// counts as settled. Outstanding <= 0.01 flips the status to paid; above it
// the invoice reverts to finalized.
var PaidThreshold = decimal.NewFromFloat(0.01)
