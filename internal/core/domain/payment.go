package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod determines which asset account a receipt lands in:
// BACS goes straight to Bank, everything else to Undeposited Funds.
type PaymentMethod string

const (
	MethodBACS   PaymentMethod = "BACS"
	MethodCash   PaymentMethod = "Cash"
	MethodCard   PaymentMethod = "Card"
	MethodCheque PaymentMethod = "Cheque"
)

// Payment is money received from a customer or paid to a supplier, allocatable
// across that side's invoices.
type Payment struct {
	PaymentID   string          `json:"paymentID"`
	OwnerID     string          `json:"ownerID"`
	Stakeholder string          `json:"stakeholder"`
	PaymentDate time.Time       `json:"paymentDate"`
	Amount      decimal.Decimal `json:"amount"` // Always > 0
	Method      PaymentMethod   `json:"method"`
	Reference   string          `json:"reference"`
	AuditFields
}
