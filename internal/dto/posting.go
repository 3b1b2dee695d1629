package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostingItem is one invoice line as the transaction logger sees it.
type PostingItem struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
	LineTotal   decimal.Decimal `json:"lineTotal" binding:"required"`
	VatCode     string          `json:"vatCode"`
	IsProduct   bool            `json:"isProduct"`
	ProductID   string          `json:"productID"`
	// UnitCost is the cost-of-sales figure for tracked product lines. Callers
	// that have no cost price pass the sale unit price.
	UnitCost decimal.Decimal `json:"unitCost"`
}

// InvoicePostingRequest defines the payload for posting a supplier or
// customer invoice to the ledger.
type InvoicePostingRequest struct {
	InvoiceID     string        `json:"invoiceID" binding:"required"`
	InvoiceNumber string        `json:"invoiceNumber" binding:"required"`
	Stakeholder   string        `json:"stakeholder" binding:"required"`
	InvoiceDate   time.Time     `json:"invoiceDate" binding:"required"`
	Items         []PostingItem `json:"items" binding:"required,min=1"`
}

// PaymentPostingRequest defines the payload for posting a payment or receipt
// to the ledger.
type PaymentPostingRequest struct {
	PaymentID   string          `json:"paymentID" binding:"required"`
	Stakeholder string          `json:"stakeholder" binding:"required"`
	PaymentDate time.Time       `json:"paymentDate" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"method" binding:"required"`
	Reference   string          `json:"reference"`
}

// StockAdjustmentRequest defines the payload for a stock valuation
// adjustment. Amount is signed: positive writes stock up, negative down.
type StockAdjustmentRequest struct {
	ProductID   string          `json:"productID" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Reference   string          `json:"reference"`
}

// PostingResponse returns the group id stamped on a compound posting along
// with the entries written.
type PostingResponse struct {
	TransactionGroupID string          `json:"transactionGroupID"`
	Entries            []EntryResponse `json:"entries"`
}
