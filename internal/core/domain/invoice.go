package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceFinalized InvoiceStatus = "finalized"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// InvoiceSide distinguishes the purchase ledger (supplier invoices we owe)
// from the sales ledger (customer invoices owed to us). The allocation engine
// is instantiated once per side over side-specific tables.
type InvoiceSide string

const (
	SupplierSide InvoiceSide = "supplier"
	CustomerSide InvoiceSide = "customer"
)

// Invoice is the allocation-relevant view of a purchase or sales invoice.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`
	OwnerID       string          `json:"ownerID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Stakeholder   string          `json:"stakeholder"` // Supplier or customer name
	InvoiceDate   time.Time       `json:"invoiceDate"`
	Total         decimal.Decimal `json:"total"` // Gross total including VAT
	Status        InvoiceStatus   `json:"status"`
	AuditFields
}

// InvoiceItem is one line of an invoice. The VAT return aggregates these
// directly rather than reading posted VAT entries.
type InvoiceItem struct {
	ItemID      string          `json:"itemID"`
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	VatCode     VatCode         `json:"vatCode"`
	LineTotal   decimal.Decimal `json:"lineTotal"` // Net of VAT
	IsProduct   bool            `json:"isProduct"` // Tracked stock line
}
