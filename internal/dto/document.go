package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// InvoiceItemResponse is one invoice line as returned to clients.
type InvoiceItemResponse struct {
	ItemID      string          `json:"itemID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	VatCode     string          `json:"vatCode"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	IsProduct   bool            `json:"isProduct"`
}

// InvoiceResponse returns a posted invoice with its lines.
type InvoiceResponse struct {
	InvoiceID     string                `json:"invoiceID"`
	InvoiceNumber string                `json:"invoiceNumber"`
	Stakeholder   string                `json:"stakeholder"`
	InvoiceDate   time.Time             `json:"invoiceDate"`
	Total         decimal.Decimal       `json:"total"`
	Status        string                `json:"status"`
	Items         []InvoiceItemResponse `json:"items"`
}

// PaymentResponse returns a posted payment.
type PaymentResponse struct {
	PaymentID   string          `json:"paymentID"`
	Stakeholder string          `json:"stakeholder"`
	PaymentDate time.Time       `json:"paymentDate"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Reference   string          `json:"reference"`
}

// ToInvoiceResponse maps a domain invoice and its lines to the API shape.
func ToInvoiceResponse(invoice *domain.Invoice, items []domain.InvoiceItem) InvoiceResponse {
	itemResponses := make([]InvoiceItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = InvoiceItemResponse{
			ItemID:      item.ItemID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VatCode:     string(item.VatCode),
			LineTotal:   item.LineTotal,
			IsProduct:   item.IsProduct,
		}
	}
	return InvoiceResponse{
		InvoiceID:     invoice.InvoiceID,
		InvoiceNumber: invoice.InvoiceNumber,
		Stakeholder:   invoice.Stakeholder,
		InvoiceDate:   invoice.InvoiceDate,
		Total:         invoice.Total,
		Status:        string(invoice.Status),
		Items:         itemResponses,
	}
}

// ToPaymentResponse maps a domain payment to the API shape.
func ToPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   payment.PaymentID,
		Stakeholder: payment.Stakeholder,
		PaymentDate: payment.PaymentDate,
		Amount:      payment.Amount,
		Method:      string(payment.Method),
		Reference:   payment.Reference,
	}
}
