package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType labels what produced a journal entry and drives the
// journal number prefix ("Journal Entry" -> JNL, "Transfer" -> TFR,
// "Sales Invoice" -> SIN, "Invoice" -> PIN, "Payment" -> PAY,
// "Adjustment" -> ADJ).
type TransactionType string

const (
	TxnJournalEntry TransactionType = "Journal Entry"
	TxnTransfer     TransactionType = "Transfer"
	TxnInvoice      TransactionType = "Invoice"
	TxnSalesInvoice TransactionType = "Sales Invoice"
	TxnPayment      TransactionType = "Payment"
	TxnAdjustment   TransactionType = "Adjustment"
)

// JournalEntry is one atomic double-entry movement: a single positive amount
// debited to one account and credited to another. Compound events are groups
// of entries sharing a TransactionGroupID.
type JournalEntry struct {
	EntryID            string          `json:"entryID"` // Primary Key (UUID)
	OwnerID            string          `json:"ownerID"`
	EntryDate          time.Time       `json:"entryDate"`
	Description        string          `json:"description"`
	DebitAccountID     string          `json:"debitAccountID"`
	CreditAccountID    string          `json:"creditAccountID"`
	Amount             decimal.Decimal `json:"amount"` // Always > 0
	Reference          string          `json:"reference"`
	TransactionType    TransactionType `json:"transactionType"`
	JournalNumber      string          `json:"journalNumber"`      // e.g. JNL-0001
	Stakeholder        string          `json:"stakeholder"`        // Customer/supplier label, free text
	TransactionGroupID string          `json:"transactionGroupID"` // Groups the legs of one business event
	CreatedAt          time.Time       `json:"createdAt"`
	CreatedBy          string          `json:"createdBy"`
}

// LedgerLine is a JournalEntry viewed from one account's perspective.
type LedgerLine struct {
	JournalEntry
	IsDebit  bool `json:"isDebit"`
	IsCredit bool `json:"isCredit"`
}
