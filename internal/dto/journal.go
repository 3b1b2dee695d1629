package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// CreateEntryRequest defines the payload for posting a manual journal entry.
type CreateEntryRequest struct {
	EntryDate       time.Time       `json:"entryDate" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	DebitAccountID  string          `json:"debitAccountID" binding:"required"`
	CreditAccountID string          `json:"creditAccountID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Reference       string          `json:"reference"`
	Stakeholder     string          `json:"stakeholder"`
}

// TransferRequest defines the payload for a bank-to-bank style transfer,
// which posts as debit destination / credit source.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	EntryDate     time.Time       `json:"entryDate" binding:"required"`
	Description   string          `json:"description"`
	Reference     string          `json:"reference"`
}

// ListEntriesParams carries the optional journal listing filters. NextToken
// is an opaque cursor from a previous page's response; Limit caps the page
// size.
type ListEntriesParams struct {
	From            *time.Time `form:"from" time_format:"2006-01-02"`
	To              *time.Time `form:"to" time_format:"2006-01-02"`
	TransactionType string     `form:"transactionType"`
	Reference       string     `form:"reference"`
	Limit           int        `form:"limit"`
	NextToken       string     `form:"nextToken"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID            string          `json:"entryID"`
	EntryDate          time.Time       `json:"entryDate"`
	Description        string          `json:"description"`
	DebitAccountID     string          `json:"debitAccountID"`
	CreditAccountID    string          `json:"creditAccountID"`
	Amount             decimal.Decimal `json:"amount"`
	Reference          string          `json:"reference"`
	TransactionType    string          `json:"transactionType"`
	JournalNumber      string          `json:"journalNumber"`
	Stakeholder        string          `json:"stakeholder"`
	TransactionGroupID string          `json:"transactionGroupID"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// LedgerLineResponse is an entry viewed from one account's side.
type LedgerLineResponse struct {
	EntryResponse
	IsDebit  bool `json:"isDebit"`
	IsCredit bool `json:"isCredit"`
}

// ListEntriesResponse wraps a journal listing. NextToken is present when
// another page exists.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken string          `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:            e.EntryID,
		EntryDate:          e.EntryDate,
		Description:        e.Description,
		DebitAccountID:     e.DebitAccountID,
		CreditAccountID:    e.CreditAccountID,
		Amount:             e.Amount,
		Reference:          e.Reference,
		TransactionType:    string(e.TransactionType),
		JournalNumber:      e.JournalNumber,
		Stakeholder:        e.Stakeholder,
		TransactionGroupID: e.TransactionGroupID,
		CreatedAt:          e.CreatedAt,
	}
}

// ToEntryResponses converts a slice of domain.JournalEntry to []EntryResponse.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToEntryResponse(&e)
	}
	return responses
}

// ToLedgerLineResponse converts a domain.LedgerLine to LedgerLineResponse DTO.
func ToLedgerLineResponse(l *domain.LedgerLine) LedgerLineResponse {
	return LedgerLineResponse{
		EntryResponse: ToEntryResponse(&l.JournalEntry),
		IsDebit:       l.IsDebit,
		IsCredit:      l.IsCredit,
	}
}
