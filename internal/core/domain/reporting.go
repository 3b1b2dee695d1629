package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account row in a trial balance report.
// Exactly one of Debit/Credit is non-zero; zero-balance accounts are dropped.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        int             `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport carries the rows plus the column totals, which are equal
// whenever the ledger is internally consistent.
type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// AccountMovement is the per-account debit/credit aggregate the reporting
// queries return; statement shaping happens in the service.
type AccountMovement struct {
	Account Account         `json:"account"`
	Debits  decimal.Decimal `json:"debits"`
	Credits decimal.Decimal `json:"credits"`
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      int             `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// PAndLReport covers period movement only; opening balances are excluded.
type PAndLReport struct {
	Income    []AccountAmount `json:"income"`
	Expenses  []AccountAmount `json:"expenses"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

// BalanceSheetReport is the position at a date. RetainedEarnings is the
// balancing figure Assets - Liabilities - Equity, not a ledger account.
type BalanceSheetReport struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
}

// VatLineSummary aggregates invoice lines under one VAT code.
type VatLineSummary struct {
	VatCode VatCode         `json:"vatCode"`
	Net     decimal.Decimal `json:"net"`
	Vat     decimal.Decimal `json:"vat"`
}

// VATReturnReport is computed from the invoice item tables at the reporting
// rate, independently of any posted VAT entries.
type VATReturnReport struct {
	Sales     []VatLineSummary `json:"sales"`
	Purchases []VatLineSummary `json:"purchases"`
	OutputVat decimal.Decimal  `json:"outputVat"`
	InputVat  decimal.Decimal  `json:"inputVat"`
	NetVatDue decimal.Decimal  `json:"netVatDue"` // Output minus input; negative means reclaimable
}
