package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	Code        int             `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Code      int             `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	FromDate string                  `json:"fromDate"`
	ToDate   string                  `json:"toDate"`
	Income   []AccountAmountResponse `json:"income"`
	Expenses []AccountAmountResponse `json:"expenses"`
	Summary  struct {
		TotalIncome   decimal.Decimal `json:"totalIncome"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetProfit     decimal.Decimal `json:"netProfit"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
		RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
	} `json:"summary"`
}

// VatLineSummaryResponse aggregates invoice lines under one VAT code.
type VatLineSummaryResponse struct {
	VatCode string          `json:"vatCode"`
	Net     decimal.Decimal `json:"net"`
	Vat     decimal.Decimal `json:"vat"`
}

// VatReturnResponse represents the VAT return report response
type VatReturnResponse struct {
	FromDate  string                   `json:"fromDate"`
	ToDate    string                   `json:"toDate"`
	Sales     []VatLineSummaryResponse `json:"sales"`
	Purchases []VatLineSummaryResponse `json:"purchases"`
	Summary   struct {
		OutputVat decimal.Decimal `json:"outputVat"`
		InputVat  decimal.Decimal `json:"inputVat"`
		NetVatDue decimal.Decimal `json:"netVatDue"`
	} `json:"summary"`
}

// ToTrialBalanceResponse converts a domain trial balance report to a DTO response
func ToTrialBalanceResponse(report *domain.TrialBalanceReport, asOf time.Time) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf: asOf.Format("2006-01-02"),
		Rows: make([]TrialBalanceRowResponse, len(report.Rows)),
	}

	for i, row := range report.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			Code:        row.Code,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}

	response.Totals.Debit = report.TotalDebit
	response.Totals.Credit = report.TotalCredit

	return response
}

func toAccountAmountResponses(amounts []domain.AccountAmount) []AccountAmountResponse {
	responses := make([]AccountAmountResponse, len(amounts))
	for i, a := range amounts {
		responses[i] = AccountAmountResponse{
			AccountID: a.AccountID,
			Code:      a.Code,
			Name:      a.Name,
			Amount:    a.NetAmount,
		}
	}
	return responses
}

// ToProfitAndLossResponse converts a domain P&L report to a DTO response
func ToProfitAndLossResponse(report *domain.PAndLReport, from, to time.Time) ProfitAndLossResponse {
	response := ProfitAndLossResponse{
		FromDate: from.Format("2006-01-02"),
		ToDate:   to.Format("2006-01-02"),
		Income:   toAccountAmountResponses(report.Income),
		Expenses: toAccountAmountResponses(report.Expenses),
	}

	totalIncome := decimal.Zero
	for _, inc := range report.Income {
		totalIncome = totalIncome.Add(inc.NetAmount)
	}
	totalExpenses := decimal.Zero
	for _, exp := range report.Expenses {
		totalExpenses = totalExpenses.Add(exp.NetAmount)
	}

	response.Summary.TotalIncome = totalIncome
	response.Summary.TotalExpenses = totalExpenses
	response.Summary.NetProfit = report.NetProfit

	return response
}

// ToBalanceSheetResponse converts a domain balance sheet report to a DTO response
func ToBalanceSheetResponse(report *domain.BalanceSheetReport, asOf time.Time) BalanceSheetResponse {
	response := BalanceSheetResponse{
		AsOf:        asOf.Format("2006-01-02"),
		Assets:      toAccountAmountResponses(report.Assets),
		Liabilities: toAccountAmountResponses(report.Liabilities),
		Equity:      toAccountAmountResponses(report.Equity),
	}

	response.Summary.TotalAssets = report.TotalAssets
	response.Summary.TotalLiabilities = report.TotalLiabilities
	response.Summary.TotalEquity = report.TotalEquity
	response.Summary.RetainedEarnings = report.RetainedEarnings

	return response
}

func toVatLineSummaryResponses(lines []domain.VatLineSummary) []VatLineSummaryResponse {
	responses := make([]VatLineSummaryResponse, len(lines))
	for i, l := range lines {
		responses[i] = VatLineSummaryResponse{
			VatCode: string(l.VatCode),
			Net:     l.Net,
			Vat:     l.Vat,
		}
	}
	return responses
}

// ToVatReturnResponse converts a domain VAT return report to a DTO response
func ToVatReturnResponse(report *domain.VATReturnReport, from, to time.Time) VatReturnResponse {
	response := VatReturnResponse{
		FromDate:  from.Format("2006-01-02"),
		ToDate:    to.Format("2006-01-02"),
		Sales:     toVatLineSummaryResponses(report.Sales),
		Purchases: toVatLineSummaryResponses(report.Purchases),
	}

	response.Summary.OutputVat = report.OutputVat
	response.Summary.InputVat = report.InputVat
	response.Summary.NetVatDue = report.NetVatDue

	return response
}
