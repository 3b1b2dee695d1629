package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/utils/accounting"
)

// immaterial is the threshold under which period movement is dropped from
// the profit and loss statement.
var immaterial = decimal.NewFromFloat(0.01)

// reportingService implements the ReportingSvcFacade interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingReader
}

// NewReportingService creates the statement generator.
func NewReportingService(reportingRepo portsrepo.ReportingReader) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

// Ensure reportingService implements the ReportingSvcFacade interface
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func sortByCode(movements []domain.AccountMovement) {
	sort.Slice(movements, func(i, j int) bool {
		return movements[i].Account.Code < movements[j].Account.Code
	})
}

func (s *reportingService) TrialBalance(ctx context.Context, ownerID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	movements, err := s.reportingRepo.AccountMovements(ctx, ownerID, nil, &asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to load account movements for trial balance",
			slog.String("owner_id", ownerID))
		return nil, err
	}
	sortByCode(movements)

	report := &domain.TrialBalanceReport{
		Rows:        []domain.TrialBalanceRow{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, m := range movements {
		balance, err := accounting.BalanceFromMovement(m)
		if err != nil {
			return nil, err
		}
		if balance.IsZero() {
			continue
		}

		row := domain.TrialBalanceRow{
			AccountID:   m.Account.AccountID,
			Code:        m.Account.Code,
			AccountName: m.Account.Name,
			AccountType: m.Account.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}

		// A positive balance sits in the account's natural column; a
		// negative one flips to the other side.
		debitSide := m.Account.AccountType.IsDebitNormal()
		if balance.IsNegative() {
			debitSide = !debitSide
			balance = balance.Abs()
		}
		if debitSide {
			row.Debit = balance
			report.TotalDebit = report.TotalDebit.Add(balance)
		} else {
			row.Credit = balance
			report.TotalCredit = report.TotalCredit.Add(balance)
		}

		report.Rows = append(report.Rows, row)
	}

	return report, nil
}

func (s *reportingService) ProfitAndLoss(ctx context.Context, ownerID string, from time.Time, to time.Time) (*domain.PAndLReport, error) {
	movements, err := s.reportingRepo.AccountMovements(ctx, ownerID, &from, &to)
	if err != nil {
		s.LogError(ctx, err, "Failed to load account movements for P&L",
			slog.String("owner_id", ownerID))
		return nil, err
	}
	sortByCode(movements)

	report := &domain.PAndLReport{
		Income:   []domain.AccountAmount{},
		Expenses: []domain.AccountAmount{},
	}
	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero

	for _, m := range movements {
		if m.Account.AccountType != domain.Income && m.Account.AccountType != domain.Expense {
			continue
		}

		net, err := accounting.PeriodNet(m)
		if err != nil {
			return nil, err
		}
		if net.Abs().LessThanOrEqual(immaterial) {
			continue
		}

		amount := domain.AccountAmount{
			AccountID: m.Account.AccountID,
			Code:      m.Account.Code,
			Name:      m.Account.Name,
			NetAmount: net,
		}
		if m.Account.AccountType == domain.Income {
			report.Income = append(report.Income, amount)
			totalIncome = totalIncome.Add(net)
		} else {
			report.Expenses = append(report.Expenses, amount)
			totalExpenses = totalExpenses.Add(net)
		}
	}

	report.NetProfit = totalIncome.Sub(totalExpenses)
	return report, nil
}

func (s *reportingService) BalanceSheet(ctx context.Context, ownerID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	movements, err := s.reportingRepo.AccountMovements(ctx, ownerID, nil, &asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to load account movements for balance sheet",
			slog.String("owner_id", ownerID))
		return nil, err
	}
	sortByCode(movements)

	report := &domain.BalanceSheetReport{
		Assets:      []domain.AccountAmount{},
		Liabilities: []domain.AccountAmount{},
		Equity:      []domain.AccountAmount{},
	}
	totals := map[domain.AccountType]decimal.Decimal{
		domain.Asset:     decimal.Zero,
		domain.Liability: decimal.Zero,
		domain.Equity:    decimal.Zero,
	}

	for _, m := range movements {
		t := m.Account.AccountType
		if t != domain.Asset && t != domain.Liability && t != domain.Equity {
			continue
		}

		balance, err := accounting.BalanceFromMovement(m)
		if err != nil {
			return nil, err
		}
		if balance.IsZero() {
			continue
		}

		amount := domain.AccountAmount{
			AccountID: m.Account.AccountID,
			Code:      m.Account.Code,
			Name:      m.Account.Name,
			NetAmount: balance,
		}
		switch t {
		case domain.Asset:
			report.Assets = append(report.Assets, amount)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, amount)
		case domain.Equity:
			report.Equity = append(report.Equity, amount)
		}
		totals[t] = totals[t].Add(balance)
	}

	report.TotalAssets = totals[domain.Asset]
	report.TotalLiabilities = totals[domain.Liability]
	report.TotalEquity = totals[domain.Equity]
	// Accumulated profit has no ledger account of its own; it is whatever
	// makes the statement balance.
	report.RetainedEarnings = report.TotalAssets.Sub(report.TotalLiabilities).Sub(report.TotalEquity)

	return report, nil
}

// vatLines applies the reporting rate to net aggregates and totals the VAT.
func vatLines(summaries []domain.VatLineSummary) ([]domain.VatLineSummary, decimal.Decimal) {
	lines := make([]domain.VatLineSummary, 0, len(summaries))
	total := decimal.Zero
	for _, summary := range summaries {
		vat := summary.Net.Mul(summary.VatCode.ReportingRate()).Round(2)
		lines = append(lines, domain.VatLineSummary{
			VatCode: summary.VatCode.Normalize(),
			Net:     summary.Net,
			Vat:     vat,
		})
		total = total.Add(vat)
	}
	return lines, total
}

func (s *reportingService) VatReturn(ctx context.Context, ownerID string, from time.Time, to time.Time) (*domain.VATReturnReport, error) {
	salesSummaries, err := s.reportingRepo.VatLineSummaries(ctx, ownerID, domain.CustomerSide, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate sales VAT lines",
			slog.String("owner_id", ownerID))
		return nil, err
	}
	purchaseSummaries, err := s.reportingRepo.VatLineSummaries(ctx, ownerID, domain.SupplierSide, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate purchase VAT lines",
			slog.String("owner_id", ownerID))
		return nil, err
	}

	sales, outputVat := vatLines(salesSummaries)
	purchases, inputVat := vatLines(purchaseSummaries)

	return &domain.VATReturnReport{
		Sales:     sales,
		Purchases: purchases,
		OutputVat: outputVat,
		InputVat:  inputVat,
		NetVatDue: outputVat.Sub(inputVat),
	}, nil
}
