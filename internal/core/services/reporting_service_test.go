package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingReader
	service           portssvc.ReportingSvcFacade
	ownerID           string
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingReader)
	suite.service = services.NewReportingService(suite.mockReportingRepo)
	suite.ownerID = uuid.NewString()
}

func movement(code int, name string, accountType domain.AccountType, opening, debits, credits string) domain.AccountMovement {
	return domain.AccountMovement{
		Account: domain.Account{
			AccountID:      uuid.NewString(),
			Code:           code,
			Name:           name,
			AccountType:    accountType,
			OpeningBalance: decimal.RequireFromString(opening),
		},
		Debits:  decimal.RequireFromString(debits),
		Credits: decimal.RequireFromString(credits),
	}
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_ColumnsBalance() {
	ctx := context.Background()
	asOf := time.Now()
	movements := []domain.AccountMovement{
		movement(1000, "Bank", domain.Asset, "0", "500.00", "200.00"),
		movement(2100, "Creditors", domain.Liability, "0", "0", "180.00"),
		movement(4000, "Sales", domain.Income, "0", "0", "500.00"),
		movement(5000, "Purchases", domain.Expense, "0", "380.00", "0"),
	}
	suite.mockReportingRepo.On("AccountMovements", ctx, suite.ownerID, (*time.Time)(nil), &asOf).
		Return(movements, nil).Once()

	report, err := suite.service.TrialBalance(ctx, suite.ownerID, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 4)
	suite.True(report.TotalDebit.Equal(report.TotalCredit),
		"debits %s should equal credits %s", report.TotalDebit, report.TotalCredit)
	suite.True(decimal.RequireFromString("680.00").Equal(report.TotalDebit))

	// Bank: 500 debits less 200 credits leaves 300 in the debit column.
	suite.Equal(1000, report.Rows[0].Code)
	suite.True(decimal.RequireFromString("300.00").Equal(report.Rows[0].Debit))
	suite.True(report.Rows[0].Credit.IsZero())
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_NegativeBalanceFlipsColumn() {
	ctx := context.Background()
	asOf := time.Now()
	// Overdrawn bank account: credits exceed debits on a debit-normal type.
	movements := []domain.AccountMovement{
		movement(1000, "Bank", domain.Asset, "0", "100.00", "250.00"),
	}
	suite.mockReportingRepo.On("AccountMovements", ctx, suite.ownerID, (*time.Time)(nil), &asOf).
		Return(movements, nil).Once()

	report, err := suite.service.TrialBalance(ctx, suite.ownerID, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 1)
	suite.True(report.Rows[0].Debit.IsZero())
	suite.True(decimal.RequireFromString("150.00").Equal(report.Rows[0].Credit))
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_DropsZeroBalances() {
	ctx := context.Background()
	asOf := time.Now()
	movements := []domain.AccountMovement{
		movement(1200, "Stock", domain.Asset, "0", "50.00", "50.00"),
		movement(4000, "Sales", domain.Income, "0", "0", "75.00"),
	}
	suite.mockReportingRepo.On("AccountMovements", ctx, suite.ownerID, (*time.Time)(nil), &asOf).
		Return(movements, nil).Once()

	report, err := suite.service.TrialBalance(ctx, suite.ownerID, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 1)
	suite.Equal(4000, report.Rows[0].Code)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_IncludesOpeningBalances() {
	ctx := context.Background()
	asOf := time.Now()
	movements := []domain.AccountMovement{
		movement(1000, "Bank", domain.Asset, "1000.00", "0", "0"),
	}
	suite.mockReportingRepo.On("AccountMovements", ctx, suite.ownerID, (*time.Time)(nil), &asOf).
		Return(movements, nil).Once()

	report, err := suite.service.TrialBalance(ctx, suite.ownerID, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 1)
	suite.True(decimal.RequireFromString("1000.00").Equal(report.Rows[0].Debit))
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_PeriodMovementOnly() {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	// Sales carries an opening balance the period figures must ignore.
	movements := []domain.AccountMovement{
		movement(1000, "Bank", domain.Asset, "0", "900.00", "0"),
		movement(4000, "Sales", domain.Income, "5000.00", "0", "900.00"),
		movement(5000, "Purchases", domain.Expense, "0", "350.00", "0"),
		movement(5050, "Cost of Sales", domain.Expense, "0", "0.005", "0"),
	}
	suite.mockReportingRepo.On("AccountMovements", ctx, suite.ownerID, &from, &to).
		Return(movements, nil).Once()

	report, err := suite.service.ProfitAndLoss(ctx, suite.ownerID, from, to)

	suite.Require().NoError(err)
	suite.Require().Len(report.Income, 1)
	suite.True(decimal.RequireFromString("900.00").Equal(report.Income[0].NetAmount),
		"opening balance must not leak into period income")
	suite.Require().Len(report.Expenses, 1, "immaterial movement is dropped")
	suite.Equal(5000, report.Expenses[0].Code)
	suite.True(decimal.RequireFromString("550.00").Equal(report.NetProfit))
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_ExpenseRefundShowsNegative() {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	// A credited expense account shows as negative expense, not income.
	movements := []domain.AccountMovement{
		movement(5000, "Purchases", domain.Expense, "0", "0", "40.00"),
	}
	suite.mockReportingRepo.On("AccountMovements", ctx, suite.ownerID, &from, &to).
		Return(movements, nil).Once()

	report, err := suite.service.ProfitAndLoss(ctx, suite.ownerID, from, to)

	suite.Require().NoError(err)
	suite.Empty(report.Income)
	suite.Require().Len(report.Expenses, 1)
	suite.True(decimal.RequireFromString("-40.00").Equal(report.Expenses[0].NetAmount))
	suite.True(decimal.RequireFromString("40.00").Equal(report.NetProfit))
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_RetainedEarningsPlug() {
	ctx := context.Background()
	asOf := time.Now()
	movements := []domain.AccountMovement{
		movement(1000, "Bank", domain.Asset, "0", "1500.00", "200.00"),
		movement(2100, "Creditors", domain.Liability, "0", "0", "400.00"),
		movement(3000, "Owner Capital", domain.Equity, "0", "0", "500.00"),
		// Income and expense movement shows up only through the plug.
		movement(4000, "Sales", domain.Income, "0", "0", "600.00"),
		movement(5000, "Purchases", domain.Expense, "0", "200.00", "0"),
	}
	suite.mockReportingRepo.On("AccountMovements", ctx, suite.ownerID, (*time.Time)(nil), &asOf).
		Return(movements, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, suite.ownerID, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Assets, 1)
	suite.Require().Len(report.Liabilities, 1)
	suite.Require().Len(report.Equity, 1)
	suite.True(decimal.RequireFromString("1300.00").Equal(report.TotalAssets))
	suite.True(decimal.RequireFromString("400.00").Equal(report.TotalLiabilities))
	suite.True(decimal.RequireFromString("500.00").Equal(report.TotalEquity))
	// Assets less liabilities less equity; here the period's 400 profit.
	suite.True(decimal.RequireFromString("400.00").Equal(report.RetainedEarnings))
}

func (suite *ReportingServiceTestSuite) TestVatReturn_ReportingRateAndNetDue() {
	ctx := context.Background()
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	salesSummaries := []domain.VatLineSummary{
		{VatCode: "S", Net: decimal.RequireFromString("1000.00")},
		{VatCode: "Z", Net: decimal.RequireFromString("300.00")},
		// An unmapped code is reported at the standard rate even though
		// posting gave it no VAT leg. The return overstates rather than
		// understates liability on bad data.
		{VatCode: "X", Net: decimal.RequireFromString("100.00")},
	}
	purchaseSummaries := []domain.VatLineSummary{
		{VatCode: "S", Net: decimal.RequireFromString("400.00")},
		{VatCode: "E", Net: decimal.RequireFromString("50.00")},
	}
	suite.mockReportingRepo.On("VatLineSummaries", ctx, suite.ownerID, domain.CustomerSide, from, to).
		Return(salesSummaries, nil).Once()
	suite.mockReportingRepo.On("VatLineSummaries", ctx, suite.ownerID, domain.SupplierSide, from, to).
		Return(purchaseSummaries, nil).Once()

	report, err := suite.service.VatReturn(ctx, suite.ownerID, from, to)

	suite.Require().NoError(err)
	suite.Require().Len(report.Sales, 3)
	suite.True(decimal.RequireFromString("200.00").Equal(report.Sales[0].Vat))
	suite.True(report.Sales[1].Vat.IsZero())
	suite.True(decimal.RequireFromString("20.00").Equal(report.Sales[2].Vat))

	suite.Require().Len(report.Purchases, 2)
	suite.True(decimal.RequireFromString("80.00").Equal(report.Purchases[0].Vat))
	suite.True(report.Purchases[1].Vat.IsZero())

	suite.True(decimal.RequireFromString("220.00").Equal(report.OutputVat))
	suite.True(decimal.RequireFromString("80.00").Equal(report.InputVat))
	suite.True(decimal.RequireFromString("140.00").Equal(report.NetVatDue))
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestVatReturn_ReclaimableWhenInputExceedsOutput() {
	ctx := context.Background()
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	suite.mockReportingRepo.On("VatLineSummaries", ctx, suite.ownerID, domain.CustomerSide, from, to).
		Return([]domain.VatLineSummary{}, nil).Once()
	suite.mockReportingRepo.On("VatLineSummaries", ctx, suite.ownerID, domain.SupplierSide, from, to).
		Return([]domain.VatLineSummary{{VatCode: "S", Net: decimal.RequireFromString("500.00")}}, nil).Once()

	report, err := suite.service.VatReturn(ctx, suite.ownerID, from, to)

	suite.Require().NoError(err)
	suite.True(report.OutputVat.IsZero())
	suite.True(decimal.RequireFromString("100.00").Equal(report.InputVat))
	suite.True(decimal.RequireFromString("-100.00").Equal(report.NetVatDue))
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
