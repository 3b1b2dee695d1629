package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/core/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/utils/pagination"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.JournalSvcFacade
	ownerID         string
	userID          string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo)
	suite.ownerID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *JournalServiceTestSuite) expectAccountExists(accountID string) {
	account := &domain.Account{AccountID: accountID, OwnerID: suite.ownerID, Code: 1000, AccountType: domain.Asset}
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.ownerID, accountID).Return(account, nil)
}

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	debitID := uuid.NewString()
	creditID := uuid.NewString()
	suite.expectAccountExists(debitID)
	suite.expectAccountExists(creditID)

	suite.mockJournalRepo.On("ListJournalNumbers", ctx, suite.ownerID, "JNL").
		Return([]string{"JNL-0001", "JNL-0002"}, nil).Once()

	var saved []domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntries", ctx, mock.AnythingOfType("[]domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]domain.JournalEntry)
		}).Return(nil).Once()

	req := dto.CreateEntryRequest{
		EntryDate:       time.Now(),
		Description:     "Owner capital introduced",
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Amount:          decimal.NewFromInt(500),
	}
	entry, err := suite.service.PostEntry(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("JNL-0003", entry.JournalNumber)
	suite.Equal(domain.TxnJournalEntry, entry.TransactionType)
	suite.NotEmpty(entry.TransactionGroupID)
	suite.Require().Len(saved, 1)
	suite.Equal(entry.EntryID, saved[0].EntryID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_SequenceRestartsOnUnparsableNumbers() {
	ctx := context.Background()
	debitID := uuid.NewString()
	creditID := uuid.NewString()
	suite.expectAccountExists(debitID)
	suite.expectAccountExists(creditID)

	// Legacy data with no parsable suffix restarts numbering at 1.
	suite.mockJournalRepo.On("ListJournalNumbers", ctx, suite.ownerID, "JNL").
		Return([]string{"JNL-old", "JNL-"}, nil).Once()
	suite.mockJournalRepo.On("SaveEntries", ctx, mock.Anything).Return(nil).Once()

	req := dto.CreateEntryRequest{
		EntryDate:       time.Now(),
		Description:     "Opening adjustment",
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Amount:          decimal.NewFromInt(10),
	}
	entry, err := suite.service.PostEntry(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("JNL-0001", entry.JournalNumber)
}

func (suite *JournalServiceTestSuite) TestPostEntry_Validation() {
	ctx := context.Background()
	debitID := uuid.NewString()

	tests := []struct {
		name string
		req  dto.CreateEntryRequest
	}{
		{"zero amount", dto.CreateEntryRequest{
			EntryDate: time.Now(), Description: "x",
			DebitAccountID: debitID, CreditAccountID: uuid.NewString(),
			Amount: decimal.Zero,
		}},
		{"negative amount", dto.CreateEntryRequest{
			EntryDate: time.Now(), Description: "x",
			DebitAccountID: debitID, CreditAccountID: uuid.NewString(),
			Amount: decimal.NewFromInt(-5),
		}},
		{"same account both sides", dto.CreateEntryRequest{
			EntryDate: time.Now(), Description: "x",
			DebitAccountID: debitID, CreditAccountID: debitID,
			Amount: decimal.NewFromInt(5),
		}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			entry, err := suite.service.PostEntry(ctx, suite.ownerID, tc.req, suite.userID)
			suite.Require().Error(err)
			suite.ErrorIs(err, apperrors.ErrValidation)
			suite.Nil(entry)
		})
	}
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntries", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_UnknownAccountIsValidationError() {
	ctx := context.Background()
	debitID := uuid.NewString()
	creditID := uuid.NewString()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.ownerID, debitID).Return(nil, apperrors.ErrNotFound)

	req := dto.CreateEntryRequest{
		EntryDate:       time.Now(),
		Description:     "Bad entry",
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Amount:          decimal.NewFromInt(5),
	}
	entry, err := suite.service.PostEntry(ctx, suite.ownerID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entry)
}

func (suite *JournalServiceTestSuite) TestTransfer_DebitsDestinationCreditsSource() {
	ctx := context.Background()
	fromID := uuid.NewString()
	toID := uuid.NewString()
	suite.expectAccountExists(fromID)
	suite.expectAccountExists(toID)

	suite.mockJournalRepo.On("ListJournalNumbers", ctx, suite.ownerID, "TFR").
		Return([]string{}, nil).Once()
	suite.mockJournalRepo.On("SaveEntries", ctx, mock.Anything).Return(nil).Once()

	req := dto.TransferRequest{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        decimal.NewFromInt(250),
		EntryDate:     time.Now(),
	}
	entry, err := suite.service.Transfer(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(toID, entry.DebitAccountID)
	suite.Equal(fromID, entry.CreditAccountID)
	suite.Equal(domain.TxnTransfer, entry.TransactionType)
	suite.Equal("TFR-0001", entry.JournalNumber)
	suite.Equal("Transfer between accounts", entry.Description)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestListEntries_PagesWithCursor() {
	ctx := context.Background()

	// Three entries back from the repository against a page size of two: the
	// service trims the extra row and hands back a cursor for the next page.
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]domain.JournalEntry, 3)
	for i := range rows {
		rows[i] = domain.JournalEntry{
			EntryID:   uuid.NewString(),
			OwnerID:   suite.ownerID,
			EntryDate: base.AddDate(0, 0, -i),
			CreatedAt: base.AddDate(0, 0, -i),
			Amount:    decimal.NewFromInt(10),
		}
	}
	suite.mockJournalRepo.On("ListEntries", ctx, suite.ownerID, mock.MatchedBy(func(p portsrepo.ListEntriesParams) bool {
		return p.Limit == 3 && p.CursorEntryDate == nil
	})).Return(rows, nil).Once()

	entries, nextToken, err := suite.service.ListEntries(ctx, suite.ownerID, dto.ListEntriesParams{Limit: 2})

	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Require().NotEmpty(nextToken)

	entryDate, createdAt, err := pagination.DecodeToken(nextToken)
	suite.Require().NoError(err)
	suite.True(entries[1].EntryDate.Equal(entryDate))
	suite.True(entries[1].CreatedAt.Equal(createdAt))

	// The token resumes after the last row of the first page.
	suite.mockJournalRepo.On("ListEntries", ctx, suite.ownerID, mock.MatchedBy(func(p portsrepo.ListEntriesParams) bool {
		return p.CursorEntryDate != nil && p.CursorEntryDate.Equal(entries[1].EntryDate)
	})).Return(rows[2:], nil).Once()

	secondPage, nextToken, err := suite.service.ListEntries(ctx, suite.ownerID, dto.ListEntriesParams{Limit: 2, NextToken: nextToken})
	suite.Require().NoError(err)
	suite.Len(secondPage, 1)
	suite.Empty(nextToken, "a short page ends the listing")
}

func (suite *JournalServiceTestSuite) TestListEntries_BadTokenIsValidationError() {
	ctx := context.Background()

	_, _, err := suite.service.ListEntries(ctx, suite.ownerID, dto.ListEntriesParams{NextToken: "not a token"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "ListEntries", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()
	suite.mockJournalRepo.On("FindEntryByID", ctx, suite.ownerID, entryID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteEntry(ctx, suite.ownerID, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
