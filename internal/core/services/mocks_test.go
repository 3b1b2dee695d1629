package services_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, ownerID string, accountID string) error {
	args := m.Called(ctx, ownerID, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, ownerID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, ownerID string, code int) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByType(ctx context.Context, ownerID string, accountType domain.AccountType) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AccountBalance(ctx context.Context, ownerID string, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockJournalRepository is a mock type for the JournalRepositoryFacade interface
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveEntries(ctx context.Context, entries []domain.JournalEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteEntry(ctx context.Context, ownerID string, entryID string) error {
	args := m.Called(ctx, ownerID, entryID)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, ownerID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, ownerID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, ownerID string, params portsrepo.ListEntriesParams) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, ownerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByAccount(ctx context.Context, ownerID string, accountID string) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, ownerID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByGroupID(ctx context.Context, ownerID string, groupID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, ownerID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListJournalNumbers(ctx context.Context, ownerID string, prefix string) ([]string, error) {
	args := m.Called(ctx, ownerID, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockJournalRepository) CountEntriesByAccount(ctx context.Context, ownerID string, accountID string) (int64, error) {
	args := m.Called(ctx, ownerID, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// MockInvoiceRepository is a mock type for the InvoiceRepositoryFacade interface
type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, ownerID string, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoiceItems(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceItem), args.Error(1)
}

// MockPaymentRepository is a mock type for the PaymentRepositoryFacade interface
type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentRepositoryFacade = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, ownerID string, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, ownerID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

// MockStockAdjuster records quantity callbacks from product postings.
type MockStockAdjuster struct {
	mock.Mock
}

func (m *MockStockAdjuster) AdjustQuantity(ctx context.Context, ownerID string, productID string, delta decimal.Decimal) error {
	args := m.Called(ctx, ownerID, productID, delta)
	return args.Error(0)
}

// MockReportingReader is a mock type for the ReportingReader interface
type MockReportingReader struct {
	mock.Mock
}

var _ portsrepo.ReportingReader = (*MockReportingReader)(nil)

func (m *MockReportingReader) AccountMovements(ctx context.Context, ownerID string, from *time.Time, to *time.Time) ([]domain.AccountMovement, error) {
	args := m.Called(ctx, ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountMovement), args.Error(1)
}

func (m *MockReportingReader) VatLineSummaries(ctx context.Context, ownerID string, side domain.InvoiceSide, from time.Time, to time.Time) ([]domain.VatLineSummary, error) {
	args := m.Called(ctx, ownerID, side, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VatLineSummary), args.Error(1)
}

// fakePostingStore is an in-memory PostingUnitOfWork. WithinTx snapshots the
// store and restores it when the callback fails, so a failed posting leaves
// no document or entry behind, just like a rolled-back transaction.
type fakePostingStore struct {
	invoices     map[domain.InvoiceSide]map[string]domain.Invoice
	invoiceItems map[string][]domain.InvoiceItem
	payments     map[domain.InvoiceSide]map[string]domain.Payment
	entries      []domain.JournalEntry

	entryErr error // when set, the next InsertEntries fails with it
}

var (
	_ portsrepo.PostingUnitOfWork = (*fakePostingStore)(nil)
	_ portsrepo.PostingStore      = (*fakePostingStore)(nil)
)

func newFakePostingStore() *fakePostingStore {
	return &fakePostingStore{
		invoices: map[domain.InvoiceSide]map[string]domain.Invoice{
			domain.SupplierSide: {},
			domain.CustomerSide: {},
		},
		invoiceItems: map[string][]domain.InvoiceItem{},
		payments: map[domain.InvoiceSide]map[string]domain.Payment{
			domain.SupplierSide: {},
			domain.CustomerSide: {},
		},
	}
}

func (f *fakePostingStore) snapshot() *fakePostingStore {
	copied := newFakePostingStore()
	for side, invoices := range f.invoices {
		for id, invoice := range invoices {
			copied.invoices[side][id] = invoice
		}
	}
	for id, items := range f.invoiceItems {
		copied.invoiceItems[id] = append([]domain.InvoiceItem{}, items...)
	}
	for side, payments := range f.payments {
		for id, payment := range payments {
			copied.payments[side][id] = payment
		}
	}
	copied.entries = append([]domain.JournalEntry{}, f.entries...)
	copied.entryErr = f.entryErr
	return copied
}

func (f *fakePostingStore) WithinTx(ctx context.Context, fn func(store portsrepo.PostingStore) error) error {
	before := f.snapshot()
	if err := fn(f); err != nil {
		f.invoices = before.invoices
		f.invoiceItems = before.invoiceItems
		f.payments = before.payments
		f.entries = before.entries
		return err
	}
	return nil
}

func (f *fakePostingStore) InsertInvoice(ctx context.Context, side domain.InvoiceSide, invoice domain.Invoice, items []domain.InvoiceItem) error {
	if _, ok := f.invoices[side][invoice.InvoiceID]; ok {
		return fmt.Errorf("invoice exists: %w", apperrors.ErrDuplicate)
	}
	f.invoices[side][invoice.InvoiceID] = invoice
	f.invoiceItems[invoice.InvoiceID] = append([]domain.InvoiceItem{}, items...)
	return nil
}

func (f *fakePostingStore) InsertPayment(ctx context.Context, side domain.InvoiceSide, payment domain.Payment) error {
	if _, ok := f.payments[side][payment.PaymentID]; ok {
		return fmt.Errorf("payment exists: %w", apperrors.ErrDuplicate)
	}
	f.payments[side][payment.PaymentID] = payment
	return nil
}

func (f *fakePostingStore) InsertEntries(ctx context.Context, entries []domain.JournalEntry) error {
	if f.entryErr != nil {
		err := f.entryErr
		f.entryErr = nil
		return err
	}
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakePostingStore) ListJournalNumbers(ctx context.Context, ownerID string, prefix string) ([]string, error) {
	numbers := []string{}
	for _, entry := range f.entries {
		if entry.OwnerID == ownerID && strings.HasPrefix(entry.JournalNumber, prefix+"-") {
			numbers = append(numbers, entry.JournalNumber)
		}
	}
	return numbers, nil
}

// fakeAllocationStore is an in-memory AllocationUnitOfWork. WithinTx hands
// the callback the store itself, so allocation invariants are exercised
// against real state rather than mocked call scripts.
type fakeAllocationStore struct {
	payments    map[string]domain.Payment
	invoices    map[string]domain.Invoice
	allocations map[string]domain.Allocation
}

var _ portsrepo.AllocationUnitOfWork = (*fakeAllocationStore)(nil)

func newFakeAllocationStore() *fakeAllocationStore {
	return &fakeAllocationStore{
		payments:    map[string]domain.Payment{},
		invoices:    map[string]domain.Invoice{},
		allocations: map[string]domain.Allocation{},
	}
}

func (f *fakeAllocationStore) WithinTx(ctx context.Context, fn func(store portsrepo.AllocationStore) error) error {
	return fn(f)
}

func (f *fakeAllocationStore) FindAllocationByID(ctx context.Context, allocationID string) (*domain.Allocation, error) {
	allocation, ok := f.allocations[allocationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &allocation, nil
}

func (f *fakeAllocationStore) FindAllocationByPair(ctx context.Context, paymentID string, invoiceID string) (*domain.Allocation, error) {
	for _, allocation := range f.allocations {
		if allocation.PaymentID == paymentID && allocation.InvoiceID == invoiceID {
			found := allocation
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeAllocationStore) ListAllocationsByPayment(ctx context.Context, paymentID string) ([]domain.Allocation, error) {
	result := []domain.Allocation{}
	for _, allocation := range f.allocations {
		if allocation.PaymentID == paymentID {
			result = append(result, allocation)
		}
	}
	return result, nil
}

func (f *fakeAllocationStore) ListAllocationsByInvoice(ctx context.Context, invoiceID string) ([]domain.Allocation, error) {
	result := []domain.Allocation{}
	for _, allocation := range f.allocations {
		if allocation.InvoiceID == invoiceID {
			result = append(result, allocation)
		}
	}
	return result, nil
}

func (f *fakeAllocationStore) SumAllocationsByPayment(ctx context.Context, paymentID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, allocation := range f.allocations {
		if allocation.PaymentID == paymentID {
			sum = sum.Add(allocation.Amount)
		}
	}
	return sum, nil
}

func (f *fakeAllocationStore) SumAllocationsByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, allocation := range f.allocations {
		if allocation.InvoiceID == invoiceID {
			sum = sum.Add(allocation.Amount)
		}
	}
	return sum, nil
}

func (f *fakeAllocationStore) FindPayment(ctx context.Context, ownerID string, paymentID string) (*domain.Payment, error) {
	payment, ok := f.payments[paymentID]
	if !ok || payment.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	return &payment, nil
}

func (f *fakeAllocationStore) FindInvoice(ctx context.Context, ownerID string, invoiceID string) (*domain.Invoice, error) {
	invoice, ok := f.invoices[invoiceID]
	if !ok || invoice.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	return &invoice, nil
}

func (f *fakeAllocationStore) InsertAllocation(ctx context.Context, allocation domain.Allocation) error {
	if _, err := f.FindAllocationByPair(ctx, allocation.PaymentID, allocation.InvoiceID); err == nil {
		return fmt.Errorf("allocation pair exists: %w", apperrors.ErrDuplicate)
	}
	f.allocations[allocation.AllocationID] = allocation
	return nil
}

func (f *fakeAllocationStore) UpdateAllocationAmount(ctx context.Context, allocationID string, amount decimal.Decimal) error {
	allocation, ok := f.allocations[allocationID]
	if !ok {
		return apperrors.ErrNotFound
	}
	allocation.Amount = amount
	f.allocations[allocationID] = allocation
	return nil
}

func (f *fakeAllocationStore) DeleteAllocation(ctx context.Context, allocationID string) error {
	if _, ok := f.allocations[allocationID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.allocations, allocationID)
	return nil
}

func (f *fakeAllocationStore) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) error {
	invoice, ok := f.invoices[invoiceID]
	if !ok {
		return apperrors.ErrNotFound
	}
	invoice.Status = status
	f.invoices[invoiceID] = invoice
	return nil
}
