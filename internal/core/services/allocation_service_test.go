package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/core/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
)

// The allocation engine tests run against an in-memory store so each
// operation's effect on derived amounts is checked against real state.
type AllocationServiceTestSuite struct {
	suite.Suite
	store   *fakeAllocationStore
	service portssvc.AllocationSvcFacade
	ownerID string
	userID  string
}

func (suite *AllocationServiceTestSuite) SetupTest() {
	suite.store = newFakeAllocationStore()
	suite.service = services.NewAllocationService(suite.store, domain.CustomerSide)
	suite.ownerID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AllocationServiceTestSuite) addPayment(amount string) string {
	paymentID := uuid.NewString()
	suite.store.payments[paymentID] = domain.Payment{
		PaymentID:   paymentID,
		OwnerID:     suite.ownerID,
		Stakeholder: "Acme Ltd",
		PaymentDate: time.Now(),
		Amount:      decimal.RequireFromString(amount),
		Method:      domain.MethodBACS,
	}
	return paymentID
}

func (suite *AllocationServiceTestSuite) addInvoice(total string, status domain.InvoiceStatus) string {
	invoiceID := uuid.NewString()
	suite.store.invoices[invoiceID] = domain.Invoice{
		InvoiceID:     invoiceID,
		OwnerID:       suite.ownerID,
		InvoiceNumber: "INV-100",
		Stakeholder:   "Acme Ltd",
		InvoiceDate:   time.Now(),
		Total:         decimal.RequireFromString(total),
		Status:        status,
	}
	return invoiceID
}

func (suite *AllocationServiceTestSuite) allocate(paymentID, invoiceID, amount string) (*domain.Allocation, error) {
	return suite.service.Allocate(context.Background(), suite.ownerID, dto.AllocateRequest{
		PaymentID: paymentID,
		InvoiceID: invoiceID,
		Amount:    decimal.RequireFromString(amount),
	}, suite.userID)
}

func (suite *AllocationServiceTestSuite) TestAllocate_ReducesBothSides() {
	ctx := context.Background()
	paymentID := suite.addPayment("100.00")
	invoiceID := suite.addInvoice("120.00", domain.InvoiceFinalized)

	allocation, err := suite.allocate(paymentID, invoiceID, "80.00")
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("80.00").Equal(allocation.Amount))

	unallocated, err := suite.service.UnallocatedAmount(ctx, suite.ownerID, paymentID)
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("20.00").Equal(unallocated))

	outstanding, err := suite.service.OutstandingBalance(ctx, suite.ownerID, invoiceID)
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("40.00").Equal(outstanding))

	suite.Equal(domain.InvoiceFinalized, suite.store.invoices[invoiceID].Status)
}

func (suite *AllocationServiceTestSuite) TestAllocate_OnePaymentAcrossTwoInvoices() {
	ctx := context.Background()
	paymentID := suite.addPayment("100.00")
	firstID := suite.addInvoice("60.00", domain.InvoiceFinalized)
	secondID := suite.addInvoice("70.00", domain.InvoiceFinalized)

	_, err := suite.allocate(paymentID, firstID, "60.00")
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, suite.store.invoices[firstID].Status)

	_, err = suite.allocate(paymentID, secondID, "40.00")
	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceFinalized, suite.store.invoices[secondID].Status)

	unallocated, err := suite.service.UnallocatedAmount(ctx, suite.ownerID, paymentID)
	suite.Require().NoError(err)
	suite.True(unallocated.IsZero(), "the payment is fully spoken for")

	outstanding, err := suite.service.OutstandingBalance(ctx, suite.ownerID, secondID)
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("30.00").Equal(outstanding))
}

func (suite *AllocationServiceTestSuite) TestAllocate_DeclinedBeyondPaymentRemainder() {
	paymentID := suite.addPayment("50.00")
	invoiceID := suite.addInvoice("200.00", domain.InvoiceFinalized)

	_, err := suite.allocate(paymentID, invoiceID, "30.00")
	suite.Require().NoError(err)

	_, err = suite.allocate(paymentID, invoiceID, "25.00")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	// The limiting figure is the payment's remaining 20.00.
	suite.Contains(err.Error(), "unallocated 20")
}

func (suite *AllocationServiceTestSuite) TestAllocate_DeclinedBeyondInvoiceOutstanding() {
	paymentID := suite.addPayment("500.00")
	invoiceID := suite.addInvoice("100.00", domain.InvoiceFinalized)

	_, err := suite.allocate(paymentID, invoiceID, "150.00")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "outstanding 100")
}

func (suite *AllocationServiceTestSuite) TestAllocate_MergesExistingPair() {
	paymentID := suite.addPayment("100.00")
	invoiceID := suite.addInvoice("100.00", domain.InvoiceFinalized)

	first, err := suite.allocate(paymentID, invoiceID, "40.00")
	suite.Require().NoError(err)
	second, err := suite.allocate(paymentID, invoiceID, "30.00")
	suite.Require().NoError(err)

	// The pair keeps one row; the second call topped it up.
	suite.Equal(first.AllocationID, second.AllocationID)
	suite.True(decimal.RequireFromString("70.00").Equal(second.Amount))
	suite.Len(suite.store.allocations, 1)
}

func (suite *AllocationServiceTestSuite) TestAllocate_DraftAndCancelledDeclined() {
	for _, status := range []domain.InvoiceStatus{domain.InvoiceDraft, domain.InvoiceCancelled} {
		paymentID := suite.addPayment("100.00")
		invoiceID := suite.addInvoice("100.00", status)

		_, err := suite.allocate(paymentID, invoiceID, "10.00")
		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
		suite.Equal(status, suite.store.invoices[invoiceID].Status)
	}
}

func (suite *AllocationServiceTestSuite) TestAllocate_RejectsNonPositiveAmount() {
	paymentID := suite.addPayment("100.00")
	invoiceID := suite.addInvoice("100.00", domain.InvoiceFinalized)

	_, err := suite.allocate(paymentID, invoiceID, "0")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.allocate(paymentID, invoiceID, "-5.00")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AllocationServiceTestSuite) TestAllocate_MarksPaidWithinTolerance() {
	paymentID := suite.addPayment("100.00")
	invoiceID := suite.addInvoice("100.00", domain.InvoiceFinalized)

	// 0.01 left outstanding still counts as settled.
	_, err := suite.allocate(paymentID, invoiceID, "99.99")
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, suite.store.invoices[invoiceID].Status)
}

func (suite *AllocationServiceTestSuite) TestDeleteAllocation_ReopensInvoice() {
	ctx := context.Background()
	paymentID := suite.addPayment("100.00")
	invoiceID := suite.addInvoice("100.00", domain.InvoiceFinalized)

	allocation, err := suite.allocate(paymentID, invoiceID, "100.00")
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, suite.store.invoices[invoiceID].Status)

	err = suite.service.DeleteAllocation(ctx, suite.ownerID, allocation.AllocationID)
	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceFinalized, suite.store.invoices[invoiceID].Status)

	unallocated, err := suite.service.UnallocatedAmount(ctx, suite.ownerID, paymentID)
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("100.00").Equal(unallocated))
}

func (suite *AllocationServiceTestSuite) TestUpdateAllocation_HeadroomIncludesCurrentAmount() {
	ctx := context.Background()
	paymentID := suite.addPayment("100.00")
	invoiceID := suite.addInvoice("120.00", domain.InvoiceFinalized)

	allocation, err := suite.allocate(paymentID, invoiceID, "80.00")
	suite.Require().NoError(err)

	// 20 free plus the current 80 gives 100 of payment headroom.
	updated, err := suite.service.UpdateAllocation(ctx, suite.ownerID, allocation.AllocationID, dto.UpdateAllocationRequest{
		Amount: decimal.RequireFromString("100.00"),
	})
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("100.00").Equal(updated.Amount))

	unallocated, err := suite.service.UnallocatedAmount(ctx, suite.ownerID, paymentID)
	suite.Require().NoError(err)
	suite.True(unallocated.IsZero())

	// One beyond the headroom is declined and leaves state untouched.
	_, err = suite.service.UpdateAllocation(ctx, suite.ownerID, allocation.AllocationID, dto.UpdateAllocationRequest{
		Amount: decimal.RequireFromString("101.00"),
	})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.True(decimal.RequireFromString("100.00").Equal(suite.store.allocations[allocation.AllocationID].Amount))
}

func (suite *AllocationServiceTestSuite) TestUpdateAllocation_RestatesPaidStatusBothWays() {
	ctx := context.Background()
	paymentID := suite.addPayment("100.00")
	invoiceID := suite.addInvoice("100.00", domain.InvoiceFinalized)

	allocation, err := suite.allocate(paymentID, invoiceID, "100.00")
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, suite.store.invoices[invoiceID].Status)

	// Shrinking below the total reopens the invoice.
	_, err = suite.service.UpdateAllocation(ctx, suite.ownerID, allocation.AllocationID, dto.UpdateAllocationRequest{
		Amount: decimal.RequireFromString("60.00"),
	})
	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceFinalized, suite.store.invoices[invoiceID].Status)

	// Growing back to the total settles it again.
	_, err = suite.service.UpdateAllocation(ctx, suite.ownerID, allocation.AllocationID, dto.UpdateAllocationRequest{
		Amount: decimal.RequireFromString("100.00"),
	})
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, suite.store.invoices[invoiceID].Status)
}

func (suite *AllocationServiceTestSuite) TestReads_RequireOwnedRecords() {
	ctx := context.Background()
	otherOwner := uuid.NewString()
	paymentID := suite.addPayment("100.00")

	_, err := suite.service.ListByPayment(ctx, otherOwner, paymentID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.service.UnallocatedAmount(ctx, otherOwner, paymentID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAllocationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AllocationServiceTestSuite))
}
