package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
)

// allocationService implements the AllocationSvcFacade interface. One
// instance runs per ledger side; the store it is built with decides whether
// it sees supplier or customer tables.
type allocationService struct {
	BaseService
	store portsrepo.AllocationUnitOfWork
	side  domain.InvoiceSide
}

// NewAllocationService creates an allocation engine over one ledger side.
func NewAllocationService(store portsrepo.AllocationUnitOfWork, side domain.InvoiceSide) portssvc.AllocationSvcFacade {
	return &allocationService{
		store: store,
		side:  side,
	}
}

// Ensure allocationService implements the AllocationSvcFacade interface
var _ portssvc.AllocationSvcFacade = (*allocationService)(nil)

// unallocatedIn returns the payment's free remainder within a store view,
// floored at zero.
func unallocatedIn(ctx context.Context, store portsrepo.AllocationStore, payment *domain.Payment) (decimal.Decimal, error) {
	allocated, err := store.SumAllocationsByPayment(ctx, payment.PaymentID)
	if err != nil {
		return decimal.Zero, err
	}
	free := payment.Amount.Sub(allocated)
	if free.IsNegative() {
		return decimal.Zero, nil
	}
	return free, nil
}

// outstandingIn returns the invoice's unsettled balance within a store view.
func outstandingIn(ctx context.Context, store portsrepo.AllocationStore, invoice *domain.Invoice) (decimal.Decimal, error) {
	allocated, err := store.SumAllocationsByInvoice(ctx, invoice.InvoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	return invoice.Total.Sub(allocated), nil
}

// restateStatus flips the invoice between paid and finalized based on its
// outstanding balance. Draft and cancelled invoices are left untouched.
func restateStatus(ctx context.Context, store portsrepo.AllocationStore, invoice *domain.Invoice, outstanding decimal.Decimal) error {
	if invoice.Status == domain.InvoiceDraft || invoice.Status == domain.InvoiceCancelled {
		return nil
	}

	next := domain.InvoiceFinalized
	if outstanding.LessThanOrEqual(domain.PaidThreshold) {
		next = domain.InvoicePaid
	}
	if next == invoice.Status {
		return nil
	}
	return store.UpdateInvoiceStatus(ctx, invoice.InvoiceID, next)
}

func (s *allocationService) Allocate(ctx context.Context, ownerID string, req dto.AllocateRequest, creatorUserID string) (*domain.Allocation, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("allocation amount must be positive: %w", apperrors.ErrValidation)
	}

	var result domain.Allocation
	err := s.store.WithinTx(ctx, func(store portsrepo.AllocationStore) error {
		payment, err := store.FindPayment(ctx, ownerID, req.PaymentID)
		if err != nil {
			return err
		}
		invoice, err := store.FindInvoice(ctx, ownerID, req.InvoiceID)
		if err != nil {
			return err
		}
		if invoice.Status == domain.InvoiceDraft || invoice.Status == domain.InvoiceCancelled {
			return fmt.Errorf("invoice %s is %s and cannot take allocations: %w", invoice.InvoiceNumber, invoice.Status, apperrors.ErrValidation)
		}

		unallocated, err := unallocatedIn(ctx, store, payment)
		if err != nil {
			return err
		}
		if req.Amount.GreaterThan(unallocated) {
			return fmt.Errorf("amount %s exceeds payment's unallocated %s: %w", req.Amount, unallocated, apperrors.ErrValidation)
		}

		outstanding, err := outstandingIn(ctx, store, invoice)
		if err != nil {
			return err
		}
		if req.Amount.GreaterThan(outstanding) {
			return fmt.Errorf("amount %s exceeds invoice's outstanding %s: %w", req.Amount, outstanding, apperrors.ErrValidation)
		}

		existing, err := store.FindAllocationByPair(ctx, req.PaymentID, req.InvoiceID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		if existing != nil {
			// Merge: the pair keeps a single row.
			merged := existing.Amount.Add(req.Amount)
			if err := store.UpdateAllocationAmount(ctx, existing.AllocationID, merged); err != nil {
				return err
			}
			result = *existing
			result.Amount = merged
		} else {
			result = domain.Allocation{
				AllocationID: uuid.NewString(),
				PaymentID:    req.PaymentID,
				InvoiceID:    req.InvoiceID,
				Amount:       req.Amount,
				CreatedAt:    time.Now(),
				CreatedBy:    creatorUserID,
			}
			if err := store.InsertAllocation(ctx, result); err != nil {
				return err
			}
		}

		return restateStatus(ctx, store, invoice, outstanding.Sub(req.Amount))
	})
	if err != nil {
		s.LogError(ctx, err, "Allocation declined or failed",
			slog.String("side", string(s.side)),
			slog.String("payment_id", req.PaymentID),
			slog.String("invoice_id", req.InvoiceID),
			slog.String("amount", req.Amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Allocation applied",
		slog.String("side", string(s.side)),
		slog.String("allocation_id", result.AllocationID),
		slog.String("amount", result.Amount.String()))
	return &result, nil
}

func (s *allocationService) UpdateAllocation(ctx context.Context, ownerID string, allocationID string, req dto.UpdateAllocationRequest) (*domain.Allocation, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("allocation amount must be positive: %w", apperrors.ErrValidation)
	}

	var result domain.Allocation
	err := s.store.WithinTx(ctx, func(store portsrepo.AllocationStore) error {
		allocation, err := store.FindAllocationByID(ctx, allocationID)
		if err != nil {
			return err
		}
		payment, err := store.FindPayment(ctx, ownerID, allocation.PaymentID)
		if err != nil {
			return err
		}
		invoice, err := store.FindInvoice(ctx, ownerID, allocation.InvoiceID)
		if err != nil {
			return err
		}

		// The current amount is headroom too: the update replaces it.
		unallocated, err := unallocatedIn(ctx, store, payment)
		if err != nil {
			return err
		}
		paymentAvailable := unallocated.Add(allocation.Amount)
		if req.Amount.GreaterThan(paymentAvailable) {
			return fmt.Errorf("amount %s exceeds payment's available %s: %w", req.Amount, paymentAvailable, apperrors.ErrValidation)
		}

		outstanding, err := outstandingIn(ctx, store, invoice)
		if err != nil {
			return err
		}
		invoiceAvailable := outstanding.Add(allocation.Amount)
		if req.Amount.GreaterThan(invoiceAvailable) {
			return fmt.Errorf("amount %s exceeds invoice's available %s: %w", req.Amount, invoiceAvailable, apperrors.ErrValidation)
		}

		if err := store.UpdateAllocationAmount(ctx, allocationID, req.Amount); err != nil {
			return err
		}
		result = *allocation
		result.Amount = req.Amount

		return restateStatus(ctx, store, invoice, invoiceAvailable.Sub(req.Amount))
	})
	if err != nil {
		s.LogError(ctx, err, "Allocation update declined or failed",
			slog.String("side", string(s.side)),
			slog.String("allocation_id", allocationID),
			slog.String("amount", req.Amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Allocation updated",
		slog.String("side", string(s.side)),
		slog.String("allocation_id", allocationID),
		slog.String("amount", result.Amount.String()))
	return &result, nil
}

func (s *allocationService) DeleteAllocation(ctx context.Context, ownerID string, allocationID string) error {
	err := s.store.WithinTx(ctx, func(store portsrepo.AllocationStore) error {
		allocation, err := store.FindAllocationByID(ctx, allocationID)
		if err != nil {
			return err
		}
		invoice, err := store.FindInvoice(ctx, ownerID, allocation.InvoiceID)
		if err != nil {
			return err
		}

		outstanding, err := outstandingIn(ctx, store, invoice)
		if err != nil {
			return err
		}

		if err := store.DeleteAllocation(ctx, allocationID); err != nil {
			return err
		}

		// Freeing the allocation reopens that much of the invoice.
		return restateStatus(ctx, store, invoice, outstanding.Add(allocation.Amount))
	})
	if err != nil {
		s.LogError(ctx, err, "Allocation delete failed",
			slog.String("side", string(s.side)),
			slog.String("allocation_id", allocationID))
		return err
	}

	s.LogInfo(ctx, "Allocation deleted",
		slog.String("side", string(s.side)),
		slog.String("allocation_id", allocationID))
	return nil
}

func (s *allocationService) ListByPayment(ctx context.Context, ownerID string, paymentID string) ([]domain.Allocation, error) {
	if _, err := s.store.FindPayment(ctx, ownerID, paymentID); err != nil {
		return nil, err
	}
	return s.store.ListAllocationsByPayment(ctx, paymentID)
}

func (s *allocationService) ListByInvoice(ctx context.Context, ownerID string, invoiceID string) ([]domain.Allocation, error) {
	if _, err := s.store.FindInvoice(ctx, ownerID, invoiceID); err != nil {
		return nil, err
	}
	return s.store.ListAllocationsByInvoice(ctx, invoiceID)
}

func (s *allocationService) UnallocatedAmount(ctx context.Context, ownerID string, paymentID string) (decimal.Decimal, error) {
	payment, err := s.store.FindPayment(ctx, ownerID, paymentID)
	if err != nil {
		return decimal.Zero, err
	}
	return unallocatedIn(ctx, s.store, payment)
}

func (s *allocationService) OutstandingBalance(ctx context.Context, ownerID string, invoiceID string) (decimal.Decimal, error) {
	invoice, err := s.store.FindInvoice(ctx, ownerID, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	return outstandingIn(ctx, s.store, invoice)
}
