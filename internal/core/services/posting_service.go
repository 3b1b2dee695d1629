package services

import (
	"context"
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
	"github.com/smallbooks/bookkeeping_app/internal/utils/accounting"
)

// postingService implements the PostingSvcFacade interface. It owns the
// canonical mapping from business events to double-entry legs. Every posting
// runs inside one unit-of-work transaction: the document, its journal legs and
// the stock callback land together or not at all.
type postingService struct {
	BaseService
	uow         portsrepo.PostingUnitOfWork
	journalRepo portsrepo.JournalRepositoryFacade
	finder      *accountFinder
	stock       portssvc.StockAdjuster
}

// NewPostingService creates the transaction logger. A nil stock adjuster
// falls back to the no-op implementation.
func NewPostingService(
	uow portsrepo.PostingUnitOfWork,
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	stock portssvc.StockAdjuster,
) portssvc.PostingSvcFacade {
	if stock == nil {
		stock = portssvc.NoopStockAdjuster{}
	}
	return &postingService{
		uow:         uow,
		journalRepo: journalRepo,
		finder:      &accountFinder{accounts: accountRepo},
		stock:       stock,
	}
}

// Ensure postingService implements the PostingSvcFacade interface
var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// numberEntries assigns sequential journal numbers, one scan per prefix,
// reading through the open transaction.
func numberEntries(ctx context.Context, store portsrepo.PostingStore, ownerID string, entries []domain.JournalEntry) error {
	next := map[string]int{}
	for i := range entries {
		prefix := accounting.JournalNumberPrefix(entries[i].TransactionType)
		if _, ok := next[prefix]; !ok {
			existing, err := store.ListJournalNumbers(ctx, ownerID, prefix)
			if err != nil {
				return err
			}
			next[prefix] = accounting.NextSequence(existing, prefix)
		}
		entries[i].JournalNumber = accounting.FormatJournalNumber(prefix, next[prefix])
		next[prefix]++
	}
	return nil
}

// saveGroup numbers and writes the legs of one business event on the open
// transaction.
func saveGroup(ctx context.Context, store portsrepo.PostingStore, ownerID string, entries []domain.JournalEntry) error {
	if err := numberEntries(ctx, store, ownerID, entries); err != nil {
		return err
	}
	return store.InsertEntries(ctx, entries)
}

// leg builds one entry of a compound posting.
func leg(ownerID, groupID string, date time.Time, description string, debit, credit *domain.Account, amount decimal.Decimal, reference string, txnType domain.TransactionType, stakeholder, creatorUserID string) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:            uuid.NewString(),
		OwnerID:            ownerID,
		EntryDate:          date,
		Description:        description,
		DebitAccountID:     debit.AccountID,
		CreditAccountID:    credit.AccountID,
		Amount:             amount,
		Reference:          reference,
		TransactionType:    txnType,
		Stakeholder:        stakeholder,
		TransactionGroupID: groupID,
		CreatedAt:          time.Now(),
		CreatedBy:          creatorUserID,
	}
}

// validateItems rejects empty and negative lines before any write happens.
func validateItems(items []dto.PostingItem) error {
	if len(items) == 0 {
		return fmt.Errorf("invoice has no lines: %w", apperrors.ErrValidation)
	}
	for _, item := range items {
		if item.LineTotal.IsNegative() {
			return fmt.Errorf("line %q has negative total %s: %w", item.Description, item.LineTotal, apperrors.ErrValidation)
		}
	}
	return nil
}

// grossTotal sums net plus posting-rate VAT across the lines.
func grossTotal(items []dto.PostingItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		vat := item.LineTotal.Mul(domain.VatCode(item.VatCode).PostingRate()).Round(2)
		total = total.Add(item.LineTotal).Add(vat)
	}
	return total
}

// buildInvoice assembles the document row for a posted invoice.
func buildInvoice(ownerID string, req dto.InvoicePostingRequest, creatorUserID string, now time.Time) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     req.InvoiceID,
		OwnerID:       ownerID,
		InvoiceNumber: req.InvoiceNumber,
		Stakeholder:   req.Stakeholder,
		InvoiceDate:   req.InvoiceDate,
		Total:         grossTotal(req.Items),
		Status:        domain.InvoiceFinalized,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
}

func buildPayment(ownerID string, req dto.PaymentPostingRequest, creatorUserID string, now time.Time) domain.Payment {
	return domain.Payment{
		PaymentID:   req.PaymentID,
		OwnerID:     ownerID,
		Stakeholder: req.Stakeholder,
		PaymentDate: req.PaymentDate,
		Amount:      req.Amount,
		Method:      domain.PaymentMethod(req.Method),
		Reference:   req.Reference,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
}

func (s *postingService) PostSalesInvoice(ctx context.Context, ownerID string, req dto.InvoicePostingRequest, creatorUserID string) ([]domain.JournalEntry, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	debtors, err := s.finder.findRole(ctx, ownerID, roleDebtors)
	if err != nil {
		return nil, err
	}
	sales, err := s.finder.findRole(ctx, ownerID, roleSales)
	if err != nil {
		return nil, err
	}

	groupID := uuid.NewString()
	entries := make([]domain.JournalEntry, 0, len(req.Items)*3)
	items := make([]domain.InvoiceItem, 0, len(req.Items))

	for _, item := range req.Items {
		vatCode := domain.VatCode(item.VatCode).Normalize()
		items = append(items, domain.InvoiceItem{
			ItemID:      uuid.NewString(),
			InvoiceID:   req.InvoiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VatCode:     vatCode,
			LineTotal:   item.LineTotal,
			IsProduct:   item.IsProduct,
		})

		if item.LineTotal.IsPositive() {
			entries = append(entries, leg(ownerID, groupID, req.InvoiceDate,
				fmt.Sprintf("Sales Invoice %s - %s", req.InvoiceNumber, item.Description),
				debtors, sales, item.LineTotal, req.InvoiceNumber,
				domain.TxnSalesInvoice, req.Stakeholder, creatorUserID))
		}

		vat := item.LineTotal.Mul(vatCode.PostingRate()).Round(2)
		if vat.IsPositive() {
			vatOutput, err := s.finder.findRole(ctx, ownerID, roleVatOutput)
			if err != nil {
				return nil, err
			}
			entries = append(entries, leg(ownerID, groupID, req.InvoiceDate,
				fmt.Sprintf("VAT on Sales Invoice %s - %s", req.InvoiceNumber, item.Description),
				debtors, vatOutput, vat, req.InvoiceNumber,
				domain.TxnSalesInvoice, req.Stakeholder, creatorUserID))
		}

		if item.IsProduct {
			cost := item.Quantity.Mul(item.UnitCost)
			if cost.IsPositive() {
				costOfSales, err := s.finder.findRole(ctx, ownerID, roleCostOfSales)
				if err != nil {
					return nil, err
				}
				stock, err := s.finder.findRole(ctx, ownerID, roleStock)
				if err != nil {
					return nil, err
				}
				entries = append(entries, leg(ownerID, groupID, req.InvoiceDate,
					fmt.Sprintf("Cost of Sales - Invoice %s - %s", req.InvoiceNumber, item.Description),
					costOfSales, stock, cost, req.InvoiceNumber,
					domain.TxnSalesInvoice, req.Stakeholder, creatorUserID))
			}
		}
	}

	invoice := buildInvoice(ownerID, req, creatorUserID, time.Now())
	err = s.uow.WithinTx(ctx, func(store portsrepo.PostingStore) error {
		if err := store.InsertInvoice(ctx, domain.CustomerSide, invoice, items); err != nil {
			return err
		}
		if err := saveGroup(ctx, store, ownerID, entries); err != nil {
			return err
		}
		for _, item := range req.Items {
			if item.IsProduct && item.ProductID != "" {
				if err := s.stock.AdjustQuantity(ctx, ownerID, item.ProductID, item.Quantity.Neg()); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post sales invoice",
			slog.String("invoice_id", req.InvoiceID),
			slog.String("group_id", groupID))
		return nil, err
	}

	s.LogInfo(ctx, "Sales invoice posted",
		slog.String("invoice_number", req.InvoiceNumber),
		slog.String("group_id", groupID),
		slog.Int("legs", len(entries)))
	return entries, nil
}

func (s *postingService) PostSupplierInvoice(ctx context.Context, ownerID string, req dto.InvoicePostingRequest, creatorUserID string) ([]domain.JournalEntry, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	creditors, err := s.finder.findRole(ctx, ownerID, roleCreditors)
	if err != nil {
		return nil, err
	}
	purchases, err := s.finder.findRole(ctx, ownerID, rolePurchases)
	if err != nil {
		return nil, err
	}

	groupID := uuid.NewString()
	entries := make([]domain.JournalEntry, 0, len(req.Items)*2)
	items := make([]domain.InvoiceItem, 0, len(req.Items))

	for _, item := range req.Items {
		vatCode := domain.VatCode(item.VatCode).Normalize()
		items = append(items, domain.InvoiceItem{
			ItemID:      uuid.NewString(),
			InvoiceID:   req.InvoiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VatCode:     vatCode,
			LineTotal:   item.LineTotal,
			IsProduct:   item.IsProduct,
		})

		if item.LineTotal.IsPositive() {
			entries = append(entries, leg(ownerID, groupID, req.InvoiceDate,
				fmt.Sprintf("Invoice %s - %s", req.InvoiceNumber, item.Description),
				purchases, creditors, item.LineTotal, req.InvoiceNumber,
				domain.TxnInvoice, req.Stakeholder, creatorUserID))
		}

		vat := item.LineTotal.Mul(vatCode.PostingRate()).Round(2)
		if vat.IsPositive() {
			vatInput, err := s.finder.findRole(ctx, ownerID, roleVatInput)
			if err != nil {
				return nil, err
			}
			entries = append(entries, leg(ownerID, groupID, req.InvoiceDate,
				fmt.Sprintf("VAT on Invoice %s - %s", req.InvoiceNumber, item.Description),
				vatInput, creditors, vat, req.InvoiceNumber,
				domain.TxnInvoice, req.Stakeholder, creatorUserID))
		}
	}

	invoice := buildInvoice(ownerID, req, creatorUserID, time.Now())
	err = s.uow.WithinTx(ctx, func(store portsrepo.PostingStore) error {
		if err := store.InsertInvoice(ctx, domain.SupplierSide, invoice, items); err != nil {
			return err
		}
		return saveGroup(ctx, store, ownerID, entries)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post supplier invoice",
			slog.String("invoice_id", req.InvoiceID),
			slog.String("group_id", groupID))
		return nil, err
	}

	s.LogInfo(ctx, "Supplier invoice posted",
		slog.String("invoice_number", req.InvoiceNumber),
		slog.String("group_id", groupID),
		slog.Int("legs", len(entries)))
	return entries, nil
}

// receiptTarget picks where incoming money lands: cleared BACS receipts go
// straight to Bank, everything else waits in Undeposited Funds.
func (s *postingService) receiptTarget(ctx context.Context, ownerID string, method domain.PaymentMethod) (*domain.Account, error) {
	if method == domain.MethodBACS {
		return s.finder.findBank(ctx, ownerID)
	}
	return s.finder.findRole(ctx, ownerID, roleUndeposited)
}

func (s *postingService) PostCustomerReceipt(ctx context.Context, ownerID string, req dto.PaymentPostingRequest, creatorUserID string) ([]domain.JournalEntry, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("payment amount must be positive: %w", apperrors.ErrValidation)
	}

	target, err := s.receiptTarget(ctx, ownerID, domain.PaymentMethod(req.Method))
	if err != nil {
		return nil, err
	}
	debtors, err := s.finder.findRole(ctx, ownerID, roleDebtors)
	if err != nil {
		return nil, err
	}

	payment := buildPayment(ownerID, req, creatorUserID, time.Now())
	groupID := uuid.NewString()
	entries := []domain.JournalEntry{
		leg(ownerID, groupID, req.PaymentDate,
			fmt.Sprintf("Receipt from %s", req.Stakeholder),
			target, debtors, req.Amount, req.Reference,
			domain.TxnPayment, req.Stakeholder, creatorUserID),
	}

	err = s.uow.WithinTx(ctx, func(store portsrepo.PostingStore) error {
		if err := store.InsertPayment(ctx, domain.CustomerSide, payment); err != nil {
			return err
		}
		return saveGroup(ctx, store, ownerID, entries)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post customer receipt",
			slog.String("payment_id", req.PaymentID))
		return nil, err
	}

	s.LogInfo(ctx, "Customer receipt posted",
		slog.String("payment_id", req.PaymentID),
		slog.String("target_account", target.Name))
	return entries, nil
}

func (s *postingService) PostSupplierPayment(ctx context.Context, ownerID string, req dto.PaymentPostingRequest, creatorUserID string) ([]domain.JournalEntry, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("payment amount must be positive: %w", apperrors.ErrValidation)
	}

	creditors, err := s.finder.findRole(ctx, ownerID, roleCreditors)
	if err != nil {
		return nil, err
	}
	bank, err := s.finder.findBank(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	payment := buildPayment(ownerID, req, creatorUserID, time.Now())
	groupID := uuid.NewString()
	entries := []domain.JournalEntry{
		leg(ownerID, groupID, req.PaymentDate,
			fmt.Sprintf("Payment to %s", req.Stakeholder),
			creditors, bank, req.Amount, req.Reference,
			domain.TxnPayment, req.Stakeholder, creatorUserID),
	}

	err = s.uow.WithinTx(ctx, func(store portsrepo.PostingStore) error {
		if err := store.InsertPayment(ctx, domain.SupplierSide, payment); err != nil {
			return err
		}
		return saveGroup(ctx, store, ownerID, entries)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post supplier payment",
			slog.String("payment_id", req.PaymentID))
		return nil, err
	}

	s.LogInfo(ctx, "Supplier payment posted",
		slog.String("payment_id", req.PaymentID))
	return entries, nil
}

func (s *postingService) PostStockAdjustment(ctx context.Context, ownerID string, req dto.StockAdjustmentRequest, creatorUserID string) ([]domain.JournalEntry, error) {
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("adjustment amount must be non-zero: %w", apperrors.ErrValidation)
	}

	stock, err := s.finder.findRole(ctx, ownerID, roleStock)
	if err != nil {
		return nil, err
	}
	adjustment, err := s.finder.findRole(ctx, ownerID, roleStockAdjustment)
	if err != nil {
		return nil, err
	}

	// Positive writes stock up, negative writes it down; the entry amount is
	// always the magnitude.
	debit, credit := stock, adjustment
	if req.Amount.IsNegative() {
		debit, credit = adjustment, stock
	}

	groupID := uuid.NewString()
	entries := []domain.JournalEntry{
		leg(ownerID, groupID, req.Date, req.Description,
			debit, credit, req.Amount.Abs(), req.Reference,
			domain.TxnAdjustment, "", creatorUserID),
	}

	err = s.uow.WithinTx(ctx, func(store portsrepo.PostingStore) error {
		return saveGroup(ctx, store, ownerID, entries)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post stock adjustment",
			slog.String("product_id", req.ProductID))
		return nil, err
	}

	s.LogInfo(ctx, "Stock adjustment posted",
		slog.String("product_id", req.ProductID),
		slog.String("amount", req.Amount.String()))
	return entries, nil
}

func (s *postingService) ReverseGroup(ctx context.Context, ownerID string, groupID string, creatorUserID string) ([]domain.JournalEntry, error) {
	originals, err := s.journalRepo.ListEntriesByGroupID(ctx, ownerID, groupID)
	if err != nil {
		return nil, err
	}
	if len(originals) == 0 {
		return nil, fmt.Errorf("transaction group %s: %w", groupID, apperrors.ErrNotFound)
	}

	now := time.Now()
	reversalGroupID := uuid.NewString()
	reversals := make([]domain.JournalEntry, len(originals))
	for i, original := range originals {
		reversals[i] = domain.JournalEntry{
			EntryID:            uuid.NewString(),
			OwnerID:            ownerID,
			EntryDate:          now,
			Description:        fmt.Sprintf("Reversal: %s", original.Description),
			DebitAccountID:     original.CreditAccountID,
			CreditAccountID:    original.DebitAccountID,
			Amount:             original.Amount,
			Reference:          fmt.Sprintf("REV-%s", original.Reference),
			TransactionType:    original.TransactionType,
			Stakeholder:        original.Stakeholder,
			TransactionGroupID: reversalGroupID,
			CreatedAt:          now,
			CreatedBy:          creatorUserID,
		}
	}

	err = s.uow.WithinTx(ctx, func(store portsrepo.PostingStore) error {
		return saveGroup(ctx, store, ownerID, reversals)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post reversal group",
			slog.String("group_id", groupID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction group reversed",
		slog.String("group_id", groupID),
		slog.String("reversal_group_id", reversalGroupID),
		slog.Int("legs", len(reversals)))
	return reversals, nil
}
