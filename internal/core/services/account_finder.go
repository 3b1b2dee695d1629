package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
)

// accountRole describes how a control account is located in the chart: by
// name keywords within its type first, then by a conventional fallback code.
type accountRole struct {
	name         string
	accountType  domain.AccountType
	keywords     []string
	fallbackCode int
}

var (
	roleDebtors         = accountRole{"Debtors", domain.Asset, []string{"debtor", "accounts receivable", "trade receivable"}, 1100}
	roleCreditors       = accountRole{"Creditors", domain.Liability, []string{"creditor", "accounts payable", "trade payable"}, 2100}
	roleSales           = accountRole{"Sales", domain.Income, []string{"sales", "turnover", "revenue"}, 4000}
	roleVatOutput       = accountRole{"VAT Output", domain.Liability, []string{"vat output", "output vat", "vat on sales"}, 2200}
	roleVatInput        = accountRole{"VAT Input", domain.Asset, []string{"vat input", "input vat", "vat on purchases"}, 1300}
	rolePurchases       = accountRole{"Purchases", domain.Expense, []string{"purchases", "general expenses"}, 5000}
	roleCostOfSales     = accountRole{"Cost of Sales", domain.Expense, []string{"cost of sales", "cost of goods"}, 5050}
	roleStock           = accountRole{"Stock", domain.Asset, []string{"stock", "inventory"}, 1200}
	roleUndeposited     = accountRole{"Undeposited Funds", domain.Asset, []string{"undeposited"}, 1250}
	roleStockAdjustment = accountRole{"Stock Adjustment", domain.Expense, []string{"stock adjustment", "inventory adjustment"}, 5100}
)

// accountFinder resolves control accounts for the transaction logger.
type accountFinder struct {
	accounts portsrepo.AccountReader
}

// findRole locates the owner's account for a role. Posting aborts when a
// required control account is missing from the chart.
func (f *accountFinder) findRole(ctx context.Context, ownerID string, role accountRole) (*domain.Account, error) {
	candidates, err := f.accounts.ListAccountsByType(ctx, ownerID, role.accountType)
	if err != nil {
		return nil, err
	}

	for _, keyword := range role.keywords {
		for i := range candidates {
			if strings.Contains(strings.ToLower(candidates[i].Name), keyword) {
				return &candidates[i], nil
			}
		}
	}
	for i := range candidates {
		if candidates[i].Code == role.fallbackCode {
			return &candidates[i], nil
		}
	}
	return nil, fmt.Errorf("no %s account found in chart of accounts: %w", role.name, apperrors.ErrValidation)
}

// findBank prefers the lowest-coded account flagged as a bank, falling back
// to a name match.
func (f *accountFinder) findBank(ctx context.Context, ownerID string) (*domain.Account, error) {
	candidates, err := f.accounts.ListAccountsByType(ctx, ownerID, domain.Asset)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		if candidates[i].IsBank {
			return &candidates[i], nil
		}
	}
	for i := range candidates {
		if strings.Contains(strings.ToLower(candidates[i].Name), "bank") {
			return &candidates[i], nil
		}
	}
	return nil, fmt.Errorf("no bank account found in chart of accounts: %w", apperrors.ErrValidation)
}
