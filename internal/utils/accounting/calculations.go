package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// SignedMovement returns the balance effect of one journal entry on the given
// account, following the double-entry convention:
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/INCOME -> Negative (-)
// CREDIT to LIABILITY/EQUITY/INCOME -> Positive (+)
// Entries that touch the account on neither side contribute zero.
func SignedMovement(entry domain.JournalEntry, accountID string, accountType domain.AccountType) (decimal.Decimal, error) {
	isDebit := entry.DebitAccountID == accountID
	isCredit := entry.CreditAccountID == accountID
	if !isDebit && !isCredit {
		return decimal.Zero, nil
	}

	switch accountType {
	case domain.Asset, domain.Expense:
		if isCredit {
			return entry.Amount.Neg(), nil
		}
		return entry.Amount, nil
	case domain.Liability, domain.Equity, domain.Income:
		if isDebit {
			return entry.Amount.Neg(), nil
		}
		return entry.Amount, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, accountID)
	}
}

// Balance folds a set of journal entries on top of an account's opening
// balance. Callers pass only the entries relevant to the period queried.
func Balance(account domain.Account, entries []domain.JournalEntry) (decimal.Decimal, error) {
	balance := account.OpeningBalance
	for _, entry := range entries {
		movement, err := SignedMovement(entry, account.AccountID, account.AccountType)
		if err != nil {
			return decimal.Zero, err
		}
		balance = balance.Add(movement)
	}
	return balance, nil
}

// BalanceFromMovement folds an aggregated debit/credit pair onto the
// account's opening balance using its type's sign convention.
func BalanceFromMovement(m domain.AccountMovement) (decimal.Decimal, error) {
	if _, _, ok := m.Account.AccountType.CodeRange(); !ok {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", m.Account.AccountType, m.Account.AccountID)
	}
	if m.Account.AccountType.IsDebitNormal() {
		return m.Account.OpeningBalance.Add(m.Debits).Sub(m.Credits), nil
	}
	return m.Account.OpeningBalance.Add(m.Credits).Sub(m.Debits), nil
}

// PeriodNet is movement only, signed by the account's convention, ignoring
// the opening balance.
func PeriodNet(m domain.AccountMovement) (decimal.Decimal, error) {
	if _, _, ok := m.Account.AccountType.CodeRange(); !ok {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", m.Account.AccountType, m.Account.AccountID)
	}
	if m.Account.AccountType.IsDebitNormal() {
		return m.Debits.Sub(m.Credits), nil
	}
	return m.Credits.Sub(m.Debits), nil
}

// ValidateEntry checks the structural rules every journal entry must satisfy
// before it reaches storage.
func ValidateEntry(entry domain.JournalEntry) error {
	if entry.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("entry amount must be positive, got %s", entry.Amount.String())
	}
	if entry.DebitAccountID == "" || entry.CreditAccountID == "" {
		return fmt.Errorf("entry must name both a debit and a credit account")
	}
	if entry.DebitAccountID == entry.CreditAccountID {
		return fmt.Errorf("debit and credit accounts must differ")
	}
	return nil
}
