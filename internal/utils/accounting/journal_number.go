package accounting

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// JournalNumberPrefix maps a transaction type to its journal number prefix.
// Each type runs its own sequence; JNL is reserved for manual journal
// entries, so posted documents never consume the manual numbering.
func JournalNumberPrefix(txnType domain.TransactionType) string {
	switch txnType {
	case domain.TxnTransfer:
		return "TFR"
	case domain.TxnSalesInvoice:
		return "SIN"
	case domain.TxnInvoice:
		return "PIN"
	case domain.TxnPayment:
		return "PAY"
	case domain.TxnAdjustment:
		return "ADJ"
	default:
		return "JNL"
	}
}

// NextSequence scans the existing numbers for a prefix and returns the next
// free sequence value. Numbers that do not parse are ignored; if nothing
// parses the sequence restarts at 1.
func NextSequence(existing []string, prefix string) int {
	max := 0
	for _, number := range existing {
		suffix, ok := strings.CutPrefix(number, prefix+"-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

// FormatJournalNumber renders a sequence value as PREFIX-0001.
func FormatJournalNumber(prefix string, n int) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// NextJournalNumber returns the next formatted number for a prefix.
func NextJournalNumber(existing []string, prefix string) string {
	return FormatJournalNumber(prefix, NextSequence(existing, prefix))
}
