package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// VatCode identifies the VAT treatment of an invoice line.
type VatCode string

const (
	VatStandard  VatCode = "S" // 20%
	VatExempt    VatCode = "E"
	VatZeroRated VatCode = "Z"
)

var vatStandardRate = decimal.NewFromFloat(0.20)

// Normalize trims and upper-cases a raw code, defaulting blanks to standard.
func (c VatCode) Normalize() VatCode {
	s := strings.ToUpper(strings.TrimSpace(string(c)))
	if s == "" {
		return VatStandard
	}
	return VatCode(s)
}

// PostingRate is the rate used when writing VAT journal legs. Unknown codes
// produce no VAT leg, so the rate is zero.
func (c VatCode) PostingRate() decimal.Decimal {
	if c.Normalize() == VatStandard {
		return vatStandardRate
	}
	return decimal.Zero
}

// ReportingRate is the rate used by the VAT return. Unknown codes fall back
// to the standard rate here, deliberately stricter than PostingRate: the
// return overstates rather than understates liability for bad data, and the
// divergence surfaces unmapped codes.
func (c VatCode) ReportingRate() decimal.Decimal {
	switch c.Normalize() {
	case VatExempt, VatZeroRated:
		return decimal.Zero
	default:
		return vatStandardRate
	}
}
