package balance

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/classify"
	"github.com/cleared-dev/reclass/internal/model"
)

// DefaultShortTermBankRatio is the share of bank debt presented as current.
var DefaultShortTermBankRatio = decimal.New(1, -1)

// Options controls the balance-sheet reclassification.
type Options struct {
	// ShortTermBankRatio in [0,1] is the portion of each bank-debt balance
	// presented under current liabilities; the rest is medium/long-term.
	ShortTermBankRatio decimal.Decimal
}

// DefaultOptions returns Options with the default bank split.
func DefaultOptions() Options {
	return Options{ShortTermBankRatio: DefaultShortTermBankRatio}
}

// Contribution is the amount one ledger record added to a line.
type Contribution struct {
	AccountCode string
	Description string
	Amount      decimal.Decimal
}

// Line is a sub-category of the reclassified balance sheet.
type Line struct {
	Sub     string
	Amount  decimal.Decimal
	Sources []Contribution
}

// Section is a macro category with its lines.
type Section struct {
	Macro classify.Macro
	Lines []Line
}

// Total is the sum of the section's lines.
func (s Section) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Amount)
	}
	return total
}

// Line returns the named line.
func (s Section) Line(sub string) (Line, bool) {
	for _, l := range s.Lines {
		if l.Sub == sub {
			return l, true
		}
	}
	return Line{}, false
}

// Sheet is the reclassified balance sheet. Every known macro and
// sub-category is present, at zero when nothing contributed to it.
type Sheet struct {
	Sections []Section

	// AccumulatedDepreciation is the contra-account total netted against
	// tangible fixed assets (or dropped when there were none).
	AccumulatedDepreciation decimal.Decimal
	// DepreciationNetted is false when the depreciation fund had no
	// tangible fixed assets to be netted against.
	DepreciationNetted bool
	// Unclassified lists asset and liability records whose prefix has no
	// balance-sheet rule. They are excluded from every line.
	Unclassified []model.AccountRecord
}

// Section returns the section of a macro category.
func (s Sheet) Section(m classify.Macro) Section {
	for _, sec := range s.Sections {
		if sec.Macro == m {
			return sec
		}
	}
	return Section{Macro: m}
}

// Total returns the total of a macro category.
func (s Sheet) Total(m classify.Macro) decimal.Decimal {
	return s.Section(m).Total()
}

// Amount returns one sub-category amount, zero when absent.
func (s Sheet) Amount(m classify.Macro, sub string) decimal.Decimal {
	l, ok := s.Section(m).Line(sub)
	if !ok {
		return decimal.Zero
	}
	return l.Amount
}

// Totals maps every macro category to its total.
func (s Sheet) Totals() map[classify.Macro]decimal.Decimal {
	out := make(map[classify.Macro]decimal.Decimal, len(s.Sections))
	for _, sec := range s.Sections {
		out[sec.Macro] = sec.Total()
	}
	return out
}

// Details maps every macro category to its sub-category amounts.
func (s Sheet) Details() map[classify.Macro]map[string]decimal.Decimal {
	out := make(map[classify.Macro]map[string]decimal.Decimal, len(s.Sections))
	for _, sec := range s.Sections {
		subs := make(map[string]decimal.Decimal, len(sec.Lines))
		for _, l := range sec.Lines {
			subs[l.Sub] = l.Amount
		}
		out[sec.Macro] = subs
	}
	return out
}

// TotalAssets is fixed plus current assets.
func (s Sheet) TotalAssets() decimal.Decimal {
	return s.sideTotal(true)
}

// TotalLiabilitiesAndEquity is current and non-current liabilities plus equity.
func (s Sheet) TotalLiabilitiesAndEquity() decimal.Decimal {
	return s.sideTotal(false)
}

func (s Sheet) sideTotal(assets bool) decimal.Decimal {
	total := decimal.Zero
	for _, sec := range s.Sections {
		if sec.Macro.Asset() == assets {
			total = total.Add(sec.Total())
		}
	}
	return total
}
