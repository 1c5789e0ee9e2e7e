package balance

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/classify"
	"github.com/cleared-dev/reclass/internal/model"
)

// builder accumulates lines pre-populated from the tables, so every
// accumulation is a plain add.
type builder struct {
	sections []Section
	index    map[classify.Macro]map[string]*Line
}

func newBuilder(tables *classify.Tables) *builder {
	b := &builder{
		sections: make([]Section, len(classify.Macros)),
		index:    make(map[classify.Macro]map[string]*Line, len(classify.Macros)),
	}
	for i, m := range classify.Macros {
		subs := tables.SubCategories(m)
		b.sections[i] = Section{Macro: m, Lines: make([]Line, len(subs))}
		b.index[m] = make(map[string]*Line, len(subs))
		for j, sub := range subs {
			b.sections[i].Lines[j] = Line{Sub: sub, Amount: decimal.Zero}
			b.index[m][sub] = &b.sections[i].Lines[j]
		}
	}
	return b
}

func (b *builder) line(m classify.Macro, sub string) *Line {
	if l, ok := b.index[m][sub]; ok {
		return l
	}
	// Tables declare every line they map to, so this only runs for lines
	// outside the pre-populated layout.
	i := len(b.sections)
	for j, sec := range b.sections {
		if sec.Macro == m {
			i = j
			break
		}
	}
	if i == len(b.sections) {
		b.sections = append(b.sections, Section{Macro: m})
	}
	b.sections[i].Lines = append(b.sections[i].Lines, Line{Sub: sub, Amount: decimal.Zero})
	b.index[m] = make(map[string]*Line, len(b.sections[i].Lines))
	for j := range b.sections[i].Lines {
		b.index[m][b.sections[i].Lines[j].Sub] = &b.sections[i].Lines[j]
	}
	return b.index[m][sub]
}

func (b *builder) add(m classify.Macro, sub string, rec model.AccountRecord, amount decimal.Decimal) {
	l := b.line(m, sub)
	l.Amount = l.Amount.Add(amount)
	l.Sources = append(l.Sources, Contribution{
		AccountCode: rec.AccountCode,
		Description: rec.AccountDescription,
		Amount:      amount,
	})
}

// Reclassify builds the reclassified balance sheet from a record set.
//
// Records whose prefix has a balance-sheet rule are applied in input order:
// negative tax debts become tax receivables, the accumulated depreciation
// fund is netted against tangible fixed assets at the end, bank debts are
// split by opts.ShortTermBankRatio, and everything else lands on its
// mapped line.
func Reclassify(records []model.AccountRecord, tables *classify.Tables, opts Options) Sheet {
	b := newBuilder(tables)

	depreciation := decimal.Zero
	var depreciationRecs []model.AccountRecord
	var taxCredits []model.AccountRecord
	var unclassified []model.AccountRecord

	for _, rec := range records {
		rule, ok := tables.Balance(rec.AccountCode)
		if !ok {
			if rec.Section.BalanceSheet() {
				unclassified = append(unclassified, rec)
			}
			continue
		}

		switch rule.Treatment {
		case classify.TreatmentTaxDebt:
			if rec.Amount.IsNegative() {
				taxCredits = append(taxCredits, rec)
				continue
			}
			b.add(rule.Macro, rule.Sub, rec, rec.Amount)

		case classify.TreatmentAccumulatedDepreciation:
			depreciation = depreciation.Add(rec.Amount)
			depreciationRecs = append(depreciationRecs, rec)

		case classify.TreatmentBankDebt:
			short, long := SplitBankDebt(rec.Amount, opts.ShortTermBankRatio)
			b.add(classify.MacroCurrentLiabilities, classify.SubBankDebts, rec, short)
			b.add(classify.MacroNonCurrentLiabilities, classify.SubMediumLongBankDebts, rec, long)

		default:
			b.add(rule.Macro, rule.Sub, rec, rec.Amount)
		}
	}

	for _, rec := range taxCredits {
		b.add(classify.MacroCurrentAssets, classify.SubTaxReceivables, rec, rec.Amount.Abs())
	}

	netted := false
	if tangible := b.index[classify.MacroFixedAssets][classify.SubTangibleFixedAssets]; tangible != nil && len(tangible.Sources) > 0 {
		for _, rec := range depreciationRecs {
			b.add(classify.MacroFixedAssets, classify.SubTangibleFixedAssets, rec, rec.Amount.Neg())
		}
		netted = true
	}

	return Sheet{
		Sections:                b.sections,
		AccumulatedDepreciation: depreciation,
		DepreciationNetted:      netted || depreciation.IsZero(),
		Unclassified:            unclassified,
	}
}

// SplitBankDebt splits a bank-debt balance into its short-term and
// medium/long-term portions. short + long == amount exactly.
func SplitBankDebt(amount, ratio decimal.Decimal) (short, long decimal.Decimal) {
	short = amount.Mul(ratio)
	long = amount.Sub(short)
	return short, long
}
