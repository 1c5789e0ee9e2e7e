package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/balance"
	"github.com/cleared-dev/reclass/internal/classify"
	"github.com/cleared-dev/reclass/internal/income"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/quadrature"
	"github.com/cleared-dev/reclass/internal/ratios"
)

// Options configures one analysis run.
type Options struct {
	Tables *classify.Tables
	// Balance nil selects balance.DefaultOptions; a zero bank ratio has to be
	// set explicitly.
	Balance    *balance.Options
	Thresholds ratios.Thresholds
	// Tolerance bounds the quadrature difference and the closure gap that
	// still count as balanced.
	Tolerance decimal.Decimal
}

// DefaultOptions uses the embedded tables and default thresholds.
func DefaultOptions() Options {
	bal := balance.DefaultOptions()
	return Options{
		Tables:     classify.Default(),
		Balance:    &bal,
		Thresholds: ratios.DefaultThresholds(),
		Tolerance:  quadrature.DefaultTolerance,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Tables == nil {
		o.Tables = def.Tables
	}
	if o.Balance == nil {
		o.Balance = def.Balance
	}
	if o.Thresholds == nil {
		o.Thresholds = def.Thresholds
	}
	if o.Tolerance.IsZero() {
		o.Tolerance = def.Tolerance
	}
	return o
}

// Diagnostics collects the data-quality signals of a run. None of them stop
// the computation.
type Diagnostics struct {
	// UnclassifiedBalance lists asset and liability records with no
	// balance-sheet rule.
	UnclassifiedBalance []model.AccountRecord
	// UnclassifiedIncome lists revenue and cost records with no
	// income-statement rule.
	UnclassifiedIncome []model.AccountRecord
	CoercedAmounts     int
	Balanced           bool
	ClosureGap         decimal.Decimal
	MaterialGap        bool
}

// Clean reports whether the run raised no diagnostic at all.
func (d Diagnostics) Clean() bool {
	return len(d.UnclassifiedBalance) == 0 &&
		len(d.UnclassifiedIncome) == 0 &&
		d.CoercedAmounts == 0 &&
		d.Balanced &&
		!d.MaterialGap
}

// Analysis is the full output for one dataset.
type Analysis struct {
	Quadrature  quadrature.Result
	Balance     balance.Sheet
	Income      income.Statement
	Ratios      ratios.Set
	Diagnostics Diagnostics
}

// Analyze runs the quadrature check, both reclassifiers and the ratio engine
// over one record set. It is pure and safe for concurrent use.
func Analyze(records []model.AccountRecord, opts Options) Analysis {
	opts = opts.withDefaults()

	q := quadrature.Check(records)
	sheet := balance.Reclassify(records, opts.Tables, *opts.Balance)
	st := income.Reclassify(records, opts.Tables)

	coerced := 0
	for _, r := range records {
		if r.AmountCoerced {
			coerced++
		}
	}

	gap := st.ClosureGap()
	return Analysis{
		Quadrature: q,
		Balance:    sheet,
		Income:     st,
		Ratios:     ratios.Calculate(sheet, st, q, opts.Thresholds),
		Diagnostics: Diagnostics{
			UnclassifiedBalance: sheet.Unclassified,
			UnclassifiedIncome:  st.Unclassified,
			CoercedAmounts:      coerced,
			Balanced:            q.BalancedWithin(opts.Tolerance),
			ClosureGap:          gap,
			MaterialGap:         gap.Abs().GreaterThanOrEqual(opts.Tolerance),
		},
	}
}
