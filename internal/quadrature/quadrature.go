package quadrature

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/model"
)

// DefaultTolerance is the absolute currency amount under which the balance
// sheet is considered closed.
var DefaultTolerance = decimal.New(1, -2)

// Result holds the per-section totals of a record set.
type Result struct {
	Assets      decimal.Decimal
	Liabilities decimal.Decimal
	Revenues    decimal.Decimal
	Costs       decimal.Decimal
}

// Check sums record amounts per statement section. Classification tables are
// not consulted.
func Check(records []model.AccountRecord) Result {
	var res Result
	for _, rec := range records {
		switch rec.Section {
		case model.SectionAsset:
			res.Assets = res.Assets.Add(rec.Amount)
		case model.SectionLiability:
			res.Liabilities = res.Liabilities.Add(rec.Amount)
		case model.SectionRevenue:
			res.Revenues = res.Revenues.Add(rec.Amount)
		case model.SectionCost:
			res.Costs = res.Costs.Add(rec.Amount)
		}
	}
	return res
}

// Total returns the total of one section.
func (r Result) Total(s model.Section) decimal.Decimal {
	switch s {
	case model.SectionAsset:
		return r.Assets
	case model.SectionLiability:
		return r.Liabilities
	case model.SectionRevenue:
		return r.Revenues
	case model.SectionCost:
		return r.Costs
	}
	return decimal.Zero
}

// Difference is Assets − Liabilities.
func (r Result) Difference() decimal.Decimal {
	return r.Assets.Sub(r.Liabilities)
}

// ProfitLoss is Revenues − Costs.
func (r Result) ProfitLoss() decimal.Decimal {
	return r.Revenues.Sub(r.Costs)
}

// Balanced reports whether |Assets − Liabilities| is below DefaultTolerance.
func (r Result) Balanced() bool {
	return r.BalancedWithin(DefaultTolerance)
}

// BalancedWithin reports whether |Assets − Liabilities| < tol.
func (r Result) BalancedWithin(tol decimal.Decimal) bool {
	return r.Difference().Abs().LessThan(tol)
}
