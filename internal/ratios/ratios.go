package ratios

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/balance"
	"github.com/cleared-dev/reclass/internal/classify"
	"github.com/cleared-dev/reclass/internal/income"
	"github.com/cleared-dev/reclass/internal/quadrature"
)

// Name identifies a ratio.
type Name string

const (
	CurrentRatio      Name = "current_ratio"
	QuickRatio        Name = "quick_ratio"
	DaysReceivables   Name = "days_receivables"
	Leverage          Name = "leverage"
	InterestCoverage  Name = "interest_coverage"
	ROE               Name = "roe"
	ROI               Name = "roi"
	ROS               Name = "ros"
	InventoryTurnover Name = "inventory_turnover"
)

// Names lists the ratios in presentation order.
var Names = []Name{
	CurrentRatio,
	QuickRatio,
	DaysReceivables,
	Leverage,
	InterestCoverage,
	ROE,
	ROI,
	ROS,
	InventoryTurnover,
}

// Known reports whether n is one of the computed ratios.
func (n Name) Known() bool {
	for _, k := range Names {
		if k == n {
			return true
		}
	}
	return false
}

// LowerIsBetter reports the indicator direction of the ratio.
func (n Name) LowerIsBetter() bool {
	return n == DaysReceivables || n == Leverage
}

// Label returns the presentation name of the ratio.
func (n Name) Label() string {
	switch n {
	case CurrentRatio:
		return "Current ratio"
	case QuickRatio:
		return "Quick ratio"
	case DaysReceivables:
		return "Days receivables"
	case Leverage:
		return "Leverage"
	case InterestCoverage:
		return "Interest coverage"
	case ROE:
		return "ROE"
	case ROI:
		return "ROI"
	case ROS:
		return "ROS"
	case InventoryTurnover:
		return "Inventory turnover"
	}
	return string(n)
}

// daysInYear scales receivables over revenue into days.
const daysInYear = 365

// Inputs are the statement figures the ratios are computed from.
type Inputs struct {
	CurrentAssets         decimal.Decimal
	CurrentLiabilities    decimal.Decimal
	NonCurrentLiabilities decimal.Decimal
	Equity                decimal.Decimal
	TotalAssets           decimal.Decimal
	ImmediateLiquidity    decimal.Decimal
	TradeReceivables      decimal.Decimal
	OtherReceivables      decimal.Decimal
	TaxReceivables        decimal.Decimal
	Inventory             decimal.Decimal
	Revenue               decimal.Decimal
	Ebitda                decimal.Decimal
	Ebit                  decimal.Decimal
	FinancialCharges      decimal.Decimal
	CostOfGoodsSold       decimal.Decimal
	NetProfit             decimal.Decimal
}

// Receivables is trade, other and tax receivables together.
func (in Inputs) Receivables() decimal.Decimal {
	return in.TradeReceivables.Add(in.OtherReceivables).Add(in.TaxReceivables)
}

// InputsFrom collects ratio inputs from the reclassified statements. Net
// profit comes from the quadrature revenue − cost result.
func InputsFrom(sheet balance.Sheet, st income.Statement, q quadrature.Result) Inputs {
	ca := classify.MacroCurrentAssets
	return Inputs{
		CurrentAssets:         sheet.Total(ca),
		CurrentLiabilities:    sheet.Total(classify.MacroCurrentLiabilities),
		NonCurrentLiabilities: sheet.Total(classify.MacroNonCurrentLiabilities),
		Equity:                sheet.Total(classify.MacroEquity),
		TotalAssets:           sheet.TotalAssets(),
		ImmediateLiquidity:    sheet.Amount(ca, classify.SubImmediateLiquidity),
		TradeReceivables:      sheet.Amount(ca, classify.SubTradeReceivables),
		OtherReceivables:      sheet.Amount(ca, classify.SubOtherReceivables),
		TaxReceivables:        sheet.Amount(ca, classify.SubTaxReceivables),
		Inventory:             sheet.Amount(ca, classify.SubInventory),
		Revenue:               st.Revenue(),
		Ebitda:                st.Ebitda(),
		Ebit:                  st.Ebit(),
		FinancialCharges:      st.FinancialCharges(),
		CostOfGoodsSold:       st.CostOfGoodsSold(),
		NetProfit:             q.ProfitLoss(),
	}
}

// Ratio is one computed ratio with its indicator.
type Ratio struct {
	Name      Name
	Value     float64
	Level     Level
	Threshold Threshold
}

// Set is the full list of ratios in presentation order.
type Set struct {
	Ratios []Ratio
}

// Get returns the named ratio.
func (s Set) Get(name Name) (Ratio, bool) {
	for _, r := range s.Ratios {
		if r.Name == name {
			return r, true
		}
	}
	return Ratio{}, false
}

// Value returns the named ratio value, 0 when absent.
func (s Set) Value(name Name) float64 {
	r, _ := s.Get(name)
	return r.Value
}

// Values maps ratio names to values.
func (s Set) Values() map[Name]float64 {
	out := make(map[Name]float64, len(s.Ratios))
	for _, r := range s.Ratios {
		out[r.Name] = r.Value
	}
	return out
}

// Indicators maps ratio names to levels.
func (s Set) Indicators() map[Name]Level {
	out := make(map[Name]Level, len(s.Ratios))
	for _, r := range s.Ratios {
		out[r.Name] = r.Level
	}
	return out
}

// div divides num by den, returning whenZero when den is zero. Each ratio
// picks its own sentinel: +Inf for solvency ratios, 0 for returns.
func div(num, den decimal.Decimal, whenZero float64) float64 {
	if den.IsZero() {
		return whenZero
	}
	return num.InexactFloat64() / den.InexactFloat64()
}

// Compute derives the nine ratios and their indicators. A nil or partial
// threshold table falls back to the defaults for missing entries.
func Compute(in Inputs, th Thresholds) Set {
	th = DefaultThresholds().Merge(th)
	inf := math.Inf(1)

	values := map[Name]float64{
		CurrentRatio:      div(in.CurrentAssets, in.CurrentLiabilities, inf),
		QuickRatio:        div(in.ImmediateLiquidity.Add(in.Receivables()), in.CurrentLiabilities, inf),
		DaysReceivables:   div(in.TradeReceivables, in.Revenue, 0),
		Leverage:          div(in.CurrentLiabilities.Add(in.NonCurrentLiabilities), in.Equity, inf),
		InterestCoverage:  div(in.Ebitda, in.FinancialCharges.Abs(), inf),
		ROE:               div(in.NetProfit, in.Equity, 0),
		ROI:               div(in.Ebit, in.TotalAssets, 0),
		ROS:               div(in.Ebit, in.Revenue, 0),
		InventoryTurnover: div(in.CostOfGoodsSold, in.Inventory, 0),
	}
	if !in.Revenue.IsZero() {
		values[DaysReceivables] *= daysInYear
	}

	set := Set{Ratios: make([]Ratio, 0, len(Names))}
	for _, name := range Names {
		v := values[name]
		set.Ratios = append(set.Ratios, Ratio{
			Name:      name,
			Value:     v,
			Level:     Indicate(name, v, th[name]),
			Threshold: th[name],
		})
	}
	return set
}

// Calculate computes the ratio set straight from the reclassified statements.
func Calculate(sheet balance.Sheet, st income.Statement, q quadrature.Result, th Thresholds) Set {
	return Compute(InputsFrom(sheet, st, q), th)
}
