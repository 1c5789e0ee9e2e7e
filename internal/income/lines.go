package income

import "github.com/shopspring/decimal"

// LineKey identifies a line of the presented income statement.
type LineKey string

const (
	LineRevenue              LineKey = "revenue"
	LineOpeningInventory     LineKey = "opening_inventory"
	LineClosingInventory     LineKey = "closing_inventory"
	LineVarInventory         LineKey = "var_inventory"
	LineProductionValue      LineKey = "production_value"
	LinePurchases            LineKey = "purchases"
	LineDirectLabor          LineKey = "direct_labor"
	LineCostOfGoodsSold      LineKey = "cost_of_goods_sold"
	LineIndustrialMargin     LineKey = "industrial_margin"
	LineCommercialAdminCosts LineKey = "commercial_admin_costs"
	LineEbitda               LineKey = "ebitda"
	LineDepreciation         LineKey = "depreciation"
	LineProvisions           LineKey = "provisions"
	LineEbit                 LineKey = "ebit"
	LineFinancialIncome      LineKey = "financial_income"
	LineFinancialCharges     LineKey = "financial_charges"
	LineFinancialBalance     LineKey = "financial_balance"
	LinePreTaxResult         LineKey = "pre_tax_result"
	LineNetIncomeFromClosure LineKey = "net_income_from_closure"
)

// Line is one presented income-statement line.
type Line struct {
	Key     LineKey
	Label   string
	Amount  decimal.Decimal
	Derived bool
}

// Lines returns the statement in presentation order.
func (s Statement) Lines() []Line {
	raw := func(k LineKey, label string, v decimal.Decimal) Line {
		return Line{Key: k, Label: label, Amount: v}
	}
	derived := func(k LineKey, label string, v decimal.Decimal) Line {
		return Line{Key: k, Label: label, Amount: v, Derived: true}
	}
	return []Line{
		raw(LineRevenue, "Revenue", s.Revenue()),
		raw(LineOpeningInventory, "Opening inventory", s.OpeningInventory()),
		raw(LineClosingInventory, "Closing inventory", s.ClosingInventory()),
		derived(LineVarInventory, "Change in inventory", s.VarInventory()),
		derived(LineProductionValue, "Production value", s.ProductionValue()),
		raw(LinePurchases, "Purchases", s.Purchases()),
		raw(LineDirectLabor, "Direct labor cost", s.DirectLaborCost()),
		derived(LineCostOfGoodsSold, "Cost of goods sold", s.CostOfGoodsSold()),
		derived(LineIndustrialMargin, "Industrial margin", s.IndustrialMargin()),
		raw(LineCommercialAdminCosts, "Commercial/admin/general costs", s.CommercialAdminCosts()),
		derived(LineEbitda, "EBITDA", s.Ebitda()),
		raw(LineDepreciation, "Depreciation", s.Depreciation()),
		raw(LineProvisions, "Provisions", s.Provisions()),
		derived(LineEbit, "EBIT", s.Ebit()),
		raw(LineFinancialIncome, "Financial income", s.FinancialIncome()),
		raw(LineFinancialCharges, "Financial charges", s.FinancialCharges()),
		derived(LineFinancialBalance, "Financial balance", s.FinancialBalance()),
		derived(LinePreTaxResult, "Pre-tax result", s.PreTaxResult()),
		derived(LineNetIncomeFromClosure, "Net income (from closure)", s.NetIncomeFromClosure()),
	}
}

// Amount returns the value of a presented line.
func (s Statement) Amount(k LineKey) decimal.Decimal {
	for _, l := range s.Lines() {
		if l.Key == k {
			return l.Amount
		}
	}
	return decimal.Zero
}
