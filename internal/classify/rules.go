package classify

// Macro is a balance-sheet macro category.
type Macro string

const (
	MacroFixedAssets           Macro = "fixed_assets"
	MacroCurrentAssets         Macro = "current_assets"
	MacroCurrentLiabilities    Macro = "current_liabilities"
	MacroNonCurrentLiabilities Macro = "non_current_liabilities"
	MacroEquity                Macro = "equity"
)

// Macros lists the macro categories in presentation order.
var Macros = []Macro{
	MacroFixedAssets,
	MacroCurrentAssets,
	MacroCurrentLiabilities,
	MacroNonCurrentLiabilities,
	MacroEquity,
}

// Label returns the presentation name of the macro category.
func (m Macro) Label() string {
	switch m {
	case MacroFixedAssets:
		return "Fixed assets"
	case MacroCurrentAssets:
		return "Current assets"
	case MacroCurrentLiabilities:
		return "Current liabilities"
	case MacroNonCurrentLiabilities:
		return "Non-current liabilities"
	case MacroEquity:
		return "Equity"
	}
	return string(m)
}

// Asset reports whether the macro category sits on the assets side.
func (m Macro) Asset() bool {
	return m == MacroFixedAssets || m == MacroCurrentAssets
}

// Treatment selects the special handling a balance-sheet rule receives.
type Treatment string

const (
	TreatmentDefault                 Treatment = "default"
	TreatmentTaxDebt                 Treatment = "tax_debt"
	TreatmentAccumulatedDepreciation Treatment = "accumulated_depreciation"
	TreatmentBankDebt                Treatment = "bank_debt"
)

// Sub-categories the reclassifier and the ratio engine address by name.
const (
	SubImmediateLiquidity  = "Immediate liquidity"
	SubTradeReceivables    = "Trade receivables"
	SubOtherReceivables    = "Other receivables"
	SubTaxReceivables      = "Tax receivables"
	SubInventory           = "Inventory"
	SubTangibleFixedAssets = "Tangible fixed assets"
	SubBankDebts           = "Bank debts"
	SubMediumLongBankDebts = "Medium/long-term bank debts"
)

// BalanceRule maps an account prefix to a balance-sheet line.
type BalanceRule struct {
	Prefix    string    `yaml:"prefix" validate:"len=5,numeric"`
	Macro     Macro     `yaml:"macro" validate:"oneof=fixed_assets current_assets current_liabilities non_current_liabilities equity"`
	Sub       string    `yaml:"sub" validate:"required"`
	Treatment Treatment `yaml:"treatment,omitempty" validate:"omitempty,oneof=default tax_debt accumulated_depreciation bank_debt"`
}

// Item is an income-statement raw group.
type Item string

const (
	ItemRevenue              Item = "revenue"
	ItemPurchases            Item = "purchases"
	ItemOpeningInventory     Item = "opening_inventory"
	ItemClosingInventory     Item = "closing_inventory"
	ItemDirectLabor          Item = "direct_labor"
	ItemCommercialAdminCosts Item = "commercial_admin_costs"
	ItemProvisions           Item = "provisions"
	ItemDepreciation         Item = "depreciation"
	ItemFinancialCharges     Item = "financial_charges"
	ItemFinancialIncome      Item = "financial_income"
)

// Items lists every income-statement raw group.
var Items = []Item{
	ItemRevenue,
	ItemPurchases,
	ItemOpeningInventory,
	ItemClosingInventory,
	ItemDirectLabor,
	ItemCommercialAdminCosts,
	ItemProvisions,
	ItemDepreciation,
	ItemFinancialCharges,
	ItemFinancialIncome,
}

// Label returns the presentation name of the item.
func (i Item) Label() string {
	switch i {
	case ItemRevenue:
		return "Revenue"
	case ItemPurchases:
		return "Purchases"
	case ItemOpeningInventory:
		return "Opening inventory"
	case ItemClosingInventory:
		return "Closing inventory"
	case ItemDirectLabor:
		return "Direct labor cost"
	case ItemCommercialAdminCosts:
		return "Commercial/admin/general costs"
	case ItemProvisions:
		return "Provisions"
	case ItemDepreciation:
		return "Depreciation"
	case ItemFinancialCharges:
		return "Financial charges"
	case ItemFinancialIncome:
		return "Financial income"
	}
	return string(i)
}

// IncomeRule maps an account prefix to an income-statement raw group.
type IncomeRule struct {
	Prefix string `yaml:"prefix" validate:"len=5,numeric"`
	Item   Item   `yaml:"item" validate:"oneof=revenue purchases opening_inventory closing_inventory direct_labor commercial_admin_costs provisions depreciation financial_charges financial_income"`
}

// Document is the on-disk form of the classification tables.
type Document struct {
	Version         int           `yaml:"version" validate:"eq=1"`
	BalanceSheet    []BalanceRule `yaml:"balance_sheet" validate:"required,dive"`
	IncomeStatement []IncomeRule  `yaml:"income_statement" validate:"required,dive"`
}
