package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefix(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"0101000001", "01010"},
		{"01010", "01010"},
		{"0101", "0101"},
		{"  0202000012 ", "02020"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Prefix(tt.code), "Prefix(%q)", tt.code)
	}
}

func TestDefaultBalanceRules(t *testing.T) {
	tables := Default()

	tests := []struct {
		code      string
		macro     Macro
		sub       string
		treatment Treatment
	}{
		{"0101000001", MacroCurrentAssets, SubImmediateLiquidity, TreatmentDefault},
		{"0102500001", MacroFixedAssets, "Financial fixed assets", TreatmentDefault},
		{"0104000007", MacroCurrentAssets, SubTradeReceivables, TreatmentDefault},
		{"0106100001", MacroCurrentAssets, SubInventory, TreatmentDefault},
		{"0107000001", MacroFixedAssets, SubTangibleFixedAssets, TreatmentDefault},
		{"0202000001", MacroCurrentLiabilities, "Tax payables", TreatmentTaxDebt},
		{"0203000001", MacroCurrentLiabilities, SubBankDebts, TreatmentBankDebt},
		{"0204000001", MacroCurrentLiabilities, SubBankDebts, TreatmentBankDebt},
		{"0208000001", MacroCurrentLiabilities, "Tax payables", TreatmentDefault},
		{"0211000001", MacroFixedAssets, "Accumulated depreciation", TreatmentAccumulatedDepreciation},
		{"0212000001", MacroNonCurrentLiabilities, "Employee severance fund", TreatmentDefault},
		{"0220000001", MacroEquity, "Share capital and reserves", TreatmentDefault},
	}
	for _, tt := range tests {
		r, ok := tables.Balance(tt.code)
		require.True(t, ok, "code %s should be classified", tt.code)
		assert.Equal(t, tt.macro, r.Macro, "macro for %s", tt.code)
		assert.Equal(t, tt.sub, r.Sub, "sub for %s", tt.code)
		assert.Equal(t, tt.treatment, r.Treatment, "treatment for %s", tt.code)
	}

	assert.Len(t, tables.Document().BalanceSheet, 26)
}

func TestDefaultIncomeRules(t *testing.T) {
	tables := Default()

	tests := []struct {
		code string
		item Item
	}{
		{"0401000001", ItemRevenue},
		{"0403000001", ItemRevenue},
		{"0301500001", ItemPurchases},
		{"0302000001", ItemOpeningInventory},
		{"0408000001", ItemClosingInventory},
		{"0306000001", ItemDirectLabor},
		{"0306100001", ItemCommercialAdminCosts},
		{"0310000001", ItemCommercialAdminCosts},
		{"0307500001", ItemProvisions},
		{"0307000001", ItemDepreciation},
		{"0309000001", ItemFinancialCharges},
		{"0402000001", ItemFinancialIncome},
	}
	for _, tt := range tests {
		r, ok := tables.Income(tt.code)
		require.True(t, ok, "code %s should be classified", tt.code)
		assert.Equal(t, tt.item, r.Item, "item for %s", tt.code)
	}

	assert.Len(t, tables.Document().IncomeStatement, 20)
}

func TestUnclassifiedPrefix(t *testing.T) {
	tables := Default()

	_, ok := tables.Balance("0999900001")
	assert.False(t, ok)
	_, ok = tables.Income("0101000001")
	assert.False(t, ok, "balance-sheet prefixes are not income rules")
	_, ok = tables.Balance("0101")
	assert.False(t, ok, "short codes never match a five-character prefix")
}

func TestSubCategoriesIncludeSyntheticLines(t *testing.T) {
	tables := Default()

	assert.Equal(t, []string{
		"Financial fixed assets",
		SubTangibleFixedAssets,
		"Intangible fixed assets",
	}, tables.SubCategories(MacroFixedAssets), "accumulated depreciation is never a line")

	assert.Contains(t, tables.SubCategories(MacroCurrentAssets), SubTaxReceivables)
	assert.Contains(t, tables.SubCategories(MacroCurrentLiabilities), SubBankDebts)
	assert.Equal(t, []string{
		"Provisions for risks and charges",
		SubMediumLongBankDebts,
		"Employee severance fund",
	}, tables.SubCategories(MacroNonCurrentLiabilities))
}

func TestSubCategoriesReturnsCopy(t *testing.T) {
	tables := Default()
	subs := tables.SubCategories(MacroEquity)
	require.NotEmpty(t, subs)
	subs[0] = "mutated"
	assert.NotEqual(t, "mutated", tables.SubCategories(MacroEquity)[0])
}

func TestParseRejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"short prefix", `version: 1
balance_sheet:
  - {prefix: "0101", macro: current_assets, sub: Cash}
income_statement:
  - {prefix: "04010", item: revenue}
`},
		{"unknown macro", `version: 1
balance_sheet:
  - {prefix: "01010", macro: goodwill, sub: Cash}
income_statement:
  - {prefix: "04010", item: revenue}
`},
		{"unknown treatment", `version: 1
balance_sheet:
  - {prefix: "01010", macro: current_assets, sub: Cash, treatment: magic}
income_statement:
  - {prefix: "04010", item: revenue}
`},
		{"unknown item", `version: 1
balance_sheet:
  - {prefix: "01010", macro: current_assets, sub: Cash}
income_statement:
  - {prefix: "04010", item: taxes}
`},
		{"wrong version", `version: 2
balance_sheet:
  - {prefix: "01010", macro: current_assets, sub: Cash}
income_statement:
  - {prefix: "04010", item: revenue}
`},
		{"not yaml", `version: [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestParseRejectsDuplicatePrefix(t *testing.T) {
	doc := `version: 1
balance_sheet:
  - {prefix: "01010", macro: current_assets, sub: Cash}
  - {prefix: "01010", macro: current_assets, sub: Bank}
income_statement:
  - {prefix: "04010", item: revenue}
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "01010", verr.Prefix)
}

func TestLoadCustomRules(t *testing.T) {
	doc := `version: 1
balance_sheet:
  - {prefix: "10000", macro: current_assets, sub: Cash}
  - {prefix: "20000", macro: equity, sub: Capital}
income_statement:
  - {prefix: "40000", item: revenue}
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	tables, err := Load(path)
	require.NoError(t, err)

	r, ok := tables.Balance("1000012")
	require.True(t, ok)
	assert.Equal(t, "Cash", r.Sub)
	assert.Equal(t, TreatmentDefault, r.Treatment, "missing treatment means default")

	_, ok = tables.Balance("0101000001")
	assert.False(t, ok, "custom tables replace the defaults")
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultYAMLRoundTrip(t *testing.T) {
	tables, err := Parse(DefaultYAML())
	require.NoError(t, err)
	assert.Equal(t, Default().Document(), tables.Document())
}

func TestMacroAsset(t *testing.T) {
	assert.True(t, MacroFixedAssets.Asset())
	assert.True(t, MacroCurrentAssets.Asset())
	assert.False(t, MacroCurrentLiabilities.Asset())
	assert.False(t, MacroNonCurrentLiabilities.Asset())
	assert.False(t, MacroEquity.Asset())
}
