package income

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reclass/internal/classify"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/quadrature"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rec(code string, section model.Section, amount string) model.AccountRecord {
	return model.AccountRecord{
		AccountCode:        code,
		AccountDescription: "account " + code,
		Section:            section,
		Amount:             dec(amount),
		AccountType:        model.AccountTypeGeneral,
	}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, dec(want).String(), got.String(), msgAndArgs...)
}

func TestCascade(t *testing.T) {
	st := Cascade(Groups{
		classify.ItemRevenue:              dec("1000"),
		classify.ItemOpeningInventory:     dec("50"),
		classify.ItemClosingInventory:     dec("80"),
		classify.ItemPurchases:            dec("400"),
		classify.ItemDirectLabor:          dec("100"),
		classify.ItemCommercialAdminCosts: dec("150"),
		classify.ItemDepreciation:         dec("60"),
		classify.ItemProvisions:           dec("10"),
		classify.ItemFinancialCharges:     dec("20"),
		classify.ItemFinancialIncome:      dec("5"),
	}, quadrature.Result{})

	assertDec(t, "30", st.VarInventory())
	assertDec(t, "1030", st.ProductionValue())
	assertDec(t, "500", st.CostOfGoodsSold())
	assertDec(t, "530", st.IndustrialMargin())
	assertDec(t, "380", st.Ebitda())
	assertDec(t, "310", st.Ebit())
	assertDec(t, "-15", st.FinancialBalance())
	assertDec(t, "295", st.PreTaxResult())
}

func TestCascadeMissingGroupsAreZero(t *testing.T) {
	st := Cascade(Groups{classify.ItemRevenue: dec("10")}, quadrature.Result{})

	assertDec(t, "10", st.ProductionValue())
	assertDec(t, "0", st.CostOfGoodsSold())
	assertDec(t, "10", st.PreTaxResult())
}

func TestCascadeCopiesGroups(t *testing.T) {
	groups := Groups{classify.ItemRevenue: dec("10")}
	st := Cascade(groups, quadrature.Result{})
	groups[classify.ItemRevenue] = dec("99")
	assertDec(t, "10", st.Revenue())
}

func TestReclassifySigns(t *testing.T) {
	records := []model.AccountRecord{
		rec("0401000001", model.SectionRevenue, "1000"),
		rec("0403000001", model.SectionRevenue, "200"),
		rec("0301000001", model.SectionCost, "400"),
		rec("0302000001", model.SectionCost, "50"),
		rec("0408000001", model.SectionRevenue, "80"),
		rec("0402000001", model.SectionRevenue, "5"),
		rec("0308000001", model.SectionCost, "20"),
	}

	st := Reclassify(records, classify.Default())

	assertDec(t, "1200", st.Revenue())
	assertDec(t, "-400", st.Purchases(), "cost-section amounts are negated")
	assertDec(t, "-50", st.OpeningInventory())
	assertDec(t, "80", st.ClosingInventory())
	assertDec(t, "5", st.FinancialIncome())
	assertDec(t, "-20", st.FinancialCharges())

	assertDec(t, "1285", st.Closure.Revenues)
	assertDec(t, "470", st.Closure.Costs)
	assertDec(t, "815", st.NetIncomeFromClosure())
}

func TestReclassifyNegatesAnyNonRevenueSection(t *testing.T) {
	// Section drives the sign, not the prefix.
	records := []model.AccountRecord{
		rec("0401000001", model.SectionAsset, "100"),
	}
	st := Reclassify(records, classify.Default())
	assertDec(t, "-100", st.Revenue())
}

func TestClosureGapIsSurfaced(t *testing.T) {
	records := []model.AccountRecord{
		rec("0401000001", model.SectionRevenue, "1000"),
		rec("0301000001", model.SectionCost, "-400"),
		// Income taxes: no income-statement rule.
		rec("0399900001", model.SectionCost, "90"),
	}

	st := Reclassify(records, classify.Default())

	assertDec(t, "600", st.PreTaxResult())
	assertDec(t, "1310", st.NetIncomeFromClosure())
	assertDec(t, "710", st.ClosureGap())
	require.Len(t, st.Unclassified, 1)
	assert.Equal(t, "0399900001", st.Unclassified[0].AccountCode)
}

func TestUnclassifiedIgnoresBalanceSheetRecords(t *testing.T) {
	records := []model.AccountRecord{
		rec("0101000001", model.SectionAsset, "100"),
		rec("0999900001", model.SectionLiability, "100"),
	}
	st := Reclassify(records, classify.Default())
	assert.Empty(t, st.Unclassified)
}

func TestSources(t *testing.T) {
	records := []model.AccountRecord{
		rec("0301000001", model.SectionCost, "300"),
		rec("0301500001", model.SectionCost, "100"),
	}
	st := Reclassify(records, classify.Default())

	sources := st.Sources[classify.ItemPurchases]
	require.Len(t, sources, 2)
	assertDec(t, "300", sources[0].Original)
	assertDec(t, "-300", sources[0].Signed)
	assert.Equal(t, "0301500001", sources[1].AccountCode)
}

func TestLinesOrderAndFlags(t *testing.T) {
	st := Cascade(Groups{
		classify.ItemRevenue:   dec("1000"),
		classify.ItemPurchases: dec("400"),
	}, quadrature.Result{Revenues: dec("1000"), Costs: dec("400")})

	lines := st.Lines()
	require.NotEmpty(t, lines)
	assert.Equal(t, LineRevenue, lines[0].Key)
	assert.False(t, lines[0].Derived)
	assert.Equal(t, LineNetIncomeFromClosure, lines[len(lines)-1].Key)
	assert.True(t, lines[len(lines)-1].Derived)

	assertDec(t, "600", st.Amount(LineIndustrialMargin))
	assertDec(t, "600", st.Amount(LineNetIncomeFromClosure))
	assertDec(t, "0", st.Amount(LineKey("unknown")))

	seen := make(map[LineKey]bool)
	for _, l := range lines {
		assert.False(t, seen[l.Key], "duplicate line %s", l.Key)
		seen[l.Key] = true
		assert.NotEmpty(t, l.Label)
	}
}

func TestReclassifyIsIdempotent(t *testing.T) {
	records := []model.AccountRecord{
		rec("0401000001", model.SectionRevenue, "1000"),
		rec("0301000001", model.SectionCost, "400"),
		rec("0399900001", model.SectionCost, "90"),
	}
	tables := classify.Default()
	assert.Equal(t, Reclassify(records, tables), Reclassify(records, tables))
}
