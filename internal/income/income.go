package income

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/classify"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/quadrature"
)

// Groups holds the signed raw sums per income-statement item.
type Groups map[classify.Item]decimal.Decimal

// Get returns the group amount, zero when the group was never fed.
func (g Groups) Get(item classify.Item) decimal.Decimal {
	if v, ok := g[item]; ok {
		return v
	}
	return decimal.Zero
}

// Contribution is the signed amount one record added to a raw group.
type Contribution struct {
	AccountCode string
	Description string
	Original    decimal.Decimal
	Signed      decimal.Decimal
}

// Statement is the income statement in cost-of-goods-sold format. Only the
// raw groups and the section totals are stored; every subtotal is computed
// from them on demand.
type Statement struct {
	Groups Groups
	// Closure carries the raw section totals behind NetIncomeFromClosure.
	Closure quadrature.Result
	Sources map[classify.Item][]Contribution
	// Unclassified lists revenue and cost records whose prefix has no
	// income-statement rule.
	Unclassified []model.AccountRecord
}

// Reclassify groups classified records into raw items. Revenue-section
// amounts keep their sign, every other section is negated.
func Reclassify(records []model.AccountRecord, tables *classify.Tables) Statement {
	st := Statement{
		Groups:  make(Groups, len(classify.Items)),
		Closure: quadrature.Check(records),
		Sources: make(map[classify.Item][]Contribution),
	}
	for _, item := range classify.Items {
		st.Groups[item] = decimal.Zero
	}

	for _, rec := range records {
		rule, ok := tables.Income(rec.AccountCode)
		if !ok {
			if rec.Section.IncomeStatement() {
				st.Unclassified = append(st.Unclassified, rec)
			}
			continue
		}
		signed := rec.Amount
		if rec.Section != model.SectionRevenue {
			signed = signed.Neg()
		}
		st.Groups[rule.Item] = st.Groups.Get(rule.Item).Add(signed)
		st.Sources[rule.Item] = append(st.Sources[rule.Item], Contribution{
			AccountCode: rec.AccountCode,
			Description: rec.AccountDescription,
			Original:    rec.Amount,
			Signed:      signed,
		})
	}
	return st
}

// Cascade builds a statement straight from raw groups and section totals.
func Cascade(groups Groups, closure quadrature.Result) Statement {
	g := make(Groups, len(groups))
	for k, v := range groups {
		g[k] = v
	}
	return Statement{Groups: g, Closure: closure}
}

func (s Statement) Revenue() decimal.Decimal          { return s.Groups.Get(classify.ItemRevenue) }
func (s Statement) OpeningInventory() decimal.Decimal { return s.Groups.Get(classify.ItemOpeningInventory) }
func (s Statement) ClosingInventory() decimal.Decimal { return s.Groups.Get(classify.ItemClosingInventory) }
func (s Statement) Purchases() decimal.Decimal        { return s.Groups.Get(classify.ItemPurchases) }
func (s Statement) DirectLaborCost() decimal.Decimal  { return s.Groups.Get(classify.ItemDirectLabor) }
func (s Statement) CommercialAdminCosts() decimal.Decimal {
	return s.Groups.Get(classify.ItemCommercialAdminCosts)
}
func (s Statement) Depreciation() decimal.Decimal     { return s.Groups.Get(classify.ItemDepreciation) }
func (s Statement) Provisions() decimal.Decimal       { return s.Groups.Get(classify.ItemProvisions) }
func (s Statement) FinancialCharges() decimal.Decimal { return s.Groups.Get(classify.ItemFinancialCharges) }
func (s Statement) FinancialIncome() decimal.Decimal  { return s.Groups.Get(classify.ItemFinancialIncome) }

// VarInventory = closing − opening inventory.
func (s Statement) VarInventory() decimal.Decimal {
	return s.ClosingInventory().Sub(s.OpeningInventory())
}

// ProductionValue = revenue + inventory change.
func (s Statement) ProductionValue() decimal.Decimal {
	return s.Revenue().Add(s.VarInventory())
}

// CostOfGoodsSold = purchases + direct labor.
func (s Statement) CostOfGoodsSold() decimal.Decimal {
	return s.Purchases().Add(s.DirectLaborCost())
}

// IndustrialMargin = production value − cost of goods sold.
func (s Statement) IndustrialMargin() decimal.Decimal {
	return s.ProductionValue().Sub(s.CostOfGoodsSold())
}

// Ebitda = industrial margin − commercial/admin/general costs.
func (s Statement) Ebitda() decimal.Decimal {
	return s.IndustrialMargin().Sub(s.CommercialAdminCosts())
}

// Ebit = EBITDA − depreciation − provisions.
func (s Statement) Ebit() decimal.Decimal {
	return s.Ebitda().Sub(s.Depreciation()).Sub(s.Provisions())
}

// FinancialBalance = financial income − financial charges.
func (s Statement) FinancialBalance() decimal.Decimal {
	return s.FinancialIncome().Sub(s.FinancialCharges())
}

// PreTaxResult = EBIT + financial balance.
func (s Statement) PreTaxResult() decimal.Decimal {
	return s.Ebit().Add(s.FinancialBalance())
}

// NetIncomeFromClosure is revenue-section total minus cost-section total,
// independent of the classification tables.
func (s Statement) NetIncomeFromClosure() decimal.Decimal {
	return s.Closure.ProfitLoss()
}

// ClosureGap is NetIncomeFromClosure − PreTaxResult. A non-zero gap points
// at unclassified accounts or unmodelled items such as taxes.
func (s Statement) ClosureGap() decimal.Decimal {
	return s.NetIncomeFromClosure().Sub(s.PreTaxResult())
}
