package report

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/analysis"
	"github.com/cleared-dev/reclass/internal/classify"
	"github.com/cleared-dev/reclass/internal/income"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/ratios"
)

// Document is the JSON form of one analysis.
type Document struct {
	Name            string          `json:"name"`
	Currency        string          `json:"currency"`
	Quadrature      QuadratureDoc   `json:"quadrature"`
	BalanceSheet    []SectionDoc    `json:"balance_sheet"`
	IncomeStatement []IncomeLineDoc `json:"income_statement"`
	Ratios          []RatioDoc      `json:"ratios"`
	Diagnostics     DiagnosticsDoc  `json:"diagnostics"`
}

type QuadratureDoc struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	Difference  decimal.Decimal `json:"difference"`
	Revenues    decimal.Decimal `json:"revenues"`
	Costs       decimal.Decimal `json:"costs"`
	ProfitLoss  decimal.Decimal `json:"profit_loss"`
	Balanced    bool            `json:"balanced"`
}

type SectionDoc struct {
	Macro classify.Macro  `json:"macro"`
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
	Lines []LineDoc       `json:"lines"`
}

type LineDoc struct {
	Sub      string          `json:"sub"`
	Amount   decimal.Decimal `json:"amount"`
	Accounts []string        `json:"accounts"`
}

type IncomeLineDoc struct {
	Key     income.LineKey  `json:"key"`
	Label   string          `json:"label"`
	Amount  decimal.Decimal `json:"amount"`
	Derived bool            `json:"derived"`
}

// RatioDoc carries an unbounded ratio as a null value with Infinite set,
// since JSON has no infinity.
type RatioDoc struct {
	Name     ratios.Name  `json:"name"`
	Label    string       `json:"label"`
	Value    *float64     `json:"value"`
	Infinite bool         `json:"infinite,omitempty"`
	Level    ratios.Level `json:"level"`
	Green    float64      `json:"green"`
	Yellow   float64      `json:"yellow"`
}

type DiagnosticsDoc struct {
	UnclassifiedBalance []string        `json:"unclassified_balance"`
	UnclassifiedIncome  []string        `json:"unclassified_income"`
	CoercedAmounts      int             `json:"coerced_amounts"`
	ClosureGap          decimal.Decimal `json:"closure_gap"`
	MaterialGap         bool            `json:"material_gap"`
	DepreciationNetted  bool            `json:"depreciation_netted"`
}

// NewDocument converts an analysis into its JSON form.
func NewDocument(name, currency string, a *analysis.Analysis) Document {
	if currency == "" {
		currency = DefaultCurrency
	}
	q := a.Quadrature
	doc := Document{
		Name:     name,
		Currency: currency,
		Quadrature: QuadratureDoc{
			Assets:      q.Assets,
			Liabilities: q.Liabilities,
			Difference:  q.Difference(),
			Revenues:    q.Revenues,
			Costs:       q.Costs,
			ProfitLoss:  q.ProfitLoss(),
			Balanced:    a.Diagnostics.Balanced,
		},
		BalanceSheet:    []SectionDoc{},
		IncomeStatement: []IncomeLineDoc{},
		Ratios:          []RatioDoc{},
		Diagnostics: DiagnosticsDoc{
			UnclassifiedBalance: codes(a.Diagnostics.UnclassifiedBalance),
			UnclassifiedIncome:  codes(a.Diagnostics.UnclassifiedIncome),
			CoercedAmounts:      a.Diagnostics.CoercedAmounts,
			ClosureGap:          a.Diagnostics.ClosureGap,
			MaterialGap:         a.Diagnostics.MaterialGap,
			DepreciationNetted:  a.Balance.DepreciationNetted,
		},
	}

	for _, sec := range a.Balance.Sections {
		sd := SectionDoc{Macro: sec.Macro, Label: sec.Macro.Label(), Total: sec.Total(), Lines: []LineDoc{}}
		for _, l := range sec.Lines {
			accounts := make([]string, 0, len(l.Sources))
			for _, src := range l.Sources {
				accounts = append(accounts, src.AccountCode)
			}
			sd.Lines = append(sd.Lines, LineDoc{Sub: l.Sub, Amount: l.Amount, Accounts: accounts})
		}
		doc.BalanceSheet = append(doc.BalanceSheet, sd)
	}

	for _, l := range a.Income.Lines() {
		doc.IncomeStatement = append(doc.IncomeStatement, IncomeLineDoc{
			Key: l.Key, Label: l.Label, Amount: l.Amount, Derived: l.Derived,
		})
	}

	for _, r := range a.Ratios.Ratios {
		rd := RatioDoc{
			Name:   r.Name,
			Label:  r.Name.Label(),
			Level:  r.Level,
			Green:  r.Threshold.Green,
			Yellow: r.Threshold.Yellow,
		}
		if math.IsInf(r.Value, 0) || math.IsNaN(r.Value) {
			rd.Infinite = math.IsInf(r.Value, 0)
		} else {
			v := r.Value
			rd.Value = &v
		}
		doc.Ratios = append(doc.Ratios, rd)
	}
	return doc
}

// JSON renders an analysis as indented JSON.
func JSON(name, currency string, a *analysis.Analysis) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(name, currency, a), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding analysis: %w", err)
	}
	return data, nil
}

func codes(records []model.AccountRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.AccountCode)
	}
	return out
}
