package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/analysis"
	"github.com/cleared-dev/reclass/internal/compare"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/quadrature"
	"github.com/cleared-dev/reclass/internal/ratios"
)

// Options controls the Markdown report.
type Options struct {
	Currency string
	// GeneratedAt is printed under the title unless zero.
	GeneratedAt time.Time
	Commentary  bool
	// ShowEmpty keeps balance-sheet lines no record contributed to.
	ShowEmpty bool
	Tolerance decimal.Decimal
}

func (o Options) currency() string {
	if o.Currency == "" {
		return DefaultCurrency
	}
	return o.Currency
}

func (o Options) tolerance() decimal.Decimal {
	if o.Tolerance.IsZero() {
		return quadrature.DefaultTolerance
	}
	return o.Tolerance
}

// Markdown renders the full analysis of one dataset.
func Markdown(name string, a *analysis.Analysis, opts Options) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Financial analysis: %s", name))
	if !opts.GeneratedAt.IsZero() {
		doc.PlainText(fmt.Sprintf("Generated %s", opts.GeneratedAt.Format("2006-01-02 15:04")))
	}

	doc.H2("KPI summary")
	doc.Table(ratioTable(a.Ratios))

	doc.H2("Quadrature")
	writeQuadrature(doc, a.Quadrature, opts)

	doc.H2("Reclassified balance sheet")
	doc.Table(balanceTable(a, opts))

	doc.H2("Income statement (cost of goods sold)")
	doc.Table(incomeTable(a, opts))

	if notes := diagnosticNotes(a, opts); len(notes) > 0 {
		doc.H2("Diagnostics")
		doc.BulletList(notes...)
	}

	if opts.Commentary {
		doc.H2("Commentary")
		var items []string
		for _, c := range Commentary(a.Ratios) {
			items = append(items, fmt.Sprintf("%s %s: %s", c.Level.Symbol(), md.Bold(string(c.Area)), c.Text))
		}
		doc.BulletList(items...)
	}

	return doc.String()
}

// QuadratureMarkdown renders the closure check of one dataset.
func QuadratureMarkdown(name string, q quadrature.Result, opts Options) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2(fmt.Sprintf("Quadrature: %s", name))
	writeQuadrature(doc, q, opts)
	return doc.String()
}

// CompareMarkdown renders a cross-dataset ratio table.
func CompareMarkdown(t compare.Table) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Ratio comparison")

	align := []md.TableAlignment{md.AlignLeft}
	header := []string{"Ratio"}
	for _, name := range t.Datasets {
		align = append(align, md.AlignRight)
		header = append(header, name)
	}
	align = append(align, md.AlignLeft)
	header = append(header, "Trend")

	table := md.TableSet{Alignment: align, Header: header, Rows: [][]string{}}
	for _, row := range t.Rows {
		cells := []string{row.Ratio.Label()}
		for _, c := range row.Cells {
			cells = append(cells, fmt.Sprintf("%s %s", FormatRatio(c.Value), c.Level.Symbol()))
		}
		cells = append(cells, string(row.Trend))
		table.Rows = append(table.Rows, cells)
	}
	doc.Table(table)
	return doc.String()
}

func ratioTable(set ratios.Set) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignLeft, md.AlignRight},
		Header:    []string{"Ratio", "Value", "Indicator", "Green / yellow"},
		Rows:      [][]string{},
	}
	for _, r := range set.Ratios {
		table.Rows = append(table.Rows, []string{
			r.Name.Label(),
			FormatRatio(r.Value),
			fmt.Sprintf("%s %s", r.Level.Symbol(), r.Level),
			fmt.Sprintf("%s / %s", FormatRatio(r.Threshold.Green), FormatRatio(r.Threshold.Yellow)),
		})
	}
	return table
}

func writeQuadrature(doc *md.Markdown, q quadrature.Result, opts Options) {
	cur := opts.currency()
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Check", "Amount"},
		Rows: [][]string{
			{"Total assets (A)", FormatAmount(q.Assets, cur)},
			{"Total liabilities (P)", FormatAmount(q.Liabilities, cur)},
			{md.Bold("Balance-sheet difference"), md.Bold(FormatAmount(q.Difference(), cur))},
			{"Total revenues (R)", FormatAmount(q.Revenues, cur)},
			{"Total costs (C)", FormatAmount(q.Costs, cur)},
			{md.Bold("Profit/loss"), md.Bold(FormatAmount(q.ProfitLoss(), cur))},
		},
	})
	if q.BalancedWithin(opts.tolerance()) {
		doc.PlainText("✅ Balance sheet closes within tolerance.")
	} else {
		doc.PlainText(fmt.Sprintf("❌ Balance sheet does not close: difference %s.", FormatAmount(q.Difference(), cur)))
	}
}

func balanceTable(a *analysis.Analysis, opts Options) md.TableSet {
	cur := opts.currency()
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"Macro category", "Sub-category", "Amount"},
		Rows:      [][]string{},
	}
	for _, sec := range a.Balance.Sections {
		for _, l := range sec.Lines {
			if !opts.ShowEmpty && len(l.Sources) == 0 {
				continue
			}
			table.Rows = append(table.Rows, []string{sec.Macro.Label(), l.Sub, FormatAmount(l.Amount, cur)})
		}
		table.Rows = append(table.Rows, []string{md.Bold(sec.Macro.Label()), md.Bold("Total"), md.Bold(FormatAmount(sec.Total(), cur))})
	}
	table.Rows = append(table.Rows,
		[]string{md.Bold("Total assets"), "", md.Bold(FormatAmount(a.Balance.TotalAssets(), cur))},
		[]string{md.Bold("Total liabilities and equity"), "", md.Bold(FormatAmount(a.Balance.TotalLiabilitiesAndEquity(), cur))},
	)
	return table
}

func incomeTable(a *analysis.Analysis, opts Options) md.TableSet {
	cur := opts.currency()
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Line", "Amount"},
		Rows:      [][]string{},
	}
	for _, l := range a.Income.Lines() {
		label, amount := l.Label, FormatAmount(l.Amount, cur)
		if l.Derived {
			label, amount = md.Bold(label), md.Bold(amount)
		}
		table.Rows = append(table.Rows, []string{label, amount})
	}
	return table
}

func diagnosticNotes(a *analysis.Analysis, opts Options) []string {
	cur := opts.currency()
	d := a.Diagnostics
	var notes []string
	if d.CoercedAmounts > 0 {
		notes = append(notes, fmt.Sprintf("%d amount(s) were not numeric and were read as zero.", d.CoercedAmounts))
	}
	if len(d.UnclassifiedBalance) > 0 {
		notes = append(notes, fmt.Sprintf("%d balance-sheet account(s) have no classification rule: %s.",
			len(d.UnclassifiedBalance), accountCodes(d.UnclassifiedBalance)))
	}
	if len(d.UnclassifiedIncome) > 0 {
		notes = append(notes, fmt.Sprintf("%d income-statement account(s) have no classification rule: %s.",
			len(d.UnclassifiedIncome), accountCodes(d.UnclassifiedIncome)))
	}
	if !a.Balance.DepreciationNetted {
		notes = append(notes, fmt.Sprintf("Accumulated depreciation of %s was not netted: no tangible fixed assets.",
			FormatAmount(a.Balance.AccumulatedDepreciation, cur)))
	}
	if d.MaterialGap {
		notes = append(notes, fmt.Sprintf("Net income from closure differs from the pre-tax result by %s.",
			FormatAmount(d.ClosureGap, cur)))
	}
	return notes
}

// accountCodes lists up to five account codes, then a count of the rest.
func accountCodes(records []model.AccountRecord) string {
	const limit = 5
	codes := make([]string, 0, limit+1)
	for i, r := range records {
		if i == limit {
			codes = append(codes, fmt.Sprintf("and %d more", len(records)-limit))
			break
		}
		codes = append(codes, r.AccountCode)
	}
	return strings.Join(codes, ", ")
}
