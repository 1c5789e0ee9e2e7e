package compare

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/reclass/internal/analysis"
	"github.com/cleared-dev/reclass/internal/ratios"
)

// ErrTooFewDatasets is returned when fewer than two datasets are compared.
var ErrTooFewDatasets = errors.New("compare: at least two datasets are required")

// Named pairs a dataset name with its analysis.
type Named struct {
	Name     string
	Analysis *analysis.Analysis
}

// Trend is the movement of a ratio from the first to the last dataset.
type Trend string

const (
	TrendImproved  Trend = "improved"
	TrendWorsened  Trend = "worsened"
	TrendUnchanged Trend = "unchanged"
)

// Cell is one ratio value in one dataset.
type Cell struct {
	Value float64
	Level ratios.Level
}

// Row is one ratio across all datasets, in dataset order.
type Row struct {
	Ratio ratios.Name
	Cells []Cell
	Trend Trend
}

// Table aligns ratios by name: one row per ratio, one column per dataset.
type Table struct {
	Datasets []string
	Rows     []Row
}

// Row returns the row of a ratio.
func (t Table) Row(name ratios.Name) (Row, bool) {
	for _, r := range t.Rows {
		if r.Ratio == name {
			return r, true
		}
	}
	return Row{}, false
}

// Build aligns the ratio sets of the given analyses.
func Build(items []Named) (Table, error) {
	if len(items) < 2 {
		return Table{}, ErrTooFewDatasets
	}

	t := Table{Datasets: make([]string, len(items))}
	for i, it := range items {
		if it.Analysis == nil {
			return Table{}, fmt.Errorf("compare: dataset %q has no analysis", it.Name)
		}
		t.Datasets[i] = it.Name
	}

	for _, name := range ratios.Names {
		row := Row{Ratio: name, Cells: make([]Cell, len(items))}
		for i, it := range items {
			r, _ := it.Analysis.Ratios.Get(name)
			row.Cells[i] = Cell{Value: r.Value, Level: r.Level}
		}
		row.Trend = trend(name, row.Cells[0].Value, row.Cells[len(row.Cells)-1].Value)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func trend(name ratios.Name, first, last float64) Trend {
	switch {
	case first == last:
		return TrendUnchanged
	case (last < first) == name.LowerIsBetter():
		return TrendImproved
	default:
		return TrendWorsened
	}
}
