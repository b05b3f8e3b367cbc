// Package aggregate reduces loaded report groups to the tables printed and
// exported by the commands.
package aggregate

import (
	"errors"
	"fmt"

	"github.com/de-tools/sim-reporting/pkg/models/domain"
	"github.com/de-tools/sim-reporting/pkg/reports"
)

const (
	// AllStats selects every column of the first group.
	AllStats = "all"

	IndexStat  = "stat"
	IndexGroup = "group"

	ColumnDiff    = "diff"
	ColumnRelDiff = "rel_diff"
)

// ErrTwoGroupsRequired is returned by Diff when fewer than two groups are given.
var ErrTwoGroupsRequired = errors.New("you must pass two groups when calling diff")

// Reduce applies e to every column in cols.
func Reduce(t *domain.Table, cols []string, e Estimator) []float64 {
	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = e.Apply(t.Floats(c))
	}
	return out
}

// ResolveColumns expands AllStats to the columns of the first group.
func ResolveColumns(groups []reports.Group, stats []string) []string {
	for _, s := range stats {
		if s == AllStats {
			if len(groups) == 0 {
				return nil
			}
			return groups[0].Table().Columns()
		}
	}
	return stats
}

// Diff compares the first two groups: one row per column of the first group,
// holding both estimates, their difference and the difference relative to the first.
// An empty first group yields an empty table.
func Diff(groups []reports.Group, e Estimator) (*domain.Table, error) {
	if len(groups) < 2 {
		return nil, ErrTwoGroupsRequired
	}
	a, b := groups[0], groups[1]
	if a.Name() == b.Name() {
		return nil, fmt.Errorf("cannot diff groups with the same name %q", a.Name())
	}

	out := domain.NewIndexedTable(IndexStat)
	for _, col := range a.Table().Columns() {
		va := e.Apply(a.Table().Floats(col))
		vb := e.Apply(b.Table().Floats(col))
		diff := va - vb

		row := domain.Row{Key: col}
		row.Set(a.Name(), domain.Number(va))
		row.Set(b.Name(), domain.Number(vb))
		row.Set(ColumnDiff, domain.Number(diff))
		row.Set(ColumnRelDiff, domain.Number(diff/va))
		out.AppendRow(row)
	}
	return out, nil
}

// Stats lists the selected columns. A single group is listed per scenario;
// several groups are reduced to one row per non-empty group.
func Stats(groups []reports.Group, cols []string, e Estimator) (*domain.Table, error) {
	if len(groups) == 1 {
		g := groups[0]
		if g.IsEmpty() {
			return domain.NewTable(), nil
		}
		t, err := g.Table().Select(cols...)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Name(), err)
		}
		return t, nil
	}

	out := domain.NewIndexedTable(IndexGroup)
	for _, g := range groups {
		if g.IsEmpty() {
			continue
		}
		if err := requireColumns(g, cols); err != nil {
			return nil, err
		}
		row := domain.Row{Key: g.Name()}
		for i, v := range Reduce(g.Table(), cols, e) {
			row.Set(cols[i], domain.Number(v))
		}
		out.AppendRow(row)
	}
	return out, nil
}

// Describe reports count, min, estimate and max of every column per non-empty group.
// Columns are named "<column>.<metric>".
func Describe(groups []reports.Group, cols []string, e Estimator) (*domain.Table, error) {
	out := domain.NewIndexedTable(IndexGroup)
	for _, g := range groups {
		if g.IsEmpty() {
			continue
		}
		if err := requireColumns(g, cols); err != nil {
			return nil, err
		}
		row := domain.Row{Key: g.Name()}
		for _, c := range cols {
			s := Summarize(g.Table().Floats(c), e)
			row.Set(c+".count", domain.Number(float64(s.Count)))
			row.Set(c+".min", domain.Number(s.Min))
			row.Set(c+"."+string(e), domain.Number(s.Estimate))
			row.Set(c+".max", domain.Number(s.Max))
		}
		out.AppendRow(row)
	}
	return out, nil
}

func requireColumns(g reports.Group, cols []string) error {
	for _, c := range cols {
		if !g.Table().HasColumn(c) {
			return fmt.Errorf("stat %q not found in group %q", c, g.Name())
		}
	}
	return nil
}
