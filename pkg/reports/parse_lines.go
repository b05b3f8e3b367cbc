package reports

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/de-tools/sim-reporting/pkg/models/domain"
)

const (
	ColumnScenario = "scenario"
	ColumnGroup    = "group"
)

// LineParser reads whitespace-delimited time-series reports into a table.
type LineParser struct {
	Columns    []string
	KeepHeader bool
}

// Parse reads every file, validates its shape and returns the cleaned table
// tagged with scenario (file stem) and group. It returns ErrNoReportFiles when
// files is empty and a *ShapeError on the first malformed file.
func (p LineParser) Parse(ctx context.Context, files []*ReportFile, groupName string) (*domain.Table, error) {
	if len(files) == 0 {
		return nil, ErrNoReportFiles
	}

	table := domain.NewTable()
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := p.readRows(f)
		if err != nil {
			return nil, err
		}

		lengths := make([]int, len(rows))
		for i, fields := range rows {
			lengths[i] = len(fields)
		}
		if err := ValidateShape(f.Path, len(p.Columns), lengths); err != nil {
			return nil, err
		}

		scenario := domain.Text(Stem(f.Path))
		group := domain.Text(groupName)
		for _, fields := range rows {
			row := domain.Row{}
			for i, name := range p.Columns {
				row.Set(name, domain.ParseNumber(fields[i]))
			}
			row.Set(ColumnScenario, scenario)
			row.Set(ColumnGroup, group)
			table.AppendRow(row)
		}
	}

	return table.Clean(), nil
}

func (p LineParser) readRows(f *ReportFile) ([][]string, error) {
	var rows [][]string
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		if first && !p.KeepHeader {
			first = false
			continue
		}
		first = false
		rows = append(rows, strings.Fields(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	return rows, nil
}

// Stem returns the file name without directory and last extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
