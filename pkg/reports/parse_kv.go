package reports

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/de-tools/sim-reporting/pkg/models/domain"
)

// KeyValueParser reads stats reports: a header line ending in the scenario
// name followed by "key: value" lines. Each file becomes one row.
type KeyValueParser struct{}

// Parse returns a table indexed by scenario and sorted by it. Values that are
// not numeric become missing cells. It returns ErrNoReportFiles when files is empty.
func (KeyValueParser) Parse(ctx context.Context, files []*ReportFile) (*domain.Table, error) {
	if len(files) == 0 {
		return nil, ErrNoReportFiles
	}

	table := domain.NewIndexedTable(ColumnScenario)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := readKeyValues(f)
		if err != nil {
			return nil, err
		}
		table.AppendRow(row)
	}

	return table.SortByIndex(), nil
}

func readKeyValues(f *ReportFile) (domain.Row, error) {
	row := domain.Row{}
	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		if tokens := strings.Fields(scanner.Text()); len(tokens) > 0 {
			row.Key = tokens[len(tokens)-1]
		}
	}
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), ":")
		if !found {
			continue
		}
		row.Set(strings.TrimSpace(key), domain.ParseNumber(value))
	}
	if err := scanner.Err(); err != nil {
		return domain.Row{}, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	return row, nil
}
