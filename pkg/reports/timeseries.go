package reports

import (
	"context"

	"github.com/de-tools/sim-reporting/pkg/models/domain"
)

const (
	ColumnHours     = "hours"
	secondsPerHour  = 3600.0
	wrongGlobReason = "This might be caused by glob patterns that include wrong report files"
)

// timeSeriesLoader loads line-oriented reports, checks the key column survived
// cleaning and derives hours from it. Reports without data rows load as an empty table.
type timeSeriesLoader struct {
	kind     Kind
	parser   LineParser
	required string
	hint     string
}

func (l timeSeriesLoader) Kind() Kind {
	return l.kind
}

func (l timeSeriesLoader) Load(ctx context.Context, files []*ReportFile, groupName string) (*domain.Table, error) {
	table, err := l.parser.Parse(ctx, files, groupName)
	if err != nil {
		return nil, err
	}

	if table.Len() == 0 {
		return domain.NewTable(), nil
	}
	if !table.HasColumn(l.required) {
		return nil, &MissingColumnError{Column: l.required, Hint: l.hint}
	}

	if err := table.DeriveColumn(ColumnHours, l.required, func(s float64) float64 {
		return s / secondsPerHour
	}); err != nil {
		return nil, err
	}
	return table, nil
}
