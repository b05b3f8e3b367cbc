package reports

import (
	"context"

	"github.com/de-tools/sim-reporting/pkg/models/domain"
)

type statsLoader struct {
	parser KeyValueParser
}

// StatsLoader parses MessageStatsReport files. Stats tables are not cleaned:
// optional keys missing from some scenarios stay as missing cells.
func StatsLoader() Loader {
	return statsLoader{}
}

func (statsLoader) Kind() Kind {
	return KindStats
}

func (l statsLoader) Load(ctx context.Context, files []*ReportFile, _ string) (*domain.Table, error) {
	return l.parser.Parse(ctx, files)
}

// NewStatsGroup loads the MessageStatsReport files selected by spec.
func NewStatsGroup(ctx context.Context, spec Spec, resolver *Resolver) (*ReportGroup, error) {
	return NewGroup(ctx, StatsLoader(), spec, resolver)
}
