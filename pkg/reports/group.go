package reports

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/sim-reporting/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Kind identifies a report type.
type Kind string

const (
	KindDelay    Kind = "delay"
	KindDelivery Kind = "delivery"
	KindStats    Kind = "stats"
)

// Spec selects the report files of one group.
type Spec struct {
	Pattern string // glob pattern, relative to BaseDir
	Name    string // label used in joins, tables and legends
	BaseDir string
}

// Group is what commands consume from a loaded report group.
type Group interface {
	Name() string
	IsEmpty() bool
	Table() *domain.Table
}

// Loader turns the opened files of a group into its table. Each report kind has one.
type Loader interface {
	Kind() Kind
	Load(ctx context.Context, files []*ReportFile, groupName string) (*domain.Table, error)
}

// ReportGroup is a set of report files matched by one pattern and loaded into one table.
// Loading happens in NewGroup; afterwards the group is read-only unless the caller
// replaces the table with SetTable.
type ReportGroup struct {
	spec  Spec
	kind  Kind
	table *domain.Table
}

// NewGroup resolves, opens, parses, validates and cleans the files selected by spec.
// A pattern without readable matches yields an empty group and a warning. Malformed
// report data is returned as an error.
func NewGroup(ctx context.Context, loader Loader, spec Spec, resolver *Resolver) (*ReportGroup, error) {
	if resolver == nil {
		resolver = NewResolver(nil)
	}

	g := &ReportGroup{
		spec:  spec,
		kind:  loader.Kind(),
		table: domain.NewTable(),
	}
	opened, err := g.load(ctx, loader, resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s report group %q: %w", g.kind, spec.Name, err)
	}

	if g.IsEmpty() {
		event := zerolog.Ctx(ctx).Warn().
			Str("group", spec.Name).
			Str("pattern", spec.Pattern).
			Str("reports_dir", spec.BaseDir)
		if opened > 0 {
			event.Msgf("%s dataframe is empty. Report files matching glob '%s' hold no data rows", spec.Name, spec.Pattern)
		} else {
			event.Msgf("%s dataframe is empty. No report files match glob '%s'", spec.Name, spec.Pattern)
		}
	}
	return g, nil
}

// load returns the number of files that were opened.
func (g *ReportGroup) load(ctx context.Context, loader Loader, resolver *Resolver) (int, error) {
	paths, err := resolver.Resolve(ctx, g.spec.Pattern, g.spec.BaseDir)
	if err != nil {
		return 0, err
	}

	files := resolver.Open(ctx, paths)
	defer CloseAll(ctx, files)

	zerolog.Ctx(ctx).Debug().
		Str("group", g.spec.Name).
		Int("matched", len(paths)).
		Int("opened", len(files)).
		Msg("loading report files")

	table, err := loader.Load(ctx, files, g.spec.Name)
	if errors.Is(err, ErrNoReportFiles) {
		return len(files), nil
	}
	if err != nil {
		return len(files), err
	}
	g.table = table
	return len(files), nil
}

func (g *ReportGroup) Name() string {
	return g.spec.Name
}

func (g *ReportGroup) Pattern() string {
	return g.spec.Pattern
}

func (g *ReportGroup) BaseDir() string {
	return g.spec.BaseDir
}

func (g *ReportGroup) Kind() Kind {
	return g.kind
}

func (g *ReportGroup) Table() *domain.Table {
	return g.table
}

// SetTable replaces the loaded table, e.g. with synthetic data.
func (g *ReportGroup) SetTable(t *domain.Table) {
	if t == nil {
		t = domain.NewTable()
	}
	g.table = t
}

// IsEmpty reports whether the current table has no rows or no columns.
func (g *ReportGroup) IsEmpty() bool {
	return g.table.IsEmpty()
}

func (g *ReportGroup) String() string {
	return fmt.Sprintf("ReportGroup(%s, %s, %s, %s)", g.kind, g.spec.Pattern, g.spec.Name, g.spec.BaseDir)
}
