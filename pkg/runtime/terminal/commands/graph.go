package commands

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/de-tools/sim-reporting/pkg/models/domain"
	"github.com/de-tools/sim-reporting/pkg/reports"
	"github.com/de-tools/sim-reporting/pkg/runtime/graph"
	"github.com/de-tools/sim-reporting/pkg/runtime/terminal/export"
	"github.com/de-tools/sim-reporting/pkg/services/aggregate"
	"github.com/de-tools/sim-reporting/pkg/services/config"
	"github.com/spf13/cobra"
)

const (
	columnQuantHours = "quant_hours"
	columnPercent    = "percent"
	emptyGraphResult = "Empty result dataframe. No graphs to output and nothing saved."
)

// NewGraphCmd groups the graph subcommands.
func NewGraphCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw graphs based on report files",
	}

	cmd.AddCommand(NewGraphDelayCmd(deps))
	cmd.AddCommand(NewGraphDeliveryCmd(deps))
	cmd.AddCommand(NewGraphStatsCmd(deps))

	return cmd
}

// graphFlags are shared by every graph subcommand.
type graphFlags struct {
	groupFlags
	outputFlags
	width  int
	height int
}

func (f *graphFlags) register(cmd *cobra.Command) {
	f.groupFlags.register(cmd)
	f.outputFlags.register(cmd, fmt.Sprintf("%v (default from config)", graph.Formats))
	cmd.Flags().IntVar(&f.width, "width", 0, "Image width in pixels (default from config)")
	cmd.Flags().IntVar(&f.height, "height", 0, "Image height in pixels (default from config)")
}

type graphRun struct {
	est    aggregate.Estimator
	format graph.Format
	size   graph.Size
	out    *export.Output
}

// prepare resolves the estimator, image settings and output directory.
// Graphs are saved in the configured format unless it is set to an empty value.
func (f *graphFlags) prepare(ctx context.Context, deps Deps, d *config.Defaults) (*graphRun, error) {
	est, err := f.resolveEstimator(d)
	if err != nil {
		return nil, err
	}

	run := &graphRun{est: est, size: graph.Size{Width: d.GraphWidth, Height: d.GraphHeight}}
	if f.width > 0 {
		run.size.Width = f.width
	}
	if f.height > 0 {
		run.size.Height = f.height
	}
	if run.size.Width <= 0 || run.size.Height <= 0 {
		run.size = graph.DefaultSize
	}

	name := f.format
	if name == "" {
		name = d.GraphFormat
	}
	if name == "" {
		return run, nil
	}
	if run.format, err = graph.ParseFormat(name); err != nil {
		return nil, err
	}
	if run.out, err = f.open(ctx, deps, d, string(run.format)); err != nil {
		return nil, err
	}
	return run, nil
}

type renderer interface {
	Render(w io.Writer, f graph.Format, size graph.Size) error
}

func (r *graphRun) save(ctx context.Context, deps Deps, name string, chart renderer) error {
	if r.out == nil {
		return nil
	}
	path, err := r.out.Write(ctx, name, string(r.format), func(w io.Writer) error {
		return chart.Render(w, r.format, r.size)
	})
	if err != nil {
		return err
	}
	deps.Notifier.Notice("Saved " + path)
	return nil
}

func combine(groups []reports.Group) *domain.Table {
	all := domain.NewTable()
	for _, g := range nonEmpty(groups) {
		all.Append(g.Table())
	}
	return all
}

// quantize adds the quant_hours column binned from source.
func quantize(t *domain.Table, source string, quant int) error {
	if quant <= 0 {
		return fmt.Errorf("quantisation period must be positive, got %d", quant)
	}
	bins := aggregate.Quantize(t.Floats(source), float64(quant))
	values := make([]domain.Value, len(bins))
	for i, b := range bins {
		if b >= 0 {
			values[i] = domain.Number(aggregate.QuantHours(b, float64(quant)))
		}
	}
	return t.SetColumn(columnQuantHours, values)
}

func seriesTable(series []aggregate.Series, yName string) *domain.Table {
	t := domain.NewTable()
	for _, s := range series {
		for i := range s.X {
			row := domain.Row{}
			row.Set(reports.ColumnGroup, domain.Text(s.Name))
			row.Set(columnQuantHours, domain.Number(s.X[i]))
			row.Set(yName, domain.Number(s.Y[i]))
			t.AppendRow(row)
		}
	}
	return t
}

type GraphDelayCmd struct {
	graphFlags
	quant int
	deps  Deps
}

func NewGraphDelayCmd(deps Deps) *cobra.Command {
	gc := &GraphDelayCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "delay",
		Short: "Draw graphs based on MessageDelayReport files",
		Args:  cobra.NoArgs,
		RunE:  gc.run,
	}

	gc.graphFlags.register(cmd)
	cmd.Flags().IntVarP(&gc.quant, "quant", "q", 0, "Quantisation period in seconds (default from config)")

	return cmd
}

func (gc *GraphDelayCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := gc.deps.Settings.Defaults()
	if err != nil {
		return err
	}
	run, err := gc.prepare(ctx, gc.deps, d)
	if err != nil {
		return err
	}
	quant := gc.quant
	if quant == 0 {
		quant = d.DelayQuant
	}

	groups, err := gc.load(ctx, gc.deps, d, reports.KindDelay)
	if err != nil {
		return err
	}
	all := combine(groups)
	if all.IsEmpty() {
		gc.deps.Notifier.Warn(emptyResult)
		return nil
	}
	if err := quantize(all, reports.ColumnMessageDelay, quant); err != nil {
		return err
	}

	series := aggregate.SeriesByGroup(all, reports.ColumnGroup, columnQuantHours, reports.ColumnCumulativeProbability, run.est)
	chart := graph.LineChart{
		Title:  "Message Delay",
		XLabel: "Delivery Delay [h]",
		YLabel: "Messages",
		Series: series,
	}
	if err := run.save(ctx, gc.deps, "MessageDelayReport", chart); err != nil {
		return err
	}

	if !gc.noShow {
		return gc.deps.Tables.Handle(chart.Title, seriesTable(series, reports.ColumnCumulativeProbability))
	}
	return nil
}

type GraphDeliveryCmd struct {
	graphFlags
	quant int
	deps  Deps
}

func NewGraphDeliveryCmd(deps Deps) *cobra.Command {
	gc := &GraphDeliveryCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "delivery",
		Short: "Draw graphs based on MessageDeliveryReport files",
		Args:  cobra.NoArgs,
		RunE:  gc.run,
	}

	gc.graphFlags.register(cmd)
	cmd.Flags().IntVarP(&gc.quant, "quant", "q", 0, "Quantisation period in seconds (default from config)")

	return cmd
}

func (gc *GraphDeliveryCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := gc.deps.Settings.Defaults()
	if err != nil {
		return err
	}
	run, err := gc.prepare(ctx, gc.deps, d)
	if err != nil {
		return err
	}
	quant := gc.quant
	if quant == 0 {
		quant = d.DeliveryQuant
	}

	groups, err := gc.load(ctx, gc.deps, d, reports.KindDelivery)
	if err != nil {
		return err
	}
	all := combine(groups)
	if all.IsEmpty() {
		gc.deps.Notifier.Warn(emptyResult)
		return nil
	}
	if err := all.DeriveColumn(columnPercent, reports.ColumnDeliveredCreated, func(v float64) float64 {
		return v * 100
	}); err != nil {
		return err
	}
	if err := quantize(all, reports.ColumnTime, quant); err != nil {
		return err
	}

	abs := graph.LineChart{
		Title:  "Message Delivery",
		XLabel: "Time [h]",
		YLabel: "Messages Delivered",
		Series: aggregate.SeriesByGroup(all, reports.ColumnGroup, columnQuantHours, reports.ColumnDelivered, run.est),
	}
	rel := graph.LineChart{
		Title:  "Message Delivery [%]",
		XLabel: "Time [h]",
		YLabel: "Messages Delivered [%]",
		Series: aggregate.SeriesByGroup(all, reports.ColumnGroup, columnQuantHours, columnPercent, aggregate.Mean),
	}
	if err := run.save(ctx, gc.deps, "MessageDeliveryReport-Abs", abs); err != nil {
		return err
	}
	if err := run.save(ctx, gc.deps, "MessageDeliveryReport-Rel", rel); err != nil {
		return err
	}

	if gc.noShow {
		return nil
	}
	if err := gc.deps.Tables.Handle(abs.Title, seriesTable(abs.Series, reports.ColumnDelivered)); err != nil {
		return err
	}
	return gc.deps.Tables.Handle(rel.Title, seriesTable(rel.Series, columnPercent))
}

type GraphStatsCmd struct {
	graphFlags
	stats    []string
	describe bool
	ymin0    bool
	deps     Deps
}

func NewGraphStatsCmd(deps Deps) *cobra.Command {
	gc := &GraphStatsCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Draw graphs based on MessageStatsReport files",
		Long: "Draw one bar graph per stat. If only one group is passed, each bar represents one scenario. " +
			"With several groups each bar shows the estimate of a group and its min and max values.",
		Args: cobra.NoArgs,
		RunE: gc.run,
	}

	gc.graphFlags.register(cmd)
	cmd.Flags().StringSliceVarP(&gc.stats, "stat", "s", nil,
		"Stats to draw, repeatable or comma separated, 'all' for every stat (default from config)")
	cmd.Flags().BoolVarP(&gc.describe, "describe", "c", false,
		"Show how many reports were considered and the min and max values")
	cmd.Flags().BoolVarP(&gc.ymin0, "ymin0", "0", false, "Start the y-axis at 0 no matter what")

	return cmd
}

func (gc *GraphStatsCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := gc.deps.Settings.Defaults()
	if err != nil {
		return err
	}
	run, err := gc.prepare(ctx, gc.deps, d)
	if err != nil {
		return err
	}
	requested := gc.stats
	if len(requested) == 0 {
		requested = d.GraphStats
	}
	if requested, err = validateStats(requested); err != nil {
		return err
	}

	groups, err := gc.load(ctx, gc.deps, d, reports.KindStats)
	if err != nil {
		return err
	}
	cols := aggregate.ResolveColumns(groups, requested)

	table, err := aggregate.Stats(groups, cols, run.est)
	if err != nil {
		return err
	}
	if table.IsEmpty() {
		gc.deps.Notifier.Warn(emptyGraphResult)
		return nil
	}

	oneGroup := len(groups) == 1
	for _, st := range cols {
		chart := graph.BarChart{Title: statLabel(st), YLabel: statLabel(st), FromZero: gc.ymin0}
		if oneGroup {
			chart.Bars = scenarioBars(table, st)
		} else {
			chart.Bars = groupBars(nonEmpty(groups), st, run.est)
		}
		if err := run.save(ctx, gc.deps, "MessageStatsReport-"+st, chart); err != nil {
			return err
		}
	}

	if !gc.noShow {
		if err := gc.deps.Tables.Handle("", table); err != nil {
			return err
		}
	}
	if gc.describe {
		desc, err := aggregate.Describe(groups, cols, run.est)
		if err != nil {
			return err
		}
		return gc.deps.Tables.Handle("describe", desc)
	}
	return nil
}

func scenarioBars(t *domain.Table, stat string) []graph.Bar {
	index := t.Index()
	values := t.Floats(stat)
	bars := make([]graph.Bar, len(values))
	for i, v := range values {
		bars[i] = graph.Bar{Label: index[i], Value: v, Min: math.NaN(), Max: math.NaN()}
	}
	return bars
}

func groupBars(groups []reports.Group, stat string, est aggregate.Estimator) []graph.Bar {
	bars := make([]graph.Bar, len(groups))
	for i, g := range groups {
		s := aggregate.Summarize(g.Table().Floats(stat), est)
		bars[i] = graph.Bar{Label: g.Name(), Value: s.Estimate, Min: s.Min, Max: s.Max}
	}
	return bars
}
