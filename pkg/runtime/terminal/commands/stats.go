package commands

import (
	"fmt"

	"github.com/de-tools/sim-reporting/pkg/reports"
	"github.com/de-tools/sim-reporting/pkg/runtime/terminal/export"
	"github.com/de-tools/sim-reporting/pkg/services/aggregate"
	"github.com/spf13/cobra"
)

type StatsCmd struct {
	groupFlags
	outputFlags
	stats    []string
	describe bool
	deps     Deps
}

func NewStatsCmd(deps Deps) *cobra.Command {
	sc := &StatsCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Get stats from the generated report files",
		Long: "Get stats from the generated report files. A single group lists every scenario; " +
			"several groups are reduced to one row per group with the estimator.",
		Args: cobra.NoArgs,
		RunE: sc.run,
	}

	sc.groupFlags.register(cmd)
	sc.outputFlags.register(cmd, fmt.Sprintf("%v", export.Formats))
	cmd.Flags().StringSliceVarP(&sc.stats, "stat", "s", nil,
		"Stats to show, repeatable or comma separated, 'all' for every stat (default from config)")
	cmd.Flags().BoolVarP(&sc.describe, "describe", "c", false,
		"Show how many reports were considered and the min and max values")

	return cmd
}

func (sc *StatsCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := sc.deps.Settings.Defaults()
	if err != nil {
		return err
	}
	est, err := sc.resolveEstimator(d)
	if err != nil {
		return err
	}
	var format export.Format
	if sc.format != "" {
		if format, err = export.ParseFormat(sc.format); err != nil {
			return err
		}
	}
	requested := sc.stats
	if len(requested) == 0 {
		requested = d.Stats
	}
	requested, err = validateStats(requested)
	if err != nil {
		return err
	}

	groups, err := sc.load(ctx, sc.deps, d, reports.KindStats)
	if err != nil {
		return err
	}
	cols := aggregate.ResolveColumns(groups, requested)

	table, err := aggregate.Stats(groups, cols, est)
	if err != nil {
		return err
	}
	if table.IsEmpty() {
		sc.deps.Notifier.Warn(emptyResult)
		return nil
	}

	if !sc.noShow {
		if err := sc.deps.Tables.Handle("", table); err != nil {
			return err
		}
	}
	if sc.describe {
		desc, err := aggregate.Describe(groups, cols, est)
		if err != nil {
			return err
		}
		if err := sc.deps.Tables.Handle("describe", desc); err != nil {
			return err
		}
	}

	out, err := sc.open(ctx, sc.deps, d, string(format))
	if err != nil || out == nil {
		return err
	}
	path, err := out.SaveTable(ctx, "stats_output", format, table)
	if err != nil {
		return err
	}
	sc.deps.Notifier.Notice("Saved " + path)
	return nil
}
