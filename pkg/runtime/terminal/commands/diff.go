package commands

import (
	"fmt"

	"github.com/de-tools/sim-reporting/pkg/reports"
	"github.com/de-tools/sim-reporting/pkg/runtime/terminal/export"
	"github.com/de-tools/sim-reporting/pkg/services/aggregate"
	"github.com/spf13/cobra"
)

type DiffCmd struct {
	groupFlags
	outputFlags
	deps Deps
}

func NewDiffCmd(deps Deps) *cobra.Command {
	dc := &DiffCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare two groups of stats reports",
		Long: "Compare two groups of stats reports. If more than two groups are defined, only the first two " +
			"are considered.",
		Args: cobra.NoArgs,
		RunE: dc.run,
	}

	dc.groupFlags.register(cmd)
	dc.outputFlags.register(cmd, fmt.Sprintf("%v", export.Formats))

	return cmd
}

func (dc *DiffCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := dc.deps.Settings.Defaults()
	if err != nil {
		return err
	}
	est, err := dc.resolveEstimator(d)
	if err != nil {
		return err
	}
	var format export.Format
	if dc.format != "" {
		if format, err = export.ParseFormat(dc.format); err != nil {
			return err
		}
	}

	specs, err := dc.specs(dc.deps, d)
	if err != nil {
		return err
	}
	if len(specs) < 2 {
		return aggregate.ErrTwoGroupsRequired
	}

	groups, err := dc.deps.Registry.CreateAll(ctx, reports.KindStats, specs[:2])
	if err != nil {
		return err
	}

	table, err := aggregate.Diff(groups, est)
	if err != nil {
		return err
	}
	if table.IsEmpty() {
		dc.deps.Notifier.Warn(emptyResult)
		return nil
	}

	if !dc.noShow {
		if err := dc.deps.Tables.Handle("", table); err != nil {
			return err
		}
	}

	out, err := dc.open(ctx, dc.deps, d, string(format))
	if err != nil || out == nil {
		return err
	}
	path, err := out.SaveTable(ctx, "diff_output", format, table)
	if err != nil {
		return err
	}
	dc.deps.Notifier.Notice("Saved " + path)
	return nil
}
