package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/sim-reporting/pkg/reports"
	"github.com/de-tools/sim-reporting/pkg/runtime/terminal/export"
	"github.com/de-tools/sim-reporting/pkg/services/aggregate"
	"github.com/de-tools/sim-reporting/pkg/services/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const emptyResult = "Empty result dataframe. No stdout output and nothing saved."

// Notifier prints one-line messages for the user.
type Notifier interface {
	Warn(msg string)
	Notice(msg string)
}

// Settings gives commands access to the persisted defaults.
type Settings interface {
	Store() *config.Store
	Defaults() (*config.Defaults, error)
}

// Deps are shared by every command.
type Deps struct {
	Registry reports.Registry
	Fs       afero.Fs
	Tables   *export.Reporter
	Notifier Notifier
	Settings Settings
}

// groupFlags select and load report groups.
type groupFlags struct {
	estimator  string
	groups     []string
	groupsFile string
	reportsDir string
}

func (f *groupFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.estimator, "estimator", "e", "",
		fmt.Sprintf("Estimator used when comparing groups %v (default from config)", aggregate.Estimators))
	cmd.Flags().StringArrayVarP(&f.groups, "group", "g", nil,
		"Report group as PATTERN=NAME, repeatable. With more than one group, reports of each pattern are aggregated")
	cmd.Flags().StringVar(&f.groupsFile, "groups-file", "", "YAML, TOML or JSON file listing report groups")
	cmd.Flags().StringVarP(&f.reportsDir, "reports-dir", "d", "", "Report directory (default from config)")
}

func (f *groupFlags) resolveEstimator(d *config.Defaults) (aggregate.Estimator, error) {
	name := f.estimator
	if name == "" {
		name = d.Estimator
	}
	return aggregate.ParseEstimator(name)
}

func (f *groupFlags) specs(deps Deps, d *config.Defaults) ([]reports.Spec, error) {
	var file *config.GroupFile
	if f.groupsFile != "" {
		var err error
		if file, err = config.LoadGroupFile(deps.Fs, f.groupsFile); err != nil {
			return nil, err
		}
	}

	baseDir := f.reportsDir
	if baseDir == "" {
		baseDir = d.ReportsDir
	}
	specs, err := config.Specs(file, f.groups, baseDir)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, errors.New("no report groups given, use --group PATTERN=NAME or --groups-file")
	}
	return specs, nil
}

func (f *groupFlags) load(ctx context.Context, deps Deps, d *config.Defaults, kind reports.Kind) ([]reports.Group, error) {
	specs, err := f.specs(deps, d)
	if err != nil {
		return nil, err
	}
	return deps.Registry.CreateAll(ctx, kind, specs)
}

// outputFlags control what is printed and saved.
type outputFlags struct {
	prefix    string
	noShow    bool
	outputDir string
	format    string
}

func (f *outputFlags) register(cmd *cobra.Command, formats string) {
	cmd.Flags().StringVarP(&f.prefix, "filename-prefix", "p", "", "Prefix to prepend to all output files")
	cmd.Flags().BoolVarP(&f.noShow, "no-show", "n", false, "Do not show output")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVarP(&f.format, "output-format", "f", "",
		fmt.Sprintf("Output format %s. Output is only saved when a format is set", formats))
}

// open prepares the output directory. It returns nil when nothing should be saved.
func (f *outputFlags) open(ctx context.Context, deps Deps, d *config.Defaults, format string) (*export.Output, error) {
	if format == "" {
		return nil, nil
	}
	dir := f.outputDir
	if dir == "" {
		dir = d.OutputDir
	}

	out, err := export.NewOutput(ctx, deps.Fs, dir, f.prefix)
	if errors.Is(err, export.ErrOutputNotDir) {
		deps.Notifier.Notice(fmt.Sprintf("The path to your --output-dir points to an existing file. Output will not be saved. %v", err))
		return nil, nil
	}
	return out, err
}

func nonEmpty(groups []reports.Group) []reports.Group {
	var out []reports.Group
	for _, g := range groups {
		if !g.IsEmpty() {
			out = append(out, g)
		}
	}
	return out
}

// validateStats lower-cases stat names and rejects unknown ones.
func validateStats(stats []string) ([]string, error) {
	out := make([]string, 0, len(stats))
	for _, s := range stats {
		name := strings.ToLower(strings.TrimSpace(s))
		if _, ok := StatLabels[name]; !ok {
			return nil, fmt.Errorf("invalid stat %q, expected one of %s", s, strings.Join(StatNames(), ", "))
		}
		out = append(out, name)
	}
	return out, nil
}
