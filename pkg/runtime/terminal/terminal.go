package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/sim-reporting/pkg/reports"
	"github.com/de-tools/sim-reporting/pkg/runtime/terminal/commands"
	"github.com/de-tools/sim-reporting/pkg/runtime/terminal/export"
	"github.com/de-tools/sim-reporting/pkg/services/config"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	registry   reports.Registry
	fs         afero.Fs
	tables     *export.Reporter
	reporter   *Reporter
	version    string
	configPath string
	verbose    bool
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Registry reports.Registry
	Output   io.Writer
	// Fs holds settings, group files and outputs. Defaults to the OS filesystem.
	Fs      afero.Fs
	Version string
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Registry == nil {
		opts.Registry = reports.NewDefaultRegistry(reports.NewResolver(opts.Fs))
	}

	cli := &CLI{
		registry: opts.Registry,
		fs:       opts.Fs,
		tables:   export.NewReporter(opts.Output),
		reporter: NewReporter(opts.Output),
		version:  opts.Version,
	}

	cli.rootCmd = cli.newRootCmd(opts.Output)
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args[1:].
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) SetInput(r io.Reader) {
	cli.rootCmd.SetIn(r)
}

func (cli *CLI) Store() *config.Store {
	return config.NewStore(cli.fs, config.ResolvePath(cli.configPath))
}

func (cli *CLI) Defaults() (*config.Defaults, error) {
	return config.LoadDefaults(cli.Store())
}

func (cli *CLI) newRootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "simreport",
		Short:         "Analyze and graph delay, delivery and stats reports of network simulations",
		Version:       cli.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cli.verbose {
				logger := zerolog.Ctx(cmd.Context()).Level(zerolog.DebugLevel)
				cmd.SetContext(logger.WithContext(cmd.Context()))
			}
		},
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVar(&cli.configPath, "config", "",
		"Settings file (default $SIMREPORT_CONFIG or config.ini in the user config directory)")
	cmd.PersistentFlags().BoolVar(&cli.verbose, "verbose", false, "Log debug messages")

	deps := commands.Deps{
		Registry: cli.registry,
		Fs:       cli.fs,
		Tables:   cli.tables,
		Notifier: cli.reporter,
		Settings: cli,
	}
	cmd.AddCommand(commands.NewDiffCmd(deps))
	cmd.AddCommand(commands.NewStatsCmd(deps))
	cmd.AddCommand(commands.NewGraphCmd(deps))
	cmd.AddCommand(commands.NewConfigCmd(deps))

	return cmd
}
