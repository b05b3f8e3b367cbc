package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/sim-reporting/pkg/services/config"
	"github.com/spf13/cobra"
)

// NewConfigCmd groups the commands that edit the persisted defaults.
func NewConfigCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration of defaults",
	}

	cmd.AddCommand(newConfigListCmd(deps))
	cmd.AddCommand(newConfigSetCmd(deps))
	cmd.AddCommand(newConfigRestoreCmd(deps))

	return cmd
}

func newConfigListCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all settable defaults and their current values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := deps.Settings.Store().All()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, s := range sections {
				fmt.Fprintf(w, "Setting: %s\n", s.Name)
				for _, kv := range s.Settings {
					fmt.Fprintf(w, "    %s.%s = %s\n", s.Name, kv.Key, kv.Value)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}

func newConfigSetCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "set SECTION.KEY VALUE",
		Short: "Change a default. Settings are identified as full_section_name.key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setting, value := args[0], args[1]
			store := deps.Settings.Store()

			section, key, err := config.ParseSettingKey(setting)
			if err == nil {
				err = store.Set(section, key, value)
			}
			if errors.Is(err, config.ErrInvalidSetting) {
				return fmt.Errorf("'%s' is not a valid settings key. To see a list of configurable settings run: %s config list",
					setting, cmd.Root().Name())
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "New default saved to %s:\n", store.Path())
			fmt.Fprintf(w, "     Section: %s, Option: %s, Value: %s\n", section, key, value)
			return nil
		},
	}
}

func newConfigRestoreCmd(deps Deps) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore all defaults to factory settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if !yes {
				fmt.Fprint(w, "Are you sure you want to continue? All settings will be overwritten [yN] ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				fmt.Fprintln(w)
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Fprintln(w, "Phew! Nothing changed.")
					return nil
				}
			}

			if err := deps.Settings.Store().Restore(); err != nil {
				return err
			}
			fmt.Fprintln(w, "Settings have been restored to original values")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
