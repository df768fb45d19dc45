package commands

import (
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/easel/config"
	"github.com/teranos/easel/display"
	"github.com/teranos/easel/errors"
	"github.com/teranos/easel/sym"
)

// ConfigCmd manages the easel configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: sym.Config + " Manage easel configuration",
	Long: sym.Config + ` config — Manage easel configuration

Configuration sources (in order of precedence):
1. Environment variables (EASEL_* prefix)
2. Project config (./easel.toml, searched upward)
3. User config (~/.easel/easel.toml)
4. System config (/etc/easel/config.toml)
5. Default values

Examples:
  easel config show                # Show merged configuration
  easel config get bridge.port     # Get one value
  easel config set bridge.port 900 # Persist one value to the user config
  easel config path                # Show the user config path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show merged configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value by dotted key",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a configuration value to the user config",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the user config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.UserConfigPath())
	},
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configSetCmd)
	ConfigCmd.AddCommand(configPathCmd)
	configShowCmd.Flags().BoolP("json", "j", false, "Output configuration as JSON")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if _, err := config.Load(); err != nil {
		return err
	}
	settings := config.GetViper().AllSettings()

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(settings)
	}
	out, err := toml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "rendering configuration")
	}
	fmt.Print(string(out))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if _, err := config.Load(); err != nil {
		return err
	}
	v := config.GetViper()
	if !v.IsSet(key) {
		keys := v.AllKeys()
		sort.Strings(keys)
		pterm.Error.Printf("Unknown key %q\n", key)
		pterm.Printf("Known keys: %v\n", keys)
		return errors.Wrapf(errors.ErrNotFound, "config key %s", key)
	}
	fmt.Println(v.Get(key))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := config.SetValue(key, value); err != nil {
		return err
	}
	pterm.Success.Printf("Set %s = %s in %s\n", key, value, config.UserConfigPath())
	return nil
}
