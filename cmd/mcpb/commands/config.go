package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpb/internal/config"
	"github.com/thoreinstein/mcpb/internal/editor"
	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/logging"
	"github.com/thoreinstein/mcpb/internal/manifest"
	"github.com/thoreinstein/mcpb/internal/paths"
	"github.com/thoreinstein/mcpb/internal/redact"
	"github.com/thoreinstein/mcpb/pkg/fileutil"
)

// configKeys are the settable scalar keys.
var configKeys = []string{"version", "strict", "log_format", "values"}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mcpb configuration",
	Long: `Manage mcpb configuration stored in ~/.config/mcpb/config.yaml
(or $MCPB_CONFIG_DIR/config.yaml).

Keys: version, strict, log_format, values, and user_config.<bundle>.<field>
for default user_config values per bundle. Every key can also be set
through the environment with the MCPB_ prefix, e.g. MCPB_STRICT=true.

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  mcpb config

  # Fail validation on warnings everywhere
  mcpb config set strict true

  # Remember a default for one bundle
  mcpb config set user_config.weather.region eu-west-1

See Also: mcpb resolve`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  `Get a single configuration value by key. Supports dot notation for nested keys.`,
	Example: `  mcpb config get strict
  mcpb config get user_config.weather.region

See Also: mcpb config set, mcpb config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write the config file. Values are checked
before anything is written.`,
	Example: `  mcpb config set log_format json
  mcpb config set values ~/.config/mcpb/values.yaml

See Also: mcpb config get, mcpb config list`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format. Values that look like secrets are masked.`,
	Example: `  mcpb config list

See Also: mcpb config get, mcpb config set`,
	RunE: runConfigList,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your editor ($MCPB_EDITOR, $EDITOR,
$VISUAL, then nano or vi). A file holding the defaults is created first
if none exists.`,
	Example: `  mcpb config edit
  EDITOR="code --wait" mcpb config edit

See Also: mcpb config list`,
	RunE: runConfigEdit,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	w := cmd.OutOrStdout()

	if !viper.IsSet(key) {
		fmt.Fprintln(w, "not set")
		return nil
	}

	switch v := viper.Get(key).(type) {
	case map[string]any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "marshaling value")
		}
		fmt.Fprint(w, string(data))
	default:
		fmt.Fprintln(w, viper.GetString(key))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	parsed, err := parseConfigValue(key, value)
	if err != nil {
		return errors.NewUserError(err, "valid keys: "+strings.Join(configKeys, ", ")+", user_config.<bundle>.<field>")
	}

	viper.Set(key, parsed)
	if err := writeConfig(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, displayValue(key, value))
	return nil
}

// parseConfigValue converts value to the type stored under key.
func parseConfigValue(key, value string) (any, error) {
	switch key {
	case "version":
		v, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.Newf("version must be an integer, got %q", value)
		}
		return v, nil
	case "strict":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errors.Newf("strict must be true or false, got %q", value)
		}
		return v, nil
	case "log_format":
		f, err := logging.ParseFormat(value)
		if err != nil {
			return nil, err
		}
		return string(f), nil
	case "values":
		return value, nil
	}

	parts := strings.Split(key, ".")
	if len(parts) == 3 && parts[0] == config.SectionUser {
		if !manifest.ValidPackageName(parts[1]) {
			return nil, errors.Newf("%q is not a valid bundle name", parts[1])
		}
		if parts[2] == "" {
			return nil, errors.Newf("missing field name in %q", key)
		}
		return value, nil
	}
	return nil, errors.Newf("unknown config key %q", key)
}

func displayValue(key, value string) string {
	if redact.ShouldMask(key) || redact.ContainsTokenPrefix(value) {
		return redact.MaskValue(value)
	}
	return value
}

// currentConfig decodes and checks viper's current state.
func currentConfig() (*config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	if err := errors.Join(config.Validate(&cfg)...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return errors.NewConfigError(err)
	}
	for bundle, fields := range cfg.UserConfig {
		masked := make(map[string]string, len(fields))
		for k, v := range fields {
			masked[k] = displayValue(k, v)
		}
		cfg.UserConfig[bundle] = masked
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := configFile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfig(); err != nil {
			return err
		}
	}
	if err := editor.Open(cmd.OutOrStdout(), path); err != nil {
		return errors.NewSystemError(err, "set $EDITOR to your preferred editor")
	}
	return nil
}

// configFile returns the file viper read, or the default location.
func configFile() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return config.Path()
}

// writeConfig validates viper's current state and writes it to the config file.
func writeConfig() error {
	cfg, err := currentConfig()
	if err != nil {
		return errors.NewUserError(err, "the config file was not changed")
	}

	path := configFile()
	if err := paths.EnsureDir(filepath.Dir(path), paths.DefaultDirPerm); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating config directory"), "")
	}
	if err := fileutil.AtomicWriteYAML(path, cfg, 0o600); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "writing config file"), "")
	}
	return nil
}
