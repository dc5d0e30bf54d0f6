package cmd

import (
	"fmt"

	"github.com/harrison/jsveil/internal/config"
	"github.com/spf13/cobra"
)

// loadConfig reads --config when given, otherwise .jsveil/config.yaml in
// the working directory. A missing file yields the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		return cfg, configPath, nil
	}

	cfg, err := config.LoadConfigFromDir(".")
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, ".jsveil/config.yaml", nil
}

// flagOverrides collects the flags that were explicitly set on cmd.
func flagOverrides(cmd *cobra.Command) config.Flags {
	var f config.Flags
	flags := cmd.Flags()

	if flags.Changed("preset") {
		v, _ := flags.GetString("preset")
		f.Preset = &v
	}
	if flags.Changed("exclude") {
		f.Exclude, _ = flags.GetStringArray("exclude")
	}
	if flags.Changed("disable-files-log") {
		v, _ := flags.GetBool("disable-files-log")
		f.DisableFilesLog = &v
	}
	if flags.Changed("max-concurrency") {
		v, _ := flags.GetInt("max-concurrency")
		f.MaxConcurrency = &v
	}
	if flags.Changed("atomic") {
		v, _ := flags.GetBool("atomic")
		f.Atomic = &v
	}
	if flags.Changed("dry-run") {
		v, _ := flags.GetBool("dry-run")
		f.DryRun = &v
	}
	if flags.Changed("log-dir") {
		v, _ := flags.GetString("log-dir")
		f.LogDir = &v
	}
	if flags.Changed("no-history") {
		v, _ := flags.GetBool("no-history")
		f.NoHistory = &v
	}
	// --verbose wins over any configured level
	if verbose, _ := flags.GetBool("verbose"); verbose {
		level := "debug"
		f.LogLevel = &level
	}

	return f
}
