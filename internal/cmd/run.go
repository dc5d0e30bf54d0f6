package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harrison/jsveil/internal/executor"
	"github.com/harrison/jsveil/internal/history"
	"github.com/harrison/jsveil/internal/hook"
	"github.com/harrison/jsveil/internal/logger"
	"github.com/harrison/jsveil/internal/transform"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <output-dir>",
		Short: "Obfuscate the scripts of a finished build",
		Long: `Fire the build-completion hook on a build output directory.

Every .js file below the directory that no exclusion rule matches is read,
transformed and written back in place. One line per file reports the size
change, followed by a summary line.

Configuration is loaded from .jsveil/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  jsveil run dist
  jsveil run dist --preset high-obfuscation
  jsveil run dist --exclude '/vendor/' --exclude 'glob:/**/*.min.js'
  jsveil run dist --atomic --max-concurrency 8
  jsveil run dist --dry-run --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: runCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .jsveil/config.yaml)")
	cmd.Flags().String("preset", "", "Transform preset (default, low-obfuscation, medium-obfuscation, high-obfuscation)")
	cmd.Flags().StringArray("exclude", nil, "Exclusion rule, repeatable (regex, re:/regex/flags or glob:pattern)")
	cmd.Flags().Bool("disable-files-log", false, "Do not log a line per file")
	cmd.Flags().Int("max-concurrency", 0, "Maximum number of files processed at once (0 = unlimited)")
	cmd.Flags().Bool("atomic", false, "Write no file unless every file succeeds")
	cmd.Flags().Bool("dry-run", false, "Transform files without writing them")
	cmd.Flags().Bool("verbose", false, "Show debug output")
	cmd.Flags().String("log-dir", "", "Directory for log files")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cfg.MergeWithFlags(flagOverrides(cmd))
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.ResolvePaths(); err != nil {
		return err
	}
	if err := cfg.CheckOutsideRoot(args[0]); err != nil {
		return err
	}

	opts, err := cfg.TransformOptions()
	if err != nil {
		return err
	}
	rules, err := cfg.ExclusionRules()
	if err != nil {
		return err
	}

	consoleLog := logger.NewConsoleLogger(cmd.OutOrStdout(), cfg.LogLevel)
	fileLog, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer fileLog.Close()
	log := logger.NewMultiLogger(consoleLog, fileLog)

	orchestrator := executor.NewOrchestrator(transform.NewMinifyTransformer(), executor.Config{
		Options:         opts,
		Rules:           rules,
		DisableFilesLog: cfg.DisableFilesLog,
		MaxConcurrency:  cfg.MaxConcurrency,
		Atomic:          cfg.Atomic,
		DryRun:          cfg.DryRun,
		ExcludeDirs:     cfg.ExcludeDirs,
		MaxDepth:        cfg.MaxDepth,
	})

	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer store.Close()
		orchestrator.SetRecorder(store)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.LogDebug(fmt.Sprintf("Preset %s, keep_var_names=%t, precision=%d, version=%d",
		opts.Preset, opts.KeepVarNames, opts.Precision, opts.Version))

	runner := hook.NewRunner(hook.NewObfuscator(orchestrator))
	return runner.BuildDone(ctx, hook.BuildContext{Dir: args[0], Logger: log})
}
