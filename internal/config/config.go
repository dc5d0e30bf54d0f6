// Package config loads jsveil configuration from .jsveil/config.yaml and
// merges command-line flags over it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/jsveil/internal/exclude"
	"github.com/harrison/jsveil/internal/logger"
	"github.com/harrison/jsveil/internal/transform"
	"gopkg.in/yaml.v3"
)

// HistoryConfig represents run history configuration
type HistoryConfig struct {
	// Enabled records every run in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database (default: $JSVEIL_HOME/history.db)
	DBPath string `yaml:"db_path"`
}

// Config represents jsveil configuration options
type Config struct {
	// Transform overlays the named preset; unset keys keep preset values
	Transform transform.Overrides `yaml:"transform"`

	// Exclude lists exclusion rules tested against absolute file paths
	Exclude []string `yaml:"exclude"`

	// DisableFilesLog suppresses the per-file size lines
	DisableFilesLog bool `yaml:"disable_files_log"`

	// MaxConcurrency bounds concurrent file tasks (0 = one task per file)
	MaxConcurrency int `yaml:"max_concurrency"`

	// Atomic stages every output and commits only when all files succeed
	Atomic bool `yaml:"atomic"`

	// DryRun transforms files without writing them
	DryRun bool `yaml:"dry_run"`

	// ExcludeDirs names directories the walker does not enter
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// MaxDepth limits walk depth below the root (0 = unlimited)
	MaxDepth int `yaml:"max_depth"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory for per-run log files (default: $JSVEIL_HOME/logs)
	LogDir string `yaml:"log_dir"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrency: 0,
		LogLevel:       "info",
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// fileConfig mirrors Config with pointers so keys present in the file can
// be told apart from zero values.
type fileConfig struct {
	Transform       *transform.Overrides `yaml:"transform"`
	Exclude         []string             `yaml:"exclude"`
	DisableFilesLog *bool                `yaml:"disable_files_log"`
	MaxConcurrency  *int                 `yaml:"max_concurrency"`
	Atomic          *bool                `yaml:"atomic"`
	DryRun          *bool                `yaml:"dry_run"`
	ExcludeDirs     []string             `yaml:"exclude_dirs"`
	MaxDepth        *int                 `yaml:"max_depth"`
	LogLevel        *string              `yaml:"log_level"`
	LogDir          *string              `yaml:"log_dir"`
	History         *struct {
		Enabled *bool   `yaml:"enabled"`
		DBPath  *string `yaml:"db_path"`
	} `yaml:"history"`
}

// LoadConfig loads configuration from the specified file path.
// A missing file yields the defaults; a malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Transform != nil {
		cfg.Transform = *fc.Transform
	}
	if fc.Exclude != nil {
		cfg.Exclude = fc.Exclude
	}
	if fc.DisableFilesLog != nil {
		cfg.DisableFilesLog = *fc.DisableFilesLog
	}
	if fc.MaxConcurrency != nil {
		cfg.MaxConcurrency = *fc.MaxConcurrency
	}
	if fc.Atomic != nil {
		cfg.Atomic = *fc.Atomic
	}
	if fc.DryRun != nil {
		cfg.DryRun = *fc.DryRun
	}
	if fc.ExcludeDirs != nil {
		cfg.ExcludeDirs = fc.ExcludeDirs
	}
	if fc.MaxDepth != nil {
		cfg.MaxDepth = *fc.MaxDepth
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.LogDir != nil {
		cfg.LogDir = *fc.LogDir
	}
	if fc.History != nil {
		if fc.History.Enabled != nil {
			cfg.History.Enabled = *fc.History.Enabled
		}
		if fc.History.DBPath != nil {
			cfg.History.DBPath = *fc.History.DBPath
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .jsveil/config.yaml in dir.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".jsveil", "config.yaml"))
}

// Flags holds command-line values. A nil field was not given on the
// command line and leaves the configured value alone.
type Flags struct {
	Preset          *string
	Exclude         []string
	DisableFilesLog *bool
	MaxConcurrency  *int
	Atomic          *bool
	DryRun          *bool
	LogLevel        *string
	LogDir          *string
	NoHistory       *bool
}

// MergeWithFlags merges CLI flags into the configuration so that flags
// take precedence over config file settings. Exclude rules from flags are
// appended to configured ones.
func (c *Config) MergeWithFlags(f Flags) {
	if f.Preset != nil {
		preset := *f.Preset
		c.Transform.Preset = &preset
	}
	if len(f.Exclude) > 0 {
		c.Exclude = append(append([]string(nil), c.Exclude...), f.Exclude...)
	}
	if f.DisableFilesLog != nil {
		c.DisableFilesLog = *f.DisableFilesLog
	}
	if f.MaxConcurrency != nil {
		c.MaxConcurrency = *f.MaxConcurrency
	}
	if f.Atomic != nil {
		c.Atomic = *f.Atomic
	}
	if f.DryRun != nil {
		c.DryRun = *f.DryRun
	}
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.LogDir != nil {
		c.LogDir = *f.LogDir
	}
	if f.NoHistory != nil && *f.NoHistory {
		c.History.Enabled = false
	}
}

// TransformOptions merges the transform overrides over their preset.
func (c *Config) TransformOptions() (transform.Options, error) {
	opts, err := transform.Resolve(c.Transform)
	if err != nil {
		return transform.Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return transform.Options{}, fmt.Errorf("invalid transform options: %w", err)
	}
	return opts, nil
}

// ExclusionRules compiles the configured exclusion patterns.
func (c *Config) ExclusionRules() ([]exclude.Rule, error) {
	return exclude.ParseRules(c.Exclude)
}

// ResolvePaths fills an empty log_dir and history.db_path from the jsveil
// home directory.
func (c *Config) ResolvePaths() error {
	if c.LogDir != "" && (c.History.DBPath != "" || !c.History.Enabled) {
		return nil
	}
	home, err := Home()
	if err != nil {
		return err
	}
	if c.LogDir == "" {
		c.LogDir = filepath.Join(home, "logs")
	}
	if c.History.DBPath == "" && c.History.Enabled {
		c.History.DBPath = HistoryDBPath(home)
	}
	return nil
}

// CheckOutsideRoot returns an error when the log directory or the history
// database resolves to a location inside root, the output tree a run
// rewrites. Call it after ResolvePaths.
func (c *Config) CheckOutsideRoot(root string) error {
	if within(root, c.LogDir) {
		return fmt.Errorf("log_dir %s is inside the output root %s; set log_dir or %s to a directory outside it",
			c.LogDir, root, HomeEnv)
	}
	if c.History.Enabled && within(root, c.History.DBPath) {
		return fmt.Errorf("history.db_path %s is inside the output root %s; set history.db_path or %s to a location outside it, or pass --no-history",
			c.History.DBPath, root, HomeEnv)
	}
	return nil
}

// within reports whether path is root or lies below it.
func within(root, path string) bool {
	if path == "" {
		return false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be >= 0, got %d", c.MaxConcurrency)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0, got %d", c.MaxDepth)
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}
	if _, err := c.TransformOptions(); err != nil {
		return fmt.Errorf("transform: %w", err)
	}
	if _, err := c.ExclusionRules(); err != nil {
		return fmt.Errorf("exclude: %w", err)
	}
	return nil
}
