// Package transform is the boundary to the external JavaScript transformation
// engine. It owns the option model (presets plus caller overrides) and the
// Transformer contract every per-file task calls.
package transform

import (
	"fmt"
	"sort"
)

// Preset names
const (
	PresetDefault = "default"
	PresetLow     = "low-obfuscation"
	PresetMedium  = "medium-obfuscation"
	PresetHigh    = "high-obfuscation"
)

// BaselinePreset is the preset caller overrides are layered onto when none
// is named.
const BaselinePreset = PresetLow

// Options is the fully merged configuration handed to every Transform call.
// It is a plain value: once merged it is never mutated.
type Options struct {
	// Preset is the name of the preset the options were derived from
	Preset string `yaml:"preset"`

	// KeepVarNames disables renaming of local identifiers
	KeepVarNames bool `yaml:"keep_var_names"`

	// Precision is the number of significant digits kept in numeric
	// literals (0 = keep all)
	Precision int `yaml:"precision"`

	// Version is the ECMAScript version the output may use (0 = latest)
	Version int `yaml:"version"`
}

// Overrides holds caller-supplied option keys. A nil field means the key
// was not given and the preset value is kept.
type Overrides struct {
	Preset       *string `yaml:"preset"`
	KeepVarNames *bool   `yaml:"keep_var_names"`
	Precision    *int    `yaml:"precision"`
	Version      *int    `yaml:"version"`
}

// IsZero reports whether no key is set.
func (o Overrides) IsZero() bool {
	return o.Preset == nil && o.KeepVarNames == nil && o.Precision == nil && o.Version == nil
}

var presets = map[string]Options{
	// Whitespace and syntax compaction with short local names
	PresetDefault: {
		Preset:       PresetDefault,
		KeepVarNames: false,
		Precision:    0,
		Version:      0,
	},
	// Compaction only; identifiers stay readable
	PresetLow: {
		Preset:       PresetLow,
		KeepVarNames: true,
		Precision:    0,
		Version:      0,
	},
	// Compaction plus local identifier renaming
	PresetMedium: {
		Preset:       PresetMedium,
		KeepVarNames: false,
		Precision:    0,
		Version:      0,
	},
	// Renaming, and the engine may only emit ES2015 constructs
	PresetHigh: {
		Preset:       PresetHigh,
		KeepVarNames: false,
		Precision:    0,
		Version:      2015,
	},
}

// Preset returns the options of the named preset.
func Preset(name string) (Options, error) {
	opts, ok := presets[name]
	if !ok {
		return Options{}, fmt.Errorf("unknown preset %q (valid: %v)", name, PresetNames())
	}
	return opts, nil
}

// PresetNames returns the known preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge layers overrides onto base. Every key present in overrides wins;
// absent keys keep the base value. Merge is pure: neither argument is
// modified.
func Merge(base Options, o Overrides) Options {
	merged := base
	if o.Preset != nil {
		merged.Preset = *o.Preset
	}
	if o.KeepVarNames != nil {
		merged.KeepVarNames = *o.KeepVarNames
	}
	if o.Precision != nil {
		merged.Precision = *o.Precision
	}
	if o.Version != nil {
		merged.Version = *o.Version
	}
	return merged
}

// Resolve picks the preset named in overrides (or the baseline preset),
// then merges the remaining overrides on top of it.
func Resolve(o Overrides) (Options, error) {
	name := BaselinePreset
	if o.Preset != nil && *o.Preset != "" {
		name = *o.Preset
	}

	base, err := Preset(name)
	if err != nil {
		return Options{}, err
	}

	o.Preset = nil
	return Merge(base, o), nil
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.Precision < 0 {
		return fmt.Errorf("precision must be >= 0, got %d", o.Precision)
	}
	if o.Version != 0 && (o.Version < 2015 || o.Version > 2100) {
		return fmt.Errorf("version must be 0 or an ECMAScript year (2015+), got %d", o.Version)
	}
	return nil
}
