package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check configuration and show the merged transform options",
		Long: `Load the configuration, compile every exclusion rule and merge the
transform options over their preset, without touching any file.`,
		Args: cobra.NoArgs,
		RunE: validateCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .jsveil/config.yaml)")
	cmd.Flags().String("preset", "", "Transform preset to validate against")
	cmd.Flags().StringArray("exclude", nil, "Additional exclusion rule, repeatable")

	return cmd
}

func validateCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, source, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.MergeWithFlags(flagOverrides(cmd))

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts, err := cfg.TransformOptions()
	if err != nil {
		return err
	}
	rules, err := cfg.ExclusionRules()
	if err != nil {
		return err
	}

	rendered, err := yaml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("failed to render options: %w", err)
	}

	fmt.Fprintf(out, "Configuration: %s\n\n", source)
	fmt.Fprintln(out, "Transform options:")
	fmt.Fprint(out, indent(string(rendered), "  "))
	fmt.Fprintf(out, "\nExclusion rules: %d\n", len(rules))
	for _, rule := range rules {
		fmt.Fprintf(out, "  - %s\n", rule)
	}

	check := "✓ Configuration is valid"
	if fancyOutput(out) {
		check = color.GreenString(check)
	}
	fmt.Fprintf(out, "\n%s\n", check)
	return nil
}

func indent(s, prefix string) string {
	var out []byte
	atLineStart := true
	for i := 0; i < len(s); i++ {
		if atLineStart && s[i] != '\n' {
			out = append(out, prefix...)
		}
		out = append(out, s[i])
		atLineStart = s[i] == '\n'
	}
	return string(out)
}
