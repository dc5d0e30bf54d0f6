package cmd

import (
	"github.com/harrison/jsveil/internal/report"
	"github.com/harrison/jsveil/internal/transform"
	"github.com/spf13/cobra"
)

// NewPresetsCommand creates the presets command
func NewPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List transform presets and their option values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return report.PresetsTable(out, transform.PresetNames(), fancyOutput(out))
		},
	}
}
