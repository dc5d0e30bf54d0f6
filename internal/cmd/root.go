package cmd

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for jsveil
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jsveil",
		Short: "Post-build obfuscation of client-side scripts",
		Long: `jsveil rewrites the client-side JavaScript of a finished static site build
in place, making it harder to read.

It walks the build output directory, selects every .js file that no
exclusion rule matches, runs each one through the transformation engine
concurrently and reports the size change per file.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main prints the error once
		SilenceErrors: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewPresetsCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// fancyOutput reports whether w is a color-capable terminal.
func fancyOutput(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
