package cmd

import (
	"fmt"
	"os"

	"github.com/harrison/jsveil/internal/filelock"
	"github.com/harrison/jsveil/internal/history"
	"github.com/harrison/jsveil/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command and its show subcommand
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE:  historyListCommand,
	}
	cmd.PersistentFlags().String("config", "", "Path to config file (default: .jsveil/config.yaml)")
	cmd.PersistentFlags().String("db", "", "History database path (overrides config)")
	cmd.Flags().Int("limit", 20, "Maximum number of runs to list (0 = all)")

	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the report of a recorded run",
		Long: `Print the report of a recorded run as Markdown, or as HTML with --html.
The run ID may be abbreviated to any unique prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: historyShowCommand,
	}
	show.Flags().Bool("html", false, "Render the report as HTML")
	show.Flags().String("output", "", "Write the report to a file instead of stdout")
	cmd.AddCommand(show)

	return cmd
}

// openHistory opens the configured history database. It returns a nil store
// when no database exists yet.
func openHistory(cmd *cobra.Command) (*history.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		if cfg.History.DBPath == "" {
			cfg.History.Enabled = true
			if err := cfg.ResolvePaths(); err != nil {
				return nil, err
			}
		}
		dbPath = cfg.History.DBPath
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, nil
	}
	store, err := history.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return store, nil
}

func historyListCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	report.RunsTable(out, runs, fancyOutput(out))
	return nil
}

func historyShowCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("%w: %s (no history database)", history.ErrRunNotFound, args[0])
	}
	defer store.Close()

	run, err := store.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	doc := report.Markdown(run)
	if asHTML, _ := cmd.Flags().GetBool("html"); asHTML {
		doc, err = report.RenderHTML(doc)
		if err != nil {
			return err
		}
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		fmt.Fprint(out, doc)
		return nil
	}
	if err := filelock.AtomicWrite(output, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(out, "Report written to %s\n", output)
	return nil
}
