package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/harrison/jsveil/internal/models"
	"github.com/harrison/jsveil/internal/transform"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(out io.Writer, fancy bool) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)

	style := table.StyleDefault
	if fancy {
		style = table.StyleRounded
		style.Color.Header = text.Colors{text.Italic}
		style.Color.Border = text.Colors{text.FgHiBlack}
		style.Color.Separator = text.Colors{text.FgHiBlack}
	}
	style.Format.Header = text.FormatDefault
	t.SetStyle(style)

	return t
}

// RunsTable writes one row per run, in the order given.
func RunsTable(out io.Writer, runs []*models.RunResult, fancy bool) {
	t := newTable(out, fancy)
	t.AppendHeader(table.Row{"ID", "Started", "Status", "Processed", "Excluded", "Saved", "Duration", "Root"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status,
			r.Processed,
			r.Excluded,
			r.BytesSaved(),
			r.Duration.Round(time.Millisecond).String(),
			r.Root,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}

// PresetsTable writes the option values of each named preset.
func PresetsTable(out io.Writer, names []string, fancy bool) error {
	t := newTable(out, fancy)
	t.AppendHeader(table.Row{"Preset", "Keep var names", "Precision", "Version"})
	for _, name := range names {
		opts, err := transform.Preset(name)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{
			name,
			strconv.FormatBool(opts.KeepVarNames),
			precisionLabel(opts.Precision),
			versionLabel(opts.Version),
		})
	}
	t.Render()
	return nil
}

func precisionLabel(p int) string {
	if p == 0 {
		return "full"
	}
	return strconv.Itoa(p)
}

func versionLabel(v int) string {
	if v == 0 {
		return "latest"
	}
	return fmt.Sprintf("ES%d", v)
}
