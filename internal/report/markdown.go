package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/harrison/jsveil/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders a recorded run as a Markdown document: a header table
// with run statistics followed by one row per selected file.
func Markdown(run *models.RunResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# jsveil run %s\n\n", run.ID)
	sb.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Root | `%s` |\n", run.Root)
	if run.Preset != "" {
		fmt.Fprintf(&sb, "| Preset | %s |\n", run.Preset)
	}
	fmt.Fprintf(&sb, "| Status | %s |\n", run.Status)
	fmt.Fprintf(&sb, "| Started | %s |\n", run.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "| Duration | %s |\n", run.Duration.Round(time.Millisecond))
	fmt.Fprintf(&sb, "| Discovered | %d |\n", run.Discovered)
	fmt.Fprintf(&sb, "| Excluded | %d |\n", run.Excluded)
	fmt.Fprintf(&sb, "| Processed | %d |\n", run.Processed)
	fmt.Fprintf(&sb, "| Bytes saved | %d |\n", run.BytesSaved())
	if run.Error != "" {
		fmt.Fprintf(&sb, "| Error | %s |\n", escapeCell(run.Error))
	}

	sb.WriteString("\n## Files\n\n")
	if len(run.Files) == 0 {
		sb.WriteString("No files were selected.\n")
		return sb.String()
	}

	sb.WriteString("| File | Original | Transformed | Delta | Written | Error |\n")
	sb.WriteString("|---|---:|---:|---:|:---:|---|\n")
	for _, f := range run.Files {
		written := "no"
		if f.Written {
			written = "yes"
		}
		errMsg := ""
		if f.Error != nil {
			errMsg = escapeCell(f.Error.Error())
		}
		fmt.Fprintf(&sb, "| `%s` | %d | %d | %s | %s | %s |\n",
			f.RelPath, f.OriginalSize, f.TransformedSize, FormatDelta(f.Delta), written, errMsg)
	}

	return sb.String()
}

// RenderHTML converts Markdown produced by this package to HTML.
func RenderHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
