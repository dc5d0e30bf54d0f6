// Package report formats what a run tells its user: the per-file size-delta
// line, the summary line, and full Markdown/HTML reports of recorded runs.
package report

import (
	"fmt"
	"math"

	"github.com/fatih/color"
)

var (
	pathColor    = color.New(color.FgHiBlack)
	deltaColor   = color.New(color.Bold, color.FgHiWhite)
	summaryColor = color.New(color.FgGreen)
)

// SizeDelta returns ((transformed - original) / transformed) * 100 using
// byte lengths. Division by zero and any other non-finite result yield 0.
func SizeDelta(originalSize, transformedSize int) float64 {
	if transformedSize == 0 {
		return 0
	}

	delta := (float64(transformedSize-originalSize) / float64(transformedSize)) * 100
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0
	}
	return delta
}

// FormatDelta renders a delta with one decimal place, e.g. "-42.7%".
func FormatDelta(delta float64) string {
	return fmt.Sprintf("%.1f%%", delta)
}

// FileLine is the plain per-file report line: "<relPath> <delta>%".
func FileLine(relPath string, delta float64) string {
	return relPath + " " + FormatDelta(delta)
}

// ColorFileLine is FileLine with a dim path and a bold figure.
func ColorFileLine(relPath string, delta float64) string {
	return pathColor.Sprint(relPath) + " " + deltaColor.Sprint(FormatDelta(delta))
}

// SummaryLine is the plain run summary: "✓ N files obfuscated."
func SummaryLine(count int) string {
	return fmt.Sprintf("✓ %d files obfuscated.", count)
}

// ColorSummaryLine is SummaryLine in green.
func ColorSummaryLine(count int) string {
	return summaryColor.Sprint(SummaryLine(count))
}
