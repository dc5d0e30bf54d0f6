package models

import "time"

// Run status constants
const (
	StatusSuccess = "SUCCESS" // Every selected file was written
	StatusFailed  = "FAILED"  // The run aborted on the first failure
	StatusDryRun  = "DRY_RUN" // Files were transformed but not written
)

// FileResult is the outcome of processing a single selected file.
// It carries the data behind the per-file report line.
type FileResult struct {
	Path            string        // Absolute path as emitted by the walker
	RelPath         string        // Path below the processed root, "/"-separated, no leading "/"
	OriginalSize    int           // Byte length of the content read from disk
	TransformedSize int           // Byte length of the transformer output
	Delta           float64       // Size-delta percentage, always finite
	OriginalHash    string        // xxh3-128 digest of the original content
	TransformedHash string        // xxh3-128 digest of the transformed content
	Duration        time.Duration // Time spent on read, transform and write
	Written         bool          // Whether the output reached its target path
	Error           error         // Non-nil when the file's task failed
}

// Succeeded reports whether the file was processed without error.
func (r FileResult) Succeeded() bool {
	return r.Error == nil
}

// RunResult represents the aggregate outcome of one build-completion hook run
type RunResult struct {
	ID         string        // Run identifier (UUID)
	Root       string        // Absolute output root that was processed
	Preset     string        // Transform preset the options were merged from
	Status     string        // SUCCESS, FAILED or DRY_RUN
	Discovered int           // Script files found by the walker
	Excluded   int           // Files removed by the exclusion filter
	Processed  int           // Files whose task completed successfully
	StartedAt  time.Time     // When the hook started
	Duration   time.Duration // Total hook time
	Files      []FileResult  // Per-file outcomes in selection order
	Error      string        // Run-level error message, empty on success
}

// Failed returns the file results that carry an error, in selection order.
func (r *RunResult) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Error != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// BytesSaved returns the total original size minus the total transformed
// size of successfully processed files. Negative when output grew.
func (r *RunResult) BytesSaved() int {
	saved := 0
	for _, f := range r.Files {
		if f.Error == nil {
			saved += f.OriginalSize - f.TransformedSize
		}
	}
	return saved
}
