package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Phase is the step of a run in which an error occurred.
type Phase int

const (
	// PhaseWalk covers enumerating the output root.
	PhaseWalk Phase = iota
	// PhaseFilter covers applying exclusion rules.
	PhaseFilter
	// PhaseRead covers reading a selected file.
	PhaseRead
	// PhaseTransform covers the transformer call for a file.
	PhaseTransform
	// PhaseWrite covers writing (or staging) transformed output.
	PhaseWrite
	// PhaseCommit covers renaming staged output over its target.
	PhaseCommit
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	switch p {
	case PhaseWalk:
		return "walk"
	case PhaseFilter:
		return "filter"
	case PhaseRead:
		return "read"
	case PhaseTransform:
		return "transform"
	case PhaseWrite:
		return "write"
	case PhaseCommit:
		return "commit"
	default:
		return "unknown"
	}
}

// FileError is a failure tied to one path.
type FileError struct {
	Phase   Phase
	Path    string // Absolute path
	RelPath string // Display path below the root, empty for the root itself
	Err     error
}

// Error implements the error interface for FileError.
func (e *FileError) Error() string {
	path := e.RelPath
	if path == "" {
		path = e.Path
	}
	return fmt.Sprintf("%s %s: %v", e.Phase, path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *FileError) Unwrap() error {
	return e.Err
}

// Cancelled reports whether the file's task stopped because the run was
// cancelled rather than because the file itself failed.
func (e *FileError) Cancelled() bool {
	return errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded)
}

// ExecutionError aggregates the file failures of one run.
type ExecutionError struct {
	Root       string
	TotalFiles int          // Files selected for the run
	FileErrors []*FileError // Failed files, in selection order
	Cancelled  int          // Tasks abandoned after the first failure
	Cause      error        // Set when the caller's context ended the run
}

// Error implements the error interface for ExecutionError.
func (e *ExecutionError) Error() string {
	var sb strings.Builder

	if len(e.FileErrors) == 0 && e.Cause != nil {
		fmt.Fprintf(&sb, "obfuscation of %s cancelled: %v", e.Root, e.Cause)
		return sb.String()
	}

	fmt.Fprintf(&sb, "obfuscation of %s failed: %d/%d files failed", e.Root, len(e.FileErrors), e.TotalFiles)
	if e.Cancelled > 0 {
		fmt.Fprintf(&sb, ", %d cancelled", e.Cancelled)
	}
	if len(e.FileErrors) > 0 {
		sb.WriteString(":")
		for _, fe := range e.FileErrors {
			fmt.Fprintf(&sb, "\n  - %s", fe.Error())
		}
	}
	return sb.String()
}

// Unwrap exposes every file error, and the cancellation cause if any, to
// errors.Is and errors.As.
func (e *ExecutionError) Unwrap() []error {
	errs := make([]error, 0, len(e.FileErrors)+1)
	for _, fe := range e.FileErrors {
		errs = append(errs, fe)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
