package filelock

import (
	"fmt"
	"os"
	"path/filepath"
)

// StagedFile is content written to a temp file beside its target, waiting
// to be renamed over it.
type StagedFile struct {
	Target   string
	TempPath string
	done     bool
}

// Stage writes data to a hidden temp file in the target's directory, so the
// later rename stays on one filesystem. The temp file gets perm.
func Stage(target string, data []byte, perm os.FileMode) (*StagedFile, error) {
	dir := filepath.Dir(target)
	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(target)+".jsveil-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	fail := func(format string, err error) (*StagedFile, error) {
		tempFile.Close()
		os.Remove(tempPath)
		return nil, fmt.Errorf(format, err)
	}

	if _, err := tempFile.Write(data); err != nil {
		return fail("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fail("failed to sync temp file: %w", err)
	}
	if err := tempFile.Chmod(perm); err != nil {
		return fail("failed to set permissions: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	return &StagedFile{Target: target, TempPath: tempPath}, nil
}

// Commit renames the staged file over its target.
func (s *StagedFile) Commit() error {
	if s.done {
		return nil
	}
	if err := os.Rename(s.TempPath, s.Target); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", s.Target, err)
	}
	s.done = true
	return nil
}

// Discard removes the staged file. A committed or already removed file is
// not an error.
func (s *StagedFile) Discard() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := os.Remove(s.TempPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temp file %s: %w", s.TempPath, err)
	}
	return nil
}

// AtomicWrite writes data to path through a staged temp file and a rename,
// so readers never see partial content. Parent directories are created.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	staged, err := Stage(path, data, perm)
	if err != nil {
		return err
	}
	if err := staged.Commit(); err != nil {
		staged.Discard()
		return err
	}
	return nil
}
