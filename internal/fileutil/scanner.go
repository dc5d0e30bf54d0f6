package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScriptExtension is the extension that marks a file as a client script.
const ScriptExtension = ".js"

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Extensions is a list of file extensions to include (e.g., ".js").
	// Matching is exact and case-sensitive. Empty means every regular file.
	Extensions []string
	// ExcludeDirs is a list of directory base names to prune (e.g., "node_modules")
	ExcludeDirs []string
	// MaxDepth limits recursion depth (0 = unlimited, 1 = root directory only)
	MaxDepth int
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the absolute paths of all matched files, sorted
	Files []string
	// Dirs is the number of directories visited, including the root
	Dirs int
}

// ScanDirectory walks dir and returns every regular file matching opts.
// Any I/O error, including an unreadable subdirectory, aborts the scan.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	// Create extension map for fast lookup
	extMap := make(map[string]bool)
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[ext] = true
	}

	excludeMap := make(map[string]bool)
	for _, name := range opts.ExcludeDirs {
		excludeMap[name] = true
	}

	result := &ScanResult{
		Files: make([]string, 0),
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing %s: %w", path, err)
		}

		if d.IsDir() {
			if path == root {
				result.Dirs++
				return nil
			}
			if excludeMap[d.Name()] {
				return filepath.SkipDir
			}
			if opts.MaxDepth > 0 && depth(root, path) >= opts.MaxDepth {
				return filepath.SkipDir
			}
			result.Dirs++
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if len(extMap) > 0 && !extMap[filepath.Ext(d.Name())] {
			return nil
		}

		result.Files = append(result.Files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(result.Files)

	return result, nil
}

// FindScripts returns the absolute paths of every script file below root.
func FindScripts(root string) ([]string, error) {
	result, err := ScanDirectory(root, ScanOptions{
		Extensions: []string{ScriptExtension},
	})
	if err != nil {
		return nil, err
	}
	return result.Files, nil
}

// RelativePath returns path relative to root, slash-separated and without a
// leading "/" ("_astro/app.js"). Paths outside root are returned as is.
func RelativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

// depth returns how many path segments path sits below root.
func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
