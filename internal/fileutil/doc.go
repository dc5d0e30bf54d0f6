// Package fileutil provides the directory walk that discovers client script
// files in a build output tree.
//
// # Purpose
//
// The walker is the first stage of every jsveil run. It enumerates a root
// directory at arbitrary depth and returns the absolute paths of every regular
// file whose name carries the script extension. Directories are traversed but
// never returned.
//
// # Key Features
//
//   - Recursive traversal with an optional depth limit
//   - Exact, case-sensitive extension matching (".js" only matches "x.js")
//   - Optional pruning of named directories (none by default)
//   - Symlinks are neither followed nor returned
//   - Sorted, deterministic output of absolute paths
//   - Fail-fast: an unreadable root or subdirectory aborts the scan
//
// # Main Components
//
// ScanOptions - configuration for a scan:
//   - Extensions: file extensions to include (e.g. ".js")
//   - ExcludeDirs: directory base names to prune
//   - MaxDepth: recursion limit (0 = unlimited, 1 = root only)
//
// ScanResult - outcome of a scan:
//   - Files: absolute paths of matched files, sorted
//   - Dirs: number of directories visited, root included
//
// # Usage Examples
//
// Discover every script file below a build output directory:
//
//	result, err := fileutil.ScanDirectory("dist", fileutil.ScanOptions{
//	    Extensions: []string{fileutil.ScriptExtension},
//	})
//	if err != nil {
//	    return fmt.Errorf("walk output: %w", err)
//	}
//	for _, file := range result.Files {
//	    fmt.Println(file)
//	}
//
// # Error Handling
//
// A permission error anywhere in the tree is returned immediately; the scan
// never yields a partial file list.
package fileutil
