package fileutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (and their parent directories) below root.
func writeTree(t *testing.T, root string, files []string) {
	t.Helper()

	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("console.log(1)"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func relAll(t *testing.T, root string, files []string) []string {
	t.Helper()

	rels := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
	}
	return rels
}

func TestScanDirectory(t *testing.T) {
	// tmpDir/
	//   index.js
	//   index.html
	//   app.JS
	//   app.js.map
	//   _astro/
	//     chunk-1.js
	//     styles.css
	//     vendor/
	//       lib.js
	//       deep/
	//         deeper/
	//           x.js
	//   .hidden/
	//     h.js
	//   node_modules/
	//     dep.js
	//   dir.js/
	//     inner.txt
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{
		"index.js",
		"index.html",
		"app.JS",
		"app.js.map",
		"_astro/chunk-1.js",
		"_astro/styles.css",
		"_astro/vendor/lib.js",
		"_astro/vendor/deep/deeper/x.js",
		".hidden/h.js",
		"node_modules/dep.js",
		"dir.js/inner.txt",
	})

	tests := []struct {
		name string
		opts ScanOptions
		want []string
	}{
		{
			name: "script files at every depth",
			opts: ScanOptions{Extensions: []string{ScriptExtension}},
			want: []string{
				".hidden/h.js",
				"_astro/chunk-1.js",
				"_astro/vendor/deep/deeper/x.js",
				"_astro/vendor/lib.js",
				"index.js",
				"node_modules/dep.js",
			},
		},
		{
			name: "extension without dot prefix",
			opts: ScanOptions{Extensions: []string{"css"}},
			want: []string{"_astro/styles.css"},
		},
		{
			name: "exclude directories by name",
			opts: ScanOptions{Extensions: []string{".js"}, ExcludeDirs: []string{"vendor", "node_modules"}},
			want: []string{".hidden/h.js", "_astro/chunk-1.js", "index.js"},
		},
		{
			name: "max depth 1 is root only",
			opts: ScanOptions{Extensions: []string{".js"}, MaxDepth: 1},
			want: []string{"index.js"},
		},
		{
			name: "max depth 2",
			opts: ScanOptions{Extensions: []string{".js"}, MaxDepth: 2},
			want: []string{".hidden/h.js", "_astro/chunk-1.js", "index.js", "node_modules/dep.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(tmpDir, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relAll(t, tmpDir, result.Files))

			for _, f := range result.Files {
				assert.True(t, filepath.IsAbs(f), "path %s should be absolute", f)
			}
		})
	}
}

func TestScanDirectory_NoExtensionFilter(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"a.js", "b.txt", "sub/c"})

	result, err := ScanDirectory(tmpDir, ScanOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js", "b.txt", "sub/c"}, relAll(t, tmpDir, result.Files))
	assert.Equal(t, 2, result.Dirs)
}

func TestScanDirectory_Errors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := ScanDirectory(filepath.Join(t.TempDir(), "missing"), ScanOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to access directory")
	})

	t.Run("root is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "a.js")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		_, err := ScanDirectory(file, ScanOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("unreadable subdirectory aborts", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced for this user")
		}

		tmpDir := t.TempDir()
		writeTree(t, tmpDir, []string{"a.js", "locked/b.js"})
		locked := filepath.Join(tmpDir, "locked")
		require.NoError(t, os.Chmod(locked, 0000))
		t.Cleanup(func() { os.Chmod(locked, 0755) })

		_, err := ScanDirectory(tmpDir, ScanOptions{Extensions: []string{".js"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrPermission)
	})
}

func TestScanDirectory_SkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"real.js"})
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "real.js"), filepath.Join(tmpDir, "link.js")))

	files, err := FindScripts(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"real.js"}, relAll(t, tmpDir, files))
}

func TestFindScripts_EmptyRoot(t *testing.T) {
	files, err := FindScripts(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRelativePath(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "out")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "top level", path: filepath.Join(root, "a.js"), want: "a.js"},
		{name: "nested", path: filepath.Join(root, "_astro", "b.js"), want: "_astro/b.js"},
		{name: "outside root", path: filepath.Join(string(filepath.Separator), "elsewhere", "c.js"), want: filepath.Join(string(filepath.Separator), "elsewhere", "c.js")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativePath(root, tt.path))
		})
	}
}
