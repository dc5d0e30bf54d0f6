package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the jsveil home directory.
const HomeEnv = "JSVEIL_HOME"

// Home returns the jsveil home directory: $JSVEIL_HOME when set, otherwise
// .jsveil in the current working directory. Nothing is created; the log
// and history writers create their own directories on first use.
func Home() (string, error) {
	home := os.Getenv(HomeEnv)
	if home == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		home = filepath.Join(cwd, ".jsveil")
	}
	return home, nil
}

// HistoryDBPath returns the history database path inside home.
func HistoryDBPath(home string) string {
	return filepath.Join(home, "history.db")
}
