// Package utils holds small filesystem helpers shared by the
// configuration and sidecar-storage layers.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ to the user's home directory and
// resolves the result to an absolute path.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("utils: resolve home directory: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, path[2:])
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("utils: resolve absolute path: %w", err)
	}
	return abs, nil
}

// EnsureDir creates path (and any missing parents) if it does not
// already exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
