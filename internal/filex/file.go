// Package filex stages uploaded files on local disk before they are handed
// to the media host.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// StagingPath returns a collision-free path inside dir for an upload whose
// client-side name was original. Only the extension of original is kept.
func StagingPath(dir, original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	return filepath.Join(dir, uuid.NewString()+ext)
}

// RemoveQuietly deletes the given files, ignoring empty paths and files that
// are already gone. It returns the first other error encountered.
func RemoveQuietly(paths ...string) error {
	var first error
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && first == nil {
			first = err
		}
	}
	return first
}
