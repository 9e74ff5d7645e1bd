// Package discover resolves which documents a command operates on.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoBaseDir is returned when no candidate directory holds a document set.
var ErrNoBaseDir = errors.New("can't find xerex-system directory")

// Files returns args unchanged when any are given; otherwise the sorted
// matches of pattern inside dir.
func Files(args []string, dir, pattern string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// BaseDir returns the first candidate directory that contains at least one
// of the marker subdirectories. A leading "~" is expanded.
func BaseDir(candidates []string, markers ...string) (string, error) {
	for _, c := range candidates {
		dir, err := ExpandHome(c)
		if err != nil {
			continue
		}
		for _, m := range markers {
			if isDir(filepath.Join(dir, m)) {
				return dir, nil
			}
		}
	}
	return "", fmt.Errorf("%w (looked in %s)", ErrNoBaseDir, strings.Join(candidates, ", "))
}

// Split partitions base-relative paths into those that exist and those
// that do not, preserving order.
func Split(base string, paths []string) (found, missing []string) {
	for _, p := range paths {
		full := filepath.Join(base, p)
		if _, err := os.Stat(full); err == nil {
			found = append(found, full)
		} else {
			missing = append(missing, full)
		}
	}
	return found, missing
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// WithSuffix inserts suffix before the extension of path:
// "a/style_v1.xml" + "_fixed" → "a/style_v1_fixed.xml".
func WithSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
