// Package promote moves fixed copies of documents over their originals.
package promote

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrCancelled is returned when the user declines or aborts the prompt.
var ErrCancelled = errors.New("promotion cancelled")

// Pair is a fixed copy and the original it replaces.
type Pair struct {
	Fixed    string
	Original string
}

// Find returns the pairs in dir whose fixed copy ends in suffix+".xml",
// sorted by original path. A fixed copy without an original is still
// returned; promoting it creates the original.
func Find(dir, suffix string) ([]Pair, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+suffix+".xml"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	pairs := make([]Pair, 0, len(matches))
	for _, m := range matches {
		orig := strings.TrimSuffix(m, suffix+".xml") + ".xml"
		pairs = append(pairs, Pair{Fixed: m, Original: orig})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Original < pairs[j].Original })
	return pairs, nil
}

// Apply renames every fixed copy over its original, continuing past
// failures. It returns the pairs that were promoted and the joined errors.
func Apply(pairs []Pair) ([]Pair, error) {
	var done []Pair
	var errs []error
	for _, p := range pairs {
		if err := os.Rename(p.Fixed, p.Original); err != nil {
			errs = append(errs, fmt.Errorf("promoting %s: %w", p.Fixed, err))
			continue
		}
		done = append(done, p)
	}
	return done, errors.Join(errs...)
}

// Confirm asks on the terminal whether to promote n files.
func Confirm(n int) error {
	ok := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Replace %d original file(s) with their fixed copies?", n)).
			Affirmative("Replace").
			Negative("Cancel").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("prompt: %w", err)
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}
