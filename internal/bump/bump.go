// Package bump advances a document set to a new release with plain string
// edits, for documents too damaged to round-trip through an XML parser.
package bump

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/xerex/internal/config"
)

// Bumper applies the release edits of one version transition.
type Bumper struct {
	versions    config.Versions
	rules       config.BumpRules
	replacement string
	log         *zap.Logger
}

// New returns a Bumper. replacement is the current context formula that
// every stale formula literal is rewritten to. log may be nil.
func New(versions config.Versions, rules config.BumpRules, replacement string, log *zap.Logger) *Bumper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bumper{versions: versions, rules: rules, replacement: replacement, log: log}
}

// Apply returns content with every edit applied and a description of each
// edit that changed something. name is the file name, used to decide
// whether the missing-rule fix applies.
func (b *Bumper) Apply(name, content string) (string, []string) {
	var edits []string

	if n := strings.Count(content, b.versions.From); n > 0 {
		content = strings.ReplaceAll(content, b.versions.From, b.versions.To)
		edits = append(edits, fmt.Sprintf("Replaced %s with %s (%d)", b.versions.From, b.versions.To, n))
	}

	for _, old := range b.rules.StaleFormulas {
		if n := strings.Count(content, old); n > 0 {
			content = strings.ReplaceAll(content, old, b.replacement)
			edits = append(edits, fmt.Sprintf("Fixed formula %q (%d)", old, n))
		}
	}

	for _, r := range b.rules.Replacements {
		if n := strings.Count(content, r.Old); n > 0 {
			content = strings.ReplaceAll(content, r.Old, r.New)
			edits = append(edits, fmt.Sprintf("Replaced %q (%d)", r.Old, n))
		}
	}

	if next, ok := b.addMissingRule(name, content); ok {
		content = next
		edits = append(edits, fmt.Sprintf("Added <%s>", b.rules.MissingRule.Tag))
	}

	return content, edits
}

func (b *Bumper) addMissingRule(name, content string) (string, bool) {
	m := b.rules.MissingRule
	if !m.Enabled() || !strings.Contains(filepath.Base(name), m.FileContains) {
		return content, false
	}
	closing := "</" + m.Container + ">"
	if !strings.Contains(content, "<"+m.Requires+">") ||
		strings.Contains(content, "<"+m.Tag+">") ||
		!strings.Contains(content, closing) {
		return content, false
	}
	rule := fmt.Sprintf("<%s>%s</%s>\n", m.Tag, m.Text, m.Tag)
	return strings.Replace(content, closing, rule+closing, 1), true
}

// Result describes the outcome of bumping one file.
type Result struct {
	Path    string
	Before  string
	After   string
	Edits   []string
	Written bool
}

// BumpFile applies the edits to path and rewrites it in place when the
// content changed and dryRun is false.
func (b *Bumper) BumpFile(path string, dryRun bool) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	before := string(data)
	after, edits := b.Apply(path, before)
	res := &Result{Path: path, Before: before, After: after, Edits: edits}
	if after == before || dryRun {
		return res, nil
	}

	if err := os.WriteFile(path, []byte(after), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	res.Written = true
	b.log.Debug("bumped document", zap.String("path", path), zap.Strings("edits", edits))
	return res, nil
}
