// Package formula patches the obsolete character-based context formula in
// profile documents and advances the metadata that travels with the fix.
package formula

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/dshills/xerex/internal/config"
	"github.com/dshills/xerex/internal/discover"
	"github.com/dshills/xerex/internal/doc"
)

// Options toggles the optional steps of a patch run.
type Options struct {
	AddMonitor bool
	DryRun     bool
}

// Patcher rewrites documents for one release transition.
type Patcher struct {
	rules       config.FormulaRules
	versions    config.Versions
	declaration string
	patterns    []*regexp.Regexp
	log         *zap.Logger
}

// New compiles the configured formula patterns. log may be nil.
func New(rules config.FormulaRules, versions config.Versions, declaration string, log *zap.Logger) (*Patcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	patterns := make([]*regexp.Regexp, 0, len(rules.Patterns))
	for _, p := range rules.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling formula pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return &Patcher{
		rules:       rules,
		versions:    versions,
		declaration: declaration,
		patterns:    patterns,
		log:         log,
	}, nil
}

// ReplaceText substitutes every pattern match in s and returns the new
// text with the number of replacements made.
func (p *Patcher) ReplaceText(s string) (string, int) {
	n := 0
	for _, re := range p.patterns {
		matches := len(re.FindAllStringIndex(s, -1))
		if matches == 0 {
			continue
		}
		n += matches
		s = re.ReplaceAllLiteralString(s, p.rules.Replacement)
	}
	return s, n
}

// Patch applies every step to the tree of d and returns the changes made.
func (p *Patcher) Patch(d *doc.Document, opts Options) []string {
	root := d.Root()
	var changes []string

	doc.Walk(root, func(el *etree.Element) {
		text := el.Text()
		if text == "" {
			return
		}
		if next, n := p.ReplaceText(text); n > 0 {
			el.SetText(next)
			changes = append(changes, fmt.Sprintf("Fixed formula in <%s>", el.Tag))
		}
	})

	if el := root.FindElement(".//current_version"); el != nil && el.Text() == p.versions.From {
		el.SetText(p.versions.To)
		changes = append(changes, "Updated version to "+p.versions.To)
	}

	doc.Walk(root, func(el *etree.Element) {
		if el.Tag == "version" && el.Text() == p.versions.From {
			el.SetText(p.versions.To)
			changes = append(changes, fmt.Sprintf("Updated <%s> to %s", el.Tag, p.versions.To))
		}
	})

	if s := p.rules.Session; s.Enabled() {
		if el := root.FindElement(".//session_created"); el != nil && el.Text() == s.From {
			el.SetText(s.To)
			changes = append(changes, "Updated session to "+s.To)
		}
	}

	if tr := p.rules.Trust; tr.Enabled() {
		if el := root.FindElement(".//trust_level[@value]"); el != nil && el.SelectAttrValue("value", "") == tr.From {
			el.CreateAttr("value", tr.To)
			changes = append(changes, "Updated trust to "+tr.To)
		}
	}

	if note := p.rules.Improvement; note != "" {
		if imp := root.FindElement(".//improvements"); imp != nil && !hasChildText(imp, "improvement", note) {
			imp.CreateElement("improvement").SetText(note)
			changes = append(changes, "Added context fix note")
		}
	}

	if opts.AddMonitor && root.FindElement(".//context_monitor") == nil {
		if recurring := root.FindElement(".//recurring_elements"); recurring != nil {
			m := recurring.CreateElement("context_monitor")
			m.CreateElement("method").SetText(p.rules.Monitor.Method)
			m.CreateElement("formula").SetText(p.rules.Monitor.Formula)
			m.CreateElement("branch_aware").SetText(strconv.FormatBool(p.rules.Monitor.BranchAware))
			m.CreateElement("reset_on_branch").SetText(strconv.FormatBool(p.rules.Monitor.ResetOnBranch))
			changes = append(changes, "Added token-based context monitor")
		}
	}

	return changes
}

// Result describes the outcome of patching one file.
type Result struct {
	Path    string
	Output  string // empty when nothing was written
	Changes []string
	Before  string
	After   string
}

// PatchFile loads path, patches it, and when anything changed writes the
// result next to it with the configured output suffix.
func (p *Patcher) PatchFile(path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d, err := doc.Parse(path, data)
	if err != nil {
		return nil, fmt.Errorf("XML Parse Error: %w", err)
	}

	res := &Result{Path: path, Before: string(data), Changes: p.Patch(d, opts)}
	if len(res.Changes) == 0 {
		res.After = res.Before
		return res, nil
	}

	out, err := d.Bytes(p.declaration)
	if err != nil {
		return nil, err
	}
	res.After = string(out)
	if opts.DryRun {
		return res, nil
	}

	output := discover.WithSuffix(path, p.rules.OutputSuffix)
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", output, err)
	}
	res.Output = output
	p.log.Debug("patched document",
		zap.String("path", path),
		zap.String("output", output),
		zap.Int("changes", len(res.Changes)))
	return res, nil
}

func hasChildText(parent *etree.Element, tag, text string) bool {
	for _, c := range parent.SelectElements(tag) {
		if c.Text() == text {
			return true
		}
	}
	return false
}
