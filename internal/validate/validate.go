// Package validate runs the structural checks on profile documents: rule
// count and keywords, character-count headroom, and the version literal.
package validate

import (
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/dshills/xerex/internal/config"
	"github.com/dshills/xerex/internal/doc"
	"github.com/dshills/xerex/internal/profile"
	"github.com/dshills/xerex/internal/schema"
)

// Validator checks documents against one set of rules and one profile.
type Validator struct {
	rules config.ValidateRules
	prof  *profile.Profile
	log   *zap.Logger
}

// New returns a Validator. log may be nil.
func New(rules config.ValidateRules, prof *profile.Profile, log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{rules: rules, prof: prof, log: log}
}

// File reads, parses and checks the document at path. Read and parse
// failures are reported as a single failing parse check.
func (v *Validator) File(path string) schema.FileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		v.log.Warn("cannot read document", zap.String("path", path), zap.Error(err))
		return schema.NewFileResult(path, schema.Fail(schema.CheckParse, "Cannot read file: %s", err))
	}
	d, err := doc.Parse(path, data)
	if err != nil {
		v.log.Debug("parse failed", zap.String("path", path), zap.Error(err))
		return schema.NewFileResult(path, schema.Fail(schema.CheckParse, "XML Parse Error: %s", err))
	}
	return v.Document(d)
}

// Document runs the three independent checks on a parsed document.
func (v *Validator) Document(d *doc.Document) schema.FileResult {
	root := d.Root()
	return schema.NewFileResult(d.Path,
		v.Rules(root),
		v.CharacterCount(root),
		v.Version(root),
	)
}

// Rules checks that behavioral_rules holds at least MinRules rules and
// that every keyword appears in some rule's text.
func (v *Validator) Rules(root *etree.Element) schema.Check {
	container := root.FindElement(".//behavioral_rules")
	if container == nil || len(container.ChildElements()) == 0 {
		return schema.Fail(schema.CheckRules, "No behavioral_rules found")
	}

	rules := container.ChildElements()
	if len(rules) < v.rules.MinRules {
		return schema.Fail(schema.CheckRules, "Only %d rules (need %d+)", len(rules), v.rules.MinRules)
	}

	if missing := missingKeywords(rules, v.rules.Keywords); len(missing) > 0 {
		return schema.Fail(schema.CheckRules, "Missing self-referential rules (no rule mentions %s)", quoteAll(missing))
	}
	return schema.Pass(schema.CheckRules, "%d behavioral rules with self-reference", len(rules))
}

// CharacterCount checks that the target leaves TargetRatio headroom under
// the limit. A document without the metadata only warns.
func (v *Validator) CharacterCount(root *etree.Element) schema.Check {
	cc, ok, err := doc.ReadCharacterCount(root)
	if !ok || (err == nil && !cc.HasCurrent && !cc.HasLimit && !cc.HasTarget) {
		return schema.Warn(schema.CheckCharacterCount, "No character count metadata")
	}
	if err != nil {
		return schema.Fail(schema.CheckCharacterCount, "Invalid character count: %s", err)
	}
	if cc.HasLimit && cc.HasTarget && float64(cc.Target) > float64(cc.Limit)*v.rules.TargetRatio {
		return schema.Fail(schema.CheckCharacterCount, "Target too high (%d/%d)", cc.Target, cc.Limit)
	}
	return schema.Pass(schema.CheckCharacterCount, "Character count optimized")
}

// Version checks current_version against the expected literal.
func (v *Validator) Version(root *etree.Element) schema.Check {
	expected := v.rules.ExpectedVersion
	el := doc.FindVersion(root, v.prof.RootFirstVersion)
	if el == nil {
		if v.prof.DetailedVersion {
			return schema.Fail(schema.CheckVersion, "No version found")
		}
		return schema.Fail(schema.CheckVersion, "Wrong version")
	}

	text := el.Text()
	if v.prof.TrimVersion {
		text = strings.TrimSpace(text)
	}
	if text == expected {
		return schema.Pass(schema.CheckVersion, "Version %s confirmed", expected)
	}
	if v.prof.DetailedVersion {
		return schema.Fail(schema.CheckVersion, "Wrong version (found: '%s')", text)
	}
	return schema.Fail(schema.CheckVersion, "Wrong version")
}

func missingKeywords(rules []*etree.Element, keywords []string) []string {
	var missing []string
	for _, kw := range keywords {
		found := false
		for _, r := range rules {
			if strings.Contains(r.Text(), kw) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, kw)
		}
	}
	return missing
}

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(q, ", ")
}
