// Package repair applies a fixed sequence of textual sanitizations that turn
// the common hand-edit damage in profile documents back into well-formed XML.
package repair

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/xerex/internal/config"
)

// entityPattern matches an ampersand and, when present, the entity or
// character reference it starts.
var entityPattern = regexp.MustCompile(`&(amp;|lt;|gt;|quot;|apos;|#[0-9]+;|#x[0-9a-fA-F]+;)?`)

// smartQuotes maps typographic quotes to their ASCII forms.
var smartQuotes = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"‘", "'", "’", "'",
)

// fix is one named sanitization step.
type fix struct {
	name  string
	apply func(string) string
}

// Repairer applies the sanitizations configured for a document set.
type Repairer struct {
	rules config.RepairRules
	fixes []fix
	log   *zap.Logger
}

// New returns a Repairer for rules. log may be nil.
func New(rules config.RepairRules, log *zap.Logger) *Repairer {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Repairer{rules: rules, log: log}
	r.fixes = []fix{
		{"byte-order mark", stripBOM},
		{"control characters", stripControls},
		{"xml declaration", r.ensureDeclaration},
		{"unescaped ampersands", escapeAmpersands},
		{"mojibake", FixMojibake},
		{"smart quotes", smartQuotes.Replace},
		{"missing closing tag", r.closeRoot},
		{"content after closing tag", r.truncateAfterRoot},
	}
	return r
}

// Repair runs every sanitization over content and returns the result along
// with the names of the steps that changed something.
func (r *Repairer) Repair(content string) (string, []string) {
	var applied []string
	for _, f := range r.fixes {
		next := f.apply(content)
		if next != content {
			applied = append(applied, f.name)
			content = next
		}
	}
	return content, applied
}

// Result describes the outcome of repairing one file.
type Result struct {
	Path     string
	Backup   string // empty when nothing was written
	Original string
	Repaired string
	Applied  []string
}

// Changed reports whether any sanitization modified the file.
func (r *Result) Changed() bool { return len(r.Applied) > 0 }

// RepairFile repairs the file at path. When the content changes and dryRun
// is false, the original is saved next to it with the backup suffix before
// the repaired content is written.
func (r *Repairer) RepairFile(path string, dryRun bool) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	original := string(data)
	repaired, applied := r.Repair(original)
	res := &Result{Path: path, Original: original, Repaired: repaired, Applied: applied}
	if !res.Changed() || dryRun {
		return res, nil
	}

	backup := path + r.rules.BackupSuffix
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing backup %s: %w", backup, err)
	}
	res.Backup = backup
	r.log.Debug("backed up document", zap.String("path", path), zap.String("backup", backup))

	if err := os.WriteFile(path, []byte(repaired), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	r.log.Debug("repaired document", zap.String("path", path), zap.Strings("fixes", applied))
	return res, nil
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}

// stripControls removes NUL and the other C0 controls XML 1.0 forbids.
// It works on bytes so documents in single-byte encodings pass through intact.
func stripControls(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (r *Repairer) ensureDeclaration(s string) string {
	trimmed := strings.TrimLeft(s, " \t\r\n")
	if strings.HasPrefix(trimmed, "<?xml") {
		return trimmed
	}
	return r.rules.Declaration + "\n" + s
}

func escapeAmpersands(s string) string {
	return entityPattern.ReplaceAllStringFunc(s, func(m string) string {
		if m == "&" {
			return "&amp;"
		}
		return m
	})
}

func (r *Repairer) closingTag() string { return "</" + r.rules.RootTag + ">" }

// opensRoot reports whether s contains a start tag for the root element.
func (r *Repairer) opensRoot(s string) bool {
	open := "<" + r.rules.RootTag
	for {
		i := strings.Index(s, open)
		if i < 0 {
			return false
		}
		s = s[i+len(open):]
		if s != "" && strings.ContainsRune(" \t\r\n>", rune(s[0])) {
			return true
		}
	}
}

func (r *Repairer) closeRoot(s string) string {
	if strings.Contains(s, r.closingTag()) || !r.opensRoot(s) {
		return s
	}
	return strings.TrimRight(s, " \t\r\n") + "\n" + r.closingTag()
}

func (r *Repairer) truncateAfterRoot(s string) string {
	idx := strings.Index(s, r.closingTag())
	if idx < 0 {
		return s
	}
	return s[:idx+len(r.closingTag())] + "\n"
}
