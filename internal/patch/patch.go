package patch

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Stats counts the characters a change set inserts and deletes.
type Stats struct {
	Inserted int
	Deleted  int
}

func (s Stats) String() string {
	return fmt.Sprintf("+%d/-%d chars", s.Inserted, s.Deleted)
}

// Preview renders the change from before to after as diff-match-patch
// patch text headed by "# changes for <name>". Identical inputs, after
// line-ending normalization, yield "".
func Preview(name, before, after string) string {
	before, after = normalize(before), normalize(after)
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	patchText := dmp.PatchToText(dmp.PatchMake(before, diffs))
	if patchText == "" {
		return ""
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("# changes for %s\n", name))
	out.WriteString(patchText)
	if !strings.HasSuffix(patchText, "\n") {
		out.WriteString("\n")
	}
	return out.String()
}

// Count returns the inserted and deleted character counts between before and after.
func Count(before, after string) Stats {
	dmp := diffmatchpatch.New()
	var s Stats
	for _, d := range dmp.DiffMain(normalize(before), normalize(after), false) {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			s.Inserted += n
		case diffmatchpatch.DiffDelete:
			s.Deleted += n
		}
	}
	return s
}

// normalize converts CRLF to LF so line endings alone never show up as changes.
func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
