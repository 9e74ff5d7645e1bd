package repair

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/xerex/internal/config"
	"github.com/dshills/xerex/internal/doc"
)

const decl = `<?xml version="1.0" encoding="UTF-8"?>`

func newRepairer() *Repairer {
	return New(config.Default().Repair, nil)
}

func TestRepair_MalformedBecomesWellFormed(t *testing.T) {
	input := "\ufeff<project_knowledge>\n" +
		"  <doc>R&D notes\x00 with “quotes” and &amp; kept</doc>\n" +
		"  <doc>Formula: (Characters Ã· 800,000) Ã— 100</doc>\n"
	if err := doc.WellFormed([]byte(input)); err == nil {
		t.Fatal("fixture should start out malformed")
	}

	out, applied := newRepairer().Repair(input)
	if err := doc.WellFormed([]byte(out)); err != nil {
		t.Fatalf("repaired output not well-formed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, decl+"\n") {
		t.Errorf("missing declaration: %q", out)
	}
	if !strings.Contains(out, "R&amp;D") || strings.Contains(out, "&amp;amp;") {
		t.Errorf("ampersands not escaped exactly once: %q", out)
	}
	if !strings.Contains(out, `"quotes"`) {
		t.Errorf("smart quotes not replaced: %q", out)
	}
	if !strings.Contains(out, "(Characters ÷ 800,000) × 100") {
		t.Errorf("mojibake not repaired: %q", out)
	}
	if !strings.HasSuffix(out, "</project_knowledge>\n") {
		t.Errorf("closing tag not appended: %q", out)
	}
	want := []string{
		"byte-order mark", "control characters", "xml declaration", "unescaped ampersands",
		"mojibake", "smart quotes", "missing closing tag", "content after closing tag",
	}
	if diff := cmp.Diff(want, applied); diff != "" {
		t.Errorf("applied fixes mismatch (-want +got):\n%s", diff)
	}
}

func TestRepair_TruncatesAfterClosingTag(t *testing.T) {
	input := decl + "\n<project_knowledge><a/></project_knowledge>\nstray text\n<extra/>"
	out, _ := newRepairer().Repair(input)
	want := decl + "\n<project_knowledge><a/></project_knowledge>\n"
	if out != want {
		t.Errorf("Repair = %q, want %q", out, want)
	}
}

func TestRepair_CleanDocumentUntouched(t *testing.T) {
	input := decl + "\n<project_knowledge>\n  <doc>clean &lt;text&gt; &#169; &#xA9;</doc>\n</project_knowledge>\n"
	out, applied := newRepairer().Repair(input)
	if out != input {
		t.Errorf("clean document modified:\ngot:  %q\nwant: %q", out, input)
	}
	if len(applied) != 0 {
		t.Errorf("expected no fixes, got %v", applied)
	}
}

func TestRepair_Idempotent(t *testing.T) {
	r := newRepairer()
	once, _ := r.Repair("<project_knowledge>a & b")
	twice, applied := r.Repair(once)
	if twice != once || len(applied) != 0 {
		t.Errorf("second pass changed output: %q -> %q (%v)", once, twice, applied)
	}
}

func TestRepair_OtherRootNotClosed(t *testing.T) {
	// Only the configured root tag is closed; other documents keep their ending.
	input := decl + "\n<profile><rule/></profile>\n"
	out, _ := newRepairer().Repair(input)
	if out != input {
		t.Errorf("document with a different root was modified: %q", out)
	}
}

func TestRepair_LeadingWhitespaceBeforeDeclaration(t *testing.T) {
	out, _ := newRepairer().Repair("\n  " + decl + "\n<project_knowledge/>")
	if !strings.HasPrefix(out, decl) {
		t.Errorf("declaration not moved to start: %q", out)
	}
	if strings.Count(out, "<?xml") != 1 {
		t.Errorf("declaration duplicated: %q", out)
	}
}

func TestFixMojibake(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Ã· and Ã—", "÷ and ×"},
		{"âœ“ passed", "✓ passed"},
		{"café", "café"},
		{"Ã· but also ✓", "÷ but also ✓"},
		{"line Ã·\nplain é\n", "line ÷\nplain é\n"},
		{"âœ“ done “ok”", "✓ done “ok”"},
		{"Ã alone", "Ã alone"},
		{"caf\xe9 Ã·", "caf\xe9 Ã·"},
	}
	for _, tc := range cases {
		if got := FixMojibake(tc.in); got != tc.want {
			t.Errorf("FixMojibake(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRepair_MojibakeBesideSmartQuotes(t *testing.T) {
	in := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<project_knowledge>âœ“ done “ok”</project_knowledge>\n"
	got, applied := newRepairer().Repair(in)
	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<project_knowledge>✓ done \"ok\"</project_knowledge>\n"
	if got != want {
		t.Errorf("Repair = %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"mojibake", "smart quotes"}, applied); diff != "" {
		t.Errorf("applied mismatch (-want +got):\n%s", diff)
	}
}

func TestRepair_KeepsSingleByteEncoding(t *testing.T) {
	in := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<project_knowledge>caf\xe9\x00 R&D</project_knowledge>\n"
	got, _ := newRepairer().Repair(in)
	want := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<project_knowledge>caf\xe9 R&amp;D</project_knowledge>\n"
	if got != want {
		t.Errorf("Repair = %q, want %q", got, want)
	}
	if err := doc.WellFormed([]byte(got)); err != nil {
		t.Errorf("repaired Latin-1 document not well-formed: %v", err)
	}
}

func TestRepairFile_WritesBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.xml")
	original := "<project_knowledge>R&D"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := newRepairer().RepairFile(path, false)
	if err != nil {
		t.Fatalf("RepairFile: %v", err)
	}
	if !res.Changed() {
		t.Fatal("expected changes")
	}
	backup, err := os.ReadFile(path + ".backup")
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	if string(backup) != original {
		t.Errorf("backup = %q, want original %q", backup, original)
	}
	fixed, _ := os.ReadFile(path)
	if err := doc.WellFormed(fixed); err != nil {
		t.Errorf("repaired file not well-formed: %v", err)
	}
}

func TestRepairFile_DryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.xml")
	if err := os.WriteFile(path, []byte("<project_knowledge>R&D"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := newRepairer().RepairFile(path, true)
	if err != nil {
		t.Fatalf("RepairFile: %v", err)
	}
	if !res.Changed() || res.Backup != "" {
		t.Errorf("dry run result = %+v", res)
	}
	if _, err := os.Stat(path + ".backup"); !os.IsNotExist(err) {
		t.Error("dry run wrote a backup")
	}
}

func TestRepairFile_NoChangesNoBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clean.xml")
	if err := os.WriteFile(path, []byte(decl+"\n<project_knowledge/>\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := newRepairer().RepairFile(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed() {
		t.Errorf("unexpected fixes: %v", res.Applied)
	}
	if _, err := os.Stat(path + ".backup"); !os.IsNotExist(err) {
		t.Error("backup written for unchanged file")
	}
}
