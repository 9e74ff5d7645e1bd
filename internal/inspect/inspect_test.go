package inspect

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/xerex/internal/doc"
)

const nested = `<?xml version="1.0" encoding="UTF-8"?>
<audit_center>
  <metadata>
    <current_version>19.7.8</current_version>
    <trust_level value="94%"/>
  </metadata>
  <character_count><current>1,200</current><limit>10000</limit><target>7000</target></character_count>
  <checks/>
</audit_center>
`

func parse(t *testing.T, src string) *doc.Document {
	t.Helper()
	d, err := doc.Parse("audit.xml", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func TestDocument_NestedVersion(t *testing.T) {
	p := Document(parse(t, nested))

	if p.Direct != NotFound || p.RootChild != NotFound {
		t.Errorf("root-level lookups = %q, %q; want NOT FOUND", p.Direct, p.RootChild)
	}
	if p.AnyLevel != "19.7.8" {
		t.Errorf("AnyLevel = %q", p.AnyLevel)
	}
	if p.RootTag != "audit_center" {
		t.Errorf("RootTag = %q", p.RootTag)
	}
	if diff := cmp.Diff([]string{"metadata", "character_count", "checks"}, p.Children); diff != "" {
		t.Errorf("Children mismatch (-want +got):\n%s", diff)
	}
	if p.Trust != "94%" {
		t.Errorf("Trust = %q", p.Trust)
	}
	if p.Count == nil || p.Count.Current != 1200 || p.Count.Limit != 10000 {
		t.Errorf("Count = %+v", p.Count)
	}
}

func TestDocument_RootChildVersion(t *testing.T) {
	p := Document(parse(t, `<r><current_version>19.7.9</current_version><a/><b/><c/><d/><e/><f/></r>`))
	if p.Direct != "19.7.9" || p.AnyLevel != "19.7.9" || p.RootChild != "19.7.9" {
		t.Errorf("lookups = %q %q %q", p.Direct, p.AnyLevel, p.RootChild)
	}
	if len(p.Children) != 5 {
		t.Errorf("Children = %v, want 5 entries", p.Children)
	}
}

func TestFile_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xml")
	if err := os.WriteFile(path, []byte("<r><a></r>"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := File(path)
	if p.Err == nil {
		t.Fatal("expected parse error")
	}

	var buf bytes.Buffer
	p.Write(&buf)
	if !strings.HasPrefix(buf.String(), "\n"+path+": ERROR - ") || strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	Document(parse(t, nested)).Write(&buf)
	out := buf.String()
	for _, want := range []string{
		"audit.xml:",
		"Direct child:  NOT FOUND",
		"Any level:     19.7.8",
		"Root tag:      audit_center",
		"First children: metadata, character_count, checks",
		"Trust level:   94%",
		"Characters:    1200 current, 10000 limit, 7000 target",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
