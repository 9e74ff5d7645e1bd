package bump

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/xerex/internal/config"
)

func newBumper() *Bumper {
	cfg := config.Default()
	return New(cfg.Versions, cfg.Bump, cfg.Formula.Replacement, nil)
}

const prefs = `<personal_preferences>
<current_version>19.7.6</current_version>
<behavioral_rules>
<rule_6>Catch Scott's mistakes</rule_6>
<rule_7>Context: (Characters ÷ 800,000) × 100 - 25%</rule_7>
</behavioral_rules>
<footer>Characters / 800,000</footer>
</personal_preferences>
`

func TestApply_AllEdits(t *testing.T) {
	out, edits := newBumper().Apply("personal_preferences_v19.7.6.xml", prefs)

	if strings.Contains(out, "19.7.6") || !strings.Contains(out, "<current_version>19.7.7</current_version>") {
		t.Errorf("version not bumped:\n%s", out)
	}
	if !strings.Contains(out, "<rule_7>Context: (input_tokens + output_tokens) / 200,000 × 100</rule_7>") {
		t.Errorf("full formula not replaced:\n%s", out)
	}
	if !strings.Contains(out, "<footer>(input_tokens + output_tokens) / 200,000 × 100</footer>") {
		t.Errorf("short formula not replaced:\n%s", out)
	}
	if !strings.Contains(out, "<rule_6>Catch mistakes proactively</rule_6>") {
		t.Errorf("rule 6 not rewritten:\n%s", out)
	}
	if !strings.Contains(out, "<rule_8>-2% trust if ANY rule not displayed</rule_8>\n</behavioral_rules>") {
		t.Errorf("rule 8 not inserted:\n%s", out)
	}
	if len(edits) != 5 {
		t.Errorf("edits = %v, want 5 entries", edits)
	}
}

func TestApply_FullFormulaBeforeShortForm(t *testing.T) {
	// The short form is a substring of the full one; the full one must win
	// so no "× 100 - 25%" tail is left behind.
	out, _ := newBumper().Apply("style.xml", "(Characters ÷ 800,000) × 100 - 25%")
	if out != "(input_tokens + output_tokens) / 200,000 × 100" {
		t.Errorf("Apply = %q", out)
	}
}

func TestApply_MissingRuleOnlyForPreferences(t *testing.T) {
	content := "<behavioral_rules><rule_7>x</rule_7></behavioral_rules>"
	out, _ := newBumper().Apply("style_guide_v19.7.6.xml", content)
	if strings.Contains(out, "<rule_8>") {
		t.Errorf("rule 8 added to a non-preferences file: %q", out)
	}
}

func TestApply_ExistingRuleEightKept(t *testing.T) {
	content := "<behavioral_rules><rule_7>x</rule_7><rule_8>y</rule_8></behavioral_rules>"
	out, edits := newBumper().Apply("personal_preferences_v19.7.6.xml", content)
	if out != content || len(edits) != 0 {
		t.Errorf("unexpected edits %v: %q", edits, out)
	}
}

func TestBumpFile_RewritesInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "personal_preferences_v19.7.6.xml")
	if err := os.WriteFile(path, []byte(prefs), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := newBumper().BumpFile(path, false)
	if err != nil {
		t.Fatalf("BumpFile: %v", err)
	}
	if !res.Written {
		t.Fatal("expected file to be written")
	}
	data, _ := os.ReadFile(path)
	if string(data) != res.After {
		t.Error("file content does not match result")
	}

	again, err := newBumper().BumpFile(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if again.Written || len(again.Edits) != 0 {
		t.Errorf("second bump changed the file: %v", again.Edits)
	}
}

func TestBumpFile_DryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style_guide_v19.7.6.xml")
	if err := os.WriteFile(path, []byte(prefs), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := newBumper().BumpFile(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Written || len(res.Edits) == 0 {
		t.Errorf("dry run result = %+v", res)
	}
	data, _ := os.ReadFile(path)
	if string(data) != prefs {
		t.Error("dry run modified the file")
	}
}

func TestBumpFile_Missing(t *testing.T) {
	if _, err := newBumper().BumpFile("/nonexistent/x.xml", false); err == nil {
		t.Error("expected error for missing file")
	}
}
