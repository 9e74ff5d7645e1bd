package discover

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("<a/>"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFiles_ArgsWin(t *testing.T) {
	got, err := Files([]string{"x.xml", "y.xml"}, t.TempDir(), "*.xml")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"x.xml", "y.xml"}, got); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
}

func TestFiles_GlobSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_v19.7.6.xml", "a_v19.7.6.xml", "c_v19.7.7.xml", "notes.txt"} {
		touch(t, filepath.Join(dir, name))
	}
	got, err := Files(nil, dir, "*v19.7.6.xml")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a_v19.7.6.xml"), filepath.Join(dir, "b_v19.7.6.xml")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
}

func TestFiles_NoMatches(t *testing.T) {
	got, err := Files(nil, t.TempDir(), "*.xml")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no files, got %v", got)
	}
}

func TestBaseDir(t *testing.T) {
	empty := t.TempDir()
	system := t.TempDir()
	if err := os.MkdirAll(filepath.Join(system, "project_knowledge"), 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := BaseDir([]string{empty, system}, "standalone", "project_knowledge")
	if err != nil {
		t.Fatalf("BaseDir: %v", err)
	}
	if got != system {
		t.Errorf("BaseDir = %q, want %q", got, system)
	}
}

func TestBaseDir_NoneFound(t *testing.T) {
	_, err := BaseDir([]string{t.TempDir()}, "standalone")
	if !errors.Is(err, ErrNoBaseDir) {
		t.Errorf("expected ErrNoBaseDir, got %v", err)
	}
}

func TestSplit(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "standalone", "a.xml"))
	found, missing := Split(dir, []string{"standalone/a.xml", "standalone/b.xml"})
	if len(found) != 1 || found[0] != filepath.Join(dir, "standalone", "a.xml") {
		t.Errorf("found = %v", found)
	}
	if len(missing) != 1 || missing[0] != filepath.Join(dir, "standalone", "b.xml") {
		t.Errorf("missing = %v", missing)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	got, err := ExpandHome("~/xerex-system")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/home/tester/xerex-system" {
		t.Errorf("ExpandHome = %q", got)
	}
	if got, _ := ExpandHome("./docs"); got != "./docs" {
		t.Errorf("relative path changed: %q", got)
	}
}

func TestWithSuffix(t *testing.T) {
	cases := map[string]string{
		"style_guide_v19.7.6.xml":     "style_guide_v19.7.6_fixed.xml",
		"dir/audit.xml":               "dir/audit_fixed.xml",
		"noext":                       "noext_fixed",
	}
	for in, want := range cases {
		if got := WithSuffix(in, "_fixed"); got != want {
			t.Errorf("WithSuffix(%q) = %q, want %q", in, got, want)
		}
	}
}
