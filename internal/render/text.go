package render

import (
	"bytes"
	"fmt"

	"github.com/dshills/xerex/internal/schema"
	"github.com/dshills/xerex/internal/ui"
)

type textRenderer struct {
	styles *ui.Styles
}

func (r *textRenderer) Render(report *schema.Report) ([]byte, error) {
	s := r.styles
	var buf bytes.Buffer
	fmt.Fprintln(&buf, s.Rule())
	fmt.Fprintln(&buf, s.Header(report.Banner))
	fmt.Fprintln(&buf, s.Rule())

	for _, f := range report.Files {
		fmt.Fprintf(&buf, "\nChecking: %s\n", f.Path)
		for _, c := range f.Checks {
			fmt.Fprintf(&buf, "  %s\n", CheckLine(s, c))
		}
	}

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, s.Rule())
	if report.Summary.Verdict == schema.VerdictPassed {
		fmt.Fprintln(&buf, s.Done("ALL CHECKS PASSED - Ready for upload!"))
	} else {
		fmt.Fprintln(&buf, s.Fail("PROBLEMS FOUND - Fix before uploading"))
	}
	fmt.Fprintln(&buf, s.Muted(fmt.Sprintf("%d file(s): %d passed, %d failed, %d warning(s)",
		report.Summary.Files, report.Summary.Passed, report.Summary.Failed, report.Summary.Warnings)))
	return buf.Bytes(), nil
}

// CheckLine renders one check with its status mark.
func CheckLine(s *ui.Styles, c schema.Check) string {
	switch c.Status {
	case schema.StatusPass:
		return s.OK(c.Message)
	case schema.StatusWarn:
		return s.Warn(c.Message)
	default:
		return s.Fail(c.Message)
	}
}
