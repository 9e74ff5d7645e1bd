package review

import "github.com/dshills/xerex/internal/schema"

// Summarize computes the run summary from every file result.
func Summarize(files []schema.FileResult) schema.Summary {
	s := schema.Summary{Files: len(files), Verdict: Verdict(files)}
	for _, f := range files {
		if f.Valid {
			s.Passed++
		} else {
			s.Failed++
		}
		s.Warnings += countStatus(f.Checks, schema.StatusWarn)
	}
	return s
}

// Verdict is PASSED only when every file is valid. An empty run fails:
// there was nothing to vouch for.
func Verdict(files []schema.FileResult) schema.Verdict {
	if len(files) == 0 {
		return schema.VerdictFailed
	}
	for _, f := range files {
		if !f.Valid {
			return schema.VerdictFailed
		}
	}
	return schema.VerdictPassed
}

// Counts returns the pass, warn and fail check counts across all files.
func Counts(files []schema.FileResult) (pass, warn, fail int) {
	for _, f := range files {
		pass += countStatus(f.Checks, schema.StatusPass)
		warn += countStatus(f.Checks, schema.StatusWarn)
		fail += countStatus(f.Checks, schema.StatusFail)
	}
	return
}

// FilterFailing returns only the files that failed at least one check.
func FilterFailing(files []schema.FileResult) []schema.FileResult {
	out := make([]schema.FileResult, 0, len(files))
	for _, f := range files {
		if !f.Valid {
			out = append(out, f)
		}
	}
	return out
}

func countStatus(checks []schema.Check, status schema.Status) int {
	n := 0
	for _, c := range checks {
		if c.Status == status {
			n++
		}
	}
	return n
}
