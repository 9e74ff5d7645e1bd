package schema

import "fmt"

// Report is the top-level validation output.
type Report struct {
	Tool    string       `json:"tool"`
	Version string       `json:"version"`
	Banner  string       `json:"banner"`
	Input   Input        `json:"input"`
	Summary Summary      `json:"summary"`
	Files   []FileResult `json:"files"`
}

// Input captures the parameters used for this run.
type Input struct {
	Profile         string   `json:"profile"`
	ExpectedVersion string   `json:"expected_version"`
	MinRules        int      `json:"min_rules"`
	Keywords        []string `json:"keywords"`
	TargetRatio     float64  `json:"target_ratio"`
}

// Summary holds the computed verdict and per-file counts.
type Summary struct {
	Verdict  Verdict `json:"verdict"`
	Files    int     `json:"files"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Warnings int     `json:"warnings"`
}

// Verdict is the overall outcome of a run.
type Verdict string

const (
	VerdictPassed Verdict = "PASSED"
	VerdictFailed Verdict = "FAILED"
)

// Status is the outcome of one check.
type Status string

const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Check names.
const (
	CheckParse          = "parse"
	CheckRules          = "behavioral_rules"
	CheckCharacterCount = "character_count"
	CheckVersion        = "version"
)

// Check is the result of one structural check on one document.
type Check struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Passed reports whether the check leaves the document valid. WARN does.
func (c Check) Passed() bool { return c.Status != StatusFail }

// Pass builds a passing check.
func Pass(name, format string, args ...any) Check {
	return Check{Name: name, Status: StatusPass, Message: fmt.Sprintf(format, args...)}
}

// Warn builds a warning check.
func Warn(name, format string, args ...any) Check {
	return Check{Name: name, Status: StatusWarn, Message: fmt.Sprintf(format, args...)}
}

// Fail builds a failing check.
func Fail(name, format string, args ...any) Check {
	return Check{Name: name, Status: StatusFail, Message: fmt.Sprintf(format, args...)}
}

// FileResult holds every check run against one document.
type FileResult struct {
	Path   string  `json:"path"`
	Valid  bool    `json:"valid"`
	Checks []Check `json:"checks"`
}

// NewFileResult derives Valid from checks.
func NewFileResult(path string, checks ...Check) FileResult {
	valid := true
	for _, c := range checks {
		valid = valid && c.Passed()
	}
	return FileResult{Path: path, Valid: valid, Checks: checks}
}
