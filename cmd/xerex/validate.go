package main

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/xerex/internal/config"
	"github.com/dshills/xerex/internal/discover"
	"github.com/dshills/xerex/internal/profile"
	"github.com/dshills/xerex/internal/render"
	"github.com/dshills/xerex/internal/review"
	"github.com/dshills/xerex/internal/schema"
	"github.com/dshills/xerex/internal/validate"
	"github.com/dshills/xerex/internal/watch"
)

// validateFlags holds the parsed flags for the validate command. Zero
// values leave the configured setting in place.
type validateFlags struct {
	profileName   string
	expectVersion string
	minRules      int
	format        string
	out           string
	failuresOnly  bool
	watch         bool
}

func newValidateCmd(a *app) *cobra.Command {
	var flags validateFlags
	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Check rule count, keywords, character count and version of each document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), a, args, flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.profileName, "profile", "", "Validation profile: "+strings.Join(profile.Names(), " or "))
	f.StringVar(&flags.expectVersion, "expect-version", "", "Version literal every document must carry")
	f.IntVar(&flags.minRules, "min-rules", 0, "Minimum number of behavioral rules")
	f.StringVar(&flags.format, "format", "text", "Output format: "+strings.Join(render.Formats, ", "))
	f.StringVar(&flags.out, "out", "", "Write output to file instead of stdout")
	f.BoolVar(&flags.failuresOnly, "failures-only", false, "List only failing files (summary still counts all)")
	f.BoolVar(&flags.watch, "watch", false, "Re-validate documents whenever they are written")
	return cmd
}

// resolveValidateRules overlays the flags on the configured rules.
func resolveValidateRules(cfg config.ValidateRules, flags validateFlags) (config.ValidateRules, error) {
	if !slices.Contains(render.Formats, flags.format) {
		return cfg, fmt.Errorf("--format must be one of %s, got %q", strings.Join(render.Formats, ", "), flags.format)
	}
	if flags.minRules < 0 {
		return cfg, fmt.Errorf("--min-rules must be >= 0, got %d", flags.minRules)
	}
	if flags.profileName != "" {
		cfg.Profile = flags.profileName
	}
	if flags.expectVersion != "" {
		cfg.ExpectedVersion = flags.expectVersion
	}
	if flags.minRules > 0 {
		cfg.MinRules = flags.minRules
	}
	return cfg, nil
}

func runValidate(ctx context.Context, a *app, args []string, flags validateFlags) error {
	rules, err := resolveValidateRules(a.cfg.Validate, flags)
	if err != nil {
		return codeError(3, "invalid flags: %s", err)
	}
	prof, err := profile.Get(rules.Profile)
	if err != nil {
		return codeError(3, "loading profile: %s", err)
	}

	files, err := discover.Files(args, ".", prof.GlobFor(rules.ExpectedVersion))
	if err != nil {
		return codeError(3, "%s", err)
	}
	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files to validate!")
		return codeError(1, "no files to validate")
	}

	v := validate.New(rules, prof, a.log)
	report := buildReport(v, prof, rules, files)
	if flags.failuresOnly {
		report.Files = review.FilterFailing(report.Files)
	}
	if err := a.emit(flags.format, report, flags.out); err != nil {
		return err
	}

	if flags.watch {
		return watchValidate(ctx, a, v, prof, rules, files, flags)
	}
	if report.Summary.Verdict != schema.VerdictPassed {
		return codeError(1, "%d of %d file(s) failed validation", report.Summary.Failed, report.Summary.Files)
	}
	return nil
}

// buildReport validates every file and assembles the report.
func buildReport(v *validate.Validator, prof *profile.Profile, rules config.ValidateRules, files []string) *schema.Report {
	results := make([]schema.FileResult, 0, len(files))
	for _, f := range files {
		results = append(results, v.File(f))
	}
	return &schema.Report{
		Tool:    "xerex",
		Version: version,
		Banner:  prof.BannerFor(rules.ExpectedVersion),
		Input: schema.Input{
			Profile:         prof.Name,
			ExpectedVersion: rules.ExpectedVersion,
			MinRules:        rules.MinRules,
			Keywords:        rules.Keywords,
			TargetRatio:     rules.TargetRatio,
		},
		Summary: review.Summarize(results),
		Files:   results,
	}
}

// watchValidate re-validates each document written in the directories of
// files until ctx is cancelled.
func watchValidate(ctx context.Context, a *app, v *validate.Validator, prof *profile.Profile,
	rules config.ValidateRules, files []string, flags validateFlags) error {
	var dirs []string
	for _, f := range files {
		dir := filepath.Dir(f)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	fmt.Fprintf(a.out, "\n%s\n", a.styles.Muted("Watching "+strings.Join(dirs, ", ")+" (Ctrl-C to stop)"))

	w := watch.New(watch.DefaultDebounce, a.log)
	err := w.Run(ctx, dirs, func(path string) {
		report := buildReport(v, prof, rules, []string{path})
		pass, warn, fail := review.Counts(report.Files)
		a.log.Debug("re-validated", zap.String("path", path),
			zap.Int("pass", pass), zap.Int("warn", warn), zap.Int("fail", fail))
		if err := a.emit(flags.format, report, flags.out); err != nil {
			a.log.Warn("emitting report", zap.Error(err))
		}
	})
	if err != nil {
		return codeError(1, "watch: %s", err)
	}
	return nil
}
