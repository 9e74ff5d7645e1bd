package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/xerex/internal/discover"
	"github.com/dshills/xerex/internal/formula"
	"github.com/dshills/xerex/internal/patch"
)

// fixFormulaFlags holds the parsed flags for the fix-formula command.
type fixFormulaFlags struct {
	diff       bool
	dryRun     bool
	addMonitor bool
}

func newFixFormulaCmd(a *app) *cobra.Command {
	var flags fixFormulaFlags
	cmd := &cobra.Command{
		Use:   "fix-formula [files...]",
		Short: "Replace the stale context formula and write _fixed copies",
		Long: "fix-formula rewrites the character-based context formula to the token-based one, " +
			"advances version, session and trust metadata, and writes each changed document to a _fixed copy.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixFormula(a, args, flags)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&flags.diff, "diff", false, "Print a diff-match-patch preview of each change set")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Report changes without writing files")
	f.BoolVar(&flags.addMonitor, "add-monitor", false, "Add a token-based context_monitor block when missing")
	return cmd
}

func runFixFormula(a *app, args []string, flags fixFormulaFlags) error {
	p, err := formula.New(a.cfg.Formula, a.cfg.Versions, a.cfg.Repair.Declaration, a.log)
	if err != nil {
		return codeError(3, "%s", err)
	}
	pattern := "*v" + a.cfg.Versions.From + ".xml"
	files, err := discover.Files(args, ".", pattern)
	if err != nil {
		return codeError(3, "%s", err)
	}
	if len(files) == 0 {
		return codeError(1, "no files matching %s", pattern)
	}

	s := a.styles
	fmt.Fprintf(a.out, "Fixing context formula in %d file(s)\n", len(files))

	opts := formula.Options{AddMonitor: flags.addMonitor, DryRun: flags.dryRun}
	var fixed, failed []string
	for _, f := range files {
		fmt.Fprintf(a.out, "\nProcessing: %s\n", f)
		res, err := p.PatchFile(f, opts)
		if err != nil {
			a.log.Debug("patch failed", zap.String("path", f), zap.Error(err))
			fmt.Fprintf(a.out, "  %s\n", s.Fail(err.Error()))
			failed = append(failed, f)
			continue
		}
		if len(res.Changes) == 0 {
			fmt.Fprintf(a.out, "  %s\n", s.Muted("No changes needed"))
			continue
		}
		for _, c := range res.Changes {
			fmt.Fprintf(a.out, "  %s\n", s.OK(c))
		}
		if flags.diff || flags.dryRun {
			fmt.Fprint(a.out, patch.Preview(f, res.Before, res.After))
		}
		stats := patch.Count(res.Before, res.After)
		if res.Output == "" {
			fmt.Fprintf(a.out, "  Would save %d change(s) (%s)\n", len(res.Changes), stats)
			continue
		}
		fmt.Fprintf(a.out, "  Saved %d change(s) to %s (%s)\n", len(res.Changes), res.Output, stats)
		fixed = append(fixed, res.Output)
	}

	fmt.Fprintf(a.out, "\n%s\n", s.Rule())
	fmt.Fprintf(a.out, "Fixed: %d file(s)\n", len(fixed))
	for _, f := range fixed {
		fmt.Fprintf(a.out, "  %s\n", f)
	}
	if len(failed) > 0 {
		fmt.Fprintf(a.out, "Failed: %d file(s)\n", len(failed))
		for _, f := range failed {
			fmt.Fprintf(a.out, "  %s\n", f)
		}
	}
	if len(fixed) > 0 {
		fmt.Fprintln(a.out, "\nNext steps:")
		fmt.Fprintln(a.out, "  1. Review the _fixed files")
		fmt.Fprintln(a.out, "  2. xerex promote")
		fmt.Fprintf(a.out, "  3. xerex validate --expect-version %s\n", a.cfg.Versions.To)
	}

	if len(failed) > 0 {
		return codeError(1, "%d of %d file(s) failed", len(failed), len(files))
	}
	return nil
}
