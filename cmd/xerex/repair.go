package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/xerex/internal/config"
	"github.com/dshills/xerex/internal/discover"
	"github.com/dshills/xerex/internal/doc"
	"github.com/dshills/xerex/internal/patch"
	"github.com/dshills/xerex/internal/profile"
	"github.com/dshills/xerex/internal/repair"
	"github.com/dshills/xerex/internal/validate"
)

// repairFlags holds the parsed flags for the repair command.
type repairFlags struct {
	dryRun bool
}

func newRepairCmd(a *app) *cobra.Command {
	var flags repairFlags
	cmd := &cobra.Command{
		Use:   "repair [files...]",
		Short: "Fix common XML damage in place, keeping a .backup of each changed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(a, args, flags)
		},
	}
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print a diff preview without writing files")
	return cmd
}

// repairInputs returns args when given, otherwise the configured standalone
// files and project knowledge documents under the resolved base directory.
func repairInputs(rules config.RepairRules, args []string) (files, missing []string, err error) {
	if len(args) > 0 {
		return args, nil, nil
	}
	base, err := discover.BaseDir(rules.BaseDirs, "standalone", "project_knowledge")
	if err != nil {
		return nil, nil, err
	}
	files, missing = discover.Split(base, rules.Standalone)
	if rules.ProjectGlob != "" {
		knowledge, err := discover.Files(nil, base, rules.ProjectGlob)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, knowledge...)
	}
	return files, missing, nil
}

func runRepair(a *app, args []string, flags repairFlags) error {
	s := a.styles
	files, missing, err := repairInputs(a.cfg.Repair, args)
	if err != nil {
		return codeError(1, "%s", err)
	}
	for _, m := range missing {
		fmt.Fprintf(a.out, "%s\n", s.Warn("Not found: "+m))
	}
	if len(files) == 0 {
		return codeError(1, "no files to repair")
	}

	r := repair.New(a.cfg.Repair, a.log)
	var failed []string
	for _, f := range files {
		fmt.Fprintf(a.out, "\nRepairing: %s\n", f)
		res, err := r.RepairFile(f, flags.dryRun)
		if err != nil {
			a.log.Debug("repair failed", zap.String("path", f), zap.Error(err))
			fmt.Fprintf(a.out, "  %s\n", s.Fail(err.Error()))
			failed = append(failed, f)
			continue
		}

		if !res.Changed() {
			fmt.Fprintf(a.out, "  %s\n", s.OK("No issues found"))
		} else {
			for _, name := range res.Applied {
				fmt.Fprintf(a.out, "  %s\n", s.OK("Fixed "+name))
			}
			if flags.dryRun {
				fmt.Fprint(a.out, patch.Preview(f, res.Original, res.Repaired))
			} else {
				fmt.Fprintf(a.out, "  Backup: %s\n", res.Backup)
			}
		}

		if err := doc.WellFormed([]byte(res.Repaired)); err != nil {
			fmt.Fprintf(a.out, "  %s\n", s.Fail("Still malformed: "+err.Error()))
			failed = append(failed, f)
		}
	}

	if !flags.dryRun {
		if err := validateRepaired(a, files); err != nil {
			return err
		}
	}

	if len(failed) > 0 {
		return codeError(1, "%d of %d file(s) could not be repaired", len(failed), len(files))
	}
	return nil
}

// validateRepaired runs the configured validator over the repaired set.
// Its verdict is reported but does not fail the repair.
func validateRepaired(a *app, files []string) error {
	rules := a.cfg.Validate
	prof, err := profile.Get(rules.Profile)
	if err != nil {
		return codeError(3, "loading profile: %s", err)
	}
	fmt.Fprintf(a.out, "\n%s\n", a.styles.Header("Validating repaired files"))
	report := buildReport(validate.New(rules, prof, a.log), prof, rules, files)
	return a.emit("text", report, "")
}
