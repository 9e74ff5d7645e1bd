package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/xerex/internal/bump"
	"github.com/dshills/xerex/internal/discover"
	"github.com/dshills/xerex/internal/patch"
)

// bumpFlags holds the parsed flags for the bump command.
type bumpFlags struct {
	dryRun bool
}

func newBumpCmd(a *app) *cobra.Command {
	var flags bumpFlags
	cmd := &cobra.Command{
		Use:   "bump [files...]",
		Short: "Advance documents to the next version with plain text edits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBump(a, args, flags)
		},
	}
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print a diff preview without writing files")
	return cmd
}

func runBump(a *app, args []string, flags bumpFlags) error {
	v := a.cfg.Versions
	pattern := "*_v" + v.From + ".xml"
	files, err := discover.Files(args, ".", pattern)
	if err != nil {
		return codeError(3, "%s", err)
	}
	if len(files) == 0 {
		return codeError(1, "no files matching %s", pattern)
	}

	s := a.styles
	fmt.Fprintf(a.out, "Updating %d file(s) from v%s to v%s\n", len(files), v.From, v.To)

	b := bump.New(v, a.cfg.Bump, a.cfg.Formula.Replacement, a.log)
	updated, failed := 0, 0
	for _, f := range files {
		res, err := b.BumpFile(f, flags.dryRun)
		if err != nil {
			a.log.Debug("bump failed", zap.String("path", f), zap.Error(err))
			fmt.Fprintf(a.out, "%s\n", s.Fail(err.Error()))
			failed++
			continue
		}
		if len(res.Edits) == 0 {
			fmt.Fprintf(a.out, "%s\n", s.Muted(f+": already up to date"))
			continue
		}
		fmt.Fprintf(a.out, "%s\n", s.OK(f))
		for _, e := range res.Edits {
			fmt.Fprintf(a.out, "    %s\n", e)
		}
		if flags.dryRun {
			fmt.Fprint(a.out, patch.Preview(f, res.Before, res.After))
			continue
		}
		updated++
	}

	fmt.Fprintf(a.out, "\n%s\n", s.Done(fmt.Sprintf("Updated %d file(s) to v%s", updated, v.To)))
	if failed > 0 {
		return codeError(1, "%d of %d file(s) failed", failed, len(files))
	}
	return nil
}
