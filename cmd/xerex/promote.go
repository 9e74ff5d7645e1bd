package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/xerex/internal/promote"
	"github.com/dshills/xerex/internal/ui"
)

// Replaced in tests.
var (
	confirmPromote  = promote.Confirm
	stdinIsTerminal = func() bool { return ui.IsTerminal(os.Stdin) }
)

// promoteFlags holds the parsed flags for the promote command.
type promoteFlags struct {
	yes bool
}

func newPromoteCmd(a *app) *cobra.Command {
	var flags promoteFlags
	cmd := &cobra.Command{
		Use:   "promote [dir]",
		Short: "Rename _fixed copies over their originals",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runPromote(a, dir, flags)
		},
	}
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Promote without asking for confirmation")
	return cmd
}

func runPromote(a *app, dir string, flags promoteFlags) error {
	pairs, err := promote.Find(dir, a.cfg.Formula.OutputSuffix)
	if err != nil {
		return codeError(3, "%s", err)
	}
	s := a.styles
	if len(pairs) == 0 {
		fmt.Fprintln(a.out, s.Muted("No fixed files to promote"))
		return nil
	}

	for _, p := range pairs {
		fmt.Fprintf(a.out, "  %s -> %s\n", p.Fixed, p.Original)
	}

	if !flags.yes {
		if !stdinIsTerminal() {
			return codeError(3, "refusing to promote without --yes when not on a terminal")
		}
		if err := confirmPromote(len(pairs)); err != nil {
			if errors.Is(err, promote.ErrCancelled) {
				fmt.Fprintln(a.out, "Cancelled")
				return nil
			}
			return codeError(1, "%s", err)
		}
	}

	done, err := promote.Apply(pairs)
	for _, p := range done {
		fmt.Fprintf(a.out, "%s\n", s.OK("Promoted "+p.Original))
	}
	if err != nil {
		fmt.Fprintf(a.out, "%s\n", s.Fail(err.Error()))
		return codeError(1, "%d of %d file(s) could not be promoted", len(pairs)-len(done), len(pairs))
	}
	return nil
}
