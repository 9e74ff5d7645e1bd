package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/xerex/internal/inspect"
)

func newDebugVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "debug-version [files...]",
		Short: "Show where each document's current_version element is found",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDebugVersion(a, args)
		},
	}
}

func runDebugVersion(a *app, args []string) error {
	files := args
	if len(files) == 0 {
		files = a.cfg.Debug.Files
	}
	if len(files) == 0 {
		return codeError(1, "no files to inspect")
	}

	failed := 0
	for _, f := range files {
		p := inspect.File(f)
		p.Write(a.out)
		if p.Err != nil {
			a.log.Debug("inspect failed", zap.String("path", f), zap.Error(p.Err))
			failed++
		}
	}
	if failed > 0 {
		return codeError(1, "%d of %d file(s) could not be parsed", failed, len(files))
	}
	return nil
}
