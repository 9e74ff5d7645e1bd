package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/xerex/internal/config"
	"github.com/dshills/xerex/internal/render"
	"github.com/dshills/xerex/internal/schema"
	"github.com/dshills/xerex/internal/ui"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
	noColor    bool
}

// app is the state every command runs against. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	out    io.Writer
	styles *ui.Styles
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(&app{out: os.Stdout})
	if err := root.ExecuteContext(ctx); err != nil {
		code := 1
		var ee *exitErr
		if errors.As(err, &ee) {
			code = ee.code
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(code)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:           "xerex",
		Short:         "Maintain XEREX profile documents",
		Long:          "xerex repairs, patches, version-bumps and validates the XML profile documents of a XEREX document set.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(g)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (default $"+config.EnvConfigPath+" or ./"+config.DefaultFileName+")")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Log processing steps to stderr")
	pf.BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newDebugVersionCmd(a),
		newFixFormulaCmd(a),
		newRepairCmd(a),
		newBumpCmd(a),
		newValidateCmd(a),
		newPromoteCmd(a),
	)
	return root
}

// setup builds the logger, loads the configuration and picks output styles.
func (a *app) setup(g globalFlags) error {
	log, err := newLogger(g.verbose)
	if err != nil {
		return codeError(3, "initializing logger: %s", err)
	}
	a.log = log

	path := config.Resolve(g.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return codeError(3, "loading config: %s", err)
	}
	a.cfg = cfg
	a.styles = ui.New(a.out, g.noColor)
	if path == "" {
		path = "(defaults)"
	}
	log.Debug("configuration loaded", zap.String("path", path))
	return nil
}

// newLogger returns a console logger on stderr: warnings and errors only,
// everything when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.Sampling = nil
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// emit renders report and writes it to outPath, or to the app's output
// when outPath is empty.
func (a *app) emit(format string, report *schema.Report, outPath string) error {
	styles := a.styles
	if outPath != "" {
		styles = ui.Plain()
	}
	renderer, err := render.NewRenderer(format, styles)
	if err != nil {
		return codeError(3, "invalid format: %s", err)
	}
	data, err := renderer.Render(report)
	if err != nil {
		return codeError(3, "rendering output: %s", err)
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return codeError(3, "writing output file: %s", err)
		}
		a.log.Debug("report written", zap.String("path", outPath))
		return nil
	}
	if _, err := a.out.Write(data); err != nil {
		return codeError(3, "writing output: %s", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(a.out)
	}
	return nil
}
