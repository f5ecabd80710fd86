package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/diagfmt"
	"github.com/NovaVoxel/NovaLang/internal/prof"
	"github.com/NovaVoxel/NovaLang/internal/trace"
)

// cliState is shared by all commands of one invocation.
type cliState struct {
	color   bool
	quiet   bool
	timings bool
	// diagJSON switches diagnostics to diagfmt.JSON.
	diagJSON bool
	tracer   trace.Tracer
	profile  *prof.Session
	stderr   io.Writer
}

func (st *cliState) setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	colorMode, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	if st.quiet, err = flags.GetBool("quiet"); err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if st.timings, err = flags.GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	diagFormat, err := flags.GetString("diag-format")
	if err != nil {
		return fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	switch diagFormat {
	case "pretty":
	case "json":
		st.diagJSON = true
	default:
		return fmt.Errorf("invalid --diag-format value %q (expected pretty|json)", diagFormat)
	}
	st.stderr = cmd.ErrOrStderr()

	switch strings.ToLower(colorMode) {
	case "on", "always":
		st.color = true
	case "off", "never":
		st.color = false
	case "", "auto":
		st.color = isTerminal(cmd.OutOrStdout())
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorMode)
	}
	color.NoColor = !st.color

	if err := st.setupProfiling(cmd); err != nil {
		return err
	}
	return st.setupTracing(cmd)
}

func (st *cliState) setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("memprofile"); err != nil {
		return fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if opts == (prof.Options{}) {
		return nil
	}
	st.profile, err = prof.Start(opts)
	return err
}

// setupTracing reads the trace flags and attaches a tracer to the command
// context.
func (st *cliState) setupTracing(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	output, err := flags.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	// --trace alone means phase-level tracing
	if level == trace.LevelOff && (output != "" || ringSize > 0) {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		return nil
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	cfg := trace.Config{Level: level, Format: format, OutputPath: output, RingSize: ringSize}
	if output == "" {
		// ring only
		cfg.Output = io.Discard
	} else if output == "-" {
		cfg.Output = cmd.ErrOrStderr()
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	st.tracer = tracer
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	return nil
}

// close stops profiling and flushes the tracer, dumping the ring to stderr when the command
// failed.
func (st *cliState) close(runErr error) {
	if err := st.profile.Stop(); err != nil && st.stderr != nil {
		fmt.Fprintf(st.stderr, "profile: %v\n", err)
	}
	st.profile = nil
	if st.tracer == nil {
		return
	}
	if ring := trace.Ring(st.tracer); ring != nil && runErr != nil && st.stderr != nil {
		fmt.Fprintln(st.stderr, "trace: last events before failure:")
		_ = ring.Dump(st.stderr, trace.FormatText)
	}
	if err := st.tracer.Close(); err != nil && st.stderr != nil {
		fmt.Fprintf(st.stderr, "trace: close error: %v\n", err)
	}
	st.tracer = nil
}

var (
	okMark   = color.New(color.FgGreen, color.Bold)
	warnMark = color.New(color.FgYellow, color.Bold)
	errMark  = color.New(color.FgRed, color.Bold)
)

// success prints "✓ msg" unless --quiet.
func (st *cliState) success(w io.Writer, format string, args ...any) {
	if st.quiet {
		return
	}
	fmt.Fprintf(w, "%s %s\n", okMark.Sprint("✓"), fmt.Sprintf(format, args...))
}

func (st *cliState) warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", warnMark.Sprint("warning:"), fmt.Sprintf(format, args...))
}

func (st *cliState) fail(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", errMark.Sprint("error:"), fmt.Sprintf(format, args...))
}

// printDiags renders bag with source previews. Warnings are hidden by
// --quiet; errors never are.
func (st *cliState) printDiags(w io.Writer, bag *diag.Bag, sources map[string][]byte) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	if st.quiet && !bag.HasErrors() {
		return
	}
	bag.Dedup()
	bag.Sort()
	if st.diagJSON {
		if err := diagfmt.JSON(w, bag, diagfmt.JSONOpts{IncludeNotes: true}); err != nil {
			fmt.Fprintf(w, "diagnostics: %v\n", err)
		}
		return
	}
	diagfmt.Pretty(w, bag, diagfmt.PrettyOpts{Color: st.color, ShowNotes: true, Sources: sources})
}
