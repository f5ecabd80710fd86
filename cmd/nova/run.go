package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NovaVoxel/NovaLang/internal/launcher"
	"github.com/NovaVoxel/NovaLang/internal/observ"
)

func newRunCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run (--nomc <file.nomc> | --novar <file.novar>) [-- program args...]",
		Short: "Execute a compiled unit or launch an archive",
		Long: `Run a single .nomc unit, or launch every unit of a .novar archive in
manifest order. The exit status is the result of main (the last unit's
for an archive). Flags must precede the file; everything after it is passed
to the program.`,
		Example: `  nova run --nomc hello.nomc
  nova run --novar target/app.novar -- input.txt
  nova -novar target/app.novar input.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(cmd, st, args)
		},
	}
	cmd.Flags().String("nomc", "", "compiled unit to execute")
	cmd.Flags().String("novar", "", "archive to launch")
	cmd.Flags().Bool("extract", false, "run each archive unit as a child process from a temporary directory")
	cmd.MarkFlagsMutuallyExclusive("nomc", "novar")
	return cmd
}

func runProgram(cmd *cobra.Command, st *cliState, args []string) error {
	unit, _ := cmd.Flags().GetString("nomc")
	arch, _ := cmd.Flags().GetString("novar")
	extract, _ := cmd.Flags().GetBool("extract")
	if unit == "" && arch == "" && len(args) > 0 {
		switch {
		case strings.HasSuffix(args[0], ".nomc"):
			unit, args = args[0], args[1:]
		case strings.HasSuffix(args[0], ".novar"):
			arch, args = args[0], args[1:]
		}
	}
	if unit == "" && arch == "" {
		return errors.New("nothing to run: pass --nomc <file.nomc> or --novar <file.novar>")
	}
	if unit != "" && extract {
		return errors.New("--extract applies to archives only")
	}

	errOut := cmd.ErrOrStderr()
	opts := launcher.Options{
		Args:   args,
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: errOut,
	}
	timer := observ.NewTimer()
	defer func() {
		if st.timings {
			timer.Fprint(errOut)
		}
	}()

	if unit != "" {
		idx := timer.Begin("run " + unit)
		res := launcher.RunUnit(cmd.Context(), unit, opts)
		timer.End(idx, fmt.Sprintf("exit %d", res.Code))
		if res.Err != nil {
			st.fail(errOut, "%v", res.Err)
		}
		return exitWith(res.Code)
	}

	if !st.quiet {
		opts.Status = errOut
	}
	if extract {
		opts.Mode = launcher.ModeExtract
	}
	idx := timer.Begin("launch " + arch)
	rep, err := launcher.Launch(cmd.Context(), arch, opts)
	if err != nil {
		timer.End(idx, "failed")
		st.fail(errOut, "%v", err)
		return exitWith(1)
	}
	failed := 0
	for _, u := range rep.Units {
		if u.Err != nil {
			failed++
		}
	}
	timer.End(idx, fmt.Sprintf("%d units, %d failed", len(rep.Units), failed))
	return exitWith(rep.ExitCode)
}

func exitWith(code int) error {
	if code == 0 {
		return nil
	}
	return &exitError{code: code}
}
