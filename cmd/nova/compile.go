package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/NovaVoxel/NovaLang/internal/buildcache"
	"github.com/NovaVoxel/NovaLang/internal/buildpipeline"
	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/observ"
	"github.com/NovaVoxel/NovaLang/internal/packager"
	"github.com/NovaVoxel/NovaLang/internal/project"
)

func newCompileCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile (-n <file.nova> | -p <project root>)",
		Short: "Compile a source file to .nomc or package a project to .novar",
		Example: `  nova compile -n hello.nova
  nova compile -p ./myapp --ui=off`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, st, args)
		},
	}
	cmd.Flags().StringP("native", "n", "", "compile one .nova file to a .nomc unit next to it")
	cmd.Flags().StringP("project", "p", "", "package the project rooted at this directory")
	cmd.Flags().StringP("output", "o", "", "unit output path for -n")
	cmd.Flags().Bool("emit-ir", false, "also write the IR dump (<unit>.ir)")
	cmd.Flags().Bool("emit-asm", false, "also write the unit disassembly (<unit>.s)")
	cmd.Flags().Bool("emit-llvm", false, "also write LLVM IR (<unit>.ll)")
	cmd.Flags().String("ui", "auto", "progress UI for -p (auto|on|off)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the build cache")
	cmd.Flags().IntP("jobs", "j", 0, "compile up to N units in parallel for -p (default sequential)")
	cmd.MarkFlagsMutuallyExclusive("native", "project")
	return cmd
}

func runCompile(cmd *cobra.Command, st *cliState, args []string) error {
	file, _ := cmd.Flags().GetString("native")
	root, _ := cmd.Flags().GetString("project")
	if file == "" && root == "" && len(args) == 1 {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			root = args[0]
		} else {
			file = args[0]
		}
	}
	switch {
	case file != "":
		return compileFile(cmd, st, file)
	case root != "":
		return compileProject(cmd, st, root)
	}
	found, err := project.FindRoot(".")
	if err != nil {
		return fmt.Errorf("nothing to compile: pass -n <file.nova> or -p <project root> (%w)", err)
	}
	return compileProject(cmd, st, found)
}

func compileFile(cmd *cobra.Command, st *cliState, file string) error {
	output, _ := cmd.Flags().GetString("output")
	emitIR, _ := cmd.Flags().GetBool("emit-ir")
	emitAsm, _ := cmd.Flags().GetBool("emit-asm")
	emitLLVM, _ := cmd.Flags().GetBool("emit-llvm")
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	start := time.Now()
	res, err := packager.CompileFile(cmd.Context(), file, packager.CompileOptions{
		Output:   output,
		EmitIR:   emitIR,
		EmitAsm:  emitAsm,
		EmitLLVM: emitLLVM,
	})
	if res != nil {
		st.printDiags(errOut, res.Diags, readSources(file))
		st.printTimings(errOut, time.Since(start), res.Timings)
	}
	if err != nil {
		st.fail(errOut, "%v", err)
		return &exitError{code: 1}
	}
	st.success(out, "Compiled %s → %s", file, res.Output)
	for _, extra := range []string{res.IRPath, res.AsmPath, res.LLVMPath} {
		if extra != "" {
			st.success(out, "Wrote %s", extra)
		}
	}
	return nil
}

func compileProject(cmd *cobra.Command, st *cliState, root string) error {
	uiValue, _ := cmd.Flags().GetString("ui")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	jobs, _ := cmd.Flags().GetInt("jobs")
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, err := project.Load(root)
	if err != nil {
		return err
	}
	req := packager.FromConfig(cfg)
	req.Jobs = jobs
	if !noCache {
		cache, err := buildcache.OpenDefault("nova")
		if err != nil {
			st.warn(errOut, "build cache disabled: %v", err)
		} else {
			req.Cache = cache
		}
	}

	start := time.Now()
	var res *packager.Result
	if !st.quiet && shouldUseTUI(mode, out) {
		res, err = packWithUI(cmd.Context(), "packing "+cfg.Package.Name, req, cmd.InOrStdin(), out)
	} else {
		res, err = packager.Pack(cmd.Context(), req)
	}
	if res != nil {
		st.printDiags(errOut, res.Diags, sourcesOf(req.SourceDir, res.Diags.Items()))
		st.printTimings(errOut, time.Since(start), res.Timings)
	}
	if err != nil {
		st.fail(errOut, "%v", err)
		st.fail(errOut, "Build failed.")
		return &exitError{code: 1}
	}
	cached := 0
	for _, u := range res.Units {
		if u.Cached {
			cached++
		}
	}
	note := ""
	if cached > 0 {
		note = fmt.Sprintf(", %d cached", cached)
	}
	st.success(out, "Built %s (%d units%s)", res.ArchivePath, len(res.Units), note)
	return nil
}

// printTimings lists the packager stages and attributes the rest of wall
// to file and archive I/O.
func (st *cliState) printTimings(w io.Writer, wall time.Duration, stages buildpipeline.Timings) {
	if !st.timings {
		return
	}
	timer := observ.NewTimer()
	for _, stage := range buildpipeline.Stages {
		if d := stages.Duration(stage); d > 0 {
			timer.Record(string(stage), d, "")
		}
	}
	if rest := wall - stages.Total(); rest > 0 {
		timer.Record("io", rest, "sources, units, archive")
	}
	timer.Fprint(w)
}

func readSources(files ...string) map[string][]byte {
	out := make(map[string][]byte, len(files))
	for _, f := range files {
		if data, err := os.ReadFile(f); err == nil {
			out[f] = data
		}
	}
	return out
}

// sourcesOf loads the .nova files that diagnostics point at.
func sourcesOf(dir string, items []diag.Diagnostic) map[string][]byte {
	var files []string
	for _, d := range items {
		if strings.HasPrefix(d.File, dir) && strings.HasSuffix(d.File, packager.SourceExt) {
			files = append(files, d.File)
		}
	}
	return readSources(files...)
}
