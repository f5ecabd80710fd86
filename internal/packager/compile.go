package packager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NovaVoxel/NovaLang/internal/backend/llvm"
	"github.com/NovaVoxel/NovaLang/internal/backend/native"
	"github.com/NovaVoxel/NovaLang/internal/buildpipeline"
	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/ir"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
	"github.com/NovaVoxel/NovaLang/internal/parser"
	"github.com/NovaVoxel/NovaLang/internal/token"
	"github.com/NovaVoxel/NovaLang/internal/trace"
)

// SourceExt and UnitExt are the source and compiled unit extensions.
const (
	SourceExt = ".nova"
	UnitExt   = ".nomc"
)

// CompileOptions configures CompileFile.
type CompileOptions struct {
	// Output overrides the unit path; empty means the source path with
	// .nova replaced by .nomc.
	Output string
	// EmitIR, EmitAsm and EmitLLVM also write <output>.ir, <output>.s and
	// <output>.ll.
	EmitIR   bool
	EmitAsm  bool
	EmitLLVM bool
	Progress buildpipeline.ProgressSink
}

// CompileResult describes one compiled file.
type CompileResult struct {
	Source   string
	Output   string
	IRPath   string
	AsmPath  string
	LLVMPath string
	Module   *ir.Module
	Unit     []byte
	Diags    *diag.Bag
	Timings  buildpipeline.Timings
}

// UnitPath maps a.nova to a.nomc; other names get .nomc appended.
func UnitPath(source string) string {
	if base, ok := strings.CutSuffix(source, SourceExt); ok {
		return base + UnitExt
	}
	return source + UnitExt
}

// ModuleName is the file name without directory and extension.
func ModuleName(source string) string {
	return strings.TrimSuffix(filepath.Base(source), SourceExt)
}

// CompileFile compiles one source file to a unit next to it.
func CompileFile(ctx context.Context, path string, opts CompileOptions) (*CompileResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Op: "read", Path: path, Err: err}
	}
	res := &CompileResult{Source: path, Output: opts.Output, Diags: diag.NewBag(0)}
	if res.Output == "" {
		res.Output = UnitPath(path)
	}
	c := compiler{ctx: ctx, sink: opts.Progress, timings: &res.Timings, diags: res.Diags}
	mod, data, err := c.compile(path, ModuleName(path), src)
	if err != nil {
		return res, err
	}
	res.Module, res.Unit = mod, data
	if err := os.WriteFile(res.Output, data, 0o644); err != nil {
		return res, &Error{Op: "write", Path: res.Output, Err: err}
	}
	if opts.EmitIR {
		res.IRPath = res.Output + ".ir"
		if err := os.WriteFile(res.IRPath, []byte(ir.DumpString(mod)), 0o644); err != nil {
			return res, &Error{Op: "write", Path: res.IRPath, Err: err}
		}
	}
	if opts.EmitAsm {
		if err := writeDisasm(res, path); err != nil {
			return res, err
		}
	}
	if opts.EmitLLVM {
		text, err := llvm.Emit(mod)
		if err != nil {
			return res, &Error{Op: "codegen", Path: path, Err: err}
		}
		res.LLVMPath = res.Output + ".ll"
		if err := os.WriteFile(res.LLVMPath, []byte(text), 0o644); err != nil {
			return res, &Error{Op: "write", Path: res.LLVMPath, Err: err}
		}
	}
	return res, nil
}

func writeDisasm(res *CompileResult, src string) error {
	u, err := nomc.Decode(res.Unit)
	if err != nil {
		return &Error{Op: "encode", Path: src, Err: err}
	}
	var b strings.Builder
	if err := nomc.Disasm(&b, u); err != nil {
		return &Error{Op: "write", Path: src, Err: err}
	}
	res.AsmPath = res.Output + ".s"
	if err := os.WriteFile(res.AsmPath, []byte(b.String()), 0o644); err != nil {
		return &Error{Op: "write", Path: res.AsmPath, Err: err}
	}
	return nil
}

// compiler runs parse, build, lower and encode for one file at a time.
type compiler struct {
	ctx     context.Context
	sink    buildpipeline.ProgressSink
	timings *buildpipeline.Timings
	diags   *diag.Bag
	parent  uint64
}

func (c *compiler) stage(file string, stage buildpipeline.Stage, fn func() error) error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	buildpipeline.Emit(c.sink, buildpipeline.Event{File: file, Stage: stage, Status: buildpipeline.StatusWorking})
	span := trace.Begin(trace.FromContext(c.ctx), trace.ScopeUnit, string(stage)+":"+filepath.Base(file), c.parent)
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	c.timings.Add(stage, elapsed)
	if err != nil {
		span.End(err.Error())
		buildpipeline.Emit(c.sink, buildpipeline.Event{File: file, Stage: stage, Status: buildpipeline.StatusError, Err: err, Elapsed: elapsed})
		return err
	}
	span.End("")
	return nil
}

func (c *compiler) compile(file, module string, src []byte) (*ir.Module, []byte, error) {
	var (
		mod  *ir.Module
		unit *nomc.Unit
		data []byte
	)
	err := c.stage(file, buildpipeline.StageParse, func() error {
		f, err := parser.ParseFile(file, src)
		if err != nil {
			var pe *parser.Error
			if errors.As(err, &pe) && pe.Diags != nil {
				c.diags.Merge(pe.Diags)
			}
			return &Error{Op: "parse", Path: file, Err: err}
		}
		mod, err = ir.BuildNamed(module, f)
		if err != nil {
			return &Error{Op: "build", Path: file, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	err = c.stage(file, buildpipeline.StageLower, func() error {
		if err := ir.Validate(mod); err != nil {
			return &Error{Op: "build", Path: file, Err: err}
		}
		var err error
		unit, err = native.Lower(mod, native.Options{AllowNoEntry: true})
		if err != nil {
			return &Error{Op: "codegen", Path: file, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if _, ok := unit.Entry(); !ok {
		c.diags.Add(diag.New(diag.SevWarning, diag.PkgNoEntry, file, token.Pos{},
			"no "+nomc.EntrySymbol+" function; the unit cannot be launched on its own"))
	}
	err = c.stage(file, buildpipeline.StageCodegen, func() error {
		var err error
		data, err = nomc.Encode(unit)
		if err != nil {
			return &Error{Op: "encode", Path: file, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	buildpipeline.Emit(c.sink, buildpipeline.Event{File: file, Stage: buildpipeline.StageCodegen, Status: buildpipeline.StatusDone})
	return mod, data, nil
}
