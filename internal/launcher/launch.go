package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/NovaVoxel/NovaLang/internal/archive"
	"github.com/NovaVoxel/NovaLang/internal/native"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
	"github.com/NovaVoxel/NovaLang/internal/trace"
	"github.com/NovaVoxel/NovaLang/internal/vm"
)

// Options configures a launch. Nil writers discard output; a nil Stdin
// makes sys_input report end of input.
type Options struct {
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Status receives progress lines ("Launching demo v0.1.0"); nil is
	// silent.
	Status io.Writer
	Mode   ExecMode
	// Executable is the nova binary used by ModeExtract; empty means the
	// running executable.
	Executable string
	// Bridge overrides the native bridge of in-process runs.
	Bridge *native.Bridge
}

// UnitResult is the outcome of one unit. Err is nil on success.
type UnitResult struct {
	Path string
	Code int
	Err  *UnitError
}

// Report describes a launch.
type Report struct {
	Project  archive.ProjectInfo
	States   []State
	Units    []UnitResult
	ExitCode int
}

func (r *Report) enter(s State) { r.States = append(r.States, s) }

// Launch runs every unit of the archive at path in manifest order.
func Launch(ctx context.Context, path string, opts Options) (*Report, error) {
	rep := &Report{}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "launch", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	fail := func(state State, err error) (*Report, error) {
		rep.enter(StateTerminal)
		rep.ExitCode = 1
		return rep, &LaunchError{State: state, Err: err}
	}

	rep.enter(StateOpening)
	r, err := archive.Open(path)
	if err != nil {
		return fail(StateOpening, err)
	}

	rep.enter(StateManifestRead)
	m, err := r.Manifest()
	if err != nil {
		return fail(StateManifestRead, err)
	}
	if len(m.Bin) == 0 {
		return fail(StateManifestRead, errors.New("manifest contains no compiled units in 'bin'"))
	}
	rep.Project = m.Project
	statusf(opts.Status, "Launching %s v%s\n", m.Project.Name, m.Project.Version)
	trace.Point(trace.FromContext(ctx), trace.ScopePhase, "launching "+m.Project.Name+" v"+m.Project.Version, "", span.ID())

	run := newRunner(opts)
	defer run.close()
	for _, entry := range m.Bin {
		if err := ctx.Err(); err != nil {
			return fail(StateUnitExecute, err)
		}
		res := rep.runEntry(ctx, r, entry, run, opts)
		rep.Units = append(rep.Units, res)
		rep.ExitCode = res.Code
		if res.Err != nil {
			statusf(opts.Status, "     Runtime error in %s: %v\n", entry, res.Err.Err)
			if isCancel(res.Err) {
				return fail(StateUnitExecute, res.Err)
			}
		} else {
			statusf(opts.Status, "     main() returned %d\n", res.Code)
		}
		trace.Point(trace.FromContext(ctx), trace.ScopeUnit, "unit returned "+fmt.Sprint(res.Code), entry, span.ID())
	}
	rep.enter(StateDone)
	return rep, nil
}

func (rep *Report) runEntry(ctx context.Context, r *archive.Reader, entry string, run *runner, opts Options) UnitResult {
	rep.enter(StateUnitLoad)
	statusf(opts.Status, "  -> Loading %s...\n", entry)
	data, err := r.ReadFile(entry)
	if err != nil {
		return failed(entry, "read", err)
	}
	return run.unit(ctx, entry, data, func() { rep.enter(StateUnitExecute) })
}

// RunUnit executes one standalone unit file in process.
func RunUnit(ctx context.Context, path string, opts Options) UnitResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return failed(path, "read", err)
	}
	opts.Mode = ModeInProcess
	run := newRunner(opts)
	defer run.close()
	return run.unit(ctx, path, data, nil)
}

func failed(path, stage string, err error) UnitResult {
	return UnitResult{Path: path, Code: 1, Err: &UnitError{Path: path, Stage: stage, Err: err}}
}

// runUnit loads data and calls its entry. loaded, when set, runs once the
// image has loaded and before the entry is called.
func runUnit(ctx context.Context, path string, data []byte, env *vm.Env, loaded func()) UnitResult {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeUnit, "unit:"+path, trace.CurrentSpan(ctx).SpanID)
	ctx = trace.WithSpan(ctx, span)
	img, err := vm.Load(data, env)
	if err != nil {
		span.End(err.Error())
		return failed(path, "load", err)
	}
	if loaded != nil {
		loaded()
	}
	v, err := img.Call(ctx, nomc.EntrySymbol)
	if err != nil {
		span.End(err.Error())
		stage := "execute"
		if errors.Is(err, vm.ErrNoEntry) {
			stage = "entry"
		}
		return failed(path, stage, err)
	}
	code := vm.ExitCode(v)
	span.End(fmt.Sprint(code))
	return UnitResult{Path: path, Code: code}
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func statusf(w io.Writer, format string, args ...any) {
	if w != nil {
		fmt.Fprintf(w, format, args...)
	}
}
