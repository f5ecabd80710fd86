package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"

	"github.com/NovaVoxel/NovaLang/internal/native"
	"github.com/NovaVoxel/NovaLang/internal/vm"
)

// runner executes units for one launch. In-process runs share one bridge,
// so sys_input reads from a single buffered stdin for the whole launch.
type runner struct {
	opts   Options
	env    *vm.Env
	tmpDir string
}

func newRunner(opts Options) *runner {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	run := &runner{opts: opts}
	if opts.Mode == ModeInProcess {
		bridge := opts.Bridge
		if bridge == nil {
			bridge = native.New(native.NewGlobals(opts.Args, opts.Stdin), native.Options{Stdout: opts.Stdout})
		}
		run.env = &vm.Env{Bridge: bridge, Stdout: opts.Stdout, Stderr: opts.Stderr}
	}
	return run
}

func (run *runner) unit(ctx context.Context, entry string, data []byte, loaded func()) UnitResult {
	if run.opts.Mode == ModeExtract {
		return run.extract(ctx, entry, data, loaded)
	}
	return runUnit(ctx, entry, data, run.env, loaded)
}

// extract materializes the unit and runs "nova run --nomc <file> -- args...".
// The child's exit status is the unit result. The child does its own load,
// so loaded runs just before it starts.
func (run *runner) extract(ctx context.Context, entry string, data []byte, loaded func()) UnitResult {
	if run.tmpDir == "" {
		dir, err := os.MkdirTemp("", "nova-launch-*")
		if err != nil {
			return failed(entry, "read", err)
		}
		run.tmpDir = dir
	}
	file := filepath.Join(run.tmpDir, path.Base(entry))
	if err := os.WriteFile(file, data, 0o600); err != nil {
		return failed(entry, "read", err)
	}
	exe := run.opts.Executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return failed(entry, "load", fmt.Errorf("locate nova executable: %w", err))
		}
	}
	args := append([]string{"run", "--nomc", file, "--"}, run.opts.Args...)
	cmd := exec.CommandContext(ctx, exe, args...) //nolint:gosec // exe is the toolchain itself
	cmd.Dir = run.tmpDir
	cmd.Stdin = run.opts.Stdin
	cmd.Stdout = run.opts.Stdout
	cmd.Stderr = run.opts.Stderr
	if loaded != nil {
		loaded()
	}
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return UnitResult{Path: entry, Code: 0}
	case ctx.Err() != nil:
		return failed(entry, "execute", ctx.Err())
	case errors.As(err, &exitErr):
		return UnitResult{Path: entry, Code: exitErr.ExitCode()}
	default:
		return failed(entry, "execute", err)
	}
}

func (run *runner) close() {
	if run.tmpDir != "" {
		_ = os.RemoveAll(run.tmpDir)
	}
}
