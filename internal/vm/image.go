package vm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/NovaVoxel/NovaLang/internal/native"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
	"github.com/NovaVoxel/NovaLang/internal/trace"
)

// DefaultMaxDepth bounds nested calls.
const DefaultMaxDepth = 1024

// ErrNoEntry is returned by Call for a symbol the unit does not export.
var ErrNoEntry = errors.New("symbol not exported")

// Env is the host side of a loaded image.
type Env struct {
	Bridge *native.Bridge
	Stdout io.Writer
	Stderr io.Writer
	// MaxDepth overrides DefaultMaxDepth when positive.
	MaxDepth int
}

// ErrWrongTarget means a unit was compiled for another GOOS/GOARCH.
var ErrWrongTarget = errors.New("unit built for another target")

// LoadError reports the stage at which a unit failed to load.
type LoadError struct {
	Stage string // "decode", "verify" or "link"
	Err   error
}

func (e *LoadError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// Image is a decoded, verified and linked unit ready to run.
type Image struct {
	Unit  *nomc.Unit
	env   *Env
	links []intrinsic
}

// Load decodes data, verifies it and links every runtime import.
func Load(data []byte, env *Env) (*Image, error) {
	u, err := nomc.Decode(data)
	if err != nil {
		return nil, &LoadError{Stage: "decode", Err: err}
	}
	return LoadUnit(u, env)
}

// LoadUnit links an already decoded unit.
func LoadUnit(u *nomc.Unit, env *Env) (*Image, error) {
	if err := nomc.Verify(u); err != nil {
		return nil, &LoadError{Stage: "verify", Err: err}
	}
	if host := nomc.HostTarget(); u.Target != host {
		return nil, &LoadError{Stage: "verify", Err: fmt.Errorf("%w: %q, host is %q", ErrWrongTarget, u.Target, host)}
	}
	if env == nil {
		env = &Env{}
	}
	e := *env
	env = &e
	if env.Stdout == nil {
		env.Stdout = io.Discard
	}
	if env.Stderr == nil {
		env.Stderr = io.Discard
	}
	if env.Bridge == nil {
		env.Bridge = native.New(nil, native.Options{Stdout: env.Stdout})
	}
	img := &Image{Unit: u, env: env, links: make([]intrinsic, len(u.Imports))}
	for i, name := range u.Imports {
		fn, ok := intrinsics[name]
		if !ok {
			return nil, &LoadError{Stage: "link", Err: trapf(TrapUnknownRuntime, "runtime function %s is not provided", name)}
		}
		img.links[i] = fn
	}
	return img, nil
}

// Call runs the exported function name. A HLT inside the call ends it with
// the halt operand as the result.
func (img *Image) Call(ctx context.Context, name string, args ...Value) (res Value, err error) {
	fi, ok := img.Unit.Lookup(name)
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrNoEntry, name)
	}
	if want := img.Unit.Funcs[fi].Params; int(want) != len(args) {
		return Value{}, fmt.Errorf("%s expects %d arguments, got %d", name, want, len(args))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeUnit, "vm:"+img.Unit.Module+"."+name, trace.CurrentSpan(ctx).SpanID)
	defer func() {
		detail := "ok"
		if err != nil {
			detail = err.Error()
		}
		span.End(detail)
	}()

	m := &machine{img: img, ctx: ctx, maxDepth: img.env.MaxDepth}
	if m.maxDepth <= 0 {
		m.maxDepth = DefaultMaxDepth
	}
	res, err = m.call(fi, args)
	var h *halt
	if errors.As(err, &h) {
		return h.code, nil
	}
	return res, err
}

type halt struct{ code Value }

func (h *halt) Error() string { return "halt " + h.code.Repr() }
