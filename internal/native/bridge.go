package native

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"time"
)

// GlobalPrefix introduces runtime globals such as nova.sys_args.
const GlobalPrefix = "nova."

// Options configures a Bridge.
type Options struct {
	Stdout io.Writer
	// Rand drives std/random; nil seeds from the clock.
	Rand *rand.Rand
	// Modules are merged over the default host registry.
	Modules Module
}

// Bridge resolves and calls native paths for one launch.
type Bridge struct {
	globals *Globals
	stdout  io.Writer
	rng     *rand.Rand
	modules Module
}

// New returns a bridge over g. A nil g behaves as no arguments and an empty
// stdin.
func New(g *Globals, opts Options) *Bridge {
	if g == nil {
		g = NewGlobals(nil, nil)
	}
	rng := opts.Rand
	if rng == nil {
		now := uint64(time.Now().UnixNano()) //nolint:gosec // seed only
		rng = rand.New(rand.NewPCG(now, now>>32|1))
	}
	modules := hostModules()
	for name, m := range opts.Modules {
		modules[name] = m
	}
	return &Bridge{globals: g, stdout: opts.Stdout, rng: rng, modules: modules}
}

func (b *Bridge) env(ctx context.Context) *Env {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Env{Ctx: ctx, Stdout: b.stdout, Rand: b.rng}
}

// Lookup resolves path to a host value without calling it.
func (b *Bridge) Lookup(path string) (any, error) {
	if key, ok := strings.CutPrefix(path, GlobalPrefix); ok {
		v, ok := b.globals.lookup(key)
		if !ok {
			return nil, callErr(path, ErrUnknownPath, "runtime variable %q does not exist", key)
		}
		return v, nil
	}
	if fn, ok := stdlib[path]; ok {
		return fn, nil
	}
	modName, attrs, ok := strings.Cut(path, ".")
	if !ok || modName == "" || attrs == "" {
		return nil, callErr(path, ErrUnknownPath, "invalid native path")
	}
	mod, ok := b.modules[modName]
	if !ok {
		return nil, callErr(path, ErrUnknownPath, "module %q is not available", modName)
	}
	var cur any = mod
	for attr := range strings.SplitSeq(attrs, ".") {
		m, isMod := cur.(Module)
		if !isMod {
			return nil, callErr(path, ErrUnknownAttribute, "%s has no attribute %q", TypeName(cur), attr)
		}
		next, ok := m[attr]
		if !ok {
			return nil, callErr(path, ErrUnknownAttribute, "no attribute %q", attr)
		}
		cur = next
	}
	return cur, nil
}

// Call resolves path and invokes it with args. Non-callable values are
// returned as-is when no arguments are given.
func (b *Bridge) Call(ctx context.Context, path string, args ...any) (any, error) {
	v, err := b.Lookup(path)
	if err != nil {
		return nil, err
	}
	return b.Invoke(ctx, path, v, args...)
}

// Invoke calls a value previously returned by Lookup; path is used for
// error reporting only.
func (b *Bridge) Invoke(ctx context.Context, path string, target any, args ...any) (any, error) {
	fn, ok := target.(Func)
	if !ok {
		if len(args) > 0 {
			return nil, callErr(path, ErrNotCallable, "%s called with arguments", TypeName(target))
		}
		return target, nil
	}
	res, err := fn(b.env(ctx), args)
	if err != nil {
		var ce *CallError
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, &CallError{Path: path, Kind: err}
	}
	return res, nil
}
