package vm

import (
	"context"
	"errors"

	"github.com/NovaVoxel/NovaLang/internal/native"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

// symbolRef is a host value resolved by IMPORT_SYMBOL; it remembers its
// path for error reporting.
type symbolRef struct {
	path  string
	value any
}

func (s symbolRef) String() string { return "<native " + s.path + ">" }

var nativeIntrinsics = map[string]intrinsic{
	nomc.RtUseModule: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 1, nomc.RtUseModule); err != nil {
			return Value{}, err
		}
		return NilValue(), nil
	},
	nomc.RtImportModule: func(_ *machine, args []Value) (Value, error) {
		if err := want(args, 1, nomc.RtImportModule); err != nil {
			return Value{}, err
		}
		if args[0].Kind != VKString {
			return Value{}, kindTrap("import", args[0])
		}
		return moduleValue(args[0].Str), nil
	},
	nomc.RtImportSymbol: func(m *machine, args []Value) (Value, error) {
		if err := want(args, 2, nomc.RtImportSymbol); err != nil {
			return Value{}, err
		}
		base, err := modulePath(args[0])
		if err != nil {
			return Value{}, err
		}
		if args[1].Kind != VKString {
			return Value{}, kindTrap("attribute", args[1])
		}
		path := base + "." + args[1].Str
		v, lerr := m.img.env.Bridge.Lookup(path)
		if lerr != nil {
			return ErrorValue(lerr), nil
		}
		if _, callable := v.(native.Func); callable {
			return HostValue(symbolRef{path: path, value: v}), nil
		}
		return FromHost(v), nil
	},
	nomc.RtNativeCall: func(m *machine, args []Value) (Value, error) {
		if len(args) == 0 || args[0].Kind != VKString {
			return Value{}, trapf(TrapBadCode, "%s needs a path", nomc.RtNativeCall)
		}
		res, err := m.img.env.Bridge.Call(m.ctx, args[0].Str, hostArgs(args[1:])...)
		return nativeResult(res, err)
	},
	nomc.RtNativeInvoke: func(m *machine, args []Value) (Value, error) {
		if len(args) == 0 {
			return Value{}, trapf(TrapBadCode, "%s needs a target", nomc.RtNativeInvoke)
		}
		switch t := args[0]; {
		case t.Kind == VKError:
			return t, nil
		case t.Kind == VKHost:
			switch h := t.Ref.(type) {
			case symbolRef:
				res, err := m.img.env.Bridge.Invoke(m.ctx, h.path, h.value, hostArgs(args[1:])...)
				return nativeResult(res, err)
			case ModuleRef:
				return ErrorValue(&native.CallError{Path: h.Path, Kind: native.ErrNotCallable}), nil
			}
		}
		return ErrorValue(&native.CallError{Path: args[0].Repr(), Kind: native.ErrNotCallable}), nil
	},
}

func modulePath(v Value) (string, error) {
	switch v.Kind {
	case VKString:
		return v.Str, nil
	case VKHost:
		switch h := v.Ref.(type) {
		case ModuleRef:
			return h.Path, nil
		case symbolRef:
			return h.path, nil
		}
	}
	return "", kindTrap("import", v)
}

func hostArgs(args []Value) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a.Host()
	}
	return out
}

// nativeResult turns bridge failures into error values for the unit;
// context cancellation still aborts the run.
func nativeResult(res any, err error) (Value, error) {
	if err != nil {
		var ce *native.CallError
		if errors.As(err, &ce) && isCancel(ce.Kind) {
			return Value{}, ce.Kind
		}
		return ErrorValue(err), nil
	}
	return FromHost(res), nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
