package vm

import (
	"fmt"
)

// intrinsic implements one runtime catalog function.
type intrinsic func(m *machine, args []Value) (Value, error)

// intrinsics is the linker's view of the runtime catalog.
var intrinsics map[string]intrinsic

func init() {
	intrinsics = make(map[string]intrinsic)
	for _, set := range []map[string]intrinsic{ioIntrinsics, iterIntrinsics, listIntrinsics, mapIntrinsics, stringIntrinsics, nativeIntrinsics} {
		for name, fn := range set {
			if _, dup := intrinsics[name]; dup {
				panic(fmt.Sprintf("vm: intrinsic %s registered twice", name))
			}
			intrinsics[name] = fn
		}
	}
}

// Provides reports whether the runtime implements name.
func Provides(name string) bool {
	_, ok := intrinsics[name]
	return ok
}

func want(args []Value, n int, name string) error {
	if len(args) != n {
		return trapf(TrapBadCode, "%s expects %d arguments, got %d", name, n, len(args))
	}
	return nil
}

func kindTrap(name string, v Value) error {
	if v.Kind == VKError {
		return trapf(TrapNativeFailure, "%v", v.Ref)
	}
	return trapf(TrapTypeMismatch, "%s: unsupported operand kind %s", name, v.Kind)
}

// index resolves a possibly negative position into [0, n).
func index(i Value, n int, what string) (int, error) {
	if !isInt(i) {
		return 0, trapf(TrapTypeMismatch, "%s indices must be integers, not %s", what, i.Kind)
	}
	k := i.Int
	if k < 0 {
		k += int64(n)
	}
	if k < 0 || k >= int64(n) {
		return 0, trapf(TrapOutOfBounds, "%s index %d out of range (len %d)", what, i.Int, n)
	}
	return int(k), nil
}
