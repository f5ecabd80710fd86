package vm

import (
	"fmt"
	"math"

	"fortio.org/safecast"

	"github.com/NovaVoxel/NovaLang/internal/native"
)

// ValueKind tags a Value.
type ValueKind uint8

const (
	VKNil ValueKind = iota
	VKInt
	VKFloat
	VKBool
	VKString
	VKList
	VKMap
	VKIter
	// VKHost wraps a native handle: a module reference or a host function.
	VKHost
	// VKError carries a failed native call back to the unit.
	VKError
)

var kindNames = [...]string{
	VKNil:    "none",
	VKInt:    "int",
	VKFloat:  "float",
	VKBool:   "bool",
	VKString: "str",
	VKList:   "list",
	VKMap:    "map",
	VKIter:   "iterator",
	VKHost:   "host",
	VKError:  "error",
}

func (k ValueKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value is a tagged runtime value. Int holds ints and bools (0/1); Ref holds
// *List, *Map, *Iter, a host handle or an error.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Str   string
	Ref   any
}

// List is a mutable, shared sequence.
type List struct {
	Items []Value
}

// ModuleRef is the handle produced by import for a native module path.
type ModuleRef struct {
	Path string
}

func (m ModuleRef) String() string { return "<module " + m.Path + ">" }

func NilValue() Value            { return Value{} }
func IntValue(n int64) Value     { return Value{Kind: VKInt, Int: n} }
func FloatValue(f float64) Value { return Value{Kind: VKFloat, Float: f} }
func StrValue(s string) Value    { return Value{Kind: VKString, Str: s} }
func ListValue(xs []Value) Value { return Value{Kind: VKList, Ref: &List{Items: xs}} }
func MapValue(m *Map) Value      { return Value{Kind: VKMap, Ref: m} }
func HostValue(h any) Value      { return Value{Kind: VKHost, Ref: h} }
func ErrorValue(err error) Value { return Value{Kind: VKError, Ref: err} }
func iterValue(it *Iter) Value   { return Value{Kind: VKIter, Ref: it} }
func moduleValue(p string) Value { return HostValue(ModuleRef{Path: p}) }

func BoolValue(b bool) Value {
	if b {
		return Value{Kind: VKBool, Int: 1}
	}
	return Value{Kind: VKBool}
}

func (v Value) list() *List { l, _ := v.Ref.(*List); return l }
func (v Value) dict() *Map  { m, _ := v.Ref.(*Map); return m }

// Truthy reports the boolean value of v.
func (v Value) Truthy() bool {
	switch v.Kind {
	case VKNil, VKError:
		return false
	case VKInt, VKBool:
		return v.Int != 0
	case VKFloat:
		return v.Float != 0
	case VKString:
		return v.Str != ""
	case VKList:
		return len(v.list().Items) > 0
	case VKMap:
		return v.dict().Len() > 0
	}
	return true
}

// Host converts v to the bridge representation.
func (v Value) Host() any {
	switch v.Kind {
	case VKInt:
		return v.Int
	case VKFloat:
		return v.Float
	case VKBool:
		return v.Int != 0
	case VKString:
		return v.Str
	case VKList:
		items := v.list().Items
		out := make([]any, len(items))
		for i, e := range items {
			out[i] = e.Host()
		}
		return out
	case VKMap:
		m := v.dict()
		d := &native.Dict{}
		for i := range m.keys {
			d.Keys = append(d.Keys, m.keys[i].Host())
			d.Values = append(d.Values, m.vals[i].Host())
		}
		return d
	case VKHost, VKIter:
		return v.Ref
	case VKError:
		return fmt.Sprintf("error: %v", v.Ref)
	}
	return nil
}

// FromHost converts a bridge value into a Value.
func FromHost(h any) Value {
	switch x := h.(type) {
	case nil:
		return NilValue()
	case int64:
		return IntValue(x)
	case int:
		return IntValue(int64(x))
	case float64:
		return FloatValue(x)
	case bool:
		return BoolValue(x)
	case string:
		return StrValue(x)
	case []any:
		out := make([]Value, len(x))
		for i, e := range x {
			out[i] = FromHost(e)
		}
		return ListValue(out)
	case *native.Dict:
		m := NewMap()
		for i, k := range x.Keys {
			// keys coming from the bridge are always hashable scalars
			_ = m.Set(FromHost(k), FromHost(x.Values[i]))
		}
		return MapValue(m)
	case error:
		return ErrorValue(x)
	}
	return HostValue(h)
}

// String renders v as print shows it.
func (v Value) String() string {
	if v.Kind == VKString {
		return v.Str
	}
	if v.Kind == VKError {
		return fmt.Sprintf("error: %v", v.Ref)
	}
	return native.Str(v.Host())
}

// Repr renders v with strings quoted.
func (v Value) Repr() string {
	if v.Kind == VKError {
		return v.String()
	}
	return native.Repr(v.Host())
}

// Equal is structural equality; ints and floats compare numerically.
func Equal(a, b Value) bool {
	if a.Kind == VKError || b.Kind == VKError {
		return false
	}
	if isNumber(a) && isNumber(b) {
		if a.Kind == VKFloat || b.Kind == VKFloat {
			return toFloat(a) == toFloat(b)
		}
		return a.Int == b.Int
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case VKNil:
		return true
	case VKString:
		return a.Str == b.Str
	case VKList:
		x, y := a.list().Items, b.list().Items
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case VKMap:
		x, y := a.dict(), b.dict()
		if x.Len() != y.Len() {
			return false
		}
		for i, k := range x.keys {
			w, ok, _ := y.Get(k)
			if !ok || !Equal(x.vals[i], w) {
				return false
			}
		}
		return true
	case VKHost:
		return a.Ref == b.Ref
	}
	return a.Ref == b.Ref
}

func isNumber(v Value) bool {
	return v.Kind == VKInt || v.Kind == VKFloat || v.Kind == VKBool
}

func toFloat(v Value) float64 {
	if v.Kind == VKFloat {
		return v.Float
	}
	return float64(v.Int)
}

// ExitCode maps the result of main to a process status.
func ExitCode(v Value) int {
	switch v.Kind {
	case VKInt, VKBool:
		return clampExit(v.Int)
	case VKFloat:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
			return 0
		}
		return clampExit(int64(math.Max(math.Min(v.Float, math.MaxInt32), math.MinInt32)))
	}
	return 0
}

// clampExit maps values outside int32 to 1.
func clampExit(n int64) int {
	code, err := safecast.Conv[int32](n)
	if err != nil {
		return 1
	}
	return int(code)
}
