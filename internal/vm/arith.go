package vm

import (
	"cmp"
	"math"
	"strings"

	"fortio.org/safecast"

	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

var opSymbols = map[nomc.Op]string{
	nomc.ADD: "+", nomc.SUB: "-", nomc.MUL: "*", nomc.DIV: "/", nomc.MOD: "%", nomc.POW: "**",
	nomc.CLT: "<", nomc.CLE: "<=", nomc.CGT: ">", nomc.CGE: ">=",
}

func operandError(op nomc.Op, a, b Value) error {
	if a.Kind == VKError {
		return trapf(TrapNativeFailure, "%v", a.Ref)
	}
	if b.Kind == VKError {
		return trapf(TrapNativeFailure, "%v", b.Ref)
	}
	return trapf(TrapTypeMismatch, "unsupported operand kinds for %s: %s and %s", opSymbols[op], a.Kind, b.Kind)
}

// arith implements the register arithmetic ops. Ints wrap at 64 bits and
// mixing an int with a float promotes to float.
func arith(op nomc.Op, a, b Value) (Value, error) {
	switch {
	case isInt(a) && isInt(b):
		return intArith(op, a.Int, b.Int)
	case isNumber(a) && isNumber(b):
		return floatArith(op, toFloat(a), toFloat(b))
	}
	switch op {
	case nomc.ADD:
		if a.Kind == VKString && b.Kind == VKString {
			return StrValue(a.Str + b.Str), nil
		}
		if a.Kind == VKList && b.Kind == VKList {
			xs := append(append([]Value(nil), a.list().Items...), b.list().Items...)
			return ListValue(xs), nil
		}
	case nomc.MUL:
		if a.Kind == VKString && isInt(b) {
			return repeat(a.Str, b.Int)
		}
		if isInt(a) && b.Kind == VKString {
			return repeat(b.Str, a.Int)
		}
	}
	return Value{}, operandError(op, a, b)
}

// maxRepeat caps the byte length of a string built by s * n.
const maxRepeat = 1 << 30

func repeat(s string, n int64) (Value, error) {
	count, err := safecast.Conv[int](max(n, 0))
	if err != nil || (len(s) > 0 && count > maxRepeat/len(s)) {
		return Value{}, trapf(TrapTooLarge, "string repeat count %d too large", n)
	}
	return StrValue(strings.Repeat(s, count)), nil
}

func isInt(v Value) bool { return v.Kind == VKInt || v.Kind == VKBool }

func intArith(op nomc.Op, a, b int64) (Value, error) {
	switch op {
	case nomc.ADD:
		return IntValue(a + b), nil
	case nomc.SUB:
		return IntValue(a - b), nil
	case nomc.MUL:
		return IntValue(a * b), nil
	case nomc.DIV, nomc.MOD:
		if b == 0 {
			return Value{}, trapf(TrapDivideByZero, "integer division by zero")
		}
		if a == math.MinInt64 && b == -1 {
			if op == nomc.DIV {
				return IntValue(a), nil
			}
			return IntValue(0), nil
		}
		if op == nomc.DIV {
			return IntValue(a / b), nil
		}
		return IntValue(a % b), nil
	case nomc.POW:
		if b < 0 {
			return FloatValue(math.Pow(float64(a), float64(b))), nil
		}
		return IntValue(ipow(a, b)), nil
	}
	return Value{}, trapf(TrapBadCode, "not an arithmetic op: %s", op)
}

func ipow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func floatArith(op nomc.Op, a, b float64) (Value, error) {
	switch op {
	case nomc.ADD:
		return FloatValue(a + b), nil
	case nomc.SUB:
		return FloatValue(a - b), nil
	case nomc.MUL:
		return FloatValue(a * b), nil
	case nomc.DIV:
		if b == 0 {
			return Value{}, trapf(TrapDivideByZero, "float division by zero")
		}
		return FloatValue(a / b), nil
	case nomc.MOD:
		if b == 0 {
			return Value{}, trapf(TrapDivideByZero, "float modulo by zero")
		}
		return FloatValue(math.Mod(a, b)), nil
	case nomc.POW:
		return FloatValue(math.Pow(a, b)), nil
	}
	return Value{}, trapf(TrapBadCode, "not an arithmetic op: %s", op)
}

func negate(v Value) (Value, error) {
	switch v.Kind {
	case VKInt, VKBool:
		return IntValue(-v.Int), nil
	case VKFloat:
		return FloatValue(-v.Float), nil
	case VKError:
		return Value{}, trapf(TrapNativeFailure, "%v", v.Ref)
	}
	return Value{}, trapf(TrapTypeMismatch, "bad operand kind for unary -: %s", v.Kind)
}

// order implements the relational comparisons on numbers and strings.
func order(op nomc.Op, a, b Value) (Value, error) {
	var c int
	switch {
	case isInt(a) && isInt(b):
		c = cmp.Compare(a.Int, b.Int)
	case isNumber(a) && isNumber(b):
		x, y := toFloat(a), toFloat(b)
		if math.IsNaN(x) || math.IsNaN(y) {
			return BoolValue(false), nil
		}
		c = cmp.Compare(x, y)
	case a.Kind == VKString && b.Kind == VKString:
		c = strings.Compare(a.Str, b.Str)
	default:
		return Value{}, operandError(op, a, b)
	}
	switch op {
	case nomc.CLT:
		return BoolValue(c < 0), nil
	case nomc.CLE:
		return BoolValue(c <= 0), nil
	case nomc.CGT:
		return BoolValue(c > 0), nil
	}
	return BoolValue(c >= 0), nil
}
