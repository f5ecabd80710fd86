package native

import (
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// hostModules is the registry walked for paths outside nova.* and std/*.
func hostModules() Module {
	return Module{
		"builtins": Module{
			"len":    Func(builtinLen),
			"str":    Func(builtinStr),
			"repr":   wrap1(func(v any) (any, error) { return Repr(v), nil }),
			"int":    Func(builtinInt),
			"float":  Func(builtinFloat),
			"bool":   wrap1(func(v any) (any, error) { return Truthy(v), nil }),
			"abs":    Func(builtinAbs),
			"min":    minMax(-1),
			"max":    minMax(1),
			"sum":    Func(builtinSum),
			"sorted": Func(builtinSorted),
			"ord":    Func(builtinOrd),
			"chr":    Func(builtinChr),
			"print":  Func(builtinPrint),
		},
		"strings": Module{
			"upper":      str1(strings.ToUpper),
			"lower":      str1(strings.ToLower),
			"title":      str1(cases.Title(language.Und).String),
			"strip":      str1(strings.TrimSpace),
			"normalize":  str1(norm.NFC.String),
			"split":      Func(stringsSplit),
			"join":       Func(stringsJoin),
			"replace":    Func(stringsReplace),
			"contains":   str2(func(s, sub string) any { return strings.Contains(s, sub) }),
			"startswith": str2(func(s, p string) any { return strings.HasPrefix(s, p) }),
			"endswith":   str2(func(s, p string) any { return strings.HasSuffix(s, p) }),
			"find":       Func(stringsFind),
		},
		"math": Module{
			"pi":    math.Pi,
			"e":     math.E,
			"inf":   math.Inf(1),
			"sqrt":  float1(math.Sqrt),
			"fabs":  float1(math.Abs),
			"hypot": float2(math.Hypot),
			"pow":   float2(math.Pow),
			"floor": Func(mathFloor),
			"ceil":  Func(mathCeil),
			"isnan": wrap1(func(v any) (any, error) {
				f, ok := toFloat(v)
				return ok && math.IsNaN(f), nil
			}),
		},
		"path": Module{
			"base":  str1(filepath.Base),
			"dir":   str1(filepath.Dir),
			"ext":   str1(filepath.Ext),
			"clean": str1(filepath.Clean),
			"join":  Func(osJoin),
			"abs": wrap1(func(v any) (any, error) {
				s, ok := v.(string)
				if !ok {
					return nil, argErr("abs needs a string")
				}
				return filepath.Abs(s)
			}),
		},
	}
}

// Truthy reports the boolean value of v.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case *Dict:
		return len(x.Keys) > 0
	}
	return true
}

func wrap1(fn func(any) (any, error)) Func {
	return func(_ *Env, args []any) (any, error) {
		if err := arity(args, 1, 1); err != nil {
			return nil, err
		}
		return fn(args[0])
	}
}

func str1(fn func(string) string) Func {
	return func(_ *Env, args []any) (any, error) {
		if err := arity(args, 1, 1); err != nil {
			return nil, err
		}
		s, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		return fn(s), nil
	}
}

func str2(fn func(string, string) any) Func {
	return func(_ *Env, args []any) (any, error) {
		if err := arity(args, 2, 2); err != nil {
			return nil, err
		}
		a, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		b, err := stringArg(args, 1)
		if err != nil {
			return nil, err
		}
		return fn(a, b), nil
	}
}

func builtinLen(_ *Env, args []any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case string:
		return int64(len([]rune(x))), nil
	case []any:
		return int64(len(x)), nil
	case *Dict:
		return int64(len(x.Keys)), nil
	}
	return nil, argErr("object of type %s has no len()", TypeName(args[0]))
}

func builtinStr(_ *Env, args []any) (any, error) {
	if err := arity(args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return "", nil
	}
	return Str(args[0]), nil
}

func builtinInt(_ *Env, args []any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case int64:
		return x, nil
	case bool:
		n, _ := toInt(x)
		return n, nil
	case float64:
		return floatToInt(math.Trunc(x))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return nil, argErr("invalid literal for int(): %s", quote(x))
		}
		return n, nil
	}
	return nil, argErr("int() argument must be a string or a number, not %s", TypeName(args[0]))
}

func builtinFloat(_ *Env, args []any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	if s, ok := args[0].(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, argErr("could not convert string to float: %s", quote(s))
		}
		return f, nil
	}
	return floatArg(args, 0)
}

func builtinAbs(_ *Env, args []any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case int64:
		if x < 0 {
			return -x, nil
		}
		return x, nil
	case float64:
		return math.Abs(x), nil
	}
	return nil, argErr("bad operand type for abs(): %s", TypeName(args[0]))
}

// sequence accepts either one list argument or several scalars.
func sequence(args []any) []any {
	if len(args) == 1 {
		if xs, ok := args[0].([]any); ok {
			return xs
		}
	}
	return args
}

func minMax(sign int) Func {
	return func(_ *Env, args []any) (any, error) {
		xs := sequence(args)
		if len(xs) == 0 {
			return nil, argErr("arg is an empty sequence")
		}
		best := xs[0]
		for _, x := range xs[1:] {
			c, err := Compare(x, best)
			if err != nil {
				return nil, err
			}
			if c*sign > 0 {
				best = x
			}
		}
		return best, nil
	}
}

func builtinSum(_ *Env, args []any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	xs, ok := args[0].([]any)
	if !ok {
		return nil, argErr("sum needs a list")
	}
	var (
		n       int64
		f       float64
		isFloat bool
	)
	for _, x := range xs {
		switch v := x.(type) {
		case int64:
			n += v
		case float64:
			f += v
			isFloat = true
		default:
			return nil, argErr("unsupported operand for sum: %s", TypeName(x))
		}
	}
	if isFloat {
		return f + float64(n), nil
	}
	return n, nil
}

func builtinSorted(_ *Env, args []any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	xs, ok := args[0].([]any)
	if !ok {
		return nil, argErr("sorted needs a list")
	}
	out := slices.Clone(xs)
	var cmpErr error
	slices.SortStableFunc(out, func(a, b any) int {
		c, err := Compare(a, b)
		if err != nil && cmpErr == nil {
			cmpErr = err
		}
		return c
	})
	if cmpErr != nil {
		return nil, cmpErr
	}
	return out, nil
}

func builtinOrd(_ *Env, args []any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	s, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	rs := []rune(s)
	if len(rs) != 1 {
		return nil, argErr("ord() expected a character, but string of length %d found", len(rs))
	}
	return int64(rs[0]), nil
}

func builtinChr(_ *Env, args []any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	n, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > 0x10ffff {
		return nil, argErr("chr() arg not in range(0x110000)")
	}
	return string(rune(n)), nil
}

func builtinPrint(env *Env, args []any) (any, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Str(a)
	}
	if env.Stdout != nil {
		if _, err := fmt.Fprintln(env.Stdout, strings.Join(parts, " ")); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func stringsSplit(_ *Env, args []any) (any, error) {
	if err := arity(args, 1, 2); err != nil {
		return nil, err
	}
	s, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	var parts []string
	if len(args) == 1 {
		parts = strings.Fields(s)
	} else {
		sep, err := stringArg(args, 1)
		if err != nil {
			return nil, err
		}
		if sep == "" {
			return nil, argErr("empty separator")
		}
		parts = strings.Split(s, sep)
	}
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out, nil
}

func stringsJoin(_ *Env, args []any) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	sep, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	xs, ok := args[1].([]any)
	if !ok {
		return nil, argErr("join needs a list")
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		s, ok := x.(string)
		if !ok {
			return nil, argErr("sequence item %d: expected str, %s found", i, TypeName(x))
		}
		parts[i] = s
	}
	return strings.Join(parts, sep), nil
}

func stringsReplace(_ *Env, args []any) (any, error) {
	if err := arity(args, 3, 3); err != nil {
		return nil, err
	}
	var ss [3]string
	for i := range ss {
		s, err := stringArg(args, i)
		if err != nil {
			return nil, err
		}
		ss[i] = s
	}
	return strings.ReplaceAll(ss[0], ss[1], ss[2]), nil
}

func stringsFind(_ *Env, args []any) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	s, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	sub, err := stringArg(args, 1)
	if err != nil {
		return nil, err
	}
	i := strings.Index(s, sub)
	if i < 0 {
		return int64(-1), nil
	}
	return int64(len([]rune(s[:i]))), nil
}

func mathCeil(_ *Env, args []any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	if n, ok := args[0].(int64); ok {
		return n, nil
	}
	x, err := floatArg(args, 0)
	if err != nil {
		return nil, err
	}
	return floatToInt(math.Ceil(x))
}
