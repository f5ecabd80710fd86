package native

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// stdlib is the fixed catalog reachable through "use std/<category>".
var stdlib = map[string]Func{
	"std/math.sqrt":  float1(math.Sqrt),
	"std/math.sin":   float1(math.Sin),
	"std/math.cos":   float1(math.Cos),
	"std/math.tan":   float1(math.Tan),
	"std/math.exp":   float1(math.Exp),
	"std/math.log":   mathLog,
	"std/math.floor": mathFloor,
	"std/math.pow":   float2(math.Pow),
	"std/math.pi":    constant(math.Pi),
	"std/math.e":     constant(math.E),

	"std/os.getcwd":  osGetcwd,
	"std/os.listdir": osListdir,
	"std/os.exists":  statPred(func(os.FileInfo) bool { return true }),
	"std/os.isfile":  statPred(func(fi os.FileInfo) bool { return fi.Mode().IsRegular() }),
	"std/os.isdir":   statPred(os.FileInfo.IsDir),
	"std/os.join":    osJoin,

	"std/time.time":  timeNow,
	"std/time.sleep": timeSleep,

	"std/random.random":  randomFloat,
	"std/random.randint": randomInt,
	"std/random.choice":  randomChoice,

	"std/json.loads": jsonLoads,
	"std/json.dumps": jsonDumps,
}

// StdPaths lists the catalog in sorted order.
func StdPaths() []string {
	out := make([]string, 0, len(stdlib))
	for p := range stdlib {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func arity(args []any, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return argErr("expected %d arguments, got %d", lo, len(args))
		}
		return argErr("expected %d to %d arguments, got %d", lo, hi, len(args))
	}
	return nil
}

func floatArg(args []any, i int) (float64, error) {
	f, ok := toFloat(args[i])
	if !ok {
		return 0, argErr("argument %d must be a number, got %s", i+1, Repr(args[i]))
	}
	return f, nil
}

func intArg(args []any, i int) (int64, error) {
	n, ok := toInt(args[i])
	if !ok {
		return 0, argErr("argument %d must be an integer, got %s", i+1, Repr(args[i]))
	}
	return n, nil
}

func stringArg(args []any, i int) (string, error) {
	s, ok := args[i].(string)
	if !ok {
		return "", argErr("argument %d must be a string, got %s", i+1, Repr(args[i]))
	}
	return s, nil
}

func float1(fn func(float64) float64) Func {
	return func(_ *Env, args []any) (any, error) {
		if err := arity(args, 1, 1); err != nil {
			return nil, err
		}
		x, err := floatArg(args, 0)
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	}
}

func float2(fn func(float64, float64) float64) Func {
	return func(_ *Env, args []any) (any, error) {
		if err := arity(args, 2, 2); err != nil {
			return nil, err
		}
		x, err := floatArg(args, 0)
		if err != nil {
			return nil, err
		}
		y, err := floatArg(args, 1)
		if err != nil {
			return nil, err
		}
		return fn(x, y), nil
	}
}

func constant(v any) Func {
	return func(_ *Env, args []any) (any, error) {
		if err := arity(args, 0, 0); err != nil {
			return nil, err
		}
		return v, nil
	}
}

func mathLog(_ *Env, args []any) (any, error) {
	if err := arity(args, 1, 2); err != nil {
		return nil, err
	}
	x, err := floatArg(args, 0)
	if err != nil {
		return nil, err
	}
	if x <= 0 {
		return nil, argErr("math domain error")
	}
	if len(args) == 1 {
		return math.Log(x), nil
	}
	base, err := floatArg(args, 1)
	if err != nil {
		return nil, err
	}
	return math.Log(x) / math.Log(base), nil
}

func mathFloor(_ *Env, args []any) (any, error) {
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
	return floatToInt(math.Floor(x))
}

func floatToInt(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, argErr("cannot convert %s to integer", FormatFloat(f))
	}
	return int64(f), nil
}

func osGetcwd(_ *Env, args []any) (any, error) {
	if err := arity(args, 0, 0); err != nil {
		return nil, err
	}
	return os.Getwd()
}

func osListdir(_ *Env, args []any) (any, error) {
	if err := arity(args, 0, 1); err != nil {
		return nil, err
	}
	dir := "."
	if len(args) == 1 {
		s, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		dir = s
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e.Name()
	}
	return out, nil
}

func statPred(pred func(os.FileInfo) bool) Func {
	return func(_ *Env, args []any) (any, error) {
		if err := arity(args, 1, 1); err != nil {
			return nil, err
		}
		p, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		fi, err := os.Stat(p)
		if err != nil {
			return false, nil
		}
		return pred(fi), nil
	}
}

func osJoin(_ *Env, args []any) (any, error) {
	if len(args) == 0 {
		return nil, argErr("join needs at least one path")
	}
	var out string
	for i := range args {
		p, err := stringArg(args, i)
		if err != nil {
			return nil, err
		}
		switch {
		case filepath.IsAbs(p) || out == "":
			// an absolute component discards everything before it
			out = p
		case os.IsPathSeparator(out[len(out)-1]):
			out += p
		default:
			out += string(filepath.Separator) + p
		}
	}
	return out, nil
}

func timeNow(_ *Env, args []any) (any, error) {
	if err := arity(args, 0, 0); err != nil {
		return nil, err
	}
	return float64(time.Now().UnixNano()) / 1e9, nil
}

func timeSleep(env *Env, args []any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	secs, err := floatArg(args, 0)
	if err != nil {
		return nil, err
	}
	if secs < 0 {
		return nil, argErr("sleep length must be non-negative")
	}
	t := time.NewTimer(time.Duration(secs * float64(time.Second)))
	defer t.Stop()
	select {
	case <-env.Ctx.Done():
		return nil, env.Ctx.Err()
	case <-t.C:
		return nil, nil
	}
}

func randomFloat(env *Env, args []any) (any, error) {
	if err := arity(args, 0, 0); err != nil {
		return nil, err
	}
	return env.Rand.Float64(), nil
}

func randomInt(env *Env, args []any) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	lo, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	hi, err := intArg(args, 1)
	if err != nil {
		return nil, err
	}
	if hi < lo {
		return nil, argErr("empty range for randint(%d, %d)", lo, hi)
	}
	span := uint64(hi - lo)
	if span == math.MaxUint64 {
		return int64(env.Rand.Uint64()), nil
	}
	return lo + int64(env.Rand.Uint64N(span+1)), nil
}

func randomChoice(env *Env, args []any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	switch seq := args[0].(type) {
	case []any:
		if len(seq) == 0 {
			return nil, argErr("cannot choose from an empty sequence")
		}
		return seq[env.Rand.IntN(len(seq))], nil
	case string:
		rs := []rune(seq)
		if len(rs) == 0 {
			return nil, argErr("cannot choose from an empty sequence")
		}
		return string(rs[env.Rand.IntN(len(rs))]), nil
	}
	return nil, argErr("choice needs a list or string, got %s", Repr(args[0]))
}
