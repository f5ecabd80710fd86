package native

import (
	"cmp"
	"context"
	"io"
	"math/rand/v2"
	"strings"
)

// Env is what a host function sees of its caller.
type Env struct {
	Ctx    context.Context
	Stdout io.Writer
	Rand   *rand.Rand
}

// Func is a callable host value.
type Func func(env *Env, args []any) (any, error)

// Module is a node of the host registry; members are Func, Module or plain
// values.
type Module map[string]any

// Dict is an insertion-ordered map crossing the bridge.
type Dict struct {
	Keys   []any
	Values []any
}

// Get returns the value stored under k.
func (d *Dict) Get(k any) (any, bool) {
	for i, key := range d.Keys {
		if Equal(key, k) {
			return d.Values[i], true
		}
	}
	return nil, false
}

// Set stores v under k, keeping the original position of existing keys.
func (d *Dict) Set(k, v any) {
	for i, key := range d.Keys {
		if Equal(key, k) {
			d.Values[i] = v
			return
		}
	}
	d.Keys = append(d.Keys, k)
	d.Values = append(d.Values, v)
}

// Equal compares two bridge values; ints and floats compare numerically.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return x == y
		case float64:
			return float64(x) == y
		}
	case float64:
		switch y := b.(type) {
		case int64:
			return x == float64(y)
		case float64:
			return x == y
		}
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Dict:
		y, ok := b.(*Dict)
		if !ok || len(x.Keys) != len(y.Keys) {
			return false
		}
		for i, k := range x.Keys {
			v, ok := y.Get(k)
			if !ok || !Equal(x.Values[i], v) {
				return false
			}
		}
		return true
	case Func:
		return false
	}
	switch b.(type) {
	case []any, *Dict, Func:
		return false
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// TypeName is the user-facing type of v.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "none"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case []any:
		return "list"
	case *Dict:
		return "map"
	case Func:
		return "function"
	case Module:
		return "module"
	}
	return "host"
}

// Compare orders numbers numerically and strings lexically.
func Compare(a, b any) (int, error) {
	if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	}
	x, okx := toFloat(a)
	y, oky := toFloat(b)
	if okx && oky {
		ix, xi := a.(int64)
		iy, yi := b.(int64)
		if xi && yi {
			return cmp.Compare(ix, iy), nil
		}
		return cmp.Compare(x, y), nil
	}
	return 0, argErr("cannot compare %s and %s", TypeName(a), TypeName(b))
}
