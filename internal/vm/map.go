package vm

import (
	"math"
)

// Map is an insertion-ordered hash map keyed by scalar values.
type Map struct {
	keys  []Value
	vals  []Value
	index map[mapKey]int
}

type mapKey struct {
	kind ValueKind
	n    int64
	s    string
}

func NewMap() *Map {
	return &Map{index: make(map[mapKey]int)}
}

// keyOf folds numerically equal ints, bools and integral floats together.
func keyOf(v Value) (mapKey, bool) {
	switch v.Kind {
	case VKNil:
		return mapKey{kind: VKNil}, true
	case VKInt, VKBool:
		return mapKey{kind: VKInt, n: v.Int}, true
	case VKFloat:
		if v.Float == math.Trunc(v.Float) && v.Float >= math.MinInt64 && v.Float < math.MaxInt64 {
			return mapKey{kind: VKInt, n: int64(v.Float)}, true
		}
		return mapKey{kind: VKFloat, n: int64(math.Float64bits(v.Float))}, true
	case VKString:
		return mapKey{kind: VKString, s: v.Str}, true
	}
	return mapKey{}, false
}

func (m *Map) Len() int { return len(m.keys) }

// Get returns the value under k; ok is false for a missing key and hashable
// is false for keys that cannot index a map.
func (m *Map) Get(k Value) (v Value, ok, hashable bool) {
	mk, hashable := keyOf(k)
	if !hashable {
		return Value{}, false, false
	}
	i, ok := m.index[mk]
	if !ok {
		return Value{}, false, true
	}
	return m.vals[i], true, true
}

// Set stores v under k and reports whether k was hashable.
func (m *Map) Set(k, v Value) bool {
	mk, ok := keyOf(k)
	if !ok {
		return false
	}
	if i, exists := m.index[mk]; exists {
		m.vals[i] = v
		return true
	}
	m.index[mk] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
	return true
}

func (m *Map) Keys() []Value   { return append([]Value(nil), m.keys...) }
func (m *Map) Values() []Value { return append([]Value(nil), m.vals...) }
