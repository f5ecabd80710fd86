// Package native is the bridge between compiled units and host code.
//
// A native path names a host value: "nova.sys_args" for runtime globals,
// "std/math.sqrt" for the fixed standard catalog, or "strings.upper" for a
// walk of the host module registry. Values crossing the bridge are int64,
// float64, bool, string, []any, *Dict, Func or nil.
package native
