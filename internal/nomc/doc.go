// Package nomc defines the compiled-unit format produced by the native
// backend and executed by internal/vm.
//
// A unit is a register machine program: each function has numbered
// registers (one per IR temporary plus scratch) and numbered variable
// slots (parameters first). Control transfers use absolute instruction
// indices inside the function. Calls into the runtime go through the
// unit's import table, whose entries name functions of the fixed Runtime
// catalog.
//
// On disk a unit is "NOMC", one format byte, then a msgpack payload.
package nomc
