// Package ir defines the structured intermediate representation of a Nova
// module and the AST to IR builder.
//
// A Module is a list of Funcs; a Func is a list of named Blocks in layout
// order; a Block is a list of Instrs, the last of which is the block's only
// terminator (JUMP, JUMP_IF_TRUE, JUMP_IF_FALSE or RETURN).
//
// Layout order carries meaning: the true edge of JUMP_IF_FALSE and the false
// edge of JUMP_IF_TRUE are the block that immediately follows in
// Func.Blocks. Backends rely on this fallthrough.
//
// Temporaries are single-assignment: each Temp is the Result of exactly one
// instruction in its function.
package ir
