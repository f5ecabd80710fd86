package vm

import (
	"fmt"
)

// TrapCode identifies the kind of runtime failure.
type TrapCode int

// Stable trap codes - do not change values.
const (
	TrapTypeMismatch   TrapCode = 1001 // VM1001: operand kinds not supported by the op
	TrapDivideByZero   TrapCode = 1002 // VM1002: division or modulo by zero
	TrapOutOfBounds    TrapCode = 1003 // VM1003: list or string index out of range
	TrapMissingKey     TrapCode = 1004 // VM1004: map key not present
	TrapUnhashable     TrapCode = 1005 // VM1005: list or map used as a map key
	TrapUnset          TrapCode = 1006 // VM1006: variable read before any store
	TrapStackOverflow  TrapCode = 1007 // VM1007: call depth limit exceeded
	TrapNotIterable    TrapCode = 1008 // VM1008: for over a non-iterable value
	TrapIterExhausted  TrapCode = 1009 // VM1009: ITER_NEXT past the end
	TrapBadCode        TrapCode = 1010 // VM1010: malformed instruction at run time
	TrapNativeFailure  TrapCode = 1011 // VM1011: error value used as an operand
	TrapUnknownRuntime TrapCode = 1012 // VM1012: unresolved runtime import
	TrapTooLarge       TrapCode = 1013 // VM1013: result exceeds the size limit
)

// String returns the code as "VM1001".
func (c TrapCode) String() string {
	return fmt.Sprintf("VM%d", c)
}

// Trap is a runtime failure inside a unit. Func and PC locate the faulting
// instruction.
type Trap struct {
	Code TrapCode
	Msg  string
	Func string
	PC   int
}

func (t *Trap) Error() string {
	if t.Func == "" {
		return fmt.Sprintf("trap %s: %s", t.Code, t.Msg)
	}
	return fmt.Sprintf("trap %s: %s (at %s+%d)", t.Code, t.Msg, t.Func, t.PC)
}

func trapf(code TrapCode, format string, args ...any) *Trap {
	return &Trap{Code: code, Msg: fmt.Sprintf(format, args...)}
}
