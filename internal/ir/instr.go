package ir

import (
	"strings"

	"github.com/NovaVoxel/NovaLang/internal/token"
)

// Instr is one IR instruction. Operand shapes by opcode:
//
//	LOAD_CONST(const)          LOAD_VAR(name)          STORE_VAR(name, v)
//	ADD..GE, AND, OR(a, b)     NEG, NOT(a)
//	JUMP(label)                JUMP_IF_*(cond, label)  RETURN() | RETURN(v)
//	CALL(name, [args])         NATIVE_CALL(@path | handle, [args])
//	LIST_SET, MAP_SET(c, k, v) PRINT, DEBUG([args])    USE_MODULE(@path)
//	IMPORT_MODULE(@path | v)   IMPORT_SYMBOL(@path | v, name)
//
// Every other opcode takes its value operands positionally.
type Instr struct {
	Op       OpCode
	Operands []Value
	Result   *Temp
	Pos      token.Pos
}

// Target returns the label operand of a jump, or "".
func (in *Instr) Target() string {
	switch in.Op {
	case OpJump:
		if len(in.Operands) == 1 {
			return in.Operands[0].Name
		}
	case OpJumpIfTrue, OpJumpIfFalse:
		if len(in.Operands) == 2 {
			return in.Operands[1].Name
		}
	}
	return ""
}

func (in *Instr) String() string {
	var sb strings.Builder
	if in.Result != nil {
		sb.WriteString(in.Result.String())
		sb.WriteString(" = ")
	}
	sb.WriteString(in.Op.String())
	sb.WriteByte('(')
	for i, v := range in.Operands {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
