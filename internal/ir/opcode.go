package ir

// OpCode identifies an IR operation.
type OpCode uint8

const (
	// constants and variables
	OpLoadConst OpCode = iota
	OpLoadVar
	OpStoreVar

	// arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpNeg

	// comparison
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	// logic
	OpAnd
	OpOr
	OpNot

	// control flow
	OpJump
	OpJumpIfTrue
	OpJumpIfFalse
	OpReturn

	// calls
	OpCall

	// iterators
	OpMakeIter
	OpIterHasNext
	OpIterNext

	// lists
	OpListNew
	OpListAppend
	OpListGet
	OpListSet
	OpListLen

	// maps
	OpMapNew
	OpMapGet
	OpMapSet
	OpMapHasKey
	OpMapKeys
	OpMapValues

	// strings
	OpStrConcat
	OpStrLen
	OpStrGet

	// modules and native calls
	OpUseModule
	OpImportModule
	OpImportSymbol
	OpNativeCall

	// system
	OpPrint
	OpDebug
	OpNop
	OpHalt

	// OpCount is the number of opcodes; not a valid opcode.
	OpCount
)

var opNames = [OpCount]string{
	OpLoadConst:    "LOAD_CONST",
	OpLoadVar:      "LOAD_VAR",
	OpStoreVar:     "STORE_VAR",
	OpAdd:          "ADD",
	OpSub:          "SUB",
	OpMul:          "MUL",
	OpDiv:          "DIV",
	OpMod:          "MOD",
	OpPow:          "POW",
	OpNeg:          "NEG",
	OpEq:           "EQ",
	OpNe:           "NE",
	OpLt:           "LT",
	OpLe:           "LE",
	OpGt:           "GT",
	OpGe:           "GE",
	OpAnd:          "AND",
	OpOr:           "OR",
	OpNot:          "NOT",
	OpJump:         "JUMP",
	OpJumpIfTrue:   "JUMP_IF_TRUE",
	OpJumpIfFalse:  "JUMP_IF_FALSE",
	OpReturn:       "RETURN",
	OpCall:         "CALL",
	OpMakeIter:     "MAKE_ITER",
	OpIterHasNext:  "ITER_HAS_NEXT",
	OpIterNext:     "ITER_NEXT",
	OpListNew:      "LIST_NEW",
	OpListAppend:   "LIST_APPEND",
	OpListGet:      "LIST_GET",
	OpListSet:      "LIST_SET",
	OpListLen:      "LIST_LEN",
	OpMapNew:       "MAP_NEW",
	OpMapGet:       "MAP_GET",
	OpMapSet:       "MAP_SET",
	OpMapHasKey:    "MAP_HAS_KEY",
	OpMapKeys:      "MAP_KEYS",
	OpMapValues:    "MAP_VALUES",
	OpStrConcat:    "STR_CONCAT",
	OpStrLen:       "STR_LEN",
	OpStrGet:       "STR_GET",
	OpUseModule:    "USE_MODULE",
	OpImportModule: "IMPORT_MODULE",
	OpImportSymbol: "IMPORT_SYMBOL",
	OpNativeCall:   "NATIVE_CALL",
	OpPrint:        "PRINT",
	OpDebug:        "DEBUG",
	OpNop:          "NOP",
	OpHalt:         "HALT",
}

func (op OpCode) String() string {
	if op < OpCount {
		return opNames[op]
	}
	return "OP?"
}

// IsTerminator reports whether op ends a block.
func (op OpCode) IsTerminator() bool {
	switch op {
	case OpJump, OpJumpIfTrue, OpJumpIfFalse, OpReturn:
		return true
	}
	return false
}

// IsConditional reports whether op is a two-way branch.
func (op OpCode) IsConditional() bool {
	return op == OpJumpIfTrue || op == OpJumpIfFalse
}

// HasResult reports whether instructions with op define a temporary.
func (op OpCode) HasResult() bool {
	switch op {
	case OpStoreVar, OpListSet, OpMapSet, OpUseModule, OpNop, OpHalt,
		OpJump, OpJumpIfTrue, OpJumpIfFalse, OpReturn:
		return false
	}
	return op < OpCount
}

// Arity returns the operand count accepted by op: exact when min == max,
// max < 0 means unbounded.
func (op OpCode) Arity() (minOps, maxOps int) {
	switch op {
	case OpListNew, OpMapNew, OpNop, OpHalt:
		return 0, 0
	case OpMakeIter:
		// the optional second operand is a Bool constant selecting pairs
		return 1, 2
	case OpLoadConst, OpLoadVar, OpNeg, OpNot, OpJump, OpIterHasNext,
		OpIterNext, OpListLen, OpMapKeys, OpMapValues, OpStrLen, OpUseModule,
		OpImportModule, OpPrint, OpDebug:
		return 1, 1
	case OpReturn:
		return 0, 1
	case OpListSet, OpMapSet:
		return 3, 3
	default:
		return 2, 2
	}
}
