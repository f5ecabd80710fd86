package nomc

// Op is a machine operation.
type Op uint8

const (
	NOP  Op = iota
	MOVI    // Dst = Imm
	MOVF    // Dst = float64frombits(Imm)
	MOVB    // Dst = Imm != 0
	MOVN    // Dst = nil
	LDS     // Dst = Rodata[Imm]
	LDL     // Dst = slot[A]
	STL     // slot[Dst] = A
	MOV     // Dst = A

	ADD // Dst = A op B
	SUB
	MUL
	DIV
	MOD
	POW

	ADDI // Dst = A op Imm
	SUBI
	MULI
	DIVI
	MODI
	POWI

	NEG // Dst = op A
	NOT
	AND // Dst = A op B
	OR

	CEQ // Dst = A cmp B, a bool
	CNE
	CLT
	CLE
	CGT
	CGE

	JMP    // pc = Imm
	JZ     // if !A { pc = Imm }
	JNZ    // if A { pc = Imm }
	CALL   // Dst = Funcs[Imm](Args...)
	RTCALL // Dst = Runtime[Imports[Imm]](Args...)
	RET    // return A
	RETZ   // return 0
	HLT    // stop the unit with exit value A

	// OpCount is the number of operations; not a valid Op.
	OpCount
)

var opNames = [OpCount]string{
	NOP: "nop", MOVI: "movi", MOVF: "movf", MOVB: "movb", MOVN: "movn",
	LDS: "lds", LDL: "ldl", STL: "stl", MOV: "mov",
	ADD: "add", SUB: "sub", MUL: "mul", DIV: "div", MOD: "mod", POW: "pow",
	ADDI: "addi", SUBI: "subi", MULI: "muli", DIVI: "divi", MODI: "modi", POWI: "powi",
	NEG: "neg", NOT: "not", AND: "and", OR: "or",
	CEQ: "ceq", CNE: "cne", CLT: "clt", CLE: "cle", CGT: "cgt", CGE: "cge",
	JMP: "jmp", JZ: "jz", JNZ: "jnz", CALL: "call", RTCALL: "rtcall",
	RET: "ret", RETZ: "retz", HLT: "hlt",
}

func (op Op) String() string {
	if op < OpCount {
		return opNames[op]
	}
	return "op?"
}

// IsBranch reports whether Imm holds a code index.
func (op Op) IsBranch() bool {
	return op == JMP || op == JZ || op == JNZ
}

// Immediate returns the immediate form of a register arithmetic op.
func (op Op) Immediate() (Op, bool) {
	if op >= ADD && op <= POW {
		return op + (ADDI - ADD), true
	}
	return op, false
}

// operand usage per op: which of Dst/A/B are registers
type shape struct {
	dst, a, b bool
}

func (op Op) shape() shape {
	switch op {
	case MOVI, MOVF, MOVB, MOVN, LDS, LDL:
		return shape{dst: true}
	case STL, JZ, JNZ, RET, HLT:
		return shape{a: true}
	case MOV, ADDI, SUBI, MULI, DIVI, MODI, POWI, NEG, NOT:
		return shape{dst: true, a: true}
	case ADD, SUB, MUL, DIV, MOD, POW, AND, OR, CEQ, CNE, CLT, CLE, CGT, CGE:
		return shape{dst: true, a: true, b: true}
	}
	return shape{}
}
