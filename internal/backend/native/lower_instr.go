package native

import (
	"github.com/NovaVoxel/NovaLang/internal/ir"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

var arith = map[ir.OpCode]nomc.Op{
	ir.OpAdd: nomc.ADD,
	ir.OpSub: nomc.SUB,
	ir.OpMul: nomc.MUL,
	ir.OpDiv: nomc.DIV,
	ir.OpMod: nomc.MOD,
	ir.OpPow: nomc.POW,
}

var compare = map[ir.OpCode]nomc.Op{
	ir.OpEq:  nomc.CEQ,
	ir.OpNe:  nomc.CNE,
	ir.OpLt:  nomc.CLT,
	ir.OpLe:  nomc.CLE,
	ir.OpGt:  nomc.CGT,
	ir.OpGe:  nomc.CGE,
	ir.OpAnd: nomc.AND,
	ir.OpOr:  nomc.OR,
}

// runtimeOps maps opcodes lowered to a plain runtime call with positional
// value operands.
var runtimeOps = map[ir.OpCode]string{
	ir.OpIterHasNext:  nomc.RtIterHasNext,
	ir.OpIterNext:     nomc.RtIterNext,
	ir.OpListNew:      nomc.RtListNew,
	ir.OpListAppend:   nomc.RtListAppend,
	ir.OpListGet:      nomc.RtListGet,
	ir.OpListSet:      nomc.RtListSet,
	ir.OpListLen:      nomc.RtListLen,
	ir.OpMapNew:       nomc.RtMapNew,
	ir.OpMapGet:       nomc.RtMapGet,
	ir.OpMapSet:       nomc.RtMapSet,
	ir.OpMapHasKey:    nomc.RtMapHas,
	ir.OpMapKeys:      nomc.RtMapKeys,
	ir.OpMapValues:    nomc.RtMapValues,
	ir.OpStrConcat:    nomc.RtStrConcat,
	ir.OpStrLen:       nomc.RtStrLen,
	ir.OpStrGet:       nomc.RtStrGet,
	ir.OpUseModule:    nomc.RtUseModule,
	ir.OpImportModule: nomc.RtImportModule,
}

func (fl *funcLowerer) lowerInstr(in *ir.Instr) error {
	dst, err := fl.dst(in)
	if err != nil {
		return fl.errorf("result register: %v", err)
	}
	if in.Op.HasResult() && dst == nomc.NoReg {
		return fl.errorf("missing result temporary")
	}

	switch op := in.Op; op {
	case ir.OpLoadConst:
		if len(in.Operands) != 1 || in.Operands[0].Kind != ir.ValConst {
			return fl.errorf("expects one constant operand")
		}
		c := in.Operands[0].Const
		fl.loadConst(dst, c)
		if c.Kind == ir.ConstInt {
			fl.ints[in.Result.ID] = c.Int
		}
	case ir.OpLoadVar:
		name, err := fl.name(in, 0)
		if err != nil {
			return err
		}
		s, ok := fl.slot(name, false)
		if !ok {
			return fl.errorf("variable %q used before assignment: it is never assigned", name)
		}
		fl.emit(nomc.Instr{Op: nomc.LDL, Dst: dst, A: s})
	case ir.OpStoreVar:
		name, err := fl.name(in, 0)
		if err != nil {
			return err
		}
		if len(in.Operands) != 2 {
			return fl.errorf("expects name and value")
		}
		v, err := fl.reg(in.Operands[1])
		if err != nil {
			return err
		}
		s, ok := fl.slot(name, true)
		if !ok {
			return fl.errorf("too many variables")
		}
		fl.emit(nomc.Instr{Op: nomc.STL, Dst: s, A: v})

	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod, ir.OpPow:
		if len(in.Operands) != 2 {
			return fl.errorf("expects two operands")
		}
		a, err := fl.reg(in.Operands[0])
		if err != nil {
			return err
		}
		mop := arith[op]
		if imm, ok := fl.intOperand(in.Operands[1]); ok {
			iop, _ := mop.Immediate()
			fl.emit(nomc.Instr{Op: iop, Dst: dst, A: a, Imm: imm})
			return nil
		}
		b, err := fl.reg(in.Operands[1])
		if err != nil {
			return err
		}
		fl.emit(nomc.Instr{Op: mop, Dst: dst, A: a, B: b})
	case ir.OpEq, ir.OpNe, ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe, ir.OpAnd, ir.OpOr:
		if len(in.Operands) != 2 {
			return fl.errorf("expects two operands")
		}
		a, b, err := fl.regs2(in.Operands[0], in.Operands[1])
		if err != nil {
			return err
		}
		fl.emit(nomc.Instr{Op: compare[op], Dst: dst, A: a, B: b})
	case ir.OpNeg, ir.OpNot:
		if len(in.Operands) != 1 {
			return fl.errorf("expects one operand")
		}
		a, err := fl.reg(in.Operands[0])
		if err != nil {
			return err
		}
		mop := nomc.NEG
		if op == ir.OpNot {
			mop = nomc.NOT
		}
		fl.emit(nomc.Instr{Op: mop, Dst: dst, A: a})

	case ir.OpJump:
		label := in.Target()
		if label == "" {
			return fl.errorf("missing target")
		}
		fl.branch(nomc.JMP, nomc.NoReg, label)
	case ir.OpJumpIfFalse, ir.OpJumpIfTrue:
		label := in.Target()
		if label == "" {
			return fl.errorf("missing target")
		}
		c, err := fl.reg(in.Operands[0])
		if err != nil {
			return err
		}
		mop := nomc.JZ
		if op == ir.OpJumpIfTrue {
			mop = nomc.JNZ
		}
		// the other edge falls through into the next block
		fl.branch(mop, c, label)
	case ir.OpReturn:
		if len(in.Operands) == 0 || isZero(in.Operands[0]) {
			fl.emit(nomc.Instr{Op: nomc.RETZ})
			return nil
		}
		v, err := fl.reg(in.Operands[0])
		if err != nil {
			return err
		}
		fl.emit(nomc.Instr{Op: nomc.RET, A: v})

	case ir.OpCall:
		return fl.lowerCall(in, dst)
	case ir.OpNativeCall:
		return fl.lowerNativeCall(in, dst)
	case ir.OpImportSymbol:
		if len(in.Operands) != 2 || in.Operands[1].Kind != ir.ValName {
			return fl.errorf("expects module and attribute name")
		}
		mod, err := fl.reg(in.Operands[0])
		if err != nil {
			return err
		}
		attr, err := fl.reg(ir.StrConst(in.Operands[1].Name))
		if err != nil {
			return err
		}
		return fl.rtcall(nomc.RtImportSymbol, dst, mod, attr)
	case ir.OpPrint, ir.OpDebug:
		args, err := fl.argList(in, 0)
		if err != nil {
			return err
		}
		name := nomc.RtPrint
		if op == ir.OpDebug {
			name = nomc.RtDebug
		}
		return fl.rtcall(name, dst, args...)

	case ir.OpMakeIter:
		if len(in.Operands) == 0 || len(in.Operands) > 2 {
			return fl.errorf("expects an iterable and an optional mode")
		}
		name := nomc.RtIterMake
		if len(in.Operands) == 2 {
			if m := in.Operands[1]; m.Kind != ir.ValConst || m.Const.Kind != ir.ConstBool {
				return fl.errorf("iterator mode must be a Bool constant")
			} else if m.Const.Bool {
				name = nomc.RtIterPairs
			}
		}
		r, err := fl.reg(in.Operands[0])
		if err != nil {
			return err
		}
		return fl.rtcall(name, dst, r)
	case ir.OpIterHasNext, ir.OpIterNext,
		ir.OpListNew, ir.OpListAppend, ir.OpListGet, ir.OpListSet, ir.OpListLen,
		ir.OpMapNew, ir.OpMapGet, ir.OpMapSet, ir.OpMapHasKey, ir.OpMapKeys, ir.OpMapValues,
		ir.OpStrConcat, ir.OpStrLen, ir.OpStrGet, ir.OpUseModule, ir.OpImportModule:
		args := make([]int32, 0, len(in.Operands))
		for _, v := range in.Operands {
			r, err := fl.reg(v)
			if err != nil {
				return err
			}
			args = append(args, r)
		}
		return fl.rtcall(runtimeOps[op], dst, args...)

	case ir.OpNop:
	case ir.OpHalt:
		r, err := fl.reg(ir.IntConst(0))
		if err != nil {
			return err
		}
		fl.emit(nomc.Instr{Op: nomc.HLT, A: r})
	default:
		return fl.errorf("unsupported opcode")
	}
	return nil
}

func isZero(v ir.Value) bool {
	return v.Kind == ir.ValConst && v.Const.Kind == ir.ConstInt && v.Const.Int == 0
}

// intOperand reports an int constant usable as an immediate.
func (fl *funcLowerer) intOperand(v ir.Value) (int64, bool) {
	switch v.Kind {
	case ir.ValConst:
		if v.Const.Kind == ir.ConstInt {
			return v.Const.Int, true
		}
	case ir.ValTemp:
		n, ok := fl.ints[v.Temp.ID]
		return n, ok
	}
	return 0, false
}

func (fl *funcLowerer) name(in *ir.Instr, i int) (string, error) {
	if len(in.Operands) <= i || in.Operands[i].Kind != ir.ValName || in.Operands[i].Name == "" {
		return "", fl.errorf("operand %d must be a name", i)
	}
	return in.Operands[i].Name, nil
}

// argList materialises the argument-list operand at index i.
func (fl *funcLowerer) argList(in *ir.Instr, i int) ([]int32, error) {
	if len(in.Operands) <= i || in.Operands[i].Kind != ir.ValArgs {
		return nil, fl.errorf("operand %d must be an argument list", i)
	}
	out := make([]int32, 0, len(in.Operands[i].Args))
	for _, a := range in.Operands[i].Args {
		r, err := fl.reg(a)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (fl *funcLowerer) rtcall(name string, dst int32, args ...int32) error {
	idx, err := fl.ul.runtimeImport(name)
	if err != nil {
		return fl.errorf("%v", err)
	}
	rt, _ := nomc.LookupRuntime(name)
	if !rt.Accepts(len(args)) {
		return fl.errorf("%s called with %d arguments", name, len(args))
	}
	fl.emit(nomc.Instr{Op: nomc.RTCALL, Dst: dst, Imm: idx, Args: args})
	return nil
}

func (fl *funcLowerer) lowerCall(in *ir.Instr, dst int32) error {
	callee, err := fl.name(in, 0)
	if err != nil {
		return err
	}
	idx, ok := fl.ul.funcs[callee]
	if !ok {
		return fl.errorf("call to undefined function %q", callee)
	}
	args, err := fl.argList(in, 1)
	if err != nil {
		return err
	}
	if want := len(fl.ul.m.Funcs[idx].Params); want != len(args) {
		return fl.errorf("%s expects %d arguments, got %d", callee, want, len(args))
	}
	fl.emit(nomc.Instr{Op: nomc.CALL, Dst: dst, Imm: int64(idx), Args: args})
	return nil
}

// lowerNativeCall passes a static path as the first runtime argument, or
// invokes a handle produced at run time.
func (fl *funcLowerer) lowerNativeCall(in *ir.Instr, dst int32) error {
	if len(in.Operands) != 2 {
		return fl.errorf("expects target and argument list")
	}
	target, err := fl.reg(in.Operands[0])
	if err != nil {
		return err
	}
	args, err := fl.argList(in, 1)
	if err != nil {
		return err
	}
	name := nomc.RtNativeInvoke
	if in.Operands[0].Kind == ir.ValModule {
		name = nomc.RtNativeCall
	}
	return fl.rtcall(name, dst, append([]int32{target}, args...)...)
}
