package native

import (
	"fmt"
	"math"

	"fortio.org/safecast"

	"github.com/NovaVoxel/NovaLang/internal/ir"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

type fixup struct {
	pc    int
	label string
	block string
}

// funcLowerer emits one function. Temporaries map to registers 0..n-1;
// scratch registers for materialised constants follow.
type funcLowerer struct {
	ul     *unitLowerer
	f      *ir.Func
	nf     *nomc.Func
	slots  map[string]int32
	starts map[string]int64
	fixups []fixup
	regs   int32
	ints   map[int]int64 // temps known to hold an int constant

	block string
	op    ir.OpCode
}

func (ul *unitLowerer) lowerFunc(f *ir.Func) (*nomc.Func, error) {
	fl := &funcLowerer{
		ul:     ul,
		f:      f,
		nf:     &nomc.Func{Name: f.Name},
		slots:  make(map[string]int32, len(f.Params)),
		starts: make(map[string]int64, len(f.Blocks)),
		ints:   make(map[int]int64),
		op:     ir.OpCount,
	}
	params, err := safecast.Conv[int32](len(f.Params))
	if err != nil {
		return nil, fl.errorf("too many parameters")
	}
	fl.nf.Params = params
	for i, p := range f.Params {
		fl.slots[p] = int32(i) // bounded by params above
	}
	if err := fl.allocSlots(); err != nil {
		return nil, err
	}
	temps := maxTemp(f) + 1
	if fl.regs, err = safecast.Conv[int32](temps); err != nil {
		return nil, fl.errorf("too many temporaries")
	}

	for bi, b := range f.Blocks {
		fl.block, fl.op = b.Name, ir.OpCount
		if _, dup := fl.starts[b.Name]; dup {
			return nil, fl.errorf("duplicate block name")
		}
		fl.starts[b.Name] = int64(len(fl.nf.Code))
		for i := range b.Instrs {
			in := &b.Instrs[i]
			fl.op = in.Op
			if in.Op.IsConditional() && bi == len(f.Blocks)-1 {
				return nil, fl.errorf("conditional jump in last block has no fallthrough successor")
			}
			if err := fl.lowerInstr(in); err != nil {
				return nil, err
			}
		}
		if !b.Terminated() {
			fl.emit(nomc.Instr{Op: nomc.RETZ})
		}
	}

	fl.block, fl.op = "", ir.OpCount
	for _, fx := range fl.fixups {
		pc, ok := fl.starts[fx.label]
		if !ok {
			fl.block = fx.block
			return nil, fl.errorf("jump to unknown block %q", fx.label)
		}
		fl.nf.Code[fx.pc].Imm = pc
	}

	slots, err := safecast.Conv[int32](len(fl.slots))
	if err != nil {
		return nil, fl.errorf("too many variables")
	}
	fl.nf.Slots = slots
	fl.nf.Regs = fl.regs
	return fl.nf, nil
}

// allocSlots gives every STORE_VAR target a slot after the parameters, so a
// load laid out before the first store still resolves. Reads of a slot not
// yet written trap at run time.
func (fl *funcLowerer) allocSlots() error {
	for _, b := range fl.f.Blocks {
		fl.block = b.Name
		for i := range b.Instrs {
			in := &b.Instrs[i]
			if in.Op != ir.OpStoreVar {
				continue
			}
			fl.op = in.Op
			name, err := fl.name(in, 0)
			if err != nil {
				return err
			}
			if _, ok := fl.slot(name, true); !ok {
				return fl.errorf("too many variables")
			}
		}
	}
	fl.block, fl.op = "", ir.OpCount
	return nil
}

func maxTemp(f *ir.Func) int {
	hi := f.NumTemps() - 1
	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			if in.Result != nil && in.Result.ID > hi {
				hi = in.Result.ID
			}
		}
	}
	return hi
}

func (fl *funcLowerer) errorf(format string, args ...any) error {
	return &CodegenError{Func: fl.f.Name, Block: fl.block, Op: fl.op, Msg: fmt.Sprintf(format, args...)}
}

// emit appends in, defaulting unused register fields to NoReg.
func (fl *funcLowerer) emit(in nomc.Instr) int {
	sh := in
	if sh.Op != nomc.STL && in.Dst == 0 && !writesDst(in.Op) {
		sh.Dst = nomc.NoReg
	}
	if in.A == 0 && !readsA(in.Op) {
		sh.A = nomc.NoReg
	}
	if in.B == 0 && !readsB(in.Op) {
		sh.B = nomc.NoReg
	}
	fl.nf.Code = append(fl.nf.Code, sh)
	return len(fl.nf.Code) - 1
}

func (fl *funcLowerer) branch(op nomc.Op, cond int32, label string) {
	pc := fl.emit(nomc.Instr{Op: op, A: cond})
	fl.fixups = append(fl.fixups, fixup{pc: pc, label: label, block: fl.block})
}

func (fl *funcLowerer) scratch() (int32, error) {
	r := fl.regs
	if r == math.MaxInt32 {
		return 0, fl.errorf("register file exhausted")
	}
	fl.regs++
	return r, nil
}

// slot returns the variable slot for name, allocating when create is set.
func (fl *funcLowerer) slot(name string, create bool) (int32, bool) {
	if s, ok := fl.slots[name]; ok {
		return s, true
	}
	if !create {
		return 0, false
	}
	s, err := safecast.Conv[int32](len(fl.slots))
	if err != nil {
		return 0, false
	}
	fl.slots[name] = s
	return s, true
}

// dst returns the register of in's result.
func (fl *funcLowerer) dst(in *ir.Instr) (int32, error) {
	if in.Result == nil {
		return nomc.NoReg, nil
	}
	return safecast.Conv[int32](in.Result.ID)
}

// reg returns a register holding v, materialising constants.
func (fl *funcLowerer) reg(v ir.Value) (int32, error) {
	switch v.Kind {
	case ir.ValTemp:
		r, err := safecast.Conv[int32](v.Temp.ID)
		if err != nil || r < 0 || r >= fl.regs {
			return 0, fl.errorf("temporary %s out of range", v.Temp)
		}
		return r, nil
	case ir.ValConst:
		r, err := fl.scratch()
		if err != nil {
			return 0, err
		}
		fl.loadConst(r, v.Const)
		return r, nil
	case ir.ValModule:
		r, err := fl.scratch()
		if err != nil {
			return 0, err
		}
		fl.emit(nomc.Instr{Op: nomc.LDS, Dst: r, Imm: fl.ul.str(v.Name)})
		return r, nil
	}
	return 0, fl.errorf("operand %s is not a value", v)
}

func (fl *funcLowerer) regs2(a, b ir.Value) (int32, int32, error) {
	ra, err := fl.reg(a)
	if err != nil {
		return 0, 0, err
	}
	rb, err := fl.reg(b)
	return ra, rb, err
}

func (fl *funcLowerer) loadConst(dst int32, c ir.Const) {
	switch c.Kind {
	case ir.ConstInt:
		fl.emit(nomc.Instr{Op: nomc.MOVI, Dst: dst, Imm: c.Int})
	case ir.ConstFloat:
		fl.emit(nomc.Instr{Op: nomc.MOVF, Dst: dst, Imm: int64(math.Float64bits(c.Float))})
	case ir.ConstBool:
		var imm int64
		if c.Bool {
			imm = 1
		}
		fl.emit(nomc.Instr{Op: nomc.MOVB, Dst: dst, Imm: imm})
	case ir.ConstString:
		fl.emit(nomc.Instr{Op: nomc.LDS, Dst: dst, Imm: fl.ul.str(c.Str)})
	}
}

func writesDst(op nomc.Op) bool {
	switch op {
	case nomc.MOVI, nomc.MOVF, nomc.MOVB, nomc.MOVN, nomc.LDS, nomc.LDL, nomc.MOV,
		nomc.ADD, nomc.SUB, nomc.MUL, nomc.DIV, nomc.MOD, nomc.POW,
		nomc.ADDI, nomc.SUBI, nomc.MULI, nomc.DIVI, nomc.MODI, nomc.POWI,
		nomc.NEG, nomc.NOT, nomc.AND, nomc.OR,
		nomc.CEQ, nomc.CNE, nomc.CLT, nomc.CLE, nomc.CGT, nomc.CGE,
		nomc.CALL, nomc.RTCALL:
		return true
	}
	return false
}

func readsA(op nomc.Op) bool {
	switch op {
	case nomc.LDL, nomc.STL, nomc.MOV, nomc.ADD, nomc.SUB, nomc.MUL, nomc.DIV, nomc.MOD, nomc.POW,
		nomc.ADDI, nomc.SUBI, nomc.MULI, nomc.DIVI, nomc.MODI, nomc.POWI,
		nomc.NEG, nomc.NOT, nomc.AND, nomc.OR,
		nomc.CEQ, nomc.CNE, nomc.CLT, nomc.CLE, nomc.CGT, nomc.CGE,
		nomc.JZ, nomc.JNZ, nomc.RET, nomc.HLT:
		return true
	}
	return false
}

func readsB(op nomc.Op) bool {
	switch op {
	case nomc.ADD, nomc.SUB, nomc.MUL, nomc.DIV, nomc.MOD, nomc.POW, nomc.AND, nomc.OR,
		nomc.CEQ, nomc.CNE, nomc.CLT, nomc.CLE, nomc.CGT, nomc.CGE:
		return true
	}
	return false
}
