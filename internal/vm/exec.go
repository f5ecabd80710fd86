package vm

import (
	"context"
	"errors"
	"math"

	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

// machine is the state of one Image.Call.
type machine struct {
	img      *Image
	ctx      context.Context
	depth    int
	maxDepth int
}

// frame is one activation. set tracks which slots hold a value.
type frame struct {
	fn    *nomc.Func
	regs  []Value
	slots []Value
	set   []bool
	pc    int
}

func (m *machine) call(fi int32, args []Value) (Value, error) {
	if m.depth >= m.maxDepth {
		return Value{}, trapf(TrapStackOverflow, "call depth exceeds %d", m.maxDepth)
	}
	m.depth++
	defer func() { m.depth-- }()

	fn := &m.img.Unit.Funcs[fi]
	fr := &frame{
		fn:    fn,
		regs:  make([]Value, fn.Regs),
		slots: make([]Value, fn.Slots),
		set:   make([]bool, fn.Slots),
	}
	copy(fr.slots, args)
	for i := range args {
		fr.set[i] = true
	}
	res, err := m.run(fr)
	if err != nil {
		var t *Trap
		if errors.As(err, &t) && t.Func == "" {
			t.Func, t.PC = fn.Name, fr.pc
		}
		return Value{}, err
	}
	return res, nil
}

func (m *machine) run(fr *frame) (Value, error) {
	code := fr.fn.Code
	rodata := m.img.Unit.Rodata
	for fr.pc < len(code) {
		in := &code[fr.pc]
		next := fr.pc + 1
		switch in.Op {
		case nomc.NOP:
		case nomc.MOVI:
			fr.regs[in.Dst] = IntValue(in.Imm)
		case nomc.MOVF:
			fr.regs[in.Dst] = FloatValue(math.Float64frombits(uint64(in.Imm)))
		case nomc.MOVB:
			fr.regs[in.Dst] = BoolValue(in.Imm != 0)
		case nomc.MOVN:
			fr.regs[in.Dst] = NilValue()
		case nomc.LDS:
			fr.regs[in.Dst] = StrValue(rodata[in.Imm])
		case nomc.LDL:
			if !fr.set[in.A] {
				return Value{}, trapf(TrapUnset, "variable slot %d read before assignment", in.A)
			}
			fr.regs[in.Dst] = fr.slots[in.A]
		case nomc.STL:
			fr.slots[in.Dst] = fr.regs[in.A]
			fr.set[in.Dst] = true
		case nomc.MOV:
			fr.regs[in.Dst] = fr.regs[in.A]

		case nomc.ADD, nomc.SUB, nomc.MUL, nomc.DIV, nomc.MOD, nomc.POW:
			v, err := arith(in.Op, fr.regs[in.A], fr.regs[in.B])
			if err != nil {
				return Value{}, err
			}
			fr.regs[in.Dst] = v
		case nomc.ADDI, nomc.SUBI, nomc.MULI, nomc.DIVI, nomc.MODI, nomc.POWI:
			v, err := arith(in.Op-(nomc.ADDI-nomc.ADD), fr.regs[in.A], IntValue(in.Imm))
			if err != nil {
				return Value{}, err
			}
			fr.regs[in.Dst] = v
		case nomc.NEG:
			v, err := negate(fr.regs[in.A])
			if err != nil {
				return Value{}, err
			}
			fr.regs[in.Dst] = v
		case nomc.NOT:
			fr.regs[in.Dst] = BoolValue(!fr.regs[in.A].Truthy())
		case nomc.AND:
			fr.regs[in.Dst] = BoolValue(fr.regs[in.A].Truthy() && fr.regs[in.B].Truthy())
		case nomc.OR:
			fr.regs[in.Dst] = BoolValue(fr.regs[in.A].Truthy() || fr.regs[in.B].Truthy())
		case nomc.CEQ:
			fr.regs[in.Dst] = BoolValue(Equal(fr.regs[in.A], fr.regs[in.B]))
		case nomc.CNE:
			fr.regs[in.Dst] = BoolValue(!Equal(fr.regs[in.A], fr.regs[in.B]))
		case nomc.CLT, nomc.CLE, nomc.CGT, nomc.CGE:
			v, err := order(in.Op, fr.regs[in.A], fr.regs[in.B])
			if err != nil {
				return Value{}, err
			}
			fr.regs[in.Dst] = v

		case nomc.JMP:
			next = int(in.Imm)
		case nomc.JZ:
			if !fr.regs[in.A].Truthy() {
				next = int(in.Imm)
			}
		case nomc.JNZ:
			if fr.regs[in.A].Truthy() {
				next = int(in.Imm)
			}

		case nomc.CALL:
			args := m.gather(fr, in.Args)
			fi := int32(in.Imm) //nolint:gosec // verified against len(Funcs)
			v, err := m.call(fi, args)
			if err != nil {
				return Value{}, err
			}
			if in.Dst != nomc.NoReg {
				fr.regs[in.Dst] = v
			}
		case nomc.RTCALL:
			v, err := m.img.links[in.Imm](m, m.gather(fr, in.Args))
			if err != nil {
				return Value{}, err
			}
			if in.Dst != nomc.NoReg {
				fr.regs[in.Dst] = v
			}
		case nomc.RET:
			return fr.regs[in.A], nil
		case nomc.RETZ:
			return IntValue(0), nil
		case nomc.HLT:
			return Value{}, &halt{code: fr.regs[in.A]}
		default:
			return Value{}, trapf(TrapBadCode, "unknown opcode %d", in.Op)
		}
		fr.pc = next
	}
	return IntValue(0), nil
}

func (m *machine) gather(fr *frame, regs []int32) []Value {
	args := make([]Value, len(regs))
	for i, r := range regs {
		args[i] = fr.regs[r]
	}
	return args
}
