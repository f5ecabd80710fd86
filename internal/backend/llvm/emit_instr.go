package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	nir "github.com/NovaVoxel/NovaLang/internal/ir"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

var helperFor = map[nir.OpCode]string{
	nir.OpAdd: "nova_rt_add",
	nir.OpSub: "nova_rt_sub",
	nir.OpMul: "nova_rt_mul",
	nir.OpDiv: "nova_rt_div",
	nir.OpMod: "nova_rt_mod",
	nir.OpPow: "nova_rt_pow",
	nir.OpEq:  "nova_rt_eq",
	nir.OpNe:  "nova_rt_ne",
	nir.OpLt:  "nova_rt_lt",
	nir.OpLe:  "nova_rt_le",
	nir.OpGt:  "nova_rt_gt",
	nir.OpGe:  "nova_rt_ge",
	nir.OpAnd: "nova_rt_and",
	nir.OpOr:  "nova_rt_or",
	nir.OpNeg: "nova_rt_neg",
	nir.OpNot: "nova_rt_not",

	nir.OpIterHasNext:  nomc.RtIterHasNext,
	nir.OpIterNext:     nomc.RtIterNext,
	nir.OpListNew:      nomc.RtListNew,
	nir.OpListAppend:   nomc.RtListAppend,
	nir.OpListGet:      nomc.RtListGet,
	nir.OpListSet:      nomc.RtListSet,
	nir.OpListLen:      nomc.RtListLen,
	nir.OpMapNew:       nomc.RtMapNew,
	nir.OpMapGet:       nomc.RtMapGet,
	nir.OpMapSet:       nomc.RtMapSet,
	nir.OpMapHasKey:    nomc.RtMapHas,
	nir.OpMapKeys:      nomc.RtMapKeys,
	nir.OpMapValues:    nomc.RtMapValues,
	nir.OpStrConcat:    nomc.RtStrConcat,
	nir.OpStrLen:       nomc.RtStrLen,
	nir.OpStrGet:       nomc.RtStrGet,
	nir.OpUseModule:    nomc.RtUseModule,
	nir.OpImportModule: nomc.RtImportModule,
	nir.OpImportSymbol: nomc.RtImportSymbol,
}

func (fe *funcEmitter) emitInstr(in *nir.Instr) error {
	var res value.Value
	switch op := in.Op; op {
	case nir.OpLoadConst:
		if len(in.Operands) != 1 {
			return fmt.Errorf("%s: expects one operand", op)
		}
		v, err := fe.value(in.Operands[0])
		if err != nil {
			return err
		}
		res = v
	case nir.OpLoadVar:
		slot, err := fe.variable(in, false)
		if err != nil {
			return err
		}
		res = fe.block().NewLoad(types.I64, slot)
	case nir.OpStoreVar:
		slot, err := fe.variable(in, true)
		if err != nil {
			return err
		}
		if len(in.Operands) != 2 {
			return fmt.Errorf("%s: expects name and value", op)
		}
		v, err := fe.value(in.Operands[1])
		if err != nil {
			return err
		}
		fe.block().NewStore(v, slot)

	case nir.OpJump:
		t, err := fe.target(in.Target())
		if err != nil {
			return err
		}
		fe.block().NewBr(t)
	case nir.OpJumpIfFalse, nir.OpJumpIfTrue:
		t, err := fe.target(in.Target())
		if err != nil {
			return err
		}
		next, err := fe.next()
		if err != nil {
			return err
		}
		c, err := fe.value(in.Operands[0])
		if err != nil {
			return err
		}
		cond := fe.call(rtTruthy, c)
		if op == nir.OpJumpIfFalse {
			fe.block().NewCondBr(cond, next, t)
		} else {
			fe.block().NewCondBr(cond, t, next)
		}
	case nir.OpReturn:
		if len(in.Operands) == 0 {
			fe.block().NewRet(fe.zero())
			break
		}
		v, err := fe.value(in.Operands[0])
		if err != nil {
			return err
		}
		fe.block().NewRet(v)
	case nir.OpHalt:
		fe.block().NewRet(fe.zero())

	case nir.OpCall:
		if len(in.Operands) != 2 {
			return fmt.Errorf("%s: expects callee and arguments", op)
		}
		callee, ok := fe.emitter.funcs[in.Operands[0].Name]
		if !ok {
			return fmt.Errorf("call to undefined function %q", in.Operands[0].Name)
		}
		args, err := fe.values(in.Operands[1].Args)
		if err != nil {
			return err
		}
		if len(args) != len(callee.Params) {
			return fmt.Errorf("%s expects %d arguments, got %d", in.Operands[0].Name, len(callee.Params), len(args))
		}
		res = fe.block().NewCall(callee, args...)
	case nir.OpNativeCall:
		if len(in.Operands) != 2 {
			return fmt.Errorf("%s: expects target and arguments", op)
		}
		target, err := fe.value(in.Operands[0])
		if err != nil {
			return err
		}
		list, err := fe.packArgs(target, in.Operands[1].Args)
		if err != nil {
			return err
		}
		name := nomc.RtNativeInvoke
		if in.Operands[0].Kind == nir.ValModule {
			name = nomc.RtNativeCall
		}
		res = fe.call(name, list)
	case nir.OpPrint, nir.OpDebug:
		if len(in.Operands) != 1 {
			return fmt.Errorf("%s: expects an argument list", op)
		}
		list, err := fe.packArgs(nil, in.Operands[0].Args)
		if err != nil {
			return err
		}
		name := nomc.RtPrint
		if op == nir.OpDebug {
			name = nomc.RtDebug
		}
		res = fe.call(name, list)
	case nir.OpMakeIter:
		if len(in.Operands) == 0 || len(in.Operands) > 2 {
			return fmt.Errorf("%s: expects an iterable and an optional mode", op)
		}
		v, err := fe.value(in.Operands[0])
		if err != nil {
			return err
		}
		name := nomc.RtIterMake
		if len(in.Operands) == 2 && in.Operands[1].Kind == nir.ValConst && in.Operands[1].Const.Bool {
			name = nomc.RtIterPairs
		}
		res = fe.call(name, v)
	case nir.OpNop:

	default:
		helper, ok := helperFor[op]
		if !ok {
			return fmt.Errorf("unsupported opcode %s", op)
		}
		args, err := fe.values(in.Operands)
		if err != nil {
			return err
		}
		if want := len(fe.emitter.runtime[helper].Params); want != len(args) {
			return fmt.Errorf("%s: expects %d operands, got %d", op, want, len(args))
		}
		res = fe.call(helper, args...)
	}

	if in.Result != nil {
		if res == nil {
			return fmt.Errorf("%s produces no value", in.Op)
		}
		fe.temps[in.Result.ID] = res
	}
	return nil
}

func (fe *funcEmitter) variable(in *nir.Instr, store bool) (value.Value, error) {
	if len(in.Operands) == 0 || in.Operands[0].Kind != nir.ValName {
		return nil, fmt.Errorf("%s: operand 0 must be a name", in.Op)
	}
	name := in.Operands[0].Name
	slot, ok := fe.vars[name]
	if !ok {
		if store {
			return nil, fmt.Errorf("variable %q has no storage", name)
		}
		return nil, fmt.Errorf("variable %q used before assignment", name)
	}
	return slot, nil
}

// value materialises v as an i64 handle.
func (fe *funcEmitter) value(v nir.Value) (value.Value, error) {
	switch v.Kind {
	case nir.ValTemp:
		t, ok := fe.temps[v.Temp.ID]
		if !ok {
			return nil, fmt.Errorf("temporary %s used before definition", v.Temp)
		}
		return t, nil
	case nir.ValConst:
		switch c := v.Const; c.Kind {
		case nir.ConstInt:
			return fe.call(rtInt, constant.NewInt(types.I64, c.Int)), nil
		case nir.ConstFloat:
			return fe.call(rtFloat, constant.NewFloat(types.Double, c.Float)), nil
		case nir.ConstBool:
			return fe.call(rtBool, constant.NewBool(c.Bool)), nil
		case nir.ConstString:
			return fe.str(c.Str), nil
		}
	case nir.ValModule, nir.ValName:
		return fe.str(v.Name), nil
	}
	return nil, fmt.Errorf("operand %s is not a value", v)
}

func (fe *funcEmitter) values(vs []nir.Value) ([]value.Value, error) {
	out := make([]value.Value, 0, len(vs))
	for _, v := range vs {
		x, err := fe.value(v)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

// packArgs builds a runtime list holding head (when set) and vs for
// variadic catalog calls.
func (fe *funcEmitter) packArgs(head value.Value, vs []nir.Value) (value.Value, error) {
	args, err := fe.values(vs)
	if err != nil {
		return nil, err
	}
	list := fe.call(nomc.RtListNew)
	if head != nil {
		fe.call(nomc.RtListAppend, list, head)
	}
	for _, a := range args {
		fe.call(nomc.RtListAppend, list, a)
	}
	return list, nil
}

func (fe *funcEmitter) str(s string) value.Value {
	ptr, n := fe.emitter.stringConst(s)
	return fe.call(rtStr, ptr, constant.NewInt(types.I64, n))
}
