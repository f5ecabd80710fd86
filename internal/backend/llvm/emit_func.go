package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	nir "github.com/NovaVoxel/NovaLang/internal/ir"
)

type funcEmitter struct {
	emitter *Emitter
	f       *nir.Func
	fn      *ir.Func
	blocks  []*ir.Block
	index   map[string]int
	vars    map[string]*ir.InstAlloca
	temps   map[int]value.Value
	cur     int
}

func (e *Emitter) emitFunc(f *nir.Func) error {
	if len(f.Blocks) == 0 {
		return fmt.Errorf("llvm: func %s has no blocks", f.Name)
	}
	fe := &funcEmitter{
		emitter: e,
		f:       f,
		fn:      e.funcs[f.Name],
		index:   make(map[string]int, len(f.Blocks)),
		vars:    make(map[string]*ir.InstAlloca),
		temps:   make(map[int]value.Value),
	}
	for i, b := range f.Blocks {
		fe.blocks = append(fe.blocks, fe.fn.NewBlock(b.Name))
		fe.index[b.Name] = i
	}
	fe.prepareLocals()

	for i, b := range f.Blocks {
		fe.cur = i
		for j := range b.Instrs {
			if err := fe.emitInstr(&b.Instrs[j]); err != nil {
				return fmt.Errorf("llvm: func %s: block %s: %w", f.Name, b.Name, err)
			}
		}
		if fe.blocks[i].Term == nil {
			fe.blocks[i].NewRet(fe.zero())
		}
	}
	return nil
}

// prepareLocals allocates every parameter and stored variable in the entry
// block and spills the incoming arguments.
func (fe *funcEmitter) prepareLocals() {
	entry := fe.blocks[0]
	alloc := func(name string) {
		if _, ok := fe.vars[name]; ok {
			return
		}
		a := entry.NewAlloca(types.I64)
		a.SetName(name + ".addr")
		fe.vars[name] = a
	}
	for _, p := range fe.f.Params {
		alloc(p)
	}
	for _, b := range fe.f.Blocks {
		for _, in := range b.Instrs {
			if in.Op == nir.OpStoreVar && len(in.Operands) > 0 {
				alloc(in.Operands[0].Name)
			}
		}
	}
	for i, p := range fe.f.Params {
		entry.NewStore(fe.fn.Params[i], fe.vars[p])
	}
}

func (fe *funcEmitter) block() *ir.Block { return fe.blocks[fe.cur] }

// next is the layout successor used as the fallthrough edge.
func (fe *funcEmitter) next() (*ir.Block, error) {
	if fe.cur+1 >= len(fe.blocks) {
		return nil, fmt.Errorf("conditional jump in last block has no fallthrough successor")
	}
	return fe.blocks[fe.cur+1], nil
}

func (fe *funcEmitter) target(label string) (*ir.Block, error) {
	i, ok := fe.index[label]
	if !ok {
		return nil, fmt.Errorf("jump to unknown block %q", label)
	}
	return fe.blocks[i], nil
}

func (fe *funcEmitter) call(name string, args ...value.Value) value.Value {
	return fe.block().NewCall(fe.emitter.runtime[name], args...)
}

func (fe *funcEmitter) zero() value.Value {
	return fe.call(rtInt, constant.NewInt(types.I64, 0))
}
