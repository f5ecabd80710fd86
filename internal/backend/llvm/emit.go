package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	nir "github.com/NovaVoxel/NovaLang/internal/ir"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

// FuncPrefix namespaces user functions so the C entry can own @main.
const FuncPrefix = "nova."

// Emitter renders one Nova IR module as LLVM IR.
type Emitter struct {
	mod     *nir.Module
	out     *ir.Module
	runtime map[string]*ir.Func
	funcs   map[string]*ir.Func
	strs    map[string]*ir.Global
}

// Emit returns the textual LLVM IR for m.
func Emit(m *nir.Module) (string, error) {
	if m == nil {
		return "", fmt.Errorf("llvm: nil module")
	}
	e := &Emitter{
		mod:     m,
		out:     ir.NewModule(),
		runtime: make(map[string]*ir.Func),
		funcs:   make(map[string]*ir.Func, len(m.Funcs)),
		strs:    make(map[string]*ir.Global),
	}
	e.out.SourceFilename = m.Name
	e.emitRuntimeDecls()
	if err := e.prepareFunctions(); err != nil {
		return "", err
	}
	for _, f := range m.Funcs {
		if err := e.emitFunc(f); err != nil {
			return "", err
		}
	}
	e.emitEntry()
	return e.out.String(), nil
}

func (e *Emitter) emitRuntimeDecls() {
	for _, d := range runtimeDecls() {
		params := make([]*ir.Param, len(d.params))
		for i, t := range d.params {
			params[i] = ir.NewParam("", t)
		}
		e.runtime[d.name] = e.out.NewFunc(d.name, d.ret, params...)
	}
}

func (e *Emitter) prepareFunctions() error {
	for _, f := range e.mod.Funcs {
		if _, dup := e.funcs[f.Name]; dup {
			return fmt.Errorf("llvm: function %s defined twice", f.Name)
		}
		params := make([]*ir.Param, len(f.Params))
		for i, p := range f.Params {
			params[i] = ir.NewParam(p, types.I64)
		}
		fn := e.out.NewFunc(FuncPrefix+f.Name, types.I64, params...)
		fn.Linkage = enum.LinkageInternal
		e.funcs[f.Name] = fn
	}
	return nil
}

// emitEntry wraps nova.main in a C main when the module has one.
func (e *Emitter) emitEntry() {
	user, ok := e.funcs[nomc.EntrySymbol]
	if !ok || len(user.Params) != 0 {
		return
	}
	entry := e.out.NewFunc("main", types.I32)
	b := entry.NewBlock("entry")
	b.NewCall(e.runtime[rtInit])
	res := b.NewCall(user)
	b.NewRet(b.NewCall(e.runtime[rtExitCode], res))
}

// stringConst returns a pointer to the NUL-free bytes of s; equal strings
// share one private global.
func (e *Emitter) stringConst(s string) (constant.Constant, int64) {
	g, ok := e.strs[s]
	if !ok {
		g = e.out.NewGlobalDef(fmt.Sprintf(".str.%d", len(e.strs)), constant.NewCharArrayFromString(s))
		g.Linkage = enum.LinkagePrivate
		g.Immutable = true
		g.UnnamedAddr = enum.UnnamedAddrUnnamedAddr
		e.strs[s] = g
	}
	return constant.NewBitCast(g, types.I8Ptr), int64(len(s))
}
