package native

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/NovaVoxel/NovaLang/internal/ir"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

// Options configures Lower.
type Options struct {
	// AllowNoEntry accepts modules without main (library units).
	AllowNoEntry bool
	// Target overrides the unit target; empty means the host.
	Target string
}

// unitLowerer holds per-unit state. The rodata and import tables are
// append-only and deduplicated by exact content.
type unitLowerer struct {
	m       *ir.Module
	u       *nomc.Unit
	strs    map[string]int64
	imports map[string]int64
	funcs   map[string]int32
}

// Lower compiles m into a unit. Functions are lowered in module order and
// blocks in layout order; the result is deterministic for a given module.
func Lower(m *ir.Module, opts Options) (*nomc.Unit, error) {
	if m == nil {
		return nil, &CodegenError{Op: ir.OpCount, Msg: "nil module"}
	}
	ul := &unitLowerer{
		m:       m,
		u:       nomc.NewUnit(m.Name),
		strs:    make(map[string]int64),
		imports: make(map[string]int64),
		funcs:   make(map[string]int32, len(m.Funcs)),
	}
	if opts.Target != "" {
		ul.u.Target = opts.Target
	}

	for i, f := range m.Funcs {
		idx, err := safecast.Conv[int32](i)
		if err != nil {
			return nil, &CodegenError{Func: f.Name, Op: ir.OpCount, Msg: "too many functions"}
		}
		if _, dup := ul.funcs[f.Name]; dup {
			return nil, &CodegenError{Func: f.Name, Op: ir.OpCount, Msg: "function defined twice"}
		}
		ul.funcs[f.Name] = idx
		ul.u.Symbols = append(ul.u.Symbols, nomc.Symbol{Name: f.Name, Func: idx})
	}

	if entry := m.Func(nomc.EntrySymbol); entry == nil {
		if !opts.AllowNoEntry {
			return nil, &CodegenError{Op: ir.OpCount, Msg: fmt.Sprintf("module %s has no %s function", m.Name, nomc.EntrySymbol)}
		}
	} else if len(entry.Params) != 0 {
		return nil, &CodegenError{Func: entry.Name, Op: ir.OpCount, Msg: "entry function must not take parameters"}
	}

	ul.u.Funcs = make([]nomc.Func, 0, len(m.Funcs))
	for _, f := range m.Funcs {
		nf, err := ul.lowerFunc(f)
		if err != nil {
			return nil, err
		}
		ul.u.Funcs = append(ul.u.Funcs, *nf)
	}
	if err := nomc.Verify(ul.u); err != nil {
		return nil, &CodegenError{Op: ir.OpCount, Msg: err.Error()}
	}
	return ul.u, nil
}

// str returns the rodata index of s, adding it on first use.
func (ul *unitLowerer) str(s string) int64 {
	if idx, ok := ul.strs[s]; ok {
		return idx
	}
	idx := int64(len(ul.u.Rodata))
	ul.u.Rodata = append(ul.u.Rodata, s)
	ul.strs[s] = idx
	return idx
}

// runtimeImport returns the import index of a runtime catalog function.
func (ul *unitLowerer) runtimeImport(name string) (int64, error) {
	if idx, ok := ul.imports[name]; ok {
		return idx, nil
	}
	if _, ok := nomc.LookupRuntime(name); !ok {
		return 0, fmt.Errorf("runtime function %s is not in the catalog", name)
	}
	idx := int64(len(ul.u.Imports))
	ul.u.Imports = append(ul.u.Imports, name)
	ul.imports[name] = idx
	return idx, nil
}
