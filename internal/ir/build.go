package ir

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/NovaVoxel/NovaLang/internal/ast"
	"github.com/NovaVoxel/NovaLang/internal/token"
)

// Build lowers a parsed file. The module is named after the file's base
// name without extension.
func Build(file *ast.File) (*Module, error) {
	name := ""
	if file != nil {
		name = strings.TrimSuffix(filepath.Base(file.Name), filepath.Ext(file.Name))
	}
	return BuildNamed(name, file)
}

// BuildNamed lowers file into a module called name in a single forward pass.
func BuildNamed(name string, file *ast.File) (*Module, error) {
	m := &Module{Name: name}
	if file == nil {
		return m, nil
	}
	aliases := make(map[string]string)
	for _, item := range file.Items {
		switch it := item.(type) {
		case *ast.UseStmt:
			m.Uses = append(m.Uses, it.Path)
			aliases[it.Alias] = it.Path
		case *ast.FuncDecl:
			if m.Func(it.Name) != nil {
				return nil, &BuildError{Pos: it.At, Msg: fmt.Sprintf("function %s redeclared", it.Name)}
			}
			f, err := buildFunc(it, aliases)
			if err != nil {
				return nil, err
			}
			m.Funcs = append(m.Funcs, f)
		default:
			return nil, &BuildError{Pos: item.Pos(), Msg: fmt.Sprintf("unsupported top-level node %T", item)}
		}
	}
	return m, nil
}

// funcBuilder lowers one function with exactly one current-block cursor.
type funcBuilder struct {
	f       *Func
	cur     *Block
	aliases map[string]string
}

func buildFunc(decl *ast.FuncDecl, aliases map[string]string) (*Func, error) {
	fb := &funcBuilder{
		f:       &Func{Name: decl.Name, Params: append([]string(nil), decl.Params...)},
		aliases: maps.Clone(aliases),
	}
	seen := make(map[string]struct{}, len(decl.Params))
	for _, p := range decl.Params {
		if _, dup := seen[p]; dup {
			return nil, &BuildError{Pos: decl.At, Func: decl.Name, Msg: "duplicate parameter " + p}
		}
		seen[p] = struct{}{}
	}

	fb.startBlock(fb.newBlock(EntryBlock))
	endPos := decl.At
	if decl.Body != nil {
		endPos = decl.Body.Pos()
		if err := fb.lowerStmts(decl.Body.Stmts); err != nil {
			var be *BuildError
			if errors.As(err, &be) && be.Func == "" {
				be.Func = decl.Name
			}
			return nil, err
		}
	}
	if !fb.cur.Terminated() {
		fb.emitAt(endPos, OpReturn, IntConst(0))
	}
	return fb.f, nil
}

// newBlock allocates a block; it joins the layout only when started.
func (fb *funcBuilder) newBlock(name string) *Block {
	return &Block{Name: name}
}

func (fb *funcBuilder) startBlock(b *Block) {
	fb.f.Blocks = append(fb.f.Blocks, b)
	fb.cur = b
}

// labels returns block names for one construct, e.g. if_then.3, if_end.3.
func (fb *funcBuilder) labels(kinds ...string) []string {
	n := fb.f.nextLabel()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = fmt.Sprintf("%s.%d", k, n)
	}
	return out
}

// emit appends an instruction without a result. Terminated blocks ignore it.
func (fb *funcBuilder) emitAt(pos token.Pos, op OpCode, operands ...Value) {
	if fb.cur == nil || fb.cur.Terminated() {
		return
	}
	fb.cur.Instrs = append(fb.cur.Instrs, Instr{Op: op, Operands: operands, Pos: pos})
}

// emitValue appends an instruction defining a fresh temporary.
func (fb *funcBuilder) emitValue(pos token.Pos, op OpCode, operands ...Value) Value {
	t := fb.f.newTemp()
	if fb.cur != nil && !fb.cur.Terminated() {
		fb.cur.Instrs = append(fb.cur.Instrs, Instr{Op: op, Operands: operands, Result: &t, Pos: pos})
	}
	return TempVal(t)
}

func (fb *funcBuilder) jump(pos token.Pos, target *Block) {
	fb.emitAt(pos, OpJump, LabelVal(target.Name))
}

func errAt(pos token.Pos, format string, args ...any) error {
	return &BuildError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
