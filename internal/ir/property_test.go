package ir_test

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/NovaVoxel/NovaLang/internal/ast"
	"github.com/NovaVoxel/NovaLang/internal/ir"
)

// astGen produces random but well-formed function bodies.
type astGen struct {
	r     *rand.Rand
	depth int
}

func (g *astGen) expr(depth int) ast.Expr {
	if depth <= 0 {
		switch g.r.IntN(4) {
		case 0:
			return &ast.IntLit{Value: g.r.Int64N(100)}
		case 1:
			return &ast.StringLit{Value: "s"}
		case 2:
			return &ast.BoolLit{Value: g.r.IntN(2) == 0}
		default:
			return &ast.Ident{Name: fmt.Sprintf("v%d", g.r.IntN(3))}
		}
	}
	switch g.r.IntN(6) {
	case 0:
		return &ast.Binary{Op: ast.BinaryOp(g.r.IntN(int(ast.OpOr) + 1)), Left: g.expr(depth - 1), Right: g.expr(depth - 1)}
	case 1:
		return &ast.Unary{Op: ast.UnaryOp(g.r.IntN(2)), X: g.expr(depth - 1)}
	case 2:
		return &ast.ListLit{Elems: []ast.Expr{g.expr(depth - 1), g.expr(depth - 1)}}
	case 3:
		return &ast.Call{Fn: &ast.Ident{Name: "print"}, Args: []ast.Expr{g.expr(depth - 1)}}
	case 4:
		return &ast.Index{X: g.expr(depth - 1), Index: g.expr(depth - 1)}
	default:
		return g.expr(0)
	}
}

func (g *astGen) block(depth int) *ast.Block {
	n := g.r.IntN(4)
	b := &ast.Block{}
	for range n {
		b.Stmts = append(b.Stmts, g.stmt(depth))
	}
	return b
}

func (g *astGen) stmt(depth int) ast.Stmt {
	k := g.r.IntN(7)
	if depth <= 0 {
		k = g.r.IntN(3)
	}
	switch k {
	case 0:
		return &ast.AssignStmt{Name: fmt.Sprintf("v%d", g.r.IntN(3)), Value: g.expr(2)}
	case 1:
		return &ast.ExprStmt{X: g.expr(2)}
	case 2:
		if g.r.IntN(3) == 0 {
			return &ast.ReturnStmt{}
		}
		return &ast.ReturnStmt{Value: g.expr(1)}
	case 3:
		s := &ast.IfStmt{Cond: g.expr(1), Then: g.block(depth - 1)}
		if g.r.IntN(2) == 0 {
			s.Else = g.block(depth - 1)
		}
		return s
	case 4:
		return &ast.WhileStmt{Cond: g.expr(1), Body: g.block(depth - 1)}
	case 5:
		fs := &ast.ForStmt{Key: "k", Iterable: g.expr(1), Body: g.block(depth - 1)}
		if g.r.IntN(2) == 0 {
			fs.Value = "v"
		}
		return fs
	default:
		return &ast.IndexAssignStmt{Target: &ast.Ident{Name: "v0"}, Index: g.expr(0), Value: g.expr(1)}
	}
}

func endsInReturn(stmts []ast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	_, ok := stmts[len(stmts)-1].(*ast.ReturnStmt)
	return ok
}

func TestPropertyEveryBlockTerminated(t *testing.T) {
	for seed := uint64(0); seed < 300; seed++ {
		g := &astGen{r: rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))}
		file := &ast.File{Name: "gen.nova"}
		for i := range 3 {
			file.Items = append(file.Items, &ast.FuncDecl{
				Name:   fmt.Sprintf("f%d", i),
				Params: []string{"v0"},
				Body:   g.block(3),
			})
		}
		m, err := ir.Build(file)
		if err != nil {
			t.Fatalf("seed %d: build: %v", seed, err)
		}
		if err := ir.Validate(m); err != nil {
			t.Fatalf("seed %d: %v\n%s", seed, err, ir.DumpString(m))
		}
		for fi, f := range m.Funcs {
			seen := map[string]bool{}
			for _, b := range f.Blocks {
				if !b.Terminated() {
					t.Fatalf("seed %d: %s.%s unterminated", seed, f.Name, b.Name)
				}
				if seen[b.Name] {
					t.Fatalf("seed %d: %s duplicate block %s", seed, f.Name, b.Name)
				}
				seen[b.Name] = true
			}
			decl := file.Items[fi].(*ast.FuncDecl)
			if endsInReturn(decl.Body.Stmts) {
				continue
			}
			// no explicit trailing return: the last block ends in exactly
			// one appended RETURN(0)
			last := f.Blocks[len(f.Blocks)-1]
			returns := 0
			for _, in := range last.Instrs {
				if in.Op == ir.OpReturn {
					returns++
				}
			}
			if returns != 1 {
				t.Fatalf("seed %d: %s last block has %d returns", seed, f.Name, returns)
			}
		}
	}
}

func TestValidateReportsAllViolations(t *testing.T) {
	t0 := ir.Temp{ID: 0, Name: "t0"}
	f := &ir.Func{
		Name: "bad",
		Blocks: []*ir.Block{
			{Name: "entry", Instrs: []ir.Instr{
				{Op: ir.OpLoadConst, Operands: []ir.Value{ir.IntConst(1)}, Result: &t0},
				{Op: ir.OpJumpIfFalse, Operands: []ir.Value{ir.TempVal(t0), ir.LabelVal("nowhere")}},
			}},
			{Name: "entry", Instrs: []ir.Instr{
				{Op: ir.OpStoreVar, Operands: []ir.Value{ir.NameVal("x"), ir.TempVal(ir.Temp{ID: 9, Name: "t9"})}},
			}},
		},
	}
	err := ir.Validate(&ir.Module{Funcs: []*ir.Func{f}})
	if err == nil {
		t.Fatal("expected violations")
	}
	msg := err.Error()
	for _, want := range []string{"duplicate block name entry", "unterminated block", "does not exist", "undefined %t9"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in:\n%s", want, msg)
		}
	}
}
