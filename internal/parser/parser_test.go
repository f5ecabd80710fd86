package parser

import (
	"errors"
	"testing"

	"github.com/NovaVoxel/NovaLang/internal/ast"
	"github.com/NovaVoxel/NovaLang/internal/diag"
)

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := ParseFile("test.nova", []byte(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return f
}

func mainBody(t *testing.T, f *ast.File) []ast.Stmt {
	t.Helper()
	for _, fn := range f.Funcs() {
		if fn.Name == "main" {
			return fn.Body.Stmts
		}
	}
	t.Fatal("no main")
	return nil
}

func TestParseProgram(t *testing.T) {
	f := mustParse(t, `
use std/math

# comment
func add(a, b) { return a + b }

func main() {
	x = 1
	xs = [1, 2, 3]
	m = {"k": 1, "j": 2}
	xs[0] = 5
	if x > 0 { print("pos") } else if x < 0 { print("neg") } else { print("zero") }
	while x < 10 { x = x + 1 }
	for v in xs { print(v) }
	for k, v in m { print(k, v) }
	print(math.sqrt(16.0))
	return
}
`)
	if uses := f.Uses(); len(uses) != 1 || uses[0] != "std/math" {
		t.Fatalf("uses = %v", uses)
	}
	if u := f.Items[0].(*ast.UseStmt); u.Alias != "math" {
		t.Fatalf("alias = %q", u.Alias)
	}
	fns := f.Funcs()
	if len(fns) != 2 || fns[0].Name != "add" || len(fns[0].Params) != 2 {
		t.Fatalf("funcs = %+v", fns)
	}
	body := mainBody(t, f)
	wantTypes := []string{"assign", "assign", "assign", "index", "if", "while", "for", "for", "expr", "return"}
	if len(body) != len(wantTypes) {
		t.Fatalf("got %d statements, want %d", len(body), len(wantTypes))
	}
	for i, st := range body {
		var got string
		switch st.(type) {
		case *ast.AssignStmt:
			got = "assign"
		case *ast.IndexAssignStmt:
			got = "index"
		case *ast.IfStmt:
			got = "if"
		case *ast.WhileStmt:
			got = "while"
		case *ast.ForStmt:
			got = "for"
		case *ast.ExprStmt:
			got = "expr"
		case *ast.ReturnStmt:
			got = "return"
		}
		if got != wantTypes[i] {
			t.Errorf("stmt %d: got %s, want %s", i, got, wantTypes[i])
		}
	}
	ifs := body[4].(*ast.IfStmt)
	if ifs.Else == nil || len(ifs.Else.Stmts) != 1 {
		t.Fatal("else-if chain not nested into else block")
	}
	if _, ok := ifs.Else.Stmts[0].(*ast.IfStmt); !ok {
		t.Fatal("else block must wrap nested if")
	}
	two := body[7].(*ast.ForStmt)
	if two.Key != "k" || two.Value != "v" {
		t.Fatalf("two-variable for = %+v", two)
	}
	if r := body[9].(*ast.ReturnStmt); r.Value != nil {
		t.Fatal("bare return must have no value")
	}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"-a ** 2", "((-a) ** 2)"},
		{"not a == b", "(not (a == b))"},
		{"a or b and c", "(a or (b and c))"},
		{"a && !b || c", "((a and (not b)) or c)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"xs[1] + f(2).y", "(xs[1] + f(2).y)"},
		{"a < b == c", "((a < b) == c)"},
	}
	for _, tt := range tests {
		f := mustParse(t, "func main() { x = "+tt.src+" }")
		got := render(mainBody(t, f)[0].(*ast.AssignStmt).Value)
		if got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"top level stmt", "x = 1", diag.SynUnexpectedTopLevel},
		{"missing in", "func main() { for x xs { } }", diag.SynForMissingIn},
		{"bad target", "func main() { f() = 1 }", diag.SynBadAssignTarget},
		{"unclosed block", "func main() { x = 1", diag.SynUnclosedBrace},
		{"missing expr", "func main() { x = }", diag.SynExpectExpression},
		{"lex error", "func main() { x = $ }", diag.LexUnknownChar},
		{"bad use", "use std/", diag.SynBadUsePath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile("bad.nova", []byte(tt.src))
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			found := false
			for _, d := range perr.Diags.Items() {
				if d.Code == tt.code {
					found = true
				}
			}
			if !found {
				t.Fatalf("code %v not reported: %+v", tt.code, perr.Diags.Items())
			}
		})
	}
}

func TestRecoveryContinuesAfterError(t *testing.T) {
	f, err := ParseFile("r.nova", []byte("func a() { x = = 1 }\nfunc b() { return 2 }"))
	if err == nil {
		t.Fatal("expected error")
	}
	names := []string{}
	for _, fn := range f.Funcs() {
		names = append(names, fn.Name)
	}
	if len(names) != 2 || names[1] != "b" {
		t.Fatalf("functions after recovery = %v", names)
	}
}

func TestMaxErrors(t *testing.T) {
	bag := diag.NewBag(0)
	Parse("m.nova", []byte("$ $ $ $ $"), Options{MaxErrors: 2, Reporter: diag.BagReporter{Bag: bag}})
	if errs, _ := bag.Counts(); errs != 2 {
		t.Fatalf("reported %d errors, want 2", errs)
	}
}
