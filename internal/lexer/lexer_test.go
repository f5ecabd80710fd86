package lexer_test

import (
	"testing"

	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/lexer"
	"github.com/NovaVoxel/NovaLang/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	lx := lexer.New("test.nova", []byte(src), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexerKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{"func header", "func main(a, b) {", []token.Kind{
			token.KwFunc, token.Ident, token.LParen, token.Ident, token.Comma, token.Ident, token.RParen, token.LBrace,
		}},
		{"use path", "use std/math", []token.Kind{token.KwUse, token.Ident, token.Slash, token.Ident}},
		{"operators", "a ** b == c != d <= e >= f && g || !h", []token.Kind{
			token.Ident, token.StarStar, token.Ident, token.EqEq, token.Ident, token.BangEq, token.Ident,
			token.LtEq, token.Ident, token.GtEq, token.Ident, token.AndAnd, token.Ident, token.OrOr, token.Bang, token.Ident,
		}},
		{"numbers", "1 2.5 3e2 4.0E-1", []token.Kind{token.IntLit, token.FloatLit, token.FloatLit, token.FloatLit}},
		{"comments", "x # note\n// line\ny", []token.Kind{token.Ident, token.Ident}},
		{"keywords", "if else while for in return true false and or not", []token.Kind{
			token.KwIf, token.KwElse, token.KwWhile, token.KwFor, token.KwIn, token.KwReturn,
			token.KwTrue, token.KwFalse, token.KwAnd, token.KwOr, token.KwNot,
		}},
		{"int then attr", "1.x", []token.Kind{token.IntLit, token.Dot, token.Ident}},
		{"unicode ident", "имя = 1", []token.Kind{token.Ident, token.Assign, token.IntLit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lexAll(t, tt.src)
			if bag.HasErrors() {
				t.Fatalf("unexpected diagnostics: %+v", bag.Items())
			}
			got := kinds(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d: got %v, want %v (all: %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks, bag := lexAll(t, `"a\nb" 'it\'s' "tab\t"`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	want := []string{"a\nb", "it's", "tab\t"}
	for i, w := range want {
		if toks[i].Kind != token.StringLit || toks[i].Text != w {
			t.Errorf("token %d = %v, want string %q", i, toks[i], w)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	toks, _ := lexAll(t, "func f() {\n  return 1\n}")
	ret := toks[5]
	if ret.Kind != token.KwReturn || ret.Pos != (token.Pos{Line: 2, Col: 3}) {
		t.Fatalf("return token = %v at %v", ret, ret.Pos)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{`"open`, diag.LexUnterminatedString},
		{"\"line\nbreak\"", diag.LexUnterminatedString},
		{"a $ b", diag.LexUnknownChar},
		{"1e+", diag.LexBadNumber},
		{"99999999999999999999", diag.LexBadNumber},
		{`"\q"`, diag.LexBadEscape},
	}
	for _, tt := range tests {
		_, bag := lexAll(t, tt.src)
		if !bag.HasErrors() {
			t.Errorf("%q: expected error", tt.src)
			continue
		}
		if got := bag.Items()[0].Code; got != tt.code {
			t.Errorf("%q: code = %v, want %v", tt.src, got, tt.code)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx := lexer.New("p.nova", []byte("a b"), lexer.Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("Peek = %v", p)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek = %v", n)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("second Next = %v", n)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", n)
	}
}
