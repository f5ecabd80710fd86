package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := map[string]Kind{
		"func":   KwFunc,
		"for":    KwFor,
		"in":     KwIn,
		"use":    KwUse,
		"not":    KwNot,
		"sum":    Ident,
		"Func":   Ident,
		"return": KwReturn,
	}
	for in, want := range cases {
		if got := LookupKeyword(in); got != want {
			t.Errorf("LookupKeyword(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestKindNamesCoverEveryKind(t *testing.T) {
	for k := Invalid; k <= RBracket; k++ {
		if k.String() == "Unknown" {
			t.Errorf("kind %d has no name", k)
		}
	}
}

func TestPosString(t *testing.T) {
	if got := (Pos{}).String(); got != "-" {
		t.Errorf("zero pos = %q", got)
	}
	if got := (Pos{Line: 3, Col: 7}).String(); got != "3:7" {
		t.Errorf("pos = %q", got)
	}
}
