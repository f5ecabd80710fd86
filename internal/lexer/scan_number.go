package lexer

import (
	"strconv"

	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/token"
)

// scanNumber accepts 123, 1.5, 1e-3 and 2.5E+10. A dot not followed by a
// digit is left for the parser (attribute access on an int is an error there).
func (lx *Lexer) scanNumber() token.Token {
	pos := lx.cursor.Pos()
	start := lx.cursor.Mark()
	kind := token.IntLit

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			text := lx.cursor.TextFrom(start)
			lx.errLex(diag.LexBadNumber, pos, "expected digit after exponent")
			return token.Token{Kind: token.Invalid, Pos: pos, Text: text}
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	text := lx.cursor.TextFrom(start)
	if kind == token.IntLit {
		if _, err := strconv.ParseInt(text, 10, 64); err != nil {
			lx.errLex(diag.LexBadNumber, pos, "integer literal out of range: "+text)
			return token.Token{Kind: token.Invalid, Pos: pos, Text: text}
		}
	}
	return token.Token{Kind: kind, Pos: pos, Text: text}
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
