package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/token"
)

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	pos := lx.cursor.Pos()
	start := lx.cursor.Mark()
	first := true
	for !lx.cursor.EOF() {
		r, size := lx.peekRune()
		ok := isIdentContinueRune(r)
		if first {
			ok = isIdentStartRune(r)
		}
		if !ok {
			break
		}
		for range size {
			lx.cursor.Bump()
		}
		first = false
	}
	if first {
		// not an identifier start: a stray non-ASCII rune
		_, size := lx.peekRune()
		for range max(size, 1) {
			lx.cursor.Bump()
		}
		text := lx.cursor.TextFrom(start)
		lx.errLex(diag.LexUnknownChar, pos, "unknown character "+quoteRune(text))
		return token.Token{Kind: token.Invalid, Pos: pos, Text: text}
	}
	text := lx.cursor.TextFrom(start)
	return token.Token{Kind: token.LookupKeyword(text), Pos: pos, Text: text}
}

func (lx *Lexer) peekRune() (rune, int) {
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.cursor.src[lx.cursor.Off:])
}

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func quoteRune(s string) string {
	return "'" + s + "'"
}
