package lexer

import (
	"strings"

	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/token"
)

// scanString reads a '...' or "..." literal; Text holds the unescaped value.
// Supported escapes: \n \t \r \0 \\ \' \".
func (lx *Lexer) scanString() token.Token {
	pos := lx.cursor.Pos()
	quote := lx.cursor.Bump()
	var sb strings.Builder
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			return token.Token{Kind: token.StringLit, Pos: pos, Text: sb.String()}
		case '\n':
			lx.errLex(diag.LexUnterminatedString, pos, "newline in string literal")
			return token.Token{Kind: token.Invalid, Pos: pos, Text: sb.String()}
		case '\\':
			escPos := lx.cursor.Pos()
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
			e := lx.cursor.Bump()
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			case '\\', '\'', '"':
				sb.WriteByte(e)
			default:
				lx.errLex(diag.LexBadEscape, escPos, "unknown escape sequence \\"+string(e))
				sb.WriteByte(e)
			}
		default:
			sb.WriteByte(lx.cursor.Bump())
		}
	}
	lx.errLex(diag.LexUnterminatedString, pos, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Pos: pos, Text: sb.String()}
}
