package lexer

import (
	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/token"
)

// Options configures a Lexer.
type Options struct {
	// Reporter receives lexical diagnostics; nil drops them but lexing continues.
	Reporter diag.Reporter
}

type Lexer struct {
	file   string
	cursor Cursor
	opts   Options
	look   *token.Token
}

// New creates a lexer over src; file is only used in diagnostics.
func New(file string, src []byte, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(src),
		opts:   opts,
	}
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Pos: lx.cursor.Pos()}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch) || ch >= 0x80:
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '"' || ch == '\'':
		return lx.scanString()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the remaining input, excluding the final EOF.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		t := lx.Next()
		if t.Kind == token.EOF {
			return out
		}
		out = append(out, t)
	}
}

func (lx *Lexer) errLex(code diag.Code, pos token.Pos, msg string) {
	diag.ReportError(lx.opts.Reporter, code, lx.file, pos, msg)
}
