package lexer

// skipTrivia consumes whitespace, newlines and `#` / `//` line comments.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			lx.cursor.Bump()
		case b == '#':
			lx.skipLine()
		case b == '/':
			b0, b1, ok := lx.cursor.Peek2()
			if !ok || b0 != '/' || b1 != '/' {
				return
			}
			lx.skipLine()
		default:
			return
		}
	}
}

func (lx *Lexer) skipLine() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}
