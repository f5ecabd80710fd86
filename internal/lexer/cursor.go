package lexer

import "github.com/NovaVoxel/NovaLang/internal/token"

// Cursor is a byte offset into the source with line/column tracking.
type Cursor struct {
	src  []byte
	Off  int
	line uint32
	col  uint32
}

// NewCursor creates a cursor at the start of src.
func NewCursor(src []byte) Cursor {
	return Cursor{src: src, line: 1, col: 1}
}

// EOF reports whether the cursor has consumed all input.
func (c *Cursor) EOF() bool {
	return c.Off >= len(c.src)
}

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.Off]
}

// Peek2 returns the current and next byte.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= len(c.src) {
		return 0, 0, false
	}
	return c.src[c.Off], c.src[c.Off+1], true
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.src[c.Off]
	c.Off++
	if b == '\n' {
		c.line++
		c.col = 1
	} else if b < 0x80 || b >= 0xC0 {
		// continuation bytes do not advance the column
		c.col++
	}
	return b
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if c.Peek() == b && !c.EOF() {
		c.Bump()
		return true
	}
	return false
}

// Pos is the position of the current byte.
func (c *Cursor) Pos() token.Pos {
	return token.Pos{Line: c.line, Col: c.col}
}

// Mark is a saved offset used to slice token text.
type Mark int

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// TextFrom returns the source between m and the cursor.
func (c *Cursor) TextFrom(m Mark) string {
	return string(c.src[int(m):c.Off])
}
