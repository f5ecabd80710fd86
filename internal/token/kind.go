package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal.
	IntLit
	// FloatLit represents a floating point literal.
	FloatLit
	// StringLit represents a string literal (Text is unescaped).
	StringLit

	KwFunc   // func
	KwIf     // if
	KwElse   // else
	KwWhile  // while
	KwFor    // for
	KwIn     // in
	KwReturn // return
	KwUse    // use
	KwTrue   // true
	KwFalse  // false
	KwAnd    // and
	KwOr     // or
	KwNot    // not

	Plus      // +
	Minus     // -
	Star      // *
	StarStar  // **
	Slash     // /
	Percent   // %
	Assign    // =
	EqEq      // ==
	Bang      // !
	BangEq    // !=
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	AndAnd    // &&
	OrOr      // ||
	Comma     // ,
	Semicolon // ;
	Colon     // :
	Dot       // .
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	StringLit: "StringLit",
	KwFunc:    "func",
	KwIf:      "if",
	KwElse:    "else",
	KwWhile:   "while",
	KwFor:     "for",
	KwIn:      "in",
	KwReturn:  "return",
	KwUse:     "use",
	KwTrue:    "true",
	KwFalse:   "false",
	KwAnd:     "and",
	KwOr:      "or",
	KwNot:     "not",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	StarStar:  "**",
	Slash:     "/",
	Percent:   "%",
	Assign:    "=",
	EqEq:      "==",
	Bang:      "!",
	BangEq:    "!=",
	Lt:        "<",
	LtEq:      "<=",
	Gt:        ">",
	GtEq:      ">=",
	AndAnd:    "&&",
	OrOr:      "||",
	Comma:     ",",
	Semicolon: ";",
	Colon:     ":",
	Dot:       ".",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	LBracket:  "[",
	RBracket:  "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}
