package token

var keywords = map[string]Kind{
	"func":   KwFunc,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"for":    KwFor,
	"in":     KwIn,
	"return": KwReturn,
	"use":    KwUse,
	"true":   KwTrue,
	"false":  KwFalse,
	"and":    KwAnd,
	"or":     KwOr,
	"not":    KwNot,
}

// LookupKeyword returns the keyword kind for ident, or Ident.
func LookupKeyword(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Ident
}
