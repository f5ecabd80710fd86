package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadEscape          Code = 1004

	// syntax
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectExpression   Code = 2003
	SynUnclosedParen      Code = 2004
	SynUnclosedBrace      Code = 2005
	SynUnclosedBracket    Code = 2006
	SynForMissingIn       Code = 2007
	SynBadAssignTarget    Code = 2008
	SynUnexpectedTopLevel Code = 2009
	SynBadUsePath         Code = 2010

	// packaging
	PkgInfo         Code = 3000
	PkgNoSources    Code = 3001
	PkgCacheCorrupt Code = 3002
	PkgNoEntry      Code = 3003
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string literal",
	LexBadNumber:          "Malformed number literal",
	LexBadEscape:          "Unknown escape sequence",
	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynExpectIdentifier:   "Expected identifier",
	SynExpectExpression:   "Expected expression",
	SynUnclosedParen:      "Unclosed parenthesis",
	SynUnclosedBrace:      "Unclosed brace",
	SynUnclosedBracket:    "Unclosed bracket",
	SynForMissingIn:       "Missing 'in' in for loop",
	SynBadAssignTarget:    "Invalid assignment target",
	SynUnexpectedTopLevel: "Unexpected top-level statement",
	SynBadUsePath:         "Malformed use path",
	PkgInfo:               "Packaging information",
	PkgNoSources:          "No source files",
	PkgCacheCorrupt:       "Corrupt build cache entry",
	PkgNoEntry:            "Unit has no main function",
}

func (c Code) ID() string {
	switch {
	case c >= 3000:
		return fmt.Sprintf("PKG%04d", uint16(c))
	case c >= 2000:
		return fmt.Sprintf("SYN%04d", uint16(c))
	case c >= 1000:
		return fmt.Sprintf("LEX%04d", uint16(c))
	}
	return "E0000"
}

func (c Code) Title() string {
	if s, ok := codeDescription[c]; ok {
		return s
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string { return c.ID() }
