// Package token defines lexical token kinds for Nova source.
// Invariants:
//   - Token.Text is a slice of the original source, except for string
//     literals whose Text holds the unescaped value.
//   - Newlines are not tokens; statements are separated by position only.
//   - A `use` path such as std/math is lexed as Ident Slash Ident and joined
//     by the parser.
package token
