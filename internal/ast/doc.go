// Package ast defines the syntax tree produced by the Nova parser.
//
// Statement and expression nodes implement the sealed Stmt and Expr
// interfaces; consumers switch on the concrete pointer types. Every node
// records the position of its first token.
package ast
