package ast

import "github.com/NovaVoxel/NovaLang/internal/token"

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Block is a braced statement list.
type Block struct {
	At    token.Pos
	Stmts []Stmt
}

func (b *Block) Pos() token.Pos { return b.At }

// UseStmt is `use std/math`. Alias is the last path segment.
type UseStmt struct {
	At    token.Pos
	Path  string
	Alias string
}

// AssignStmt is `name = value`.
type AssignStmt struct {
	At    token.Pos
	Name  string
	Value Expr
}

// IndexAssignStmt is `target[index] = value`.
type IndexAssignStmt struct {
	At     token.Pos
	Target Expr
	Index  Expr
	Value  Expr
}

// IfStmt is `if cond { then } else { else }`; Else is nil, a *Block, or a
// block wrapping a nested *IfStmt for `else if`.
type IfStmt struct {
	At   token.Pos
	Cond Expr
	Then *Block
	Else *Block
}

// WhileStmt is a pre-test loop.
type WhileStmt struct {
	At   token.Pos
	Cond Expr
	Body *Block
}

// ForStmt is `for v in iterable` or `for k, v in iterable`. Value is empty
// for the single-variable form.
type ForStmt struct {
	At       token.Pos
	Key      string
	Value    string
	Iterable Expr
	Body     *Block
}

// ReturnStmt is `return` with an optional value.
type ReturnStmt struct {
	At    token.Pos
	Value Expr
}

// ExprStmt is an expression evaluated for its effects.
type ExprStmt struct {
	At token.Pos
	X  Expr
}

func (s *UseStmt) Pos() token.Pos         { return s.At }
func (s *AssignStmt) Pos() token.Pos      { return s.At }
func (s *IndexAssignStmt) Pos() token.Pos { return s.At }
func (s *IfStmt) Pos() token.Pos          { return s.At }
func (s *WhileStmt) Pos() token.Pos       { return s.At }
func (s *ForStmt) Pos() token.Pos         { return s.At }
func (s *ReturnStmt) Pos() token.Pos      { return s.At }
func (s *ExprStmt) Pos() token.Pos        { return s.At }

func (*UseStmt) stmtNode()         {}
func (*AssignStmt) stmtNode()      {}
func (*IndexAssignStmt) stmtNode() {}
func (*IfStmt) stmtNode()          {}
func (*WhileStmt) stmtNode()       {}
func (*ForStmt) stmtNode()         {}
func (*ReturnStmt) stmtNode()      {}
func (*ExprStmt) stmtNode()        {}

func (*UseStmt) itemNode() {}
