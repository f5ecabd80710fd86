package ast

import "github.com/NovaVoxel/NovaLang/internal/token"

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

type IntLit struct {
	At    token.Pos
	Value int64
}

type FloatLit struct {
	At    token.Pos
	Value float64
}

type StringLit struct {
	At    token.Pos
	Value string
}

type BoolLit struct {
	At    token.Pos
	Value bool
}

type Ident struct {
	At   token.Pos
	Name string
}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

var binaryOpNames = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%", OpPow: "**",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAnd: "and", OpOr: "or",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

type Binary struct {
	At    token.Pos
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpNot
)

func (op UnaryOp) String() string {
	if op == OpNeg {
		return "-"
	}
	return "not"
}

type Unary struct {
	At token.Pos
	Op UnaryOp
	X  Expr
}

// Call is `fn(args)`; Fn is an *Ident or an *Attr.
type Call struct {
	At   token.Pos
	Fn   Expr
	Args []Expr
}

// Attr is `x.name`.
type Attr struct {
	At   token.Pos
	X    Expr
	Name string
}

// Index is `x[index]`.
type Index struct {
	At    token.Pos
	X     Expr
	Index Expr
}

type ListLit struct {
	At    token.Pos
	Elems []Expr
}

// MapEntry is one `key: value` pair of a map literal.
type MapEntry struct {
	Key   Expr
	Value Expr
}

type MapLit struct {
	At      token.Pos
	Entries []MapEntry
}

func (e *IntLit) Pos() token.Pos    { return e.At }
func (e *FloatLit) Pos() token.Pos  { return e.At }
func (e *StringLit) Pos() token.Pos { return e.At }
func (e *BoolLit) Pos() token.Pos   { return e.At }
func (e *Ident) Pos() token.Pos     { return e.At }
func (e *Binary) Pos() token.Pos    { return e.At }
func (e *Unary) Pos() token.Pos     { return e.At }
func (e *Call) Pos() token.Pos      { return e.At }
func (e *Attr) Pos() token.Pos      { return e.At }
func (e *Index) Pos() token.Pos     { return e.At }
func (e *ListLit) Pos() token.Pos   { return e.At }
func (e *MapLit) Pos() token.Pos    { return e.At }

func (*IntLit) exprNode()    {}
func (*FloatLit) exprNode()  {}
func (*StringLit) exprNode() {}
func (*BoolLit) exprNode()   {}
func (*Ident) exprNode()     {}
func (*Binary) exprNode()    {}
func (*Unary) exprNode()     {}
func (*Call) exprNode()      {}
func (*Attr) exprNode()      {}
func (*Index) exprNode()     {}
func (*ListLit) exprNode()   {}
func (*MapLit) exprNode()    {}

// DottedName flattens an Ident/Attr chain such as nova.sys_args into
// "nova.sys_args". ok is false for any other shape.
func DottedName(e Expr) (string, bool) {
	switch x := e.(type) {
	case *Ident:
		return x.Name, true
	case *Attr:
		base, ok := DottedName(x.X)
		if !ok {
			return "", false
		}
		return base + "." + x.Name, true
	}
	return "", false
}
