package ir

import (
	"github.com/NovaVoxel/NovaLang/internal/ast"
	"github.com/NovaVoxel/NovaLang/internal/token"
)

var binaryOps = map[ast.BinaryOp]OpCode{
	ast.OpAdd: OpAdd,
	ast.OpSub: OpSub,
	ast.OpMul: OpMul,
	ast.OpDiv: OpDiv,
	ast.OpMod: OpMod,
	ast.OpPow: OpPow,
	ast.OpEq:  OpEq,
	ast.OpNe:  OpNe,
	ast.OpLt:  OpLt,
	ast.OpLe:  OpLe,
	ast.OpGt:  OpGt,
	ast.OpGe:  OpGe,
	ast.OpAnd: OpAnd,
	ast.OpOr:  OpOr,
}

// lowerExpr evaluates e into a temporary in the current block.
func (fb *funcBuilder) lowerExpr(e ast.Expr) (Value, error) {
	switch x := e.(type) {
	case *ast.IntLit:
		return fb.emitValue(x.At, OpLoadConst, IntConst(x.Value)), nil
	case *ast.FloatLit:
		return fb.emitValue(x.At, OpLoadConst, FloatConst(x.Value)), nil
	case *ast.StringLit:
		return fb.emitValue(x.At, OpLoadConst, StrConst(x.Value)), nil
	case *ast.BoolLit:
		return fb.emitValue(x.At, OpLoadConst, BoolConst(x.Value)), nil
	case *ast.Ident:
		return fb.emitValue(x.At, OpLoadVar, NameVal(x.Name)), nil
	case *ast.Binary:
		op, ok := binaryOps[x.Op]
		if !ok {
			return Value{}, errAt(x.At, "unsupported binary operator %s", x.Op)
		}
		l, err := fb.lowerExpr(x.Left)
		if err != nil {
			return Value{}, err
		}
		r, err := fb.lowerExpr(x.Right)
		if err != nil {
			return Value{}, err
		}
		return fb.emitValue(x.At, op, l, r), nil
	case *ast.Unary:
		v, err := fb.lowerExpr(x.X)
		if err != nil {
			return Value{}, err
		}
		op := OpNeg
		if x.Op == ast.OpNot {
			op = OpNot
		}
		return fb.emitValue(x.At, op, v), nil
	case *ast.Index:
		c, err := fb.lowerExpr(x.X)
		if err != nil {
			return Value{}, err
		}
		i, err := fb.lowerExpr(x.Index)
		if err != nil {
			return Value{}, err
		}
		return fb.emitValue(x.At, OpListGet, c, i), nil
	case *ast.ListLit:
		list := fb.emitValue(x.At, OpListNew)
		for _, el := range x.Elems {
			v, err := fb.lowerExpr(el)
			if err != nil {
				return Value{}, err
			}
			fb.emitValue(el.Pos(), OpListAppend, list, v)
		}
		return list, nil
	case *ast.MapLit:
		m := fb.emitValue(x.At, OpMapNew)
		for _, ent := range x.Entries {
			k, err := fb.lowerExpr(ent.Key)
			if err != nil {
				return Value{}, err
			}
			v, err := fb.lowerExpr(ent.Value)
			if err != nil {
				return Value{}, err
			}
			fb.emitAt(ent.Key.Pos(), OpMapSet, m, k, v)
		}
		return m, nil
	case *ast.Attr:
		return fb.lowerAttr(x)
	case *ast.Call:
		return fb.lowerCall(x)
	case nil:
		return Value{}, errAt(token.Pos{}, "missing expression")
	default:
		return Value{}, errAt(e.Pos(), "unsupported expression %T", e)
	}
}

// lowerAttr handles attribute reads outside of calls: alias.attr and
// nova.attr resolve statically, anything else through the runtime value.
func (fb *funcBuilder) lowerAttr(x *ast.Attr) (Value, error) {
	if path, ok := fb.staticPath(x.X); ok {
		return fb.emitValue(x.At, OpImportSymbol, ModuleVal(path), NameVal(x.Name)), nil
	}
	base, err := fb.lowerExpr(x.X)
	if err != nil {
		return Value{}, err
	}
	return fb.emitValue(x.At, OpImportSymbol, base, NameVal(x.Name)), nil
}

// staticPath resolves a receiver naming a module: an alias introduced by
// `use`, or the nova runtime namespace.
func (fb *funcBuilder) staticPath(e ast.Expr) (string, bool) {
	id, ok := e.(*ast.Ident)
	if !ok {
		return "", false
	}
	if path, ok := fb.aliases[id.Name]; ok {
		return path, true
	}
	if id.Name == NovaNamespace {
		return NovaNamespace, true
	}
	return "", false
}
