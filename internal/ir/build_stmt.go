package ir

import (
	"github.com/NovaVoxel/NovaLang/internal/ast"
	"github.com/NovaVoxel/NovaLang/internal/token"
)

// lowerStmts lowers a statement list. Once the current block is terminated
// the remaining statements are unreachable and are dropped.
func (fb *funcBuilder) lowerStmts(stmts []ast.Stmt) error {
	for _, st := range stmts {
		if fb.cur.Terminated() {
			return nil
		}
		if err := fb.lowerStmt(st); err != nil {
			return err
		}
	}
	return nil
}

func (fb *funcBuilder) lowerBlock(b *ast.Block) error {
	if b == nil {
		return nil
	}
	return fb.lowerStmts(b.Stmts)
}

func (fb *funcBuilder) lowerStmt(st ast.Stmt) error {
	switch s := st.(type) {
	case *ast.AssignStmt:
		v, err := fb.lowerExpr(s.Value)
		if err != nil {
			return err
		}
		fb.emitAt(s.At, OpStoreVar, NameVal(s.Name), v)
	case *ast.IndexAssignStmt:
		target, err := fb.lowerExpr(s.Target)
		if err != nil {
			return err
		}
		idx, err := fb.lowerExpr(s.Index)
		if err != nil {
			return err
		}
		v, err := fb.lowerExpr(s.Value)
		if err != nil {
			return err
		}
		fb.emitAt(s.At, OpListSet, target, idx, v)
	case *ast.ExprStmt:
		_, err := fb.lowerExpr(s.X)
		return err
	case *ast.ReturnStmt:
		if s.Value == nil {
			fb.emitAt(s.At, OpReturn)
			return nil
		}
		v, err := fb.lowerExpr(s.Value)
		if err != nil {
			return err
		}
		fb.emitAt(s.At, OpReturn, v)
	case *ast.UseStmt:
		fb.aliases[s.Alias] = s.Path
		fb.emitAt(s.At, OpUseModule, ModuleVal(s.Path))
	case *ast.IfStmt:
		return fb.lowerIf(s)
	case *ast.WhileStmt:
		return fb.lowerWhile(s)
	case *ast.ForStmt:
		return fb.lowerFor(s)
	case nil:
		return errAt(token.Pos{}, "nil statement")
	default:
		return errAt(st.Pos(), "unsupported statement %T", st)
	}
	return nil
}

// lowerIf:
//
//	cur:   c = cond; JUMP_IF_FALSE(c, else|end)
//	then:  ...; JUMP(end)
//	else:  ...; JUMP(end)
//	end:
func (fb *funcBuilder) lowerIf(s *ast.IfStmt) error {
	cond, err := fb.lowerExpr(s.Cond)
	if err != nil {
		return err
	}
	names := fb.labels("if_then", "if_else", "if_end")
	thenB := fb.newBlock(names[0])
	endB := fb.newBlock(names[2])
	falseB := endB
	var elseB *Block
	if s.Else != nil {
		elseB = fb.newBlock(names[1])
		falseB = elseB
	}
	fb.emitAt(s.At, OpJumpIfFalse, cond, LabelVal(falseB.Name))

	fb.startBlock(thenB)
	if err := fb.lowerBlock(s.Then); err != nil {
		return err
	}
	fb.jump(s.At, endB)

	if elseB != nil {
		fb.startBlock(elseB)
		if err := fb.lowerBlock(s.Else); err != nil {
			return err
		}
		fb.jump(s.At, endB)
	}
	fb.startBlock(endB)
	return nil
}

// lowerWhile:
//
//	cur:   JUMP(cond)
//	cond:  c = ...; JUMP_IF_FALSE(c, end)   (falls through into body)
//	body:  ...; JUMP(cond)
//	end:
func (fb *funcBuilder) lowerWhile(s *ast.WhileStmt) error {
	names := fb.labels("while_cond", "while_body", "while_end")
	condB, bodyB, endB := fb.newBlock(names[0]), fb.newBlock(names[1]), fb.newBlock(names[2])
	fb.jump(s.At, condB)

	fb.startBlock(condB)
	c, err := fb.lowerExpr(s.Cond)
	if err != nil {
		return err
	}
	fb.emitAt(s.At, OpJumpIfFalse, c, LabelVal(endB.Name))

	fb.startBlock(bodyB)
	if err := fb.lowerBlock(s.Body); err != nil {
		return err
	}
	fb.jump(s.At, condB)

	fb.startBlock(endB)
	return nil
}

// lowerFor desugars iteration into a pre-test loop over an iterator:
//
//	cur:   t = iterable; it = MAKE_ITER(t); JUMP(cond)
//	cond:  h = ITER_HAS_NEXT(it); JUMP_IF_FALSE(h, end)
//	body:  k = ITER_NEXT(it); STORE_VAR(key, k); ...; JUMP(cond)
//	end:
//
// The two-name form iterates pairs, MAKE_ITER(t, true), and unpacks each
// [key, value] item with LIST_GET. Lists and strings pair an index with
// the item; maps pair a key with its value.
func (fb *funcBuilder) lowerFor(s *ast.ForStmt) error {
	iterable, err := fb.lowerExpr(s.Iterable)
	if err != nil {
		return err
	}
	var it Value
	if s.Value == "" {
		it = fb.emitValue(s.At, OpMakeIter, iterable)
	} else {
		it = fb.emitValue(s.At, OpMakeIter, iterable, BoolConst(true))
	}

	names := fb.labels("for_cond", "for_body", "for_end")
	condB, bodyB, endB := fb.newBlock(names[0]), fb.newBlock(names[1]), fb.newBlock(names[2])
	fb.jump(s.At, condB)

	fb.startBlock(condB)
	has := fb.emitValue(s.At, OpIterHasNext, it)
	fb.emitAt(s.At, OpJumpIfFalse, has, LabelVal(endB.Name))

	fb.startBlock(bodyB)
	item := fb.emitValue(s.At, OpIterNext, it)
	if s.Value == "" {
		fb.emitAt(s.At, OpStoreVar, NameVal(s.Key), item)
	} else {
		k := fb.emitValue(s.At, OpListGet, item, IntConst(0))
		fb.emitAt(s.At, OpStoreVar, NameVal(s.Key), k)
		v := fb.emitValue(s.At, OpListGet, item, IntConst(1))
		fb.emitAt(s.At, OpStoreVar, NameVal(s.Value), v)
	}
	if err := fb.lowerBlock(s.Body); err != nil {
		return err
	}
	fb.jump(s.At, condB)

	fb.startBlock(endB)
	return nil
}
