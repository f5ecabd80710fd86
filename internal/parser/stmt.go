package parser

import (
	"github.com/NovaVoxel/NovaLang/internal/ast"
	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/token"
)

func (p *Parser) parseBlock() (*ast.Block, bool) {
	lb, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return nil, false
	}
	blk := &ast.Block{At: lb.Pos}
	for !p.atOr(token.RBrace, token.EOF) {
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		st, ok := p.parseStmt()
		if !ok {
			p.resyncStmt()
			continue
		}
		blk.Stmts = append(blk.Stmts, st)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block"); !ok {
		return blk, false
	}
	return blk, true
}

// resyncStmt skips to a token that can start the next statement or closes
// the block. At least one token is consumed.
func (p *Parser) resyncStmt() {
	if !p.atOr(token.EOF, token.RBrace) {
		p.advance()
	}
	p.resyncUntil(token.Semicolon, token.RBrace, token.KwIf, token.KwWhile,
		token.KwFor, token.KwReturn, token.KwUse, token.KwFunc)
	if p.at(token.Semicolon) {
		p.advance()
	}
}

func (p *Parser) parseStmt() (ast.Stmt, bool) {
	switch p.lx.Peek().Kind {
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwUse:
		return p.parseUse()
	case token.KwFunc:
		p.err(diag.SynUnexpectedToken, "nested functions are not supported")
		return nil, false
	default:
		return p.parseSimpleStmt()
	}
}

// parseSimpleStmt handles `x = v`, `a[i] = v` and expression statements.
func (p *Parser) parseSimpleStmt() (ast.Stmt, bool) {
	start := p.lx.Peek().Pos
	lhs, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if !p.at(token.Assign) {
		return &ast.ExprStmt{At: start, X: lhs}, true
	}
	p.advance()
	rhs, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	switch target := lhs.(type) {
	case *ast.Ident:
		return &ast.AssignStmt{At: start, Name: target.Name, Value: rhs}, true
	case *ast.Index:
		return &ast.IndexAssignStmt{At: start, Target: target.X, Index: target.Index, Value: rhs}, true
	default:
		p.report(diag.SynBadAssignTarget, diag.SevError, lhs.Pos(), "cannot assign to this expression")
		return nil, false
	}
}

func (p *Parser) parseIf() (ast.Stmt, bool) {
	kw := p.advance()
	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	st := &ast.IfStmt{At: kw.Pos, Cond: cond, Then: then}
	if !p.at(token.KwElse) {
		return st, true
	}
	elseTok := p.advance()
	if p.at(token.KwIf) {
		nested, ok := p.parseIf()
		if !ok {
			return nil, false
		}
		st.Else = &ast.Block{At: elseTok.Pos, Stmts: []ast.Stmt{nested}}
		return st, true
	}
	st.Else, ok = p.parseBlock()
	return st, ok
}

func (p *Parser) parseWhile() (ast.Stmt, bool) {
	kw := p.advance()
	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	return &ast.WhileStmt{At: kw.Pos, Cond: cond, Body: body}, true
}

// parseFor reads `for x in e { }` or `for k, v in e { }`.
func (p *Parser) parseFor() (ast.Stmt, bool) {
	kw := p.advance()
	key, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	st := &ast.ForStmt{At: kw.Pos, Key: key}
	if p.at(token.Comma) {
		p.advance()
		if st.Value, ok = p.parseIdent(); !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(token.KwIn, diag.SynForMissingIn, "expected 'in' in for loop"); !ok {
		return nil, false
	}
	if st.Iterable, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if st.Body, ok = p.parseBlock(); !ok {
		return nil, false
	}
	return st, true
}

// parseReturn takes a value unless the next token ends the statement or
// starts another one.
func (p *Parser) parseReturn() (ast.Stmt, bool) {
	kw := p.advance()
	st := &ast.ReturnStmt{At: kw.Pos}
	if p.atOr(token.RBrace, token.Semicolon, token.EOF, token.KwIf, token.KwWhile,
		token.KwFor, token.KwReturn, token.KwUse, token.KwFunc) {
		return st, true
	}
	v, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	st.Value = v
	return st, true
}
