package parser

import (
	"strconv"

	"github.com/NovaVoxel/NovaLang/internal/ast"
	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/token"
)

// Precedence, lowest first:
//
//	or  <  and  <  not  <  comparison  <  + -  <  * / %  <  **  <  unary -  <  postfix
//
// `&&`, `||` and `!` are accepted as spellings of and, or, not.
func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, bool) {
	left, ok := p.parseAnd()
	for ok && p.atOr(token.KwOr, token.OrOr) {
		pos := p.advance().Pos
		var right ast.Expr
		if right, ok = p.parseAnd(); ok {
			left = &ast.Binary{At: pos, Op: ast.OpOr, Left: left, Right: right}
		}
	}
	return left, ok
}

func (p *Parser) parseAnd() (ast.Expr, bool) {
	left, ok := p.parseNot()
	for ok && p.atOr(token.KwAnd, token.AndAnd) {
		pos := p.advance().Pos
		var right ast.Expr
		if right, ok = p.parseNot(); ok {
			left = &ast.Binary{At: pos, Op: ast.OpAnd, Left: left, Right: right}
		}
	}
	return left, ok
}

func (p *Parser) parseNot() (ast.Expr, bool) {
	if p.atOr(token.KwNot, token.Bang) {
		pos := p.advance().Pos
		x, ok := p.parseNot()
		if !ok {
			return nil, false
		}
		return &ast.Unary{At: pos, Op: ast.OpNot, X: x}, true
	}
	return p.parseComparison()
}

var comparisonOps = map[token.Kind]ast.BinaryOp{
	token.EqEq:   ast.OpEq,
	token.BangEq: ast.OpNe,
	token.Lt:     ast.OpLt,
	token.LtEq:   ast.OpLe,
	token.Gt:     ast.OpGt,
	token.GtEq:   ast.OpGe,
}

func (p *Parser) parseComparison() (ast.Expr, bool) {
	left, ok := p.parseSum()
	for ok {
		op, isCmp := comparisonOps[p.lx.Peek().Kind]
		if !isCmp {
			break
		}
		pos := p.advance().Pos
		var right ast.Expr
		if right, ok = p.parseSum(); ok {
			left = &ast.Binary{At: pos, Op: op, Left: left, Right: right}
		}
	}
	return left, ok
}

func (p *Parser) parseSum() (ast.Expr, bool) {
	left, ok := p.parseTerm()
	for ok && p.atOr(token.Plus, token.Minus) {
		tok := p.advance()
		op := ast.OpAdd
		if tok.Kind == token.Minus {
			op = ast.OpSub
		}
		var right ast.Expr
		if right, ok = p.parseTerm(); ok {
			left = &ast.Binary{At: tok.Pos, Op: op, Left: left, Right: right}
		}
	}
	return left, ok
}

func (p *Parser) parseTerm() (ast.Expr, bool) {
	left, ok := p.parsePower()
	for ok && p.atOr(token.Star, token.Slash, token.Percent) {
		tok := p.advance()
		op := ast.OpMul
		switch tok.Kind {
		case token.Slash:
			op = ast.OpDiv
		case token.Percent:
			op = ast.OpMod
		}
		var right ast.Expr
		if right, ok = p.parsePower(); ok {
			left = &ast.Binary{At: tok.Pos, Op: op, Left: left, Right: right}
		}
	}
	return left, ok
}

// parsePower is right-associative: 2 ** 3 ** 2 == 2 ** 9.
func (p *Parser) parsePower() (ast.Expr, bool) {
	base, ok := p.parseUnary()
	if !ok || !p.at(token.StarStar) {
		return base, ok
	}
	pos := p.advance().Pos
	exp, ok := p.parsePower()
	if !ok {
		return nil, false
	}
	return &ast.Binary{At: pos, Op: ast.OpPow, Left: base, Right: exp}, true
}

func (p *Parser) parseUnary() (ast.Expr, bool) {
	if p.at(token.Minus) {
		pos := p.advance().Pos
		x, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return &ast.Unary{At: pos, Op: ast.OpNeg, X: x}, true
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, bool) {
	x, ok := p.parsePrimary()
	for ok {
		switch p.lx.Peek().Kind {
		case token.LParen:
			pos := p.advance().Pos
			var args []ast.Expr
			if args, ok = p.parseExprList(token.RParen, diag.SynUnclosedParen, "expected ')' to close call"); ok {
				x = &ast.Call{At: pos, Fn: x, Args: args}
			}
		case token.Dot:
			pos := p.advance().Pos
			var name string
			if name, ok = p.parseIdent(); ok {
				x = &ast.Attr{At: pos, X: x, Name: name}
			}
		case token.LBracket:
			pos := p.advance().Pos
			var idx ast.Expr
			if idx, ok = p.parseExpr(); !ok {
				break
			}
			if _, ok = p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after index"); ok {
				x = &ast.Index{At: pos, X: x, Index: idx}
			}
		default:
			return x, true
		}
	}
	return nil, false
}

// parseExprList reads `e, e, ...` up to and including the closing token.
func (p *Parser) parseExprList(closing token.Kind, code diag.Code, msg string) ([]ast.Expr, bool) {
	var out []ast.Expr
	for !p.atOr(closing, token.EOF) {
		e, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		out = append(out, e)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(closing, code, msg); !ok {
		return nil, false
	}
	return out, true
}

func (p *Parser) parsePrimary() (ast.Expr, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.report(diag.LexBadNumber, diag.SevError, tok.Pos, "invalid integer literal "+tok.Text)
			return nil, false
		}
		return &ast.IntLit{At: tok.Pos, Value: v}, true
	case token.FloatLit:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.report(diag.LexBadNumber, diag.SevError, tok.Pos, "invalid float literal "+tok.Text)
			return nil, false
		}
		return &ast.FloatLit{At: tok.Pos, Value: v}, true
	case token.StringLit:
		p.advance()
		return &ast.StringLit{At: tok.Pos, Value: tok.Text}, true
	case token.KwTrue, token.KwFalse:
		p.advance()
		return &ast.BoolLit{At: tok.Pos, Value: tok.Kind == token.KwTrue}, true
	case token.Ident:
		p.advance()
		return &ast.Ident{At: tok.Pos, Name: tok.Text}, true
	case token.LParen:
		p.advance()
		x, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return nil, false
		}
		return x, true
	case token.LBracket:
		p.advance()
		elems, ok := p.parseExprList(token.RBracket, diag.SynUnclosedBracket, "expected ']' to close list")
		if !ok {
			return nil, false
		}
		return &ast.ListLit{At: tok.Pos, Elems: elems}, true
	case token.LBrace:
		return p.parseMapLit()
	case token.Invalid:
		// already reported by the lexer
		p.advance()
		return nil, false
	default:
		p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
		return nil, false
	}
}

func (p *Parser) parseMapLit() (ast.Expr, bool) {
	lb := p.advance()
	m := &ast.MapLit{At: lb.Pos}
	for !p.atOr(token.RBrace, token.EOF) {
		k, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in map literal"); !ok {
			return nil, false
		}
		v, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		m.Entries = append(m.Entries, ast.MapEntry{Key: k, Value: v})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close map literal"); !ok {
		return nil, false
	}
	return m, true
}
