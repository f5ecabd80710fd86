package parser

import (
	"slices"

	"github.com/NovaVoxel/NovaLang/internal/ast"
	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/lexer"
	"github.com/NovaVoxel/NovaLang/internal/token"
)

type Options struct {
	// MaxErrors stops reporting after this many errors; 0 means no limit.
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit was reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser holds the state for one file.
type Parser struct {
	lx      *lexer.Lexer
	file    string
	opts    Options
	lastPos token.Pos
}

// ParseFile parses src into a file. When any error was reported, the
// partial tree is returned together with an *Error carrying the bag.
func ParseFile(name string, src []byte) (*ast.File, error) {
	bag := diag.NewBag(0)
	f := Parse(name, src, Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		bag.Sort()
		return f, &Error{File: name, Diags: bag}
	}
	return f, nil
}

// Parse runs the parser with caller-provided options.
func Parse(name string, src []byte, opts Options) *ast.File {
	p := &Parser{file: name, opts: opts}
	p.lx = lexer.New(name, src, lexer.Options{Reporter: countingReporter{p}})
	return p.parseFile()
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseFile is the top-level loop: funcs and use declarations until EOF.
func (p *Parser) parseFile() *ast.File {
	f := &ast.File{Name: p.file}
	for !p.at(token.EOF) {
		item, ok := p.parseItem()
		if !ok {
			p.resyncTop()
			continue
		}
		f.Items = append(f.Items, item)
	}
	return f
}

func (p *Parser) parseItem() (ast.Item, bool) {
	switch p.lx.Peek().Kind {
	case token.KwFunc:
		fn, ok := p.parseFunc()
		return fn, ok
	case token.KwUse:
		u, ok := p.parseUse()
		p.eatSemis()
		return u, ok
	case token.Semicolon:
		p.advance()
		return p.parseItem()
	default:
		p.err(diag.SynUnexpectedTopLevel, "expected 'func' or 'use' at top level, got "+describe(p.lx.Peek()))
		return nil, false
	}
}

// resyncTop skips to the next top-level starter.
func (p *Parser) resyncTop() {
	if !p.at(token.EOF) {
		p.advance()
	}
	p.resyncUntil(token.KwFunc, token.KwUse)
}

func (p *Parser) parseFunc() (*ast.FuncDecl, bool) {
	kw := p.advance()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return nil, false
	}
	var params []string
	for !p.atOr(token.RParen, token.EOF) {
		param, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		params = append(params, param)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close parameter list"); !ok {
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	return &ast.FuncDecl{At: kw.Pos, Name: name, Params: params, Body: body}, true
}

// parseUse reads `use a/b/c`; the alias is the last segment.
func (p *Parser) parseUse() (*ast.UseStmt, bool) {
	kw := p.advance()
	first, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	path, alias := first, first
	for p.at(token.Slash) {
		p.advance()
		if !p.at(token.Ident) {
			p.err(diag.SynBadUsePath, "expected path segment after '/'")
			return nil, false
		}
		seg := p.advance().Text
		path += "/" + seg
		alias = seg
	}
	return &ast.UseStmt{At: kw.Pos, Path: path, Alias: alias}, true
}
