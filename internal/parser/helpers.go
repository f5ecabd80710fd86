package parser

import (
	"github.com/NovaVoxel/NovaLang/internal/diag"
	"github.com/NovaVoxel/NovaLang/internal/token"
)

// advance consumes the next token and remembers its position.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastPos = tok.Pos
	}
	return tok
}

// diagPos is the best position for a diagnostic at the current token.
func (p *Parser) diagPos() token.Pos {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastPos.IsValid() {
		return p.lastPos
	}
	return peek.Pos
}

// expect consumes a token of kind k or reports code.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg+", got "+describe(p.lx.Peek()))
	return token.Token{Kind: token.Invalid, Pos: p.diagPos()}, false
}

func (p *Parser) parseIdent() (string, bool) {
	if p.at(token.Ident) {
		return p.advance().Text, true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got "+describe(p.lx.Peek()))
	return "", false
}

func (p *Parser) eatSemis() {
	for p.at(token.Semicolon) {
		p.advance()
	}
}

// resyncUntil skips tokens until one of stop (not consumed) or EOF.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(stop...) {
		p.advance()
	}
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.diagPos(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, pos token.Pos, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	if sev == diag.SevError {
		if p.opts.Enough() {
			return
		}
		p.opts.CurrentErrors++
	}
	p.opts.Reporter.Report(code, sev, p.file, pos, msg, nil)
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return "identifier '" + t.Text + "'"
	case token.IntLit, token.FloatLit:
		return "number " + t.Text
	case token.StringLit:
		return "string literal"
	case token.Invalid:
		return "invalid token"
	}
	return "'" + t.Kind.String() + "'"
}

// countingReporter forwards lexer diagnostics through the parser so they
// count against MaxErrors.
type countingReporter struct{ p *Parser }

func (r countingReporter) Report(code diag.Code, sev diag.Severity, _ string, pos token.Pos, msg string, _ []diag.Note) {
	r.p.report(code, sev, pos, msg)
}
