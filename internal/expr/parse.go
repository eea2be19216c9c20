package expr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-air/gini/z"
)

// ErrSyntax is returned for malformed formulas.
var ErrSyntax = errors.New("formula syntax error")

// Resolver maps an identifier found in a formula to a literal.
type Resolver func(name string) (z.Lit, error)

// Parse reads a formula written in the same grammar Formula produces:
//
//	expr   = term { "+" term }
//	term   = factor { "*" factor }
//	factor = "!" factor | "(" expr ")" | "0" | "1" | identifier
//
// Identifiers are resolved through resolve in order of first appearance.
func (m *Manager) Parse(s string, resolve Resolver) (z.Lit, error) {
	p := &parser{m: m, src: s, resolve: resolve}
	lit, err := p.expr()
	if err != nil {
		return z.LitNull, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return z.LitNull, p.errorf("unexpected %q", p.src[p.pos])
	}
	return lit, nil
}

// IsIdentByte reports whether c may appear in an identifier of the formula
// grammar.
func IsIdentByte(c byte) bool {
	switch c {
	case '(', ')', '!', '*', '+', ';', '=', ' ', '\t', '\r', '\n':
		return false
	}
	return true
}

type parser struct {
	m       *Manager
	src     string
	pos     int
	resolve Resolver
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expr() (z.Lit, error) {
	acc, err := p.term()
	if err != nil {
		return z.LitNull, err
	}
	for p.peek() == '+' {
		p.pos++
		rhs, err := p.term()
		if err != nil {
			return z.LitNull, err
		}
		acc = p.m.Or(acc, rhs)
	}
	return acc, nil
}

func (p *parser) term() (z.Lit, error) {
	acc, err := p.factor()
	if err != nil {
		return z.LitNull, err
	}
	for p.peek() == '*' {
		p.pos++
		rhs, err := p.factor()
		if err != nil {
			return z.LitNull, err
		}
		acc = p.m.And(acc, rhs)
	}
	return acc, nil
}

func (p *parser) factor() (z.Lit, error) {
	switch c := p.peek(); {
	case c == 0:
		return z.LitNull, p.errorf("unexpected end of formula")
	case c == '!':
		p.pos++
		lit, err := p.factor()
		if err != nil {
			return z.LitNull, err
		}
		return lit.Not(), nil
	case c == '(':
		p.pos++
		lit, err := p.expr()
		if err != nil {
			return z.LitNull, err
		}
		if p.peek() != ')' {
			return z.LitNull, p.errorf("missing )")
		}
		p.pos++
		return lit, nil
	case IsIdentByte(c):
		start := p.pos
		for p.pos < len(p.src) && IsIdentByte(p.src[p.pos]) {
			p.pos++
		}
		tok := p.src[start:p.pos]
		switch tok {
		case "0":
			return p.m.Const(false), nil
		case "1":
			return p.m.Const(true), nil
		}
		lit, err := p.resolve(tok)
		if err != nil {
			return z.LitNull, fmt.Errorf("resolve %q: %w", tok, err)
		}
		return lit, nil
	default:
		return z.LitNull, p.errorf("unexpected %q", c)
	}
}
