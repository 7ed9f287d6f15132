package model

import (
	"unicode"
	"unicode/utf8"

	"github.com/rfielding/pdlcheck/pkg/bdd"
	"github.com/rfielding/pdlcheck/pkg/pdlerr"
)

// boolExprParser parses the Boolean expressions used by the symbolic model
// format's LAW and PROGRAMS sections. These are not PDL formulas — they have
// no modalities — but their identifiers may carry a trailing prime to name a
// successor-state variable (v1'), which the PDL concrete syntax never needs.
// A separate small parser, rather than reusing pkg/pdl's, keeps that one
// grammar detail from leaking into the formula grammar.
type boolExprToken struct {
	kind exprKind
	text string
	pos  int
}

type exprKind int

const (
	exprEOF exprKind = iota
	exprIdent
	exprLParen
	exprRParen
	exprBang
	exprAmp
	exprPipe
	exprArrow
	exprDArrow
)

func lexBoolExpr(src string) ([]boolExprToken, error) {
	var toks []boolExprToken
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '(':
			toks = append(toks, boolExprToken{exprLParen, "(", i})
			i += size
		case r == ')':
			toks = append(toks, boolExprToken{exprRParen, ")", i})
			i += size
		case r == '!':
			toks = append(toks, boolExprToken{exprBang, "!", i})
			i += size
		case r == '&':
			toks = append(toks, boolExprToken{exprAmp, "&", i})
			i += size
		case r == '|':
			toks = append(toks, boolExprToken{exprPipe, "|", i})
			i += size
		case r == '-' && i+1 < len(src) && src[i+1] == '>':
			toks = append(toks, boolExprToken{exprArrow, "->", i})
			i += 2
		case r == '<' && i+2 < len(src) && src[i+1] == '-' && src[i+2] == '>':
			toks = append(toks, boolExprToken{exprDArrow, "<->", i})
			i += 3
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			start := i
			j := i + size
			for j < len(src) {
				rr, sz := utf8.DecodeRuneInString(src[j:])
				if rr == '_' || unicode.IsLetter(rr) || unicode.IsDigit(rr) {
					j += sz
					continue
				}
				break
			}
			if j < len(src) && src[j] == '\'' {
				j++
			}
			toks = append(toks, boolExprToken{exprIdent, src[start:j], start})
			i = j
		default:
			return nil, pdlerr.New(pdlerr.InvalidOperator, "unexpected character %q at offset %d in %q", r, i, src)
		}
	}
	toks = append(toks, boolExprToken{exprEOF, "", len(src)})
	return toks, nil
}

type boolExprParser struct {
	mgr  *bdd.Manager
	toks []boolExprToken
	pos  int
}

// parseBoolExpr parses src against the declared variables known to mgr,
// returning a BDD node. Every identifier referenced must already be
// declared; an undeclared reference is a construction-time error.
func parseBoolExpr(mgr *bdd.Manager, src string) (bdd.Node, error) {
	toks, err := lexBoolExpr(src)
	if err != nil {
		return bdd.Node{}, err
	}
	p := &boolExprParser{mgr: mgr, toks: toks}
	n, err := p.parseIff()
	if err != nil {
		return bdd.Node{}, err
	}
	if p.peek().kind != exprEOF {
		return bdd.Node{}, pdlerr.New(pdlerr.ParseError, "unexpected trailing input at offset %d in %q", p.peek().pos, src)
	}
	return n, nil
}

func (p *boolExprParser) peek() boolExprToken { return p.toks[p.pos] }

func (p *boolExprParser) advance() boolExprToken {
	t := p.toks[p.pos]
	if t.kind != exprEOF {
		p.pos++
	}
	return t
}

func (p *boolExprParser) parseIff() (bdd.Node, error) {
	left, err := p.parseImplies()
	if err != nil {
		return bdd.Node{}, err
	}
	for p.peek().kind == exprDArrow {
		p.advance()
		right, err := p.parseImplies()
		if err != nil {
			return bdd.Node{}, err
		}
		left = p.mgr.Iff(left, right)
	}
	return left, nil
}

func (p *boolExprParser) parseImplies() (bdd.Node, error) {
	left, err := p.parseOr()
	if err != nil {
		return bdd.Node{}, err
	}
	if p.peek().kind == exprArrow {
		p.advance()
		right, err := p.parseImplies()
		if err != nil {
			return bdd.Node{}, err
		}
		return p.mgr.Imp(left, right), nil
	}
	return left, nil
}

func (p *boolExprParser) parseOr() (bdd.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return bdd.Node{}, err
	}
	for p.peek().kind == exprPipe {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return bdd.Node{}, err
		}
		left = p.mgr.Or(left, right)
	}
	return left, nil
}

func (p *boolExprParser) parseAnd() (bdd.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return bdd.Node{}, err
	}
	for p.peek().kind == exprAmp {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return bdd.Node{}, err
		}
		left = p.mgr.And(left, right)
	}
	return left, nil
}

func (p *boolExprParser) parseUnary() (bdd.Node, error) {
	switch p.peek().kind {
	case exprBang:
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return bdd.Node{}, err
		}
		return p.mgr.Not(inner), nil
	case exprLParen:
		p.advance()
		inner, err := p.parseIff()
		if err != nil {
			return bdd.Node{}, err
		}
		if p.peek().kind != exprRParen {
			return bdd.Node{}, pdlerr.New(pdlerr.ParseError, "expected ')' at offset %d", p.peek().pos)
		}
		p.advance()
		return inner, nil
	case exprIdent:
		t := p.advance()
		if !p.mgr.Declared(t.text) {
			return bdd.Node{}, pdlerr.New(pdlerr.UnknownSymbol, "undeclared variable %q", t.text)
		}
		return p.mgr.Var(t.text)
	default:
		return bdd.Node{}, pdlerr.New(pdlerr.ParseError, "unexpected token %q at offset %d", p.peek().text, p.peek().pos)
	}
}
