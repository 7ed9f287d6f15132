package pdl

import (
	"unicode"
	"unicode/utf8"

	"github.com/rfielding/pdlcheck/pkg/pdlerr"
)

// Lex tokenizes a PDL expression in full, upfront, so the parser can
// backtrack cheaply when disambiguating a parenthesized program from a
// parenthesized-and-tested formula (see parser.go). Whitespace is
// insignificant outside identifiers.
func Lex(src string) ([]Token, error) {
	var toks []Token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '(':
			toks = append(toks, Token{LParen, "(", i})
			i += size
		case r == ')':
			toks = append(toks, Token{RParen, ")", i})
			i += size
		case r == '[':
			toks = append(toks, Token{LBracket, "[", i})
			i += size
		case r == ']':
			toks = append(toks, Token{RBracket, "]", i})
			i += size
		case r == '!':
			toks = append(toks, Token{Bang, "!", i})
			i += size
		case r == '&':
			toks = append(toks, Token{Amp, "&", i})
			i += size
		case r == '|':
			toks = append(toks, Token{Pipe, "|", i})
			i += size
		case r == ';':
			toks = append(toks, Token{Semi, ";", i})
			i += size
		case r == '*':
			toks = append(toks, Token{StarTok, "*", i})
			i += size
		case r == '?':
			toks = append(toks, Token{Question, "?", i})
			i += size
		case r == '-':
			if hasPrefix(src, i, "->") {
				toks = append(toks, Token{Arrow, "->", i})
				i += 2
				continue
			}
			return nil, pdlerr.New(pdlerr.InvalidOperator, "unexpected '-' at offset %d", i)
		case r == '<':
			if hasPrefix(src, i, "<->") {
				toks = append(toks, Token{DArrow, "<->", i})
				i += 3
				continue
			}
			toks = append(toks, Token{DiaOpen, "<", i})
			i += size
		case r == '>':
			toks = append(toks, Token{DiaClose, ">", i})
			i += size
		case isIdentStart(r):
			start := i
			j := i + size
			for j < len(src) {
				rr, sz := utf8.DecodeRuneInString(src[j:])
				if !isIdentPart(rr) {
					break
				}
				j += sz
			}
			text := src[start:j]
			if text == "U" {
				toks = append(toks, Token{Union, text, start})
			} else {
				toks = append(toks, Token{Ident, text, start})
			}
			i = j
		default:
			return nil, pdlerr.New(pdlerr.InvalidOperator, "unexpected character %q at offset %d", r, i)
		}
	}
	toks = append(toks, Token{EOF, "", len(src)})
	return toks, nil
}

func hasPrefix(src string, i int, prefix string) bool {
	return i+len(prefix) <= len(src) && src[i:i+len(prefix)] == prefix
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func unexpected(t Token) error {
	return pdlerr.New(pdlerr.ParseError, "unexpected token %q (%s) at offset %d", t.Text, t.Kind, t.Pos)
}

func expectedMsg(kind Kind, t Token) error {
	return pdlerr.New(pdlerr.ParseError, "expected %s, got %q at offset %d", kind, t.Text, t.Pos)
}
