package unit

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse parses unit text into a compound Unit. The grammar is products and
// quotients of named units with optional integer exponents, with
// parentheses: "mm", "in2", "m^2", "m/s/s", "kg/m3", "ft/(s*s)".
func Parse(text string) (Unit, error) {
	p := uparser{src: strings.TrimSpace(text)}
	u, err := p.expr()
	if err != nil {
		return Unit{}, err
	}
	p.space()
	if p.pos != len(p.src) {
		return Unit{}, &UnknownUnitError{Name: text}
	}
	return u.normalize(), nil
}

// Known reports whether name is a recognized simple unit, with an optional
// trailing exponent: "mm", "ft3", "m^2".
func Known(name string) bool {
	base, _, ok := splitExp(name)
	if !ok {
		return false
	}
	return find(base) != nil
}

// splitExp splits a trailing integer exponent off a unit name.
func splitExp(tok string) (name string, exp int, ok bool) {
	exp = 1
	if i := strings.IndexAny(tok, "^"); i >= 0 {
		n, err := strconv.Atoi(tok[i+1:])
		if err != nil {
			return "", 0, false
		}
		return tok[:i], n, true
	}
	i := len(tok)
	for i > 0 && tok[i-1] >= '0' && tok[i-1] <= '9' {
		i--
	}
	if i == len(tok) {
		return tok, 1, true
	}
	n, err := strconv.Atoi(tok[i:])
	if err != nil {
		return "", 0, false
	}
	return tok[:i], n, true
}

func isUnitRune(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '°' || r == '$'
}

type uparser struct {
	src string
	pos int
}

func (p *uparser) space() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *uparser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *uparser) expr() (Unit, error) {
	u, err := p.term()
	if err != nil {
		return Unit{}, err
	}
	for {
		p.space()
		switch p.peek() {
		case '*':
			p.pos++
			if p.peek() == '*' { // ** exponent applies to the previous term
				return Unit{}, &UnknownUnitError{Name: p.src}
			}
			t, err := p.term()
			if err != nil {
				return Unit{}, err
			}
			u = u.mul(t)
		case '/':
			p.pos++
			t, err := p.term()
			if err != nil {
				return Unit{}, err
			}
			u = u.div(t)
		default:
			return u, nil
		}
	}
}

func (p *uparser) term() (Unit, error) {
	p.space()
	if p.peek() == '(' {
		p.pos++
		u, err := p.expr()
		if err != nil {
			return Unit{}, err
		}
		p.space()
		if p.peek() != ')' {
			return Unit{}, &UnknownUnitError{Name: p.src}
		}
		p.pos++
		return u, nil
	}
	start := p.pos
	for p.pos < len(p.src) {
		r, sz := utf8.DecodeRuneInString(p.src[p.pos:])
		if !isUnitRune(r) {
			break
		}
		p.pos += sz
	}
	if p.pos == start {
		return Unit{}, &UnknownUnitError{Name: p.src}
	}
	tok := p.src[start:p.pos]
	// Trailing digits or a ^n suffix are an exponent.
	for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '^' ||
		p.src[p.pos] == '-' && p.src[p.pos-1] == '^') {
		p.pos++
	}
	tok = p.src[start:p.pos]
	name, exp, ok := splitExp(tok)
	if !ok {
		return Unit{}, &UnknownUnitError{Name: tok}
	}
	s := find(name)
	if s == nil {
		return Unit{}, &UnknownUnitError{Name: name}
	}
	u := Unit{num: []part{{s, exp}}}
	if exp < 0 {
		u = Unit{den: []part{{s, -exp}}}
	}
	return u, nil
}
