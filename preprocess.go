package beecalc

import (
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/blakegarretson/beecalc/unit"
)

// The preprocessor turns one raw line of notebook shorthand into canonical
// expression text the arithmetic grammar can parse. It is an ordered
// sequence of text rewrites; each step feeds the next, and running the
// whole pipeline on its own output changes nothing.

var (
	spaceRe     = regexp.MustCompile(`\s+`)
	ofRe        = regexp.MustCompile(`%\s+of\s+`)
	factorialRe = regexp.MustCompile(`(\d+)\s*!($|[^=])`)
	moneyRe     = regexp.MustCompile(`\$([0-9.]+)`)
	moneyToRe   = regexp.MustCompile(`\s(to|in)\s+\$`)
)

// normalizer maps typographic variants onto the plain forms the rest of
// the pipeline understands. // is floor division; it is spelled &^ in
// canonical text because a bare // would read as a Go line comment and
// make the parser drop the rest of the expression, while &^ is a binary
// token at multiplicative precedence that users never type.
var normalizer = strings.NewReplacer(
	"**", "^",
	"//", "&^",
	"⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
	"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
	"·", "*", "⋅", "*", "×", "*",
)

// Preprocess rewrites one raw line into canonical expression text. It
// performs no validation; malformed input passes through and fails in the
// parser or evaluator.
func (s *Session) Preprocess(line string) string {
	text := strings.TrimSpace(normalizer.Replace(line))
	text = spaceRe.ReplaceAllString(text, " ")

	// Comments run to end of line.
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	if text == "" {
		return ""
	}

	// @ refers to the previous line's result.
	text = strings.ReplaceAll(text, "@", "ans")

	// "N % of M" becomes ((N)/100)*M. First occurrence only, and before
	// bare % can be mistaken for the percent unit.
	if loc := ofRe.FindStringIndex(text); loc != nil {
		text = "((" + strings.TrimSpace(text[:loc[0]]) + ")/100)*" + text[loc[1]:]
	}

	// A % not followed by a digit is the percent unit, not modulo.
	text = percentUnits(text)

	// n! is factorial(n). != comparisons are left alone.
	text = factorialRe.ReplaceAllString(text, "factorial($1)$2")

	// Scalar variables and constants substitute textually.
	text = s.substitute(text)

	// $12.50 is money: 12.50 USD.
	text = moneyRe.ReplaceAllString(text, "$1 USD")
	text = moneyToRe.ReplaceAllString(text, " $1 USD")

	// 2mm, 90 deg, 4j: attach unit and imaginary suffixes to magnitudes.
	text = s.wrapUnits(text)

	// "x in mm" and "x to mm" become the conversion operator.
	text = convertClauses(text)

	// ^ becomes the pow function so exponentiation outranks every
	// infix operator and chains to the right.
	text = powerCalls(text)

	if ce := s.log.Check(zap.DebugLevel, "preprocessed"); ce != nil {
		ce.Write(zap.String("input", line), zap.String("canonical", text))
	}
	return text
}

// percentUnits rewrites % to the pct unit token unless a digit follows,
// which keeps 8 % 3 a modulo.
func percentUnits(text string) string {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(text) && text[j] == ' ' {
			j++
		}
		if j < len(text) && text[j] >= '0' && text[j] <= '9' {
			b.WriteByte('%')
		} else {
			b.WriteString("pct")
		}
	}
	return b.String()
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// isUnitStart covers unit-name runes the identifier class misses, like °.
func isUnitStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '°'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// substitute replaces each maximal identifier that names a bound scalar
// with its parenthesized value. Assignment targets, identifiers glued to a
// number (unit position), and quantity-valued variables are left alone.
// The scan is a single pass; replacement text is not rescanned.
func (s *Session) substitute(text string) string {
	var b strings.Builder
	rs := []rune(text)
	inStr := false
	for i := 0; i < len(rs); {
		r := rs[i]
		if r == '"' {
			inStr = !inStr
		}
		if inStr || !isIdentStart(r) {
			b.WriteRune(r)
			i++
			continue
		}
		j := i + 1
		for j < len(rs) && isIdentRune(rs[j]) {
			j++
		}
		name := string(rs[i:j])
		if s.substitutable(rs, i, j) {
			if v, ok := s.lookup(name); ok {
				if t, scalar := v.substText(); scalar {
					b.WriteString(t)
					i = j
					continue
				}
			}
		}
		b.WriteString(name)
		i = j
	}
	return b.String()
}

// substitutable reports whether the identifier at rs[i:j] is in a position
// where textual substitution applies: not an assignment target, not glued
// to a preceding number, and not one space after a value (where a unit
// name belongs).
func (s *Session) substitutable(rs []rune, i, j int) bool {
	if i > 0 && (isDigit(rs[i-1]) || rs[i-1] == '.') {
		return false
	}
	if i > 1 && rs[i-1] == ' ' {
		p := rs[i-2]
		if isIdentRune(p) || p == ')' || p == '.' {
			return false
		}
	}
	k := j
	for k < len(rs) && rs[k] == ' ' {
		k++
	}
	if k < len(rs) && rs[k] == '=' && (k+1 >= len(rs) || rs[k+1] != '=') {
		return false
	}
	return true
}

// scanNumber returns the end of the numeric literal starting at i:
// digits, an optional decimal part, and an optional exponent.
func scanNumber(rs []rune, i int) int {
	j := i
	for j < len(rs) && isDigit(rs[j]) {
		j++
	}
	if j < len(rs) && rs[j] == '.' {
		j++
		for j < len(rs) && isDigit(rs[j]) {
			j++
		}
	}
	if j < len(rs) && (rs[j] == 'e' || rs[j] == 'E') {
		k := j + 1
		if k < len(rs) && (rs[k] == '+' || rs[k] == '-') {
			k++
		}
		if k < len(rs) && isDigit(rs[k]) {
			for k < len(rs) && isDigit(rs[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

// unitTokenEnd returns the end of a unit token starting at k: unit runes,
// then an optional integer exponent with or without a caret.
func unitTokenEnd(rs []rune, k int) int {
	m := k
	for m < len(rs) && isUnitStart(rs[m]) {
		m++
	}
	for m < len(rs) && (isDigit(rs[m]) || rs[m] == '^') {
		m++
	}
	return m
}

func nextNonSpace(rs []rune, i int) rune {
	for i < len(rs) && rs[i] == ' ' {
		i++
	}
	if i < len(rs) {
		return rs[i]
	}
	return 0
}

// wrapUnits is the implied-unit pass: a tokenizing scan that classifies
// runs of characters and rewrites <number><unit> to an explicit
// unit-constructor call, <number>i/j to an imaginary literal, and a bare
// unit name after a closing parenthesis to a multiplication. Quoted
// strings from already-wrapped units are skipped, which is what makes the
// pass idempotent.
func (s *Session) wrapUnits(text string) string {
	var b strings.Builder
	rs := []rune(text)
	inStr := false
	pending := 0  // spaces seen but not yet written
	var last rune // last significant rune emitted
	emit := func(str string) {
		for ; pending > 0; pending-- {
			b.WriteByte(' ')
		}
		b.WriteString(str)
		for _, r := range str {
			if r != ' ' {
				last = r
			}
		}
	}
	for i := 0; i < len(rs); {
		r := rs[i]
		if r == '"' {
			inStr = !inStr
			emit(string(r))
			i++
			continue
		}
		if inStr {
			b.WriteString(string(r))
			i++
			continue
		}
		if r == ' ' {
			pending++
			i++
			continue
		}
		if isIdentStart(r) || r == '°' {
			j := unitTokenEnd(rs, i)
			name := string(rs[i:j])
			if last == ')' && unit.Known(name) && nextNonSpace(rs, j) != '(' && !conversionKeyword(rs, i, j) {
				// The inserted * sits flush against the parenthesis.
				pending = 0
				emit("*")
			}
			emit(name)
			i = j
			continue
		}
		if isDigit(r) || (r == '.' && i+1 < len(rs) && isDigit(rs[i+1])) {
			j := scanNumber(rs, i)
			num := string(rs[i:j])
			k := j
			for k < len(rs) && rs[k] == ' ' {
				k++
			}
			if k < len(rs) && isUnitStart(rs[k]) {
				m := unitTokenEnd(rs, k)
				tok := string(rs[k:m])
				follow := nextNonSpace(rs, m)
				switch {
				case (tok == "i" || tok == "j") && follow != '(':
					emit(num + "i")
					i = m
					continue
				case unit.Known(tok) && follow != '(':
					emit("Unit(" + num + ",\"" + tok + "\")")
					i = m
					continue
				}
			}
			emit(num)
			i = j
			continue
		}
		emit(string(r))
		i++
	}
	return b.String()
}

// powerCalls rewrites every ^ into a pow call. The grammar has no
// binary token with the right shape for exponentiation: any token it
// could borrow binds looser than * and associates left, which would read
// 3*2^2 as (3*2)^2 and 2^3^2 as (2^3)^2. Rewriting the rightmost ^ first
// makes chains right associative, and keeping unary minus outside the
// base makes -2^2 equal -(2^2).
func powerCalls(text string) string {
	rs := []rune(text)
	for {
		i := lastPower(rs)
		if i < 0 {
			return string(rs)
		}
		bs, be := powerBase(rs, i)
		es, ee := powerExp(rs, i)
		if bs < 0 || es < 0 {
			// Malformed operand; the parser reports it.
			return string(rs)
		}
		out := make([]rune, 0, len(rs)+6)
		out = append(out, rs[:bs]...)
		out = append(out, []rune("pow(")...)
		out = append(out, rs[bs:be]...)
		out = append(out, ',')
		out = append(out, rs[es:ee]...)
		out = append(out, ')')
		out = append(out, rs[ee:]...)
		rs = out
	}
}

// lastPower returns the index of the rightmost ^ outside quoted unit
// names, or -1. The ^ of the &^ floor-division token does not count.
func lastPower(rs []rune) int {
	inStr := false
	last := -1
	for i, r := range rs {
		switch {
		case r == '"':
			inStr = !inStr
		case !inStr && r == '^' && (i == 0 || rs[i-1] != '&'):
			last = i
		}
	}
	return last
}

// powerBase returns the [start, end) of the operand left of the ^ at i: a
// parenthesized group or call, or a number or identifier run.
func powerBase(rs []rune, i int) (int, int) {
	e := i
	for e > 0 && rs[e-1] == ' ' {
		e--
	}
	if e == 0 {
		return -1, -1
	}
	s := e
	if rs[s-1] == ')' {
		depth := 0
		inStr := false
		for s > 0 {
			s--
			switch {
			case rs[s] == '"':
				inStr = !inStr
			case inStr:
			case rs[s] == ')':
				depth++
			case rs[s] == '(':
				depth--
			}
			if depth == 0 && !inStr {
				break
			}
		}
		if depth != 0 {
			return -1, -1
		}
		for s > 0 && isIdentRune(rs[s-1]) {
			s--
		}
		return s, e
	}
	for {
		for s > 0 && (isIdentRune(rs[s-1]) || rs[s-1] == '.' || rs[s-1] == '°') {
			s--
		}
		// A sign inside scientific notation belongs to the number.
		if s > 1 && (rs[s-1] == '+' || rs[s-1] == '-') && (rs[s-2] == 'e' || rs[s-2] == 'E') && s < e && isDigit(rs[s]) {
			s -= 2
			continue
		}
		break
	}
	if s == e {
		return -1, -1
	}
	return s, e
}

// powerExp returns the [start, end) of the operand right of the ^ at i:
// optional signs, then a parenthesized group, call, identifier, or
// number.
func powerExp(rs []rune, i int) (int, int) {
	s := i + 1
	for s < len(rs) && rs[s] == ' ' {
		s++
	}
	e := s
	for e < len(rs) && (rs[e] == '+' || rs[e] == '-') {
		e++
		for e < len(rs) && rs[e] == ' ' {
			e++
		}
	}
	if e >= len(rs) {
		return -1, -1
	}
	switch {
	case rs[e] == '(':
	case isIdentStart(rs[e]) || rs[e] == '°':
		for e < len(rs) && (isIdentRune(rs[e]) || rs[e] == '°') {
			e++
		}
		if e >= len(rs) || rs[e] != '(' {
			return s, e
		}
	case isDigit(rs[e]) || (rs[e] == '.' && e+1 < len(rs) && isDigit(rs[e+1])):
		e = scanNumber(rs, e)
		if e < len(rs) && rs[e] == 'i' {
			e++
		}
		return s, e
	default:
		return -1, -1
	}
	depth := 0
	inStr := false
	for e < len(rs) {
		switch {
		case rs[e] == '"':
			inStr = !inStr
		case inStr:
		case rs[e] == '(':
			depth++
		case rs[e] == ')':
			depth--
		}
		e++
		if depth == 0 && !inStr {
			break
		}
	}
	if depth != 0 {
		return -1, -1
	}
	return s, e
}

// conversionKeyword reports whether the word at rs[i:j] reads as a
// conversion rather than a unit name: "in" or "to" followed by a space and
// the start of unit text. "5 in mm" is five inches times a millimeter, but
// "(5 m) in mm" converts.
func conversionKeyword(rs []rune, i, j int) bool {
	w := string(rs[i:j])
	if w != "in" && w != "to" {
		return false
	}
	if j >= len(rs) || rs[j] != ' ' {
		return false
	}
	return isUnitTextRune(nextNonSpace(rs, j))
}

// isUnitTextRune is the character set of a conversion target, e.g.
// kg/m3 or ft/(s*s).
func isUnitTextRune(r rune) bool {
	return isUnitStart(r) || isDigit(r) || r == '^' || r == '*' || r == '/' || r == '(' || r == ')'
}

// convertClauses rewrites every whitespace-delimited "in" or "to" keyword
// followed by unit text into the conversion operator. The operator is
// spelled || in canonical text: it is the one binary token the grammar
// reserves that users never type, and it binds looser than arithmetic, so
// "2*5 in mm" converts the product. Text after the unit resumes verbatim,
// which keeps chained operations like "(x in m)/kg" working.
func convertClauses(text string) string {
	var b strings.Builder
	rs := []rune(text)
	inStr := false
	wrote := false
	for i := 0; i < len(rs); {
		r := rs[i]
		if r == '"' {
			inStr = !inStr
			b.WriteRune(r)
			wrote = true
			i++
			continue
		}
		if inStr {
			b.WriteRune(r)
			i++
			continue
		}
		if isIdentStart(r) {
			j := i + 1
			for j < len(rs) && isIdentRune(rs[j]) {
				j++
			}
			word := string(rs[i:j])
			if (word == "in" || word == "to") && wrote && j < len(rs) && rs[j] == ' ' {
				k := j
				for k < len(rs) && rs[k] == ' ' {
					k++
				}
				m := k
				depth := 0
				for m < len(rs) && isUnitTextRune(rs[m]) {
					if rs[m] == '(' {
						depth++
					}
					if rs[m] == ')' {
						if depth == 0 {
							break
						}
						depth--
					}
					m++
				}
				if m > k {
					b.WriteString("|| Unit(\"" + string(rs[k:m]) + "\")")
					wrote = true
					i = m
					continue
				}
			}
			b.WriteString(word)
			wrote = true
			i = j
			continue
		}
		b.WriteRune(r)
		if r != ' ' {
			wrote = true
		}
		i++
	}
	return b.String()
}
