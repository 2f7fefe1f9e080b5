package beecalc

import (
	"go/ast"
	"go/parser"
	"regexp"
	"strings"
)

// A stmt is one parsed statement of a line: zero or more assignment
// targets and the expression that produces their value.
type stmt struct {
	targets []string
	expr    ast.Expr
	src     string
}

var identRe = regexp.MustCompile(`^[\p{L}_][\p{L}\p{Nd}_]*$`)

// splitTop splits text on sep at the top level: outside double quotes and
// outside parentheses when parens is true.
func splitTop(text string, sep byte, parens bool) []string {
	var parts []string
	depth := 0
	inStr := false
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			inStr = !inStr
		case inStr:
		case parens && c == '(':
			depth++
		case parens && c == ')':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}

// splitAssign splits one statement on single = signs that are not part of
// a comparison operator. Every segment but the last is an assignment
// target.
func splitAssign(text string) []string {
	var parts []string
	inStr := false
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			inStr = !inStr
		case inStr:
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == '=' && depth == 0:
			if i+1 < len(text) && text[i+1] == '=' {
				i++
				continue
			}
			if i > 0 {
				switch text[i-1] {
				case '=', '!', '<', '>':
					continue
				}
			}
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}

// parseLine parses canonical text into statements. Statements are
// separated by semicolons; each may carry chained assignments, as in
// "a = b = 2*3; a+b".
func parseLine(text string) ([]stmt, error) {
	var stmts []stmt
	for _, part := range splitTop(text, ';', true) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segs := splitAssign(part)
		exprText := strings.TrimSpace(segs[len(segs)-1])
		if exprText == "" {
			return nil, &SyntaxError{Msg: "missing expression after ="}
		}
		var targets []string
		for _, t := range segs[:len(segs)-1] {
			t = strings.TrimSpace(t)
			if !identRe.MatchString(t) {
				if t == "" {
					return nil, &SyntaxError{Msg: "missing assignment target"}
				}
				return nil, &SyntaxError{Msg: "cannot assign to " + t}
			}
			targets = append(targets, t)
		}
		e, err := parser.ParseExpr(exprText)
		if err != nil {
			return nil, &SyntaxError{Msg: err.Error()}
		}
		stmts = append(stmts, stmt{targets: targets, expr: e, src: part})
	}
	return stmts, nil
}
