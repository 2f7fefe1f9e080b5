package beecalc

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/blakegarretson/beecalc/unit"
)

// defaultPrec is the precision in bits of big-float arithmetic, such as
// raising an exact rational to a fractional power.
const defaultPrec = 128

// A Session holds the evaluation state of one notebook: the variable
// environment, the floating point precision, and a logger. A Session is
// not safe for concurrent use.
type Session struct {
	vars map[string]Value
	seed map[string]Value
	log  *zap.Logger
	prec uint
}

// An Option sets up a Session.
type Option func(*Session)

// WithLogger sets the logger the session writes pipeline debug output to.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithVars seeds the variable environment. The seed is restored by Reset.
func WithVars(vars map[string]Value) Option {
	return func(s *Session) {
		for k, v := range vars {
			s.seed[k] = v
		}
	}
}

// WithPrec sets the big-float precision in bits.
func WithPrec(prec uint) Option {
	return func(s *Session) { s.prec = prec }
}

// NewSession returns an empty session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		vars: make(map[string]Value),
		seed: make(map[string]Value),
		log:  zap.NewNop(),
		prec: defaultPrec,
	}
	for _, o := range opts {
		o(s)
	}
	for k, v := range s.seed {
		s.vars[k] = v
	}
	return s
}

// Reset drops all variables, keeping any seeded by WithVars.
func (s *Session) Reset() {
	s.vars = make(map[string]Value, len(s.seed))
	for k, v := range s.seed {
		s.vars[k] = v
	}
}

// Set binds a variable.
func (s *Session) Set(name string, v Value) { s.vars[name] = v }

// Lookup reports the value bound to name, checking variables before
// constants. A variable may shadow a constant for the life of the session.
func (s *Session) Lookup(name string) (Value, bool) {
	return s.lookup(name)
}

func (s *Session) lookup(name string) (Value, bool) {
	if v, ok := s.vars[name]; ok {
		return v, true
	}
	if v, ok := constants[name]; ok {
		return v, true
	}
	return Value{}, false
}

// EvalLine runs one raw line through the whole pipeline and returns its
// value. Blank lines and comments return the empty value. A line either
// applies all of its assignments or none: any error rolls the variable
// environment back to its state before the line. After a successful
// non-empty line, ans holds the result.
func (s *Session) EvalLine(text string) (Value, error) {
	canon := s.Preprocess(text)
	if strings.TrimSpace(canon) == "" {
		return Value{}, nil
	}
	stmts, err := parseLine(canon)
	if err != nil {
		return Value{}, err
	}
	if len(stmts) == 0 {
		return Value{}, nil
	}
	saved := make(map[string]Value, len(s.vars))
	for k, v := range s.vars {
		saved[k] = v
	}
	var values []Value
	for _, st := range stmts {
		v, err := s.evalExpr(st.expr)
		if err != nil {
			s.vars = saved
			if ce := s.log.Check(zap.DebugLevel, "eval failed"); ce != nil {
				ce.Write(zap.String("stmt", st.src), zap.Error(err))
			}
			return Value{}, err
		}
		for _, t := range st.targets {
			s.vars[t] = v
		}
		values = append(values, v)
	}
	out := values[0]
	if len(values) > 1 {
		out = SeqValue(values...)
	}
	if !out.IsEmpty() {
		s.vars["ans"] = out
	}
	return out, nil
}

func (s *Session) evalExpr(e ast.Expr) (Value, error) {
	switch n := e.(type) {
	case *ast.ParenExpr:
		return s.evalExpr(n.X)
	case *ast.BasicLit:
		return litValue(n)
	case *ast.Ident:
		return s.evalIdent(n.Name)
	case *ast.UnaryExpr:
		v, err := s.evalExpr(n.X)
		if err != nil {
			return Value{}, err
		}
		switch n.Op {
		case token.ADD:
			return v, nil
		case token.SUB:
			return neg(v)
		}
		return Value{}, &BadOperatorError{Op: n.Op.String()}
	case *ast.BinaryExpr:
		return s.evalBinary(n)
	case *ast.CallExpr:
		return s.evalCall(n)
	}
	return Value{}, &UnsupportedNodeError{Node: fmt.Sprintf("%T", e)}
}

// arithTok maps grammar tokens onto arithmetic operators. Two tokens are
// repurposed: ^ is exponentiation, not exclusive or, and &^ carries
// floor division through the grammar.
var arithTok = map[token.Token]string{
	token.ADD:     "+",
	token.SUB:     "-",
	token.MUL:     "*",
	token.QUO:     "/",
	token.REM:     "%",
	token.XOR:     "^",
	token.AND_NOT: "//",
	token.SHL:     "<<",
	token.SHR:     ">>",
	token.AND:     "&",
	token.OR:      "|",
}

var cmpTok = map[token.Token]string{
	token.EQL: "==",
	token.NEQ: "!=",
	token.LSS: "<",
	token.LEQ: "<=",
	token.GTR: ">",
	token.GEQ: ">=",
}

func (s *Session) evalBinary(n *ast.BinaryExpr) (Value, error) {
	if n.Op == token.LOR {
		return s.evalConvert(n.X, n.Y)
	}
	if _, ok := cmpTok[n.Op]; ok {
		// A chained comparison evaluates only its first comparator, so
		// 3 > 2 > 1 is the result of 3 > 2. Parenthesizing the left
		// side compares the boolean as a number instead.
		if lx, ok := n.X.(*ast.BinaryExpr); ok {
			if _, chain := cmpTok[lx.Op]; chain {
				return s.evalBinary(lx)
			}
		}
	}
	l, err := s.evalExpr(n.X)
	if err != nil {
		return Value{}, err
	}
	r, err := s.evalExpr(n.Y)
	if err != nil {
		return Value{}, err
	}
	if op, ok := cmpTok[n.Op]; ok {
		return compare(op, l, r)
	}
	op, ok := arithTok[n.Op]
	if !ok {
		return Value{}, &BadOperatorError{Op: n.Op.String()}
	}
	return binaryOp(op, l, r, s.prec)
}

// evalConvert handles the conversion operator. The right side names the
// target unit; the left side is either a quantity to convert or a bare
// number to tag.
func (s *Session) evalConvert(x, y ast.Expr) (Value, error) {
	rv, err := s.evalExpr(y)
	if err != nil {
		return Value{}, err
	}
	target, ok := rv.Quantity()
	if !ok {
		return Value{}, &BadOperatorError{Op: "in"}
	}
	lv, err := s.evalExpr(x)
	if err != nil {
		return Value{}, err
	}
	if lq, ok := lv.Quantity(); ok {
		q, err := lq.Convert(target.Unit)
		if err != nil {
			return Value{}, err
		}
		return QuantityValue(q), nil
	}
	f, ok := lv.Float64()
	if !ok {
		return Value{}, &BadOperatorError{Op: "in"}
	}
	return QuantityValue(unit.Quantity{Mag: f * target.Mag, Unit: target.Unit}), nil
}

// evalIdent resolves a name: variables shadow constants, and anything
// unbound falls through to the unit table so bare unit names like ft3
// denote one of that unit.
func (s *Session) evalIdent(name string) (Value, error) {
	if v, ok := s.lookup(name); ok {
		return v, nil
	}
	q, err := unit.One(name)
	if err != nil {
		return Value{}, &UnknownIdentifierError{Name: name}
	}
	return QuantityValue(q), nil
}

func unparen(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

// evalCall evaluates what the grammar parses as a call. Juxtaposition of
// a value and a parenthesized expression, like 5(1+2) or a(1+2) with a
// bound, is multiplication; otherwise the callee must be a known function.
func (s *Session) evalCall(n *ast.CallExpr) (Value, error) {
	switch f := unparen(n.Fun).(type) {
	case *ast.BasicLit:
		if f.Kind == token.INT || f.Kind == token.FLOAT || f.Kind == token.IMAG {
			return s.impliedMul(f, n.Args)
		}
	case *ast.Ident:
		if _, ok := s.lookup(f.Name); ok {
			return s.impliedMul(f, n.Args)
		}
		if f.Name == unitFunc {
			return s.evalUnitCall(n.Args)
		}
		fn, ok := functions[f.Name]
		if !ok {
			return Value{}, &UnknownFunctionError{Name: f.Name}
		}
		args := make([]Value, len(n.Args))
		for i, a := range n.Args {
			v, err := s.evalExpr(a)
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		if angleFuncs[f.Name] && len(args) == 1 {
			if q, ok := args[0].Quantity(); ok {
				rq, err := q.ConvertText("rad")
				if err != nil {
					return Value{}, err
				}
				args[0] = FloatValue(rq.Mag)
			}
		}
		return fn(args)
	default:
		return s.impliedMul(f, n.Args)
	}
	return Value{}, &UnsupportedNodeError{Node: "call"}
}

func (s *Session) impliedMul(fun ast.Expr, args []ast.Expr) (Value, error) {
	if len(args) != 1 {
		return Value{}, &SyntaxError{Msg: "expected a single parenthesized factor"}
	}
	l, err := s.evalExpr(fun)
	if err != nil {
		return Value{}, err
	}
	r, err := s.evalExpr(args[0])
	if err != nil {
		return Value{}, err
	}
	return binaryOp("*", l, r, s.prec)
}

// evalUnitCall is the unit constructor emitted by the preprocessor:
// Unit("mm") is one millimeter, Unit(5,"mm") is five, and
// Unit(5,"m","mm") constructs then converts.
func (s *Session) evalUnitCall(args []ast.Expr) (Value, error) {
	text := func(e ast.Expr) (string, error) {
		l, ok := unparen(e).(*ast.BasicLit)
		if !ok || l.Kind != token.STRING {
			return "", &SyntaxError{Msg: "unit name must be quoted"}
		}
		return strconv.Unquote(l.Value)
	}
	switch len(args) {
	case 1:
		name, err := text(args[0])
		if err != nil {
			return Value{}, err
		}
		q, err := unit.One(name)
		if err != nil {
			return Value{}, err
		}
		return QuantityValue(q), nil
	case 2, 3:
		mv, err := s.evalExpr(args[0])
		if err != nil {
			return Value{}, err
		}
		mag, ok := mv.Float64()
		if !ok {
			return Value{}, &SyntaxError{Msg: "unit magnitude must be numeric"}
		}
		name, err := text(args[1])
		if err != nil {
			return Value{}, err
		}
		q, err := unit.New(mag, name)
		if err != nil {
			return Value{}, err
		}
		if len(args) == 3 {
			targ, err := text(args[2])
			if err != nil {
				return Value{}, err
			}
			q, err = q.ConvertText(targ)
			if err != nil {
				return Value{}, err
			}
		}
		return QuantityValue(q), nil
	}
	return Value{}, &ArityError{Func: unitFunc, N: len(args)}
}

// litValue converts a literal. Integer literals stay exact as long as
// they fit 64 bits, signed first, then unsigned, then a float.
func litValue(l *ast.BasicLit) (Value, error) {
	switch l.Kind {
	case token.INT:
		if i, err := strconv.ParseInt(l.Value, 0, 64); err == nil {
			return IntValue(i), nil
		}
		if u, err := strconv.ParseUint(l.Value, 0, 64); err == nil {
			return UintValue(u), nil
		}
		f, err := strconv.ParseFloat(l.Value, 64)
		if err != nil {
			return Value{}, &SyntaxError{Msg: err.Error()}
		}
		return FloatValue(f), nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(l.Value, 64)
		if err != nil {
			return Value{}, &SyntaxError{Msg: err.Error()}
		}
		return FloatValue(f), nil
	case token.IMAG:
		f, err := strconv.ParseFloat(strings.TrimSuffix(l.Value, "i"), 64)
		if err != nil {
			return Value{}, &SyntaxError{Msg: err.Error()}
		}
		return ComplexValue(complex(0, f)), nil
	}
	return Value{}, &UnsupportedNodeError{Node: "literal " + l.Kind.String()}
}
