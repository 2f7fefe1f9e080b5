package beecalc

import (
	"math"
	"math/big"
	"math/cmplx"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"

	"github.com/blakegarretson/beecalc/unit"
)

// Kind identifies the variant held by a Value.
type Kind int8

const (
	KindEmpty Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindRat
	KindComplex
	KindQuantity
	KindSeq
)

// Value is the closed variant flowing through evaluation: plain numbers in
// several representations, dimensioned quantities, sequences of results,
// and the empty result of blank lines. The zero Value is empty.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	c    complex128
	r    *big.Rat
	q    unit.Quantity
	seq  []Value
}

func EmptyValue() Value          { return Value{} }
func BoolValue(b bool) Value     { return Value{kind: KindBool, b: b} }
func IntValue(i int64) Value     { return Value{kind: KindInt, i: i} }
func UintValue(u uint64) Value   { return Value{kind: KindUint, u: u} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }
func ComplexValue(c complex128) Value {
	return Value{kind: KindComplex, c: c}
}

// RatValue wraps an exact rational, collapsing integral rationals to Int.
func RatValue(r *big.Rat) Value {
	if r.IsInt() {
		if r.Num().IsInt64() {
			return IntValue(r.Num().Int64())
		}
		f, _ := r.Float64()
		return FloatValue(f)
	}
	return Value{kind: KindRat, r: r}
}

// QuantityValue wraps a quantity, collapsing a fully cancelled unit to a
// plain number.
func QuantityValue(q unit.Quantity) Value {
	if q.Unit.Empty() {
		return FloatValue(q.Mag)
	}
	return Value{kind: KindQuantity, q: q}
}

func SeqValue(vs ...Value) Value { return Value{kind: KindSeq, seq: vs} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v is the empty result.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Int returns the value as an int64 when it is exactly an integer.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindInt:
		return v.i, true
	case KindUint:
		if v.u <= math.MaxInt64 {
			return int64(v.u), true
		}
	case KindFloat:
		if v.f == math.Trunc(v.f) && math.Abs(v.f) < 1<<62 {
			return int64(v.f), true
		}
	case KindRat:
		if v.r.IsInt() && v.r.Num().IsInt64() {
			return v.r.Num().Int64(), true
		}
	}
	return 0, false
}

// Float64 returns the value as a float64 for any real numeric variant,
// including dimensionless quantities.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindInt:
		return float64(v.i), true
	case KindUint:
		return float64(v.u), true
	case KindFloat:
		return v.f, true
	case KindRat:
		f, _ := v.r.Float64()
		return f, true
	case KindComplex:
		if imag(v.c) == 0 {
			return real(v.c), true
		}
	case KindQuantity:
		if v.q.Dimensionless() {
			return v.q.AsNumber(), true
		}
	}
	return 0, false
}

// Quantity returns the quantity variant's payload.
func (v Value) Quantity() (unit.Quantity, bool) {
	return v.q, v.kind == KindQuantity
}

// Values returns the elements of a sequence result, or a single-element
// slice for any other non-empty value.
func (v Value) Values() []Value {
	switch v.kind {
	case KindSeq:
		return v.seq
	case KindEmpty:
		return nil
	}
	return []Value{v}
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (v Value) String() string {
	switch v.kind {
	case KindEmpty:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return fmtFloat(v.f)
	case KindRat:
		f, _ := v.r.Float64()
		return fmtFloat(f)
	case KindComplex:
		return strconv.FormatComplex(v.c, 'g', -1, 128)
	case KindQuantity:
		return v.q.String()
	case KindSeq:
		parts := make([]string, len(v.seq))
		for i, e := range v.seq {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return "<invalid>"
}

// substText renders a scalar value the way the preprocessor splices it into
// canonical text. Quantities and sequences do not substitute.
func (v Value) substText() (string, bool) {
	switch v.kind {
	case KindBool:
		if v.b {
			return "(1)", true
		}
		return "(0)", true
	case KindInt:
		return "(" + strconv.FormatInt(v.i, 10) + ")", true
	case KindUint:
		return "(" + strconv.FormatUint(v.u, 10) + ")", true
	case KindFloat:
		return "(" + fmtFloat(v.f) + ")", true
	case KindRat:
		return "(" + v.r.Num().String() + "/" + v.r.Denom().String() + ")", true
	case KindComplex:
		return strconv.FormatComplex(v.c, 'g', -1, 128), true
	}
	return "", false
}

func (v Value) asRat() (*big.Rat, bool) {
	switch v.kind {
	case KindBool:
		if v.b {
			return big.NewRat(1, 1), true
		}
		return new(big.Rat), true
	case KindInt:
		return new(big.Rat).SetInt64(v.i), true
	case KindUint:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(v.u)), true
	case KindRat:
		return v.r, true
	}
	return nil, false
}

func (v Value) asComplex() (complex128, bool) {
	if v.kind == KindComplex {
		return v.c, true
	}
	if f, ok := v.Float64(); ok {
		return complex(f, 0), true
	}
	return 0, false
}

// neg negates any numeric or quantity value.
func neg(v Value) (Value, error) {
	switch v.kind {
	case KindInt:
		return IntValue(-v.i), nil
	case KindUint:
		if v.u <= math.MaxInt64 {
			return IntValue(-int64(v.u)), nil
		}
		return FloatValue(-float64(v.u)), nil
	case KindFloat:
		return FloatValue(-v.f), nil
	case KindRat:
		return RatValue(new(big.Rat).Neg(v.r)), nil
	case KindComplex:
		return ComplexValue(-v.c), nil
	case KindBool:
		i, _ := v.Int()
		return IntValue(-i), nil
	case KindQuantity:
		return QuantityValue(v.q.Scale(-1)), nil
	}
	return Value{}, &BadOperatorError{Op: "-"}
}

// binaryOp dispatches an arithmetic or bitwise operator over two values.
// prec is the precision for exponentiation that leaves the rational field.
func binaryOp(op string, a, b Value, prec uint) (Value, error) {
	if a.kind == KindQuantity || b.kind == KindQuantity {
		return quantityOp(op, a, b, prec)
	}
	switch op {
	case "+", "-", "*", "/", "^":
		return arith(op, a, b, prec)
	case "%":
		return modOp(a, b)
	case "//":
		return floorDiv(a, b)
	case "<<", ">>", "&", "|":
		return bitOp(op, a, b)
	}
	return Value{}, &BadOperatorError{Op: op}
}

func arith(op string, a, b Value, prec uint) (Value, error) {
	if a.kind == KindComplex || b.kind == KindComplex {
		x, ok := a.asComplex()
		y, ok2 := b.asComplex()
		if !ok || !ok2 {
			return Value{}, &BadOperatorError{Op: op}
		}
		switch op {
		case "+":
			return ComplexValue(x + y), nil
		case "-":
			return ComplexValue(x - y), nil
		case "*":
			return ComplexValue(x * y), nil
		case "/":
			if y == 0 {
				return Value{}, &DivisionByZeroError{Op: "/"}
			}
			return ComplexValue(x / y), nil
		case "^":
			return ComplexValue(cmplx.Pow(x, y)), nil
		}
	}
	if a.kind == KindFloat || b.kind == KindFloat {
		x, ok := a.Float64()
		y, ok2 := b.Float64()
		if !ok || !ok2 {
			return Value{}, &BadOperatorError{Op: op}
		}
		return floatArith(op, x, y)
	}
	x, ok := a.asRat()
	y, ok2 := b.asRat()
	if !ok || !ok2 {
		return Value{}, &BadOperatorError{Op: op}
	}
	switch op {
	case "+":
		return RatValue(new(big.Rat).Add(x, y)), nil
	case "-":
		return RatValue(new(big.Rat).Sub(x, y)), nil
	case "*":
		return RatValue(new(big.Rat).Mul(x, y)), nil
	case "/":
		if y.Sign() == 0 {
			return Value{}, &DivisionByZeroError{Op: "/"}
		}
		return RatValue(new(big.Rat).Quo(x, y)), nil
	case "^":
		return ratPow(x, y, prec)
	}
	return Value{}, &BadOperatorError{Op: op}
}

func floatArith(op string, x, y float64) (Value, error) {
	switch op {
	case "+":
		return FloatValue(x + y), nil
	case "-":
		return FloatValue(x - y), nil
	case "*":
		return FloatValue(x * y), nil
	case "/":
		if y == 0 {
			return Value{}, &DivisionByZeroError{Op: "/"}
		}
		return FloatValue(x / y), nil
	case "^":
		if x < 0 && y != math.Trunc(y) {
			return ComplexValue(cmplx.Pow(complex(x, 0), complex(y, 0))), nil
		}
		return FloatValue(math.Pow(x, y)), nil
	}
	return Value{}, &BadOperatorError{Op: op}
}

// ratPow keeps exponentiation exact for integer exponents of reasonable
// size; otherwise it escapes to big.Float via bigfloat.Pow at prec bits.
func ratPow(x, y *big.Rat, prec uint) (Value, error) {
	if y.IsInt() && y.Num().IsInt64() {
		n := y.Num().Int64()
		if n == 0 {
			return IntValue(1), nil
		}
		if n > -(1<<16) && n < 1<<16 {
			e := big.NewInt(n)
			if n < 0 {
				if x.Sign() == 0 {
					return Value{}, &DivisionByZeroError{Op: "^"}
				}
				e.Neg(e)
			}
			num := new(big.Int).Exp(x.Num(), e, nil)
			den := new(big.Int).Exp(x.Denom(), e, nil)
			r := new(big.Rat).SetFrac(num, den)
			if n < 0 {
				r.Inv(r)
			}
			return RatValue(r), nil
		}
	}
	xf, _ := x.Float64()
	yf, _ := y.Float64()
	if x.Sign() < 0 {
		return floatArith("^", xf, yf)
	}
	bx := new(big.Float).SetPrec(prec).SetRat(x)
	by := new(big.Float).SetPrec(prec).SetRat(y)
	z := bigfloat.Pow(new(big.Float).SetPrec(prec), bx, by)
	f, _ := z.Float64()
	return FloatValue(f), nil
}

// modOp implements % with the remainder taking the divisor's sign, the
// behavior users of notebook calculators expect from -7 % 3.
func modOp(a, b Value) (Value, error) {
	if x, ok := a.Int(); ok {
		if y, ok := b.Int(); ok {
			if y == 0 {
				return Value{}, &DivisionByZeroError{Op: "%"}
			}
			r := x % y
			if r != 0 && (r < 0) != (y < 0) {
				r += y
			}
			return IntValue(r), nil
		}
	}
	x, ok := a.Float64()
	y, ok2 := b.Float64()
	if !ok || !ok2 {
		return Value{}, &BadOperatorError{Op: "%"}
	}
	if y == 0 {
		return Value{}, &DivisionByZeroError{Op: "%"}
	}
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return FloatValue(r), nil
}

// floorDiv implements //, division rounding toward negative infinity, so
// -7 // 2 is -4.
func floorDiv(a, b Value) (Value, error) {
	if x, ok := a.Int(); ok {
		if y, ok := b.Int(); ok {
			if y == 0 {
				return Value{}, &DivisionByZeroError{Op: "//"}
			}
			q := x / y
			if x%y != 0 && (x < 0) != (y < 0) {
				q--
			}
			return IntValue(q), nil
		}
	}
	x, ok := a.Float64()
	y, ok2 := b.Float64()
	if !ok || !ok2 {
		return Value{}, &BadOperatorError{Op: "//"}
	}
	if y == 0 {
		return Value{}, &DivisionByZeroError{Op: "//"}
	}
	return numResult(math.Floor(x / y)), nil
}

func bitOp(op string, a, b Value) (Value, error) {
	x, ok := a.Int()
	y, ok2 := b.Int()
	if !ok || !ok2 {
		return Value{}, &BadOperatorError{Op: op}
	}
	switch op {
	case "<<":
		if y < 0 || y > 63 {
			return Value{}, &BadOperatorError{Op: op}
		}
		return IntValue(x << uint(y)), nil
	case ">>":
		if y < 0 || y > 63 {
			return Value{}, &BadOperatorError{Op: op}
		}
		return IntValue(x >> uint(y)), nil
	case "&":
		return IntValue(x & y), nil
	case "|":
		return IntValue(x | y), nil
	}
	return Value{}, &BadOperatorError{Op: op}
}

func quantityOp(op string, a, b Value, prec uint) (Value, error) {
	if a.kind == KindQuantity && b.kind == KindQuantity {
		qa, qb := a.q, b.q
		switch op {
		case "+":
			q, err := qa.Add(qb)
			if err != nil {
				return Value{}, err
			}
			return QuantityValue(q), nil
		case "-":
			q, err := qa.Sub(qb)
			if err != nil {
				return Value{}, err
			}
			return QuantityValue(q), nil
		case "*":
			return QuantityValue(qa.Mul(qb)), nil
		case "/":
			if qb.Mag == 0 {
				return Value{}, &DivisionByZeroError{Op: "/"}
			}
			return QuantityValue(qa.Div(qb)), nil
		}
		return Value{}, &BadOperatorError{Op: op}
	}
	if a.kind == KindQuantity {
		q := a.q
		switch op {
		case "*":
			f, ok := b.Float64()
			if !ok {
				return Value{}, &BadOperatorError{Op: op}
			}
			return QuantityValue(q.Scale(f)), nil
		case "/":
			f, ok := b.Float64()
			if !ok {
				return Value{}, &BadOperatorError{Op: op}
			}
			if f == 0 {
				return Value{}, &DivisionByZeroError{Op: "/"}
			}
			return QuantityValue(q.Scale(1 / f)), nil
		case "^":
			if n, ok := b.Int(); ok {
				return QuantityValue(q.Pow(int(n))), nil
			}
			return Value{}, &unit.IncompatibleUnitsError{Left: q.Unit.String(), Right: "1", Op: "^"}
		case "+", "-":
			if q.Dimensionless() {
				return binaryOp(op, FloatValue(q.AsNumber()), b, prec)
			}
			return Value{}, &unit.IncompatibleUnitsError{Left: q.Unit.String(), Right: "1", Op: op}
		}
		return Value{}, &BadOperatorError{Op: op}
	}
	// a is a plain number, b is a quantity.
	q := b.q
	switch op {
	case "*":
		f, ok := a.Float64()
		if !ok {
			return Value{}, &BadOperatorError{Op: op}
		}
		return QuantityValue(q.Scale(f)), nil
	case "/":
		f, ok := a.Float64()
		if !ok {
			return Value{}, &BadOperatorError{Op: op}
		}
		if q.Mag == 0 {
			return Value{}, &DivisionByZeroError{Op: "/"}
		}
		return QuantityValue(q.Recip().Scale(f)), nil
	case "+", "-":
		if q.Dimensionless() {
			return binaryOp(op, a, FloatValue(q.AsNumber()), prec)
		}
		return Value{}, &unit.IncompatibleUnitsError{Left: "1", Right: q.Unit.String(), Op: op}
	}
	return Value{}, &BadOperatorError{Op: op}
}

// compare dispatches a comparison operator and yields a Bool.
func compare(op string, a, b Value) (Value, error) {
	if a.kind == KindQuantity || b.kind == KindQuantity {
		return compareQuantity(op, a, b)
	}
	if a.kind == KindComplex || b.kind == KindComplex {
		x, ok := a.asComplex()
		y, ok2 := b.asComplex()
		if !ok || !ok2 {
			return Value{}, &BadOperatorError{Op: op}
		}
		switch op {
		case "==":
			return BoolValue(x == y), nil
		case "!=":
			return BoolValue(x != y), nil
		}
		return Value{}, &BadOperatorError{Op: op}
	}
	var c int
	if x, ok := a.asRat(); ok {
		if y, ok := b.asRat(); ok {
			c = x.Cmp(y)
			return cmpResult(op, c)
		}
	}
	x, ok := a.Float64()
	y, ok2 := b.Float64()
	if !ok || !ok2 {
		return Value{}, &BadOperatorError{Op: op}
	}
	switch {
	case x < y:
		c = -1
	case x > y:
		c = 1
	}
	return cmpResult(op, c)
}

func compareQuantity(op string, a, b Value) (Value, error) {
	if a.kind == KindQuantity && b.kind == KindQuantity {
		c, err := a.q.Cmp(b.q)
		if err != nil {
			return Value{}, err
		}
		return cmpResult(op, c)
	}
	// Mixed quantity and number: only a dimensionless quantity compares.
	q, num := a, b
	if b.kind == KindQuantity {
		q, num = b, a
	}
	if !q.q.Dimensionless() {
		return Value{}, &unit.IncompatibleUnitsError{Left: q.q.Unit.String(), Right: "1", Op: op}
	}
	qa := FloatValue(q.q.AsNumber())
	if a.kind == KindQuantity {
		return compare(op, qa, num)
	}
	return compare(op, num, qa)
}

func cmpResult(op string, c int) (Value, error) {
	switch op {
	case "==":
		return BoolValue(c == 0), nil
	case "!=":
		return BoolValue(c != 0), nil
	case "<":
		return BoolValue(c < 0), nil
	case "<=":
		return BoolValue(c <= 0), nil
	case ">":
		return BoolValue(c > 0), nil
	case ">=":
		return BoolValue(c >= 0), nil
	}
	return Value{}, &BadOperatorError{Op: op}
}
