// Package unit implements the physical-quantity engine behind beecalc:
// named units with conversion factors to SI base units, compound units
// built from numerator and denominator parts, and dimension-checked
// arithmetic between quantities.
package unit

import (
	"math"
	"strconv"
	"strings"
)

// Dimension indexes the exponent vector of a unit.
type Dimension int

const (
	Length Dimension = iota
	Mass
	Time
	Current
	Temperature
	Amount
	Angle
	Currency
	Data
	numDims
)

// Dims is the exponent of each base dimension in a unit. The zero value
// is dimensionless.
type Dims [numDims]int8

// IsZero reports whether every dimension exponent is zero.
func (d Dims) IsZero() bool {
	return d == Dims{}
}

func (d Dims) add(o Dims) Dims {
	for i := range d {
		d[i] += o[i]
	}
	return d
}

func (d Dims) sub(o Dims) Dims {
	for i := range d {
		d[i] -= o[i]
	}
	return d
}

func (d Dims) scale(n int) Dims {
	for i := range d {
		d[i] *= int8(n)
	}
	return d
}

// simple is one entry in the unit table.
type simple struct {
	name   string
	dims   Dims
	factor float64 // multiplier to the SI base of dims
	offset float64 // additive part of the base conversion, temperatures only
}

// part is one named unit raised to an integer power inside a compound unit.
type part struct {
	u   *simple
	exp int
}

// Unit is a compound unit: a product of named parts divided by another
// product of named parts. The zero value is the empty (unitless) unit.
type Unit struct {
	num []part
	den []part
}

// Empty reports whether the unit has no parts at all.
func (u Unit) Empty() bool {
	return len(u.num) == 0 && len(u.den) == 0
}

// Dims returns the unit's combined dimension vector.
func (u Unit) Dims() Dims {
	var d Dims
	for _, p := range u.num {
		d = d.add(p.u.dims.scale(p.exp))
	}
	for _, p := range u.den {
		d = d.sub(p.u.dims.scale(p.exp))
	}
	return d
}

// Factor returns the multiplier that takes a magnitude in this unit to the
// SI base of its dimension vector.
func (u Unit) Factor() float64 {
	f := 1.0
	for _, p := range u.num {
		f *= math.Pow(p.u.factor, float64(p.exp))
	}
	for _, p := range u.den {
		f /= math.Pow(p.u.factor, float64(p.exp))
	}
	return f
}

// offsetPart returns the simple unit if u is a single first-power unit with
// an additive offset (a temperature), or nil.
func (u Unit) offsetPart() *simple {
	if len(u.num) == 1 && len(u.den) == 0 && u.num[0].exp == 1 && u.num[0].u.offset != 0 {
		return u.num[0].u
	}
	return nil
}

func fmtPart(p part) string {
	if p.exp == 1 {
		return p.u.name
	}
	return p.u.name + strconv.Itoa(p.exp)
}

// String formats the unit as it is displayed after a quantity, e.g. "mm",
// "in2", "m/s2", "kg/(m*s)".
func (u Unit) String() string {
	if u.Empty() {
		return ""
	}
	var b strings.Builder
	if len(u.num) == 0 {
		b.WriteByte('1')
	}
	for i, p := range u.num {
		if i > 0 {
			b.WriteByte('*')
		}
		b.WriteString(fmtPart(p))
	}
	if len(u.den) == 0 {
		return b.String()
	}
	b.WriteByte('/')
	if len(u.den) > 1 {
		b.WriteByte('(')
	}
	for i, p := range u.den {
		if i > 0 {
			b.WriteByte('*')
		}
		b.WriteString(fmtPart(p))
	}
	if len(u.den) > 1 {
		b.WriteByte(')')
	}
	return b.String()
}

// normalize merges repeated names and cancels parts shared by the
// numerator and denominator, so m*g/(s*g) reduces to m/s.
func (u Unit) normalize() Unit {
	var order []*simple
	exps := make(map[*simple]int)
	walk := func(parts []part, sign int) {
		for _, p := range parts {
			if _, ok := exps[p.u]; !ok {
				order = append(order, p.u)
			}
			exps[p.u] += sign * p.exp
		}
	}
	walk(u.num, 1)
	walk(u.den, -1)
	var n Unit
	for _, s := range order {
		e := exps[s]
		switch {
		case e > 0:
			n.num = append(n.num, part{s, e})
		case e < 0:
			n.den = append(n.den, part{s, -e})
		}
	}
	return n
}

func (u Unit) mul(o Unit) Unit {
	n := Unit{
		num: append(append([]part{}, u.num...), o.num...),
		den: append(append([]part{}, u.den...), o.den...),
	}
	return n.normalize()
}

func (u Unit) div(o Unit) Unit {
	n := Unit{
		num: append(append([]part{}, u.num...), o.den...),
		den: append(append([]part{}, u.den...), o.num...),
	}
	return n.normalize()
}

func (u Unit) pow(n int) Unit {
	var r Unit
	for _, p := range u.num {
		r.num = append(r.num, part{p.u, p.exp * n})
	}
	for _, p := range u.den {
		r.den = append(r.den, part{p.u, p.exp * n})
	}
	if n < 0 {
		r.num, r.den = r.den, r.num
		for i := range r.num {
			r.num[i].exp = -r.num[i].exp
		}
		for i := range r.den {
			r.den[i].exp = -r.den[i].exp
		}
	}
	return r.normalize()
}

// Quantity is a magnitude expressed in a compound unit.
type Quantity struct {
	Mag  float64
	Unit Unit
}

// New builds a quantity of mag in the unit named by text.
func New(mag float64, text string) (Quantity, error) {
	u, err := Parse(text)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Mag: mag, Unit: u}, nil
}

// One builds a unit-only quantity: one of the unit named by text.
func One(text string) (Quantity, error) {
	return New(1, text)
}

// base returns the magnitude expressed in SI base units.
func (q Quantity) base() float64 {
	if s := q.Unit.offsetPart(); s != nil {
		return q.Mag*s.factor + s.offset
	}
	return q.Mag * q.Unit.Factor()
}

// fromBase expresses a base-unit magnitude in unit u.
func fromBase(mag float64, u Unit) Quantity {
	if s := u.offsetPart(); s != nil {
		return Quantity{Mag: (mag - s.offset) / s.factor, Unit: u}
	}
	return Quantity{Mag: mag / u.Factor(), Unit: u}
}

// Convert re-expresses q in the target unit. The dimensions must match.
func (q Quantity) Convert(target Unit) (Quantity, error) {
	if q.Unit.Dims() != target.Dims() {
		return Quantity{}, &IncompatibleUnitsError{Left: q.Unit.String(), Right: target.String(), Op: "in"}
	}
	return fromBase(q.base(), target), nil
}

// ConvertText is Convert with a unit name.
func (q Quantity) ConvertText(text string) (Quantity, error) {
	u, err := Parse(text)
	if err != nil {
		return Quantity{}, err
	}
	return q.Convert(u)
}

// Add returns q + o in q's unit. The dimensions must match.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	if q.Unit.Dims() != o.Unit.Dims() {
		return Quantity{}, &IncompatibleUnitsError{Left: q.Unit.String(), Right: o.Unit.String(), Op: "+"}
	}
	return fromBase(q.base()+o.base(), q.Unit), nil
}

// Sub returns q - o in q's unit. The dimensions must match.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	if q.Unit.Dims() != o.Unit.Dims() {
		return Quantity{}, &IncompatibleUnitsError{Left: q.Unit.String(), Right: o.Unit.String(), Op: "-"}
	}
	return fromBase(q.base()-o.base(), q.Unit), nil
}

// Mul returns the product of two quantities. Any dimensions combine.
func (q Quantity) Mul(o Quantity) Quantity {
	return Quantity{Mag: q.Mag * o.Mag, Unit: q.Unit.mul(o.Unit)}
}

// Div returns the ratio of two quantities. Any dimensions combine.
func (q Quantity) Div(o Quantity) Quantity {
	return Quantity{Mag: q.Mag / o.Mag, Unit: q.Unit.div(o.Unit)}
}

// Scale multiplies the magnitude by a plain number.
func (q Quantity) Scale(f float64) Quantity {
	return Quantity{Mag: q.Mag * f, Unit: q.Unit}
}

// Recip returns 1/q.
func (q Quantity) Recip() Quantity {
	return Quantity{Mag: 1 / q.Mag, Unit: q.Unit.pow(-1)}
}

// Pow raises q to an integer power.
func (q Quantity) Pow(n int) Quantity {
	return Quantity{Mag: math.Pow(q.Mag, float64(n)), Unit: q.Unit.pow(n)}
}

// Cmp compares two quantities of the same dimension: -1, 0 or +1.
func (q Quantity) Cmp(o Quantity) (int, error) {
	if q.Unit.Dims() != o.Unit.Dims() {
		return 0, &IncompatibleUnitsError{Left: q.Unit.String(), Right: o.Unit.String(), Op: "cmp"}
	}
	a, b := q.base(), o.base()
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	}
	return 0, nil
}

// Dimensionless reports whether every dimension cancels, as in mm/in or pct.
func (q Quantity) Dimensionless() bool {
	return q.Unit.Dims().IsZero()
}

// AsNumber returns the plain-number value of a dimensionless quantity,
// with its factor applied: 20 pct becomes 0.2.
func (q Quantity) AsNumber() float64 {
	return q.Mag * q.Unit.Factor()
}

func (q Quantity) String() string {
	s := strconv.FormatFloat(q.Mag, 'g', -1, 64)
	if u := q.Unit.String(); u != "" {
		return s + " " + u
	}
	return s
}

// UnknownUnitError reports a unit name that is not in the unit table.
type UnknownUnitError struct {
	// Name is the unrecognized unit text.
	Name string
}

func (err *UnknownUnitError) Error() string {
	return "unknown unit " + strconv.Quote(err.Name)
}

// IncompatibleUnitsError reports an operation over two units whose
// dimensions do not match.
type IncompatibleUnitsError struct {
	// Left and Right are the unit texts of the operands.
	Left, Right string
	// Op is the operation that was attempted.
	Op string
}

func (err *IncompatibleUnitsError) Error() string {
	l, r := err.Left, err.Right
	if l == "" {
		l = "1"
	}
	if r == "" {
		r = "1"
	}
	return "incompatible units " + strconv.Quote(l) + " and " + strconv.Quote(r) + " for " + err.Op
}
