package beecalc

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/blakegarretson/beecalc/unit"
)

// unitFunc is the unit-constructor pseudo-function the preprocessor emits.
// It is dispatched before the function table and is deliberately spelled
// unlike the all-lowercase ordinary functions.
const unitFunc = "Unit"

// constants is the fixed table of named scalars. Assignment to one of
// these names shadows it for the rest of the session.
var constants = map[string]Value{
	"e":   FloatValue(math.E),
	"pi":  FloatValue(math.Pi),
	"π":   FloatValue(math.Pi),
	"tau": FloatValue(2 * math.Pi),
	"τ":   FloatValue(2 * math.Pi),
	"phi": FloatValue(math.Phi),
	"φ":   FloatValue(math.Phi),
}

// angleFuncs take an angle: a quantity argument is converted to radians
// before the call.
var angleFuncs = map[string]bool{
	"sin": true,
	"cos": true,
	"tan": true,
}

// Function is an entry in the function table. Arity is checked by the
// entry itself.
type Function func(args []Value) (Value, error)

// ArityError is an error indicating a function called with a number of
// arguments it does not accept.
type ArityError struct {
	// Func is the function name.
	Func string
	// N is the number of arguments given.
	N int
}

func (err *ArityError) Error() string {
	return "cannot call " + err.Func + " with " + strconv.Itoa(err.N) + " arguments"
}

// DomainError is an error indicating a function argument outside the
// function's domain.
type DomainError struct {
	// X is the offending argument, formatted.
	X string
	// Func is the function name.
	Func string
}

func (err *DomainError) Error() string {
	return err.X + " outside domain of " + err.Func
}

// argFloat converts one argument to a plain float64. Dimensionless
// quantities convert; dimensioned ones do not.
func argFloat(name string, args []Value, i int) (float64, error) {
	v := args[i]
	if q, ok := v.Quantity(); ok && !q.Dimensionless() {
		return 0, &unit.IncompatibleUnitsError{Left: q.Unit.String(), Right: "1", Op: name}
	}
	f, ok := v.Float64()
	if !ok {
		return 0, &DomainError{X: v.String(), Func: name}
	}
	return f, nil
}

func argInt(name string, args []Value, i int) (int64, error) {
	n, ok := args[i].Int()
	if !ok {
		return 0, &DomainError{X: args[i].String(), Func: name}
	}
	return n, nil
}

// numResult collapses an integral float to Int, matching how rounding
// functions are expected to print.
func numResult(f float64) Value {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 && !math.IsInf(f, 0) {
		return IntValue(int64(f))
	}
	return FloatValue(f)
}

func unary(name string, f func(float64) float64) Function {
	return func(args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, &ArityError{Func: name, N: len(args)}
		}
		x, err := argFloat(name, args, 0)
		if err != nil {
			return Value{}, err
		}
		r := f(x)
		if math.IsNaN(r) && !math.IsNaN(x) {
			return Value{}, &DomainError{X: args[0].String(), Func: name}
		}
		return FloatValue(r), nil
	}
}

func binary(name string, f func(x, y float64) float64) Function {
	return func(args []Value) (Value, error) {
		if len(args) != 2 {
			return Value{}, &ArityError{Func: name, N: len(args)}
		}
		x, err := argFloat(name, args, 0)
		if err != nil {
			return Value{}, err
		}
		y, err := argFloat(name, args, 1)
		if err != nil {
			return Value{}, err
		}
		r := f(x, y)
		if math.IsNaN(r) && !math.IsNaN(x) && !math.IsNaN(y) {
			return Value{}, &DomainError{X: args[0].String(), Func: name}
		}
		return FloatValue(r), nil
	}
}

func rounding(name string, f func(float64) float64) Function {
	return func(args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, &ArityError{Func: name, N: len(args)}
		}
		x, err := argFloat(name, args, 0)
		if err != nil {
			return Value{}, err
		}
		return numResult(f(x)), nil
	}
}

func intBinary(name string, f func(x, y int64) (int64, error)) Function {
	return func(args []Value) (Value, error) {
		if len(args) != 2 {
			return Value{}, &ArityError{Func: name, N: len(args)}
		}
		x, err := argInt(name, args, 0)
		if err != nil {
			return Value{}, err
		}
		y, err := argInt(name, args, 1)
		if err != nil {
			return Value{}, err
		}
		r, err := f(x, y)
		if err != nil {
			return Value{}, err
		}
		return IntValue(r), nil
	}
}

func gcd2(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func factorial(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, &ArityError{Func: "factorial", N: len(args)}
	}
	n, ok := args[0].Int()
	if !ok || n < 0 {
		return Value{}, &DomainError{X: args[0].String(), Func: "factorial"}
	}
	if n <= 20 {
		r := int64(1)
		for i := int64(2); i <= n; i++ {
			r *= i
		}
		return IntValue(r), nil
	}
	return FloatValue(math.Gamma(float64(n) + 1)), nil
}

// functions is the fixed function table. Everything delegates to the math
// library; combinatorics go through gonum.
var functions = map[string]Function{
	"acos":  unary("acos", math.Acos),
	"acosh": unary("acosh", math.Acosh),
	"asin":  unary("asin", math.Asin),
	"asinh": unary("asinh", math.Asinh),
	"atan":  unary("atan", math.Atan),
	"atan2": binary("atan2", math.Atan2),
	"atanh": unary("atanh", math.Atanh),
	"cbrt":  unary("cbrt", math.Cbrt),
	"ceil":  rounding("ceil", math.Ceil),
	"cos":   unary("cos", math.Cos),
	"cosh":  unary("cosh", math.Cosh),
	"erf":   unary("erf", math.Erf),
	"erfc":  unary("erfc", math.Erfc),
	"exp":   unary("exp", math.Exp),
	"expm1": unary("expm1", math.Expm1),
	"fabs":  unary("fabs", math.Abs),
	"floor": rounding("floor", math.Floor),
	"fmod":  binary("fmod", math.Mod),
	"gamma": unary("gamma", math.Gamma),
	"hypot": binary("hypot", math.Hypot),
	"ldexp": func(args []Value) (Value, error) {
		if len(args) != 2 {
			return Value{}, &ArityError{Func: "ldexp", N: len(args)}
		}
		x, err := argFloat("ldexp", args, 0)
		if err != nil {
			return Value{}, err
		}
		e, err := argInt("ldexp", args, 1)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(math.Ldexp(x, int(e))), nil
	},
	"lgamma": unary("lgamma", func(x float64) float64 {
		r, _ := math.Lgamma(x)
		return r
	}),
	"log10":     unary("log10", math.Log10),
	"log1p":     unary("log1p", math.Log1p),
	"log2":      unary("log2", math.Log2),
	"remainder": binary("remainder", math.Remainder),
	"sin":       unary("sin", math.Sin),
	"sinh":      unary("sinh", math.Sinh),
	"sqrt":      unary("sqrt", math.Sqrt),
	"tan":       unary("tan", math.Tan),
	"tanh":      unary("tanh", math.Tanh),
	"trunc":     rounding("trunc", math.Trunc),
	"degrees":   unary("degrees", func(x float64) float64 { return x * 180 / math.Pi }),
	"radians":   unary("radians", func(x float64) float64 { return x * math.Pi / 180 }),
	"ulp": unary("ulp", func(x float64) float64 {
		return math.Nextafter(math.Abs(x), math.Inf(1)) - math.Abs(x)
	}),

	"factorial": factorial,
	"comb": intBinary("comb", func(n, k int64) (int64, error) {
		if n < 0 || k < 0 || k > n {
			return 0, &DomainError{X: strconv.FormatInt(k, 10), Func: "comb"}
		}
		return int64(combin.Binomial(int(n), int(k))), nil
	}),
	"perm": intBinary("perm", func(n, k int64) (int64, error) {
		if n < 0 || k < 0 || k > n {
			return 0, &DomainError{X: strconv.FormatInt(k, 10), Func: "perm"}
		}
		return int64(combin.NumPermutations(int(n), int(k))), nil
	}),
	"gcd": intBinary("gcd", func(a, b int64) (int64, error) { return gcd2(a, b), nil }),
	"lcm": intBinary("lcm", func(a, b int64) (int64, error) {
		if a == 0 || b == 0 {
			return 0, nil
		}
		g := gcd2(a, b)
		r := a / g * b
		if r < 0 {
			r = -r
		}
		return r, nil
	}),
	"mod": func(args []Value) (Value, error) {
		if len(args) != 2 {
			return Value{}, &ArityError{Func: "mod", N: len(args)}
		}
		return modOp(args[0], args[1])
	},

	"log": func(args []Value) (Value, error) {
		switch len(args) {
		case 1:
			return unary("log", math.Log)(args)
		case 2:
			x, err := argFloat("log", args, 0)
			if err != nil {
				return Value{}, err
			}
			b, err := argFloat("log", args, 1)
			if err != nil {
				return Value{}, err
			}
			return FloatValue(math.Log(x) / math.Log(b)), nil
		}
		return Value{}, &ArityError{Func: "log", N: len(args)}
	},

	"frexp": func(args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, &ArityError{Func: "frexp", N: len(args)}
		}
		x, err := argFloat("frexp", args, 0)
		if err != nil {
			return Value{}, err
		}
		frac, e := math.Frexp(x)
		return SeqValue(FloatValue(frac), IntValue(int64(e))), nil
	},
	"modf": func(args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, &ArityError{Func: "modf", N: len(args)}
		}
		x, err := argFloat("modf", args, 0)
		if err != nil {
			return Value{}, err
		}
		ip, frac := math.Modf(x)
		return SeqValue(FloatValue(frac), FloatValue(ip)), nil
	},
	"divmod": func(args []Value) (Value, error) {
		if len(args) != 2 {
			return Value{}, &ArityError{Func: "divmod", N: len(args)}
		}
		x, err := argFloat("divmod", args, 0)
		if err != nil {
			return Value{}, err
		}
		y, err := argFloat("divmod", args, 1)
		if err != nil {
			return Value{}, err
		}
		if y == 0 {
			return Value{}, &DivisionByZeroError{Op: "divmod"}
		}
		q := math.Floor(x / y)
		return SeqValue(numResult(q), numResult(x-q*y)), nil
	},

	"abs": func(args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, &ArityError{Func: "abs", N: len(args)}
		}
		v := args[0]
		if q, ok := v.Quantity(); ok {
			return QuantityValue(q.Scale(math.Copysign(1, q.Mag))), nil
		}
		if c, ok := v.asComplex(); ok && v.Kind() == KindComplex {
			return FloatValue(math.Hypot(real(c), imag(c))), nil
		}
		f, err := argFloat("abs", args, 0)
		if err != nil {
			return Value{}, err
		}
		return numResult(math.Abs(f)), nil
	},
	"complex": func(args []Value) (Value, error) {
		if len(args) != 2 {
			return Value{}, &ArityError{Func: "complex", N: len(args)}
		}
		re, err := argFloat("complex", args, 0)
		if err != nil {
			return Value{}, err
		}
		im, err := argFloat("complex", args, 1)
		if err != nil {
			return Value{}, err
		}
		return ComplexValue(complex(re, im)), nil
	},
	"float": func(args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, &ArityError{Func: "float", N: len(args)}
		}
		f, err := argFloat("float", args, 0)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(f), nil
	},
	"int": func(args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, &ArityError{Func: "int", N: len(args)}
		}
		f, err := argFloat("int", args, 0)
		if err != nil {
			return Value{}, err
		}
		return numResult(math.Trunc(f)), nil
	},
	"max": extremum("max", ">"),
	"min": extremum("min", "<"),
	"pow": func(args []Value) (Value, error) {
		if len(args) != 2 {
			return Value{}, &ArityError{Func: "pow", N: len(args)}
		}
		return binaryOp("^", args[0], args[1], defaultPrec)
	},
	"round": func(args []Value) (Value, error) {
		switch len(args) {
		case 1:
			x, err := argFloat("round", args, 0)
			if err != nil {
				return Value{}, err
			}
			return numResult(math.RoundToEven(x)), nil
		case 2:
			x, err := argFloat("round", args, 0)
			if err != nil {
				return Value{}, err
			}
			n, err := argInt("round", args, 1)
			if err != nil {
				return Value{}, err
			}
			p := math.Pow(10, float64(n))
			return FloatValue(math.RoundToEven(x*p) / p), nil
		}
		return Value{}, &ArityError{Func: "round", N: len(args)}
	},
}

func extremum(name, op string) Function {
	return func(args []Value) (Value, error) {
		if len(args) == 0 {
			return Value{}, &ArityError{Func: name, N: 0}
		}
		best := args[0]
		for _, v := range args[1:] {
			r, err := compare(op, v, best)
			if err != nil {
				return Value{}, err
			}
			if r.b {
				best = v
			}
		}
		return best, nil
	}
}
