package beecalc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blakegarretson/beecalc/unit"
)

// evalNotebook runs lines in order and returns the last value, failing
// the test on any error.
func evalNotebook(t *testing.T, lines ...string) (*Session, Value) {
	t.Helper()
	s := NewSession()
	var v Value
	for _, ln := range lines {
		var err error
		v, err = s.EvalLine(ln)
		require.NoError(t, err, "line %q", ln)
	}
	return s, v
}

func TestEvalArithmetic(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"add", "2+3", "5"},
		{"precedence", "2+3*4", "14"},
		{"power", "2^10", "1024"},
		{"power alias", "2**10", "1024"},
		{"negative power", "2^-2", "0.25"},
		{"float power", "9^0.5", "3"},
		{"power binds tighter than product", "3*2^2", "12"},
		{"power right associative", "2^3^2", "512"},
		{"power negative base", "-2^2", "-4"},
		{"power with sum", "2+3^2", "11"},
		{"floor division", "7//2", "3"},
		{"floor division rounds down", "-7//2", "-4"},
		{"exact division", "1/3 + 1/6", "0.5"},
		{"exact chain", "(1/3)*3", "1"},
		{"modulo", "8 % 3", "2"},
		{"modulo divisor sign", "-7 % 3", "2"},
		{"percent of", "50 % of 8", "4"},
		{"percent value", "20% + 1", "1.2"},
		{"factorial", "5!", "120"},
		{"implied multiplication", "5(1+2)", "15"},
		{"shift", "1 << 10", "1024"},
		{"bitwise and", "12 & 10", "8"},
		{"comparison", "2 < 3", "true"},
		{"equality", "2+2 == 4", "true"},
		{"comparison chain", "3 > 2 > 1", "true"},
		{"comparison chain keeps first comparator", "1 < 3 < 2", "true"},
		{"parenthesized comparison", "(3 > 2) > 1", "false"},
		{"complex", "(3+4j)*(3-4j)", "(25+0i)"},
		{"sequence", "divmod(7,2)", "(3, 1)"},
		{"multiple statements", "a = 2; a*3", "(2, 6)"},
		{"trailing comment", "1+3 # total", "4"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, v := evalNotebook(t, c.in)
			require.Equal(t, c.want, v.String())
		})
	}
}

func TestEvalUnits(t *testing.T) {
	t.Run("convert product", func(t *testing.T) {
		_, v := evalNotebook(t, "2*5 in in mm")
		q, ok := v.Quantity()
		require.True(t, ok)
		require.InDelta(t, 254, q.Mag, 1e-9)
		require.Equal(t, "mm", q.Unit.String())
	})
	t.Run("convert sum", func(t *testing.T) {
		_, v := evalNotebook(t, "2 m + 5 in to mm")
		q, ok := v.Quantity()
		require.True(t, ok)
		require.InDelta(t, 2127, q.Mag, 1e-9)
	})
	t.Run("tag number", func(t *testing.T) {
		_, v := evalNotebook(t, "80 to kg")
		q, ok := v.Quantity()
		require.True(t, ok)
		require.InDelta(t, 80, q.Mag, 1e-12)
		require.Equal(t, "kg", q.Unit.String())
	})
	t.Run("temperature offset", func(t *testing.T) {
		_, v := evalNotebook(t, "32 degF to degC")
		q, ok := v.Quantity()
		require.True(t, ok)
		require.InDelta(t, 0, q.Mag, 1e-9)
	})
	t.Run("bare unit name", func(t *testing.T) {
		_, v := evalNotebook(t, "(1+2) m")
		q, ok := v.Quantity()
		require.True(t, ok)
		require.InDelta(t, 3, q.Mag, 1e-12)
	})
	t.Run("compound division", func(t *testing.T) {
		_, v := evalNotebook(t, "10 m / 2 s")
		q, ok := v.Quantity()
		require.True(t, ok)
		require.InDelta(t, 5, q.Mag, 1e-12)
		require.Equal(t, "m/s", q.Unit.String())
	})
	t.Run("parenthesized conversion", func(t *testing.T) {
		_, v := evalNotebook(t, "(6in in m)/kg")
		q, ok := v.Quantity()
		require.True(t, ok)
		require.InDelta(t, 0.1524, q.Mag, 1e-9)
		require.Equal(t, "m/kg", q.Unit.String())
	})
	t.Run("resistance", func(t *testing.T) {
		_, v := evalNotebook(t, "6V / 2A to ohm")
		q, ok := v.Quantity()
		require.True(t, ok)
		require.InDelta(t, 3, q.Mag, 1e-12)
		require.Equal(t, "ohm", q.Unit.String())
	})
	t.Run("ohm symbol", func(t *testing.T) {
		_, v := evalNotebook(t, "2Ω * 3")
		q, ok := v.Quantity()
		require.True(t, ok)
		require.InDelta(t, 6, q.Mag, 1e-12)
		c, err := q.ConvertText("ohm")
		require.NoError(t, err)
		require.InDelta(t, 6, c.Mag, 1e-12)
	})
	t.Run("cancellation", func(t *testing.T) {
		_, v := evalNotebook(t, "6 m / 2 m")
		f, ok := v.Float64()
		require.True(t, ok)
		require.InDelta(t, 3, f, 1e-12)
	})
}

func TestEvalAngles(t *testing.T) {
	t.Run("degrees", func(t *testing.T) {
		_, v := evalNotebook(t, "sin(90 deg)")
		f, ok := v.Float64()
		require.True(t, ok)
		require.InDelta(t, 1, f, 1e-12)
	})
	t.Run("radians", func(t *testing.T) {
		_, v := evalNotebook(t, "sin(pi rad/2)")
		f, ok := v.Float64()
		require.True(t, ok)
		require.InDelta(t, 1, f, 1e-12)
	})
	t.Run("plain argument is radians", func(t *testing.T) {
		_, v := evalNotebook(t, "sin(pi/2)")
		f, ok := v.Float64()
		require.True(t, ok)
		require.InDelta(t, 1, f, 1e-12)
	})
}

func TestEvalVariables(t *testing.T) {
	t.Run("assignment", func(t *testing.T) {
		s, v := evalNotebook(t, "a = 8")
		require.Equal(t, "8", v.String())
		got, ok := s.Lookup("a")
		require.True(t, ok)
		require.Equal(t, "8", got.String())
	})
	t.Run("chained assignment", func(t *testing.T) {
		_, v := evalNotebook(t, "a = b = 2*3", "a+b")
		require.Equal(t, "12", v.String())
	})
	t.Run("juxtaposition with binding", func(t *testing.T) {
		_, v := evalNotebook(t, "a = 8", "a(1+2)")
		require.Equal(t, "24", v.String())
	})
	t.Run("previous result", func(t *testing.T) {
		_, v := evalNotebook(t, "2+3", "@*2")
		require.Equal(t, "10", v.String())
	})
	t.Run("ans name", func(t *testing.T) {
		_, v := evalNotebook(t, "2+3", "ans*2")
		require.Equal(t, "10", v.String())
	})
	t.Run("constant shadowing", func(t *testing.T) {
		_, v := evalNotebook(t, "pi = 3", "pi*2")
		require.Equal(t, "6", v.String())
	})
	t.Run("function shadowing", func(t *testing.T) {
		_, v := evalNotebook(t, "sin = 5", "sin(2)")
		require.Equal(t, "10", v.String())
	})
	t.Run("use before assignment", func(t *testing.T) {
		s := NewSession()
		_, err := s.EvalLine("a*3")
		var ui *UnknownIdentifierError
		require.ErrorAs(t, err, &ui)
		_, err = s.EvalLine("a=2")
		require.NoError(t, err)
		v, err := s.EvalLine("a*3")
		require.NoError(t, err)
		require.Equal(t, "6", v.String())
	})
	t.Run("quantity variable", func(t *testing.T) {
		_, v := evalNotebook(t, "d = 2 m", "d * 3")
		q, ok := v.Quantity()
		require.True(t, ok)
		require.InDelta(t, 6, q.Mag, 1e-12)
	})
}

func TestEvalErrors(t *testing.T) {
	t.Run("division by zero", func(t *testing.T) {
		s := NewSession()
		_, err := s.EvalLine("1/0")
		var dz *DivisionByZeroError
		require.ErrorAs(t, err, &dz)
	})
	t.Run("floor division by zero", func(t *testing.T) {
		s := NewSession()
		_, err := s.EvalLine("7//0")
		var dz *DivisionByZeroError
		require.ErrorAs(t, err, &dz)
	})
	t.Run("unknown identifier", func(t *testing.T) {
		s := NewSession()
		_, err := s.EvalLine("qq + 1")
		var ui *UnknownIdentifierError
		require.ErrorAs(t, err, &ui)
		require.Equal(t, "qq", ui.Name)
	})
	t.Run("unknown function", func(t *testing.T) {
		s := NewSession()
		_, err := s.EvalLine("foo(2)")
		var uf *UnknownFunctionError
		require.ErrorAs(t, err, &uf)
		require.Equal(t, "foo", uf.Name)
	})
	t.Run("unknown unit", func(t *testing.T) {
		s := NewSession()
		_, err := s.EvalLine("5 m to furlong")
		var uu *unit.UnknownUnitError
		require.ErrorAs(t, err, &uu)
	})
	t.Run("incompatible dimensions", func(t *testing.T) {
		s := NewSession()
		_, err := s.EvalLine("2 m + 5 kg")
		var iu *unit.IncompatibleUnitsError
		require.ErrorAs(t, err, &iu)
	})
	t.Run("incompatible conversion", func(t *testing.T) {
		s := NewSession()
		_, err := s.EvalLine("5 kg to m")
		var iu *unit.IncompatibleUnitsError
		require.ErrorAs(t, err, &iu)
	})
	t.Run("syntax", func(t *testing.T) {
		s := NewSession()
		_, err := s.EvalLine("2 + (3")
		var se *SyntaxError
		require.ErrorAs(t, err, &se)
	})
	t.Run("bad assignment target", func(t *testing.T) {
		s := NewSession()
		_, err := s.EvalLine("2+2 = 4")
		var se *SyntaxError
		require.ErrorAs(t, err, &se)
	})
	t.Run("angle with wrong dimension", func(t *testing.T) {
		s := NewSession()
		_, err := s.EvalLine("sin(2 m)")
		var iu *unit.IncompatibleUnitsError
		require.ErrorAs(t, err, &iu)
	})
}

func TestEvalAtomicLines(t *testing.T) {
	s := NewSession()
	_, err := s.EvalLine("x = 5")
	require.NoError(t, err)
	_, err = s.EvalLine("x = 1/0")
	require.Error(t, err)
	v, ok := s.Lookup("x")
	require.True(t, ok)
	require.Equal(t, "5", v.String())

	// A failed statement rolls back earlier statements on the same line.
	_, err = s.EvalLine("x = 7; y = qq")
	require.Error(t, err)
	v, _ = s.Lookup("x")
	require.Equal(t, "5", v.String())
	_, ok = s.Lookup("y")
	require.False(t, ok)
}

func TestEvalBlankAndComment(t *testing.T) {
	s := NewSession()
	_, err := s.EvalLine("2+3")
	require.NoError(t, err)
	for _, ln := range []string{"", "   ", "# just a note"} {
		v, err := s.EvalLine(ln)
		require.NoError(t, err)
		require.True(t, v.IsEmpty())
	}
	// ans still holds the last real result.
	v, err := s.EvalLine("ans")
	require.NoError(t, err)
	require.Equal(t, "5", v.String())
}
