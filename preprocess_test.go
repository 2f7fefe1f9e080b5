package beecalc

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blakegarretson/beecalc/unit"
)

func TestPreprocess(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"blank", "   ", ""},
		{"comment", "# a note", ""},
		{"trailing comment", "x = 5 # five", "x = 5"},
		{"spaces collapse", "2   +    3", "2 + 3"},
		{"double star", "2**3", "pow(2,3)"},
		{"power", "2 ^ 10", "pow(2,10)"},
		{"power binds tighter than product", "3*2^2", "3*pow(2,2)"},
		{"power right associative", "2^3^2", "pow(2,pow(3,2))"},
		{"power negative base outside", "-2^2", "-pow(2,2)"},
		{"power parenthesized base", "(1+2)^2", "pow((1+2),2)"},
		{"power call base", "sin(2)^2", "pow(sin(2),2)"},
		{"power negative exponent", "2^-2", "pow(2,-2)"},
		{"floor division", "7//2", "7&^2"},
		{"implied unit", "2mm", `Unit(2,"mm")`},
		{"ohm unit", "2Ω", `Unit(2,"Ω")`},
		{"spaced unit", "90 deg", `Unit(90,"deg")`},
		{"superscript", "2m²", `Unit(2,"m2")`},
		{"compound denominator", "3 kg/m3", `Unit(3,"kg")/m3`},
		{"unit after paren", "(1+2) m", `(1+2)*m`},
		{"percent of", "50 % of 8", "((50)/100)*8"},
		{"percent of glued", "50% of 8", "((50)/100)*8"},
		{"percent unit", "20%", `Unit(20,"pct")`},
		{"modulo", "8 % 3", "8 % 3"},
		{"factorial", "5!", "factorial(5)"},
		{"factorial inline", "5! + 1", "factorial(5) + 1"},
		{"not equal untouched", "5 != 3", "5 != 3"},
		{"imaginary", "3+4j", "3+4i"},
		{"money", "$4.20 + $1", `Unit(4.20,"USD") + Unit(1,"USD")`},
		{"conversion", "2 m to mm", `Unit(2,"m") || Unit("mm")`},
		{"conversion in", "(2 m) in mm", `(Unit(2,"m")) || Unit("mm")`},
		{"inches then conversion", "2*5 in in mm", `2*Unit(5,"in") || Unit("mm")`},
		{"sum converts", "2 m + 5 in to mm", `Unit(2,"m") + Unit(5,"in") || Unit("mm")`},
		{"tag number", "80 to kg", `80 || Unit("kg")`},
		{"compound target", "5 m/s to in/hr", `Unit(5,"m")/s || Unit("in/hr")`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewSession()
			require.Equal(t, c.want, s.Preprocess(c.in))
		})
	}
}

// Running the pipeline on its own output must change nothing, or edited
// lines would drift every time a notebook is replayed.
func TestPreprocessIdempotent(t *testing.T) {
	inputs := []string{
		"2mm * 3",
		"50 % of 8",
		"20% + 1",
		"5! + 2!",
		"sin(90 deg)",
		"2*5 in in mm",
		"$4.20 + $1",
		"3+4j",
		"a = b = 2*3; a+b",
		"(1+2) m to ft",
		"2^3^2",
		"7//2 + 1",
		"(1+2) m^2",
	}
	s := NewSession()
	for _, in := range inputs {
		once := s.Preprocess(in)
		require.Equal(t, once, s.Preprocess(once), "input %q", in)
	}
}

func TestPreprocessSubstitution(t *testing.T) {
	s := NewSession()
	s.Set("a", IntValue(8))
	s.Set("half", RatValue(big.NewRat(1, 2)))
	q, err := unit.New(2, "m")
	require.NoError(t, err)
	s.Set("d", QuantityValue(q))
	s.Set("ans", IntValue(4))

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"scalar", "a + 1", "(8) + 1"},
		{"juxtaposition", "a(1+2)", "(8)(1+2)"},
		{"rational", "half * 4", "(1/2) * 4"},
		{"assignment target kept", "a = a + 1", "a = (8) + 1"},
		{"quantity not substituted", "d * 2", "d * 2"},
		{"previous result", "@ + 1", "(4) + 1"},
		{"shadowable constant", "pi/2", "(3.141592653589793)/2"},
		{"unit position kept", "2 a", "2 a"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, s.Preprocess(c.in))
		})
	}
}

func FuzzPreprocessIdempotent(f *testing.F) {
	f.Add("2mm * 3")
	f.Add("50 % of 8")
	f.Add("x = 5! # note")
	f.Add("(2 m + 5 in) to mm")
	f.Add("$1 + 20%")
	f.Fuzz(func(t *testing.T, in string) {
		s := NewSession()
		once := s.Preprocess(in)
		if again := s.Preprocess(once); again != once {
			t.Errorf("not idempotent: %q -> %q -> %q", in, once, again)
		}
	})
}
