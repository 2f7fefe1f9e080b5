package beecalc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotepad(t *testing.T) {
	pad := NewNotepad()
	notebook := []string{
		"# groceries",
		"apples = 3 * 0.5",
		"bread = 2.25",
		"apples + bread",
		"oops +",
		"@ * 2",
	}
	rs := pad.EvalAll(notebook)
	require.Len(t, rs, len(notebook))

	require.Equal(t, "", rs[0].Output())
	require.Equal(t, "1.5", rs[1].Output())
	require.Equal(t, "2.25", rs[2].Output())
	require.Equal(t, "3.75", rs[3].Output())
	require.Error(t, rs[4].Err)
	require.Equal(t, "?syntax", rs[4].Output())
	// The failed line leaves ans at the last good result.
	require.Equal(t, "7.5", rs[5].Output())
}

func TestNotepadReplay(t *testing.T) {
	pad := NewNotepad()
	pad.EvalAll([]string{"a = 2", "a * 10"})
	require.Equal(t, "20", pad.Results()[1].Output())

	// Editing line one means replaying from the top; the old binding must
	// not leak into the new pass.
	rs := pad.EvalAll([]string{"a = 3", "a * 10"})
	require.Equal(t, "30", rs[1].Output())
}

func TestNotepadErrorMarkers(t *testing.T) {
	pad := NewNotepad()
	cases := []struct {
		in   string
		want string
	}{
		{"2 + (3", "?syntax"},
		{"foo(2)", "?func"},
		{"qq + 1", "?name"},
		{"1/0", "?div0"},
		{"5 m to furlong", "?unit"},
		{"2 m + 5 kg", "?units"},
	}
	for _, c := range cases {
		r := pad.Append(c.in)
		require.Error(t, r.Err, "input %q", c.in)
		require.Equal(t, c.want, r.Output(), "input %q", c.in)
	}
}

func TestNotepadSeededVars(t *testing.T) {
	pad := NewNotepad(WithVars(map[string]Value{"rate": FloatValue(42.5)}))
	r := pad.Append("rate * 2")
	require.NoError(t, r.Err)
	require.Equal(t, "85", r.Output())

	pad.Reset()
	r = pad.Append("rate * 2")
	require.NoError(t, r.Err)
	require.Equal(t, "85", r.Output())
}
