package beecalc

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRatValueCollapses(t *testing.T) {
	require.Equal(t, KindInt, RatValue(big.NewRat(6, 2)).Kind())
	require.Equal(t, KindRat, RatValue(big.NewRat(1, 3)).Kind())
}

func TestBinaryOpExactness(t *testing.T) {
	// Integer division stays exact until something forces a float.
	third, err := binaryOp("/", IntValue(1), IntValue(3), defaultPrec)
	require.NoError(t, err)
	require.Equal(t, KindRat, third.Kind())
	whole, err := binaryOp("*", third, IntValue(3), defaultPrec)
	require.NoError(t, err)
	i, ok := whole.Int()
	require.True(t, ok)
	require.EqualValues(t, 1, i)
}

func TestBinaryOpPower(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want string
	}{
		{"int", IntValue(2), IntValue(10), "1024"},
		{"negative exponent", IntValue(2), IntValue(-2), "0.25"},
		{"zero exponent", IntValue(0), IntValue(0), "1"},
		{"rational exponent", IntValue(4), RatValue(big.NewRat(1, 2)), "2"},
		{"float", FloatValue(9), FloatValue(0.5), "3"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := binaryOp("^", c.a, c.b, defaultPrec)
			require.NoError(t, err)
			require.Equal(t, c.want, v.String())
		})
	}
	t.Run("negative base escapes to complex", func(t *testing.T) {
		v, err := binaryOp("^", FloatValue(-8), FloatValue(0.5), defaultPrec)
		require.NoError(t, err)
		require.Equal(t, KindComplex, v.Kind())
	})
	t.Run("zero to negative", func(t *testing.T) {
		_, err := binaryOp("^", IntValue(0), IntValue(-1), defaultPrec)
		var dz *DivisionByZeroError
		require.ErrorAs(t, err, &dz)
	})
}

func TestModOpDivisorSign(t *testing.T) {
	cases := []struct {
		a, b int64
		want int64
	}{
		{7, 3, 1},
		{-7, 3, 2},
		{7, -3, -2},
		{-7, -3, -1},
	}
	for _, c := range cases {
		v, err := modOp(IntValue(c.a), IntValue(c.b))
		require.NoError(t, err)
		i, ok := v.Int()
		require.True(t, ok)
		require.Equal(t, c.want, i, "%d %% %d", c.a, c.b)
	}
	_, err := modOp(IntValue(1), IntValue(0))
	var dz *DivisionByZeroError
	require.ErrorAs(t, err, &dz)
}

func TestFloorDiv(t *testing.T) {
	cases := []struct {
		a, b int64
		want int64
	}{
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
		{-7, -2, 3},
		{6, 3, 2},
	}
	for _, c := range cases {
		v, err := floorDiv(IntValue(c.a), IntValue(c.b))
		require.NoError(t, err)
		i, ok := v.Int()
		require.True(t, ok)
		require.Equal(t, c.want, i, "%d // %d", c.a, c.b)
	}

	v, err := floorDiv(FloatValue(7.5), IntValue(2))
	require.NoError(t, err)
	i, ok := v.Int()
	require.True(t, ok)
	require.Equal(t, int64(3), i)

	_, err = floorDiv(IntValue(1), IntValue(0))
	var dz *DivisionByZeroError
	require.ErrorAs(t, err, &dz)
}

func TestCompareMixedKinds(t *testing.T) {
	v, err := compare("==", IntValue(1), FloatValue(1))
	require.NoError(t, err)
	require.Equal(t, "true", v.String())
	v, err = compare("<", RatValue(big.NewRat(1, 3)), FloatValue(0.5))
	require.NoError(t, err)
	require.Equal(t, "true", v.String())
	_, err = compare("<", ComplexValue(1+2i), IntValue(1))
	var bo *BadOperatorError
	require.ErrorAs(t, err, &bo)
}

func TestValueString(t *testing.T) {
	require.Equal(t, "", EmptyValue().String())
	require.Equal(t, "0.5", RatValue(big.NewRat(1, 2)).String())
	require.Equal(t, "(1, 2)", SeqValue(IntValue(1), IntValue(2)).String())
}
