package rat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ordecgo/ordb/rat"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"0.",
		"1.",
		"1.5",
		"-1.5",
		"100n",
		"12.345G",
		"1k",
		"500m",
		"1u",
		"f'1/3",
	}
	for _, s := range cases {
		s := s
		t.Run(s, func(t *testing.T) {
			r, err := rat.Parse(s)
			require.NoError(t, err)
			require.Equal(t, s, r.String())
		})
	}
}

func TestParseSISuffixes(t *testing.T) {
	r, err := rat.Parse("100n")
	require.NoError(t, err)
	want, _ := rat.Parse("f'1/10000000")
	require.True(t, r.EqualValue(want))
}

func TestParseMicroAlias(t *testing.T) {
	ascii, err := rat.Parse("1u")
	require.NoError(t, err)
	micro, err := rat.Parse("1µ")
	require.NoError(t, err)
	require.True(t, ascii.EqualValue(micro))
}

func TestParseFracLiteral(t *testing.T) {
	r, err := rat.Parse("f'15/19")
	require.NoError(t, err)
	require.Equal(t, "f'15/19", r.String())
}

func TestNonTerminatingFallsBackToFrac(t *testing.T) {
	r := rat.FromFrac(1, 3)
	require.Equal(t, "f'1/3", r.String())
}

func TestArithmetic(t *testing.T) {
	a := rat.FromInt64(3)
	b := rat.FromInt64(2)

	require.True(t, a.Add(b).EqualValue(rat.FromInt64(5)))
	require.True(t, a.Sub(b).EqualValue(rat.FromInt64(1)))
	require.True(t, a.Mul(b).EqualValue(rat.FromInt64(6)))
	require.True(t, a.Quo(b).EqualValue(rat.MustParse("1.5")))
}

func TestFloorDivAndModMatchPythonSignConvention(t *testing.T) {
	a := rat.FromInt64(-7)
	b := rat.FromInt64(2)

	require.True(t, a.FloorDiv(b).EqualValue(rat.FromInt64(-4)))
	require.True(t, a.Mod(b).EqualValue(rat.FromInt64(1)))
}

func TestCompatString(t *testing.T) {
	r := rat.MustParse("100n")
	require.Equal(t, "1.0e-7", r.CompatString())
}

func TestEqualValueRejectsOtherTypes(t *testing.T) {
	r := rat.FromInt64(1)
	require.False(t, r.EqualValue("1"))
}

func TestHashValueStableAcrossConstruction(t *testing.T) {
	a := rat.FromFrac(1, 2)
	b := rat.MustParse("0.5")
	require.Equal(t, a.HashValue(), b.HashValue())
}
