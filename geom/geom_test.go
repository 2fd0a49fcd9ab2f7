package geom_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ordecgo/ordb/geom"
	"github.com/ordecgo/ordb/rat"
)

func r(n int64) rat.Rational { return rat.FromInt64(n) }

func vec(x, y int64) geom.Vec2R { return geom.Vec2R{X: r(x), Y: r(y)} }

func rect(lx, ly, ux, uy int64) geom.Rect4R {
	return geom.NewRect4R(r(lx), r(ly), r(ux), r(uy))
}

func TestVec2RAdd(t *testing.T) {
	a := vec(1, 2)
	b := vec(3, -1)
	require.Equal(t, vec(4, 1), a.Add(b))
}

func TestRect4RCorners(t *testing.T) {
	rc := rect(0, 0, 10, 5)
	require.Equal(t, vec(0, 0), rc.SouthWest())
	require.Equal(t, vec(10, 0), rc.SouthEast())
	require.Equal(t, vec(0, 5), rc.NorthWest())
	require.Equal(t, vec(10, 5), rc.NorthEast())
}

func TestNewRect4RPanicsOnBadCorners(t *testing.T) {
	require.Panics(t, func() { rect(10, 0, 0, 5) })
}

func TestD4RotationComposesToIdentity(t *testing.T) {
	require.Equal(t, geom.R0, geom.R90.Mul(geom.R90).Mul(geom.R90).Mul(geom.R90))
}

func TestD4InvIsInverse(t *testing.T) {
	for _, d := range []geom.D4{geom.R0, geom.R90, geom.R180, geom.R270, geom.MX, geom.MY, geom.MX90, geom.MY90} {
		require.Equal(t, geom.R0, d.Mul(d.Inv()))
	}
}

func TestD4LefDefCodes(t *testing.T) {
	cases := map[geom.D4]string{
		geom.R0: "N", geom.R90: "W", geom.R180: "S", geom.R270: "E",
		geom.MX: "FN", geom.MY: "FS", geom.MX90: "FW", geom.MY90: "FE",
	}
	for d, want := range cases {
		require.Equal(t, want, d.LefDef())
	}
}

func TestTD4ApplyTranslation(t *testing.T) {
	t4 := geom.TD4{Transl: vec(10, 20)}
	require.Equal(t, vec(11, 22), t4.Apply(vec(1, 2)))
}

func TestTD4ApplyRectNormalizesAfterFlip(t *testing.T) {
	t4 := geom.R180.TD4()
	rc := rect(0, 0, 10, 5)
	got := t4.ApplyRect(rc)
	require.Equal(t, rect(-10, -5, 0, 0), got)
}

func TestD4Unflip(t *testing.T) {
	require.Equal(t, geom.R0, geom.MX.Unflip())
	require.Equal(t, geom.R180, geom.MY.Unflip())
}

func TestD4StringRoundTrip(t *testing.T) {
	require.Equal(t, "R90", geom.R90.String())
	require.Equal(t, "MX90", geom.MX90.String())
}
