// Package geom provides the 2D geometric primitives used by layout and
// symbol coordinates: rational-coordinate vector/rectangle types and the
// dihedral group of axis-aligned orientations. It is grounded on
// geoprim.py (Vec2R, Rect4R, TD4, D4), ported field-for-field, with
// coordinates carried as rat.Rational rather than a float or machine int
// so a layout distance parsed from an SI-suffixed string ("100n") round-
// trips exactly through every transform.
package geom

import (
	"fmt"

	"github.com/ordecgo/ordb/rat"
)

// Vec2R is a 2D point or displacement with rational coordinates.
type Vec2R struct {
	X, Y rat.Rational
}

// Add returns the vector sum v+o.
func (v Vec2R) Add(o Vec2R) Vec2R {
	return Vec2R{X: v.X.Add(o.X), Y: v.Y.Add(o.Y)}
}

// Rect4R is an axis-aligned rectangle, invariant LX<=UX and LY<=UY.
type Rect4R struct {
	LX, LY, UX, UY rat.Rational
}

// NewRect4R builds a Rect4R, panicking if the corner invariant is violated
// (a malformed rectangle is a programming error in the caller, not a data
// condition to report).
func NewRect4R(lx, ly, ux, uy rat.Rational) Rect4R {
	if lx.Cmp(ux) > 0 || ly.Cmp(uy) > 0 {
		panic(fmt.Sprintf("geom: invalid rect corners (%s,%s)-(%s,%s)", lx, ly, ux, uy))
	}
	return Rect4R{LX: lx, LY: ly, UX: ux, UY: uy}
}

// SouthWest returns the lower-left corner.
func (r Rect4R) SouthWest() Vec2R { return Vec2R{X: r.LX, Y: r.LY} }

// SouthEast returns the lower-right corner.
func (r Rect4R) SouthEast() Vec2R { return Vec2R{X: r.UX, Y: r.LY} }

// NorthWest returns the upper-left corner.
func (r Rect4R) NorthWest() Vec2R { return Vec2R{X: r.LX, Y: r.UY} }

// NorthEast returns the upper-right corner.
func (r Rect4R) NorthEast() Vec2R { return Vec2R{X: r.UX, Y: r.UY} }

// TD4 is an affine transform over Vec2R/Rect4R built from translation plus
// the three boolean degrees of freedom of the dihedral group D4: swap the
// axes (FlipXY), and negate each axis (NegX, NegY). Composition is
// represented as data (not a 2x2 matrix) so D4 below can build the eight
// orientations by table rather than by trigonometry.
type TD4 struct {
	Transl     Vec2R
	FlipXY     bool
	NegX, NegY bool
}

// IdentityTD4 is the identity transform.
var IdentityTD4 = TD4{}

func sign(neg bool, v rat.Rational) rat.Rational {
	if neg {
		return v.Neg()
	}
	return v
}

// Apply transforms a point through t.
func (t TD4) Apply(v Vec2R) Vec2R {
	x, y := v.X, v.Y
	if t.FlipXY {
		x, y = y, x
	}
	return Vec2R{X: sign(t.NegX, x).Add(t.Transl.X), Y: sign(t.NegY, y).Add(t.Transl.Y)}
}

// ApplyRect transforms a rectangle through t, re-normalizing corners so the
// LX<=UX/LY<=UY invariant still holds after axis flips.
func (t TD4) ApplyRect(r Rect4R) Rect4R {
	a := t.Apply(Vec2R{X: r.LX, Y: r.LY})
	b := t.Apply(Vec2R{X: r.UX, Y: r.UY})
	lx, ux := a.X, b.X
	if lx.Cmp(ux) > 0 {
		lx, ux = ux, lx
	}
	ly, uy := a.Y, b.Y
	if ly.Cmp(uy) > 0 {
		ly, uy = uy, ly
	}
	return Rect4R{LX: lx, LY: ly, UX: ux, UY: uy}
}

// Mul composes transforms: (t.Mul(o)).Apply(v) == t.Apply(o.Apply(v)).
func (t TD4) Mul(o TD4) TD4 {
	mid := t.Apply(o.Transl)
	return TD4{
		Transl: mid,
		FlipXY: t.FlipXY != o.FlipXY,
		NegX:   t.negXOf(o),
		NegY:   t.negYOf(o),
	}
}

// negXOf and negYOf implement the sign part of 2x2 signed-permutation
// matrix multiplication: when t swaps axes, its X output comes from the
// input's Y row, so it composes against o's Y sign (and vice versa).
func (t TD4) negXOf(o TD4) bool {
	if t.FlipXY {
		return t.NegX != o.NegY
	}
	return t.NegX != o.NegX
}

func (t TD4) negYOf(o TD4) bool {
	if t.FlipXY {
		return t.NegY != o.NegX
	}
	return t.NegY != o.NegY
}

// Det returns the determinant sign: -1 for an orientation-reversing
// transform (a single flip), +1 otherwise.
func (t TD4) Det() int {
	d := 1
	if t.FlipXY {
		d = -d
	}
	if t.NegX {
		d = -d
	}
	if t.NegY {
		d = -d
	}
	return d
}

// D4 is one of the eight orientations of the dihedral group of the square:
// four rotations and four flips, with no translation component.
type D4 int

const (
	R0 D4 = iota
	R90
	R180
	R270
	MX
	MY
	MX90
	MY90
)

var d4Transforms = map[D4]TD4{
	R0:   {FlipXY: false, NegX: false, NegY: false},
	R90:  {FlipXY: true, NegX: false, NegY: true},
	R180: {FlipXY: false, NegX: true, NegY: true},
	R270: {FlipXY: true, NegX: true, NegY: false},
	MX:   {FlipXY: false, NegX: true, NegY: false},
	MY:   {FlipXY: false, NegX: false, NegY: true},
	MX90: {FlipXY: true, NegX: false, NegY: false},
	MY90: {FlipXY: true, NegX: true, NegY: true},
}

// TD4 returns the linear transform (no translation) for d.
func (d D4) TD4() TD4 { return d4Transforms[d] }

// Mul composes two orientations. D4 carries no translation, so only the
// three boolean degrees of freedom identify the result; comparing Transl
// would compare rat.Rational's internal pointer identity rather than value.
func (d D4) Mul(o D4) D4 {
	want := d.TD4().Mul(o.TD4())
	for k, v := range d4Transforms {
		if v.FlipXY == want.FlipXY && v.NegX == want.NegX && v.NegY == want.NegY {
			return k
		}
	}
	panic("geom: D4 composition produced a non-D4 transform")
}

// Unflip returns the pure rotation with the same handedness-independent
// axis swap removed: the rotation you get by dropping d's reflection.
func (d D4) Unflip() D4 {
	switch d {
	case MX:
		return R0
	case MY:
		return R180
	case MX90:
		return R270
	case MY90:
		return R90
	default:
		return d
	}
}

// Inv returns the inverse orientation.
func (d D4) Inv() D4 {
	switch d {
	case R90:
		return R270
	case R270:
		return R90
	default:
		return d // self-inverse: R0, R180, and every flip
	}
}

// LefDef returns the LEF/DEF orientation code: N, W, S, E, FN, FS, FW, FE.
func (d D4) LefDef() string {
	switch d {
	case R0:
		return "N"
	case R90:
		return "W"
	case R180:
		return "S"
	case R270:
		return "E"
	case MX:
		return "FN"
	case MY:
		return "FS"
	case MX90:
		return "FW"
	case MY90:
		return "FE"
	default:
		panic("geom: unknown D4 value")
	}
}

// Aliases matching the LEF/DEF naming used elsewhere in the domain schema.
const (
	North         = R0
	West          = R90
	South         = R180
	East          = R270
	FlippedNorth  = MX
	FlippedSouth  = MY
	FlippedWest   = MX90
	FlippedEast   = MY90
)

func (d D4) String() string {
	names := map[D4]string{
		R0: "R0", R90: "R90", R180: "R180", R270: "R270",
		MX: "MX", MY: "MY", MX90: "MX90", MY90: "MY90",
	}
	if s, ok := names[d]; ok {
		return s
	}
	return fmt.Sprintf("D4(%d)", int(d))
}
