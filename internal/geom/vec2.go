package geom

import "github.com/playmatatu/tablegeom/internal/fixed"

// Vec2 is a 2D vector of fixed-point components.
type Vec2 struct {
	X fixed.Scalar
	Y fixed.Scalar
}

func NewVec2(x, y fixed.Scalar) Vec2 {
	return Vec2{X: x, Y: y}
}

// RawVec2 builds a vector from wire bit patterns.
func RawVec2(x, y int64) Vec2 {
	return Vec2{X: fixed.FromRaw(x), Y: fixed.FromRaw(y)}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X.Add(o.X), Y: v.Y.Add(o.Y)}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X.Sub(o.X), Y: v.Y.Sub(o.Y)}
}

func (v Vec2) Times(s fixed.Scalar) Vec2 {
	return Vec2{X: v.X.Mul(s), Y: v.Y.Mul(s)}
}

func (v Vec2) Dot(o Vec2) fixed.Scalar {
	return v.X.Mul(o.X).Add(v.Y.Mul(o.Y))
}

// Cross returns the z component of the 3D cross product.
func (v Vec2) Cross(o Vec2) fixed.Scalar {
	return v.X.Mul(o.Y).Sub(v.Y.Mul(o.X))
}

func (v Vec2) MagnitudeSquared() fixed.Scalar {
	return v.Dot(v)
}

func (v Vec2) RightNormal() Vec2 {
	return Vec2{X: v.Y, Y: v.X.Neg()}
}

func (v Vec2) LeftNormal() Vec2 {
	return Vec2{X: v.Y.Neg(), Y: v.X}
}

func (v Vec2) Invert() Vec2 {
	return Vec2{X: v.X.Neg(), Y: v.Y.Neg()}
}

func (v Vec2) IsZero() bool {
	return v.X.IsZero() && v.Y.IsZero()
}

func (v Vec2) IsEqualTo(o Vec2) bool {
	return v.X.Equal(o.X) && v.Y.Equal(o.Y)
}
