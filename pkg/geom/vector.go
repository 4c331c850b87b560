package geom

import "math"

// Vector2 is a 2D double-precision vector or point.
type Vector2 struct {
	X, Y float64
}

// Vector3 is a 3D double-precision vector or point.
type Vector3 struct {
	X, Y, Z float64
}

var (
	Zero2 = Vector2{}
	Zero3 = Vector3{}

	UnitX2 = Vector2{X: 1}
	UnitY2 = Vector2{Y: 1}

	UnitX3 = Vector3{X: 1}
	UnitY3 = Vector3{Y: 1}
	UnitZ3 = Vector3{Z: 1}
)

func (v Vector2) Add(o Vector2) Vector2      { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2      { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Scaled(s float64) Vector2   { return Vector2{v.X * s, v.Y * s} }
func (v Vector2) Negated() Vector2           { return Vector2{-v.X, -v.Y} }
func (v Vector2) Dot(o Vector2) float64      { return v.X*o.X + v.Y*o.Y }
func (v Vector2) Cross(o Vector2) float64    { return v.X*o.Y - v.Y*o.X }
func (v Vector2) LengthSquared() float64     { return v.Dot(v) }
func (v Vector2) Length() float64            { return math.Sqrt(v.LengthSquared()) }
func (v Vector2) Distance(o Vector2) float64 { return v.Sub(o).Length() }
func (v Vector2) Lerp(o Vector2, t float64) Vector2 {
	return Vector2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// To3 embeds the vector in the XY plane at the given Z.
func (v Vector2) To3(z float64) Vector3 { return Vector3{v.X, v.Y, z} }

func (v Vector3) Add(o Vector3) Vector3    { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3    { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scaled(s float64) Vector3 { return Vector3{v.X * s, v.Y * s, v.Z * s} }
func (v Vector3) Negated() Vector3         { return Vector3{-v.X, -v.Y, -v.Z} }
func (v Vector3) Dot(o Vector3) float64    { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}
func (v Vector3) LengthSquared() float64     { return v.Dot(v) }
func (v Vector3) Length() float64            { return math.Sqrt(v.LengthSquared()) }
func (v Vector3) Distance(o Vector3) float64 { return v.Sub(o).Length() }
func (v Vector3) Lerp(o Vector3, t float64) Vector3 {
	return Vector3{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t, v.Z + (o.Z-v.Z)*t}
}

// XY drops the Z coordinate.
func (v Vector3) XY() Vector2 { return Vector2{v.X, v.Y} }

// ComponentMin/ComponentMax support bounding box accumulation.
func ComponentMin3(a, b Vector3) Vector3 {
	return Vector3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

func ComponentMax3(a, b Vector3) Vector3 {
	return Vector3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

func ComponentMin2(a, b Vector2) Vector2 {
	return Vector2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)}
}

func ComponentMax2(a, b Vector2) Vector2 {
	return Vector2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)}
}
