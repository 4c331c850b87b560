package geom

import "math"

// Transform2 is an affine transform of the plane: a 2x2 linear part plus
// a translation.
type Transform2 struct {
	m [2][2]float64
	t Vector2
}

var Identity2 = Transform2{m: [2][2]float64{{1, 0}, {0, 1}}}

func (t Transform2) IsIdentity() bool { return t == Identity2 }

func Translation2(v Vector2) Transform2 {
	tr := Identity2
	tr.t = v
	return tr
}

func Scaling2(x, y float64) Transform2 {
	return Transform2{m: [2][2]float64{{x, 0}, {0, y}}}
}

func Rotation2(angle float64) Transform2 {
	sin, cos := math.Sin(angle), math.Cos(angle)
	return Transform2{m: [2][2]float64{{cos, -sin}, {sin, cos}}}
}

func (t Transform2) Apply(p Vector2) Vector2 {
	return Vector2{
		t.m[0][0]*p.X + t.m[0][1]*p.Y + t.t.X,
		t.m[1][0]*p.X + t.m[1][1]*p.Y + t.t.Y,
	}
}

func (t Transform2) ApplyLinear(v Vector2) Vector2 {
	return Vector2{
		t.m[0][0]*v.X + t.m[0][1]*v.Y,
		t.m[1][0]*v.X + t.m[1][1]*v.Y,
	}
}

func (t Transform2) Concatenated(other Transform2) Transform2 {
	var m [2][2]float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			m[i][j] = t.m[i][0]*other.m[0][j] + t.m[i][1]*other.m[1][j]
		}
	}
	return Transform2{m: m, t: t.ApplyLinear(other.t).Add(t.t)}
}

func (t Transform2) Inverse() (Transform2, error) {
	det := t.m[0][0]*t.m[1][1] - t.m[0][1]*t.m[1][0]
	if math.Abs(det) < 1e-15 {
		return Transform2{}, invalidf("Transform2.Inverse", "matrix is singular")
	}
	invDet := 1 / det
	inv := Transform2{m: [2][2]float64{
		{t.m[1][1] * invDet, -t.m[0][1] * invDet},
		{-t.m[1][0] * invDet, t.m[0][0] * invDet},
	}}
	inv.t = inv.ApplyLinear(t.t).Negated()
	return inv, nil
}

// Scale returns the minimum absolute singular value of the 2x2 linear
// part, via the closed-form eigenvalues of its symmetric Gram matrix.
func (t Transform2) Scale() float64 {
	a := t.m[0][0]*t.m[0][0] + t.m[1][0]*t.m[1][0]
	b := t.m[0][0]*t.m[0][1] + t.m[1][0]*t.m[1][1]
	c := t.m[0][1]*t.m[0][1] + t.m[1][1]*t.m[1][1]
	tr := a + c
	det := a*c - b*b
	disc := math.Max(0, tr*tr/4-det)
	smaller := tr/2 - math.Sqrt(disc)
	if smaller < 0 {
		smaller = 0
	}
	return math.Sqrt(smaller)
}

// Rows returns the row-major 2x2 linear part.
func (t Transform2) Rows() [2][2]float64 { return t.m }

// Translation returns the translation part.
func (t Transform2) Translation() Vector2 { return t.t }

func (t Transform2) TransformBoundingBox(b BoundingBox2) BoundingBox2 {
	if b.Empty {
		return b
	}
	corners := [4]Vector2{
		{b.Min.X, b.Min.Y}, {b.Max.X, b.Min.Y},
		{b.Min.X, b.Max.Y}, {b.Max.X, b.Max.Y},
	}
	out := EmptyBoundingBox2()
	for _, c := range corners {
		out = out.IncludingPoint(t.Apply(c))
	}
	return out
}
