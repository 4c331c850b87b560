package geom

import "math"

// Transform3 is an affine transform of 3-space: a linear part (3x3 matrix,
// row-major) plus a translation. The omitted bottom row of the equivalent
// 4x4 homogeneous matrix is always [0 0 0 1].
type Transform3 struct {
	m [3][3]float64
	t Vector3
}

// Identity3 is the identity transform.
var Identity3 = Transform3{m: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}

// IsIdentity reports whether t is (exactly) the identity transform — used
// by the scene package's smart constructors to collapse no-op transform
// nodes (spec.md §4.2: transform(identity, c) = c).
func (t Transform3) IsIdentity() bool {
	return t == Identity3
}

func Translation3(v Vector3) Transform3 {
	tr := Identity3
	tr.t = v
	return tr
}

func Scaling3(x, y, z float64) Transform3 {
	return Transform3{m: [3][3]float64{{x, 0, 0}, {0, y, 0}, {0, 0, z}}}
}

func UniformScaling3(s float64) Transform3 { return Scaling3(s, s, s) }

// RotationAxis builds a rotation of angle radians around the given axis
// using Rodrigues' rotation formula.
func RotationAxis(axis Direction3, angle float64) Transform3 {
	a := axis.Vector()
	sin, cos := math.Sin(angle), math.Cos(angle)
	k := 1 - cos
	return Transform3{m: [3][3]float64{
		{cos + a.X*a.X*k, a.X*a.Y*k - a.Z*sin, a.X*a.Z*k + a.Y*sin},
		{a.Y*a.X*k + a.Z*sin, cos + a.Y*a.Y*k, a.Y*a.Z*k - a.X*sin},
		{a.Z*a.X*k - a.Y*sin, a.Z*a.Y*k + a.X*sin, cos + a.Z*a.Z*k},
	}}
}

func RotationX(angle float64) Transform3 { return RotationAxis(AxisX3, angle) }
func RotationY(angle float64) Transform3 { return RotationAxis(AxisY3, angle) }
func RotationZ(angle float64) Transform3 { return RotationAxis(AxisZ3, angle) }

// NewTransform3FromBasis builds the affine frame whose columns are x, y,
// z (assumed orthonormal and right-handed — callers that construct a
// basis by cross products, as pkg/path's frame computation does, satisfy
// this by construction) translated to origin. Plane.Transform builds its
// own local frame with it.
func NewTransform3FromBasis(x, y, z Direction3, origin Vector3) Transform3 {
	return Transform3{
		m: [3][3]float64{
			{x.Vector().X, y.Vector().X, z.Vector().X},
			{x.Vector().Y, y.Vector().Y, z.Vector().Y},
			{x.Vector().Z, y.Vector().Z, z.Vector().Z},
		},
		t: origin,
	}
}

// Apply transforms a point (applies the linear part, then translates).
func (t Transform3) Apply(p Vector3) Vector3 {
	return Vector3{
		t.m[0][0]*p.X + t.m[0][1]*p.Y + t.m[0][2]*p.Z + t.t.X,
		t.m[1][0]*p.X + t.m[1][1]*p.Y + t.m[1][2]*p.Z + t.t.Y,
		t.m[2][0]*p.X + t.m[2][1]*p.Y + t.m[2][2]*p.Z + t.t.Z,
	}
}

// ApplyLinear applies only the linear (rotation/scale) part — used for
// vectors that represent directions or offsets rather than points.
func (t Transform3) ApplyLinear(v Vector3) Vector3 {
	return Vector3{
		t.m[0][0]*v.X + t.m[0][1]*v.Y + t.m[0][2]*v.Z,
		t.m[1][0]*v.X + t.m[1][1]*v.Y + t.m[1][2]*v.Z,
		t.m[2][0]*v.X + t.m[2][1]*v.Y + t.m[2][2]*v.Z,
	}
}

// ApplyDirection transforms a direction and re-normalizes. Fails only if
// the transform is degenerate along that direction.
func (t Transform3) ApplyDirection(d Direction3) (Direction3, error) {
	return NewDirection3(t.ApplyLinear(d.Vector()))
}

// Concatenated returns the transform that applies other first, then t —
// i.e. t∘other. This matches spec.md §3's composition rule: in
// transform(t1, transform(t2, child)), the combined transform is
// t1.Concatenated(t2).
func (t Transform3) Concatenated(other Transform3) Transform3 {
	var m [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = t.m[i][0]*other.m[0][j] + t.m[i][1]*other.m[1][j] + t.m[i][2]*other.m[2][j]
		}
	}
	return Transform3{m: m, t: t.ApplyLinear(other.t).Add(t.t)}
}

func (t Transform3) Inverse() (Transform3, error) {
	m := t.m
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	if math.Abs(det) < 1e-15 {
		return Transform3{}, invalidf("Transform3.Inverse", "matrix is singular")
	}
	invDet := 1 / det
	var inv [3][3]float64
	inv[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * invDet
	inv[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * invDet
	inv[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * invDet
	inv[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * invDet
	inv[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * invDet
	inv[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * invDet
	inv[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * invDet
	inv[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * invDet
	inv[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * invDet

	result := Transform3{m: inv}
	result.t = result.ApplyLinear(t.t).Negated()
	return result, nil
}

// Scale returns the minimum absolute singular value of the transform's
// linear part, used to scale tolerances and segmentation (spec.md §4.1,
// §4.4). Singular values are the square roots of the eigenvalues of
// m^T·m; since m^T·m is symmetric 3x3, its eigenvalues have a closed
// trigonometric form, which we use instead of a general iterative SVD.
func (t Transform3) Scale() float64 {
	a := symmetricProduct(t.m)
	e1, e2, e3 := symmetricEigenvalues3(a)
	smallest := math.Min(e1, math.Min(e2, e3))
	if smallest < 0 {
		smallest = 0
	}
	return math.Sqrt(smallest)
}

// symmetricProduct computes m^T * m.
func symmetricProduct(m [3][3]float64) [3][3]float64 {
	var a [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += m[k][i] * m[k][j]
			}
			a[i][j] = sum
		}
	}
	return a
}

// symmetricEigenvalues3 returns the three (real) eigenvalues of a
// symmetric 3x3 matrix using the closed-form trigonometric solution.
func symmetricEigenvalues3(a [3][3]float64) (float64, float64, float64) {
	p1 := a[0][1]*a[0][1] + a[0][2]*a[0][2] + a[1][2]*a[1][2]
	trace := a[0][0] + a[1][1] + a[2][2]
	if p1 < 1e-18 {
		// Already diagonal.
		return a[0][0], a[1][1], a[2][2]
	}
	q := trace / 3
	p2 := (a[0][0]-q)*(a[0][0]-q) + (a[1][1]-q)*(a[1][1]-q) + (a[2][2]-q)*(a[2][2]-q) + 2*p1
	p := math.Sqrt(p2 / 6)

	var b [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := a[i][j]
			if i == j {
				v -= q
			}
			b[i][j] = v / p
		}
	}
	detB := b[0][0]*(b[1][1]*b[2][2]-b[1][2]*b[2][1]) -
		b[0][1]*(b[1][0]*b[2][2]-b[1][2]*b[2][0]) +
		b[0][2]*(b[1][0]*b[2][1]-b[1][1]*b[2][0])
	r := detB / 2
	if r < -1 {
		r = -1
	} else if r > 1 {
		r = 1
	}
	phi := math.Acos(r) / 3

	eig1 := q + 2*p*math.Cos(phi)
	eig3 := q + 2*p*math.Cos(phi+2*math.Pi/3)
	eig2 := 3*q - eig1 - eig3
	return eig1, eig2, eig3
}

// Rows returns the row-major 3x3 linear part, for callers (e.g. the
// scene package's canonical fingerprint encoding) that need to observe
// every component.
func (t Transform3) Rows() [3][3]float64 { return t.m }

// Translation returns the translation part.
func (t Transform3) Translation() Vector3 { return t.t }

// TransformBoundingBox applies t to every corner of b and returns the
// axis-aligned bounding box of the result.
func (t Transform3) TransformBoundingBox(b BoundingBox3) BoundingBox3 {
	if b.Empty {
		return b
	}
	corners := [8]Vector3{
		{b.Min.X, b.Min.Y, b.Min.Z}, {b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z}, {b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z}, {b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z}, {b.Max.X, b.Max.Y, b.Max.Z},
	}
	out := EmptyBoundingBox3()
	for _, c := range corners {
		out = out.IncludingPoint(t.Apply(c))
	}
	return out
}
