package geom

import "math"

// unitTolerance is the length below which NewDirection2/NewDirection3
// treat a candidate vector as zero and reject it; any longer vector is
// always re-normalized.
const unitTolerance = 1e-9

// Direction2 is a unit-length 2D vector. The zero value is invalid; always
// construct through NewDirection2.
type Direction2 struct{ v Vector2 }

// Direction3 is a unit-length 3D vector. The zero value is invalid; always
// construct through NewDirection3.
type Direction3 struct{ v Vector3 }

// NewDirection2 normalizes v. It fails with InvalidGeometryError if v is
// (numerically) the zero vector, per spec.md §4.1.
func NewDirection2(v Vector2) (Direction2, error) {
	l := v.Length()
	if l < unitTolerance {
		return Direction2{}, invalidf("NewDirection2", "cannot normalize a zero-length vector")
	}
	return Direction2{v: v.Scaled(1 / l)}, nil
}

// NewDirection3 normalizes v. It fails with InvalidGeometryError if v is
// (numerically) the zero vector.
func NewDirection3(v Vector3) (Direction3, error) {
	l := v.Length()
	if l < unitTolerance {
		return Direction3{}, invalidf("NewDirection3", "cannot normalize a zero-length vector")
	}
	return Direction3{v: v.Scaled(1 / l)}, nil
}

// MustDirection3 panics on invalid input; reserved for compile-time-known
// constants such as AxisX3.
func MustDirection3(v Vector3) Direction3 {
	d, err := NewDirection3(v)
	if err != nil {
		panic(err)
	}
	return d
}

func MustDirection2(v Vector2) Direction2 {
	d, err := NewDirection2(v)
	if err != nil {
		panic(err)
	}
	return d
}

var (
	AxisX3 = MustDirection3(Vector3{X: 1})
	AxisY3 = MustDirection3(Vector3{Y: 1})
	AxisZ3 = MustDirection3(Vector3{Z: 1})

	AxisX2 = MustDirection2(Vector2{X: 1})
	AxisY2 = MustDirection2(Vector2{Y: 1})
)

func (d Direction2) Vector() Vector2 { return d.v }
func (d Direction3) Vector() Vector3 { return d.v }

func (d Direction3) Negated() Direction3 { return Direction3{v: d.v.Negated()} }
func (d Direction2) Negated() Direction2 { return Direction2{v: d.v.Negated()} }

// Dot returns the cosine of the angle between two directions.
func (d Direction3) Dot(o Direction3) float64 { return d.v.Dot(o.v) }
func (d Direction2) Dot(o Direction2) float64 { return d.v.Dot(o.v) }

// IsParallel reports whether d and o point along the same line, within
// tolerance, regardless of sign.
func (d Direction3) IsParallel(o Direction3, tolerance float64) bool {
	return math.Abs(math.Abs(d.Dot(o))-1) < tolerance
}

// LeastParallelAxis returns whichever of e_x, e_y is least parallel to d —
// used to seed the first frame of a Bézier-path sweep (spec.md §4.9 step 2).
func (d Direction3) LeastParallelAxis() Direction3 {
	if math.Abs(d.Dot(AxisX3)) < math.Abs(d.Dot(AxisY3)) {
		return AxisX3
	}
	return AxisY3
}
