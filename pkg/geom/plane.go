package geom

import "math"

// Plane is the set of points p such that Normal.Dot(p) == Offset. +Z of
// the plane's local->world frame is the normal (spec.md §4.1).
type Plane struct {
	Normal Direction3
	Offset float64
}

// PlaneThrough builds the plane with the given normal passing through p.
func PlaneThrough(p Vector3, normal Direction3) Plane {
	return Plane{Normal: normal, Offset: normal.Vector().Dot(p)}
}

// PlaneZ is the plane z == height, with normal +Z.
func PlaneZ(height float64) Plane {
	return Plane{Normal: AxisZ3, Offset: height}
}

// Distance returns the signed distance from p to the plane (positive on
// the side the normal points toward).
func (p Plane) Distance(to Vector3) float64 {
	return p.Normal.Vector().Dot(to) - p.Offset
}

// Project returns the closest point on the plane to 'to'.
func (p Plane) Project(to Vector3) Vector3 {
	d := p.Distance(to)
	return to.Sub(p.Normal.Vector().Scaled(d))
}

// Transform returns the local->world affine frame of the plane: the
// origin is the projection of the world origin onto the plane, and +Z is
// the plane's normal.
func (p Plane) Transform() Transform3 {
	origin := p.Project(Vector3{})
	z := p.Normal
	x := z.LeastParallelAxis()
	// Gram-Schmidt: remove the z component from x, then cross for y.
	xv := x.Vector().Sub(z.Vector().Scaled(z.Vector().Dot(x.Vector())))
	xDir, err := NewDirection3(xv)
	if err != nil {
		// Degenerate seed (shouldn't happen: LeastParallelAxis guarantees
		// a non-parallel seed), fall back to an arbitrary perpendicular.
		xDir = z.LeastParallelAxis()
	}
	yDir := MustDirection3(z.Vector().Cross(xDir.Vector()))
	return NewTransform3FromBasis(xDir, yDir, z, origin)
}

// Line3 is an infinite line through Point along Direction.
type Line3 struct {
	Point     Vector3
	Direction Direction3
}

// IntersectionWithPlane returns the point where the line crosses the
// plane, or ok=false when the line is parallel to the plane (including
// the case where the line lies entirely within it — spec.md scenario 5).
func (l Line3) IntersectionWithPlane(p Plane) (point Vector3, ok bool) {
	denom := p.Normal.Dot(l.Direction)
	if math.Abs(denom) < 1e-12 {
		return Vector3{}, false
	}
	t := (p.Offset - p.Normal.Vector().Dot(l.Point)) / denom
	return l.Point.Add(l.Direction.Vector().Scaled(t)), true
}

// IntersectionWithLine is the symmetric entry point living on Plane, per
// spec.md's `Plane.intersection(with: Line)` phrasing.
func (p Plane) IntersectionWithLine(l Line3) (Vector3, bool) {
	return l.IntersectionWithPlane(p)
}

// IntersectionWithPlane returns the line where two planes meet, or
// ok=false when they are parallel (coincident planes included).
func (p Plane) IntersectionWithPlane(o Plane) (Line3, bool) {
	n1, n2 := p.Normal.Vector(), o.Normal.Vector()
	dir := n1.Cross(n2)
	if dir.LengthSquared() < 1e-24 {
		return Line3{}, false
	}
	// The point on both planes closest to the origin's projection:
	// x = (d1 (n2 x dir) + d2 (dir x n1)) / |dir|^2.
	point := n2.Cross(dir).Scaled(p.Offset).
		Add(dir.Cross(n1).Scaled(o.Offset)).
		Scaled(1 / dir.LengthSquared())
	return Line3{Point: point, Direction: MustDirection3(dir)}, true
}
