package geom

import (
	"math"
	"testing"
)

func TestLineParallelToPlaneMisses(t *testing.T) {
	// A line along +X at height 5 never crosses z == 0.
	line := Line3{Point: Vector3{Z: 5}, Direction: AxisX3}
	if _, ok := PlaneZ(0).IntersectionWithLine(line); ok {
		t.Fatal("a line parallel to the plane at non-zero offset must not intersect it")
	}
}

func TestVerticalLineHitsPlaneZ(t *testing.T) {
	line := Line3{Point: Vector3{X: 1, Y: 2, Z: -3}, Direction: AxisZ3}
	got, ok := PlaneZ(0).IntersectionWithLine(line)
	if !ok {
		t.Fatal("a vertical line must cross z == 0")
	}
	want := Vector3{X: 1, Y: 2, Z: 0}
	if got.Distance(want) > 1e-12 {
		t.Fatalf("intersection = %v, want %v", got, want)
	}
}

func TestParallelPlanesDoNotIntersect(t *testing.T) {
	if _, ok := PlaneZ(0).IntersectionWithPlane(PlaneZ(5)); ok {
		t.Fatal("parallel planes must not intersect")
	}
	if _, ok := PlaneZ(2).IntersectionWithPlane(PlaneZ(2)); ok {
		t.Fatal("coincident planes have no single intersection line")
	}
}

func TestPerpendicularPlanesIntersectInALine(t *testing.T) {
	// z == 3 meets x == 2 in the line {x: 2, z: 3} along Y.
	xPlane := PlaneThrough(Vector3{X: 2}, AxisX3)
	line, ok := PlaneZ(3).IntersectionWithPlane(xPlane)
	if !ok {
		t.Fatal("perpendicular planes must intersect")
	}
	if math.Abs(math.Abs(line.Direction.Dot(AxisY3))-1) > 1e-12 {
		t.Fatalf("intersection direction = %v, want +-Y", line.Direction)
	}
	if math.Abs(line.Point.X-2) > 1e-12 || math.Abs(line.Point.Z-3) > 1e-12 {
		t.Fatalf("intersection point = %v, want x=2, z=3", line.Point)
	}
	// The line must lie in both planes.
	if d := PlaneZ(3).Distance(line.Point); math.Abs(d) > 1e-12 {
		t.Errorf("line point is %v away from the first plane", d)
	}
	if d := xPlane.Distance(line.Point); math.Abs(d) > 1e-12 {
		t.Errorf("line point is %v away from the second plane", d)
	}
}

func TestPlaneDistanceAndProject(t *testing.T) {
	p := PlaneZ(10)
	if d := p.Distance(Vector3{X: 7, Y: -2, Z: 16}); math.Abs(d-6) > 1e-12 {
		t.Fatalf("distance = %v, want 6", d)
	}
	got := p.Project(Vector3{X: 7, Y: -2, Z: 16})
	want := Vector3{X: 7, Y: -2, Z: 10}
	if got.Distance(want) > 1e-12 {
		t.Fatalf("projection = %v, want %v", got, want)
	}
}

func TestPlaneTransformMapsOriginOntoPlane(t *testing.T) {
	p := PlaneThrough(Vector3{X: 1, Y: 2, Z: 3}, MustDirection3(Vector3{X: 1, Y: 1, Z: 1}))
	tr := p.Transform()
	onPlane := tr.Apply(Vector3{})
	if d := p.Distance(onPlane); math.Abs(d) > 1e-9 {
		t.Fatalf("transform origin is %v off the plane", d)
	}
	// +Z of the local frame must map to the plane normal.
	up := tr.ApplyLinear(Vector3{Z: 1})
	if up.Sub(p.Normal.Vector()).Length() > 1e-9 {
		t.Fatalf("local +Z maps to %v, want the plane normal %v", up, p.Normal.Vector())
	}
}
