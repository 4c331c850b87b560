package geom

import (
	"math"
	"testing"
)

func flatPatch() BezierPatch {
	// Bilinear patch spanning the unit square in the XY plane.
	return BezierPatch{Control: [][]Vector3{
		{{X: 0, Y: 0}, {X: 0, Y: 1}},
		{{X: 1, Y: 0}, {X: 1, Y: 1}},
	}}
}

func TestNewBezierPatchRejectsRaggedControlNet(t *testing.T) {
	_, err := NewBezierPatch([][]Vector3{
		{{X: 0}, {X: 1}},
		{{X: 0}},
	})
	if err == nil {
		t.Fatal("expected an error for rows of unequal length")
	}
	if _, err := NewBezierPatch([][]Vector3{{{X: 0}, {X: 1}}}); err == nil {
		t.Fatal("expected an error for a single control row")
	}
}

func TestBezierPatchCornersMatchControlNet(t *testing.T) {
	p := flatPatch()
	cases := []struct {
		u, v float64
		want Vector3
	}{
		{0, 0, Vector3{X: 0, Y: 0}},
		{0, 1, Vector3{X: 0, Y: 1}},
		{1, 0, Vector3{X: 1, Y: 0}},
		{1, 1, Vector3{X: 1, Y: 1}},
	}
	for _, c := range cases {
		got := p.Point(c.u, c.v)
		if got.Distance(c.want) > 1e-12 {
			t.Fatalf("Point(%v, %v) = %v, want %v", c.u, c.v, got, c.want)
		}
	}
}

func TestBezierPatchCenterOfBilinearIsAverage(t *testing.T) {
	got := flatPatch().Point(0.5, 0.5)
	want := Vector3{X: 0.5, Y: 0.5}
	if got.Distance(want) > 1e-12 {
		t.Fatalf("center = %v, want %v", got, want)
	}
}

func TestBezierPatchPartialsSpanTheSurface(t *testing.T) {
	p := flatPatch()
	du := p.PartialU(0.5, 0.5)
	dv := p.PartialV(0.5, 0.5)
	if math.Abs(du.X-1) > 1e-12 || math.Abs(du.Y) > 1e-12 {
		t.Fatalf("PartialU = %v, want +X", du)
	}
	if math.Abs(dv.Y-1) > 1e-12 || math.Abs(dv.X) > 1e-12 {
		t.Fatalf("PartialV = %v, want +Y", dv)
	}
	n := du.Cross(dv)
	if math.Abs(n.Z-1) > 1e-12 {
		t.Fatalf("normal = %v, want +Z", n)
	}
}

func TestBezierPatchBoundingBoxCoversControlNet(t *testing.T) {
	p := BezierPatch{Control: [][]Vector3{
		{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 2, Z: 1}},
		{{X: 3, Y: 0, Z: -1}, {X: 3, Y: 2, Z: 0}},
	}}
	bb := p.BoundingBox()
	if bb.Empty {
		t.Fatal("bounding box of a non-empty patch must not be empty")
	}
	if bb.Min != (Vector3{X: 0, Y: 0, Z: -1}) || bb.Max != (Vector3{X: 3, Y: 2, Z: 1}) {
		t.Fatalf("bounding box = %v..%v", bb.Min, bb.Max)
	}
}

func TestBezierPatchGridSize(t *testing.T) {
	pts := flatPatch().Grid(3, 2)
	if len(pts) != 4*3 {
		t.Fatalf("Grid(3, 2) returned %d points, want 12", len(pts))
	}
}

func TestBezierPatchControlArcLengths(t *testing.T) {
	p := flatPatch()
	if got := p.ControlArcLengthU(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("ControlArcLengthU = %v, want 1", got)
	}
	if got := p.ControlArcLengthV(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("ControlArcLengthV = %v, want 1", got)
	}
}
