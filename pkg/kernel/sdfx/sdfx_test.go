package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/kernel"
)

func TestBoxDecomposesToNonEmptyMesh(t *testing.T) {
	k := New3()
	box, err := k.Box(geom.Vector3{X: 100, Y: 50, Z: 25}, 1)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	mesh, err := k.Decompose(box)
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.TriangleOriginalIDs) != mesh.TriangleCount() {
		t.Fatalf("expected one OriginalID per triangle, got %d for %d triangles",
			len(mesh.TriangleOriginalIDs), mesh.TriangleCount())
	}
	for _, id := range mesh.TriangleOriginalIDs {
		if id != 1 {
			t.Errorf("triangle attributed to OriginalID %d, want 1 (the only leaf)", id)
		}
	}
}

func TestBoxBoundingBoxAtOrigin(t *testing.T) {
	k := New3()
	box, _ := k.Box(geom.Vector3{X: 100, Y: 50, Z: 25}, 1)
	bb := box.BoundingBox()
	const tol = 0.01
	if math.Abs(bb.Min.X) > tol || math.Abs(bb.Min.Y) > tol || math.Abs(bb.Min.Z) > tol {
		t.Errorf("min = %v, want (0,0,0)", bb.Min)
	}
	if math.Abs(bb.Max.X-100) > tol || math.Abs(bb.Max.Y-50) > tol || math.Abs(bb.Max.Z-25) > tol {
		t.Errorf("max = %v, want (100,50,25)", bb.Max)
	}
}

func TestCylinderDecomposes(t *testing.T) {
	k := New3()
	cyl, err := k.Cylinder(10, 10, 50, 32, 1)
	if err != nil {
		t.Fatalf("Cylinder() error = %v", err)
	}
	mesh, err := k.Decompose(cyl)
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
}

func TestTransformTranslatesBoundingBox(t *testing.T) {
	k := New3()
	box, _ := k.Box(geom.Vector3{X: 10, Y: 10, Z: 10}, 1)
	moved, err := k.Transform(box, geom.Translation3(geom.Vector3{X: 100, Y: 200, Z: 300}))
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	bb := moved.BoundingBox()
	const tol = 0.5
	if math.Abs(bb.Min.X-100) > tol || math.Abs(bb.Min.Y-200) > tol || math.Abs(bb.Min.Z-300) > tol {
		t.Errorf("min = %v, want ~(100,200,300)", bb.Min)
	}
	if math.Abs(bb.Max.X-110) > tol || math.Abs(bb.Max.Y-210) > tol || math.Abs(bb.Max.Z-310) > tol {
		t.Errorf("max = %v, want ~(110,210,310)", bb.Max)
	}
}

func TestBooleanDifferenceIncreasesTriangleCount(t *testing.T) {
	k := New3()
	box, _ := k.Box(geom.Vector3{X: 100, Y: 100, Z: 100}, 1)
	cyl, _ := k.Cylinder(20, 20, 120, 32, 2)
	cyl, _ = k.Transform(cyl, geom.Translation3(geom.Vector3{X: 50, Y: 50, Z: -10}))

	boxMesh, err := k.Decompose(box)
	if err != nil {
		t.Fatalf("Decompose(box) error = %v", err)
	}
	diff, err := k.Boolean(kernel.Difference, []kernel.Concrete3{box, cyl})
	if err != nil {
		t.Fatalf("Boolean() error = %v", err)
	}
	diffMesh, err := k.Decompose(diff)
	if err != nil {
		t.Fatalf("Decompose(diff) error = %v", err)
	}
	if diffMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestSplitByPlaneOrdersPositiveFirst(t *testing.T) {
	k := New3()
	box, _ := k.Box(geom.Vector3{X: 100, Y: 100, Z: 100}, 1)
	plane := geom.PlaneThrough(geom.Vector3{X: 50, Y: 0, Z: 0}, geom.AxisX3)

	positive, negative, err := k.SplitByPlane(box, plane)
	if err != nil {
		t.Fatalf("SplitByPlane() error = %v", err)
	}
	posBB := positive.BoundingBox()
	negBB := negative.BoundingBox()
	if posBB.Min.X < 50-0.5 {
		t.Errorf("positive half should stay on the +X side of the plane, got min.X = %f", posBB.Min.X)
	}
	if negBB.Max.X > 50+0.5 {
		t.Errorf("negative half should stay on the -X side of the plane, got max.X = %f", negBB.Max.X)
	}
}

func TestRectangleOutlineDecomposesExactly(t *testing.T) {
	k := New2()
	rect, err := k.Rectangle(geom.Vector2{X: 10, Y: 20})
	if err != nil {
		t.Fatalf("Rectangle() error = %v", err)
	}
	polys, err := k.Decompose(rect)
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}
	if polys.IsEmpty() {
		t.Fatal("expected a non-empty polygon set for a rectangle")
	}
	if len(polys.Loops[0]) != 8 {
		t.Fatalf("expected 4 vertices (8 floats) for a rectangle outline, got %d floats", len(polys.Loops[0]))
	}
}

func TestOffsetGrowsRectangleBoundingBox(t *testing.T) {
	k := New2()
	rect, _ := k.Rectangle(geom.Vector2{X: 10, Y: 10})
	grown, err := k.Offset(rect, 5, kernel.JoinRound)
	if err != nil {
		t.Fatalf("Offset() error = %v", err)
	}
	bb := grown.BoundingBox()
	size := bb.Size()
	if size.X < 19 || size.Y < 19 {
		t.Errorf("offset by +5 on each side should roughly double extents, got size = %v", size)
	}
}

func TestRevolveRectangleBoundingBox(t *testing.T) {
	k3 := New3()
	k2 := New2()
	profile, err := k2.Rectangle(geom.Vector2{X: 4, Y: 10})
	if err != nil {
		t.Fatalf("Rectangle() error = %v", err)
	}
	solid, err := k3.Revolve(profile, kernel.RevolveSpec{Angle: 2 * math.Pi, Segments: 32})
	if err != nil {
		t.Fatalf("Revolve() error = %v", err)
	}
	bb := solid.BoundingBox()
	// The 4-wide profile sits in [0, 4] on X; a full turn around Z sweeps
	// it to a radius-4 disc.
	if bb.Max.X < 3.9 || bb.Min.X > -3.9 {
		t.Errorf("revolved solid should span roughly [-4, 4] on X, got [%v, %v]", bb.Min.X, bb.Max.X)
	}
	if bb.Max.Y < 3.9 || bb.Min.Y > -3.9 {
		t.Errorf("revolved solid should span roughly [-4, 4] on Y, got [%v, %v]", bb.Min.Y, bb.Max.Y)
	}
}
