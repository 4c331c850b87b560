//go:build manifold

package manifold

import (
	"math"
	"testing"

	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/kernel"
)

func mustNew3(t *testing.T) kernel.Kernel3 {
	t.Helper()
	k, err := New3()
	if err != nil {
		t.Fatalf("New3() error = %v", err)
	}
	return k
}

func TestBoxBoundingBox(t *testing.T) {
	k := mustNew3(t)
	s, err := k.Box(geom.Vector3{X: 4, Y: 6, Z: 8}, 1)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	bb := s.BoundingBox()
	if math.Abs(bb.Min.X) > 1e-6 || math.Abs(bb.Min.Y) > 1e-6 || math.Abs(bb.Min.Z) > 1e-6 {
		t.Errorf("BoundingBox min = %v, want (0,0,0)", bb.Min)
	}
	if math.Abs(bb.Max.X-4) > 1e-6 || math.Abs(bb.Max.Y-6) > 1e-6 || math.Abs(bb.Max.Z-8) > 1e-6 {
		t.Errorf("BoundingBox max = %v, want (4,6,8)", bb.Max)
	}
}

func TestDifferenceKeepsBoxFootprint(t *testing.T) {
	k := mustNew3(t)
	box, _ := k.Box(geom.Vector3{X: 10, Y: 10, Z: 10}, 1)
	hole, _ := k.Cylinder(3, 3, 20, 32, 2)
	result, err := k.Boolean(kernel.Difference, []kernel.Concrete3{box, hole})
	if err != nil {
		t.Fatalf("Boolean() error = %v", err)
	}
	bb := result.BoundingBox()
	want := geom.NewBoundingBox3(geom.Vector3{X: 0, Y: 0, Z: 0}, geom.Vector3{X: 10, Y: 10, Z: 10})
	if math.Abs(bb.Min.X-want.Min.X) > 1e-6 || math.Abs(bb.Max.X-want.Max.X) > 1e-6 {
		t.Errorf("Difference bounding box = %+v, want %+v", bb, want)
	}
}

func TestTransformTranslates(t *testing.T) {
	k := mustNew3(t)
	box, _ := k.Box(geom.Vector3{X: 10, Y: 10, Z: 10}, 1)
	moved, err := k.Transform(box, geom.Translation3(geom.Vector3{X: 100, Y: 200, Z: 300}))
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	bb := moved.BoundingBox()
	if math.Abs(bb.Min.X-100) > 1e-6 || math.Abs(bb.Max.X-110) > 1e-6 {
		t.Errorf("Transform() did not translate as expected: %+v", bb)
	}
}

func TestDecomposeBox(t *testing.T) {
	k := mustNew3(t)
	box, _ := k.Box(geom.Vector3{X: 10, Y: 10, Z: 10}, 1)
	mesh, err := k.Decompose(box)
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("Decompose() returned empty mesh for a box")
	}
	if mesh.TriangleCount() < 12 {
		t.Errorf("TriangleCount() = %d, want >= 12", mesh.TriangleCount())
	}
	if len(mesh.Normals) != len(mesh.Vertices) {
		t.Errorf("normals length %d != vertices length %d", len(mesh.Normals), len(mesh.Vertices))
	}
	if len(mesh.TriangleOriginalIDs) != mesh.TriangleCount() {
		t.Errorf("expected one OriginalID per triangle, got %d for %d triangles",
			len(mesh.TriangleOriginalIDs), mesh.TriangleCount())
	}
}

func TestSplitByPlane(t *testing.T) {
	k := mustNew3(t)
	box, _ := k.Box(geom.Vector3{X: 10, Y: 10, Z: 10}, 1)
	plane := geom.PlaneZ(0)
	positive, negative, err := k.SplitByPlane(box, plane)
	if err != nil {
		t.Fatalf("SplitByPlane() error = %v", err)
	}
	if positive.BoundingBox().Min.Z < -1e-6 {
		t.Error("positive half should stay at z >= 0")
	}
	if negative.BoundingBox().Max.Z > 1e-6 {
		t.Error("negative half should stay at z <= 0")
	}
}
