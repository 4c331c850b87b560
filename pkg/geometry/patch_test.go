package geometry

import (
	"context"
	"testing"

	"github.com/chazu/solidgraph/pkg/env"
	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/scene"
	"github.com/chazu/solidgraph/pkg/segment"
)

func testPatch() geom.BezierPatch {
	return geom.BezierPatch{Control: [][]geom.Vector3{
		{{X: 0, Y: 0}, {X: 0, Y: 10}},
		{{X: 10, Y: 0, Z: 4}, {X: 10, Y: 10, Z: 4}},
	}}
}

func TestBezierPatchGeometry3LowersToMesh(t *testing.T) {
	g := BezierPatchGeometry3{Patch: testPatch(), Thickness: 1}
	built, err := g.Build(context.Background(), env.Default, newStubContext())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	shape, ok := built.Node.Shape()
	if !ok {
		t.Fatalf("expected a shape node, got kind %v", built.Node.Kind())
	}
	mesh, ok := shape.(scene.Mesh3)
	if !ok {
		t.Fatalf("expected a Mesh3 shape, got %T", shape)
	}
	if len(mesh.Data.Vertices) == 0 || len(mesh.Data.Faces) == 0 {
		t.Fatal("tessellated patch must have vertices and faces")
	}
	// Every face index must be in range (the slab stitches top, bottom,
	// and four walls out of one shared vertex list).
	for _, face := range mesh.Data.Faces {
		if len(face) < 3 {
			t.Fatalf("face with %d vertices", len(face))
		}
		for _, idx := range face {
			if idx < 0 || idx >= len(mesh.Data.Vertices) {
				t.Fatalf("face index %d out of range [0, %d)", idx, len(mesh.Data.Vertices))
			}
		}
	}
}

func TestBezierPatchGeometry3RejectsZeroThickness(t *testing.T) {
	g := BezierPatchGeometry3{Patch: testPatch()}
	if _, err := g.Build(context.Background(), env.Default, newStubContext()); err == nil {
		t.Fatal("expected an error for zero thickness")
	}
}

func TestBezierPatchGeometry3SegmentationAffectsFingerprint(t *testing.T) {
	g := BezierPatchGeometry3{Patch: testPatch(), Thickness: 1}
	coarse := env.Default.WithSegmentationPolicy(segment.FixedPolicy(4))
	fine := env.Default.WithSegmentationPolicy(segment.FixedPolicy(24))

	a, err := g.Build(context.Background(), coarse, newStubContext())
	if err != nil {
		t.Fatalf("Build coarse: %v", err)
	}
	b, err := g.Build(context.Background(), coarse, newStubContext())
	if err != nil {
		t.Fatalf("Build coarse again: %v", err)
	}
	c, err := g.Build(context.Background(), fine, newStubContext())
	if err != nil {
		t.Fatalf("Build fine: %v", err)
	}
	if a.Node.Fingerprint() != b.Node.Fingerprint() {
		t.Fatal("same patch under the same segmentation must share a fingerprint")
	}
	if a.Node.Fingerprint() == c.Node.Fingerprint() {
		t.Fatal("segmentation must be captured in the lowered mesh")
	}
}
