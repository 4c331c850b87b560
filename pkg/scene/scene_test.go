package scene

import (
	"testing"

	"github.com/chazu/solidgraph/pkg/geom"
)

func box(x, y, z float64) Node3 { return NewShape3(Box3{Size: geom.Vector3{X: x, Y: y, Z: z}}) }

func TestIdentityTransformCollapses(t *testing.T) {
	b := box(1, 2, 3)
	got := NewTransform3(b, geom.Identity3)
	if got.Fingerprint() != b.Fingerprint() {
		t.Fatal("identity transform should be a no-op")
	}
}

func TestNestedTransformsCompose(t *testing.T) {
	b := box(1, 1, 1)
	t1 := geom.Translation3(geom.Vector3{X: 1})
	t2 := geom.Translation3(geom.Vector3{Y: 1})
	nested := NewTransform3(NewTransform3(b, t2), t1)
	flat := NewTransform3(b, t1.Concatenated(t2))
	if nested.Kind() != KindTransform3 {
		t.Fatal("expected a transform node")
	}
	if nested.Fingerprint() != flat.Fingerprint() {
		t.Fatal("nested transforms should fingerprint the same as their composition")
	}
}

func TestEmptyBooleanOperandsAreDropped(t *testing.T) {
	b := box(1, 1, 1)
	got := NewBoolean3(Union, []Node3{Empty3(), b, Empty3()})
	if got.Fingerprint() != b.Fingerprint() {
		t.Fatal("a union with one real operand should collapse to that operand")
	}
}

func TestBooleanOfOnlyEmptyIsEmpty(t *testing.T) {
	got := NewBoolean3(Union, []Node3{Empty3(), Empty3()})
	if !got.IsEmpty() {
		t.Fatal("a union of only-empty operands should be Empty")
	}
}

func TestNestedUnionsFlattenButDifferenceDoesNot(t *testing.T) {
	a, b, c := box(1, 0, 0), box(0, 1, 0), box(0, 0, 1)
	nestedUnion := NewBoolean3(Union, []Node3{NewBoolean3(Union, []Node3{a, b}), c})
	flatUnion := NewBoolean3(Union, []Node3{a, b, c})
	if nestedUnion.Fingerprint() != flatUnion.Fingerprint() {
		t.Fatal("nested unions should flatten to the same fingerprint as one flat union")
	}

	nestedDiff := NewBoolean3(Difference, []Node3{NewBoolean3(Difference, []Node3{a, b}), c})
	_, children, _ := nestedDiff.Boolean()
	if len(children) != 2 {
		t.Fatalf("difference should not flatten nested differences, got %d children", len(children))
	}
}

func TestStructurallyEquivalentSubtreesShareFingerprint(t *testing.T) {
	a := NewTransform3(box(1, 2, 3), geom.Translation3(geom.Vector3{X: 5}))
	b := NewTransform3(box(1, 2, 3), geom.Translation3(geom.Vector3{X: 5}))
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("two independently built but structurally equal nodes must share a fingerprint")
	}
}

func TestDifferentShapesHaveDifferentFingerprints(t *testing.T) {
	a := box(1, 2, 3)
	b := box(1, 2, 4)
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("different box sizes must not collide")
	}
}

func TestZeroCylinderCollapsesToEmpty(t *testing.T) {
	got := NewShape3(Cylinder3{})
	if !got.IsEmpty() {
		t.Fatal("a cylinder with zero radii and height should collapse to Empty")
	}
}

func TestValidateCatchesMalformedMeshFace(t *testing.T) {
	mesh := Mesh3{Data: MeshData{
		Vertices: []geom.Vector3{{}, {X: 1}, {Y: 1}},
		Faces:    [][]int{{0, 1, 5}},
	}}
	result := Validate3(NewShape3(mesh))
	if result.OK() {
		t.Fatal("expected an error for an out-of-range face index")
	}
}

func TestValidatePassesOnWellFormedTree(t *testing.T) {
	tree := NewBoolean3(Difference, []Node3{
		box(10, 10, 10),
		NewTransform3(box(2, 2, 2), geom.Translation3(geom.Vector3{Z: 4})),
	})
	result := Validate3(tree)
	if !result.OK() {
		t.Fatalf("expected no errors, got %+v", result.Errors)
	}
}

func TestZeroAngleRevolutionCollapsesToEmpty(t *testing.T) {
	profile := NewShape2(Rectangle2{Size: geom.Vector2{X: 2, Y: 5}})
	got := NewRevolution3(profile, RevolutionSpec{Angle: geom.Radians(0), SegmentCount: 32})
	if !got.IsEmpty() {
		t.Fatal("a zero-angle revolution should collapse to Empty")
	}
}

func TestRevolutionFingerprintCoversSpec(t *testing.T) {
	profile := NewShape2(Rectangle2{Size: geom.Vector2{X: 2, Y: 5}})
	full := NewRevolution3(profile, RevolutionSpec{Angle: geom.Degrees(360), SegmentCount: 32})
	same := NewRevolution3(profile, RevolutionSpec{Angle: geom.Degrees(360), SegmentCount: 32})
	wedge := NewRevolution3(profile, RevolutionSpec{Angle: geom.Degrees(90), SegmentCount: 32})
	coarse := NewRevolution3(profile, RevolutionSpec{Angle: geom.Degrees(360), SegmentCount: 8})
	if full.Fingerprint() != same.Fingerprint() {
		t.Fatal("equal revolutions must share a fingerprint")
	}
	if full.Fingerprint() == wedge.Fingerprint() {
		t.Fatal("sweep angle must participate in the fingerprint")
	}
	if full.Fingerprint() == coarse.Fingerprint() {
		t.Fatal("segment count must participate in the fingerprint")
	}
}
