package elements

import (
	"testing"

	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/scene"
)

func TestPartEqualityIsByIdentityNotName(t *testing.T) {
	a := NewPart("bracket", SemanticSolid, DefaultMaterial)
	b := NewPart("bracket", SemanticSolid, DefaultMaterial)
	if a.Equal(b) {
		t.Fatal("two separately constructed parts with the same name must not be equal")
	}
}

func TestInPartRoutesNodeOutOfMainModel(t *testing.T) {
	node := scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 1, Y: 1, Z: 1}})
	part := NewPart("enclosure", SemanticSolid, DefaultMaterial)
	built := BuildResult3{Node: node, Elements: EmptyElements()}

	routed := InPart(built, part)
	if !routed.Node.IsEmpty() {
		t.Fatal("inPart should replace the returned node with Empty")
	}
	entries := routed.Elements.Parts.Entries()
	if len(entries) != 1 || len(entries[0].Results) != 1 {
		t.Fatalf("expected exactly one catalog entry with one result, got %+v", entries)
	}
}

func TestMainPartKeepsNodeInline(t *testing.T) {
	node := scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 1, Y: 1, Z: 1}})
	part := NewPart("base", SemanticSolid, DefaultMaterial)
	built := BuildResult3{Node: node, Elements: EmptyElements()}

	routed := MainPart(built, part)
	if routed.Node.Fingerprint() != node.Fingerprint() {
		t.Fatal("mainPart should keep the node inline")
	}
	if len(routed.Elements.Parts.Entries()) != 1 {
		t.Fatal("mainPart should still catalog the part")
	}
}

func TestCombineUnionsCatalogsByBucket(t *testing.T) {
	part := NewPart("shared", SemanticSolid, DefaultMaterial)
	a := InPart(BuildResult3{Node: scene.NewShape3(scene.Box3{}), Elements: EmptyElements()}, part)
	b := InPart(BuildResult3{Node: scene.NewShape3(scene.Box3{}), Elements: EmptyElements()}, part)

	combined := Combine([]ResultElementTable{a.Elements, b.Elements})
	entries := combined.Parts.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one bucket for the shared part, got %d", len(entries))
	}
	if len(entries[0].Results) != 2 {
		t.Fatalf("expected both results concatenated into the bucket, got %d", len(entries[0].Results))
	}
}
