package measure

import (
	"context"

	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/eval"
	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/geometry"
	"github.com/chazu/solidgraph/pkg/scene"
)

// Scope selects which subset of a build's part catalog a Measure call
// folds into its result, mirroring spec.md §4.10's "the scope can be
// mainPart, solidParts, or allParts".
type Scope int

const (
	// ScopeMainPart measures only the build's own (uncataloged) node.
	ScopeMainPart Scope = iota
	// ScopeSolidParts sums the main node plus every SemanticSolid part.
	ScopeSolidParts
	// ScopeAllParts sums the main node plus every cataloged part,
	// regardless of semantic.
	ScopeAllParts
)

// Measure3 concretizes build's main node and, depending on scope, its
// cataloged 3D parts, and sums the resulting measurements.
func Measure3(ctx context.Context, engine *eval.Engine, build elements.BuildResult3, scope Scope) (geometry.Measurements3, error) {
	total, err := measureNode3(ctx, engine, build.Node)
	if err != nil {
		return geometry.Measurements3{}, err
	}
	if scope == ScopeMainPart {
		return total, nil
	}
	for _, entry := range build.Elements.Parts.Entries() {
		if scope == ScopeSolidParts && entry.Part.Semantic != elements.SemanticSolid {
			continue
		}
		for _, r := range entry.Results {
			m, err := measureNode3(ctx, engine, r.Node)
			if err != nil {
				return geometry.Measurements3{}, err
			}
			total = sumMeasurements3(total, m)
		}
	}
	return total, nil
}

// Measure2 is Measure3's 2D counterpart. 2D builds carry no part
// catalog of their own (pkg/export.AssembleSVG), so it takes no scope and
// measures build.Node alone; an empty node measures as empty.
func Measure2(ctx context.Context, engine *eval.Engine, build elements.BuildResult2) (geometry.Measurements2, error) {
	return measureNode2(ctx, engine, build.Node)
}

func measureNode3(ctx context.Context, engine *eval.Engine, node scene.Node3) (geometry.Measurements3, error) {
	if node.IsEmpty() {
		return geometry.Measurements3{IsEmpty: true, BoundingBox: geom.EmptyBoundingBox3()}, nil
	}
	result, err := engine.Result3(ctx, node)
	if err != nil {
		return geometry.Measurements3{}, err
	}
	return engine.Measurements3(ctx, result.Concrete)
}

func measureNode2(ctx context.Context, engine *eval.Engine, node scene.Node2) (geometry.Measurements2, error) {
	if node.IsEmpty() {
		return geometry.Measurements2{IsEmpty: true, BoundingBox: geom.EmptyBoundingBox2()}, nil
	}
	result, err := engine.Result2(ctx, node)
	if err != nil {
		return geometry.Measurements2{}, err
	}
	return engine.Measurements2(ctx, result.Concrete)
}

// sumMeasurements3 folds b into a the way spec.md §4.10's "summing over
// the relevant subset of the part catalog" requires: extensive
// quantities (volume, area, counts) add; the bounding box unions;
// IsEmpty survives only if every contributor was empty.
func sumMeasurements3(a, b geometry.Measurements3) geometry.Measurements3 {
	return geometry.Measurements3{
		BoundingBox:   a.BoundingBox.Union(b.BoundingBox),
		PointCount:    a.PointCount + b.PointCount,
		IsEmpty:       a.IsEmpty && b.IsEmpty,
		SurfaceArea:   a.SurfaceArea + b.SurfaceArea,
		Volume:        a.Volume + b.Volume,
		EdgeCount:     a.EdgeCount + b.EdgeCount,
		TriangleCount: a.TriangleCount + b.TriangleCount,
	}
}
