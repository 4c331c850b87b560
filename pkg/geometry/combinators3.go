package geometry

import (
	"context"

	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/env"
	"github.com/chazu/solidgraph/pkg/kernel"
	"github.com/chazu/solidgraph/pkg/scene"
)

// NodeBasedGeometry3 wraps an already-built node with no auxiliary
// elements; every shape/transform/boolean constructor in a higher-level
// builder package ultimately bottoms out here.
type NodeBasedGeometry3 struct{ Node scene.Node3 }

func (g NodeBasedGeometry3) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult3, error) {
	return elements.BuildResult3{Node: g.Node, Elements: elements.EmptyElements()}, nil
}

// EnvironmentModifier3 builds Child in Fn(e) instead of e — the
// mechanism every environment-scoped setting (material, segmentation,
// tolerance) is implemented through.
type EnvironmentModifier3 struct {
	Child Geometry3
	Fn    func(env.Environment) env.Environment
}

func (m EnvironmentModifier3) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult3, error) {
	return m.Child.Build(ctx, m.Fn(e), ec)
}

// PushEnvironment3 builds Child with e additionally bound as the
// goroutine-local "current" environment, so code deeper in Child's call
// stack can reach it via env.ReadCurrent without an explicit parameter.
type PushEnvironment3 struct{ Child Geometry3 }

func (p PushEnvironment3) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (result elements.BuildResult3, err error) {
	env.WithCurrent(e, func() {
		result, err = p.Child.Build(ctx, e, ec)
	})
	return result, err
}

// GeometryExpressionTransformer3 builds Child then rewraps its node
// through NodeFn, leaving Child's elements untouched.
type GeometryExpressionTransformer3 struct {
	Child  Geometry3
	NodeFn func(scene.Node3) scene.Node3
}

func (t GeometryExpressionTransformer3) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult3, error) {
	built, err := t.Child.Build(ctx, e, ec)
	if err != nil {
		return elements.BuildResult3{}, err
	}
	return elements.BuildResult3{Node: t.NodeFn(built.Node), Elements: built.Elements}, nil
}

// CachingPrimitiveTransformer3 builds Child, asks the engine to run
// PrimitiveFn over its concretization, and returns a synthetic node
// wrapping the result, memoized under OpName/Params combined with
// Child's fingerprint.
type CachingPrimitiveTransformer3 struct {
	Child       Geometry3
	OpName      string
	Params      []scene.CacheParam
	PrimitiveFn func(kernel.Concrete3) (kernel.Concrete3, error)
}

func (t CachingPrimitiveTransformer3) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult3, error) {
	built, err := t.Child.Build(ctx, e, ec)
	if err != nil {
		return elements.BuildResult3{}, err
	}
	node, err := ec.TransformConcrete3(ctx, built.Node, t.OpName, t.Params, t.PrimitiveFn)
	if err != nil {
		return elements.BuildResult3{}, err
	}
	return elements.BuildResult3{Node: node, Elements: built.Elements}, nil
}

// Measure3 builds Target, concretizes it, computes Measurements3, and
// builds whatever Builder returns from them — the only way a
// measurement re-enters the composition (spec.md §4.6).
type Measure3 struct {
	Target  Geometry3
	Builder func(target elements.BuildResult3, m Measurements3) Geometry3
}

func (m Measure3) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult3, error) {
	built, err := m.Target.Build(ctx, e, ec)
	if err != nil {
		return elements.BuildResult3{}, err
	}
	result, err := ec.Result3(ctx, built.Node)
	if err != nil {
		return elements.BuildResult3{}, err
	}
	measurements, err := ec.Measurements3(ctx, result.Concrete)
	if err != nil {
		return elements.BuildResult3{}, err
	}
	return m.Builder(built, measurements).Build(ctx, e, ec)
}

// ReadPrimitive3 is Measure3's lower-level sibling: it exposes the raw
// concrete and the child's BuildResult directly instead of a derived
// Measurements3, for callers that need identity (a mask's fingerprint
// for split(with:)) rather than a computed property.
type ReadPrimitive3 struct {
	Target Geometry3
	Action func(target elements.BuildResult3, concrete kernel.Concrete3) Geometry3
}

func (r ReadPrimitive3) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult3, error) {
	built, err := r.Target.Build(ctx, e, ec)
	if err != nil {
		return elements.BuildResult3{}, err
	}
	result, err := ec.Result3(ctx, built.Node)
	if err != nil {
		return elements.BuildResult3{}, err
	}
	return r.Action(built, result.Concrete).Build(ctx, e, ec)
}

// CachedBoxedGeometry3 memoizes Thunk's entire BuildResult under the
// opaque, user-named Key — the mechanism imports and cached(as:) build
// on, where the same key should reuse one computation across a design's
// whole evaluation regardless of how many places reference it.
type CachedBoxedGeometry3 struct {
	Key   string
	Thunk func() Geometry3
}

func (c CachedBoxedGeometry3) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult3, error) {
	return ec.CachedBuildResult3(ctx, c.Key, c.Thunk)
}
