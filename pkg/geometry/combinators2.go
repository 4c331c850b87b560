package geometry

import (
	"context"

	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/env"
	"github.com/chazu/solidgraph/pkg/kernel"
	"github.com/chazu/solidgraph/pkg/scene"
)

// NodeBasedGeometry2 is NodeBasedGeometry3's 2D counterpart.
type NodeBasedGeometry2 struct{ Node scene.Node2 }

func (g NodeBasedGeometry2) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult2, error) {
	return elements.BuildResult2{Node: g.Node, Elements: elements.EmptyElements()}, nil
}

type EnvironmentModifier2 struct {
	Child Geometry2
	Fn    func(env.Environment) env.Environment
}

func (m EnvironmentModifier2) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult2, error) {
	return m.Child.Build(ctx, m.Fn(e), ec)
}

type PushEnvironment2 struct{ Child Geometry2 }

func (p PushEnvironment2) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (result elements.BuildResult2, err error) {
	env.WithCurrent(e, func() {
		result, err = p.Child.Build(ctx, e, ec)
	})
	return result, err
}

type GeometryExpressionTransformer2 struct {
	Child  Geometry2
	NodeFn func(scene.Node2) scene.Node2
}

func (t GeometryExpressionTransformer2) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult2, error) {
	built, err := t.Child.Build(ctx, e, ec)
	if err != nil {
		return elements.BuildResult2{}, err
	}
	return elements.BuildResult2{Node: t.NodeFn(built.Node), Elements: built.Elements}, nil
}

type CachingPrimitiveTransformer2 struct {
	Child       Geometry2
	OpName      string
	Params      []scene.CacheParam
	PrimitiveFn func(kernel.Concrete2) (kernel.Concrete2, error)
}

func (t CachingPrimitiveTransformer2) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult2, error) {
	built, err := t.Child.Build(ctx, e, ec)
	if err != nil {
		return elements.BuildResult2{}, err
	}
	node, err := ec.TransformConcrete2(ctx, built.Node, t.OpName, t.Params, t.PrimitiveFn)
	if err != nil {
		return elements.BuildResult2{}, err
	}
	return elements.BuildResult2{Node: node, Elements: built.Elements}, nil
}

type Measure2 struct {
	Target  Geometry2
	Builder func(target elements.BuildResult2, m Measurements2) Geometry2
}

func (m Measure2) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult2, error) {
	built, err := m.Target.Build(ctx, e, ec)
	if err != nil {
		return elements.BuildResult2{}, err
	}
	result, err := ec.Result2(ctx, built.Node)
	if err != nil {
		return elements.BuildResult2{}, err
	}
	measurements, err := ec.Measurements2(ctx, result.Concrete)
	if err != nil {
		return elements.BuildResult2{}, err
	}
	return m.Builder(built, measurements).Build(ctx, e, ec)
}

type ReadPrimitive2 struct {
	Target Geometry2
	Action func(target elements.BuildResult2, concrete kernel.Concrete2) Geometry2
}

func (r ReadPrimitive2) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult2, error) {
	built, err := r.Target.Build(ctx, e, ec)
	if err != nil {
		return elements.BuildResult2{}, err
	}
	result, err := ec.Result2(ctx, built.Node)
	if err != nil {
		return elements.BuildResult2{}, err
	}
	return r.Action(built, result.Concrete).Build(ctx, e, ec)
}

type CachedBoxedGeometry2 struct {
	Key   string
	Thunk func() Geometry2
}

func (c CachedBoxedGeometry2) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult2, error) {
	return ec.CachedBuildResult2(ctx, c.Key, c.Thunk)
}
