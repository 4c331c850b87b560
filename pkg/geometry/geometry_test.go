package geometry

import (
	"context"
	"errors"
	"testing"

	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/env"
	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/kernel"
	"github.com/chazu/solidgraph/pkg/scene"
)

type stubConcrete3 struct{ bb geom.BoundingBox3 }

func (s stubConcrete3) BoundingBox() geom.BoundingBox3 { return s.bb }

type stubContext struct {
	transformCalls int
	cacheCalls     map[string]int
}

func newStubContext() *stubContext {
	return &stubContext{cacheCalls: map[string]int{}}
}

func (c *stubContext) BuildResult3(ctx context.Context, g Geometry3, e env.Environment) (elements.BuildResult3, error) {
	return g.Build(ctx, e, c)
}
func (c *stubContext) BuildResult2(ctx context.Context, g Geometry2, e env.Environment) (elements.BuildResult2, error) {
	return g.Build(ctx, e, c)
}
func (c *stubContext) Result3(ctx context.Context, node scene.Node3) (ConcreteResult3, error) {
	if op, ok := node.Opaque(); ok {
		return ConcreteResult3{Concrete: op.Concrete.(kernel.Concrete3)}, nil
	}
	return ConcreteResult3{Concrete: stubConcrete3{}}, nil
}
func (c *stubContext) Result2(ctx context.Context, node scene.Node2) (ConcreteResult2, error) {
	return ConcreteResult2{}, nil
}
func (c *stubContext) TransformConcrete3(ctx context.Context, child scene.Node3, opName string, params []scene.CacheParam, fn func(kernel.Concrete3) (kernel.Concrete3, error)) (scene.Node3, error) {
	c.transformCalls++
	result, err := fn(stubConcrete3{})
	if err != nil {
		return scene.Node3{}, err
	}
	fp := scene.CombinedFingerprint(child.Fingerprint(), opName, params)
	return scene.NewOpaque3(result, fp), nil
}
func (c *stubContext) TransformConcrete2(ctx context.Context, child scene.Node2, opName string, params []scene.CacheParam, fn func(kernel.Concrete2) (kernel.Concrete2, error)) (scene.Node2, error) {
	return scene.Node2{}, nil
}
func (c *stubContext) Measurements3(ctx context.Context, concrete kernel.Concrete3) (Measurements3, error) {
	return Measurements3{BoundingBox: concrete.BoundingBox()}, nil
}
func (c *stubContext) Measurements2(ctx context.Context, concrete kernel.Concrete2) (Measurements2, error) {
	return Measurements2{}, nil
}
func (c *stubContext) CachedBuildResult3(ctx context.Context, key string, thunk func() Geometry3) (elements.BuildResult3, error) {
	c.cacheCalls[key]++
	return thunk().Build(ctx, env.Default, c)
}
func (c *stubContext) CachedBuildResult2(ctx context.Context, key string, thunk func() Geometry2) (elements.BuildResult2, error) {
	return elements.BuildResult2{}, nil
}

var _ EvaluationContext = (*stubContext)(nil)

func TestNodeBasedGeometry3ReturnsItsNode(t *testing.T) {
	node := scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 1, Y: 1, Z: 1}})
	g := NodeBasedGeometry3{Node: node}
	result, err := g.Build(context.Background(), env.Default, newStubContext())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Node.Fingerprint() != node.Fingerprint() {
		t.Error("NodeBasedGeometry3 did not return its own node")
	}
}

func TestEnvironmentModifier3AppliesFn(t *testing.T) {
	var seenTolerance float64
	child := captureGeometry3{fn: func(e env.Environment) { seenTolerance = e.ToleranceValue() }}
	g := EnvironmentModifier3{Child: child, Fn: func(e env.Environment) env.Environment { return e.WithTolerance(0.5) }}
	if _, err := g.Build(context.Background(), env.Default, newStubContext()); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if seenTolerance != 0.5 {
		t.Errorf("tolerance seen by child = %v, want 0.5", seenTolerance)
	}
}

type captureGeometry3 struct{ fn func(env.Environment) }

func (c captureGeometry3) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult3, error) {
	c.fn(e)
	return elements.BuildResult3{Node: scene.Empty3(), Elements: elements.EmptyElements()}, nil
}

func TestGeometryExpressionTransformer3Rewraps(t *testing.T) {
	child := NodeBasedGeometry3{Node: scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 1, Y: 1, Z: 1}})}
	t1 := geom.Translation3(geom.Vector3{X: 5, Y: 0, Z: 0})
	g := GeometryExpressionTransformer3{Child: child, NodeFn: func(n scene.Node3) scene.Node3 { return scene.NewTransform3(n, t1) }}
	result, err := g.Build(context.Background(), env.Default, newStubContext())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, _, ok := result.Node.Transform(); !ok {
		t.Error("expected a transform node after rewrap")
	}
}

func TestCachingPrimitiveTransformer3MemoizesViaContext(t *testing.T) {
	child := NodeBasedGeometry3{Node: scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 1, Y: 1, Z: 1}})}
	g := CachingPrimitiveTransformer3{
		Child:  child,
		OpName: "convexHull",
		PrimitiveFn: func(c kernel.Concrete3) (kernel.Concrete3, error) {
			return stubConcrete3{bb: geom.NewBoundingBox3(geom.Vector3{}, geom.Vector3{X: 1, Y: 1, Z: 1})}, nil
		},
	}
	ctx := newStubContext()
	result, err := g.Build(context.Background(), env.Default, ctx)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, ok := result.Node.Opaque(); !ok {
		t.Error("expected an opaque node carrying the transformed concrete")
	}
	if ctx.transformCalls != 1 {
		t.Errorf("transformCalls = %d, want 1", ctx.transformCalls)
	}
}

func TestMeasure3InvokesBuilderWithMeasurements(t *testing.T) {
	target := NodeBasedGeometry3{Node: scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 2, Y: 2, Z: 2}})}
	called := false
	g := Measure3{
		Target: target,
		Builder: func(b elements.BuildResult3, m Measurements3) Geometry3 {
			called = true
			return NodeBasedGeometry3{Node: b.Node}
		},
	}
	if _, err := g.Build(context.Background(), env.Default, newStubContext()); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !called {
		t.Error("Measure3 did not invoke Builder")
	}
}

func TestReadPrimitive3ExposesConcrete(t *testing.T) {
	target := NodeBasedGeometry3{Node: scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 1, Y: 1, Z: 1}})}
	var gotConcrete kernel.Concrete3
	g := ReadPrimitive3{
		Target: target,
		Action: func(b elements.BuildResult3, c kernel.Concrete3) Geometry3 {
			gotConcrete = c
			return NodeBasedGeometry3{Node: b.Node}
		},
	}
	if _, err := g.Build(context.Background(), env.Default, newStubContext()); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if gotConcrete == nil {
		t.Error("ReadPrimitive3 did not expose a concrete to Action")
	}
}

func TestCachedBoxedGeometry3DelegatesToContext(t *testing.T) {
	g := CachedBoxedGeometry3{
		Key:   "import:bracket.3mf",
		Thunk: func() Geometry3 { return NodeBasedGeometry3{Node: scene.Empty3()} },
	}
	ctx := newStubContext()
	if _, err := g.Build(context.Background(), env.Default, ctx); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if ctx.cacheCalls["import:bracket.3mf"] != 1 {
		t.Errorf("cacheCalls[key] = %d, want 1", ctx.cacheCalls["import:bracket.3mf"])
	}
}

func TestPropagatesChildError(t *testing.T) {
	wantErr := errors.New("boom")
	child := erroringGeometry3{err: wantErr}
	g := GeometryExpressionTransformer3{Child: child, NodeFn: func(n scene.Node3) scene.Node3 { return n }}
	_, err := g.Build(context.Background(), env.Default, newStubContext())
	if !errors.Is(err, wantErr) {
		t.Errorf("Build() error = %v, want %v", err, wantErr)
	}
}

type erroringGeometry3 struct{ err error }

func (eg erroringGeometry3) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult3, error) {
	return elements.BuildResult3{}, eg.err
}
