package geometry

import (
	"context"

	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/env"
	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/kernel"
	"github.com/chazu/solidgraph/pkg/scene"
)

// Geometry3 is any user-visible composable 3D geometry value: building it
// yields the node it lowers to plus every auxiliary element gathered
// along the way.
type Geometry3 interface {
	Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult3, error)
}

// Geometry2 is Geometry3's 2D counterpart.
type Geometry2 interface {
	Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult2, error)
}

// ConcreteResult3 is the outcome of concretizing a Node3: the kernel
// handle, the material lookup accumulated up to that node, and the
// BuildResult the node itself came from (spec.md §4.7).
type ConcreteResult3 struct {
	Concrete  kernel.Concrete3
	Materials elements.MaterialMapping
	Build     elements.BuildResult3
}

type ConcreteResult2 struct {
	Concrete  kernel.Concrete2
	Materials elements.MaterialMapping
	Build     elements.BuildResult2
}

// Measurements3 is the read-only set of properties exposed after
// concretizing a 3D node (spec.md §4.10).
type Measurements3 struct {
	BoundingBox   geom.BoundingBox3
	PointCount    int
	IsEmpty       bool
	SurfaceArea   float64
	Volume        float64
	EdgeCount     int
	TriangleCount int
}

// Measurements2 is Measurements3's 2D counterpart.
type Measurements2 struct {
	BoundingBox  geom.BoundingBox2
	PointCount   int
	IsEmpty      bool
	Area         float64
	ContourCount int
	IsConvex     bool
}

// EvaluationContext is the engine-shaped surface a Geometry's Build
// method calls back into. pkg/eval.Engine implements it; defining it here
// instead of there breaks what would otherwise be an import cycle (eval
// needs to build Geometry values, geometry needs to call back into eval).
type EvaluationContext interface {
	// BuildResult3 forwards to g.Build(ctx, e, ec) except when g is a
	// CachedBoxedGeometry3, handled instead by CachedBuildResult3.
	BuildResult3(ctx context.Context, g Geometry3, e env.Environment) (elements.BuildResult3, error)
	BuildResult2(ctx context.Context, g Geometry2, e env.Environment) (elements.BuildResult2, error)

	// Result3 concretizes node, memoized by node.Fingerprint() so that
	// concurrent callers asking for the same fingerprint share one
	// computation (spec.md §4.7's at-most-one guarantee).
	Result3(ctx context.Context, node scene.Node3) (ConcreteResult3, error)
	Result2(ctx context.Context, node scene.Node2) (ConcreteResult2, error)

	// TransformConcrete3 concretizes child, applies fn to the result, and
	// returns a synthetic node the engine already holds a concrete for,
	// memoized under child's fingerprint combined with opName and params
	// (spec.md §4.6's CachingPrimitiveTransformer).
	TransformConcrete3(ctx context.Context, child scene.Node3, opName string, params []scene.CacheParam, fn func(kernel.Concrete3) (kernel.Concrete3, error)) (scene.Node3, error)
	TransformConcrete2(ctx context.Context, child scene.Node2, opName string, params []scene.CacheParam, fn func(kernel.Concrete2) (kernel.Concrete2, error)) (scene.Node2, error)

	Measurements3(ctx context.Context, concrete kernel.Concrete3) (Measurements3, error)
	Measurements2(ctx context.Context, concrete kernel.Concrete2) (Measurements2, error)

	// CachedBuildResult3 memoizes thunk()'s eventual BuildResult under the
	// opaque, user-chosen key (spec.md §4.7's buildResult memoization for
	// Cached* geometries).
	CachedBuildResult3(ctx context.Context, key string, thunk func() Geometry3) (elements.BuildResult3, error)
	CachedBuildResult2(ctx context.Context, key string, thunk func() Geometry2) (elements.BuildResult2, error)

	// RegisterMaterial3 records the elements.Material a scene.Material3
	// node's key resolves to, so that later concretization of any
	// scene.Node3 wrapped with that key (spec.md §4.3's node-level
	// material attachment) can recover the actual Material value: scene
	// cannot carry elements.Material directly without an import cycle
	// (pkg/elements already imports pkg/scene), so the node only carries
	// the key and the engine keeps the key->Material side table.
	RegisterMaterial3(key string, m elements.Material)
}
