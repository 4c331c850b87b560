// Package kernel defines the abstract geometry kernel interface the
// evaluation engine lowers GeometryNode values through. Implementations
// (sdfx, manifold) provide the actual solid-modelling and boolean
// operations behind this interface; this package only specifies the
// contract and the concrete mesh/polygon-set result types that cross it.
package kernel

import (
	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/geom"
)

// Concrete3 is an opaque kernel-native 3D solid handle. Its only
// observable property at this layer is its bounding box; everything else
// (triangulation, boolean combination, measurement) goes through a
// Kernel3 method.
type Concrete3 interface {
	BoundingBox() geom.BoundingBox3
}

// Concrete2 is the 2D analog: an opaque kernel-native polygon-set handle.
type Concrete2 interface {
	BoundingBox() geom.BoundingBox2
}

// JoinStyle controls how an Offset operation treats convex corners.
type JoinStyle int

const (
	JoinRound JoinStyle = iota
	JoinMiter
	JoinBevel
)

// ErrorKind enumerates the ways a kernel operation can fail without the
// engine attempting to recover.
type ErrorKind int

const (
	KindNonManifold ErrorKind = iota
	KindEmptyResult
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindNonManifold:
		return "non-manifold"
	case KindEmptyResult:
		return "empty-result"
	default:
		return "unsupported"
	}
}

// KernelError is the structured failure the engine surfaces for any
// kernel operation; the engine never retries and never inspects Cause
// beyond reporting it.
type KernelError struct {
	Kind   ErrorKind
	OpName string
	Cause  error
}

func (e *KernelError) Error() string {
	if e.Cause != nil {
		return "kernel: " + e.OpName + ": " + e.Kind.String() + ": " + e.Cause.Error()
	}
	return "kernel: " + e.OpName + ": " + e.Kind.String()
}

func (e *KernelError) Unwrap() error { return e.Cause }

// BooleanKind selects how Boolean3/Boolean2 combine their operands.
type BooleanKind int

const (
	Union BooleanKind = iota
	Intersection
	Difference
)

// Kernel3 is the full 3D capability surface the evaluator lowers
// GeometryNode variants onto.
type Kernel3 interface {
	Box(size geom.Vector3, originalID elements.OriginalID) (Concrete3, error)
	Cylinder(bottomRadius, topRadius, height float64, segments int, originalID elements.OriginalID) (Concrete3, error)
	Sphere(radius float64, segments int, originalID elements.OriginalID) (Concrete3, error)
	Mesh(data MeshData, originalID elements.OriginalID) (Concrete3, error)

	Transform(c Concrete3, t geom.Transform3) (Concrete3, error)
	Boolean(kind BooleanKind, operands []Concrete3) (Concrete3, error)

	ConvexHull(c Concrete3, extraPoints []geom.Vector3) (Concrete3, error)
	Refine(c Concrete3, maxEdgeLength float64) (Concrete3, error)
	Simplify(c Concrete3, epsilon float64) (Concrete3, error)
	Warp(c Concrete3, fn func(geom.Vector3) geom.Vector3) (Concrete3, error)

	// SplitByPlane returns (positiveHalf, negativeHalf) in that fixed
	// order.
	SplitByPlane(c Concrete3, plane geom.Plane) (positive, negative Concrete3, err error)
	// SplitByMask returns (c - mask, c intersect mask).
	SplitByMask(c, mask Concrete3) (remainder, intersection Concrete3, err error)

	Extrude(c Concrete2, spec ExtrusionSpec) (Concrete3, error)
	Revolve(c Concrete2, spec RevolveSpec) (Concrete3, error)

	Project(c Concrete3, spec ProjectionSpec) (Concrete2, error)

	// Decompose triangulates c into a renderable/exportable mesh, with
	// per-triangle OriginalID tags preserved from whatever leaves
	// contributed to c.
	Decompose(c Concrete3) (TriangleMesh, error)
}

// Kernel2 is the 2D capability surface.
type Kernel2 interface {
	Rectangle(size geom.Vector2) (Concrete2, error)
	Circle(radius float64, segments int) (Concrete2, error)
	Polygon(p geom.Polygon2) (Concrete2, error)

	Transform(c Concrete2, t geom.Transform2) (Concrete2, error)
	Boolean(kind BooleanKind, operands []Concrete2) (Concrete2, error)
	Offset(c Concrete2, distance float64, style JoinStyle) (Concrete2, error)
	Warp(c Concrete2, fn func(geom.Vector2) geom.Vector2) (Concrete2, error)

	Decompose(c Concrete2) (PolygonSet, error)
}

// ExtrusionSpec mirrors scene.ExtrusionSpec; this package does not
// import pkg/scene directly.
type ExtrusionSpec struct {
	Height   float64
	Twist    float64 // radians
	TopScale geom.Vector2
	Slices   int
}

// RevolveSpec mirrors scene.RevolutionSpec. A full turn (Angle >= 2π)
// produces a closed solid of revolution.
type RevolveSpec struct {
	Angle    float64 // radians
	Segments int
}

// ProjectionKind mirrors scene.ProjectionKind.
type ProjectionKind int

const (
	ProjectionSlice ProjectionKind = iota
	ProjectionOrthographic
	ProjectionAlongPlane
)

type ProjectionSpec struct {
	Kind      ProjectionKind
	Height    float64
	Direction geom.Direction3
	Plane     geom.Plane
}
