package scene

import "github.com/chazu/solidgraph/pkg/geom"

// NodeKind3 tags which variant of Node3 is populated.
type NodeKind3 int

const (
	KindEmpty3 NodeKind3 = iota
	KindShape3
	KindTransform3
	KindBoolean3
	KindExtrusion3
	KindRevolution3
	KindHull3
	KindRefine3
	KindSimplify3
	KindWarp3
	KindSplit3
	KindCached3
	KindOpaque3
	KindMaterial3
)

// BooleanKind selects the CSG combination of a Boolean node's children.
type BooleanKind int

const (
	Union BooleanKind = iota
	Intersection
	Difference
)

// ExtrusionSpec describes lowering a 2D profile to a 3D solid: a
// straight prism when Twist is zero and TopScale is {1,1}, a twisted
// and/or tapered sweep otherwise.
type ExtrusionSpec struct {
	Height   float64
	Twist    geom.Angle
	TopScale geom.Vector2
	Slices   int
}

// RevolutionSpec describes sweeping a 2D profile around the Z axis: a
// full solid of revolution when Angle is a whole turn, a wedge
// otherwise. The profile's X coordinate becomes the radius and its Y
// coordinate becomes Z; the profile is expected to lie in X >= 0.
type RevolutionSpec struct {
	Angle        geom.Angle
	SegmentCount int
}

// SplitSide selects which half of a Split node's division a given node
// value represents.
type SplitSide int

const (
	SplitPositive SplitSide = iota
	SplitNegative
)

// SplitBy3 is the dividing surface for a Split node: exactly one of
// Plane or Mask is set.
type SplitBy3 struct {
	Plane *geom.Plane
	Mask  *Node3
}

// WarpSpec3 is a pure per-vertex coordinate remap together with the
// identity the engine hashes it by: two Warp nodes with the same OpName
// and Params are assumed to compute the same function, regardless of Go
// closure identity, so their concretizations can be shared.
type WarpSpec3 struct {
	Fn     func(geom.Vector3) geom.Vector3
	OpName string
	Params []CacheParam
}

// CachedSpec3 wraps an opaquely-built subtree: Thunk is invoked at most
// once per fingerprint, and the fingerprint is computed from OpName and
// Params alone (never by forcing Thunk), so identical cache descriptions
// always short-circuit to the same cached result.
type CachedSpec3 struct {
	OpName string
	Params []CacheParam
	Thunk  func() Node3
}

// CacheParam is a small closed value usable as a canonical hash input for
// cache keys and warp/cached-node identities.
type CacheParam struct {
	kind cacheParamKind
	s    string
	f    float64
	i    int64
}

type cacheParamKind int

const (
	cacheParamString cacheParamKind = iota
	cacheParamFloat
	cacheParamInt
)

func StringParam(s string) CacheParam { return CacheParam{kind: cacheParamString, s: s} }
func FloatParam(f float64) CacheParam { return CacheParam{kind: cacheParamFloat, f: f} }
func IntParam(i int64) CacheParam     { return CacheParam{kind: cacheParamInt, i: i} }

// MaterialSpec3 attaches a material override to a subtree. Node3 cannot
// reference elements.Material directly (elements already imports scene,
// so the reverse import would cycle); Key is the material's own stable
// identity (elements.Material.Identity().String()), which is enough for
// two Material nodes wrapping the same material to fingerprint alike and
// two wrapping different materials to fingerprint apart. The engine
// resolves Key back to the actual elements.Material via the registration
// the WithMaterial3 combinator performs at build time
// (spec.md §4.3: "materials are attached at the node level").
type MaterialSpec3 struct {
	Key string
}

// OpaqueSpec3 carries a precomputed concrete handle directly inside a
// node, bypassing the usual kernel-primitive lowering: Concrete holds a
// kernel.Concrete3 erased to interface{} (scene cannot import kernel
// without an import cycle), and Fingerprint is the identity the engine
// already computed it under.
type OpaqueSpec3 struct {
	Concrete    interface{}
	Fingerprint Fingerprint
}

// Node3 is an immutable, value-semantic node in the 3D geometry DAG.
// Exactly the fields relevant to Kind are meaningful; construct values
// only through the New*/Empty3 functions below so invariants (acyclic by
// construction, trivial-case normalization) hold.
type Node3 struct {
	kind NodeKind3

	shape       Shape3
	transform   geom.Transform3
	booleanKind BooleanKind
	extrusion   ExtrusionSpec
	revolution  RevolutionSpec
	maxEdgeLen  float64
	epsilon     float64
	warp        WarpSpec3
	split       SplitBy3
	splitSide   SplitSide
	cached      CachedSpec3
	opaque      OpaqueSpec3
	material    MaterialSpec3
	hullPoints  []geom.Vector3

	child    *Node3
	child2D  *Node2
	children []Node3
}

func (n Node3) Kind() NodeKind3 { return n.kind }

func Empty3() Node3 { return Node3{kind: KindEmpty3} }

func (n Node3) IsEmpty() bool { return n.kind == KindEmpty3 }

// NewShape3 wraps a primitive specification in a node. A cylinder with
// zero bottom radius, zero top radius, and zero height has no volume and
// no boundary; it collapses to Empty rather than becoming a degenerate
// zero-segment shape the kernel would have to special-case.
func NewShape3(s Shape3) Node3 {
	if cyl, ok := s.(Cylinder3); ok && cyl.BottomRadius == 0 && cyl.TopRadius == 0 && cyl.Height == 0 {
		return Empty3()
	}
	return Node3{kind: KindShape3, shape: s}
}

func (n Node3) Shape() (Shape3, bool) {
	if n.kind != KindShape3 {
		return nil, false
	}
	return n.shape, true
}

// NewTransform3 applies t to child. An identity transform is a no-op
// (returns child unchanged); a transform applied to an already-transformed
// child composes into a single Transform node instead of nesting.
func NewTransform3(child Node3, t geom.Transform3) Node3 {
	if t.IsIdentity() {
		return child
	}
	if child.kind == KindTransform3 {
		return Node3{kind: KindTransform3, transform: t.Concatenated(child.transform), child: child.child}
	}
	return Node3{kind: KindTransform3, transform: t, child: &child}
}

func (n Node3) Transform() (child Node3, t geom.Transform3, ok bool) {
	if n.kind != KindTransform3 {
		return Node3{}, geom.Identity3, false
	}
	return *n.child, n.transform, true
}

// NewBoolean3 combines children under kind, dropping Empty operands,
// flattening nested same-kind commutative booleans, and collapsing to
// the single child (or Empty) when fewer than two operands remain.
func NewBoolean3(kind BooleanKind, children []Node3) Node3 {
	var flat []Node3
	for _, c := range children {
		if c.kind == KindEmpty3 {
			continue
		}
		if kind != Difference && c.kind == KindBoolean3 && c.booleanKind == kind {
			flat = append(flat, c.children...)
			continue
		}
		flat = append(flat, c)
	}
	if len(flat) == 0 {
		return Empty3()
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Node3{kind: KindBoolean3, booleanKind: kind, children: flat}
}

func (n Node3) Boolean() (kind BooleanKind, children []Node3, ok bool) {
	if n.kind != KindBoolean3 {
		return 0, nil, false
	}
	return n.booleanKind, n.children, true
}

func NewExtrusion3(child2D Node2, spec ExtrusionSpec) Node3 {
	return Node3{kind: KindExtrusion3, child2D: &child2D, extrusion: spec}
}

func (n Node3) Extrusion() (child Node2, spec ExtrusionSpec, ok bool) {
	if n.kind != KindExtrusion3 {
		return Node2{}, ExtrusionSpec{}, false
	}
	return *n.child2D, n.extrusion, true
}

// NewRevolution3 sweeps child2D around the Z axis. A zero sweep angle
// encloses no volume and collapses to Empty, the same way a fully
// degenerate cylinder does.
func NewRevolution3(child2D Node2, spec RevolutionSpec) Node3 {
	if spec.Angle.Radians() == 0 {
		return Empty3()
	}
	return Node3{kind: KindRevolution3, child2D: &child2D, revolution: spec}
}

func (n Node3) Revolution() (child Node2, spec RevolutionSpec, ok bool) {
	if n.kind != KindRevolution3 {
		return Node2{}, RevolutionSpec{}, false
	}
	return *n.child2D, n.revolution, true
}

// NewConvexHull3 wraps child in a pure convex hull (no extra points).
func NewConvexHull3(child Node3) Node3 {
	return Node3{kind: KindHull3, child: &child}
}

// NewHull3 hulls child together with extra points appended to its vertex
// set before hulling.
func NewHull3(child Node3, extraPoints []geom.Vector3) Node3 {
	return Node3{kind: KindHull3, child: &child, hullPoints: append([]geom.Vector3(nil), extraPoints...)}
}

func (n Node3) Hull() (child Node3, extraPoints []geom.Vector3, ok bool) {
	if n.kind != KindHull3 {
		return Node3{}, nil, false
	}
	return *n.child, n.hullPoints, true
}

func NewRefine3(child Node3, maxEdgeLen float64) Node3 {
	return Node3{kind: KindRefine3, child: &child, maxEdgeLen: maxEdgeLen}
}

func (n Node3) Refine() (child Node3, maxEdgeLen float64, ok bool) {
	if n.kind != KindRefine3 {
		return Node3{}, 0, false
	}
	return *n.child, n.maxEdgeLen, true
}

// NewSimplify3 merges vertices closer than epsilon and drops near-
// collinear runs. epsilon == 0 must be a no-op on an already-simplified
// mesh (idempotence, spec.md §4.3).
func NewSimplify3(child Node3, epsilon float64) Node3 {
	if epsilon == 0 && child.kind == KindSimplify3 && child.epsilon == 0 {
		return child
	}
	return Node3{kind: KindSimplify3, child: &child, epsilon: epsilon}
}

func (n Node3) Simplify() (child Node3, epsilon float64, ok bool) {
	if n.kind != KindSimplify3 {
		return Node3{}, 0, false
	}
	return *n.child, n.epsilon, true
}

func NewWarp3(child Node3, warp WarpSpec3) Node3 {
	return Node3{kind: KindWarp3, child: &child, warp: warp}
}

func (n Node3) Warp() (child Node3, warp WarpSpec3, ok bool) {
	if n.kind != KindWarp3 {
		return Node3{}, WarpSpec3{}, false
	}
	return *n.child, n.warp, true
}

func NewSplit3(child Node3, by SplitBy3, side SplitSide) Node3 {
	return Node3{kind: KindSplit3, child: &child, split: by, splitSide: side}
}

func (n Node3) Split() (child Node3, by SplitBy3, side SplitSide, ok bool) {
	if n.kind != KindSplit3 {
		return Node3{}, SplitBy3{}, 0, false
	}
	return *n.child, n.split, n.splitSide, true
}

func NewCached3(spec CachedSpec3) Node3 { return Node3{kind: KindCached3, cached: spec} }

func (n Node3) Cached() (spec CachedSpec3, ok bool) {
	if n.kind != KindCached3 {
		return CachedSpec3{}, false
	}
	return n.cached, true
}

// NewOpaque3 wraps an already-concretized value (a kernel.Concrete3) in a
// node carrying its own fingerprint, for combinators that hand the engine
// a freshly computed concrete instead of a tree to lower (spec.md §4.6's
// CachingPrimitiveTransformer).
func NewOpaque3(concrete interface{}, fp Fingerprint) Node3 {
	return Node3{kind: KindOpaque3, opaque: OpaqueSpec3{Concrete: concrete, Fingerprint: fp}}
}

func (n Node3) Opaque() (spec OpaqueSpec3, ok bool) {
	if n.kind != KindOpaque3 {
		return OpaqueSpec3{}, false
	}
	return n.opaque, true
}

// NewMaterial3 tags child with the material identified by key. Wrapping
// the same child under the same key twice collapses to a single
// wrapper (a material override closer to the leaf always wins, so a
// redundant re-tag with the same key changes nothing observable).
func NewMaterial3(child Node3, key string) Node3 {
	if child.kind == KindMaterial3 && child.material.Key == key {
		return child
	}
	return Node3{kind: KindMaterial3, child: &child, material: MaterialSpec3{Key: key}}
}

func (n Node3) Material() (child Node3, spec MaterialSpec3, ok bool) {
	if n.kind != KindMaterial3 {
		return Node3{}, MaterialSpec3{}, false
	}
	return *n.child, n.material, true
}
