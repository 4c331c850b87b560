package scene

import (
	"github.com/chazu/solidgraph/pkg/env"
	"github.com/chazu/solidgraph/pkg/geom"
)

type NodeKind2 int

const (
	KindEmpty2 NodeKind2 = iota
	KindShape2
	KindTransform2
	KindBoolean2
	KindProjection2
	KindOffset2
	KindWarp2
	KindOpaque2
)

// ProjectionKind selects how a 3D node is flattened to 2D.
type ProjectionKind int

const (
	ProjectionSlice ProjectionKind = iota
	ProjectionOrthographic
	ProjectionAlongPlane
)

// ProjectionSpec carries the parameters for each ProjectionKind: Slice
// uses Height (a Z-plane); Orthographic uses Direction (projection axis);
// AlongPlane uses Plane directly.
type ProjectionSpec struct {
	Kind      ProjectionKind
	Height    float64
	Direction geom.Direction3
	Plane     geom.Plane
}

type OffsetSpec struct {
	Distance    float64
	CornerStyle env.CornerRoundingStyleValue
}

type WarpSpec2 struct {
	Fn     func(geom.Vector2) geom.Vector2
	OpName string
	Params []CacheParam
}

// OpaqueSpec2 is OpaqueSpec3's 2D counterpart: Concrete holds a
// kernel.Concrete2 erased to interface{}.
type OpaqueSpec2 struct {
	Concrete    interface{}
	Fingerprint Fingerprint
}

type Node2 struct {
	kind NodeKind2

	shape       Shape2
	transform   geom.Transform2
	booleanKind BooleanKind
	projection  ProjectionSpec
	offset      OffsetSpec
	warp        WarpSpec2
	opaque      OpaqueSpec2

	child3D  *Node3
	child    *Node2
	children []Node2
}

func (n Node2) Kind() NodeKind2 { return n.kind }

func Empty2() Node2 { return Node2{kind: KindEmpty2} }

func (n Node2) IsEmpty() bool { return n.kind == KindEmpty2 }

func NewShape2(s Shape2) Node2 { return Node2{kind: KindShape2, shape: s} }

func (n Node2) Shape() (Shape2, bool) {
	if n.kind != KindShape2 {
		return nil, false
	}
	return n.shape, true
}

func NewTransform2(child Node2, t geom.Transform2) Node2 {
	if t.IsIdentity() {
		return child
	}
	if child.kind == KindTransform2 {
		return Node2{kind: KindTransform2, transform: t.Concatenated(child.transform), child: child.child}
	}
	return Node2{kind: KindTransform2, transform: t, child: &child}
}

func (n Node2) Transform() (child Node2, t geom.Transform2, ok bool) {
	if n.kind != KindTransform2 {
		return Node2{}, geom.Identity2, false
	}
	return *n.child, n.transform, true
}

func NewBoolean2(kind BooleanKind, children []Node2) Node2 {
	var flat []Node2
	for _, c := range children {
		if c.kind == KindEmpty2 {
			continue
		}
		if kind != Difference && c.kind == KindBoolean2 && c.booleanKind == kind {
			flat = append(flat, c.children...)
			continue
		}
		flat = append(flat, c)
	}
	if len(flat) == 0 {
		return Empty2()
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Node2{kind: KindBoolean2, booleanKind: kind, children: flat}
}

func (n Node2) Boolean() (kind BooleanKind, children []Node2, ok bool) {
	if n.kind != KindBoolean2 {
		return 0, nil, false
	}
	return n.booleanKind, n.children, true
}

func NewProjection2(child3D Node3, spec ProjectionSpec) Node2 {
	return Node2{kind: KindProjection2, child3D: &child3D, projection: spec}
}

func (n Node2) Projection() (child Node3, spec ProjectionSpec, ok bool) {
	if n.kind != KindProjection2 {
		return Node3{}, ProjectionSpec{}, false
	}
	return *n.child3D, n.projection, true
}

func NewOffset2(child Node2, spec OffsetSpec) Node2 {
	return Node2{kind: KindOffset2, child: &child, offset: spec}
}

func (n Node2) Offset() (child Node2, spec OffsetSpec, ok bool) {
	if n.kind != KindOffset2 {
		return Node2{}, OffsetSpec{}, false
	}
	return *n.child, n.offset, true
}

func NewWarp2(child Node2, warp WarpSpec2) Node2 {
	return Node2{kind: KindWarp2, child: &child, warp: warp}
}

func (n Node2) Warp() (child Node2, warp WarpSpec2, ok bool) {
	if n.kind != KindWarp2 {
		return Node2{}, WarpSpec2{}, false
	}
	return *n.child, n.warp, true
}

// NewOpaque2 is NewOpaque3's 2D counterpart.
func NewOpaque2(concrete interface{}, fp Fingerprint) Node2 {
	return Node2{kind: KindOpaque2, opaque: OpaqueSpec2{Concrete: concrete, Fingerprint: fp}}
}

func (n Node2) Opaque() (spec OpaqueSpec2, ok bool) {
	if n.kind != KindOpaque2 {
		return OpaqueSpec2{}, false
	}
	return n.opaque, true
}
