package scene

import "github.com/chazu/solidgraph/pkg/geom"

// MeshData is the kernel-agnostic payload of a Mesh primitive: an
// explicit vertex list and a list of (possibly non-triangular,
// >=3-vertex) faces as index sequences into it. Triangulating polygonal
// faces is the kernel's job, not the scene layer's.
type MeshData struct {
	Vertices []geom.Vector3
	Faces    [][]int
}

// Shape3 is a 3D primitive specification carried by a Shape node.
type Shape3 interface{ isShape3() }

type Cylinder3 struct {
	BottomRadius, TopRadius, Height float64
	SegmentCount                    int
}

type Sphere3 struct {
	Radius       float64
	SegmentCount int
}

type Box3 struct{ Size geom.Vector3 }

type Mesh3 struct{ Data MeshData }

// ImportedPart3 references a part loaded from an external 3MF source by
// key; the scene layer never reads the file itself (spec.md §1's reading
// Non-goal), it only carries the reference through the DAG.
type ImportedPart3 struct {
	SourceKey string
	PartName  string
}

func (Cylinder3) isShape3()     {}
func (Sphere3) isShape3()       {}
func (Box3) isShape3()          {}
func (Mesh3) isShape3()         {}
func (ImportedPart3) isShape3() {}

// Shape2 is a 2D primitive specification carried by a Shape node.
type Shape2 interface{ isShape2() }

type Rectangle2 struct{ Size geom.Vector2 }

type Circle2 struct {
	Radius       float64
	SegmentCount int
}

type Polygon2Shape struct{ Polygon geom.Polygon2 }

func (Rectangle2) isShape2()    {}
func (Circle2) isShape2()       {}
func (Polygon2Shape) isShape2() {}
