package kernel

import "github.com/chazu/solidgraph/pkg/elements"

// MeshData is the kernel-agnostic input to a Mesh primitive: an explicit
// vertex list plus faces as index sequences (each with >= 3 indices); the
// kernel is responsible for triangulating polygonal faces.
type MeshData struct {
	Vertices [][3]float64
	Faces    [][]int
}

// TriangleMesh is the flat, export-ready triangulation a Decompose call
// produces. All arrays are flat: Vertices has 3 floats per vertex,
// Normals has 3 floats per vertex, Indices has 3 uint32s per triangle,
// and TriangleOriginalIDs has one entry per triangle (index i corresponds
// to triangle i, i.e. Indices[3*i:3*i+3]).
type TriangleMesh struct {
	Vertices            []float32
	Normals             []float32
	Indices             []uint32
	TriangleOriginalIDs []elements.OriginalID
}

func (m *TriangleMesh) VertexCount() int { return len(m.Vertices) / 3 }

func (m *TriangleMesh) TriangleCount() int { return len(m.Indices) / 3 }

func (m *TriangleMesh) IsEmpty() bool { return len(m.Vertices) == 0 }

// PolygonSet is the flat, export-ready 2D analog: a set of closed
// polygon loops, each a flat [x0,y0, x1,y1, ...] point list.
type PolygonSet struct {
	Loops [][]float32
}

func (p *PolygonSet) IsEmpty() bool { return len(p.Loops) == 0 }
