package eval

import (
	"context"

	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/geometry"
	"github.com/chazu/solidgraph/pkg/kernel"
)

// Measurements3 decomposes concrete into a triangle mesh and derives the
// read-only properties spec.md §4.10 names for 3D (Measure3/ReadPrimitive3
// call this after concretizing their target).
func (e *Engine) Measurements3(ctx context.Context, concrete kernel.Concrete3) (geometry.Measurements3, error) {
	mesh, err := e.Kernel3.Decompose(concrete)
	if err != nil {
		return geometry.Measurements3{}, err
	}
	volume, surfaceArea := meshVolumeAndArea(&mesh)
	return geometry.Measurements3{
		BoundingBox:   concrete.BoundingBox(),
		PointCount:    mesh.VertexCount(),
		IsEmpty:       mesh.IsEmpty(),
		SurfaceArea:   surfaceArea,
		Volume:        volume,
		EdgeCount:     meshEdgeCount(&mesh),
		TriangleCount: mesh.TriangleCount(),
	}, nil
}

func (e *Engine) Measurements2(ctx context.Context, concrete kernel.Concrete2) (geometry.Measurements2, error) {
	polys, err := e.Kernel2.Decompose(concrete)
	if err != nil {
		return geometry.Measurements2{}, err
	}
	var area float64
	var pointCount int
	convex := len(polys.Loops) == 1
	for i, loop := range polys.Loops {
		poly := polygonFromLoop(loop)
		area += poly.SignedArea()
		pointCount += len(poly.Vertices)
		if i == 0 && !poly.IsConvex() {
			convex = false
		}
	}
	return geometry.Measurements2{
		BoundingBox:  concrete.BoundingBox(),
		PointCount:   pointCount,
		IsEmpty:      polys.IsEmpty(),
		Area:         abs64(area),
		ContourCount: len(polys.Loops),
		IsConvex:     convex,
	}, nil
}

func polygonFromLoop(loop []float32) geom.Polygon2 {
	verts := make([]geom.Vector2, len(loop)/2)
	for i := range verts {
		verts[i] = geom.Vector2{X: float64(loop[2*i]), Y: float64(loop[2*i+1])}
	}
	return geom.NewPolygon2(verts)
}

func abs64(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// meshVolumeAndArea computes the enclosed volume (via the divergence
// theorem's signed-tetrahedra-from-the-origin sum, which is invariant to
// the choice of origin for a closed, consistently-wound mesh) and the
// total surface area (sum of triangle areas) in one pass over the
// triangle list.
func meshVolumeAndArea(mesh *kernel.TriangleMesh) (volume, area float64) {
	at := func(i uint32) geom.Vector3 {
		return geom.Vector3{X: float64(mesh.Vertices[3*i]), Y: float64(mesh.Vertices[3*i+1]), Z: float64(mesh.Vertices[3*i+2])}
	}
	for t := 0; t < mesh.TriangleCount(); t++ {
		a := at(mesh.Indices[3*t])
		b := at(mesh.Indices[3*t+1])
		c := at(mesh.Indices[3*t+2])
		volume += a.Dot(b.Cross(c)) / 6
		area += b.Sub(a).Cross(c.Sub(a)).Length() / 2
	}
	if volume < 0 {
		volume = -volume
	}
	return volume, area
}

// meshEdgeCount counts distinct undirected edges across the triangle
// list; a shared edge between two triangles that reference it in
// opposite winding directions is still one edge.
func meshEdgeCount(mesh *kernel.TriangleMesh) int {
	type edge struct{ a, b uint32 }
	seen := make(map[edge]struct{}, mesh.TriangleCount()*3/2)
	add := func(a, b uint32) {
		if a > b {
			a, b = b, a
		}
		seen[edge{a, b}] = struct{}{}
	}
	for t := 0; t < mesh.TriangleCount(); t++ {
		i0, i1, i2 := mesh.Indices[3*t], mesh.Indices[3*t+1], mesh.Indices[3*t+2]
		add(i0, i1)
		add(i1, i2)
		add(i2, i0)
	}
	return len(seen)
}
