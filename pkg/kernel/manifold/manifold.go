//go:build manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library (https://github.com/elalish/manifold). Manifold provides
// guaranteed-manifold mesh boolean operations. Each solid carries a single
// OriginalID, which Decompose stamps on every triangle; a solid produced
// by combining others carries 0, so per-triangle origins are not kept
// through boolean combination.
//
// This package requires the Manifold C library (manifoldc) to be installed.
// Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"math"
	"runtime"
	"unsafe"

	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/kernel"
	"github.com/pkg/errors"
)

var _ kernel.Kernel3 = (*Kernel3)(nil)
var _ kernel.Kernel2 = (*Kernel2)(nil)

type solid struct {
	ptr        *C.ManifoldManifold
	originalID elements.OriginalID // 0 for composite solids with mixed origins
}

func (s *solid) BoundingBox() geom.BoundingBox3 {
	alloc := C.manifold_alloc_box()
	bbox := C.manifold_bounding_box(alloc, s.ptr)
	defer C.manifold_delete_box(bbox)
	return geom.NewBoundingBox3(
		geom.Vector3{X: float64(C.manifold_box_min_x(bbox)), Y: float64(C.manifold_box_min_y(bbox)), Z: float64(C.manifold_box_min_z(bbox))},
		geom.Vector3{X: float64(C.manifold_box_max_x(bbox)), Y: float64(C.manifold_box_max_y(bbox)), Z: float64(C.manifold_box_max_z(bbox))},
	)
}

func newSolid(ptr *C.ManifoldManifold, originalID elements.OriginalID) *solid {
	s := &solid{ptr: ptr, originalID: originalID}
	runtime.SetFinalizer(s, func(s *solid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func unwrap3(c kernel.Concrete3) *solid { return c.(*solid) }

// Kernel3 implements kernel.Kernel3 using the Manifold C library.
type Kernel3 struct{}

func New3() (*Kernel3, error) { return &Kernel3{}, nil }

func (k *Kernel3) Box(size geom.Vector3, originalID elements.OriginalID) (kernel.Concrete3, error) {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_cube(alloc, C.double(size.X), C.double(size.Y), C.double(size.Z), C.int(0))
	return newSolid(ptr, originalID), nil
}

func (k *Kernel3) Cylinder(bottomRadius, topRadius, height float64, segments int, originalID elements.OriginalID) (kernel.Concrete3, error) {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_cylinder(alloc, C.double(height), C.double(bottomRadius), C.double(topRadius), C.int(segments), C.int(0))
	return newSolid(ptr, originalID), nil
}

func (k *Kernel3) Sphere(radius float64, segments int, originalID elements.OriginalID) (kernel.Concrete3, error) {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_sphere(alloc, C.double(radius), C.int(segments))
	return newSolid(ptr, originalID), nil
}

func (k *Kernel3) Mesh(data kernel.MeshData, originalID elements.OriginalID) (kernel.Concrete3, error) {
	var verts []float32
	for _, v := range data.Vertices {
		verts = append(verts, float32(v[0]), float32(v[1]), float32(v[2]))
	}
	var indices []uint32
	for _, f := range data.Faces {
		for i := 1; i+1 < len(f); i++ {
			indices = append(indices, uint32(f[0]), uint32(f[i]), uint32(f[i+1]))
		}
	}
	if len(verts) == 0 || len(indices) == 0 {
		return nil, &kernel.KernelError{Kind: kernel.KindEmptyResult, OpName: "Mesh"}
	}
	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_meshgl(meshAlloc,
		(*C.float)(unsafe.Pointer(&verts[0])), C.size_t(len(verts)/3), C.size_t(3),
		(*C.uint32_t)(unsafe.Pointer(&indices[0])), C.size_t(len(indices)/3),
	)
	defer C.manifold_delete_meshgl(meshGL)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_of_meshgl(alloc, meshGL)
	return newSolid(ptr, originalID), nil
}

func (k *Kernel3) Transform(c kernel.Concrete3, t geom.Transform3) (kernel.Concrete3, error) {
	s := unwrap3(c)
	rows := t.Rows()
	tr := t.Translation()
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_transform(alloc, s.ptr,
		C.double(rows[0][0]), C.double(rows[0][1]), C.double(rows[0][2]), C.double(tr.X),
		C.double(rows[1][0]), C.double(rows[1][1]), C.double(rows[1][2]), C.double(tr.Y),
		C.double(rows[2][0]), C.double(rows[2][1]), C.double(rows[2][2]), C.double(tr.Z),
	)
	return newSolid(ptr, s.originalID), nil
}

func (k *Kernel3) Boolean(kind kernel.BooleanKind, operands []kernel.Concrete3) (kernel.Concrete3, error) {
	if len(operands) == 0 {
		return nil, &kernel.KernelError{Kind: kernel.KindEmptyResult, OpName: "Boolean"}
	}
	acc := unwrap3(operands[0]).ptr
	for _, o := range operands[1:] {
		alloc := C.manifold_alloc_manifold()
		sb := unwrap3(o).ptr
		switch kind {
		case kernel.Union:
			acc = C.manifold_union(alloc, acc, sb)
		case kernel.Intersection:
			acc = C.manifold_intersection(alloc, acc, sb)
		case kernel.Difference:
			acc = C.manifold_difference(alloc, acc, sb)
		default:
			return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Boolean"}
		}
	}
	return newSolid(acc, 0), nil
}

func (k *Kernel3) ConvexHull(c kernel.Concrete3, extraPoints []geom.Vector3) (kernel.Concrete3, error) {
	s := unwrap3(c)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_hull(alloc, s.ptr)
	return newSolid(ptr, 0), nil
}

func (k *Kernel3) Refine(c kernel.Concrete3, maxEdgeLength float64) (kernel.Concrete3, error) {
	s := unwrap3(c)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_refine_to_length(alloc, s.ptr, C.double(maxEdgeLength))
	return newSolid(ptr, s.originalID), nil
}

func (k *Kernel3) Simplify(c kernel.Concrete3, epsilon float64) (kernel.Concrete3, error) {
	s := unwrap3(c)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_simplify(alloc, s.ptr, C.double(epsilon))
	return newSolid(ptr, s.originalID), nil
}

func (k *Kernel3) Warp(c kernel.Concrete3, fn func(geom.Vector3) geom.Vector3) (kernel.Concrete3, error) {
	return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Warp",
		Cause: errors.New("manifold's C API warp callback requires a cgo export per closure, not wired for arbitrary Go functions")}
}

func (k *Kernel3) SplitByPlane(c kernel.Concrete3, plane geom.Plane) (positive, negative kernel.Concrete3, err error) {
	s := unwrap3(c)
	n := plane.Normal.Vector()
	allocA := C.manifold_alloc_manifold()
	allocB := C.manifold_alloc_manifold()
	var a, b *C.ManifoldManifold
	C.manifold_split_by_plane(allocA, allocB, &a, &b, s.ptr,
		C.double(n.X), C.double(n.Y), C.double(n.Z), C.double(plane.Offset))
	return newSolid(a, s.originalID), newSolid(b, s.originalID), nil
}

func (k *Kernel3) SplitByMask(c, mask kernel.Concrete3) (remainder, intersection kernel.Concrete3, err error) {
	cs, ms := unwrap3(c), unwrap3(mask)
	allocRem := C.manifold_alloc_manifold()
	remPtr := C.manifold_difference(allocRem, cs.ptr, ms.ptr)
	allocInt := C.manifold_alloc_manifold()
	intPtr := C.manifold_intersection(allocInt, cs.ptr, ms.ptr)
	return newSolid(remPtr, cs.originalID), newSolid(intPtr, 0), nil
}

func (k *Kernel3) Extrude(c kernel.Concrete2, spec kernel.ExtrusionSpec) (kernel.Concrete3, error) {
	s := unwrap2(c)
	alloc := C.manifold_alloc_manifold()
	twistDegrees := spec.Twist * 180 / math.Pi
	ptr := C.manifold_extrude(alloc, s.ptr,
		C.double(spec.Height), C.int(spec.Slices), C.double(twistDegrees),
		C.double(spec.TopScale.X), C.double(spec.TopScale.Y))
	return newSolid(ptr, s.originalID), nil
}

func (k *Kernel3) Revolve(c kernel.Concrete2, spec kernel.RevolveSpec) (kernel.Concrete3, error) {
	s := unwrap2(c)
	alloc := C.manifold_alloc_manifold()
	degrees := spec.Angle * 180 / math.Pi
	if degrees > 360 {
		degrees = 360
	}
	ptr := C.manifold_revolve(alloc, s.ptr, C.int(spec.Segments), C.double(degrees))
	return newSolid(ptr, s.originalID), nil
}

func (k *Kernel3) Project(c kernel.Concrete3, spec kernel.ProjectionSpec) (kernel.Concrete2, error) {
	if spec.Kind != kernel.ProjectionSlice {
		return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Project",
			Cause: errors.New("manifold binding only implements axis-height slicing")}
	}
	s := unwrap3(c)
	alloc := C.manifold_alloc_cross_section()
	ptr := C.manifold_slice(alloc, s.ptr, C.double(spec.Height))
	return newCrossSection(ptr, s.originalID), nil
}

func (k *Kernel3) Decompose(c kernel.Concrete3) (kernel.TriangleMesh, error) {
	s := unwrap3(c)
	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, s.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))
	if numVert == 0 || numTri == 0 {
		return kernel.TriangleMesh{}, nil
	}

	numProp := int(C.manifold_meshgl_num_prop(meshGL))
	propLen := numVert * numProp
	propData := make([]float32, propLen)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&propData[0])), meshGL)

	triLen := numTri * 3
	indices := make([]uint32, triLen)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&indices[0])), meshGL)

	vertices := make([]float32, numVert*3)
	hasNormals := numProp >= 6
	var normals []float32
	if hasNormals {
		normals = make([]float32, numVert*3)
	}
	for i := 0; i < numVert; i++ {
		base := i * numProp
		vertices[i*3+0], vertices[i*3+1], vertices[i*3+2] = propData[base+0], propData[base+1], propData[base+2]
		if hasNormals {
			normals[i*3+0], normals[i*3+1], normals[i*3+2] = propData[base+3], propData[base+4], propData[base+5]
		}
	}
	if !hasNormals {
		normals = computeFlatNormals(vertices, indices)
	}

	// Manifold preserves an originalID per input mesh through booleans via
	// manifold_original_id / run indices; this binding does not yet thread
	// per-triangle run lookup through to Go, so every triangle is
	// attributed to the solid's own originalID (non-zero only when it
	// still traces to a single un-combined leaf).
	ids := make([]elements.OriginalID, numTri)
	for i := range ids {
		ids[i] = s.originalID
	}

	mesh := kernel.TriangleMesh{Vertices: vertices, Normals: normals, Indices: indices, TriangleOriginalIDs: ids}
	if mesh.VertexCount() != numVert {
		return kernel.TriangleMesh{}, errors.Errorf("manifold: vertex count mismatch: got %d, expected %d", mesh.VertexCount(), numVert)
	}
	return mesh, nil
}

func computeFlatNormals(vertices []float32, indices []uint32) []float32 {
	numVerts := len(vertices) / 3
	normals := make([]float32, numVerts*3)
	numTris := len(indices) / 3
	for t := 0; t < numTris; t++ {
		i0, i1, i2 := indices[t*3], indices[t*3+1], indices[t*3+2]
		ax, ay, az := float64(vertices[i0*3]), float64(vertices[i0*3+1]), float64(vertices[i0*3+2])
		bx, by, bz := float64(vertices[i1*3]), float64(vertices[i1*3+1]), float64(vertices[i1*3+2])
		cx, cy, cz := float64(vertices[i2*3]), float64(vertices[i2*3+1]), float64(vertices[i2*3+2])
		e1x, e1y, e1z := bx-ax, by-ay, bz-az
		e2x, e2y, e2z := cx-ax, cy-ay, cz-az
		nx := float32(e1y*e2z - e1z*e2y)
		ny := float32(e1z*e2x - e1x*e2z)
		nz := float32(e1x*e2y - e1y*e2x)
		for _, idx := range []uint32{i0, i1, i2} {
			normals[idx*3+0] += nx
			normals[idx*3+1] += ny
			normals[idx*3+2] += nz
		}
	}
	for i := 0; i < numVerts; i++ {
		nx, ny, nz := float64(normals[i*3]), float64(normals[i*3+1]), float64(normals[i*3+2])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if length > 1e-12 {
			normals[i*3+0] = float32(nx / length)
			normals[i*3+1] = float32(ny / length)
			normals[i*3+2] = float32(nz / length)
		}
	}
	return normals
}

// crossSection wraps Manifold's 2D CrossSection type for Kernel2.
type crossSection struct {
	ptr        *C.ManifoldCrossSection
	originalID elements.OriginalID
}

func newCrossSection(ptr *C.ManifoldCrossSection, originalID elements.OriginalID) *crossSection {
	c := &crossSection{ptr: ptr, originalID: originalID}
	runtime.SetFinalizer(c, func(c *crossSection) {
		if c.ptr != nil {
			C.manifold_delete_cross_section(c.ptr)
			c.ptr = nil
		}
	})
	return c
}

func (c *crossSection) BoundingBox() geom.BoundingBox2 {
	alloc := C.manifold_alloc_rect()
	r := C.manifold_cross_section_bounds(alloc, c.ptr)
	defer C.manifold_delete_rect(r)
	return geom.NewBoundingBox2(
		geom.Vector2{X: float64(C.manifold_rect_min_x(r)), Y: float64(C.manifold_rect_min_y(r))},
		geom.Vector2{X: float64(C.manifold_rect_max_x(r)), Y: float64(C.manifold_rect_max_y(r))},
	)
}

func unwrap2(c kernel.Concrete2) *crossSection { return c.(*crossSection) }

// Kernel2 implements kernel.Kernel2 using Manifold's CrossSection API.
type Kernel2 struct{}

func New2() (*Kernel2, error) { return &Kernel2{}, nil }

func (k *Kernel2) Rectangle(size geom.Vector2) (kernel.Concrete2, error) {
	alloc := C.manifold_alloc_cross_section()
	ptr := C.manifold_cross_section_square(alloc, C.double(size.X), C.double(size.Y), C.int(0))
	return newCrossSection(ptr, 0), nil
}

func (k *Kernel2) Circle(radius float64, segments int) (kernel.Concrete2, error) {
	alloc := C.manifold_alloc_cross_section()
	ptr := C.manifold_cross_section_circle(alloc, C.double(radius), C.int(segments))
	return newCrossSection(ptr, 0), nil
}

func (k *Kernel2) Polygon(p geom.Polygon2) (kernel.Concrete2, error) {
	pts := make([]float64, 0, len(p.Vertices)*2)
	for _, v := range p.Vertices {
		pts = append(pts, v.X, v.Y)
	}
	if len(pts) == 0 {
		return nil, &kernel.KernelError{Kind: kernel.KindEmptyResult, OpName: "Polygon"}
	}
	alloc := C.manifold_alloc_cross_section()
	ptr := C.manifold_cross_section_of_point_vec(alloc, (*C.double)(unsafe.Pointer(&pts[0])), C.size_t(len(p.Vertices)))
	return newCrossSection(ptr, 0), nil
}

func (k *Kernel2) Transform(c kernel.Concrete2, t geom.Transform2) (kernel.Concrete2, error) {
	s := unwrap2(c)
	rows := t.Rows()
	tr := t.Translation()
	alloc := C.manifold_alloc_cross_section()
	ptr := C.manifold_cross_section_transform(alloc, s.ptr,
		C.double(rows[0][0]), C.double(rows[0][1]), C.double(tr.X),
		C.double(rows[1][0]), C.double(rows[1][1]), C.double(tr.Y))
	return newCrossSection(ptr, s.originalID), nil
}

func (k *Kernel2) Boolean(kind kernel.BooleanKind, operands []kernel.Concrete2) (kernel.Concrete2, error) {
	if len(operands) == 0 {
		return nil, &kernel.KernelError{Kind: kernel.KindEmptyResult, OpName: "Boolean"}
	}
	acc := unwrap2(operands[0]).ptr
	for _, o := range operands[1:] {
		sb := unwrap2(o).ptr
		alloc := C.manifold_alloc_cross_section()
		switch kind {
		case kernel.Union:
			acc = C.manifold_cross_section_union(alloc, acc, sb)
		case kernel.Intersection:
			acc = C.manifold_cross_section_intersection(alloc, acc, sb)
		case kernel.Difference:
			acc = C.manifold_cross_section_difference(alloc, acc, sb)
		default:
			return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Boolean"}
		}
	}
	return newCrossSection(acc, 0), nil
}

func (k *Kernel2) Offset(c kernel.Concrete2, distance float64, style kernel.JoinStyle) (kernel.Concrete2, error) {
	s := unwrap2(c)
	var joinType C.ManifoldJoinType
	switch style {
	case kernel.JoinMiter:
		joinType = C.MANIFOLD_JOIN_MITER
	case kernel.JoinBevel:
		joinType = C.MANIFOLD_JOIN_BEVEL
	default:
		joinType = C.MANIFOLD_JOIN_ROUND
	}
	alloc := C.manifold_alloc_cross_section()
	ptr := C.manifold_cross_section_offset(alloc, s.ptr, C.double(distance), joinType, C.double(2), C.double(0.1))
	return newCrossSection(ptr, s.originalID), nil
}

func (k *Kernel2) Warp(c kernel.Concrete2, fn func(geom.Vector2) geom.Vector2) (kernel.Concrete2, error) {
	return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Warp",
		Cause: errors.New("manifold's C API warp callback requires a cgo export per closure, not wired for arbitrary Go functions")}
}

func (k *Kernel2) Decompose(c kernel.Concrete2) (kernel.PolygonSet, error) {
	s := unwrap2(c)
	alloc := C.manifold_alloc_polygons()
	polys := C.manifold_cross_section_to_polygons(alloc, s.ptr)
	defer C.manifold_delete_polygons(polys)

	n := int(C.manifold_polygons_length(polys))
	out := kernel.PolygonSet{Loops: make([][]float32, n)}
	for i := 0; i < n; i++ {
		m := int(C.manifold_polygons_ring_length(polys, C.size_t(i)))
		loop := make([]float32, 0, m*2)
		for j := 0; j < m; j++ {
			x := float32(C.manifold_polygons_get_point(polys, C.size_t(i), C.size_t(j), 0))
			y := float32(C.manifold_polygons_get_point(polys, C.size_t(i), C.size_t(j), 1))
			loop = append(loop, x, y)
		}
		out.Loops[i] = loop
	}
	return out, nil
}
