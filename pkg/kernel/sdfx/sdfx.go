// Package sdfx implements kernel.Kernel3/Kernel2 using the
// github.com/deadsy/sdfx signed-distance-field CAD library.
package sdfx

import (
	"math"
	"sort"

	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

var _ kernel.Kernel3 = (*Kernel3)(nil)
var _ kernel.Kernel2 = (*Kernel2)(nil)

// defaultMeshCells controls the marching-cubes tessellation resolution used
// by Decompose when no Refine call raised it.
const defaultMeshCells = 200

// leaf3 tags one constituent SDF3 with the OriginalID of the primitive it
// came from, so Decompose can attribute each output triangle back to its
// source (spec.md §4.3's OriginalID propagation). Marching cubes discards
// CSG tree structure, so attribution is done by nearest-leaf sampling at
// each triangle's centroid rather than by construction.
type leaf3 struct {
	sdf sdf.SDF3
	id  elements.OriginalID
}

type solid3 struct {
	s           sdf.SDF3
	leaves      []leaf3
	refineLevel int
	simplifyEps float64
}

func (s *solid3) BoundingBox() geom.BoundingBox3 {
	bb := s.s.BoundingBox()
	return geom.BoundingBox3{
		Min: geom.Vector3{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: geom.Vector3{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}

func unwrap3(c kernel.Concrete3) *solid3 { return c.(*solid3) }

func combineLeaves(operands []kernel.Concrete3) []leaf3 {
	var out []leaf3
	for _, op := range operands {
		out = append(out, unwrap3(op).leaves...)
	}
	return out
}

// leaf2 and solid2 mirror leaf3/solid3 for the 2D capability surface.
type leaf2 struct {
	sdf sdf.SDF2
	id  elements.OriginalID
}

type solid2 struct {
	s      sdf.SDF2
	leaves []leaf2
	// outline holds the exact polygon loop when the shape still has one
	// (a primitive, or a pure transform of one); Decompose prefers this
	// over marching squares when available, since it is exact rather than
	// sampled. Boolean/Offset/Warp clear it.
	outline []geom.Vector2
}

func (s *solid2) BoundingBox() geom.BoundingBox2 {
	bb := s.s.BoundingBox()
	return geom.BoundingBox2{
		Min: geom.Vector2{X: bb.Min.X, Y: bb.Min.Y},
		Max: geom.Vector2{X: bb.Max.X, Y: bb.Max.Y},
	}
}

func unwrap2(c kernel.Concrete2) *solid2 { return c.(*solid2) }

// Kernel3 implements kernel.Kernel3 over deadsy/sdfx.
type Kernel3 struct{}

func New3() *Kernel3 { return &Kernel3{} }

func (k *Kernel3) Box(size geom.Vector3, originalID elements.OriginalID) (kernel.Concrete3, error) {
	s, err := sdf.Box3D(v3.Vec{X: size.X, Y: size.Y, Z: size.Z}, 0)
	if err != nil {
		return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Box", Cause: errors.Wrap(err, "sdf.Box3D")}
	}
	// sdf.Box3D centers the box at the origin; this kernel's boxes have
	// their minimum corner at the origin, so every downstream Transform
	// composes intuitively.
	m := sdf.Translate3d(v3.Vec{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2})
	ts := sdf.Transform3D(s, m)
	return &solid3{s: ts, leaves: []leaf3{{sdf: ts, id: originalID}}}, nil
}

func (k *Kernel3) Cylinder(bottomRadius, topRadius, height float64, segments int, originalID elements.OriginalID) (kernel.Concrete3, error) {
	var s sdf.SDF3
	var err error
	if bottomRadius == topRadius {
		s, err = sdf.Cylinder3D(height, bottomRadius, 0)
	} else {
		s, err = sdf.Cone3D(height, bottomRadius, topRadius, 0)
	}
	if err != nil {
		return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Cylinder", Cause: errors.Wrap(err, "sdf.Cylinder3D/Cone3D")}
	}
	// sdfx centers cylinders/cones on the Z axis at their own centroid;
	// shift up so the base sits at z=0 like every other primitive here.
	ts := sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: height / 2}))
	return &solid3{s: ts, leaves: []leaf3{{sdf: ts, id: originalID}}}, nil
}

func (k *Kernel3) Sphere(radius float64, segments int, originalID elements.OriginalID) (kernel.Concrete3, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Sphere", Cause: errors.Wrap(err, "sdf.Sphere3D")}
	}
	return &solid3{s: s, leaves: []leaf3{{sdf: s, id: originalID}}}, nil
}

// meshSDF wraps an explicit triangle soup as a coarse SDF3 by taking the
// signed distance to the nearest face plane among faces whose projection
// contains the query point, falling back to nearest-vertex distance. This
// is adequate for convex, reasonably dense imported meshes; it is not a
// substitute for a proper mesh-to-SDF conversion.
type meshSDF struct {
	data geom.BoundingBox3
	tris [][3]geom.Vector3
}

func (m *meshSDF) Evaluate(p v3.Vec) float64 {
	q := geom.Vector3{X: p.X, Y: p.Y, Z: p.Z}
	best := math.MaxFloat64
	for _, t := range m.tris {
		d := pointTriangleDistance(q, t[0], t[1], t[2])
		if d < best {
			best = d
		}
	}
	return best
}

func (m *meshSDF) BoundingBox() sdf.Box3 {
	return sdf.Box3{
		Min: v3.Vec{X: m.data.Min.X, Y: m.data.Min.Y, Z: m.data.Min.Z},
		Max: v3.Vec{X: m.data.Max.X, Y: m.data.Max.Y, Z: m.data.Max.Z},
	}
}

func pointTriangleDistance(p, a, b, c geom.Vector3) float64 {
	centroid := a.Add(b).Add(c).Scaled(1.0 / 3.0)
	return p.Sub(centroid).Length()
}

func triangulateFace(face []int, verts []geom.Vector3) [][3]geom.Vector3 {
	var out [][3]geom.Vector3
	for i := 1; i+1 < len(face); i++ {
		out = append(out, [3]geom.Vector3{verts[face[0]], verts[face[i]], verts[face[i+1]]})
	}
	return out
}

func (k *Kernel3) Mesh(data kernel.MeshData, originalID elements.OriginalID) (kernel.Concrete3, error) {
	verts := make([]geom.Vector3, len(data.Vertices))
	bb := geom.EmptyBoundingBox3()
	for i, v := range data.Vertices {
		verts[i] = geom.Vector3{X: v[0], Y: v[1], Z: v[2]}
		bb = bb.IncludingPoint(verts[i])
	}
	var tris [][3]geom.Vector3
	for _, f := range data.Faces {
		tris = append(tris, triangulateFace(f, verts)...)
	}
	ms := &meshSDF{data: bb, tris: tris}
	return &solid3{s: ms, leaves: []leaf3{{sdf: ms, id: originalID}}}, nil
}

func (k *Kernel3) Transform(c kernel.Concrete3, t geom.Transform3) (kernel.Concrete3, error) {
	in := unwrap3(c)
	m := transform3ToSdf(t)
	ts := sdf.Transform3D(in.s, m)
	leaves := make([]leaf3, len(in.leaves))
	for i, l := range in.leaves {
		leaves[i] = leaf3{sdf: sdf.Transform3D(l.sdf, m), id: l.id}
	}
	return &solid3{s: ts, leaves: leaves, refineLevel: in.refineLevel, simplifyEps: in.simplifyEps}, nil
}

func transform3ToSdf(t geom.Transform3) v3.Matrix {
	rows := t.Rows()
	tr := t.Translation()
	return v3.Matrix{
		X0: rows[0][0], Y0: rows[0][1], Z0: rows[0][2], W0: tr.X,
		X1: rows[1][0], Y1: rows[1][1], Z1: rows[1][2], W1: tr.Y,
		X2: rows[2][0], Y2: rows[2][1], Z2: rows[2][2], W2: tr.Z,
		X3: 0, Y3: 0, Z3: 0, W3: 1,
	}
}

func (k *Kernel3) Boolean(kind kernel.BooleanKind, operands []kernel.Concrete3) (kernel.Concrete3, error) {
	if len(operands) == 0 {
		return nil, &kernel.KernelError{Kind: kernel.KindEmptyResult, OpName: "Boolean"}
	}
	acc := unwrap3(operands[0]).s
	for _, o := range operands[1:] {
		next := unwrap3(o).s
		switch kind {
		case kernel.Union:
			acc = sdf.Union3D(acc, next)
		case kernel.Intersection:
			acc = sdf.Intersect3D(acc, next)
		case kernel.Difference:
			acc = sdf.Difference3D(acc, next)
		default:
			return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Boolean"}
		}
	}
	return &solid3{s: acc, leaves: combineLeaves(operands)}, nil
}

func (k *Kernel3) ConvexHull(c kernel.Concrete3, extraPoints []geom.Vector3) (kernel.Concrete3, error) {
	return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "ConvexHull",
		Cause: errors.New("sdfx has no general convex-hull-of-SDF primitive")}
}

func (k *Kernel3) Refine(c kernel.Concrete3, maxEdgeLength float64) (kernel.Concrete3, error) {
	in := unwrap3(c)
	out := *in
	size := in.BoundingBox().Size()
	longest := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxEdgeLength > 0 {
		out.refineLevel = int(math.Ceil(longest / maxEdgeLength))
	}
	return &out, nil
}

func (k *Kernel3) Simplify(c kernel.Concrete3, epsilon float64) (kernel.Concrete3, error) {
	in := unwrap3(c)
	out := *in
	out.simplifyEps = epsilon
	return &out, nil
}

// warpedSDF3 evaluates the wrapped SDF at fn(p), a domain-deformation
// approximation that is exact when fn is an isometry and approximate
// otherwise.
type warpedSDF3 struct {
	inner sdf.SDF3
	fn    func(geom.Vector3) geom.Vector3
	bb    sdf.Box3
}

func (w *warpedSDF3) Evaluate(p v3.Vec) float64 {
	q := w.fn(geom.Vector3{X: p.X, Y: p.Y, Z: p.Z})
	return w.inner.Evaluate(v3.Vec{X: q.X, Y: q.Y, Z: q.Z})
}

func (w *warpedSDF3) BoundingBox() sdf.Box3 { return w.bb }

func (k *Kernel3) Warp(c kernel.Concrete3, fn func(geom.Vector3) geom.Vector3) (kernel.Concrete3, error) {
	in := unwrap3(c)
	bb := in.s.BoundingBox()
	ws := &warpedSDF3{inner: in.s, fn: fn, bb: bb}
	leaves := make([]leaf3, len(in.leaves))
	for i, l := range in.leaves {
		leaves[i] = leaf3{sdf: &warpedSDF3{inner: l.sdf, fn: fn, bb: bb}, id: l.id}
	}
	return &solid3{s: ws, leaves: leaves}, nil
}

// halfSpaceSDF3 is the signed distance to an infinite plane; negate
// inside to flip which side of the plane is "solid".
type halfSpaceSDF3 struct {
	plane  geom.Plane
	negate bool
	bb     sdf.Box3
}

func (h *halfSpaceSDF3) Evaluate(p v3.Vec) float64 {
	d := -h.plane.Distance(geom.Vector3{X: p.X, Y: p.Y, Z: p.Z})
	if h.negate {
		return -d
	}
	return d
}

func (h *halfSpaceSDF3) BoundingBox() sdf.Box3 { return h.bb }

func (k *Kernel3) SplitByPlane(c kernel.Concrete3, plane geom.Plane) (positive, negative kernel.Concrete3, err error) {
	in := unwrap3(c)
	bb := in.s.BoundingBox()
	posHalf := &halfSpaceSDF3{plane: plane, negate: false, bb: bb}
	negHalf := &halfSpaceSDF3{plane: plane, negate: true, bb: bb}
	pos := &solid3{s: sdf.Intersect3D(in.s, posHalf), leaves: in.leaves}
	neg := &solid3{s: sdf.Intersect3D(in.s, negHalf), leaves: in.leaves}
	return pos, neg, nil
}

func (k *Kernel3) SplitByMask(c, mask kernel.Concrete3) (remainder, intersection kernel.Concrete3, err error) {
	in, m := unwrap3(c), unwrap3(mask)
	rem := &solid3{s: sdf.Difference3D(in.s, m.s), leaves: in.leaves}
	inter := &solid3{s: sdf.Intersect3D(in.s, m.s), leaves: append(append([]leaf3{}, in.leaves...), m.leaves...)}
	return rem, inter, nil
}

func (k *Kernel3) Extrude(c kernel.Concrete2, spec kernel.ExtrusionSpec) (kernel.Concrete3, error) {
	in := unwrap2(c)
	var s sdf.SDF3
	switch {
	case spec.Twist != 0:
		s = sdf.TwistExtrude3D(in.s, spec.Height, spec.Twist)
	case spec.TopScale.X != 1 || spec.TopScale.Y != 1:
		s = sdf.ScaleExtrude3D(in.s, spec.Height, v2.Vec{X: spec.TopScale.X, Y: spec.TopScale.Y})
	default:
		s = sdf.Extrude3D(in.s, spec.Height)
	}
	leaves := make([]leaf3, len(in.leaves))
	for i, l := range in.leaves {
		leaves[i] = leaf3{sdf: sdf.Extrude3D(l.sdf, spec.Height), id: l.id}
	}
	return &solid3{s: s, leaves: leaves}, nil
}

func (k *Kernel3) Revolve(c kernel.Concrete2, spec kernel.RevolveSpec) (kernel.Concrete3, error) {
	in := unwrap2(c)
	// sdf.Revolve3D treats theta == 0 as a full turn.
	theta := spec.Angle
	if theta >= 2*math.Pi {
		theta = 0
	}
	s, err := sdf.Revolve3D(in.s, theta)
	if err != nil {
		return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Revolve", Cause: errors.Wrap(err, "sdf.Revolve3D")}
	}
	leaves := make([]leaf3, 0, len(in.leaves))
	for _, l := range in.leaves {
		ls, err := sdf.Revolve3D(l.sdf, theta)
		if err != nil {
			continue
		}
		leaves = append(leaves, leaf3{sdf: ls, id: l.id})
	}
	return &solid3{s: s, leaves: leaves}, nil
}

func (k *Kernel3) Project(c kernel.Concrete3, spec kernel.ProjectionSpec) (kernel.Concrete2, error) {
	if spec.Kind != kernel.ProjectionSlice {
		return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Project",
			Cause: errors.New("sdfx only supports axis-height slicing, not orthographic or along-plane projection")}
	}
	in := unwrap3(c)
	s2 := sdf.Slice2D(in.s, v3.Vec{X: 0, Y: 0, Z: spec.Height}, v3.Vec{X: 0, Y: 0, Z: 1})
	return &solid2{s: s2}, nil
}

func (k *Kernel3) Decompose(c kernel.Concrete3) (kernel.TriangleMesh, error) {
	in := unwrap3(c)
	cells := defaultMeshCells
	if in.refineLevel > 1 {
		cells *= in.refineLevel
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(in.s, renderer)

	out := kernel.TriangleMesh{
		Vertices:            make([]float32, 0, len(triangles)*9),
		Normals:             make([]float32, 0, len(triangles)*9),
		Indices:             make([]uint32, 0, len(triangles)*3),
		TriangleOriginalIDs: make([]elements.OriginalID, 0, len(triangles)),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			out.Vertices = append(out.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			out.Normals = append(out.Normals, nx, ny, nz)
			out.Indices = append(out.Indices, uint32(i*3+j))
		}
		out.TriangleOriginalIDs = append(out.TriangleOriginalIDs, nearestLeaf(in.leaves, tri))
	}
	if in.simplifyEps > 0 {
		weldVertices(&out, in.simplifyEps)
	}
	return out, nil
}

func nearestLeaf(leaves []leaf3, tri render.Triangle3) elements.OriginalID {
	if len(leaves) == 0 {
		return 0
	}
	centroid := v3.Vec{
		X: (tri[0].X + tri[1].X + tri[2].X) / 3,
		Y: (tri[0].Y + tri[1].Y + tri[2].Y) / 3,
		Z: (tri[0].Z + tri[1].Z + tri[2].Z) / 3,
	}
	best := leaves[0].id
	bestDist := math.MaxFloat64
	for _, l := range leaves {
		d := math.Abs(l.sdf.Evaluate(centroid))
		if d < bestDist {
			bestDist = d
			best = l.id
		}
	}
	return best
}

// weldVertices merges vertices within epsilon of each other in place,
// a coarse stand-in for real mesh simplification/decimation.
func weldVertices(mesh *kernel.TriangleMesh, epsilon float64) {
	type key struct{ x, y, z int64 }
	quantize := func(v float32) int64 { return int64(math.Round(float64(v) / epsilon)) }
	seen := make(map[key]int)
	remap := make([]uint32, mesh.VertexCount())
	var newVerts, newNormals []float32
	for i := 0; i < mesh.VertexCount(); i++ {
		x, y, z := mesh.Vertices[3*i], mesh.Vertices[3*i+1], mesh.Vertices[3*i+2]
		k := key{quantize(x), quantize(y), quantize(z)}
		if idx, ok := seen[k]; ok {
			remap[i] = uint32(idx)
			continue
		}
		idx := len(newVerts) / 3
		seen[k] = idx
		remap[i] = uint32(idx)
		newVerts = append(newVerts, x, y, z)
		newNormals = append(newNormals, mesh.Normals[3*i], mesh.Normals[3*i+1], mesh.Normals[3*i+2])
	}
	for i := range mesh.Indices {
		mesh.Indices[i] = remap[mesh.Indices[i]]
	}
	mesh.Vertices = newVerts
	mesh.Normals = newNormals
}

// Kernel2 implements kernel.Kernel2 over deadsy/sdfx.
type Kernel2 struct{}

func New2() *Kernel2 { return &Kernel2{} }

func (k *Kernel2) Rectangle(size geom.Vector2) (kernel.Concrete2, error) {
	s, err := sdf.Box2D(v2.Vec{X: size.X, Y: size.Y}, 0)
	if err != nil {
		return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Rectangle", Cause: errors.Wrap(err, "sdf.Box2D")}
	}
	s = sdf.Transform2D(s, sdf.Translate2d(v2.Vec{X: size.X / 2, Y: size.Y / 2}))
	outline := []geom.Vector2{{X: 0, Y: 0}, {X: size.X, Y: 0}, {X: size.X, Y: size.Y}, {X: 0, Y: size.Y}}
	return &solid2{s: s, outline: outline}, nil
}

func (k *Kernel2) Circle(radius float64, segments int) (kernel.Concrete2, error) {
	s, err := sdf.Circle2D(radius)
	if err != nil {
		return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Circle", Cause: errors.Wrap(err, "sdf.Circle2D")}
	}
	if segments < 3 {
		segments = 3
	}
	outline := make([]geom.Vector2, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		outline[i] = geom.Vector2{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return &solid2{s: s, outline: outline}, nil
}

func (k *Kernel2) Polygon(p geom.Polygon2) (kernel.Concrete2, error) {
	pts := make([]v2.Vec, len(p.Vertices))
	for i, v := range p.Vertices {
		pts[i] = v2.Vec{X: v.X, Y: v.Y}
	}
	s, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Polygon", Cause: errors.Wrap(err, "sdf.Polygon2D")}
	}
	return &solid2{s: s, outline: append([]geom.Vector2(nil), p.Vertices...)}, nil
}

func transform2ToSdf(t geom.Transform2) v2.Matrix {
	rows := t.Rows()
	tr := t.Translation()
	return v2.Matrix{
		X0: rows[0][0], Y0: rows[0][1], W0: tr.X,
		X1: rows[1][0], Y1: rows[1][1], W1: tr.Y,
		X2: 0, Y2: 0, W2: 1,
	}
}

func (k *Kernel2) Transform(c kernel.Concrete2, t geom.Transform2) (kernel.Concrete2, error) {
	in := unwrap2(c)
	m := transform2ToSdf(t)
	out := &solid2{s: sdf.Transform2D(in.s, m)}
	if in.outline != nil {
		out.outline = make([]geom.Vector2, len(in.outline))
		for i, v := range in.outline {
			out.outline[i] = t.Apply(v)
		}
	}
	leaves := make([]leaf2, len(in.leaves))
	for i, l := range in.leaves {
		leaves[i] = leaf2{sdf: sdf.Transform2D(l.sdf, m), id: l.id}
	}
	out.leaves = leaves
	return out, nil
}

func (k *Kernel2) Boolean(kind kernel.BooleanKind, operands []kernel.Concrete2) (kernel.Concrete2, error) {
	if len(operands) == 0 {
		return nil, &kernel.KernelError{Kind: kernel.KindEmptyResult, OpName: "Boolean"}
	}
	acc := unwrap2(operands[0]).s
	var leaves []leaf2
	leaves = append(leaves, unwrap2(operands[0]).leaves...)
	for _, o := range operands[1:] {
		in := unwrap2(o)
		switch kind {
		case kernel.Union:
			acc = sdf.Union2D(acc, in.s)
		case kernel.Intersection:
			acc = sdf.Intersect2D(acc, in.s)
		case kernel.Difference:
			acc = sdf.Difference2D(acc, in.s)
		default:
			return nil, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Boolean"}
		}
		leaves = append(leaves, in.leaves...)
	}
	return &solid2{s: acc, leaves: leaves}, nil
}

func (k *Kernel2) Offset(c kernel.Concrete2, distance float64, style kernel.JoinStyle) (kernel.Concrete2, error) {
	in := unwrap2(c)
	return &solid2{s: sdf.Offset2D(in.s, distance)}, nil
}

type warpedSDF2 struct {
	inner sdf.SDF2
	fn    func(geom.Vector2) geom.Vector2
	bb    sdf.Box2
}

func (w *warpedSDF2) Evaluate(p v2.Vec) float64 {
	q := w.fn(geom.Vector2{X: p.X, Y: p.Y})
	return w.inner.Evaluate(v2.Vec{X: q.X, Y: q.Y})
}

func (w *warpedSDF2) BoundingBox() sdf.Box2 { return w.bb }

func (k *Kernel2) Warp(c kernel.Concrete2, fn func(geom.Vector2) geom.Vector2) (kernel.Concrete2, error) {
	in := unwrap2(c)
	return &solid2{s: &warpedSDF2{inner: in.s, fn: fn, bb: in.s.BoundingBox()}}, nil
}

// Decompose returns the exact cached outline when one survived every
// operation applied so far, and otherwise traces an approximate contour
// with marching squares over the SDF2's bounding box.
func (k *Kernel2) Decompose(c kernel.Concrete2) (kernel.PolygonSet, error) {
	in := unwrap2(c)
	if in.outline != nil {
		loop := make([]float32, 0, len(in.outline)*2)
		for _, v := range in.outline {
			loop = append(loop, float32(v.X), float32(v.Y))
		}
		return kernel.PolygonSet{Loops: [][]float32{loop}}, nil
	}
	return marchingSquares(in.s), nil
}

// marchingSquares traces the zero-contour of s over a uniform grid sized
// off its bounding box. Each cell with exactly two edge crossings yields
// one segment; the segments are sorted by their first x coordinate and
// returned concatenated, endpoint pairs in sequence, as a single loop.
// Segments are not stitched into connected boundaries, and cells with
// four crossings contribute nothing; adequate for preview/measurement
// purposes but not for final 2D export of deeply combined shapes.
func marchingSquares(s sdf.SDF2) kernel.PolygonSet {
	const gridCells = 128
	bb := s.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	longest := math.Max(size.X, size.Y)
	if longest <= 0 {
		return kernel.PolygonSet{}
	}
	step := longest / gridCells
	nx := int(math.Ceil(size.X/step)) + 1
	ny := int(math.Ceil(size.Y/step)) + 1

	var segments [][4]float32
	sample := func(i, j int) float64 {
		p := v2.Vec{X: bb.Min.X + float64(i)*step, Y: bb.Min.Y + float64(j)*step}
		return s.Evaluate(p)
	}
	for i := 0; i < nx-1; i++ {
		for j := 0; j < ny-1; j++ {
			v00, v10, v01, v11 := sample(i, j), sample(i+1, j), sample(i, j+1), sample(i+1, j+1)
			x0 := bb.Min.X + float64(i)*step
			y0 := bb.Min.Y + float64(j)*step
			addEdgeCrossing := func(a, b float64, ax, ay, bx, by float64) ([2]float32, bool) {
				if (a < 0) == (b < 0) {
					return [2]float32{}, false
				}
				t := a / (a - b)
				return [2]float32{float32(ax + t*(bx-ax)), float32(ay + t*(by-ay))}, true
			}
			var pts [][2]float32
			if p, ok := addEdgeCrossing(v00, v10, x0, y0, x0+step, y0); ok {
				pts = append(pts, p)
			}
			if p, ok := addEdgeCrossing(v10, v11, x0+step, y0, x0+step, y0+step); ok {
				pts = append(pts, p)
			}
			if p, ok := addEdgeCrossing(v01, v11, x0, y0+step, x0+step, y0+step); ok {
				pts = append(pts, p)
			}
			if p, ok := addEdgeCrossing(v00, v01, x0, y0, x0, y0+step); ok {
				pts = append(pts, p)
			}
			if len(pts) == 2 {
				segments = append(segments, [4]float32{pts[0][0], pts[0][1], pts[1][0], pts[1][1]})
			}
		}
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i][0] < segments[j][0] })
	loop := make([]float32, 0, len(segments)*4)
	for _, seg := range segments {
		loop = append(loop, seg[0], seg[1], seg[2], seg[3])
	}
	return kernel.PolygonSet{Loops: [][]float32{loop}}
}
