package geometry

import (
	"context"

	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/env"
	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/scene"
	"github.com/chazu/solidgraph/pkg/segment"
)

// BezierPatchGeometry3 tessellates a Bézier patch surface into a mesh
// leaf. Sample counts come from the environment's segmentation policy at
// build time, the same way a cylinder captures its segment count when it
// lowers into the node: the chosen grid resolution is baked into the
// resulting Mesh3, so two patches with equal control nets built under
// equivalent segmentation share a fingerprint.
//
// The patch surface itself is open; Thickness extrudes each sampled quad
// slab along its own normal so the result encloses a volume the kernel
// can treat as a solid. A zero thickness is rejected at build time.
type BezierPatchGeometry3 struct {
	Patch     geom.BezierPatch
	Thickness float64
}

func (g BezierPatchGeometry3) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult3, error) {
	if g.Thickness <= 0 {
		return elements.BuildResult3{}, &geom.InvalidGeometryError{
			Op: "BezierPatchGeometry3", Message: "thickness must be positive",
		}
	}
	policy := e.ScaledSegmentation()
	nu := patchSampleCount(policy, g.Patch.ControlArcLengthU())
	nv := patchSampleCount(policy, g.Patch.ControlArcLengthV())
	data := tessellatePatch(g.Patch, g.Thickness, nu, nv)
	return elements.BuildResult3{
		Node:     scene.NewShape3(scene.Mesh3{Data: data}),
		Elements: elements.EmptyElements(),
	}, nil
}

func patchSampleCount(policy segment.Policy, length float64) int {
	return segment.LengthCount(policy, length)
}

// tessellatePatch samples the patch into an (nu+1)x(nv+1) lattice and
// builds a closed slab: the sampled surface, a copy displaced along the
// per-vertex normal by thickness, and side walls stitching the borders.
func tessellatePatch(p geom.BezierPatch, thickness float64, nu, nv int) scene.MeshData {
	cols := nv + 1
	top := p.Grid(nu, nv)
	bottom := make([]geom.Vector3, len(top))
	for i := 0; i <= nu; i++ {
		u := float64(i) / float64(nu)
		for j := 0; j <= nv; j++ {
			v := float64(j) / float64(nv)
			idx := i*cols + j
			n := p.PartialU(u, v).Cross(p.PartialV(u, v))
			if n.Length() == 0 {
				n = geom.Vector3{Z: 1}
			}
			bottom[idx] = top[idx].Sub(n.Scaled(thickness / n.Length()))
		}
	}

	verts := append(append([]geom.Vector3{}, top...), bottom...)
	off := len(top)
	var faces [][]int

	// Quads are declared walking the lattice; emitting them reversed
	// orients every face outward (surface normal n = du x dv points away
	// from the offset bottom sheet).
	quad := func(a, b, c, d int) {
		faces = append(faces, []int{d, c, b, a})
	}
	for i := 0; i < nu; i++ {
		for j := 0; j < nv; j++ {
			a := i*cols + j
			b := a + 1
			c := (i+1)*cols + j + 1
			d := (i+1)*cols + j
			quad(a, b, c, d)
			quad(off+a, off+d, off+c, off+b)
		}
	}
	// Side walls along the four borders, wound outward.
	for i := 0; i < nu; i++ {
		a := i * cols
		d := (i + 1) * cols
		quad(a, d, off+d, off+a)
		a = i*cols + nv
		d = (i+1)*cols + nv
		quad(d, a, off+a, off+d)
	}
	for j := 0; j < nv; j++ {
		a := j
		b := j + 1
		quad(b, a, off+a, off+b)
		a = nu*cols + j
		b = nu*cols + j + 1
		quad(a, b, off+b, off+a)
	}
	return scene.MeshData{Vertices: verts, Faces: faces}
}
