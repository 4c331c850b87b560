package scene

import (
	"hash"

	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/glycerine/blake2b"
	"github.com/tinylib/msgp/msgp"
)

// Fingerprint is a content hash of a node: two nodes with equal
// Fingerprints are guaranteed structurally equivalent (invariant I2), so
// the evaluator can use Fingerprint as a cache key instead of re-walking
// the tree for equality.
type Fingerprint [32]byte

// canonicalWriter streams a node's variant tag and fields, in a fixed
// field order per variant, into a hash — the same values always produce
// the same bytes regardless of how the node was built.
type canonicalWriter struct {
	hash hash.Hash
	w    *msgp.Writer
}

func newCanonicalWriter() *canonicalWriter {
	h := blake2b.New256()
	return &canonicalWriter{hash: h, w: msgp.NewWriter(h)}
}

func (c *canonicalWriter) sum() Fingerprint {
	c.w.Flush()
	var out Fingerprint
	copy(out[:], c.hash.Sum(nil))
	return out
}

func (c *canonicalWriter) tag(kind int)   { c.w.WriteInt(kind) }
func (c *canonicalWriter) str(s string)   { c.w.WriteString(s) }
func (c *canonicalWriter) f64(f float64)  { c.w.WriteFloat64(f) }
func (c *canonicalWriter) i64(i int64)    { c.w.WriteInt64(i) }
func (c *canonicalWriter) arrayLen(n int) { c.w.WriteArrayHeader(uint32(n)) }
func (c *canonicalWriter) bytes(b []byte) { c.w.WriteBytes(b) }

func (c *canonicalWriter) param(p CacheParam) {
	switch p.kind {
	case cacheParamString:
		c.tag(0)
		c.str(p.s)
	case cacheParamFloat:
		c.tag(1)
		c.f64(p.f)
	case cacheParamInt:
		c.tag(2)
		c.i64(p.i)
	}
}

func (c *canonicalWriter) params(ps []CacheParam) {
	c.arrayLen(len(ps))
	for _, p := range ps {
		c.param(p)
	}
}

// Fingerprint computes the canonical content hash of n. An Opaque3 node
// already carries its fingerprint (the engine computed it when it built
// the node), so it is returned directly instead of re-hashed.
func (n Node3) Fingerprint() Fingerprint {
	if n.kind == KindOpaque3 {
		return n.opaque.Fingerprint
	}
	c := newCanonicalWriter()
	n.writeTo(c)
	return c.sum()
}

// CombinedFingerprint derives a fresh fingerprint from an existing one
// plus an operation name and parameters, for synthetic nodes (such as a
// CachingPrimitiveTransformer's result) that did not arise from walking a
// Node3/Node2 tree via writeTo.
func CombinedFingerprint(base Fingerprint, opName string, params []CacheParam) Fingerprint {
	c := newCanonicalWriter()
	c.bytes(base[:])
	c.str(opName)
	c.params(params)
	return c.sum()
}

func (n Node3) writeTo(c *canonicalWriter) {
	c.tag(int(n.kind))
	switch n.kind {
	case KindEmpty3:
	case KindShape3:
		writeShape3(c, n.shape)
	case KindTransform3:
		writeTransform3(c, n.transform)
		n.child.writeTo(c)
	case KindBoolean3:
		c.tag(int(n.booleanKind))
		c.arrayLen(len(n.children))
		for _, ch := range n.children {
			ch.writeTo(c)
		}
	case KindExtrusion3:
		c.f64(n.extrusion.Height)
		c.f64(n.extrusion.Twist.Radians())
		c.f64(n.extrusion.TopScale.X)
		c.f64(n.extrusion.TopScale.Y)
		c.i64(int64(n.extrusion.Slices))
		n.child2D.writeTo(c)
	case KindRevolution3:
		c.f64(n.revolution.Angle.Radians())
		c.i64(int64(n.revolution.SegmentCount))
		n.child2D.writeTo(c)
	case KindHull3:
		c.arrayLen(len(n.hullPoints))
		for _, p := range n.hullPoints {
			c.f64(p.X)
			c.f64(p.Y)
			c.f64(p.Z)
		}
		n.child.writeTo(c)
	case KindRefine3:
		c.f64(n.maxEdgeLen)
		n.child.writeTo(c)
	case KindSimplify3:
		c.f64(n.epsilon)
		n.child.writeTo(c)
	case KindWarp3:
		c.str(n.warp.OpName)
		c.params(n.warp.Params)
		n.child.writeTo(c)
	case KindSplit3:
		if n.split.Plane != nil {
			c.tag(0)
			c.f64(n.split.Plane.Normal.Vector().X)
			c.f64(n.split.Plane.Normal.Vector().Y)
			c.f64(n.split.Plane.Normal.Vector().Z)
			c.f64(n.split.Plane.Offset)
		} else {
			c.tag(1)
			n.split.Mask.writeTo(c)
		}
		c.tag(int(n.splitSide))
		n.child.writeTo(c)
	case KindCached3:
		c.str(n.cached.OpName)
		c.params(n.cached.Params)
	case KindOpaque3:
		c.bytes(n.opaque.Fingerprint[:])
	case KindMaterial3:
		c.str(n.material.Key)
		n.child.writeTo(c)
	}
}

func writeTransform3(c *canonicalWriter, t geom.Transform3) {
	rows := t.Rows()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.f64(rows[i][j])
		}
	}
	tr := t.Translation()
	c.f64(tr.X)
	c.f64(tr.Y)
	c.f64(tr.Z)
}

func writeShape3(c *canonicalWriter, s Shape3) {
	switch v := s.(type) {
	case Cylinder3:
		c.tag(0)
		c.f64(v.BottomRadius)
		c.f64(v.TopRadius)
		c.f64(v.Height)
		c.i64(int64(v.SegmentCount))
	case Sphere3:
		c.tag(1)
		c.f64(v.Radius)
		c.i64(int64(v.SegmentCount))
	case Box3:
		c.tag(2)
		c.f64(v.Size.X)
		c.f64(v.Size.Y)
		c.f64(v.Size.Z)
	case Mesh3:
		c.tag(3)
		c.arrayLen(len(v.Data.Vertices))
		for _, p := range v.Data.Vertices {
			c.f64(p.X)
			c.f64(p.Y)
			c.f64(p.Z)
		}
		c.arrayLen(len(v.Data.Faces))
		for _, f := range v.Data.Faces {
			c.arrayLen(len(f))
			for _, idx := range f {
				c.i64(int64(idx))
			}
		}
	case ImportedPart3:
		c.tag(4)
		c.str(v.SourceKey)
		c.str(v.PartName)
	}
}

// Fingerprint computes the canonical content hash of n.
func (n Node2) Fingerprint() Fingerprint {
	if n.kind == KindOpaque2 {
		return n.opaque.Fingerprint
	}
	c := newCanonicalWriter()
	n.writeTo(c)
	return c.sum()
}

func (n Node2) writeTo(c *canonicalWriter) {
	c.tag(int(n.kind))
	switch n.kind {
	case KindEmpty2:
	case KindShape2:
		writeShape2(c, n.shape)
	case KindTransform2:
		rows := n.transform.Rows()
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				c.f64(rows[i][j])
			}
		}
		tr := n.transform.Translation()
		c.f64(tr.X)
		c.f64(tr.Y)
		n.child.writeTo(c)
	case KindBoolean2:
		c.tag(int(n.booleanKind))
		c.arrayLen(len(n.children))
		for _, ch := range n.children {
			ch.writeTo(c)
		}
	case KindProjection2:
		c.tag(int(n.projection.Kind))
		c.f64(n.projection.Height)
		c.f64(n.projection.Direction.Vector().X)
		c.f64(n.projection.Direction.Vector().Y)
		c.f64(n.projection.Direction.Vector().Z)
		c.f64(n.projection.Plane.Normal.Vector().X)
		c.f64(n.projection.Plane.Normal.Vector().Y)
		c.f64(n.projection.Plane.Normal.Vector().Z)
		c.f64(n.projection.Plane.Offset)
		n.child3D.writeTo(c)
	case KindOffset2:
		c.f64(n.offset.Distance)
		c.tag(int(n.offset.CornerStyle))
		n.child.writeTo(c)
	case KindWarp2:
		c.str(n.warp.OpName)
		c.params(n.warp.Params)
		n.child.writeTo(c)
	case KindOpaque2:
		c.bytes(n.opaque.Fingerprint[:])
	}
}

func writeShape2(c *canonicalWriter, s Shape2) {
	switch v := s.(type) {
	case Rectangle2:
		c.tag(0)
		c.f64(v.Size.X)
		c.f64(v.Size.Y)
	case Circle2:
		c.tag(1)
		c.f64(v.Radius)
		c.i64(int64(v.SegmentCount))
	case Polygon2Shape:
		c.tag(2)
		c.arrayLen(len(v.Polygon.Vertices))
		for _, p := range v.Polygon.Vertices {
			c.f64(p.X)
			c.f64(p.Y)
		}
	}
}
