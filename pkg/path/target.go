package path

import "github.com/chazu/solidgraph/pkg/geom"

// Target names what the in-plane reference direction should point at,
// per spec.md §4.9 step 3: a point, a line, or a fixed direction.
// Exactly one field is set; modeled as a pointer union the same way
// scene.SplitBy3 distinguishes its Plane/Mask alternatives.
type Target struct {
	Point     *geom.Vector3
	Line      *geom.Line3
	Direction *geom.Direction3
}

func TargetPoint(p geom.Vector3) Target { return Target{Point: &p} }
func TargetLine(l geom.Line3) Target    { return Target{Line: &l} }
func TargetDirection(d geom.Direction3) Target {
	return Target{Direction: &d}
}

// directionAt returns the direction, in world space, that the reference
// should point toward from the given frame origin — or ok=false if no
// field is set or a Direction target is parallel to the tangent. Point and
// Line targets always report ok=true; the returned vector is zero when the
// sample lies on the target.
func (tg Target) directionAt(at geom.Vector3, tangent geom.Direction3) (geom.Vector3, bool) {
	switch {
	case tg.Point != nil:
		return tg.Point.Sub(at), true
	case tg.Line != nil:
		closest := closestPointOnLine(*tg.Line, at)
		return closest.Sub(at), true
	case tg.Direction != nil:
		if tg.Direction.IsParallel(tangent, parallelTolerance) {
			return geom.Vector3{}, false
		}
		return tg.Direction.Vector(), true
	default:
		return geom.Vector3{}, false
	}
}

func closestPointOnLine(l geom.Line3, p geom.Vector3) geom.Vector3 {
	toP := p.Sub(l.Point)
	t := toP.Dot(l.Direction.Vector())
	return l.Point.Add(l.Direction.Vector().Scaled(t))
}
