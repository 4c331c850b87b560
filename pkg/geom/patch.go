package geom

// BezierPatch is a tensor-product Bézier surface over a rectangular grid
// of control points: Control[i][j] spans the u direction by i and the v
// direction by j. All rows must have the same length; degree is
// len(Control)-1 by len(Control[0])-1.
type BezierPatch struct {
	Control [][]Vector3
}

// NewBezierPatch validates the control net shape.
func NewBezierPatch(control [][]Vector3) (BezierPatch, error) {
	if len(control) < 2 {
		return BezierPatch{}, invalidf("NewBezierPatch", "a Bézier patch needs at least two control rows")
	}
	cols := len(control[0])
	if cols < 2 {
		return BezierPatch{}, invalidf("NewBezierPatch", "a Bézier patch needs at least two control columns")
	}
	for _, row := range control {
		if len(row) != cols {
			return BezierPatch{}, invalidf("NewBezierPatch", "control rows must all have the same length")
		}
	}
	return BezierPatch{Control: control}, nil
}

// Point evaluates the patch at (u, v), both in [0, 1]: de Casteljau along
// each control row at v, then once more across the resulting column at u.
func (p BezierPatch) Point(u, v float64) Vector3 {
	column := make([]Vector3, len(p.Control))
	for i, row := range p.Control {
		column[i] = BezierCurve3{ControlPoints: row}.Point(v)
	}
	return BezierCurve3{ControlPoints: column}.Point(u)
}

// PartialU returns the tangent in the u direction at (u, v).
func (p BezierPatch) PartialU(u, v float64) Vector3 {
	column := make([]Vector3, len(p.Control))
	for i, row := range p.Control {
		column[i] = BezierCurve3{ControlPoints: row}.Point(v)
	}
	return BezierCurve3{ControlPoints: column}.Derivative(u)
}

// PartialV returns the tangent in the v direction at (u, v).
func (p BezierPatch) PartialV(u, v float64) Vector3 {
	row := make([]Vector3, len(p.Control[0]))
	for j := range p.Control[0] {
		column := make([]Vector3, len(p.Control))
		for i := range p.Control {
			column[i] = p.Control[i][j]
		}
		row[j] = BezierCurve3{ControlPoints: column}.Point(u)
	}
	return BezierCurve3{ControlPoints: row}.Derivative(v)
}

// BoundingBox bounds the patch by its control net (the surface lies
// inside the net's convex hull).
func (p BezierPatch) BoundingBox() BoundingBox3 {
	bb := EmptyBoundingBox3()
	for _, row := range p.Control {
		for _, pt := range row {
			bb = bb.IncludingPoint(pt)
		}
	}
	return bb
}

// ControlArcLengthU approximates the longest control-polygon run in the
// u direction, an upper bound on the surface's u-wise arc length used to
// pick sample counts.
func (p BezierPatch) ControlArcLengthU() float64 {
	var longest float64
	cols := len(p.Control[0])
	for j := 0; j < cols; j++ {
		var sum float64
		for i := 1; i < len(p.Control); i++ {
			sum += p.Control[i][j].Distance(p.Control[i-1][j])
		}
		if sum > longest {
			longest = sum
		}
	}
	return longest
}

// ControlArcLengthV is the v-direction analog of ControlArcLengthU.
func (p BezierPatch) ControlArcLengthV() float64 {
	var longest float64
	for _, row := range p.Control {
		var sum float64
		for j := 1; j < len(row); j++ {
			sum += row[j].Distance(row[j-1])
		}
		if sum > longest {
			longest = sum
		}
	}
	return longest
}

// Grid samples the patch into a (nu+1) x (nv+1) point lattice, row-major
// by u. nu and nv must each be at least 1.
func (p BezierPatch) Grid(nu, nv int) []Vector3 {
	pts := make([]Vector3, 0, (nu+1)*(nv+1))
	for i := 0; i <= nu; i++ {
		u := float64(i) / float64(nu)
		for j := 0; j <= nv; j++ {
			v := float64(j) / float64(nv)
			pts = append(pts, p.Point(u, v))
		}
	}
	return pts
}
