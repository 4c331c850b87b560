package geom

import "math"

// Path3 is a sequence of Bézier curves sharing endpoints: Curves[i].End()
// coincides with Curves[i+1].Start().
type Path3 struct {
	Curves []BezierCurve3
}

func NewPath3(curves []BezierCurve3) Path3 {
	return Path3{Curves: append([]BezierCurve3(nil), curves...)}
}

// Position addresses a point along the path: its integer part selects the
// curve, its fractional part the local parameter t within that curve. The
// final curve's t==1 endpoint is addressed by len(Curves).
type Position float64

func (p Path3) curveIndexAndT(pos Position) (int, float64) {
	n := len(p.Curves)
	f := float64(pos)
	if f >= float64(n) {
		return n - 1, 1
	}
	if f < 0 {
		return 0, 0
	}
	idx := int(math.Floor(f))
	if idx >= n {
		idx = n - 1
	}
	return idx, f - float64(idx)
}

// Point evaluates the path at the given position.
func (p Path3) Point(pos Position) Vector3 {
	idx, t := p.curveIndexAndT(pos)
	return p.Curves[idx].Point(t)
}

// Derivative returns the curve-wise tangent at the given position.
func (p Path3) Derivative(pos Position) Vector3 {
	idx, t := p.curveIndexAndT(pos)
	return p.Curves[idx].Derivative(t)
}

// Subcurve returns the portion of the path between two positions as a new
// path, splitting the boundary curves as needed.
func (p Path3) Subcurve(from, to Position) Path3 {
	fromIdx, fromT := p.curveIndexAndT(from)
	toIdx, toT := p.curveIndexAndT(to)
	if toIdx == fromIdx && toT == 0 && to > from {
		toIdx++
		toT = 0
	}
	if fromIdx == toIdx {
		return Path3{Curves: []BezierCurve3{p.Curves[fromIdx].Subcurve(fromT, toT)}}
	}
	out := []BezierCurve3{p.Curves[fromIdx].Subcurve(fromT, 1)}
	for i := fromIdx + 1; i < toIdx; i++ {
		out = append(out, p.Curves[i])
	}
	if toT > 0 {
		out = append(out, p.Curves[toIdx].Subcurve(0, toT))
	}
	return Path3{Curves: out}
}

// Length sums each curve's chord-sampled arc length.
func (p Path3) Length(samplesPerCurve int) float64 {
	var total float64
	for _, c := range p.Curves {
		total += c.Length(samplesPerCurve)
	}
	return total
}

// Positions returns `count` evenly-Position-spaced samples across the
// whole path (count >= 2), including both endpoints.
func (p Path3) Positions(count int) []Position {
	if count < 2 {
		count = 2
	}
	n := len(p.Curves)
	out := make([]Position, count)
	for i := 0; i < count; i++ {
		out[i] = Position(float64(n) * float64(i) / float64(count-1))
	}
	return out
}

// Points samples the path at `count` evenly spaced positions.
func (p Path3) Points(count int) []Vector3 {
	positions := p.Positions(count)
	out := make([]Vector3, len(positions))
	for i, pos := range positions {
		out[i] = p.Point(pos)
	}
	return out
}

func (p Path3) BoundingBox() BoundingBox3 {
	bb := EmptyBoundingBox3()
	for _, c := range p.Curves {
		bb = bb.Union(c.BoundingBox())
	}
	return bb
}

func (p Path3) Start() Vector3 { return p.Curves[0].Start() }
func (p Path3) End() Vector3   { return p.Curves[len(p.Curves)-1].End() }
