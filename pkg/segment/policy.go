package segment

import (
	"math"

	"github.com/chazu/solidgraph/pkg/geom"
)

// Kind distinguishes the two ways a Policy may be specified.
type Kind int

const (
	Fixed Kind = iota
	Adaptive
)

// Policy is a segmentation policy: either a fixed segment count, or an
// adaptive bound expressed as a minimum angle per segment and a minimum
// chord length per segment.
type Policy struct {
	kind       Kind
	fixedCount int
	minAngle   geom.Angle
	minSize    float64
}

// FixedPolicy always discretizes to the same count, floored to the
// minimum of 3 a closed curve needs to enclose area.
func FixedPolicy(count int) Policy {
	return Policy{kind: Fixed, fixedCount: count}
}

// AdaptivePolicy scales segment count with feature size: a circle gets
// the smaller of 360°/minAngle and circumference/minSize segments, floored
// at 5, so above that floor no segment subtends less than minAngle of arc
// or spans less than minSize of arc length.
func AdaptivePolicy(minAngle geom.Angle, minSize float64) Policy {
	return Policy{kind: Adaptive, minAngle: minAngle, minSize: minSize}
}

func (p Policy) Kind() Kind { return p.kind }

func (p Policy) FixedCount() int { return p.fixedCount }

func (p Policy) MinAngle() geom.Angle { return p.minAngle }

func (p Policy) MinSize() float64 { return p.minSize }

// ScaledBy returns the policy with minSize divided by scale (an adaptive
// policy's minSize is a world-space length, so it must shrink as the
// enclosing transform grows to keep the same apparent resolution).
// Fixed policies are unaffected: a fixed count has no length to rescale.
func (p Policy) ScaledBy(scale float64) Policy {
	if p.kind != Adaptive || scale == 0 {
		return p
	}
	return Policy{kind: Adaptive, minAngle: p.minAngle, minSize: p.minSize / scale}
}

// CircleCount returns the number of segments a full circle of the given
// radius should be discretized into.
func CircleCount(p Policy, radius float64) int {
	switch p.kind {
	case Fixed:
		return maxInt(p.fixedCount, 3)
	default:
		nAngle := 360 / p.minAngle.Degrees()
		nLen := 2 * math.Pi * radius / p.minSize
		n := math.Min(nAngle, nLen)
		return int(math.Floor(math.Max(n, 5)))
	}
}

// ArcCount returns the number of segments an arc of the given angle (at
// the given radius) should be discretized into, minimum 2.
func ArcCount(p Policy, radius float64, angle geom.Angle) int {
	full := CircleCount(p, radius)
	theta := math.Abs(angle.Degrees())
	n := int(math.Ceil(float64(full) * theta / 360))
	return maxInt(n, 2)
}

// LengthCount returns the number of segments a straight run of the given
// length should be discretized into.
func LengthCount(p Policy, length float64) int {
	switch p.kind {
	case Fixed:
		return maxInt(p.fixedCount, 3)
	default:
		n := math.Ceil(math.Max(length/p.minSize, 5))
		return int(n)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
