package path

import (
	"math"

	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/segment"
)

// parallelTolerance bounds how close to exactly parallel/antiparallel two
// directions must be before the transport and targeting math below treats
// them as degenerate rather than dividing by a near-zero length.
const parallelTolerance = 1e-6

// Frame is a local basis placed at a point along a path: Z is the path's
// tangent there, X is the rolled reference direction, Y completes a
// right-handed orthonormal triad (spec.md §4.9).
type Frame struct {
	Position geom.Vector3
	X, Y, Z  geom.Direction3
}

// Transform returns the affine frame placing a 2D cross-section at this
// sample: X/Y span the cross-section plane, Z is the sweep direction.
func (f Frame) Transform() geom.Transform3 {
	return geom.NewTransform3FromBasis(f.X, f.Y, f.Z, f.Position)
}

// FrameOptions configures ComputeFrames.
type FrameOptions struct {
	// Policy drives both the sample count (spec.md §4.9 step 1) and, for
	// Adaptive policies, the straight-run pruning thresholds (step 6).
	Policy segment.Policy
	// Reference seeds the first frame's X axis: it is projected into the
	// plane perpendicular to the initial tangent, then carried forward by
	// parallel transport and rolled toward Target at every sample. If it
	// is the zero direction (or parallel to the initial tangent),
	// LeastParallelAxis seeds the frame instead.
	Reference geom.Direction3
	// Target is what Reference should point toward at each sample (step
	// 3); the zero Target (no field set) applies no roll at all, leaving
	// pure parallel transport.
	Target Target
	// MaxTwistRate bounds the per-arc-length rate of change of the roll
	// angle (step 5): the angular change between consecutive samples is
	// clamped to at most MaxTwistRate (in radians) times the arc length
	// between them.
	MaxTwistRate geom.Angle
}

type frameSample struct {
	point     geom.Vector3
	tangent   geom.Direction3
	x, y      geom.Direction3 // final, post-roll basis
	angle     float64         // damped roll angle, radians; used only for pruning's displacement metric
	arcLength float64         // cumulative chord-sampled length from the first sample
}

// ComputeFrames implements spec.md §4.9's six-step sweep frame algorithm.
func ComputeFrames(p geom.Path3, opts FrameOptions) ([]Frame, error) {
	if len(p.Curves) == 0 {
		return nil, &geom.InvalidGeometryError{Op: "ComputeFrames", Message: "path has no curves"}
	}

	n := sampleCount(p, opts.Policy)
	positions := p.Positions(n)

	carried := make([]carriedFrame, n)
	var arcLength float64
	for i, pos := range positions {
		point := p.Point(pos)
		if i > 0 {
			arcLength += point.Distance(carried[i-1].point)
		}
		tangent, err := geom.NewDirection3(p.Derivative(pos))
		if err != nil {
			return nil, err
		}
		var x geom.Direction3
		if i == 0 {
			seed := opts.Reference
			if seed == (geom.Direction3{}) || seed.IsParallel(tangent, parallelTolerance) {
				seed = tangent.LeastParallelAxis()
			}
			x = orthogonalize(seed, tangent)
		} else {
			x = parallelTransport(carried[i-1].tangent, tangent, carried[i-1].x)
		}
		y := geom.MustDirection3(tangent.Vector().Cross(x.Vector()))
		carried[i] = carriedFrame{point: point, tangent: tangent, x: x, y: y, arcLength: arcLength}
	}

	rolls := make([]float64, n)
	known := make([]bool, n)
	for i, f := range carried {
		dirWorld, ok := opts.Target.directionAt(f.point, f.tangent)
		if !ok {
			continue
		}
		dx, dy := dirWorld.Dot(f.x.Vector()), dirWorld.Dot(f.y.Vector())
		if dx*dx+dy*dy < parallelTolerance*parallelTolerance {
			continue
		}
		rolls[i] = math.Atan2(dy, dx)
		known[i] = true
	}
	filled := fillMissingAngles(carried, rolls, known)
	unwrapped := unwrapAngles(filled)
	damped := dampTwist(carried, unwrapped, opts.MaxTwistRate.Radians())

	samples := make([]frameSample, n)
	for i, f := range carried {
		rotated := geom.RotationAxis(f.tangent, damped[i]).ApplyLinear(f.x.Vector())
		finalX := geom.MustDirection3(rotated)
		finalY := geom.MustDirection3(f.tangent.Vector().Cross(finalX.Vector()))
		samples[i] = frameSample{point: f.point, tangent: f.tangent, x: finalX, y: finalY, angle: damped[i], arcLength: f.arcLength}
	}

	samples = pruneStraightRuns(samples, opts.Policy)

	frames := make([]Frame, len(samples))
	for i, s := range samples {
		frames[i] = Frame{Position: s.point, X: s.x, Y: s.y, Z: s.tangent}
	}
	return frames, nil
}

type carriedFrame struct {
	point     geom.Vector3
	tangent   geom.Direction3
	x, y      geom.Direction3
	arcLength float64
}

// sampleCount picks how many frames to sample along p: a fixed policy
// samples at its declared count (floored to enough points to resolve
// every curve boundary), an adaptive one sizes itself off the path's
// approximate length the same way segment.LengthCount sizes a straight
// run's polygon resolution.
func sampleCount(p geom.Path3, policy segment.Policy) int {
	length := p.Length(16)
	n := segment.LengthCount(policy, length)
	if min := len(p.Curves) + 1; n < min {
		n = min
	}
	if n < 2 {
		n = 2
	}
	return n
}

// orthogonalize projects seed into the plane perpendicular to tangent via
// Gram-Schmidt, the same construction Plane.Transform uses for its own
// local frame.
func orthogonalize(seed, tangent geom.Direction3) geom.Direction3 {
	sv := seed.Vector().Sub(tangent.Vector().Scaled(tangent.Vector().Dot(seed.Vector())))
	d, err := geom.NewDirection3(sv)
	if err != nil {
		return tangent.LeastParallelAxis()
	}
	return d
}

// parallelTransport carries prevX forward through the rotation that
// aligns prevTangent with nextTangent (spec.md §4.9 step 2). Tangents
// that are already aligned (or exactly opposed, where no rotation axis is
// well defined) leave prevX unchanged.
func parallelTransport(prevTangent, nextTangent, prevX geom.Direction3) geom.Direction3 {
	axisVec := prevTangent.Vector().Cross(nextTangent.Vector())
	axisLen := axisVec.Length()
	if axisLen < parallelTolerance {
		return prevX
	}
	axis := geom.MustDirection3(axisVec)
	cosAngle := prevTangent.Dot(nextTangent)
	if cosAngle > 1 {
		cosAngle = 1
	} else if cosAngle < -1 {
		cosAngle = -1
	}
	angle := math.Acos(cosAngle)
	rotated := geom.RotationAxis(axis, angle).ApplyLinear(prevX.Vector())
	return geom.MustDirection3(rotated)
}

// fillMissingAngles linearly interpolates (by arc length) the samples
// whose roll angle was marked missing, holding the nearest known value
// constant past either end of the sequence (spec.md §4.9 step 4, first
// half).
func fillMissingAngles(carried []carriedFrame, rolls []float64, known []bool) []float64 {
	n := len(rolls)
	out := append([]float64(nil), rolls...)

	firstKnown := -1
	for i := 0; i < n; i++ {
		if known[i] {
			firstKnown = i
			break
		}
	}
	if firstKnown == -1 {
		return out
	}
	for i := 0; i < firstKnown; i++ {
		out[i] = out[firstKnown]
	}

	lastKnown := firstKnown
	for i := firstKnown + 1; i < n; i++ {
		if !known[i] {
			continue
		}
		if i > lastKnown+1 {
			interpolateRun(carried, out, lastKnown, i)
		}
		lastKnown = i
	}
	for i := lastKnown + 1; i < n; i++ {
		out[i] = out[lastKnown]
	}
	return out
}

func interpolateRun(carried []carriedFrame, out []float64, from, to int) {
	span := carried[to].arcLength - carried[from].arcLength
	if span <= 0 {
		for i := from + 1; i < to; i++ {
			out[i] = out[from]
		}
		return
	}
	for i := from + 1; i < to; i++ {
		t := (carried[i].arcLength - carried[from].arcLength) / span
		out[i] = out[from] + t*(out[to]-out[from])
	}
}

// unwrapAngles turns a sequence of angles (each taken mod 2π) into a
// continuous one by accumulating the shortest signed delta step to step,
// so the sequence never jumps by a full turn (spec.md §4.9 step 4,
// second half).
func unwrapAngles(raw []float64) []float64 {
	out := make([]float64, len(raw))
	if len(raw) == 0 {
		return out
	}
	out[0] = raw[0]
	for i := 1; i < len(raw); i++ {
		delta := geom.Radians(out[i-1]).ShortestSignedDelta(geom.Radians(raw[i]))
		out[i] = out[i-1] + delta.Radians()
	}
	return out
}

// dampTwist clamps the per-step change in the unwrapped roll angle to at
// most maxRatePerLength radians per unit arc length (spec.md §4.9 step
// 5). A non-positive rate disables damping entirely.
func dampTwist(carried []carriedFrame, unwrapped []float64, maxRatePerLength float64) []float64 {
	damped := make([]float64, len(unwrapped))
	if len(unwrapped) == 0 {
		return damped
	}
	damped[0] = unwrapped[0]
	if maxRatePerLength <= 0 {
		copy(damped, unwrapped)
		return damped
	}
	for i := 1; i < len(unwrapped); i++ {
		step := carried[i].arcLength - carried[i-1].arcLength
		maxDelta := maxRatePerLength * step
		delta := unwrapped[i] - damped[i-1]
		if delta > maxDelta {
			delta = maxDelta
		} else if delta < -maxDelta {
			delta = -maxDelta
		}
		damped[i] = damped[i-1] + delta
	}
	return damped
}

// pruneStraightRuns drops intermediate samples that are both nearly
// collinear with, and displaced little from, the last retained sample
// (spec.md §4.9 step 6) — fixed policies never prune, since their
// segment count is an explicit user choice rather than a resolution
// budget to spend adaptively.
func pruneStraightRuns(samples []frameSample, policy segment.Policy) []frameSample {
	if policy.Kind() != segment.Adaptive || len(samples) <= 2 {
		return samples
	}
	cosThreshold := math.Cos(policy.MinAngle().Radians())
	minSize := policy.MinSize()

	out := make([]frameSample, 0, len(samples))
	out = append(out, samples[0])
	lastRetained := samples[0]
	for i := 1; i < len(samples)-1; i++ {
		s := samples[i]
		tangentCos := lastRetained.tangent.Dot(s.tangent)
		displacement := math.Max(lastRetained.point.Distance(s.point), math.Abs(s.angle-lastRetained.angle))
		if tangentCos > cosThreshold && displacement < minSize {
			continue
		}
		out = append(out, s)
		lastRetained = s
	}
	out = append(out, samples[len(samples)-1])
	return out
}
