package env

import "github.com/chazu/solidgraph/pkg/segment"

// Scale is the minimum absolute per-axis scale of the environment's
// current transform (geom.Transform3.Scale), used to keep tolerances and
// segmentation resolution consistent in world space as a subtree is
// scaled by ancestor transforms.
func (e Environment) Scale() float64 {
	return e.CurrentTransform().Scale()
}

// ScaledSegmentation returns the segmentation policy with its adaptive
// minSize divided by Scale, so a scaled-up subtree keeps the same
// apparent triangle density as its unscaled definition.
func (e Environment) ScaledSegmentation() segment.Policy {
	return e.SegmentationPolicy().ScaledBy(e.Scale())
}

// ScaledTolerance returns Tolerance divided by Scale, so comparisons made
// in a scaled subtree's local space stay consistent with world-space
// tolerance.
func (e Environment) ScaledTolerance() float64 {
	scale := e.Scale()
	if scale == 0 {
		return e.ToleranceValue()
	}
	return e.ToleranceValue() / scale
}
