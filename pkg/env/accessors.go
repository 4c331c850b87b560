package env

import (
	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/segment"
)

func (e Environment) SegmentationPolicy() segment.Policy {
	if v, ok := e.Get(Segmentation); ok {
		return v.(segment.Policy)
	}
	return segment.AdaptivePolicy(geom.Degrees(8), 0.2)
}

func (e Environment) WithSegmentationPolicy(p segment.Policy) Environment {
	return e.Setting(Segmentation, p)
}

func (e Environment) ToleranceValue() float64 {
	if v, ok := e.Get(Tolerance); ok {
		return v.(float64)
	}
	return 1e-6
}

func (e Environment) WithTolerance(t float64) Environment {
	return e.Setting(Tolerance, t)
}

func (e Environment) CurrentTransform() geom.Transform3 {
	if v, ok := e.Get(Transform); ok {
		return v.(geom.Transform3)
	}
	return geom.Identity3
}

func (e Environment) WithTransform(t geom.Transform3) Environment {
	return e.Setting(Transform, t)
}

func (e Environment) OverhangAngleValue() geom.Angle {
	if v, ok := e.Get(OverhangAngle); ok {
		return v.(geom.Angle)
	}
	return geom.Degrees(45)
}

func (e Environment) FillRuleValue() FillRuleValue {
	if v, ok := e.Get(FillRule); ok {
		return v.(FillRuleValue)
	}
	return FillRuleNonZero
}

func (e Environment) CornerRoundingStyleValue() CornerRoundingStyleValue {
	if v, ok := e.Get(CornerRoundingStyle); ok {
		return v.(CornerRoundingStyleValue)
	}
	return CornerRoundingRound
}

func (e Environment) MaterialValue() (interface{}, bool) {
	return e.Get(Material)
}

func (e Environment) NaturalUpDirectionValue() geom.Direction3 {
	if v, ok := e.Get(NaturalUpDirection); ok {
		return v.(geom.Direction3)
	}
	return geom.AxisZ3
}

func (e Environment) MaxTwistRateValue() float64 {
	if v, ok := e.Get(MaxTwistRate); ok {
		return v.(float64)
	}
	return 15
}

func (e Environment) TwistSubdivisionThresholdValue() float64 {
	if v, ok := e.Get(TwistSubdivisionThreshold); ok {
		return v.(float64)
	}
	return 1
}

func (e Environment) SimplificationThresholdValue() float64 {
	if v, ok := e.Get(SimplificationThreshold); ok {
		return v.(float64)
	}
	return 0
}

func (e Environment) OperationValue() OperationValue {
	if v, ok := e.Get(Operation); ok {
		return v.(OperationValue)
	}
	return OperationAddition
}

// Default is the environment new scenes start evaluation from: identity
// transform, adaptive segmentation tuned for a human-scale model, and the
// spec-mandated defaults for every other derived setting.
var Default = Empty.
	WithTransform(geom.Identity3).
	WithTolerance(1e-6).
	WithSegmentationPolicy(segment.AdaptivePolicy(geom.Degrees(8), 0.2))
