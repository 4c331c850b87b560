package env

// Key is an opaque identity for a binding in an Environment. Each key
// carries the Go type its value is expected to hold; callers use the
// typed accessors below rather than asserting on the raw value.
type Key int

const (
	Segmentation Key = iota
	Tolerance
	Transform
	OverhangAngle
	FillRule
	CornerRoundingStyle
	Material
	ModelOptions
	TextAttributes
	NaturalUpDirection
	MaxTwistRate
	TwistSubdivisionThreshold
	SimplificationThreshold
	Operation
)

// FillRuleValue enumerates how a 2D shape's interior is determined when
// its outline self-intersects.
type FillRuleValue int

const (
	FillRuleNonZero FillRuleValue = iota
	FillRuleEvenOdd
)

// CornerRoundingStyleValue enumerates how offsetting treats convex
// corners.
type CornerRoundingStyleValue int

const (
	CornerRoundingRound CornerRoundingStyleValue = iota
	CornerRoundingMiter
	CornerRoundingBevel
)

// OperationValue enumerates whether a context is accumulating (addition)
// or removing (subtraction) material — used to pick boolean semantics for
// constructs that behave differently depending on which side of a
// difference they fall on.
type OperationValue int

const (
	OperationAddition OperationValue = iota
	OperationSubtraction
)
