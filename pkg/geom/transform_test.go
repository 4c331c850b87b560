package geom

import (
	"math"
	"testing"
)

func TestScaleIsMinimumSingularValue(t *testing.T) {
	if got := Scaling3(2, 3, 4).Scale(); math.Abs(got-2) > 1e-9 {
		t.Fatalf("Scale() = %v, want 2", got)
	}
	if got := RotationZ(math.Pi / 3).Scale(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("a pure rotation must have scale 1, got %v", got)
	}
}

func TestInverseUndoesTransform(t *testing.T) {
	tr := Translation3(Vector3{X: 1, Y: -2, Z: 3}).
		Concatenated(RotationY(0.7)).
		Concatenated(Scaling3(2, 2, 2))
	inv, err := tr.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	p := Vector3{X: 5, Y: 6, Z: 7}
	back := inv.Apply(tr.Apply(p))
	if back.Distance(p) > 1e-9 {
		t.Fatalf("inverse(transform(p)) = %v, want %v", back, p)
	}
}

func TestConcatenatedAppliesRightToLeft(t *testing.T) {
	move := Translation3(Vector3{X: 10})
	grow := UniformScaling3(2)
	// (move . grow) scales first, then translates.
	got := move.Concatenated(grow).Apply(Vector3{X: 1})
	want := Vector3{X: 12}
	if got.Distance(want) > 1e-12 {
		t.Fatalf("(move . grow)(1,0,0) = %v, want %v", got, want)
	}
}

func TestBezierCurveLengthOfStraightLine(t *testing.T) {
	c := Line3Curve(Vector3{}, Vector3{X: 3, Y: 4})
	if got := c.Length(16); math.Abs(got-5) > 1e-9 {
		t.Fatalf("length = %v, want 5", got)
	}
}

func TestBezierSubcurveEndpoints(t *testing.T) {
	c := CubicCurve3(Vector3{}, Vector3{X: 1, Z: 3}, Vector3{X: 2, Z: -3}, Vector3{X: 3})
	sub := c.Subcurve(0.25, 0.75)
	if sub.Start().Distance(c.Point(0.25)) > 1e-12 {
		t.Fatalf("subcurve start = %v, want %v", sub.Start(), c.Point(0.25))
	}
	if sub.End().Distance(c.Point(0.75)) > 1e-12 {
		t.Fatalf("subcurve end = %v, want %v", sub.End(), c.Point(0.75))
	}
}
