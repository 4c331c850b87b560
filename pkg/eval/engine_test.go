package eval

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/kernel"
	"github.com/chazu/solidgraph/pkg/scene"
)

// countingConcrete3 is a trivial Concrete3 carrying a bounding box and
// the count of kernel calls that produced it, for asserting P7's "kernel
// invoked once" guarantee.
type countingConcrete3 struct{ bb geom.BoundingBox3 }

func (c *countingConcrete3) BoundingBox() geom.BoundingBox3 { return c.bb }

type countingKernel3 struct {
	boxCalls     int64
	revolveCalls int64

	firstBooleanOperand geom.BoundingBox3
}

func (k *countingKernel3) Box(size geom.Vector3, _ elements.OriginalID) (kernel.Concrete3, error) {
	atomic.AddInt64(&k.boxCalls, 1)
	return &countingConcrete3{bb: geom.NewBoundingBox3(geom.Vector3{}, size)}, nil
}
func (k *countingKernel3) Cylinder(_, _, height float64, _ int, _ elements.OriginalID) (kernel.Concrete3, error) {
	return &countingConcrete3{bb: geom.NewBoundingBox3(geom.Vector3{}, geom.Vector3{Z: height})}, nil
}
func (k *countingKernel3) Sphere(radius float64, _ int, _ elements.OriginalID) (kernel.Concrete3, error) {
	return &countingConcrete3{bb: geom.NewBoundingBox3(geom.Vector3{X: -radius, Y: -radius, Z: -radius}, geom.Vector3{X: radius, Y: radius, Z: radius})}, nil
}
func (k *countingKernel3) Mesh(kernel.MeshData, elements.OriginalID) (kernel.Concrete3, error) {
	return &countingConcrete3{}, nil
}
func (k *countingKernel3) Transform(c kernel.Concrete3, t geom.Transform3) (kernel.Concrete3, error) {
	return &countingConcrete3{bb: t.TransformBoundingBox(c.BoundingBox())}, nil
}
func (k *countingKernel3) Boolean(kind kernel.BooleanKind, operands []kernel.Concrete3) (kernel.Concrete3, error) {
	if len(operands) == 0 {
		return nil, &kernel.KernelError{Kind: kernel.KindEmptyResult, OpName: "Boolean"}
	}
	k.firstBooleanOperand = operands[0].BoundingBox()
	bb := operands[0].BoundingBox()
	for _, o := range operands[1:] {
		bb = bb.Union(o.BoundingBox())
	}
	return &countingConcrete3{bb: bb}, nil
}
func (k *countingKernel3) ConvexHull(c kernel.Concrete3, _ []geom.Vector3) (kernel.Concrete3, error) {
	return c, nil
}
func (k *countingKernel3) Refine(c kernel.Concrete3, _ float64) (kernel.Concrete3, error) {
	return c, nil
}
func (k *countingKernel3) Simplify(c kernel.Concrete3, _ float64) (kernel.Concrete3, error) {
	return c, nil
}
func (k *countingKernel3) Warp(c kernel.Concrete3, fn func(geom.Vector3) geom.Vector3) (kernel.Concrete3, error) {
	bb := c.BoundingBox()
	return &countingConcrete3{bb: geom.NewBoundingBox3(fn(bb.Min), fn(bb.Max))}, nil
}
func (k *countingKernel3) SplitByPlane(c kernel.Concrete3, plane geom.Plane) (kernel.Concrete3, kernel.Concrete3, error) {
	bb := c.BoundingBox()
	return &countingConcrete3{bb: bb}, &countingConcrete3{bb: geom.EmptyBoundingBox3()}, nil
}
func (k *countingKernel3) SplitByMask(c, mask kernel.Concrete3) (kernel.Concrete3, kernel.Concrete3, error) {
	return &countingConcrete3{bb: c.BoundingBox()}, &countingConcrete3{bb: mask.BoundingBox()}, nil
}
func (k *countingKernel3) Extrude(kernel.Concrete2, kernel.ExtrusionSpec) (kernel.Concrete3, error) {
	return &countingConcrete3{}, nil
}
func (k *countingKernel3) Revolve(kernel.Concrete2, kernel.RevolveSpec) (kernel.Concrete3, error) {
	atomic.AddInt64(&k.revolveCalls, 1)
	return &countingConcrete3{}, nil
}
func (k *countingKernel3) Project(kernel.Concrete3, kernel.ProjectionSpec) (kernel.Concrete2, error) {
	return nil, nil
}
func (k *countingKernel3) Decompose(kernel.Concrete3) (kernel.TriangleMesh, error) {
	return kernel.TriangleMesh{}, nil
}

var _ kernel.Kernel3 = (*countingKernel3)(nil)

func newTestEngine() (*Engine, *countingKernel3) {
	k3 := &countingKernel3{}
	return New(k3, nil), k3
}

func TestResult3AtMostOneComputationUnderContention(t *testing.T) {
	e, k3 := newTestEngine()
	node := scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 1, Y: 1, Z: 1}})

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := e.Result3(context.Background(), node); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&k3.boxCalls); got != 1 {
		t.Errorf("Box() called %d times across %d concurrent requesters, want 1 (P7)", got, n)
	}
}

func TestResult3StructuralCacheHit(t *testing.T) {
	e, k3 := newTestEngine()
	a := scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 2, Y: 3, Z: 4}})
	b := scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 2, Y: 3, Z: 4}})

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("structurally identical boxes should share a fingerprint")
	}

	ra, err := e.Result3(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := e.Result3(context.Background(), b)
	if err != nil {
		t.Fatal(err)
	}
	if ra.Concrete != rb.Concrete {
		t.Error("two nodes with equal fingerprints should concretize to the same kernel handle")
	}
	if got := atomic.LoadInt64(&k3.boxCalls); got != 1 {
		t.Errorf("Box() called %d times for two identical subtrees, want 1 (P2)", got)
	}
}

func TestResult3DifferentMaterialsMintDistinctOriginalIDs(t *testing.T) {
	e, _ := newTestEngine()
	e.RegisterMaterial3("red", elements.NewMaterial("red", geom.RGB(1, 0, 0)))
	e.RegisterMaterial3("blue", elements.NewMaterial("blue", geom.RGB(0, 0, 1)))

	leaf := scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 1, Y: 1, Z: 1}})
	red := scene.NewMaterial3(leaf, "red")
	blue := scene.NewMaterial3(leaf, "blue")

	rRed, err := e.Result3(context.Background(), red)
	if err != nil {
		t.Fatal(err)
	}
	rBlue, err := e.Result3(context.Background(), blue)
	if err != nil {
		t.Fatal(err)
	}
	if len(rRed.Materials) != 1 || len(rBlue.Materials) != 1 {
		t.Fatalf("expected exactly one OriginalID minted per differently-materialed leaf, got %d and %d", len(rRed.Materials), len(rBlue.Materials))
	}
	for oid := range rRed.Materials {
		if _, clash := rBlue.Materials[oid]; clash {
			t.Error("two differently-materialed occurrences of the same leaf must not share an OriginalID")
		}
	}
}

func TestResult3SameMaterialSharesCacheEntry(t *testing.T) {
	e, k3 := newTestEngine()
	e.RegisterMaterial3("red", elements.NewMaterial("red", geom.RGB(1, 0, 0)))
	leaf := scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 1, Y: 1, Z: 1}})
	a := scene.NewMaterial3(leaf, "red")
	b := scene.NewMaterial3(leaf, "red")

	ra, err := e.Result3(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := e.Result3(context.Background(), b)
	if err != nil {
		t.Fatal(err)
	}
	if ra.Concrete != rb.Concrete {
		t.Error("two occurrences under the same material should share one concretization")
	}
	if got := atomic.LoadInt64(&k3.boxCalls); got != 1 {
		t.Errorf("Box() called %d times, want 1", got)
	}
}

func TestBooleanDifferenceOperandOrderPreserved(t *testing.T) {
	e, k3 := newTestEngine()
	a := scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 10, Y: 10, Z: 10}})
	b := scene.NewTransform3(
		scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 1, Y: 1, Z: 1}}),
		geom.Translation3(geom.Vector3{X: 20, Y: 20, Z: 20}),
	)
	node := scene.NewBoolean3(scene.Difference, []scene.Node3{a, b})
	result, err := e.Result3(context.Background(), node)
	if err != nil {
		t.Fatal(err)
	}
	// The stub kernel's Boolean implementation unions bounding boxes
	// regardless of kind, so the combined box only shows that both
	// operands reached the kernel; the recorded first operand shows
	// that they arrived in declaration order.
	bb := result.Concrete.BoundingBox()
	if bb.Max.X < 20 {
		t.Error("both difference operands should be lowered and handed to the kernel")
	}
	if first := k3.firstBooleanOperand; first.Empty || first.Max.X != 10 {
		t.Errorf("first Boolean operand box = %+v, want the 10-unit box (first minus the rest)", first)
	}
}

func TestSplitByPlaneRespectsPositiveNegativeOrder(t *testing.T) {
	e, _ := newTestEngine()
	child := scene.NewShape3(scene.Box3{Size: geom.Vector3{X: 1, Y: 1, Z: 1}})
	plane := geom.PlaneZ(0.5)
	positive := scene.NewSplit3(child, scene.SplitBy3{Plane: &plane}, scene.SplitPositive)
	negative := scene.NewSplit3(child, scene.SplitBy3{Plane: &plane}, scene.SplitNegative)

	pos, err := e.Result3(context.Background(), positive)
	if err != nil {
		t.Fatal(err)
	}
	neg, err := e.Result3(context.Background(), negative)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Concrete.BoundingBox().Empty {
		t.Error("expected the positive half to carry the child's bounding box")
	}
	if !neg.Concrete.BoundingBox().Empty {
		t.Error("expected the negative half to be the (empty, per the stub) second half")
	}
}

func TestEmptyNodeSurfacesKernelError(t *testing.T) {
	e, _ := newTestEngine()
	_, err := e.Result3(context.Background(), scene.Empty3())
	var kerr *kernel.KernelError
	if err == nil {
		t.Fatal("expected an error concretizing Empty3")
	}
	if !asKernelError(err, &kerr) {
		t.Fatalf("expected a *kernel.KernelError, got %T: %v", err, err)
	}
	if kerr.Kind != kernel.KindEmptyResult {
		t.Errorf("Kind = %v, want KindEmptyResult", kerr.Kind)
	}
}

func asKernelError(err error, target **kernel.KernelError) bool {
	if ke, ok := err.(*kernel.KernelError); ok {
		*target = ke
		return true
	}
	return false
}

type countingConcrete2 struct{}

func (countingConcrete2) BoundingBox() geom.BoundingBox2 { return geom.EmptyBoundingBox2() }

type countingKernel2 struct{}

func (*countingKernel2) Rectangle(geom.Vector2) (kernel.Concrete2, error) {
	return countingConcrete2{}, nil
}
func (*countingKernel2) Circle(float64, int) (kernel.Concrete2, error) {
	return countingConcrete2{}, nil
}
func (*countingKernel2) Polygon(geom.Polygon2) (kernel.Concrete2, error) {
	return countingConcrete2{}, nil
}
func (*countingKernel2) Transform(c kernel.Concrete2, _ geom.Transform2) (kernel.Concrete2, error) {
	return c, nil
}
func (*countingKernel2) Boolean(_ kernel.BooleanKind, operands []kernel.Concrete2) (kernel.Concrete2, error) {
	return operands[0], nil
}
func (*countingKernel2) Offset(c kernel.Concrete2, _ float64, _ kernel.JoinStyle) (kernel.Concrete2, error) {
	return c, nil
}
func (*countingKernel2) Warp(c kernel.Concrete2, _ func(geom.Vector2) geom.Vector2) (kernel.Concrete2, error) {
	return c, nil
}
func (*countingKernel2) Decompose(kernel.Concrete2) (kernel.PolygonSet, error) {
	return kernel.PolygonSet{}, nil
}

var _ kernel.Kernel2 = (*countingKernel2)(nil)

func TestRevolutionLowersThroughKernel(t *testing.T) {
	k3 := &countingKernel3{}
	e := New(k3, &countingKernel2{})

	profile := scene.NewShape2(scene.Rectangle2{Size: geom.Vector2{X: 2, Y: 5}})
	node := scene.NewRevolution3(profile, scene.RevolutionSpec{Angle: geom.Degrees(360), SegmentCount: 32})

	if _, err := e.Result3(context.Background(), node); err != nil {
		t.Fatalf("Result3: %v", err)
	}
	if got := atomic.LoadInt64(&k3.revolveCalls); got != 1 {
		t.Errorf("Revolve() called %d times, want 1", got)
	}
}

func TestImportedPartResolvesFromRegistry(t *testing.T) {
	e, _ := newTestEngine()
	e.RegisterImportedPart("bracket.3mf", "clip", scene.MeshData{
		Vertices: []geom.Vector3{{}, {X: 1}, {Y: 1}, {Z: 1}},
		Faces:    [][]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3}},
	})

	node := scene.NewShape3(scene.ImportedPart3{SourceKey: "bracket.3mf", PartName: "clip"})
	if _, err := e.Result3(context.Background(), node); err != nil {
		t.Fatalf("Result3: %v", err)
	}
}

func TestUnregisteredImportedPartIsMissing(t *testing.T) {
	e, _ := newTestEngine()
	node := scene.NewShape3(scene.ImportedPart3{SourceKey: "nowhere.3mf", PartName: "ghost"})
	_, err := e.Result3(context.Background(), node)
	var missing *MissingPartError
	if !errors.As(err, &missing) {
		t.Fatalf("Result3 error = %v, want MissingPartError", err)
	}
	if missing.PartName != "ghost" {
		t.Errorf("missing part name = %q, want %q", missing.PartName, "ghost")
	}
}
