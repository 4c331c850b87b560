package eval

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/env"
	"github.com/chazu/solidgraph/pkg/geometry"
	"github.com/chazu/solidgraph/pkg/kernel"
	"github.com/chazu/solidgraph/pkg/scene"
)

var _ geometry.EvaluationContext = (*Engine)(nil)

// Engine is the process-lifetime evaluator: it owns the concretization
// cache (fingerprint -> Promise<ConcreteResult>) and the cached-build
// cache (opaque key -> Promise<BuildResult>) described in spec.md §4.7,
// each guarded by its own mutex so that looking up and inserting a fresh
// promise happen atomically, and only the caller that inserted it starts
// its worker goroutine — the mechanism behind the "at-most-one
// computation per fingerprint" guarantee (P7).
type Engine struct {
	Kernel3 kernel.Kernel3
	Kernel2 kernel.Kernel2

	mu        sync.Mutex
	concrete3 map[scene.Fingerprint]*promise3
	concrete2 map[scene.Fingerprint]*promise2

	buildMu sync.Mutex
	builds3 map[string]*buildPromise3
	builds2 map[string]*buildPromise2

	materialsMu sync.Mutex
	materials   map[string]elements.Material

	importedMu sync.Mutex
	imported   map[importKey]scene.MeshData

	nextOID uint64
}

type importKey struct {
	sourceKey, partName string
}

// New builds an Engine lowering onto the given kernel adapters.
func New(k3 kernel.Kernel3, k2 kernel.Kernel2) *Engine {
	return &Engine{
		Kernel3:   k3,
		Kernel2:   k2,
		concrete3: map[scene.Fingerprint]*promise3{},
		concrete2: map[scene.Fingerprint]*promise2{},
		builds3:   map[string]*buildPromise3{},
		builds2:   map[string]*buildPromise2{},
		materials: map[string]elements.Material{},
		imported:  map[importKey]scene.MeshData{},
	}
}

type lowered3 struct {
	concrete  kernel.Concrete3
	materials elements.MaterialMapping
}

type lowered2 struct {
	concrete kernel.Concrete2
}

type promise3 struct {
	done  chan struct{}
	value lowered3
	err   error
}

type promise2 struct {
	done  chan struct{}
	value lowered2
	err   error
}

type buildPromise3 struct {
	done  chan struct{}
	value elements.BuildResult3
	err   error
}

type buildPromise2 struct {
	done  chan struct{}
	value elements.BuildResult2
	err   error
}

func (e *Engine) freshOID() elements.OriginalID {
	return elements.OriginalID(atomic.AddUint64(&e.nextOID, 1))
}

// RegisterMaterial3 records m under key so that a later scene.Material3
// node carrying that key resolves back to the actual Material value
// (scene.MaterialSpec3 only carries the key — see scene/node3.go's
// comment on why it cannot hold an elements.Material directly).
func (e *Engine) RegisterMaterial3(key string, m elements.Material) {
	e.materialsMu.Lock()
	defer e.materialsMu.Unlock()
	e.materials[key] = m
}

func (e *Engine) materialForKey(key string) elements.Material {
	if key == "" {
		return elements.DefaultMaterial
	}
	e.materialsMu.Lock()
	defer e.materialsMu.Unlock()
	if m, ok := e.materials[key]; ok {
		return m
	}
	return elements.DefaultMaterial
}

// RegisterImportedPart makes the mesh data behind an ImportedPart3 leaf
// available to lowering: the scene layer only carries the (sourceKey,
// partName) reference (spec.md §1 keeps 3MF reading out of the core), so
// whoever read the archive — pkg/export's ReadThreeMF, typically —
// registers the decoded meshes here before evaluation.
func (e *Engine) RegisterImportedPart(sourceKey, partName string, data scene.MeshData) {
	e.importedMu.Lock()
	defer e.importedMu.Unlock()
	e.imported[importKey{sourceKey, partName}] = data
}

func (e *Engine) importedMesh(s scene.ImportedPart3) (scene.MeshData, bool) {
	e.importedMu.Lock()
	defer e.importedMu.Unlock()
	data, ok := e.imported[importKey{s.SourceKey, s.PartName}]
	return data, ok
}

// BuildResult3 forwards to g.Build: ordinary geometries are not memoized
// at this layer (only CachedBoxedGeometry3 is, via CachedBuildResult3,
// which it reaches by calling back into this same EvaluationContext).
func (e *Engine) BuildResult3(ctx context.Context, g geometry.Geometry3, en env.Environment) (elements.BuildResult3, error) {
	return g.Build(ctx, en, e)
}

func (e *Engine) BuildResult2(ctx context.Context, g geometry.Geometry2, en env.Environment) (elements.BuildResult2, error) {
	return g.Build(ctx, en, e)
}

// Result3 concretizes node, memoized by its fingerprint (spec.md §4.7).
// The active-material key threaded internally by lower3 always starts
// empty here: any material override already lives inside node as a
// scene.Material3 wrapper, so the node's own fingerprint already reflects
// it and a fresh top-level call never needs an external hint.
func (e *Engine) Result3(ctx context.Context, node scene.Node3) (geometry.ConcreteResult3, error) {
	l, err := e.lower3(ctx, node, "")
	if err != nil {
		return geometry.ConcreteResult3{}, err
	}
	return geometry.ConcreteResult3{
		Concrete:  l.concrete,
		Materials: l.materials,
		Build:     elements.BuildResult3{Node: node, Elements: elements.EmptyElements()},
	}, nil
}

func (e *Engine) Result2(ctx context.Context, node scene.Node2) (geometry.ConcreteResult2, error) {
	l, err := e.lower2(ctx, node)
	if err != nil {
		return geometry.ConcreteResult2{}, err
	}
	return geometry.ConcreteResult2{
		Concrete: l.concrete,
		Build:    elements.BuildResult2{Node: node, Elements: elements.EmptyElements()},
	}, nil
}

// TransformConcrete3 implements the CachingPrimitiveTransformer
// mechanism (spec.md §4.6): concretize child, run fn once over the
// result, and hand back a synthetic Opaque3 node whose fingerprint is
// child's fingerprint combined with opName/params, pre-seeded in the
// cache so a later Result3 on that exact node never recomputes fn.
func (e *Engine) TransformConcrete3(ctx context.Context, child scene.Node3, opName string, params []scene.CacheParam, fn func(kernel.Concrete3) (kernel.Concrete3, error)) (scene.Node3, error) {
	l, err := e.lower3(ctx, child, "")
	if err != nil {
		return scene.Node3{}, err
	}
	next, err := fn(l.concrete)
	if err != nil {
		return scene.Node3{}, err
	}
	fp := scene.CombinedFingerprint(child.Fingerprint(), opName, params)
	e.mu.Lock()
	if _, ok := e.concrete3[fp]; !ok {
		p := &promise3{done: make(chan struct{})}
		p.value = lowered3{concrete: next, materials: l.materials}
		close(p.done)
		e.concrete3[fp] = p
	}
	e.mu.Unlock()
	return scene.NewOpaque3(next, fp), nil
}

func (e *Engine) TransformConcrete2(ctx context.Context, child scene.Node2, opName string, params []scene.CacheParam, fn func(kernel.Concrete2) (kernel.Concrete2, error)) (scene.Node2, error) {
	l, err := e.lower2(ctx, child)
	if err != nil {
		return scene.Node2{}, err
	}
	next, err := fn(l.concrete)
	if err != nil {
		return scene.Node2{}, err
	}
	fp := scene.CombinedFingerprint(child.Fingerprint(), opName, params)
	e.mu.Lock()
	if _, ok := e.concrete2[fp]; !ok {
		p := &promise2{done: make(chan struct{})}
		p.value = lowered2{concrete: next}
		close(p.done)
		e.concrete2[fp] = p
	}
	e.mu.Unlock()
	return scene.NewOpaque2(next, fp), nil
}

// CachedBuildResult3 memoizes thunk's eventual BuildResult under the
// opaque user key, independent of the fingerprint cache (spec.md §4.7).
func (e *Engine) CachedBuildResult3(ctx context.Context, key string, thunk func() geometry.Geometry3) (elements.BuildResult3, error) {
	e.buildMu.Lock()
	if p, ok := e.builds3[key]; ok {
		e.buildMu.Unlock()
		return waitBuild3(ctx, p)
	}
	p := &buildPromise3{done: make(chan struct{})}
	e.builds3[key] = p
	e.buildMu.Unlock()

	go func() {
		g := thunk()
		br, err := g.Build(context.Background(), env.Default, e)
		p.value, p.err = br, err
		close(p.done)
	}()
	return waitBuild3(ctx, p)
}

func (e *Engine) CachedBuildResult2(ctx context.Context, key string, thunk func() geometry.Geometry2) (elements.BuildResult2, error) {
	e.buildMu.Lock()
	if p, ok := e.builds2[key]; ok {
		e.buildMu.Unlock()
		return waitBuild2(ctx, p)
	}
	p := &buildPromise2{done: make(chan struct{})}
	e.builds2[key] = p
	e.buildMu.Unlock()

	go func() {
		g := thunk()
		br, err := g.Build(context.Background(), env.Default, e)
		p.value, p.err = br, err
		close(p.done)
	}()
	return waitBuild2(ctx, p)
}

func waitBuild3(ctx context.Context, p *buildPromise3) (elements.BuildResult3, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return elements.BuildResult3{}, ctx.Err()
	}
}

func waitBuild2(ctx context.Context, p *buildPromise2) (elements.BuildResult2, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return elements.BuildResult2{}, ctx.Err()
	}
}

// combinedKey3 is the cache key lower3 actually uses: node's own
// fingerprint when no ambient material override is in effect, or that
// fingerprint combined with the override's key otherwise. Folding the
// active material into the key (rather than only relying on
// scene.Material3 nodes appearing in the tree) keeps a single shared
// subtree's OriginalIDs distinct across two different enclosing
// materials while still sharing the cache entry — and therefore the
// kernel call — for two occurrences under the *same* material (P2, P7).
func combinedKey3(node scene.Node3, activeKey string) scene.Fingerprint {
	fp := node.Fingerprint()
	if activeKey == "" {
		return fp
	}
	return scene.CombinedFingerprint(fp, "material-ctx", []scene.CacheParam{scene.StringParam(activeKey)})
}

// lower3 is the recursive lowering described in spec.md §4.7: Shape
// leaves call a kernel primitive constructor; composite kinds lower
// their children (concurrently, where the spec calls for it) and invoke
// the matching kernel operation. activeKey is the key of the nearest
// enclosing scene.Material3 node, or "" if none — it determines which
// Material a freshly lowered leaf's fresh OriginalID is attributed to.
func (e *Engine) lower3(ctx context.Context, node scene.Node3, activeKey string) (lowered3, error) {
	key := combinedKey3(node, activeKey)

	e.mu.Lock()
	if p, ok := e.concrete3[key]; ok {
		e.mu.Unlock()
		return waitLowered3(ctx, p)
	}
	p := &promise3{done: make(chan struct{})}
	e.concrete3[key] = p
	e.mu.Unlock()

	go func() {
		v, err := e.computeLowered3(node, activeKey)
		p.value, p.err = v, err
		close(p.done)
	}()
	return waitLowered3(ctx, p)
}

func waitLowered3(ctx context.Context, p *promise3) (lowered3, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return lowered3{}, ctx.Err()
	}
}

func (e *Engine) computeLowered3(node scene.Node3, activeKey string) (lowered3, error) {
	switch node.Kind() {
	case scene.KindEmpty3:
		return lowered3{}, &kernel.KernelError{Kind: kernel.KindEmptyResult, OpName: "Empty"}

	case scene.KindShape3:
		return e.lowerShape3(node, activeKey)

	case scene.KindTransform3:
		child, t, _ := node.Transform()
		l, err := e.lower3(context.Background(), child, activeKey)
		if err != nil {
			return lowered3{}, err
		}
		c, err := e.Kernel3.Transform(l.concrete, t)
		if err != nil {
			return lowered3{}, err
		}
		return lowered3{concrete: c, materials: l.materials}, nil

	case scene.KindBoolean3:
		kind, children, _ := node.Boolean()
		lowereds, err := e.lowerChildren3(children, activeKey)
		if err != nil {
			return lowered3{}, err
		}
		operands := make([]kernel.Concrete3, len(lowereds))
		var mats elements.MaterialMapping
		for i, l := range lowereds {
			operands[i] = l.concrete
			mats = mats.Combine(l.materials)
		}
		c, err := e.Kernel3.Boolean(booleanKernelKind(kind), operands)
		if err != nil {
			return lowered3{}, err
		}
		return lowered3{concrete: c, materials: mats}, nil

	case scene.KindExtrusion3:
		child2D, spec, _ := node.Extrusion()
		l2, err := e.lower2(context.Background(), child2D)
		if err != nil {
			return lowered3{}, err
		}
		c, err := e.Kernel3.Extrude(l2.concrete, kernel.ExtrusionSpec{
			Height: spec.Height, Twist: spec.Twist.Radians(), TopScale: spec.TopScale, Slices: spec.Slices,
		})
		if err != nil {
			return lowered3{}, err
		}
		return lowered3{concrete: c}, nil

	case scene.KindRevolution3:
		child2D, spec, _ := node.Revolution()
		l2, err := e.lower2(context.Background(), child2D)
		if err != nil {
			return lowered3{}, err
		}
		c, err := e.Kernel3.Revolve(l2.concrete, kernel.RevolveSpec{
			Angle: spec.Angle.Radians(), Segments: spec.SegmentCount,
		})
		if err != nil {
			return lowered3{}, err
		}
		return lowered3{concrete: c}, nil

	case scene.KindHull3:
		child, extra, _ := node.Hull()
		l, err := e.lower3(context.Background(), child, activeKey)
		if err != nil {
			return lowered3{}, err
		}
		c, err := e.Kernel3.ConvexHull(l.concrete, extra)
		if err != nil {
			return lowered3{}, err
		}
		return lowered3{concrete: c, materials: l.materials}, nil

	case scene.KindRefine3:
		child, maxEdge, _ := node.Refine()
		l, err := e.lower3(context.Background(), child, activeKey)
		if err != nil {
			return lowered3{}, err
		}
		c, err := e.Kernel3.Refine(l.concrete, maxEdge)
		if err != nil {
			return lowered3{}, err
		}
		return lowered3{concrete: c, materials: l.materials}, nil

	case scene.KindSimplify3:
		child, eps, _ := node.Simplify()
		l, err := e.lower3(context.Background(), child, activeKey)
		if err != nil {
			return lowered3{}, err
		}
		c, err := e.Kernel3.Simplify(l.concrete, eps)
		if err != nil {
			return lowered3{}, err
		}
		return lowered3{concrete: c, materials: l.materials}, nil

	case scene.KindWarp3:
		child, warp, _ := node.Warp()
		l, err := e.lower3(context.Background(), child, activeKey)
		if err != nil {
			return lowered3{}, err
		}
		c, err := e.Kernel3.Warp(l.concrete, warp.Fn)
		if err != nil {
			return lowered3{}, err
		}
		return lowered3{concrete: c, materials: l.materials}, nil

	case scene.KindSplit3:
		return e.lowerSplit3(node, activeKey)

	case scene.KindCached3:
		spec, _ := node.Cached()
		result, err := e.lower3(context.Background(), spec.Thunk(), activeKey)
		return result, err

	case scene.KindOpaque3:
		spec, _ := node.Opaque()
		c, ok := spec.Concrete.(kernel.Concrete3)
		if !ok {
			return lowered3{}, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Opaque"}
		}
		return lowered3{concrete: c}, nil

	case scene.KindMaterial3:
		child, spec, _ := node.Material()
		return e.lower3(context.Background(), child, spec.Key)

	default:
		return lowered3{}, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "lower3"}
	}
}

func (e *Engine) lowerShape3(node scene.Node3, activeKey string) (lowered3, error) {
	shape, _ := node.Shape()
	oid := e.freshOID()
	mapping := elements.SingleMaterial(oid, e.materialForKey(activeKey))

	var c kernel.Concrete3
	var err error
	switch s := shape.(type) {
	case scene.Cylinder3:
		c, err = e.Kernel3.Cylinder(s.BottomRadius, s.TopRadius, s.Height, s.SegmentCount, oid)
	case scene.Sphere3:
		c, err = e.Kernel3.Sphere(s.Radius, s.SegmentCount, oid)
	case scene.Box3:
		c, err = e.Kernel3.Box(s.Size, oid)
	case scene.Mesh3:
		c, err = e.Kernel3.Mesh(kernelMeshData(s.Data), oid)
	case scene.ImportedPart3:
		data, ok := e.importedMesh(s)
		if !ok {
			return lowered3{}, missingPartError(s)
		}
		c, err = e.Kernel3.Mesh(kernelMeshData(data), oid)
	default:
		return lowered3{}, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Shape"}
	}
	if err != nil {
		return lowered3{}, err
	}
	return lowered3{concrete: c, materials: mapping}, nil
}

func kernelMeshData(data scene.MeshData) kernel.MeshData {
	verts := make([][3]float64, len(data.Vertices))
	for i, v := range data.Vertices {
		verts[i] = [3]float64{v.X, v.Y, v.Z}
	}
	return kernel.MeshData{Vertices: verts, Faces: data.Faces}
}

func missingPartError(s scene.ImportedPart3) error {
	return &MissingPartError{SourceKey: s.SourceKey, PartName: s.PartName}
}

// MissingPartError is returned when an ImportedPart3 leaf's (sourceKey,
// partName) pair was never registered — this engine never reads 3MF
// files itself (spec.md §1 excludes "3MF reading" from the core's
// scope); whoever read the archive registers its meshes via
// RegisterImportedPart before evaluation.
type MissingPartError struct {
	SourceKey, PartName string
}

func (m *MissingPartError) Error() string {
	return "missing imported part " + m.PartName + " from " + m.SourceKey
}

func (e *Engine) lowerChildren3(children []scene.Node3, activeKey string) ([]lowered3, error) {
	out := make([]lowered3, len(children))
	errs := make([]error, len(children))
	var wg sync.WaitGroup
	wg.Add(len(children))
	for i, c := range children {
		go func(i int, c scene.Node3) {
			defer wg.Done()
			out[i], errs[i] = e.lower3(context.Background(), c, activeKey)
		}(i, c)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (e *Engine) lowerSplit3(node scene.Node3, activeKey string) (lowered3, error) {
	child, by, side, _ := node.Split()
	l, err := e.lower3(context.Background(), child, activeKey)
	if err != nil {
		return lowered3{}, err
	}
	var chosen kernel.Concrete3
	if by.Plane != nil {
		positive, negative, err := e.Kernel3.SplitByPlane(l.concrete, *by.Plane)
		if err != nil {
			return lowered3{}, err
		}
		if side == scene.SplitPositive {
			chosen = positive
		} else {
			chosen = negative
		}
	} else {
		maskLowered, err := e.lower3(context.Background(), *by.Mask, "")
		if err != nil {
			return lowered3{}, err
		}
		remainder, intersection, err := e.Kernel3.SplitByMask(l.concrete, maskLowered.concrete)
		if err != nil {
			return lowered3{}, err
		}
		if side == scene.SplitPositive {
			chosen = remainder
		} else {
			chosen = intersection
		}
	}
	return lowered3{concrete: chosen, materials: l.materials}, nil
}

func booleanKernelKind(k scene.BooleanKind) kernel.BooleanKind {
	switch k {
	case scene.Intersection:
		return kernel.Intersection
	case scene.Difference:
		return kernel.Difference
	default:
		return kernel.Union
	}
}
