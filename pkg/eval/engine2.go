package eval

import (
	"context"
	"sync"

	"github.com/chazu/solidgraph/pkg/env"
	"github.com/chazu/solidgraph/pkg/kernel"
	"github.com/chazu/solidgraph/pkg/scene"
)

func joinStyleFromEnv(s env.CornerRoundingStyleValue) kernel.JoinStyle {
	switch s {
	case env.CornerRoundingMiter:
		return kernel.JoinMiter
	case env.CornerRoundingBevel:
		return kernel.JoinBevel
	default:
		return kernel.JoinRound
	}
}

// lower2 is lower3's 2D counterpart. 2D nodes never carry a material
// override (scene.NodeKind2 has no Material2 variant — materials are a
// 3D/export concern per spec.md §4.3), so there is no activeKey to
// thread; the cache key is simply the node's own fingerprint.
func (e *Engine) lower2(ctx context.Context, node scene.Node2) (lowered2, error) {
	key := node.Fingerprint()

	e.mu.Lock()
	if p, ok := e.concrete2[key]; ok {
		e.mu.Unlock()
		return waitLowered2(ctx, p)
	}
	p := &promise2{done: make(chan struct{})}
	e.concrete2[key] = p
	e.mu.Unlock()

	go func() {
		v, err := e.computeLowered2(node)
		p.value, p.err = v, err
		close(p.done)
	}()
	return waitLowered2(ctx, p)
}

func waitLowered2(ctx context.Context, p *promise2) (lowered2, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return lowered2{}, ctx.Err()
	}
}

func (e *Engine) computeLowered2(node scene.Node2) (lowered2, error) {
	switch node.Kind() {
	case scene.KindEmpty2:
		return lowered2{}, &kernel.KernelError{Kind: kernel.KindEmptyResult, OpName: "Empty"}

	case scene.KindShape2:
		shape, _ := node.Shape()
		var c kernel.Concrete2
		var err error
		switch s := shape.(type) {
		case scene.Rectangle2:
			c, err = e.Kernel2.Rectangle(s.Size)
		case scene.Circle2:
			c, err = e.Kernel2.Circle(s.Radius, s.SegmentCount)
		case scene.Polygon2Shape:
			c, err = e.Kernel2.Polygon(s.Polygon)
		default:
			return lowered2{}, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Shape2"}
		}
		if err != nil {
			return lowered2{}, err
		}
		return lowered2{concrete: c}, nil

	case scene.KindTransform2:
		child, t, _ := node.Transform()
		l, err := e.lower2(context.Background(), child)
		if err != nil {
			return lowered2{}, err
		}
		c, err := e.Kernel2.Transform(l.concrete, t)
		if err != nil {
			return lowered2{}, err
		}
		return lowered2{concrete: c}, nil

	case scene.KindBoolean2:
		kind, children, _ := node.Boolean()
		lowereds := make([]lowered2, len(children))
		errs := make([]error, len(children))
		var wg sync.WaitGroup
		wg.Add(len(children))
		for i, c := range children {
			go func(i int, c scene.Node2) {
				defer wg.Done()
				lowereds[i], errs[i] = e.lower2(context.Background(), c)
			}(i, c)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return lowered2{}, err
			}
		}
		operands := make([]kernel.Concrete2, len(lowereds))
		for i, l := range lowereds {
			operands[i] = l.concrete
		}
		c, err := e.Kernel2.Boolean(booleanKernelKind(kind), operands)
		if err != nil {
			return lowered2{}, err
		}
		return lowered2{concrete: c}, nil

	case scene.KindProjection2:
		child3D, spec, _ := node.Projection()
		l3, err := e.lower3(context.Background(), child3D, "")
		if err != nil {
			return lowered2{}, err
		}
		c, err := e.Kernel3.Project(l3.concrete, kernel.ProjectionSpec{
			Kind: kernel.ProjectionKind(spec.Kind), Height: spec.Height, Direction: spec.Direction, Plane: spec.Plane,
		})
		if err != nil {
			return lowered2{}, err
		}
		return lowered2{concrete: c}, nil

	case scene.KindOffset2:
		child, spec, _ := node.Offset()
		l, err := e.lower2(context.Background(), child)
		if err != nil {
			return lowered2{}, err
		}
		c, err := e.Kernel2.Offset(l.concrete, spec.Distance, joinStyleFromEnv(spec.CornerStyle))
		if err != nil {
			return lowered2{}, err
		}
		return lowered2{concrete: c}, nil

	case scene.KindWarp2:
		child, warp, _ := node.Warp()
		l, err := e.lower2(context.Background(), child)
		if err != nil {
			return lowered2{}, err
		}
		c, err := e.Kernel2.Warp(l.concrete, warp.Fn)
		if err != nil {
			return lowered2{}, err
		}
		return lowered2{concrete: c}, nil

	case scene.KindOpaque2:
		spec, _ := node.Opaque()
		c, ok := spec.Concrete.(kernel.Concrete2)
		if !ok {
			return lowered2{}, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "Opaque2"}
		}
		return lowered2{concrete: c}, nil

	default:
		return lowered2{}, &kernel.KernelError{Kind: kernel.KindUnsupported, OpName: "lower2"}
	}
}
