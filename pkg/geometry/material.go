package geometry

import (
	"context"

	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/env"
	"github.com/chazu/solidgraph/pkg/scene"
)

// WithMaterial3 tags Child's node with Material, registering the
// material's identity with the engine so concretization can recover it
// (spec.md §4.3: "materials are attached at the node level"). Nesting two
// WithMaterial3 values keeps the inner one controlling, same as any other
// wrapping combinator: the node closer to the leaf always governs.
type WithMaterial3 struct {
	Child    Geometry3
	Material elements.Material
}

func (w WithMaterial3) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult3, error) {
	built, err := w.Child.Build(ctx, e, ec)
	if err != nil {
		return elements.BuildResult3{}, err
	}
	key := w.Material.Identity().String()
	ec.RegisterMaterial3(key, w.Material)
	return elements.BuildResult3{Node: scene.NewMaterial3(built.Node, key), Elements: built.Elements}, nil
}

// EnvironmentMaterial3 reads the material bound under env.Material (if
// any) and wraps Child with it; with no ambient material bound it builds
// Child unchanged, leaving leaves to fall back to elements.DefaultMaterial
// at concretization.
type EnvironmentMaterial3 struct{ Child Geometry3 }

func (m EnvironmentMaterial3) Build(ctx context.Context, e env.Environment, ec EvaluationContext) (elements.BuildResult3, error) {
	v, ok := e.MaterialValue()
	if !ok {
		return m.Child.Build(ctx, e, ec)
	}
	mat, ok := v.(elements.Material)
	if !ok {
		return m.Child.Build(ctx, e, ec)
	}
	return WithMaterial3{Child: m.Child, Material: mat}.Build(ctx, e, ec)
}
