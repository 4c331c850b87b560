package elements

import (
	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/google/uuid"
)

// PhysicalProperties is the optional PBR-style shading hint attached to a
// Material.
type PhysicalProperties struct {
	Metallicness float64
	Roughness    float64
}

// Material describes the intended appearance of a part of the model.
// Equality is by Identity, matching Part: a named material built twice
// with identical fields is still a different material, so the kernel's
// per-triangle OriginalID -> Material mapping never accidentally merges
// two independently authored materials that merely look the same.
type Material struct {
	identity  uuid.UUID
	Name      string
	BaseColor geom.Color
	Physical  *PhysicalProperties
}

func NewMaterial(name string, baseColor geom.Color) Material {
	return Material{identity: uuid.New(), Name: name, BaseColor: baseColor.Clamped()}
}

func (m Material) WithPhysical(p PhysicalProperties) Material {
	m.Physical = &p
	return m
}

func (m Material) Identity() uuid.UUID { return m.identity }

func (m Material) Equal(o Material) bool { return m.identity == o.identity }

// DefaultMaterial is the material leaves receive when no ancestor
// environment frame binds one.
var DefaultMaterial = NewMaterial("default", geom.RGB(0.8, 0.8, 0.8))

// OriginalID identifies the source leaf a triangle descends from, stable
// across transform/boolean/refine/simplify so materials and part
// attribution survive CSG (spec.md §4.3).
type OriginalID uint64

// MaterialMapping is the per-OriginalID material lookup the evaluator
// builds as it lowers leaves and threads through every composing
// operation.
type MaterialMapping map[OriginalID]Material

// SingleMaterial builds the one-entry mapping a freshly concretized leaf
// contributes before it gets unioned into its ancestors' mappings.
func SingleMaterial(id OriginalID, m Material) MaterialMapping {
	return MaterialMapping{id: m}
}

// Combine unions two mappings; where both define the same OriginalID
// (which should not normally happen, since OriginalIDs are minted fresh
// per leaf) the left-hand mapping wins.
func (m MaterialMapping) Combine(o MaterialMapping) MaterialMapping {
	if len(m) == 0 {
		return o
	}
	if len(o) == 0 {
		return m
	}
	out := make(MaterialMapping, len(m)+len(o))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range m {
		out[k] = v
	}
	return out
}
