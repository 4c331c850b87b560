package elements

import "github.com/google/uuid"

// Semantic classifies the intent of a Part for export (which writers
// should treat it as printable solid geometry versus reference-only
// annotation).
type Semantic int

const (
	SemanticSolid Semantic = iota
	SemanticVisual
	SemanticContext
)

// Part is a named output bucket. Equality is by Identity, not Name: two
// Part values built separately with the same Name are different buckets,
// so a design can legitimately have two unrelated parts both called
// "bracket".
type Part struct {
	identity        uuid.UUID
	Name            string
	Semantic        Semantic
	DefaultMaterial Material
}

// NewPart allocates a fresh, identity-distinct part.
func NewPart(name string, semantic Semantic, defaultMaterial Material) Part {
	return Part{identity: uuid.New(), Name: name, Semantic: semantic, DefaultMaterial: defaultMaterial}
}

// Identity returns the part's stable, generated identity, usable as a map
// key (uuid.UUID is comparable).
func (p Part) Identity() uuid.UUID { return p.identity }

func (p Part) Equal(o Part) bool { return p.identity == o.identity }
