package export

import "github.com/chazu/solidgraph/pkg/elements"

// FileFormat3D selects the 3D output container (spec.md §6).
type FileFormat3D int

const (
	FormatThreeMF FileFormat3D = iota
	FormatSTL
)

// Compression selects the zip compression level a 3MF writer uses; STL
// is uncompressed binary and ignores this setting.
type Compression int

const (
	CompressionStandard Compression = iota
	CompressionFastest
	CompressionSmallest
)

// Metadata is carried into the output container's own metadata fields
// where the format supports them (3MF <metadata> elements, the STL
// header's title line).
type Metadata struct {
	Title       string
	Description string
	Author      string
	License     string
	Date        string
	Application string
}

// ModelOptions configures an export run, independent of which writer
// consumes it (spec.md §6's "Model options" table).
type ModelOptions struct {
	Format      FileFormat3D
	Compression Compression
	ModelName   string
	Metadata    Metadata

	// PartSemantics overrides which elements.Semantic values are
	// included per format; nil uses defaultPartSemantics.
	PartSemantics map[FileFormat3D]map[elements.Semantic]bool
}

// IncludedPartSemantics reports which part semantics should be written
// for the given format (spec.md §4.11's
// ModelOptions.includedPartSemantics(for:)).
func (o ModelOptions) IncludedPartSemantics(format FileFormat3D) map[elements.Semantic]bool {
	if o.PartSemantics != nil {
		if set, ok := o.PartSemantics[format]; ok {
			return set
		}
	}
	return defaultPartSemantics(format)
}

// defaultPartSemantics follows spec.md §4.11: STL keeps the union of the
// main model and every solid part (visual/context annotations are not
// printable, so STL omits them by default); 3MF keeps solid and visual
// parts as distinct objects but still omits context (reference-only,
// never meant to render).
func defaultPartSemantics(format FileFormat3D) map[elements.Semantic]bool {
	switch format {
	case FormatSTL:
		return map[elements.Semantic]bool{elements.SemanticSolid: true}
	default:
		return map[elements.Semantic]bool{elements.SemanticSolid: true, elements.SemanticVisual: true}
	}
}

// DefaultModelOptions returns the 3MF defaults spec.md names when a
// caller supplies none.
func DefaultModelOptions(name string) ModelOptions {
	return ModelOptions{
		Format:      FormatThreeMF,
		Compression: CompressionStandard,
		ModelName:   name,
		Metadata:    Metadata{Application: "solidgraph"},
	}
}
