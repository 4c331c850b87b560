package export

import (
	"context"
	"fmt"

	"github.com/chazu/solidgraph/pkg/elements"
	"github.com/chazu/solidgraph/pkg/eval"
	"github.com/chazu/solidgraph/pkg/kernel"
	"github.com/chazu/solidgraph/pkg/scene"
)

// PartExport is one of the (MeshGL, materialMapping, partIdentity)
// tuples spec.md §4.11 describes handing to a file writer.
type PartExport struct {
	Identifier string
	Part       elements.Part // zero value for the main (uncataloged) model
	Printable  bool
	Mesh       kernel.TriangleMesh
	Materials  elements.MaterialMapping
}

// Assembly is everything a writer needs: the main model plus every
// included cataloged part, each already concretized and decomposed.
type Assembly struct {
	Main  PartExport
	Parts []PartExport
}

// Assemble concretizes build's main node and every part the options
// select, via engine, and decomposes each into an export-ready mesh
// (spec.md §4.11's first two responsibilities — selecting parts and
// requesting their concretization).
func Assemble(ctx context.Context, engine *eval.Engine, build elements.BuildResult3, opts ModelOptions) (Assembly, error) {
	mainMesh, mainMaterials, err := concretizeAndDecompose3(ctx, engine, build.Node)
	if err != nil {
		return Assembly{}, err
	}

	included := opts.IncludedPartSemantics(opts.Format)
	names := map[string]int{}
	var parts []PartExport
	for _, entry := range build.Elements.Parts.Entries() {
		if !included[entry.Part.Semantic] {
			continue
		}
		mesh, materials := kernel.TriangleMesh{}, elements.MaterialMapping{}
		for _, r := range entry.Results {
			m, mm, err := concretizeAndDecompose3(ctx, engine, r.Node)
			if err != nil {
				return Assembly{}, err
			}
			mesh = mergeTriangleMeshes(mesh, m)
			materials = materials.Combine(mm)
		}
		parts = append(parts, PartExport{
			Identifier: uniqueIdentifier(names, entry.Part.Name),
			Part:       entry.Part,
			Printable:  entry.Part.Semantic == elements.SemanticSolid,
			Mesh:       mesh,
			Materials:  materials,
		})
	}

	return Assembly{
		Main: PartExport{
			Identifier: uniqueIdentifier(names, opts.ModelName),
			Printable:  true,
			Mesh:       mainMesh,
			Materials:  mainMaterials,
		},
		Parts: parts,
	}, nil
}

// concretizeAndDecompose3 requests node's concrete solid from engine and
// triangulates it in one step (spec.md §4.11's "requesting concretization
// of each part (via the Engine)").
func concretizeAndDecompose3(ctx context.Context, engine *eval.Engine, node scene.Node3) (kernel.TriangleMesh, elements.MaterialMapping, error) {
	if node.IsEmpty() {
		// InPart routes a subtree entirely into the catalog and leaves
		// Empty behind in its place (pkg/elements.InPart); that's not a
		// kernel error here, just nothing inline to mesh.
		return kernel.TriangleMesh{}, nil, nil
	}
	result, err := engine.Result3(ctx, node)
	if err != nil {
		return kernel.TriangleMesh{}, nil, err
	}
	if result.Concrete == nil {
		return kernel.TriangleMesh{}, result.Materials, nil
	}
	mesh, err := engine.Kernel3.Decompose(result.Concrete)
	if err != nil {
		return kernel.TriangleMesh{}, nil, err
	}
	return mesh, result.Materials, nil
}

// AssembleSVG concretizes a 2D build's node and decomposes it to the flat
// polygon loops an SVG writer serializes directly (spec.md §4.11's 2D
// counterpart to Assemble — 2D builds carry no part catalog of their
// own, since semantic/printable distinctions only apply to 3D output).
func AssembleSVG(ctx context.Context, engine *eval.Engine, build elements.BuildResult2) (kernel.PolygonSet, error) {
	if build.Node.IsEmpty() {
		return kernel.PolygonSet{}, nil
	}
	result, err := engine.Result2(ctx, build.Node)
	if err != nil {
		return kernel.PolygonSet{}, err
	}
	if result.Concrete == nil {
		return kernel.PolygonSet{}, nil
	}
	return engine.Kernel2.Decompose(result.Concrete)
}

// uniqueIdentifier derives a 3MF/STL-safe object identifier from name,
// resolving collisions by appending _2, _3, ... (spec.md §6).
func uniqueIdentifier(seen map[string]int, name string) string {
	if name == "" {
		name = "part"
	}
	seen[name]++
	if n := seen[name]; n > 1 {
		return fmt.Sprintf("%s_%d", name, n)
	}
	return name
}

// mergeTriangleMeshes concatenates two flat meshes, offsetting b's
// indices past a's vertex count.
func mergeTriangleMeshes(a, b kernel.TriangleMesh) kernel.TriangleMesh {
	if len(a.Vertices) == 0 {
		return b
	}
	if len(b.Vertices) == 0 {
		return a
	}
	offset := uint32(a.VertexCount())
	out := kernel.TriangleMesh{
		Vertices:            append(append([]float32(nil), a.Vertices...), b.Vertices...),
		Normals:             append(append([]float32(nil), a.Normals...), b.Normals...),
		TriangleOriginalIDs: append(append([]elements.OriginalID(nil), a.TriangleOriginalIDs...), b.TriangleOriginalIDs...),
	}
	out.Indices = append([]uint32(nil), a.Indices...)
	for _, idx := range b.Indices {
		out.Indices = append(out.Indices, idx+offset)
	}
	return out
}
