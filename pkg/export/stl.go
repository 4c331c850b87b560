package export

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/philhofer/fwd"

	"github.com/chazu/solidgraph/pkg/kernel"
)

// WriteSTL serializes assembly as a single binary STL blob: main plus
// every printable part, merged (spec.md §6: "STL is the union of main +
// selected parts"). opts supplies the header title and is otherwise
// unused — STL carries no per-part identity or material data.
func WriteSTL(w io.Writer, assembly Assembly, opts ModelOptions) error {
	mesh := assembly.Main.Mesh
	for _, p := range assembly.Parts {
		if !p.Printable {
			continue
		}
		mesh = mergeTriangleMeshes(mesh, p.Mesh)
	}

	bw := fwd.NewWriter(w)
	if err := writeSTLHeader(bw, opts); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(mesh.TriangleCount())); err != nil {
		return err
	}
	for t := 0; t < mesh.TriangleCount(); t++ {
		if err := writeSTLTriangle(bw, mesh, t); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// writeSTLHeader emits the fixed 80-byte ASCII header: the first line is
// metadata.Title, falling back to the model name, falling back to
// "Cadova model" (spec.md §6), padded with nulls and truncated to 80
// bytes.
func writeSTLHeader(w io.Writer, opts ModelOptions) error {
	title := opts.Metadata.Title
	if title == "" {
		title = opts.ModelName
	}
	if title == "" {
		title = "Cadova model"
	}
	header := make([]byte, 80)
	copy(header, title)
	_, err := w.Write(header)
	return err
}

// writeSTLTriangle emits one 50-byte facet record: a normal (the average
// of the triangle's vertex normals, re-normalized), its three vertices,
// and a zero attribute-byte-count word.
func writeSTLTriangle(w io.Writer, mesh kernel.TriangleMesh, t int) error {
	i0, i1, i2 := mesh.Indices[t*3], mesh.Indices[t*3+1], mesh.Indices[t*3+2]
	normal := averagedNormal(mesh, i0, i1, i2)

	fields := make([]float32, 0, 12)
	fields = append(fields, normal[0], normal[1], normal[2])
	for _, idx := range [3]uint32{i0, i1, i2} {
		fields = append(fields,
			mesh.Vertices[idx*3],
			mesh.Vertices[idx*3+1],
			mesh.Vertices[idx*3+2],
		)
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, uint16(0))
}

// averagedNormal sums the per-vertex normals of a triangle's three
// corners and renormalizes, matching spec.md §6's "average of vertex
// normals, normalized". Falls back to the zero vector on a degenerate
// (zero-length) sum, which a well-formed mesh never produces.
func averagedNormal(mesh kernel.TriangleMesh, i0, i1, i2 uint32) [3]float32 {
	var sum [3]float32
	for _, idx := range [3]uint32{i0, i1, i2} {
		if int(idx)*3+2 >= len(mesh.Normals) {
			continue
		}
		sum[0] += mesh.Normals[idx*3]
		sum[1] += mesh.Normals[idx*3+1]
		sum[2] += mesh.Normals[idx*3+2]
	}
	length := math.Sqrt(float64(sum[0])*float64(sum[0]) + float64(sum[1])*float64(sum[1]) + float64(sum[2])*float64(sum[2]))
	if length < 1e-12 {
		return sum
	}
	return [3]float32{
		float32(float64(sum[0]) / length),
		float32(float64(sum[1]) / length),
		float32(float64(sum[2]) / length),
	}
}
