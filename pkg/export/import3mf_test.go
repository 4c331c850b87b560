package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hpinc/go3mf"

	"github.com/chazu/solidgraph/pkg/kernel"
)

func tetrahedronMesh() kernel.TriangleMesh {
	return kernel.TriangleMesh{
		Vertices: []float32{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		},
		Indices: []uint32{
			0, 2, 1,
			0, 1, 3,
			1, 2, 3,
			0, 3, 2,
		},
	}
}

func TestThreeMFWriteThenDecodeRoundTrip(t *testing.T) {
	assembly := Assembly{Main: PartExport{
		Identifier: "widget",
		Printable:  true,
		Mesh:       tetrahedronMesh(),
	}}
	var buf bytes.Buffer
	if err := WriteThreeMF(&buf, assembly, ModelOptions{ModelName: "widget"}); err != nil {
		t.Fatalf("WriteThreeMF: %v", err)
	}

	parts, err := DecodeThreeMF("widget.3mf", bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("DecodeThreeMF: %v", err)
	}
	data, ok := parts["widget"]
	if !ok {
		t.Fatalf("decoded parts = %v, want a %q entry", parts, "widget")
	}
	if len(data.Vertices) != 4 {
		t.Errorf("imported vertex count = %d, want 4", len(data.Vertices))
	}
	if len(data.Faces) != 4 {
		t.Errorf("imported face count = %d, want 4", len(data.Faces))
	}
}

func TestDecodeThreeMFSurfacesDecodeError(t *testing.T) {
	garbage := []byte("this is not a zip archive")
	_, err := DecodeThreeMF("garbage.3mf", bytes.NewReader(garbage), int64(len(garbage)))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want DecodeError", err)
	}
}

func TestImportedPartsReportsMissingObject(t *testing.T) {
	model := &go3mf.Model{}
	model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: 99})
	_, err := importedParts("broken.3mf", model)
	var missing *MissingObjectError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingObjectError", err)
	}
	if missing.ID != 99 {
		t.Errorf("missing object ID = %d, want 99", missing.ID)
	}
}

func TestImportedPartsFlattensComponentsWithTransform(t *testing.T) {
	leaf := &go3mf.Object{
		ID: 1,
		Mesh: &go3mf.Mesh{
			Vertices: go3mf.Vertices{Vertex: []go3mf.Point3D{
				{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
			}},
			Triangles: go3mf.Triangles{Triangle: []go3mf.Triangle{{V1: 0, V2: 1, V3: 2}}},
		},
	}
	shifted := go3mf.Identity()
	shifted[12], shifted[13], shifted[14] = 10, 0, 0
	assembly := &go3mf.Object{
		ID:   2,
		Name: "pair",
		Components: &go3mf.Components{Component: []*go3mf.Component{
			{ObjectID: 1},
			{ObjectID: 1, Transform: shifted},
		}},
	}
	model := &go3mf.Model{}
	model.Resources.Objects = append(model.Resources.Objects, leaf, assembly)
	model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: 2})

	parts, err := importedParts("pair.3mf", model)
	if err != nil {
		t.Fatalf("importedParts: %v", err)
	}
	data := parts["pair"]
	if len(data.Vertices) != 6 || len(data.Faces) != 2 {
		t.Fatalf("flattened component mesh has %d vertices / %d faces, want 6 / 2", len(data.Vertices), len(data.Faces))
	}
	if got := data.Vertices[3].X; got != 10 {
		t.Errorf("translated component vertex X = %v, want 10", got)
	}
	if face := data.Faces[1]; face[0] != 3 || face[1] != 4 || face[2] != 5 {
		t.Errorf("second component's face should index the rebased vertices, got %v", face)
	}
}
