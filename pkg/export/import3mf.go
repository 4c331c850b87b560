package export

import (
	"fmt"
	"io"

	"github.com/hpinc/go3mf"

	"github.com/chazu/solidgraph/pkg/geom"
	"github.com/chazu/solidgraph/pkg/scene"
)

// DecodeError wraps a failure from the external 3MF reader, surfaced
// as-is per spec.md §7.
type DecodeError struct {
	Source string
	Cause  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding 3mf %q: %v", e.Source, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// MissingObjectError reports a build item or component referencing an
// object ID the archive's resources do not define.
type MissingObjectError struct {
	Source string
	ID     uint32
}

func (e *MissingObjectError) Error() string {
	return fmt.Sprintf("3mf %q references missing object %d", e.Source, e.ID)
}

// ImportedParts is the result of reading a 3MF archive: each referenced
// object resolved to plain mesh data, keyed by the object's name (or
// "object-<id>" when unnamed).
type ImportedParts map[string]scene.MeshData

// ReadThreeMF opens and decodes the 3MF archive at path, resolving every
// build item (including component hierarchies, with their transforms
// applied) into mesh data. The heavy lifting — ZIP container, OPC
// relationships, XML — is go3mf's; this function only walks the decoded
// model.
func ReadThreeMF(path string) (ImportedParts, error) {
	r, err := go3mf.OpenReader(path)
	if err != nil {
		return nil, &DecodeError{Source: path, Cause: err}
	}
	defer r.Close()
	var model go3mf.Model
	if err := r.Decode(&model); err != nil {
		return nil, &DecodeError{Source: path, Cause: err}
	}
	return importedParts(path, &model)
}

// DecodeThreeMF is ReadThreeMF over an in-memory or already-open
// archive; size is the total byte length of the package.
func DecodeThreeMF(source string, r io.ReaderAt, size int64) (ImportedParts, error) {
	var model go3mf.Model
	if err := go3mf.NewDecoder(r, size).Decode(&model); err != nil {
		return nil, &DecodeError{Source: source, Cause: err}
	}
	return importedParts(source, &model)
}

func importedParts(source string, model *go3mf.Model) (ImportedParts, error) {
	objects := map[uint32]*go3mf.Object{}
	for _, obj := range model.Resources.Objects {
		objects[obj.ID] = obj
	}

	parts := ImportedParts{}
	for _, item := range model.Build.Items {
		obj, ok := objects[item.ObjectID]
		if !ok {
			return nil, &MissingObjectError{Source: source, ID: item.ObjectID}
		}
		data := scene.MeshData{}
		if err := collectObject(source, objects, obj, orIdentity(item.Transform), &data); err != nil {
			return nil, err
		}
		name := obj.Name
		if name == "" {
			name = fmt.Sprintf("object-%d", obj.ID)
		}
		parts[name] = data
	}
	return parts, nil
}

// collectObject flattens obj (a mesh, or a component assembly referencing
// other objects) into data, applying t to every vertex.
func collectObject(source string, objects map[uint32]*go3mf.Object, obj *go3mf.Object, t go3mf.Matrix, data *scene.MeshData) error {
	if obj.Mesh != nil {
		appendMesh(obj.Mesh, t, data)
	}
	if obj.Components == nil {
		return nil
	}
	for _, comp := range obj.Components.Component {
		child, ok := objects[comp.ObjectID]
		if !ok {
			return &MissingObjectError{Source: source, ID: comp.ObjectID}
		}
		if err := collectObject(source, objects, child, t.Mul(orIdentity(comp.Transform)), data); err != nil {
			return err
		}
	}
	return nil
}

// orIdentity maps the zero Matrix — how go3mf decodes an absent
// transform attribute — to the identity.
func orIdentity(m go3mf.Matrix) go3mf.Matrix {
	if m == (go3mf.Matrix{}) {
		return go3mf.Identity()
	}
	return m
}

func appendMesh(mesh *go3mf.Mesh, t go3mf.Matrix, data *scene.MeshData) {
	base := len(data.Vertices)
	for _, v := range mesh.Vertices.Vertex {
		p := applyMatrix(t, geom.Vector3{X: float64(v.X()), Y: float64(v.Y()), Z: float64(v.Z())})
		data.Vertices = append(data.Vertices, p)
	}
	for _, tri := range mesh.Triangles.Triangle {
		data.Faces = append(data.Faces, []int{
			base + int(tri.V1), base + int(tri.V2), base + int(tri.V3),
		})
	}
}

// applyMatrix multiplies a row vector by a 3MF row-major 4x4 matrix
// ([x y z 1] x M), the convention the 3MF core spec defines for item and
// component transforms.
func applyMatrix(m go3mf.Matrix, p geom.Vector3) geom.Vector3 {
	return geom.Vector3{
		X: p.X*m[0] + p.Y*m[4] + p.Z*m[8] + m[12],
		Y: p.X*m[1] + p.Y*m[5] + p.Z*m[9] + m[13],
		Z: p.X*m[2] + p.Y*m[6] + p.Z*m[10] + m[14],
	}
}
