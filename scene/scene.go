package scene

import (
	"encoding/gob"
	"fmt"
	"io"
)

// The max leaf size used for the scene-level tree over whole meshes and
// spheres. Aggregates are expensive to enter so leafs stay small.
const sceneLeafSize = 2

// A parsed scene: a flat collection of meshes and analytic spheres.
type Scene struct {
	Meshes  []*Mesh
	Spheres []Sphere
}

// Build a scene-level BVH over all meshes and spheres. Each mesh keeps
// its own internal triangle tree, so the returned tree is a hierarchy of
// hierarchies.
func (sc *Scene) Accelerate() *BVH {
	prims := make([]Primitive, 0, len(sc.Meshes)+len(sc.Spheres))
	for _, mesh := range sc.Meshes {
		prims = append(prims, mesh)
	}
	for _, sphere := range sc.Spheres {
		prims = append(prims, sphere)
	}
	return NewBVH(prims, sceneLeafSize)
}

// Get the total primitive count across all meshes and spheres.
func (sc *Scene) PrimitiveCount() int {
	count := len(sc.Spheres)
	for _, mesh := range sc.Meshes {
		count += mesh.TriangleCount()
	}
	return count
}

// The serializable form of a scene. BVH node arrays are derived data and
// are rebuilt after decoding instead of being stored.
type meshBlob struct {
	Name    string
	Verts   []Vertex
	Indices []uint32
}

type sceneBlob struct {
	Meshes  []meshBlob
	Spheres []Sphere
}

// Serialize the scene to a stream using gob encoding.
func (sc *Scene) Encode(w io.Writer) error {
	blob := sceneBlob{
		Meshes:  make([]meshBlob, len(sc.Meshes)),
		Spheres: sc.Spheres,
	}
	for i, mesh := range sc.Meshes {
		blob.Meshes[i] = meshBlob{
			Name:    mesh.Name(),
			Verts:   mesh.Vertices(),
			Indices: mesh.Indices(),
		}
	}

	if err := gob.NewEncoder(w).Encode(blob); err != nil {
		return fmt.Errorf("scene: could not encode scene data: %s", err.Error())
	}
	return nil
}

// Deserialize a scene from a stream, rebuilding the per-mesh triangle
// trees as meshes are restored.
func Decode(r io.Reader) (*Scene, error) {
	var blob sceneBlob
	if err := gob.NewDecoder(r).Decode(&blob); err != nil {
		return nil, fmt.Errorf("scene: could not decode scene data: %s", err.Error())
	}

	sc := &Scene{
		Meshes:  make([]*Mesh, len(blob.Meshes)),
		Spheres: blob.Spheres,
	}
	for i, mesh := range blob.Meshes {
		sc.Meshes[i] = NewMesh(mesh.Name, mesh.Verts, mesh.Indices)
	}
	return sc, nil
}
