package scene

// The max leaf size used for the per-mesh triangle tree. Triangle tests
// are cheap so slightly larger leafs beat deeper trees here.
const meshLeafSize = 4

// A named triangle mesh. The mesh owns its vertex list and an internal
// BVH over its triangles; since Mesh implements Primitive itself, meshes
// nest directly into a scene-level BVH forming a two-level hierarchy.
type Mesh struct {
	name    string
	verts   []Vertex
	indices []uint32
	accel   BVH
}

// Create a new mesh from a vertex list and a triangle index list (three
// indices per triangle, extra trailing indices are ignored). The triangle
// tree is built eagerly.
func NewMesh(name string, verts []Vertex, indices []uint32) *Mesh {
	mesh := &Mesh{
		name:    name,
		verts:   verts,
		indices: indices,
	}

	tris := make([]Primitive, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		tris = append(tris, NewTriangle(verts, indices[i], indices[i+1], indices[i+2]))
	}
	mesh.accel.Build(tris, meshLeafSize)

	return mesh
}

// Get the mesh name.
func (m *Mesh) Name() string {
	return m.name
}

// Get the shared vertex list.
func (m *Mesh) Vertices() []Vertex {
	return m.verts
}

// Get the triangle index list.
func (m *Mesh) Indices() []uint32 {
	return m.indices
}

// Get the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.indices) / 3
}

// Get the statistics of the internal triangle tree.
func (m *Mesh) Stats() TreeStats {
	return m.accel.Stats()
}

// Get the bounding box of the whole mesh.
func (m *Mesh) BBox() BBox {
	return m.accel.BBox()
}

// Find the nearest ray intersection with any triangle in the mesh.
func (m *Mesh) Hit(r *Ray) Trace {
	return m.accel.Hit(r)
}

// Create an independent deep copy of the mesh. The copy owns fresh vertex
// storage and rebuilds its triangle tree over it.
func (m *Mesh) Copy() *Mesh {
	verts := make([]Vertex, len(m.verts))
	copy(verts, m.verts)
	indices := make([]uint32, len(m.indices))
	copy(indices, m.indices)
	return NewMesh(m.name, verts, indices)
}
