package scene

import "github.com/achilleasa/goray/types"

// A mesh vertex.
type Vertex struct {
	Position types.Vec3
	Normal   types.Vec3
}

// A triangle referencing three vertices in a shared vertex list. Keeping
// indices instead of positions keeps the primitive small enough to copy
// around freely during BVH partitioning.
type Triangle struct {
	verts      []Vertex
	v0, v1, v2 uint32
}

// Create a new triangle over the given vertex list.
func NewTriangle(verts []Vertex, v0, v1, v2 uint32) Triangle {
	return Triangle{verts: verts, v0: v0, v1: v1, v2: v2}
}

// Get a box enclosing the three triangle vertices. The box can have zero
// extent along an axis for axis-aligned triangles.
func (tri Triangle) BBox() BBox {
	box := EmptyBBox()
	box.EnclosePoint(tri.verts[tri.v0].Position)
	box.EnclosePoint(tri.verts[tri.v1].Position)
	box.EnclosePoint(tri.verts[tri.v2].Position)
	return box
}

const triIntersectEpsilon float32 = 1e-7

// Intersect a ray with the triangle using the Moller-Trumbore algorithm.
// Intersections outside ray.DistBounds report a miss. The returned normal
// is the unit interpolation of the three vertex normals at the hit point.
func (tri Triangle) Hit(r *Ray) Trace {
	vert0 := tri.verts[tri.v0]
	vert1 := tri.verts[tri.v1]
	vert2 := tri.verts[tri.v2]

	edge1 := vert1.Position.Sub(vert0.Position)
	edge2 := vert2.Position.Sub(vert0.Position)

	pVec := r.Dir.Cross(edge2)
	det := edge1.Dot(pVec)
	if det > -triIntersectEpsilon && det < triIntersectEpsilon {
		// Ray parallel to the triangle plane.
		return Trace{Origin: r.Point}
	}
	invDet := 1.0 / det

	tVec := r.Point.Sub(vert0.Position)
	u := tVec.Dot(pVec) * invDet
	if u < 0 || u > 1 {
		return Trace{Origin: r.Point}
	}

	qVec := tVec.Cross(edge1)
	v := r.Dir.Dot(qVec) * invDet
	if v < 0 || u+v > 1 {
		return Trace{Origin: r.Point}
	}

	dist := edge2.Dot(qVec) * invDet
	if dist < r.DistBounds[0] || dist > r.DistBounds[1] {
		return Trace{Origin: r.Point}
	}

	r.DistBounds[1] = dist

	normal := vert0.Normal.Mul(1 - u - v).
		Add(vert1.Normal.Mul(u)).
		Add(vert2.Normal.Mul(v)).
		Normalize()

	return Trace{
		Hit:      true,
		Distance: dist,
		Position: r.Point.Add(r.Dir.Mul(dist)),
		Normal:   normal,
		Origin:   r.Point,
	}
}
