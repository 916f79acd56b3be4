package scene

import (
	"math"

	"github.com/achilleasa/goray/types"
)

// A ray with an admissible intersection distance range.
type Ray struct {
	// The ray origin.
	Point types.Vec3

	// The ray direction. It does not need to be normalized.
	Dir types.Vec3

	// The [min, max] distance range for a valid intersection. Primitive
	// intersection tests tighten the max bound whenever they register a
	// hit; they never widen it. The narrowed bound lets subsequent box
	// and primitive tests reject farther candidates early.
	DistBounds types.Vec2
}

// Create a new ray with an unbounded distance range.
func NewRay(point, dir types.Vec3) Ray {
	return Ray{
		Point:      point,
		Dir:        dir,
		DistBounds: types.XY(0, maxDist),
	}
}

const maxDist float32 = math.MaxFloat32

// The result of a ray intersection query. The zero value reports a miss.
type Trace struct {
	// Did the ray hit anything?
	Hit bool

	// The distance along the ray where the intersection occurred.
	Distance float32

	// The intersection point.
	Position types.Vec3

	// The surface normal at the intersection point.
	Normal types.Vec3

	// The origin of the ray that generated this trace.
	Origin types.Vec3
}

// Combine two traces keeping the closest hit. If only one trace reports a
// hit that one wins regardless of distance.
func MinTrace(a, b Trace) Trace {
	if !b.Hit {
		return a
	}
	if !a.Hit || b.Distance < a.Distance {
		return b
	}
	return a
}

// The Primitive interface is implemented by anything that can be indexed
// by a BVH: triangles, spheres and nested BVH aggregates alike.
type Primitive interface {
	// Get a bounding box fully enclosing the primitive.
	BBox() BBox

	// Intersect the primitive with a ray honoring ray.DistBounds. On a
	// hit the primitive narrows ray.DistBounds[1] to the hit distance;
	// on a miss it leaves the bounds untouched.
	Hit(r *Ray) Trace
}
