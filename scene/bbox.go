package scene

import (
	"math"

	"github.com/achilleasa/goray/types"
)

// An axis-aligned bounding box. The zero value is not a usable box; new
// boxes should be obtained via NewBBox or EmptyBBox.
type BBox struct {
	Min types.Vec3
	Max types.Vec3
}

// Create a bounding box with the given extents.
func NewBBox(min, max types.Vec3) BBox {
	return BBox{Min: min, Max: max}
}

// Create an empty bounding box. Empty boxes use inverted extents so that
// enclosing anything into them yields that thing's bounds.
func EmptyBBox() BBox {
	return BBox{
		Min: types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Returns true if the box bounds a non-empty region of space.
func (b BBox) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Grow the box to contain a point.
func (b *BBox) EnclosePoint(p types.Vec3) {
	b.Min = types.MinVec3(b.Min, p)
	b.Max = types.MaxVec3(b.Max, p)
}

// Grow the box to contain another box. Enclosing an empty box is a no-op.
func (b *BBox) Enclose(other BBox) {
	if !other.Valid() {
		return
	}
	b.Min = types.MinVec3(b.Min, other.Min)
	b.Max = types.MaxVec3(b.Max, other.Max)
}

// Get the box center.
func (b BBox) Center() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get the total surface area of the box faces. Empty boxes have zero area.
func (b BBox) SurfaceArea() float32 {
	if !b.Valid() {
		return 0
	}
	side := b.Max.Sub(b.Min)
	return 2.0 * (side[0]*side[1] + side[1]*side[2] + side[0]*side[2])
}

// Intersect a ray with the box using the slab method. The times argument
// holds the admissible [tmin, tmax] distance range; on a hit it is narrowed
// to the sub-range where the ray overlaps the box. On a miss the method
// returns false and times holds no meaningful value.
//
// A ray running parallel to an axis can only overlap the box if its origin
// already lies between the two slab planes on that axis. Comparisons are
// boundary-inclusive so rays grazing a shared face between sibling boxes
// still register.
func (b BBox) Intersect(r *Ray, times *types.Vec2) bool {
	for axis := 0; axis < 3; axis++ {
		if r.Dir[axis] == 0 {
			if r.Point[axis] < b.Min[axis] || r.Point[axis] > b.Max[axis] {
				return false
			}
			continue
		}

		invDir := 1.0 / r.Dir[axis]
		tNear := (b.Min[axis] - r.Point[axis]) * invDir
		tFar := (b.Max[axis] - r.Point[axis]) * invDir
		if tNear > tFar {
			tNear, tFar = tFar, tNear
		}

		if tNear > times[0] {
			times[0] = tNear
		}
		if tFar < times[1] {
			times[1] = tFar
		}
		if times[0] > times[1] {
			return false
		}
	}

	return true
}
