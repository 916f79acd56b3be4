package scene

import (
	"math"

	"github.com/achilleasa/goray/types"
)

// A sphere primitive.
type Sphere struct {
	Origin types.Vec3
	Radius float32
}

// Create a new sphere primitive.
func NewSphere(origin types.Vec3, radius float32) Sphere {
	return Sphere{Origin: origin, Radius: radius}
}

// Get a box enclosing the sphere.
func (s Sphere) BBox() BBox {
	extent := types.Vec3{s.Radius, s.Radius, s.Radius}
	return NewBBox(s.Origin.Sub(extent), s.Origin.Add(extent))
}

// Intersect a ray with the sphere. When the ray pierces the sphere twice
// the nearer intersection wins, unless it falls outside ray.DistBounds in
// which case the farther one is considered instead (this handles rays
// starting inside the sphere).
func (s Sphere) Hit(r *Ray) Trace {
	oc := r.Point.Sub(s.Origin)
	a := r.Dir.Dot(r.Dir)
	if a == 0 {
		return Trace{Origin: r.Point}
	}
	halfB := oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return Trace{Origin: r.Point}
	}
	sqrtDisc := float32(math.Sqrt(float64(discriminant)))

	dist := (-halfB - sqrtDisc) / a
	if dist < r.DistBounds[0] || dist > r.DistBounds[1] {
		dist = (-halfB + sqrtDisc) / a
		if dist < r.DistBounds[0] || dist > r.DistBounds[1] {
			return Trace{Origin: r.Point}
		}
	}

	r.DistBounds[1] = dist

	position := r.Point.Add(r.Dir.Mul(dist))
	return Trace{
		Hit:      true,
		Distance: dist,
		Position: position,
		Normal:   position.Sub(s.Origin).Mul(1.0 / s.Radius),
		Origin:   r.Point,
	}
}
