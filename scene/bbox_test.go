package scene

import (
	"math"
	"testing"

	"github.com/achilleasa/goray/types"
)

func TestBBoxIntersect(t *testing.T) {
	type spec struct {
		point    types.Vec3
		dir      types.Vec3
		expHit   bool
		expTimes types.Vec2
	}

	box := NewBBox(types.Vec3{-1, -1, -1}, types.Vec3{1, 1, 1})
	specs := []spec{
		// Head-on hit narrows the interval to the box overlap range
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1}, true, types.Vec2{4, 6}},
		// Ray parallel to the x axis starting outside the x slabs
		{types.Vec3{5, 5, 5}, types.Vec3{1, 0, 0}, false, types.Vec2{}},
		// Diagonal hit through two corners
		{types.Vec3{-2, -2, -2}, types.Vec3{1, 1, 1}, true, types.Vec2{1, 3}},
		// Pointing away from the box
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, -1}, false, types.Vec2{}},
		// Parallel to x inside the x slabs, passing through
		{types.Vec3{0.5, -0.5, 3}, types.Vec3{0, 0, -1}, true, types.Vec2{2, 4}},
	}

	for index, s := range specs {
		r := NewRay(s.point, s.dir)
		times := r.DistBounds
		hit := box.Intersect(&r, &times)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, hit)
		}
		if !s.expHit {
			continue
		}
		if times != s.expTimes {
			t.Fatalf("[spec %d] expected narrowed interval %v; got %v", index, s.expTimes, times)
		}
	}
}

func TestBBoxIntersectAxisParallel(t *testing.T) {
	box := NewBBox(types.Vec3{-1, -1, -1}, types.Vec3{1, 1, 1})

	// Zero x direction with origin x outside the x slabs must miss no
	// matter what the other direction components are.
	dirs := []types.Vec3{
		{0, 0, 1},
		{0, 1, 0},
		{0, 1, 1},
		{0, -1, 1},
	}
	for index, dir := range dirs {
		r := NewRay(types.Vec3{2, 0, -5}, dir)
		times := r.DistBounds
		if box.Intersect(&r, &times) {
			t.Fatalf("[spec %d] expected axis-parallel ray outside the slab to miss", index)
		}
	}

	// Origin exactly on a face boundary is treated as inside.
	r := NewRay(types.Vec3{1, 0, -5}, types.Vec3{0, 0, 1})
	times := r.DistBounds
	if !box.Intersect(&r, &times) {
		t.Fatal("expected ray grazing the box face to hit")
	}
}

func TestBBoxIntersectRespectsInputInterval(t *testing.T) {
	box := NewBBox(types.Vec3{-1, -1, -1}, types.Vec3{1, 1, 1})

	// The box overlap lies in [4, 6]; an input interval ending before it
	// must report a miss.
	r := NewRay(types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1})
	times := types.Vec2{0, 3}
	if box.Intersect(&r, &times) {
		t.Fatal("expected miss for interval ending before the box")
	}

	// An input interval partially overlapping the box narrows to the
	// common sub-range.
	times = types.Vec2{5, 100}
	if !box.Intersect(&r, &times) {
		t.Fatal("expected hit for interval overlapping the box")
	}
	if exp := (types.Vec2{5, 6}); times != exp {
		t.Fatalf("expected narrowed interval %v; got %v", exp, times)
	}
}

func TestBBoxEnclose(t *testing.T) {
	box := EmptyBBox()
	if box.Valid() {
		t.Fatal("expected empty box to be invalid")
	}
	if box.SurfaceArea() != 0 {
		t.Fatalf("expected empty box surface area to be 0; got %f", box.SurfaceArea())
	}

	// Enclosing an empty box is a no-op
	other := NewBBox(types.Vec3{-1, -1, -1}, types.Vec3{1, 1, 1})
	other.Enclose(EmptyBBox())
	if exp := NewBBox(types.Vec3{-1, -1, -1}, types.Vec3{1, 1, 1}); other != exp {
		t.Fatalf("expected enclosing an empty box to change nothing; got %v", other)
	}

	box.EnclosePoint(types.Vec3{1, 2, 3})
	if !box.Valid() {
		t.Fatal("expected box to become valid after enclosing a point")
	}
	if exp := (types.Vec3{1, 2, 3}); box.Min != exp || box.Max != exp {
		t.Fatalf("expected point box extents %v/%v; got %v/%v", exp, exp, box.Min, box.Max)
	}

	box.Enclose(other)
	if exp := (types.Vec3{-1, -1, -1}); box.Min != exp {
		t.Fatalf("expected min extent %v; got %v", exp, box.Min)
	}
	if exp := (types.Vec3{1, 2, 3}); box.Max != exp {
		t.Fatalf("expected max extent %v; got %v", exp, box.Max)
	}

	if exp := (types.Vec3{0, 0.5, 1}); box.Center() != exp {
		t.Fatalf("expected center %v; got %v", exp, box.Center())
	}
}

func TestBBoxSurfaceArea(t *testing.T) {
	box := NewBBox(types.Vec3{0, 0, 0}, types.Vec3{1, 2, 3})
	exp := float32(2.0 * (1*2 + 2*3 + 1*3))
	if math.Abs(float64(box.SurfaceArea()-exp)) > 1e-5 {
		t.Fatalf("expected surface area %f; got %f", exp, box.SurfaceArea())
	}

	// Degenerate flat box still has the area of its two large faces
	flat := NewBBox(types.Vec3{0, 0, 0}, types.Vec3{2, 2, 0})
	exp = float32(2.0 * (2 * 2))
	if math.Abs(float64(flat.SurfaceArea()-exp)) > 1e-5 {
		t.Fatalf("expected flat box surface area %f; got %f", exp, flat.SurfaceArea())
	}
}
