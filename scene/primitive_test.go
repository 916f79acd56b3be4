package scene

import (
	"math"
	"testing"

	"github.com/achilleasa/goray/types"
)

func unitTriangle() Triangle {
	verts := []Vertex{
		{Position: types.Vec3{-1, -1, 0}, Normal: types.Vec3{0, 0, 1}},
		{Position: types.Vec3{1, -1, 0}, Normal: types.Vec3{0, 0, 1}},
		{Position: types.Vec3{0, 1, 0}, Normal: types.Vec3{0, 0, 1}},
	}
	return NewTriangle(verts, 0, 1, 2)
}

func TestTriangleHit(t *testing.T) {
	tri := unitTriangle()

	r := NewRay(types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1})
	res := tri.Hit(&r)
	if !res.Hit {
		t.Fatal("expected hit through the triangle center")
	}
	if math.Abs(float64(res.Distance-5)) > 1e-5 {
		t.Fatalf("expected hit distance 5; got %f", res.Distance)
	}
	if exp := (types.Vec3{0, 0, 1}); res.Normal != exp {
		t.Fatalf("expected interpolated normal %v; got %v", exp, res.Normal)
	}
	if res.Origin != r.Point {
		t.Fatalf("expected trace origin %v; got %v", r.Point, res.Origin)
	}

	// The hit must tighten the max distance bound
	if r.DistBounds[1] != res.Distance {
		t.Fatalf("expected DistBounds[1] to tighten to %f; got %f", res.Distance, r.DistBounds[1])
	}

	// A second, farther triangle test against the tightened ray must miss
	farVerts := []Vertex{
		{Position: types.Vec3{-1, -1, -2}, Normal: types.Vec3{0, 0, 1}},
		{Position: types.Vec3{1, -1, -2}, Normal: types.Vec3{0, 0, 1}},
		{Position: types.Vec3{0, 1, -2}, Normal: types.Vec3{0, 0, 1}},
	}
	farTri := NewTriangle(farVerts, 0, 1, 2)
	if res := farTri.Hit(&r); res.Hit {
		t.Fatal("expected farther triangle to be rejected by the tightened bound")
	}
	if r.DistBounds[1] != 5 {
		t.Fatalf("expected missing hit to leave bounds untouched; got %f", r.DistBounds[1])
	}
}

func TestTriangleMiss(t *testing.T) {
	tri := unitTriangle()

	type spec struct {
		point types.Vec3
		dir   types.Vec3
	}
	specs := []spec{
		// Outside the triangle edges
		{types.Vec3{2, 2, 5}, types.Vec3{0, 0, -1}},
		// Parallel to the triangle plane
		{types.Vec3{0, 0, 5}, types.Vec3{1, 0, 0}},
		// Pointing away
		{types.Vec3{0, 0, 5}, types.Vec3{0, 0, 1}},
	}

	for index, s := range specs {
		r := NewRay(s.point, s.dir)
		if res := tri.Hit(&r); res.Hit {
			t.Fatalf("[spec %d] expected miss", index)
		}
		if r.DistBounds[1] != maxDist {
			t.Fatalf("[spec %d] expected miss to leave bounds untouched", index)
		}
	}
}

func TestTriangleRespectsDistBounds(t *testing.T) {
	tri := unitTriangle()

	// Hit lies at distance 5; exclude it from both sides
	r := NewRay(types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1})
	r.DistBounds = types.Vec2{6, 100}
	if res := tri.Hit(&r); res.Hit {
		t.Fatal("expected hit before min bound to be rejected")
	}

	r = NewRay(types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1})
	r.DistBounds = types.Vec2{0, 4}
	if res := tri.Hit(&r); res.Hit {
		t.Fatal("expected hit past max bound to be rejected")
	}
}

func TestTriangleNormalInterpolation(t *testing.T) {
	// Distinct vertex normals; a hit at a vertex reproduces its normal.
	verts := []Vertex{
		{Position: types.Vec3{-1, -1, 0}, Normal: types.Vec3{1, 0, 0}},
		{Position: types.Vec3{1, -1, 0}, Normal: types.Vec3{0, 1, 0}},
		{Position: types.Vec3{0, 1, 0}, Normal: types.Vec3{0, 0, 1}},
	}
	tri := NewTriangle(verts, 0, 1, 2)

	r := NewRay(types.Vec3{0, 0.99, 5}, types.Vec3{0, 0, -1})
	res := tri.Hit(&r)
	if !res.Hit {
		t.Fatal("expected hit near the apex vertex")
	}
	if res.Normal[2] < 0.99 {
		t.Fatalf("expected normal to be dominated by the apex vertex normal; got %v", res.Normal)
	}
}

func TestTriangleBBox(t *testing.T) {
	tri := unitTriangle()
	box := tri.BBox()
	if exp := (types.Vec3{-1, -1, 0}); box.Min != exp {
		t.Fatalf("expected bbox min %v; got %v", exp, box.Min)
	}
	if exp := (types.Vec3{1, 1, 0}); box.Max != exp {
		t.Fatalf("expected bbox max %v; got %v", exp, box.Max)
	}
	if !box.Valid() {
		t.Fatal("expected flat triangle bbox to be valid")
	}
}

func TestSphereHit(t *testing.T) {
	s := NewSphere(types.Vec3{0, 0, 0}, 1)

	r := NewRay(types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1})
	res := s.Hit(&r)
	if !res.Hit {
		t.Fatal("expected hit through the sphere center")
	}
	if math.Abs(float64(res.Distance-4)) > 1e-5 {
		t.Fatalf("expected hit distance 4; got %f", res.Distance)
	}
	if exp := (types.Vec3{0, 0, 1}); res.Normal != exp {
		t.Fatalf("expected outward normal %v; got %v", exp, res.Normal)
	}
	if r.DistBounds[1] != res.Distance {
		t.Fatalf("expected DistBounds[1] to tighten to %f; got %f", res.Distance, r.DistBounds[1])
	}
}

func TestSphereHitFromInside(t *testing.T) {
	s := NewSphere(types.Vec3{0, 0, 0}, 1)

	// The near root is behind the origin so the far root must win.
	r := NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1})
	res := s.Hit(&r)
	if !res.Hit {
		t.Fatal("expected hit from inside the sphere")
	}
	if math.Abs(float64(res.Distance-1)) > 1e-5 {
		t.Fatalf("expected hit distance 1; got %f", res.Distance)
	}
}

func TestSphereFarRootWhenNearClipped(t *testing.T) {
	s := NewSphere(types.Vec3{0, 0, 0}, 1)

	// Roots lie at distances 4 and 6; clip the near one away.
	r := NewRay(types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1})
	r.DistBounds = types.Vec2{5, 100}
	res := s.Hit(&r)
	if !res.Hit {
		t.Fatal("expected the far intersection to be returned")
	}
	if math.Abs(float64(res.Distance-6)) > 1e-5 {
		t.Fatalf("expected hit distance 6; got %f", res.Distance)
	}
}

func TestSphereMiss(t *testing.T) {
	s := NewSphere(types.Vec3{0, 0, 0}, 1)

	r := NewRay(types.Vec3{0, 2, 5}, types.Vec3{0, 0, -1})
	if res := s.Hit(&r); res.Hit {
		t.Fatal("expected miss above the sphere")
	}
	if r.DistBounds[1] != maxDist {
		t.Fatal("expected miss to leave bounds untouched")
	}
}

func TestMinTrace(t *testing.T) {
	miss := Trace{}
	nearHit := Trace{Hit: true, Distance: 1}
	farHit := Trace{Hit: true, Distance: 5}

	if res := MinTrace(miss, miss); res.Hit {
		t.Fatal("expected combining two misses to miss")
	}
	if res := MinTrace(miss, farHit); res != farHit {
		t.Fatal("expected the hit to win over a miss")
	}
	if res := MinTrace(nearHit, miss); res != nearHit {
		t.Fatal("expected the hit to win over a miss")
	}
	if res := MinTrace(farHit, nearHit); res != nearHit {
		t.Fatal("expected the nearer hit to win")
	}
	if res := MinTrace(nearHit, farHit); res != nearHit {
		t.Fatal("expected the nearer hit to win")
	}
}
