package game

import (
	"math"
	"testing"

	"fight-club/internal/game/world"
)

func TestClosestPointAABB(t *testing.T) {
	box := world.AABB{Min: world.Vec3{X: -1, Y: -1, Z: -1}, Max: world.Vec3{X: 1, Y: 1, Z: 1}}

	tests := []struct {
		name string
		p    world.Vec3
		want world.Vec3
	}{
		{"inside box returns itself", world.Vec3{X: 0, Y: 0, Z: 0}, world.Vec3{X: 0, Y: 0, Z: 0}},
		{"outside clamps to nearest face", world.Vec3{X: 5, Y: 0, Z: 0}, world.Vec3{X: 1, Y: 0, Z: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := closestPointAABB(tt.p, box); got != tt.want {
				t.Errorf("closestPointAABB(%+v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestSphereIntersectsAABB(t *testing.T) {
	box := world.AABB{Min: world.Vec3{X: -1, Y: -1, Z: -1}, Max: world.Vec3{X: 1, Y: 1, Z: 1}}

	if !sphereIntersectsAABB(world.Vec3{X: 1.5, Y: 0, Z: 0}, 0.6, box) {
		t.Error("expected an overlapping sphere to intersect")
	}
	if sphereIntersectsAABB(world.Vec3{X: 5, Y: 0, Z: 0}, 0.5, box) {
		t.Error("expected a far sphere not to intersect")
	}
}

func TestResolveSphereVsAABBXZNoVerticalOverlap(t *testing.T) {
	box := world.AABB{Min: world.Vec3{X: -1, Y: -1, Z: -1}, Max: world.Vec3{X: 1, Y: 1, Z: 1}}
	_, hit := resolveSphereVsAABBXZ(world.Vec3{X: 0, Y: 10, Z: 0}, 0.5, box)
	if hit {
		t.Error("expected no push when the sphere's vertical span misses the box")
	}
}

func TestResolveSphereVsAABBXZPushOut(t *testing.T) {
	box := world.AABB{Min: world.Vec3{X: -1, Y: -1, Z: -1}, Max: world.Vec3{X: 1, Y: 1, Z: 1}}
	c := world.Vec3{X: 1.2, Y: 0, Z: 0}
	r := 0.5

	resolved, hit := resolveSphereVsAABBXZ(c, r, box)
	if !hit {
		t.Fatal("expected a push when the sphere overlaps the box on XZ")
	}
	wantX := 1.5
	if math.Abs(resolved.X-wantX) > 1e-9 {
		t.Errorf("resolved.X = %v, want %v", resolved.X, wantX)
	}
}

func TestResolveSphereVsAABBXZCenterInsideTieBreak(t *testing.T) {
	// A sphere centered at the origin: left, back and front are all at
	// distance 1 (right is 1.5), so left wins by the left/right/back/front
	// tie-break order.
	box := world.AABB{Min: world.Vec3{X: -1, Y: -1, Z: -1}, Max: world.Vec3{X: 1.5, Y: 1, Z: 1}}
	resolved, hit := resolveSphereVsAABBXZ(world.Vec3{X: 0, Y: 0, Z: 0}, 0.5, box)
	if !hit {
		t.Fatal("expected a push when centered on the box")
	}
	if resolved.X != box.Min.X-0.5 {
		t.Errorf("expected push out the left face, got %+v", resolved)
	}
}

func TestRayAABBHitAndMiss(t *testing.T) {
	box := world.AABB{Min: world.Vec3{X: -1, Y: -1, Z: -1}, Max: world.Vec3{X: 1, Y: 1, Z: 1}}

	t_, ok := rayAABB(world.Vec3{X: -5, Y: 0, Z: 0}, world.Vec3{X: 1, Y: 0, Z: 0}, box)
	if !ok || math.Abs(t_-4) > 1e-9 {
		t.Errorf("expected a hit at t=4, got t=%v ok=%v", t_, ok)
	}

	_, ok = rayAABB(world.Vec3{X: -5, Y: 5, Z: 0}, world.Vec3{X: 1, Y: 0, Z: 0}, box)
	if ok {
		t.Error("expected a parallel ray outside the box's Y slab to miss")
	}

	_, ok = rayAABB(world.Vec3{X: 5, Y: 0, Z: 0}, world.Vec3{X: 1, Y: 0, Z: 0}, box)
	if ok {
		t.Error("expected a ray pointing away from the box to miss")
	}
}

func TestRaySphere(t *testing.T) {
	center := world.Vec3{X: 5, Y: 0, Z: 0}

	t_, ok := raySphere(world.Vec3{}, world.Vec3{X: 1, Y: 0, Z: 0}, center, 1)
	if !ok || math.Abs(t_-4) > 1e-9 {
		t.Errorf("expected nearest root t=4, got t=%v ok=%v", t_, ok)
	}

	if _, ok := raySphere(world.Vec3{X: 10, Y: 0, Z: 0}, world.Vec3{X: 1, Y: 0, Z: 0}, center, 1); ok {
		t.Error("expected a ray moving away from the sphere to miss")
	}

	// Origin inside the sphere: the roots are -1 and 1, so the smallest
	// non-negative one is the exit point at t=1.
	t_, ok = raySphere(center, world.Vec3{X: 1, Y: 0, Z: 0}, center, 1)
	if !ok || t_ != 1 {
		t.Errorf("expected t=1 for an origin inside the sphere, got t=%v ok=%v", t_, ok)
	}
}

func TestFirstObstacleHit(t *testing.T) {
	colliders := []world.AABB{
		{Min: world.Vec3{X: 4, Y: -1, Z: -1}, Max: world.Vec3{X: 5, Y: 1, Z: 1}},
		{Min: world.Vec3{X: 9, Y: -1, Z: -1}, Max: world.Vec3{X: 10, Y: 1, Z: 1}},
	}

	t_, ok := firstObstacleHit(world.Vec3{}, world.Vec3{X: 1, Y: 0, Z: 0}, colliders, 100)
	if !ok || math.Abs(t_-4) > 1e-9 {
		t.Errorf("expected the nearer collider at t=4, got t=%v ok=%v", t_, ok)
	}

	if _, ok := firstObstacleHit(world.Vec3{}, world.Vec3{X: 1, Y: 0, Z: 0}, colliders, 2); ok {
		t.Error("expected no hit when maxDist is shorter than either collider")
	}
}
