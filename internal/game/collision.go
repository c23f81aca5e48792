package game

import (
	"math"

	"fight-club/internal/game/world"
)

// closestPointAABB returns the point on (or inside) a closest to p, found
// by clamping each axis of p to the box's extent.
func closestPointAABB(p world.Vec3, a world.AABB) world.Vec3 {
	return world.Vec3{
		X: world.Clamp(p.X, a.Min.X, a.Max.X),
		Y: world.Clamp(p.Y, a.Min.Y, a.Max.Y),
		Z: world.Clamp(p.Z, a.Min.Z, a.Max.Z),
	}
}

func sphereIntersectsAABB(c world.Vec3, r float64, a world.AABB) bool {
	cp := closestPointAABB(c, a)
	return c.Sub(cp).Len() <= r
}

// resolveSphereVsAABBXZ pushes a sphere at c with radius r just outside the
// collider a, displacement confined to the XZ plane. It is a no-op if the
// sphere's vertical span (c.Y ± r) doesn't overlap the box's vertical span.
// Returns the resolved center and whether a push actually happened.
func resolveSphereVsAABBXZ(c world.Vec3, r float64, a world.AABB) (world.Vec3, bool) {
	if c.Y+r < a.Min.Y || c.Y-r > a.Max.Y {
		return c, false
	}

	cp := closestPointAABB(c, a)
	dx, dz := c.X-cp.X, c.Z-cp.Z
	distXZ := math.Hypot(dx, dz)

	if distXZ > 1e-9 {
		if distXZ >= r {
			return c, false
		}
		push := (r - distXZ) / distXZ
		return world.Vec3{X: c.X + dx*push, Y: c.Y, Z: c.Z + dz*push}, true
	}

	// Center lies inside the box on XZ: push out along the nearest face.
	// Tie-break order: left, right, back, front.
	left := c.X - a.Min.X
	right := a.Max.X - c.X
	back := c.Z - a.Min.Z
	front := a.Max.Z - c.Z

	best := left
	face := 0 // 0=left 1=right 2=back 3=front
	if right < best {
		best, face = right, 1
	}
	if back < best {
		best, face = back, 2
	}
	if front < best {
		best, face = front, 3
	}

	out := c
	switch face {
	case 0:
		out.X = a.Min.X - r
	case 1:
		out.X = a.Max.X + r
	case 2:
		out.Z = a.Min.Z - r
	case 3:
		out.Z = a.Max.Z + r
	}
	return out, true
}

// rayAABB implements the slab method. Returns the nearest non-negative
// hit parameter t along o+d*t, or ok=false on a miss (including the
// axis-parallel-ray-outside-slab and negative-only-intersection cases).
func rayAABB(o, d world.Vec3, a world.AABB) (t float64, ok bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)

	axes := [3][3]float64{
		{o.X, d.X, 0}, {o.Y, d.Y, 0}, {o.Z, d.Z, 0},
	}
	mins := [3]float64{a.Min.X, a.Min.Y, a.Min.Z}
	maxs := [3]float64{a.Max.X, a.Max.Y, a.Max.Z}

	for i := 0; i < 3; i++ {
		oi, di := axes[i][0], axes[i][1]
		if math.Abs(di) < 1e-12 {
			if oi < mins[i] || oi > maxs[i] {
				return 0, false
			}
			continue
		}
		t1 := (mins[i] - oi) / di
		t2 := (maxs[i] - oi) / di
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}

	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// raySphere finds the smallest non-negative root of the ray/sphere
// intersection, analytically.
func raySphere(o, d, c world.Vec3, r float64) (t float64, ok bool) {
	m := o.Sub(c)
	b := m.Dot(d)
	cc := m.Dot(m) - r*r
	if cc > 0 && b > 0 {
		return 0, false
	}
	discr := b*b - cc
	if discr < 0 {
		return 0, false
	}
	sq := math.Sqrt(discr)
	t = -b - sq
	if t < 0 {
		t2 := -b + sq
		return t2, t2 >= 0
	}
	return t, true
}

// firstObstacleHit returns the nearest rayAABB hit among colliders within
// maxDist, or ok=false if none of the colliders are struck that close.
func firstObstacleHit(o, d world.Vec3, colliders []world.AABB, maxDist float64) (t float64, ok bool) {
	best := math.Inf(1)
	found := false
	for _, c := range colliders {
		if ht, hok := rayAABB(o, d, c); hok && ht <= maxDist && ht < best {
			best = ht
			found = true
		}
	}
	return best, found
}
