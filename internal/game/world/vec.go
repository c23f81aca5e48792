// Package world holds the math and map primitives shared by every
// simulation system: vectors, axis-aligned boxes, and the immutable map
// document a room loads at construction time.
package world

import "math"

// Vec3 is a 3-component world-space vector (Y up; yaw 0 faces -Z).
type Vec3 struct {
	X, Y, Z float64
}

func NewVec3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Mul(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Len() float64       { return math.Sqrt(a.Dot(a)) }

// Norm returns the unit vector in the direction of a, or the zero vector
// if a's length is at or below 1e-9 (guards against division blow-up for
// near-zero inputs, matching the source's epsilon).
func (a Vec3) Norm() Vec3 {
	l := a.Len()
	if l <= 1e-9 {
		return Vec3{}
	}
	return a.Mul(1.0 / l)
}

// XZLen returns the length of the vector projected onto the XZ plane.
func (a Vec3) XZLen() float64 { return math.Hypot(a.X, a.Z) }

// Clamp restricts x to the closed interval [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// AABB is an axis-aligned bounding box described by its min and max corners.
type AABB struct {
	Min, Max Vec3
}

// AABBFromCenterSize builds an AABB from a center point and a full size
// (not half-extents) along each axis.
func AABBFromCenterSize(center, size Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}
