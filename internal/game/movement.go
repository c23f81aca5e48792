package game

import (
	"math"

	"fight-club/internal/game/world"
)

// stepMovement integrates every living player's velocity and position from
// its last accepted command, in the fixed order the source uses: normalize
// orientation, derive ground state, apply friction then acceleration, clamp
// speed, handle jump and gravity, integrate, floor-clamp, then resolve
// collisions against the map's colliders.
func stepMovement(r *Room, dt float64) {
	caps := r.Config.Movement
	radius := r.Config.PlayerRadius

	for _, p := range r.Players {
		if !p.Alive {
			continue
		}
		cmd := p.LastCmd

		yaw := normalizeYaw(cmd.Yaw)
		pitch := world.Clamp(cmd.Pitch, -1.4, 1.4)
		cmd.Yaw, cmd.Pitch = yaw, pitch
		p.LastCmd = cmd
		p.Yaw, p.Pitch = yaw, pitch

		forward := world.Vec3{X: -math.Sin(yaw), Y: 0, Z: -math.Cos(yaw)}
		right := world.Vec3{X: math.Cos(yaw), Y: 0, Z: -math.Sin(yaw)}
		wish := world.Vec3{
			X: forward.X*cmd.MoveY + right.X*cmd.MoveX,
			Z: forward.Z*cmd.MoveY + right.Z*cmd.MoveX,
		}.Norm()

		onGround := p.Pos.Y <= radius+1e-3
		if onGround {
			p.Pos.Y = radius
			if p.Vel.Y < 0 {
				p.Vel.Y = 0
			}
		}

		speed := (world.Vec3{X: p.Vel.X, Z: p.Vel.Z}).XZLen()
		if speed > 1e-9 {
			drop := speed * caps.Friction * dt
			scale := math.Max(0, speed-drop) / speed
			p.Vel.X *= scale
			p.Vel.Z *= scale
		}

		accel := caps.Accel
		if !onGround {
			accel *= caps.AirControl
		}
		p.Vel.X += wish.X * accel * dt
		p.Vel.Z += wish.Z * accel * dt

		maxSpeed := caps.MaxSpeedWalk
		if cmd.Sprint {
			maxSpeed = caps.MaxSpeedSprint
		}
		if horiz := (world.Vec3{X: p.Vel.X, Z: p.Vel.Z}).XZLen(); horiz > maxSpeed {
			scale := maxSpeed / horiz
			p.Vel.X *= scale
			p.Vel.Z *= scale
		}

		if onGround && cmd.Jump {
			p.Vel.Y = caps.JumpSpeed
			onGround = false
		}

		p.Vel.Y -= caps.Gravity * dt

		p.Pos.X += p.Vel.X * dt
		p.Pos.Y += p.Vel.Y * dt
		p.Pos.Z += p.Vel.Z * dt

		if p.Pos.Y < radius {
			p.Pos.Y = radius
			p.Vel.Y = 0
			onGround = true
		}
		p.OnGround = onGround

		if resolvePlayerCollisions(r, p, radius) {
			p.Vel.X *= 0.75
			p.Vel.Z *= 0.75
		}
	}
}

// normalizeYaw folds any yaw into (-π, π], matching the wire protocol's
// convention for the angle the client reports.
func normalizeYaw(yaw float64) float64 {
	for yaw > math.Pi {
		yaw -= 2 * math.Pi
	}
	for yaw <= -math.Pi {
		yaw += 2 * math.Pi
	}
	return yaw
}

// resolvePlayerCollisions pushes p out of every overlapping collider on
// XZ, reporting whether any push actually happened this tick.
func resolvePlayerCollisions(r *Room, p *Player, radius float64) bool {
	resolved := false
	for _, c := range r.Map.Colliders {
		if push, hit := resolveSphereVsAABBXZ(p.Pos, radius, c); hit {
			p.Pos = push
			resolved = true
		}
	}
	return resolved
}
