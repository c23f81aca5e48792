package game

import "fight-club/internal/game/world"

// projectileGravity is the small downward acceleration rocket-family
// projectiles accumulate each tick, matching the spec's "vy -= 3*dt".
const projectileGravity = 3.0

// stepProjectiles advances every in-flight projectile, resolving impacts
// against colliders and players, detonating rockets only on an actual
// impact (a bare TTL expiry or falling out of the map deletes silently,
// with no explosion/event), and removing projectiles that are spent.
func stepProjectiles(r *Room, dt float64) {
	for id, proj := range r.Projectiles {
		proj.TTL -= dt
		if proj.TTL <= 0 {
			delete(r.Projectiles, id)
			continue
		}
		proj.Vel.Y -= projectileGravity * dt

		start := proj.Pos
		end := world.Vec3{
			X: start.X + proj.Vel.X*dt,
			Y: start.Y + proj.Vel.Y*dt,
			Z: start.Z + proj.Vel.Z*dt,
		}
		travel := end.Sub(start)
		dist := travel.Len()

		hit := false
		if dist > 1e-9 {
			for _, c := range r.Map.Colliders {
				if sphereIntersectsAABB(end, proj.Radius, c) {
					hit = true
					break
				}
			}
			for pid, target := range r.Players {
				if pid == proj.OwnerID || !target.Alive {
					continue
				}
				xzDist := world.Vec3{X: end.X - target.Pos.X, Z: end.Z - target.Pos.Z}.XZLen()
				if xzDist <= r.Config.PlayerRadius+proj.Radius {
					hit = true
					break
				}
			}
		}

		proj.Pos = end

		if hit {
			detonate(r, proj)
			delete(r.Projectiles, id)
		} else if proj.TTL <= 0 || end.Y <= r.Map.Bounds.Min.Y {
			delete(r.Projectiles, id)
		}
	}
}

func detonate(r *Room, proj *Projectile) {
	spec := r.Config.Weapon(proj.WeaponID)
	r.pushGlobal(EventProjectileHit, map[string]interface{}{
		"projectileId": proj.ProjectileID,
		"pos":          [3]float64{proj.Pos.X, proj.Pos.Y, proj.Pos.Z},
	})
	if spec.ExplosionRadius <= 0 {
		return
	}
	r.pushGlobal(EventExplosion, map[string]interface{}{
		"pos":    [3]float64{proj.Pos.X, proj.Pos.Y, proj.Pos.Z},
		"radius": spec.ExplosionRadius,
	})
	for id, target := range r.Players {
		if !target.Alive {
			continue
		}
		dist := world.Vec3{X: target.Pos.X - proj.Pos.X, Z: target.Pos.Z - proj.Pos.Z}.XZLen()
		if dist > spec.ExplosionRadius {
			continue
		}
		falloff := 1 - dist/spec.ExplosionRadius
		dmg := spec.Damage * falloff
		if dmg < 0.5 {
			continue
		}
		pos := proj.Pos
		applyDamage(r, proj.OwnerID, id, dmg, false, &pos)
	}
}
