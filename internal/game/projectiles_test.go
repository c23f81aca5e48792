package game

import (
	"testing"

	"fight-club/internal/game/world"
)

// TestStepProjectilesExpiresOnTTL checks that a TTL expiry is a silent
// removal: no detonation, no hit/explosion event, and no damage to a
// bystander sitting right where the projectile dies.
func TestStepProjectilesExpiresOnTTL(t *testing.T) {
	r := newTestRoom()
	owner := addTestPlayer(r, "owner", "Owner")
	owner.Pos = world.Vec3{X: 50, Y: 0, Z: 50}
	bystander := addTestPlayer(r, "bystander", "Bystander")
	bystander.Pos = world.Vec3{X: 0, Y: 5, Z: 0}

	proj := newProjectile("proj1", owner.PlayerID, "rocket", world.Vec3{X: 0, Y: 5, Z: 0}, world.Vec3{}, 0.18)
	proj.TTL = 0.01
	r.Projectiles["proj1"] = proj

	stepProjectiles(r, 0.1)
	if _, ok := r.Projectiles["proj1"]; ok {
		t.Error("expected the projectile to be removed once its TTL expires")
	}
	if len(r.globalEvents) != 0 {
		t.Errorf("expected no events from a TTL expiry, got %v", r.globalEvents)
	}
	if bystander.HP != 100 {
		t.Errorf("expected no splash damage from a silent TTL expiry, HP=%v", bystander.HP)
	}
}

// TestStepProjectilesOutOfBoundsExpiresSilently mirrors the TTL case for a
// projectile that falls below the map floor before its TTL runs out.
func TestStepProjectilesOutOfBoundsExpiresSilently(t *testing.T) {
	r := newTestRoom()
	owner := addTestPlayer(r, "owner", "Owner")
	owner.Pos = world.Vec3{X: 50, Y: 0, Z: 50}

	proj := newProjectile("proj1", owner.PlayerID, "rocket", world.Vec3{X: 0, Y: 0.05, Z: 0}, world.Vec3{Y: -20}, 0.18)
	proj.TTL = 10
	r.Projectiles["proj1"] = proj

	stepProjectiles(r, 1.0)
	if _, ok := r.Projectiles["proj1"]; ok {
		t.Error("expected the projectile to be removed once it falls below map bounds")
	}
	if len(r.globalEvents) != 0 {
		t.Errorf("expected no events from an out-of-bounds expiry, got %v", r.globalEvents)
	}
}

// TestStepProjectilesSplashFalloff checks that rocket splash damages a
// player inside ExplosionRadius and never hits anything beyond it.
func TestStepProjectilesSplashFalloff(t *testing.T) {
	r := newTestRoom()
	owner := addTestPlayer(r, "owner", "Owner")
	near := addTestPlayer(r, "near", "Near")
	far := addTestPlayer(r, "far", "Far")

	blastCenter := world.Vec3{X: 0, Y: 0, Z: 0}
	owner.Pos = world.Vec3{X: 50, Y: 0, Z: 50} // well outside the blast
	near.Pos = world.Vec3{X: 1, Y: 0, Z: 0}    // 1 unit from center, radius 3
	far.Pos = world.Vec3{X: 10, Y: 0, Z: 0}    // outside the explosion radius

	proj := newProjectile("r1", owner.PlayerID, "rocket", blastCenter, world.Vec3{}, 0.18)
	detonate(r, proj)

	if near.HP >= 100 {
		t.Errorf("expected the nearby player to take splash damage, HP=%v", near.HP)
	}
	if far.HP != 100 {
		t.Errorf("expected the far player to take no splash damage, HP=%v", far.HP)
	}
}

func TestStepProjectilesHitscanWeaponsNeverSpawnOne(t *testing.T) {
	// fireProjectile is only reachable through the projectile weapon family;
	// this just documents that a hitscan weapon's id never appears as an
	// owner of a stored projectile after a normal fire resolves.
	r := newTestRoom()
	p := addTestPlayer(r, "p", "P")
	p.LastCmd = Command{Fire: true, WeaponID: "pistol"}

	stepWeapons(r, 0)
	if len(r.Projectiles) != 0 {
		t.Error("expected a hitscan weapon to never create a projectile")
	}
}

func TestStepProjectilesRocketSpawnsOnFire(t *testing.T) {
	r := newTestRoom()
	p := addTestPlayer(r, "p", "P")
	p.LastCmd = Command{Fire: true, WeaponID: "rocket"}

	stepWeapons(r, 0)
	if len(r.Projectiles) != 1 {
		t.Fatalf("expected exactly one projectile spawned, got %d", len(r.Projectiles))
	}
}

func TestDetonateNoExplosionRadiusOnlyReportsHit(t *testing.T) {
	r := newTestRoom()
	owner := addTestPlayer(r, "owner", "Owner")
	proj := newProjectile("p1", owner.PlayerID, "pistol", world.Vec3{}, world.Vec3{}, 0.1)

	// pistol has ExplosionRadius 0; detonate should not panic or damage
	// anyone and should only push the hit event.
	detonate(r, proj)
	if owner.HP != 100 {
		t.Error("expected no self-damage from a non-explosive detonation")
	}
	if len(r.globalEvents) != 1 || r.globalEvents[0].Type != EventProjectileHit {
		t.Errorf("expected only the projectile_hit event, got %v", r.globalEvents)
	}
}
