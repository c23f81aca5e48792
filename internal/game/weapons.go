package game

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strconv"

	"fight-club/internal/config"
	"fight-club/internal/game/world"
)

// bodyHeightOffset and headHeightOffset are the fixed heights above a
// target's position that the hitscan system tests against; they are literal constants rather than
// config, matching the spec's "(x, y+0.9, z)" / "(x, y+1.55, z)" text.
const (
	bodyHeightOffset = 0.9
	headHeightOffset = 1.55
	headRadiusScale  = 0.55
)

// stableHash is the deterministic substitute for the source's per-process
// hash(); Go's built-in map/string hashing is randomized per run, which
// would break reproducible per-shot RNG seeding. FNV-1a is stdlib and stable
// across calls, processes, and platforms.
func stableHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// shotSeed derives the deterministic seed for one hitscan shot's spread
// sampling: XORing the room's map seed, the shooter's stable hash, and the
// tick counter (scaled by a large odd multiplier) so that replaying the
// same room/player/tick always reproduces the same pellets.
func shotSeed(mapSeed int64, playerID string, serverTick int64) uint32 {
	return (uint32(mapSeed) ^ (stableHash(playerID) & 0xFFFFFFFF) ^ uint32(serverTick*2654435761)) & 0xFFFFFFFF
}

// stepWeapons resolves every living player's fire intent for this tick, in
// the fixed order the spec gives: switch weapon, complete an elapsed
// reload, start a requested reload (skipping fire), otherwise gate on fire
// rate/ammo and resolve the shot by weapon family.
func stepWeapons(r *Room, dt float64) {
	for id, p := range r.Players {
		if !p.Alive {
			continue
		}
		cmd := p.LastCmd

		if cmd.WeaponID != "" {
			if _, known := r.Config.Weapons[cmd.WeaponID]; known {
				p.WeaponID = cmd.WeaponID
			}
		}

		if p.ReloadingUntil > 0 && r.T >= p.ReloadingUntil {
			spec := r.Config.Weapon(p.WeaponID)
			p.Ammo[p.WeaponID] = spec.MaxAmmo
			p.ReloadingUntil = 0
			r.pushDirected(id, EventReloadDone, map[string]interface{}{"weaponId": p.WeaponID})
		}

		spec := r.Config.Weapon(p.WeaponID)
		if cmd.Reload && p.ReloadingUntil <= 0 && p.Ammo[p.WeaponID] < spec.MaxAmmo {
			p.ReloadingUntil = r.T + spec.ReloadSec
			r.pushDirected(id, EventReload, map[string]interface{}{"weaponId": p.WeaponID})
			continue
		}
		if p.ReloadingUntil > 0 {
			continue
		}

		if !cmd.Fire {
			continue
		}
		if r.T-p.LastFireAt < 1.0/spec.FireRate {
			continue
		}
		if p.Ammo[p.WeaponID] <= 0 {
			continue
		}

		p.LastFireAt = r.T
		p.Ammo[p.WeaponID]--

		r.pushDirected(id, EventFire, map[string]interface{}{
			"playerId": p.PlayerID,
			"weaponId": spec.WeaponID,
		})
		switch spec.Family {
		case config.FamilyProjectile:
			fireProjectile(r, p, spec)
		default:
			fireHitscan(r, p, spec)
		}
	}
}

func eyePos(r *Room, p *Player) world.Vec3 {
	return world.Vec3{X: p.Pos.X, Y: p.Pos.Y + r.Config.EyeHeight, Z: p.Pos.Z}
}

// aimDir derives the shot direction from yaw/pitch using the same camera
// convention the movement system uses for its forward vector: yaw=0 faces
// -Z, a positive pitch looks down.
func aimDir(p *Player) world.Vec3 {
	cy, sy := math.Cos(p.Yaw), math.Sin(p.Yaw)
	cp, sp := math.Cos(p.Pitch), math.Sin(p.Pitch)
	return world.Vec3{X: -sy * cp, Y: -sp, Z: -cy * cp}.Norm()
}

// orthonormalBasis builds two vectors perpendicular to d (and to each
// other) for sampling a cone of spread around the aim direction.
func orthonormalBasis(d world.Vec3) (world.Vec3, world.Vec3) {
	up := world.Vec3{X: 0, Y: 1, Z: 0}
	if math.Abs(d.Y) > 0.999 {
		up = world.Vec3{X: 1, Y: 0, Z: 0}
	}
	u := world.Vec3{
		X: d.Y*up.Z - d.Z*up.Y,
		Y: d.Z*up.X - d.X*up.Z,
		Z: d.X*up.Y - d.Y*up.X,
	}.Norm()
	v := world.Vec3{
		X: d.Y*u.Z - d.Z*u.Y,
		Y: d.Z*u.X - d.X*u.Z,
		Z: d.X*u.Y - d.Y*u.X,
	}.Norm()
	return u, v
}

// sampleSpread draws a uniform-in-solid-angle direction inside a cone of
// half-angle spreadRad around d: azimuth uniform in [0,2π), cos(polar)
// uniform in [cos(spreadRad), 1].
func sampleSpread(d world.Vec3, spreadRad float64, rng *rand.Rand) world.Vec3 {
	if spreadRad <= 0 {
		return d
	}
	u, v := orthonormalBasis(d)
	theta := rng.Float64() * 2 * math.Pi
	cosSpread := math.Cos(spreadRad)
	cosAlpha := cosSpread + rng.Float64()*(1-cosSpread)
	sinAlpha := math.Sqrt(math.Max(0, 1-cosAlpha*cosAlpha))

	dir := world.Vec3{
		X: d.X*cosAlpha + (u.X*math.Cos(theta)+v.X*math.Sin(theta))*sinAlpha,
		Y: d.Y*cosAlpha + (u.Y*math.Cos(theta)+v.Y*math.Sin(theta))*sinAlpha,
		Z: d.Z*cosAlpha + (u.Z*math.Cos(theta)+v.Z*math.Sin(theta))*sinAlpha,
	}
	return dir.Norm()
}

func fireHitscan(r *Room, shooter *Player, spec config.WeaponSpec) {
	origin := eyePos(r, shooter)
	base := aimDir(shooter)
	seed := shotSeed(r.Seed, shooter.PlayerID, r.ServerTick)
	rng := rand.New(rand.NewSource(int64(seed)))

	pellets := spec.Pellets
	if pellets < 1 {
		pellets = 1
	}
	for i := 0; i < pellets; i++ {
		dir := sampleSpread(base, spec.SpreadRad, rng)
		resolveHitscanPellet(r, shooter, spec, origin, dir)
	}
}

// resolveHitscanPellet finds the nearest thing the ray hits within range —
// a wall, a body sphere, or a head sphere — and applies damage if it was a
// player, headshot doubling handled inside applyDamage.
func resolveHitscanPellet(r *Room, shooter *Player, spec config.WeaponSpec, origin, dir world.Vec3) {
	limit := spec.Range
	if t, ok := firstObstacleHit(origin, dir, r.Map.Colliders, limit); ok {
		limit = t
	}

	bestT := limit
	hitPlayerID := ""
	headshot := false

	for id, target := range r.Players {
		if id == shooter.PlayerID || !target.Alive {
			continue
		}
		bodyCenter := world.Vec3{X: target.Pos.X, Y: target.Pos.Y + bodyHeightOffset, Z: target.Pos.Z}
		if t, ok := raySphere(origin, dir, bodyCenter, r.Config.PlayerRadius); ok && t <= bestT {
			bestT = t
			hitPlayerID = id
			headshot = false
		}
		headCenter := world.Vec3{X: target.Pos.X, Y: target.Pos.Y + headHeightOffset, Z: target.Pos.Z}
		if t, ok := raySphere(origin, dir, headCenter, headRadiusScale*r.Config.PlayerRadius); ok && t <= bestT {
			bestT = t
			hitPlayerID = id
			headshot = true
		}
	}

	if hitPlayerID == "" {
		r.pushGlobal(EventMiss, map[string]interface{}{"playerId": shooter.PlayerID})
		return
	}

	r.pushGlobal(EventHit, map[string]interface{}{
		"playerId": shooter.PlayerID,
		"targetId": hitPlayerID,
		"headshot": headshot,
	})
	hitPos := world.Vec3{X: origin.X + dir.X*bestT, Y: origin.Y + dir.Y*bestT, Z: origin.Z + dir.Z*bestT}
	applyDamage(r, shooter.PlayerID, hitPlayerID, spec.Damage, headshot, &hitPos)
}

func fireProjectile(r *Room, shooter *Player, spec config.WeaponSpec) {
	origin := eyePos(r, shooter)
	dir := aimDir(shooter)
	id := nextProjectileID(r)
	proj := newProjectile(id, shooter.PlayerID, spec.WeaponID, origin, dir.Mul(spec.ProjectileSpeed), spec.ProjectileRadius)
	r.Projectiles[id] = proj
	r.pushGlobal(EventProjectileSpawn, map[string]interface{}{
		"projectileId": id,
		"ownerId":      shooter.PlayerID,
		"weaponId":     spec.WeaponID,
	})
}

func nextProjectileID(r *Room) string {
	r.nextID++
	return "proj_" + strconv.FormatInt(r.nextID, 10)
}
