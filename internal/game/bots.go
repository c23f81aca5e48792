package game

import (
	"math"
	"math/rand"

	"fight-club/internal/game/world"
)

const (
	botWanderIntervalSec = 1.6
	botWanderRadiusMin   = 4.0
	botWanderRadiusMax   = 8.0
	botWanderCandidates  = 8
	botStuckThresholdSec = 1.0
	botStuckDeltaXZ      = 0.02
	botWeaponID          = "pistol"
)

// botScratch is a bot's private planning state, never touched by the net
// edge and never serialized.
type botScratch struct {
	lastPos    world.Vec3
	havePos    bool
	stuckTime  float64

	waypoint     world.Vec3
	wandering    bool
	nextWanderAt float64
}

// botWanderSeed mirrors the source's bot wander RNG: deterministic per
// room/bot/decision-tick so replays of the same room reproduce the same
// wander pattern.
func botWanderSeed(roomSeed int64, botID string, t float64) uint32 {
	return (uint32(roomSeed) ^ (stableHash(botID) & 0xFFFFFFFF) ^ uint32(int64(t*10))) & 0xFFFFFFFF
}

// stepBots drives every bot's Command for this tick: pick a target (humans
// preferred over other bots), engage it if close and visible, otherwise
// walk toward it via the nav grid, diverting to a short random wander
// whenever stuck against geometry.
func stepBots(r *Room, dt float64) {
	for id := range r.Bots {
		bot, ok := r.Players[id]
		if !ok || !bot.Alive {
			continue
		}
		sc, ok := r.botState[id]
		if !ok {
			sc = &botScratch{}
			r.botState[id] = sc
		}

		trackStuck(bot, sc, dt)

		target := selectBotTarget(r, bot)
		if target == nil {
			bot.LastCmd = Command{WeaponID: botWeaponID}
			continue
		}

		if sc.stuckTime > botStuckThresholdSec && !sc.wandering {
			startBotWander(r, id, bot, sc)
		}

		goal := target.Pos
		if sc.wandering {
			if r.T >= sc.nextWanderAt {
				sc.wandering = false
			} else {
				goal = sc.waypoint
			}
		}

		dx, dz := r.Nav.NextDirection(bot.Pos, goal)
		yaw := bot.Yaw
		if dx != 0 || dz != 0 {
			yaw = math.Atan2(-dx, -dz)
		}
		bot.LastCmd = Command{
			MoveX:    0,
			MoveY:    1,
			Sprint:   true,
			Yaw:      yaw,
			Pitch:    0,
			WeaponID: botWeaponID,
		}

		if !sc.wandering && botCanEngage(r, bot, target, dx, dz) {
			bot.LastCmd.Fire = true
		}
	}
}

// trackStuck accumulates time while the bot's XZ displacement since the
// previous tick stays below botStuckDeltaXZ, resetting whenever it moves.
func trackStuck(bot *Player, sc *botScratch, dt float64) {
	if !sc.havePos {
		sc.lastPos = bot.Pos
		sc.havePos = true
		return
	}
	if bot.Pos.Sub(sc.lastPos).XZLen() < botStuckDeltaXZ {
		sc.stuckTime += dt
	} else {
		sc.stuckTime = 0
	}
	sc.lastPos = bot.Pos
}

// selectBotTarget picks the nearest alive non-bot player; failing that,
// the nearest alive player other than the bot itself (including bots).
func selectBotTarget(r *Room, bot *Player) *Player {
	var bestHuman, bestAny *Player
	bestHumanDist, bestAnyDist := math.Inf(1), math.Inf(1)

	for id, other := range r.Players {
		if id == bot.PlayerID || !other.Alive {
			continue
		}
		dist := other.Pos.Sub(bot.Pos).XZLen()
		if dist < bestAnyDist {
			bestAnyDist = dist
			bestAny = other
		}
		if !other.isBot && dist < bestHumanDist {
			bestHumanDist = dist
			bestHuman = other
		}
	}
	if bestHuman != nil {
		return bestHuman
	}
	return bestAny
}

// startBotWander samples up to botWanderCandidates random points at radius
// [4,8] around the bot, keeping the first the nav grid reports a usable
// direction toward, and commits to wandering there for botWanderIntervalSec.
func startBotWander(r *Room, botID string, bot *Player, sc *botScratch) {
	seed := botWanderSeed(r.Seed, botID, r.T)
	rng := rand.New(rand.NewSource(int64(seed)))

	for i := 0; i < botWanderCandidates; i++ {
		theta := rng.Float64() * 2 * math.Pi
		radius := botWanderRadiusMin + rng.Float64()*(botWanderRadiusMax-botWanderRadiusMin)
		candidate := world.Vec3{
			X: bot.Pos.X + math.Cos(theta)*radius,
			Y: bot.Pos.Y,
			Z: bot.Pos.Z + math.Sin(theta)*radius,
		}
		candidate.X = world.Clamp(candidate.X, r.Map.Bounds.Min.X, r.Map.Bounds.Max.X)
		candidate.Z = world.Clamp(candidate.Z, r.Map.Bounds.Min.Z, r.Map.Bounds.Max.Z)

		if dx, dz := r.Nav.NextDirection(bot.Pos, candidate); dx != 0 || dz != 0 {
			sc.waypoint = candidate
			sc.wandering = true
			sc.nextWanderAt = r.T + botWanderIntervalSec
			sc.stuckTime = 0
			return
		}
	}
	// No viable candidate found; stay on the direct path to the target.
	sc.stuckTime = 0
}

// botCanEngage reports whether the bot should fire at target this tick:
// within range of the pistol (capped at 28 units) and with no collider
// strictly nearer than the target along the ray cast in the same direction
// (dx, dz) the bot is already steering toward this tick — not a freshly
// recomputed line to target.Pos, which can diverge from the steering
// direction while the bot is navigating around geometry.
func botCanEngage(r *Room, bot, target *Player, dx, dz float64) bool {
	spec := r.Config.Weapon(botWeaponID)
	engageRange := math.Min(28, spec.Range)

	dist := (world.Vec3{X: target.Pos.X - bot.Pos.X, Z: target.Pos.Z - bot.Pos.Z}).XZLen()
	if dist > engageRange {
		return false
	}

	origin := eyePos(r, bot)
	dir := world.Vec3{X: dx, Y: 0, Z: dz}
	if t, blocked := firstObstacleHit(origin, dir, r.Map.Colliders, dist); blocked && t < dist {
		return false
	}
	return true
}
