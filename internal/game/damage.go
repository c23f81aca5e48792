package game

import "fight-club/internal/game/world"

const (
	maxHP    = 100.0
	maxArmor = 75.0
)

// applyDamage resolves one hit against an alive victim from an alive
// attacker: armor absorbs half the incoming damage before HP does, a
// directed hit event goes to the attacker, a global damage event goes to
// the room, and an optional hitPos drives a small knockback away from the
// impact. If the hit kills the victim, scoring, respawn scheduling, and
// persistence follow. attackerID may equal targetID — explosion splash
// reaching its own owner is preserved behavior, not patched out; see
// DESIGN.md.
func applyDamage(r *Room, attackerID, targetID string, baseDamage float64, headshot bool, hitPos *world.Vec3) {
	target, ok := r.Players[targetID]
	if !ok || !target.Alive {
		return
	}
	attacker, ok := r.Players[attackerID]
	if !ok || !attacker.Alive {
		return
	}

	damage := baseDamage
	if headshot {
		damage *= 2
	}

	absorbed := 0.0
	if target.Armor > 0 {
		absorbed = damage * 0.5
		if absorbed > target.Armor {
			absorbed = target.Armor
		}
		target.Armor -= absorbed
		damage -= absorbed
	}
	target.HP -= damage

	r.pushDirected(attackerID, EventHit, map[string]interface{}{
		"targetId": targetID,
		"amount":   damage,
		"headshot": headshot,
	})
	r.pushGlobal(EventDamage, map[string]interface{}{
		"attackerId": attackerID,
		"targetId":   targetID,
		"amount":     damage,
	})

	if hitPos != nil {
		away := target.Pos.Sub(*hitPos).Norm()
		target.Vel.X += away.X * 1.5
		target.Vel.Z += away.Z * 1.5
	}

	if target.HP > 0 {
		return
	}

	target.HP = 0
	target.Alive = false
	target.Deaths++
	target.RespawnAt = r.T + r.Config.RespawnSec
	attacker.Kills++
	attacker.Score += 100

	r.pushGlobal(EventKill, map[string]interface{}{
		"attackerId": attackerID,
		"victimId":   targetID,
	})

	persistCombatants(r, attackerID, targetID)
}

// persistCombatants writes both players' cumulative stats through the
// room's store, best-effort: a write failure never aborts the tick.
func persistCombatants(r *Room, attackerID, targetID string) {
	if r.Store == nil {
		return
	}
	if p, ok := r.Players[targetID]; ok {
		_ = r.Store.UpsertPlayer(p.Name, p.Kills, p.Deaths, p.Score)
	}
	if attackerID != targetID {
		if p, ok := r.Players[attackerID]; ok {
			_ = r.Store.UpsertPlayer(p.Name, p.Kills, p.Deaths, p.Score)
		}
	}
}
