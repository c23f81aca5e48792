package game

const pickupRespawnSec = 18.0

const (
	healthPickupAmount = 35.0
	armorPickupAmount  = 25.0
)

// stepPickups collects available pickups touched by a living player this
// tick and ticks down unavailable pickups toward their respawn. A pickup's
// touch radius scales with the player's own radius, not a fixed constant.
func stepPickups(r *Room, dt float64) {
	touchRadius := r.Config.PlayerRadius + 0.45

	for id, pk := range r.Pickups {
		if !pk.Available {
			if r.T >= pk.RespawnAt {
				pk.Available = true
				r.pushGlobal(EventPickupSpawn, map[string]interface{}{"pickupId": id})
			}
			continue
		}

		for pid, p := range r.Players {
			if !p.Alive {
				continue
			}
			d := p.Pos.Sub(pk.Pos)
			if d.XZLen() > touchRadius {
				continue
			}
			changed := applyPickup(r, p, pk)
			pk.Available = false
			pk.RespawnAt = r.T + pickupRespawnSec
			r.pushGlobal(EventPickup, map[string]interface{}{"pickupId": id, "playerId": pid, "kind": pk.Kind})
			// health/armor only confirm to the player when the pickup actually
			// changed something; ammo always confirms, even at a full magazine.
			if changed || pk.Kind == "ammo" {
				r.pushDirected(pid, EventPickup, map[string]interface{}{"pickupId": id, "kind": pk.Kind})
			}
			break
		}
	}
}

// applyPickup grants the pickup's effect and reports whether it actually
// changed anything (a full-health player touching a health pickup still
// consumes it, but gets no directed confirmation event).
func applyPickup(r *Room, p *Player, pk *Pickup) bool {
	switch pk.Kind {
	case "health":
		before := p.HP
		p.HP += healthPickupAmount
		if p.HP > maxHP {
			p.HP = maxHP
		}
		return p.HP != before
	case "armor":
		before := p.Armor
		p.Armor += armorPickupAmount
		if p.Armor > maxArmor {
			p.Armor = maxArmor
		}
		return p.Armor != before
	case "ammo":
		return refillAmmo(r, p, p.WeaponID)
	default:
		return false
	}
}

// refillAmmo tops up the current weapon by at least one shot, capped at the
// weapon's max magazine size.
func refillAmmo(r *Room, p *Player, weaponID string) bool {
	spec := r.Config.Weapon(weaponID)
	before := p.Ammo[weaponID]
	refill := spec.MaxAmmo / 2
	if refill < 1 {
		refill = 1
	}
	p.Ammo[weaponID] += refill
	if p.Ammo[weaponID] > spec.MaxAmmo {
		p.Ammo[weaponID] = spec.MaxAmmo
	}
	return p.Ammo[weaponID] != before
}
