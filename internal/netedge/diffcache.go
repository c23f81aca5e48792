package netedge

import "fight-club/internal/game"

// diffCache remembers the last full "you" view sent to one connection so
// later waves can ship only the fields that changed. The very first
// snapshot after a join is always sent in full; want_deltas is never
// honored as anything but false on join (see SPEC_FULL.md's resolution of
// that Open Question), so every connection starts in full mode and only
// moves to delta once it has a baseline.
type diffCache struct {
	have bool
	last game.YouView
	tick int64
}

// diffYou returns (mode, baseTick, changedFields) — mode is "full" on the
// first wave after a join, whenever the connection hasn't asked for
// deltas, and afterward "delta" with only the subset of fields that
// differ from the previous wave, with baseTick naming which prior tick
// the delta is relative to.
func (c *diffCache) diffYou(you game.YouView, tick int64, wantDelta bool) (string, int64, interface{}) {
	if !c.have || !wantDelta {
		c.have = true
		c.last = you
		c.tick = tick
		return "full", 0, you
	}

	prev := c.last
	changed := map[string]interface{}{}
	if you.Pos != prev.Pos {
		changed["pos"] = you.Pos
	}
	if you.Vel != prev.Vel {
		changed["vel"] = you.Vel
	}
	if you.Yaw != prev.Yaw {
		changed["yaw"] = you.Yaw
	}
	if you.Pitch != prev.Pitch {
		changed["pitch"] = you.Pitch
	}
	if you.HP != prev.HP {
		changed["hp"] = you.HP
	}
	if you.Armor != prev.Armor {
		changed["armor"] = you.Armor
	}
	if you.WeaponID != prev.WeaponID {
		changed["weaponId"] = you.WeaponID
	}
	if you.Ammo != prev.Ammo {
		changed["ammo"] = you.Ammo
	}
	if you.Alive != prev.Alive {
		changed["alive"] = you.Alive
	}
	if you.Kills != prev.Kills {
		changed["kills"] = you.Kills
	}
	if you.Deaths != prev.Deaths {
		changed["deaths"] = you.Deaths
	}
	if you.Score != prev.Score {
		changed["score"] = you.Score
	}
	if you.LastInputSeq != prev.LastInputSeq {
		changed["lastInputSeq"] = you.LastInputSeq
	}
	changed["playerId"] = you.PlayerID

	baseTick := c.tick
	c.last = you
	c.tick = tick
	return "delta", baseTick, changed
}
