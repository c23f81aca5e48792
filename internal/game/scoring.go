package game

// stepScoring respawns dead players whose timer has elapsed, ends the round
// once a player reaches the kill target or the round clock expires, and
// resets the round a fixed delay after it ends.
func stepScoring(r *Room, dt float64) {
	for id, p := range r.Players {
		if !p.Alive && p.RespawnAt > 0 && r.T >= p.RespawnAt {
			r.respawnPlayer(id)
		}
	}

	if r.pendingReset {
		if r.T >= r.roundResetAt {
			r.resetRound()
		}
		return
	}

	if !r.roundActive {
		return
	}

	// Time takes priority over a kill-target win on the same tick: check it
	// first, and only look for a kills winner if the round is still active
	// after that check.
	if r.T >= r.roundEndsAt {
		r.endRound("time", "")
		return
	}

	for id, p := range r.Players {
		if p.Kills >= r.Config.KillsToWin {
			r.endRound("kills", id)
			return
		}
	}
}

func (r *Room) endRound(reason, winner string) {
	r.roundActive = false
	r.pendingReset = true
	r.roundResetAt = r.T + roundResetDelaySec
	r.pushGlobal(EventRoundEnd, map[string]interface{}{
		"reason":   reason,
		"winnerId": winner,
	})
}
