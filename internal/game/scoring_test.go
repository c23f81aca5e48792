package game

import "testing"

func TestStepScoringRespawnsAfterTimer(t *testing.T) {
	r := newTestRoom()
	p := addTestPlayer(r, "p", "P")
	p.Alive = false
	p.RespawnAt = 5
	r.T = 4

	stepScoring(r, 0)
	if p.Alive {
		t.Fatal("expected the player to stay dead before its respawn timer elapses")
	}

	r.T = 5
	stepScoring(r, 0)
	if !p.Alive {
		t.Fatal("expected the player to respawn once its timer elapses")
	}
	if p.HP != 100 {
		t.Errorf("expected a full-health respawn, got HP=%v", p.HP)
	}
}

// TestStepScoringRoundEndsOnKillTarget is the literal boundary scenario: the
// round ends the instant a player's kill count reaches KillsToWin.
func TestStepScoringRoundEndsOnKillTarget(t *testing.T) {
	r := newTestRoom()
	winner := addTestPlayer(r, "w", "Winner")
	r.roundActive = true
	r.roundEndsAt = 1000 // far in the future, so only the kill count can end it
	winner.Kills = r.Config.KillsToWin

	stepScoring(r, 0)
	if r.roundActive {
		t.Error("expected the round to end once a player reaches the kill target")
	}
	if !r.pendingReset {
		t.Error("expected a pending reset to be scheduled")
	}
}

func TestStepScoringRoundEndsOnTimeUp(t *testing.T) {
	r := newTestRoom()
	addTestPlayer(r, "p", "P")
	r.roundActive = true
	r.T = 10
	r.roundEndsAt = 10

	stepScoring(r, 0)
	if r.roundActive {
		t.Error("expected the round to end once the clock expires")
	}
}

func TestStepScoringResetsAfterDelay(t *testing.T) {
	r := newTestRoom()
	p := addTestPlayer(r, "p", "P")
	p.Kills = 7
	r.pendingReset = true
	r.roundResetAt = 10
	r.T = 9

	stepScoring(r, 0)
	if !r.pendingReset {
		t.Fatal("expected the room to remain in pendingReset before the delay elapses")
	}

	r.T = 10
	stepScoring(r, 0)
	if r.pendingReset {
		t.Error("expected pendingReset to clear once the reset delay elapses")
	}
	if p.Kills != 0 {
		t.Errorf("expected stats to clear on round reset, Kills = %d", p.Kills)
	}
	if !r.roundActive {
		t.Error("expected a fresh round to start after reset")
	}
}
