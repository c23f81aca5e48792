package game

import "fight-club/internal/game/world"

// Command is the latest player intent as reported by a client input frame.
// It is written exactly once per accepted input message by the net edge
// and read (never written) by the simulation tick's systems. This is the
// typed replacement for the source's dynamic `lastCmd` dict.
type Command struct {
	MoveX, MoveY float64
	Jump         bool
	Sprint       bool
	Yaw, Pitch   float64
	Fire         bool
	WeaponID     string
	Reload       bool
}

// Player is one connected participant or bot inside a room. Every field is
// mutated only by the simulation tick; the net edge's only doors onto a
// Player are its LastCmd/LastInputSeq, written through Room.ApplyInput.
type Player struct {
	PlayerID string
	Name     string

	Pos world.Vec3
	Vel world.Vec3
	Yaw, Pitch float64

	HP, Armor float64
	WeaponID  string
	Ammo      map[string]int
	Alive     bool
	RespawnAt float64

	LastFireAt      float64
	ReloadingUntil  float64
	OnGround        bool

	LastInputSeq int64
	LastCmd      Command

	Kills, Deaths, Score int

	isBot bool
}

func newPlayer(id, name string, spawn world.Vec3, weapons map[string]int) *Player {
	ammo := make(map[string]int, len(weapons))
	for id, max := range weapons {
		ammo[id] = max
	}
	return &Player{
		PlayerID:       id,
		Name:           name,
		Pos:            spawn,
		WeaponID:       "pistol",
		Ammo:           ammo,
		HP:             100,
		Alive:          true,
		LastFireAt:     -999,
		LastInputSeq:   -1,
		LastCmd:        Command{WeaponID: "pistol"},
	}
}
