package game

import (
	"fight-club/internal/config"
	"fight-club/internal/game/world"
)

// testMap builds a small open arena with no colliders, used by every unit
// test in this package that needs a room but not real geometry.
func testMap() *world.Map {
	return &world.Map{
		MapID:  "test01",
		Bounds: world.AABB{Min: world.Vec3{X: -20, Y: 0, Z: -20}, Max: world.Vec3{X: 20, Y: 10, Z: 20}},
		Spawns: []world.Vec3{{X: 0, Y: 0, Z: 0}, {X: 5, Y: 0, Z: 5}},
	}
}

// testRoomConfig returns a RoomConfig with bots disabled so test rooms only
// contain the players a test explicitly adds.
func testRoomConfig() config.RoomConfig {
	cfg := config.DefaultRoomConfig()
	cfg.BotsEnabled = false
	return cfg
}

func newTestRoom() *Room {
	return NewRoom("room0", testMap(), testRoomConfig(), nil)
}

// addTestPlayer adds a player directly, bypassing the AddPlayer door's
// locking (tests call this before touching the room from other goroutines).
func addTestPlayer(r *Room, id, name string) *Player {
	return r.spawnPlayer(id, name)
}
